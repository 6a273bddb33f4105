package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "voicediary.Diary"

// Full method names, as seen by interceptors.
const (
	MethodPing                = "/" + ServiceName + "/Ping"
	MethodRegisterUser        = "/" + ServiceName + "/RegisterUser"
	MethodLogin               = "/" + ServiceName + "/Login"
	MethodRefreshToken        = "/" + ServiceName + "/RefreshToken"
	MethodRequestUpload       = "/" + ServiceName + "/RequestUpload"
	MethodSaveEntry           = "/" + ServiceName + "/SaveEntry"
	MethodListEntries         = "/" + ServiceName + "/ListEntries"
	MethodUpdateSummary       = "/" + ServiceName + "/UpdateSummary"
	MethodUpdatePrivacy       = "/" + ServiceName + "/UpdatePrivacy"
	MethodSendFriendRequest   = "/" + ServiceName + "/SendFriendRequest"
	MethodAcceptFriendRequest = "/" + ServiceName + "/AcceptFriendRequest"
	MethodListFriends         = "/" + ServiceName + "/ListFriends"
	MethodListPendingRequests = "/" + ServiceName + "/ListPendingRequests"
	MethodFetchNotifications  = "/" + ServiceName + "/FetchNotifications"
)

// DiaryServer is implemented by the gRPC server.
type DiaryServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	RegisterUser(context.Context, *RegisterUserRequest) (*RegisterUserResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	RefreshToken(context.Context, *RefreshTokenRequest) (*RefreshTokenResponse, error)
	RequestUpload(context.Context, *RequestUploadRequest) (*RequestUploadResponse, error)
	SaveEntry(context.Context, *SaveEntryRequest) (*SaveEntryResponse, error)
	ListEntries(context.Context, *ListEntriesRequest) (*ListEntriesResponse, error)
	UpdateSummary(context.Context, *UpdateSummaryRequest) (*UpdateSummaryResponse, error)
	UpdatePrivacy(context.Context, *UpdatePrivacyRequest) (*UpdatePrivacyResponse, error)
	SendFriendRequest(context.Context, *SendFriendRequestRequest) (*SendFriendRequestResponse, error)
	AcceptFriendRequest(context.Context, *AcceptFriendRequestRequest) (*AcceptFriendRequestResponse, error)
	ListFriends(context.Context, *ListFriendsRequest) (*ListFriendsResponse, error)
	ListPendingRequests(context.Context, *ListPendingRequestsRequest) (*ListPendingRequestsResponse, error)
	FetchNotifications(context.Context, *FetchNotificationsRequest) (*FetchNotificationsResponse, error)
}

// UnimplementedDiaryServer answers every call with codes.Unimplemented.
// Embed it to satisfy DiaryServer partially.
type UnimplementedDiaryServer struct{}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

func (UnimplementedDiaryServer) Ping(context.Context, *PingRequest) (*PingResponse, error) {
	return nil, unimplemented("Ping")
}
func (UnimplementedDiaryServer) RegisterUser(context.Context, *RegisterUserRequest) (*RegisterUserResponse, error) {
	return nil, unimplemented("RegisterUser")
}
func (UnimplementedDiaryServer) Login(context.Context, *LoginRequest) (*LoginResponse, error) {
	return nil, unimplemented("Login")
}
func (UnimplementedDiaryServer) RefreshToken(context.Context, *RefreshTokenRequest) (*RefreshTokenResponse, error) {
	return nil, unimplemented("RefreshToken")
}
func (UnimplementedDiaryServer) RequestUpload(context.Context, *RequestUploadRequest) (*RequestUploadResponse, error) {
	return nil, unimplemented("RequestUpload")
}
func (UnimplementedDiaryServer) SaveEntry(context.Context, *SaveEntryRequest) (*SaveEntryResponse, error) {
	return nil, unimplemented("SaveEntry")
}
func (UnimplementedDiaryServer) ListEntries(context.Context, *ListEntriesRequest) (*ListEntriesResponse, error) {
	return nil, unimplemented("ListEntries")
}
func (UnimplementedDiaryServer) UpdateSummary(context.Context, *UpdateSummaryRequest) (*UpdateSummaryResponse, error) {
	return nil, unimplemented("UpdateSummary")
}
func (UnimplementedDiaryServer) UpdatePrivacy(context.Context, *UpdatePrivacyRequest) (*UpdatePrivacyResponse, error) {
	return nil, unimplemented("UpdatePrivacy")
}
func (UnimplementedDiaryServer) SendFriendRequest(context.Context, *SendFriendRequestRequest) (*SendFriendRequestResponse, error) {
	return nil, unimplemented("SendFriendRequest")
}
func (UnimplementedDiaryServer) AcceptFriendRequest(context.Context, *AcceptFriendRequestRequest) (*AcceptFriendRequestResponse, error) {
	return nil, unimplemented("AcceptFriendRequest")
}
func (UnimplementedDiaryServer) ListFriends(context.Context, *ListFriendsRequest) (*ListFriendsResponse, error) {
	return nil, unimplemented("ListFriends")
}
func (UnimplementedDiaryServer) ListPendingRequests(context.Context, *ListPendingRequestsRequest) (*ListPendingRequestsResponse, error) {
	return nil, unimplemented("ListPendingRequests")
}
func (UnimplementedDiaryServer) FetchNotifications(context.Context, *FetchNotificationsRequest) (*FetchNotificationsResponse, error) {
	return nil, unimplemented("FetchNotifications")
}

// unary adapts a typed DiaryServer method to a grpc.MethodDesc.
func unary[Req, Resp any](name string, call func(DiaryServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(DiaryServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + name}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(DiaryServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// DiaryServiceDesc describes the Diary service for grpc.Server.RegisterService.
var DiaryServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DiaryServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Ping", DiaryServer.Ping),
		unary("RegisterUser", DiaryServer.RegisterUser),
		unary("Login", DiaryServer.Login),
		unary("RefreshToken", DiaryServer.RefreshToken),
		unary("RequestUpload", DiaryServer.RequestUpload),
		unary("SaveEntry", DiaryServer.SaveEntry),
		unary("ListEntries", DiaryServer.ListEntries),
		unary("UpdateSummary", DiaryServer.UpdateSummary),
		unary("UpdatePrivacy", DiaryServer.UpdatePrivacy),
		unary("SendFriendRequest", DiaryServer.SendFriendRequest),
		unary("AcceptFriendRequest", DiaryServer.AcceptFriendRequest),
		unary("ListFriends", DiaryServer.ListFriends),
		unary("ListPendingRequests", DiaryServer.ListPendingRequests),
		unary("FetchNotifications", DiaryServer.FetchNotifications),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "internal/api/diary.go",
}

func RegisterDiaryServer(s grpc.ServiceRegistrar, srv DiaryServer) {
	s.RegisterService(&DiaryServiceDesc, srv)
}

// DiaryClient is the client stub for the Diary service.
type DiaryClient interface {
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
	RegisterUser(ctx context.Context, in *RegisterUserRequest, opts ...grpc.CallOption) (*RegisterUserResponse, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error)
	RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*RefreshTokenResponse, error)
	RequestUpload(ctx context.Context, in *RequestUploadRequest, opts ...grpc.CallOption) (*RequestUploadResponse, error)
	SaveEntry(ctx context.Context, in *SaveEntryRequest, opts ...grpc.CallOption) (*SaveEntryResponse, error)
	ListEntries(ctx context.Context, in *ListEntriesRequest, opts ...grpc.CallOption) (*ListEntriesResponse, error)
	UpdateSummary(ctx context.Context, in *UpdateSummaryRequest, opts ...grpc.CallOption) (*UpdateSummaryResponse, error)
	UpdatePrivacy(ctx context.Context, in *UpdatePrivacyRequest, opts ...grpc.CallOption) (*UpdatePrivacyResponse, error)
	SendFriendRequest(ctx context.Context, in *SendFriendRequestRequest, opts ...grpc.CallOption) (*SendFriendRequestResponse, error)
	AcceptFriendRequest(ctx context.Context, in *AcceptFriendRequestRequest, opts ...grpc.CallOption) (*AcceptFriendRequestResponse, error)
	ListFriends(ctx context.Context, in *ListFriendsRequest, opts ...grpc.CallOption) (*ListFriendsResponse, error)
	ListPendingRequests(ctx context.Context, in *ListPendingRequestsRequest, opts ...grpc.CallOption) (*ListPendingRequestsResponse, error)
	FetchNotifications(ctx context.Context, in *FetchNotificationsRequest, opts ...grpc.CallOption) (*FetchNotificationsResponse, error)
}

type diaryClient struct {
	cc grpc.ClientConnInterface
}

func NewDiaryClient(cc grpc.ClientConnInterface) DiaryClient {
	return &diaryClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *diaryClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, MethodPing, in, opts)
}

func (c *diaryClient) RegisterUser(ctx context.Context, in *RegisterUserRequest, opts ...grpc.CallOption) (*RegisterUserResponse, error) {
	return invoke[RegisterUserResponse](ctx, c.cc, MethodRegisterUser, in, opts)
}

func (c *diaryClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, MethodLogin, in, opts)
}

func (c *diaryClient) RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*RefreshTokenResponse, error) {
	return invoke[RefreshTokenResponse](ctx, c.cc, MethodRefreshToken, in, opts)
}

func (c *diaryClient) RequestUpload(ctx context.Context, in *RequestUploadRequest, opts ...grpc.CallOption) (*RequestUploadResponse, error) {
	return invoke[RequestUploadResponse](ctx, c.cc, MethodRequestUpload, in, opts)
}

func (c *diaryClient) SaveEntry(ctx context.Context, in *SaveEntryRequest, opts ...grpc.CallOption) (*SaveEntryResponse, error) {
	return invoke[SaveEntryResponse](ctx, c.cc, MethodSaveEntry, in, opts)
}

func (c *diaryClient) ListEntries(ctx context.Context, in *ListEntriesRequest, opts ...grpc.CallOption) (*ListEntriesResponse, error) {
	return invoke[ListEntriesResponse](ctx, c.cc, MethodListEntries, in, opts)
}

func (c *diaryClient) UpdateSummary(ctx context.Context, in *UpdateSummaryRequest, opts ...grpc.CallOption) (*UpdateSummaryResponse, error) {
	return invoke[UpdateSummaryResponse](ctx, c.cc, MethodUpdateSummary, in, opts)
}

func (c *diaryClient) UpdatePrivacy(ctx context.Context, in *UpdatePrivacyRequest, opts ...grpc.CallOption) (*UpdatePrivacyResponse, error) {
	return invoke[UpdatePrivacyResponse](ctx, c.cc, MethodUpdatePrivacy, in, opts)
}

func (c *diaryClient) SendFriendRequest(ctx context.Context, in *SendFriendRequestRequest, opts ...grpc.CallOption) (*SendFriendRequestResponse, error) {
	return invoke[SendFriendRequestResponse](ctx, c.cc, MethodSendFriendRequest, in, opts)
}

func (c *diaryClient) AcceptFriendRequest(ctx context.Context, in *AcceptFriendRequestRequest, opts ...grpc.CallOption) (*AcceptFriendRequestResponse, error) {
	return invoke[AcceptFriendRequestResponse](ctx, c.cc, MethodAcceptFriendRequest, in, opts)
}

func (c *diaryClient) ListFriends(ctx context.Context, in *ListFriendsRequest, opts ...grpc.CallOption) (*ListFriendsResponse, error) {
	return invoke[ListFriendsResponse](ctx, c.cc, MethodListFriends, in, opts)
}

func (c *diaryClient) ListPendingRequests(ctx context.Context, in *ListPendingRequestsRequest, opts ...grpc.CallOption) (*ListPendingRequestsResponse, error) {
	return invoke[ListPendingRequestsResponse](ctx, c.cc, MethodListPendingRequests, in, opts)
}

func (c *diaryClient) FetchNotifications(ctx context.Context, in *FetchNotificationsRequest, opts ...grpc.CallOption) (*FetchNotificationsResponse, error) {
	return invoke[FetchNotificationsResponse](ctx, c.cc, MethodFetchNotifications, in, opts)
}
