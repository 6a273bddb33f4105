// Package remote talks to the diary server: a gRPC client that carries and
// refreshes access tokens, and Store, the client view of the remote entry
// store built on top of it.
package remote

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/voicediary/internal/api"
	"github.com/dmitrijs2005/voicediary/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// TokenSink receives token pairs after login and after every refresh.
type TokenSink func(accessToken, refreshToken string)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      api.DiaryClient

	mu           sync.Mutex
	accessToken  string
	refreshToken string
	onTokens     TokenSink
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	if token != "" {
		md.Set(common.AccessTokenHeaderName, token)
	}
	return metadata.NewOutgoingContext(ctx, md)
}

// accessTokenInterceptor attaches the access token and, when the server
// reports it expired, refreshes once and retries the call.
func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	access, refresh := s.Tokens()
	err := invoker(withAccessToken(ctx, access), method, req, reply, cc, opts...)
	if err == nil || method == api.MethodRefreshToken {
		return err
	}

	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Unauthenticated || st.Message() != common.ErrTokenExpired.Error() {
		return err
	}
	if refresh == "" {
		return err
	}

	resp, rerr := s.client.RefreshToken(ctx, &api.RefreshTokenRequest{RefreshToken: refresh})
	if rerr != nil {
		return rerr
	}
	s.SetTokens(resp.AccessToken, resp.RefreshToken)

	return invoker(withAccessToken(ctx, resp.AccessToken), method, req, reply, cc, opts...)
}

func NewGRPCClient(endpointURL string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	conn, err := grpc.NewClient(endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = api.NewDiaryClient(conn)
	return c, nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

// OnTokens registers fn to be told about new token pairs.
func (s *GRPCClient) OnTokens(fn TokenSink) {
	s.mu.Lock()
	s.onTokens = fn
	s.mu.Unlock()
}

func (s *GRPCClient) SetTokens(access, refresh string) {
	s.mu.Lock()
	s.accessToken, s.refreshToken = access, refresh
	fn := s.onTokens
	s.mu.Unlock()
	if fn != nil {
		fn(access, refresh)
	}
}

func (s *GRPCClient) Tokens() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken, s.refreshToken
}

func (s *GRPCClient) LoggedIn() bool {
	access, _ := s.Tokens()
	return access != ""
}

// mapError turns a gRPC status back into the package or common sentinels.
func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.Unauthenticated:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.PermissionDenied:
		return fmt.Errorf("%w: %s", common.ErrorForbidden, st.Message())
	case codes.NotFound:
		return fmt.Errorf("%w: %s", common.ErrorNotFound, st.Message())
	case codes.AlreadyExists:
		return fmt.Errorf("%w: %s", common.ErrorAlreadyExists, st.Message())
	case codes.FailedPrecondition:
		return common.ErrAlreadyFinalized
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", common.ErrorValidation, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.client.Ping(ctx, &api.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) Register(ctx context.Context, userName, password string) error {
	_, err := s.client.RegisterUser(ctx, &api.RegisterUserRequest{Username: userName, Password: password})
	return s.mapError(err)
}

func (s *GRPCClient) Login(ctx context.Context, userName, password string) error {
	resp, err := s.client.Login(ctx, &api.LoginRequest{Username: userName, Password: password})
	if err != nil {
		return s.mapError(err)
	}
	s.SetTokens(resp.AccessToken, resp.RefreshToken)
	return nil
}

func (s *GRPCClient) Logout() {
	s.SetTokens("", "")
}

func (s *GRPCClient) RequestUpload(ctx context.Context, date, kind, ext string) (string, string, error) {
	resp, err := s.client.RequestUpload(ctx, &api.RequestUploadRequest{Date: date, Kind: kind, Ext: ext})
	if err != nil {
		return "", "", s.mapError(err)
	}
	return resp.Key, resp.URL, nil
}

func (s *GRPCClient) SaveEntry(ctx context.Context, req *api.SaveEntryRequest) error {
	_, err := s.client.SaveEntry(ctx, req)
	return s.mapError(err)
}

func (s *GRPCClient) ListEntries(ctx context.Context, owner string) ([]*api.Entry, error) {
	resp, err := s.client.ListEntries(ctx, &api.ListEntriesRequest{Owner: owner})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Entries, nil
}

func (s *GRPCClient) UpdateSummary(ctx context.Context, date, summary string) error {
	_, err := s.client.UpdateSummary(ctx, &api.UpdateSummaryRequest{Date: date, Summary: summary})
	return s.mapError(err)
}

func (s *GRPCClient) UpdatePrivacy(ctx context.Context, date string, isPublic bool) error {
	_, err := s.client.UpdatePrivacy(ctx, &api.UpdatePrivacyRequest{Date: date, IsPublic: isPublic})
	return s.mapError(err)
}

func (s *GRPCClient) SendFriendRequest(ctx context.Context, receiver string) error {
	_, err := s.client.SendFriendRequest(ctx, &api.SendFriendRequestRequest{Receiver: receiver})
	return s.mapError(err)
}

func (s *GRPCClient) AcceptFriendRequest(ctx context.Context, sender string) error {
	_, err := s.client.AcceptFriendRequest(ctx, &api.AcceptFriendRequestRequest{Sender: sender})
	return s.mapError(err)
}

func (s *GRPCClient) ListFriends(ctx context.Context) ([]string, error) {
	resp, err := s.client.ListFriends(ctx, &api.ListFriendsRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Usernames, nil
}

func (s *GRPCClient) ListPendingRequests(ctx context.Context) ([]string, error) {
	resp, err := s.client.ListPendingRequests(ctx, &api.ListPendingRequestsRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Senders, nil
}

func (s *GRPCClient) FetchNotifications(ctx context.Context) ([]*api.Notification, error) {
	resp, err := s.client.FetchNotifications(ctx, &api.FetchNotificationsRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Notifications, nil
}
