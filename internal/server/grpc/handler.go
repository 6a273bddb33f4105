package grpc

import (
	"context"

	"github.com/dmitrijs2005/voicediary/internal/api"
	"github.com/dmitrijs2005/voicediary/internal/server/models"
)

func (s *GRPCServer) Ping(ctx context.Context, req *api.PingRequest) (*api.PingResponse, error) {
	return &api.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) RegisterUser(ctx context.Context, req *api.RegisterUserRequest) (*api.RegisterUserResponse, error) {
	s.logger.Info(ctx, "Registration request", "username", req.Username)

	u, err := s.users.Register(ctx, req.Username, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, "register", err)
	}

	s.logger.Info(ctx, "Registered", "username", u.UserName)
	return &api.RegisterUserResponse{UserID: u.ID}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *api.LoginRequest) (*api.LoginResponse, error) {
	tokens, err := s.users.Login(ctx, req.Username, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, "login", err)
	}
	return &api.LoginResponse{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *api.RefreshTokenRequest) (*api.RefreshTokenResponse, error) {
	tokens, err := s.users.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, s.toStatus(ctx, "refresh token", err)
	}
	return &api.RefreshTokenResponse{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil
}

func (s *GRPCServer) RequestUpload(ctx context.Context, req *api.RequestUploadRequest) (*api.RequestUploadResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	key, url, err := s.entries.RequestUpload(ctx, userID, req.Date, req.Kind, req.Ext)
	if err != nil {
		return nil, s.toStatus(ctx, "request upload", err)
	}
	return &api.RequestUploadResponse{Key: key, URL: url}, nil
}

func (s *GRPCServer) SaveEntry(ctx context.Context, req *api.SaveEntryRequest) (*api.SaveEntryResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	e := &models.Entry{
		Date:     req.Date,
		Summary:  req.Summary,
		AudioKey: req.AudioKey,
		ImageKey: req.ImageKey,
		IsPublic: req.IsPublic,
		IsEdited: req.IsEdited,
	}
	if err := s.entries.SaveEntry(ctx, userID, e); err != nil {
		return nil, s.toStatus(ctx, "save entry", err)
	}
	return &api.SaveEntryResponse{}, nil
}

func (s *GRPCServer) ListEntries(ctx context.Context, req *api.ListEntriesRequest) (*api.ListEntriesResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	views, err := s.entries.ListEntries(ctx, userID, req.Owner)
	if err != nil {
		return nil, s.toStatus(ctx, "list entries", err)
	}

	resp := &api.ListEntriesResponse{Entries: make([]*api.Entry, 0, len(views))}
	for _, v := range views {
		resp.Entries = append(resp.Entries, &api.Entry{
			Date:     v.Date,
			Summary:  v.Summary,
			AudioURL: v.AudioURL,
			ImageURL: v.ImageURL,
			IsPublic: v.IsPublic,
			IsEdited: v.IsEdited,
		})
	}
	return resp, nil
}

func (s *GRPCServer) UpdateSummary(ctx context.Context, req *api.UpdateSummaryRequest) (*api.UpdateSummaryResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.entries.UpdateSummary(ctx, userID, req.Date, req.Summary); err != nil {
		return nil, s.toStatus(ctx, "update summary", err)
	}
	return &api.UpdateSummaryResponse{}, nil
}

func (s *GRPCServer) UpdatePrivacy(ctx context.Context, req *api.UpdatePrivacyRequest) (*api.UpdatePrivacyResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.entries.UpdatePrivacy(ctx, userID, req.Date, req.IsPublic); err != nil {
		return nil, s.toStatus(ctx, "update privacy", err)
	}
	return &api.UpdatePrivacyResponse{}, nil
}

func (s *GRPCServer) SendFriendRequest(ctx context.Context, req *api.SendFriendRequestRequest) (*api.SendFriendRequestResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.social.SendFriendRequest(ctx, userID, req.Receiver); err != nil {
		return nil, s.toStatus(ctx, "send friend request", err)
	}
	return &api.SendFriendRequestResponse{}, nil
}

func (s *GRPCServer) AcceptFriendRequest(ctx context.Context, req *api.AcceptFriendRequestRequest) (*api.AcceptFriendRequestResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.social.AcceptFriendRequest(ctx, userID, req.Sender); err != nil {
		return nil, s.toStatus(ctx, "accept friend request", err)
	}
	return &api.AcceptFriendRequestResponse{}, nil
}

func (s *GRPCServer) ListFriends(ctx context.Context, req *api.ListFriendsRequest) (*api.ListFriendsResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	names, err := s.social.ListFriends(ctx, userID)
	if err != nil {
		return nil, s.toStatus(ctx, "list friends", err)
	}
	return &api.ListFriendsResponse{Usernames: names}, nil
}

func (s *GRPCServer) ListPendingRequests(ctx context.Context, req *api.ListPendingRequestsRequest) (*api.ListPendingRequestsResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	names, err := s.social.ListPendingRequests(ctx, userID)
	if err != nil {
		return nil, s.toStatus(ctx, "list pending requests", err)
	}
	return &api.ListPendingRequestsResponse{Senders: names}, nil
}

func (s *GRPCServer) FetchNotifications(ctx context.Context, req *api.FetchNotificationsRequest) (*api.FetchNotificationsResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	items, err := s.social.FetchNotifications(ctx, userID)
	if err != nil {
		return nil, s.toStatus(ctx, "fetch notifications", err)
	}
	resp := &api.FetchNotificationsResponse{Notifications: make([]*api.Notification, 0, len(items))}
	for _, n := range items {
		resp.Notifications = append(resp.Notifications, &api.Notification{ID: n.ID, Message: n.Message, CreatedAt: n.CreatedAt})
	}
	return resp, nil
}
