// Package grpc exposes the diary services over gRPC.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/voicediary/internal/api"
	"github.com/dmitrijs2005/voicediary/internal/logging"
	"github.com/dmitrijs2005/voicediary/internal/server/models"
	"github.com/dmitrijs2005/voicediary/internal/server/services"
	"google.golang.org/grpc"
)

type userSvc interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
}

type entrySvc interface {
	RequestUpload(ctx context.Context, userID, date, kind, ext string) (string, string, error)
	SaveEntry(ctx context.Context, userID string, e *models.Entry) error
	ListEntries(ctx context.Context, viewerID, ownerName string) ([]*services.EntryView, error)
	UpdateSummary(ctx context.Context, userID, date, summary string) error
	UpdatePrivacy(ctx context.Context, userID, date string, isPublic bool) error
}

type socialSvc interface {
	SendFriendRequest(ctx context.Context, senderID, receiverName string) error
	AcceptFriendRequest(ctx context.Context, receiverID, senderName string) error
	ListFriends(ctx context.Context, userID string) ([]string, error)
	ListPendingRequests(ctx context.Context, userID string) ([]string, error)
	FetchNotifications(ctx context.Context, userID string) ([]*models.Notification, error)
}

type GRPCServer struct {
	api.UnimplementedDiaryServer
	address   string
	users     userSvc
	entries   entrySvc
	social    socialSvc
	logger    logging.Logger
	jwtSecret []byte
}

func NewGRPCServer(a string, l logging.Logger, us userSvc, es entrySvc, ss socialSvc, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		users:     us,
		entries:   es,
		social:    ss,
		jwtSecret: []byte(secretKey),
	}
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	api.RegisterDiaryServer(srv, s)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}
	return nil
}
