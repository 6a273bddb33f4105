package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/voicediary/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var codeBySentinel = []struct {
	err  error
	code codes.Code
}{
	{common.ErrorNotFound, codes.NotFound},
	{common.ErrorAlreadyExists, codes.AlreadyExists},
	{common.ErrorUnauthorized, codes.Unauthenticated},
	{common.ErrRefreshTokenExpired, codes.Unauthenticated},
	{common.ErrorForbidden, codes.PermissionDenied},
	{common.ErrAlreadyFinalized, codes.FailedPrecondition},
	{common.ErrInvalidDate, codes.InvalidArgument},
	{common.ErrInvalidMediaKind, codes.InvalidArgument},
	{common.ErrSelfFriendRequest, codes.InvalidArgument},
	{common.ErrorValidation, codes.InvalidArgument},
}

// toStatus converts a service error to a gRPC status. Known sentinels keep
// their message; anything else is logged and reported as Internal.
func (s *GRPCServer) toStatus(ctx context.Context, op string, err error) error {
	for _, m := range codeBySentinel {
		if errors.Is(err, m.err) {
			return status.Error(m.code, err.Error())
		}
	}
	s.logger.Error(ctx, op+" failed", "error", err)
	return status.Error(codes.Internal, "internal error")
}
