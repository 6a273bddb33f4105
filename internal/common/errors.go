// Package common defines shared constants and sentinel errors used across
// client and server layers of voicediary. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")
	ErrorValidation   = errors.New("validation error")

	// Entry-specific errors.
	ErrInvalidDate      = errors.New("invalid date, expected YYYY-MM-DD")
	ErrAlreadyFinalized = errors.New("summary already finalized")
	ErrInvalidMediaKind = errors.New("invalid media kind")

	// Social directory errors.
	ErrSelfFriendRequest = errors.New("cannot send a friend request to yourself")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
