// Package friends stores friend requests and accepted friendships.
package friends

import "context"

type Repository interface {
	// Create inserts a pending request. common.ErrorAlreadyExists if the pair
	// already has a row in either direction.
	Create(ctx context.Context, senderID, receiverID string) error
	// Accept flips a pending sender->receiver request to accepted.
	// common.ErrorNotFound if there is no such pending request.
	Accept(ctx context.Context, senderID, receiverID string) error
	// AreFriends reports whether an accepted row links a and b in either direction.
	AreFriends(ctx context.Context, a, b string) (bool, error)
	// ListFriends returns usernames of accepted friends, sorted.
	ListFriends(ctx context.Context, userID string) ([]string, error)
	// ListPending returns usernames of users with a pending request to userID, sorted.
	ListPending(ctx context.Context, userID string) ([]string, error)
}
