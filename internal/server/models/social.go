package models

import "time"

// Friendship statuses.
const (
	FriendStatusPending  = "pending"
	FriendStatusAccepted = "accepted"
)

// Friendship is a directed request row; once accepted it is read symmetrically.
type Friendship struct {
	SenderID   string
	ReceiverID string
	Status     string
	CreatedAt  time.Time
}

type Notification struct {
	ID        int64
	UserID    string
	Message   string
	IsRead    bool
	CreatedAt time.Time
}
