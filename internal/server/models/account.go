package models

import "time"

// User is a registered diary owner. UserName is unique and is what friends
// use to address each other.
type User struct {
	ID           string
	UserName     string
	PasswordHash []byte
	CreatedAt    time.Time
}

// RefreshToken is single use: redeeming it deletes the row and issues a new one.
type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	Expires   time.Time
	CreatedAt time.Time
}

func (t *RefreshToken) Expired(now time.Time) bool {
	return !now.Before(t.Expires)
}
