// Package models defines server-side data models persisted in the database.
package models

import "time"

// Entry is one diary row per (UserID, Date). Media is referenced by object
// storage key, never by URL; URLs are minted per request.
type Entry struct {
	UserID    string
	Date      string
	Summary   string
	AudioKey  string
	ImageKey  string
	IsPublic  bool
	IsEdited  bool
	UpdatedAt time.Time
}
