// Package api is the wire contract between the voicediary client and server.
//
// Messages are plain Go structs carried over gRPC with a JSON codec; the
// service descriptor and client stub are written by hand in diary.go.
package api

import "time"

// Media kinds accepted by RequestUpload.
const (
	KindAudio = "audio"
	KindImage = "image"
)

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type RegisterUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterUserResponse struct {
	UserID string `json:"user_id"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// RequestUploadRequest asks for a presigned PUT URL for one media object.
// Ext includes the leading dot (".wav", ".jpg").
type RequestUploadRequest struct {
	Date string `json:"date"`
	Kind string `json:"kind"`
	Ext  string `json:"ext"`
}

type RequestUploadResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// SaveEntryRequest upserts the caller's entry for Date. Empty keys keep
// whatever media the entry already had.
type SaveEntryRequest struct {
	Date     string `json:"date"`
	Summary  string `json:"summary"`
	AudioKey string `json:"audio_key,omitempty"`
	ImageKey string `json:"image_key,omitempty"`
	IsPublic bool   `json:"is_public"`
	IsEdited bool   `json:"is_edited"`
}

type SaveEntryResponse struct{}

// ListEntriesRequest lists entries of Owner (a username). Empty Owner means
// the caller.
type ListEntriesRequest struct {
	Owner string `json:"owner,omitempty"`
}

type ListEntriesResponse struct {
	Entries []*Entry `json:"entries"`
}

// Entry is a remote diary row with media exposed as short-lived URLs.
type Entry struct {
	Date     string `json:"date"`
	Summary  string `json:"summary"`
	AudioURL string `json:"audio_url,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
	IsPublic bool   `json:"is_public"`
	IsEdited bool   `json:"is_edited"`
}

type UpdateSummaryRequest struct {
	Date    string `json:"date"`
	Summary string `json:"summary"`
}

type UpdateSummaryResponse struct{}

type UpdatePrivacyRequest struct {
	Date     string `json:"date"`
	IsPublic bool   `json:"is_public"`
}

type UpdatePrivacyResponse struct{}

type SendFriendRequestRequest struct {
	Receiver string `json:"receiver"`
}

type SendFriendRequestResponse struct{}

type AcceptFriendRequestRequest struct {
	Sender string `json:"sender"`
}

type AcceptFriendRequestResponse struct{}

type ListFriendsRequest struct{}

type ListFriendsResponse struct {
	Usernames []string `json:"usernames"`
}

type ListPendingRequestsRequest struct{}

type ListPendingRequestsResponse struct {
	Senders []string `json:"senders"`
}

type FetchNotificationsRequest struct{}

type FetchNotificationsResponse struct {
	Notifications []*Notification `json:"notifications"`
}

type Notification struct {
	ID        int64     `json:"id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
