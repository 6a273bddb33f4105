// Package storage brokers access to the S3-compatible media bucket. The
// server never moves media bytes itself: clients PUT and GET objects with
// short-lived presigned URLs minted here.
package storage

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/dmitrijs2005/voicediary/internal/api"
	"github.com/dmitrijs2005/voicediary/internal/common"
)

// Presigner mints presigned object URLs.
type Presigner interface {
	PresignPut(ctx context.Context, key string) (string, error)
	PresignGet(ctx context.Context, key string) (string, error)
}

var defaultExt = map[string]string{
	api.KindAudio: ".wav",
	api.KindImage: ".jpg",
}

// ObjectKey derives the bucket key for a user's media of the given kind on
// date: users/<user_id>/<kind>/<date><ext>. Saving the same kind for the
// same date again overwrites the object.
func ObjectKey(userID, kind, date, ext string) (string, error) {
	def, ok := defaultExt[kind]
	if !ok {
		return "", fmt.Errorf("%w: %q", common.ErrInvalidMediaKind, kind)
	}
	if _, err := common.ParseDate(date); err != nil {
		return "", err
	}

	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		ext = def
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if strings.ContainsAny(ext[1:], `./\`) || len(ext) > 10 {
		return "", fmt.Errorf("%w: bad extension %q", common.ErrorValidation, ext)
	}

	return path.Join("users", userID, kind, date+ext), nil
}

// OwnsKey reports whether key lives under the user's prefix.
func OwnsKey(userID, key string) bool {
	return strings.HasPrefix(key, "users/"+userID+"/") && !strings.Contains(key, "..")
}
