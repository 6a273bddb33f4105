// Package photos finds pictures taken on a given day in a local photo
// directory, using the EXIF capture time when a file carries one.
package photos

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/voicediary/internal/common"
	"github.com/dmitrijs2005/voicediary/internal/logging"
	"github.com/rwcarlsen/goexif/exif"
)

var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true,
	".heic": true, ".heif": true, ".tif": true, ".tiff": true,
}

var trashDirs = map[string]bool{
	"trash": true, ".trash": true, ".trashes": true, "recently deleted": true,
}

// Photo is what the library knows about one picture.
type Photo struct {
	Path string
	// Taken is the EXIF capture time, or the modification time without EXIF.
	Taken       time.Time
	FromEXIF    bool
	Orientation int
}

type Library struct {
	dir    string
	logger logging.Logger
}

func NewLibrary(dir string, l logging.Logger) *Library {
	return &Library{dir: dir, logger: l.With("module", "photos")}
}

// ForDate returns the sorted paths of pictures taken on date. A missing or
// unreadable directory yields an empty list.
func (l *Library) ForDate(ctx context.Context, date string) []string {
	if _, err := common.ParseDate(date); err != nil {
		l.logger.Warn(ctx, "photo lookup skipped", "error", err)
		return []string{}
	}

	matches := []string{}
	err := filepath.WalkDir(l.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == l.dir {
				return err
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			if path != l.dir && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") || !imageExts[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		p, err := Describe(path)
		if err != nil {
			return nil
		}
		if common.FormatDate(p.Taken) == date {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		l.logger.Warn(ctx, "photo library unavailable", "dir", l.dir, "error", err)
		return []string{}
	}

	slices.Sort(matches)
	return matches
}

func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || trashDirs[strings.ToLower(name)]
}

// Describe reads the capture time and orientation of the picture at path.
func Describe(path string) (Photo, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return Photo{}, err
	}
	p := Photo{Path: path, Taken: fi.ModTime().Local(), Orientation: 1}

	f, err := os.Open(path)
	if err != nil {
		return Photo{}, err
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return p, nil
	}
	if t, err := x.DateTime(); err == nil {
		p.Taken = t
		p.FromEXIF = true
	}
	if tag, err := x.Get(exif.Orientation); err == nil {
		if o, err := tag.Int(0); err == nil && o >= 1 && o <= 8 {
			p.Orientation = o
		}
	}
	return p, nil
}
