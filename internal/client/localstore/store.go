// Package localstore is the on-disk diary: a single JSON document mapping
// dates to entries, plus date-named audio and image files next to it.
//
// Layout under the root directory:
//
//	diary_db.json
//	recordings/<date>.wav
//	images/<date><ext>
package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/dmitrijs2005/voicediary/internal/common"
	"github.com/dmitrijs2005/voicediary/internal/filex"
)

const (
	dbFileName   = "diary_db.json"
	recordingDir = "recordings"
	imageDir     = "images"
)

// Entry is one stored diary record.
type Entry struct {
	Summary   string `json:"summary"`
	AudioPath string `json:"audio_path"`
	ImagePath string `json:"image_path,omitempty"`
	IsPublic  bool   `json:"is_public"`
	IsEdited  bool   `json:"is_edited"`
}

// SaveInput is what Save persists for a date. ImageSource, when set, is
// copied into the images directory.
type SaveInput struct {
	Summary     string
	Audio       []byte
	ImageSource string
	IsPublic    bool
	IsEdited    bool
}

// Store serializes writers within the process. Writers in other processes
// still race; the last full-file write wins.
type Store struct {
	mu     sync.Mutex
	root   string
	dbPath string
}

// Open prepares root and its media directories. The JSON file is created
// lazily on the first save.
func Open(root string) (*Store, error) {
	if _, err := filex.EnsureDir(root, recordingDir); err != nil {
		return nil, err
	}
	if _, err := filex.EnsureDir(root, imageDir); err != nil {
		return nil, err
	}
	return &Store{root: root, dbPath: filepath.Join(root, dbFileName)}, nil
}

// Load returns every entry keyed by date. A missing store file is an empty diary.
func (s *Store) Load() (map[string]*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() (map[string]*Entry, error) {
	b, err := os.ReadFile(s.dbPath)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]*Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.dbPath, err)
	}

	db := map[string]*Entry{}
	if len(strings.TrimSpace(string(b))) == 0 {
		return db, nil
	}
	if err := json.Unmarshal(b, &db); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.dbPath, err)
	}
	return db, nil
}

func (s *Store) write(db map[string]*Entry) error {
	b, err := json.MarshalIndent(db, "", "    ")
	if err != nil {
		return err
	}
	return filex.WriteFileAtomic(s.dbPath, b, 0o600)
}

// Get returns the entry for date, or common.ErrorNotFound.
func (s *Store) Get(date string) (*Entry, error) {
	db, err := s.Load()
	if err != nil {
		return nil, err
	}
	e, ok := db[date]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return e, nil
}

// Dates lists stored dates in ascending order.
func (s *Store) Dates() ([]string, error) {
	db, err := s.Load()
	if err != nil {
		return nil, err
	}
	dates := make([]string, 0, len(db))
	for d := range db {
		dates = append(dates, d)
	}
	slices.Sort(dates)
	return dates, nil
}

// Save writes the audio to recordings/<date>.wav, copies the image if any,
// and replaces the record for date.
func (s *Store) Save(date string, in SaveInput) (*Entry, error) {
	if _, err := common.ParseDate(date); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// The image is staged first so a bad source leaves the previous media intact.
	var imagePath, staged string
	if in.ImageSource != "" {
		ext := strings.ToLower(filepath.Ext(in.ImageSource))
		if ext == "" {
			ext = ".jpg"
		}
		imagePath = filepath.Join(s.root, imageDir, date+ext)
		staged = imagePath + ".partial"
		if err := filex.CopyFile(in.ImageSource, staged); err != nil {
			_ = os.Remove(staged)
			return nil, fmt.Errorf("copy image: %w", err)
		}
	}

	audioPath := filepath.Join(s.root, recordingDir, date+".wav")
	if err := filex.WriteFileAtomic(audioPath, in.Audio, 0o600); err != nil {
		if staged != "" {
			_ = os.Remove(staged)
		}
		return nil, fmt.Errorf("write audio: %w", err)
	}
	if staged != "" {
		if err := os.Rename(staged, imagePath); err != nil {
			_ = os.Remove(staged)
			return nil, fmt.Errorf("place image: %w", err)
		}
	}

	db, err := s.load()
	if err != nil {
		return nil, err
	}
	e := &Entry{
		Summary:   in.Summary,
		AudioPath: audioPath,
		ImagePath: imagePath,
		IsPublic:  in.IsPublic,
		IsEdited:  in.IsEdited,
	}
	db[date] = e
	if err := s.write(db); err != nil {
		return nil, err
	}
	return e, nil
}

// UpdateText replaces the summary and marks the entry edited. Unknown dates
// are ignored. The store does not refuse repeated edits.
func (s *Store) UpdateText(date, text string) error {
	return s.update(date, func(e *Entry) {
		e.Summary = text
		e.IsEdited = true
	})
}

// UpdatePrivacy changes only IsPublic. Unknown dates are ignored.
func (s *Store) UpdatePrivacy(date string, isPublic bool) error {
	return s.update(date, func(e *Entry) { e.IsPublic = isPublic })
}

func (s *Store) update(date string, fn func(*Entry)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.load()
	if err != nil {
		return err
	}
	e, ok := db[date]
	if !ok {
		return nil
	}
	fn(e)
	return s.write(db)
}
