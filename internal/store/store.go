// Package store persists game snapshots. Each save is one pretty-printed
// JSON file named after the save; archives of many saves go to parquet.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	petname "github.com/dustinkirkland/golang-petname"
)

var (
	ErrNotFound    = errors.New("save not found")
	ErrNoSaves     = errors.New("no saved games")
	ErrInvalidName = errors.New("invalid save name")
)

const fileExt = ".json"

var validName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,63}$`)

// GameSave is one persisted game. FEN carries the whole board state; the
// clocks and chosen colour belong to the front end and are stored as given.
// PuzzleMoves is the number of solver moves left when Mode is "puzzle";
// PuzzleSolver and PuzzleMaxMoves are empty in saves from older builds.
type GameSave struct {
	Name           string    `json:"name"`
	FEN            string    `json:"fen"`
	Mode           string    `json:"gameMode"`
	PuzzleMoves    int       `json:"puzzleMovesLeft,omitempty"`
	PuzzleMaxMoves int       `json:"puzzleMaxMoves,omitempty"`
	PuzzleSolver   string    `json:"puzzleSolver,omitempty"`
	ChosenColor    string    `json:"chosenColor,omitempty"`
	WhiteClockMs   int64     `json:"whiteTimeRemaining"`
	BlackClockMs   int64     `json:"blackTimeRemaining"`
	Timestamp      time.Time `json:"timestamp"`
}

// FileStore keeps saves as <dir>/<name>.json.
type FileStore struct {
	dir   string
	now   func() time.Time
	names func() string
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("store: empty directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	return &FileStore{
		dir:   dir,
		now:   time.Now,
		names: func() string { return petname.Generate(2, "-") },
	}, nil
}

func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name+fileExt)
}

// Save writes the snapshot, replacing any save of the same name. An empty
// name gets a generated one and a zero timestamp is set to now. The stored
// value is returned.
func (s *FileStore) Save(save GameSave) (GameSave, error) {
	save.Name = strings.TrimSpace(save.Name)
	if save.Name == "" {
		save.Name = s.names()
	}
	if !validName.MatchString(save.Name) {
		return GameSave{}, fmt.Errorf("%w: %q", ErrInvalidName, save.Name)
	}
	if save.Timestamp.IsZero() {
		save.Timestamp = s.now()
	}
	data, err := json.MarshalIndent(save, "", "  ")
	if err != nil {
		return GameSave{}, err
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(s.dir, "."+save.Name+"-*")
	if err != nil {
		return GameSave{}, fmt.Errorf("store: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return GameSave{}, fmt.Errorf("store: write %s: %w", save.Name, err)
	}
	if err := tmp.Close(); err != nil {
		return GameSave{}, fmt.Errorf("store: write %s: %w", save.Name, err)
	}
	if err := os.Rename(tmp.Name(), s.path(save.Name)); err != nil {
		return GameSave{}, fmt.Errorf("store: %w", err)
	}
	return save, nil
}

// Load reads the save with the given name.
func (s *FileStore) Load(name string) (GameSave, error) {
	if !validName.MatchString(name) {
		return GameSave{}, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return readSave(s.path(name))
}

// LoadLatest returns the most recently written save.
func (s *FileStore) LoadLatest() (GameSave, error) {
	entries, err := s.entries()
	if err != nil {
		return GameSave{}, err
	}
	if len(entries) == 0 {
		return GameSave{}, ErrNoSaves
	}
	return readSave(entries[0].path)
}

// List returns every readable save, newest first. Files that fail to parse
// are skipped.
func (s *FileStore) List() ([]GameSave, error) {
	entries, err := s.entries()
	if err != nil {
		return nil, err
	}
	out := make([]GameSave, 0, len(entries))
	for _, e := range entries {
		save, err := readSave(e.path)
		if err != nil {
			continue
		}
		out = append(out, save)
	}
	return out, nil
}

type entry struct {
	path    string
	name    string
	modTime time.Time
}

// entries lists save files ordered by modification time, newest first.
func (s *FileStore) entries() ([]entry, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	out := make([]entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if de.IsDir() || strings.HasPrefix(de.Name(), ".") || filepath.Ext(de.Name()) != fileExt {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		out = append(out, entry{
			path:    filepath.Join(s.dir, de.Name()),
			name:    strings.TrimSuffix(de.Name(), fileExt),
			modTime: info.ModTime(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].modTime.Equal(out[j].modTime) {
			return out[i].modTime.After(out[j].modTime)
		}
		return out[i].name < out[j].name
	})
	return out, nil
}

func readSave(path string) (GameSave, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return GameSave{}, fmt.Errorf("%w: %s", ErrNotFound, filepath.Base(path))
		}
		return GameSave{}, fmt.Errorf("store: %w", err)
	}
	var save GameSave
	if err := json.Unmarshal(data, &save); err != nil {
		return GameSave{}, fmt.Errorf("store: parse %s: %w", filepath.Base(path), err)
	}
	return save, nil
}
