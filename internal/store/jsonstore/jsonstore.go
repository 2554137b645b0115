package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/esuji5/uchiwa-generator/internal/scene"
)

// JSON-backed storage, one file per key, each rewritten whole on save.
// Single writer; see Persister.

const (
	TextsKey       = "uchiwa_text_items"
	DecorationsKey = "uchiwa_decos"
)

type Store struct {
	dir string
}

func New(dir string) *Store { return &Store{dir: dir} }

func (s *Store) Dir() string { return s.dir }

func (s *Store) path(key string) string { return filepath.Join(s.dir, key+".json") }

// Load decodes the value stored under key into v. It reports false, with no
// error, when nothing has been stored yet.
func (s *Store) Load(key string, v any) (bool, error) {
	b, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read file: %w", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return false, fmt.Errorf("json unmarshal %s: %w", key, err)
	}
	return true, nil
}

// Save replaces the value under key. The file is written to a temporary
// name first so a crash never leaves half a document behind.
func (s *Store) Save(key string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	if err := os.Rename(tmp, s.path(key)); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// LoadTexts returns the stored text items, or nil when none are stored.
func (s *Store) LoadTexts() ([]scene.TextItem, error) {
	var items []scene.TextItem
	if _, err := s.Load(TextsKey, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// LoadDecorations returns the stored decorations, or nil when none are
// stored.
func (s *Store) LoadDecorations() ([]scene.Decoration, error) {
	var items []scene.Decoration
	if _, err := s.Load(DecorationsKey, &items); err != nil {
		return nil, err
	}
	return items, nil
}
