// Package library maintains the append-only JSON index of research runs.
//
// The index is rewritten in full on every append. Writes are atomic, but the
// load-append-save cycle takes no lock: two processes appending to the same
// library at once can drop an entry (last writer wins). Callers are expected
// to run one writer per library directory.
package library

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/ogulcanaydogan/aitools/internal/store"
	"github.com/ogulcanaydogan/aitools/pkg/schema"
	"github.com/ogulcanaydogan/aitools/pkg/types"
)

const IndexFile = "index.json"

type Store struct {
	dir    string
	logger *zap.Logger
}

func NewStore(dir string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{dir: dir, logger: logger.Named("library")}
}

func (s *Store) Dir() string { return s.dir }

// Path returns the location of the index file.
func (s *Store) Path() string {
	return filepath.Join(s.dir, IndexFile)
}

// Load reads the index. A missing or unreadable file, or a document that is
// not a JSON array, yields an empty slice instead of an error. Elements that
// do not decode as entries are skipped with a warning but stay in the file.
func (s *Store) Load() []types.IndexEntry {
	elems := s.loadRaw()
	entries := make([]types.IndexEntry, 0, len(elems))
	for i, elem := range elems {
		var e types.IndexEntry
		if err := json.Unmarshal(elem, &e); err != nil {
			s.logger.Warn("skipping index element that is not an entry",
				zap.String("path", s.Path()), zap.Int("position", i), zap.Error(err))
			continue
		}
		if e.Sources == nil {
			e.Sources = []types.WebSource{}
		}
		entries = append(entries, e)
	}
	return entries
}

// loadRaw returns the index elements exactly as stored.
func (s *Store) loadRaw() []json.RawMessage {
	path := s.Path()
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return []json.RawMessage{}
	}
	if err != nil {
		s.logger.Warn("index unreadable, treating as empty", zap.String("path", path), zap.Error(err))
		return []json.RawMessage{}
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		s.logger.Warn("index is not a JSON array, treating as empty", zap.String("path", path), zap.Error(err))
		return []json.RawMessage{}
	}
	if elems == nil {
		// "null" decodes without error.
		s.logger.Warn("index is not a JSON array, treating as empty", zap.String("path", path))
		return []json.RawMessage{}
	}

	if violations, err := schema.ValidateJSON(schema.Index, raw); err != nil {
		s.logger.Warn("index schema check failed", zap.String("path", path), zap.Error(err))
	} else if len(violations) > 0 {
		s.logger.Warn("index entries do not match schema",
			zap.String("path", path), zap.Strings("violations", violations))
	}
	return elems
}

// Save replaces the index with entries, pretty-printed with two-space
// indentation and a trailing newline. Entries must satisfy the index schema.
func (s *Store) Save(entries []types.IndexEntry) error {
	if entries == nil {
		entries = []types.IndexEntry{}
	}
	if err := checkEntries(entries); err != nil {
		return err
	}
	elems := make([]json.RawMessage, 0, len(entries))
	for _, e := range entries {
		raw, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshal index entry %s: %w", e.ID, err)
		}
		elems = append(elems, raw)
	}
	return s.saveRaw(elems)
}

func (s *Store) saveRaw(elems []json.RawMessage) error {
	raw, err := json.MarshalIndent(elems, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal index: %w", err)
	}
	raw = append(raw, '\n')
	if err := store.WriteFile(s.Path(), raw); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	return nil
}

// Append adds entry to the end of the index. Existing elements are written
// back as they were read, including ones Load skips and fields it does not
// know about.
func (s *Store) Append(entry types.IndexEntry) error {
	if entry.Sources == nil {
		entry.Sources = []types.WebSource{}
	}
	if err := checkEntries([]types.IndexEntry{entry}); err != nil {
		return err
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal index entry %s: %w", entry.ID, err)
	}
	return s.saveRaw(append(s.loadRaw(), raw))
}

func checkEntries(entries []types.IndexEntry) error {
	violations, err := schema.Validate(schema.Index, entries)
	if err != nil {
		return err
	}
	if len(violations) > 0 {
		return fmt.Errorf("index entries do not match schema: %s", strings.Join(violations, "; "))
	}
	return nil
}

// Find returns the entry with the given id.
func (s *Store) Find(id string) (types.IndexEntry, bool) {
	for _, e := range s.Load() {
		if e.ID == id {
			return e, true
		}
	}
	return types.IndexEntry{}, false
}

// Search returns entries whose query contains term, ignoring case, in index
// order. An empty term matches everything.
func (s *Store) Search(term string) []types.IndexEntry {
	entries := s.Load()
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return entries
	}
	out := make([]types.IndexEntry, 0)
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Query), term) {
			out = append(out, e)
		}
	}
	return out
}
