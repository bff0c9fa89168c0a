// Package session persists an original table and its latest cleaned version
// so that cleaning can be re-run, reset and exported across invocations.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/ValentinaAkpan/Datacleaner/internal/cleaning"
	"github.com/ValentinaAkpan/Datacleaner/internal/table"
	"github.com/ValentinaAkpan/Datacleaner/internal/utils"
	"github.com/google/uuid"
)

const (
	metaFileName     = "session.json"
	originalFileName = "original.csv"
	cleanedFileName  = "cleaned.csv"
)

var (
	ErrExists      = errors.New("session already exists")
	ErrNotFound    = errors.New("session not found")
	ErrInvalidName = errors.New("invalid session name")
)

// Session holds the uploaded table and the result of the most recent cleaning
// run. The original table is never replaced after Create.
type Session struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Source    string    `json:"source"`
	Delimiter string    `json:"delimiter"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Config and Report describe the run that produced the cleaned table.
	Config *cleaning.Config `json:"config,omitempty"`
	Report *cleaning.Report `json:"report,omitempty"`

	mu       sync.RWMutex
	rootDir  string
	original *table.Table
	cleaned  *table.Table
}

// Dir returns the directory of session name under root.
func Dir(root, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(root, name), nil
}

// Create loads srcPath, validates it as a table and persists a new session in
// dir. An existing session in dir is never overwritten.
func Create(name, dir, srcPath string, opt table.LoadOptions) (*Session, error) {
	if _, err := os.Stat(filepath.Join(dir, metaFileName)); err == nil {
		return nil, fmt.Errorf("%w at %s", ErrExists, dir)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("stat session: %w", err)
	}
	t, err := table.LoadFile(srcPath, opt)
	if err != nil {
		return nil, err
	}
	if err := utils.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("ensure dir: %w", err)
	}
	if err := table.WriteFile(filepath.Join(dir, originalFileName), t, opt); err != nil {
		return nil, fmt.Errorf("store original: %w", err)
	}
	now := time.Now()
	s := &Session{
		ID:        uuid.NewString(),
		Name:      name,
		Source:    srcPath,
		Delimiter: string(commaOf(opt)),
		CreatedAt: now,
		UpdatedAt: now,
		rootDir:   dir,
		original:  t,
	}
	if err := s.Save(); err != nil {
		return nil, err
	}
	slog.Info("session created", "session", name, "id", s.ID, "rows", t.NumRows(), "cols", t.NumCols())
	return s, nil
}

// Load reads a session and its tables from dir.
func Load(dir string) (*Session, error) {
	path := filepath.Join(dir, metaFileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w at %s", ErrNotFound, dir)
		}
		return nil, fmt.Errorf("read session: %w", err)
	}
	var s Session
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	s.rootDir = dir
	opt := s.loadOptions()
	s.original, err = table.LoadFile(filepath.Join(dir, originalFileName), opt)
	if err != nil {
		return nil, fmt.Errorf("load original: %w", err)
	}
	cleanedPath := filepath.Join(dir, cleanedFileName)
	if _, err := os.Stat(cleanedPath); err == nil {
		s.cleaned, err = table.LoadFile(cleanedPath, opt)
		if err != nil {
			return nil, fmt.Errorf("load cleaned: %w", err)
		}
	}
	return &s, nil
}

// List returns the names of the sessions stored under root, sorted.
func List(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(root, e.Name(), metaFileName)); err == nil {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// RootDir returns the on-disk session directory path.
func (s *Session) RootDir() string { return s.rootDir }

// Save writes session.json and the cleaned table. The cleaned file is removed
// when no cleaning result is held.
func (s *Session) Save() error {
	if s.rootDir == "" {
		return errors.New("session root directory not set")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, err := utils.PrettyJSON(s)
	if err != nil {
		return err
	}
	cleanedPath := filepath.Join(s.rootDir, cleanedFileName)
	if s.cleaned != nil {
		if err := table.WriteFile(cleanedPath, s.cleaned, s.loadOptions()); err != nil {
			return fmt.Errorf("store cleaned: %w", err)
		}
	} else if err := os.Remove(cleanedPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove cleaned: %w", err)
	}
	return utils.SafeWriteFile(filepath.Join(s.rootDir, metaFileName), data)
}

// Original returns the uploaded table.
func (s *Session) Original() *table.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.original
}

// Cleaned returns the latest cleaned table, or the original when no cleaning
// run has been applied.
func (s *Session) Cleaned() *table.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cleaned != nil {
		return s.cleaned
	}
	return s.original
}

// HasCleaned reports whether a cleaning result is held.
func (s *Session) HasCleaned() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cleaned != nil
}

// Apply cleans the original table with cfg and replaces the held result.
// Runs always start from the original, never from a previous result. On error
// the previous result is kept.
func (s *Session) Apply(cfg cleaning.Config) (*cleaning.Report, error) {
	out, rep, err := cleaning.Clean(s.Original(), cfg)
	if err != nil {
		slog.Warn("cleaning failed", "session", s.Name, "error", err)
		return nil, err
	}
	s.mu.Lock()
	s.cleaned = out
	s.Config = &cfg
	s.Report = rep
	s.UpdatedAt = time.Now()
	s.mu.Unlock()

	slog.Info("session cleaned", "session", s.Name,
		"status", rep.Status,
		"rows", rep.RowsOut,
		"duplicates_removed", rep.DuplicatesRemoved,
		"rows_dropped", rep.RowsDroppedForMissing)
	return rep, nil
}

// Reset discards the cleaning result.
func (s *Session) Reset() {
	s.mu.Lock()
	s.cleaned = nil
	s.Config = nil
	s.Report = nil
	s.UpdatedAt = time.Now()
	s.mu.Unlock()
	slog.Info("session reset", "session", s.Name)
}

// Export writes the cleaned table (or the original) as CSV.
func (s *Session) Export(w io.Writer) error {
	return table.Write(w, s.Cleaned(), s.loadOptions())
}

func (s *Session) loadOptions() table.LoadOptions {
	r, _ := utf8.DecodeRuneInString(s.Delimiter)
	if s.Delimiter == "" || r == utf8.RuneError {
		r = ','
	}
	return table.LoadOptions{Comma: r}
}

func commaOf(opt table.LoadOptions) rune {
	if opt.Comma == 0 {
		return ','
	}
	return opt.Comma
}

// ExportFile writes the cleaned table (or the original) to path atomically.
func (s *Session) ExportFile(path string) error {
	return table.WriteFile(path, s.Cleaned(), s.loadOptions())
}
