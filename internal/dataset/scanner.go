package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Scanner walks a Naev data tree and yields one raw Record per data file.
// Files are visited in a deterministic order: all systems first, then all
// assets, each group sorted by path.
type Scanner struct {
	root   string
	logger *slog.Logger
}

// ScannerOption configures a Scanner.
type ScannerOption func(*Scanner)

// WithScanLogger sets the logger used for per-file progress.
func WithScanLogger(logger *slog.Logger) ScannerOption {
	return func(s *Scanner) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewScanner creates a Scanner rooted at a data directory containing the
// ssys/ and assets/ subdirectories.
func NewScanner(root string, opts ...ScannerOption) *Scanner {
	s := &Scanner{
		root:   root,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan parses every data file under the root and passes each record to fn.
// A parse failure or a non-nil return from fn stops the walk immediately.
// A group directory that is absent counts as empty; a missing root is an
// error.
func (s *Scanner) Scan(fn func(*Record) error) error {
	if _, err := os.Stat(s.root); err != nil {
		return fmt.Errorf("scanning data root: %w", err)
	}

	groups := []struct {
		dir  string
		kind EntityKind
	}{
		{"ssys", EntitySystem},
		{"assets", EntityAsset},
	}

	for _, g := range groups {
		dir := filepath.Join(s.root, g.dir)
		files, err := listMarkupFiles(dir)
		if err != nil {
			return fmt.Errorf("scanning %s: %w", dir, err)
		}
		if len(files) == 0 {
			s.logger.Warn("no data files found", "dir", dir)
		}
		for _, path := range files {
			rec, err := s.parseFile(path, g.kind)
			if err != nil {
				return err
			}
			s.logger.Debug("parsed data file", "file", path, "kind", rec.Kind, "name", rec.Name)
			if err := fn(rec); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Scanner) parseFile(path string, kind EntityKind) (*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening data file: %w", err)
	}
	defer f.Close()

	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		rel = path
	}
	return parseMarkup(filepath.ToSlash(rel), kind, f)
}

func listMarkupFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".xml") {
			files = append(files, path)
		}
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		// Datasets may legitimately carry only one group directory.
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
