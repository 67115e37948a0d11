package level

import (
	"fmt"
	"os"
	"path/filepath"
)

// Loader loads level files from a directory tree.
type Loader struct {
	Root string
}

// NewLoader creates a loader rooted at dir.
func NewLoader(root string) *Loader {
	return &Loader{Root: root}
}

// LoadAll recursively loads every supported level file under Root.
// Unlike the embedded set, a broken file on disk is reported rather than
// skipped so level authors see their mistakes.
func (l *Loader) LoadAll() ([]Level, error) {
	var levels []Level

	err := filepath.WalkDir(l.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isSupportedExtension(path) {
			return nil
		}

		lvl, err := l.LoadFile(path)
		if err != nil {
			return err
		}
		levels = append(levels, lvl)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("level: cannot load %s: %w", l.Root, err)
	}

	return levels, nil
}

// LoadFile loads a single level file.
func (l *Loader) LoadFile(path string) (Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Level{}, fmt.Errorf("reading file %s: %w", path, err)
	}

	lvl, err := Parse(path, data)
	if err != nil {
		return Level{}, fmt.Errorf("parsing file %s: %w", path, err)
	}
	lvl.FilePath = path
	return lvl, nil
}

// Catalog loads all levels under Root into a validated catalog.
func (l *Loader) Catalog() (*Catalog, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return nil, err
	}
	if len(levels) == 0 {
		return nil, fmt.Errorf("level: no level files in %s", l.Root)
	}
	return NewCatalog(levels)
}

// Load returns the levels from dir, or the built-in levels when dir is empty.
func Load(dir string) (*Catalog, error) {
	if dir == "" {
		return Builtin()
	}
	return NewLoader(dir).Catalog()
}
