package level

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed builtin
var builtinFS embed.FS

// Builtin returns the levels shipped with the game.
func Builtin() (*Catalog, error) {
	entries, err := fs.ReadDir(builtinFS, "builtin")
	if err != nil {
		return nil, fmt.Errorf("level: cannot read built-in levels: %w", err)
	}

	var levels []Level
	for _, e := range entries {
		if e.IsDir() || !isSupportedExtension(e.Name()) {
			continue
		}
		data, err := builtinFS.ReadFile("builtin/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("level: cannot read %s: %w", e.Name(), err)
		}
		lvl, err := Parse(e.Name(), data)
		if err != nil {
			return nil, fmt.Errorf("level: built-in %s: %w", e.Name(), err)
		}
		levels = append(levels, lvl)
	}
	return NewCatalog(levels)
}
