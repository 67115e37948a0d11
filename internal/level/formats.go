package level

import (
	"bytes"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// FormatExtensions returns the supported level file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml", ".toml"}
}

// ParseYAML parses a YAML level file.
func ParseYAML(data []byte) (Level, error) {
	var l Level
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&l); err != nil {
		return Level{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	return l, nil
}

// ParseTOML parses a TOML level file.
func ParseTOML(data []byte) (Level, error) {
	var l Level
	md, err := toml.Decode(string(data), &l)
	if err != nil {
		return Level{}, fmt.Errorf("toml decode: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Level{}, fmt.Errorf("toml decode: unknown keys %v", undecoded)
	}
	return l, nil
}

// Parse routes data to the parser for the file name's extension.
func Parse(name string, data []byte) (Level, error) {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".yaml", ".yml":
		return ParseYAML(data)
	case ".toml":
		return ParseTOML(data)
	default:
		return Level{}, fmt.Errorf("unsupported extension: %s", ext)
	}
}

func isSupportedExtension(name string) bool {
	return slices.Contains(FormatExtensions(), strings.ToLower(filepath.Ext(name)))
}
