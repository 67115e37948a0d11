package config

import (
	_ "embed"
)

//go:embed defaults/bounce.yaml
var defaultSettingsYAML []byte

// DefaultSettings returns the hardcoded settings, used when no file and no
// embedded default can be read.
func DefaultSettings() Settings {
	return Settings{
		Storage: StorageSettings{
			Path: "~/.bounce/scores.db",
		},
		Display: DisplaySettings{
			FPS:     60,
			Mouse:   true,
			AimStep: 10,
		},
		Difficulty: DifficultyNormal,
		Log: LogSettings{
			Level: "info",
			File:  "~/.bounce/bounce.log",
		},
		Server: ServerSettings{
			SSHAddr:     ":2222",
			HostKeyPath: ".ssh/bounce_host_key",
			HTTPAddr:    ":8080",
		},
	}
}
