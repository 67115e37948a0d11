// Package config provides YAML-based application settings for bounce:
// file locations, display, difficulty, logging and server addresses.
package config

// Settings is the complete application configuration.
type Settings struct {
	Storage    StorageSettings  `yaml:"storage"`
	Levels     LevelSettings    `yaml:"levels"`
	Display    DisplaySettings  `yaml:"display"`
	Difficulty DifficultyPreset `yaml:"difficulty"`
	Log        LogSettings      `yaml:"log"`
	Server     ServerSettings   `yaml:"server"`
}

// StorageSettings locates the progress database.
type StorageSettings struct {
	Path string `yaml:"path"` // "~" expands to the home directory
}

// LevelSettings selects the level set.
type LevelSettings struct {
	Dir string `yaml:"dir"` // empty = built-in levels
}

// DisplaySettings controls the terminal frontend.
type DisplaySettings struct {
	FPS     int     `yaml:"fps"`      // frame callbacks per second
	Mouse   bool    `yaml:"mouse"`    // enable mouse drag aiming
	AimStep float64 `yaml:"aim_step"` // canvas units the aim point moves per key press
}

// LogSettings controls logging.
type LogSettings struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // log file used while the TUI owns the terminal
}

// ServerSettings holds listen addresses for the remote frontends.
type ServerSettings struct {
	SSHAddr     string `yaml:"ssh_addr"`
	HostKeyPath string `yaml:"host_key_path"`
	HTTPAddr    string `yaml:"http_addr"`
}
