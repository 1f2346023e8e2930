// Package config handles exporter configuration loading and management.
package config

import (
	"os"
	"path/filepath"
)

// Config holds all exporter settings.
type Config struct {
	Export  ExportConfig  `yaml:"export" toml:"export"`
	Notify  NotifyConfig  `yaml:"notify" toml:"notify"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
}

// ExportConfig holds output location and unit conversion.
type ExportConfig struct {
	Destination string  `yaml:"destination" toml:"destination"`   // Empty means the download folder
	LengthRatio float64 `yaml:"length_ratio" toml:"length_ratio"` // Host length unit to description unit
	MeshScale   float64 `yaml:"mesh_scale" toml:"mesh_scale"`     // Mesh file unit to description unit
}

// NotifyConfig selects how run outcomes reach the user.
type NotifyConfig struct {
	Kind string `yaml:"kind" toml:"kind"` // console, dialog or log
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Export: ExportConfig{
			Destination: "",
			LengthRatio: 1.0 / 100.0,
			MeshScale:   0.001,
		},
		Notify: NotifyConfig{
			Kind: "console",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// DownloadDir returns the user's download folder, or the working directory
// if the home directory cannot be determined.
func DownloadDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Downloads")
}
