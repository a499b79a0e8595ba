package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	// ProjectConfigFile is the name of the project-level config file
	ProjectConfigFile = "semdoc.yaml"
	// UserConfigDir is the directory for user-level config
	UserConfigDir = ".config/semdoc"
	// UserConfigFile is the name of the user-level config file
	UserConfigFile = "config.yaml"
)

// Loader handles configuration loading with layered precedence
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a new configuration loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load loads configuration with layered precedence:
// 1. Default config
// 2. User config (~/.config/semdoc/config.yaml)
// 3. Project config (semdoc.yaml in current or parent directories)
//
// Command-line flags are applied by the caller on top of the result.
func (l *Loader) Load() (*Config, error) {
	config := DefaultConfig()

	userConfigPath := l.UserConfigPath()
	if userConfig, err := readLayer(userConfigPath); err == nil {
		l.logger.Debug("Loaded user config", slog.String("path", userConfigPath))
		config.Merge(userConfig)
	} else if !errors.Is(err, fs.ErrNotExist) {
		l.logger.Warn("Failed to load user config", slog.String("path", userConfigPath), slog.String("error", err.Error()))
	}

	projectConfigPath := l.findProjectConfig()
	if projectConfigPath != "" {
		projectConfig, err := readLayer(projectConfigPath)
		if err != nil {
			return nil, err
		}
		l.logger.Debug("Loaded project config", slog.String("path", projectConfigPath))
		config.Merge(projectConfig)
	} else {
		l.logger.Debug("No project config found")
	}

	return config, nil
}

// LoadFile loads defaults overlaid with a single explicit config file.
// Unlike Load, a missing file is an error.
func (l *Loader) LoadFile(path string) (*Config, error) {
	config, err := LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("Loaded config", slog.String("path", path))
	return config, nil
}

// EnsureUserConfig creates the user config file with defaults if it doesn't
// exist and returns its path
func (l *Loader) EnsureUserConfig() (string, error) {
	userConfigPath := l.UserConfigPath()

	if _, err := os.Stat(userConfigPath); err == nil {
		return userConfigPath, nil
	}

	config := DefaultConfig()
	if err := config.SaveToFile(userConfigPath); err != nil {
		return "", err
	}

	l.logger.Info("Created default user config", slog.String("path", userConfigPath))
	return userConfigPath, nil
}

// UserConfigPath returns the path to the user config file
func (l *Loader) UserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, UserConfigDir, UserConfigFile)
}

// findProjectConfig searches for semdoc.yaml in current and parent directories
func (l *Loader) findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		configPath := filepath.Join(dir, ProjectConfigFile)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}
