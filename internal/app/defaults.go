package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - IDUP_CONFIG_PATH: config file location (default: ~/.config/idup.toml)
//   - IDUP_HOME: base directory for idup data (default: $XDG_DATA_HOME/idup,
//     then ~/.local/share/idup)
func GetDefaults() (map[string]string, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	baseDir, err := getBaseDir()
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path": configPath,
		"base_dir":    baseDir,
		"log_dir":     filepath.Join(baseDir, "log"),
	}, nil
}

// getConfigPath returns the config file path, checking IDUP_CONFIG_PATH env var first,
// then falling back to the default ~/.config/idup.toml.
func getConfigPath() (string, error) {
	if path := os.Getenv("IDUP_CONFIG_PATH"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "idup.toml"), nil
}

// getBaseDir returns the base directory for idup data: IDUP_HOME, then
// XDG_DATA_HOME/idup, then ~/.local/share/idup.
func getBaseDir() (string, error) {
	if path := os.Getenv("IDUP_HOME"); path != "" {
		return path, nil
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "idup"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "idup"), nil
}

// DefaultHostID names this machine in vault snapshot paths.
func DefaultHostID() string {
	if name, err := os.Hostname(); err == nil && name != "" {
		return name
	}
	return "localhost"
}
