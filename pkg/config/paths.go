package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// ConfigDir returns the path to the cidreg config directory (~/.cidreg).
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	return filepath.Join(home, ".cidreg"), nil
}

// DefaultPath returns ~/.cidreg/config.yaml, whether or not it exists.
func DefaultPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// DefaultEnvFile returns ~/.cidreg/.env.
func DefaultEnvFile() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ".env"), nil
}
