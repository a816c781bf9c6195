// Package config handles env-file parsing, credential resolution, settings and path management.
package config

import (
	"os"
	"path/filepath"
)

const (
	// GlobalDirName is the name of the global cursoragents directory.
	GlobalDirName = ".cursoragents"

	// EnvFileName is the name of the optional credentials file.
	EnvFileName = ".env"
)

// File names
const (
	SettingsFileName = "settings.yaml"
)

// Environment variable names
const (
	APIKeyEnv        = "CURSOR_API_KEY"
	BaseURLEnv       = "CURSOR_API_BASE_URL"
	WebhookSecretEnv = "CURSOR_WEBHOOK_SECRET"
)

// GlobalDir returns the path to the global directory (~/.cursoragents/).
func GlobalDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, GlobalDirName), nil
}

// GlobalSettingsFile returns the path to the settings.yaml file.
func GlobalSettingsFile() (string, error) {
	dir, err := GlobalDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, SettingsFileName), nil
}

// PackageRoot returns the directory above the running executable,
// i.e. <root> for a binary installed at <root>/bin/cursoragents.
func PackageRoot() (string, error) {
	execPath, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(filepath.Dir(execPath)), nil
}

// EnvFileCandidates returns the env-file search order:
// package root, global directory, then the working directory.
func EnvFileCandidates() []string {
	var candidates []string
	if root, err := PackageRoot(); err == nil {
		candidates = append(candidates, filepath.Join(root, EnvFileName))
	}
	if dir, err := GlobalDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, EnvFileName))
	}
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, EnvFileName))
	}
	return candidates
}

// FindEnvFile returns the first existing env file, or "" if none exists.
func FindEnvFile() string {
	return firstExisting(EnvFileCandidates())
}

func firstExisting(paths []string) string {
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
