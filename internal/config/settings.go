package config

import (
	"fmt"
	"time"

	"github.com/watchfire-io/cursoragents/internal/models"
)

// LoadSettings loads the global settings from ~/.cursoragents/settings.yaml.
// If the file doesn't exist, returns default settings.
func LoadSettings() (*models.Settings, error) {
	path, err := GlobalSettingsFile()
	if err != nil {
		return nil, err
	}
	return LoadSettingsFrom(path)
}

// LoadSettingsFrom loads settings from an explicit path.
func LoadSettingsFrom(path string) (*models.Settings, error) {
	settings, err := LoadYAMLOrDefault(path, models.NewSettings)
	if err != nil {
		return nil, err
	}
	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("invalid settings in %s: %w", path, err)
	}
	return settings, nil
}

// SaveSettingsTo writes settings to an explicit path.
func SaveSettingsTo(path string, settings *models.Settings) error {
	if err := ValidateSettings(settings); err != nil {
		return err
	}
	return SaveYAML(path, settings)
}

// ValidateSettings checks values that would otherwise fail late.
func ValidateSettings(s *models.Settings) error {
	if s.API.Timeout != "" {
		if _, err := time.ParseDuration(s.API.Timeout); err != nil {
			return fmt.Errorf("api.timeout: %w", err)
		}
	}
	if s.List.Limit < 0 || s.List.Limit > models.MaxListLimit {
		return fmt.Errorf("list.limit must be between 1 and %d (0 uses the default)", models.MaxListLimit)
	}
	switch s.Output.Color {
	case "", "auto", "always", "never":
	default:
		return fmt.Errorf("output.color must be auto, always or never (got %q)", s.Output.Color)
	}
	return nil
}

// Timeout returns the configured request timeout, defaulting to 30s.
func Timeout(s *models.Settings) time.Duration {
	d, err := time.ParseDuration(s.API.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}
