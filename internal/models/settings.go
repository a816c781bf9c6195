package models

// DefaultBaseURL is the root of the Cloud Agents API.
const DefaultBaseURL = "https://api.cursor.com"

// APIConfig holds transport settings.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"` // Go duration, e.g. "30s"
}

// LaunchConfig holds defaults for the launch command.
type LaunchConfig struct {
	DefaultRef string `yaml:"default_ref"`
	AutoBranch bool   `yaml:"auto_branch"`
	Model      string `yaml:"model,omitempty"` // empty = server auto-select
}

// ListConfig holds defaults for the list command.
type ListConfig struct {
	Limit int `yaml:"limit"`
}

// OutputConfig holds rendering preferences.
type OutputConfig struct {
	Color string `yaml:"color"` // "auto" | "always" | "never"
}

// Settings represents global client settings.
// This corresponds to ~/.cursoragents/settings.yaml.
type Settings struct {
	Version int          `yaml:"version"`
	API     APIConfig    `yaml:"api"`
	Launch  LaunchConfig `yaml:"launch"`
	List    ListConfig   `yaml:"list"`
	Output  OutputConfig `yaml:"output"`
}

// NewSettings creates settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Version: 1,
		API: APIConfig{
			BaseURL: DefaultBaseURL,
			Timeout: "30s",
		},
		Launch: LaunchConfig{
			DefaultRef: "main",
			AutoBranch: true,
		},
		List: ListConfig{
			Limit: 20,
		},
		Output: OutputConfig{
			Color: "auto",
		},
	}
}
