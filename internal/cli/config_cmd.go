package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/watchfire-io/cursoragents/internal/config"
	"github.com/watchfire-io/cursoragents/internal/models"
)

func newConfigCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and initialize client configuration",
	}
	cmd.AddCommand(newConfigShowCmd(root))
	cmd.AddCommand(newConfigInitCmd(root))
	return cmd
}

// configView is the --json form of "config show". The key is always masked.
type configView struct {
	APIKey       string           `json:"apiKey"`
	APIKeySource string           `json:"apiKeySource"`
	BaseURL      string           `json:"baseUrl"`
	EnvFile      string           `json:"envFile"`
	SettingsFile string           `json:"settingsFile"`
	Settings     *models.Settings `json:"settings"`
}

func newConfigShowCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show resolved configuration and where the API key came from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := root.printer(cmd)

			r, err := root.resolver()
			if err != nil {
				return err
			}
			resolved := r.ResolveOptional()

			view := configView{
				APIKey:       resolved.Credential.Masked(),
				APIKeySource: string(resolved.Credential.Source),
				BaseURL:      resolved.BaseURL,
				EnvFile:      resolved.EnvFile,
				SettingsFile: root.settingsPath(),
				Settings:     resolved.Settings,
			}

			if p.json {
				return p.printJSON(view)
			}

			if view.APIKey == "" {
				p.field("", "API key", styleWarning.Render("not set"))
			} else {
				p.field("", "API key", fmt.Sprintf("%s (%s)", view.APIKey, view.APIKeySource))
			}
			p.field("", "Base URL", view.BaseURL)
			p.field("", "Env file", orNone(view.EnvFile))
			p.field("", "Settings", orNone(view.SettingsFile))
			p.println()
			p.println(styleHeading.Render("Defaults:"))
			p.field("  ", "Timeout", config.Timeout(resolved.Settings).String())
			p.field("  ", "Ref", resolved.Settings.Launch.DefaultRef)
			p.field("  ", "Auto branch", fmt.Sprintf("%t", resolved.Settings.Launch.AutoBranch))
			p.field("  ", "Model", orAuto(resolved.Settings.Launch.Model))
			p.field("  ", "List limit", fmt.Sprintf("%d", resolved.Settings.List.Limit))
			p.field("  ", "Color", resolved.Settings.Output.Color)
			return nil
		},
	}
}

func newConfigInitCmd(root *rootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a settings.yaml with default values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := root.printer(cmd)

			path := root.settingsPath()
			if path == "" {
				return fmt.Errorf("cannot determine settings path")
			}
			if config.FileExists(path) && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.SaveSettingsTo(path, models.NewSettings()); err != nil {
				return err
			}
			p.success("Wrote " + path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing settings file")
	return cmd
}

func (o *rootOptions) settingsPath() string {
	if o.settings != "" {
		return o.settings
	}
	path, err := config.GlobalSettingsFile()
	if err != nil {
		return ""
	}
	return path
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func orAuto(s string) string {
	if s == "" {
		return "auto"
	}
	return s
}
