// Package cli implements the cursoragents commands.
package cli

import (
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"

	"github.com/watchfire-io/cursoragents/internal/buildinfo"
	"github.com/watchfire-io/cursoragents/internal/cloudapi"
	"github.com/watchfire-io/cursoragents/internal/config"
	"github.com/watchfire-io/cursoragents/internal/models"
)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	apiKey   string
	envFile  string
	baseURL  string
	json     bool
	quiet    bool
	verbose  bool
	retries  int
	settings string

	// lookupEnv overrides os.LookupEnv in tests.
	lookupEnv func(string) (string, bool)

	// responses keeps raw response bodies for --json.
	responses responseLog
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&rootOptions{})
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cursoragents",
		Short: "Launch and manage Cursor Cloud Agents",
		Long: `cursoragents drives the Cursor Cloud Agents API from the command line.

Each command sends a single request authenticated with your API key,
resolved from --api-key, then CURSOR_API_KEY, then a .env file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.apiKey, "api-key", "", "Cursor API key (or set CURSOR_API_KEY env var)")
	flags.StringVar(&opts.envFile, "env-file", "", "Path to a KEY=VALUE credentials file (default: search .env)")
	flags.StringVar(&opts.baseURL, "base-url", "", "API base URL (default https://api.cursor.com)")
	flags.StringVar(&opts.settings, "settings", "", "Path to settings.yaml (default ~/.cursoragents/settings.yaml)")
	flags.BoolVar(&opts.json, "json", false, "Output raw JSON response")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "Minimal output")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log requests to stderr")
	flags.IntVar(&opts.retries, "retries", 0, "Retry rate-limited and 5xx responses up to N times with backoff (default: no retry)")

	// Add subcommands (alphabetical)
	rootCmd.AddCommand(newConfigCmd(opts))
	rootCmd.AddCommand(newFollowupCmd(opts))
	rootCmd.AddCommand(newLaunchCmd(opts))
	rootCmd.AddCommand(newListCmd(opts))
	rootCmd.AddCommand(newManageCmd(opts))
	rootCmd.AddCommand(newMeCmd(opts))
	rootCmd.AddCommand(newModelsCmd(opts))
	rootCmd.AddCommand(newReposCmd(opts))
	rootCmd.AddCommand(newStatusCmd(opts))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newWatchCmd(opts))
	rootCmd.AddCommand(newWebhookCmd(opts))

	return rootCmd
}

// Execute runs the CLI. Errors are printed to stderr; the caller only
// decides the exit code.
func Execute() error {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), styleError.Render("Error:")+" "+err.Error())
		return err
	}
	return nil
}

// resolver reads the env file and settings. It runs once per invocation,
// before any request is built.
func (o *rootOptions) resolver() (*config.Resolver, error) {
	envPath := o.envFile
	if envPath == "" {
		envPath = config.FindEnvFile()
	} else if !config.FileExists(envPath) {
		return nil, fmt.Errorf("env file %s does not exist", envPath)
	}
	file, err := config.LoadEnvFile(envPath)
	if err != nil {
		return nil, err
	}

	var settings *models.Settings
	if o.settings != "" {
		settings, err = config.LoadSettingsFrom(o.settings)
	} else {
		settings, err = config.LoadSettings()
	}
	if err != nil {
		return nil, err
	}

	applyColorMode(settings.Output.Color)

	return &config.Resolver{
		APIKeyFlag:  o.apiKey,
		BaseURLFlag: o.baseURL,
		LookupEnv:   o.lookupEnv,
		File:        file,
		Settings:    settings,
	}, nil
}

// resolve returns the configuration for an API command, failing fast
// when no credential is available.
func (o *rootOptions) resolve() (*config.Resolved, error) {
	r, err := o.resolver()
	if err != nil {
		return nil, err
	}
	resolved, err := r.Resolve()
	if err != nil {
		return nil, explain(err, "", "")
	}
	return resolved, nil
}

func (o *rootOptions) logger(cmd *cobra.Command) *log.Logger {
	if !o.verbose {
		return log.New(io.Discard, "", 0)
	}
	return log.New(cmd.ErrOrStderr(), "[cursoragents] ", log.Ltime)
}

// client resolves configuration and builds an API client.
func (o *rootOptions) client(cmd *cobra.Command) (*cloudapi.Client, *config.Resolved, error) {
	resolved, err := o.resolve()
	if err != nil {
		return nil, nil, err
	}
	if o.retries < 0 {
		return nil, nil, explain(validationError("--retries", "must not be negative"), "", "")
	}

	logger := o.logger(cmd)
	logger.Printf("using API key %s from %s", resolved.Credential.Masked(), resolved.Credential.Source)

	cfg := cloudapi.Config{
		BaseURL:   resolved.BaseURL,
		APIKey:    resolved.Credential.Value,
		Timeout:   config.Timeout(resolved.Settings),
		UserAgent: buildinfo.UserAgent(),
		Logger:    logger,
		Retry:     cloudapi.RetryPolicy{MaxRetries: o.retries},
	}
	if o.json {
		cfg.OnResponse = o.responses.record
	}
	client, err := cloudapi.NewClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	return client, resolved, nil
}

func (o *rootOptions) printer(cmd *cobra.Command) *printer {
	out := cmd.OutOrStdout()
	return &printer{
		out:      out,
		errOut:   cmd.ErrOrStderr(),
		json:     o.json,
		quiet:    o.quiet,
		markdown: isTerminal(out) && !o.json,
		width:    terminalWidth(out),
	}
}
