package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/watchfire-io/cursoragents/internal/models"
)

type launchOptions struct {
	prompt          string
	repo            string
	ref             string
	prURL           string
	autoCreatePR    bool
	openAsCursorApp bool
	skipReviewer    bool
	branchName      string
	autoBranch      bool
	model           string
	webhookURL      string
	webhookSecret   string
	images          []string
}

func newLaunchCmd(root *rootOptions) *cobra.Command {
	opts := &launchOptions{}

	cmd := &cobra.Command{
		Use:   "launch",
		Short: "Launch a cloud agent on a repository or pull request",
		Example: `  cursoragents launch --repo https://github.com/org/repo --prompt "Add a README.md file" --auto-create-pr
  cursoragents launch --pr-url https://github.com/org/repo/pull/42 --prompt "Address review comments"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLaunch(cmd, root, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.prompt, "prompt", "", "Instruction text for the agent (required)")
	f.StringVar(&opts.repo, "repo", "", "GitHub repository URL (e.g., https://github.com/org/repo)")
	f.StringVar(&opts.ref, "ref", "", "Git ref (branch, tag, or commit hash). Default: settings launch.default_ref (main)")
	f.StringVar(&opts.prURL, "pr-url", "", "PR URL to work on (overrides --repo and --ref)")
	f.BoolVar(&opts.autoCreatePR, "auto-create-pr", false, "Automatically create a pull request")
	f.BoolVar(&opts.openAsCursorApp, "open-as-cursor-app", false, "Open PR as Cursor GitHub App (requires --auto-create-pr)")
	f.BoolVar(&opts.skipReviewer, "skip-reviewer", false, "Skip adding user as reviewer (requires --auto-create-pr and --open-as-cursor-app)")
	f.StringVar(&opts.branchName, "branch-name", "", "Custom branch name for the agent")
	f.BoolVar(&opts.autoBranch, "auto-branch", true, "Create a new branch when working on a PR (--auto-branch=false to push to the PR branch)")
	f.StringVar(&opts.model, "model", "", "LLM model to use (e.g., claude-4-sonnet). Default: auto-select")
	f.StringVar(&opts.webhookURL, "webhook-url", "", "Webhook URL for status notifications")
	f.StringVar(&opts.webhookSecret, "webhook-secret", "", "Webhook secret for signature verification (min 32 chars)")
	f.StringArrayVar(&opts.images, "image", nil, "Path to an image to include (repeatable, max 5)")
	_ = cmd.MarkFlagRequired("prompt")

	return cmd
}

// buildLaunchRequest turns flags into a request body. Soft constraint
// violations go to warn and the flag is still sent.
func buildLaunchRequest(opts *launchOptions, settings *models.Settings, autoBranchSet bool, warn func(string, ...any)) (*models.LaunchRequest, error) {
	if strings.TrimSpace(opts.prompt) == "" {
		return nil, validationError("--prompt", "prompt text is required")
	}
	if opts.repo == "" && opts.prURL == "" {
		return nil, validationError("", "Either --repo or --pr-url is required.")
	}
	if opts.webhookSecret != "" && opts.webhookURL == "" {
		return nil, validationError("--webhook-secret", "requires --webhook-url")
	}

	images, err := encodeImages(opts.images)
	if err != nil {
		return nil, err
	}

	req := &models.LaunchRequest{
		Prompt: models.Prompt{Text: opts.prompt, Images: images},
	}

	if opts.prURL != "" {
		req.Source.PRURL = opts.prURL
		autoBranch := opts.autoBranch
		if !autoBranchSet {
			autoBranch = settings.Launch.AutoBranch
		}
		if !autoBranch {
			f := false
			req.Target = &models.LaunchTarget{AutoBranch: &f}
		}
	} else {
		req.Source.Repository = opts.repo
		req.Source.Ref = opts.ref
		if req.Source.Ref == "" {
			req.Source.Ref = settings.Launch.DefaultRef
		}
	}

	if opts.autoCreatePR || opts.branchName != "" || opts.openAsCursorApp || opts.skipReviewer {
		if req.Target == nil {
			req.Target = &models.LaunchTarget{}
		}
		req.Target.AutoCreatePR = opts.autoCreatePR
		req.Target.BranchName = opts.branchName

		if opts.openAsCursorApp {
			if !opts.autoCreatePR {
				warn("--open-as-cursor-app requires --auto-create-pr")
			}
			req.Target.OpenAsCursorGithubApp = true
		}
		if opts.skipReviewer {
			if !opts.autoCreatePR || !opts.openAsCursorApp {
				warn("--skip-reviewer requires --auto-create-pr and --open-as-cursor-app")
			}
			req.Target.SkipReviewerRequest = true
		}
	}

	req.Model = opts.model
	if req.Model == "" {
		req.Model = settings.Launch.Model
	}

	if opts.webhookURL != "" {
		req.Webhook = &models.Webhook{URL: opts.webhookURL}
		if opts.webhookSecret != "" {
			if len(opts.webhookSecret) < models.RecommendedWebhookSecretLen {
				warn("Webhook secret should be at least %d characters", models.RecommendedWebhookSecretLen)
			}
			req.Webhook.Secret = opts.webhookSecret
		}
	}

	return req, req.Validate()
}

func runLaunch(cmd *cobra.Command, root *rootOptions, opts *launchOptions) error {
	p := root.printer(cmd)

	client, resolved, err := root.client(cmd)
	if err != nil {
		return err
	}

	req, err := buildLaunchRequest(opts, resolved.Settings, cmd.Flags().Changed("auto-branch"), p.warn)
	if err != nil {
		return explain(err, "", "")
	}

	agent, err := client.LaunchAgent(cmd.Context(), req)
	if err != nil {
		return explain(err, "", "launch")
	}

	switch {
	case p.json:
		return p.printRaw(root.responses.last(), agent)
	case p.quiet:
		p.printf("Agent ID: %s\n", agent.ID)
		p.printf("URL: %s\n", agentURL(agent))
		return nil
	}

	p.success("Agent launched successfully!")
	p.println()
	p.field("", "Agent ID", agent.ID)
	p.field("", "Name", orNA(agent.Name))
	p.field("", "Status", statusBadge(agent.Status))
	p.field("", "Branch", orNA(agent.BranchName()))
	p.field("", "URL", orNA(agentURL(agent)))
	if agent.Target != nil && agent.Target.PRURL != "" {
		p.field("", "PR URL", agent.Target.PRURL)
	}
	p.println()
	p.hint("Monitor:    " + styleCommand.Render("cursoragents status --agent-id "+agent.ID))
	return nil
}

func agentURL(agent *models.Agent) string {
	if agent.Target == nil {
		return ""
	}
	return agent.Target.URL
}
