package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/watchfire-io/cursoragents/internal/cloudapi"
	"github.com/watchfire-io/cursoragents/internal/models"
)

const summaryWidth = 100

type listOptions struct {
	limit    int
	cursor   string
	prURL    string
	status   string
	allPages bool
}

func newListCmd(root *rootOptions) *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List cloud agents",
		Example: `  cursoragents list --limit 50
  cursoragents list --status RUNNING --all-pages`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, root, opts)
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.limit, "limit", 0, "Number of agents to return (default: settings list.limit (20), max: 100)")
	f.StringVar(&opts.cursor, "cursor", "", "Pagination cursor from a previous response")
	f.StringVar(&opts.prURL, "pr-url", "", "Filter by PR URL")
	f.StringVar(&opts.status, "status", "", "Filter by status ("+statusChoices()+")")
	f.BoolVar(&opts.allPages, "all-pages", false, "Fetch all pages (auto-paginate)")

	return cmd
}

func statusChoices() string {
	names := make([]string, len(models.AgentStatuses))
	for i, s := range models.AgentStatuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// listParams validates flags and returns the request options and status
// filter. An oversize limit is capped with a warning.
func listParams(opts *listOptions, limitSet bool, settings *models.Settings, warn func(string, ...any)) (cloudapi.ListOptions, models.AgentStatus, error) {
	limit := opts.limit
	if !limitSet {
		limit = settings.List.Limit
		if limit == 0 {
			limit = models.NewSettings().List.Limit
		}
	}
	if limit < 1 {
		return cloudapi.ListOptions{}, "", validationError("--limit", "must be at least 1")
	}
	if limit > models.MaxListLimit {
		warn("Limit capped at %d", models.MaxListLimit)
		limit = models.MaxListLimit
	}

	var status models.AgentStatus
	if opts.status != "" {
		var ok bool
		status, ok = models.ParseAgentStatus(opts.status)
		if !ok {
			return cloudapi.ListOptions{}, "", validationError("--status", "invalid status %q (choose from %s)", opts.status, statusChoices())
		}
	}

	return cloudapi.ListOptions{Limit: limit, Cursor: opts.cursor, PRURL: opts.prURL}, status, nil
}

func filterByStatus(agents []models.Agent, status models.AgentStatus) []models.Agent {
	if status == "" {
		return agents
	}
	filtered := make([]models.Agent, 0, len(agents))
	for _, a := range agents {
		if a.Status == status {
			filtered = append(filtered, a)
		}
	}
	return filtered
}

func runList(cmd *cobra.Command, root *rootOptions, opts *listOptions) error {
	p := root.printer(cmd)

	client, resolved, err := root.client(cmd)
	if err != nil {
		return err
	}

	listOpts, status, err := listParams(opts, cmd.Flags().Changed("limit"), resolved.Settings, p.warn)
	if err != nil {
		return explain(err, "", "")
	}

	var result models.ListResponse
	if opts.allPages {
		agents, err := client.AllAgents(cmd.Context(), listOpts)
		if err != nil {
			return explain(err, "", "")
		}
		result.Agents = agents
	} else {
		page, err := client.ListAgents(cmd.Context(), listOpts)
		if err != nil {
			return explain(err, "", "")
		}
		result = *page
	}
	result.Agents = filterByStatus(result.Agents, status)

	switch {
	case p.json:
		if !opts.allPages && status == "" {
			return p.printRaw(root.responses.last(), result)
		}
		body, err := rawAgents(root.responses.bodies, result.Agents, result.NextCursor)
		if err != nil {
			return err
		}
		return p.printRaw(body, result)
	case p.quiet:
		for _, a := range result.Agents {
			p.println(a.ID)
		}
		return nil
	}

	if len(result.Agents) == 0 {
		p.println("No agents found.")
		return nil
	}

	p.printf("Found %d agent(s)\n\n", len(result.Agents))
	p.rule("=")
	for i := range result.Agents {
		printAgentRow(p, &result.Agents[i])
		p.rule("-")
	}
	if result.NextCursor != "" {
		p.println()
		p.hint("More agents available: " + styleCommand.Render("cursoragents list --cursor "+result.NextCursor))
	}
	return nil
}

func printAgentRow(p *printer, agent *models.Agent) {
	icon, style := statusIcon(agent.Status)
	name := agent.Name
	if name == "" {
		name = "Unnamed"
	}
	p.println()
	p.printf("%s %s\n", style.Render(icon), styleHeading.Render(name))
	p.field("   ", "ID", agent.ID)
	p.field("   ", "Status", style.Render(string(agent.Status)))
	p.field("   ", "Branch", orNA(agent.BranchName()))
	if agent.Target != nil && agent.Target.PRURL != "" {
		p.field("   ", "PR", agent.Target.PRURL)
	}
	if agent.Summary != "" {
		p.field("   ", "Summary", truncate(agent.Summary, summaryWidth))
	}
	p.field("   ", "Created", formatCreated(agent.CreatedAt))
}
