package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/watchfire-io/cursoragents/internal/models"
	"github.com/watchfire-io/cursoragents/internal/tui"
)

const minWatchInterval = time.Second

func newWatchCmd(root *rootOptions) *cobra.Command {
	var (
		agentID  string
		interval time.Duration
		keepOpen bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow an agent until it finishes",
		Long: `Follow an agent until it finishes.

On a terminal this opens a live view (press c for the conversation, q to
quit). Otherwise each status change is printed as a line and the final
snapshot is printed when the agent reaches FINISHED, FAILED or STOPPED.`,
		Example: `  cursoragents watch --agent-id bc_abc123
  cursoragents watch --agent-id bc_abc123 --interval 10s`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, root, agentID, interval, keepOpen)
		},
	}

	cmd.Flags().StringVar(&agentID, "agent-id", "", "Agent ID (e.g., bc_abc123)")
	cmd.Flags().DurationVar(&interval, "interval", tui.DefaultInterval, "Time between status requests")
	cmd.Flags().BoolVar(&keepOpen, "keep-open", false, "Keep the live view open after the agent finishes")
	_ = cmd.MarkFlagRequired("agent-id")

	return cmd
}

func runWatch(cmd *cobra.Command, root *rootOptions, agentID string, interval time.Duration, keepOpen bool) error {
	if interval < minWatchInterval {
		return explain(validationError("--interval", "must be at least %s", minWatchInterval), "", "")
	}

	p := root.printer(cmd)

	client, _, err := root.client(cmd)
	if err != nil {
		return err
	}

	if p.markdown && !p.quiet && isTerminal(cmd.InOrStdin()) {
		agent, err := tui.Run(cmd.Context(), client, tui.Options{
			AgentID:  agentID,
			Interval: interval,
			KeepOpen: keepOpen,
			Markdown: func(text string, width int) string {
				mp := *p
				mp.width = width
				return mp.renderMarkdown(text)
			},
		})
		if err != nil {
			return explain(err, "agent "+agentID, "")
		}
		if agent != nil {
			printAgent(p, agent)
		}
		return nil
	}

	agent, err := pollUntilTerminal(cmd.Context(), client, agentID, interval, func(a *models.Agent) {
		if p.json || p.quiet {
			return
		}
		p.printf("%s  %s\n", styleHint.Render(time.Now().Format("15:04:05")), statusBadge(a.Status))
	})
	if err != nil {
		return explain(err, "agent "+agentID, "")
	}

	switch {
	case p.json:
		return p.printRaw(root.responses.last(), agent)
	case p.quiet:
		p.println(string(agent.Status))
		return nil
	}
	p.println()
	printAgent(p, agent)
	return nil
}

// pollUntilTerminal requests the agent every interval and calls onChange
// whenever its status differs from the previous poll. It returns the
// first snapshot in a terminal status.
func pollUntilTerminal(ctx context.Context, fetcher tui.Fetcher, id string, interval time.Duration, onChange func(*models.Agent)) (*models.Agent, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var last models.AgentStatus
	for {
		agent, err := fetcher.GetAgent(ctx, id)
		if err != nil {
			return nil, err
		}
		if agent.Status != last {
			last = agent.Status
			onChange(agent)
		}
		if agent.Status.IsTerminal() {
			return agent, nil
		}

		select {
		case <-ctx.Done():
			return agent, ctx.Err()
		case <-ticker.C:
		}
	}
}
