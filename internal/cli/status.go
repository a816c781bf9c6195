package cli

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/watchfire-io/cursoragents/internal/models"
)

func newStatusCmd(root *rootOptions) *cobra.Command {
	var (
		agentID      string
		conversation bool
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show an agent's status or conversation",
		Example: `  cursoragents status --agent-id bc_abc123
  cursoragents status --agent-id bc_abc123 --conversation`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if conversation {
				return runConversation(cmd, root, agentID)
			}
			return runStatus(cmd, root, agentID)
		},
	}

	cmd.Flags().StringVar(&agentID, "agent-id", "", "Agent ID (e.g., bc_abc123)")
	cmd.Flags().BoolVar(&conversation, "conversation", false, "Fetch conversation history instead of status")
	_ = cmd.MarkFlagRequired("agent-id")

	return cmd
}

func runStatus(cmd *cobra.Command, root *rootOptions, agentID string) error {
	p := root.printer(cmd)

	client, _, err := root.client(cmd)
	if err != nil {
		return err
	}

	agent, err := client.GetAgent(cmd.Context(), agentID)
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

	printAgent(p, agent)
	return nil
}

func printAgent(p *printer, agent *models.Agent) {
	p.printf("%s %s\n", styleHeading.Render("Agent:"), orNA(agent.Name))
	p.field("", "ID", agent.ID)
	p.field("", "Status", statusBadge(agent.Status))

	if src := agent.Source; src != nil {
		p.println()
		p.println(styleHeading.Render("Source:"))
		p.field("  ", "Repository", orNA(src.Repository))
		if src.Ref != "" {
			p.field("  ", "Ref", src.Ref)
		}
		if src.PRURL != "" {
			p.field("  ", "PR", src.PRURL)
		}
	}

	if tgt := agent.Target; tgt != nil {
		p.println()
		p.println(styleHeading.Render("Target:"))
		p.field("  ", "Branch", orNA(tgt.BranchName))
		p.field("  ", "URL", orNA(tgt.URL))
		if tgt.PRURL != "" {
			p.field("  ", "PR", tgt.PRURL)
		}
		p.field("  ", "Auto PR", strconv.FormatBool(tgt.AutoCreatePR))
	}

	if agent.Summary != "" {
		p.println()
		p.println(styleHeading.Render("Summary:"))
		p.println(p.renderMarkdown(agent.Summary))
	}

	p.println()
	p.field("", "Created", formatCreated(agent.CreatedAt))
}

func formatCreated(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "N/A"
	}
	return t.Format(time.RFC3339)
}

func runConversation(cmd *cobra.Command, root *rootOptions, agentID string) error {
	p := root.printer(cmd)

	client, _, err := root.client(cmd)
	if err != nil {
		return err
	}

	conv, err := client.GetConversation(cmd.Context(), agentID)
	if err != nil {
		return explain(err, "agent "+agentID, "")
	}

	switch {
	case p.json:
		return p.printRaw(root.responses.last(), conv)
	case p.quiet:
		p.printf("Messages: %d\n", len(conv.Messages))
		return nil
	}

	p.printf("%s %s\n\n", styleHeading.Render("Conversation for Agent:"), conv.ID)
	p.rule("=")
	for _, msg := range conv.Messages {
		p.println()
		p.println(styleLabel.Render("[" + msg.Role() + "]"))
		if msg.Type == models.MessageTypeAssistant {
			p.println(p.renderMarkdown(msg.Text))
		} else {
			p.println(msg.Text)
		}
		p.rule("-")
	}
	return nil
}
