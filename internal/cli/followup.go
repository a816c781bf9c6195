package cli

import (
	"github.com/spf13/cobra"

	"github.com/watchfire-io/cursoragents/internal/models"
)

func newFollowupCmd(root *rootOptions) *cobra.Command {
	var (
		agentID string
		prompt  string
		images  []string
	)

	cmd := &cobra.Command{
		Use:     "followup",
		Short:   "Send follow-up instructions to an agent",
		Long:    "Send follow-up instructions to an agent. A stopped agent restarts when it receives a follow-up.",
		Example: `  cursoragents followup --agent-id bc_abc123 --prompt "Also add tests"`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFollowup(cmd, root, agentID, prompt, images)
		},
	}

	cmd.Flags().StringVar(&agentID, "agent-id", "", "Agent ID (e.g., bc_abc123)")
	cmd.Flags().StringVar(&prompt, "prompt", "", "Follow-up instruction text")
	cmd.Flags().StringArrayVar(&images, "image", nil, "Path to an image to include (repeatable, max 5)")
	_ = cmd.MarkFlagRequired("agent-id")
	_ = cmd.MarkFlagRequired("prompt")

	return cmd
}

func runFollowup(cmd *cobra.Command, root *rootOptions, agentID, prompt string, imagePaths []string) error {
	p := root.printer(cmd)

	client, _, err := root.client(cmd)
	if err != nil {
		return err
	}

	images, err := encodeImages(imagePaths)
	if err != nil {
		return explain(err, "", "")
	}

	result, err := client.AddFollowup(cmd.Context(), agentID, &models.FollowupRequest{
		Prompt: models.Prompt{Text: prompt, Images: images},
	})
	if err != nil {
		return explain(err, "agent "+agentID, "followup")
	}

	switch {
	case p.json:
		return p.printRaw(root.responses.last(), result)
	case p.quiet:
		p.println(result.ID)
		return nil
	}

	p.success("Follow-up added successfully!")
	p.println()
	p.field("", "Agent ID", result.ID)
	p.field("", "Prompt", prompt)
	p.println()
	p.hint("Note: If the agent was stopped, it will now restart.")
	return nil
}
