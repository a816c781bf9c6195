package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/watchfire-io/cursoragents/internal/models"
)

const (
	actionStop   = "stop"
	actionDelete = "delete"
)

func newManageCmd(root *rootOptions) *cobra.Command {
	var (
		agentID string
		action  string
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "manage",
		Short: "Stop or delete an agent",
		Example: `  cursoragents manage --agent-id bc_abc123 --action stop
  cursoragents manage --agent-id bc_abc123 --action delete --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runManage(cmd, root, agentID, action, force)
		},
	}

	cmd.Flags().StringVar(&agentID, "agent-id", "", "Agent ID (e.g., bc_abc123)")
	cmd.Flags().StringVar(&action, "action", "", "Action to perform: stop or delete")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation for delete")
	_ = cmd.MarkFlagRequired("agent-id")
	_ = cmd.MarkFlagRequired("action")

	return cmd
}

// confirmDelete asks on in and reports whether the answer was "y".
// EOF and read errors count as no.
func confirmDelete(in io.Reader, out io.Writer, agentID string) bool {
	fmt.Fprint(out, styleWarning.Render("⚠️  Are you sure you want to DELETE agent "+agentID+"?")+
		" This cannot be undone. (y/N): ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(out)
		return false
	}
	return strings.EqualFold(strings.TrimSpace(line), "y")
}

func runManage(cmd *cobra.Command, root *rootOptions, agentID, action string, force bool) error {
	action = strings.ToLower(action)
	if action != actionStop && action != actionDelete {
		return explain(validationError("--action", "invalid action %q (choose from stop, delete)", action), "", "")
	}

	p := root.printer(cmd)

	client, _, err := root.client(cmd)
	if err != nil {
		return err
	}

	if action == actionDelete && !force {
		// The prompt and its outcome go to stderr so --json stdout stays parseable.
		if !confirmDelete(cmd.InOrStdin(), cmd.ErrOrStderr(), agentID) {
			fmt.Fprintln(cmd.ErrOrStderr(), "Cancelled.")
			return nil
		}
	}

	var result *models.IDResponse
	if action == actionStop {
		result, err = client.StopAgent(cmd.Context(), agentID)
	} else {
		result, err = client.DeleteAgent(cmd.Context(), agentID)
	}
	if err != nil {
		return explain(err, "agent "+agentID, action)
	}

	switch {
	case p.json:
		return p.printRaw(root.responses.last(), result)
	case p.quiet:
		p.println(result.ID)
		return nil
	}

	if action == actionStop {
		p.success("Agent stopped successfully!")
		p.println()
		p.field("", "Agent ID", result.ID)
		p.println()
		p.hint("The agent has been paused. Send a follow-up to restart it.")
		return nil
	}

	p.success("Agent deleted successfully!")
	p.println()
	p.field("", "Agent ID", result.ID)
	p.println()
	p.println(styleWarning.Render("⚠️  This action is permanent. The agent and its conversation history are gone."))
	return nil
}
