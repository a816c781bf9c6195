package cli

import (
	"github.com/spf13/cobra"
)

func newMeCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show information about the API key in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := root.printer(cmd)
			client, resolved, err := root.client(cmd)
			if err != nil {
				return err
			}

			info, err := client.Me(cmd.Context())
			if err != nil {
				return explain(err, "API key", "")
			}

			switch {
			case p.json:
				return p.printRaw(root.responses.last(), info)
			case p.quiet:
				p.println(info.UserEmail)
				return nil
			}

			p.field("", "Key name", orNA(info.APIKeyName))
			p.field("", "Email", orNA(info.UserEmail))
			p.field("", "Created", formatCreated(info.CreatedAt))
			p.field("", "Source", string(resolved.Credential.Source))
			return nil
		},
	}
}

func newModelsCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the models available to cloud agents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := root.printer(cmd)
			client, _, err := root.client(cmd)
			if err != nil {
				return err
			}

			list, err := client.ListModels(cmd.Context())
			if err != nil {
				return explain(err, "", "")
			}

			if p.json {
				return p.printRaw(root.responses.last(), list)
			}
			if !p.quiet {
				p.printf("%s\n\n", styleHeading.Render("Available models:"))
			}
			for _, m := range list.Models {
				if p.quiet {
					p.println(m)
				} else {
					p.println("  " + styleValue.Render(m))
				}
			}
			return nil
		},
	}
}

func newReposCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "repos",
		Short: "List GitHub repositories the API key can access",
		Long: `List GitHub repositories the API key can access.

This endpoint is strictly rate limited (1 request per minute, 30 per hour).
Cache the result instead of calling it repeatedly.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := root.printer(cmd)
			client, _, err := root.client(cmd)
			if err != nil {
				return err
			}

			p.warn("GET /v0/repositories is rate limited to 1 request/minute and 30/hour")

			list, err := client.ListRepositories(cmd.Context())
			if err != nil {
				return explain(err, "", "")
			}

			if p.json {
				return p.printRaw(root.responses.last(), list)
			}
			if len(list.Repositories) == 0 {
				p.println("No repositories found.")
				return nil
			}
			if !p.quiet {
				p.printf("Found %d repositories\n\n", len(list.Repositories))
			}
			for _, r := range list.Repositories {
				if p.quiet {
					p.println(r.Repository)
					continue
				}
				p.printf("  %s %s\n", styleValue.Render(r.Owner+"/"+r.Name), styleHint.Render(r.Repository))
			}
			return nil
		},
	}
}
