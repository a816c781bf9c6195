package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/watchfire-io/cursoragents/internal/buildinfo"
)

// VersionInfo is the --json form of the version command.
type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

func currentVersion() VersionInfo {
	return VersionInfo{
		Version:   buildinfo.Version,
		Commit:    buildinfo.CommitHash,
		BuildDate: buildinfo.BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Show version information",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := currentVersion()
			out := cmd.OutOrStdout()

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				p := &printer{out: out}
				return p.printJSON(info)
			}

			fmt.Fprintf(out, "%s %s\n", styleBrand.Render("cursoragents"), styleVersion.Render(info.Version))
			fmt.Fprintf(out, "  Commit:  %s\n", info.Commit)
			fmt.Fprintf(out, "  Built:   %s\n", info.BuildDate)
			fmt.Fprintf(out, "  OS/Arch: %s\n", info.Platform)
			fmt.Fprintf(out, "  Go:      %s\n", info.GoVersion)
			return nil
		},
	}
}
