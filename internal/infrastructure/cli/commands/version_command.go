package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/doeshing/phoenix-go/internal/infrastructure/cli/helpers"
	"github.com/doeshing/phoenix-go/internal/version"
)

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show Phoenix build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Get()
			if asJSON {
				return helpers.PrintJSON(cmd.OutOrStdout(), info)
			}
			printVersion(cmd.OutOrStdout(), info)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print build information as JSON")
	return cmd
}

func printVersion(out io.Writer, info version.Info) {
	fmt.Fprintf(out, "phoenix %s (%s, %s)\n", info.Version, info.Platform, info.Go)
	if info.Commit != "" {
		fmt.Fprintf(out, "  commit: %s\n", info.Commit)
	}
	if info.BuildDate != "" {
		fmt.Fprintf(out, "  built:  %s\n", info.BuildDate)
	}
}
