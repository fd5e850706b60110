package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/phoenix-go/internal/app"
	"github.com/doeshing/phoenix-go/internal/domain"
	"github.com/doeshing/phoenix-go/internal/infrastructure/cli/helpers"
)

// NewExecCommand dispatches one utterance as if it had been spoken.
func NewExecCommand(container *app.Container) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "exec <utterance...>",
		Short: "Run a command phrase without the microphone",
		Example: `  phoenix exec "open notepad"
  phoenix exec what time is it`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			res := container.Engine.Dispatch(cmd.Context(), text, domain.OriginCLI)
			if asJSON {
				return helpers.PrintJSON(cmd.OutOrStdout(), res)
			}
			helpers.RenderDispatch(cmd.OutOrStdout(), res)
			if res.Status == domain.DispatchExecutionError {
				return fmt.Errorf("command %q failed", res.Normalized)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw dispatch result as JSON")
	return cmd
}
