package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/doeshing/phoenix-go/internal/app"
	"github.com/doeshing/phoenix-go/internal/infrastructure/cli/commands"
	"github.com/doeshing/phoenix-go/internal/version"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose    bool
	ConfigPath string
}

// NewRootCmd wires the cobra root command. The container is closed after the
// selected command finishes.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	container, err := app.BuildContainer(ctx, app.Options{
		Verbose:    opts.Verbose,
		ConfigPath: opts.ConfigPath,
		Version:    version.Version,
	})
	if err != nil {
		return nil, err
	}

	root := &cobra.Command{
		Use:   "phoenix",
		Short: "Phoenix - voice commands for your desktop",
		Long: `Phoenix listens for spoken phrases and turns them into desktop actions:
launching apps, browsing folders, searching the web, media keys and more.`,
		Version: version.Version,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return container.Close()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		commands.NewServeCommand(container),
		commands.NewListenCommand(container),
		commands.NewExecCommand(container),
		commands.NewCommandsCommand(container),
		commands.NewRecentCommand(container),
		commands.NewSettingsCommand(container),
		commands.NewHistoryCommand(container),
		commands.NewGuardrailCommand(container),
		commands.NewDoctorCommand(container),
		commands.NewVersionCommand(),
	)
	return root, nil
}
