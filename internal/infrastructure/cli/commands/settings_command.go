package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"

	"github.com/doeshing/phoenix-go/internal/app"
	appsettings "github.com/doeshing/phoenix-go/internal/application/settings"
	"github.com/doeshing/phoenix-go/internal/domain"
	"github.com/doeshing/phoenix-go/internal/infrastructure/cli/helpers"
)

// NewSettingsCommand creates the settings command with all subcommands
func NewSettingsCommand(container *app.Container) *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect and change user settings (settings.json)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.PrintJSON(cmd.OutOrStdout(), container.Settings.Current())
		},
	}

	settingsCmd.AddCommand(
		newSettingsShowCommand(container),
		newSettingsGetCommand(container),
		newSettingsSetCommand(container),
		newSettingsResetCommand(container),
		newSettingsDiffCommand(container),
		newSettingsPathCommand(container),
	)

	return settingsCmd
}

// newSettingsShowCommand creates the 'settings show' subcommand
func newSettingsShowCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show every setting",
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.PrintJSON(cmd.OutOrStdout(), container.Settings.Current())
		},
	}
}

// newSettingsGetCommand creates the 'settings get' subcommand
func newSettingsGetCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:       "get <key>",
		Short:     "Get a single setting",
		Args:      cobra.ExactArgs(1),
		ValidArgs: domain.SettingKeys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := container.Settings.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}
}

// newSettingsSetCommand creates the 'settings set' subcommand
func newSettingsSetCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a setting (value accepts YAML syntax: true, 80, \"hey pc\")",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value := strings.Join(args[1:], " ")
			return setSettingValue(cmd.Context(), cmd.OutOrStdout(), container.Settings, args[0], value)
		},
	}
}

// newSettingsResetCommand creates the 'settings reset' subcommand
func newSettingsResetCommand(container *app.Container) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Restore default settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !yes && !helpers.PromptForConfirmation(out, cmd.InOrStdin(), "Reset all settings to defaults?") {
				fmt.Fprintln(out, MsgCancelled)
				return nil
			}
			if _, err := container.Settings.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(out, "Settings reset: %s\n", container.Settings.Path())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

// newSettingsDiffCommand creates the 'settings diff' subcommand
func newSettingsDiffCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "diff",
		Short: "Show differences from the default settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			showSettingsDiff(cmd.OutOrStdout(), container.Settings.Current())
			return nil
		},
	}
}

// newSettingsPathCommand creates the 'settings path' subcommand
func newSettingsPathCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the settings file location",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), container.Settings.Path())
			return nil
		},
	}
}

// setSettingValue parses value and applies it through the settings service.
// String settings keep the literal text so a microphone named "0" stays a string.
func setSettingValue(ctx context.Context, out io.Writer, svc *appsettings.Service, key, value string) error {
	var parsed interface{} = value
	if _, isString := appsettings.ToMap(svc.Current())[key].(string); !isString {
		parsed = helpers.ParseYAMLValue(value)
	}
	updated, err := svc.Update(ctx, map[string]interface{}{key: parsed})
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", key, err)
	}
	fmt.Fprintf(out, "%s = %v\n", key, appsettings.ToMap(updated)[key])
	return nil
}

// showSettingsDiff prints a go-cmp diff against the defaults
func showSettingsDiff(out io.Writer, current domain.Settings) {
	diff := cmp.Diff(domain.DefaultSettings(), current)
	if diff == "" {
		fmt.Fprintln(out, MsgNoDifferencesFromDefault)
		return
	}
	fmt.Fprintln(out, "--- default\n+++ current")
	fmt.Fprint(out, diff)
}
