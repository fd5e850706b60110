package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/phoenix-go/internal/app"
)

// NewGuardrailCommand inspects the action guardrail
func NewGuardrailCommand(container *app.Container) *cobra.Command {
	guardrailCmd := &cobra.Command{
		Use:   "guardrail",
		Short: "Inspect the action guardrail",
	}

	guardrailCmd.AddCommand(
		newGuardrailStatusCommand(container),
		newGuardrailCheckCommand(container),
	)

	return guardrailCmd
}

// newGuardrailStatusCommand shows current guardrail status
func newGuardrailStatusCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show guardrail status",
		RunE: func(cmd *cobra.Command, args []string) error {
			state := "disabled"
			if container.Config.IsSecurityEnabled() {
				state = "enabled"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Guardrail: %s\nRules file: %s\n", state, container.Config.Security.RulesFile)
			return nil
		},
	}
}

// newGuardrailCheckCommand evaluates one action ID against the rules
func newGuardrailCheckCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "check <action_id>",
		Short: "Show how the guardrail treats an action (see 'commands --json' for IDs)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			risk, err := container.Guardrail.Evaluate(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %s (%s)\n", args[0], strings.ToUpper(string(risk.Level)), risk.Action)
			for _, reason := range risk.Reasons {
				fmt.Fprintf(out, " - %s\n", reason)
			}
			return nil
		},
	}
}
