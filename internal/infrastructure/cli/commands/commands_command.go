package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/phoenix-go/internal/app"
	"github.com/doeshing/phoenix-go/internal/domain"
	"github.com/doeshing/phoenix-go/internal/infrastructure/cli/helpers"
)

// NewCommandsCommand lists the registered voice commands in match order.
func NewCommandsCommand(container *app.Container) *cobra.Command {
	var (
		category string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "commands",
		Short: "List the phrases Phoenix understands",
		RunE: func(cmd *cobra.Command, args []string) error {
			infos := filterCommands(container.Engine.Commands(), category)
			if asJSON {
				return helpers.PrintJSON(cmd.OutOrStdout(), infos)
			}
			helpers.RenderCommands(cmd.OutOrStdout(), infos)
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Only show one category (session, system, files, apps, web, media, keyboard)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

func filterCommands(infos []domain.CommandInfo, category string) []domain.CommandInfo {
	if category == "" {
		return infos
	}
	out := make([]domain.CommandInfo, 0, len(infos))
	for _, info := range infos {
		if strings.EqualFold(info.Category, category) {
			out = append(out, info)
		}
	}
	return out
}
