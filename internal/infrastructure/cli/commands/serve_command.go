package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/doeshing/phoenix-go/internal/app"
)

// NewServeCommand runs the HTTP bridge, the event hub and the voice loop together.
func NewServeCommand(container *app.Container) *cobra.Command {
	var (
		addr    string
		noWatch bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the local control bridge used by the desktop UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = container.Config.BridgeAddress()
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			fmt.Fprintf(cmd.OutOrStdout(), "Phoenix bridge on http://%s (Ctrl+C to stop)\n", addr)
			return serve(ctx, container, addr, !noWatch)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (defaults to bridge.host:bridge.port)")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "Do not reload settings.json when it changes on disk")
	return cmd
}

func serve(ctx context.Context, container *app.Container, addr string, watch bool) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		container.Hub.Run(gctx)
		return nil
	})

	if watch {
		watcher, err := container.NewSettingsWatcher(gctx)
		if err != nil {
			container.Logger.Warn("settings watcher unavailable", map[string]interface{}{"error": err.Error()})
		} else if err := watcher.Start(gctx); err != nil {
			container.Logger.Warn("settings watcher unavailable", map[string]interface{}{"error": err.Error()})
			watcher.Stop()
		} else {
			defer watcher.Stop()
		}
	}

	pruneExpiredHistory(container)

	if err := container.Engine.Boot(gctx); err != nil {
		return err
	}
	defer container.Engine.Close()

	g.Go(func() error {
		return container.Bridge.Serve(gctx, addr)
	})

	return g.Wait()
}

func pruneExpiredHistory(container *app.Container) {
	days := container.Config.GetHistoryRetentionDays()
	if days <= 0 || container.HistoryStore == nil {
		return
	}
	removed, err := container.HistoryStore.Prune(time.Now().AddDate(0, 0, -days))
	if err != nil {
		container.Logger.Warn("history prune failed", map[string]interface{}{"error": err.Error()})
		return
	}
	if removed > 0 {
		container.Logger.Info("pruned history", map[string]interface{}{"removed": removed, "days": days})
	}
}
