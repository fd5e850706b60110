package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/doeshing/phoenix-go/internal/app"
)

const listenPollInterval = 250 * time.Millisecond

// NewListenCommand runs the voice loop in the foreground without the bridge.
func NewListenCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "listen",
		Short: "Listen for voice commands in the foreground",
		Long: `Listen runs the capture, recognize and dispatch loop until interrupted.
With speech.input set to console, each line typed on stdin counts as one utterance.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runListener(ctx, cmd, container)
		},
	}
}

func runListener(ctx context.Context, cmd *cobra.Command, container *app.Container) error {
	out := cmd.OutOrStdout()
	if err := container.Engine.Boot(ctx); err != nil {
		return err
	}
	defer container.Engine.Close()

	status := container.Engine.Start()
	if !status.IsListening {
		return fmt.Errorf("listener did not start: %s", status.Reason)
	}
	if status.WakeWord != "" {
		fmt.Fprintf(out, "Listening. Start commands with %q. Press Ctrl+C to quit.\n", status.WakeWord)
	} else {
		fmt.Fprintln(out, "Listening. Press Ctrl+C to quit.")
	}

	ticker := time.NewTicker(listenPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(out, "Stopped.")
			return nil
		case <-ticker.C:
			if st := container.Engine.Status(); !st.IsListening {
				if st.Reason != "" && st.Reason != "stopped" {
					return fmt.Errorf("listener stopped: %s", st.Reason)
				}
				return nil
			}
		}
	}
}
