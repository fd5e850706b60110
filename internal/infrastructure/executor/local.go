// Package executor runs OS commands for the action runtime.
package executor

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/doeshing/phoenix-go/internal/domain"
	"github.com/doeshing/phoenix-go/internal/ports"
)

// LocalExecutor runs commands on the host shell.
type LocalExecutor struct {
	shell  string
	flag   string
	dryRun bool
	logger ports.Logger
}

// NewLocalExecutor builds a new executor. An empty or "auto" shell resolves to $SHELL,
// then /bin/sh, or cmd.exe on Windows. In dry-run mode commands are logged, not run.
func NewLocalExecutor(shell string, dryRun bool, logger ports.Logger) *LocalExecutor {
	flag := "-c"
	if shell == "" || shell == "auto" {
		shell = ""
		if runtime.GOOS == "windows" {
			shell, flag = "cmd", "/C"
		} else {
			shell = os.Getenv("SHELL")
		}
	}
	if shell == "" {
		shell = "/bin/sh"
	}
	return &LocalExecutor{shell: shell, flag: flag, dryRun: dryRun, logger: logger}
}

// Execute implements ports.CommandExecutor.
func (e *LocalExecutor) Execute(ctx context.Context, command string) (domain.ExecutionResult, error) {
	if e.dryRun {
		e.logger.Info("dry run", map[string]interface{}{"command": command})
		return domain.ExecutionResult{
			Ran:         false,
			DryRunNotes: "dry run: " + command,
		}, nil
	}

	c := exec.CommandContext(ctx, e.shell, e.flag, command)
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	start := time.Now()
	err := c.Run()
	duration := time.Since(start).Milliseconds()

	result := domain.ExecutionResult{
		Ran:        err == nil,
		Stdout:     stdout.String(),
		Stderr:     stderr.String(),
		DurationMS: duration,
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		result.Err = err
		e.logger.Debug("command failed", map[string]interface{}{"command": command, "exit_code": result.ExitCode})
		return result, err
	}
	if err != nil {
		result.Err = err
		return result, err
	}
	e.logger.Debug("command ran", map[string]interface{}{"command": command, "duration_ms": duration})
	return result, nil
}

var _ ports.CommandExecutor = (*LocalExecutor)(nil)
