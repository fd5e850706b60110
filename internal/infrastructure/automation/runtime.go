// Package automation implements the action runtime: launching programs, power control,
// synthetic key presses, directory listing and system status, driven by per-OS command tables.
package automation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	goruntime "runtime"
	"sort"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/doeshing/phoenix-go/internal/domain"
	"github.com/doeshing/phoenix-go/internal/ports"
)

// Options tunes a Runtime. Zero values select the host platform.
type Options struct {
	GOOS       string
	BatteryDir string
	DiskPath   string
}

// Runtime is the OS-backed ports.ActionRuntime.
type Runtime struct {
	exec       ports.CommandExecutor
	logger     ports.Logger
	goos       string
	table      commandTable
	batteryDir string
	diskPath   string
}

// New builds a runtime that runs its commands through exec.
func New(exec ports.CommandExecutor, logger ports.Logger, opts Options) *Runtime {
	goos := opts.GOOS
	if goos == "" {
		goos = goruntime.GOOS
	}
	batteryDir := opts.BatteryDir
	if batteryDir == "" {
		batteryDir = "/sys/class/power_supply"
	}
	diskPath := opts.DiskPath
	if diskPath == "" {
		diskPath = "/"
		if goos == "windows" {
			diskPath = `C:\`
		}
	}
	return &Runtime{
		exec:       exec,
		logger:     logger,
		goos:       goos,
		table:      tableFor(goos),
		batteryDir: batteryDir,
		diskPath:   diskPath,
	}
}

func (r *Runtime) run(ctx context.Context, command string) error {
	res, err := r.exec.Execute(ctx, command)
	if err != nil {
		detail := strings.TrimSpace(res.Stderr)
		if detail == "" {
			return fmt.Errorf("%s: %w", command, err)
		}
		return fmt.Errorf("%s: %s: %w", command, detail, err)
	}
	return nil
}

// Launch starts a known application alias, opens an existing path, or runs target
// as a program name.
func (r *Runtime) Launch(ctx context.Context, target string) error {
	target = strings.TrimSpace(target)
	if target == "" {
		return fmt.Errorf("%w: empty launch target", domain.ErrInvalidArgument)
	}
	if command, ok := r.table.apps[strings.ToLower(target)]; ok {
		return r.run(ctx, command)
	}
	if _, err := os.Stat(target); err == nil {
		return r.run(ctx, fmt.Sprintf(r.table.open, r.table.quote(target)))
	}
	if r.goos == "windows" {
		return r.run(ctx, fmt.Sprintf(r.table.open, r.table.quote(target)))
	}
	if r.goos == "darwin" {
		return r.run(ctx, "open -a "+r.table.quote(target))
	}
	return r.run(ctx, "nohup "+r.table.quote(target)+" >/dev/null 2>&1 &")
}

// OpenURL opens url in the default browser.
func (r *Runtime) OpenURL(ctx context.Context, url string) error {
	return r.run(ctx, fmt.Sprintf(r.table.open, r.table.quote(url)))
}

// Terminate kills every process whose name contains processName and reports whether
// any matched.
func (r *Runtime) Terminate(ctx context.Context, processName string) (bool, error) {
	needle := strings.ToLower(strings.TrimSpace(processName))
	if needle == "" {
		return false, fmt.Errorf("%w: empty process name", domain.ErrInvalidArgument)
	}
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return false, fmt.Errorf("list processes: %w", err)
	}
	self := int32(os.Getpid())
	found := false
	var errs []error
	for _, p := range procs {
		if p.Pid == self {
			continue
		}
		name, err := p.NameWithContext(ctx)
		if err != nil || !strings.Contains(strings.ToLower(name), needle) {
			continue
		}
		found = true
		if err := p.KillWithContext(ctx); err != nil {
			errs = append(errs, fmt.Errorf("kill %s (%d): %w", name, p.Pid, err))
			continue
		}
		r.logger.Info("process terminated", map[string]interface{}{"name": name, "pid": p.Pid})
	}
	if len(errs) > 0 {
		return found, fmt.Errorf("%w: %v", domain.ErrPermission, errors.Join(errs...))
	}
	return found, nil
}

// PressKeys sends a key chord to the focused window.
func (r *Runtime) PressKeys(ctx context.Context, keys ...string) error {
	command, err := r.table.keyCommand(keys)
	if err != nil {
		return err
	}
	return r.run(ctx, command)
}

// Scroll scrolls the focused window; positive amounts scroll up.
func (r *Runtime) Scroll(ctx context.Context, amount int) error {
	if amount == 0 {
		return nil
	}
	tmpl := r.table.scrollUp
	if amount < 0 {
		tmpl, amount = r.table.scrollDown, -amount
	}
	if tmpl == "" {
		return fmt.Errorf("%w: scroll on %s", domain.ErrUnsupported, r.goos)
	}
	return r.run(ctx, fmt.Sprintf(tmpl, amount))
}

// Power changes the machine power state.
func (r *Runtime) Power(ctx context.Context, op domain.PowerOp) error {
	command, ok := r.table.power[op]
	if !ok {
		return fmt.Errorf("%w: %s on %s", domain.ErrUnsupported, op, r.goos)
	}
	return r.run(ctx, command)
}

// ListDir returns directory entries sorted by name.
func (r *Runtime) ListDir(_ context.Context, path string) ([]domain.DirEntry, error) {
	items, err := os.ReadDir(path)
	if err != nil {
		if errors.Is(err, os.ErrPermission) {
			return nil, fmt.Errorf("%w: %s", domain.ErrPermission, path)
		}
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return nil, err
	}
	entries := make([]domain.DirEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, domain.DirEntry{Name: item.Name(), IsDir: item.IsDir()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// MakeDir creates path and any missing parents.
func (r *Runtime) MakeDir(_ context.Context, path string) error {
	if err := os.MkdirAll(path, domain.DirectoryPermissions); err != nil {
		if errors.Is(err, os.ErrPermission) {
			return fmt.Errorf("%w: %s", domain.ErrPermission, path)
		}
		return err
	}
	return nil
}

// Screenshot captures the screen into path.
func (r *Runtime) Screenshot(ctx context.Context, path string) error {
	if r.table.screenshot == "" {
		return r.windowsScreenshot(ctx, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return err
	}
	return r.run(ctx, fmt.Sprintf(r.table.screenshot, r.table.quote(path)))
}

func (r *Runtime) windowsScreenshot(ctx context.Context, path string) error {
	script := "Add-Type -AssemblyName System.Windows.Forms,System.Drawing;" +
		"$b=[System.Windows.Forms.Screen]::PrimaryScreen.Bounds;" +
		"$i=New-Object System.Drawing.Bitmap $b.Width,$b.Height;" +
		"[System.Drawing.Graphics]::FromImage($i).CopyFromScreen($b.Location,[System.Drawing.Point]::Empty,$b.Size);" +
		"$i.Save('" + strings.ReplaceAll(path, "'", "''") + "')"
	return r.run(ctx, `powershell -NoProfile -Command "`+script+`"`)
}

// SystemInfo samples CPU, memory and disk utilisation.
func (r *Runtime) SystemInfo(ctx context.Context) (domain.SystemInfo, error) {
	var info domain.SystemInfo
	cpus, err := cpu.PercentWithContext(ctx, 200*time.Millisecond, false)
	if err != nil {
		return info, fmt.Errorf("cpu: %w", err)
	}
	if len(cpus) > 0 {
		info.CPUPercent = cpus[0]
	}
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return info, fmt.Errorf("memory: %w", err)
	}
	info.MemoryPercent = vm.UsedPercent
	usage, err := disk.UsageWithContext(ctx, r.diskPath)
	if err != nil {
		return info, fmt.Errorf("disk: %w", err)
	}
	info.DiskPercent = usage.UsedPercent
	return info, nil
}

var _ ports.ActionRuntime = (*Runtime)(nil)
