package automation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/phoenix-go/internal/domain"
	"github.com/doeshing/phoenix-go/internal/pkg/logger"
)

type fakeExecutor struct {
	commands []string
	stdout   string
	err      error
}

func (f *fakeExecutor) Execute(_ context.Context, command string) (domain.ExecutionResult, error) {
	f.commands = append(f.commands, command)
	if f.err != nil {
		return domain.ExecutionResult{Stderr: "boom", Err: f.err}, f.err
	}
	return domain.ExecutionResult{Ran: true, Stdout: f.stdout}, nil
}

func newRuntime(goos string) (*Runtime, *fakeExecutor) {
	exec := &fakeExecutor{}
	return New(exec, logger.NewNop(), Options{GOOS: goos}), exec
}

func TestLaunchAliases(t *testing.T) {
	tests := []struct {
		goos   string
		target string
		want   string
	}{
		{"linux", "calculator", "gnome-calculator"},
		{"linux", "Task Manager", "gnome-system-monitor"},
		{"windows", "task manager", "start taskmgr"},
		{"windows", "empty recycle bin", `powershell -NoProfile -Command "Clear-RecycleBin -Force"`},
		{"darwin", "notepad", "open -a TextEdit"},
		{"linux", "firefox", "nohup 'firefox' >/dev/null 2>&1 &"},
		{"windows", "spotify", `start "" "spotify"`},
		{"darwin", "Safari", "open -a 'Safari'"},
	}
	for _, tt := range tests {
		t.Run(tt.goos+"/"+tt.target, func(t *testing.T) {
			rt, exec := newRuntime(tt.goos)
			require.NoError(t, rt.Launch(context.Background(), tt.target))
			assert.Equal(t, []string{tt.want}, exec.commands)
		})
	}
}

func TestLaunchExistingPathOpensIt(t *testing.T) {
	dir := t.TempDir()
	rt, exec := newRuntime("linux")
	require.NoError(t, rt.Launch(context.Background(), dir))
	assert.Equal(t, []string{"xdg-open '" + dir + "'"}, exec.commands)
}

func TestLaunchEmptyTarget(t *testing.T) {
	rt, _ := newRuntime("linux")
	assert.ErrorIs(t, rt.Launch(context.Background(), "  "), domain.ErrInvalidArgument)
}

func TestOpenURLQuotes(t *testing.T) {
	rt, exec := newRuntime("linux")
	require.NoError(t, rt.OpenURL(context.Background(), "https://example.com/?q=it's"))
	assert.Equal(t, []string{`xdg-open 'https://example.com/?q=it'\''s'`}, exec.commands)
}

func TestRunWrapsExecutorError(t *testing.T) {
	rt, exec := newRuntime("linux")
	exec.err = errors.New("exit status 1")
	err := rt.Power(context.Background(), domain.PowerLock)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestPower(t *testing.T) {
	rt, exec := newRuntime("windows")
	require.NoError(t, rt.Power(context.Background(), domain.PowerShutdown))
	assert.Equal(t, []string{"shutdown /s /t 10"}, exec.commands)

	mac, _ := newRuntime("darwin")
	assert.ErrorIs(t, mac.Power(context.Background(), domain.PowerSwitch), domain.ErrUnsupported)
}

func TestPressKeys(t *testing.T) {
	tests := []struct {
		goos string
		keys []string
		want string
	}{
		{"linux", []string{"ctrl", "c"}, "xdotool key 'ctrl+c'"},
		{"linux", []string{"volume_up"}, "xdotool key 'XF86AudioRaiseVolume'"},
		{"windows", []string{"ctrl", "v"}, `powershell -NoProfile -Command "(New-Object -ComObject WScript.Shell).SendKeys('^v')"`},
		{"darwin", []string{"ctrl", "a"}, `osascript -e 'tell application "System Events" to keystroke "a" using {command down}'`},
		{"darwin", []string{"tab"}, `osascript -e 'tell application "System Events" to key code 48'`},
	}
	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			rt, exec := newRuntime(tt.goos)
			require.NoError(t, rt.PressKeys(context.Background(), tt.keys...))
			assert.Equal(t, []string{tt.want}, exec.commands)
		})
	}
}

func TestPressKeysRejectsUnknown(t *testing.T) {
	rt, exec := newRuntime("windows")
	assert.ErrorIs(t, rt.PressKeys(context.Background(), "show_desktop"), domain.ErrUnsupported)
	assert.ErrorIs(t, rt.PressKeys(context.Background(), "rm -rf"), domain.ErrUnsupported)
	assert.Empty(t, exec.commands)
}

func TestScroll(t *testing.T) {
	rt, exec := newRuntime("linux")
	require.NoError(t, rt.Scroll(context.Background(), 10))
	require.NoError(t, rt.Scroll(context.Background(), -3))
	require.NoError(t, rt.Scroll(context.Background(), 0))
	assert.Equal(t, []string{"xdotool click --repeat 10 4", "xdotool click --repeat 3 5"}, exec.commands)

	win, _ := newRuntime("windows")
	assert.ErrorIs(t, win.Scroll(context.Background(), 1), domain.ErrUnsupported)
}

func TestListDirAndMakeDir(t *testing.T) {
	root := t.TempDir()
	rt, _ := newRuntime("linux")
	require.NoError(t, rt.MakeDir(context.Background(), filepath.Join(root, "b", "nested")))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), nil, 0o600))

	entries, err := rt.ListDir(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []domain.DirEntry{{Name: "a.txt"}, {Name: "b", IsDir: true}}, entries)

	_, err = rt.ListDir(context.Background(), filepath.Join(root, "missing"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestScreenshotLinux(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shots", "s.png")
	rt, exec := newRuntime("linux")
	require.NoError(t, rt.Screenshot(context.Background(), path))
	assert.Equal(t, []string{"gnome-screenshot -f '" + path + "'"}, exec.commands)
}

func TestBatterySysfs(t *testing.T) {
	dir := t.TempDir()
	bat := filepath.Join(dir, "BAT0")
	require.NoError(t, os.MkdirAll(bat, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(bat, "capacity"), []byte("81\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(bat, "status"), []byte("Charging\n"), 0o600))

	rt := New(&fakeExecutor{}, logger.NewNop(), Options{GOOS: "linux", BatteryDir: dir})
	status, err := rt.Battery(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.BatteryStatus{Present: true, Percent: 81, PluggedIn: true}, status)

	none := New(&fakeExecutor{}, logger.NewNop(), Options{GOOS: "linux", BatteryDir: t.TempDir()})
	status, err = none.Battery(context.Background())
	require.NoError(t, err)
	assert.False(t, status.Present)
}

func TestBatteryParsers(t *testing.T) {
	out := "Now drawing from 'AC Power'\n -InternalBattery-0 (id=1234)\t57%; charging; 1:10 remaining present: true\n"
	assert.Equal(t, domain.BatteryStatus{Present: true, Percent: 57, PluggedIn: true}, parsePmset(out))
	assert.Equal(t, domain.BatteryStatus{}, parsePmset("No batteries"))

	assert.Equal(t, domain.BatteryStatus{Present: true, Percent: 42, PluggedIn: false}, parseWin32Battery("42 1\r\n"))
	assert.Equal(t, domain.BatteryStatus{}, parseWin32Battery(""))
}
