package automation

import (
	"fmt"
	"strings"

	"github.com/doeshing/phoenix-go/internal/domain"
)

// commandTable maps logical operations to shell command templates for one OS.
// Templates take already-quoted arguments through %s.
type commandTable struct {
	open       string
	apps       map[string]string
	power      map[domain.PowerOp]string
	keys       string
	keyNames   map[string]string
	style      keyStyle
	scrollUp   string
	scrollDown string
	screenshot string
	quote      func(string) string
}

type keyStyle int

const (
	keyStyleChord keyStyle = iota
	keyStyleAppleScript
	keyStyleSendKeys
)

func tableFor(goos string) commandTable {
	switch goos {
	case "windows":
		return windowsTable
	case "darwin":
		return darwinTable
	default:
		return linuxTable
	}
}

var linuxTable = commandTable{
	open: "xdg-open %s",
	apps: map[string]string{
		"calculator":        "gnome-calculator",
		"notepad":           "gedit",
		"command prompt":    "x-terminal-emulator",
		"file explorer":     "xdg-open ~",
		"task manager":      "gnome-system-monitor",
		"control panel":     "gnome-control-center",
		"settings":          "gnome-control-center",
		"recycle bin":       "xdg-open trash:///",
		"empty recycle bin": "gio trash --empty",
	},
	power: map[domain.PowerOp]string{
		domain.PowerShutdown:  "shutdown -h +0",
		domain.PowerRestart:   "shutdown -r +0",
		domain.PowerSleep:     "systemctl suspend",
		domain.PowerHibernate: "systemctl hibernate",
		domain.PowerLock:      "loginctl lock-session",
		domain.PowerSignOut:   "loginctl terminate-user $USER",
		domain.PowerSwitch:    "dm-tool switch-to-greeter",
	},
	keys: "xdotool key %s",
	keyNames: map[string]string{
		"media_play_pause": "XF86AudioPlay",
		"media_stop":       "XF86AudioStop",
		"media_next":       "XF86AudioNext",
		"media_previous":   "XF86AudioPrev",
		"volume_up":        "XF86AudioRaiseVolume",
		"volume_down":      "XF86AudioLowerVolume",
		"volume_mute":      "XF86AudioMute",
		"ctrl":             "ctrl",
		"super":            "super",
		"tab":              "Tab",
		"space":            "space",
		"backspace":        "BackSpace",
		"delete":           "Delete",
		"enter":            "Return",
		"escape":           "Escape",
		"show_desktop":     "super+d",
		"window_maximize":  "super+Up",
		"window_minimize":  "super+h",
	},
	scrollUp:   "xdotool click --repeat %d 4",
	scrollDown: "xdotool click --repeat %d 5",
	screenshot: "gnome-screenshot -f %s",
	quote:      posixQuote,
}

var darwinTable = commandTable{
	open: "open %s",
	apps: map[string]string{
		"calculator":        "open -a Calculator",
		"notepad":           "open -a TextEdit",
		"command prompt":    "open -a Terminal",
		"file explorer":     "open ~",
		"task manager":      "open -a 'Activity Monitor'",
		"control panel":     "open -a 'System Settings'",
		"settings":          "open -a 'System Settings'",
		"recycle bin":       "open ~/.Trash",
		"empty recycle bin": `osascript -e 'tell application "Finder" to empty trash'`,
	},
	power: map[domain.PowerOp]string{
		domain.PowerShutdown:  `osascript -e 'tell application "System Events" to shut down'`,
		domain.PowerRestart:   `osascript -e 'tell application "System Events" to restart'`,
		domain.PowerSleep:     "pmset sleepnow",
		domain.PowerHibernate: "pmset sleepnow",
		domain.PowerLock:      "pmset displaysleepnow",
		domain.PowerSignOut:   `osascript -e 'tell application "System Events" to log out'`,
	},
	keys: `osascript -e 'tell application "System Events" to %s'`,
	keyNames: map[string]string{
		"ctrl":            "command down",
		"super":           "command down",
		"tab":             "key code 48",
		"space":           "key code 49",
		"backspace":       "key code 51",
		"delete":          "key code 117",
		"enter":           "key code 36",
		"escape":          "key code 53",
		"show_desktop":    "key code 103",
		"window_minimize": "keystroke \"m\" using command down",
	},
	style:      keyStyleAppleScript,
	screenshot: "screencapture -x %s",
	quote:      posixQuote,
}

var windowsTable = commandTable{
	open: `start "" %s`,
	apps: map[string]string{
		"calculator":        "start calc",
		"notepad":           "start notepad",
		"command prompt":    "start cmd",
		"file explorer":     "start explorer",
		"task manager":      "start taskmgr",
		"control panel":     "start control",
		"settings":          "start ms-settings:",
		"recycle bin":       "start shell:RecycleBinFolder",
		"empty recycle bin": `powershell -NoProfile -Command "Clear-RecycleBin -Force"`,
	},
	power: map[domain.PowerOp]string{
		domain.PowerShutdown:  "shutdown /s /t 10",
		domain.PowerRestart:   "shutdown /r /t 10",
		domain.PowerSleep:     "rundll32.exe powrprof.dll,SetSuspendState 0,1,0",
		domain.PowerHibernate: "shutdown /h",
		domain.PowerLock:      "rundll32.exe user32.dll,LockWorkStation",
		domain.PowerSignOut:   "shutdown /l",
		domain.PowerSwitch:    "tsdiscon",
	},
	keys: `powershell -NoProfile -Command "(New-Object -ComObject WScript.Shell).SendKeys('%s')"`,
	keyNames: map[string]string{
		"media_play_pause": "{MEDIA_PLAY_PAUSE}",
		"media_stop":       "{MEDIA_STOP}",
		"media_next":       "{MEDIA_NEXT_TRACK}",
		"media_previous":   "{MEDIA_PREV_TRACK}",
		"volume_up":        "{VOLUME_UP}",
		"volume_down":      "{VOLUME_DOWN}",
		"volume_mute":      "{VOLUME_MUTE}",
		"ctrl":             "^",
		"tab":              "{TAB}",
		"space":            " ",
		"backspace":        "{BACKSPACE}",
		"delete":           "{DELETE}",
		"enter":            "{ENTER}",
		"escape":           "{ESC}",
	},
	style: keyStyleSendKeys,
	quote: windowsQuote,
}

// keyCommand renders a key chord; the last key is pressed while the others are held.
// Names missing from keyNames pass through when they are a plain lowercase key.
func (t commandTable) keyCommand(keys []string) (string, error) {
	if t.keys == "" || len(keys) == 0 {
		return "", domain.ErrUnsupported
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		name, ok := t.keyNames[k]
		if !ok {
			if !isPlainKey(k) {
				return "", fmt.Errorf("%w: key %q", domain.ErrUnsupported, k)
			}
			name = k
			if t.style == keyStyleAppleScript {
				name = fmt.Sprintf("keystroke %q", k)
			}
		}
		parts = append(parts, name)
	}

	switch t.style {
	case keyStyleAppleScript:
		last := parts[len(parts)-1]
		if len(parts) > 1 {
			last += " using {" + strings.Join(parts[:len(parts)-1], ", ") + "}"
		}
		return fmt.Sprintf(t.keys, last), nil
	case keyStyleSendKeys:
		return fmt.Sprintf(t.keys, strings.Join(parts, "")), nil
	default:
		return fmt.Sprintf(t.keys, t.quote(strings.Join(parts, "+"))), nil
	}
}

func isPlainKey(k string) bool {
	if k == "" || len(k) > 12 {
		return false
	}
	for _, r := range k {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}

func posixQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func windowsQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
