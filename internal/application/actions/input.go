package actions

import (
	"context"
	"fmt"

	"github.com/doeshing/phoenix-go/internal/domain"
)

// Logical key names understood by every ActionRuntime.
const (
	KeyMediaPlayPause = "media_play_pause"
	KeyMediaStop      = "media_stop"
	KeyMediaNext      = "media_next"
	KeyMediaPrevious  = "media_previous"
	KeyVolumeUp       = "volume_up"
	KeyVolumeDown     = "volume_down"
	KeyVolumeMute     = "volume_mute"
	KeyCtrl           = "ctrl"
	KeySuper          = "super"
	KeyTab            = "tab"
	KeySpace          = "space"
	KeyBackspace      = "backspace"
	KeyDelete         = "delete"
	KeyShowDesktop    = "show_desktop"
	KeyWindowMaximize = "window_maximize"
	KeyWindowMinimize = "window_minimize"
)

const volumeSteps = 5

func keys(d Deps, message string, combo ...string) func(context.Context, string) (domain.ActionResult, error) {
	return func(ctx context.Context, _ string) (domain.ActionResult, error) {
		if err := d.Runtime.PressKeys(ctx, combo...); err != nil {
			return domain.ActionResult{}, fmt.Errorf("keys %v: %w", combo, err)
		}
		return domain.Success(message, nil), nil
	}
}

func repeatKey(d Deps, key string, times int, message string) func(context.Context, string) (domain.ActionResult, error) {
	return func(ctx context.Context, _ string) (domain.ActionResult, error) {
		for i := 0; i < times; i++ {
			if err := d.Runtime.PressKeys(ctx, key); err != nil {
				return domain.ActionResult{}, fmt.Errorf("key %s: %w", key, err)
			}
		}
		return domain.Success(message, nil), nil
	}
}

func registerMedia(b *batch, d Deps) {
	b.exact("play", "media_play", CategoryMedia, "Play", keys(d, "Media play command sent", KeyMediaPlayPause))
	b.exact("pause", "media_pause", CategoryMedia, "Pause", keys(d, "Media pause command sent", KeyMediaPlayPause))
	b.exact("stop", "media_stop", CategoryMedia, "Stop", keys(d, "Media stop command sent", KeyMediaStop))
	b.exact("next track", "media_next", CategoryMedia, "Next track", keys(d, "Next track command sent", KeyMediaNext))
	b.exact("previous track", "media_previous", CategoryMedia, "Previous track", keys(d, "Previous track command sent", KeyMediaPrevious))
	b.exact("increase volume", "volume_up", CategoryMedia, "Volume up", repeatKey(d, KeyVolumeUp, volumeSteps, "Volume increased"))
	b.exact("decrease volume", "volume_down", CategoryMedia, "Volume down", repeatKey(d, KeyVolumeDown, volumeSteps, "Volume decreased"))
	b.exact("mute", "volume_mute", CategoryMedia, "Mute", keys(d, "Volume muted", KeyVolumeMute))
	b.exact("unmute", "volume_unmute", CategoryMedia, "Unmute", keys(d, "Volume unmuted", KeyVolumeMute))
}

func registerKeyboard(b *batch, d Deps) {
	b.exact("copy", "copy", CategoryKeyboard, "Copy selection", keys(d, "Copied", KeyCtrl, "c"))
	b.exact("paste", "paste", CategoryKeyboard, "Paste", keys(d, "Pasted", KeyCtrl, "v"))
	b.exact("cut", "cut", CategoryKeyboard, "Cut selection", keys(d, "Cut", KeyCtrl, "x"))
	b.exact("clear", "clear", CategoryKeyboard, "Select all and delete", func(ctx context.Context, _ string) (domain.ActionResult, error) {
		if err := d.Runtime.PressKeys(ctx, KeyCtrl, "a"); err != nil {
			return domain.ActionResult{}, fmt.Errorf("select all: %w", err)
		}
		if err := d.Runtime.PressKeys(ctx, KeyDelete); err != nil {
			return domain.ActionResult{}, fmt.Errorf("delete: %w", err)
		}
		return domain.Success("Cleared", nil), nil
	})
	b.exact("backspace", "backspace", CategoryKeyboard, "Backspace", keys(d, "Backspace pressed", KeyBackspace))
	b.exact("insert tab", "insert_tab", CategoryKeyboard, "Tab", keys(d, "Tab inserted", KeyTab))
	b.exact("insert whitespace", "insert_space", CategoryKeyboard, "Space", keys(d, "Whitespace inserted", KeySpace))
	b.prefix("press ", "press_key", CategoryKeyboard, "Press the named key", func(ctx context.Context, key string) (domain.ActionResult, error) {
		if err := d.Runtime.PressKeys(ctx, key); err != nil {
			return domain.ActionResult{}, fmt.Errorf("press %s: %w", key, err)
		}
		return domain.Success("Pressed "+key, nil), nil
	})
	b.exact("start", "start_menu", CategoryKeyboard, "Start menu", keys(d, "Start menu opened", KeySuper))
	b.exact("show desktop", "show_desktop", CategoryKeyboard, "Show desktop", keys(d, "Desktop shown", KeyShowDesktop))
	b.exact("window maximise", "window_maximize", CategoryKeyboard, "Maximize window", keys(d, "Window maximized", KeyWindowMaximize))
	b.exact("window minimise", "window_minimize", CategoryKeyboard, "Minimize window", keys(d, "Window minimized", KeyWindowMinimize))
	b.exact("scroll up", "scroll_up", CategoryKeyboard, "Scroll up", func(ctx context.Context, _ string) (domain.ActionResult, error) {
		if err := d.Runtime.Scroll(ctx, 10); err != nil {
			return domain.ActionResult{}, fmt.Errorf("scroll: %w", err)
		}
		return domain.Success("Scrolled up", nil), nil
	})
	b.exact("scroll down", "scroll_down", CategoryKeyboard, "Scroll down", func(ctx context.Context, _ string) (domain.ActionResult, error) {
		if err := d.Runtime.Scroll(ctx, -10); err != nil {
			return domain.ActionResult{}, fmt.Errorf("scroll: %w", err)
		}
		return domain.Success("Scrolled down", nil), nil
	})
}
