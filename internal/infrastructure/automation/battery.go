package automation

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/doeshing/phoenix-go/internal/domain"
)

var pmsetPercent = regexp.MustCompile(`(\d+)%`)

// Battery reports the charge of the first battery found.
func (r *Runtime) Battery(ctx context.Context) (domain.BatteryStatus, error) {
	switch r.goos {
	case "darwin":
		res, err := r.exec.Execute(ctx, "pmset -g batt")
		if err != nil {
			return domain.BatteryStatus{}, fmt.Errorf("pmset: %w", err)
		}
		return parsePmset(res.Stdout), nil
	case "windows":
		res, err := r.exec.Execute(ctx, `powershell -NoProfile -Command "$b=Get-CimInstance Win32_Battery; if($b){\"$($b.EstimatedChargeRemaining) $($b.BatteryStatus)\"}"`)
		if err != nil {
			return domain.BatteryStatus{}, fmt.Errorf("battery query: %w", err)
		}
		return parseWin32Battery(res.Stdout), nil
	default:
		return readSysfsBattery(r.batteryDir)
	}
}

func readSysfsBattery(dir string) (domain.BatteryStatus, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "BAT*"))
	if err != nil {
		return domain.BatteryStatus{}, err
	}
	if len(matches) == 0 {
		return domain.BatteryStatus{}, nil
	}
	bat := matches[0]
	raw, err := os.ReadFile(filepath.Join(bat, "capacity"))
	if err != nil {
		return domain.BatteryStatus{}, fmt.Errorf("read battery capacity: %w", err)
	}
	percent, err := strconv.ParseFloat(strings.TrimSpace(string(raw)), 64)
	if err != nil {
		return domain.BatteryStatus{}, fmt.Errorf("parse battery capacity: %w", err)
	}
	status := domain.BatteryStatus{Present: true, Percent: percent}
	if raw, err := os.ReadFile(filepath.Join(bat, "status")); err == nil {
		s := strings.TrimSpace(string(raw))
		status.PluggedIn = s == "Charging" || s == "Full" || s == "Not charging"
	}
	return status, nil
}

func parsePmset(out string) domain.BatteryStatus {
	m := pmsetPercent.FindStringSubmatch(out)
	if m == nil {
		return domain.BatteryStatus{}
	}
	percent, _ := strconv.ParseFloat(m[1], 64)
	return domain.BatteryStatus{
		Present:   true,
		Percent:   percent,
		PluggedIn: strings.Contains(out, "AC Power"),
	}
}

// Win32_Battery BatteryStatus 2 means the system has access to AC power.
func parseWin32Battery(out string) domain.BatteryStatus {
	fields := strings.Fields(out)
	if len(fields) < 2 {
		return domain.BatteryStatus{}
	}
	percent, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return domain.BatteryStatus{}
	}
	return domain.BatteryStatus{Present: true, Percent: percent, PluggedIn: fields[1] == "2"}
}
