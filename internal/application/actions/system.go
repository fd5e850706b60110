package actions

import (
	"context"
	"fmt"

	"github.com/doeshing/phoenix-go/internal/domain"
)

func power(d Deps, op domain.PowerOp, message string) func(context.Context, string) (domain.ActionResult, error) {
	return func(ctx context.Context, _ string) (domain.ActionResult, error) {
		if err := d.Runtime.Power(ctx, op); err != nil {
			return domain.ActionResult{}, fmt.Errorf("power %s: %w", op, err)
		}
		return domain.Success(message, nil), nil
	}
}

func launch(d Deps, target, message string) func(context.Context, string) (domain.ActionResult, error) {
	return func(ctx context.Context, _ string) (domain.ActionResult, error) {
		if err := d.Runtime.Launch(ctx, target); err != nil {
			return domain.ActionResult{}, fmt.Errorf("launch %s: %w", target, err)
		}
		return domain.Success(message, nil), nil
	}
}

func registerSystem(b *batch, d Deps) {
	b.exact("shut down the computer", "power_shutdown", CategorySystem, "Shut down", power(d, domain.PowerShutdown, "Computer will shut down in 10 seconds"))
	b.exact("restart the computer", "power_restart", CategorySystem, "Restart", power(d, domain.PowerRestart, "Computer will restart in 10 seconds"))
	b.exact("put the computer to sleep", "power_sleep", CategorySystem, "Sleep", power(d, domain.PowerSleep, "Computer going to sleep"))
	b.exact("hibernate the computer", "power_hibernate", CategorySystem, "Hibernate", power(d, domain.PowerHibernate, "Computer hibernating"))
	b.exact("lock the computer", "power_lock", CategorySystem, "Lock the workstation", power(d, domain.PowerLock, "Computer locked"))
	b.exact("sign out of the computer", "power_sign_out", CategorySystem, "Sign out", power(d, domain.PowerSignOut, "Signing out"))
	b.exact("switch user", "power_switch_user", CategorySystem, "Switch user", power(d, domain.PowerSwitch, "Switching user"))
	b.exact("open task manager", "open_task_manager", CategorySystem, "Task manager", launch(d, "task manager", "Task Manager opened"))
	b.exact("open control panel", "open_control_panel", CategorySystem, "Control panel", launch(d, "control panel", "Control Panel opened"))
	b.exact("open settings", "open_settings", CategorySystem, "System settings", launch(d, "settings", "Settings opened"))
	b.exact("check battery level", "battery", CategorySystem, "Battery level", func(ctx context.Context, _ string) (domain.ActionResult, error) {
		st, err := d.Runtime.Battery(ctx)
		if err != nil {
			return domain.ActionResult{}, fmt.Errorf("battery: %w", err)
		}
		if !st.Present {
			return domain.Failure("No battery detected"), nil
		}
		plugged := "not plugged in"
		if st.PluggedIn {
			plugged = "plugged in"
		}
		return domain.Success(fmt.Sprintf("Battery is at %.0f%% and %s", st.Percent, plugged), map[string]interface{}{
			"battery_level": st.Percent,
			"plugged_in":    st.PluggedIn,
		}), nil
	})
	b.exact("show system information", "system_info", CategorySystem, "CPU, memory and disk usage", func(ctx context.Context, _ string) (domain.ActionResult, error) {
		info, err := d.Runtime.SystemInfo(ctx)
		if err != nil {
			return domain.ActionResult{}, fmt.Errorf("system info: %w", err)
		}
		msg := fmt.Sprintf("CPU usage is %.0f%%, Memory usage is %.0f%%, Disk usage is %.0f%%",
			info.CPUPercent, info.MemoryPercent, info.DiskPercent)
		return domain.Success(msg, map[string]interface{}{
			"cpu_percent":    info.CPUPercent,
			"memory_percent": info.MemoryPercent,
			"disk_percent":   info.DiskPercent,
		}), nil
	})
}
