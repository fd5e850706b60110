package domain

// PowerOp enumerates power-state operations.
type PowerOp string

const (
	PowerShutdown  PowerOp = "shutdown"
	PowerRestart   PowerOp = "restart"
	PowerSleep     PowerOp = "sleep"
	PowerHibernate PowerOp = "hibernate"
	PowerLock      PowerOp = "lock"
	PowerSignOut   PowerOp = "sign_out"
	PowerSwitch    PowerOp = "switch_user"
)

// BatteryStatus reports the battery charge.
type BatteryStatus struct {
	Present   bool    `json:"present"`
	Percent   float64 `json:"percent"`
	PluggedIn bool    `json:"plugged_in"`
}

// SystemInfo reports resource utilisation.
type SystemInfo struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	DiskPercent   float64 `json:"disk_percent"`
}

// ExecutionResult captures the outcome of an OS command.
type ExecutionResult struct {
	Ran         bool
	ExitCode    int
	Stdout      string
	Stderr      string
	DurationMS  int64
	DryRunNotes string
	Err         error
}
