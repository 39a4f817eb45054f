package config

import "time"

type Config interface {
	// ReportPath is where the diagnostic HTML report is written.
	ReportPath() string
	// ReportWait bounds how long to wait for the report file to appear
	// after the diagnostic command exits.
	ReportWait() time.Duration
	// DefaultBattery is the zero-based battery index checked when the
	// caller does not pick one.
	DefaultBattery() int
	// Schedule is a cron expression for periodic checks; empty means
	// scheduled checks are disabled.
	Schedule() string
	AllowNonRootAccess() bool

	SetReportPath(string)
	SetDefaultBattery(int)
	SetSchedule(string)
	SetAllowNonRootAccess(bool)

	// Load reads the configuration from the source.
	Load() error
	// Save saves the configuration to the source.
	Save() error
}
