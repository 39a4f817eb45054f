package main

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/battcheck/battcheck/pkg/battery"
)

type statusJSON struct {
	System    statusSystemJSON  `json:"system"`
	Batteries []battery.Info    `json:"batteries"`
	Check     statusCheckJSON   `json:"check"`
	Config    *statusConfigJSON `json:"configuration,omitempty"`
}

type statusSystemJSON struct {
	Hostname       string `json:"hostname"`
	Platform       string `json:"platform"`
	BatteryPresent bool   `json:"batteryPresent"`
	AdminRights    bool   `json:"adminRights"`
}

type statusCheckJSON struct {
	State              string     `json:"state"`
	Running            bool       `json:"running"`
	CheckedAt          *time.Time `json:"checkedAt,omitempty"`
	DesignCapacity     *float64   `json:"designCapacityMwh,omitempty"`
	FullChargeCapacity *float64   `json:"fullChargeCapacityMwh,omitempty"`
	HealthPercent      *float64   `json:"healthPercent,omitempty"`
	Status             string     `json:"status,omitempty"`
	Failure            string     `json:"failure,omitempty"`
}

type statusConfigJSON struct {
	ReportPath     string `json:"reportPath"`
	DefaultBattery int    `json:"defaultBattery"`
	Schedule       string `json:"schedule"`
}

func printStatusJSON(cmd *cobra.Command, data *statusData) error {
	out := statusJSON{
		System: statusSystemJSON{
			Hostname:       data.system.Hostname,
			Platform:       data.system.Platform,
			BatteryPresent: data.system.BatteryPresent,
			AdminRights:    data.system.AdminRights,
		},
		Batteries: data.batteries,
		Check: statusCheckJSON{
			State:   string(data.state.State),
			Running: data.state.Running,
		},
	}

	if data.last != nil {
		out.Check.Failure = data.last.Failure
		if r := data.last.Result; r != nil {
			out.Check.CheckedAt = &r.CheckedAt
			out.Check.DesignCapacity = &r.DesignCapacity
			out.Check.FullChargeCapacity = &r.FullChargeCapacity
			out.Check.HealthPercent = &r.Percent
			out.Check.Status = string(r.Status)
		}
	}

	if c := data.config; c != nil {
		cfg := &statusConfigJSON{}
		if c.ReportPath != nil {
			cfg.ReportPath = *c.ReportPath
		}
		if c.DefaultBattery != nil {
			cfg.DefaultBattery = *c.DefaultBattery
		}
		if c.Schedule != nil {
			cfg.Schedule = *c.Schedule
		}
		out.Config = cfg
	}

	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(b))
	return nil
}
