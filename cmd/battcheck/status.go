package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/battcheck/battcheck/pkg/battery"
	"github.com/battcheck/battcheck/pkg/client"
	"github.com/battcheck/battcheck/pkg/config"
)

type statusData struct {
	batteries []battery.Info
	last      *client.LastCheck
	state     *client.CheckState
	system    *client.SystemInfo
	config    *config.RawFileConfig
}

// fetchStatusData gathers all data required for the status command from the daemon.
func fetchStatusData(apiClient *client.Client) (*statusData, error) {
	batteries, err := apiClient.GetBatteries()
	if err != nil {
		return nil, fmt.Errorf("failed to list batteries: %w", err)
	}

	state, err := apiClient.GetCheckState()
	if err != nil {
		return nil, fmt.Errorf("failed to get check state: %w", err)
	}

	system, err := apiClient.GetSystem()
	if err != nil {
		return nil, fmt.Errorf("failed to get system info: %w", err)
	}

	conf, err := apiClient.GetConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to get config: %w", err)
	}

	last, err := apiClient.GetLastCheck()
	if err != nil && !errors.Is(err, client.ErrNotFound) {
		return nil, fmt.Errorf("failed to get last check: %w", err)
	}

	return &statusData{
		batteries: batteries,
		last:      last,
		state:     state,
		system:    system,
		config:    conf,
	}, nil
}

func NewStatusCommand() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "status",
		GroupID: gBasic,
		Short:   "Get the daemon's current status",
		Long:    `Get the daemon's battery list, last check result, and configuration.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			apiClient := client.NewClient(unixSocketPath)

			data, err := fetchStatusData(apiClient)
			if err != nil {
				return err
			}

			if jsonOutput {
				return printStatusJSON(cmd, data)
			}

			// Host.
			cmd.Println(bold("System:"))
			cmd.Printf("  Host: %s (%s %s)\n", data.system.Hostname, data.system.Platform, data.system.PlatformVersion)
			cmd.Println("  Battery present: " + bool2Text(data.system.BatteryPresent))
			cmd.Println("  Administrator rights: " + bool2Text(data.system.AdminRights))

			cmd.Println()

			// Batteries.
			cmd.Println(bold("Batteries:"))
			if len(data.batteries) == 0 {
				cmd.Println("  No battery detected in the system.")
			}
			for _, info := range data.batteries {
				cmd.Printf("  [%d] %s (%s): %s\n", info.Index, info.Name, info.Device, info.Availability)
			}

			cmd.Println()

			// Last check.
			cmd.Println(bold("Last check:"))
			cmd.Printf("  Pipeline state: %s\n", data.state.State)
			switch {
			case data.last == nil:
				cmd.Println("  No check has completed yet. Run 'battcheck check' or POST /checks.")
			case data.last.Result != nil:
				r := data.last.Result
				cmd.Printf("  Checked at:           %s\n", r.CheckedAt.Format(time.DateTime))
				cmd.Printf("  Design capacity:      %s\n", formatCapacity(r.DesignCapacity))
				cmd.Printf("  Full charge capacity: %s\n", formatCapacity(r.FullChargeCapacity))
				cmd.Printf("  Health:               %s\n", bold("%.2f%%", r.Percent))
				cmd.Printf("  Status:               %s\n", r.Status.Color().Sprint(r.Status))
				if data.last.Failure != "" {
					cmd.Printf("  Last failure:         %s\n", data.last.Failure)
				}
			default:
				cmd.Printf("  Last check failed: %s\n", data.last.Failure)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print status as JSON")

	return cmd
}
