package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/battcheck/battcheck/pkg/checker"
	"github.com/battcheck/battcheck/pkg/config"
)

// NewCheckCommand runs the pipeline in-process; no daemon needed.
func NewCheckCommand() *cobra.Command {
	var (
		batteryIndex int
		reportPath   string
		jsonOutput   bool
	)

	cmd := &cobra.Command{
		Use:     "check",
		GroupID: gBasic,
		Short:   "Run a battery health check",
		Long: `Run a battery health check.

Generates the OS battery diagnostic report, extracts the design and
full-charge capacities, and prints the computed health. Report
generation may require administrator rights.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := config.NewFile(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if batteryIndex < 0 {
				batteryIndex = conf.DefaultBattery()
			}
			path := reportPath
			if path == "" {
				path = conf.ReportPath()
			}

			chk := checker.New(path)
			chk.Generator.WaitTimeout = conf.ReportWait()
			worker := checker.NewWorker(chk, nil)

			resultCh := make(chan *checker.Result, 1)
			failCh := make(chan string, 1)

			err = worker.Trigger(batteryIndex, checker.Callbacks{
				OnProgress: func(pct int) {
					if !jsonOutput {
						cmd.Printf("\rChecking... %3d%%", pct)
					}
				},
				OnDone:   func(r *checker.Result) { resultCh <- r },
				OnFailed: func(_ checker.State, msg string) { failCh <- msg },
			})
			if err != nil {
				return err
			}

			select {
			case result := <-resultCh:
				if !jsonOutput {
					cmd.Println()
				}
				return printResult(cmd, result, jsonOutput)
			case msg := <-failCh:
				if !jsonOutput {
					cmd.Println()
				}
				return fmt.Errorf("%s", msg)
			}
		},
	}

	f := cmd.Flags()
	f.IntVarP(&batteryIndex, "battery", "b", -1, "zero-based battery index (default from config)")
	f.StringVar(&reportPath, "report-path", "", "where to write the diagnostic report (default from config)")
	f.BoolVar(&jsonOutput, "json", false, "print the result as JSON")

	return cmd
}

func printResult(cmd *cobra.Command, result *checker.Result, jsonOutput bool) error {
	if jsonOutput {
		b, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(b))
		return nil
	}

	cmd.Println(bold("Battery health:"))
	cmd.Printf("  Battery:              %s (%s)\n", result.Battery.Name, result.Battery.Device)
	if result.BatteryCount > 1 {
		cmd.Printf("  Batteries found:      %d\n", result.BatteryCount)
	}
	cmd.Printf("  Design capacity:      %s\n", formatCapacity(result.DesignCapacity))
	cmd.Printf("  Full charge capacity: %s\n", formatCapacity(result.FullChargeCapacity))
	cmd.Printf("  Health:               %s\n", bold("%.2f%%", result.Percent))
	cmd.Printf("  Status:               %s\n", result.Status.Color().Sprint(result.Status))

	return nil
}
