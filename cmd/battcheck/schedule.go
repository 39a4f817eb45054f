package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/battcheck/battcheck/pkg/client"
)

func NewScheduleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "schedule",
		GroupID: gAdvanced,
		Short:   "Control periodic health checks",
		Long: `Control the daemon's periodic health checks.

The expression uses cron syntax, e.g. "@daily" or "0 9 * * 1".`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "set [cron expression]",
			Short: "Set the periodic check schedule",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				apiClient := client.NewClient(unixSocketPath)
				ret, err := apiClient.SetSchedule(args[0])
				if err != nil {
					return fmt.Errorf("failed to set schedule: %w", err)
				}
				if ret != "" {
					logrus.Infof("daemon responded: %s", ret)
				}
				logrus.Infof("successfully scheduled periodic checks: %s", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "disable",
			Short: "Disable periodic checks",
			RunE: func(_ *cobra.Command, _ []string) error {
				apiClient := client.NewClient(unixSocketPath)
				ret, err := apiClient.DisableSchedule()
				if err != nil {
					return fmt.Errorf("failed to disable schedule: %w", err)
				}
				if ret != "" {
					logrus.Infof("daemon responded: %s", ret)
				}
				logrus.Infof("successfully disabled periodic checks")
				return nil
			},
		},
	)

	return cmd
}
