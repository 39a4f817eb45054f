package main

import (
	"github.com/spf13/cobra"

	"github.com/battcheck/battcheck/pkg/battery"
)

func NewBatteriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "batteries",
		GroupID: gBasic,
		Short:   "List battery hardware",
		Long:    `List the batteries detected on this system.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			infos := battery.Enumerate()
			if len(infos) == 0 {
				cmd.Println("No battery detected in the system.")
				return nil
			}

			cmd.Println(bold("Batteries:"))
			for _, info := range infos {
				cmd.Printf("  [%d] %s (%s): %s\n", info.Index, info.Name, info.Device, info.Availability)
			}
			return nil
		},
	}
}
