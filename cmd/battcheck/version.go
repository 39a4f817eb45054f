package main

import (
	"github.com/spf13/cobra"

	"github.com/battcheck/battcheck/pkg/client"
	"github.com/battcheck/battcheck/pkg/version"
)

// getVersion returns the client and daemon versions.
func getVersion() (string, string, error) {
	apiClient := client.NewClient(unixSocketPath)
	daemonVersion, err := apiClient.GetVersion()
	if err != nil {
		return version.Version, "", err
	}
	return version.Version, daemonVersion, nil
}

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("%s %s\n", version.Version, version.GitCommit)
			if _, daemonVersion, err := getVersion(); err == nil {
				cmd.Printf("daemon: %s\n", daemonVersion)
			}
		},
	}
}
