package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/battcheck/battcheck/pkg/client"
	"github.com/battcheck/battcheck/pkg/logging"
)

var (
	logLevel       = "info"
	logToFile      = false
	unixSocketPath = defaultSocketPath()
	configPath     = defaultConfigPath()
)

var (
	gBasic        = "Basic:"
	gAdvanced     = "Advanced:"
	commandGroups = []string{
		gBasic,
		gAdvanced,
	}
)

func defaultSocketPath() string {
	return filepath.Join(os.TempDir(), "battcheck.sock")
}

func defaultConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "battcheck.json"
	}
	return filepath.Join(base, "battcheck", "config.json")
}

func handleCmdError(err error) {
	if errors.Is(err, client.ErrDaemonNotRunning) {
		fmt.Fprintln(os.Stderr, "\nError: battcheck daemon is not running")
		fmt.Fprintln(os.Stderr, "Start it with 'battcheck daemon', or use 'battcheck check' which needs no daemon.")
	} else if errors.Is(err, client.ErrPermissionDenied) {
		fmt.Fprintln(os.Stderr, "\nError: Permission Denied")
		fmt.Fprintln(os.Stderr, "  - Try running the command again with elevated privileges")
		fmt.Fprintln(os.Stderr, "  - Or run the daemon with '--always-allow-non-root-access'")
	}
}

func main() {
	cmd := NewCommand()
	if err := cmd.Execute(); err != nil {
		handleCmdError(err)
		os.Exit(1)
	}
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "battcheck",
		Short: "battcheck measures laptop battery wear",
		Long: `battcheck measures laptop battery wear.

It generates the OS battery diagnostic report, extracts the design and
full-charge capacities, and reports a health percentage with a status label.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if err := logging.Setup(logLevel); err != nil {
				return err
			}

			if logToFile {
				if path, err := logging.EnableDailyFile(); err != nil {
					logrus.Warnf("could not open daily log file: %v", err)
				} else {
					logrus.Debugf("logging to %s", path)
				}
			}

			if clientVersion, daemonVersion, err := getVersion(); err == nil {
				if daemonVersion != clientVersion {
					logrus.WithFields(logrus.Fields{
						"clientVersion": clientVersion,
						"daemonVersion": daemonVersion,
					}).Warn("Version mismatch between client and daemon. battcheck may not work as expected.")
				}
			}

			return nil
		},
	}

	globalFlags := cmd.PersistentFlags()
	globalFlags.StringVarP(&logLevel, "log-level", "l", "info", "log level (trace, debug, info, warn, error, fatal, panic)")
	globalFlags.BoolVar(&logToFile, "log-file", false, "also write logs to a per-day file under the user config dir (the daemon always does)")
	globalFlags.StringVar(&configPath, "config", configPath, "config file path")
	globalFlags.StringVar(&unixSocketPath, "daemon-socket", unixSocketPath, "battcheck daemon unix socket path")

	for _, i := range commandGroups {
		cmd.AddGroup(&cobra.Group{
			ID:    i,
			Title: i,
		})
	}

	cmd.AddCommand(
		NewCheckCommand(),
		NewBatteriesCommand(),
		NewStatusCommand(),
		NewDaemonCommand(),
		NewScheduleCommand(),
		NewVersionCommand(),
	)

	return cmd
}
