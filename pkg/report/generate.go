// Package report generates the OS battery diagnostic report and
// extracts capacity readings from it.
package report

import (
	"context"
	"os"
	"os/exec"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	// ErrCommandUnavailable is returned when the diagnostic command is
	// not present on this system.
	ErrCommandUnavailable = pkgerrors.New("diagnostic command unavailable")

	// ErrGenerateFailed is returned when the diagnostic command ran but
	// the report file never materialized.
	ErrGenerateFailed = pkgerrors.New("report generation failed")
)

const (
	// DefaultCommand is the Windows battery diagnostic tool. The report
	// always covers every battery in one file; per-battery selection
	// happens at extraction time, not here.
	DefaultCommand = "powercfg"

	defaultWaitTimeout  = 2 * time.Second
	defaultPollInterval = 100 * time.Millisecond
)

// DefaultArgs builds the fixed argument shape for the diagnostic command.
func DefaultArgs(outputPath string) []string {
	return []string{"/batteryreport", "/output", outputPath}
}

// Generator writes a battery diagnostic HTML report to Path by shelling
// out to an OS command.
type Generator struct {
	// Path is where the report is written.
	Path string
	// Command and Args override the diagnostic invocation, mainly for
	// tests. When empty, the powercfg defaults apply.
	Command string
	Args    []string
	// WaitTimeout bounds how long Generate polls for the report file
	// after the command exits. The OS flushes the file asynchronously.
	WaitTimeout  time.Duration
	PollInterval time.Duration
}

// NewGenerator returns a Generator with the powercfg defaults.
func NewGenerator(path string) *Generator {
	return &Generator{Path: path}
}

// Generate removes any stale report, runs the diagnostic command, and
// waits for the new file to appear. The device argument is accepted for
// interface symmetry but not threaded into the command: powercfg
// reports all batteries in a single file regardless of selection.
func (g *Generator) Generate(ctx context.Context, device string) error {
	command := g.Command
	if command == "" {
		command = DefaultCommand
	}
	args := g.Args
	if args == nil {
		args = DefaultArgs(g.Path)
	}

	if _, err := exec.LookPath(command); err != nil {
		return pkgerrors.Wrapf(ErrCommandUnavailable, "%s not found in PATH", command)
	}

	if err := os.Remove(g.Path); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Warnf("could not remove stale report at %s", g.Path)
	}

	logrus.WithFields(logrus.Fields{
		"command": command,
		"path":    g.Path,
		"device":  device,
	}).Debug("generating battery report")

	out, err := exec.CommandContext(ctx, command, args...).CombinedOutput()
	if err != nil {
		return pkgerrors.Wrapf(ErrGenerateFailed, "%s exited with error: %v: %s", command, err, string(out))
	}

	if !g.waitForFile(ctx) {
		return pkgerrors.Wrapf(ErrGenerateFailed, "report file %s did not appear", g.Path)
	}

	return nil
}

// waitForFile polls until the report file exists or the wait budget is
// spent.
func (g *Generator) waitForFile(ctx context.Context) bool {
	timeout := g.WaitTimeout
	if timeout <= 0 {
		timeout = defaultWaitTimeout
	}
	interval := g.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}

	deadline := time.Now().Add(timeout)
	for {
		if _, err := os.Stat(g.Path); err == nil {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(interval):
		}
	}
}
