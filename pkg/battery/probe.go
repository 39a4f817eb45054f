package battery

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/battcheck/battcheck/pkg/report"
)

// Probe seams, replaced in tests.
var (
	goos                = runtime.GOOS
	runCommand          = func(name string, args ...string) ([]byte, error) { return exec.Command(name, args...).Output() }
	readSysDir          = os.ReadDir
	sysfsPowerSupply    = "/sys/class/power_supply"
	generateProbeReport = defaultGenerateProbeReport
)

// probePresence is a coarse existence check used when the structured
// query finds nothing. On Windows it asks WMI whether a Win32_Battery
// instance exists; elsewhere it scans the ACPI power-supply class for a
// BAT* entry. As a last resort it attempts a throwaway diagnostic
// report: the OS tool refuses to produce one on a machine without a
// battery, so success doubles as a presence signal.
func probePresence() bool {
	if goos == "windows" {
		if probeWMI() {
			return true
		}
	} else if probeSysfs() {
		return true
	}
	return probeReport()
}

func probeWMI() bool {
	out, err := runCommand("powershell", "-NoProfile", "-Command",
		"(Get-CimInstance Win32_Battery | Measure-Object).Count")
	if err != nil {
		// Older systems without powershell in PATH.
		out, err = runCommand("WMIC", "Path", "Win32_Battery", "Get", "Status")
		if err != nil {
			logrus.WithError(err).Debug("WMI battery probe failed")
			return false
		}
		lines := strings.Split(strings.TrimSpace(string(out)), "\n")
		return strings.Contains(string(out), "Status") && len(lines) > 1
	}
	return strings.TrimSpace(string(out)) != "" && strings.TrimSpace(string(out)) != "0"
}

func probeSysfs() bool {
	ents, err := readSysDir(sysfsPowerSupply)
	if err != nil {
		return false
	}
	for _, ent := range ents {
		if strings.HasPrefix(ent.Name(), "BAT") {
			return true
		}
	}
	return false
}

func probeReport() bool {
	if err := generateProbeReport(); err != nil {
		logrus.WithError(err).Debug("diagnostic report probe failed")
		return false
	}
	return true
}

// defaultGenerateProbeReport runs the diagnostic tool against a
// throwaway path, discarding the report itself.
func defaultGenerateProbeReport() error {
	dir, err := os.MkdirTemp("", "battcheck-probe-*")
	if err != nil {
		return err
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			logrus.Warnf("failed to remove probe dir %s", dir)
		}
	}()

	g := report.NewGenerator(filepath.Join(dir, "battery-report.html"))
	return g.Generate(context.Background(), "")
}
