package battery

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/distatus/battery"
)

func restoreSeams(t *testing.T) {
	t.Helper()
	origGetAll := getAll
	origGoos := goos
	origRun := runCommand
	origRead := readSysDir
	origProbe := generateProbeReport
	t.Cleanup(func() {
		getAll = origGetAll
		goos = origGoos
		runCommand = origRun
		readSysDir = origRead
		generateProbeReport = origProbe
	})
	// Keep probe tests hermetic: the real fallback shells out to the
	// diagnostic tool.
	generateProbeReport = func() error { return errors.New("probe disabled") }
}

func TestEnumerateStructuredQuery(t *testing.T) {
	restoreSeams(t)
	getAll = func() ([]*battery.Battery, error) {
		return []*battery.Battery{
			{Design: 50000, Full: 46500},
			{Design: 30000, Full: 28000},
		}, nil
	}

	infos := Enumerate()
	if len(infos) != 2 {
		t.Fatalf("expected 2 batteries, got %d", len(infos))
	}
	for i, info := range infos {
		if info.Index != i {
			t.Errorf("battery %d has index %d", i, info.Index)
		}
	}
	if infos[1].Device != "BAT1" {
		t.Errorf("expected device BAT1, got %s", infos[1].Device)
	}
}

func TestEnumerateSkipsEmptyEntries(t *testing.T) {
	restoreSeams(t)
	getAll = func() ([]*battery.Battery, error) {
		return []*battery.Battery{
			{Design: 0, Full: 0}, // virtual device with no capacity data
			{Design: 50000, Full: 40000},
		}, nil
	}

	infos := Enumerate()
	if len(infos) != 1 {
		t.Fatalf("expected 1 battery, got %d", len(infos))
	}
	if infos[0].Index != 0 {
		t.Errorf("surviving battery should be reindexed to 0, got %d", infos[0].Index)
	}
}

func TestEnumeratePartialErrors(t *testing.T) {
	restoreSeams(t)
	getAll = func() ([]*battery.Battery, error) {
		return []*battery.Battery{
				{Design: 50000, Full: 46500},
				{},
			}, battery.Errors{
				nil,
				errors.New("no state info"),
			}
	}

	infos := Enumerate()
	if len(infos) != 1 {
		t.Fatalf("expected only the readable battery, got %d", len(infos))
	}
}

func TestEnumerateFallsBackToProbe(t *testing.T) {
	restoreSeams(t)
	getAll = func() ([]*battery.Battery, error) {
		return nil, errors.New("query not supported")
	}
	goos = "linux"
	readSysDir = func(string) ([]fs.DirEntry, error) {
		return []fs.DirEntry{fakeDirEntry("AC"), fakeDirEntry("BAT0")}, nil
	}

	infos := Enumerate()
	if len(infos) != 1 {
		t.Fatalf("expected placeholder battery, got %d entries", len(infos))
	}
	if infos[0].Availability != "Unknown" {
		t.Errorf("placeholder availability = %q, want Unknown", infos[0].Availability)
	}
}

func TestEnumerateNoBattery(t *testing.T) {
	restoreSeams(t)
	getAll = func() ([]*battery.Battery, error) {
		return nil, errors.New("query not supported")
	}
	goos = "linux"
	readSysDir = func(string) ([]fs.DirEntry, error) {
		return nil, errors.New("no such directory")
	}

	if infos := Enumerate(); infos != nil {
		t.Fatalf("expected no batteries, got %v", infos)
	}
}

func TestProbeWMI(t *testing.T) {
	restoreSeams(t)
	goos = "windows"

	tests := []struct {
		name   string
		output string
		err    error
		want   bool
	}{
		{"one battery", "1\r\n", nil, true},
		{"no battery", "0\r\n", nil, false},
		{"empty output", "", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runCommand = func(string, ...string) ([]byte, error) {
				return []byte(tt.output), tt.err
			}
			if got := probePresence(); got != tt.want {
				t.Errorf("probePresence() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProbeWMICFallback(t *testing.T) {
	restoreSeams(t)
	goos = "windows"

	calls := 0
	runCommand = func(name string, _ ...string) ([]byte, error) {
		calls++
		if name == "powershell" {
			return nil, errors.New("executable file not found")
		}
		return []byte("Status\r\nOK\r\n"), nil
	}

	if !probePresence() {
		t.Fatal("expected WMIC fallback to detect battery")
	}
	if calls != 2 {
		t.Fatalf("expected powershell then WMIC, got %d calls", calls)
	}
}

func TestProbeReportFallback(t *testing.T) {
	restoreSeams(t)
	goos = "windows"
	runCommand = func(string, ...string) ([]byte, error) {
		return nil, errors.New("executable file not found")
	}

	// WMI and WMIC both fail; report generation succeeding is itself
	// the presence signal.
	generateProbeReport = func() error { return nil }
	if !probePresence() {
		t.Fatal("expected report probe to detect battery")
	}

	generateProbeReport = func() error { return errors.New("unable to perform operation") }
	if probePresence() {
		t.Fatal("expected failed report probe to mean no battery")
	}
}

// fakeDirEntry is a minimal fs.DirEntry for sysfs probe tests.
type fakeDirEntry string

func (f fakeDirEntry) Name() string               { return string(f) }
func (f fakeDirEntry) IsDir() bool                { return true }
func (f fakeDirEntry) Type() fs.FileMode          { return fs.ModeDir }
func (f fakeDirEntry) Info() (fs.FileInfo, error) { return nil, nil }
