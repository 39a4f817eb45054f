package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/battcheck/battcheck/pkg/utils/ptr"
)

func TestNewFileMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	f, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile returned error: %v", err)
	}

	if f.ReportWait() != 2*time.Second {
		t.Errorf("ReportWait = %v, want 2s", f.ReportWait())
	}
	if f.DefaultBattery() != 0 {
		t.Errorf("DefaultBattery = %d, want 0", f.DefaultBattery())
	}
	if f.Schedule() != "" {
		t.Errorf("Schedule = %q, want empty", f.Schedule())
	}
	if f.AllowNonRootAccess() {
		t.Error("AllowNonRootAccess should default to false")
	}
	if f.ReportPath() == "" {
		t.Error("ReportPath should have a default")
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	f, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile returned error: %v", err)
	}

	f.SetReportPath("/tmp/custom-report.html")
	f.SetDefaultBattery(1)
	f.SetSchedule("@daily")
	f.SetAllowNonRootAccess(true)

	if err := f.Save(); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	g, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile after save returned error: %v", err)
	}
	if g.ReportPath() != "/tmp/custom-report.html" {
		t.Errorf("ReportPath = %q", g.ReportPath())
	}
	if g.DefaultBattery() != 1 {
		t.Errorf("DefaultBattery = %d, want 1", g.DefaultBattery())
	}
	if g.Schedule() != "@daily" {
		t.Errorf("Schedule = %q, want @daily", g.Schedule())
	}
	if !g.AllowNonRootAccess() {
		t.Error("AllowNonRootAccess not persisted")
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("  \n"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	f, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile returned error: %v", err)
	}
	if f.ReportWait() != 2*time.Second {
		t.Errorf("ReportWait = %v, want default", f.ReportWait())
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	if _, err := NewFile(path); err == nil {
		t.Fatal("expected error for malformed config")
	}
}

func TestNonPositiveWaitFallsBackToDefault(t *testing.T) {
	f := NewFileFromConfig(&RawFileConfig{ReportWaitSeconds: ptr.To(-1)}, "")
	if f.ReportWait() != 2*time.Second {
		t.Errorf("ReportWait = %v, want 2s", f.ReportWait())
	}
}
