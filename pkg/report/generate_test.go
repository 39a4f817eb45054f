package report

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func TestGenerateCommandUnavailable(t *testing.T) {
	g := &Generator{
		Path:    filepath.Join(t.TempDir(), "report.html"),
		Command: "battcheck-no-such-diagnostic-tool",
	}

	err := g.Generate(context.Background(), "")
	if !errors.Is(err, ErrCommandUnavailable) {
		t.Fatalf("error = %v, want ErrCommandUnavailable", err)
	}
}

func TestGenerateWritesReport(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell shim not available on windows")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "report.html")

	// Shim that plays the diagnostic tool: writes the report file.
	shim := filepath.Join(dir, "fake-powercfg")
	script := "#!/bin/sh\necho '<html></html>' > \"" + path + "\"\n"
	if err := os.WriteFile(shim, []byte(script), 0755); err != nil {
		t.Fatalf("failed to write shim: %v", err)
	}

	// Pre-existing stale report must be deleted before the run.
	if err := os.WriteFile(path, []byte("stale"), 0644); err != nil {
		t.Fatalf("failed to write stale report: %v", err)
	}

	g := &Generator{
		Path:         path,
		Command:      shim,
		Args:         []string{},
		WaitTimeout:  time.Second,
		PollInterval: 10 * time.Millisecond,
	}

	if err := g.Generate(context.Background(), "BAT0"); err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	if string(data) == "stale" {
		t.Fatal("stale report was not replaced")
	}
}

func TestGenerateCommandFails(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell shim not available on windows")
	}

	dir := t.TempDir()
	shim := filepath.Join(dir, "fake-powercfg")
	if err := os.WriteFile(shim, []byte("#!/bin/sh\nexit 1\n"), 0755); err != nil {
		t.Fatalf("failed to write shim: %v", err)
	}

	g := &Generator{
		Path:    filepath.Join(dir, "report.html"),
		Command: shim,
		Args:    []string{},
	}

	err := g.Generate(context.Background(), "")
	if !errors.Is(err, ErrGenerateFailed) {
		t.Fatalf("error = %v, want ErrGenerateFailed", err)
	}
}

func TestGenerateFileNeverAppears(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell shim not available on windows")
	}

	dir := t.TempDir()
	shim := filepath.Join(dir, "fake-powercfg")
	if err := os.WriteFile(shim, []byte("#!/bin/sh\nexit 0\n"), 0755); err != nil {
		t.Fatalf("failed to write shim: %v", err)
	}

	g := &Generator{
		Path:         filepath.Join(dir, "report.html"),
		Command:      shim,
		Args:         []string{},
		WaitTimeout:  50 * time.Millisecond,
		PollInterval: 10 * time.Millisecond,
	}

	err := g.Generate(context.Background(), "")
	if !errors.Is(err, ErrGenerateFailed) {
		t.Fatalf("error = %v, want ErrGenerateFailed", err)
	}
}

func TestWaitForFileAppearsLate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.html")

	g := &Generator{
		Path:         path,
		WaitTimeout:  time.Second,
		PollInterval: 10 * time.Millisecond,
	}

	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = os.WriteFile(path, []byte("<html></html>"), 0644)
	}()

	if !g.waitForFile(context.Background()) {
		t.Fatal("waitForFile should see the file appear")
	}
}
