package daemon

import (
	"os"
	"os/exec"
	"runtime"
)

// checkAdminRights reports whether the daemon runs with elevated
// privileges. On Windows the `net session` probe only succeeds for
// administrators; elsewhere effective uid 0 is the answer.
func checkAdminRights() bool {
	if runtime.GOOS == "windows" {
		return exec.Command("net", "session").Run() == nil
	}
	return os.Geteuid() == 0
}
