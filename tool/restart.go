package tool

import (
	"os"
	"syscall"
	"time"
)

// Restarter restarts the device. There is no drain of in-flight connections.
type Restarter interface {
	Restart()
}

// ExecRestarter replaces the running process with a fresh copy of itself, which re-runs
// the boot mode decision.
type ExecRestarter struct{}

func (ExecRestarter) Restart() {
	exe, err := os.Executable()
	if err != nil {
		DefaultLogger.Errorf("Failed to locate executable for restart: %v", err)
		os.Exit(1)
	}
	DefaultLogger.Warnf("Restarting %s", exe)
	if err := syscall.Exec(exe, os.Args, os.Environ()); err != nil {
		// exit and let the supervisor bring us back
		DefaultLogger.Errorf("Failed to exec for restart: %v", err)
		os.Exit(1)
	}
}

// RestartAfter calls r.Restart once delay has passed, without blocking the caller.
func RestartAfter(r Restarter, delay time.Duration) {
	DefaultLogger.Infof("Device restart scheduled in %s", delay)
	time.AfterFunc(delay, r.Restart)
}
