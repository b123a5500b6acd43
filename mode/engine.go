package mode

import (
	"fmt"
	"time"

	"github.com/moyoez/portal-gateway/radio"
	"github.com/moyoez/portal-gateway/store"
	"github.com/moyoez/portal-gateway/tool"
	"github.com/moyoez/portal-gateway/types"
)

// Result is the boot decision.
type Result struct {
	Mode        types.Mode
	Credentials types.Credentials
	Address     string // station address, empty in portal mode
	Polls       int
}

// Engine decides once per boot between station and portal mode.
type Engine struct {
	Configs  *store.ConfigStore
	Log      *store.RecordStore
	Radio    radio.Radio
	Clock    *tool.Uptime
	Attempts int
	Interval time.Duration
	// Sleep defaults to time.Sleep.
	Sleep func(time.Duration)
}

// Decide loads the stored credentials and, when present, tries to join that network.
// The poll loop blocks the caller; it always runs to success or the full budget.
func (e *Engine) Decide() Result {
	creds, _, found := e.Configs.Load()
	if !found || !creds.Configured() {
		tool.DefaultLogger.Info("No station credentials stored, starting portal mode")
		return Result{Mode: types.ModePortal}
	}

	tool.DefaultLogger.Infof("Joining %q (%d attempts, %s interval)", creds.SSID, e.Attempts, e.Interval)
	if err := e.Radio.Join(creds.SSID, creds.Passphrase); err != nil {
		// keep polling: some drivers report the request failed while activation proceeds
		tool.DefaultLogger.Warnf("Join request for %q failed: %v", creds.SSID, err)
	}

	sleep := e.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	for poll := 1; poll <= e.Attempts; poll++ {
		sleep(e.Interval)
		if !e.Radio.Connected() {
			tool.DefaultLogger.Debugf("Station not connected yet (%d/%d)", poll, e.Attempts)
			continue
		}
		addr := e.Radio.Address()
		tool.DefaultLogger.Infof("Station connected to %q with address %s", creds.SSID, addr)
		e.logConnected(creds.SSID, addr)
		return Result{Mode: types.ModeStation, Credentials: creds, Address: addr, Polls: poll}
	}

	tool.DefaultLogger.Warnf("Could not join %q after %d attempts, starting portal mode", creds.SSID, e.Attempts)
	return Result{Mode: types.ModePortal, Credentials: creds, Polls: e.Attempts}
}

func (e *Engine) logConnected(ssid, addr string) {
	if e.Log == nil {
		return
	}
	stamp := "00:00:00"
	if e.Clock != nil {
		stamp = e.Clock.Stamp()
	}
	line := fmt.Sprintf("[%s] STA: connected ssid=%s ip=%s", stamp, ssid, addr)
	if err := e.Log.Append(line); err != nil {
		tool.DefaultLogger.Errorf("Failed to record station connection: %v", err)
	}
}
