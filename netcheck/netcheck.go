// Package netcheck pings an upstream host once the station join succeeds, so the boot log
// shows whether the joined network actually routes anywhere.
package netcheck

import (
	"context"
	"errors"
	"fmt"
	"time"

	probing "github.com/prometheus-community/pro-bing"

	"github.com/moyoez/portal-gateway/tool"
	"github.com/moyoez/portal-gateway/types"
)

const (
	defaultCount   = 3
	perPingTimeout = 2 * time.Second
)

var ErrNoHost = errors.New("netcheck host is empty")

// Result summarizes one probe run.
type Result struct {
	Host     string
	Sent     int
	Received int
	Loss     float64
	AvgRTT   time.Duration
}

func (r Result) Reachable() bool {
	return r.Received > 0
}

func (r Result) String() string {
	return fmt.Sprintf("%s: %d/%d replies, %.0f%% loss, avg %s", r.Host, r.Received, r.Sent, r.Loss, r.AvgRTT)
}

// runner sends count echo requests to host and reports statistics.
type runner func(ctx context.Context, host string, count int) (*probing.Statistics, error)

// Checker runs reachability probes.
type Checker struct {
	host  string
	count int
	run   runner
}

// New returns a checker for cfg. A zero count uses three pings.
func New(cfg types.NetCheckConfig) *Checker {
	count := cfg.Count
	if count <= 0 {
		count = defaultCount
	}
	return &Checker{host: cfg.Host, count: count, run: ping}
}

func ping(ctx context.Context, host string, count int) (*probing.Statistics, error) {
	pinger, err := probing.NewPinger(host)
	if err != nil {
		return nil, err
	}
	// unprivileged UDP ping, needs net.ipv4.ping_group_range on Linux
	pinger.SetPrivileged(false)
	pinger.Count = count
	pinger.Timeout = time.Duration(count) * perPingTimeout
	if err := pinger.RunWithContext(ctx); err != nil {
		return nil, err
	}
	return pinger.Statistics(), nil
}

// Probe pings the configured host and logs the outcome. It never touches the Log Store.
func (c *Checker) Probe(ctx context.Context) (Result, error) {
	if c.host == "" {
		return Result{}, ErrNoHost
	}
	stats, err := c.run(ctx, c.host, c.count)
	if err != nil {
		tool.DefaultLogger.Warnf("[NetCheck] Probe of %s failed: %v", c.host, err)
		return Result{Host: c.host}, err
	}
	res := Result{
		Host:     c.host,
		Sent:     stats.PacketsSent,
		Received: stats.PacketsRecv,
		Loss:     stats.PacketLoss,
		AvgRTT:   stats.AvgRtt,
	}
	if res.Reachable() {
		tool.DefaultLogger.Infof("[NetCheck] Upstream reachable, %s", res)
	} else {
		tool.DefaultLogger.Warnf("[NetCheck] Upstream unreachable, %s", res)
	}
	return res, nil
}
