// Package app runs one boot: decide the mode, then either idle as a station or serve the
// captive portal until the context ends.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/moyoez/portal-gateway/api"
	"github.com/moyoez/portal-gateway/api/notifyhub"
	"github.com/moyoez/portal-gateway/dnsserver"
	"github.com/moyoez/portal-gateway/mode"
	"github.com/moyoez/portal-gateway/netcheck"
	"github.com/moyoez/portal-gateway/portal"
	"github.com/moyoez/portal-gateway/radio"
	"github.com/moyoez/portal-gateway/storage"
	"github.com/moyoez/portal-gateway/store"
	"github.com/moyoez/portal-gateway/tool"
	"github.com/moyoez/portal-gateway/types"
)

// App holds the stores shared by both modes.
type App struct {
	cfg       types.AppConfig
	radio     radio.Radio
	restarter tool.Restarter
	clock     *tool.Uptime

	configs *store.ConfigStore
	log     *store.RecordStore
	wall    *store.RecordStore
	landing *store.LandingStore

	// sleep paces the station poll loop, time.Sleep unless replaced in tests.
	sleep func(time.Duration)
	// portal and station are the two mode bodies.
	portal  func(ctx context.Context) error
	station func(ctx context.Context, res mode.Result) error
}

// New wires the stores onto an already mounted storage.
func New(cfg types.AppConfig, s storage.Storage, r radio.Radio, restarter tool.Restarter) *App {
	a := &App{
		cfg:       cfg,
		radio:     r,
		restarter: restarter,
		clock:     tool.NewUptime(),
		configs:   store.NewConfigStore(s),
		log:       store.NewAppendStore(s, storage.RecordLog),
		wall:      store.NewBoundedStore(s, storage.RecordWall, types.MaxWallEntries),
		landing:   store.NewLandingStore(s),
		sleep:     time.Sleep,
	}
	a.portal = a.runPortal
	a.station = a.runStation
	return a
}

// Run decides the mode and blocks in it until ctx is done.
func (a *App) Run(ctx context.Context) error {
	engine := &mode.Engine{
		Configs:  a.configs,
		Log:      a.log,
		Radio:    a.radio,
		Clock:    a.clock,
		Attempts: a.cfg.Station.Attempts,
		Interval: a.cfg.Station.Interval,
		Sleep:    a.sleep,
	}
	bootID := tool.GenerateShortID()
	tool.DefaultLogger.Infof("Boot %s: deciding mode", bootID)
	res := engine.Decide()
	tool.DefaultLogger.Infof("Boot %s: %s mode after %d polls", bootID, res.Mode, res.Polls)

	if res.Mode == types.ModeStation {
		return a.station(ctx, res)
	}
	return a.portal(ctx)
}

func (a *App) runStation(ctx context.Context, res mode.Result) error {
	if a.cfg.NetCheck.Host != "" {
		if _, err := netcheck.New(a.cfg.NetCheck).Probe(ctx); err != nil {
			tool.DefaultLogger.Debugf("Reachability probe skipped: %v", err)
		}
	}
	tool.DefaultLogger.Infof("Station mode on %q (%s), portal stays off", res.Credentials.SSID, res.Address)
	<-ctx.Done()
	return nil
}

func (a *App) runPortal(ctx context.Context) error {
	svc := portal.New(portal.Options{
		Configs: a.configs,
		Log:     a.log,
		Wall:    a.wall,
		Landing: a.landing,
		Clock:   a.clock,
		Admin:   a.cfg.Admin,
	})
	settings := svc.Reload()

	if err := a.radio.StartAccessPoint(settings.APName); err != nil {
		tool.DefaultLogger.Errorf("Failed to start access point %q: %v", settings.APName, err)
	} else {
		tool.DefaultLogger.Infof("Access point %q is up", settings.APName)
	}

	dns, err := dnsserver.New(a.cfg.DNSAddr, a.cfg.GatewayIP)
	if err != nil {
		return err
	}

	hub := notifyhub.New()
	svc.OnWallPost(hub.Broadcast)
	server := api.NewServer(a.cfg, svc, hub, a.restarter)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errs := make(chan error, 2)
	go func() {
		if err := server.Start(); err != nil {
			errs <- fmt.Errorf("http: %w", err)
			return
		}
		errs <- nil
	}()
	go func() {
		errs <- dns.Run(ctx)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errs:
		// one side died, take the other down with it
		cancel()
	}

	tool.DefaultLogger.Info("Stopping portal")
	if err := server.Shutdown(context.Background()); err != nil {
		tool.DefaultLogger.Errorf("HTTP shutdown: %v", err)
	}
	return runErr
}
