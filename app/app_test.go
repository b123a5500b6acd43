package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moyoez/portal-gateway/mode"
	"github.com/moyoez/portal-gateway/storage"
	"github.com/moyoez/portal-gateway/tool"
	"github.com/moyoez/portal-gateway/types"
)

type fakeRadio struct {
	mu        sync.Mutex
	connected bool
	joins     int
	apNames   []string
}

func (f *fakeRadio) Join(string, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.joins++
	return nil
}

func (f *fakeRadio) Connected() bool { return f.connected }
func (f *fakeRadio) Address() string { return "10.1.2.3" }

func (f *fakeRadio) StartAccessPoint(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.apNames = append(f.apNames, name)
	return nil
}

type noRestart struct{}

func (noRestart) Restart() {}

func newTestApp(t *testing.T, r *fakeRadio) (*App, *storage.Dir) {
	t.Helper()
	d, err := storage.Mount(t.TempDir())
	require.NoError(t, err)
	cfg := tool.DefaultConfig()
	cfg.HTTPAddr = "127.0.0.1:0"
	cfg.DNSAddr = "127.0.0.1:0"
	cfg.NetCheck.Host = ""
	a := New(cfg, d, r, noRestart{})
	a.sleep = func(time.Duration) {}
	return a, d
}

func cancelled() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

func TestStationModeNeverStartsPortal(t *testing.T) {
	r := &fakeRadio{connected: true}
	a, _ := newTestApp(t, r)
	require.NoError(t, a.configs.Save(types.Credentials{SSID: "home", Passphrase: "pw"}, types.DefaultSettings()))

	portalStarted := false
	a.portal = func(context.Context) error {
		portalStarted = true
		return nil
	}
	var got mode.Result
	a.station = func(ctx context.Context, res mode.Result) error {
		got = res
		return a.runStation(ctx, res)
	}

	require.NoError(t, a.Run(cancelled()))
	assert.False(t, portalStarted)
	assert.Empty(t, r.apNames)
	assert.Equal(t, types.ModeStation, got.Mode)
	assert.Equal(t, 1, r.joins)

	raw, err := a.log.Raw()
	require.NoError(t, err)
	assert.Contains(t, raw, "STA: connected ssid=home ip=10.1.2.3")
}

func TestNoCredentialsStartsPortal(t *testing.T) {
	r := &fakeRadio{}
	a, _ := newTestApp(t, r)

	stationStarted := false
	a.station = func(context.Context, mode.Result) error {
		stationStarted = true
		return nil
	}
	require.NoError(t, a.Run(cancelled()))
	assert.False(t, stationStarted)
	assert.Zero(t, r.joins)
	assert.Equal(t, []string{types.DefaultAPName}, r.apNames)
}

func TestFailedJoinFallsBackToPortal(t *testing.T) {
	r := &fakeRadio{}
	a, _ := newTestApp(t, r)
	require.NoError(t, a.configs.Save(types.Credentials{SSID: "gone"}, types.Settings{APName: "Lobby", SiteName: "Cafe"}))

	require.NoError(t, a.Run(cancelled()))
	assert.Equal(t, 1, r.joins)
	assert.Equal(t, []string{"Lobby"}, r.apNames)
}

func TestPortalStopsOnCancel(t *testing.T) {
	r := &fakeRadio{}
	a, _ := newTestApp(t, r)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("portal did not stop")
	}
}

func TestPortalRejectsBadGateway(t *testing.T) {
	r := &fakeRadio{}
	a, _ := newTestApp(t, r)
	a.cfg.GatewayIP = "nope"
	assert.Error(t, a.Run(context.Background()))
}
