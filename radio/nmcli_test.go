package radio

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moyoez/portal-gateway/types"
)

type recorder struct {
	calls   [][]string
	outputs map[string]string
	fail    map[string]bool
}

func (r *recorder) run(_ context.Context, args ...string) (string, error) {
	r.calls = append(r.calls, args)
	key := strings.Join(args, " ")
	for prefix, failed := range r.fail {
		if failed && strings.HasPrefix(key, prefix) {
			return "", errors.New("boom")
		}
	}
	for prefix, out := range r.outputs {
		if strings.Contains(key, prefix) {
			return out, nil
		}
	}
	return "", nil
}

func newTestNMCLI(rec *recorder) *NMCLI {
	n := NewNMCLI("wlan0", "192.168.4.1")
	n.run = rec.run
	return n
}

func TestNMCLIJoin(t *testing.T) {
	rec := &recorder{}
	n := newTestNMCLI(rec)

	require.NoError(t, n.Join("Home", "pw"))
	require.NoError(t, n.Join("Open", ""))
	assert.Equal(t, []string{"--wait", "0", "device", "wifi", "connect", "Home", "password", "pw", "ifname", "wlan0"}, rec.calls[0])
	assert.Equal(t, []string{"--wait", "0", "device", "wifi", "connect", "Open", "ifname", "wlan0"}, rec.calls[1])
}

func TestNMCLIConnectedAndAddress(t *testing.T) {
	rec := &recorder{outputs: map[string]string{
		"GENERAL.STATE": "100 (connected)\n",
		"IP4.ADDRESS":   "10.0.0.23/24\n",
	}}
	n := newTestNMCLI(rec)
	assert.True(t, n.Connected())
	assert.Equal(t, "10.0.0.23", n.Address())

	rec.outputs["GENERAL.STATE"] = "30 (disconnected)\n"
	assert.False(t, n.Connected())

	rec.fail = map[string]bool{"-t -g GENERAL.STATE": true}
	assert.False(t, n.Connected())
}

func TestNMCLIStartAccessPoint(t *testing.T) {
	rec := &recorder{}
	n := newTestNMCLI(rec)
	require.NoError(t, n.StartAccessPoint("SetupWiFi"))
	require.Len(t, rec.calls, 3)
	assert.Equal(t, []string{"connection", "delete", apConnectionName}, rec.calls[0])
	add := strings.Join(rec.calls[1], " ")
	assert.Contains(t, add, "ssid SetupWiFi")
	assert.Contains(t, add, "802-11-wireless.mode ap")
	assert.Contains(t, add, "ipv4.addresses 192.168.4.1/24")
	assert.Equal(t, []string{"connection", "up", apConnectionName}, rec.calls[2])

	rec.fail = map[string]bool{"connection add": true}
	assert.Error(t, n.StartAccessPoint("x"))
}

func TestNewDriver(t *testing.T) {
	r, err := New(types.RadioConfig{Driver: "none"}, "")
	require.NoError(t, err)
	assert.ErrorIs(t, r.Join("a", "b"), ErrNoRadio)
	assert.False(t, r.Connected())
	assert.NoError(t, r.StartAccessPoint("x"))

	r, err = New(types.RadioConfig{Driver: "nmcli", Interface: "wlan1"}, "10.1.1.1")
	require.NoError(t, err)
	assert.IsType(t, &NMCLI{}, r)

	_, err = New(types.RadioConfig{Driver: "esp"}, "")
	assert.Error(t, err)
}
