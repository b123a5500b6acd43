package radio

import (
	"errors"
	"fmt"

	"github.com/moyoez/portal-gateway/types"
)

// Radio is the WiFi driver. Join only issues the request, Connected is polled afterwards.
type Radio interface {
	Join(ssid, passphrase string) error
	Connected() bool
	Address() string
	StartAccessPoint(name string) error
}

var ErrNoRadio = errors.New("no radio driver configured")

// New returns the driver named in cfg.
func New(cfg types.RadioConfig, gatewayIP string) (Radio, error) {
	switch cfg.Driver {
	case "nmcli":
		return NewNMCLI(cfg.Interface, gatewayIP), nil
	case "none":
		return None{}, nil
	default:
		return nil, fmt.Errorf("unknown radio driver %q", cfg.Driver)
	}
}

// None never connects and pretends to start the access point. It lets the portal run on
// hosts whose WiFi is managed elsewhere.
type None struct{}

func (None) Join(string, string) error     { return ErrNoRadio }
func (None) Connected() bool               { return false }
func (None) Address() string               { return "" }
func (None) StartAccessPoint(string) error { return nil }
