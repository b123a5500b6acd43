package radio

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/moyoez/portal-gateway/tool"
)

const (
	apConnectionName = "portal-ap"
	nmcliTimeout     = 15 * time.Second
)

// NMCLI drives NetworkManager through the nmcli command.
type NMCLI struct {
	iface     string
	gatewayIP string
	run       func(ctx context.Context, args ...string) (string, error)
}

func NewNMCLI(iface, gatewayIP string) *NMCLI {
	return &NMCLI{iface: iface, gatewayIP: gatewayIP, run: runNMCLI}
}

func runNMCLI(ctx context.Context, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, "nmcli", args...).CombinedOutput()
	if err != nil {
		return string(out), fmt.Errorf("nmcli %s: %w: %s", args[0], err, strings.TrimSpace(string(out)))
	}
	return string(out), nil
}

func (n *NMCLI) exec(args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), nmcliTimeout)
	defer cancel()
	return n.run(ctx, args...)
}

// Join asks NetworkManager to connect without waiting for activation.
func (n *NMCLI) Join(ssid, passphrase string) error {
	args := []string{"--wait", "0", "device", "wifi", "connect", ssid}
	if passphrase != "" {
		args = append(args, "password", passphrase)
	}
	args = append(args, "ifname", n.iface)
	_, err := n.exec(args...)
	return err
}

// Connected reports whether the interface state is "connected".
func (n *NMCLI) Connected() bool {
	out, err := n.exec("-t", "-g", "GENERAL.STATE", "device", "show", n.iface)
	if err != nil {
		tool.DefaultLogger.Debugf("nmcli state query failed: %v", err)
		return false
	}
	return strings.Contains(out, "(connected)")
}

// Address returns the assigned IPv4 address without prefix length.
func (n *NMCLI) Address() string {
	out, err := n.exec("-t", "-g", "IP4.ADDRESS", "device", "show", n.iface)
	if err == nil {
		first := strings.TrimSpace(strings.Split(out, "|")[0])
		if addr, _, ok := strings.Cut(first, "/"); ok && addr != "" {
			return addr
		}
		if first != "" {
			return first
		}
	}
	if ip, ok := tool.InterfaceIPv4(n.iface); ok {
		return ip
	}
	return ""
}

// StartAccessPoint brings up an open access point with a shared IPv4 network on gatewayIP.
func (n *NMCLI) StartAccessPoint(name string) error {
	// stale profile from a previous boot, may not exist
	_, _ = n.exec("connection", "delete", apConnectionName)

	args := []string{
		"connection", "add", "type", "wifi", "ifname", n.iface,
		"con-name", apConnectionName, "autoconnect", "no", "ssid", name,
		"802-11-wireless.mode", "ap",
		"ipv4.method", "shared",
	}
	if n.gatewayIP != "" {
		args = append(args, "ipv4.addresses", n.gatewayIP+"/24")
	}
	if _, err := n.exec(args...); err != nil {
		return err
	}
	_, err := n.exec("connection", "up", apConnectionName)
	return err
}
