package types

import "time"

// AppConfig represents the daemon configuration loaded from gateway.yaml.
// Device state (station credentials, portal settings) is not kept here, see store.ConfigStore.
type AppConfig struct {
	DataDir      string         `yaml:"dataDir"`
	HTTPAddr     string         `yaml:"httpAddr"`
	DNSAddr      string         `yaml:"dnsAddr"`
	GatewayIP    string         `yaml:"gatewayIP"`
	PortalURL    string         `yaml:"portalURL"`
	RestartDelay time.Duration  `yaml:"restartDelay"`
	Admin        AdminConfig    `yaml:"admin"`
	Station      StationConfig  `yaml:"station"`
	Radio        RadioConfig    `yaml:"radio"`
	Submit       SubmitConfig   `yaml:"submit"`
	NetCheck     NetCheckConfig `yaml:"netcheck"`
}

// AdminConfig is the static admin credential pair. It travels in clear text on every admin form.
type AdminConfig struct {
	User string `yaml:"user"`
	Pass string `yaml:"pass"`
}

// StationConfig bounds the station join retry loop.
type StationConfig struct {
	Attempts int           `yaml:"attempts"`
	Interval time.Duration `yaml:"interval"`
}

// RadioConfig selects the WiFi driver.
type RadioConfig struct {
	Driver    string `yaml:"driver"` // nmcli | none
	Interface string `yaml:"interface"`
}

// SubmitConfig throttles /submit-message per client address. Rate <= 0 disables throttling.
type SubmitConfig struct {
	Rate  float64 `yaml:"rate"`
	Burst int     `yaml:"burst"`
}

// NetCheckConfig is the upstream probe run after a station join.
type NetCheckConfig struct {
	Host  string `yaml:"host"`
	Count int    `yaml:"count"`
}

// Config holds runtime overrides from CLI flags
type Config struct {
	Log           string
	UseConfigPath string
	UseDataDir    string
}
