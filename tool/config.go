package tool

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/moyoez/portal-gateway/types"
)

var (
	ConfigPath    = "gateway.yaml" // be aware that it can be changed, default to ./gateway.yaml
	CurrentConfig types.AppConfig
)

// DefaultConfig returns the daemon defaults. The admin pair is static and insecure by design.
func DefaultConfig() types.AppConfig {
	return types.AppConfig{
		DataDir:      "data",
		HTTPAddr:     ":80",
		DNSAddr:      ":53",
		GatewayIP:    "192.168.4.1",
		PortalURL:    "http://192.168.4.1/portal",
		RestartDelay: 2 * time.Second,
		Admin: types.AdminConfig{
			User: "admin",
			Pass: "admin",
		},
		Station: types.StationConfig{
			Attempts: 20,
			Interval: 500 * time.Millisecond,
		},
		Radio: types.RadioConfig{
			Driver:    "nmcli",
			Interface: "wlan0",
		},
		Submit: types.SubmitConfig{
			Rate:  1,
			Burst: 5,
		},
		NetCheck: types.NetCheckConfig{
			Host:  "1.1.1.1",
			Count: 3,
		},
	}
}

// LoadConfig reads path over the defaults. A missing file is created with the defaults.
func LoadConfig(path string) (types.AppConfig, error) {
	if path == "" {
		path = ConfigPath
	}
	ConfigPath = path

	cfg := DefaultConfig()

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			if writeErr := writeConfig(path, cfg); writeErr != nil {
				return cfg, fmt.Errorf("config file not found, and failed to generate default config: %v", writeErr)
			}
			DefaultLogger.Infof("Created new config file at %s", path)
			CurrentConfig = cfg
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %v", err)
	}
	if info.IsDir() {
		return cfg, fmt.Errorf("config file path is a directory: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %v", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %v", err)
	}
	normalizeConfig(&cfg)

	CurrentConfig = cfg
	return cfg, nil
}

// normalizeConfig puts back defaults for values that would break the boot sequence.
func normalizeConfig(cfg *types.AppConfig) {
	def := DefaultConfig()
	if cfg.DataDir == "" {
		cfg.DataDir = def.DataDir
	}
	if cfg.Station.Attempts <= 0 {
		cfg.Station.Attempts = def.Station.Attempts
	}
	if cfg.Station.Interval <= 0 {
		cfg.Station.Interval = def.Station.Interval
	}
	if cfg.RestartDelay < 0 {
		cfg.RestartDelay = def.RestartDelay
	}
	if cfg.PortalURL == "" && cfg.GatewayIP != "" {
		cfg.PortalURL = "http://" + cfg.GatewayIP + "/portal"
	}
	if cfg.Radio.Driver == "" {
		cfg.Radio.Driver = def.Radio.Driver
	}
}

func writeConfig(path string, cfg types.AppConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
