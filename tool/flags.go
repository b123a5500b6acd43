package tool

import (
	"flag"

	"github.com/moyoez/portal-gateway/types"
)

// SetFlags parses CLI flags and returns the override config.
func SetFlags() types.Config {
	var cfg types.Config
	flag.StringVar(&cfg.Log, "log", "", "log mode: dev|prod|none")
	flag.StringVar(&cfg.UseConfigPath, "config", "", "override config file path (default ./gateway.yaml)")
	flag.StringVar(&cfg.UseDataDir, "dataDir", "", "override the directory holding config/log/wall/landing records")
	flag.Parse()
	return cfg
}
