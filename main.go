package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/moyoez/portal-gateway/app"
	"github.com/moyoez/portal-gateway/radio"
	"github.com/moyoez/portal-gateway/storage"
	"github.com/moyoez/portal-gateway/tool"
)

func main() {
	cfg := tool.SetFlags()

	// initialize logger
	tool.InitLogger()
	tool.SetLogMode(cfg.Log)

	appCfg, err := tool.LoadConfig(cfg.UseConfigPath)
	if err != nil {
		tool.DefaultLogger.Fatalf("%v", err)
	}
	if cfg.UseDataDir != "" {
		appCfg.DataDir = cfg.UseDataDir
	}

	// without storage there is nothing to decide on, so this is the one fatal boot error
	dir, err := storage.Mount(appCfg.DataDir)
	if err != nil {
		tool.DefaultLogger.Fatalf("Storage mount failed: %v", err)
	}
	tool.DefaultLogger.Infof("Records stored in %s", dir.Root())

	r, err := radio.New(appCfg.Radio, appCfg.GatewayIP)
	if err != nil {
		tool.DefaultLogger.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.New(appCfg, dir, r, tool.ExecRestarter{}).Run(ctx); err != nil {
		tool.DefaultLogger.Fatalf("Gateway stopped: %v", err)
	}
	tool.DefaultLogger.Info("Gateway stopped")
}
