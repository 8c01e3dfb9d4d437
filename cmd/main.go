package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/admin/cosmic-connect/internal/app"
)

const (
	appName   = "cosmic_connect"
	envPrefix = "COSMIC_CONNECT"
)

func main() {
	cfg, err := app.NewEnvConfig(envPrefix)
	if err != nil {
		panic(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	application, err := app.New(appName, cfg)
	if err != nil {
		panic(err)
	}

	if err := application.Run(ctx); err != nil {
		panic(err)
	}
}
