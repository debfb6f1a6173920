package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/drscreen/internal/app"
	"github.com/dmitrijs2005/drscreen/internal/buildinfo"
	"github.com/dmitrijs2005/drscreen/internal/config"
	"github.com/dmitrijs2005/drscreen/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	logger := logging.New(os.Stderr, cfg.LogLevel)

	a, err := app.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer a.Close()

	a.Run(ctx)

}
