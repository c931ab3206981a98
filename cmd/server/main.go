package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/monyze/internal/buildinfo"
	"github.com/dmitrijs2005/monyze/internal/server"
	"github.com/dmitrijs2005/monyze/internal/server/config"
)

func main() {

	buildinfo.PrintBanner(os.Stdout, "monyze")

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	app, err := server.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		os.Exit(1)
	}

}
