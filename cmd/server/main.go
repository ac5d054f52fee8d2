package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/penguindb/internal/app"
	"github.com/dmitrijs2005/penguindb/internal/config"
	"github.com/dmitrijs2005/penguindb/internal/logging"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewJSONLogger(cfg.LogLevel)

	a, err := app.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	a.Run(ctx)

}
