package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/castkeeper/internal/devbackend"
	"github.com/dmitrijs2005/castkeeper/internal/devbackend/config"
)

func main() {

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	app := devbackend.NewApp(cfg)
	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}

}
