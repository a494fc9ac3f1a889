package main

import (
	"context"
	"log"
	"os"

	"github.com/avilovp/mediashuttle/internal/client/cli"
	"github.com/avilovp/mediashuttle/internal/client/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}
	defer app.Close()

	if err := app.Run(ctx); err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}

}
