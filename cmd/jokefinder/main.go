package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/jokefinder/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional, defaults to ~/.config/jokefinder/config.toml)")
	endpoint := flag.String("endpoint", "", "joke endpoint URL (optional)")
	seedExample := flag.Bool("seed-example", false, "show the example joke until the first fetch completes")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath:  *configPath,
		Endpoint:    *endpoint,
		SeedExample: *seedExample,
	}
	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "jokefinder: %v\n", err)
		return 1
	}
	return 0
}
