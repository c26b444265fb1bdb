package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/ecoleta/ecoleta-backend/internal/cli"
	"github.com/ecoleta/ecoleta-backend/internal/client"
	"github.com/ecoleta/ecoleta-backend/internal/session"
	"github.com/ecoleta/ecoleta-backend/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := cli.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	console := true

	app := cli.NewApp(cli.Params{
		API:     client.New(cfg.APIURL),
		Session: session.New(session.NewFileBackend(cfg.SessionFile)),
		In:      os.Stdin,
		Out:     os.Stdout,
		ErrOut:  os.Stderr,
		Logger: logger.New(logger.Options{
			ServiceName: "ecoleta-cli",
			Level:       logger.ParseLevel(cfg.LogLevel),
			Console:     &console,
			Output:      os.Stderr,
		}),
	})

	code := app.Run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}
