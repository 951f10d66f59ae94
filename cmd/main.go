// cmd/main.go is the eventdesk entry point. It loads configuration, wires the
// gateway into the services and hands the remaining arguments to the CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/Shivanand-hulikatti/eventdesk/internal/cli"
	"github.com/Shivanand-hulikatti/eventdesk/internal/config"
	"github.com/Shivanand-hulikatti/eventdesk/internal/gateway"
	"github.com/Shivanand-hulikatti/eventdesk/internal/logging"
	"github.com/Shivanand-hulikatti/eventdesk/internal/model"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := pflag.NewFlagSet("eventdesk", pflag.ContinueOnError)
	fs.SetInterspersed(false)
	config.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(fs)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}

	gw, err := gateway.New(gateway.Options{
		BaseURL:   cfg.API.BaseURL,
		Token:     cfg.API.Token,
		Timeout:   cfg.API.Timeout,
		RateLimit: cfg.API.RateLimit,
		Burst:     cfg.API.Burst,
	}, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := cli.New(gw, cli.Options{
		Viewer:  model.Viewer{UserID: model.ID(cfg.Viewer.UserID), Authenticated: cfg.Authenticated()},
		Confirm: cli.TerminalConfirmer(os.Stdin, os.Stderr),
		Out:     os.Stdout,
		Status:  os.Stderr,
	}, logger)

	logger.WithField("base_url", cfg.API.BaseURL).Debug("eventdesk starting")
	return app.Execute(ctx, fs.Args())
}
