package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
	"go.akshayshah.org/webreactive"
	"go.akshayshah.org/webreactive/internal/logging"
	"go.akshayshah.org/webreactive/internal/sample"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "webreactive",
		Usage: "Serve the reactive web sample",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env-file",
				Usage:   "Path to a .env file",
				Sources: cli.EnvVars(sample.EnvPrefix + "ENV_FILE"),
			},
			&cli.StringFlag{
				Name:    "address",
				Aliases: []string{"a"},
				Usage:   "Listen address (overrides config)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn, or error (overrides config)",
			},
			&cli.StringFlag{
				Name:  "gin-mode",
				Usage: "Gin mode: debug, release, or test (overrides config)",
			},
		},
		Action: run,
	}
}

func run(ctx context.Context, c *cli.Command) error {
	cfg, err := sample.LoadConfig(c.String("env-file"))
	if err != nil {
		return err
	}
	applyFlags(c, &cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.NewLogger(logging.WithLogLevel(cfg.LogLevel))
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()
	logger.Info("starting webreactive",
		zap.String("address", cfg.Address),
		zap.String("log_level", cfg.LogLevel),
		zap.String("gin_mode", cfg.GinMode),
		zap.String("static_prefix", cfg.StaticPrefix),
		zap.Duration("shutdown_timeout", cfg.ShutdownTimeout),
	)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	router := sample.NewRouter(sample.RouterConfig{
		GinMode:      cfg.GinMode,
		StaticPrefix: cfg.StaticPrefix,
	}, logger)
	srv, err := webreactive.New(router,
		webreactive.WithAddress(cfg.Address),
		webreactive.WithLogger(logger),
		webreactive.WithCleanupTimeout(cfg.ShutdownTimeout),
	)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Wait)
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		return srv.Cleanup()
	})
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func applyFlags(c *cli.Command, cfg *sample.Config) {
	if c.IsSet("address") {
		cfg.Address = c.String("address")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("gin-mode") {
		cfg.GinMode = c.String("gin-mode")
	}
}
