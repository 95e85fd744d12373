package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jessevdk/go-flags"
	"github.com/samvad-hq/samvad-headlines/internal/app"
	"github.com/samvad-hq/samvad-headlines/internal/config"
	"github.com/samvad-hq/samvad-headlines/internal/logger"
)

type options struct {
	Watch        bool   `short:"w" long:"watch" description:"Keep running and re-render on every state change"`
	Retry        bool   `short:"r" long:"retry" description:"Retry once if the first load fails"`
	Open         int    `short:"o" long:"open" value-name:"N" description:"Open the Nth headline after loading"`
	History      bool   `long:"history" description:"List previously opened articles"`
	HistoryLimit int    `long:"history-limit" default:"20" description:"Maximum history entries to list (0 for all)"`
	Country      string `short:"c" long:"country" description:"Two-letter country code overriding the locale"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "headlines: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var opts options
	if _, err := flags.NewParser(&opts, flags.Default).Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return nil
		}
		return fmt.Errorf("parse flags: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if c := strings.TrimSpace(opts.Country); c != "" {
		cfg.Country = strings.ToLower(c)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	log.InfoObj("headlines starting", "config", cfg.Redacted())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.NewApp(ctx, cfg, log, os.Stdout)
	if err != nil {
		log.ErrorObj("failed to initialize app", "error", err.Error())
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.WarnObj("shutdown incomplete", "error", err.Error())
		}
	}()

	var reload chan os.Signal
	if opts.Watch {
		reload = make(chan os.Signal, 1)
		signal.Notify(reload, syscall.SIGHUP)
		defer signal.Stop(reload)
	}

	return a.Run(ctx, app.RunOptions{
		Watch:        opts.Watch,
		Retry:        opts.Retry,
		Open:         opts.Open,
		History:      opts.History,
		HistoryLimit: opts.HistoryLimit,
		Reload:       reload,
	})
}
