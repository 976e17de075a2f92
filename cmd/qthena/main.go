package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sjdillon/qthena/internal/app"
	"github.com/sjdillon/qthena/internal/config"
	"github.com/sjdillon/qthena/internal/logger"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		printBuildInfo(os.Stdout)
		return
	}

	log := logger.NewLogger("cli")

	cfg, args, err := config.GetConfig(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		fmt.Fprint(os.Stderr, app.Usage)
		return
	}
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if err = log.SetLevel(cfg.Log.Level); err != nil {
		log.Fatal().Err(err).Msg("error setting log level")
	}

	if len(args) > 0 && args[0] == "version" {
		printBuildInfo(os.Stdout)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.NewApp(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init cli app error")
	}

	err = a.Run(ctx, args)
	if closeErr := a.Close(); closeErr != nil {
		log.Error().Err(closeErr).Msg("close cli app")
	}

	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
		return
	default:
		log.Debug().Err(err).Msg("command failed")
		fmt.Fprintf(os.Stderr, "qthena: %s\n", app.Describe(err))
		os.Exit(1)
	}
}

func printBuildInfo(w io.Writer) {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Fprintf(w, "Build version: %s\n", buildVersion)
	fmt.Fprintf(w, "Build date: %s\n", buildDate)
	fmt.Fprintf(w, "Build commit: %s\n", buildCommit)
}
