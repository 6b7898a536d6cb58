package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"

	"github.com/ardnew/phoenix/cli"
	"github.com/ardnew/phoenix/lang"
	"github.com/ardnew/phoenix/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := cli.Run(ctx, os.Exit, os.Args[1:]...)

	stop()

	if err == nil {
		return
	}

	// Script exceptions are reported to the user and select the exit
	// status by their kind.
	var e *lang.Error
	if errors.As(err, &e) {
		_ = e.Print(os.Stderr)

		log.Debug("script failed", slog.Any("error", e))
		os.Exit(e.ExitCode())
	}

	log.Error("run failed", slog.Any("error", err))
	os.Exit(1)
}
