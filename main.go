package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/ardnew/actlang/cli"
	"github.com/ardnew/actlang/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.Run(ctx, os.Exit, os.Args[1:]); err != nil {
		log.Error("run failed", slog.Any("error", err)) // uses LogValue
		stop()
		os.Exit(1)
	}
}
