package main

import (
	"context"
	"os/signal"
	"syscall"

	"medtrack/internal/app"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app.NewWorkerRunner().MustRun(app.MustBuildWorkerContainer(ctx))
}
