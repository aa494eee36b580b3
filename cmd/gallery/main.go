package main

import (
	"context"
	"log/slog"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
)

const version = "0.2.0"

func main() {
	// bootstrap-логгер (используется только до сборки зависимостей)
	bootstrapLogger := slog.New(
		slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}),
	)

	root := newRootCmd(bootstrapLogger)

	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	); err != nil {
		os.Exit(1)
	}
}
