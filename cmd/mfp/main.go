package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/archivelab/film-registry/cmd/mfp/root"
)

func main() {
	cmd := root.NewCmd()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
