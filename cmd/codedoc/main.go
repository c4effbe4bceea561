package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/temirov/codedoc/internal/cli"
)

// main is the entry point for the codedoc command.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	// fang reports the error itself.
	if applicationExecutionError := cli.Execute(ctx); applicationExecutionError != nil {
		stop()
		os.Exit(1)
	}
}
