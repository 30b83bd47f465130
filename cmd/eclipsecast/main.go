package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"EclipseCast/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "eclipsecast:", err)
		stop()
		os.Exit(1)
	}
}
