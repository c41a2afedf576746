package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"clippair/internal/catalogue"
	"clippair/internal/pairing"
)

// Exit codes. Input problems are split out so scripts can tell a bad
// catalogue or config apart from an I/O failure.
const (
	exitFailure = 1
	exitConfig  = 2
	exitInput   = 3
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "clippair: %v\n", err)
		}
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, pairing.ErrConfiguration):
		return exitConfig
	case errors.Is(err, catalogue.ErrSchema), errors.Is(err, pairing.ErrCollision):
		return exitInput
	default:
		return exitFailure
	}
}
