// Package main provides the tmplvet binary entry point.
// Tmplvet is a template library validator: it scans a directory of
// prompt-template files, resolves cross-references into a dependency
// graph, and runs staged validation producing a gating report.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/c360studio/tmplvet/commands"
)

// Exit codes: 0 approved or conditional, 1 needs_rework or rejected,
// 2 invocation error.
const (
	exitOK         = 0
	exitFailed     = 1
	exitInvocation = 2
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(exitInvocation)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := commands.NewRootCmd().ExecuteContext(ctx)
	switch {
	case err == nil:
		os.Exit(exitOK)
	case errors.Is(err, commands.ErrValidationFailed):
		os.Exit(exitFailed)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitInvocation)
	}
}
