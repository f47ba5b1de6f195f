// Cloudtally - AWS usage and inventory reports
// Scan. Report. Done.
package main

import (
	"context"
	"os/signal"
	"syscall"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cleanup := initTelemetry(ctx)
	defer cleanup()

	Execute(ctx)
}
