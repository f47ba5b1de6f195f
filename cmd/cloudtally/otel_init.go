package main

import (
	"context"
	"log"
	"os"

	"github.com/cloudtally/cloudtally/telemetry"
)

// initTelemetry installs the tracer provider so spans reach the
// collector and log entries carry trace IDs.
// Can be disabled with CLOUDTALLY_TELEMETRY_DISABLED=true.
func initTelemetry(ctx context.Context) func() {
	if os.Getenv("CLOUDTALLY_TELEMETRY_DISABLED") == "true" {
		return func() {}
	}

	cfg := telemetry.Config{
		ServiceName:    "cloudtally",
		ServiceVersion: version,
		Environment:    os.Getenv("CLOUDTALLY_ENVIRONMENT"),
		Endpoint:       os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		Insecure:       true,
	}

	shutdown, err := telemetry.InitTracing(ctx, cfg)
	if err != nil {
		// Tracing is best-effort; the reports still run without it.
		log.Printf("tracing initialization failed: %v", err)
		return func() {}
	}

	return func() {
		if err := shutdown(context.Background()); err != nil {
			log.Printf("tracing shutdown: %v", err)
		}
	}
}

// Environment variables:
// - OTEL_EXPORTER_OTLP_ENDPOINT: where to send spans (default: localhost:4317)
// - CLOUDTALLY_TELEMETRY_DISABLED: set to "true" to disable tracing
// - CLOUDTALLY_ENVIRONMENT: environment name (dev, staging, prod)
