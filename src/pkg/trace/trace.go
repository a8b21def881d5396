package trace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	oteltrace "go.opentelemetry.io/otel/trace"

	log "github.com/sirupsen/logrus"
)

var logger = log.WithField("package", "trace")

const (
	TRACER_NAME            = "addin-manifestchk"
	PERF_REPORT_FILENAME   = "performance-report.json"
	PERF_REPORT_FILE_PERMS = 0644
	PERF_REPORT_DIR_PERMS  = 0755
)

// InitTracer sets up the global tracer provider. When exportPerfReport is
// enabled, finished spans are written as JSON to
// <outputDir>/performance-report.json; otherwise spans are recorded but
// never exported. The returned shutdown func flushes and closes everything.
func InitTracer(serviceName string, exportPerfReport bool, outputDir string) (func(), error) {
	if !exportPerfReport {
		tp := sdktrace.NewTracerProvider()
		otel.SetTracerProvider(tp)
		return func() {
			_ = tp.Shutdown(context.Background())
		}, nil
	}

	if err := os.MkdirAll(outputDir, PERF_REPORT_DIR_PERMS); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	reportPath := filepath.Join(outputDir, PERF_REPORT_FILENAME)
	f, err := os.OpenFile(reportPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, PERF_REPORT_FILE_PERMS)
	if err != nil {
		return nil, fmt.Errorf("failed to create performance report file: %w", err)
	}

	exporter, err := stdouttrace.New(
		stdouttrace.WithWriter(f),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create span exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		)),
	)
	otel.SetTracerProvider(tp)
	logger.WithField("reportPath", reportPath).Info("Performance report export enabled")

	return func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logger.WithField("error", err).Warn("Failed to shut down tracer provider")
		}
		if err := f.Close(); err != nil {
			logger.WithField("error", err).Warn("Failed to close performance report file")
		}
	}, nil
}

// StartSpan starts a span on the global tracer.
func StartSpan(ctx context.Context, name string) (context.Context, oteltrace.Span) {
	return otel.Tracer(TRACER_NAME).Start(ctx, name)
}
