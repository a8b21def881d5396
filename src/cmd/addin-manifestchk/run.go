package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gh-ovd/addin-manifestchk/src/internal/runner"
	"github.com/gh-ovd/addin-manifestchk/src/pkg/addincheck"
	"github.com/gh-ovd/addin-manifestchk/src/pkg/github"
	"github.com/gh-ovd/addin-manifestchk/src/pkg/policy"
	"github.com/gh-ovd/addin-manifestchk/src/pkg/report"
	"github.com/gh-ovd/addin-manifestchk/src/pkg/service"
	"github.com/gh-ovd/addin-manifestchk/src/pkg/template"
	"github.com/gh-ovd/addin-manifestchk/src/pkg/trace"
	log "github.com/sirupsen/logrus"
)

var logger *log.Entry = log.New().WithFields(log.Fields{
	"package": "run",
})

const (
	RUN_MODE_LOCAL  = "local"
	RUN_MODE_GITHUB = "github"
)

// createRunner creates and wires the appropriate runner
func createRunner(ctx context.Context, opts *runner.Options) (runner.RunnerInterface, error) {
	logger.WithField("opts", opts).Debug("Creating runner..")

	client := service.NewClient(service.Config{
		Endpoint: opts.Endpoint,
		Timeout:  time.Duration(opts.TimeoutSeconds) * time.Second,
	})
	checker := addincheck.NewChecker(client, report.NewRenderer(os.Stdout))
	renderer := template.NewRenderer()

	var evaluator *policy.GateEvaluator
	if opts.GateEnabled() {
		evaluator = policy.NewGateEvaluator(opts.PoliciesPath)
	}

	switch opts.RunMode {
	case RUN_MODE_GITHUB:
		ghClient, err := github.NewClient()
		if err != nil {
			return nil, fmt.Errorf("GitHub authentication failed: %w", err)
		}
		runner, err := runner.NewRunnerGitHub(
			ctx, opts, ghClient, checker, evaluator, renderer)
		if err != nil {
			return nil, fmt.Errorf("failed to create GitHub runner: %w", err)
		}
		return runner, nil
	case RUN_MODE_LOCAL:
		runner, err := runner.NewRunnerLocal(
			ctx, opts, checker, evaluator, renderer,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Local runner: %w", err)
		}
		return runner, nil
	default:
		return nil, fmt.Errorf("invalid run mode: %s", opts.RunMode)
	}
}

func initialize(ctx context.Context, opts *runner.Options) (runner.RunnerInterface, error) {
	runner, err := createRunner(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create runner: %w", err)
	}
	if err := runner.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize runner: %w", err)
	}
	return runner, nil
}

func run(ctx context.Context, opts *runner.Options) error {
	logger.WithField("opts", opts).Info("Running..")
	if opts.Debug {
		log.SetLevel(log.DebugLevel)
	}

	// Initialize tracer
	shutdown, err := trace.InitTracer("addin-manifestchk", opts.EnableExportPerformanceReport, opts.OutputDir)
	if err != nil {
		return fmt.Errorf("failed to initialize tracer: %w", err)
	}
	defer shutdown()

	// Validate options
	if err := validateOptions(opts); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	// Initialize runner
	appRunner, err := initialize(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	err = appRunner.Process()
	if err != nil {
		return fmt.Errorf("failed to process: %w", err)
	}

	return nil
}

func validateOptions(opts *runner.Options) error {
	if opts.RunMode != RUN_MODE_LOCAL && opts.RunMode != RUN_MODE_GITHUB {
		return fmt.Errorf("run-mode must be 'local' or 'github', got: %s", opts.RunMode)
	}

	if opts.ManifestPath == "" {
		return fmt.Errorf("--manifest is required")
	}
	if _, err := os.Stat(opts.ManifestPath); err != nil {
		return fmt.Errorf("manifest not readable: %w", err)
	}

	if opts.TimeoutSeconds < 0 {
		return fmt.Errorf("--timeout must be >= 0, got: %d", opts.TimeoutSeconds)
	}

	if opts.RunMode == RUN_MODE_GITHUB {
		if opts.GhRepo == "" {
			return fmt.Errorf("github mode requires --gh-repo")
		}
		if opts.GhPrNumber == 0 {
			return fmt.Errorf("github mode requires --gh-pr-number")
		}
	}

	return nil
}
