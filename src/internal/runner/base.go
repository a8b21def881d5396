package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gh-ovd/addin-manifestchk/src/pkg/addincheck"
	"github.com/gh-ovd/addin-manifestchk/src/pkg/models"
	"github.com/gh-ovd/addin-manifestchk/src/pkg/policy"
	"github.com/gh-ovd/addin-manifestchk/src/pkg/report"
	"github.com/gh-ovd/addin-manifestchk/src/pkg/template"
	"github.com/gh-ovd/addin-manifestchk/src/pkg/trace"

	log "github.com/sirupsen/logrus"
)

var logger *log.Entry = log.New().WithFields(log.Fields{
	"package": "runner",
})

// ErrValidationFailed marks a run whose outcome was not Passed.
var ErrValidationFailed = errors.New("manifest validation did not pass")

// ErrPolicyGateBlocked marks a run where a BLOCK-level report policy failed.
var ErrPolicyGateBlocked = errors.New("report policy gate has blocking failures")

type RunnerBase struct {
	Context context.Context
	Options *Options

	RunMode string

	Checker   *addincheck.Checker
	Evaluator *policy.GateEvaluator // nil when the gate is disabled
	Renderer  *template.Renderer
}

// make RunnerBase implement RunnerInterface
var _ RunnerInterface = (*RunnerBase)(nil)

func NewRunnerBase(
	ctx context.Context,
	options *Options,
	checker *addincheck.Checker,
	evaluator *policy.GateEvaluator,
	renderer *template.Renderer,
) (*RunnerBase, error) {
	runner := &RunnerBase{
		Context:   ctx,
		Options:   options,
		RunMode:   options.RunMode,
		Checker:   checker,
		Evaluator: evaluator,
		Renderer:  renderer,
	}
	return runner, nil
}

func (r *RunnerBase) Initialize() error {
	logger.Info("Initializing runner: starting...")

	if r.Checker == nil || r.Renderer == nil {
		return fmt.Errorf("checker and renderer are required")
	}

	if r.Evaluator != nil {
		logger.Info("Initialize runner: Evaluator: Loading and validating gate configuration")
		if err := r.Evaluator.LoadAndValidate(); err != nil {
			return fmt.Errorf("failed to load gate config: %w", err)
		}
	}

	logger.Info("Initialize runner: done.")
	return nil
}

// Check submits the manifest and renders the verdict to the console sink.
func (r *RunnerBase) Check() *models.CheckResult {
	ctx, span := trace.StartSpan(r.Context, "Check")
	defer span.End()

	logger.Info("Check: starting...")
	result := r.Checker.Validate(ctx, r.Options.ManifestPath)
	logger.WithField("outcome", result.Outcome).Info("Check: done.")
	return result
}

// EvaluateGate runs the report policy gate, if enabled.
func (r *RunnerBase) EvaluateGate(result *models.CheckResult) (*models.GateResult, error) {
	if r.Evaluator == nil {
		return nil, nil
	}

	ctx, span := trace.StartSpan(r.Context, "EvaluateGate")
	defer span.End()

	gate, err := r.Evaluator.Evaluate(ctx, result)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate report policies: %w", err)
	}
	return gate, nil
}

func (r *RunnerBase) Process() error {
	_, span := trace.StartSpan(r.Context, "Process")
	defer span.End()
	logger.Info("Process: starting...")

	result := r.Check()

	gate, err := r.EvaluateGate(result)
	if err != nil {
		return err
	}

	reportData := r.BuildReportData(result, gate)
	if err := r.Output(reportData); err != nil {
		return err
	}

	return VerdictError(result, gate)
}

// BuildReportData assembles the exported report structure.
func (r *RunnerBase) BuildReportData(result *models.CheckResult, gate *models.GateResult) *models.ReportData {
	return &models.ReportData{
		ManifestPath: r.Options.ManifestPath,
		ManifestName: r.Options.ManifestName(),
		Timestamp:    time.Now().UTC(),
		Outcome:      result.Outcome,
		Report:       result.Report,
		Platforms:    report.UniqueTitles(result.Products),
		Failure:      result.Failure,
		PolicyGate:   gate,
	}
}

// VerdictError maps the final state to the process-level error that drives
// the exit code. The outcome label itself stays three-way; this is cmd
// wiring, not part of the core contract.
func VerdictError(result *models.CheckResult, gate *models.GateResult) error {
	if gate != nil && gate.BlockingFailures > 0 {
		return fmt.Errorf("%w: %d policy(ies) failed", ErrPolicyGateBlocked, gate.BlockingFailures)
	}
	if result.Outcome != models.OutcomePassed {
		return fmt.Errorf("%w: outcome is %s", ErrValidationFailed, result.Outcome)
	}
	return nil
}

func (r *RunnerBase) Output(data *models.ReportData) error {
	_, span := trace.StartSpan(r.Context, "Output")
	defer span.End()

	logger.Info("Output: starting...")
	if err := r.outputReportJson(data); err != nil {
		return err
	}
	logger.Info("Output: done.")
	return nil
}

// Exporting report json file to output directory if enabled
func (r *RunnerBase) outputReportJson(data *models.ReportData) error {
	if !r.Options.EnableExportReport {
		logger.Info("OutputJson: option was disabled")
		return nil
	}
	logger.Info("OutputJson: starting...")

	if err := os.MkdirAll(r.Options.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	resultsJson, err := json.Marshal(data)
	if err != nil {
		return err
	}
	filePath := filepath.Join(r.Options.OutputDir, "report.json")
	if err := os.WriteFile(filePath, resultsJson, 0644); err != nil {
		logger.WithField("filePath", filePath).WithField("error", err).Error("Failed to write report data to file")
		return err
	}
	logger.WithField("filePath", filePath).Info("Written report data to file")
	return nil
}
