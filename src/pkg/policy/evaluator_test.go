package policy

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gh-ovd/addin-manifestchk/src/pkg/models"
)

const mustPassRego = `package addincheck

deny[msg] {
	input.outcome != "Passed"
	msg := sprintf("validation outcome is %s, not Passed", [input.outcome])
}
`

const noWarningsRego = `package addincheck

deny[msg] {
	count(input.validationReport.warnings) > 0
	msg := sprintf("manifest has %d warning(s)", [count(input.validationReport.warnings)])
}
`

func writeGateDir(t *testing.T, config string, regoFiles map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, GATE_CONFIG_FILENAME), []byte(config), 0644); err != nil {
		t.Fatalf("failed to write gate config: %v", err)
	}
	for name, content := range regoFiles {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("failed to write policy %s: %v", name, err)
		}
	}
	return dir
}

func TestLoadAndValidate(t *testing.T) {
	tests := []struct {
		name      string
		config    string
		regoFiles map[string]string
		wantErr   string
	}{
		{
			name: "valid config",
			config: `policies:
  must-pass:
    name: Validation must pass
    filePath: must_pass.rego
    level: BLOCK
`,
			regoFiles: map[string]string{"must_pass.rego": mustPassRego},
		},
		{
			name:    "no policies",
			config:  `policies: {}`,
			wantErr: "no policies defined",
		},
		{
			name: "missing name",
			config: `policies:
  must-pass:
    filePath: must_pass.rego
    level: BLOCK
`,
			regoFiles: map[string]string{"must_pass.rego": mustPassRego},
			wantErr:   "name is required",
		},
		{
			name: "invalid level",
			config: `policies:
  must-pass:
    name: Validation must pass
    filePath: must_pass.rego
    level: FATAL
`,
			regoFiles: map[string]string{"must_pass.rego": mustPassRego},
			wantErr:   "level must be",
		},
		{
			name: "policy file missing",
			config: `policies:
  must-pass:
    name: Validation must pass
    filePath: nope.rego
    level: BLOCK
`,
			wantErr: "file not found",
		},
		{
			name: "not a rego file",
			config: `policies:
  must-pass:
    name: Validation must pass
    filePath: must_pass.yaml
    level: BLOCK
`,
			regoFiles: map[string]string{"must_pass.yaml": "x"},
			wantErr:   "must be .rego",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeGateDir(t, tt.config, tt.regoFiles)
			err := NewGateEvaluator(dir).LoadAndValidate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("LoadAndValidate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("LoadAndValidate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestEvaluate_BlockingAndWarningLevels(t *testing.T) {
	config := `policies:
  must-pass:
    name: Validation must pass
    filePath: must_pass.rego
    level: BLOCK
  no-warnings:
    name: No warnings allowed
    filePath: no_warnings.rego
    level: WARNING
`
	dir := writeGateDir(t, config, map[string]string{
		"must_pass.rego":   mustPassRego,
		"no_warnings.rego": noWarningsRego,
	})
	evaluator := NewGateEvaluator(dir)
	if err := evaluator.LoadAndValidate(); err != nil {
		t.Fatalf("LoadAndValidate() error = %v", err)
	}

	failed := &models.CheckResult{
		Outcome: models.OutcomeFailed,
		Report: &models.ValidationReport{
			Result:   "Failed",
			Warnings: []models.DiagnosticEntry{{Title: "W", Detail: "d", Link: "l"}},
		},
	}
	gate, err := evaluator.Evaluate(context.Background(), failed)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	if gate.BlockingFailures != 1 || gate.WarningFailures != 1 {
		t.Errorf("failures = %d blocking / %d warning, want 1 / 1", gate.BlockingFailures, gate.WarningFailures)
	}
	if len(gate.Results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(gate.Results))
	}
	// Sorted id order keeps the gate result deterministic.
	if gate.Results[0].PolicyID != "must-pass" || gate.Results[1].PolicyID != "no-warnings" {
		t.Errorf("results out of order: %s, %s", gate.Results[0].PolicyID, gate.Results[1].PolicyID)
	}
	if gate.Results[0].IsPassing {
		t.Errorf("must-pass should fail for a Failed outcome")
	}
	if len(gate.Results[0].FailMessages) == 0 || !strings.Contains(gate.Results[0].FailMessages[0], "Failed") {
		t.Errorf("fail messages = %v, want the deny message", gate.Results[0].FailMessages)
	}
}

func TestEvaluate_PassingResult(t *testing.T) {
	config := `policies:
  must-pass:
    name: Validation must pass
    filePath: must_pass.rego
    level: BLOCK
`
	dir := writeGateDir(t, config, map[string]string{"must_pass.rego": mustPassRego})
	evaluator := NewGateEvaluator(dir)
	if err := evaluator.LoadAndValidate(); err != nil {
		t.Fatalf("LoadAndValidate() error = %v", err)
	}

	passed := &models.CheckResult{
		Outcome: models.OutcomePassed,
		Report:  &models.ValidationReport{Result: "Passed"},
	}
	gate, err := evaluator.Evaluate(context.Background(), passed)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	if gate.BlockingFailures != 0 || gate.WarningFailures != 0 {
		t.Errorf("failures = %d blocking / %d warning, want none", gate.BlockingFailures, gate.WarningFailures)
	}
	if !gate.Results[0].IsPassing {
		t.Errorf("must-pass should pass for a Passed outcome, got %v", gate.Results[0].FailMessages)
	}
}
