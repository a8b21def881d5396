package policy

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gh-ovd/addin-manifestchk/src/pkg/models"
	"github.com/open-policy-agent/opa/rego"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var logger *log.Entry = log.New().WithFields(log.Fields{
	"package": "policy",
})

const (
	GATE_CONFIG_FILENAME = "gate-config.yaml"

	// Query evaluated per policy module; each deny value is one failure message.
	GATE_DENY_QUERY = "data.addincheck.deny"

	GATE_LEVEL_BLOCK   = "BLOCK"
	GATE_LEVEL_WARNING = "WARNING"
)

// GateConfig represents the report policy gate configuration.
// Policies: id -> GatePolicyConfig
type GateConfig struct {
	Policies map[string]GatePolicyConfig `yaml:"policies"`
}

// GatePolicyConfig represents a single report policy configuration.
type GatePolicyConfig struct {
	Name         string `yaml:"name"`
	Description  string `yaml:"description"`
	FilePath     string `yaml:"filePath"`
	Level        string `yaml:"level"` // BLOCK or WARNING
	ExternalLink string `yaml:"externalLink,omitempty"`
}

// GateEvaluator evaluates rego policies against a finished check result,
// letting CI gate on the service's verdict (e.g. "no warnings allowed")
// without re-validating the manifest itself.
type GateEvaluator struct {
	policiesPath string
	config       GateConfig

	// map policy id to full path to the rego module
	fullPathToPolicy map[string]string
}

func NewGateEvaluator(policiesPath string) *GateEvaluator {
	return &GateEvaluator{
		policiesPath:     policiesPath,
		fullPathToPolicy: make(map[string]string),
	}
}

// LoadAndValidate loads and validates the gate configuration.
func (e *GateEvaluator) LoadAndValidate() error {
	logger.Info("LoadAndValidate: starting...")

	if err := e.loadGateConfig(); err != nil {
		return err
	}
	if err := e.validateGateConfig(); err != nil {
		return err
	}

	// Policy files must exist
	for id, policy := range e.config.Policies {
		policyPath := filepath.Join(e.policiesPath, policy.FilePath)
		if !strings.HasSuffix(policyPath, ".rego") {
			return fmt.Errorf("policy %s: unsupported file extension (must be .rego)", id)
		}
		if _, err := os.Stat(policyPath); os.IsNotExist(err) {
			return fmt.Errorf("policy %s: file not found: %s", id, policyPath)
		}
		e.fullPathToPolicy[id] = policyPath
	}

	logger.Infof("LoadAndValidate: done, loaded %d policies.", len(e.config.Policies))
	return nil
}

func (e *GateEvaluator) loadGateConfig() error {
	configPath := filepath.Join(e.policiesPath, GATE_CONFIG_FILENAME)
	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read gate config: %w", err)
	}
	if err := yaml.Unmarshal(data, &e.config); err != nil {
		return fmt.Errorf("failed to parse gate config: %w", err)
	}
	return nil
}

func (e *GateEvaluator) validateGateConfig() error {
	if len(e.config.Policies) == 0 {
		return fmt.Errorf("no policies defined in gate config")
	}
	for id, policy := range e.config.Policies {
		if policy.Name == "" {
			return fmt.Errorf("policy %s: name is required", id)
		}
		if policy.FilePath == "" {
			return fmt.Errorf("policy %s: filePath is required", id)
		}
		if policy.Level != GATE_LEVEL_BLOCK && policy.Level != GATE_LEVEL_WARNING {
			return fmt.Errorf("policy %s: level must be %s or %s, got: %s",
				id, GATE_LEVEL_BLOCK, GATE_LEVEL_WARNING, policy.Level)
		}
	}
	return nil
}

// Evaluate runs every policy's deny query against the JSON form of the
// check result and aggregates the failures. Policies run in sorted id
// order so the gate result is deterministic.
func (e *GateEvaluator) Evaluate(ctx context.Context, result *models.CheckResult) (*models.GateResult, error) {
	logger.Info("Evaluate: starting...")

	input, err := checkResultInput(result)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(e.config.Policies))
	for id := range e.config.Policies {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	gate := &models.GateResult{}
	for _, id := range ids {
		policy := e.config.Policies[id]
		failMsgs, err := e.evaluatePolicy(ctx, e.fullPathToPolicy[id], input)
		if err != nil {
			return nil, fmt.Errorf("failed to evaluate policy %s: %w", id, err)
		}
		logger.WithField("policyId", id).WithField("failMsgs", failMsgs).Debug("Evaluated policy")

		polResult := models.GatePolicyResult{
			PolicyID:     id,
			PolicyName:   policy.Name,
			Level:        policy.Level,
			ExternalLink: policy.ExternalLink,
			IsPassing:    len(failMsgs) == 0,
			FailMessages: failMsgs,
		}
		gate.Results = append(gate.Results, polResult)
		if !polResult.IsPassing {
			switch policy.Level {
			case GATE_LEVEL_BLOCK:
				gate.BlockingFailures++
			case GATE_LEVEL_WARNING:
				gate.WarningFailures++
			}
		}
	}

	logger.Infof("Evaluate: done, %d blocking / %d warning failures.", gate.BlockingFailures, gate.WarningFailures)
	return gate, nil
}

// evaluatePolicy evaluates a single rego module.
// returns: failure messages from the deny set
func (e *GateEvaluator) evaluatePolicy(ctx context.Context, policyPath string, input interface{}) ([]string, error) {
	query, err := rego.New(
		rego.Query(GATE_DENY_QUERY),
		rego.Load([]string{policyPath}, nil),
	).PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare policy %s: %w", policyPath, err)
	}

	rs, err := query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate policy %s: %w", policyPath, err)
	}

	var failMsgs []string
	for _, result := range rs {
		for _, expr := range result.Expressions {
			values, ok := expr.Value.([]interface{})
			if !ok {
				continue
			}
			for _, v := range values {
				if msg, ok := v.(string); ok {
					failMsgs = append(failMsgs, msg)
				}
			}
		}
	}
	return failMsgs, nil
}

// checkResultInput converts the check result into the generic JSON shape
// rego expects as input.
func checkResultInput(result *models.CheckResult) (interface{}, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal check result for policy input: %w", err)
	}
	var input interface{}
	if err := json.Unmarshal(raw, &input); err != nil {
		return nil, fmt.Errorf("failed to build policy input: %w", err)
	}
	return input, nil
}
