package models

import "time"

// ReportData represents the complete exported report structure. It feeds
// both the report.json export and the Markdown comment template.
type ReportData struct {
	ManifestPath string    `json:"manifestPath"`
	ManifestName string    `json:"manifestName"`
	Timestamp    time.Time `json:"timestamp"`

	Outcome ValidationOutcome `json:"outcome"`

	// Report is the parsed service verdict; nil when the outcome is Error.
	Report *ValidationReport `json:"validationReport,omitempty"`

	// Platforms is the deduplicated platform list, first-seen order.
	// Only populated for a passing validation.
	Platforms []string `json:"platforms,omitempty"`

	// Failure describes why the outcome is Error; nil otherwise.
	Failure *Failure `json:"failure,omitempty"`

	// PolicyGate holds the report policy gate result; nil when the gate
	// is disabled.
	PolicyGate *GateResult `json:"policyGate,omitempty"`

	// GitHub mode only
	GhRepo     string `json:"ghRepo,omitempty"`
	GhPrNumber int    `json:"ghPrNumber,omitempty"`
	HeadCommit string `json:"headCommit,omitempty"`
}

// GateResult represents the outcome of evaluating all report policies.
type GateResult struct {
	Results          []GatePolicyResult `json:"results"`
	BlockingFailures int                `json:"blockingFailures"`
	WarningFailures  int                `json:"warningFailures"`
}

// GatePolicyResult represents the result of a single report policy evaluation.
type GatePolicyResult struct {
	PolicyID     string   `json:"policyId"`
	PolicyName   string   `json:"policyName"`
	Level        string   `json:"level"`
	ExternalLink string   `json:"externalLink,omitempty"`
	IsPassing    bool     `json:"isPassing"` // if false, FailMessages is not empty
	FailMessages []string `json:"failMessages"`
}
