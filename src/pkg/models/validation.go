package models

import "fmt"

// ValidationOutcome is the three-way verdict of a manifest check.
// It is a string type on purpose: the service's result label is carried
// upward verbatim, so a label outside the known set still reaches the
// caller even though no rendering branch fires for it.
type ValidationOutcome string

const (
	OutcomePassed ValidationOutcome = "Passed"
	OutcomeFailed ValidationOutcome = "Failed"
	OutcomeError  ValidationOutcome = "Error"
)

// ServiceResponse is the raw transport result of a submission.
// Created once per call, consumed immediately by the classifier, never retained.
type ServiceResponse struct {
	StatusCode int
	Body       string
}

// DiagnosticEntry is one issue found by the remote validator.
// Title, Detail and Link are required for a well-formed entry.
// Line and Column, when present, are 1-based positions into the manifest.
type DiagnosticEntry struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Link   string `json:"link"`
	Code   string `json:"code,omitempty"`
	Line   *int   `json:"line,omitempty"`
	Column *int   `json:"column,omitempty"`
}

// SupportedProduct is a platform the add-in can run on per the manifest's
// declared requirements. The same title may appear more than once, e.g.
// once per capability requiring it.
type SupportedProduct struct {
	Title   string `json:"title"`
	Version string `json:"version,omitempty"`
}

// ValidationReport is the parsed verdict body returned by the service.
type ValidationReport struct {
	Result   string            `json:"result"`
	Errors   []DiagnosticEntry `json:"errors"`
	Warnings []DiagnosticEntry `json:"warnings"`
	Infos    []DiagnosticEntry `json:"infos"`
}

// ReportDetails holds the supplementary data of a check report.
// SupportedProducts is only populated by the service when the result is Passed.
type ReportDetails struct {
	SupportedProducts []SupportedProduct `json:"supportedProducts"`
}

// CheckReport is the inner payload of the service's JSON envelope.
type CheckReport struct {
	ValidationReport ValidationReport `json:"validationReport"`
	Details          ReportDetails    `json:"details"`
}

// CheckReportEnvelope is the top-level JSON body of a 200 response.
type CheckReportEnvelope struct {
	CheckReport CheckReport `json:"checkReport"`
}

// FailureKind classifies why a check ended in the Error outcome.
type FailureKind string

const (
	FailureTransport  FailureKind = "transport"
	FailureStatus     FailureKind = "status"
	FailureParse      FailureKind = "parse"
	FailureUnexpected FailureKind = "unexpected"
)

// Failure describes the cause of an Error outcome. StatusCode is only set
// for FailureStatus. It never escapes the checker as a raised error; it is
// converted into the Error outcome plus one rendered explanation block.
type Failure struct {
	Kind       FailureKind `json:"kind"`
	StatusCode int         `json:"statusCode,omitempty"`
	Err        error       `json:"-"`
}

func (f *Failure) Error() string {
	switch f.Kind {
	case FailureStatus:
		return fmt.Sprintf("validation service responded with status %d", f.StatusCode)
	case FailureTransport:
		return fmt.Sprintf("validation service unreachable: %v", f.Err)
	case FailureParse:
		return fmt.Sprintf("validation service response could not be parsed: %v", f.Err)
	default:
		return fmt.Sprintf("unexpected validation failure: %v", f.Err)
	}
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// CheckResult aggregates everything a single check produced. Failure is nil
// unless Outcome is Error; Report and Products are nil when it is not.
type CheckResult struct {
	Outcome  ValidationOutcome  `json:"outcome"`
	Report   *ValidationReport  `json:"validationReport,omitempty"`
	Products []SupportedProduct `json:"supportedProducts,omitempty"`
	Failure  *Failure           `json:"failure,omitempty"`
}
