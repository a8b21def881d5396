package report

import (
	"fmt"
	"io"

	"github.com/gh-ovd/addin-manifestchk/src/pkg/models"
)

// Severity tags a diagnostic collection for rendering.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Renderer writes the human-readable validation report to a sink.
// It holds no state between calls: rendering the same report twice
// produces byte-identical output.
type Renderer struct {
	out io.Writer
}

// NewRenderer creates a renderer writing to the given sink.
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

func (r *Renderer) line(format string, args ...interface{}) {
	fmt.Fprintf(r.out, format+"\n", args...)
}

// RenderVerdict drives the three-state rendering machine. One outcome is
// chosen per invocation, one path executes, no transitions back:
//   - Passed: warnings, infos, then the platform summary. Errors are never
//     rendered here, even if the payload happened to contain any.
//   - Failed: errors, warnings, infos.
//   - Error: the error reporter only.
//
// Any other outcome label renders nothing; the label itself still travels
// upward through the CheckResult.
func (r *Renderer) RenderVerdict(result *models.CheckResult) {
	switch result.Outcome {
	case models.OutcomePassed:
		r.line(BannerPassed)
		r.line("")
		r.RenderDiagnostics(result.Report.Warnings, SeverityWarning)
		r.RenderDiagnostics(result.Report.Infos, SeverityInfo)
		r.RenderPlatformSummary(result.Products)
	case models.OutcomeFailed:
		r.line(BannerFailed)
		r.line("")
		r.RenderDiagnostics(result.Report.Errors, SeverityError)
		r.RenderDiagnostics(result.Report.Warnings, SeverityWarning)
		r.RenderDiagnostics(result.Report.Infos, SeverityInfo)
	case models.OutcomeError:
		r.RenderFailure(result.Failure)
	}
}

// RenderDiagnostics renders one collection of entries in original order.
// Errors and warnings get a 1-based running counter; infos are not
// numbered. The counter restarts at 1 on every call. Optional fields
// (code, line, column) are omitted entirely when absent, in that fixed
// order when present. No-op for an empty collection.
func (r *Renderer) RenderDiagnostics(entries []models.DiagnosticEntry, severity Severity) {
	for i, entry := range entries {
		switch severity {
		case SeverityError:
			r.line(HeaderErrorFormat, i+1)
		case SeverityWarning:
			r.line(HeaderWarningFormat, i+1)
		case SeverityInfo:
			r.line(HeaderInfo)
		}
		r.line(DetailLineFormat, entry.Title, entry.Detail, entry.Link)
		if entry.Code != "" {
			r.line(CodeLineFormat, entry.Code)
		}
		if entry.Line != nil {
			r.line(LineLineFormat, *entry.Line)
		}
		if entry.Column != nil {
			r.line(ColumnLineFormat, *entry.Column)
		}
		r.line("")
	}
}

// RenderPlatformSummary renders one bullet per unique platform title,
// first-seen order, followed by the fixed availability and mobile notes.
// Only runs on a passing validation; the caller guarantees that.
// No-op for an empty product list.
func (r *Renderer) RenderPlatformSummary(products []models.SupportedProduct) {
	titles := UniqueTitles(products)
	if len(titles) == 0 {
		return
	}
	r.line(PlatformSummaryHeader)
	for _, title := range titles {
		r.line(PlatformBulletFormat, title)
	}
	r.line("")
	r.line(PlatformAvailabilityNote)
	r.line("")
	r.line(PlatformMobileNote)
}

// RenderFailure renders the generic failure banner plus one fixed
// explanation per cause. Status codes outside the known set get no extra
// detail line beyond the banner.
func (r *Renderer) RenderFailure(f *models.Failure) {
	r.line(BannerError)
	switch f.Kind {
	case models.FailureStatus:
		switch f.StatusCode {
		case 400:
			r.line("- %s", ExplainStatus400)
		case 415:
			r.line("- %s", ExplainStatus415)
		case 500:
			r.line("- %s", ExplainStatus500)
		case 503:
			r.line("- %s", ExplainStatus503)
		}
	case models.FailureTransport:
		r.line("- %s", ExplainTransport)
	default:
		r.line("- %s", ExplainUnexpected)
	}
}

// UniqueTitles extracts product titles, deduplicated with stable set
// semantics: first occurrence wins, order of first appearance preserved,
// never sorted.
func UniqueTitles(products []models.SupportedProduct) []string {
	seen := make(map[string]bool)
	var titles []string
	for _, p := range products {
		if seen[p.Title] {
			continue
		}
		seen[p.Title] = true
		titles = append(titles, p.Title)
	}
	return titles
}
