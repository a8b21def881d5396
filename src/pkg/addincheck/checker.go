package addincheck

import (
	"context"
	"errors"

	"github.com/gh-ovd/addin-manifestchk/src/pkg/models"
	"github.com/gh-ovd/addin-manifestchk/src/pkg/report"
	"github.com/gh-ovd/addin-manifestchk/src/pkg/service"
	"github.com/gh-ovd/addin-manifestchk/src/pkg/verdict"
	log "github.com/sirupsen/logrus"
)

var logger *log.Entry = log.New().WithFields(log.Fields{
	"package": "addincheck",
})

// Checker is the top-level manifest validation pipeline: submit the
// manifest, classify the response, render the verdict. Each invocation is
// independent; no state is retained between calls, so a Checker is safe to
// use concurrently for different manifests.
type Checker struct {
	client   service.SubmitterInterface
	renderer *report.Renderer
}

// NewChecker creates a checker from a transport and a report sink.
func NewChecker(client service.SubmitterInterface, renderer *report.Renderer) *Checker {
	return &Checker{
		client:   client,
		renderer: renderer,
	}
}

// Validate runs one manifest through the pipeline. It never returns an
// error: every failure is caught at this boundary and converted into the
// Error outcome plus one rendered explanation block. Callers see only the
// outcome label and the side-effected report text.
func (c *Checker) Validate(ctx context.Context, manifestPath string) *models.CheckResult {
	logger.WithField("manifest", manifestPath).Info("Validate: starting...")

	resp, err := c.client.Submit(ctx, manifestPath)
	if err != nil {
		kind := models.FailureUnexpected
		if errors.Is(err, service.ErrServiceUnreachable) {
			kind = models.FailureTransport
		}
		failure := &models.Failure{Kind: kind, Err: err}
		c.renderer.RenderFailure(failure)
		logger.WithField("error", err).Info("Validate: done with Error outcome.")
		return &models.CheckResult{Outcome: models.OutcomeError, Failure: failure}
	}

	outcome, rep, products, failure := verdict.Classify(resp)
	if failure != nil {
		c.renderer.RenderFailure(failure)
		logger.WithField("failure", failure.Kind).Info("Validate: done with Error outcome.")
		return &models.CheckResult{Outcome: models.OutcomeError, Failure: failure}
	}

	result := &models.CheckResult{
		Outcome:  outcome,
		Report:   rep,
		Products: products,
	}

	switch outcome {
	case models.OutcomePassed, models.OutcomeFailed:
		c.renderer.RenderVerdict(result)
	default:
		// Known gap: an unrecognized result label is returned upward but
		// renders nothing. Log it so the silence is at least observable.
		logger.WithField("result", rep.Result).Warn("Service returned an unrecognized result label; nothing rendered")
	}

	logger.WithField("outcome", outcome).Info("Validate: done.")
	return result
}
