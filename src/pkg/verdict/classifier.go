package verdict

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gh-ovd/addin-manifestchk/src/pkg/models"
	log "github.com/sirupsen/logrus"
)

var logger = log.WithField("package", "verdict")

// Classify maps a raw service response to an outcome plus the parsed report.
//
// Only a 200 answer is treated as "the service answered": any other status
// is not a parse attempt and comes back as an Error outcome carrying the
// status code. On 200 the body is trimmed of surrounding whitespace (the
// service may pad its payload) and deserialized into the checkReport
// envelope; a body that does not parse is an Error outcome via the parse
// failure branch, never a crash.
//
// The result label is matched case-sensitively against Passed/Failed by the
// downstream renderer; a label outside that set is returned verbatim so the
// caller still sees it, even though nothing will be rendered for it.
func Classify(resp *models.ServiceResponse) (models.ValidationOutcome, *models.ValidationReport, []models.SupportedProduct, *models.Failure) {
	if resp.StatusCode != http.StatusOK {
		logger.WithField("statusCode", resp.StatusCode).Info("Classify: non-200 response, routing to error reporter")
		return models.OutcomeError, nil, nil, &models.Failure{
			Kind:       models.FailureStatus,
			StatusCode: resp.StatusCode,
		}
	}

	body := strings.TrimSpace(resp.Body)
	var envelope models.CheckReportEnvelope
	if err := json.Unmarshal([]byte(body), &envelope); err != nil {
		logger.WithField("error", err).Warn("Classify: failed to parse response body")
		return models.OutcomeError, nil, nil, &models.Failure{
			Kind: models.FailureParse,
			Err:  err,
		}
	}

	report := envelope.CheckReport.ValidationReport
	outcome := models.ValidationOutcome(report.Result)
	logger.WithField("result", report.Result).Info("Classify: done.")
	return outcome, &report, envelope.CheckReport.Details.SupportedProducts, nil
}
