package runner

import "github.com/gh-ovd/addin-manifestchk/src/pkg/models"

type RunnerInterface interface {
	// Initialize the runner with necessary context and data
	Initialize() error

	// Check submits the manifest and renders the verdict to the console.
	// It never fails; every failure becomes the Error outcome.
	Check() *models.CheckResult

	// Main routine to process the runner
	Process() error

	// Handling the export
	Output(data *models.ReportData) error
}
