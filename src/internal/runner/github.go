package runner

import (
	"context"
	"fmt"
	"strings"

	"github.com/gh-ovd/addin-manifestchk/src/pkg/addincheck"
	"github.com/gh-ovd/addin-manifestchk/src/pkg/github"
	"github.com/gh-ovd/addin-manifestchk/src/pkg/models"
	"github.com/gh-ovd/addin-manifestchk/src/pkg/policy"
	"github.com/gh-ovd/addin-manifestchk/src/pkg/template"
	"github.com/gh-ovd/addin-manifestchk/src/pkg/trace"
)

// RunnerGitHub additionally posts the rendered verdict as a PR comment,
// creating or updating a single signed comment per manifest.
type RunnerGitHub struct {
	RunnerBase

	ghclient github.GitHubClient

	prInfo *models.PullRequest
}

// make RunnerGitHub implement RunnerInterface
var _ RunnerInterface = (*RunnerGitHub)(nil)

func NewRunnerGitHub(
	ctx context.Context,
	options *Options,
	ghclient github.GitHubClient,
	checker *addincheck.Checker,
	evaluator *policy.GateEvaluator,
	renderer *template.Renderer,
) (*RunnerGitHub, error) {
	if ghclient == nil {
		return nil, fmt.Errorf("GitHub client is not initialized")
	}
	baseRunner, err := NewRunnerBase(ctx, options, checker, evaluator, renderer)
	if err != nil {
		return nil, err
	}
	runner := &RunnerGitHub{
		RunnerBase: *baseRunner,
		ghclient:   ghclient,
	}
	return runner, nil
}

func (r *RunnerGitHub) Initialize() error {
	if err := r.RunnerBase.Initialize(); err != nil {
		return err
	}

	logger.WithField("repo", r.Options.GhRepo).WithField("prNumber", r.Options.GhPrNumber).Info("Initialize runner: fetching PR info")
	prInfo, err := r.ghclient.GetPR(r.Context, r.Options.GhRepo, r.Options.GhPrNumber)
	if err != nil {
		return fmt.Errorf("failed to get PR info: %w", err)
	}
	r.prInfo = prInfo

	return nil
}

func (r *RunnerGitHub) Process() error {
	_, span := trace.StartSpan(r.Context, "Process")
	defer span.End()
	logger.Info("Process: starting...")

	result := r.Check()

	gate, err := r.EvaluateGate(result)
	if err != nil {
		return err
	}

	reportData := r.BuildReportData(result, gate)
	reportData.GhRepo = r.Options.GhRepo
	reportData.GhPrNumber = r.Options.GhPrNumber
	if r.prInfo != nil {
		reportData.HeadCommit = r.prInfo.HeadSHA
	}

	if err := r.Output(reportData); err != nil {
		return err
	}

	return VerdictError(result, gate)
}

func (r *RunnerGitHub) Output(data *models.ReportData) error {
	_, span := trace.StartSpan(r.Context, "Output")
	defer span.End()

	logger.Info("Output: starting...")
	if err := r.outputReportJson(data); err != nil {
		return err
	}
	if err := r.outputGitHubComment(data); err != nil {
		return err
	}
	logger.Info("Output: done.")
	return nil
}

// Post comment to GitHub PR
func (r *RunnerGitHub) outputGitHubComment(data *models.ReportData) error {
	logger.Info("OutputGitHubComment: starting...")

	renderedMarkdown, err := r.Renderer.RenderWithTemplates(r.Options.TemplatesPath, data)
	if err != nil {
		logger.WithField("error", err).Error("Failed to render markdown template")
		return err
	}
	logger.WithField("renderedMarkdown", renderedMarkdown).Debug("Rendered markdown")

	// One signed comment per manifest; the signature carries the manifest
	// name so several manifests can report on the same PR.
	commentSignature := strings.ReplaceAll(template.ToolCommentSignature, template.ToolCommentManifestToken, data.ManifestName)
	finalComment := commentSignature + "\n\n" + renderedMarkdown

	existingComment, err := r.ghclient.FindToolComment(r.Context, r.Options.GhRepo, r.Options.GhPrNumber, commentSignature)
	if err != nil {
		logger.WithField("error", err).Warn("Failed to find existing comment, will create new one")
	}

	if existingComment != nil {
		if err := r.ghclient.UpdateComment(r.Context, r.Options.GhRepo, existingComment.ID, finalComment); err != nil {
			logger.WithField("error", err).Error("Failed to update existing comment")
			return err
		}
		logger.Info("Updated existing GitHub comment")
	} else {
		if _, err := r.ghclient.CreateComment(r.Context, r.Options.GhRepo, r.Options.GhPrNumber, finalComment); err != nil {
			logger.WithField("error", err).Error("Failed to create new comment")
			return err
		}
		logger.Info("Created new GitHub comment")
	}

	return nil
}
