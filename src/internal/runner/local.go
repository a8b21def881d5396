package runner

import (
	"context"

	"github.com/gh-ovd/addin-manifestchk/src/pkg/addincheck"
	"github.com/gh-ovd/addin-manifestchk/src/pkg/policy"
	"github.com/gh-ovd/addin-manifestchk/src/pkg/template"
)

// RunnerLocal renders the verdict to the console only. The console
// rendering itself happens inside Check; local mode adds nothing beyond
// the optional report.json export.
type RunnerLocal struct {
	RunnerBase
}

// make RunnerLocal implement RunnerInterface
var _ RunnerInterface = (*RunnerLocal)(nil)

func NewRunnerLocal(
	ctx context.Context,
	options *Options,
	checker *addincheck.Checker,
	evaluator *policy.GateEvaluator,
	renderer *template.Renderer,
) (*RunnerLocal, error) {
	baseRunner, err := NewRunnerBase(ctx, options, checker, evaluator, renderer)
	if err != nil {
		return nil, err
	}
	runner := &RunnerLocal{
		RunnerBase: *baseRunner,
	}
	return runner, nil
}

func (r *RunnerLocal) Initialize() error {
	return r.RunnerBase.Initialize()
}

func (r *RunnerLocal) Process() error {
	return r.RunnerBase.Process()
}
