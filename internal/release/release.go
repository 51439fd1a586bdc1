// Package release runs the four-step image release pipeline:
// build, tag, push the versioned reference, push the rolling reference.
package release

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/paulscherrerinstitute/camship/internal/imageref"
	"github.com/paulscherrerinstitute/camship/internal/logs"
)

//go:generate mockgen -source=release.go -destination=mocks/dockerops.go -package=mocks

type Step string

const (
	StepBuild         Step = "build"
	StepTag           Step = "tag"
	StepPushVersioned Step = "push-versioned"
	StepPushRolling   Step = "push-rolling"
)

// DockerOps is the slice of the engine client the pipeline needs.
type DockerOps interface {
	BuildImage(ctx context.Context, contextDir string, ref string, useCache bool) (string, error)
	TagImage(ctx context.Context, source string, target string) error
	PushImage(ctx context.Context, ref string) error
}

// Plan describes one release before it runs.
type Plan struct {
	// Image is the registry-qualified image name,
	// e.g. "docker.psi.ch:5000/cam_server".
	Image string

	// Version labels the versioned tag, e.g. "1.0.0".
	Version string

	// RollingRef is the unversioned reference pushed last. Empty means
	// the bare Image name (the registry resolves it to :latest).
	RollingRef string

	// ContextDir is the build context directory.
	ContextDir string

	// UseCache re-enables the layer cache. Releases default to a clean
	// build.
	UseCache bool

	// FailFast aborts after the first failed step instead of running
	// the remaining ones regardless.
	FailFast bool
}

func (p Plan) VersionedRef() string {
	return imageref.Versioned(p.Image, p.Version)
}

// Rolling returns the unversioned reference pushed last: RollingRef when
// set, otherwise the bare image name.
func (p Plan) Rolling() string {
	if p.RollingRef != "" {
		return p.RollingRef
	}
	return p.Image
}

// PlannedStep is one step with the exact arguments it will receive.
type PlannedStep struct {
	Step Step
	Args []string
}

// Steps returns the fixed step sequence for this plan. The version only
// shows up in the tag target and the versioned push; build and the
// rolling push never depend on it.
func (p Plan) Steps() []PlannedStep {
	return []PlannedStep{
		{Step: StepBuild, Args: []string{p.ContextDir, p.Image}},
		{Step: StepTag, Args: []string{p.Image, p.VersionedRef()}},
		{Step: StepPushVersioned, Args: []string{p.VersionedRef()}},
		{Step: StepPushRolling, Args: []string{p.Rolling()}},
	}
}

// StepResult records one executed step.
type StepResult struct {
	Step     Step
	Ref      string
	Err      error
	Started  time.Time
	Finished time.Time
}

// Result collects the executed steps of one pipeline run.
type Result struct {
	Plan  Plan
	Steps []StepResult
}

// OK reports whether every executed step succeeded and none was skipped.
func (r *Result) OK() bool {
	if len(r.Steps) != len(r.Plan.Steps()) {
		return false
	}
	for _, s := range r.Steps {
		if s.Err != nil {
			return false
		}
	}
	return true
}

// LastErr returns the error of the last executed step. This is what the
// process exit code reflects: earlier failures do not count unless the
// final step also failed.
func (r *Result) LastErr() error {
	if len(r.Steps) == 0 {
		return nil
	}
	return r.Steps[len(r.Steps)-1].Err
}

// FailedSteps lists the steps that returned an error.
func (r *Result) FailedSteps() []Step {
	var out []Step
	for _, s := range r.Steps {
		if s.Err != nil {
			out = append(out, s.Step)
		}
	}
	return out
}

// Summary renders a compact per-step status line for the history ledger,
// e.g. "build=ok tag=ok push:1.0.0=failed push:latest=ok".
func (r *Result) Summary() string {
	var parts []string
	for _, s := range r.Steps {
		status := "ok"
		if s.Err != nil {
			status = "failed"
		}
		parts = append(parts, fmt.Sprintf("%s=%s", stepLabel(s), status))
	}
	return strings.Join(parts, " ")
}

func stepLabel(s StepResult) string {
	switch s.Step {
	case StepPushVersioned, StepPushRolling:
		return "push:" + s.Ref
	case StepTag:
		return "tag:" + s.Ref
	default:
		return string(s.Step)
	}
}

// Pipeline executes a Plan against the engine.
type Pipeline struct {
	ops DockerOps
}

func NewPipeline(ops DockerOps) *Pipeline {
	return &Pipeline{ops: ops}
}

// Run executes the four steps in their fixed order. By default a failed
// step is recorded and the pipeline moves on, matching the behavior of
// the release script this replaces. With Plan.FailFast the remaining
// steps are skipped after the first failure.
func (pl *Pipeline) Run(ctx context.Context, plan Plan) *Result {
	result := &Result{Plan: plan}

	steps := []struct {
		step Step
		ref  string
		run  func(context.Context) error
	}{
		{
			step: StepBuild,
			ref:  plan.Image,
			run: func(ctx context.Context) error {
				_, err := pl.ops.BuildImage(ctx, plan.ContextDir, plan.Image, plan.UseCache)
				return err
			},
		},
		{
			step: StepTag,
			ref:  plan.VersionedRef(),
			run: func(ctx context.Context) error {
				return pl.ops.TagImage(ctx, plan.Image, plan.VersionedRef())
			},
		},
		{
			step: StepPushVersioned,
			ref:  plan.VersionedRef(),
			run: func(ctx context.Context) error {
				return pl.ops.PushImage(ctx, plan.VersionedRef())
			},
		},
		{
			step: StepPushRolling,
			ref:  plan.Rolling(),
			run: func(ctx context.Context) error {
				return pl.ops.PushImage(ctx, plan.Rolling())
			},
		},
	}

	for _, s := range steps {
		logs.Infof("step %s (%s) ...", s.step, s.ref)

		res := StepResult{
			Step:    s.step,
			Ref:     s.ref,
			Started: time.Now(),
		}
		res.Err = s.run(ctx)
		res.Finished = time.Now()

		result.Steps = append(result.Steps, res)

		if res.Err != nil {
			// Not fatal by default: the remaining steps still run, the
			// way the original release script silently carried on.
			logs.Errorf("step %s failed: %v", s.step, res.Err)
			if plan.FailFast {
				logs.Warnf("fail-fast: skipping remaining steps")
				break
			}
			continue
		}

		logs.Infof("step %s done in %s", s.step, res.Finished.Sub(res.Started).Round(time.Millisecond))
	}

	return result
}
