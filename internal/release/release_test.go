package release

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/paulscherrerinstitute/camship/internal/release/mocks"
)

func testPlan() Plan {
	return Plan{
		Image:      "docker.psi.ch:5000/cam_server",
		Version:    "1.0.0",
		ContextDir: ".",
	}
}

func TestRunExecutesStepsInOrder(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ops := mocks.NewMockDockerOps(ctrl)
	plan := testPlan()
	ctx := context.Background()

	gomock.InOrder(
		ops.EXPECT().BuildImage(ctx, ".", "docker.psi.ch:5000/cam_server", false).Return("docker.psi.ch:5000/cam_server", nil),
		ops.EXPECT().TagImage(ctx, "docker.psi.ch:5000/cam_server", "docker.psi.ch:5000/cam_server:1.0.0").Return(nil),
		ops.EXPECT().PushImage(ctx, "docker.psi.ch:5000/cam_server:1.0.0").Return(nil),
		ops.EXPECT().PushImage(ctx, "docker.psi.ch:5000/cam_server").Return(nil),
	)

	result := NewPipeline(ops).Run(ctx, plan)

	if !result.OK() {
		t.Fatalf("expected OK result, failed steps: %v", result.FailedSteps())
	}
	if len(result.Steps) != 4 {
		t.Fatalf("executed %d steps, want 4", len(result.Steps))
	}

	wantOrder := []Step{StepBuild, StepTag, StepPushVersioned, StepPushRolling}
	for i, s := range result.Steps {
		if s.Step != wantOrder[i] {
			t.Fatalf("step %d = %s, want %s", i, s.Step, wantOrder[i])
		}
	}
}

func TestRunContinuesAfterFailure(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ops := mocks.NewMockDockerOps(ctrl)
	plan := testPlan()
	ctx := context.Background()

	buildErr := errors.New("daemon unreachable")

	// build fails but tag and both pushes must still run exactly once
	ops.EXPECT().BuildImage(ctx, ".", plan.Image, false).Return("", buildErr)
	ops.EXPECT().TagImage(ctx, plan.Image, plan.VersionedRef()).Return(nil)
	ops.EXPECT().PushImage(ctx, plan.VersionedRef()).Return(nil)
	ops.EXPECT().PushImage(ctx, plan.Image).Return(nil)

	result := NewPipeline(ops).Run(ctx, plan)

	if len(result.Steps) != 4 {
		t.Fatalf("executed %d steps, want 4", len(result.Steps))
	}
	if result.OK() {
		t.Fatal("result should not be OK when a step failed")
	}
	if got := result.FailedSteps(); !reflect.DeepEqual(got, []Step{StepBuild}) {
		t.Fatalf("FailedSteps = %v, want [build]", got)
	}

	// the last step succeeded, so the run's exit status is clean
	if result.LastErr() != nil {
		t.Fatalf("LastErr = %v, want nil", result.LastErr())
	}
}

func TestRunLastErrReflectsFinalStep(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ops := mocks.NewMockDockerOps(ctrl)
	plan := testPlan()
	ctx := context.Background()

	pushErr := errors.New("registry refused")

	ops.EXPECT().BuildImage(ctx, ".", plan.Image, false).Return(plan.Image, nil)
	ops.EXPECT().TagImage(ctx, plan.Image, plan.VersionedRef()).Return(nil)
	ops.EXPECT().PushImage(ctx, plan.VersionedRef()).Return(nil)
	ops.EXPECT().PushImage(ctx, plan.Image).Return(pushErr)

	result := NewPipeline(ops).Run(ctx, plan)

	if !errors.Is(result.LastErr(), pushErr) {
		t.Fatalf("LastErr = %v, want %v", result.LastErr(), pushErr)
	}
}

func TestRunFailFastSkipsRemainingSteps(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ops := mocks.NewMockDockerOps(ctrl)
	plan := testPlan()
	plan.FailFast = true
	ctx := context.Background()

	tagErr := errors.New("no such image")

	ops.EXPECT().BuildImage(ctx, ".", plan.Image, false).Return(plan.Image, nil)
	ops.EXPECT().TagImage(ctx, plan.Image, plan.VersionedRef()).Return(tagErr)
	// no push expectations: fail-fast must not reach them

	result := NewPipeline(ops).Run(ctx, plan)

	if len(result.Steps) != 2 {
		t.Fatalf("executed %d steps, want 2", len(result.Steps))
	}
	if !errors.Is(result.LastErr(), tagErr) {
		t.Fatalf("LastErr = %v, want %v", result.LastErr(), tagErr)
	}
	if result.OK() {
		t.Fatal("result should not be OK after fail-fast abort")
	}
}

func TestRunHonorsCacheFlag(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ops := mocks.NewMockDockerOps(ctrl)
	plan := testPlan()
	plan.UseCache = true
	ctx := context.Background()

	ops.EXPECT().BuildImage(ctx, ".", plan.Image, true).Return(plan.Image, nil)
	ops.EXPECT().TagImage(ctx, plan.Image, plan.VersionedRef()).Return(nil)
	ops.EXPECT().PushImage(ctx, plan.VersionedRef()).Return(nil)
	ops.EXPECT().PushImage(ctx, plan.Image).Return(nil)

	if result := NewPipeline(ops).Run(ctx, plan); !result.OK() {
		t.Fatalf("expected OK result, failed steps: %v", result.FailedSteps())
	}
}

func TestVersionedRef(t *testing.T) {
	t.Parallel()

	plan := testPlan()
	want := "docker.psi.ch:5000/cam_server:1.0.0"
	if got := plan.VersionedRef(); got != want {
		t.Fatalf("VersionedRef = %q, want %q", got, want)
	}
}

func TestPipelineUsesCallerVersionVerbatim(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ops := mocks.NewMockDockerOps(ctrl)
	plan := testPlan()
	plan.Version = "1.0.0-RC1"
	ctx := context.Background()

	// the tag reaching the engine must be exactly what was asked for,
	// uppercase included
	wantRef := "docker.psi.ch:5000/cam_server:1.0.0-RC1"

	gomock.InOrder(
		ops.EXPECT().BuildImage(ctx, ".", plan.Image, false).Return(plan.Image, nil),
		ops.EXPECT().TagImage(ctx, plan.Image, wantRef).Return(nil),
		ops.EXPECT().PushImage(ctx, wantRef).Return(nil),
		ops.EXPECT().PushImage(ctx, plan.Image).Return(nil),
	)

	if result := NewPipeline(ops).Run(ctx, plan); !result.OK() {
		t.Fatalf("expected OK result, failed steps: %v", result.FailedSteps())
	}
}

func TestRollingRefOverride(t *testing.T) {
	t.Parallel()

	plan := testPlan()
	if got := plan.Rolling(); got != plan.Image {
		t.Fatalf("Rolling = %q, want bare image %q", got, plan.Image)
	}

	plan.RollingRef = "docker.psi.ch:5000/cam_server:stable"
	if got := plan.Rolling(); got != plan.RollingRef {
		t.Fatalf("Rolling = %q, want override %q", got, plan.RollingRef)
	}
	if got := plan.Steps()[3].Args[0]; got != plan.RollingRef {
		t.Fatalf("rolling push arg = %q, want override %q", got, plan.RollingRef)
	}
}

func TestVersionChangeOnlyAffectsTagAndVersionedPush(t *testing.T) {
	t.Parallel()

	base := testPlan()
	bumped := base
	bumped.Version = "2.4.1"

	baseSteps := base.Steps()
	bumpedSteps := bumped.Steps()

	if !reflect.DeepEqual(baseSteps[0], bumpedSteps[0]) {
		t.Fatalf("build args changed with version: %v vs %v", baseSteps[0], bumpedSteps[0])
	}
	if !reflect.DeepEqual(baseSteps[3], bumpedSteps[3]) {
		t.Fatalf("rolling push args changed with version: %v vs %v", baseSteps[3], bumpedSteps[3])
	}

	if bumpedSteps[1].Args[1] != "docker.psi.ch:5000/cam_server:2.4.1" {
		t.Fatalf("tag target = %q", bumpedSteps[1].Args[1])
	}
	if bumpedSteps[2].Args[0] != "docker.psi.ch:5000/cam_server:2.4.1" {
		t.Fatalf("versioned push ref = %q", bumpedSteps[2].Args[0])
	}
}

func TestResultSummary(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ops := mocks.NewMockDockerOps(ctrl)
	plan := testPlan()
	ctx := context.Background()

	ops.EXPECT().BuildImage(ctx, ".", plan.Image, false).Return(plan.Image, nil)
	ops.EXPECT().TagImage(ctx, plan.Image, plan.VersionedRef()).Return(nil)
	ops.EXPECT().PushImage(ctx, plan.VersionedRef()).Return(errors.New("boom"))
	ops.EXPECT().PushImage(ctx, plan.Image).Return(nil)

	result := NewPipeline(ops).Run(ctx, plan)

	want := "build=ok " +
		"tag:docker.psi.ch:5000/cam_server:1.0.0=ok " +
		"push:docker.psi.ch:5000/cam_server:1.0.0=failed " +
		"push:docker.psi.ch:5000/cam_server=ok"
	if got := result.Summary(); got != want {
		t.Fatalf("Summary = %q, want %q", got, want)
	}
}
