package camship

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/paulscherrerinstitute/camship/internal/buildctx"
	"github.com/paulscherrerinstitute/camship/internal/dockerclient"
	"github.com/paulscherrerinstitute/camship/internal/imageref"
	"github.com/paulscherrerinstitute/camship/internal/logs"
	"github.com/paulscherrerinstitute/camship/internal/release"
	"github.com/paulscherrerinstitute/camship/internal/state"
	"github.com/paulscherrerinstitute/camship/internal/versions"
)

// Defaults reproduce the original cam_server release script.
const (
	defaultImage   = "docker.psi.ch:5000/cam_server"
	defaultVersion = "1.0.0"
)

// Environment overrides, weaker than flags.
const (
	envImage     = "CAMSHIP_IMAGE"
	envVersion   = "CAMSHIP_VERSION"
	envLatestTag = "CAMSHIP_LATEST_TAG"
)

type releaseOptions struct {
	Image     string
	Version   string
	LatestTag string
	Cache     bool
	FailFast  bool
	Confirm   bool
	DryRun    bool
}

var releaseOpts = &releaseOptions{}

func attachReleaseCmdFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&releaseOpts.Image, "image", defaultImage, "registry-qualified image name")
	cmd.Flags().StringVar(&releaseOpts.Version, "version", defaultVersion, "version tag for this release")
	cmd.Flags().StringVar(&releaseOpts.LatestTag, "latest-tag", "", "rolling reference to push last (default: the bare image name)")
	cmd.Flags().BoolVar(&releaseOpts.Cache, "cache", false, "re-enable the layer cache (releases build clean by default)")
	cmd.Flags().BoolVar(&releaseOpts.FailFast, "fail-fast", false, "abort after the first failed step")
	cmd.Flags().BoolVar(&releaseOpts.Confirm, "confirm", false, "ask before running the release")
	cmd.Flags().BoolVar(&releaseOpts.DryRun, "dry-run", false, "print the step plan without touching the engine")
}

func newReleaseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "release [CONTEXT]",
		Aliases: []string{"r"},
		Short:   "Run the build/tag/push release pipeline",
		Long: `Run the four release steps in fixed order: build the image from the
build context, tag it with the version, push the versioned tag, push the
rolling tag. A failed step does not stop the following ones unless
--fail-fast is given; the exit code reflects the last step.`,
		Args: cobra.MaximumNArgs(1),
		RunE: releaseCmdRunE,
	}

	attachReleaseCmdFlags(cmd)

	return cmd
}

func releaseCmdRunE(cmd *cobra.Command, args []string) error {
	opts := *releaseOpts
	applyEnvOverrides(cmd, &opts)

	contextDir := "."
	if len(args) == 1 {
		contextDir = args[0]
	}

	plan := release.Plan{
		Image:      opts.Image,
		Version:    opts.Version,
		RollingRef: opts.LatestTag,
		ContextDir: contextDir,
		UseCache:   opts.Cache,
		FailFast:   opts.FailFast,
	}

	// warnings only, never fatal: the version is passed to the engine
	// exactly as given
	if err := versions.Check(plan.Version); err != nil {
		logs.Warnf("%v", err)
	}
	if !imageref.ValidTag(plan.Version) {
		logs.Warnf("version %q is not a valid image tag; the daemon will reject it", plan.Version)
	}
	if imageref.Registry(plan.Image) == "" {
		logs.Warnf("image %s has no registry prefix; pushes will go to the default registry", plan.Image)
	}
	if !buildctx.HasDockerfile(contextDir) {
		logs.Warnf("no Dockerfile at the top of %s; the daemon will reject the build", contextDir)
	}

	if opts.DryRun {
		for _, s := range plan.Steps() {
			fmt.Printf("%-14s %v\n", s.Step, s.Args)
		}
		return nil
	}

	if opts.Confirm {
		ok, err := logs.PromptConfirm(releaseConfirmPrompt(plan))
		if err != nil {
			return err
		}
		if !ok {
			logs.Infof("release aborted")
			return nil
		}
	}

	signalsCtx, stopSignalsCtx := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stopSignalsCtx()

	docker, err := dockerclient.NewDockerClient()
	if err != nil {
		return err
	}

	if docker.ImageExists(signalsCtx, plan.VersionedRef()) {
		logs.Warnf("%s already exists locally and will be overwritten", plan.VersionedRef())
	}

	logs.Banner(fmt.Sprintf("release %s:%s", plan.Image, plan.Version))

	started := time.Now()
	result := release.NewPipeline(docker).Run(signalsCtx, plan)
	recordHistory(cmd, plan, result, started)

	printReleaseSummary(result)

	if err := result.LastErr(); err != nil {
		return fmt.Errorf("release finished with a failing final step: %w", err)
	}
	if failed := result.FailedSteps(); len(failed) > 0 {
		// faithful to the script: earlier failures do not change the
		// exit code, but they should not pass silently either
		logs.Warnf("release finished, but steps %v failed", failed)
	}
	return nil
}

// applyEnvOverrides fills options from the environment for every flag the
// user did not set explicitly. Flags win over env, env wins over defaults.
func applyEnvOverrides(cmd *cobra.Command, opts *releaseOptions) {
	if v := os.Getenv(envImage); v != "" && !cmd.Flags().Changed("image") {
		opts.Image = v
	}
	if v := os.Getenv(envVersion); v != "" && !cmd.Flags().Changed("version") {
		opts.Version = v
	}
	if v := os.Getenv(envLatestTag); v != "" && !cmd.Flags().Changed("latest-tag") {
		opts.LatestTag = v
	}
}

// releaseConfirmPrompt names both refs that will actually be pushed,
// including a --latest-tag override.
func releaseConfirmPrompt(plan release.Plan) string {
	return fmt.Sprintf(
		"Release %s (push %s and %s)?",
		plan.Image, plan.VersionedRef(), plan.Rolling(),
	)
}

// buildHistoryRecord maps one run to a ledger row. The version is stored
// in canonical semver form when it parses as semver; the tags on the
// registry keep the caller's exact spelling.
func buildHistoryRecord(plan release.Plan, result *release.Result, started, finished time.Time) state.ReleaseRecord {
	return state.ReleaseRecord{
		Image:      plan.Image,
		Version:    versions.Normalize(plan.Version),
		Steps:      result.Summary(),
		OK:         result.OK(),
		StartedAt:  started,
		FinishedAt: finished,
	}
}

// recordHistory appends the run to the local ledger. Failures here are
// warnings only; the release outcome must not depend on bookkeeping.
func recordHistory(cmd *cobra.Command, plan release.Plan, result *release.Result, started time.Time) {
	db, err := state.OpenDefault(cmd.Context())
	if err != nil {
		logs.Warnf("history: %v", err)
		return
	}
	defer db.Close()

	store, err := state.NewHistoryStore(cmd.Context(), db)
	if err != nil {
		logs.Warnf("history: %v", err)
		return
	}

	rec := buildHistoryRecord(plan, result, started, time.Now())
	if err := store.Record(cmd.Context(), rec); err != nil {
		logs.Warnf("history: %v", err)
	}
}

func printReleaseSummary(result *release.Result) {
	logs.Spacer()
	for _, s := range result.Steps {
		status := "ok"
		if s.Err != nil {
			status = "FAILED"
		}
		logs.Infof("%-14s %-50s %s", s.Step, s.Ref, status)
	}
}
