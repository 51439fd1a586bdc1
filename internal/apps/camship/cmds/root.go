package camship

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/paulscherrerinstitute/camship/internal/logs"
)

var verbosity int

func Execute(ctx context.Context) error {
	rootCmd := &cobra.Command{
		Use:   "camship [CONTEXT]",
		Short: "Build, tag and push the cam_server container image",
		Long: `camship runs one release of a container image: build it from the
given build context with the layer cache disabled, tag it with a version,
and push both the versioned and the rolling tag to the registry.

By default, 'camship' is equivalent to 'camship release [CONTEXT]'.
If CONTEXT is omitted, the current working directory is used.`,
		Args: cobra.MaximumNArgs(1),
		// Default behavior is the same as 'release'
		RunE: releaseCmdRunE,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logs.SetDebugVerbosity(verbosity)
			return nil
		},
		// we will handle that
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase verbosity level")

	// Root should accept the same flags as `release`
	attachReleaseCmdFlags(rootCmd)

	rootCmd.AddCommand(newReleaseCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd.ExecuteContext(ctx)
}
