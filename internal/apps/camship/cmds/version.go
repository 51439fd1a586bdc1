package camship

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paulscherrerinstitute/camship/internal/version"
)

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version of camship",
		Long:  `Display the current version of camship.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s\n", version.Get())
		},
	}

	return cmd
}
