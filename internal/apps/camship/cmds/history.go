package camship

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/paulscherrerinstitute/camship/internal/state"
	"github.com/paulscherrerinstitute/camship/internal/ui"
)

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "history",
		Aliases: []string{"h"},
		Short:   "List past releases",
		Long:    "List past releases recorded in the local state database.",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := state.OpenDefault(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			store, err := state.NewHistoryStore(cmd.Context(), db)
			if err != nil {
				return err
			}

			records, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if len(records) == 0 {
				fmt.Println("No releases recorded")
				return nil
			}

			table := ui.NewTable(
				ui.Column{Header: "When"},
				ui.Column{Header: "Image", MaxWidth: 50},
				ui.Column{Header: "Version"},
				ui.Column{Header: "Result"},
				ui.Column{Header: "Steps", MaxWidth: 80},
			)
			for _, rec := range records {
				status := "ok"
				if !rec.OK {
					status = "failed"
				}
				table.AddRow(
					rec.StartedAt.Format("2006-01-02 15:04"),
					rec.Image,
					rec.Version,
					status,
					rec.Steps,
				)
			}

			return table.Render(os.Stdout)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of releases to show")

	return cmd
}
