package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sumai-tools/sumai/internal/cmd/output"
)

var refreshForce bool

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Fetch both listing feeds and reconcile the local store",
	Long: `Refresh fetches the existing-home and new-construction feeds in
parallel and reconciles each against the local store. A feed that reports
no change since the last fetch is skipped. One feed failing does not stop
the other; failures are reported per feed.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		engine, err := newEngine()
		if err != nil {
			return err
		}

		refresh := engine.Refresh
		if refreshForce {
			refresh = engine.ForceRefresh
		}
		result := refresh(cmd.Context())

		data := output.Data{
			Headers:         []string{"Feed", "Status", "Inserted", "Updated", "Deleted"},
			ColumnAlignment: []output.Align{output.AlignLeft, output.AlignLeft, output.AlignRight, output.AlignRight, output.AlignRight},
		}
		for _, o := range result.Outcomes {
			status := "updated"
			switch {
			case o.Err != nil:
				status = "failed: " + o.Err.Error()
			case o.NotModified:
				status = "not modified"
			case !o.Changed():
				status = "no changes"
			}
			data.Rows = append(data.Rows, []string{
				o.Feed.String(),
				status,
				strconv.Itoa(o.Inserted),
				strconv.Itoa(o.Updated),
				strconv.Itoa(o.Deleted),
			})
		}

		if err := formatter().Format(os.Stdout, data); err != nil {
			return err
		}
		if result.Err != nil {
			return fmt.Errorf("refresh incomplete: %w", result.Err)
		}
		return nil
	},
}

func init() {
	refreshCmd.Flags().BoolVar(&refreshForce, "force", false, "discard cached feed tokens and fetch unconditionally")
	rootCmd.AddCommand(refreshCmd)
}
