package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sumai-tools/sumai/internal/cmd/output"
	"github.com/sumai-tools/sumai/pkg/listings"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show per-feed sync state",
	RunE: func(_ *cobra.Command, _ []string) error {
		engine, err := newEngine()
		if err != nil {
			return err
		}

		state := engine.SyncState()

		if output.Format(outputFormat) != output.FormatTable {
			return formatter().Format(os.Stdout, state)
		}

		data := output.Data{
			Headers: output.Titles("feed", "last_fetched", "changed", "error"),
		}
		for _, f := range listings.Feeds() {
			fs := state.Feeds[f]
			fetched := "never"
			if !fs.LastFetchedAt.IsZero() {
				fetched = fs.LastFetchedAt.Local().Format("2006-01-02 15:04")
			}
			changed := ""
			if fs.Changed {
				changed = "yes"
			}
			data.Rows = append(data.Rows, []string{
				f.String(), fetched, changed, fs.LastError,
			})
		}
		return formatter().Format(os.Stdout, data)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
