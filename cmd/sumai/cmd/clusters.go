package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sumai-tools/sumai/internal/cmd/output"
)

var clustersCmd = &cobra.Command{
	Use:   "clusters",
	Short: "Group trade records by building",
	Long: `Clusters groups the stored trade records by building and prints one
row per building: price range, mean price per square meter, and the most
recent trade period. Buildings with recent trades sort first.

Takes the same filter flags as "sumai transactions".`,
	RunE: func(_ *cobra.Command, _ []string) error {
		engine, err := newEngine()
		if err != nil {
			return err
		}

		clusters, err := engine.Clusters(transactionOpts.spec())
		if err != nil {
			return err
		}

		if output.Format(outputFormat) != output.FormatTable {
			return formatter().Format(os.Stdout, clusters)
		}

		data := output.Data{
			Headers: output.Titles("building", "trades", "latest", "min", "max", "mean_sqm_price"),
			ColumnAlignment: []output.Align{
				output.AlignLeft, output.AlignRight, output.AlignLeft,
				output.AlignRight, output.AlignRight, output.AlignRight,
			},
		}
		for _, c := range clusters {
			data.Rows = append(data.Rows, []string{
				c.Label,
				strconv.Itoa(len(c.Members)),
				c.LatestPeriod(),
				fmt.Sprintf("%d万", c.MinPriceMan),
				fmt.Sprintf("%d万", c.MaxPriceMan),
				fmt.Sprintf("%d万", c.MeanAreaPriceMan),
			})
		}
		return formatter().Format(os.Stdout, data)
	},
}

func init() {
	addTransactionFilterFlags(clustersCmd)
	rootCmd.AddCommand(clustersCmd)
}
