package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sumai-tools/sumai/internal/cmd/output"
	"github.com/sumai-tools/sumai/pkg/filter"
	"github.com/sumai-tools/sumai/pkg/listings"
)

// transactionFlags collects the filter flags shared by the transactions and
// clusters commands.
type transactionFlags struct {
	minPrice    int
	maxPrice    int
	minArea     float64
	maxArea     float64
	builtAfter  int
	builtBefore int
	periodFrom  string
	periodTo    string
	wards       []string
	districts   []string
	layouts     []string
}

var transactionOpts transactionFlags

var transactionsCmd = &cobra.Command{
	Use:   "transactions",
	Short: "List historical trade records",
	Long: `Transactions prints the stored historical trade records, filtered by
ward, district, price, area, and trade period. Periods are quarters written
as 2024Q3; --from and --to are inclusive.

Run "sumai transactions load" first to ingest the transaction feed.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		engine, err := newEngine()
		if err != nil {
			return err
		}

		records, err := engine.Transactions(transactionOpts.spec())
		if err != nil {
			return err
		}

		if output.Format(outputFormat) != output.FormatTable {
			return formatter().Format(os.Stdout, records)
		}
		return formatter().Format(os.Stdout, transactionTable(records))
	},
}

var transactionsLoadCmd = &cobra.Command{
	Use:   "load",
	Short: "Fetch the transaction feed and replace the local table",
	RunE: func(cmd *cobra.Command, _ []string) error {
		engine, err := newEngine()
		if err != nil {
			return err
		}
		if err := engine.LoadTransactions(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "Transactions loaded")
		return nil
	},
}

func (f transactionFlags) spec() filter.TransactionSpec {
	spec := filter.TransactionSpec{
		Wards:     f.wards,
		Districts: f.districts,
		Layouts:   f.layouts,
	}
	if f.minPrice > 0 {
		spec.PriceMinMan = &f.minPrice
	}
	if f.maxPrice > 0 {
		spec.PriceMaxMan = &f.maxPrice
	}
	if f.minArea > 0 {
		spec.AreaMinSqm = &f.minArea
	}
	if f.maxArea > 0 {
		spec.AreaMaxSqm = &f.maxArea
	}
	if f.builtAfter > 0 {
		spec.BuiltAfter = &f.builtAfter
	}
	if f.builtBefore > 0 {
		spec.BuiltBefore = &f.builtBefore
	}
	if f.periodFrom != "" {
		spec.PeriodFrom = &f.periodFrom
	}
	if f.periodTo != "" {
		spec.PeriodTo = &f.periodTo
	}
	return spec
}

func transactionTable(records []listings.TransactionRecord) output.Data {
	data := output.Data{
		Headers: output.Titles("period", "ward", "district", "building", "price", "area", "layout", "built"),
		ColumnAlignment: []output.Align{
			output.AlignLeft, output.AlignLeft, output.AlignLeft, output.AlignLeft,
			output.AlignRight, output.AlignRight, output.AlignLeft, output.AlignRight,
		},
	}
	for _, rec := range records {
		data.Rows = append(data.Rows, []string{
			rec.TradePeriod,
			rec.Ward,
			rec.District,
			rec.BuildingName,
			fmt.Sprintf("%d万", rec.PriceMan),
			fmt.Sprintf("%.1f㎡", rec.AreaSqm),
			rec.Layout,
			strconv.Itoa(rec.BuiltYear),
		})
	}
	return data
}

// addTransactionFilterFlags registers the shared transaction filter flags.
func addTransactionFilterFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.IntVar(&transactionOpts.minPrice, "min-price", 0, "minimum price in man-en")
	flags.IntVar(&transactionOpts.maxPrice, "max-price", 0, "maximum price in man-en")
	flags.Float64Var(&transactionOpts.minArea, "min-area", 0, "minimum area in square meters")
	flags.Float64Var(&transactionOpts.maxArea, "max-area", 0, "maximum area in square meters")
	flags.IntVar(&transactionOpts.builtAfter, "built-after", 0, "earliest construction year")
	flags.IntVar(&transactionOpts.builtBefore, "built-before", 0, "latest construction year")
	flags.StringVar(&transactionOpts.periodFrom, "from", "", "earliest trade period, e.g. 2023Q1")
	flags.StringVar(&transactionOpts.periodTo, "to", "", "latest trade period, e.g. 2024Q4")
	flags.StringSliceVar(&transactionOpts.wards, "ward", nil, "wards to include")
	flags.StringSliceVar(&transactionOpts.districts, "district", nil, "districts to include")
	flags.StringSliceVar(&transactionOpts.layouts, "layout", nil, "layouts to include, e.g. 3LDK")
}

func init() {
	addTransactionFilterFlags(transactionsCmd)
	transactionsCmd.AddCommand(transactionsLoadCmd)
	rootCmd.AddCommand(transactionsCmd)
}
