package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage cached feed state",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Discard cached feed tokens",
	Long: `Clear discards the cached feed validation tokens so the next refresh
fetches both feeds unconditionally. Stored listings and your local marks
are untouched.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		engine, err := newEngine()
		if err != nil {
			return err
		}
		engine.ClearCache()
		fmt.Fprintln(os.Stderr, "Feed cache cleared")
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
