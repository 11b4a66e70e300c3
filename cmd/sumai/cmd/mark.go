package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sumai-tools/sumai/pkg/listings"
)

var (
	markFeed       string
	removeFavorite bool
)

var markCmd = &cobra.Command{
	Use:   "mark",
	Short: "Record local marks on a listing",
}

var markViewedCmd = &cobra.Command{
	Use:   "viewed <url>",
	Short: "Stamp a listing as viewed now",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		engine, err := newEngine()
		if err != nil {
			return err
		}
		f, err := markFeedArg()
		if err != nil {
			return err
		}
		return engine.MarkViewed(f, args[0], time.Now())
	},
}

var markFavoriteCmd = &cobra.Command{
	Use:   "favorite <url>",
	Short: "Favorite a listing",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		engine, err := newEngine()
		if err != nil {
			return err
		}
		f, err := markFeedArg()
		if err != nil {
			return err
		}
		if err := engine.SetFavorite(f, args[0], !removeFavorite); err != nil {
			return err
		}
		if removeFavorite {
			fmt.Fprintln(os.Stderr, "Favorite removed")
		}
		return nil
	},
}

func markFeedArg() (listings.Feed, error) {
	f := listings.Feed(markFeed)
	if !f.Valid() {
		return "", fmt.Errorf("unknown feed %q: must be existing or new_build", markFeed)
	}
	return f, nil
}

func init() {
	markCmd.PersistentFlags().StringVar(&markFeed, "feed", string(listings.FeedExisting), "feed the listing belongs to")
	markFavoriteCmd.Flags().BoolVar(&removeFavorite, "remove", false, "remove the favorite mark")
	markCmd.AddCommand(markViewedCmd)
	markCmd.AddCommand(markFavoriteCmd)
	rootCmd.AddCommand(markCmd)
}
