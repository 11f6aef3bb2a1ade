package cmd

import (
	"context"
	"fmt"

	"github.com/matheuskafuri/timeportal/internal/config"
	"github.com/matheuskafuri/timeportal/internal/featured"
	"github.com/spf13/cobra"
)

var flagFeaturedLimit int

var featuredCmd = &cobra.Command{
	Use:   "featured",
	Short: "Show Wikipedia's curated \"On this day\" entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout())
		defer cancel()

		entries, err := featured.NewReader(cfg.FeaturedFeedURL, userAgent(cfg)).Fetch(ctx, flagFeaturedLimit)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(w, "No featured entries.")
			return nil
		}
		for _, e := range entries {
			fmt.Fprintln(w, factYearStyle.Render(e.Title))
			if !e.Published.IsZero() {
				fmt.Fprintln(w, factCategoryStyle.Render(e.Published.Format("Mon, Jan 2 2006")))
			}
			if e.Summary != "" {
				fmt.Fprintln(w, e.Summary)
			}
			fmt.Fprintln(w, factLinkStyle.Render(e.Link))
			fmt.Fprintln(w)
		}
		return nil
	},
}

func init() {
	featuredCmd.Flags().IntVar(&flagFeaturedLimit, "limit", 3, "number of days to show (0 for all)")
}
