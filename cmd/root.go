package cmd

import (
	"fmt"
	"os"

	"github.com/matheuskafuri/timeportal/internal/config"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagDate   string
	flagConfig string
)

var rootCmd = &cobra.Command{
	Use:   "timeportal",
	Short: "Discover what happened on any date",
	Long:  "timeportal asks Wikipedia what happened on a calendar date and shows the events from that exact year, or everything from that day when the year has none.",
	RunE:  runTUI,
}

func init() {
	rootCmd.Flags().StringVar(&flagDate, "date", "", "search this date (YYYY-MM-DD) on launch")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(featuredCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(pruneCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(serveCmd)
}

var flagVersionCheck bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "timeportal %s (commit: %s, built: %s)\n", version, commit, date)
		if !flagVersionCheck {
			return nil
		}

		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		checker := newChecker(cfg)
		if !checker.Enabled() {
			fmt.Fprintln(out, "Update checks are disabled. Set update_url in the config to enable them.")
			return nil
		}
		if res := checker.Check(cmd.Context(), version); res != nil {
			fmt.Fprintf(out, "Update available: v%s\n", res.LatestVersion)
		} else {
			fmt.Fprintln(out, "No update found.")
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolVar(&flagVersionCheck, "check", false, "check GitHub for a newer release")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}
