package cmd

import (
	"fmt"

	"github.com/matheuskafuri/timeportal/internal/config"
	"github.com/matheuskafuri/timeportal/internal/logging"
	"github.com/matheuskafuri/timeportal/internal/search"
	"github.com/matheuskafuri/timeportal/internal/tui"
	"github.com/spf13/cobra"
)

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, closer, err := logging.File(config.LogPath(), cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closer.Close()

	db, err := openHistory()
	if err != nil {
		return err
	}
	defer db.Close()

	// Auto-prune old searches on launch
	if _, err := db.Prune(cfg.RetentionDuration()); err != nil {
		log.Warn().Err(err).Msg("pruning history failed")
	}

	recent, err := db.Recent(cfg.GetHistoryLimit())
	if err != nil {
		log.Warn().Err(err).Msg("loading recent searches failed")
	}

	searcher := search.New(newProvider(cfg), search.WithRecorder(db), search.WithLogger(log))

	return tui.Run(tui.RunOpts{
		Searcher: searcher,
		Recent:   recent,
		Date:     flagDate,
		Checker:  newChecker(cfg),
		Version:  version,
	})
}
