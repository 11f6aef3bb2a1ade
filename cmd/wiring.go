package cmd

import (
	"fmt"

	"github.com/matheuskafuri/timeportal/internal/config"
	"github.com/matheuskafuri/timeportal/internal/history"
	"github.com/matheuskafuri/timeportal/internal/onthisday"
	"github.com/matheuskafuri/timeportal/internal/update"
)

func userAgent(cfg *config.Config) string {
	if cfg.UserAgent != "" {
		return fmt.Sprintf("%s timeportal/%s", cfg.UserAgent, version)
	}
	return "timeportal/" + version
}

func newProvider(cfg *config.Config) *onthisday.Client {
	return onthisday.New(onthisday.Options{
		BaseURL:   cfg.APIBaseURL,
		Language:  cfg.Language,
		Timeout:   cfg.Timeout(),
		UserAgent: userAgent(cfg),
	})
}

func openHistory() (*history.Store, error) {
	db, err := history.Open(config.HistoryPath())
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}
	return db, nil
}

func newChecker(cfg *config.Config) *update.Checker {
	return update.NewChecker(cfg.UpdateURL)
}
