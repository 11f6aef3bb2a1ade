package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/matheuskafuri/timeportal/internal/config"
	"github.com/matheuskafuri/timeportal/internal/logging"
	"github.com/matheuskafuri/timeportal/internal/server"
	"github.com/spf13/cobra"
)

var flagServeAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve date lookups over a JSON HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		log := logging.Console(cfg.LogLevel)
		gin.SetMode(ginMode(cfg.LogLevel))

		var store server.Store
		db, err := openHistory()
		if err != nil {
			log.Warn().Err(err).Msg("history disabled")
		} else {
			defer db.Close()
			store = db
		}

		addr := flagServeAddr
		if addr == "" {
			addr = cfg.ListenAddr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.New(newProvider(cfg), store, log, cfg.Timeout()+5*time.Second)
		return srv.ListenAndServe(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagServeAddr, "addr", "", "listen address (default from config)")
}

// ginMode keeps gin's route dump and debug warnings for debug logging only.
func ginMode(level string) string {
	if level == "debug" {
		return gin.DebugMode
	}
	return gin.ReleaseMode
}
