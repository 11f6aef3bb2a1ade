// Package server exposes the date lookup as a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/matheuskafuri/timeportal/internal/facts"
	"github.com/matheuskafuri/timeportal/internal/history"
	"github.com/matheuskafuri/timeportal/internal/search"
	"github.com/rs/zerolog"
)

// Store is the history backend used by the API. It may be nil.
type Store interface {
	search.Recorder
	Recent(limit int) ([]history.Entry, error)
}

type Server struct {
	provider search.Provider
	store    Store
	log      zerolog.Logger
	timeout  time.Duration
}

func New(provider search.Provider, store Store, log zerolog.Logger, timeout time.Duration) *Server {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Server{provider: provider, store: store, log: log, timeout: timeout}
}

type lookupResponse struct {
	Date    string              `json:"date,omitempty"`
	Facts   []facts.EventRecord `json:"facts"`
	Message string              `json:"message"`
	Outcome facts.Outcome       `json:"outcome,omitempty"`
}

type historyEntry struct {
	ID         string    `json:"id"`
	Date       string    `json:"date"`
	Outcome    string    `json:"outcome"`
	Message    string    `json:"message,omitempty"`
	FactCount  int       `json:"fact_count"`
	SearchedAt time.Time `json:"searched_at"`
}

func (s *Server) Routes() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	api := r.Group("/api")
	api.GET("/onthisday", s.handleLookup)
	api.GET("/history", s.handleHistory)
	return r
}

func (s *Server) searcher() *search.Searcher {
	opts := []search.Option{search.WithLogger(s.log)}
	if s.store != nil {
		opts = append(opts, search.WithRecorder(s.store))
	}
	return search.New(s.provider, opts...)
}

func (s *Server) handleLookup(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), s.timeout)
	defer cancel()

	out := s.searcher().Run(ctx, c.Query("date"))

	resp := lookupResponse{
		Facts:   out.Result.Facts,
		Message: out.Result.Message,
		Outcome: out.Result.Outcome,
	}
	if resp.Facts == nil {
		resp.Facts = []facts.EventRecord{}
	}

	var verr *facts.ValidationError
	switch {
	case errors.As(out.Err, &verr):
		c.JSON(http.StatusBadRequest, resp)
	case out.Err != nil:
		c.JSON(http.StatusBadGateway, resp)
	default:
		resp.Date = out.Query.String()
		c.JSON(http.StatusOK, resp)
	}
}

func (s *Server) handleHistory(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "history is disabled"})
		return
	}

	limit := 20
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	entries, err := s.store.Recent(limit)
	if err != nil {
		s.log.Error().Err(err).Msg("reading search history failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read history"})
		return
	}

	out := make([]historyEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, historyEntry{
			ID:         e.ID,
			Date:       e.Date,
			Outcome:    e.Outcome,
			Message:    e.Message,
			FactCount:  e.FactCount,
			SearchedAt: e.SearchedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"searches": out})
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	}
}

// ListenAndServe runs the API on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
