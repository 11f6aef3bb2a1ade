package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/matheuskafuri/timeportal/internal/config"
	"github.com/matheuskafuri/timeportal/internal/facts"
	"github.com/matheuskafuri/timeportal/internal/logging"
	"github.com/matheuskafuri/timeportal/internal/search"
	"github.com/spf13/cobra"
)

var flagLookupJSON bool

var lookupCmd = &cobra.Command{
	Use:          "lookup [YYYY-MM-DD]",
	Short:        "Print what happened on a date",
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		log := logging.Console(cfg.LogLevel)

		opts := []search.Option{search.WithLogger(log)}
		if db, err := openHistory(); err != nil {
			log.Warn().Err(err).Msg("history disabled")
		} else {
			defer db.Close()
			opts = append(opts, search.WithRecorder(db))
		}

		input := ""
		if len(args) == 1 {
			input = args[0]
		}

		out := search.New(newProvider(cfg), opts...).Run(cmd.Context(), input)

		if err := printResult(cmd.OutOrStdout(), out, flagLookupJSON); err != nil {
			return err
		}
		if out.Err != nil {
			return errors.New(out.Result.Message)
		}
		return nil
	},
}

func init() {
	lookupCmd.Flags().BoolVar(&flagLookupJSON, "json", false, "print the result as JSON")
}

var (
	factYearStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"})
	factCategoryStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#25D366"})
	factLinkStyle     = lipgloss.NewStyle().Faint(true).Italic(true)
	factMessageStyle  = lipgloss.NewStyle().Italic(true)
)

type lookupJSON struct {
	Date    string              `json:"date,omitempty"`
	Facts   []facts.EventRecord `json:"facts"`
	Message string              `json:"message"`
	Outcome facts.Outcome       `json:"outcome,omitempty"`
}

func printResult(w io.Writer, out search.Outcome, asJSON bool) error {
	res := out.Result
	if asJSON {
		payload := lookupJSON{Facts: res.Facts, Message: res.Message, Outcome: res.Outcome}
		if payload.Facts == nil {
			payload.Facts = []facts.EventRecord{}
		}
		if out.Err == nil {
			payload.Date = out.Query.String()
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}

	if res.Message != "" {
		fmt.Fprintln(w, factMessageStyle.Render(res.Message))
		if len(res.Facts) > 0 {
			fmt.Fprintln(w)
		}
	}
	for _, f := range res.Facts {
		fmt.Fprintln(w, formatFact(f))
	}
	return nil
}

func formatFact(f facts.EventRecord) string {
	year := string(f.Year)
	if year == "" {
		year = "?"
	}
	var b strings.Builder
	b.WriteString(factYearStyle.Render(year))
	b.WriteString(" ")
	b.WriteString(factCategoryStyle.Render("(" + string(f.Category) + ")"))
	b.WriteString(": ")
	b.WriteString(f.Text)
	if link := f.Link(); link != "" {
		b.WriteString("\n    ")
		b.WriteString(factLinkStyle.Render("Learn more: " + link))
	}
	return b.String()
}
