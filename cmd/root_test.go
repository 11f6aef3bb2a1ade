package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/matheuskafuri/timeportal/internal/config"
	"github.com/matheuskafuri/timeportal/internal/facts"
	"github.com/matheuskafuri/timeportal/internal/history"
	"github.com/matheuskafuri/timeportal/internal/search"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{90 * 24 * time.Hour, "90d"},
		{24 * time.Hour, "1d"},
		{36 * time.Hour, "1d"},
		{12 * time.Hour, "12h"},
		{0, "0h"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.in); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{3 << 20, "3.0 MB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func sampleOutcome() search.Outcome {
	return search.Outcome{
		Query: facts.Query{Year: 1969, Month: "07", Day: "20"},
		Result: facts.SelectionResult{
			Facts: []facts.EventRecord{{
				Text:     "Apollo 11 lands on the Moon.",
				Year:     "1969",
				Category: facts.CategoryEvents,
			}},
			Outcome: facts.OutcomeMatch,
		},
	}
}

func TestPrintResultText(t *testing.T) {
	var buf bytes.Buffer
	if err := printResult(&buf, sampleOutcome(), false); err != nil {
		t.Fatalf("printResult: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"1969", "events", "Apollo 11 lands on the Moon."} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintResultMessage(t *testing.T) {
	out := search.Outcome{Result: facts.SelectionResult{Message: facts.MsgNoEvents, Outcome: facts.OutcomeEmpty}}
	var buf bytes.Buffer
	if err := printResult(&buf, out, false); err != nil {
		t.Fatalf("printResult: %v", err)
	}
	if !strings.Contains(buf.String(), facts.MsgNoEvents) {
		t.Errorf("output = %q, want message %q", buf.String(), facts.MsgNoEvents)
	}
}

func TestPrintResultJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := printResult(&buf, sampleOutcome(), true); err != nil {
		t.Fatalf("printResult: %v", err)
	}
	var got struct {
		Date    string `json:"date"`
		Facts   []map[string]any
		Message string `json:"message"`
		Outcome string `json:"outcome"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, buf.String())
	}
	if got.Date != "1969-07-20" {
		t.Errorf("date = %q, want 1969-07-20", got.Date)
	}
	if len(got.Facts) != 1 {
		t.Errorf("facts = %d, want 1", len(got.Facts))
	}
	if got.Outcome != string(facts.OutcomeMatch) {
		t.Errorf("outcome = %q, want %q", got.Outcome, facts.OutcomeMatch)
	}
}

func TestPrintResultJSONEmptyFacts(t *testing.T) {
	out := search.Outcome{Result: facts.SelectionResult{Message: facts.MsgNoEvents, Outcome: facts.OutcomeEmpty}}
	var buf bytes.Buffer
	if err := printResult(&buf, out, true); err != nil {
		t.Fatalf("printResult: %v", err)
	}
	if !strings.Contains(buf.String(), `"facts": []`) {
		t.Errorf("want empty facts array, got:\n%s", buf.String())
	}
}

func TestPrintHistory(t *testing.T) {
	var buf bytes.Buffer
	printHistory(&buf, nil)
	if !strings.Contains(buf.String(), "No searches yet.") {
		t.Errorf("empty history output = %q", buf.String())
	}

	buf.Reset()
	printHistory(&buf, []history.Entry{{
		Date:       "1969-07-20",
		Outcome:    "match",
		FactCount:  3,
		SearchedAt: time.Date(2024, 1, 2, 3, 4, 0, 0, time.UTC),
	}})
	out := buf.String()
	if !strings.Contains(out, "1969-07-20") || !strings.Contains(out, "match") || !strings.Contains(out, "3 fact(s)") {
		t.Errorf("history output = %q", out)
	}
}

func TestUserAgent(t *testing.T) {
	SetVersionInfo("1.2.3", "abc", "today")
	defer SetVersionInfo("dev", "none", "unknown")

	tests := []struct {
		configured string
		want       string
	}{
		{"", "timeportal/1.2.3"},
		{"my-bot (me@example.com)", "my-bot (me@example.com) timeportal/1.2.3"},
	}
	for _, tt := range tests {
		cfg := &config.Config{UserAgent: tt.configured}
		if got := userAgent(cfg); got != tt.want {
			t.Errorf("userAgent(%q) = %q, want %q", tt.configured, got, tt.want)
		}
	}
}

func TestGinMode(t *testing.T) {
	tests := []struct {
		level string
		want  string
	}{
		{"debug", gin.DebugMode},
		{"info", gin.ReleaseMode},
		{"", gin.ReleaseMode},
		{"error", gin.ReleaseMode},
	}
	for _, tt := range tests {
		if got := ginMode(tt.level); got != tt.want {
			t.Errorf("ginMode(%q) = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestNewCheckerFollowsConfig(t *testing.T) {
	if newChecker(&config.Config{}).Enabled() {
		t.Error("checker should be disabled without update_url")
	}
	cfg := &config.Config{UpdateURL: "https://api.github.com/repos/o/r/releases/latest"}
	if !newChecker(cfg).Enabled() {
		t.Error("checker should be enabled when update_url is set")
	}
}
