package update

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func releaseServer(t *testing.T, status int, body string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestCheckNewerVersion(t *testing.T) {
	url := releaseServer(t, http.StatusOK, `{"tag_name":"v1.2.0"}`)
	got := NewChecker(url).Check(context.Background(), "v1.1.0")
	if got == nil || got.LatestVersion != "1.2.0" {
		t.Errorf("expected 1.2.0, got %+v", got)
	}
}

func TestCheckUpToDate(t *testing.T) {
	url := releaseServer(t, http.StatusOK, `{"tag_name":"v1.2.0"}`)
	if got := NewChecker(url).Check(context.Background(), "1.2.0"); got != nil {
		t.Errorf("expected nil when current, got %+v", got)
	}
}

func TestCheckDevBuild(t *testing.T) {
	url := releaseServer(t, http.StatusOK, `{"tag_name":"v1.2.0"}`)
	if got := NewChecker(url).Check(context.Background(), "dev"); got != nil {
		t.Errorf("expected nil for dev build, got %+v", got)
	}
}

func TestCheckErrorsAreSilent(t *testing.T) {
	url := releaseServer(t, http.StatusForbidden, `{"message":"rate limited"}`)
	if got := NewChecker(url).Check(context.Background(), "1.0.0"); got != nil {
		t.Errorf("expected nil on API error, got %+v", got)
	}
}

func TestCheckDisabledWithoutURL(t *testing.T) {
	c := NewChecker("")
	if c.Enabled() {
		t.Error("checker without url should be disabled")
	}
	if got := c.Check(context.Background(), "1.0.0"); got != nil {
		t.Errorf("expected nil from disabled checker, got %+v", got)
	}
}
