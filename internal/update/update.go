package update

import (
	"context"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Result holds the outcome of a version check.
type Result struct {
	LatestVersion string
}

type ghRelease struct {
	TagName string `json:"tag_name"`
}

type Checker struct {
	http *resty.Client
	url  string
}

// NewChecker returns a checker for a GitHub "latest release" endpoint. An
// empty url disables checking.
func NewChecker(url string) *Checker {
	return &Checker{
		http: resty.New().SetTimeout(5 * time.Second).SetHeader("Accept", "application/vnd.github+json"),
		url:  url,
	}
}

func (c *Checker) Enabled() bool {
	return c != nil && c.url != ""
}

// Check queries the GitHub Releases API to see if a newer version is available.
// Returns nil on any error (non-fatal) and for development builds.
func (c *Checker) Check(ctx context.Context, currentVersion string) *Result {
	current := strings.TrimPrefix(currentVersion, "v")
	if !c.Enabled() || current == "" || current == "dev" {
		return nil
	}

	var release ghRelease
	resp, err := c.http.R().SetContext(ctx).SetResult(&release).Get(c.url)
	if err != nil || !resp.IsSuccess() {
		return nil
	}

	latest := strings.TrimPrefix(release.TagName, "v")
	if latest == "" || latest == current {
		return nil
	}
	return &Result{LatestVersion: latest}
}
