package util

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/dixieflatline76/Carve/config"
	"github.com/google/go-github/v63/github"
	"golang.org/x/mod/semver"
)

// CheckForUpdatesResult holds the outcome of the update check.
type CheckForUpdatesResult struct {
	UpdateAvailable bool
	CurrentVersion  string
	LatestVersion   string
	ReleaseURL      string
	ReleaseNotes    string
}

// CheckForUpdates polls GitHub for the latest stable release and compares it
// with config.AppVersion. A nil httpClient uses http.DefaultClient.
func CheckForUpdates(ctx context.Context, httpClient *http.Client) (*CheckForUpdatesResult, error) {
	client := github.NewClient(httpClient)

	release, _, err := client.Repositories.GetLatestRelease(ctx, config.RepoOwner, config.RepoName)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest GitHub release: %w", err)
	}

	current := CanonicalVersion(config.AppVersion)
	latest := CanonicalVersion(release.GetTagName())

	return &CheckForUpdatesResult{
		UpdateAvailable: IsNewer(latest, current),
		CurrentVersion:  current,
		LatestVersion:   latest,
		ReleaseURL:      release.GetHTMLURL(),
		ReleaseNotes:    release.GetBody(),
	}, nil
}

// CanonicalVersion prefixes v to a version so semver can compare it.
func CanonicalVersion(version string) string {
	version = strings.TrimSpace(version)
	if !strings.HasPrefix(version, "v") {
		version = "v" + version
	}
	return version
}

// IsNewer reports whether candidate is a later semantic version than current.
// Invalid versions never count as newer.
func IsNewer(candidate, current string) bool {
	candidate, current = CanonicalVersion(candidate), CanonicalVersion(current)
	if !semver.IsValid(candidate) {
		return false
	}
	return semver.Compare(candidate, current) > 0
}
