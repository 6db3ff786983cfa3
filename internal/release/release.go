// Package release resolves releases and assets on a GitHub-compatible forge.
//
// A Release is a tagged, published snapshot with zero or more binary assets;
// resolution always targets the latest release, optionally widened to include
// prereleases. Nothing here is persisted between invocations.
package release

import (
	"fmt"
	"strings"
	"time"
)

// Release describes a published release and its downloadable assets.
type Release struct {
	TagName     string
	Name        string
	Prerelease  bool
	PublishedAt time.Time
	Assets      []Asset
}

// Asset describes a named binary attached to a release.
type Asset struct {
	ID          int64
	Name        string
	Size        int64
	ContentType string
	DownloadURL string
}

// SplitRepository splits an "owner/name" reference. The reference must
// contain exactly one separating slash with non-empty halves.
func SplitRepository(repo string) (owner, name string, err error) {
	parts := strings.Split(repo, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository %q: expected owner/name", repo)
	}
	return parts[0], parts[1], nil
}
