package release

import (
	"context"
	"fmt"
	nethttp "net/http"
	"os"
	"path/filepath"

	"github.com/google/go-github/v66/github"
)

// PublishOptions describes a release to create.
type PublishOptions struct {
	Tag             string
	TargetCommitish string
	Title           string
	Notes           string
	Draft           bool
	Prerelease      bool
}

// Publish creates a release for the tag and attaches the given asset files.
//
// If a release already exists for the tag (the forge answers 422), it is
// reused and the assets are attached to it, so re-running a failed CI step
// does not require deleting the release first. Asset uploads themselves are
// not idempotent: the forge rejects duplicate asset names.
func (c *Client) Publish(ctx context.Context, owner, name string, opts PublishOptions, assetPaths []string) (*Release, error) {
	if opts.Tag == "" {
		return nil, fmt.Errorf("release tag must not be empty")
	}

	title := opts.Title
	if title == "" {
		title = opts.Tag
	}

	rel, resp, err := c.gh.Repositories.CreateRelease(ctx, owner, name, &github.RepositoryRelease{
		TagName:         github.String(opts.Tag),
		TargetCommitish: emptyAsNil(opts.TargetCommitish),
		Name:            github.String(title),
		Body:            emptyAsNil(opts.Notes),
		Draft:           github.Bool(opts.Draft),
		Prerelease:      github.Bool(opts.Prerelease),
	})
	if err != nil {
		if resp == nil || resp.StatusCode != nethttp.StatusUnprocessableEntity {
			return nil, fmt.Errorf("create release %s in %s/%s: %w", opts.Tag, owner, name, err)
		}
		// Tag already has a release; attach to it instead.
		rel, _, err = c.gh.Repositories.GetReleaseByTag(ctx, owner, name, opts.Tag)
		if err != nil {
			return nil, fmt.Errorf("release for tag %s exists but cannot be fetched: %w", opts.Tag, err)
		}
	}

	for _, assetPath := range assetPaths {
		if err := c.uploadAsset(ctx, owner, name, rel.GetID(), assetPath); err != nil {
			return nil, err
		}
	}

	// Re-fetch so the returned release reflects the uploaded assets.
	final, _, err := c.gh.Repositories.GetRelease(ctx, owner, name, rel.GetID())
	if err != nil {
		return fromGitHub(rel), nil
	}
	return fromGitHub(final), nil
}

func (c *Client) uploadAsset(ctx context.Context, owner, name string, releaseID int64, assetPath string) error {
	file, err := os.Open(assetPath)
	if err != nil {
		return fmt.Errorf("open asset %s: %w", assetPath, err)
	}
	defer file.Close()

	_, _, err = c.gh.Repositories.UploadReleaseAsset(ctx, owner, name, releaseID, &github.UploadOptions{
		Name: filepath.Base(assetPath),
	}, file)
	if err != nil {
		return fmt.Errorf("upload asset %s: %w", filepath.Base(assetPath), err)
	}
	return nil
}

func emptyAsNil(s string) *string {
	if s == "" {
		return nil
	}
	return github.String(s)
}
