package release

import (
	"context"
	"fmt"
	"io"
	nethttp "net/http"

	"github.com/google/go-github/v66/github"

	"github.com/shiplift/shiplift/internal/constants"
	"github.com/shiplift/shiplift/internal/version"
)

// Client talks to the forge's release API via go-github.
type Client struct {
	gh *github.Client
	// download performs the asset content fetch after the API hands us a
	// redirect to the CDN. Kept separate from the API client so callers
	// decide whether downloads retry.
	download *nethttp.Client
}

// ClientOptions configures a release Client.
type ClientOptions struct {
	// APIClient handles release metadata calls. nil uses http.DefaultClient.
	APIClient *nethttp.Client
	// DownloadClient handles asset content transfer. nil falls back to
	// APIClient.
	DownloadClient *nethttp.Client
	// Token authenticates requests. Empty is valid for public repositories
	// but subject to unauthenticated rate limits.
	Token string
	// BaseURL points at a GitHub Enterprise instance. Empty means
	// github.com.
	BaseURL string
}

// NewClient creates a release client.
func NewClient(opts ClientOptions) (*Client, error) {
	gh := github.NewClient(opts.APIClient)
	gh.UserAgent = constants.UserAgent + "/" + version.Version
	if opts.BaseURL != "" {
		var err error
		gh, err = gh.WithEnterpriseURLs(opts.BaseURL, opts.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("configure forge URL %s: %w", opts.BaseURL, err)
		}
	}
	if opts.Token != "" {
		gh = gh.WithAuthToken(opts.Token)
	}

	download := opts.DownloadClient
	if download == nil {
		download = opts.APIClient
	}
	if download == nil {
		download = nethttp.DefaultClient
	}

	return &Client{gh: gh, download: download}, nil
}

// Latest resolves the repository's most recent published release.
//
// The default mode follows the forge's releases/latest semantics: published,
// non-draft, non-prerelease. With includePrerelease the newest non-draft
// release wins, prerelease or not.
//
// Returns ErrRepositoryNotFound or ErrNoReleaseFound (wrapped) when the
// repository or release is missing; the forge reports both as 404 on the
// latest-release endpoint, so a repository probe disambiguates.
func (c *Client) Latest(ctx context.Context, owner, name string, includePrerelease bool) (*Release, error) {
	if includePrerelease {
		return c.latestIncludingPrereleases(ctx, owner, name)
	}

	rel, resp, err := c.gh.Repositories.GetLatestRelease(ctx, owner, name)
	if err != nil {
		if isNotFound(resp) {
			return nil, c.classifyNotFound(ctx, owner, name)
		}
		return nil, fmt.Errorf("query latest release of %s/%s: %w", owner, name, err)
	}
	return fromGitHub(rel), nil
}

// latestIncludingPrereleases picks the newest non-draft release from the
// list endpoint, which returns releases in reverse chronological order.
func (c *Client) latestIncludingPrereleases(ctx context.Context, owner, name string) (*Release, error) {
	rels, resp, err := c.gh.Repositories.ListReleases(ctx, owner, name, &github.ListOptions{PerPage: 30})
	if err != nil {
		if isNotFound(resp) {
			return nil, fmt.Errorf("%s/%s: %w", owner, name, ErrRepositoryNotFound)
		}
		return nil, fmt.Errorf("list releases of %s/%s: %w", owner, name, err)
	}

	for _, rel := range rels {
		if rel.GetDraft() {
			continue
		}
		return fromGitHub(rel), nil
	}
	return nil, fmt.Errorf("%s/%s: %w", owner, name, ErrNoReleaseFound)
}

// Download opens a stream of the asset's binary content. The caller owns the
// returned ReadCloser. Content passes through unchanged; the bytes read are
// exactly the bytes the release holds.
func (c *Client) Download(ctx context.Context, owner, name string, asset Asset) (io.ReadCloser, error) {
	rc, redirectURL, err := c.gh.Repositories.DownloadReleaseAsset(ctx, owner, name, asset.ID, c.download)
	if err != nil {
		return nil, fmt.Errorf("download asset %s: %w", asset.Name, err)
	}
	if rc != nil {
		return rc, nil
	}

	// The API declined to follow the redirect for us.
	req, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodGet, redirectURL, nil)
	if err != nil {
		return nil, fmt.Errorf("download asset %s: %w", asset.Name, err)
	}
	resp, err := c.download.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download asset %s: %w", asset.Name, err)
	}
	if resp.StatusCode != nethttp.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("download asset %s: unexpected status %d", asset.Name, resp.StatusCode)
	}
	return resp.Body, nil
}

// classifyNotFound distinguishes a missing repository from a repository
// with no releases.
func (c *Client) classifyNotFound(ctx context.Context, owner, name string) error {
	_, resp, err := c.gh.Repositories.Get(ctx, owner, name)
	if err != nil {
		if isNotFound(resp) {
			return fmt.Errorf("%s/%s: %w", owner, name, ErrRepositoryNotFound)
		}
		return fmt.Errorf("query repository %s/%s: %w", owner, name, err)
	}
	return fmt.Errorf("%s/%s: %w", owner, name, ErrNoReleaseFound)
}

func isNotFound(resp *github.Response) bool {
	return resp != nil && resp.StatusCode == nethttp.StatusNotFound
}

func fromGitHub(rel *github.RepositoryRelease) *Release {
	out := &Release{
		TagName:     rel.GetTagName(),
		Name:        rel.GetName(),
		Prerelease:  rel.GetPrerelease(),
		PublishedAt: rel.GetPublishedAt().Time,
	}
	for _, asset := range rel.Assets {
		out.Assets = append(out.Assets, Asset{
			ID:          asset.GetID(),
			Name:        asset.GetName(),
			Size:        int64(asset.GetSize()),
			ContentType: asset.GetContentType(),
			DownloadURL: asset.GetBrowserDownloadURL(),
		})
	}
	return out
}
