// Package deploy implements the latest-release-to-storage operation:
// resolve the newest published release of a repository, select the single
// asset matching a glob pattern, and copy its bytes unchanged into object
// storage.
package deploy

import (
	"context"
	"fmt"
	"io"

	"github.com/shiplift/shiplift/internal/cloud/storage"
	"github.com/shiplift/shiplift/internal/logging"
	"github.com/shiplift/shiplift/internal/progress"
	"github.com/shiplift/shiplift/internal/release"
)

// ReleaseSource resolves releases and streams asset content. Satisfied by
// release.Client.
type ReleaseSource interface {
	Latest(ctx context.Context, owner, name string, includePrerelease bool) (*release.Release, error)
	Download(ctx context.Context, owner, name string, asset release.Asset) (io.ReadCloser, error)
}

// Request describes one deployment.
type Request struct {
	// Owner and Name identify the source repository.
	Owner string
	Name  string
	// Pattern is the shell-style glob the asset name must match.
	Pattern string
	// Prefix is the key prefix under the bucket root; empty means the
	// bucket root. The final key is Prefix joined with the asset name.
	Prefix string
	// IncludePrerelease widens "latest" to the newest non-draft release
	// including prereleases.
	IncludePrerelease bool
	// PickFirst resolves an ambiguous pattern to the lexicographically
	// first match instead of failing.
	PickFirst bool
}

// Result reports what was deployed.
type Result struct {
	Tag   string
	Asset string
	Key   string
	Size  int64
}

// Deployer runs deployments against a release source and an object store.
//
// The operation is strictly sequential and single-shot: resolve, match,
// download, upload, each step blocking and unretried. A failure at any step
// terminates the invocation; a failed upload after a successful download
// leaves no partial state to compensate for, since Put overwrites
// atomically at the key.
type Deployer struct {
	source   ReleaseSource
	store    storage.ObjectStore
	log      *logging.Logger
	reporter progress.Reporter
}

// New creates a Deployer. reporter may be nil to disable progress output.
func New(source ReleaseSource, store storage.ObjectStore, log *logging.Logger, reporter progress.Reporter) *Deployer {
	if reporter == nil {
		reporter = progress.Discard{}
	}
	return &Deployer{
		source:   source,
		store:    store,
		log:      log,
		reporter: reporter,
	}
}

// Deploy performs one deployment. The uploaded object is byte-identical to
// the release asset; re-running with identical inputs overwrites the same
// key with the same bytes.
func (d *Deployer) Deploy(ctx context.Context, req Request) (*Result, error) {
	rel, err := d.source.Latest(ctx, req.Owner, req.Name, req.IncludePrerelease)
	if err != nil {
		return nil, err
	}
	d.log.Debug().
		Str("repo", req.Owner+"/"+req.Name).
		Str("tag", rel.TagName).
		Int("assets", len(rel.Assets)).
		Msg("resolved latest release")

	asset, err := release.MatchAsset(rel.Assets, req.Pattern, req.PickFirst)
	if err != nil {
		return nil, err
	}

	body, err := d.source.Download(ctx, req.Owner, req.Name, asset)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	key := storage.JoinKey(req.Prefix, asset.Name)
	d.log.Info().
		Str("asset", asset.Name).
		Str("key", key).
		Int64("bytes", asset.Size).
		Msg("uploading release asset")

	d.reporter.Start(asset.Size, asset.Name)
	err = d.store.Put(ctx, key, progress.NewReader(body, d.reporter), asset.Size, asset.ContentType)
	d.reporter.Finish()
	if err != nil {
		if storage.IsCredentialError(err) {
			return nil, fmt.Errorf("%w: %w", storage.ErrAuthentication, err)
		}
		if storage.IsNetworkError(err) {
			return nil, fmt.Errorf("storage endpoint unreachable: %w", err)
		}
		return nil, err
	}

	return &Result{
		Tag:   rel.TagName,
		Asset: asset.Name,
		Key:   key,
		Size:  asset.Size,
	}, nil
}
