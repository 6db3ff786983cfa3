// Package syncer uploads a local directory tree into an object storage
// prefix, mirroring relative paths into keys.
package syncer

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"sync"

	"github.com/shiplift/shiplift/internal/cloud/storage"
	"github.com/shiplift/shiplift/internal/constants"
	"github.com/shiplift/shiplift/internal/logging"
)

// Item is one file scheduled for upload.
type Item struct {
	LocalPath string
	Key       string
	Size      int64
}

// Plan walks root and maps every regular file to its destination key:
// the file's slash-separated path relative to root, joined under prefix.
// The returned items are in lexical walk order, so plans are deterministic.
func Plan(root, prefix string) ([]Item, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat sync root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("sync root %s is not a directory", root)
	}

	var items []Item
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			// Sockets, device nodes, and symlinks are skipped; a build
			// output directory should not contain them, and following
			// symlinks risks escaping root.
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		fileInfo, err := d.Info()
		if err != nil {
			return err
		}

		items = append(items, Item{
			LocalPath: path,
			Key:       storage.JoinKey(prefix, filepath.ToSlash(rel)),
			Size:      fileInfo.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	return items, nil
}

// Progress receives per-item transfer events. Start may wrap the body to
// observe bytes in flight; Done is called exactly once per started item.
// Both are called from uploading goroutines and must be safe for
// concurrent use.
type Progress interface {
	Start(item Item, body io.Reader) io.Reader
	Done(item Item, err error)
}

// Uploader pushes planned items to an object store with bounded
// concurrency.
type Uploader struct {
	Store    storage.ObjectStore
	Log      *logging.Logger
	Workers  int
	Progress Progress // nil disables progress reporting
}

// Run uploads all items. The first failure cancels the remaining work and
// is returned; already-started uploads finish or fail on their own.
func (u *Uploader) Run(ctx context.Context, items []Item) error {
	workers := u.Workers
	if workers < 1 {
		workers = constants.DefaultSyncWorkers
	}
	if workers > constants.MaxSyncWorkers {
		workers = constants.MaxSyncWorkers
	}
	if workers > len(items) {
		workers = len(items)
	}
	if workers == 0 {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan Item)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
		mu.Unlock()
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range jobs {
				if ctx.Err() != nil {
					continue
				}
				if err := u.uploadOne(ctx, item); err != nil {
					fail(fmt.Errorf("upload %s: %w", item.Key, err))
				}
			}
		}()
	}

feed:
	for _, item := range items {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- item:
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	return ctx.Err()
}

func (u *Uploader) uploadOne(ctx context.Context, item Item) error {
	file, err := os.Open(item.LocalPath)
	if err != nil {
		return err
	}
	defer file.Close()

	var body io.Reader = file
	if u.Progress != nil {
		body = u.Progress.Start(item, file)
	}

	contentType := mime.TypeByExtension(filepath.Ext(item.LocalPath))
	err = u.Store.Put(ctx, item.Key, body, item.Size, contentType)
	if u.Progress != nil {
		u.Progress.Done(item, err)
	}
	if err != nil {
		return err
	}

	if u.Log != nil {
		u.Log.Debug().Str("key", item.Key).Int64("bytes", item.Size).Msg("uploaded")
	}
	return nil
}
