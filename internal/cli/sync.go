// Package cli provides the sync command.
package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/spf13/cobra"

	"github.com/shiplift/shiplift/internal/constants"
	"github.com/shiplift/shiplift/internal/progress"
	"github.com/shiplift/shiplift/internal/syncer"
)

// newSyncCmd creates the 'sync' command.
func newSyncCmd() *cobra.Command {
	var subfolder string
	var workers int
	storageOpts := &storageFlags{}

	cmd := &cobra.Command{
		Use:   "sync <directory>",
		Short: "Upload a directory tree into a storage prefix",
		Long: `Walk a local directory and upload every regular file into the bucket,
mapping relative paths to keys under the subfolder prefix. Uploads run
concurrently; the first failure cancels the remaining work.

Examples:
  # Mirror a static site build into a bucket prefix
  shiplift sync ./public --bucket www --subfolder site

  # Push build artifacts with more parallelism
  shiplift sync ./dist --bucket artifacts --subfolder nightly --workers 8`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := GetLogger()
			ctx := GetContext()

			if workers < 1 || workers > constants.MaxSyncWorkers {
				return fmt.Errorf("--workers must be between 1 and %d, got %d",
					constants.MaxSyncWorkers, workers)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			httpClient, err := newHTTPClient(cfg)
			if err != nil {
				return err
			}

			store, target, err := storageOpts.buildStore(ctx, cfg, httpClient)
			if err != nil {
				return err
			}

			items, err := syncer.Plan(args[0], subfolder)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				log.Warn().Str("dir", args[0]).Msg("nothing to upload")
				return nil
			}

			ui := progress.NewTransferUI()
			uploader := &syncer.Uploader{
				Store:    store,
				Log:      log,
				Workers:  workers,
				Progress: &syncProgress{ui: ui},
			}

			err = uploader.Run(ctx, items)
			ui.Wait()
			if err != nil {
				return err
			}

			var total int64
			for _, item := range items {
				total += item.Size
			}
			log.Info().
				Int("files", len(items)).
				Int64("bytes", total).
				Str("target", target).
				Msg("sync complete")
			return nil
		},
	}

	cmd.Flags().StringVar(&subfolder, "subfolder", "", "Key prefix under the bucket root (default: bucket root)")
	cmd.Flags().IntVar(&workers, "workers", constants.DefaultSyncWorkers,
		fmt.Sprintf("Concurrent uploads (1-%d)", constants.MaxSyncWorkers))
	storageOpts.register(cmd)

	return cmd
}

// syncProgress adapts the multi-bar transfer UI to the uploader's hooks.
type syncProgress struct {
	ui   *progress.TransferUI
	bars sync.Map // local path -> *progress.TransferBar
}

func (p *syncProgress) Start(item syncer.Item, body io.Reader) io.Reader {
	bar := p.ui.AddBar(item.Key, item.Size)
	p.bars.Store(item.LocalPath, bar)
	return bar.Reader(body)
}

func (p *syncProgress) Done(item syncer.Item, err error) {
	if bar, ok := p.bars.Load(item.LocalPath); ok {
		bar.(*progress.TransferBar).Done(err)
	}
}
