// Package cli provides the fetch command.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/shiplift/shiplift/internal/progress"
	"github.com/shiplift/shiplift/internal/release"
)

// newFetchCmd creates the 'fetch' command.
func newFetchCmd() *cobra.Command {
	var repo string
	var pattern string
	var outputDir string
	var prerelease bool
	var first bool

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download the latest release asset to a local directory",
		Long: `Resolve the latest published release of a repository, pick the single
asset whose name matches the glob pattern, and download it into a local
directory under its asset name.

The download streams into a .partial file and renames it into place on
success, so an interrupted fetch never leaves a truncated file under the
final name.

Examples:
  # Fetch the latest linux binary into the current directory
  shiplift fetch --repo acme/tool --pattern 'tool_linux_amd64'

  # Fetch the latest tarball into ./dist
  shiplift fetch --repo acme/tool --pattern '*.tar.gz' --outdir ./dist`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := GetLogger()
			ctx := GetContext()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			owner, name, err := release.SplitRepository(repo)
			if err != nil {
				return err
			}

			httpClient, err := newHTTPClient(cfg)
			if err != nil {
				return err
			}

			// Metadata calls retry here; a fetch onto a host is not a
			// deployment step that must fail fast.
			forge, err := newForgeClient(cfg, httpClient, true)
			if err != nil {
				return fmt.Errorf("failed to create forge client: %w", err)
			}

			rel, err := forge.Latest(ctx, owner, name, prerelease)
			if err != nil {
				return err
			}

			asset, err := release.MatchAsset(rel.Assets, pattern, first)
			if err != nil {
				return err
			}

			body, err := forge.Download(ctx, owner, name, asset)
			if err != nil {
				return err
			}
			defer body.Close()

			if err := os.MkdirAll(outputDir, 0755); err != nil {
				return fmt.Errorf("create output directory %s: %w", outputDir, err)
			}

			dest := filepath.Join(outputDir, asset.Name)
			if err := writeFileAtomic(dest, body, asset.Size); err != nil {
				return err
			}

			log.Info().
				Str("tag", rel.TagName).
				Str("path", dest).
				Int64("bytes", asset.Size).
				Msg("fetched release asset")
			return nil
		},
	}

	cmd.Flags().StringVar(&repo, "repo", "", "Source repository as owner/name (required)")
	cmd.Flags().StringVar(&pattern, "pattern", "", "Glob pattern the asset name must match (required)")
	cmd.Flags().StringVarP(&outputDir, "outdir", "o", ".", "Output directory for the downloaded asset")
	cmd.Flags().BoolVar(&prerelease, "prerelease", false, "Consider prereleases when resolving the latest release")
	cmd.Flags().BoolVar(&first, "first", false, "On an ambiguous pattern, fetch the lexicographically first match")

	_ = cmd.MarkFlagRequired("repo")
	_ = cmd.MarkFlagRequired("pattern")

	return cmd
}

// writeFileAtomic streams body into dest via a .partial sibling and renames
// it into place. size feeds the progress bar; -1 renders a spinner.
func writeFileAtomic(dest string, body io.Reader, size int64) error {
	tmp := dest + ".partial"
	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}

	reporter := progress.NewAuto()
	reporter.Start(size, filepath.Base(dest))
	_, err = io.Copy(file, progress.NewReader(body, reporter))
	reporter.Finish()

	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write %s: %w", dest, err)
	}

	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("finalize %s: %w", dest, err)
	}
	return nil
}
