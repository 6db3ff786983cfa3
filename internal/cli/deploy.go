// Package cli provides the deploy command.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shiplift/shiplift/internal/deploy"
	"github.com/shiplift/shiplift/internal/progress"
	"github.com/shiplift/shiplift/internal/release"
)

// newDeployCmd creates the 'deploy' command.
func newDeployCmd() *cobra.Command {
	var repo string
	var pattern string
	var subfolder string
	var prerelease bool
	var first bool
	storageOpts := &storageFlags{}

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Copy the latest release asset into object storage",
		Long: `Resolve the latest published release of a repository, pick the single
asset whose name matches the glob pattern, and upload its bytes unchanged
to {bucket}/{subfolder}/{assetName}.

The operation is single-shot: no retries, no partial-failure cleanup.
Re-running with identical inputs overwrites the same key with the same
bytes, so a failed CI step can simply be re-run.

A pattern matching more than one asset is an error unless --first is
given, in which case the lexicographically first match ships.

Examples:
  # Ship the latest release tarball to the stable channel
  shiplift deploy --repo acme/tool --pattern '*.tar.gz' --bucket releases --subfolder stable

  # Ship to the bucket root, taking the newest prerelease too
  shiplift deploy --repo acme/tool --pattern '*.zip' --bucket releases --prerelease

  # Ship to an Azure container instead
  shiplift deploy --repo acme/tool --pattern '*.deb' --provider azure --bucket releases --azure-account acmestore --azure-key ...`,
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

			forge, err := newForgeClient(cfg, httpClient, false)
			if err != nil {
				return fmt.Errorf("failed to create forge client: %w", err)
			}

			store, target, err := storageOpts.buildStore(ctx, cfg, httpClient)
			if err != nil {
				return err
			}

			deployer := deploy.New(forge, store, log, progress.NewAuto())
			result, err := deployer.Deploy(ctx, deploy.Request{
				Owner:             owner,
				Name:              name,
				Pattern:           pattern,
				Prefix:            subfolder,
				IncludePrerelease: prerelease,
				PickFirst:         first,
			})
			if err != nil {
				return err
			}

			log.Info().
				Str("tag", result.Tag).
				Str("asset", result.Asset).
				Str("target", target+"/"+result.Key).
				Int64("bytes", result.Size).
				Msg("deployed")
			return nil
		},
	}

	cmd.Flags().StringVar(&repo, "repo", "", "Source repository as owner/name (required)")
	cmd.Flags().StringVar(&pattern, "pattern", "", "Glob pattern the asset name must match (required)")
	cmd.Flags().StringVar(&subfolder, "subfolder", "", "Key prefix under the bucket root (default: bucket root)")
	cmd.Flags().BoolVar(&prerelease, "prerelease", false, "Consider prereleases when resolving the latest release")
	cmd.Flags().BoolVar(&first, "first", false, "On an ambiguous pattern, ship the lexicographically first match")
	storageOpts.register(cmd)

	_ = cmd.MarkFlagRequired("repo")
	_ = cmd.MarkFlagRequired("pattern")

	return cmd
}
