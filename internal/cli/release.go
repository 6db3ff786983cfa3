// Package cli provides the release command group.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shiplift/shiplift/internal/release"
)

// newReleaseCmd creates the 'release' command group.
func newReleaseCmd() *cobra.Command {
	releaseCmd := &cobra.Command{
		Use:   "release",
		Short: "Release operations (create)",
		Long:  `Commands for publishing releases on the forge.`,
	}

	releaseCmd.AddCommand(newReleaseCreateCmd())

	return releaseCmd
}

// newReleaseCreateCmd creates the 'release create' command.
func newReleaseCreateCmd() *cobra.Command {
	var repo string
	var tag string
	var target string
	var title string
	var notes string
	var notesFile string
	var draft bool
	var prerelease bool

	cmd := &cobra.Command{
		Use:   "create [asset...]",
		Short: "Create a release and attach asset files",
		Long: `Create a release for a tag and upload the given files as assets.

If the tag already has a release, the assets are attached to it instead,
so a failed CI publish step can be re-run. The forge rejects duplicate
asset names on the same release.

Examples:
  # Publish v1.2.0 with two assets
  shiplift release create --repo acme/tool --tag v1.2.0 dist/tool_linux_amd64 dist/tool_darwin_arm64

  # Draft a prerelease with notes from a file
  shiplift release create --repo acme/tool --tag v1.3.0-rc1 --prerelease --draft --notes-file CHANGES.md`,
		Args: cobra.ArbitraryArgs,
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

			if notes != "" && notesFile != "" {
				return fmt.Errorf("only one of --notes and --notes-file can be specified")
			}
			if notesFile != "" {
				data, err := os.ReadFile(notesFile)
				if err != nil {
					return fmt.Errorf("read notes file: %w", err)
				}
				notes = string(data)
			}

			httpClient, err := newHTTPClient(cfg)
			if err != nil {
				return err
			}

			forge, err := newForgeClient(cfg, httpClient, true)
			if err != nil {
				return fmt.Errorf("failed to create forge client: %w", err)
			}

			rel, err := forge.Publish(ctx, owner, name, release.PublishOptions{
				Tag:             tag,
				TargetCommitish: target,
				Title:           title,
				Notes:           notes,
				Draft:           draft,
				Prerelease:      prerelease,
			}, args)
			if err != nil {
				return err
			}

			log.Info().
				Str("tag", rel.TagName).
				Str("name", rel.Name).
				Int("assets", len(rel.Assets)).
				Msg("release published")
			return nil
		},
	}

	cmd.Flags().StringVar(&repo, "repo", "", "Target repository as owner/name (required)")
	cmd.Flags().StringVar(&tag, "tag", "", "Release tag (required)")
	cmd.Flags().StringVar(&target, "target", "", "Commitish the tag points at if it does not exist yet")
	cmd.Flags().StringVar(&title, "title", "", "Release title (default: the tag)")
	cmd.Flags().StringVar(&notes, "notes", "", "Release notes body")
	cmd.Flags().StringVar(&notesFile, "notes-file", "", "Read release notes from a file")
	cmd.Flags().BoolVar(&draft, "draft", false, "Create the release as a draft")
	cmd.Flags().BoolVar(&prerelease, "prerelease", false, "Mark the release as a prerelease")

	_ = cmd.MarkFlagRequired("repo")
	_ = cmd.MarkFlagRequired("tag")

	return cmd
}
