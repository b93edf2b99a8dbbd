package cmd

import (
	"context"

	"github.com/compozy/create-app-tag/internal/domain"
	"github.com/compozy/create-app-tag/internal/orchestrator"
	"github.com/spf13/cobra"
)

var rootCmd *cobra.Command

// NewRootCmd creates the create-app-tag command.
func NewRootCmd() *cobra.Command {
	var (
		bumpPatch bool
		bumpMinor bool
	)
	cmd := &cobra.Command{
		Use:   "create-app-tag (--minor | --major) <repo>...",
		Short: "Create Git tags across multiple repositories",
		Long: `create-app-tag bumps and pushes version tags across local repositories.

For every repository path, in the order given, it:
- Skips the path unless it contains a .git directory
- Reads the highest v<major>.<minor>.<patch> tag
- Computes the next tag
- Creates the tag and pushes it to origin

Note the flag naming: --minor increments the patch component and --major
increments the minor component. The major component is never incremented.

A repository without tags, a malformed latest tag or any failed git command
stops the whole run; repositories after it are not processed.`,
		Args:          cobra.MinimumNArgs(1),
		Version:       versionString(),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Usage problems are reported by cobra before RunE; from here on only
			// runtime errors remain.
			cmd.SilenceUsage = true
			mode := domain.BumpMinor
			if bumpPatch {
				mode = domain.BumpPatch
			}
			c, err := newContainer(cmd.Flags(), cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer c.close()
			_, err = c.tagReleaseOrchestrator().Execute(cmd.Context(), orchestrator.TagReleaseConfig{
				Repositories: args,
				Mode:         mode,
			})
			return err
		},
	}
	cmd.SetVersionTemplate(versionTemplate)

	cmd.Flags().BoolVar(&bumpPatch, "minor", false, domain.BumpPatch.Describe())
	cmd.Flags().BoolVar(&bumpMinor, "major", false, domain.BumpMinor.Describe())
	cmd.MarkFlagsMutuallyExclusive("minor", "major")
	cmd.MarkFlagsOneRequired("minor", "major")

	cmd.Flags().String("remote", "", "Remote to push tags to (default \"origin\")")
	cmd.Flags().String("backend", "", "Git backend: git or go-git (default \"git\")")
	cmd.Flags().String("log-level", "", "Diagnostic log level: debug, info, warn, error (default \"warn\")")
	return cmd
}

// InitCommands initializes the root command.
func InitCommands() error {
	rootCmd = NewRootCmd()
	return nil
}

func Execute(ctx context.Context) error {
	if rootCmd == nil {
		if err := InitCommands(); err != nil {
			return err
		}
	}
	return rootCmd.ExecuteContext(ctx)
}
