package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/blockshuffle/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
// The configuration file is loaded before any subcommand runs.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Blockshuffle slices images into blocks and shuffles them",
		Long:          `Blockshuffle slices an image into a grid of blocks, scrambles the grid and resolves it again, writing the results as images, cycle diagrams or a terminal animation.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/blockshuffle/config.toml)")

	root.AddCommand(c.rebuildCommand())
	root.AddCommand(c.scrambleCommand())
	root.AddCommand(c.unscrambleCommand())
	root.AddCommand(c.mosaicCommand())
	root.AddCommand(c.cyclesCommand())
	root.AddCommand(c.playCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}
