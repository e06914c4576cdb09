package cli

import (
	"fmt"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/blockshuffle/internal/config"
)

// configCommand prints the configuration the other commands would use.
func (c *CLI) configCommand() *cobra.Command {
	var asTOML bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if asTOML {
				return toml.NewEncoder(cmd.OutOrStdout()).Encode(c.Config)
			}
			c.printConfig()
			return nil
		},
	}

	cmd.Flags().BoolVar(&asTOML, "toml", false, "print as TOML, usable as a config file")

	return cmd
}

func (c *CLI) printConfig() {
	source := "built-in defaults"
	if c.configPath != "" {
		source = c.configPath
	} else if p, ok := config.DefaultPath(); ok {
		source = p
	}

	cfg := c.Config
	fmt.Println(StyleTitle.Render("Configuration") + " " + StyleDim.Render(source))
	printKeyValue("grid", fmt.Sprintf("%dx%d", cfg.Grid.Cols, cfg.Grid.Rows))
	printKeyValue("seed", seedString(cfg.Shuffle.Seed))
	printKeyValue("checkpoint", strconv.Itoa(cfg.Shuffle.Checkpoint))
	printKeyValue("mosaic", fmt.Sprintf("dx=%d dy=%d", cfg.Mosaic.DX, cfg.Mosaic.DY))
	printKeyValue("play.fps", strconv.Itoa(cfg.Play.FPS))
	printKeyValue("play.pause", cfg.Play.Pause.String())
	printKeyValue("play.resolve", cfg.Play.Resolve)
	printKeyValue("play.bg", cfg.Play.Background)
}

func seedString(seed uint64) string {
	if seed == 0 {
		return "random"
	}
	return strconv.FormatUint(seed, 10)
}
