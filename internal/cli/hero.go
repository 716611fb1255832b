package cli

import (
	"github.com/spf13/cobra"

	"github.com/cyzmcl/Lunarian/pkg/ad"
	"github.com/cyzmcl/Lunarian/pkg/hero"
	lio "github.com/cyzmcl/Lunarian/pkg/io"
)

// heroCommand creates the hero command group.
func (c *CLI) heroCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hero",
		Short: "Inspect hero subject detection",
	}
	cmd.AddCommand(c.heroDebugCommand())
	return cmd
}

// heroDebugCommand draws the located hero box onto the source image.
func (c *CLI) heroDebugCommand() *cobra.Command {
	var (
		source  string
		seed    string
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "debug",
		Short: "Draw the detected hero box onto a source image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			src, err := lio.ReadImageFile(source)
			if err != nil {
				return err
			}
			var hint *ad.SeedBox
			if seed != "" {
				if hint, err = parseHeroFlag(seed); err != nil {
					return err
				}
			}

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, cfg, noCache)
			if err != nil {
				return err
			}
			defer c.closeRunner(runner)

			box := runner.LocateHero(ctx, src, hint)
			data, err := lio.EncodePNG(hero.Visualize(src, box))
			if err != nil {
				return err
			}
			if err := lio.ExportFile(data, output); err != nil {
				return err
			}

			if box != nil {
				printSuccess("Hero %s", box)
			} else {
				printWarning("No hero found")
			}
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "source image file")
	cmd.Flags().StringVar(&seed, "hero", "", "hero hint as x,y,w,h")
	cmd.Flags().StringVarP(&output, "output", "o", "hero_debug.png", "output PNG path")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	_ = cmd.MarkFlagRequired("source")

	return cmd
}
