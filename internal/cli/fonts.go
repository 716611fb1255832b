package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cyzmcl/Lunarian/pkg/pipeline"
)

// fontsCommand creates the fonts command group.
func (c *CLI) fontsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fonts",
		Short: "Inspect the font registry",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List font families and whether their files load",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			reg := pipeline.NewFonts(cfg.Fonts, c.Logger)
			printKeyValue("Directory", reg.Dir())
			fmt.Fprintln(out, fontTable(reg.Families()))
			return nil
		},
	})
	return cmd
}
