package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cyzmcl/Lunarian/pkg/errors"
	"github.com/cyzmcl/Lunarian/pkg/history"
)

// historyCommand lists recent generations from the MongoDB history store.
func (c *CLI) historyCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent generations",
		Long:  "Show recent generations. Requires history.mongo_uri or MONGO_URI.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if !cfg.History.Enabled() {
				return errors.New(errors.ErrCodeStore, "history is not configured; set history.mongo_uri")
			}

			store, err := history.NewMongoStore(ctx, history.MongoConfig{
				URI:        cfg.History.MongoURI,
				Database:   cfg.History.Database,
				Collection: cfg.History.Collection,
			})
			if err != nil {
				return err
			}
			defer func() {
				if err := store.Close(ctx); err != nil {
					c.Logger.Warn("close history", "err", err)
				}
			}()

			recs, err := store.Recent(ctx, limit)
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				printInfo("No generations recorded")
				return nil
			}
			fmt.Fprintln(out, historyTable(recs))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of records to show")
	return cmd
}
