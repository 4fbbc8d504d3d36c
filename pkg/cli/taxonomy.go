package cli

import (
	"context"
	"fmt"

	"github.com/dinver-app/dinver-sub005/pkg/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func taxonomyCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:  "taxonomy",
		Usage: "Dump the taxonomy tables",
		Flags: globalFlags(&cfg),
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = setupLogging(ctx, &cfg)

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = repo.Close() }()

			set, err := repo.Taxonomies(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to load taxonomies")
			}

			for _, dim := range model.Dimensions() {
				fmt.Fprintf(c.Root().Writer, "%s:\n", dim)
				for _, e := range set.Entries(dim) {
					fmt.Fprintf(c.Root().Writer, "  %d\t%s\t%s\n", e.ID, e.NameHR, e.NameEN)
				}
			}
			return nil
		},
	}
}
