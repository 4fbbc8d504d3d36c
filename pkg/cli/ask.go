package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dinver-app/dinver-sub005/pkg/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func askCommand() *cli.Command {
	var (
		cfg      config
		lat      float64
		lng      float64
		radiusKm float64
		cursor   string
		thread   string
		asJSON   bool
	)

	flags := []cli.Flag{
		&cli.FloatFlag{
			Name:        "lat",
			Usage:       "Caller latitude",
			Sources:     cli.EnvVars("DINVER_LAT"),
			Destination: &lat,
		},
		&cli.FloatFlag{
			Name:        "lng",
			Usage:       "Caller longitude",
			Sources:     cli.EnvVars("DINVER_LNG"),
			Destination: &lng,
		},
		&cli.FloatFlag{
			Name:        "radius-km",
			Aliases:     []string{"r"},
			Usage:       "Requested search radius in km",
			Destination: &radiusKm,
		},
		&cli.StringFlag{
			Name:        "cursor",
			Usage:       "Pagination cursor from a previous response",
			Destination: &cursor,
		},
		&cli.StringFlag{
			Name:        "thread",
			Usage:       "Thread ID to continue a conversation",
			Sources:     cli.EnvVars("DINVER_THREAD_ID"),
			Destination: &thread,
		},
		&cli.BoolFlag{
			Name:        "json",
			Usage:       "Print the structured response as JSON",
			Destination: &asJSON,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)
	flags = append(flags, engineFlags(&cfg)...)

	return &cli.Command{
		Name:      "ask",
		Usage:     "Answer a single question",
		ArgsUsage: "<question>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = setupLogging(ctx, &cfg)

			question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if question == "" {
				return goerr.New("question is required")
			}

			uc, repo, err := cfg.newUseCase(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = repo.Close() }()

			q := &model.Query{
				Text:     question,
				Cursor:   cursor,
				ThreadID: model.ThreadID(thread),
			}
			if c.IsSet("lat") && c.IsSet("lng") {
				q.Lat, q.Lng = &lat, &lng
			}
			if radiusKm > 0 {
				q.RadiusKm = &radiusKm
			}

			resp, err := uc.HandleTurn(ctx, q)
			if err != nil {
				return goerr.Wrap(err, "failed to handle question")
			}

			if asJSON {
				enc := json.NewEncoder(c.Root().Writer)
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			}

			fmt.Fprintf(c.Root().Writer, "%s\n", resp.Answer)
			if resp.NextCursor != "" {
				fmt.Fprintf(c.Root().Writer, "(next page: --cursor %s)\n", resp.NextCursor)
			}
			return nil
		},
	}
}
