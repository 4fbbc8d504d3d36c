package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/chzyer/readline"
	"github.com/dinver-app/dinver-sub005/pkg/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func chatCommand() *cli.Command {
	var (
		cfg      config
		lat      float64
		lng      float64
		radiusKm float64
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
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)
	flags = append(flags, engineFlags(&cfg)...)

	return &cli.Command{
		Name:  "chat",
		Usage: "Interactive conversation; the thread persists across turns",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = setupLogging(ctx, &cfg)

			uc, repo, err := cfg.newUseCase(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = repo.Close() }()

			maintCtx, cancelMaint := context.WithCancel(ctx)
			defer cancelMaint()
			uc.StartMaintenance(maintCtx)

			rl, err := readline.New("> ")
			if err != nil {
				return goerr.Wrap(err, "failed to initialize readline")
			}
			defer func() { _ = rl.Close() }()

			threadID := model.NewThreadID()
			hasCoords := c.IsSet("lat") && c.IsSet("lng")

			fmt.Fprintf(c.Root().Writer, "Chat session started. Type 'exit' to quit.\n")

			for {
				line, err := rl.Readline()
				if err != nil {
					if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
						break
					}
					return goerr.Wrap(err, "failed to read input")
				}

				text := strings.TrimSpace(line)
				if text == "" {
					continue
				}
				if text == "exit" || text == "quit" {
					break
				}

				q := &model.Query{
					Text:     text,
					ThreadID: threadID,
				}
				if hasCoords {
					q.Lat, q.Lng = &lat, &lng
				}
				if radiusKm > 0 {
					q.RadiusKm = &radiusKm
				}

				sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
				sp.Start()
				resp, err := uc.HandleTurn(ctx, q)
				sp.Stop()
				if err != nil {
					return goerr.Wrap(err, "failed to handle question")
				}

				fmt.Fprintf(c.Root().Writer, "%s\n", resp.Answer)
			}

			fmt.Fprintf(c.Root().Writer, "\nChat session completed\n")
			return nil
		},
	}
}
