package cli

import (
	"context"
	"os"

	"github.com/dinver-app/dinver-sub005/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

type Error struct {
	Code    int
	Message string
}

func Run(ctx context.Context, argv []string) *Error {
	cmd := &cli.Command{
		Name:  "dinver",
		Usage: "Conversational restaurant discovery for partner restaurants",
		Commands: []*cli.Command{
			askCommand(),
			chatCommand(),
			taxonomyCommand(),
		},
	}

	if err := cmd.Run(ctx, argv); err != nil {
		return &Error{
			Code:    1,
			Message: err.Error(),
		}
	}

	return nil
}

// setupLogging installs the configured logger as default and attaches it to
// the context.
func setupLogging(ctx context.Context, cfg *config) context.Context {
	logger := logging.New(cfg.logLevel, os.Stderr)
	logging.SetDefault(logger)
	return logging.With(ctx, logger)
}
