package render

import (
	"context"
	"io"
	"os"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"wac/article"
	"wac/session"
	"wac/state"
)

// Classify runs only the smart layout pass, without theming or export.
// Useful for previewing what the heuristics would do to a draft.
func Classify(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("classify")

	body, srcName, err := readInput(cmd.Args().Get(0), env)
	if err != nil {
		return err
	}

	out, changed := article.Classify(body, heuristics(env), log)
	if changed {
		log.Info("Smart layout adjusted the article", zap.String("source", srcName))
	} else {
		log.Info("Smart layout left the article unchanged", zap.String("source", srcName))
	}

	if cmd.Bool("save") {
		env.Session.Set(session.KeyHTML, out)
		log.Debug("Session draft updated")
	}

	_, err = io.WriteString(os.Stdout, out)
	return err
}
