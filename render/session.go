package render

import (
	"context"
	"errors"
	"fmt"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"wac/common"
	"wac/session"
	"wac/state"
	"wac/theme"
)

// SessionShow prints the persisted editor state.
func SessionShow(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	themeSel, _ := env.Session.Get(session.KeyTheme)
	if themeSel == "" {
		themeSel = env.Cfg.Document.DefaultTheme + " (default)"
	}
	view, _ := env.Session.Get(session.KeyView)
	mode := common.ParseViewMode(view)

	draft, hasDraft := env.Session.Get(session.KeyHTML)

	fmt.Printf("theme: %s\n", themeSel)
	fmt.Printf("view:  %s\n", mode)
	if hasDraft {
		fmt.Printf("draft: %d bytes\n", len(draft))
	} else {
		fmt.Println("draft: none")
	}
	fmt.Printf("custom themes: %d\n", len(env.Themes.List()))
	return nil
}

// SessionSetTheme persists the active theme selection.
func SessionSetTheme(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("session")

	selection := cmd.Args().Get(0)
	if selection == "" {
		return errors.New("no theme has been specified")
	}
	if _, isCustom := theme.IsCustomID(selection); isCustom {
		if env.Themes.Lookup(selection) == nil {
			return fmt.Errorf("custom theme not found: %s", selection)
		}
	} else if _, known := theme.ByID(selection); !known {
		return fmt.Errorf("unknown theme: %s", selection)
	}

	env.Session.Set(session.KeyTheme, selection)
	log.Info("Theme selection saved", zap.String("selection", selection))
	return nil
}

// SessionSetView persists the editor view mode.
func SessionSetView(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("session")

	mode := common.ParseViewMode(cmd.Args().Get(0))
	env.Session.Set(session.KeyView, mode.String())
	log.Info("View mode saved", zap.Stringer("mode", mode))
	return nil
}

// SessionSetHTML stores article HTML as the session draft.
func SessionSetHTML(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("session")

	body, srcName, err := readInput(cmd.Args().Get(0), env)
	if err != nil {
		return err
	}
	env.Session.Set(session.KeyHTML, body)
	log.Info("Session draft saved", zap.String("source", srcName), zap.Int("bytes", len(body)))
	return nil
}

// SessionClear drops all persisted editor state, custom themes included.
func SessionClear(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("session")

	env.Session.Clear()
	log.Info("Session cleared")
	return nil
}
