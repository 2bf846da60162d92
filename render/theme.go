package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/maruel/natural"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"wac/css"
	"wac/session"
	"wac/state"
	"wac/theme"
)

// ThemeList prints built-in themes in registry order followed by custom
// themes sorted by name.
func ThemeList(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	active := env.Cfg.Document.DefaultTheme
	if saved, ok := env.Session.Get(session.KeyTheme); ok {
		active = saved
	}

	mark := func(id string) string {
		if id == active {
			return "*"
		}
		return " "
	}

	fmt.Println("Built-in themes:")
	for _, t := range theme.BuiltIn() {
		fmt.Printf("  %s %-8s %s\n", mark(t.ID), t.ID, t.Label)
	}

	customs := env.Themes.List()
	if len(customs) == 0 {
		return nil
	}
	sort.Slice(customs, func(i, j int) bool {
		return natural.Less(customs[i].Name, customs[j].Name)
	})

	fmt.Println("Custom themes:")
	for _, t := range customs {
		fmt.Printf("  %s %-8s %s\n", mark(t.SelectionID()), t.Name, t.SelectionID())
	}
	return nil
}

// ThemeShow prints the full synthesized stylesheet for a theme.
func ThemeShow(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("theme")

	selection := cmd.Args().Get(0)
	if selection == "" {
		return errors.New("no theme has been specified")
	}

	id, custom := resolveSelection(selection, env, log)
	_, err := io.WriteString(os.Stdout, css.Full(id, custom)+"\n")
	return err
}

// ThemeImport reads a JSON theme definition and adds it to the store.
func ThemeImport(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("theme")

	text, err := readThemeSource(cmd.Args().Get(0))
	if err != nil {
		return err
	}

	t, err := env.Themes.ImportJSON(text)
	if err != nil {
		return err
	}
	log.Info("Theme imported", zap.String("name", t.Name), zap.String("selection", t.SelectionID()))
	fmt.Println(t.SelectionID())
	return nil
}

// ThemeImportCSS builds a custom theme from stylesheet text: namespace
// variables become theme variables, the rest is kept as extra CSS.
func ThemeImportCSS(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("theme")

	name := cmd.String("name")
	text, err := readThemeSource(cmd.Args().Get(0))
	if err != nil {
		return err
	}

	t, err := env.Themes.ImportCSS(name, text)
	if err != nil {
		return err
	}
	log.Info("Theme imported from stylesheet",
		zap.String("name", t.Name), zap.String("selection", t.SelectionID()), zap.Int("variables", len(t.Vars)))
	fmt.Println(t.SelectionID())
	return nil
}

// ThemeDelete removes a custom theme. When the deleted theme is the
// active session selection the selection is reset to the default.
func ThemeDelete(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("theme")

	selection := cmd.Args().Get(0)
	if selection == "" {
		return errors.New("no theme has been specified")
	}
	id := selection
	if raw, ok := theme.IsCustomID(selection); ok {
		id = raw
	}

	if !env.Themes.Delete(id) {
		return fmt.Errorf("custom theme not found: %s", selection)
	}
	if saved, ok := env.Session.Get(session.KeyTheme); ok {
		if raw, isCustom := theme.IsCustomID(saved); isCustom && raw == id {
			env.Session.Set(session.KeyTheme, theme.DefaultID)
			log.Debug("Active selection pointed at deleted theme, reset to default")
		}
	}
	log.Info("Theme deleted", zap.String("selection", selection))
	return nil
}

func readThemeSource(src string) (string, error) {
	if src == "" || src == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("unable to read standard input: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return "", fmt.Errorf("unable to read theme source: %w", err)
	}
	return string(data), nil
}
