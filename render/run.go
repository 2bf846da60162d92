// Package render implements command line operations over article HTML:
// export in various shapes, the smart layout pass, theme management and
// session inspection.
package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"

	"wac/article"
	"wac/common"
	"wac/css"
	"wac/document"
	"wac/session"
	"wac/state"
	"wac/theme"
)

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("render")

	format, err := common.ParseExportFmt(cmd.String("to"))
	if err != nil {
		log.Warn("Unknown export format requested, switching to full", zap.Error(err))
		format = common.ExportFmtFull
	}

	env.Overwrite = cmd.Bool("overwrite")

	// Input files are expected in UTF-8, but drafts saved by other tools
	// may use a legacy character set
	cp := cmd.String("force-cp")
	if len(cp) > 0 {
		env.CodePage, err = ianaindex.IANA.Encoding(cp)
		if err != nil {
			log.Warn("Unknown character set specification. Ignoring...", zap.String("charset", cp), zap.Error(err))
			env.CodePage = nil
		} else {
			n, _ := ianaindex.IANA.Name(env.CodePage)
			log.Debug("Forcefully converting input from legacy encoding", zap.String("charset", n))
		}
	}

	body, srcName, err := readInput(cmd.Args().Get(0), env)
	if err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	if cmd.Bool("smart") {
		var changed bool
		if body, changed = article.Classify(body, heuristics(env), log); changed {
			log.Debug("Smart layout adjusted the article")
		}
	}

	id, custom := resolveSelection(cmd.String("theme"), env, log)

	title := cmd.String("title")
	if title == "" {
		title = env.Cfg.Document.Title
	}

	log.Info("Rendering starting",
		zap.String("source", srcName), zap.String("theme", id), zap.Stringer("format", format))
	defer func(start time.Time) {
		log.Info("Rendering completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	out := produce(format, body, id, custom, title, cmd.Bool("standalone"), log)

	if cmd.Bool("save") {
		env.Session.Set(session.KeyHTML, body)
		env.Session.Set(session.KeyTheme, selectionID(id, custom))
	}

	return writeOutput(out, cmd.Args().Get(1), title, id, format, env, log)
}

// readInput loads article body HTML from a file, from standard input when
// src is "-", or from the saved session draft when no source is given.
func readInput(src string, env *state.LocalEnv) (string, string, error) {
	switch src {
	case "":
		if body, ok := env.Session.Get(session.KeyHTML); ok {
			return body, "session draft", nil
		}
		return "", "", errors.New("no input source has been specified and session has no draft")
	case "-":
		body, err := decodeAll(os.Stdin, env)
		if err != nil {
			return "", "", fmt.Errorf("unable to read standard input: %w", err)
		}
		return body, "stdin", nil
	default:
		f, err := os.Open(src)
		if err != nil {
			return "", "", fmt.Errorf("unable to open input source: %w", err)
		}
		defer f.Close()
		body, err := decodeAll(f, env)
		if err != nil {
			return "", "", fmt.Errorf("unable to read input source (%s): %w", src, err)
		}
		return body, src, nil
	}
}

// decodeAll reads everything converting to UTF-8. A forced code page wins
// over charset detection.
func decodeAll(r io.Reader, env *state.LocalEnv) (string, error) {
	if env.CodePage != nil {
		r = transform.NewReader(r, env.CodePage.NewDecoder())
	} else {
		var err error
		if r, err = charset.NewReader(r, ""); err != nil {
			return "", err
		}
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// resolveSelection turns a theme selection (explicit flag, then session,
// then configured default) into a theme id plus custom theme definition
// when the selection names one.
func resolveSelection(flag string, env *state.LocalEnv, log *zap.Logger) (string, *theme.CustomTheme) {
	selection := flag
	if selection == "" {
		if saved, ok := env.Session.Get(session.KeyTheme); ok {
			selection = saved
		}
	}
	if selection == "" {
		selection = env.Cfg.Document.DefaultTheme
	}

	if _, custom := theme.IsCustomID(selection); custom {
		ct := env.Themes.Lookup(selection)
		if ct == nil {
			log.Warn("Selected custom theme no longer exists, using defaults", zap.String("selection", selection))
		}
		return selection, ct
	}
	if _, known := theme.ByID(selection); !known {
		log.Warn("Unknown theme requested, switching to default", zap.String("theme", selection))
		selection = theme.DefaultID
	}
	return selection, nil
}

func selectionID(id string, custom *theme.CustomTheme) string {
	if custom != nil {
		return custom.SelectionID()
	}
	return id
}

func heuristics(env *state.LocalEnv) article.Heuristics {
	l := env.Cfg.Document.Layout
	return article.Heuristics{
		LeadMinChars:     l.LeadMinChars,
		TitleBarMaxChars: l.TitleBarMaxChars,
		BadgeMaxChars:    l.BadgeMaxChars,
		TitleBarKeywords: l.TitleBarKeywords,
		DividerGlyphs:    l.DividerGlyphs,
	}
}

func produce(format common.ExportFmt, body, id string, custom *theme.CustomTheme, title string, standalone bool, log *zap.Logger) string {
	switch format {
	case common.ExportFmtFull:
		return document.Build(document.Params{BodyHTML: body, ThemeID: id, Custom: custom, Title: title})
	case common.ExportFmtFragment:
		return document.Fragment(body, id)
	case common.ExportFmtClipboard:
		return document.Clipboard(body, id, custom)
	case common.ExportFmtInline:
		inlined := article.Inline(body, id, custom, log)
		if standalone {
			return document.Build(document.Params{BodyHTML: inlined, ThemeID: id, Custom: custom, Title: title})
		}
		return inlined
	case common.ExportFmtCSS:
		return css.Full(id, custom)
	default:
		// this should never happen
		panic("unsupported format requested")
	}
}

// writeOutput sends the result to stdout when no destination is given (or
// it is "-"), otherwise to a file. A destination that is an existing
// directory gets a file named from the configured template.
func writeOutput(out, dst, title, id string, format common.ExportFmt, env *state.LocalEnv, log *zap.Logger) error {
	if dst == "" || dst == "-" {
		_, err := io.WriteString(os.Stdout, out)
		return err
	}

	dst, err := filepath.Abs(dst)
	if err != nil {
		return err
	}
	if fi, err := os.Stat(dst); err == nil && fi.IsDir() {
		dst = filepath.Join(dst, buildOutputName(title, id, format, env))
	}

	if _, err := os.Stat(dst); err == nil {
		if !env.Overwrite {
			return fmt.Errorf("output file already exists: %s", dst)
		}
		log.Warn("Overwriting existing file", zap.String("file", dst))
	} else if !os.IsNotExist(err) {
		return err
	} else if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	if err := os.WriteFile(dst, []byte(out), 0644); err != nil {
		return fmt.Errorf("unable to write output: %w", err)
	}
	log.Info("Output written", zap.String("file", dst))

	if env.Rpt != nil {
		env.Rpt.Store("result"+strings.ToLower(filepath.Ext(dst)), dst)
	}
	return nil
}
