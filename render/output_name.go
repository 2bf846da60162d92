package render

import (
	"bytes"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"wac/common"
	"wac/config"
	"wac/state"
)

// Values holds variables we make available for output name template
// expansion.
type Values struct {
	Title  string
	Theme  string
	Format string
	Ext    string
}

// buildOutputName constructs an output file name from the configured
// template, falling back to the document title when the template is
// missing or fails to expand.
func buildOutputName(title, id string, format common.ExportFmt, env *state.LocalEnv) string {
	name := ""
	if env.Cfg.Document.OutputNameTemplate != "" {
		expanded, err := expandNameTemplate(env.Cfg.Document.OutputNameTemplate, Values{
			Title:  title,
			Theme:  id,
			Format: format.String(),
			Ext:    format.Ext(),
		})
		if err != nil {
			env.Log.Warn("Unable to prepare output filename", zap.Error(err))
		} else {
			name = expanded
		}
	}
	if name == "" {
		name = title + format.Ext()
	}
	if env.Cfg.Document.FileNameTransliterate {
		// keep extension intact, slug would eat the dot
		ext := format.Ext()
		if len(name) > len(ext) && name[len(name)-len(ext):] == ext {
			name = slug.Make(name[:len(name)-len(ext)]) + ext
		} else {
			name = slug.Make(name)
		}
	}
	return config.CleanFileName(name)
}

func expandNameTemplate(field string, values Values) (string, error) {
	tmpl, err := template.New(string(config.OutputNameTemplateFieldName)).Funcs(sprig.FuncMap()).Parse(field)
	if err != nil {
		return "", err
	}
	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}
