// Package css synthesizes stylesheets for theme selections and extracts
// theme variables from imported stylesheet text.
//
// Synthesis produces three artifacts: the fixed base stylesheet shared by
// all themes, a theme stylesheet overriding CSS variables on the article
// root, and a scoped variant of either for embedding a live preview into a
// page without selector leakage.
package css

import (
	_ "embed"
	"sort"
	"strings"

	"wac/theme"
)

// ArticleSelector is the class selector of the article root element all
// theme CSS is scoped to by convention.
const ArticleSelector = ".wechat-article"

//go:embed base.css
var baseCSS string

// Base returns the fixed stylesheet shared by all themes. It defines
// default typography, spacing and the structural classes used by the
// smart-layout classifier and the component templates.
func Base() string {
	return strings.TrimSpace(baseCSS)
}

// cleanCSS is what CSSByID-style lookups return when no variable overrides
// apply: the default theme is the base stylesheet alone.
const cleanCSS = "/* clean theme: base only */"

// varBlock renders a sorted ".wechat-article { --wechat-*: ...; }" override
// block from a variable map. Keys are normalized and filtered to the
// reserved namespace, blank values are dropped. Sorting keeps output
// deterministic - map order is not.
func varBlock(vars map[string]string) string {
	type kv struct{ k, v string }
	var decls []kv
	for k, v := range vars {
		k = theme.NormalizeVarName(k)
		v = strings.TrimSpace(v)
		if !strings.HasPrefix(k, theme.VarPrefix) || v == "" {
			continue
		}
		decls = append(decls, kv{k, v})
	}
	sort.Slice(decls, func(i, j int) bool { return decls[i].k < decls[j].k })

	var sb strings.Builder
	sb.WriteString(ArticleSelector)
	sb.WriteString(" {\n")
	for _, d := range decls {
		sb.WriteString("  ")
		sb.WriteString(d.k)
		sb.WriteString(": ")
		sb.WriteString(d.v)
		sb.WriteString(";\n")
	}
	sb.WriteString("}")
	return sb.String()
}

// themeCSS combines a variable override block with optional extra CSS.
func themeCSS(vars map[string]string, extra string) string {
	out := varBlock(vars)
	if extra = strings.TrimSpace(extra); extra != "" {
		out += "\n\n" + extra
	}
	return out
}

// ForBuiltIn returns the theme stylesheet of a built-in theme. The default
// "clean" theme and unknown ids get the minimal explanatory stylesheet -
// lookup never fails.
func ForBuiltIn(id string) string {
	t, ok := theme.ByID(id)
	if !ok || id == theme.DefaultID {
		return cleanCSS
	}
	return themeCSS(t.Vars, t.ExtraCSS)
}

// ForTheme returns the theme stylesheet for an arbitrary selection. A
// custom selection uses the supplied custom theme; a dangling custom
// reference (deleted or missing) yields an empty string.
func ForTheme(id string, custom *theme.CustomTheme) string {
	if _, isCustom := theme.IsCustomID(id); isCustom {
		if custom == nil {
			return ""
		}
		return themeCSS(custom.Vars, custom.ExtraCSS)
	}
	return ForBuiltIn(id)
}

// Full returns base and theme stylesheets joined the way exports embed
// them.
func Full(id string, custom *theme.CustomTheme) string {
	return Base() + "\n\n" + ForTheme(id, custom)
}

// Scoped rewrites a stylesheet so it only applies beneath a wrapper
// element carrying the given scope class. The rewrite is purely textual
// selector substitution, not a CSS parse: ":root" becomes the scope class
// and the article-root selector gets the scope prepended. Scoping the same
// text for two distinct scopes never cross-contaminates.
func Scoped(cssText, scope string) string {
	scopeSel := "." + strings.TrimPrefix(scope, ".")
	out := strings.ReplaceAll(cssText, ":root", scopeSel)
	return strings.ReplaceAll(out, ArticleSelector, scopeSel+" "+ArticleSelector)
}
