// Package theme defines the built-in theme registry, user-imported custom
// themes and resolution of theme style variables.
//
// Built-in themes are pure data fixed at process start. A theme is a set of
// CSS custom properties in the --wechat- namespace plus optional extra
// stylesheet text scoped to the article root. Variable maps are allowed to
// be incomplete - resolution falls back to documented defaults so that no
// computed style ever ends up empty.
package theme

import (
	"strings"
)

// VarPrefix is the reserved CSS custom property namespace. Variable keys
// outside of it are ignored when synthesizing CSS.
const VarPrefix = "--wechat-"

// CustomIDPrefix marks theme selections referring to user-imported themes.
const CustomIDPrefix = "custom:"

// DefaultID is the safe selection every fallback path reverts to.
const DefaultID = "clean"

// Theme is a built-in named visual style.
type Theme struct {
	ID       string
	Label    string
	Vars     map[string]string
	ExtraCSS string
}

// CustomTheme is a user-imported visual style. Selection references it as
// "custom:<ID>".
type CustomTheme struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Vars     map[string]string `json:"vars"`
	ExtraCSS string            `json:"extraCss,omitempty"`
}

// SelectionID returns the theme selection identifier for a custom theme.
func (t CustomTheme) SelectionID() string {
	return CustomIDPrefix + t.ID
}

// IsCustomID reports whether the selection refers to a custom theme and
// returns the bare custom theme id.
func IsCustomID(id string) (string, bool) {
	return strings.CutPrefix(id, CustomIDPrefix)
}

// builtIn is the read-only registry. Order is significant: it defines
// presentation order and the first entry is the default selection.
var builtIn = []Theme{
	{
		ID:    "clean",
		Label: "清爽",
	},
	{
		ID:    "warm",
		Label: "暖色",
		Vars: map[string]string{
			"--wechat-accent":        "#b42318",
			"--wechat-accent-soft":   "rgba(180, 35, 24, 0.10)",
			"--wechat-accent-softer": "rgba(180, 35, 24, 0.06)",
			"--wechat-heading":       "#7a271a",
			"--wechat-quote-border":  "rgba(180, 35, 24, 0.35)",
			"--wechat-quote-bg":      "rgba(180, 35, 24, 0.06)",
		},
	},
	{
		ID:    "tech",
		Label: "科技",
		Vars: map[string]string{
			"--wechat-accent":        "#0f766e",
			"--wechat-accent-soft":   "rgba(15, 118, 110, 0.10)",
			"--wechat-accent-softer": "rgba(15, 118, 110, 0.06)",
			"--wechat-heading":       "#0f172a",
			"--wechat-pre-bg":        "rgba(2, 6, 23, 0.06)",
		},
	},
	{
		ID:    "mint",
		Label: "薄荷",
		Vars: map[string]string{
			"--wechat-accent":        "#16a34a",
			"--wechat-accent-soft":   "rgba(22, 163, 74, 0.10)",
			"--wechat-accent-softer": "rgba(22, 163, 74, 0.06)",
			"--wechat-heading":       "#0f172a",
			"--wechat-quote-border":  "rgba(22, 163, 74, 0.28)",
			"--wechat-quote-bg":      "rgba(22, 163, 74, 0.06)",
		},
	},
	{
		ID:    "sunset",
		Label: "日落",
		Vars: map[string]string{
			"--wechat-accent":        "#ea580c",
			"--wechat-accent-soft":   "rgba(234, 88, 12, 0.10)",
			"--wechat-accent-softer": "rgba(234, 88, 12, 0.06)",
			"--wechat-heading":       "#7c2d12",
			"--wechat-quote-border":  "rgba(234, 88, 12, 0.32)",
			"--wechat-quote-bg":      "rgba(234, 88, 12, 0.06)",
		},
	},
	{
		ID:    "grape",
		Label: "葡萄",
		Vars: map[string]string{
			"--wechat-accent":        "#7c3aed",
			"--wechat-accent-soft":   "rgba(124, 58, 237, 0.10)",
			"--wechat-accent-softer": "rgba(124, 58, 237, 0.06)",
			"--wechat-heading":       "#2e1065",
			"--wechat-quote-border":  "rgba(124, 58, 237, 0.30)",
			"--wechat-quote-bg":      "rgba(124, 58, 237, 0.06)",
		},
	},
	{
		ID:    "ink",
		Label: "墨黑",
		Vars: map[string]string{
			"--wechat-accent":        "#111827",
			"--wechat-accent-soft":   "rgba(17, 24, 39, 0.08)",
			"--wechat-accent-softer": "rgba(17, 24, 39, 0.05)",
			"--wechat-heading":       "#111827",
			"--wechat-quote-border":  "rgba(17, 24, 39, 0.24)",
			"--wechat-quote-bg":      "rgba(17, 24, 39, 0.04)",
			"--wechat-pre-bg":        "rgba(17, 24, 39, 0.06)",
		},
	},
	{
		ID:    "royal",
		Label: "紫金边框",
		Vars: map[string]string{
			"--wechat-accent":        "#7c3aed",
			"--wechat-accent-soft":   "rgba(124, 58, 237, 0.12)",
			"--wechat-accent-softer": "rgba(124, 58, 237, 0.07)",
			"--wechat-heading":       "#3b1a6f",
			"--wechat-quote-border":  "rgba(124, 58, 237, 0.30)",
			"--wechat-quote-bg":      "rgba(124, 58, 237, 0.06)",
			"--wechat-pre-bg":        "rgba(124, 58, 237, 0.06)",
		},
		ExtraCSS: `/* subtle paper-like frame */
.wechat-article {
  border: 2px solid rgba(124, 58, 237, 0.55);
  border-radius: 16px;
  padding: 14px 14px 6px;
  background: linear-gradient(180deg, rgba(124, 58, 237, 0.08), rgba(255, 255, 255, 0.0) 26%),
    #fff;
}

.wechat-article h1 {
  border: 1px solid rgba(124, 58, 237, 0.22);
  background: linear-gradient(90deg, rgba(124, 58, 237, 0.12), rgba(255, 255, 255, 0.0));
}

.wechat-article h2.titlebar {
  border-left-color: rgba(124, 58, 237, 0.95);
}

.wechat-article h3.badge {
  border-color: rgba(124, 58, 237, 0.20);
}

.wechat-article blockquote.card,
.wechat-article blockquote.guide {
  border-color: rgba(124, 58, 237, 0.22);
}

.wechat-article p.divider {
  color: rgba(124, 58, 237, 0.55);
}`,
	},
}

// BuiltIn returns built-in themes in registry order. The first one is the
// default. The returned slice is a copy, the registry itself is immutable.
func BuiltIn() []Theme {
	out := make([]Theme, len(builtIn))
	copy(out, builtIn)
	return out
}

// ByID looks up a built-in theme. Unknown id is not an error, it just
// reports false.
func ByID(id string) (Theme, bool) {
	for _, t := range builtIn {
		if t.ID == id {
			return t, true
		}
	}
	return Theme{}, false
}

// VarsByID returns variable overrides of a built-in theme. Unknown id
// yields an empty map, never an error.
func VarsByID(id string) map[string]string {
	t, ok := ByID(id)
	if !ok {
		return map[string]string{}
	}
	out := make(map[string]string, len(t.Vars))
	for k, v := range t.Vars {
		out[k] = v
	}
	return out
}

// NormalizeVarName brings a variable key to canonical "--wechat-*" form.
// Accepted spellings: "accent", "wechat-accent", "--wechat-accent".
func NormalizeVarName(name string) string {
	trimmed := strings.TrimSpace(name)
	if strings.HasPrefix(trimmed, "--") {
		return trimmed
	}
	if strings.HasPrefix(trimmed, "wechat-") {
		return "--" + trimmed
	}
	return VarPrefix + trimmed
}
