package theme

import "strings"

// Documented defaults for every variable the inliner and base stylesheet
// depend on. Resolution is total: an incomplete or missing variable map
// still produces a usable value for every field.
const (
	DefaultAccent       = "#0b57d0"
	DefaultAccentSoft   = "rgba(11, 87, 208, 0.10)"
	DefaultAccentSofter = "rgba(11, 87, 208, 0.06)"
	DefaultHeading      = "#111"
	DefaultQuoteBorder  = "rgba(0, 0, 0, 0.18)"
	DefaultQuoteBg      = "rgba(0, 0, 0, 0.03)"
	DefaultPreBg        = "rgba(0,0,0,0.06)"
)

// Vars holds theme style variables resolved against defaults. Computed
// fresh per render, never persisted.
type Vars struct {
	Accent       string
	AccentSoft   string
	AccentSofter string
	Heading      string
	QuoteBorder  string
	QuoteBg      string
	PreBg        string
}

func defaults() Vars {
	return Vars{
		Accent:       DefaultAccent,
		AccentSoft:   DefaultAccentSoft,
		AccentSofter: DefaultAccentSofter,
		Heading:      DefaultHeading,
		QuoteBorder:  DefaultQuoteBorder,
		QuoteBg:      DefaultQuoteBg,
		PreBg:        DefaultPreBg,
	}
}

// pick returns the value of the canonical variable name from the map,
// accepting the shortened spellings too, or fallback when absent/blank.
func pick(vars map[string]string, name, fallback string) string {
	for _, key := range []string{
		name,
		strings.TrimPrefix(name, "--"),
		strings.TrimPrefix(name, VarPrefix),
	} {
		if v, ok := vars[key]; ok {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	return fallback
}

func resolveFrom(vars map[string]string) Vars {
	if len(vars) == 0 {
		return defaults()
	}
	return Vars{
		Accent:       pick(vars, "--wechat-accent", DefaultAccent),
		AccentSoft:   pick(vars, "--wechat-accent-soft", DefaultAccentSoft),
		AccentSofter: pick(vars, "--wechat-accent-softer", DefaultAccentSofter),
		Heading:      pick(vars, "--wechat-heading", DefaultHeading),
		QuoteBorder:  pick(vars, "--wechat-quote-border", DefaultQuoteBorder),
		QuoteBg:      pick(vars, "--wechat-quote-bg", DefaultQuoteBg),
		PreBg:        pick(vars, "--wechat-pre-bg", DefaultPreBg),
	}
}

// Resolve computes style variables for a theme selection. For a custom
// selection the custom theme's variable map is used when provided; a
// dangling custom reference resolves to defaults. Built-in selections pull
// from the registry. The result never contains an empty value.
func Resolve(id string, custom *CustomTheme) Vars {
	if _, isCustom := IsCustomID(id); isCustom {
		if custom != nil {
			return resolveFrom(custom.Vars)
		}
		return defaults()
	}
	return resolveFrom(VarsByID(id))
}
