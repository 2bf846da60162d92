package article

import (
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"wac/theme"
)

const monoFontStack = `ui-monospace, SFMono-Regular, Menlo, Monaco, Consolas, "Liberation Mono", "Courier New", monospace`

// decl is a single inline style declaration. Rule tables are ordered
// slices, not maps: application order decides conflicts (last wins within
// a style attribute) and output must be deterministic.
type decl struct {
	prop string
	val  string
}

// appendStyle appends declarations to the element's style attribute. A
// pre-existing inline style is preserved and new declarations follow it,
// so duplicate properties resolve by append order exactly like cascade by
// declaration order inside a single attribute.
func appendStyle(el *html.Node, decls []decl) {
	var parts []string
	for _, d := range decls {
		if strings.TrimSpace(d.val) == "" {
			continue
		}
		parts = append(parts, d.prop+":"+d.val)
	}
	if len(parts) == 0 {
		return
	}
	next := strings.Join(parts, ";")

	existing, ok := getAttr(el, "style")
	existing = strings.TrimSpace(existing)
	if !ok || existing == "" {
		setAttr(el, "style", next)
		return
	}
	setAttr(el, "style", strings.TrimSuffix(existing, ";")+";"+next)
}

// Inline rewrites every element's presentation as an explicit style
// attribute computed from the resolved theme variables, replicating the
// base and theme stylesheets without relying on <style> blocks or class
// selectors surviving transmission. Structural tags and semantic classes
// stay on the elements. Output is the serialized themed article root.
//
// Malformed input fails soft: the original body comes back unchanged.
func Inline(bodyHTML, themeID string, custom *theme.CustomTheme, log *zap.Logger) string {
	if log == nil {
		log = zap.NewNop()
	}

	root := newElement("article")
	setAttr(root, "data-theme", themeID)
	if parseFragment(bodyHTML, root) == nil {
		log.Debug("Unable to parse article body, returning it unchanged")
		return bodyHTML
	}

	vars := theme.Resolve(themeID, custom)

	// Root-level defaults.
	appendStyle(root, []decl{
		{"color", "#111"},
		{"background-color", "#fff"},
		{"font-size", "15px"},
		{"line-height", "1.8"},
		{"word-break", "break-word"},
	})

	walkElements(root, func(el *html.Node) {
		inlineElement(el, vars)
	})

	return render(root)
}

// inlineElement applies the declarative rule table to one element. The
// table mirrors every selector of the base and theme stylesheets; general
// rules run before variant rules so more specific declarations win by
// append order.
func inlineElement(el *html.Node, vars theme.Vars) {
	// Scrollable frame container, with a royal-frame contextual override.
	if hasClass(el, "frame__scroll") {
		appendStyle(el, []decl{
			{"max-height", "360px"},
			{"overflow", "auto"},
			{"-webkit-overflow-scrolling", "touch"},
			{"padding", "10px 10px"},
			{"border-radius", "12px"},
			{"border", "1px solid rgba(0, 0, 0, 0.10)"},
			{"background-color", "rgba(255, 255, 255, 0.85)"},
		})
		if closest(el, func(p *html.Node) bool { return hasClass(p, "frame--royal") }) {
			appendStyle(el, []decl{
				{"border-color", "rgba(124, 58, 237, 0.22)"},
				{"background-color", "rgba(124, 58, 237, 0.04)"},
			})
		}
	}

	switch el.Data {
	case "p":
		appendStyle(el, []decl{{"margin", "12px 0"}})

		if hasClass(el, "lead") {
			appendStyle(el, []decl{
				{"font-size", "16px"},
				{"color", "rgba(0,0,0,0.62)"},
				{"margin", "10px 0 14px"},
			})
		}
		if hasClass(el, "caption") {
			appendStyle(el, []decl{
				{"margin", "6px 0 14px"},
				{"color", "rgba(0,0,0,0.55)"},
				{"font-size", "13px"},
				{"text-align", "center"},
			})
		}
		if hasClass(el, "divider") {
			appendStyle(el, []decl{
				{"margin", "16px 0"},
				{"color", "rgba(0,0,0,0.38)"},
				{"text-align", "center"},
				{"letter-spacing", "3px"},
				{"font-size", "14px"},
			})
			if hasClass(el, "divider--flower") {
				appendStyle(el, []decl{
					{"letter-spacing", "6px"},
					{"color", "rgba(0,0,0,0.42)"},
				})
			}
			if hasClass(el, "divider--wave") {
				appendStyle(el, []decl{
					{"letter-spacing", "2px"},
					{"font-size", "15px"},
					{"color", "rgba(0,0,0,0.40)"},
				})
			}
		}
		if hasClass(el, "card__title") || hasClass(el, "guide__kicker") {
			appendStyle(el, []decl{
				{"margin", "0 0 6px"},
				{"color", vars.Heading},
			})
		}
		if hasClass(el, "frame__kicker") {
			appendStyle(el, []decl{
				{"margin", "0 0 10px"},
				{"color", vars.Heading},
				{"font-size", "14px"},
			})
		}

	case "h1":
		appendStyle(el, []decl{
			{"margin", "18px 0 10px"},
			{"line-height", "1.35"},
			{"font-weight", "700"},
			{"font-size", "22px"},
			{"color", vars.Heading},
			{"text-align", "center"},
			{"letter-spacing", "0.5px"},
			{"padding", "10px 10px 12px"},
			{"border-radius", "14px"},
			{"border", "1px solid rgba(0, 0, 0, 0.08)"},
			{"background-color", vars.AccentSofter},
		})

	case "h2":
		appendStyle(el, []decl{
			{"margin", "18px 0 10px"},
			{"line-height", "1.35"},
			{"font-weight", "700"},
			{"font-size", "18px"},
			{"color", vars.Heading},
		})
		// section and titlebar render identically inline; the gradient of
		// the class-based titlebar cannot be expressed per-element in a
		// WeChat-safe way.
		if hasClass(el, "section") || hasClass(el, "titlebar") {
			appendStyle(el, []decl{
				{"padding", "10px 12px"},
				{"border-radius", "14px"},
				{"background-color", vars.AccentSoft},
				{"border", "1px solid rgba(0, 0, 0, 0.08)"},
				{"border-left", "4px solid " + vars.Accent},
			})
		}

	case "h3":
		appendStyle(el, []decl{
			{"margin", "18px 0 10px"},
			{"line-height", "1.35"},
			{"font-weight", "700"},
			{"font-size", "16px"},
			{"color", vars.Heading},
			{"padding-left", "10px"},
			{"border-left", "3px solid " + vars.Accent},
		})
		if hasClass(el, "badge") {
			appendStyle(el, []decl{
				{"display", "inline-block"},
				{"padding", "6px 10px"},
				{"border-radius", "999px"},
				{"background-color", vars.AccentSofter},
				{"border", "1px solid " + vars.AccentSoft},
				{"padding-left", "10px"},
				{"border-left", "none"},
			})
		}

	case "a":
		appendStyle(el, []decl{
			{"color", vars.Accent},
			{"text-decoration", "none"},
		})

	case "blockquote":
		appendStyle(el, []decl{
			{"margin", "14px 0"},
			{"padding", "10px 12px"},
			{"border-left", "4px solid " + vars.QuoteBorder},
			{"background-color", vars.QuoteBg},
		})
		if hasClass(el, "quote") {
			appendStyle(el, []decl{
				{"border-left", "4px solid " + vars.Accent},
				{"background-color", "rgba(0,0,0,0.02)"},
			})
		}
		if hasClass(el, "card") {
			appendStyle(el, []decl{
				{"padding", "12px"},
				{"border-radius", "14px"},
				{"border", "1px solid rgba(0, 0, 0, 0.12)"},
				{"background-color", vars.AccentSofter},
				{"border-left", "none"},
			})
		}
		if hasClass(el, "guide") {
			appendStyle(el, []decl{
				{"padding", "12px"},
				{"border-radius", "14px"},
				{"border", "1px solid rgba(0, 0, 0, 0.12)"},
				{"background-color", vars.AccentSoft},
				{"border-left", "4px solid " + vars.Accent},
			})
		}

	case "ul", "ol":
		appendStyle(el, []decl{
			{"margin", "12px 0 12px 24px"},
			{"padding", "0"},
		})

	case "li":
		appendStyle(el, []decl{{"margin", "6px 0"}})

	case "hr":
		appendStyle(el, []decl{
			{"border", "none"},
			{"height", "0"},
			{"border-top", "1px dashed rgba(0, 0, 0, 0.22)"},
			{"margin", "16px 0"},
		})

	case "img":
		appendStyle(el, []decl{
			{"max-width", "100%"},
			{"height", "auto"},
			{"display", "block"},
			{"margin", "10px auto"},
			{"border-radius", "8px"},
		})

	case "code":
		// Inline code only; code inside pre is handled by the pre rule so
		// the block background is not doubled.
		inPre := closest(el, func(p *html.Node) bool { return p.Data == "pre" })
		if !inPre {
			appendStyle(el, []decl{
				{"font-family", monoFontStack},
				{"font-size", "0.92em"},
				{"background-color", "rgba(0,0,0,0.06)"},
				{"padding", "0.1em 0.35em"},
				{"border-radius", "6px"},
			})
		}

	case "pre":
		appendStyle(el, []decl{
			{"overflow", "auto"},
			{"background-color", vars.PreBg},
			{"padding", "12px"},
			{"border-radius", "10px"},
		})
		if code := firstDescendant(el, "code"); code != nil {
			appendStyle(code, []decl{
				{"background-color", "transparent"},
				{"padding", "0"},
			})
		}
	}

	// Callout and frame variants of blockquote come after the general
	// blockquote declarations so their borders and backgrounds win.
	if el.Data == "blockquote" && hasClass(el, "callout") {
		appendStyle(el, []decl{
			{"margin", "14px 0"},
			{"padding", "12px"},
			{"border-radius", "12px"},
			{"border", "1px solid rgba(0, 0, 0, 0.12)"},
		})
		if hasClass(el, "callout--info") {
			appendStyle(el, []decl{
				{"background-color", "rgba(11, 87, 208, 0.06)"},
				{"border-color", "rgba(11, 87, 208, 0.22)"},
			})
		}
		if hasClass(el, "callout--warn") {
			appendStyle(el, []decl{
				{"background-color", "rgba(245, 158, 11, 0.10)"},
				{"border-color", "rgba(245, 158, 11, 0.28)"},
			})
		}
		if hasClass(el, "callout--ok") {
			appendStyle(el, []decl{
				{"background-color", "rgba(34, 197, 94, 0.10)"},
				{"border-color", "rgba(34, 197, 94, 0.28)"},
			})
		}
	}

	if el.Data == "blockquote" && hasClass(el, "frame") {
		appendStyle(el, []decl{
			{"margin", "14px 0"},
			{"padding", "14px 12px"},
			{"border-radius", "16px"},
			{"border", "2px solid rgba(0, 0, 0, 0.10)"},
			{"background-color", "#fff"},
			{"border-left", "none"},
		})
		if hasClass(el, "frame--royal") {
			appendStyle(el, []decl{
				{"border-color", "rgba(124, 58, 237, 0.55)"},
				{"box-shadow", "0 10px 26px rgba(124, 58, 237, 0.12)"},
				{"background-color", vars.AccentSofter},
			})
		}
	}
}

// firstDescendant returns the first descendant element with the given tag
// in document order, or nil.
func firstDescendant(root *html.Node, tag string) *html.Node {
	var found *html.Node
	walkElements(root, func(n *html.Node) {
		if found == nil && n.Data == tag {
			found = n
		}
	})
	return found
}
