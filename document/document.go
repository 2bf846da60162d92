// Package document wraps article body HTML into the shapes the export
// targets need: a complete standalone page, a bare themed article wrapper,
// or a clipboard fragment carrying its own <style> block.
package document

import (
	"fmt"
	"strings"

	"wac/css"
	"wac/theme"
)

// DefaultTitle is used when the caller does not supply a document title.
const DefaultTitle = "公众号文章"

// Params describes a document build request.
type Params struct {
	BodyHTML string
	ThemeID  string
	Custom   *theme.CustomTheme
	Title    string
}

// EscapeTitle escapes text for embedding into document head markup.
func EscapeTitle(input string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#039;",
	)
	return r.Replace(input)
}

// Fragment wraps body HTML in the themed article root alone, for targets
// that already carry their own stylesheet.
func Fragment(bodyHTML, themeID string) string {
	return fmt.Sprintf(`<article class="wechat-article" data-theme="%s">%s</article>`, themeID, bodyHTML)
}

// Clipboard prefixes the article fragment with an embedded <style> block
// for rich-clipboard targets that preserve <style> tags.
func Clipboard(bodyHTML, themeID string, custom *theme.CustomTheme) string {
	return fmt.Sprintf("<style>%s</style>\n%s", css.Full(themeID, custom), Fragment(bodyHTML, themeID))
}

// Build emits a minimal valid standalone HTML5 document: UTF-8 charset,
// responsive viewport, escaped title, embedded base+theme stylesheet and
// the themed article root wrapping the body.
func Build(p Params) string {
	title := p.Title
	if title == "" {
		title = DefaultTitle
	}

	var sb strings.Builder
	sb.WriteString("<!doctype html>\n")
	sb.WriteString("<html lang=\"zh-CN\">\n<head>\n")
	sb.WriteString("<meta charset=\"utf-8\" />\n")
	sb.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\" />\n")
	sb.WriteString("<title>")
	sb.WriteString(EscapeTitle(title))
	sb.WriteString("</title>\n")
	sb.WriteString("<style>")
	sb.WriteString(css.Full(p.ThemeID, p.Custom))
	sb.WriteString("</style>\n")
	sb.WriteString("</head>\n<body>\n")
	sb.WriteString(fmt.Sprintf("<article class=\"wechat-article\" data-theme=\"%s\">\n%s\n</article>", p.ThemeID, p.BodyHTML))
	sb.WriteString("\n</body>\n</html>")
	return sb.String()
}
