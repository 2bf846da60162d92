package article

import (
	"regexp"
	"slices"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// Heuristics collects the tunable thresholds of the smart layout pass.
// Values are Chinese-first defaults, sized in runes of whitespace
// normalized text.
type Heuristics struct {
	LeadMinChars     int      `yaml:"lead_min_chars"`
	TitleBarMaxChars int      `yaml:"titlebar_max_chars"`
	BadgeMaxChars    int      `yaml:"badge_max_chars"`
	TitleBarKeywords []string `yaml:"titlebar_keywords"`
	DividerGlyphs    string   `yaml:"divider_glyphs"`
}

// DefaultHeuristics returns the stock thresholds and keyword list.
func DefaultHeuristics() Heuristics {
	return Heuristics{
		LeadMinChars:     12,
		TitleBarMaxChars: 10,
		BadgeMaxChars:    18,
		TitleBarKeywords: []string{"步骤", "清单", "目录", "常见问题", "FAQ", "Q&A", "总结", "结论", "方法", "要点", "亮点", "目标"},
		DividerGlyphs:    "≈≈≈≈≈",
	}
}

var (
	questionLatin   = regexp.MustCompile(`(?i)^q\s*[:：]`)
	questionChinese = regexp.MustCompile(`^问\s*[:：]`)
	questionQA      = regexp.MustCompile(`(?i)^Q&A`)
	calloutLabel    = regexp.MustCompile(`^(提示|注意|信息|结论)\s*[:：]\s*(.+)$`)
)

func looksLikeQuestion(s string) bool {
	t := normalizeText(s)
	return questionLatin.MatchString(t) || questionChinese.MatchString(t) || questionQA.MatchString(t)
}

// Classify runs the smart layout pass over an article body: it promotes a
// lead paragraph, styles headings as sections, title bars or badges,
// converts labeled tip paragraphs into callouts, marks bare blockquotes
// as quotes and inserts dividers between adjacent top level sections.
// Elements already carrying a layout class are left alone, which makes
// the pass idempotent. Returns the rewritten body and whether anything
// changed; malformed input comes back unchanged.
func Classify(bodyHTML string, h Heuristics, log *zap.Logger) (string, bool) {
	if log == nil {
		log = zap.NewNop()
	}

	root := newElement("div")
	if parseFragment(bodyHTML, root) == nil {
		log.Debug("Unable to parse article body, skipping layout pass")
		return bodyHTML, false
	}

	changed := false

	// First sufficiently long paragraph becomes the lead.
	for _, p := range findElements(root, func(n *html.Node) bool { return n.Data == "p" }) {
		if normalizedLen(p) < h.LeadMinChars {
			continue
		}
		if !hasClass(p, "lead") && !hasClass(p, "caption") {
			addClass(p, "lead")
			changed = true
		}
		break
	}

	// Every h2 gets either titlebar (keyword hit or short) or section.
	for _, h2 := range findElements(root, func(n *html.Node) bool { return n.Data == "h2" }) {
		if hasClass(h2, "section") || hasClass(h2, "titlebar") {
			continue
		}
		t := normalizeText(textContent(h2))
		style := "section"
		if slices.ContainsFunc(h.TitleBarKeywords, func(k string) bool { return strings.Contains(t, k) }) {
			style = "titlebar"
		} else if len([]rune(t)) <= h.TitleBarMaxChars {
			style = "titlebar"
		}
		addClass(h2, style)
		changed = true
	}

	// Question-like or short h3 becomes a badge.
	for _, h3 := range findElements(root, func(n *html.Node) bool { return n.Data == "h3" }) {
		if hasClass(h3, "badge") {
			continue
		}
		if looksLikeQuestion(textContent(h3)) || normalizedLen(h3) <= h.BadgeMaxChars {
			addClass(h3, "badge")
			changed = true
		}
	}

	// Top level paragraphs labeled 提示/注意/信息/结论 become callouts.
	for c := root.FirstChild; c != nil; {
		next := c.NextSibling
		if isElement(c, "p") && convertTipParagraph(root, c) {
			changed = true
		}
		c = next
	}

	// Anything still a plain blockquote reads as a pull quote.
	for _, bq := range findElements(root, func(n *html.Node) bool { return n.Data == "blockquote" }) {
		if hasClass(bq, "quote") || hasClass(bq, "callout") || hasClass(bq, "card") {
			continue
		}
		addClass(bq, "quote")
		changed = true
	}

	if insertDividers(root, h.DividerGlyphs) {
		changed = true
	}

	if !changed {
		return bodyHTML, false
	}
	return renderChildren(root), true
}

// convertTipParagraph replaces a paragraph of the form "标签：内容" with a
// callout blockquote carrying a bold label line and a content line. The
// label picks the variant: 注意 warns, 结论 confirms, everything else is
// informational. Inline markup inside the paragraph does not survive the
// conversion.
func convertTipParagraph(root, p *html.Node) bool {
	m := calloutLabel.FindStringSubmatch(normalizeText(textContent(p)))
	if m == nil {
		return false
	}
	label, content := m[1], m[2]

	variant := "callout--info"
	switch label {
	case "注意":
		variant = "callout--warn"
	case "结论":
		variant = "callout--ok"
	}

	bq := newElement("blockquote")
	setAttr(bq, "class", "callout "+variant)

	labelP := newElement("p")
	strong := newElement("strong")
	strong.AppendChild(newText(label))
	labelP.AppendChild(strong)

	contentP := newElement("p")
	contentP.AppendChild(newText(content))

	bq.AppendChild(labelP)
	bq.AppendChild(contentP)

	root.InsertBefore(bq, p)
	root.RemoveChild(p)
	return true
}

// insertDividers places a wave divider immediately before the second of
// two adjacent top level h2 headings when no hr or divider paragraph sits
// between them already.
func insertDividers(root *html.Node, glyphs string) bool {
	var headings []*html.Node
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if isElement(c, "h2") {
			headings = append(headings, c)
		}
	}

	inserted := false
	for i := 0; i < len(headings)-1; i++ {
		hasDivider := false
		for c := headings[i].NextSibling; c != nil && c != headings[i+1]; c = c.NextSibling {
			if isElement(c, "hr") || (isElement(c, "p") && hasClass(c, "divider")) {
				hasDivider = true
				break
			}
		}
		if hasDivider {
			continue
		}

		divider := newElement("p")
		setAttr(divider, "class", "divider divider--wave")
		divider.AppendChild(newText(glyphs))
		root.InsertBefore(divider, headings[i+1])
		inserted = true
	}
	return inserted
}
