// Package article implements the HTML post-processing transforms applied
// to article body fragments: inlining theme presentation into per-element
// style attributes and heuristic smart-layout classification.
//
// Both transforms parse the serialized body into a detached fragment,
// mutate the tree and re-serialize. They are content-preserving by
// contract: text and embedded media are never dropped, only annotated or
// supplemented. Malformed input fails soft - the original string comes
// back unchanged.
package article

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// parseFragment parses body HTML into children of a synthetic root
// element. Returns nil when parsing fails.
func parseFragment(bodyHTML string, root *html.Node) *html.Node {
	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(bodyHTML), ctx)
	if err != nil {
		return nil
	}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return root
}

// newElement creates a detached element node.
func newElement(tag string) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
}

// newText creates a detached text node.
func newText(text string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: text}
}

// render serializes a node to markup. Render only fails on writer errors
// which cannot happen with a strings.Builder.
func render(n *html.Node) string {
	var sb strings.Builder
	_ = html.Render(&sb, n)
	return sb.String()
}

// renderChildren serializes the children of a node, in order.
func renderChildren(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&sb, c)
	}
	return sb.String()
}

// getAttr returns the value of an attribute, if present.
func getAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// setAttr sets or replaces an attribute value.
func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// hasClass reports class membership.
func hasClass(n *html.Node, class string) bool {
	v, ok := getAttr(n, "class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

// addClass appends a class unless already present.
func addClass(n *html.Node, class string) {
	if hasClass(n, class) {
		return
	}
	v, ok := getAttr(n, "class")
	if !ok || v == "" {
		setAttr(n, "class", class)
		return
	}
	setAttr(n, "class", v+" "+class)
}

// isElement reports whether the node is an element with the given tag.
func isElement(n *html.Node, tag string) bool {
	return n.Type == html.ElementNode && n.Data == tag
}

// walkElements visits every element descendant of root in document order,
// not including root itself.
func walkElements(root *html.Node, visit func(*html.Node)) {
	var rec func(*html.Node)
	rec = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode {
				visit(c)
			}
			rec(c)
		}
	}
	rec(root)
}

// findElements collects matching element descendants in document order.
func findElements(root *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	walkElements(root, func(n *html.Node) {
		if match(n) {
			out = append(out, n)
		}
	})
	return out
}

// closest reports whether the node has an ancestor (excluding itself)
// matching the predicate.
func closest(n *html.Node, match func(*html.Node) bool) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && match(p) {
			return true
		}
	}
	return false
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// normalizeText collapses whitespace runs and trims. Used for all text
// comparisons; stored text is never mutated.
func normalizeText(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// textContent concatenates all text descendants of a node.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var rec func(*html.Node)
	rec = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			rec(c)
		}
	}
	rec(n)
	return sb.String()
}

// normalizedLen is the rune length of the whitespace-normalized text of a
// node. Thresholds in the classifier are character counts, not bytes.
func normalizedLen(n *html.Node) int {
	return len([]rune(normalizeText(textContent(n))))
}
