package article

import (
	"strings"
	"testing"

	"go.uber.org/zap"

	"wac/theme"
)

func TestInlineRoot(t *testing.T) {
	out := Inline("<p>你好</p>", "clean", nil, zap.NewNop())

	if !strings.HasPrefix(out, `<article `) {
		t.Fatalf("Inline() = %q, want article root", out)
	}
	if !strings.Contains(out, `data-theme="clean"`) {
		t.Errorf("Inline() = %q, want data-theme attribute", out)
	}
	for _, want := range []string{"color:#111", "background-color:#fff", "font-size:15px", "line-height:1.8", "word-break:break-word"} {
		if !strings.Contains(out, want) {
			t.Errorf("Inline() = %q, want root declaration %q", out, want)
		}
	}
}

func TestInlineThemeVariables(t *testing.T) {
	tests := []struct {
		name  string
		theme string
		in    string
		want  string
	}{
		{"section border uses accent", "clean", `<h2 class="section">标题</h2>`, "border-left:4px solid #0b57d0"},
		{"warm accent", "warm", `<a href="#">链接</a>`, "color:#b42318"},
		{"grape pre background", "grape", "<pre>code</pre>", "background-color:rgba(124, 58, 237, 0.06)"},
		{"ink heading color", "ink", "<h1>标题</h1>", "color:#111827"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Inline(tt.in, tt.theme, nil, zap.NewNop())
			if !strings.Contains(out, tt.want) {
				t.Errorf("Inline(%q) = %q, want %q", tt.theme, out, tt.want)
			}
		})
	}
}

func TestInlineCustomTheme(t *testing.T) {
	custom := &theme.CustomTheme{
		ID:   "custom-1",
		Name: "mine",
		Vars: map[string]string{"accent": "#ff0000"},
	}
	out := Inline(`<a href="#">链接</a>`, custom.SelectionID(), custom, zap.NewNop())
	if !strings.Contains(out, "color:#ff0000") {
		t.Errorf("Inline() = %q, want custom accent", out)
	}

	// Dangling custom selection falls back to defaults.
	out = Inline(`<a href="#">链接</a>`, "custom:gone", nil, zap.NewNop())
	if !strings.Contains(out, "color:"+theme.DefaultAccent) {
		t.Errorf("Inline() = %q, want default accent %q", out, theme.DefaultAccent)
	}
}

func TestInlineExistingStyleKept(t *testing.T) {
	out := Inline(`<p style="color:red">文字</p>`, "clean", nil, zap.NewNop())
	if !strings.Contains(out, "color:red;margin:12px 0") {
		t.Errorf("Inline() = %q, want existing style preserved before appended declarations", out)
	}
}

func TestInlineCode(t *testing.T) {
	out := Inline("<p>行内 <code>x</code></p><pre><code>block</code></pre>", "clean", nil, zap.NewNop())

	if !strings.Contains(out, "padding:0.1em 0.35em") {
		t.Errorf("Inline() = %q, want inline code padding", out)
	}
	if !strings.Contains(out, "background-color:transparent;padding:0") {
		t.Errorf("Inline() = %q, want block code background cleared", out)
	}
}

func TestInlineFrameScroll(t *testing.T) {
	in := `<blockquote class="frame frame--royal"><div class="frame__scroll"><p>内容</p></div></blockquote>`
	out := Inline(in, "royal", nil, zap.NewNop())

	if !strings.Contains(out, "max-height:360px") {
		t.Errorf("Inline() = %q, want scroll container height cap", out)
	}
	if !strings.Contains(out, "border-color:rgba(124, 58, 237, 0.22)") {
		t.Errorf("Inline() = %q, want royal scroll override", out)
	}
	if !strings.Contains(out, "box-shadow:0 10px 26px rgba(124, 58, 237, 0.12)") {
		t.Errorf("Inline() = %q, want royal frame shadow", out)
	}
}

func TestInlinePreservesContent(t *testing.T) {
	in := "<h2>标题</h2><p>第一段文字。</p><ul><li>甲</li><li>乙</li></ul>"
	out := Inline(in, "tech", nil, zap.NewNop())

	root := newElement("article")
	if parseFragment(out, root) == nil {
		t.Fatalf("Inline() produced unparsable output: %q", out)
	}
	if got, want := normalizeText(textContent(root)), "标题第一段文字。甲乙"; got != want {
		t.Errorf("Inline() text = %q, want %q", got, want)
	}
	for _, tag := range []string{"<h2", "<p", "<ul", "<li"} {
		if !strings.Contains(out, tag) {
			t.Errorf("Inline() = %q, want %q preserved", out, tag)
		}
	}
}
