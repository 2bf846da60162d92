package css

import (
	"strings"
	"testing"

	"wac/theme"
)

func TestBase(t *testing.T) {
	base := Base()

	for _, sel := range []string{":root", ".wechat-article", ".wechat-article h2.titlebar", ".wechat-article blockquote.callout--warn", ".wechat-article .frame__scroll"} {
		if !strings.Contains(base, sel) {
			t.Errorf("Base() is missing selector %q", sel)
		}
	}
	if strings.HasSuffix(base, "\n") {
		t.Error("Base() should be trimmed")
	}
}

func TestForBuiltIn(t *testing.T) {
	t.Run("clean has no overrides", func(t *testing.T) {
		got := ForBuiltIn("clean")
		if strings.Contains(got, "--wechat-") {
			t.Errorf("ForBuiltIn(clean) = %q, want no variable overrides", got)
		}
	})

	t.Run("unknown behaves like clean", func(t *testing.T) {
		if got := ForBuiltIn("nope"); got != ForBuiltIn("clean") {
			t.Errorf("ForBuiltIn(nope) = %q, want clean stylesheet", got)
		}
	})

	t.Run("warm overrides variables", func(t *testing.T) {
		got := ForBuiltIn("warm")
		if !strings.Contains(got, ".wechat-article {") {
			t.Errorf("ForBuiltIn(warm) = %q, want override block on article root", got)
		}
		if !strings.Contains(got, "--wechat-accent: #b42318;") {
			t.Errorf("ForBuiltIn(warm) = %q, want warm accent declaration", got)
		}
	})

	t.Run("royal appends extra css", func(t *testing.T) {
		got := ForBuiltIn("royal")
		if !strings.Contains(got, ".frame--royal") {
			t.Errorf("ForBuiltIn(royal) = %q, want royal frame extra css", got)
		}
	})

	t.Run("declarations are sorted", func(t *testing.T) {
		got := ForBuiltIn("grape")
		accent := strings.Index(got, "--wechat-accent:")
		heading := strings.Index(got, "--wechat-heading:")
		if accent == -1 || heading == -1 || accent > heading {
			t.Errorf("ForBuiltIn(grape) = %q, want sorted declarations", got)
		}
	})
}

func TestForTheme(t *testing.T) {
	custom := &theme.CustomTheme{
		ID:       "id1",
		Name:     "mine",
		Vars:     map[string]string{"accent": "#123456", "bogus": "", "not-ours": "x"},
		ExtraCSS: ".wechat-article .card { border-width: 2px }",
	}

	t.Run("custom selection", func(t *testing.T) {
		got := ForTheme(custom.SelectionID(), custom)
		if !strings.Contains(got, "--wechat-accent: #123456;") {
			t.Errorf("ForTheme() = %q, want normalized accent", got)
		}
		if !strings.Contains(got, "border-width: 2px") {
			t.Errorf("ForTheme() = %q, want extra css appended", got)
		}
		if strings.Contains(got, "bogus") {
			t.Errorf("ForTheme() = %q, blank values must be dropped", got)
		}
	})

	t.Run("dangling custom selection", func(t *testing.T) {
		if got := ForTheme("custom:gone", nil); got != "" {
			t.Errorf("ForTheme(custom:gone) = %q, want empty", got)
		}
	})

	t.Run("built-in id ignores custom", func(t *testing.T) {
		if got := ForTheme("warm", nil); !strings.Contains(got, "#b42318") {
			t.Errorf("ForTheme(warm) = %q, want built-in stylesheet", got)
		}
	})
}

func TestFull(t *testing.T) {
	got := Full("tech", nil)
	if !strings.HasPrefix(got, Base()) {
		t.Error("Full() must start with the base stylesheet")
	}
	if !strings.Contains(got, "--wechat-accent: #0f766e;") {
		t.Errorf("Full(tech) is missing theme overrides")
	}
}

func TestScoped(t *testing.T) {
	css := ":root { --x: 1 }\n.wechat-article p { margin: 0 }"

	got := Scoped(css, "preview")
	if strings.Contains(got, ":root") {
		t.Errorf("Scoped() = %q, :root must be rewritten", got)
	}
	if !strings.Contains(got, ".preview { --x: 1 }") {
		t.Errorf("Scoped() = %q, want scope class replacing :root", got)
	}
	if !strings.Contains(got, ".preview .wechat-article p") {
		t.Errorf("Scoped() = %q, want scoped article selector", got)
	}

	// Two scopes never bleed into each other.
	other := Scoped(css, ".other")
	if strings.Contains(other, "preview") || strings.Contains(got, "other") {
		t.Error("Scoped() outputs cross-contaminate between scopes")
	}
}
