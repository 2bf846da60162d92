package theme

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
)

type fakeKV map[string]string

func (kv fakeKV) Get(key string) (string, bool) {
	v, ok := kv[key]
	return v, ok
}

func (kv fakeKV) Set(key, value string) {
	kv[key] = value
}

// fakeExtractor treats every "--wechat-NAME: VALUE;" line as a variable
// and drops those lines when stripping.
type fakeExtractor struct{}

func (fakeExtractor) ExtractVars(cssText string) map[string]string {
	out := map[string]string{}
	for _, line := range strings.Split(cssText, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(line), ";"))
		if name, value, ok := strings.Cut(line, ":"); ok && strings.HasPrefix(name, "--wechat-") {
			out[strings.TrimSpace(name)] = strings.TrimSpace(value)
		}
	}
	return out
}

func (fakeExtractor) StripVars(cssText string) string {
	var kept []string
	for _, line := range strings.Split(cssText, "\n") {
		if strings.Contains(line, "--wechat-") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

const storeKey = "themes"

func newTestStore(kv fakeKV) *Store {
	return NewStore(kv, storeKey, fakeExtractor{}, zap.NewNop())
}

func TestStoreImportJSON(t *testing.T) {
	kv := fakeKV{}
	s := newTestStore(kv)

	t.Run("valid import", func(t *testing.T) {
		got, err := s.ImportJSON(`{"name":"  Mine  ","vars":{"accent":"#123"},"extraCss":".x{}"}`)
		if err != nil {
			t.Fatalf("ImportJSON() error = %v", err)
		}
		if got.Name != "Mine" {
			t.Errorf("Name = %q, want trimmed Mine", got.Name)
		}
		if got.ID == "" {
			t.Error("imported theme did not get an id")
		}
		if got.Vars["accent"] != "#123" || got.ExtraCSS != ".x{}" {
			t.Errorf("imported theme = %+v, payload not preserved", got)
		}
		if _, ok := kv[storeKey]; !ok {
			t.Error("import did not persist the list")
		}
	})

	t.Run("missing name", func(t *testing.T) {
		if _, err := s.ImportJSON(`{"vars":{"accent":"#123"}}`); !errors.Is(err, ErrMissingName) {
			t.Errorf("ImportJSON() error = %v, want ErrMissingName", err)
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		if _, err := s.ImportJSON(`{not json`); !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("ImportJSON() error = %v, want ErrInvalidFormat", err)
		}
	})

	t.Run("newest first", func(t *testing.T) {
		second, err := s.ImportJSON(`{"name":"Second"}`)
		if err != nil {
			t.Fatalf("ImportJSON() error = %v", err)
		}
		list := s.List()
		if len(list) != 2 || list[0].ID != second.ID {
			t.Errorf("List() = %+v, want newest first", list)
		}
	})
}

func TestStoreImportCSS(t *testing.T) {
	s := newTestStore(fakeKV{})

	t.Run("vars and extra split", func(t *testing.T) {
		got, err := s.ImportCSS("From CSS", "--wechat-accent: #abc;\n.frame { color: red }")
		if err != nil {
			t.Fatalf("ImportCSS() error = %v", err)
		}
		if got.Vars["--wechat-accent"] != "#abc" {
			t.Errorf("Vars = %v, want extracted accent", got.Vars)
		}
		if !strings.Contains(got.ExtraCSS, ".frame") || strings.Contains(got.ExtraCSS, "--wechat-") {
			t.Errorf("ExtraCSS = %q, want stripped remainder", got.ExtraCSS)
		}
	})

	t.Run("blank name fails", func(t *testing.T) {
		if _, err := s.ImportCSS("   ", "--wechat-accent: #abc;"); !errors.Is(err, ErrEmptyImport) {
			t.Errorf("ImportCSS() error = %v, want ErrEmptyImport", err)
		}
	})

	t.Run("empty stylesheet fails", func(t *testing.T) {
		if _, err := s.ImportCSS("Name", "  "); !errors.Is(err, ErrEmptyImport) {
			t.Errorf("ImportCSS() error = %v, want ErrEmptyImport", err)
		}
	})
}

func TestStoreLookupAndDelete(t *testing.T) {
	kv := fakeKV{}
	s := newTestStore(kv)

	imported, err := s.ImportJSON(`{"name":"Mine"}`)
	if err != nil {
		t.Fatalf("ImportJSON() error = %v", err)
	}

	if got := s.Lookup(imported.SelectionID()); got == nil || got.ID != imported.ID {
		t.Errorf("Lookup(%q) = %v, want imported theme", imported.SelectionID(), got)
	}
	if got := s.Lookup(imported.ID); got != nil {
		t.Error("Lookup() without custom prefix must miss")
	}
	if got := s.Lookup("custom:gone"); got != nil {
		t.Error("Lookup() of unknown id must miss")
	}

	if !s.Delete(imported.ID) {
		t.Fatal("Delete() = false, want true")
	}
	if s.Delete(imported.ID) {
		t.Error("second Delete() = true, want false")
	}
	if len(s.List()) != 0 {
		t.Errorf("List() after delete = %+v, want empty", s.List())
	}

	// Deletion is persisted.
	reloaded := newTestStore(kv)
	if len(reloaded.List()) != 0 {
		t.Errorf("reloaded List() = %+v, want empty", reloaded.List())
	}
}

func TestStoreLoad(t *testing.T) {
	t.Run("persisted themes survive reload", func(t *testing.T) {
		kv := fakeKV{}
		s := newTestStore(kv)
		if _, err := s.ImportJSON(`{"name":"Keeper","vars":{"accent":"#123"}}`); err != nil {
			t.Fatalf("ImportJSON() error = %v", err)
		}

		reloaded := newTestStore(kv)
		list := reloaded.List()
		if len(list) != 1 || list[0].Name != "Keeper" {
			t.Fatalf("reloaded List() = %+v, want Keeper", list)
		}
	})

	t.Run("malformed persisted data degrades to empty", func(t *testing.T) {
		kv := fakeKV{storeKey: "not json at all"}
		if got := newTestStore(kv).List(); len(got) != 0 {
			t.Errorf("List() = %+v, want empty store", got)
		}
	})

	t.Run("bad entries are skipped, good ones kept", func(t *testing.T) {
		entries := []any{
			map[string]any{"id": "good", "name": "Good"},
			map[string]any{"id": "", "name": "No id"},
			"not an object",
		}
		data, err := json.Marshal(entries)
		if err != nil {
			t.Fatal(err)
		}
		kv := fakeKV{storeKey: string(data)}

		list := newTestStore(kv).List()
		if len(list) != 1 || list[0].ID != "good" {
			t.Errorf("List() = %+v, want single good entry", list)
		}
	})
}
