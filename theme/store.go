package theme

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Import failures are recoverable and user-facing: the caller reports them
// and keeps prior state.
var (
	ErrInvalidFormat = errors.New("theme import: invalid JSON format")
	ErrMissingName   = errors.New("theme import: missing theme name")
	ErrEmptyImport   = errors.New("theme import: no usable content")
)

// VarExtractor pulls namespace variables out of stylesheet text and strips
// their declarations, leaving the remainder intact. Implemented by
// css.Parser.
type VarExtractor interface {
	ExtractVars(cssText string) map[string]string
	StripVars(cssText string) string
}

// KV is the persistence surface the store needs: best-effort string
// key-value access. Implemented by session.Store.
type KV interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// Store keeps user-imported custom themes and persists them across
// sessions as a JSON array under a single key. Malformed persisted data
// degrades to an empty store, never a startup failure.
type Store struct {
	kv     KV
	key    string
	css    VarExtractor
	log    *zap.Logger
	themes []CustomTheme
}

// NewStore loads the custom theme list from kv under the given key.
func NewStore(kv KV, key string, css VarExtractor, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{kv: kv, key: key, css: css, log: log.Named("themes")}
	s.load()
	return s
}

func (s *Store) load() {
	raw, ok := s.kv.Get(s.key)
	if !ok || strings.TrimSpace(raw) == "" {
		return
	}

	var parsed []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		s.log.Debug("Ignoring malformed persisted custom themes", zap.Error(err))
		return
	}

	// Entries are validated one by one so a single bad record does not
	// poison the rest of the list.
	for _, item := range parsed {
		var t CustomTheme
		if err := json.Unmarshal(item, &t); err != nil {
			s.log.Debug("Skipping malformed custom theme entry", zap.Error(err))
			continue
		}
		if t.ID == "" || t.Name == "" {
			continue
		}
		if t.Vars == nil {
			t.Vars = map[string]string{}
		}
		s.themes = append(s.themes, t)
	}
	s.log.Debug("Loaded custom themes", zap.Int("count", len(s.themes)))
}

func (s *Store) persist() {
	data, err := json.Marshal(s.themes)
	if err != nil {
		// CustomTheme marshaling cannot realistically fail, but persistence
		// is best-effort either way.
		s.log.Debug("Unable to serialize custom themes", zap.Error(err))
		return
	}
	s.kv.Set(s.key, string(data))
}

// List returns custom themes in stored order (most recently imported
// first). The slice is a copy.
func (s *Store) List() []CustomTheme {
	out := make([]CustomTheme, len(s.themes))
	copy(out, s.themes)
	return out
}

// Get looks up a custom theme by bare id.
func (s *Store) Get(id string) (CustomTheme, bool) {
	for _, t := range s.themes {
		if t.ID == id {
			return t, true
		}
	}
	return CustomTheme{}, false
}

// Lookup resolves a theme selection to a custom theme when the selection
// carries the custom prefix and the theme is present.
func (s *Store) Lookup(selection string) *CustomTheme {
	id, isCustom := IsCustomID(selection)
	if !isCustom {
		return nil
	}
	t, ok := s.Get(id)
	if !ok {
		return nil
	}
	return &t
}

// importPayload is the accepted JSON import shape.
type importPayload struct {
	Name     string            `json:"name"`
	Vars     map[string]string `json:"vars"`
	ExtraCSS string            `json:"extraCss"`
}

// ImportJSON parses theme JSON, generates a fresh id and stores the theme
// at the head of the list. Requires a non-empty name; vars and extraCss
// are optional.
func (s *Store) ImportJSON(text string) (CustomTheme, error) {
	var payload importPayload
	dec := json.NewDecoder(strings.NewReader(text))
	if err := dec.Decode(&payload); err != nil {
		return CustomTheme{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if strings.TrimSpace(payload.Name) == "" {
		return CustomTheme{}, ErrMissingName
	}
	if payload.Vars == nil {
		payload.Vars = map[string]string{}
	}

	t := CustomTheme{
		ID:       uuid.NewString(),
		Name:     strings.TrimSpace(payload.Name),
		Vars:     payload.Vars,
		ExtraCSS: payload.ExtraCSS,
	}
	s.themes = append([]CustomTheme{t}, s.themes...)
	s.persist()
	s.log.Info("Imported JSON theme", zap.String("name", t.Name), zap.String("id", t.ID))
	return t, nil
}

// ImportCSS extracts namespace variable declarations from stylesheet text
// into the theme's variable map; the text with those declarations stripped
// becomes extra CSS. At least one variable or some residual CSS must
// result, and the name must be non-blank.
func (s *Store) ImportCSS(name, cssText string) (CustomTheme, error) {
	name = strings.TrimSpace(name)
	cssText = strings.TrimSpace(cssText)
	if name == "" || cssText == "" {
		return CustomTheme{}, ErrEmptyImport
	}

	vars := s.css.ExtractVars(cssText)
	extra := strings.TrimSpace(s.css.StripVars(cssText))
	if len(vars) == 0 && extra == "" {
		return CustomTheme{}, ErrEmptyImport
	}

	t := CustomTheme{
		ID:       uuid.NewString(),
		Name:     name,
		Vars:     vars,
		ExtraCSS: extra,
	}
	s.themes = append([]CustomTheme{t}, s.themes...)
	s.persist()
	s.log.Info("Imported CSS theme", zap.String("name", t.Name), zap.String("id", t.ID), zap.Int("vars", len(vars)))
	return t, nil
}

// Delete removes a custom theme by bare id and reports whether it was
// present. The caller is responsible for resetting an active selection
// that pointed at the deleted theme back to the default.
func (s *Store) Delete(id string) bool {
	for i, t := range s.themes {
		if t.ID == id {
			s.themes = append(s.themes[:i], s.themes[i+1:]...)
			s.persist()
			s.log.Info("Deleted custom theme", zap.String("name", t.Name), zap.String("id", id))
			return true
		}
	}
	return false
}
