package css

import (
	"bytes"
	"regexp"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	cssparse "github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"

	"wac/theme"
)

// varDeclPattern matches complete theme variable declarations for textual
// stripping. Stripping stays textual on purpose: everything that is not a
// theme variable must survive byte-for-byte, including CSS we could not
// fully parse.
var varDeclPattern = regexp.MustCompile(`--wechat-[a-zA-Z0-9-]+\s*:\s*[^;]+;`)

// Parser extracts theme variables from stylesheet text.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new theme CSS parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// ExtractVars collects every custom property declaration in the reserved
// --wechat- namespace, from any rule in the stylesheet. Later declarations
// of the same variable win, matching cascade order. Declarations outside
// the namespace are ignored.
func (p *Parser) ExtractVars(cssText string) map[string]string {
	vars := make(map[string]string)

	input := parse.NewInput(bytes.NewReader([]byte(cssText)))
	parser := cssparse.NewParser(input, false)

	for {
		gt, _, data := parser.Next()
		switch gt {
		case cssparse.ErrorGrammar:
			if err := parser.Err(); err != nil && err.Error() != "EOF" {
				p.log.Debug("CSS parse error", zap.Error(err))
			}
			p.log.Debug("Extracted theme variables", zap.Int("count", len(vars)))
			return vars

		case cssparse.CustomPropertyGrammar:
			name := strings.TrimSpace(string(data))
			if !strings.HasPrefix(name, theme.VarPrefix) {
				continue
			}
			value := tokensToValue(parser.Values())
			if value == "" {
				continue
			}
			vars[name] = value
		}
	}
}

// StripVars removes every namespace variable declaration from the text and
// returns the remainder unchanged otherwise. The remainder is what a CSS
// theme import keeps as extra stylesheet text.
func (p *Parser) StripVars(cssText string) string {
	return varDeclPattern.ReplaceAllString(cssText, "")
}

// tokensToValue joins declaration value tokens into a single trimmed
// string, collapsing whitespace runs to single spaces.
func tokensToValue(tokens []cssparse.Token) string {
	var parts []string
	for _, t := range tokens {
		if t.TokenType == cssparse.WhitespaceToken {
			if len(parts) > 0 && parts[len(parts)-1] != " " {
				parts = append(parts, " ")
			}
			continue
		}
		parts = append(parts, string(t.Data))
	}
	return strings.TrimSpace(strings.Join(parts, ""))
}
