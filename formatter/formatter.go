package formatter

import (
	"strings"

	"github.com/sqlfront/sqlfront/tokenizer"
)

// Formatter pretty-prints SQL statements from the token stream: keywords
// upper-cased, clause keywords starting their own lines, select-list items
// one per line. Comments survive in place; everything else is re-spaced.
type Formatter struct {
	indentSize int
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithIndent sets the number of spaces per indentation level.
func WithIndent(n int) Option {
	return func(f *Formatter) { f.indentSize = n }
}

// New creates a Formatter with 4-space indentation.
func New(opts ...Option) *Formatter {
	f := &Formatter{indentSize: 4}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// clauseStarters begin a new output line at the current depth.
var clauseStarters = map[tokenizer.TokenType]bool{
	tokenizer.K_SELECT:    true,
	tokenizer.K_FROM:      true,
	tokenizer.K_WHERE:     true,
	tokenizer.K_GROUP:     true,
	tokenizer.K_HAVING:    true,
	tokenizer.K_ORDER:     true,
	tokenizer.K_LIMIT:     true,
	tokenizer.K_INSERT:    true,
	tokenizer.K_UPDATE:    true,
	tokenizer.K_DELETE:    true,
	tokenizer.K_CREATE:    true,
	tokenizer.K_SET:       true,
	tokenizer.K_RETURNING: true,
	tokenizer.K_UNION:     true,
	tokenizer.K_INTERSECT: true,
	tokenizer.K_EXCEPT:    true,
	tokenizer.K_WITH:      true,
}

// joinWords run together on one line: LEFT OUTER JOIN breaks once, at LEFT.
var joinWords = map[tokenizer.TokenType]bool{
	tokenizer.K_JOIN:    true,
	tokenizer.K_LEFT:    true,
	tokenizer.K_RIGHT:   true,
	tokenizer.K_FULL:    true,
	tokenizer.K_INNER:   true,
	tokenizer.K_OUTER:   true,
	tokenizer.K_CROSS:   true,
	tokenizer.K_NATURAL: true,
}

// Format lexes sql and renders it in the canonical layout. Lex errors abort
// formatting; a file that does not scan is returned untouched alongside the
// error so callers can decide what to show.
func (f *Formatter) Format(sql string) (string, error) {
	tokens, lexErrs := tokenizer.New(sql, tokenizer.Options{SkipWhitespace: true}).Lex()
	if len(lexErrs) > 0 {
		return sql, &tokenizer.TokenizerError{Errors: lexErrs}
	}
	return f.render(tokens), nil
}

type renderer struct {
	out         strings.Builder
	indentSize  int
	depth       int
	listDepth   int
	line        strings.Builder
	lastType    tokenizer.TokenType
	started     bool
	atLineStart bool
}

func (f *Formatter) render(tokens []tokenizer.Token) string {
	r := &renderer{indentSize: f.indentSize, listDepth: -1}
	for _, tok := range tokens {
		switch tok.Type {
		case tokenizer.EOF, tokenizer.WHITESPACE:
			continue
		case tokenizer.SEMICOLON:
			r.line.WriteString(";")
			r.flush()
			r.depth = 0
			r.listDepth = -1
			r.started = false
			continue
		case tokenizer.LINE_COMMENT:
			r.append(tok.Lexeme, true)
			r.flush()
			continue
		case tokenizer.OPEN_PAREN:
			r.append("(", r.spaceBefore(tok.Type))
			r.depth++
			r.lastType = tok.Type
			continue
		case tokenizer.CLOSE_PAREN:
			r.depth--
			if r.listDepth > r.depth {
				r.listDepth = -1
			}
			r.append(")", false)
			r.lastType = tok.Type
			continue
		case tokenizer.COMMA:
			r.append(",", false)
			if r.listDepth == r.depth {
				r.newline(r.depth + 1)
			}
			r.lastType = tok.Type
			continue
		}

		if r.breaksLine(tok.Type) {
			if r.listDepth == r.depth && tok.Type != tokenizer.K_SELECT {
				r.listDepth = -1
			}
			indent := r.depth
			if tok.Type == tokenizer.K_ON {
				indent++
			}
			r.newline(indent)
		}

		r.append(text(tok), r.spaceBefore(tok.Type))
		r.lastType = tok.Type

		if tok.Type == tokenizer.K_SELECT {
			r.listDepth = r.depth
			r.newline(r.depth + 1)
		}
	}
	r.flush()
	return strings.TrimRight(r.out.String(), "\n")
}

// breaksLine reports whether tok starts a new output line given what came
// before it.
func (r *renderer) breaksLine(tok tokenizer.TokenType) bool {
	if !r.started {
		r.started = true
		return false
	}
	switch {
	case tok == tokenizer.K_ON:
		return true
	case tok == tokenizer.K_VALUES:
		return r.lastType != tokenizer.K_DEFAULT
	case joinWords[tok]:
		return !joinWords[r.lastType]
	case clauseStarters[tok]:
		return true
	}
	return false
}

// spaceBefore reports whether a space separates tok from the previous token.
func (r *renderer) spaceBefore(tok tokenizer.TokenType) bool {
	if r.line.Len() == 0 || r.atLineStart {
		return false
	}
	switch tok {
	case tokenizer.COMMA, tokenizer.CLOSE_PAREN, tokenizer.SEMICOLON, tokenizer.DOT:
		return false
	case tokenizer.OPEN_PAREN:
		// Function calls and column lists hug their paren; keywords do not.
		return r.lastType.IsKeyword()
	}
	switch r.lastType {
	case tokenizer.OPEN_PAREN, tokenizer.DOT:
		return false
	}
	return true
}

func (r *renderer) append(s string, space bool) {
	if space && r.line.Len() > 0 && !r.atLineStart {
		r.line.WriteString(" ")
	}
	r.line.WriteString(s)
	r.atLineStart = false
}

// newline flushes the current line and starts the next one at the given
// indentation level.
func (r *renderer) newline(indent int) {
	r.flush()
	r.line.WriteString(strings.Repeat(" ", indent*r.indentSize))
	r.atLineStart = true
}

func (r *renderer) flush() {
	if line := strings.TrimRight(r.line.String(), " "); line != "" {
		r.out.WriteString(line)
		r.out.WriteString("\n")
	}
	r.line.Reset()
}

// text returns the canonical output spelling of a token: the upper-case
// keyword name for keywords, the source lexeme for everything else.
func text(tok tokenizer.Token) string {
	if tok.Type.IsKeyword() {
		return tok.Type.String()
	}
	return tok.Lexeme
}
