package tokenizer

import (
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// LexError is a single lexer diagnostic with its source location.
type LexError struct {
	Err    error
	Span   Span
	Line   int
	Column int
}

// Error implements error
func (e *LexError) Error() string {
	return fmt.Sprintf("%s at line %d, column %d", e.Err, e.Line, e.Column)
}

// Unwrap returns the sentinel error category.
func (e *LexError) Unwrap() error {
	return e.Err
}

// TokenizerError aggregates all lexer diagnostics for one source string. It is
// returned when the caller asks for a token stream and the scan produced any
// error at all.
type TokenizerError struct {
	Errors []*LexError
}

// Error implements error
func (e *TokenizerError) Error() string {
	if len(e.Errors) == 1 {
		return "tokenize failed: " + e.Errors[0].Error()
	}
	parts := make([]string, len(e.Errors))
	for i, le := range e.Errors {
		parts[i] = le.Error()
	}
	return fmt.Sprintf("tokenize failed with %d errors: %s", len(e.Errors), strings.Join(parts, "; "))
}

// Unwrap exposes the individual lex errors to errors.Is/As.
func (e *TokenizerError) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, le := range e.Errors {
		errs[i] = le
	}
	return errs
}

// Options are options for the tokenizer
type Options struct {
	SkipWhitespace bool
	SkipComments   bool
}

// Tokenizer turns a SQL source string into a token stream.
type Tokenizer struct {
	input   string
	options Options
}

// New creates a new Tokenizer
func New(input string, options ...Options) *Tokenizer {
	var opts Options
	if len(options) > 0 {
		opts = options[0]
	}
	return &Tokenizer{input: input, options: opts}
}

// Tokens returns an iterator of tokens. Lexer failures are yielded in-band as
// errors; scanning always continues to EOF.
func (t *Tokenizer) Tokens() iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		s := &scanner{input: t.input, line: 1, column: 1}
		for {
			token, lexErr := s.next()
			if lexErr != nil {
				if !yield(Token{}, lexErr) {
					return
				}
				continue
			}
			if token.Type == EOF {
				yield(token, nil)
				return
			}
			if t.options.SkipWhitespace && token.Type == WHITESPACE {
				continue
			}
			if t.options.SkipComments && (token.Type == LINE_COMMENT || token.Type == BLOCK_COMMENT) {
				continue
			}
			if !yield(token, nil) {
				return
			}
		}
	}
}

// Lex scans the whole input and returns the tokens (terminated by EOF) together
// with every lexer error encountered. The token slice is usable even when
// errors are present.
func (t *Tokenizer) Lex() ([]Token, []*LexError) {
	tokens := make([]Token, 0, 64)
	var errs []*LexError
	for token, err := range t.Tokens() {
		if err != nil {
			var le *LexError
			if lexErr, ok := err.(*LexError); ok {
				le = lexErr
			} else {
				le = &LexError{Err: err}
			}
			errs = append(errs, le)
			continue
		}
		tokens = append(tokens, token)
		if token.Type == EOF {
			break
		}
	}
	return tokens, errs
}

// scanner is the internal cursor over the input bytes.
type scanner struct {
	input  string
	pos    int
	line   int
	column int
}

func (s *scanner) peek() byte {
	if s.pos < len(s.input) {
		return s.input[s.pos]
	}
	return 0
}

func (s *scanner) peekAt(n int) byte {
	if s.pos+n < len(s.input) {
		return s.input[s.pos+n]
	}
	return 0
}

func (s *scanner) advance() byte {
	c := s.input[s.pos]
	s.pos++
	if c == '\n' {
		s.line++
		s.column = 1
	} else {
		s.column++
	}
	return c
}

func (s *scanner) token(typ TokenType, start int, value any) Token {
	return Token{
		Type:   typ,
		Span:   Span{Offset: start, Length: s.pos - start},
		Lexeme: s.input[start:s.pos],
		Value:  value,
	}
}

func (s *scanner) errorAt(err error, start, line, column int) *LexError {
	return &LexError{
		Err:    err,
		Span:   Span{Offset: start, Length: s.pos - start},
		Line:   line,
		Column: column,
	}
}

// next produces the next token, or a lexer error. Exactly one of the results is
// meaningful. The scanner always makes progress, so callers can keep pulling
// after an error.
func (s *scanner) next() (Token, *LexError) {
	start := s.pos
	line := s.line
	column := s.column
	c := s.peek()

	switch {
	case s.pos >= len(s.input):
		return Token{Type: EOF, Span: Span{Offset: s.pos}}, nil
	case c == ' ' || c == '\t' || c == '\r' || c == '\n':
		for s.pos < len(s.input) && isSpace(s.peek()) {
			s.advance()
		}
		return s.token(WHITESPACE, start, nil), nil
	case c == '-':
		if s.peekAt(1) == '-' {
			for s.pos < len(s.input) && s.peek() != '\n' {
				s.advance()
			}
			return s.token(LINE_COMMENT, start, nil), nil
		}
		s.advance()
		return s.token(MINUS, start, nil), nil
	case c == '/':
		if s.peekAt(1) == '*' {
			return s.readBlockComment(start, line, column)
		}
		s.advance()
		return s.token(SLASH, start, nil), nil
	case c == '\'':
		return s.readString(start, line, column)
	case (c == 'x' || c == 'X') && s.peekAt(1) == '\'':
		return s.readBlob(start, line, column)
	case c == '"':
		return s.readQuotedIdentifier(start, line, column)
	case c == '[':
		return s.readBracketIdentifier(start, line, column)
	case isIdentStart(c):
		return s.readWord(start), nil
	case isDigit(c) || (c == '.' && isDigit(s.peekAt(1))):
		return s.readNumber(start, line, column)
	case c == '?':
		return s.readOrdinalBind(start, line, column)
	case c == ':' || c == '@' || c == '$':
		return s.readNamedBind(start, line, column)
	default:
		return s.readOperator(start, line, column)
	}
}

func (s *scanner) readBlockComment(start, line, column int) (Token, *LexError) {
	s.advance() // '/'
	s.advance() // '*'
	for s.pos < len(s.input) {
		if s.peek() == '*' && s.peekAt(1) == '/' {
			s.advance()
			s.advance()
			return s.token(BLOCK_COMMENT, start, nil), nil
		}
		s.advance()
	}
	return Token{}, s.errorAt(ErrUnterminatedComment, start, line, column)
}

// readString handles '...' literals with '' as the escape for a single quote.
func (s *scanner) readString(start, line, column int) (Token, *LexError) {
	s.advance() // opening quote
	var value strings.Builder
	for s.pos < len(s.input) {
		c := s.advance()
		if c != '\'' {
			value.WriteByte(c)
			continue
		}
		if s.peek() == '\'' {
			s.advance()
			value.WriteByte('\'')
			continue
		}
		return s.token(STRING, start, value.String()), nil
	}
	return Token{}, s.errorAt(ErrUnterminatedString, start, line, column)
}

func (s *scanner) readBlob(start, line, column int) (Token, *LexError) {
	s.advance() // x
	s.advance() // opening quote
	valueStart := s.pos
	for s.pos < len(s.input) {
		if s.peek() == '\'' {
			value := s.input[valueStart:s.pos]
			s.advance()
			return s.token(BLOB, start, value), nil
		}
		s.advance()
	}
	return Token{}, s.errorAt(ErrUnterminatedString, start, line, column)
}

// readQuotedIdentifier handles "..." with "" as the escape for a double quote.
func (s *scanner) readQuotedIdentifier(start, line, column int) (Token, *LexError) {
	s.advance() // opening quote
	var value strings.Builder
	for s.pos < len(s.input) {
		c := s.advance()
		if c != '"' {
			value.WriteByte(c)
			continue
		}
		if s.peek() == '"' {
			s.advance()
			value.WriteByte('"')
			continue
		}
		return s.token(IDENTIFIER, start, value.String()), nil
	}
	return Token{}, s.errorAt(ErrUnterminatedIdentifier, start, line, column)
}

func (s *scanner) readBracketIdentifier(start, line, column int) (Token, *LexError) {
	s.advance() // '['
	valueStart := s.pos
	for s.pos < len(s.input) {
		if s.peek() == ']' {
			value := s.input[valueStart:s.pos]
			s.advance()
			return s.token(IDENTIFIER, start, value), nil
		}
		s.advance()
	}
	return Token{}, s.errorAt(ErrUnterminatedIdentifier, start, line, column)
}

// readWord scans a bare identifier and reclassifies it as a keyword when the
// upper-cased spelling is in the keyword set.
func (s *scanner) readWord(start int) Token {
	for s.pos < len(s.input) && isIdentPart(s.peek()) {
		s.advance()
	}
	word := s.input[start:s.pos]
	if tt, ok := KeywordType(word); ok {
		return s.token(tt, start, nil)
	}
	return s.token(IDENTIFIER, start, word)
}

func (s *scanner) readNumber(start, line, column int) (Token, *LexError) {
	if s.peek() == '0' && (s.peekAt(1) == 'x' || s.peekAt(1) == 'X') {
		s.advance()
		s.advance()
		digitStart := s.pos
		for s.pos < len(s.input) && isHexDigit(s.peek()) {
			s.advance()
		}
		if s.pos == digitStart {
			return Token{}, s.errorAt(ErrInvalidNumber, start, line, column)
		}
		u, err := strconv.ParseUint(s.input[digitStart:s.pos], 16, 64)
		if err != nil {
			return Token{}, s.errorAt(ErrInvalidNumber, start, line, column)
		}
		return s.token(NUMBER, start, decimal.NewFromUint64(u)), nil
	}

	for s.pos < len(s.input) && isDigit(s.peek()) {
		s.advance()
	}
	if s.peek() == '.' && isDigit(s.peekAt(1)) {
		s.advance()
		for s.pos < len(s.input) && isDigit(s.peek()) {
			s.advance()
		}
	}
	// exponent is consumed only when it is well-formed; otherwise the 'e'
	// starts the next word token
	if e := s.peek(); e == 'e' || e == 'E' {
		lookahead := 1
		if sign := s.peekAt(1); sign == '+' || sign == '-' {
			lookahead = 2
		}
		if isDigit(s.peekAt(lookahead)) {
			for range lookahead {
				s.advance()
			}
			for s.pos < len(s.input) && isDigit(s.peek()) {
				s.advance()
			}
		}
	}

	value, err := decimal.NewFromString(s.input[start:s.pos])
	if err != nil {
		return Token{}, s.errorAt(ErrInvalidNumber, start, line, column)
	}
	return s.token(NUMBER, start, value), nil
}

func (s *scanner) readOrdinalBind(start, line, column int) (Token, *LexError) {
	s.advance() // '?'
	digitStart := s.pos
	for s.pos < len(s.input) && isDigit(s.peek()) {
		s.advance()
	}
	if s.pos == digitStart {
		return s.token(BIND, start, BindInfo{Kind: BindAnonymous}), nil
	}
	n, err := strconv.Atoi(s.input[digitStart:s.pos])
	if err != nil || n < 1 {
		return Token{}, s.errorAt(ErrInvalidBindVariableIndex, start, line, column)
	}
	return s.token(BIND, start, BindInfo{Kind: BindIndexed, Index: n}), nil
}

func (s *scanner) readNamedBind(start, line, column int) (Token, *LexError) {
	prefix := s.advance()
	nameStart := s.pos
	for s.pos < len(s.input) && isIdentPart(s.peek()) {
		s.advance()
	}
	if s.pos == nameStart {
		if prefix == ':' {
			return Token{}, s.errorAt(ErrInvalidSingleColon, start, line, column)
		}
		return Token{}, s.errorAt(ErrUnexpectedCharacter, start, line, column)
	}
	name := s.input[nameStart:s.pos]
	return s.token(BIND, start, BindInfo{Kind: BindNamed, Name: name}), nil
}

func (s *scanner) readOperator(start, line, column int) (Token, *LexError) {
	c := s.advance()
	switch c {
	case '(':
		return s.token(OPEN_PAREN, start, nil), nil
	case ')':
		return s.token(CLOSE_PAREN, start, nil), nil
	case ',':
		return s.token(COMMA, start, nil), nil
	case ';':
		return s.token(SEMICOLON, start, nil), nil
	case '.':
		return s.token(DOT, start, nil), nil
	case '+':
		return s.token(PLUS, start, nil), nil
	case '*':
		return s.token(STAR, start, nil), nil
	case '%':
		return s.token(PERCENT, start, nil), nil
	case '~':
		return s.token(TILDE, start, nil), nil
	case '&':
		return s.token(AMPERSAND, start, nil), nil
	case '=':
		if s.peek() == '=' {
			s.advance()
		}
		return s.token(EQUAL, start, nil), nil
	case '!':
		if s.peek() == '=' {
			s.advance()
			return s.token(NOT_EQUAL, start, nil), nil
		}
		return Token{}, s.errorAt(ErrUnexpectedCharacter, start, line, column)
	case '<':
		switch s.peek() {
		case '=':
			s.advance()
			return s.token(LESS_EQUAL, start, nil), nil
		case '>':
			s.advance()
			return s.token(NOT_EQUAL, start, nil), nil
		case '<':
			s.advance()
			return s.token(LEFT_SHIFT, start, nil), nil
		}
		return s.token(LESS_THAN, start, nil), nil
	case '>':
		switch s.peek() {
		case '=':
			s.advance()
			return s.token(GREATER_EQUAL, start, nil), nil
		case '>':
			s.advance()
			return s.token(RIGHT_SHIFT, start, nil), nil
		}
		return s.token(GREATER_THAN, start, nil), nil
	case '|':
		if s.peek() == '|' {
			s.advance()
			return s.token(CONCAT, start, nil), nil
		}
		return s.token(PIPE, start, nil), nil
	default:
		return Token{}, s.errorAt(ErrUnexpectedCharacter, start, line, column)
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isIdentStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
