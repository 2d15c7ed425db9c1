package tokenizer

import "errors"

// Sentinel errors
var (
	ErrUnexpectedCharacter      = errors.New("unexpected character")
	ErrUnterminatedString       = errors.New("unterminated string literal")
	ErrUnterminatedIdentifier   = errors.New("unterminated quoted identifier")
	ErrUnterminatedComment      = errors.New("unterminated block comment")
	ErrInvalidNumber            = errors.New("invalid number format")
	ErrInvalidSingleColon       = errors.New("invalid single colon")
	ErrInvalidBindVariableIndex = errors.New("invalid bind variable index")
)

// TokenType represents the type of a token
type TokenType int

const (
	// Basic tokens
	EOF TokenType = iota
	WHITESPACE
	LINE_COMMENT  // -- line comment
	BLOCK_COMMENT // /* block comment */
	IDENTIFIER    // bare, "quoted" or [bracketed] identifiers
	NUMBER        // numeric literals
	STRING        // 'string' literals
	BLOB          // x'...' blob literals
	BIND          // ?, ?N, :name, @name, $name

	// Punctuation
	OPEN_PAREN  // (
	CLOSE_PAREN // )
	COMMA       // ,
	SEMICOLON   // ;
	DOT         // .

	// Operators
	EQUAL         // =, ==
	NOT_EQUAL     // <>, !=
	LESS_THAN     // <
	LESS_EQUAL    // <=
	GREATER_THAN  // >
	GREATER_EQUAL // >=
	PLUS          // +
	MINUS         // -
	STAR          // *
	SLASH         // /
	PERCENT       // %
	CONCAT        // ||
	LEFT_SHIFT    // <<
	RIGHT_SHIFT   // >>
	AMPERSAND     // &
	PIPE          // |
	TILDE         // ~

	// Statement keywords
	K_SELECT
	K_INSERT
	K_UPDATE
	K_DELETE
	K_CREATE
	K_TABLE
	K_INDEX
	K_TRIGGER
	K_VIEW
	K_DROP
	K_ALTER

	// Clause keywords
	K_FROM
	K_WHERE
	K_GROUP
	K_BY
	K_HAVING
	K_ORDER
	K_LIMIT
	K_OFFSET
	K_AS
	K_DISTINCT
	K_ALL
	K_INTO
	K_VALUES
	K_SET
	K_DEFAULT
	K_RETURNING
	K_WITH
	K_RECURSIVE
	K_UNION
	K_INTERSECT
	K_EXCEPT

	// Join keywords
	K_JOIN
	K_LEFT
	K_RIGHT
	K_FULL
	K_INNER
	K_OUTER
	K_CROSS
	K_NATURAL
	K_ON
	K_USING

	// Expression keywords
	K_AND
	K_OR
	K_NOT
	K_IN
	K_IS
	K_NULL
	K_LIKE
	K_GLOB
	K_MATCH
	K_REGEXP
	K_ESCAPE
	K_BETWEEN
	K_CASE
	K_WHEN
	K_THEN
	K_ELSE
	K_END
	K_CAST
	K_COLLATE
	K_EXISTS
	K_TRUE
	K_FALSE

	// Window keywords
	K_OVER
	K_PARTITION
	K_RANGE
	K_ROWS
	K_GROUPS
	K_UNBOUNDED
	K_PRECEDING
	K_FOLLOWING
	K_CURRENT
	K_ROW
	K_WINDOW
	K_FILTER

	// Ordering keywords
	K_ASC
	K_DESC
	K_NULLS
	K_FIRST
	K_LAST

	// Constraint keywords
	K_PRIMARY
	K_KEY
	K_UNIQUE
	K_AUTOINCREMENT
	K_CHECK
	K_REFERENCES
	K_CONSTRAINT
	K_FOREIGN

	// Conflict resolution keywords
	K_CONFLICT
	K_REPLACE
	K_ABORT
	K_FAIL
	K_IGNORE
	K_ROLLBACK

	// Trigger keywords
	K_BEFORE
	K_AFTER
	K_INSTEAD
	K_OF
	K_FOR
	K_EACH
	K_BEGIN
	K_IF
	K_TEMP
	K_TEMPORARY
)

// tokenNames maps every token type to its display name. Keyword entries double as
// the canonical upper-case spelling used by the keyword lookup.
var tokenNames = map[TokenType]string{
	EOF:           "EOF",
	WHITESPACE:    "WHITESPACE",
	LINE_COMMENT:  "LINE_COMMENT",
	BLOCK_COMMENT: "BLOCK_COMMENT",
	IDENTIFIER:    "IDENTIFIER",
	NUMBER:        "NUMBER",
	STRING:        "STRING",
	BLOB:          "BLOB",
	BIND:          "BIND",
	OPEN_PAREN:    "OPEN_PAREN",
	CLOSE_PAREN:   "CLOSE_PAREN",
	COMMA:         "COMMA",
	SEMICOLON:     "SEMICOLON",
	DOT:           "DOT",
	EQUAL:         "EQUAL",
	NOT_EQUAL:     "NOT_EQUAL",
	LESS_THAN:     "LESS_THAN",
	LESS_EQUAL:    "LESS_EQUAL",
	GREATER_THAN:  "GREATER_THAN",
	GREATER_EQUAL: "GREATER_EQUAL",
	PLUS:          "PLUS",
	MINUS:         "MINUS",
	STAR:          "STAR",
	SLASH:         "SLASH",
	PERCENT:       "PERCENT",
	CONCAT:        "CONCAT",
	LEFT_SHIFT:    "LEFT_SHIFT",
	RIGHT_SHIFT:   "RIGHT_SHIFT",
	AMPERSAND:     "AMPERSAND",
	PIPE:          "PIPE",
	TILDE:         "TILDE",

	K_SELECT:        "SELECT",
	K_INSERT:        "INSERT",
	K_UPDATE:        "UPDATE",
	K_DELETE:        "DELETE",
	K_CREATE:        "CREATE",
	K_TABLE:         "TABLE",
	K_INDEX:         "INDEX",
	K_TRIGGER:       "TRIGGER",
	K_VIEW:          "VIEW",
	K_DROP:          "DROP",
	K_ALTER:         "ALTER",
	K_FROM:          "FROM",
	K_WHERE:         "WHERE",
	K_GROUP:         "GROUP",
	K_BY:            "BY",
	K_HAVING:        "HAVING",
	K_ORDER:         "ORDER",
	K_LIMIT:         "LIMIT",
	K_OFFSET:        "OFFSET",
	K_AS:            "AS",
	K_DISTINCT:      "DISTINCT",
	K_ALL:           "ALL",
	K_INTO:          "INTO",
	K_VALUES:        "VALUES",
	K_SET:           "SET",
	K_DEFAULT:       "DEFAULT",
	K_RETURNING:     "RETURNING",
	K_WITH:          "WITH",
	K_RECURSIVE:     "RECURSIVE",
	K_UNION:         "UNION",
	K_INTERSECT:     "INTERSECT",
	K_EXCEPT:        "EXCEPT",
	K_JOIN:          "JOIN",
	K_LEFT:          "LEFT",
	K_RIGHT:         "RIGHT",
	K_FULL:          "FULL",
	K_INNER:         "INNER",
	K_OUTER:         "OUTER",
	K_CROSS:         "CROSS",
	K_NATURAL:       "NATURAL",
	K_ON:            "ON",
	K_USING:         "USING",
	K_AND:           "AND",
	K_OR:            "OR",
	K_NOT:           "NOT",
	K_IN:            "IN",
	K_IS:            "IS",
	K_NULL:          "NULL",
	K_LIKE:          "LIKE",
	K_GLOB:          "GLOB",
	K_MATCH:         "MATCH",
	K_REGEXP:        "REGEXP",
	K_ESCAPE:        "ESCAPE",
	K_BETWEEN:       "BETWEEN",
	K_CASE:          "CASE",
	K_WHEN:          "WHEN",
	K_THEN:          "THEN",
	K_ELSE:          "ELSE",
	K_END:           "END",
	K_CAST:          "CAST",
	K_COLLATE:       "COLLATE",
	K_EXISTS:        "EXISTS",
	K_TRUE:          "TRUE",
	K_FALSE:         "FALSE",
	K_OVER:          "OVER",
	K_PARTITION:     "PARTITION",
	K_RANGE:         "RANGE",
	K_ROWS:          "ROWS",
	K_GROUPS:        "GROUPS",
	K_UNBOUNDED:     "UNBOUNDED",
	K_PRECEDING:     "PRECEDING",
	K_FOLLOWING:     "FOLLOWING",
	K_CURRENT:       "CURRENT",
	K_ROW:           "ROW",
	K_WINDOW:        "WINDOW",
	K_FILTER:        "FILTER",
	K_ASC:           "ASC",
	K_DESC:          "DESC",
	K_NULLS:         "NULLS",
	K_FIRST:         "FIRST",
	K_LAST:          "LAST",
	K_PRIMARY:       "PRIMARY",
	K_KEY:           "KEY",
	K_UNIQUE:        "UNIQUE",
	K_AUTOINCREMENT: "AUTOINCREMENT",
	K_CHECK:         "CHECK",
	K_REFERENCES:    "REFERENCES",
	K_CONSTRAINT:    "CONSTRAINT",
	K_FOREIGN:       "FOREIGN",
	K_CONFLICT:      "CONFLICT",
	K_REPLACE:       "REPLACE",
	K_ABORT:         "ABORT",
	K_FAIL:          "FAIL",
	K_IGNORE:        "IGNORE",
	K_ROLLBACK:      "ROLLBACK",
	K_BEFORE:        "BEFORE",
	K_AFTER:         "AFTER",
	K_INSTEAD:       "INSTEAD",
	K_OF:            "OF",
	K_FOR:           "FOR",
	K_EACH:          "EACH",
	K_BEGIN:         "BEGIN",
	K_IF:            "IF",
	K_TEMP:          "TEMP",
	K_TEMPORARY:     "TEMPORARY",
}

// keywordTypes is the reverse lookup used after lexing a word. Keys are the
// canonical upper-case spellings from tokenNames.
var keywordTypes = func() map[string]TokenType {
	m := make(map[string]TokenType, 128)
	for tt, name := range tokenNames {
		if tt >= K_SELECT {
			m[name] = tt
		}
	}
	return m
}()

// String returns the string representation of TokenType
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsKeyword reports whether the token type is a SQL keyword.
func (t TokenType) IsKeyword() bool {
	return t >= K_SELECT
}

// KeywordType looks up the token type for a word, ASCII-case-insensitively.
// The second return value is false if the word is not a keyword.
func KeywordType(word string) (TokenType, bool) {
	tt, ok := keywordTypes[asciiUpper(word)]
	return tt, ok
}

func asciiUpper(s string) string {
	buf := []byte(s)
	for i, c := range buf {
		if c >= 'a' && c <= 'z' {
			buf[i] = c - ('a' - 'A')
		}
	}
	return string(buf)
}

// Span identifies a half-open byte range in the source text.
type Span struct {
	Offset int
	Length int
}

// End returns the byte offset just past the span.
func (s Span) End() int {
	return s.Offset + s.Length
}

// BindKind distinguishes the placeholder families.
type BindKind int

const (
	BindAnonymous BindKind = iota // ?
	BindIndexed                   // ?N
	BindNamed                     // :name, @name, $name
)

// BindInfo is the Value payload of a BIND token. Index is the explicit index for
// BindIndexed tokens and zero otherwise; document-order indexing happens in the
// parser, not here.
type BindInfo struct {
	Kind  BindKind
	Name  string
	Index int
}

// Token represents a single lexical token.
type Token struct {
	Type   TokenType
	Span   Span
	Lexeme string
	// Value carries the decoded payload: decimal.Decimal for NUMBER, the
	// unescaped text for STRING, the unquoted name for IDENTIFIER, and a
	// BindInfo for BIND. Nil for everything else.
	Value any
}

// String returns the string representation of Token
func (t Token) String() string {
	return t.Type.String() + ": " + t.Lexeme
}
