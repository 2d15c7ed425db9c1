package parser

import (
	"fmt"

	"github.com/sqlfront/sqlfront/tokenizer"
)

// Parser turns a token stream into an AST. One Parser handles one source
// string. Errors accumulate instead of stopping the parse; a statement that
// cannot be finished is abandoned and replaced with a BadStatement.
type Parser struct {
	src     string
	tokens  []tokenizer.Token
	pos     int
	errors  []*ParseError
	binds   *bindNamespace
	partial []Node
}

// bindNamespace assigns stable 1-based indexes to bind variables in document
// order. Explicit ?N indexes raise the high-water mark so later anonymous
// placeholders never collide; named variables share one index per name.
type bindNamespace struct {
	high  int
	named map[string]int
}

func newBindNamespace() *bindNamespace {
	return &bindNamespace{named: make(map[string]int)}
}

func (ns *bindNamespace) anonymous() int {
	ns.high++
	return ns.high
}

func (ns *bindNamespace) explicit(index int) int {
	if index > ns.high {
		ns.high = index
	}
	return index
}

func (ns *bindNamespace) name(name string) int {
	if index, ok := ns.named[name]; ok {
		return index
	}
	ns.high++
	ns.named[name] = ns.high
	return ns.high
}

// bailout is the panic payload of statement-level error recovery. Anything
// else escaping the parser is a genuine bug and re-panics.
type bailout struct{}

// New prepares a parser over sql. Lexical errors become parse errors up front;
// the text that failed to lex is left out of the token stream, and parsing
// goes on over the remaining tokens.
func New(sql string) *Parser {
	tokens, lexErrs := tokenizer.New(sql, tokenizer.Options{SkipWhitespace: true, SkipComments: true}).Lex()
	p := &Parser{src: sql, tokens: tokens, binds: newBindNamespace()}
	for _, lexErr := range lexErrs {
		p.errors = append(p.errors, &ParseError{Err: lexErr.Err, Span: lexErr.Span})
	}
	return p
}

// Parse parses sql as a single statement. On syntax errors the returned
// statement may be a BadStatement and the error is a *ParserError carrying
// everything found.
func Parse(sql string) (Statement, error) {
	stmts, err := ParseScript(sql)
	if len(stmts) == 0 {
		return nil, err
	}
	return stmts[0], err
}

// ParseScript parses a script of semicolon-separated statements. Parent links
// are assigned before returning, so the trees are ready for analysis.
func ParseScript(sql string) ([]Statement, error) {
	p := New(sql)
	stmts := p.parseScript()
	if len(p.errors) > 0 {
		return stmts, &ParserError{Errors: p.errors}
	}
	return stmts, nil
}

func (p *Parser) parseScript() []Statement {
	var stmts []Statement
	for {
		for p.accept(tokenizer.SEMICOLON) {
		}
		if p.at(tokenizer.EOF) {
			break
		}
		stmt := p.parseStatement()
		if stmt != nil {
			AssignParents(stmt)
			stmts = append(stmts, stmt)
		}
	}
	if len(stmts) == 0 && len(p.errors) == 0 {
		p.errorHere(ErrEmptyInput, "")
	}
	return stmts
}

func (p *Parser) parseStatement() (stmt Statement) {
	p.partial = nil
	start := p.start()
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			p.synchronize()
			bad := &BadStatement{Partial: p.partial}
			bad.span = p.spanFrom(start)
			stmt = bad
		}
	}()

	switch p.peek().Type {
	case tokenizer.K_WITH:
		with := p.parseWithClause()
		switch p.peek().Type {
		case tokenizer.K_SELECT:
			return p.parseSelect(with)
		case tokenizer.K_INSERT, tokenizer.K_REPLACE:
			return p.parseInsert(with)
		case tokenizer.K_UPDATE:
			return p.parseUpdate(with)
		case tokenizer.K_DELETE:
			return p.parseDelete(with)
		default:
			p.keep(with)
			p.fail(ErrExpectedStatement, "WITH must prefix SELECT, INSERT, UPDATE or DELETE")
		}
	case tokenizer.K_SELECT:
		return p.parseSelect(nil)
	case tokenizer.K_INSERT, tokenizer.K_REPLACE:
		return p.parseInsert(nil)
	case tokenizer.K_UPDATE:
		return p.parseUpdate(nil)
	case tokenizer.K_DELETE:
		return p.parseDelete(nil)
	case tokenizer.K_CREATE:
		return p.parseCreate()
	default:
		p.fail(ErrExpectedStatement, fmt.Sprintf("found %s", p.peek().Type))
	}
	return nil
}

// statementStarts are the tokens panic-mode recovery stops in front of.
var statementStarts = map[tokenizer.TokenType]bool{
	tokenizer.K_SELECT:  true,
	tokenizer.K_INSERT:  true,
	tokenizer.K_REPLACE: true,
	tokenizer.K_UPDATE:  true,
	tokenizer.K_DELETE:  true,
	tokenizer.K_CREATE:  true,
	tokenizer.K_WITH:    true,
}

// synchronize discards tokens until a semicolon, a statement-start keyword or
// EOF. The semicolon itself is consumed.
func (p *Parser) synchronize() {
	for {
		switch {
		case p.at(tokenizer.EOF):
			return
		case p.accept(tokenizer.SEMICOLON):
			return
		case statementStarts[p.peek().Type]:
			return
		}
		p.advance()
	}
}

// keep registers the outermost partially-built node of the current statement
// so that panic-mode recovery can preserve what was parsed before the failure.
func (p *Parser) keep(n Node) {
	if len(p.partial) == 0 {
		p.partial = append(p.partial, n)
	}
}

func (p *Parser) peek() tokenizer.Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekAt(n int) tokenizer.Token {
	if p.pos+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+n]
}

func (p *Parser) prev() tokenizer.Token {
	if p.pos == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.pos-1]
}

func (p *Parser) at(tt tokenizer.TokenType) bool {
	return p.peek().Type == tt
}

func (p *Parser) advance() tokenizer.Token {
	tok := p.peek()
	if tok.Type != tokenizer.EOF {
		p.pos++
	}
	return tok
}

func (p *Parser) accept(tt tokenizer.TokenType) bool {
	if p.at(tt) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(tt tokenizer.TokenType) tokenizer.Token {
	if p.at(tt) {
		return p.advance()
	}
	if p.at(tokenizer.EOF) {
		p.fail(ErrUnexpectedEOF, fmt.Sprintf("expected %s", tt))
	}
	p.fail(ErrUnexpectedToken, fmt.Sprintf("expected %s, found %s", tt, p.peek().Type))
	return tokenizer.Token{}
}

func (p *Parser) errorHere(err error, msg string) {
	p.errors = append(p.errors, &ParseError{Err: err, Message: msg, Span: p.peek().Span})
}

func (p *Parser) fail(err error, msg string) {
	p.errorHere(err, msg)
	panic(bailout{})
}

// start returns the byte offset of the current token.
func (p *Parser) start() int {
	return p.peek().Span.Offset
}

// spanFrom covers the source from start up to the end of the last consumed
// token.
func (p *Parser) spanFrom(start int) tokenizer.Span {
	end := p.prev().Span.End()
	if end < start {
		end = start
	}
	return tokenizer.Span{Offset: start, Length: end - start}
}

// identValue returns the decoded name of an identifier token.
func (p *Parser) identValue(tok tokenizer.Token) string {
	if s, ok := tok.Value.(string); ok {
		return s
	}
	return tok.Lexeme
}
