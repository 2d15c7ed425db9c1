package parser

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sqlfront/sqlfront/tokenizer"
)

// parseExpr parses an expression at the loosest binding level.
func (p *Parser) parseExpr() Expression {
	return p.parseExpression(precOr)
}

// parseExpression is the precedence-climbing loop. It parses a prefix operand
// and folds infix operators as long as they bind at least as tightly as min.
func (p *Parser) parseExpression(min precedence) Expression {
	left := p.parsePrefix()
	for {
		tt := p.peek().Type
		if tt == tokenizer.K_NOT && notFollowers[p.peekAt(1).Type] {
			if precEquality < min {
				return left
			}
			p.advance()
			left = p.parseNegatableTail(left, true)
			continue
		}
		switch tt {
		case tokenizer.K_IS:
			if precEquality < min {
				return left
			}
			start := left.Span().Offset
			p.advance()
			op := OpIs
			if p.accept(tokenizer.K_NOT) {
				op = OpIsNot
			}
			left = p.binary(op, left, p.parseExpression(precEquality+1), start)
			continue
		case tokenizer.K_IN, tokenizer.K_LIKE, tokenizer.K_GLOB, tokenizer.K_MATCH, tokenizer.K_REGEXP, tokenizer.K_BETWEEN:
			if precEquality < min {
				return left
			}
			left = p.parseNegatableTail(left, false)
			continue
		case tokenizer.K_COLLATE:
			if precPostfix < min {
				return left
			}
			start := left.Span().Offset
			p.advance()
			collate := &CollateExpr{Expr: left, Collation: p.identValue(p.expect(tokenizer.IDENTIFIER))}
			collate.span = p.spanFrom(start)
			left = collate
			continue
		}
		info, ok := infixOps[tt]
		if !ok || info.prec < min {
			return left
		}
		start := left.Span().Offset
		p.advance()
		left = p.binary(info.op, left, p.parseExpression(info.prec+1), start)
	}
}

func (p *Parser) binary(op BinaryOp, left, right Expression, start int) Expression {
	expr := &BinaryExpr{Op: op, Left: left, Right: right}
	expr.span = p.spanFrom(start)
	return expr
}

// parseNegatableTail parses the IN, LIKE-family and BETWEEN tails, whose
// operator token is still current. BETWEEN operands parse one level above
// equality so its inner AND is never mistaken for a conjunction.
func (p *Parser) parseNegatableTail(left Expression, not bool) Expression {
	start := left.Span().Offset
	switch {
	case p.accept(tokenizer.K_BETWEEN):
		expr := &BetweenExpr{Not: not, Expr: left}
		expr.Lower = p.parseExpression(precEquality + 1)
		p.expect(tokenizer.K_AND)
		expr.Upper = p.parseExpression(precEquality + 1)
		expr.span = p.spanFrom(start)
		return expr
	case p.accept(tokenizer.K_IN):
		return p.parseInTail(left, not, start)
	default:
		op, ok := likeOps[p.peek().Type]
		if !ok {
			p.fail(ErrUnexpectedToken, "expected IN, LIKE, GLOB, MATCH, REGEXP or BETWEEN")
		}
		p.advance()
		expr := &LikeExpr{Op: op, Not: not, Left: left}
		expr.Right = p.parseExpression(precEquality + 1)
		if p.accept(tokenizer.K_ESCAPE) {
			expr.Escape = p.parseExpression(precEquality + 1)
		}
		expr.span = p.spanFrom(start)
		return expr
	}
}

func (p *Parser) parseInTail(left Expression, not bool, start int) Expression {
	expr := &InExpr{Not: not, Expr: left}
	if p.at(tokenizer.BIND) {
		// bare array placeholder, no parentheses
		expr.Var = p.parseVariable(p.advance())
	} else {
		p.expect(tokenizer.OPEN_PAREN)
		switch {
		case p.at(tokenizer.K_SELECT) || p.at(tokenizer.K_WITH):
			var with *WithClause
			if p.at(tokenizer.K_WITH) {
				with = p.parseWithClause()
			}
			expr.Select = p.parseSelect(with)
		case p.at(tokenizer.CLOSE_PAREN):
			expr.List = true
		default:
			expr.List = true
			expr.Values = append(expr.Values, p.parseExpr())
			for p.accept(tokenizer.COMMA) {
				expr.Values = append(expr.Values, p.parseExpr())
			}
		}
		p.expect(tokenizer.CLOSE_PAREN)
	}
	expr.span = p.spanFrom(start)
	return expr
}

func (p *Parser) parseVariable(tok tokenizer.Token) *Variable {
	info := tok.Value.(tokenizer.BindInfo)
	v := &Variable{}
	switch info.Kind {
	case tokenizer.BindAnonymous:
		v.Index = p.binds.anonymous()
	case tokenizer.BindIndexed:
		v.Explicit = true
		v.Index = p.binds.explicit(info.Index)
	case tokenizer.BindNamed:
		v.Name = info.Name
		v.Index = p.binds.name(info.Name)
	}
	v.span = tok.Span
	return v
}

func (p *Parser) parsePrefix() Expression {
	start := p.start()
	tok := p.peek()
	switch tok.Type {
	case tokenizer.NUMBER:
		p.advance()
		lit := &NumberLiteral{Value: tok.Value.(decimal.Decimal)}
		lit.span = tok.Span
		return lit
	case tokenizer.STRING:
		p.advance()
		lit := &StringLiteral{Value: tok.Value.(string)}
		lit.span = tok.Span
		return lit
	case tokenizer.BLOB:
		p.advance()
		lit := &BlobLiteral{Hex: tok.Value.(string)}
		lit.span = tok.Span
		return lit
	case tokenizer.K_NULL:
		p.advance()
		lit := &NullLiteral{}
		lit.span = tok.Span
		return lit
	case tokenizer.K_TRUE, tokenizer.K_FALSE:
		p.advance()
		lit := &BoolLiteral{Value: tok.Type == tokenizer.K_TRUE}
		lit.span = tok.Span
		return lit
	case tokenizer.BIND:
		p.advance()
		return p.parseVariable(tok)
	case tokenizer.MINUS, tokenizer.PLUS, tokenizer.TILDE:
		p.advance()
		op := OpNeg
		switch tok.Type {
		case tokenizer.PLUS:
			op = OpPos
		case tokenizer.TILDE:
			op = OpBitNot
		}
		expr := &UnaryExpr{Op: op, Operand: p.parseExpression(precUnary)}
		expr.span = p.spanFrom(start)
		return expr
	case tokenizer.K_NOT:
		p.advance()
		if p.at(tokenizer.K_EXISTS) {
			return p.parseExists(start, true)
		}
		expr := &UnaryExpr{Op: OpNot, Operand: p.parseExpression(precNot)}
		expr.span = p.spanFrom(start)
		return expr
	case tokenizer.K_EXISTS:
		return p.parseExists(start, false)
	case tokenizer.K_CASE:
		return p.parseCase()
	case tokenizer.K_CAST:
		return p.parseCast()
	case tokenizer.OPEN_PAREN:
		p.advance()
		if p.at(tokenizer.K_SELECT) || p.at(tokenizer.K_WITH) {
			var with *WithClause
			if p.at(tokenizer.K_WITH) {
				with = p.parseWithClause()
			}
			sub := &SubqueryExpr{Select: p.parseSelect(with)}
			p.expect(tokenizer.CLOSE_PAREN)
			sub.span = p.spanFrom(start)
			return sub
		}
		expr := p.parseExpr()
		p.expect(tokenizer.CLOSE_PAREN)
		return expr
	case tokenizer.IDENTIFIER:
		return p.parseIdentifierExpr()
	default:
		p.errorHere(ErrExpectedExpression, fmt.Sprintf("found %s", tok.Type))
		if tok.Type != tokenizer.EOF {
			p.advance()
		}
		bad := &BadExpr{}
		bad.span = tok.Span
		return bad
	}
}

func (p *Parser) parseExists(start int, not bool) Expression {
	p.expect(tokenizer.K_EXISTS)
	p.expect(tokenizer.OPEN_PAREN)
	expr := &ExistsExpr{Not: not}
	var with *WithClause
	if p.at(tokenizer.K_WITH) {
		with = p.parseWithClause()
	}
	expr.Select = p.parseSelect(with)
	p.expect(tokenizer.CLOSE_PAREN)
	expr.span = p.spanFrom(start)
	return expr
}

func (p *Parser) parseCase() Expression {
	start := p.start()
	p.expect(tokenizer.K_CASE)
	expr := &CaseExpr{}
	if !p.at(tokenizer.K_WHEN) {
		expr.Operand = p.parseExpr()
	}
	if !p.at(tokenizer.K_WHEN) {
		p.fail(ErrUnexpectedToken, "CASE requires at least one WHEN arm")
	}
	for p.at(tokenizer.K_WHEN) {
		whenStart := p.start()
		p.advance()
		when := &CaseWhen{Cond: p.parseExpr()}
		p.expect(tokenizer.K_THEN)
		when.Then = p.parseExpr()
		when.span = p.spanFrom(whenStart)
		expr.Whens = append(expr.Whens, when)
	}
	if p.accept(tokenizer.K_ELSE) {
		expr.Else = p.parseExpr()
	}
	p.expect(tokenizer.K_END)
	expr.span = p.spanFrom(start)
	return expr
}

func (p *Parser) parseCast() Expression {
	start := p.start()
	p.expect(tokenizer.K_CAST)
	p.expect(tokenizer.OPEN_PAREN)
	expr := &CastExpr{Expr: p.parseExpr()}
	p.expect(tokenizer.K_AS)
	expr.TypeName = p.parseTypeName()
	if expr.TypeName == "" {
		p.fail(ErrUnexpectedToken, "expected type name in CAST")
	}
	p.expect(tokenizer.CLOSE_PAREN)
	expr.span = p.spanFrom(start)
	return expr
}

// parseIdentifierExpr parses a column reference or a function call.
func (p *Parser) parseIdentifierExpr() Expression {
	start := p.start()
	name := p.identValue(p.advance())
	if p.at(tokenizer.OPEN_PAREN) {
		return p.parseFunctionCall(name, start)
	}
	ref := &Reference{Column: name}
	if p.accept(tokenizer.DOT) {
		ref.Table = name
		ref.Column = p.identValue(p.expect(tokenizer.IDENTIFIER))
	}
	ref.span = p.spanFrom(start)
	return ref
}

func (p *Parser) parseFunctionCall(name string, start int) Expression {
	p.expect(tokenizer.OPEN_PAREN)
	call := &FunctionCall{Name: name}
	switch {
	case p.accept(tokenizer.STAR):
		call.Star = true
	case p.at(tokenizer.CLOSE_PAREN):
	default:
		call.Distinct = p.accept(tokenizer.K_DISTINCT)
		call.Args = append(call.Args, p.parseExpr())
		for p.accept(tokenizer.COMMA) {
			call.Args = append(call.Args, p.parseExpr())
		}
	}
	p.expect(tokenizer.CLOSE_PAREN)
	if p.accept(tokenizer.K_FILTER) {
		p.expect(tokenizer.OPEN_PAREN)
		whereStart := p.start()
		p.expect(tokenizer.K_WHERE)
		filter := &WhereClause{Cond: p.parseExpr()}
		filter.span = p.spanFrom(whereStart)
		p.expect(tokenizer.CLOSE_PAREN)
		call.Filter = filter
	}
	call.span = p.spanFrom(start)
	if p.accept(tokenizer.K_OVER) {
		win := &WindowFunction{Call: call}
		if p.accept(tokenizer.OPEN_PAREN) {
			win.Def = p.parseWindowDef()
			p.expect(tokenizer.CLOSE_PAREN)
		} else {
			win.WindowName = p.identValue(p.expect(tokenizer.IDENTIFIER))
		}
		win.span = p.spanFrom(start)
		return win
	}
	return call
}

func (p *Parser) parseWindowDef() *WindowDef {
	start := p.start()
	def := &WindowDef{}
	if p.at(tokenizer.IDENTIFIER) {
		def.BaseName = p.identValue(p.advance())
	}
	if p.accept(tokenizer.K_PARTITION) {
		p.expect(tokenizer.K_BY)
		def.PartitionBy = append(def.PartitionBy, p.parseExpr())
		for p.accept(tokenizer.COMMA) {
			def.PartitionBy = append(def.PartitionBy, p.parseExpr())
		}
	}
	if p.accept(tokenizer.K_ORDER) {
		p.expect(tokenizer.K_BY)
		def.OrderBy = p.parseOrderingTerms()
	}
	if p.at(tokenizer.K_RANGE) || p.at(tokenizer.K_ROWS) || p.at(tokenizer.K_GROUPS) {
		def.Frame = p.parseFrameSpec()
	}
	def.span = p.spanFrom(start)
	return def
}

func (p *Parser) parseFrameSpec() *FrameSpec {
	start := p.start()
	spec := &FrameSpec{}
	switch {
	case p.accept(tokenizer.K_RANGE):
		spec.Unit = FrameRange
	case p.accept(tokenizer.K_ROWS):
		spec.Unit = FrameRows
	default:
		p.expect(tokenizer.K_GROUPS)
		spec.Unit = FrameGroups
	}
	if p.accept(tokenizer.K_BETWEEN) {
		spec.Start = p.parseFrameBound()
		p.expect(tokenizer.K_AND)
		spec.End = p.parseFrameBound()
	} else {
		spec.Start = p.parseFrameBound()
	}
	spec.span = p.spanFrom(start)
	return spec
}

func (p *Parser) parseFrameBound() *FrameBound {
	start := p.start()
	bound := &FrameBound{}
	switch {
	case p.accept(tokenizer.K_UNBOUNDED):
		if p.accept(tokenizer.K_FOLLOWING) {
			bound.Kind = BoundUnboundedFollowing
		} else {
			p.expect(tokenizer.K_PRECEDING)
			bound.Kind = BoundUnboundedPreceding
		}
	case p.accept(tokenizer.K_CURRENT):
		p.expect(tokenizer.K_ROW)
		bound.Kind = BoundCurrentRow
	default:
		bound.Expr = p.parseExpression(precUnary)
		if p.accept(tokenizer.K_FOLLOWING) {
			bound.Kind = BoundFollowing
		} else {
			p.expect(tokenizer.K_PRECEDING)
			bound.Kind = BoundPreceding
		}
	}
	bound.span = p.spanFrom(start)
	return bound
}
