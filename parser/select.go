package parser

import (
	"github.com/sqlfront/sqlfront/tokenizer"
)

// parseSelect parses a full SELECT: the first core, any compound tail, and the
// trailing ORDER BY and LIMIT, which always attach to the first statement of
// the chain.
func (p *Parser) parseSelect(with *WithClause) *SelectStatement {
	first := p.parseSelectCore(with)
	cur := first
compounds:
	for {
		var op CompoundOp
		opStart := p.start()
		switch {
		case p.accept(tokenizer.K_UNION):
			op = CompoundUnion
			if p.accept(tokenizer.K_ALL) {
				op = CompoundUnionAll
			}
		case p.accept(tokenizer.K_INTERSECT):
			op = CompoundIntersect
		case p.accept(tokenizer.K_EXCEPT):
			op = CompoundExcept
		default:
			break compounds
		}
		next := p.parseSelectCore(nil)
		compound := &CompoundSelect{Op: op, Select: next}
		compound.span = p.spanFrom(opStart)
		cur.Compound = compound
		cur = next
	}
	if p.at(tokenizer.K_ORDER) {
		first.OrderBy = p.parseOrderBy()
	}
	if p.at(tokenizer.K_LIMIT) {
		first.Limit = p.parseLimit()
	}
	first.span = p.spanFrom(first.span.Offset)
	return first
}

func (p *Parser) parseSelectCore(with *WithClause) *SelectStatement {
	start := p.start()
	if with != nil {
		start = with.Span().Offset
	}
	stmt := &SelectStatement{With: with}
	p.keep(stmt)
	p.expect(tokenizer.K_SELECT)
	if p.accept(tokenizer.K_DISTINCT) {
		stmt.Distinct = true
	} else if p.accept(tokenizer.K_ALL) {
		stmt.All = true
	}
	stmt.Columns = append(stmt.Columns, p.parseResultColumn())
	for p.accept(tokenizer.COMMA) {
		stmt.Columns = append(stmt.Columns, p.parseResultColumn())
	}
	if p.at(tokenizer.K_FROM) {
		stmt.From = p.parseFromClause()
	}
	if p.at(tokenizer.K_WHERE) {
		stmt.Where = p.parseWhereClause()
	}
	if p.at(tokenizer.K_GROUP) {
		stmt.GroupBy = p.parseGroupByClause()
	}
	if p.at(tokenizer.K_HAVING) {
		stmt.Having = p.parseHavingClause()
	}
	if p.at(tokenizer.K_WINDOW) {
		stmt.Windows = p.parseWindowClause()
	}
	stmt.span = p.spanFrom(start)
	return stmt
}

func (p *Parser) parseResultColumn() ResultColumn {
	start := p.start()
	if p.accept(tokenizer.STAR) {
		col := &StarResultColumn{}
		col.span = p.spanFrom(start)
		return col
	}
	if p.at(tokenizer.IDENTIFIER) && p.peekAt(1).Type == tokenizer.DOT && p.peekAt(2).Type == tokenizer.STAR {
		table := p.identValue(p.advance())
		p.advance()
		p.advance()
		col := &StarResultColumn{Table: table}
		col.span = p.spanFrom(start)
		return col
	}
	col := &ExpressionResultColumn{Expr: p.parseExpr()}
	if p.accept(tokenizer.K_AS) {
		col.Alias = p.identValue(p.expect(tokenizer.IDENTIFIER))
	} else if p.at(tokenizer.IDENTIFIER) {
		col.Alias = p.identValue(p.advance())
	}
	col.span = p.spanFrom(start)
	return col
}

func (p *Parser) parseFromClause() *FromClause {
	start := p.start()
	p.expect(tokenizer.K_FROM)
	clause := &FromClause{Source: p.parseTableSource()}
	for {
		join := p.parseJoinClause()
		if join == nil {
			break
		}
		clause.Joins = append(clause.Joins, join)
	}
	clause.span = p.spanFrom(start)
	return clause
}

// parseJoinClause parses one join operator and its source, or returns nil when
// the FROM clause is over.
func (p *Parser) parseJoinClause() *JoinClause {
	start := p.start()
	join := &JoinClause{}
	if p.accept(tokenizer.COMMA) {
		join.Type = JoinComma
	} else {
		if p.accept(tokenizer.K_NATURAL) {
			join.Natural = true
		}
		switch {
		case p.accept(tokenizer.K_LEFT):
			join.Type = JoinLeft
			p.accept(tokenizer.K_OUTER)
		case p.accept(tokenizer.K_RIGHT):
			join.Type = JoinRight
			p.accept(tokenizer.K_OUTER)
		case p.accept(tokenizer.K_FULL):
			join.Type = JoinFull
			p.accept(tokenizer.K_OUTER)
		case p.accept(tokenizer.K_CROSS):
			join.Type = JoinCross
		case p.accept(tokenizer.K_INNER):
			join.Type = JoinInner
		default:
			if !p.at(tokenizer.K_JOIN) {
				if join.Natural {
					p.fail(ErrUnexpectedToken, "expected JOIN after NATURAL")
				}
				return nil
			}
			join.Type = JoinInner
		}
		p.expect(tokenizer.K_JOIN)
	}
	join.Source = p.parseTableSource()
	switch {
	case p.accept(tokenizer.K_ON):
		join.On = p.parseExpr()
	case p.accept(tokenizer.K_USING):
		p.expect(tokenizer.OPEN_PAREN)
		join.Using = append(join.Using, p.identValue(p.expect(tokenizer.IDENTIFIER)))
		for p.accept(tokenizer.COMMA) {
			join.Using = append(join.Using, p.identValue(p.expect(tokenizer.IDENTIFIER)))
		}
		p.expect(tokenizer.CLOSE_PAREN)
	}
	join.span = p.spanFrom(start)
	return join
}

func (p *Parser) parseTableSource() TableSource {
	start := p.start()
	if p.accept(tokenizer.OPEN_PAREN) {
		var with *WithClause
		if p.at(tokenizer.K_WITH) {
			with = p.parseWithClause()
		}
		source := &SelectSource{Select: p.parseSelect(with)}
		p.expect(tokenizer.CLOSE_PAREN)
		source.Alias = p.parseOptionalAlias()
		source.span = p.spanFrom(start)
		return source
	}
	ref := &TableReference{Name: p.identValue(p.expect(tokenizer.IDENTIFIER))}
	ref.Alias = p.parseOptionalAlias()
	ref.span = p.spanFrom(start)
	return ref
}

func (p *Parser) parseOptionalAlias() string {
	if p.accept(tokenizer.K_AS) {
		return p.identValue(p.expect(tokenizer.IDENTIFIER))
	}
	if p.at(tokenizer.IDENTIFIER) {
		return p.identValue(p.advance())
	}
	return ""
}

func (p *Parser) parseWhereClause() *WhereClause {
	start := p.start()
	p.expect(tokenizer.K_WHERE)
	clause := &WhereClause{Cond: p.parseExpr()}
	clause.span = p.spanFrom(start)
	return clause
}

func (p *Parser) parseGroupByClause() *GroupByClause {
	start := p.start()
	p.expect(tokenizer.K_GROUP)
	p.expect(tokenizer.K_BY)
	clause := &GroupByClause{Exprs: []Expression{p.parseExpr()}}
	for p.accept(tokenizer.COMMA) {
		clause.Exprs = append(clause.Exprs, p.parseExpr())
	}
	clause.span = p.spanFrom(start)
	return clause
}

func (p *Parser) parseHavingClause() *HavingClause {
	start := p.start()
	p.expect(tokenizer.K_HAVING)
	clause := &HavingClause{Cond: p.parseExpr()}
	clause.span = p.spanFrom(start)
	return clause
}

func (p *Parser) parseWindowClause() *WindowClause {
	start := p.start()
	p.expect(tokenizer.K_WINDOW)
	clause := &WindowClause{Windows: []*NamedWindow{p.parseNamedWindow()}}
	for p.accept(tokenizer.COMMA) {
		clause.Windows = append(clause.Windows, p.parseNamedWindow())
	}
	clause.span = p.spanFrom(start)
	return clause
}

func (p *Parser) parseNamedWindow() *NamedWindow {
	start := p.start()
	w := &NamedWindow{Name: p.identValue(p.expect(tokenizer.IDENTIFIER))}
	p.expect(tokenizer.K_AS)
	p.expect(tokenizer.OPEN_PAREN)
	w.Def = p.parseWindowDef()
	p.expect(tokenizer.CLOSE_PAREN)
	w.span = p.spanFrom(start)
	return w
}

func (p *Parser) parseOrderBy() *OrderByClause {
	start := p.start()
	p.expect(tokenizer.K_ORDER)
	p.expect(tokenizer.K_BY)
	clause := &OrderByClause{Terms: p.parseOrderingTerms()}
	clause.span = p.spanFrom(start)
	return clause
}

func (p *Parser) parseOrderingTerms() []*OrderingTerm {
	terms := []*OrderingTerm{p.parseOrderingTerm()}
	for p.accept(tokenizer.COMMA) {
		terms = append(terms, p.parseOrderingTerm())
	}
	return terms
}

func (p *Parser) parseOrderingTerm() *OrderingTerm {
	start := p.start()
	term := &OrderingTerm{Expr: p.parseExpr()}
	if p.accept(tokenizer.K_COLLATE) {
		term.Collation = p.identValue(p.expect(tokenizer.IDENTIFIER))
	}
	if p.accept(tokenizer.K_DESC) {
		term.Desc = true
	} else {
		p.accept(tokenizer.K_ASC)
	}
	if p.accept(tokenizer.K_NULLS) {
		if p.accept(tokenizer.K_FIRST) {
			term.Nulls = NullsFirst
		} else {
			p.expect(tokenizer.K_LAST)
			term.Nulls = NullsLast
		}
	}
	term.span = p.spanFrom(start)
	return term
}

func (p *Parser) parseLimit() *LimitClause {
	start := p.start()
	p.expect(tokenizer.K_LIMIT)
	clause := &LimitClause{}
	first := p.parseExpr()
	if p.accept(tokenizer.COMMA) {
		// LIMIT offset, count
		clause.Offset = first
		clause.Count = p.parseExpr()
	} else {
		clause.Count = first
		if p.accept(tokenizer.K_OFFSET) {
			clause.Offset = p.parseExpr()
		}
	}
	clause.span = p.spanFrom(start)
	return clause
}

func (p *Parser) parseWithClause() *WithClause {
	start := p.start()
	p.expect(tokenizer.K_WITH)
	clause := &WithClause{Recursive: p.accept(tokenizer.K_RECURSIVE)}
	clause.CTEs = append(clause.CTEs, p.parseCommonTableExpr())
	for p.accept(tokenizer.COMMA) {
		clause.CTEs = append(clause.CTEs, p.parseCommonTableExpr())
	}
	clause.span = p.spanFrom(start)
	return clause
}

func (p *Parser) parseCommonTableExpr() *CommonTableExpr {
	start := p.start()
	cte := &CommonTableExpr{Name: p.identValue(p.expect(tokenizer.IDENTIFIER))}
	if p.accept(tokenizer.OPEN_PAREN) {
		cte.Columns = append(cte.Columns, p.identValue(p.expect(tokenizer.IDENTIFIER)))
		for p.accept(tokenizer.COMMA) {
			cte.Columns = append(cte.Columns, p.identValue(p.expect(tokenizer.IDENTIFIER)))
		}
		p.expect(tokenizer.CLOSE_PAREN)
	}
	p.expect(tokenizer.K_AS)
	p.expect(tokenizer.OPEN_PAREN)
	cte.Select = p.parseSelect(nil)
	p.expect(tokenizer.CLOSE_PAREN)
	cte.span = p.spanFrom(start)
	return cte
}

func (p *Parser) parseReturningClause() *ReturningClause {
	start := p.start()
	p.expect(tokenizer.K_RETURNING)
	clause := &ReturningClause{Columns: []ResultColumn{p.parseResultColumn()}}
	for p.accept(tokenizer.COMMA) {
		clause.Columns = append(clause.Columns, p.parseResultColumn())
	}
	clause.span = p.spanFrom(start)
	return clause
}
