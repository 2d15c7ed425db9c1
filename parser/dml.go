package parser

import (
	"github.com/sqlfront/sqlfront/tokenizer"
)

func (p *Parser) parseInsert(with *WithClause) *InsertStatement {
	start := p.start()
	if with != nil {
		start = with.Span().Offset
	}
	stmt := &InsertStatement{With: with}
	p.keep(stmt)
	if p.accept(tokenizer.K_REPLACE) {
		stmt.Replace = true
		stmt.Or = ConflictReplace
	} else {
		p.expect(tokenizer.K_INSERT)
		if p.accept(tokenizer.K_OR) {
			stmt.Or = p.parseConflictAction()
		}
	}
	p.expect(tokenizer.K_INTO)
	stmt.Table = p.parseTableReference()
	if p.accept(tokenizer.OPEN_PAREN) {
		stmt.Columns = append(stmt.Columns, p.parseColumnName())
		for p.accept(tokenizer.COMMA) {
			stmt.Columns = append(stmt.Columns, p.parseColumnName())
		}
		p.expect(tokenizer.CLOSE_PAREN)
	}
	switch {
	case p.accept(tokenizer.K_VALUES):
		stmt.Values = append(stmt.Values, p.parseValueRow())
		for p.accept(tokenizer.COMMA) {
			stmt.Values = append(stmt.Values, p.parseValueRow())
		}
	case p.at(tokenizer.K_SELECT) || p.at(tokenizer.K_WITH):
		var sub *WithClause
		if p.at(tokenizer.K_WITH) {
			sub = p.parseWithClause()
		}
		stmt.Select = p.parseSelect(sub)
	case p.accept(tokenizer.K_DEFAULT):
		p.expect(tokenizer.K_VALUES)
		stmt.DefaultValues = true
	default:
		p.fail(ErrUnexpectedToken, "expected VALUES, SELECT or DEFAULT VALUES")
	}
	if p.at(tokenizer.K_RETURNING) {
		stmt.Returning = p.parseReturningClause()
	}
	stmt.span = p.spanFrom(start)
	return stmt
}

func (p *Parser) parseValueRow() []Expression {
	p.expect(tokenizer.OPEN_PAREN)
	row := []Expression{p.parseExpr()}
	for p.accept(tokenizer.COMMA) {
		row = append(row, p.parseExpr())
	}
	p.expect(tokenizer.CLOSE_PAREN)
	return row
}

func (p *Parser) parseUpdate(with *WithClause) *UpdateStatement {
	start := p.start()
	if with != nil {
		start = with.Span().Offset
	}
	stmt := &UpdateStatement{With: with}
	p.keep(stmt)
	p.expect(tokenizer.K_UPDATE)
	if p.accept(tokenizer.K_OR) {
		stmt.Or = p.parseConflictAction()
	}
	stmt.Table = p.parseTableReference()
	p.expect(tokenizer.K_SET)
	stmt.Sets = append(stmt.Sets, p.parseSetClause())
	for p.accept(tokenizer.COMMA) {
		stmt.Sets = append(stmt.Sets, p.parseSetClause())
	}
	if p.at(tokenizer.K_FROM) {
		stmt.From = p.parseFromClause()
	}
	if p.at(tokenizer.K_WHERE) {
		stmt.Where = p.parseWhereClause()
	}
	if p.at(tokenizer.K_RETURNING) {
		stmt.Returning = p.parseReturningClause()
	}
	stmt.span = p.spanFrom(start)
	return stmt
}

func (p *Parser) parseSetClause() *SetClause {
	start := p.start()
	set := &SetClause{Column: p.parseColumnName()}
	p.expect(tokenizer.EQUAL)
	set.Value = p.parseExpr()
	set.span = p.spanFrom(start)
	return set
}

func (p *Parser) parseDelete(with *WithClause) *DeleteStatement {
	start := p.start()
	if with != nil {
		start = with.Span().Offset
	}
	stmt := &DeleteStatement{With: with}
	p.keep(stmt)
	p.expect(tokenizer.K_DELETE)
	p.expect(tokenizer.K_FROM)
	stmt.Table = p.parseTableReference()
	if p.at(tokenizer.K_WHERE) {
		stmt.Where = p.parseWhereClause()
	}
	if p.at(tokenizer.K_RETURNING) {
		stmt.Returning = p.parseReturningClause()
	}
	stmt.span = p.spanFrom(start)
	return stmt
}

func (p *Parser) parseConflictAction() ConflictAction {
	switch {
	case p.accept(tokenizer.K_ROLLBACK):
		return ConflictRollback
	case p.accept(tokenizer.K_ABORT):
		return ConflictAbort
	case p.accept(tokenizer.K_FAIL):
		return ConflictFail
	case p.accept(tokenizer.K_IGNORE):
		return ConflictIgnore
	case p.accept(tokenizer.K_REPLACE):
		return ConflictReplace
	default:
		p.fail(ErrUnexpectedToken, "expected conflict action after OR")
		return ConflictNone
	}
}

// parseTableReference parses a statement-target table name with an optional
// AS alias. Bare aliases stay reserved for FROM sources.
func (p *Parser) parseTableReference() *TableReference {
	start := p.start()
	ref := &TableReference{Name: p.identValue(p.expect(tokenizer.IDENTIFIER))}
	if p.accept(tokenizer.K_AS) {
		ref.Alias = p.identValue(p.expect(tokenizer.IDENTIFIER))
	}
	ref.span = p.spanFrom(start)
	return ref
}

func (p *Parser) parseColumnName() *Reference {
	tok := p.expect(tokenizer.IDENTIFIER)
	ref := &Reference{Column: p.identValue(tok)}
	ref.span = tok.Span
	return ref
}
