package parser

import (
	"strings"

	"github.com/sqlfront/sqlfront/tokenizer"
)

func (p *Parser) parseCreate() Statement {
	start := p.start()
	p.expect(tokenizer.K_CREATE)
	temp := p.accept(tokenizer.K_TEMP) || p.accept(tokenizer.K_TEMPORARY)
	switch {
	case p.at(tokenizer.K_TABLE):
		return p.parseCreateTable(start, temp)
	case p.at(tokenizer.K_TRIGGER):
		return p.parseCreateTrigger(start, temp)
	case p.at(tokenizer.K_UNIQUE) || p.at(tokenizer.K_INDEX):
		if temp {
			p.fail(ErrUnexpectedToken, "TEMP is not valid for CREATE INDEX")
		}
		return p.parseCreateIndex(start)
	default:
		p.fail(ErrUnexpectedToken, "expected TABLE, INDEX or TRIGGER after CREATE")
		return nil
	}
}

func (p *Parser) acceptIfNotExists() bool {
	if p.at(tokenizer.K_IF) && p.peekAt(1).Type == tokenizer.K_NOT {
		p.advance()
		p.advance()
		p.expect(tokenizer.K_EXISTS)
		return true
	}
	return false
}

func (p *Parser) parseCreateTable(start int, temp bool) *CreateTableStatement {
	stmt := &CreateTableStatement{Temp: temp}
	p.keep(stmt)
	p.expect(tokenizer.K_TABLE)
	stmt.IfNotExists = p.acceptIfNotExists()
	stmt.Name = p.identValue(p.expect(tokenizer.IDENTIFIER))
	if p.accept(tokenizer.K_AS) {
		stmt.AsSelect = p.parseSelect(nil)
	} else {
		p.expect(tokenizer.OPEN_PAREN)
		p.parseTableBodyEntry(stmt)
		for p.accept(tokenizer.COMMA) {
			p.parseTableBodyEntry(stmt)
		}
		p.expect(tokenizer.CLOSE_PAREN)
	}
	stmt.span = p.spanFrom(start)
	return stmt
}

func (p *Parser) parseTableBodyEntry(stmt *CreateTableStatement) {
	switch p.peek().Type {
	case tokenizer.K_CONSTRAINT, tokenizer.K_PRIMARY, tokenizer.K_UNIQUE, tokenizer.K_CHECK, tokenizer.K_FOREIGN:
		stmt.Constraints = append(stmt.Constraints, p.parseTableConstraint())
	default:
		stmt.Columns = append(stmt.Columns, p.parseColumnDef())
	}
}

func (p *Parser) parseColumnDef() *ColumnDef {
	start := p.start()
	col := &ColumnDef{Name: p.identValue(p.expect(tokenizer.IDENTIFIER))}
	col.TypeName = p.parseTypeName()
	for {
		constraint := p.parseColumnConstraint()
		if constraint == nil {
			break
		}
		col.Constraints = append(col.Constraints, constraint)
	}
	col.span = p.spanFrom(start)
	return col
}

// parseTypeName collects a possibly multi-word type name with an optional
// parenthesized size, like `UNSIGNED BIG INT` or `VARCHAR(255)`. Returns ""
// when no type follows.
func (p *Parser) parseTypeName() string {
	var parts []string
	for p.at(tokenizer.IDENTIFIER) {
		parts = append(parts, p.identValue(p.advance()))
	}
	if len(parts) == 0 {
		return ""
	}
	name := strings.Join(parts, " ")
	if p.accept(tokenizer.OPEN_PAREN) {
		args := []string{p.expect(tokenizer.NUMBER).Lexeme}
		for p.accept(tokenizer.COMMA) {
			args = append(args, p.expect(tokenizer.NUMBER).Lexeme)
		}
		p.expect(tokenizer.CLOSE_PAREN)
		name += "(" + strings.Join(args, ", ") + ")"
	}
	return name
}

// parseColumnConstraint parses one column constraint, or returns nil when the
// column definition is over.
func (p *Parser) parseColumnConstraint() *ColumnConstraint {
	start := p.start()
	constraint := &ColumnConstraint{}
	if p.accept(tokenizer.K_CONSTRAINT) {
		constraint.Name = p.identValue(p.expect(tokenizer.IDENTIFIER))
	}
	switch {
	case p.accept(tokenizer.K_PRIMARY):
		p.expect(tokenizer.K_KEY)
		constraint.Kind = ColumnPrimaryKey
		if p.accept(tokenizer.K_DESC) {
			constraint.Desc = true
		} else {
			p.accept(tokenizer.K_ASC)
		}
		constraint.Autoincrement = p.accept(tokenizer.K_AUTOINCREMENT)
	case p.accept(tokenizer.K_NOT):
		p.expect(tokenizer.K_NULL)
		constraint.Kind = ColumnNotNull
	case p.accept(tokenizer.K_UNIQUE):
		constraint.Kind = ColumnUnique
	case p.accept(tokenizer.K_DEFAULT):
		constraint.Kind = ColumnDefault
		constraint.Default = p.parseDefaultValue()
	case p.accept(tokenizer.K_CHECK):
		constraint.Kind = ColumnCheck
		p.expect(tokenizer.OPEN_PAREN)
		constraint.Check = p.parseExpr()
		p.expect(tokenizer.CLOSE_PAREN)
	case p.accept(tokenizer.K_COLLATE):
		constraint.Kind = ColumnCollate
		constraint.Collation = p.identValue(p.expect(tokenizer.IDENTIFIER))
	case p.at(tokenizer.K_REFERENCES):
		constraint.Kind = ColumnReferences
		constraint.References = p.parseForeignKeyClause()
	default:
		if constraint.Name != "" {
			p.fail(ErrUnexpectedToken, "expected constraint after CONSTRAINT name")
		}
		return nil
	}
	constraint.span = p.spanFrom(start)
	return constraint
}

// parseDefaultValue parses a DEFAULT value: a literal, a signed number, or a
// parenthesized expression.
func (p *Parser) parseDefaultValue() Expression {
	if p.at(tokenizer.OPEN_PAREN) {
		return p.parsePrefix()
	}
	return p.parseExpression(precUnary)
}

func (p *Parser) parseForeignKeyClause() *ForeignKeyClause {
	start := p.start()
	p.expect(tokenizer.K_REFERENCES)
	fk := &ForeignKeyClause{Table: p.identValue(p.expect(tokenizer.IDENTIFIER))}
	if p.accept(tokenizer.OPEN_PAREN) {
		fk.Columns = append(fk.Columns, p.identValue(p.expect(tokenizer.IDENTIFIER)))
		for p.accept(tokenizer.COMMA) {
			fk.Columns = append(fk.Columns, p.identValue(p.expect(tokenizer.IDENTIFIER)))
		}
		p.expect(tokenizer.CLOSE_PAREN)
	}
	fk.span = p.spanFrom(start)
	return fk
}

func (p *Parser) parseTableConstraint() *TableConstraint {
	start := p.start()
	constraint := &TableConstraint{}
	if p.accept(tokenizer.K_CONSTRAINT) {
		constraint.Name = p.identValue(p.expect(tokenizer.IDENTIFIER))
	}
	switch {
	case p.accept(tokenizer.K_PRIMARY):
		p.expect(tokenizer.K_KEY)
		constraint.Kind = TablePrimaryKey
		constraint.Columns = p.parseColumnNameList()
	case p.accept(tokenizer.K_UNIQUE):
		constraint.Kind = TableUnique
		constraint.Columns = p.parseColumnNameList()
	case p.accept(tokenizer.K_CHECK):
		constraint.Kind = TableCheck
		p.expect(tokenizer.OPEN_PAREN)
		constraint.Check = p.parseExpr()
		p.expect(tokenizer.CLOSE_PAREN)
	case p.accept(tokenizer.K_FOREIGN):
		p.expect(tokenizer.K_KEY)
		constraint.Kind = TableForeignKey
		constraint.Columns = p.parseColumnNameList()
		constraint.References = p.parseForeignKeyClause()
	default:
		p.fail(ErrUnexpectedToken, "expected table constraint")
	}
	constraint.span = p.spanFrom(start)
	return constraint
}

func (p *Parser) parseColumnNameList() []string {
	p.expect(tokenizer.OPEN_PAREN)
	names := []string{p.identValue(p.expect(tokenizer.IDENTIFIER))}
	for p.accept(tokenizer.COMMA) {
		names = append(names, p.identValue(p.expect(tokenizer.IDENTIFIER)))
	}
	p.expect(tokenizer.CLOSE_PAREN)
	return names
}

func (p *Parser) parseCreateIndex(start int) *CreateIndexStatement {
	stmt := &CreateIndexStatement{}
	p.keep(stmt)
	stmt.Unique = p.accept(tokenizer.K_UNIQUE)
	p.expect(tokenizer.K_INDEX)
	stmt.IfNotExists = p.acceptIfNotExists()
	stmt.Name = p.identValue(p.expect(tokenizer.IDENTIFIER))
	p.expect(tokenizer.K_ON)
	stmt.Table = p.identValue(p.expect(tokenizer.IDENTIFIER))
	p.expect(tokenizer.OPEN_PAREN)
	stmt.Columns = append(stmt.Columns, p.parseOrderingTerm())
	for p.accept(tokenizer.COMMA) {
		stmt.Columns = append(stmt.Columns, p.parseOrderingTerm())
	}
	p.expect(tokenizer.CLOSE_PAREN)
	if p.at(tokenizer.K_WHERE) {
		stmt.Where = p.parseWhereClause()
	}
	stmt.span = p.spanFrom(start)
	return stmt
}

func (p *Parser) parseCreateTrigger(start int, temp bool) *CreateTriggerStatement {
	stmt := &CreateTriggerStatement{Temp: temp}
	p.keep(stmt)
	p.expect(tokenizer.K_TRIGGER)
	stmt.IfNotExists = p.acceptIfNotExists()
	stmt.Name = p.identValue(p.expect(tokenizer.IDENTIFIER))
	switch {
	case p.accept(tokenizer.K_BEFORE):
		stmt.Timing = TriggerBefore
	case p.accept(tokenizer.K_AFTER):
		stmt.Timing = TriggerAfter
	case p.accept(tokenizer.K_INSTEAD):
		p.expect(tokenizer.K_OF)
		stmt.Timing = TriggerInsteadOf
	}
	switch {
	case p.accept(tokenizer.K_INSERT):
		stmt.Event = TriggerOnInsert
	case p.accept(tokenizer.K_DELETE):
		stmt.Event = TriggerOnDelete
	case p.accept(tokenizer.K_UPDATE):
		stmt.Event = TriggerOnUpdate
		if p.accept(tokenizer.K_OF) {
			stmt.UpdateColumns = append(stmt.UpdateColumns, p.identValue(p.expect(tokenizer.IDENTIFIER)))
			for p.accept(tokenizer.COMMA) {
				stmt.UpdateColumns = append(stmt.UpdateColumns, p.identValue(p.expect(tokenizer.IDENTIFIER)))
			}
		}
	default:
		p.fail(ErrUnexpectedToken, "expected INSERT, UPDATE or DELETE")
	}
	p.expect(tokenizer.K_ON)
	stmt.Table = p.identValue(p.expect(tokenizer.IDENTIFIER))
	if p.accept(tokenizer.K_FOR) {
		p.expect(tokenizer.K_EACH)
		p.expect(tokenizer.K_ROW)
		stmt.ForEachRow = true
	}
	if p.accept(tokenizer.K_WHEN) {
		stmt.When = p.parseExpr()
	}
	p.expect(tokenizer.K_BEGIN)
	for !p.at(tokenizer.K_END) {
		if p.at(tokenizer.EOF) {
			p.fail(ErrUnexpectedEOF, "unterminated trigger body")
		}
		stmt.Body = append(stmt.Body, p.parseTriggerBodyStatement())
		p.expect(tokenizer.SEMICOLON)
	}
	p.expect(tokenizer.K_END)
	stmt.span = p.spanFrom(start)
	return stmt
}

func (p *Parser) parseTriggerBodyStatement() Statement {
	switch p.peek().Type {
	case tokenizer.K_SELECT:
		return p.parseSelect(nil)
	case tokenizer.K_INSERT, tokenizer.K_REPLACE:
		return p.parseInsert(nil)
	case tokenizer.K_UPDATE:
		return p.parseUpdate(nil)
	case tokenizer.K_DELETE:
		return p.parseDelete(nil)
	default:
		p.fail(ErrExpectedStatement, "trigger bodies allow SELECT, INSERT, UPDATE and DELETE")
		return nil
	}
}
