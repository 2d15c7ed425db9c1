package analyzer

import (
	"github.com/sqlfront/sqlfront"
	"github.com/sqlfront/sqlfront/parser"
	"github.com/sqlfront/sqlfront/tokenizer"
)

// Symbol is anything a name in a scope can resolve to.
type Symbol interface {
	SymbolName() string
}

// OutputColumn is one column a relation exposes. Column is set for columns
// backed by the table registry; Expr is the defining expression for columns
// produced by a sub-select or CTE.
type OutputColumn struct {
	Name   string
	Column *sqlfront.Column
	Expr   parser.Expression
	Span   tokenizer.Span
}

// Relation is a symbol that exposes columns: a table, a sub-select, or a
// CTE.
type Relation interface {
	Symbol
	// BindingName is the name references qualify with: the alias when one
	// was declared, the real name otherwise. Empty for anonymous
	// sub-selects.
	BindingName() string
	OutputColumns() []OutputColumn
}

// TableSymbol binds a registered table into a scope. Table is nil when the
// FROM clause named a table the registry does not know; such a symbol
// exposes no columns.
type TableSymbol struct {
	Name  string
	Alias string
	Table *sqlfront.Table
	Ref   *parser.TableReference
}

// SymbolName implements Symbol
func (s *TableSymbol) SymbolName() string {
	return s.Name
}

// BindingName implements Relation
func (s *TableSymbol) BindingName() string {
	if s.Alias != "" {
		return s.Alias
	}
	return s.Name
}

// OutputColumns implements Relation
func (s *TableSymbol) OutputColumns() []OutputColumn {
	if s.Table == nil {
		return nil
	}
	cols := make([]OutputColumn, 0, len(s.Table.Columns))
	for _, c := range s.Table.Columns {
		span := tokenizer.Span{}
		if s.Ref != nil {
			span = s.Ref.Span()
		}
		cols = append(cols, OutputColumn{Name: c.Name, Column: c, Span: span})
	}
	return cols
}

// SubquerySymbol binds a FROM sub-select into a scope. Its columns are the
// result columns of the inner SELECT.
type SubquerySymbol struct {
	Alias  string
	Select *parser.SelectStatement
	Source *parser.SelectSource
}

// SymbolName implements Symbol
func (s *SubquerySymbol) SymbolName() string {
	return s.Alias
}

// BindingName implements Relation
func (s *SubquerySymbol) BindingName() string {
	return s.Alias
}

// OutputColumns implements Relation
func (s *SubquerySymbol) OutputColumns() []OutputColumn {
	return selectOutputColumns(s.Select)
}

// CteSymbol binds a common table expression. It is declared before the CTE
// body is visited so the body can refer to itself.
type CteSymbol struct {
	Name string
	CTE  *parser.CommonTableExpr
}

// SymbolName implements Symbol
func (s *CteSymbol) SymbolName() string {
	return s.Name
}

// BindingName implements Relation
func (s *CteSymbol) BindingName() string {
	return s.Name
}

// OutputColumns implements Relation
func (s *CteSymbol) OutputColumns() []OutputColumn {
	inner := selectOutputColumns(s.CTE.Select)
	if len(s.CTE.Columns) == 0 {
		return inner
	}
	// An explicit column list renames the select output positionally.
	cols := make([]OutputColumn, 0, len(s.CTE.Columns))
	for i, name := range s.CTE.Columns {
		col := OutputColumn{Name: name, Span: s.CTE.Span()}
		if i < len(inner) {
			col.Column = inner[i].Column
			col.Expr = inner[i].Expr
		}
		cols = append(cols, col)
	}
	return cols
}

// selectOutputColumns derives the output columns of a SELECT. Star columns
// contribute nothing here; the column resolver expands them into explicit
// references before any lookup depends on the result.
func selectOutputColumns(sel *parser.SelectStatement) []OutputColumn {
	if sel == nil {
		return nil
	}
	var cols []OutputColumn
	for _, rc := range sel.Columns {
		expr, ok := rc.(*parser.ExpressionResultColumn)
		if !ok {
			continue
		}
		name := expr.Alias
		if name == "" {
			if ref, ok := expr.Expr.(*parser.Reference); ok {
				name = ref.Column
			}
		}
		cols = append(cols, OutputColumn{Name: name, Expr: expr.Expr, Span: expr.Span()})
	}
	return cols
}

// ColumnSymbol is the resolution of one column reference.
type ColumnSymbol struct {
	Name     string
	Relation Relation
	Column   *sqlfront.Column
	Expr     parser.Expression
}

// SymbolName implements Symbol
func (s *ColumnSymbol) SymbolName() string {
	return s.Name
}
