package parser

import (
	"github.com/sqlfront/sqlfront/tokenizer"
)

// WithClause is the WITH prefix of a statement.
type WithClause struct {
	baseNode
	Recursive bool
	CTEs      []*CommonTableExpr
}

// Children implements Node
func (c *WithClause) Children() []Node {
	var nodes []Node
	for _, cte := range c.CTEs {
		nodes = append(nodes, cte)
	}
	return nodes
}

// CommonTableExpr is one name AS (select) entry of a WITH clause.
type CommonTableExpr struct {
	baseNode
	Name    string
	Columns []string
	Select  *SelectStatement
}

// Children implements Node
func (c *CommonTableExpr) Children() []Node {
	if c.Select == nil {
		return nil
	}
	return []Node{c.Select}
}

// JoinType enumerates the join operators.
type JoinType int

const (
	JoinInner JoinType = iota
	JoinLeft
	JoinRight
	JoinFull
	JoinCross
	JoinComma // comma-separated FROM sources
)

// String returns the SQL spelling of the join type.
func (j JoinType) String() string {
	switch j {
	case JoinInner:
		return "INNER JOIN"
	case JoinLeft:
		return "LEFT JOIN"
	case JoinRight:
		return "RIGHT JOIN"
	case JoinFull:
		return "FULL JOIN"
	case JoinCross:
		return "CROSS JOIN"
	case JoinComma:
		return ","
	default:
		return "UNKNOWN"
	}
}

// JoinClause joins one more source onto the FROM clause.
type JoinClause struct {
	baseNode
	Type    JoinType
	Natural bool
	Source  TableSource
	On      Expression
	Using   []string
}

// Children implements Node
func (c *JoinClause) Children() []Node {
	var nodes []Node
	if c.Source != nil {
		nodes = append(nodes, c.Source)
	}
	if c.On != nil {
		nodes = append(nodes, c.On)
	}
	return nodes
}

// FromClause lists the sources a statement reads from. Source order is
// left-to-right as written, which reference resolution depends on.
type FromClause struct {
	baseNode
	Source TableSource
	Joins  []*JoinClause
}

// Children implements Node
func (c *FromClause) Children() []Node {
	var nodes []Node
	if c.Source != nil {
		nodes = append(nodes, c.Source)
	}
	for _, join := range c.Joins {
		nodes = append(nodes, join)
	}
	return nodes
}

// Sources returns every table source of the clause in declaration order.
func (c *FromClause) Sources() []TableSource {
	if c == nil {
		return nil
	}
	sources := make([]TableSource, 0, 1+len(c.Joins))
	if c.Source != nil {
		sources = append(sources, c.Source)
	}
	for _, join := range c.Joins {
		if join.Source != nil {
			sources = append(sources, join.Source)
		}
	}
	return sources
}

// TableReference names a table, optionally under an alias.
type TableReference struct {
	baseNode
	Name  string
	Alias string
}

func (*TableReference) tableSource() {}

// Children implements Node
func (*TableReference) Children() []Node {
	return nil
}

// SelectSource is a sub-select used as a FROM source.
type SelectSource struct {
	baseNode
	Select *SelectStatement
	Alias  string
}

func (*SelectSource) tableSource() {}

// Children implements Node
func (s *SelectSource) Children() []Node {
	if s.Select == nil {
		return nil
	}
	return []Node{s.Select}
}

// WhereClause wraps the filter condition of a statement.
type WhereClause struct {
	baseNode
	Cond Expression
}

// Children implements Node
func (c *WhereClause) Children() []Node {
	if c.Cond == nil {
		return nil
	}
	return []Node{c.Cond}
}

// GroupByClause lists grouping expressions.
type GroupByClause struct {
	baseNode
	Exprs []Expression
}

// Children implements Node
func (c *GroupByClause) Children() []Node {
	var nodes []Node
	for _, expr := range c.Exprs {
		nodes = append(nodes, expr)
	}
	return nodes
}

// HavingClause wraps the group filter condition.
type HavingClause struct {
	baseNode
	Cond Expression
}

// Children implements Node
func (c *HavingClause) Children() []Node {
	if c.Cond == nil {
		return nil
	}
	return []Node{c.Cond}
}

// NullsOrder is the NULLS FIRST/LAST modifier of an ordering term.
type NullsOrder int

const (
	NullsDefault NullsOrder = iota
	NullsFirst
	NullsLast
)

// OrderingTerm is one entry of an ORDER BY (or indexed-column) list.
type OrderingTerm struct {
	baseNode
	Expr      Expression
	Collation string
	Desc      bool
	Nulls     NullsOrder
}

// Children implements Node
func (t *OrderingTerm) Children() []Node {
	if t.Expr == nil {
		return nil
	}
	return []Node{t.Expr}
}

// OrderByClause lists ordering terms.
type OrderByClause struct {
	baseNode
	Terms []*OrderingTerm
}

// Children implements Node
func (c *OrderByClause) Children() []Node {
	var nodes []Node
	for _, term := range c.Terms {
		nodes = append(nodes, term)
	}
	return nodes
}

// LimitClause carries LIMIT and the optional OFFSET. The `LIMIT x, y` comma
// form is normalized into Offset/Count during parsing.
type LimitClause struct {
	baseNode
	Count  Expression
	Offset Expression
}

// Children implements Node
func (c *LimitClause) Children() []Node {
	var nodes []Node
	if c.Count != nil {
		nodes = append(nodes, c.Count)
	}
	if c.Offset != nil {
		nodes = append(nodes, c.Offset)
	}
	return nodes
}

// NamedWindow is one name AS (window def) entry of a WINDOW clause.
type NamedWindow struct {
	baseNode
	Name string
	Def  *WindowDef
}

// Children implements Node
func (w *NamedWindow) Children() []Node {
	if w.Def == nil {
		return nil
	}
	return []Node{w.Def}
}

// WindowClause lists named window definitions.
type WindowClause struct {
	baseNode
	Windows []*NamedWindow
}

// Children implements Node
func (c *WindowClause) Children() []Node {
	var nodes []Node
	for _, w := range c.Windows {
		nodes = append(nodes, w)
	}
	return nodes
}

// ReturningClause lists the result columns of a RETURNING suffix on DML.
type ReturningClause struct {
	baseNode
	Columns []ResultColumn
}

// Children implements Node
func (c *ReturningClause) Children() []Node {
	var nodes []Node
	for _, col := range c.Columns {
		nodes = append(nodes, col)
	}
	return nodes
}

// StarResultColumn is `*` or `table.*` in a result column list.
type StarResultColumn struct {
	baseNode
	Table string
}

func (*StarResultColumn) resultColumn() {}

// Children implements Node
func (*StarResultColumn) Children() []Node {
	return nil
}

// ExpressionResultColumn is an expression result column with an optional alias.
type ExpressionResultColumn struct {
	baseNode
	Expr  Expression
	Alias string
}

// NewExpressionResultColumn builds a result column node. Exposed for the
// analyzer's star expansion, which synthesizes columns that were not in the
// source text.
func NewExpressionResultColumn(expr Expression, span tokenizer.Span) *ExpressionResultColumn {
	return &ExpressionResultColumn{baseNode: baseNode{span: span}, Expr: expr}
}

func (*ExpressionResultColumn) resultColumn() {}

// Children implements Node
func (c *ExpressionResultColumn) Children() []Node {
	if c.Expr == nil {
		return nil
	}
	return []Node{c.Expr}
}
