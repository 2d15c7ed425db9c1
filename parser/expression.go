package parser

import (
	"github.com/shopspring/decimal"
	"github.com/sqlfront/sqlfront/tokenizer"
)

// NumberLiteral is a numeric literal. The value is carried as a decimal so
// that integer, hex and exponent forms survive without precision loss.
type NumberLiteral struct {
	baseNode
	Value decimal.Decimal
}

func (*NumberLiteral) expr() {}

// Children implements Node
func (*NumberLiteral) Children() []Node {
	return nil
}

// IsIntegral reports whether the literal has no fractional part.
func (l *NumberLiteral) IsIntegral() bool {
	return l.Value.IsInteger()
}

// StringLiteral is a 'quoted' text literal; Value holds the unescaped text.
type StringLiteral struct {
	baseNode
	Value string
}

func (*StringLiteral) expr() {}

// Children implements Node
func (*StringLiteral) Children() []Node {
	return nil
}

// BlobLiteral is an x'...' literal; Hex holds the digits between the quotes.
type BlobLiteral struct {
	baseNode
	Hex string
}

func (*BlobLiteral) expr() {}

// Children implements Node
func (*BlobLiteral) Children() []Node {
	return nil
}

// NullLiteral is the NULL keyword used as a value.
type NullLiteral struct {
	baseNode
}

func (*NullLiteral) expr() {}

// Children implements Node
func (*NullLiteral) Children() []Node {
	return nil
}

// BoolLiteral is TRUE or FALSE.
type BoolLiteral struct {
	baseNode
	Value bool
}

func (*BoolLiteral) expr() {}

// Children implements Node
func (*BoolLiteral) Children() []Node {
	return nil
}

// Reference is a column reference, optionally qualified with a table name or
// alias.
type Reference struct {
	baseNode
	Table  string
	Column string
}

func (*Reference) expr() {}

// Children implements Node
func (*Reference) Children() []Node {
	return nil
}

// Name returns the reference in its source spelling, qualifier included.
func (r *Reference) Name() string {
	if r.Table == "" {
		return r.Column
	}
	return r.Table + "." + r.Column
}

// NewReference builds a column reference node. Exposed for the analyzer's star
// expansion, which synthesizes references that were not in the source text.
func NewReference(table, column string, span tokenizer.Span) *Reference {
	return &Reference{baseNode: baseNode{span: span}, Table: table, Column: column}
}

// Variable is a bind placeholder. Index is the stable 1-based index: the
// explicit index when the source had one, otherwise the document-order index
// assigned during parsing. Named variables share one index per name.
type Variable struct {
	baseNode
	Name     string
	Explicit bool
	Index    int
}

func (*Variable) expr() {}

// Children implements Node
func (*Variable) Children() []Node {
	return nil
}

// BinaryOp enumerates binary operators.
type BinaryOp int

const (
	OpOr BinaryOp = iota
	OpAnd
	OpEq
	OpNe
	OpIs
	OpIsNot
	OpLt
	OpLe
	OpGt
	OpGe
	OpShiftLeft
	OpShiftRight
	OpBitAnd
	OpBitOr
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpConcat
)

// String returns the SQL spelling of the operator.
func (op BinaryOp) String() string {
	switch op {
	case OpOr:
		return "OR"
	case OpAnd:
		return "AND"
	case OpEq:
		return "="
	case OpNe:
		return "<>"
	case OpIs:
		return "IS"
	case OpIsNot:
		return "IS NOT"
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	case OpShiftLeft:
		return "<<"
	case OpShiftRight:
		return ">>"
	case OpBitAnd:
		return "&"
	case OpBitOr:
		return "|"
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpMod:
		return "%"
	case OpConcat:
		return "||"
	default:
		return "UNKNOWN"
	}
}

// BinaryExpr is a binary operator application.
type BinaryExpr struct {
	baseNode
	Op    BinaryOp
	Left  Expression
	Right Expression
}

func (*BinaryExpr) expr() {}

// Children implements Node
func (e *BinaryExpr) Children() []Node {
	var nodes []Node
	if e.Left != nil {
		nodes = append(nodes, e.Left)
	}
	if e.Right != nil {
		nodes = append(nodes, e.Right)
	}
	return nodes
}

// UnaryOp enumerates prefix operators.
type UnaryOp int

const (
	OpNeg UnaryOp = iota
	OpPos
	OpBitNot
	OpNot
)

// UnaryExpr is a prefix operator application.
type UnaryExpr struct {
	baseNode
	Op      UnaryOp
	Operand Expression
}

func (*UnaryExpr) expr() {}

// Children implements Node
func (e *UnaryExpr) Children() []Node {
	if e.Operand == nil {
		return nil
	}
	return []Node{e.Operand}
}

// BetweenExpr is `expr [NOT] BETWEEN lower AND upper`. The AND is part of the
// ternary, not a conjunction.
type BetweenExpr struct {
	baseNode
	Not   bool
	Expr  Expression
	Lower Expression
	Upper Expression
}

func (*BetweenExpr) expr() {}

// Children implements Node
func (e *BetweenExpr) Children() []Node {
	var nodes []Node
	if e.Expr != nil {
		nodes = append(nodes, e.Expr)
	}
	if e.Lower != nil {
		nodes = append(nodes, e.Lower)
	}
	if e.Upper != nil {
		nodes = append(nodes, e.Upper)
	}
	return nodes
}

// InExpr is `expr [NOT] IN ...` with exactly one of the three right-hand
// forms populated: a parenthesized value list, a subquery, or a bare bind
// variable that expands into a list at execution time.
type InExpr struct {
	baseNode
	Not    bool
	Expr   Expression
	Values []Expression
	List   bool // distinguishes IN () empty list from the other forms
	Select *SelectStatement
	Var    *Variable
}

func (*InExpr) expr() {}

// Children implements Node
func (e *InExpr) Children() []Node {
	var nodes []Node
	if e.Expr != nil {
		nodes = append(nodes, e.Expr)
	}
	for _, value := range e.Values {
		nodes = append(nodes, value)
	}
	if e.Select != nil {
		nodes = append(nodes, e.Select)
	}
	if e.Var != nil {
		nodes = append(nodes, e.Var)
	}
	return nodes
}

// LikeOp enumerates the text matching operators.
type LikeOp int

const (
	LikeOpLike LikeOp = iota
	LikeOpGlob
	LikeOpMatch
	LikeOpRegexp
)

// String returns the SQL spelling of the operator.
func (op LikeOp) String() string {
	switch op {
	case LikeOpLike:
		return "LIKE"
	case LikeOpGlob:
		return "GLOB"
	case LikeOpMatch:
		return "MATCH"
	case LikeOpRegexp:
		return "REGEXP"
	default:
		return "UNKNOWN"
	}
}

// LikeExpr is `left [NOT] LIKE/GLOB/MATCH/REGEXP right [ESCAPE esc]`.
type LikeExpr struct {
	baseNode
	Op     LikeOp
	Not    bool
	Left   Expression
	Right  Expression
	Escape Expression
}

func (*LikeExpr) expr() {}

// Children implements Node
func (e *LikeExpr) Children() []Node {
	var nodes []Node
	if e.Left != nil {
		nodes = append(nodes, e.Left)
	}
	if e.Right != nil {
		nodes = append(nodes, e.Right)
	}
	if e.Escape != nil {
		nodes = append(nodes, e.Escape)
	}
	return nodes
}

// CaseWhen is one WHEN cond THEN result arm of a CASE expression.
type CaseWhen struct {
	baseNode
	Cond Expression
	Then Expression
}

// Children implements Node
func (w *CaseWhen) Children() []Node {
	var nodes []Node
	if w.Cond != nil {
		nodes = append(nodes, w.Cond)
	}
	if w.Then != nil {
		nodes = append(nodes, w.Then)
	}
	return nodes
}

// CaseExpr is a CASE expression; Operand is nil for the searched form.
type CaseExpr struct {
	baseNode
	Operand Expression
	Whens   []*CaseWhen
	Else    Expression
}

func (*CaseExpr) expr() {}

// Children implements Node
func (e *CaseExpr) Children() []Node {
	var nodes []Node
	if e.Operand != nil {
		nodes = append(nodes, e.Operand)
	}
	for _, when := range e.Whens {
		nodes = append(nodes, when)
	}
	if e.Else != nil {
		nodes = append(nodes, e.Else)
	}
	return nodes
}

// FunctionCall is a scalar or aggregate function invocation.
type FunctionCall struct {
	baseNode
	Name     string
	Star     bool // count(*)
	Distinct bool
	Args     []Expression
	Filter   *WhereClause
}

func (*FunctionCall) expr() {}

// Children implements Node
func (e *FunctionCall) Children() []Node {
	var nodes []Node
	for _, arg := range e.Args {
		nodes = append(nodes, arg)
	}
	if e.Filter != nil {
		nodes = append(nodes, e.Filter)
	}
	return nodes
}

// FrameUnit is the unit of a window frame specification.
type FrameUnit int

const (
	FrameRange FrameUnit = iota
	FrameRows
	FrameGroups
)

// FrameBoundKind enumerates window frame bound forms.
type FrameBoundKind int

const (
	BoundUnboundedPreceding FrameBoundKind = iota
	BoundPreceding
	BoundCurrentRow
	BoundFollowing
	BoundUnboundedFollowing
)

// FrameBound is one bound of a window frame. Expr is set only for the
// `expr PRECEDING` and `expr FOLLOWING` forms.
type FrameBound struct {
	baseNode
	Kind FrameBoundKind
	Expr Expression
}

// Children implements Node
func (b *FrameBound) Children() []Node {
	if b.Expr == nil {
		return nil
	}
	return []Node{b.Expr}
}

// FrameSpec is a window frame specification.
type FrameSpec struct {
	baseNode
	Unit  FrameUnit
	Start *FrameBound
	End   *FrameBound
}

// Children implements Node
func (s *FrameSpec) Children() []Node {
	var nodes []Node
	if s.Start != nil {
		nodes = append(nodes, s.Start)
	}
	if s.End != nil {
		nodes = append(nodes, s.End)
	}
	return nodes
}

// WindowDef is the parenthesized window definition after OVER or in a WINDOW
// clause. BaseName references a named window the definition extends.
type WindowDef struct {
	baseNode
	BaseName    string
	PartitionBy []Expression
	OrderBy     []*OrderingTerm
	Frame       *FrameSpec
}

// Children implements Node
func (d *WindowDef) Children() []Node {
	var nodes []Node
	for _, expr := range d.PartitionBy {
		nodes = append(nodes, expr)
	}
	for _, term := range d.OrderBy {
		nodes = append(nodes, term)
	}
	if d.Frame != nil {
		nodes = append(nodes, d.Frame)
	}
	return nodes
}

// WindowFunction is `call OVER (def)` or `call OVER name`.
type WindowFunction struct {
	baseNode
	Call       *FunctionCall
	Def        *WindowDef
	WindowName string
}

func (*WindowFunction) expr() {}

// Children implements Node
func (e *WindowFunction) Children() []Node {
	var nodes []Node
	if e.Call != nil {
		nodes = append(nodes, e.Call)
	}
	if e.Def != nil {
		nodes = append(nodes, e.Def)
	}
	return nodes
}

// CastExpr is `CAST(expr AS type)`.
type CastExpr struct {
	baseNode
	Expr     Expression
	TypeName string
}

func (*CastExpr) expr() {}

// Children implements Node
func (e *CastExpr) Children() []Node {
	if e.Expr == nil {
		return nil
	}
	return []Node{e.Expr}
}

// CollateExpr is the postfix `expr COLLATE name`.
type CollateExpr struct {
	baseNode
	Expr      Expression
	Collation string
}

func (*CollateExpr) expr() {}

// Children implements Node
func (e *CollateExpr) Children() []Node {
	if e.Expr == nil {
		return nil
	}
	return []Node{e.Expr}
}

// ExistsExpr is `[NOT] EXISTS (select)`.
type ExistsExpr struct {
	baseNode
	Not    bool
	Select *SelectStatement
}

func (*ExistsExpr) expr() {}

// Children implements Node
func (e *ExistsExpr) Children() []Node {
	if e.Select == nil {
		return nil
	}
	return []Node{e.Select}
}

// SubqueryExpr is a parenthesized scalar subquery used as a value.
type SubqueryExpr struct {
	baseNode
	Select *SelectStatement
}

func (*SubqueryExpr) expr() {}

// Children implements Node
func (e *SubqueryExpr) Children() []Node {
	if e.Select == nil {
		return nil
	}
	return []Node{e.Select}
}

// BadExpr is the placeholder produced when expression parsing fails and the
// parser recovers.
type BadExpr struct {
	baseNode
}

func (*BadExpr) expr() {}

// Children implements Node
func (*BadExpr) Children() []Node {
	return nil
}
