package analyzer

import (
	"fmt"
	"strings"

	"github.com/sqlfront/sqlfront"
	"github.com/sqlfront/sqlfront/parser"
)

var (
	intType  = sqlfront.ResolvedType{Base: sqlfront.BaseInt}
	textType = sqlfront.ResolvedType{Base: sqlfront.BaseText}
	realType = sqlfront.ResolvedType{Base: sqlfront.BaseReal}
	boolType = sqlfront.ResolvedType{Base: sqlfront.BaseBool}
)

// ResolveTypes infers a type for every expression of the statement. Each
// pass walks the tree bottom-up, resolving what literals, column bindings
// and function signatures determine, and pushes expectations from resolved
// positions into bind variables and other context-dependent nodes. Passes
// repeat until no node changes state. Resolution only ever moves forward
// on the unknown < needs-context < resolved ladder, so the loop
// terminates.
func ResolveTypes(ctx *Context) {
	r := &typeResolver{ctx: ctx}
	r.reportUnknownFunctions()
	for {
		r.changed = false
		r.visit(ctx.Root)
		if !r.changed {
			break
		}
	}
}

type typeResolver struct {
	ctx     *Context
	changed bool
}

func (r *typeResolver) reportUnknownFunctions() {
	parser.Walk(r.ctx.Root, func(n parser.Node) bool {
		call, ok := n.(*parser.FunctionCall)
		if !ok {
			return true
		}
		if _, known := r.ctx.Function(call.Name); !known {
			r.ctx.Report(SeverityWarning, call.Span(), call,
				fmt.Sprintf("unknown function %q", call.Name))
		}
		return true
	})
}

func (r *typeResolver) set(n parser.Node, res sqlfront.ResolveResult) {
	if r.ctx.setType(n, res) {
		r.changed = true
	}
}

func (r *typeResolver) resolve(n parser.Node, t sqlfront.ResolvedType) {
	r.set(n, sqlfront.ResolvedAs(t))
}

func (r *typeResolver) typeOf(n parser.Node) sqlfront.ResolveResult {
	if n == nil {
		return sqlfront.ResolveResult{}
	}
	return r.ctx.TypeOf(n)
}

func (r *typeResolver) visit(n parser.Node) {
	if n == nil {
		return
	}
	for _, child := range n.Children() {
		r.visit(child)
	}
	r.infer(n)
}

func (r *typeResolver) infer(n parser.Node) {
	switch e := n.(type) {
	case *parser.NumberLiteral:
		if e.IsIntegral() {
			r.resolve(e, intType)
		} else {
			r.resolve(e, realType)
		}
	case *parser.StringLiteral:
		r.resolve(e, textType)
	case *parser.BlobLiteral:
		r.resolve(e, sqlfront.ResolvedType{Base: sqlfront.BaseBlob})
	case *parser.NullLiteral:
		r.resolve(e, sqlfront.ResolvedType{Base: sqlfront.BaseNull, Nullable: true})
	case *parser.BoolLiteral:
		r.resolve(e, boolType)
	case *parser.Variable:
		r.set(e, sqlfront.NeedsContext())
	case *parser.Reference:
		r.reference(e)
	case *parser.BinaryExpr:
		r.binary(e)
	case *parser.UnaryExpr:
		r.unary(e)
	case *parser.BetweenExpr:
		r.between(e)
	case *parser.InExpr:
		r.in(e)
	case *parser.LikeExpr:
		r.like(e)
	case *parser.CaseExpr:
		r.caseExpr(e)
	case *parser.FunctionCall:
		r.call(e)
	case *parser.WindowFunction:
		if e.Call != nil {
			r.set(e, r.typeOf(e.Call))
		}
	case *parser.CastExpr:
		r.cast(e)
	case *parser.CollateExpr:
		r.set(e, r.typeOf(e.Expr))
	case *parser.ExistsExpr:
		r.resolve(e, boolType)
	case *parser.SubqueryExpr:
		if st := r.typeOf(selectResultExpr(e.Select)); st.IsResolved() {
			t := st.Type
			// A scalar subquery with no rows yields NULL.
			t.Nullable = true
			r.resolve(e, t)
		}
	case *parser.ExpressionResultColumn:
		r.set(e, r.typeOf(e.Expr))
	case *parser.FrameBound:
		r.expect(e.Expr, intType)
	case *parser.LimitClause:
		r.expect(e.Count, intType)
		r.expect(e.Offset, intType)
	case *parser.WhereClause:
		r.condition(e.Cond)
	case *parser.HavingClause:
		r.condition(e.Cond)
	case *parser.JoinClause:
		r.condition(e.On)
	case *parser.SetClause:
		if t := r.typeOf(e.Column); t.IsResolved() {
			r.expect(e.Value, t.Type)
		}
	case *parser.InsertStatement:
		r.insert(e)
	}
}

// condition types a bare bind variable used directly as a filter.
func (r *typeResolver) condition(cond parser.Expression) {
	if v, ok := cond.(*parser.Variable); ok {
		r.expect(v, boolType)
	}
}

func (r *typeResolver) reference(ref *parser.Reference) {
	sym := r.ctx.ResolvedReference(ref)
	if sym == nil {
		return
	}
	if sym.Column != nil {
		r.resolve(ref, sym.Column.Resolved())
		return
	}
	if sym.Expr != nil {
		r.set(ref, r.typeOf(sym.Expr))
	}
}

func (r *typeResolver) binary(e *parser.BinaryExpr) {
	switch e.Op {
	case parser.OpOr, parser.OpAnd:
		r.resolve(e, boolType)
		r.condition(e.Left)
		r.condition(e.Right)
	case parser.OpEq, parser.OpNe, parser.OpIs, parser.OpIsNot,
		parser.OpLt, parser.OpLe, parser.OpGt, parser.OpGe:
		r.resolve(e, boolType)
		if lt := r.typeOf(e.Left); lt.IsResolved() {
			r.expect(e.Right, lt.Type)
		} else if rt := r.typeOf(e.Right); rt.IsResolved() {
			r.expect(e.Left, rt.Type)
		}
	case parser.OpConcat:
		r.resolve(e, textType)
		r.expect(e.Left, textType)
		r.expect(e.Right, textType)
	case parser.OpShiftLeft, parser.OpShiftRight, parser.OpBitAnd, parser.OpBitOr, parser.OpMod:
		r.resolve(e, intType)
		r.expect(e.Left, intType)
		r.expect(e.Right, intType)
	default: // + - * /
		r.arithmetic(e)
	}
}

func (r *typeResolver) arithmetic(e *parser.BinaryExpr) {
	lt, rt := r.typeOf(e.Left), r.typeOf(e.Right)
	if lt.IsResolved() && rt.IsResolved() {
		r.resolve(e, combineNumeric(lt.Type, rt.Type))
		return
	}
	if lt.IsResolved() {
		r.expect(e.Right, numericOperand(lt.Type))
	} else if rt.IsResolved() {
		r.expect(e.Left, numericOperand(rt.Type))
	}
}

// combineNumeric is the arithmetic result rule: real wins over int, the
// result is nullable when either operand is, and hints do not survive.
func combineNumeric(a, b sqlfront.ResolvedType) sqlfront.ResolvedType {
	base := sqlfront.BaseInt
	if a.Base == sqlfront.BaseReal || b.Base == sqlfront.BaseReal {
		base = sqlfront.BaseReal
	}
	return sqlfront.ResolvedType{Base: base, Nullable: a.Nullable || b.Nullable}
}

func numericOperand(t sqlfront.ResolvedType) sqlfront.ResolvedType {
	if t.Base == sqlfront.BaseReal {
		return realType
	}
	return intType
}

func (r *typeResolver) unary(e *parser.UnaryExpr) {
	switch e.Op {
	case parser.OpNot:
		r.resolve(e, boolType)
		r.condition(e.Operand)
	case parser.OpBitNot:
		r.resolve(e, intType)
		r.expect(e.Operand, intType)
	default: // negation and unary plus
		if t := r.typeOf(e.Operand); t.IsResolved() {
			r.resolve(e, numericOperand(t.Type))
		}
	}
}

// between unifies all three operands to the type of the tested expression,
// falling back to whichever bound resolved first.
func (r *typeResolver) between(e *parser.BetweenExpr) {
	r.resolve(e, boolType)
	for _, anchor := range []parser.Expression{e.Expr, e.Lower, e.Upper} {
		if t := r.typeOf(anchor); t.IsResolved() {
			r.expect(e.Expr, t.Type)
			r.expect(e.Lower, t.Type)
			r.expect(e.Upper, t.Type)
			return
		}
	}
}

func (r *typeResolver) in(e *parser.InExpr) {
	r.resolve(e, boolType)
	elem := r.typeOf(e.Expr)
	switch {
	case e.Var != nil:
		// A bare bind variable on the right expands into a list, so it
		// takes the element type as an array.
		if elem.IsResolved() {
			t := elem.Type
			t.IsArray = true
			r.expect(e.Var, t)
		}
	case e.Select != nil:
		if elem.IsResolved() {
			r.expect(selectResultExpr(e.Select), elem.Type)
		} else if st := r.typeOf(selectResultExpr(e.Select)); st.IsResolved() {
			r.expect(e.Expr, st.Type)
		}
	default:
		// Parenthesized values are scalars, one comparison each.
		if elem.IsResolved() {
			for _, v := range e.Values {
				r.expect(v, elem.Type)
			}
			return
		}
		for _, v := range e.Values {
			if vt := r.typeOf(v); vt.IsResolved() {
				r.expect(e.Expr, vt.Type)
				return
			}
		}
	}
}

func (r *typeResolver) like(e *parser.LikeExpr) {
	r.resolve(e, boolType)
	r.expect(e.Left, textType)
	r.expect(e.Right, textType)
	r.expect(e.Escape, textType)
}

func (r *typeResolver) caseExpr(e *parser.CaseExpr) {
	result := sqlfront.ResolveResult{}
	for _, when := range e.Whens {
		if t := r.typeOf(when.Then); t.IsResolved() {
			result = t
			break
		}
	}
	if !result.IsResolved() {
		result = r.typeOf(e.Else)
	}
	if result.IsResolved() {
		r.set(e, result)
		for _, when := range e.Whens {
			r.expect(when.Then, result.Type)
		}
		r.expect(e.Else, result.Type)
	}
	if e.Operand == nil {
		for _, when := range e.Whens {
			r.condition(when.Cond)
		}
		return
	}
	if ot := r.typeOf(e.Operand); ot.IsResolved() {
		for _, when := range e.Whens {
			r.expect(when.Cond, ot.Type)
		}
		return
	}
	for _, when := range e.Whens {
		if ct := r.typeOf(when.Cond); ct.IsResolved() {
			r.expect(e.Operand, ct.Type)
			return
		}
	}
}

func (r *typeResolver) call(e *parser.FunctionCall) {
	sig, ok := r.ctx.Function(e.Name)
	if !ok {
		return
	}
	if e.Star {
		r.resolve(e, intType)
		return
	}
	if sig.ReturnFromArg {
		if len(e.Args) > 0 {
			if t := r.typeOf(e.Args[0]); t.IsResolved() {
				r.set(e, t)
			}
		}
	} else {
		r.resolve(e, sig.Return)
	}
	for i, arg := range e.Args {
		switch sig.ArgExpectationAt(i) {
		case sqlfront.ArgInt:
			r.expect(arg, intType)
		case sqlfront.ArgText:
			r.expect(arg, textType)
		case sqlfront.ArgReal:
			r.expect(arg, realType)
		case sqlfront.ArgSameAsFirst:
			if len(e.Args) > 0 && i > 0 {
				if t := r.typeOf(e.Args[0]); t.IsResolved() {
					r.expect(arg, t.Type)
				}
			}
		}
	}
}

func (r *typeResolver) cast(e *parser.CastExpr) {
	name := e.TypeName
	if i := strings.IndexByte(name, '('); i >= 0 {
		name = strings.TrimSpace(name[:i])
	}
	ct := sqlfront.ParseColumnType(name)
	if ct == sqlfront.ColumnUnknown {
		r.ctx.Report(SeverityWarning, e.Span(), e,
			fmt.Sprintf("unknown cast type %q", e.TypeName))
		return
	}
	t := ct.Resolved(true)
	r.resolve(e, t)
	r.expect(e.Expr, t)
}

// insert pushes the target column types into each VALUES row positionally.
// An explicit column list supplies the order; without one the table's
// declaration order applies.
func (r *typeResolver) insert(e *parser.InsertStatement) {
	var types []sqlfront.ResolveResult
	if len(e.Columns) > 0 {
		for _, col := range e.Columns {
			types = append(types, r.typeOf(col))
		}
	} else if e.Table != nil {
		if table := r.ctx.Table(e.Table.Name); table != nil {
			for _, col := range table.Columns {
				types = append(types, sqlfront.ResolvedAs(col.Resolved()))
			}
		}
	}
	for _, row := range e.Values {
		for i, value := range row {
			if i < len(types) && types[i].IsResolved() {
				r.expect(value, types[i].Type)
			}
		}
	}
}

// expect pushes an expected type into a node whose type depends on
// context. Bind variables take the type directly, minus nullability: a
// bind site does not inherit the nullability of the column it is compared
// against. Pass-through wrappers forward the expectation; everything else
// ignores it.
func (r *typeResolver) expect(n parser.Expression, t sqlfront.ResolvedType) {
	switch e := n.(type) {
	case *parser.Variable:
		t.Nullable = false
		r.resolve(e, t)
	case *parser.CollateExpr:
		r.expect(e.Expr, t)
	case *parser.UnaryExpr:
		if e.Op == parser.OpNeg || e.Op == parser.OpPos {
			r.expect(e.Operand, t)
		}
	case *parser.CaseExpr:
		for _, when := range e.Whens {
			r.expect(when.Then, t)
		}
		r.expect(e.Else, t)
	}
}

// selectResultExpr is the expression of the first result column of a
// SELECT, used as the value a subquery produces.
func selectResultExpr(sel *parser.SelectStatement) parser.Expression {
	if sel == nil || len(sel.Columns) == 0 {
		return nil
	}
	if col, ok := sel.Columns[0].(*parser.ExpressionResultColumn); ok {
		return col.Expr
	}
	return nil
}
