package analyzer

import (
	"fmt"

	"github.com/sqlfront/sqlfront/parser"
)

// ExpandStars rewrites `*` and `table.*` result columns into explicit
// column references, in FROM-source order and then column declaration
// order. Inner selects are expanded before the selects that read from
// them so that sub-select and CTE output columns are complete by the time
// an outer star consults them. Parent links are reassigned afterwards so
// the synthesized nodes join the tree.
func ExpandStars(ctx *Context) {
	var expand func(n parser.Node)
	expand = func(n parser.Node) {
		for _, child := range n.Children() {
			expand(child)
		}
		switch s := n.(type) {
		case *parser.SelectStatement:
			s.Columns = expandColumns(ctx, ctx.ScopeOf(s), s.Columns)
		case *parser.ReturningClause:
			s.Columns = expandColumns(ctx, ctx.ScopeOf(s), s.Columns)
		}
	}
	expand(ctx.Root)
	parser.AssignParents(ctx.Root)
}

func expandColumns(ctx *Context, scope *Scope, cols []parser.ResultColumn) []parser.ResultColumn {
	out := make([]parser.ResultColumn, 0, len(cols))
	for _, col := range cols {
		star, ok := col.(*parser.StarResultColumn)
		if !ok || scope == nil {
			out = append(out, col)
			continue
		}
		if star.Table != "" {
			rel, ok := scope.Lookup(star.Table).(Relation)
			if !ok {
				ctx.Report(ctx.UnresolvedSeverity, star.Span(), star,
					fmt.Sprintf("unknown table %q", star.Table))
				out = append(out, col)
				continue
			}
			out = append(out, starColumns(rel, star)...)
			continue
		}
		if len(scope.Relations()) == 0 {
			ctx.Report(SeverityWarning, star.Span(), star, "* with no FROM sources")
			out = append(out, col)
			continue
		}
		for _, rel := range scope.Relations() {
			out = append(out, starColumns(rel, star)...)
		}
	}
	return out
}

// starColumns synthesizes one reference per output column of rel, qualified
// with the relation's binding name. A relation without a binding name (an
// anonymous sub-select) yields unqualified references.
func starColumns(rel Relation, star *parser.StarResultColumn) []parser.ResultColumn {
	var out []parser.ResultColumn
	for _, col := range rel.OutputColumns() {
		ref := parser.NewReference(rel.BindingName(), col.Name, star.Span())
		out = append(out, parser.NewExpressionResultColumn(ref, star.Span()))
	}
	return out
}
