package analyzer

import (
	"fmt"
	"strings"

	"github.com/sqlfront/sqlfront/parser"
)

// ResolveReferences binds every column reference in the statement to a
// column symbol. Qualified references look the qualifier up as a relation
// and then find the column inside it. Unqualified references scan the FROM
// sources of the nearest scope left to right; exactly one match wins, more
// than one is ambiguous, none ascends to the enclosing scope. Failures are
// reported at the context's unresolved severity. References outside any
// scope, such as those inside DDL statements, are left unbound.
func ResolveReferences(ctx *Context) {
	parser.Walk(ctx.Root, func(n parser.Node) bool {
		if ref, ok := n.(*parser.Reference); ok {
			resolveReference(ctx, ref)
		}
		return true
	})
}

func resolveReference(ctx *Context, ref *parser.Reference) {
	scope := ctx.ScopeOf(ref)
	if scope == nil {
		return
	}
	if ref.Table != "" {
		resolveQualified(ctx, scope, ref)
		return
	}
	for sc := scope; sc != nil; sc = sc.Parent() {
		var found *ColumnSymbol
		matches := 0
		for _, rel := range sc.Relations() {
			if sym := findColumn(rel, ref.Column); sym != nil {
				matches++
				if found == nil {
					found = sym
				}
			}
		}
		if matches > 1 {
			ctx.Report(ctx.UnresolvedSeverity, ref.Span(), ref,
				fmt.Sprintf("ambiguous column %q", ref.Column))
			return
		}
		if matches == 1 {
			ctx.setReference(ref, found)
			return
		}
	}
	ctx.Report(ctx.UnresolvedSeverity, ref.Span(), ref,
		fmt.Sprintf("column %q not found", ref.Column))
}

func resolveQualified(ctx *Context, scope *Scope, ref *parser.Reference) {
	rel, ok := scope.Lookup(ref.Table).(Relation)
	if !ok {
		ctx.Report(ctx.UnresolvedSeverity, ref.Span(), ref,
			fmt.Sprintf("unknown table %q", ref.Table))
		return
	}
	// The table itself was already reported as unknown when it was bound.
	if ts, ok := rel.(*TableSymbol); ok && ts.Table == nil {
		return
	}
	sym := findColumn(rel, ref.Column)
	if sym == nil {
		ctx.Report(ctx.UnresolvedSeverity, ref.Span(), ref,
			fmt.Sprintf("column %q not found in %q", ref.Column, ref.Table))
		return
	}
	ctx.setReference(ref, sym)
}

func findColumn(rel Relation, name string) *ColumnSymbol {
	for _, col := range rel.OutputColumns() {
		if strings.EqualFold(col.Name, name) {
			return &ColumnSymbol{Name: col.Name, Relation: rel, Column: col.Column, Expr: col.Expr}
		}
	}
	return nil
}
