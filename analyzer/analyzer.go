package analyzer

import (
	"github.com/sqlfront/sqlfront"
	"github.com/sqlfront/sqlfront/parser"
)

// Analyze runs the full pass pipeline over one parsed statement: parent
// assignment, scope construction, and, for statements that read or write
// tabular data, star expansion, reference resolution and type inference.
// DDL statements stop after scope construction. Analysis never fails; every
// problem it finds is recorded as a diagnostic on the returned context.
func Analyze(source string, stmt parser.Statement, tables []*sqlfront.Table) *Context {
	parser.AssignParents(stmt)
	ctx := NewContext(source, stmt, tables)
	BuildScopes(ctx)
	if _, ok := stmt.(parser.CrudStatement); ok {
		ExpandStars(ctx)
		ResolveReferences(ctx)
		ResolveTypes(ctx)
	}
	return ctx
}
