package analyzer

import (
	"fmt"
	"strings"

	"github.com/sqlfront/sqlfront/parser"
)

// BuildScopes assigns a scope to every statement that binds names and fills
// it with the relations its FROM clause (or DML target) brings into view.
// The root scope holds one symbol per registered table so that qualified
// references work anywhere; it contributes no relations, so unqualified
// lookup never reaches tables that were not named in a FROM clause.
// Parent links must be assigned before this runs.
func BuildScopes(ctx *Context) {
	root := NewScope(nil)
	for _, t := range ctx.tables {
		root.Declare(t.Name, &TableSymbol{Name: t.Name, Table: t})
	}
	b := &scopeBuilder{ctx: ctx, root: root}
	b.statement(ctx.Root, root)

	// Sub-selects used as expressions (scalar subqueries, EXISTS, IN) were
	// not reached through a FROM clause; scope them against their nearest
	// enclosing scope so they can correlate with the outer statement.
	parser.Walk(ctx.Root, func(n parser.Node) bool {
		sel, ok := n.(*parser.SelectStatement)
		if !ok || b.ctx.hasScope(sel) {
			return true
		}
		parent := b.ctx.ScopeOf(sel.Parent())
		if parent == nil {
			parent = root
		}
		b.selectStatement(sel, parent)
		return true
	})
}

type scopeBuilder struct {
	ctx  *Context
	root *Scope
}

// statement scopes one top-level statement. DDL statements get no scope of
// their own; references inside them are left unresolved by design, except
// for the SELECT body of CREATE TABLE AS and the CRUD statements of a
// trigger body, which are scoped like free-standing statements.
func (b *scopeBuilder) statement(stmt parser.Statement, parent *Scope) {
	switch s := stmt.(type) {
	case *parser.SelectStatement:
		b.selectStatement(s, parent)
	case *parser.InsertStatement:
		b.insert(s, parent)
	case *parser.UpdateStatement:
		b.update(s, parent)
	case *parser.DeleteStatement:
		b.delete(s, parent)
	case *parser.CreateTableStatement:
		if s.AsSelect != nil {
			b.selectStatement(s.AsSelect, parent)
		}
	case *parser.CreateTriggerStatement:
		for _, body := range s.Body {
			b.statement(body, parent)
		}
	}
}

func (b *scopeBuilder) selectStatement(sel *parser.SelectStatement, parent *Scope) {
	if sel == nil || b.ctx.hasScope(sel) {
		return
	}
	scope := NewScope(b.withScope(sel.With, parent))
	b.ctx.setScope(sel, scope)
	if sel.From != nil {
		b.fromSource(sel.From.Source, scope)
		for _, join := range sel.From.Joins {
			b.fromSource(join.Source, scope)
		}
	}
	// Compound operands have their own FROM but share the WITH bindings of
	// the first statement of the chain.
	if sel.Compound != nil {
		b.selectStatement(sel.Compound.Select, scope)
	}
}

func (b *scopeBuilder) insert(stmt *parser.InsertStatement, parent *Scope) {
	scope := NewScope(b.withScope(stmt.With, parent))
	b.ctx.setScope(stmt, scope)
	if stmt.Table != nil {
		b.tableReference(stmt.Table, scope)
	}
	b.selectStatement(stmt.Select, scope)
}

func (b *scopeBuilder) update(stmt *parser.UpdateStatement, parent *Scope) {
	scope := NewScope(b.withScope(stmt.With, parent))
	b.ctx.setScope(stmt, scope)
	if stmt.Table != nil {
		b.tableReference(stmt.Table, scope)
	}
	if stmt.From != nil {
		b.fromSource(stmt.From.Source, scope)
		for _, join := range stmt.From.Joins {
			b.fromSource(join.Source, scope)
		}
	}
}

func (b *scopeBuilder) delete(stmt *parser.DeleteStatement, parent *Scope) {
	scope := NewScope(b.withScope(stmt.With, parent))
	b.ctx.setScope(stmt, scope)
	if stmt.Table != nil {
		b.tableReference(stmt.Table, scope)
	}
}

// withScope binds the CTEs of a WITH clause in a scope level of their own,
// above the statement scope, so that a FROM binding of a CTE shadows the
// declaration instead of colliding with it. Each CTE is declared before its
// body is scoped so that a recursive CTE can name itself.
func (b *scopeBuilder) withScope(with *parser.WithClause, parent *Scope) *Scope {
	if with == nil {
		return parent
	}
	scope := NewScope(parent)
	for _, cte := range with.CTEs {
		sym := &CteSymbol{Name: cte.Name, CTE: cte}
		if !scope.Declare(cte.Name, sym) {
			b.ctx.Report(SeverityWarning, cte.Span(), cte,
				fmt.Sprintf("duplicate WITH name %q", cte.Name))
		}
		b.selectStatement(cte.Select, scope)
	}
	return scope
}

func (b *scopeBuilder) fromSource(src parser.TableSource, scope *Scope) {
	switch s := src.(type) {
	case *parser.TableReference:
		b.tableReference(s, scope)
	case *parser.SelectSource:
		b.selectStatement(s.Select, scope)
		sym := &SubquerySymbol{Alias: s.Alias, Select: s.Select, Source: s}
		if s.Alias != "" && !scope.Declare(s.Alias, sym) {
			b.ctx.Report(SeverityWarning, s.Span(), s,
				fmt.Sprintf("duplicate table name %q in FROM", s.Alias))
		}
		scope.AddRelation(sym)
	}
}

// tableReference binds a named FROM source. The name is tried as a CTE
// first, then against the table registry. The symbol is declared under the
// written name and, when an alias was given, under the alias as well.
func (b *scopeBuilder) tableReference(ref *parser.TableReference, scope *Scope) {
	var rel Relation
	if cte, ok := scope.Lookup(ref.Name).(*CteSymbol); ok {
		rel = cte
		if ref.Alias != "" {
			rel = &aliasedCte{CteSymbol: cte, alias: ref.Alias}
		}
	} else {
		table := b.ctx.Table(ref.Name)
		if table == nil {
			b.ctx.Report(b.ctx.UnresolvedSeverity, ref.Span(), ref,
				fmt.Sprintf("unknown table %q", ref.Name))
		}
		rel = &TableSymbol{Name: ref.Name, Alias: ref.Alias, Table: table, Ref: ref}
	}
	names := []string{ref.Name}
	if ref.Alias != "" && !strings.EqualFold(ref.Alias, ref.Name) {
		names = append(names, ref.Alias)
	}
	for _, name := range names {
		if !scope.Declare(name, rel) {
			b.ctx.Report(SeverityWarning, ref.Span(), ref,
				fmt.Sprintf("duplicate table name %q in FROM", name))
		}
	}
	scope.AddRelation(rel)
}

// aliasedCte is a CTE brought into a FROM clause under an alias.
type aliasedCte struct {
	*CteSymbol
	alias string
}

// BindingName implements Relation
func (a *aliasedCte) BindingName() string {
	return a.alias
}
