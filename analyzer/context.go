package analyzer

import (
	"strings"

	"github.com/sqlfront/sqlfront"
	"github.com/sqlfront/sqlfront/parser"
	"github.com/sqlfront/sqlfront/tokenizer"
)

// Severity classifies a diagnostic.
type Severity int

const (
	// SeverityWarning marks findings the statement can still execute with.
	SeverityWarning Severity = iota
	// SeverityCritical marks findings that make the statement invalid.
	SeverityCritical
)

func (s Severity) String() string {
	if s == SeverityCritical {
		return "critical"
	}
	return "warning"
}

// Diagnostic is one finding produced during analysis.
type Diagnostic struct {
	Message  string
	Severity Severity
	Span     tokenizer.Span
	Node     parser.Node
}

// Context carries everything the analysis passes compute for one
// statement: the scope tree, reference resolutions, node types, and
// diagnostics. Passes never panic across the context boundary; every
// failure path records a diagnostic and moves on.
type Context struct {
	Source      string
	Root        parser.Statement
	Diagnostics []Diagnostic

	// UnresolvedSeverity is the severity assigned to unresolved and
	// ambiguous reference diagnostics.
	UnresolvedSeverity Severity

	tables    []*sqlfront.Table
	functions map[string]sqlfront.FunctionSignature
	types     map[parser.Node]sqlfront.ResolveResult
	refs      map[*parser.Reference]*ColumnSymbol
	scopes    map[parser.Node]*Scope
}

// NewContext builds an analysis context over a parsed statement and the
// registered tables.
func NewContext(source string, root parser.Statement, tables []*sqlfront.Table) *Context {
	functions := make(map[string]sqlfront.FunctionSignature, len(sqlfront.FunctionSignatures))
	for name, sig := range sqlfront.FunctionSignatures {
		functions[name] = sig
	}
	return &Context{
		Source:             source,
		Root:               root,
		UnresolvedSeverity: SeverityCritical,
		tables:             tables,
		functions:          functions,
		types:              make(map[parser.Node]sqlfront.ResolveResult),
		refs:               make(map[*parser.Reference]*ColumnSymbol),
		scopes:             make(map[parser.Node]*Scope),
	}
}

// DeclareFunction adds or overrides a function signature for this context.
func (c *Context) DeclareFunction(name string, sig sqlfront.FunctionSignature) {
	c.functions[strings.ToUpper(name)] = sig
}

// Function looks up a function signature, case-insensitively.
func (c *Context) Function(name string) (sqlfront.FunctionSignature, bool) {
	sig, ok := c.functions[strings.ToUpper(name)]
	return sig, ok
}

// Table finds a registered table by name, case-insensitively.
func (c *Context) Table(name string) *sqlfront.Table {
	for _, t := range c.tables {
		if strings.EqualFold(t.Name, name) {
			return t
		}
	}
	return nil
}

// TypeOf returns the resolution state of a node. Nodes never visited stay
// in the zero Unknown state.
func (c *Context) TypeOf(n parser.Node) sqlfront.ResolveResult {
	return c.types[n]
}

// ResolvedReference returns the symbol a reference resolved to, or nil.
func (c *Context) ResolvedReference(r *parser.Reference) *ColumnSymbol {
	return c.refs[r]
}

// ScopeOf ascends from node to the nearest enclosing node that owns a
// scope. Parent links must be assigned.
func (c *Context) ScopeOf(node parser.Node) *Scope {
	for n := node; n != nil; n = n.Parent() {
		if scope, ok := c.scopes[n]; ok {
			return scope
		}
	}
	return nil
}

// Report records a diagnostic.
func (c *Context) Report(severity Severity, span tokenizer.Span, node parser.Node, message string) {
	c.Diagnostics = append(c.Diagnostics, Diagnostic{
		Message:  message,
		Severity: severity,
		Span:     span,
		Node:     node,
	})
}

// Critical returns the critical diagnostics.
func (c *Context) Critical() []Diagnostic {
	var out []Diagnostic
	for _, d := range c.Diagnostics {
		if d.Severity == SeverityCritical {
			out = append(out, d)
		}
	}
	return out
}

// HasCritical reports whether any critical diagnostic was recorded.
func (c *Context) HasCritical() bool {
	for _, d := range c.Diagnostics {
		if d.Severity == SeverityCritical {
			return true
		}
	}
	return false
}

func (c *Context) setScope(node parser.Node, scope *Scope) {
	c.scopes[node] = scope
}

func (c *Context) hasScope(node parser.Node) bool {
	_, ok := c.scopes[node]
	return ok
}

func (c *Context) setType(node parser.Node, result sqlfront.ResolveResult) bool {
	current := c.types[node]
	if current.Status == sqlfront.Resolved {
		return false
	}
	if result.Status <= current.Status {
		return false
	}
	c.types[node] = result
	return true
}

func (c *Context) setReference(ref *parser.Reference, sym *ColumnSymbol) {
	c.refs[ref] = sym
}
