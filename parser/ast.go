package parser

import (
	"github.com/sqlfront/sqlfront/tokenizer"
)

// Node is implemented by every AST node. Parent links are nil until
// AssignParents has run.
type Node interface {
	Span() tokenizer.Span
	Parent() Node
	Children() []Node
	setParent(Node)
}

// Statement is a top-level SQL statement.
type Statement interface {
	Node
	stmt()
}

// CrudStatement marks the statements that read or write tabular data and
// therefore go through column, reference and type resolution.
type CrudStatement interface {
	Statement
	crud()
}

// Expression is any value-producing node.
type Expression interface {
	Node
	expr()
}

// ResultColumn is an entry of a SELECT (or RETURNING) column list.
type ResultColumn interface {
	Node
	resultColumn()
}

// TableSource is an entry of a FROM clause: a named table or a sub-select.
type TableSource interface {
	Node
	tableSource()
}

type baseNode struct {
	span   tokenizer.Span
	parent Node
}

func (b *baseNode) Span() tokenizer.Span {
	return b.span
}

func (b *baseNode) Parent() Node {
	return b.parent
}

func (b *baseNode) setParent(n Node) {
	b.parent = n
}

// Walk traverses the tree rooted at node in pre-order. Returning false from
// visit prunes the subtree below the current node.
func Walk(node Node, visit func(Node) bool) {
	if node == nil {
		return
	}
	if !visit(node) {
		return
	}
	for _, child := range node.Children() {
		Walk(child, visit)
	}
}

// AssignParents fills the parent slot of every node below root. It is a
// dedicated pass so that freshly parsed or rewritten trees can be fixed up
// wholesale instead of threading parent bookkeeping through construction.
func AssignParents(root Node) {
	Walk(root, func(n Node) bool {
		for _, child := range n.Children() {
			child.setParent(n)
		}
		return true
	})
}

// EnclosingStatement ascends from node to the nearest enclosing statement,
// or nil when node is not inside one.
func EnclosingStatement(node Node) Statement {
	for n := node; n != nil; n = n.Parent() {
		if stmt, ok := n.(Statement); ok {
			return stmt
		}
	}
	return nil
}
