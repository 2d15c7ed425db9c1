package engine

import (
	"log/slog"
	"strings"
	"time"

	"github.com/sqlfront/sqlfront"
	"github.com/sqlfront/sqlfront/analyzer"
	"github.com/sqlfront/sqlfront/parser"
	"github.com/sqlfront/sqlfront/tokenizer"
)

// Engine ties the stages together over a table registry: tokenize, parse,
// analyze. An Engine is not safe for concurrent mutation; register every
// table before analyzing.
type Engine struct {
	tables    []*sqlfront.Table
	functions map[string]sqlfront.FunctionSignature
	severity  analyzer.Severity
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger stage timings are reported on.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithTables registers tables up front.
func WithTables(tables ...*sqlfront.Table) Option {
	return func(e *Engine) { e.tables = append(e.tables, tables...) }
}

// WithUnresolvedSeverity sets the severity of unresolved and ambiguous
// reference diagnostics.
func WithUnresolvedSeverity(severity analyzer.Severity) Option {
	return func(e *Engine) { e.severity = severity }
}

// WithFunction registers an extra function signature for analysis.
func WithFunction(name string, sig sqlfront.FunctionSignature) Option {
	return func(e *Engine) { e.functions[strings.ToUpper(name)] = sig }
}

// New builds an Engine. Without options it has no tables, reports
// unresolved references as critical and logs on slog.Default.
func New(opts ...Option) *Engine {
	e := &Engine{
		functions: make(map[string]sqlfront.FunctionSignature),
		severity:  analyzer.SeverityCritical,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewFromConfig builds an Engine from a loaded project config: schema
// files become the table registry, analysis settings select the severity,
// and declared functions join the signature table. Options are applied
// after the config.
func NewFromConfig(cfg *sqlfront.Config, opts ...Option) (*Engine, error) {
	var all []Option
	for _, path := range cfg.SchemaFiles {
		tables, err := sqlfront.LoadSchemaFile(path)
		if err != nil {
			return nil, err
		}
		all = append(all, WithTables(tables...))
	}
	if cfg.Analysis.UnresolvedColumns == "warning" {
		all = append(all, WithUnresolvedSeverity(analyzer.SeverityWarning))
	}
	for _, fn := range cfg.Functions {
		all = append(all, WithFunction(fn.Name, fn.SignatureFor()))
	}
	return New(append(all, opts...)...), nil
}

// RegisterTable appends a table to the registry. Names are not checked for
// duplicates; the first registered table wins lookups.
func (e *Engine) RegisterTable(t *sqlfront.Table) {
	e.tables = append(e.tables, t)
}

// Tables returns the registered tables in registration order.
func (e *Engine) Tables() []*sqlfront.Table {
	return e.tables
}

// Tokenize lexes sql, keeping whitespace and comment tokens so that the
// lexemes concatenate back to the input. The tokens are returned even when
// lexing reported errors.
func (e *Engine) Tokenize(sql string) ([]tokenizer.Token, error) {
	tokens, lexErrs := tokenizer.New(sql).Lex()
	if len(lexErrs) > 0 {
		return tokens, &tokenizer.TokenizerError{Errors: lexErrs}
	}
	return tokens, nil
}

// ParseResult is one parsed statement with the source text it came from.
// Errors holds every syntax error of the parse that produced it; for a
// multi-statement parse the list is shared across the results.
type ParseResult struct {
	Statement parser.Statement
	SQL       string
	Errors    []*parser.ParseError
}

// Parse parses sql as a single statement. Syntax errors are collected on
// the result rather than returned; a recovered statement may be a
// BadStatement.
func (e *Engine) Parse(sql string) ParseResult {
	stmts, err := parser.ParseScript(sql)
	res := ParseResult{SQL: sql}
	if perr, ok := err.(*parser.ParserError); ok {
		res.Errors = perr.Errors
	}
	if len(stmts) > 0 {
		res.Statement = stmts[0]
	}
	return res
}

// ParseMultiple parses a script of semicolon-separated statements. Each
// result carries the substring of sql its statement spans.
func (e *Engine) ParseMultiple(sql string) []ParseResult {
	start := time.Now()
	stmts, err := parser.ParseScript(sql)
	var parseErrs []*parser.ParseError
	if perr, ok := err.(*parser.ParserError); ok {
		parseErrs = perr.Errors
	}
	results := make([]ParseResult, 0, len(stmts))
	for _, stmt := range stmts {
		results = append(results, ParseResult{
			Statement: stmt,
			SQL:       statementText(sql, stmt),
			Errors:    parseErrs,
		})
	}
	e.logger.Debug("parse complete",
		"statements", len(results),
		"errors", len(parseErrs),
		"duration", time.Since(start))
	return results
}

// statementText slices the source text a statement spans.
func statementText(sql string, stmt parser.Statement) string {
	span := stmt.Span()
	if span.Offset < 0 || span.End() > len(sql) || span.Offset > span.End() {
		return sql
	}
	return sql[span.Offset:span.End()]
}

// Analysis is the outcome of analyzing one statement.
type Analysis struct {
	ParseResult
	Context *analyzer.Context
}

// HasCritical reports whether parsing or analysis found anything that
// makes the statement invalid.
func (a *Analysis) HasCritical() bool {
	return len(a.Errors) > 0 || a.Context.HasCritical()
}

// Analyze parses and analyzes every statement of sql.
func (e *Engine) Analyze(sql string) []*Analysis {
	results := e.ParseMultiple(sql)
	out := make([]*Analysis, 0, len(results))
	for _, res := range results {
		out = append(out, e.AnalyzeParsed(res))
	}
	return out
}

// AnalyzeParsed runs the analysis passes over one parse result. Statements
// that read or write tabular data get the full pipeline; DDL stops after
// scope construction. Analysis never fails, whatever it finds lands in the
// context's diagnostics.
func (e *Engine) AnalyzeParsed(res ParseResult) *Analysis {
	start := time.Now()
	parser.AssignParents(res.Statement)
	ctx := analyzer.NewContext(res.SQL, res.Statement, e.tables)
	ctx.UnresolvedSeverity = e.severity
	for name, sig := range e.functions {
		ctx.DeclareFunction(name, sig)
	}
	analyzer.BuildScopes(ctx)
	if _, ok := res.Statement.(parser.CrudStatement); ok {
		analyzer.ExpandStars(ctx)
		analyzer.ResolveReferences(ctx)
		analyzer.ResolveTypes(ctx)
	}
	e.logger.Debug("analysis complete",
		"diagnostics", len(ctx.Diagnostics),
		"critical", len(ctx.Critical()),
		"duration", time.Since(start))
	return &Analysis{ParseResult: res, Context: ctx}
}
