package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/sqlfront/sqlfront"
	"github.com/sqlfront/sqlfront/analyzer"
	"github.com/sqlfront/sqlfront/engine"
	"github.com/sqlfront/sqlfront/formatter"
	"github.com/sqlfront/sqlfront/parser"
	"github.com/sqlfront/sqlfront/tokenizer"
)

// Sentinel errors
var (
	ErrNoInput             = errors.New("no input: pass a file argument or --sql")
	ErrCriticalDiagnostics = errors.New("critical diagnostics found")
	ErrSyntaxErrors        = errors.New("syntax errors found")
)

// input is the shared source selection of every command: a file argument,
// `-` for stdin, or an inline --sql string.
type input struct {
	File string `arg:"" optional:"" help:"SQL file to read, or - for stdin" type:"path"`
	SQL  string `short:"e" name:"sql" help:"Inline SQL instead of a file"`
}

func (in *input) read() (string, error) {
	if in.SQL != "" {
		return in.SQL, nil
	}
	switch in.File {
	case "":
		return "", ErrNoInput
	case "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	default:
		data, err := os.ReadFile(in.File)
		if err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return string(data), nil
	}
}

// buildEngine loads the project config and assembles an engine over the
// configured schema files plus any passed on the command line.
func buildEngine(ctx *Context) (*engine.Engine, error) {
	config, err := sqlfront.LoadConfig(ctx.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	switch config.Output.Color {
	case "never":
		color.NoColor = true
	case "always":
		color.NoColor = false
	}
	ctx.Logger = newLogger(config, ctx.Verbose)
	eng, err := engine.NewFromConfig(config, engine.WithLogger(ctx.Logger))
	if err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}
	for _, path := range ctx.Schema {
		tables, err := sqlfront.LoadSchemaFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load schema: %w", err)
		}
		for _, table := range tables {
			eng.RegisterTable(table)
		}
	}
	return eng, nil
}

// lineCol converts a byte offset into a 1-based line and column.
func lineCol(src string, offset int) (int, int) {
	if offset > len(src) {
		offset = len(src)
	}
	line, col := 1, 1
	for _, r := range src[:offset] {
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

func printDiagnostics(src string, diags []analyzer.Diagnostic) {
	for _, d := range diags {
		line, col := lineCol(src, d.Span.Offset)
		if d.Severity == analyzer.SeverityCritical {
			color.Red("%d:%d: %s: %s", line, col, d.Severity, d.Message)
		} else {
			color.Yellow("%d:%d: %s: %s", line, col, d.Severity, d.Message)
		}
	}
}

func printParseErrors(src string, errs []*parser.ParseError) {
	for _, e := range errs {
		line, col := lineCol(src, e.Span.Offset)
		color.Red("%d:%d: syntax error: %s", line, col, e.Error())
	}
}

// TokenizeCmd represents the tokenize command
type TokenizeCmd struct {
	input
}

// Run executes the tokenize command
func (cmd *TokenizeCmd) Run(ctx *Context) error {
	sql, err := cmd.read()
	if err != nil {
		return err
	}
	eng, err := buildEngine(ctx)
	if err != nil {
		return err
	}
	tokens, tokErr := eng.Tokenize(sql)
	for _, tok := range tokens {
		if tok.Type == tokenizer.WHITESPACE && !ctx.Verbose {
			continue
		}
		line, col := lineCol(sql, tok.Span.Offset)
		fmt.Printf("%d:%d\t%s\t%q\n", line, col, tok.Type, tok.Lexeme)
	}
	if tokErr != nil {
		var lexErrs *tokenizer.TokenizerError
		if errors.As(tokErr, &lexErrs) {
			for _, le := range lexErrs.Errors {
				color.Red("%d:%d: %s", le.Line, le.Column, le.Err)
			}
		}
		return ErrSyntaxErrors
	}
	return nil
}

// ParseCmd represents the parse command
type ParseCmd struct {
	input
}

// Run executes the parse command
func (cmd *ParseCmd) Run(ctx *Context) error {
	sql, err := cmd.read()
	if err != nil {
		return err
	}
	eng, err := buildEngine(ctx)
	if err != nil {
		return err
	}
	results := eng.ParseMultiple(sql)
	for _, res := range results {
		dumpNode(os.Stdout, res.Statement, 0)
	}
	if len(results) > 0 && len(results[0].Errors) > 0 {
		printParseErrors(sql, results[0].Errors)
		return ErrSyntaxErrors
	}
	return nil
}

// dumpNode prints the tree below node, one line per node with its span.
func dumpNode(w io.Writer, node parser.Node, depth int) {
	if node == nil {
		return
	}
	name := strings.TrimPrefix(fmt.Sprintf("%T", node), "*parser.")
	span := node.Span()
	fmt.Fprintf(w, "%s%s [%d:%d]\n", strings.Repeat("  ", depth), name, span.Offset, span.End())
	for _, child := range node.Children() {
		dumpNode(w, child, depth+1)
	}
}

// FormatCmd represents the format command
type FormatCmd struct {
	input
	Write  bool `short:"w" help:"Rewrite the input file in place"`
	Indent int  `default:"4" help:"Spaces per indentation level"`
}

// Run executes the format command
func (cmd *FormatCmd) Run(ctx *Context) error {
	sql, err := cmd.read()
	if err != nil {
		return err
	}
	formatted, err := formatter.New(formatter.WithIndent(cmd.Indent)).Format(sql)
	if err != nil {
		var lexErrs *tokenizer.TokenizerError
		if errors.As(err, &lexErrs) {
			for _, le := range lexErrs.Errors {
				color.Red("%d:%d: %s", le.Line, le.Column, le.Err)
			}
			return ErrSyntaxErrors
		}
		return err
	}
	if cmd.Write {
		if cmd.File == "" || cmd.File == "-" {
			return errors.New("--write needs a file argument")
		}
		return os.WriteFile(cmd.File, []byte(formatted+"\n"), 0o644)
	}
	fmt.Println(formatted)
	return nil
}

// AnalyzeCmd represents the analyze command
type AnalyzeCmd struct {
	input
}

// Run executes the analyze command
func (cmd *AnalyzeCmd) Run(ctx *Context) error {
	_, err := runAnalysis(ctx, &cmd.input)
	return err
}

// CheckCmd represents the check command
type CheckCmd struct {
	input
}

// Run executes the check command
func (cmd *CheckCmd) Run(ctx *Context) error {
	critical, err := runAnalysis(ctx, &cmd.input)
	if err != nil {
		return err
	}
	if critical {
		return ErrCriticalDiagnostics
	}
	if !ctx.Quiet {
		color.Green("OK")
	}
	return nil
}

func runAnalysis(ctx *Context, in *input) (critical bool, err error) {
	sql, err := in.read()
	if err != nil {
		return false, err
	}
	eng, err := buildEngine(ctx)
	if err != nil {
		return false, err
	}
	results := eng.Analyze(sql)
	for i, res := range results {
		if len(results) > 1 && !ctx.Quiet {
			fmt.Printf("-- statement %d\n", i+1)
		}
		if i == 0 {
			printParseErrors(sql, res.Errors)
		}
		printDiagnostics(res.SQL, res.Context.Diagnostics)
		if !ctx.Quiet {
			printBindTypes(res)
		}
		if res.HasCritical() {
			critical = true
		}
	}
	return critical, nil
}

// printBindTypes lists every bind variable of a statement with its inferred
// type, in index order.
func printBindTypes(res *engine.Analysis) {
	type bind struct {
		index int
		label string
		typ   string
	}
	seen := map[int]bool{}
	var binds []bind
	parser.Walk(res.Statement, func(n parser.Node) bool {
		v, ok := n.(*parser.Variable)
		if !ok || seen[v.Index] {
			return true
		}
		seen[v.Index] = true
		label := v.Name
		if label == "" {
			label = fmt.Sprintf("?%d", v.Index)
		}
		result := res.Context.TypeOf(v)
		typ := result.Status.String()
		if result.IsResolved() {
			typ = result.Type.String()
		}
		binds = append(binds, bind{index: v.Index, label: label, typ: typ})
		return true
	})
	sort.Slice(binds, func(i, j int) bool { return binds[i].index < binds[j].index })
	for _, b := range binds {
		fmt.Printf("%s: %s\n", b.label, b.typ)
	}
}
