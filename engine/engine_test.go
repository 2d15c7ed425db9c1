package engine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/sqlfront/sqlfront"
	"github.com/sqlfront/sqlfront/analyzer"
	"github.com/sqlfront/sqlfront/parser"
	"github.com/sqlfront/sqlfront/tokenizer"
)

func testEngine() *Engine {
	return New(WithTables(
		&sqlfront.Table{Name: "demo", Columns: []*sqlfront.Column{
			{Name: "id", Type: sqlfront.ColumnInteger, Features: []sqlfront.ColumnFeature{sqlfront.PrimaryKey()}},
			{Name: "content", Type: sqlfront.ColumnText},
		}},
		&sqlfront.Table{Name: "tbl", Columns: []*sqlfront.Column{
			{Name: "id", Type: sqlfront.ColumnInteger},
			{Name: "date", Type: sqlfront.ColumnDateTime},
		}},
	))
}

func TestTokenizeKeepsTrivia(t *testing.T) {
	sql := "SELECT 1;"
	tokens, err := testEngine().Tokenize(sql)
	assert.NoError(t, err)

	var kinds []tokenizer.TokenType
	var text strings.Builder
	for _, tok := range tokens {
		kinds = append(kinds, tok.Type)
		text.WriteString(tok.Lexeme)
	}
	assert.Equal(t, []tokenizer.TokenType{
		tokenizer.K_SELECT,
		tokenizer.WHITESPACE,
		tokenizer.NUMBER,
		tokenizer.SEMICOLON,
		tokenizer.EOF,
	}, kinds)
	assert.Equal(t, sql, text.String())
}

func TestParseMultipleSlicesSource(t *testing.T) {
	results := testEngine().ParseMultiple("SELECT id FROM demo;\nUPDATE demo SET content = 'x'")
	assert.Equal(t, 2, len(results))
	assert.Equal(t, "SELECT id FROM demo", results[0].SQL)
	assert.Equal(t, "UPDATE demo SET content = 'x'", results[1].SQL)
	assert.Equal(t, 0, len(results[0].Errors))
}

func TestParseCollectsSyntaxErrors(t *testing.T) {
	res := testEngine().Parse("SELECT FROM FROM")
	assert.True(t, len(res.Errors) > 0)
	assert.NotZero(t, res.Statement)
}

func TestAnalyzeEndToEnd(t *testing.T) {
	e := testEngine()
	results := e.Analyze("SELECT * FROM demo WHERE id = ? AND content LIKE ?")
	assert.Equal(t, 1, len(results))
	a := results[0]
	assert.False(t, a.HasCritical())

	got := map[int]sqlfront.ResolvedType{}
	parser.Walk(a.Statement, func(n parser.Node) bool {
		if v, ok := n.(*parser.Variable); ok {
			res := a.Context.TypeOf(v)
			assert.True(t, res.IsResolved())
			got[v.Index] = res.Type
		}
		return true
	})
	assert.Equal(t, map[int]sqlfront.ResolvedType{
		1: {Base: sqlfront.BaseInt},
		2: {Base: sqlfront.BaseText},
	}, got)
}

func TestAnalyzeMultipleSharesRegistry(t *testing.T) {
	e := testEngine()
	results := e.Analyze("SELECT id FROM demo; SELECT date FROM tbl")
	assert.Equal(t, 2, len(results))
	for _, a := range results {
		assert.False(t, a.HasCritical())
	}
}

func TestAnalyzeSurfacesCriticalDiagnostics(t *testing.T) {
	e := testEngine()
	results := e.Analyze("SELECT missing FROM demo")
	assert.Equal(t, 1, len(results))
	assert.True(t, results[0].HasCritical())
}

func TestUnresolvedSeverityOption(t *testing.T) {
	e := New(
		WithTables(&sqlfront.Table{Name: "demo", Columns: []*sqlfront.Column{
			{Name: "id", Type: sqlfront.ColumnInteger},
		}}),
		WithUnresolvedSeverity(analyzer.SeverityWarning),
	)
	results := e.Analyze("SELECT missing FROM demo")
	assert.Equal(t, 1, len(results))
	assert.False(t, results[0].HasCritical())
	assert.True(t, len(results[0].Context.Diagnostics) > 0)
}

func TestWithFunctionExtendsSignatures(t *testing.T) {
	e := testEngine()
	results := e.Analyze("SELECT content FROM demo WHERE content = my_upper(?)")
	assert.True(t, len(results[0].Context.Diagnostics) > 0) // unknown function warning

	e = New(
		WithTables(e.Tables()...),
		WithFunction("my_upper", sqlfront.FunctionSignature{
			Return: sqlfront.ResolvedType{Base: sqlfront.BaseText},
			Args:   []sqlfront.ArgExpectation{sqlfront.ArgText},
		}),
	)
	results = e.Analyze("SELECT content FROM demo WHERE content = my_upper(?)")
	a := results[0]
	assert.Equal(t, 0, len(a.Context.Diagnostics))

	parser.Walk(a.Statement, func(n parser.Node) bool {
		if v, ok := n.(*parser.Variable); ok {
			res := a.Context.TypeOf(v)
			assert.True(t, res.IsResolved())
			assert.Equal(t, sqlfront.BaseText, res.Type.Base)
		}
		return true
	})
}

func TestNewFromConfig(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "schema.yaml")
	assert.NoError(t, os.WriteFile(schemaPath, []byte(`tables:
  - name: demo
    columns:
      - name: id
        type: integer
        primary_key: true
      - name: content
        type: text
`), 0o600))
	configPath := filepath.Join(dir, "sqlfront.yaml")
	assert.NoError(t, os.WriteFile(configPath, []byte(`schema_files:
  - `+schemaPath+`
analysis:
  unresolved_columns: warning
functions:
  - name: my_func
    returns: text
    args: [text]
`), 0o600))

	cfg, err := sqlfront.LoadConfig(configPath)
	assert.NoError(t, err)
	e, err := NewFromConfig(cfg)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(e.Tables()))

	results := e.Analyze("SELECT missing, my_func(content) FROM demo")
	a := results[0]
	assert.False(t, a.HasCritical())
	assert.True(t, len(a.Context.Diagnostics) > 0)
}

func TestNewFromConfigRejectsBadSchema(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "schema.yaml")
	assert.NoError(t, os.WriteFile(schemaPath, []byte(`tables:
  - name: demo
    columns:
      - name: id
        type: wavelength
`), 0o600))
	cfg := sqlfront.DefaultConfig()
	cfg.SchemaFiles = []string{schemaPath}
	_, err := NewFromConfig(cfg)
	assert.IsError(t, err, sqlfront.ErrUnknownColumnType)
}
