package analyzer

import (
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/sqlfront/sqlfront"
	"github.com/sqlfront/sqlfront/parser"
)

func testTables() []*sqlfront.Table {
	return []*sqlfront.Table{
		{Name: "demo", Columns: []*sqlfront.Column{
			{Name: "id", Type: sqlfront.ColumnInteger, Features: []sqlfront.ColumnFeature{sqlfront.PrimaryKey()}},
			{Name: "content", Type: sqlfront.ColumnText},
		}},
		{Name: "tbl", Columns: []*sqlfront.Column{
			{Name: "id", Type: sqlfront.ColumnInteger},
			{Name: "date", Type: sqlfront.ColumnDateTime},
		}},
	}
}

func analyzeSQL(t *testing.T, sql string) *Context {
	t.Helper()
	stmt, err := parser.Parse(sql)
	assert.NoError(t, err)
	return Analyze(sql, stmt, testTables())
}

func variableTypes(ctx *Context) map[int]sqlfront.ResolveResult {
	out := map[int]sqlfront.ResolveResult{}
	parser.Walk(ctx.Root, func(n parser.Node) bool {
		if v, ok := n.(*parser.Variable); ok {
			out[v.Index] = ctx.TypeOf(v)
		}
		return true
	})
	return out
}

func TestBindVariableInference(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want map[int]sqlfront.ResolvedType
	}{
		{
			name: "comparison against integer column",
			sql:  "SELECT * FROM demo WHERE id = ?",
			want: map[int]sqlfront.ResolvedType{1: {Base: sqlfront.BaseInt}},
		},
		{
			name: "like pattern is text",
			sql:  "SELECT * FROM demo WHERE content LIKE ?",
			want: map[int]sqlfront.ResolvedType{1: {Base: sqlfront.BaseText}},
		},
		{
			name: "bare variable after in becomes an array",
			sql:  "SELECT * FROM demo WHERE content IN ?",
			want: map[int]sqlfront.ResolvedType{1: {Base: sqlfront.BaseText, IsArray: true}},
		},
		{
			name: "parenthesized in keeps scalars",
			sql:  "SELECT * FROM demo WHERE content IN (?)",
			want: map[int]sqlfront.ResolvedType{1: {Base: sqlfront.BaseText}},
		},
		{
			name: "datetime hint survives comparison",
			sql:  "SELECT * FROM demo JOIN tbl ON demo.id = tbl.id WHERE date = ?",
			want: map[int]sqlfront.ResolvedType{1: {Base: sqlfront.BaseInt, Hint: sqlfront.HintDateTime}},
		},
		{
			name: "function signature types each argument",
			sql:  "SELECT nth_value('string', ?1) = ?2",
			want: map[int]sqlfront.ResolvedType{
				1: {Base: sqlfront.BaseInt},
				2: {Base: sqlfront.BaseText},
			},
		},
		{
			name: "frame bound is an integer",
			sql:  "SELECT row_number() OVER (RANGE ? PRECEDING)",
			want: map[int]sqlfront.ResolvedType{1: {Base: sqlfront.BaseInt}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := analyzeSQL(t, tt.sql)
			assert.False(t, ctx.HasCritical())
			got := variableTypes(ctx)
			assert.Equal(t, len(tt.want), len(got))
			for idx, want := range tt.want {
				res, ok := got[idx]
				assert.True(t, ok)
				assert.True(t, res.IsResolved())
				assert.Equal(t, want, res.Type)
			}
		})
	}
}

func TestBindVariableInferenceAcrossClauses(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want map[int]sqlfront.ResolvedType
	}{
		{
			name: "update set and where",
			sql:  "UPDATE demo SET content = ? WHERE id = ?",
			want: map[int]sqlfront.ResolvedType{
				1: {Base: sqlfront.BaseText},
				2: {Base: sqlfront.BaseInt},
			},
		},
		{
			name: "insert values follow the column list",
			sql:  "INSERT INTO demo (id, content) VALUES (?, ?)",
			want: map[int]sqlfront.ResolvedType{
				1: {Base: sqlfront.BaseInt},
				2: {Base: sqlfront.BaseText},
			},
		},
		{
			name: "insert values follow declaration order",
			sql:  "INSERT INTO demo VALUES (?, ?)",
			want: map[int]sqlfront.ResolvedType{
				1: {Base: sqlfront.BaseInt},
				2: {Base: sqlfront.BaseText},
			},
		},
		{
			name: "between unifies to the tested expression",
			sql:  "SELECT * FROM tbl WHERE date BETWEEN ? AND ?",
			want: map[int]sqlfront.ResolvedType{
				1: {Base: sqlfront.BaseInt, Hint: sqlfront.HintDateTime},
				2: {Base: sqlfront.BaseInt, Hint: sqlfront.HintDateTime},
			},
		},
		{
			name: "limit and offset are integers",
			sql:  "SELECT id FROM demo LIMIT ? OFFSET ?",
			want: map[int]sqlfront.ResolvedType{
				1: {Base: sqlfront.BaseInt},
				2: {Base: sqlfront.BaseInt},
			},
		},
		{
			name: "having compares an aggregate",
			sql:  "SELECT content FROM demo GROUP BY content HAVING count(*) = ?",
			want: map[int]sqlfront.ResolvedType{1: {Base: sqlfront.BaseInt}},
		},
		{
			name: "cte column carries its source type",
			sql:  "WITH c AS (SELECT id FROM demo) SELECT c.id FROM c WHERE c.id = ?",
			want: map[int]sqlfront.ResolvedType{1: {Base: sqlfront.BaseInt}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := analyzeSQL(t, tt.sql)
			assert.False(t, ctx.HasCritical())
			got := variableTypes(ctx)
			for idx, want := range tt.want {
				res, ok := got[idx]
				assert.True(t, ok)
				assert.True(t, res.IsResolved())
				assert.Equal(t, want, res.Type)
			}
		})
	}
}

func resultColumnNames(t *testing.T, cols []parser.ResultColumn) []string {
	t.Helper()
	var names []string
	for _, col := range cols {
		rc, ok := col.(*parser.ExpressionResultColumn)
		assert.True(t, ok)
		ref, ok := rc.Expr.(*parser.Reference)
		assert.True(t, ok)
		names = append(names, ref.Name())
	}
	return names
}

func TestStarExpansion(t *testing.T) {
	ctx := analyzeSQL(t, "SELECT * FROM demo JOIN tbl ON demo.id = tbl.id")
	assert.False(t, ctx.HasCritical())
	sel := ctx.Root.(*parser.SelectStatement)
	assert.Equal(t,
		[]string{"demo.id", "demo.content", "tbl.id", "tbl.date"},
		resultColumnNames(t, sel.Columns))
}

func TestStarExpansionUsesAlias(t *testing.T) {
	ctx := analyzeSQL(t, "SELECT d.* FROM demo AS d")
	assert.False(t, ctx.HasCritical())
	sel := ctx.Root.(*parser.SelectStatement)
	assert.Equal(t, []string{"d.id", "d.content"}, resultColumnNames(t, sel.Columns))
}

func TestStarExpansionThroughSubquery(t *testing.T) {
	ctx := analyzeSQL(t, "SELECT * FROM (SELECT id FROM demo) sub")
	assert.False(t, ctx.HasCritical())
	sel := ctx.Root.(*parser.SelectStatement)
	assert.Equal(t, []string{"sub.id"}, resultColumnNames(t, sel.Columns))
}

func TestReturningStarExpansion(t *testing.T) {
	ctx := analyzeSQL(t, "DELETE FROM demo WHERE id = ? RETURNING *")
	assert.False(t, ctx.HasCritical())
	del := ctx.Root.(*parser.DeleteStatement)
	assert.Equal(t, []string{"demo.id", "demo.content"}, resultColumnNames(t, del.Returning.Columns))
}

func hasDiagnostic(ctx *Context, severity Severity, fragment string) bool {
	for _, d := range ctx.Diagnostics {
		if d.Severity == severity && strings.Contains(d.Message, fragment) {
			return true
		}
	}
	return false
}

func TestUnresolvedReferenceIsCritical(t *testing.T) {
	ctx := analyzeSQL(t, "SELECT nope FROM demo")
	assert.True(t, ctx.HasCritical())
	assert.True(t, hasDiagnostic(ctx, SeverityCritical, `"nope"`))
}

func TestUnresolvedSeverityIsConfigurable(t *testing.T) {
	stmt, err := parser.Parse("SELECT nope FROM demo")
	assert.NoError(t, err)
	parser.AssignParents(stmt)
	ctx := NewContext("SELECT nope FROM demo", stmt, testTables())
	ctx.UnresolvedSeverity = SeverityWarning
	BuildScopes(ctx)
	ExpandStars(ctx)
	ResolveReferences(ctx)
	ResolveTypes(ctx)
	assert.False(t, ctx.HasCritical())
	assert.True(t, hasDiagnostic(ctx, SeverityWarning, `"nope"`))
}

func TestAmbiguousReferenceIsCritical(t *testing.T) {
	ctx := analyzeSQL(t, "SELECT id FROM demo JOIN tbl ON demo.id = tbl.id")
	assert.True(t, ctx.HasCritical())
	assert.True(t, hasDiagnostic(ctx, SeverityCritical, "ambiguous"))
}

func TestUnknownTableIsCritical(t *testing.T) {
	ctx := analyzeSQL(t, "SELECT id FROM missing")
	assert.True(t, ctx.HasCritical())
	assert.True(t, hasDiagnostic(ctx, SeverityCritical, `"missing"`))
}

func TestDuplicateFromNameIsWarning(t *testing.T) {
	ctx := analyzeSQL(t, "SELECT demo.id FROM demo, demo")
	assert.False(t, ctx.HasCritical())
	assert.True(t, hasDiagnostic(ctx, SeverityWarning, "duplicate"))
}

func TestQualifiedReferenceWorksUnderAlias(t *testing.T) {
	ctx := analyzeSQL(t, "SELECT d.content, demo.content FROM demo AS d")
	assert.False(t, ctx.HasCritical())
}

func TestUnknownFunctionIsWarning(t *testing.T) {
	ctx := analyzeSQL(t, "SELECT frobnicate(id) FROM demo")
	assert.False(t, ctx.HasCritical())
	assert.True(t, hasDiagnostic(ctx, SeverityWarning, `"frobnicate"`))
}

func TestDdlReferencesAreLeftAlone(t *testing.T) {
	ctx := analyzeSQL(t, "CREATE INDEX demo_idx ON demo (id) WHERE id > 0")
	assert.Equal(t, 0, len(ctx.Diagnostics))
}

func TestCorrelatedSubquery(t *testing.T) {
	sql := "SELECT * FROM demo WHERE EXISTS (SELECT 1 FROM tbl WHERE tbl.id = demo.id AND date = ?)"
	ctx := analyzeSQL(t, sql)
	assert.False(t, ctx.HasCritical())
	got := variableTypes(ctx)
	res := got[1]
	assert.True(t, res.IsResolved())
	assert.Equal(t, sqlfront.ResolvedType{Base: sqlfront.BaseInt, Hint: sqlfront.HintDateTime}, res.Type)
}

func TestScalarSubqueryType(t *testing.T) {
	ctx := analyzeSQL(t, "SELECT * FROM demo WHERE content = (SELECT content FROM demo WHERE id = ?)")
	assert.False(t, ctx.HasCritical())
	got := variableTypes(ctx)
	res := got[1]
	assert.True(t, res.IsResolved())
	assert.Equal(t, sqlfront.ResolvedType{Base: sqlfront.BaseInt}, res.Type)
}

func TestCastPushesItsType(t *testing.T) {
	ctx := analyzeSQL(t, "SELECT CAST(? AS TEXT) FROM demo")
	assert.False(t, ctx.HasCritical())
	got := variableTypes(ctx)
	res := got[1]
	assert.True(t, res.IsResolved())
	assert.Equal(t, sqlfront.BaseText, res.Type.Base)
}
