package parser

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/sqlfront/sqlfront/tokenizer"
)

func mustParse(t *testing.T, sql string) Statement {
	t.Helper()
	stmt, err := Parse(sql)
	assert.NoError(t, err)
	assert.NotZero(t, stmt)
	return stmt
}

func mustSelect(t *testing.T, sql string) *SelectStatement {
	t.Helper()
	stmt, ok := mustParse(t, sql).(*SelectStatement)
	assert.True(t, ok)
	return stmt
}

func whereCond(t *testing.T, sql string) Expression {
	t.Helper()
	stmt := mustSelect(t, sql)
	assert.NotZero(t, stmt.Where)
	return stmt.Where.Cond
}

func TestParseSimpleSelect(t *testing.T) {
	stmt := mustSelect(t, "SELECT id, name FROM users WHERE active = true")

	assert.Equal(t, 2, len(stmt.Columns))
	first, ok := stmt.Columns[0].(*ExpressionResultColumn)
	assert.True(t, ok)
	ref, ok := first.Expr.(*Reference)
	assert.True(t, ok)
	assert.Equal(t, "id", ref.Column)

	source, ok := stmt.From.Source.(*TableReference)
	assert.True(t, ok)
	assert.Equal(t, "users", source.Name)

	cond, ok := stmt.Where.Cond.(*BinaryExpr)
	assert.True(t, ok)
	assert.Equal(t, OpEq, cond.Op)
}

func TestResultColumns(t *testing.T) {
	stmt := mustSelect(t, "SELECT *, u.*, id AS ident, name full_name FROM users u")

	assert.Equal(t, 4, len(stmt.Columns))

	star, ok := stmt.Columns[0].(*StarResultColumn)
	assert.True(t, ok)
	assert.Equal(t, "", star.Table)

	qualified, ok := stmt.Columns[1].(*StarResultColumn)
	assert.True(t, ok)
	assert.Equal(t, "u", qualified.Table)

	aliased, ok := stmt.Columns[2].(*ExpressionResultColumn)
	assert.True(t, ok)
	assert.Equal(t, "ident", aliased.Alias)

	bare, ok := stmt.Columns[3].(*ExpressionResultColumn)
	assert.True(t, ok)
	assert.Equal(t, "full_name", bare.Alias)
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		name  string
		sql   string
		check func(t *testing.T, cond Expression)
	}{
		{
			name: "multiplication binds tighter than addition",
			sql:  "SELECT * FROM t WHERE x = 1 + 2 * 3",
			check: func(t *testing.T, cond Expression) {
				eq := cond.(*BinaryExpr)
				add, ok := eq.Right.(*BinaryExpr)
				assert.True(t, ok)
				assert.Equal(t, OpAdd, add.Op)
				mul, ok := add.Right.(*BinaryExpr)
				assert.True(t, ok)
				assert.Equal(t, OpMul, mul.Op)
			},
		},
		{
			name: "AND binds tighter than OR",
			sql:  "SELECT * FROM t WHERE a OR b AND c",
			check: func(t *testing.T, cond Expression) {
				or := cond.(*BinaryExpr)
				assert.Equal(t, OpOr, or.Op)
				and, ok := or.Right.(*BinaryExpr)
				assert.True(t, ok)
				assert.Equal(t, OpAnd, and.Op)
			},
		},
		{
			name: "NOT binds looser than comparison",
			sql:  "SELECT * FROM t WHERE NOT a = b",
			check: func(t *testing.T, cond Expression) {
				not := cond.(*UnaryExpr)
				assert.Equal(t, OpNot, not.Op)
				eq, ok := not.Operand.(*BinaryExpr)
				assert.True(t, ok)
				assert.Equal(t, OpEq, eq.Op)
			},
		},
		{
			name: "unary minus binds tighter than addition",
			sql:  "SELECT * FROM t WHERE x = -a + b",
			check: func(t *testing.T, cond Expression) {
				eq := cond.(*BinaryExpr)
				add, ok := eq.Right.(*BinaryExpr)
				assert.True(t, ok)
				assert.Equal(t, OpAdd, add.Op)
				neg, ok := add.Left.(*UnaryExpr)
				assert.True(t, ok)
				assert.Equal(t, OpNeg, neg.Op)
			},
		},
		{
			name: "left associativity",
			sql:  "SELECT * FROM t WHERE x = 1 - 2 - 3",
			check: func(t *testing.T, cond Expression) {
				eq := cond.(*BinaryExpr)
				outer, ok := eq.Right.(*BinaryExpr)
				assert.True(t, ok)
				assert.Equal(t, OpSub, outer.Op)
				inner, ok := outer.Left.(*BinaryExpr)
				assert.True(t, ok)
				assert.Equal(t, OpSub, inner.Op)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, whereCond(t, tt.sql))
		})
	}
}

func TestBetweenOwnsInnerAnd(t *testing.T) {
	cond := whereCond(t, "SELECT * FROM t WHERE a BETWEEN 1 AND 2 AND b")

	and, ok := cond.(*BinaryExpr)
	assert.True(t, ok)
	assert.Equal(t, OpAnd, and.Op)

	between, ok := and.Left.(*BetweenExpr)
	assert.True(t, ok)
	assert.False(t, between.Not)
	assert.NotZero(t, between.Lower)
	assert.NotZero(t, between.Upper)
}

func TestIsOperators(t *testing.T) {
	cond := whereCond(t, "SELECT * FROM t WHERE a IS NOT NULL")
	is, ok := cond.(*BinaryExpr)
	assert.True(t, ok)
	assert.Equal(t, OpIsNot, is.Op)
	_, ok = is.Right.(*NullLiteral)
	assert.True(t, ok)
}

func TestInForms(t *testing.T) {
	tests := []struct {
		name  string
		sql   string
		check func(t *testing.T, in *InExpr)
	}{
		{
			name: "value list",
			sql:  "SELECT * FROM t WHERE a IN (1, 2, 3)",
			check: func(t *testing.T, in *InExpr) {
				assert.True(t, in.List)
				assert.Equal(t, 3, len(in.Values))
			},
		},
		{
			name: "empty list",
			sql:  "SELECT * FROM t WHERE a IN ()",
			check: func(t *testing.T, in *InExpr) {
				assert.True(t, in.List)
				assert.Equal(t, 0, len(in.Values))
			},
		},
		{
			name: "scalar placeholder in list",
			sql:  "SELECT * FROM t WHERE a IN (?)",
			check: func(t *testing.T, in *InExpr) {
				assert.True(t, in.List)
				assert.Equal(t, 1, len(in.Values))
				_, ok := in.Values[0].(*Variable)
				assert.True(t, ok)
			},
		},
		{
			name: "bare array placeholder",
			sql:  "SELECT * FROM t WHERE a IN ?",
			check: func(t *testing.T, in *InExpr) {
				assert.False(t, in.List)
				assert.NotZero(t, in.Var)
			},
		},
		{
			name: "subquery",
			sql:  "SELECT * FROM t WHERE a IN (SELECT b FROM u)",
			check: func(t *testing.T, in *InExpr) {
				assert.False(t, in.List)
				assert.NotZero(t, in.Select)
			},
		},
		{
			name: "negated",
			sql:  "SELECT * FROM t WHERE a NOT IN (1)",
			check: func(t *testing.T, in *InExpr) {
				assert.True(t, in.Not)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, ok := whereCond(t, tt.sql).(*InExpr)
			assert.True(t, ok)
			tt.check(t, in)
		})
	}
}

func TestLikeWithEscape(t *testing.T) {
	cond := whereCond(t, "SELECT * FROM t WHERE name NOT LIKE '%x\\%' ESCAPE '\\'")
	like, ok := cond.(*LikeExpr)
	assert.True(t, ok)
	assert.Equal(t, LikeOpLike, like.Op)
	assert.True(t, like.Not)
	assert.NotZero(t, like.Escape)
}

func TestBindVariableIndexing(t *testing.T) {
	stmt := mustSelect(t, "SELECT * FROM t WHERE a = ? AND b = ?5 AND c = ? AND d = :n AND e = :n AND f = @n")

	var vars []*Variable
	Walk(stmt, func(n Node) bool {
		if v, ok := n.(*Variable); ok {
			vars = append(vars, v)
		}
		return true
	})

	assert.Equal(t, 6, len(vars))
	indexes := make([]int, 0, len(vars))
	for _, v := range vars {
		indexes = append(indexes, v.Index)
	}
	assert.Equal(t, []int{1, 5, 6, 7, 7, 7}, indexes)
	assert.True(t, vars[1].Explicit)
	assert.Equal(t, "n", vars[3].Name)
}

func TestJoins(t *testing.T) {
	stmt := mustSelect(t, "SELECT * FROM a, b LEFT OUTER JOIN c ON a.id = c.id JOIN d USING (id, org) NATURAL CROSS JOIN e")

	assert.Equal(t, 4, len(stmt.From.Joins))
	assert.Equal(t, JoinComma, stmt.From.Joins[0].Type)
	assert.Equal(t, JoinLeft, stmt.From.Joins[1].Type)
	assert.NotZero(t, stmt.From.Joins[1].On)
	assert.Equal(t, JoinInner, stmt.From.Joins[2].Type)
	assert.Equal(t, []string{"id", "org"}, stmt.From.Joins[2].Using)
	assert.Equal(t, JoinCross, stmt.From.Joins[3].Type)
	assert.True(t, stmt.From.Joins[3].Natural)

	assert.Equal(t, 5, len(stmt.From.Sources()))
}

func TestSubquerySource(t *testing.T) {
	stmt := mustSelect(t, "SELECT x FROM (SELECT id AS x FROM users) AS sub")
	source, ok := stmt.From.Source.(*SelectSource)
	assert.True(t, ok)
	assert.Equal(t, "sub", source.Alias)
	assert.NotZero(t, source.Select)
}

func TestWithClause(t *testing.T) {
	stmt := mustSelect(t, "WITH RECURSIVE r(n) AS (SELECT 1 UNION ALL SELECT n + 1 FROM r LIMIT 5) SELECT n FROM r")

	assert.NotZero(t, stmt.With)
	assert.True(t, stmt.With.Recursive)
	assert.Equal(t, 1, len(stmt.With.CTEs))
	cte := stmt.With.CTEs[0]
	assert.Equal(t, "r", cte.Name)
	assert.Equal(t, []string{"n"}, cte.Columns)
	assert.NotZero(t, cte.Select.Compound)
}

func TestCompoundSelect(t *testing.T) {
	stmt := mustSelect(t, "SELECT a FROM t UNION ALL SELECT b FROM u EXCEPT SELECT c FROM v ORDER BY 1 LIMIT 10")

	assert.NotZero(t, stmt.Compound)
	assert.Equal(t, CompoundUnionAll, stmt.Compound.Op)
	second := stmt.Compound.Select
	assert.NotZero(t, second.Compound)
	assert.Equal(t, CompoundExcept, second.Compound.Op)

	// ORDER BY and LIMIT attach to the first statement of the chain
	assert.NotZero(t, stmt.OrderBy)
	assert.NotZero(t, stmt.Limit)
	assert.Zero(t, second.OrderBy)
	assert.Zero(t, second.Compound.Select.Limit)
}

func TestOrderByModifiers(t *testing.T) {
	stmt := mustSelect(t, "SELECT * FROM t ORDER BY a DESC NULLS LAST, b COLLATE NOCASE")

	assert.Equal(t, 2, len(stmt.OrderBy.Terms))
	assert.True(t, stmt.OrderBy.Terms[0].Desc)
	assert.Equal(t, NullsLast, stmt.OrderBy.Terms[0].Nulls)

	collate, ok := stmt.OrderBy.Terms[1].Expr.(*CollateExpr)
	assert.True(t, ok)
	assert.Equal(t, "NOCASE", collate.Collation)
}

func TestLimitForms(t *testing.T) {
	withOffset := mustSelect(t, "SELECT * FROM t LIMIT 10 OFFSET 5")
	assert.NotZero(t, withOffset.Limit.Count)
	assert.NotZero(t, withOffset.Limit.Offset)

	// the comma form reads offset first
	comma := mustSelect(t, "SELECT * FROM t LIMIT 5, 10")
	offset, ok := comma.Limit.Offset.(*NumberLiteral)
	assert.True(t, ok)
	assert.Equal(t, "5", offset.Value.String())
	count, ok := comma.Limit.Count.(*NumberLiteral)
	assert.True(t, ok)
	assert.Equal(t, "10", count.Value.String())
}

func TestInsertForms(t *testing.T) {
	t.Run("values with returning", func(t *testing.T) {
		stmt, ok := mustParse(t, "INSERT INTO demo (content) VALUES (?), ('x') RETURNING id").(*InsertStatement)
		assert.True(t, ok)
		assert.Equal(t, "demo", stmt.Table.Name)
		assert.Equal(t, 1, len(stmt.Columns))
		assert.Equal(t, 2, len(stmt.Values))
		assert.NotZero(t, stmt.Returning)
	})

	t.Run("insert from select", func(t *testing.T) {
		stmt, ok := mustParse(t, "INSERT INTO archive SELECT * FROM demo WHERE id < 100").(*InsertStatement)
		assert.True(t, ok)
		assert.NotZero(t, stmt.Select)
		assert.Equal(t, 0, len(stmt.Values))
	})

	t.Run("default values", func(t *testing.T) {
		stmt, ok := mustParse(t, "INSERT INTO demo DEFAULT VALUES").(*InsertStatement)
		assert.True(t, ok)
		assert.True(t, stmt.DefaultValues)
	})

	t.Run("insert or ignore", func(t *testing.T) {
		stmt, ok := mustParse(t, "INSERT OR IGNORE INTO demo (id) VALUES (1)").(*InsertStatement)
		assert.True(t, ok)
		assert.Equal(t, ConflictIgnore, stmt.Or)
	})

	t.Run("replace into", func(t *testing.T) {
		stmt, ok := mustParse(t, "REPLACE INTO demo (id) VALUES (1)").(*InsertStatement)
		assert.True(t, ok)
		assert.True(t, stmt.Replace)
		assert.Equal(t, ConflictReplace, stmt.Or)
	})
}

func TestUpdate(t *testing.T) {
	stmt, ok := mustParse(t, "UPDATE demo SET content = ?, id = id + 1 FROM other WHERE demo.id = other.id RETURNING *").(*UpdateStatement)
	assert.True(t, ok)
	assert.Equal(t, "demo", stmt.Table.Name)
	assert.Equal(t, 2, len(stmt.Sets))
	assert.Equal(t, "content", stmt.Sets[0].Column.Column)
	assert.NotZero(t, stmt.From)
	assert.NotZero(t, stmt.Where)
	assert.NotZero(t, stmt.Returning)
}

func TestDelete(t *testing.T) {
	stmt, ok := mustParse(t, "DELETE FROM demo WHERE id = ? RETURNING id").(*DeleteStatement)
	assert.True(t, ok)
	assert.Equal(t, "demo", stmt.Table.Name)
	assert.NotZero(t, stmt.Where)
	assert.NotZero(t, stmt.Returning)
}

func TestCreateTable(t *testing.T) {
	sql := `CREATE TABLE IF NOT EXISTS demo (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		content TEXT NOT NULL DEFAULT 'empty',
		parent_id INTEGER REFERENCES demo (id),
		score VARCHAR(10) COLLATE NOCASE,
		CONSTRAINT no_self CHECK (id <> parent_id),
		UNIQUE (content, parent_id)
	)`
	stmt, ok := mustParse(t, sql).(*CreateTableStatement)
	assert.True(t, ok)
	assert.True(t, stmt.IfNotExists)
	assert.Equal(t, "demo", stmt.Name)
	assert.Equal(t, 4, len(stmt.Columns))

	id := stmt.Columns[0]
	assert.Equal(t, "INTEGER", id.TypeName)
	assert.Equal(t, ColumnPrimaryKey, id.Constraints[0].Kind)
	assert.True(t, id.Constraints[0].Autoincrement)

	content := stmt.Columns[1]
	assert.Equal(t, ColumnNotNull, content.Constraints[0].Kind)
	assert.Equal(t, ColumnDefault, content.Constraints[1].Kind)

	parent := stmt.Columns[2]
	assert.Equal(t, ColumnReferences, parent.Constraints[0].Kind)
	assert.Equal(t, "demo", parent.Constraints[0].References.Table)
	assert.Equal(t, []string{"id"}, parent.Constraints[0].References.Columns)

	assert.Equal(t, "VARCHAR(10)", stmt.Columns[3].TypeName)

	assert.Equal(t, 2, len(stmt.Constraints))
	assert.Equal(t, "no_self", stmt.Constraints[0].Name)
	assert.Equal(t, TableCheck, stmt.Constraints[0].Kind)
	assert.Equal(t, TableUnique, stmt.Constraints[1].Kind)
	assert.Equal(t, []string{"content", "parent_id"}, stmt.Constraints[1].Columns)
}

func TestCreateTableAsSelect(t *testing.T) {
	stmt, ok := mustParse(t, "CREATE TEMP TABLE snapshot AS SELECT * FROM demo").(*CreateTableStatement)
	assert.True(t, ok)
	assert.True(t, stmt.Temp)
	assert.NotZero(t, stmt.AsSelect)
}

func TestCreateIndex(t *testing.T) {
	stmt, ok := mustParse(t, "CREATE UNIQUE INDEX IF NOT EXISTS idx ON demo (content DESC, id) WHERE id > 0").(*CreateIndexStatement)
	assert.True(t, ok)
	assert.True(t, stmt.Unique)
	assert.True(t, stmt.IfNotExists)
	assert.Equal(t, "demo", stmt.Table)
	assert.Equal(t, 2, len(stmt.Columns))
	assert.True(t, stmt.Columns[0].Desc)
	assert.NotZero(t, stmt.Where)
}

func TestCreateTrigger(t *testing.T) {
	sql := `CREATE TRIGGER audit AFTER UPDATE OF content ON demo FOR EACH ROW WHEN id > 0 BEGIN
		INSERT INTO log (entry) VALUES ('changed');
		DELETE FROM cache WHERE tag = 'demo';
	END`
	stmt, ok := mustParse(t, sql).(*CreateTriggerStatement)
	assert.True(t, ok)
	assert.Equal(t, TriggerAfter, stmt.Timing)
	assert.Equal(t, TriggerOnUpdate, stmt.Event)
	assert.Equal(t, []string{"content"}, stmt.UpdateColumns)
	assert.Equal(t, "demo", stmt.Table)
	assert.True(t, stmt.ForEachRow)
	assert.NotZero(t, stmt.When)
	assert.Equal(t, 2, len(stmt.Body))
}

func TestCaseExpressions(t *testing.T) {
	searched := whereCond(t, "SELECT * FROM t WHERE x = CASE WHEN a THEN 1 WHEN b THEN 2 ELSE 3 END")
	eq := searched.(*BinaryExpr)
	caseExpr, ok := eq.Right.(*CaseExpr)
	assert.True(t, ok)
	assert.Zero(t, caseExpr.Operand)
	assert.Equal(t, 2, len(caseExpr.Whens))
	assert.NotZero(t, caseExpr.Else)

	operand := whereCond(t, "SELECT * FROM t WHERE x = CASE y WHEN 1 THEN 'a' END")
	eq = operand.(*BinaryExpr)
	caseExpr, ok = eq.Right.(*CaseExpr)
	assert.True(t, ok)
	assert.NotZero(t, caseExpr.Operand)
	assert.Zero(t, caseExpr.Else)
}

func TestCast(t *testing.T) {
	cond := whereCond(t, "SELECT * FROM t WHERE CAST(x AS TEXT) = 'a'")
	eq := cond.(*BinaryExpr)
	cast, ok := eq.Left.(*CastExpr)
	assert.True(t, ok)
	assert.Equal(t, "TEXT", cast.TypeName)
}

func TestFunctionCalls(t *testing.T) {
	stmt := mustSelect(t, "SELECT count(*), count(DISTINCT a), sum(b) FILTER (WHERE b > 0) FROM t")

	star := stmt.Columns[0].(*ExpressionResultColumn).Expr.(*FunctionCall)
	assert.True(t, star.Star)

	distinct := stmt.Columns[1].(*ExpressionResultColumn).Expr.(*FunctionCall)
	assert.True(t, distinct.Distinct)
	assert.Equal(t, 1, len(distinct.Args))

	filtered := stmt.Columns[2].(*ExpressionResultColumn).Expr.(*FunctionCall)
	assert.NotZero(t, filtered.Filter)
}

func TestWindowFunctions(t *testing.T) {
	stmt := mustSelect(t, "SELECT row_number() OVER (PARTITION BY a ORDER BY b ROWS BETWEEN UNBOUNDED PRECEDING AND CURRENT ROW) FROM t")

	win, ok := stmt.Columns[0].(*ExpressionResultColumn).Expr.(*WindowFunction)
	assert.True(t, ok)
	assert.Equal(t, "row_number", win.Call.Name)
	assert.Equal(t, 1, len(win.Def.PartitionBy))
	assert.Equal(t, 1, len(win.Def.OrderBy))
	assert.Equal(t, FrameRows, win.Def.Frame.Unit)
	assert.Equal(t, BoundUnboundedPreceding, win.Def.Frame.Start.Kind)
	assert.Equal(t, BoundCurrentRow, win.Def.Frame.End.Kind)
}

func TestNamedWindows(t *testing.T) {
	stmt := mustSelect(t, "SELECT sum(x) OVER w FROM t WINDOW w AS (ORDER BY y)")

	win, ok := stmt.Columns[0].(*ExpressionResultColumn).Expr.(*WindowFunction)
	assert.True(t, ok)
	assert.Equal(t, "w", win.WindowName)

	assert.NotZero(t, stmt.Windows)
	assert.Equal(t, "w", stmt.Windows.Windows[0].Name)
	assert.Equal(t, 1, len(stmt.Windows.Windows[0].Def.OrderBy))
}

func TestExistsAndSubquery(t *testing.T) {
	cond := whereCond(t, "SELECT * FROM t WHERE NOT EXISTS (SELECT 1 FROM u) AND x = (SELECT max(y) FROM v)")
	and := cond.(*BinaryExpr)

	exists, ok := and.Left.(*ExistsExpr)
	assert.True(t, ok)
	assert.True(t, exists.Not)

	eq := and.Right.(*BinaryExpr)
	_, ok = eq.Right.(*SubqueryExpr)
	assert.True(t, ok)
}

func TestParentAssignment(t *testing.T) {
	stmt := mustSelect(t, "SELECT a FROM t WHERE b = 1")

	assert.True(t, stmt.Where.Parent() == Node(stmt))
	assert.True(t, stmt.Where.Cond.Parent() == Node(stmt.Where))

	cond := stmt.Where.Cond.(*BinaryExpr)
	assert.True(t, EnclosingStatement(cond.Left) == Statement(stmt))
}

func TestSpansCoverStatements(t *testing.T) {
	sources := []string{
		"SELECT id, name FROM users WHERE active = true",
		"INSERT INTO demo (content) VALUES (?)",
		"UPDATE demo SET content = 'x' WHERE id = 1",
		"DELETE FROM demo WHERE id = 2",
	}

	for _, src := range sources {
		stmt := mustParse(t, src)
		span := stmt.Span()
		assert.Equal(t, src, src[span.Offset:span.End()])
	}
}

func TestParseScript(t *testing.T) {
	stmts, err := ParseScript("SELECT 1; SELECT 2;; SELECT 3")
	assert.NoError(t, err)
	assert.Equal(t, 3, len(stmts))
}

func TestEmptyInput(t *testing.T) {
	stmt, err := Parse("")
	assert.Zero(t, stmt)
	assert.IsError(t, err, ErrEmptyInput)

	_, err = Parse(" ; ; ")
	assert.IsError(t, err, ErrEmptyInput)
}

func TestErrorRecovery(t *testing.T) {
	stmts, err := ParseScript("SELECT * FROM WHERE x; SELECT 2 FROM t")
	assert.Error(t, err)
	assert.IsError(t, err, ErrUnexpectedToken)

	assert.Equal(t, 2, len(stmts))
	bad, ok := stmts[0].(*BadStatement)
	assert.True(t, ok)
	assert.NotZero(t, len(bad.Partial))

	good, ok := stmts[1].(*SelectStatement)
	assert.True(t, ok)
	assert.NotZero(t, good.From)
}

func TestRecoveryResumesAtStatementKeyword(t *testing.T) {
	stmts, err := ParseScript("bogus tokens here SELECT 1")
	assert.IsError(t, err, ErrExpectedStatement)
	assert.Equal(t, 2, len(stmts))
	_, ok := stmts[0].(*BadStatement)
	assert.True(t, ok)
	_, ok = stmts[1].(*SelectStatement)
	assert.True(t, ok)
}

func TestLexErrorsSurfaceAsParseErrors(t *testing.T) {
	_, err := Parse("SELECT 'abc")
	assert.Error(t, err)
	assert.IsError(t, err, tokenizer.ErrUnterminatedString)
}

func TestWithRequiresStatement(t *testing.T) {
	stmt, err := Parse("WITH c AS (SELECT 1) CREATE TABLE t (id INTEGER)")
	assert.IsError(t, err, ErrExpectedStatement)
	_, ok := stmt.(*BadStatement)
	assert.True(t, ok)
}
