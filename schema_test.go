package sqlfront

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestParseColumnType(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  ColumnType
	}{
		{name: "integer", input: "integer", want: ColumnInteger},
		{name: "int alias", input: "int", want: ColumnInteger},
		{name: "text", input: "text", want: ColumnText},
		{name: "uppercase", input: "TEXT", want: ColumnText},
		{name: "datetime", input: "datetime", want: ColumnDateTime},
		{name: "timestamp alias", input: "timestamp", want: ColumnDateTime},
		{name: "boolean", input: "boolean", want: ColumnBool},
		{name: "real", input: "real", want: ColumnReal},
		{name: "blob", input: "blob", want: ColumnBlob},
		{name: "unknown keyword", input: "jsonb", want: ColumnUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseColumnType(tt.input))
		})
	}
}

func TestColumnTypeResolved(t *testing.T) {
	tests := []struct {
		name     string
		typ      ColumnType
		nullable bool
		want     ResolvedType
	}{
		{
			name: "integer",
			typ:  ColumnInteger,
			want: ResolvedType{Base: BaseInt},
		},
		{
			name:     "nullable text",
			typ:      ColumnText,
			nullable: true,
			want:     ResolvedType{Base: BaseText, Nullable: true},
		},
		{
			name: "datetime stores as integer with hint",
			typ:  ColumnDateTime,
			want: ResolvedType{Base: BaseInt, Hint: HintDateTime},
		},
		{
			name: "boolean stores as integer with hint",
			typ:  ColumnBool,
			want: ResolvedType{Base: BaseInt, Hint: HintBool},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.typ.Resolved(tt.nullable))
		})
	}
}

func TestColumnNullability(t *testing.T) {
	plain := &Column{Name: "content", Type: ColumnText}
	assert.True(t, plain.Nullable())

	notNull := &Column{Name: "content", Type: ColumnText, Features: []ColumnFeature{NotNull()}}
	assert.False(t, notNull.Nullable())

	pk := &Column{Name: "id", Type: ColumnInteger, Features: []ColumnFeature{PrimaryKey(), AutoIncrement()}}
	assert.False(t, pk.Nullable())
	assert.True(t, pk.Has(FeatureAutoIncrement))
	assert.False(t, pk.Has(FeatureUniqueKey))
}

func TestTableColumnLookupIsCaseInsensitive(t *testing.T) {
	table := &Table{
		Name: "demo",
		Columns: []*Column{
			{Name: "ID", Type: ColumnInteger},
			{Name: "Content", Type: ColumnText},
		},
	}

	assert.Equal(t, "ID", table.Column("id").Name)
	assert.Equal(t, "Content", table.Column("CONTENT").Name)
	assert.Zero(t, table.Column("missing"))
}

func TestLoadSchemaFile(t *testing.T) {
	doc := `tables:
  - name: demo
    columns:
      - name: id
        type: integer
        primary_key: true
        auto_increment: true
      - name: content
        type: text
        not_null: true
        max_length: 255
  - name: tbl
    columns:
      - name: id
        type: integer
      - name: date
        type: datetime
`
	path := filepath.Join(t.TempDir(), "schema.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	tables, err := LoadSchemaFile(path)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(tables))

	demo := tables[0]
	assert.Equal(t, "demo", demo.Name)
	assert.Equal(t, 2, len(demo.Columns))
	assert.True(t, demo.Column("id").Has(FeaturePrimaryKey))
	assert.True(t, demo.Column("id").Has(FeatureAutoIncrement))
	assert.False(t, demo.Column("id").Nullable())
	assert.True(t, demo.Column("content").Has(FeatureNotNull))
	assert.True(t, demo.Column("content").Has(FeatureTextLength))

	tbl := tables[1]
	assert.Equal(t, ColumnDateTime, tbl.Column("date").Type)
	assert.Equal(t, ResolvedType{Base: BaseInt, Nullable: true, Hint: HintDateTime}, tbl.Column("date").Resolved())
}

func TestLoadSchemaFileErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{
			name: "unknown column type",
			doc: `tables:
  - name: demo
    columns:
      - name: id
        type: uuid
`,
			want: ErrUnknownColumnType,
		},
		{
			name: "duplicate column",
			doc: `tables:
  - name: demo
    columns:
      - name: id
        type: integer
      - name: ID
        type: integer
`,
			want: ErrDuplicateColumn,
		},
		{
			name: "duplicate table",
			doc: `tables:
  - name: demo
    columns:
      - name: id
        type: integer
  - name: DEMO
    columns:
      - name: id
        type: integer
`,
			want: ErrDuplicateTable,
		},
		{
			name: "missing table name",
			doc: `tables:
  - columns:
      - name: id
        type: integer
`,
			want: ErrSchemaInvalid,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "schema.yaml")
			assert.NoError(t, os.WriteFile(path, []byte(tt.doc), 0o644))

			_, err := LoadSchemaFile(path)
			assert.IsError(t, err, tt.want)
		})
	}
}
