package sqlfront

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
)

// SchemaFile is the YAML document format for table definitions fed to the
// analyzer.
type SchemaFile struct {
	Tables []SchemaTable `yaml:"tables"`
}

// SchemaTable is one table entry of a schema file.
type SchemaTable struct {
	Name    string         `yaml:"name"`
	Columns []SchemaColumn `yaml:"columns"`
}

// SchemaColumn is one column entry of a schema table.
type SchemaColumn struct {
	Name          string `yaml:"name"`
	Type          string `yaml:"type"`
	PrimaryKey    bool   `yaml:"primary_key"`
	AutoIncrement bool   `yaml:"auto_increment"`
	Unique        bool   `yaml:"unique"`
	NotNull       bool   `yaml:"not_null"`
	MinLength     *int   `yaml:"min_length"`
	MaxLength     *int   `yaml:"max_length"`
}

// LoadSchemaFile reads a YAML schema file and converts it into table
// definitions ready for registration.
func LoadSchemaFile(path string) ([]*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}

	var file SchemaFile
	err = yaml.UnmarshalWithOptions(data, &file, yaml.Strict())
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema file: %w", err)
	}

	return file.Build()
}

// Build validates the document and converts it to table definitions.
func (f *SchemaFile) Build() ([]*Table, error) {
	tables := make([]*Table, 0, len(f.Tables))
	seenTables := map[string]bool{}
	for _, st := range f.Tables {
		if st.Name == "" {
			return nil, fmt.Errorf("%w: table entry is missing a name", ErrSchemaInvalid)
		}
		key := strings.ToLower(st.Name)
		if seenTables[key] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTable, st.Name)
		}
		seenTables[key] = true

		table, err := st.build()
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return tables, nil
}

func (st SchemaTable) build() (*Table, error) {
	table := &Table{Name: st.Name}
	seen := map[string]bool{}
	for _, sc := range st.Columns {
		if sc.Name == "" {
			return nil, fmt.Errorf("%w: table %s: column entry is missing a name", ErrSchemaInvalid, st.Name)
		}
		key := strings.ToLower(sc.Name)
		if seen[key] {
			return nil, fmt.Errorf("%w: %s.%s", ErrDuplicateColumn, st.Name, sc.Name)
		}
		seen[key] = true

		typ := ParseColumnType(sc.Type)
		if typ == ColumnUnknown {
			return nil, fmt.Errorf("%w: %s.%s declared as '%s'", ErrUnknownColumnType, st.Name, sc.Name, sc.Type)
		}

		col := &Column{Name: sc.Name, Type: typ}
		if sc.AutoIncrement {
			col.Features = append(col.Features, AutoIncrement())
		}
		if sc.PrimaryKey {
			col.Features = append(col.Features, PrimaryKey())
		}
		if sc.Unique {
			col.Features = append(col.Features, UniqueKey())
		}
		if sc.NotNull {
			col.Features = append(col.Features, NotNull())
		}
		if sc.MinLength != nil || sc.MaxLength != nil {
			col.Features = append(col.Features, LimitingTextLength(sc.MinLength, sc.MaxLength))
		}
		table.Columns = append(table.Columns, col)
	}
	return table, nil
}
