package sqlfront

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.NoError(t, err)
	assert.Equal(t, "critical", config.Analysis.UnresolvedColumns)
	assert.Equal(t, "info", config.Logging.Level)
	assert.Equal(t, "text", config.Output.Format)
	assert.Equal(t, 100, config.Limits.MaxErrors)
}

func TestLoadConfigAppliesDefaultsToPartialFile(t *testing.T) {
	doc := `analysis:
  strict: true
logging:
  level: debug
`
	path := filepath.Join(t.TempDir(), "sqlfront.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	config, err := LoadConfig(path)
	assert.NoError(t, err)
	assert.True(t, config.Analysis.Strict)
	assert.Equal(t, "debug", config.Logging.Level)
	assert.Equal(t, "text", config.Logging.Format)
	assert.Equal(t, "critical", config.Analysis.UnresolvedColumns)
	assert.Equal(t, 1<<20, config.Limits.MaxStatementLength)
}

func TestLoadConfigExpandsEnvVars(t *testing.T) {
	t.Setenv("SQLFRONT_SCHEMA_DIR", "/srv/schemas")

	doc := `schema_files:
  - ${SQLFRONT_SCHEMA_DIR}/main.yaml
`
	path := filepath.Join(t.TempDir(), "sqlfront.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	config, err := LoadConfig(path)
	assert.NoError(t, err)
	assert.Equal(t, []string{"/srv/schemas/main.yaml"}, config.SchemaFiles)
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "bad unresolved columns severity",
			doc: `analysis:
  unresolved_columns: fatal
`,
		},
		{
			name: "bad logging level",
			doc: `logging:
  level: trace
`,
		},
		{
			name: "bad output color",
			doc: `output:
  color: sometimes
`,
		},
		{
			name: "negative max errors",
			doc: `limits:
  max_errors: -1
`,
		},
		{
			name: "function without name",
			doc: `functions:
  - returns: text
`,
		},
		{
			name: "function with unknown return type",
			doc: `functions:
  - name: my_fn
    returns: uuid
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "sqlfront.yaml")
			assert.NoError(t, os.WriteFile(path, []byte(tt.doc), 0o644))

			_, err := LoadConfig(path)
			assert.IsError(t, err, ErrConfigInvalid)
		})
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	doc := `dialect: postgres
`
	path := filepath.Join(t.TempDir(), "sqlfront.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestFunctionConfigSignature(t *testing.T) {
	fn := FunctionConfig{
		Name:    "my_coalesce",
		Returns: "same-as-first",
		Args:    []string{"any", "same-as-first"},
	}
	sig := fn.SignatureFor()
	assert.True(t, sig.ReturnFromArg)
	assert.Equal(t, []ArgExpectation{ArgAny, ArgSameAsFirst}, sig.Args)

	fixed := FunctionConfig{Name: "my_len", Returns: "integer", Args: []string{"text"}}
	sig = fixed.SignatureFor()
	assert.False(t, sig.ReturnFromArg)
	assert.Equal(t, BaseInt, sig.Return.Base)
	assert.Equal(t, []ArgExpectation{ArgText}, sig.Args)
}
