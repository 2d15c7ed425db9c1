package sqlfront

import (
	"fmt"
	"os"
	"regexp"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// Config represents the sqlfront configuration.
type Config struct {
	SchemaFiles []string         `yaml:"schema_files"`
	Analysis    AnalysisConfig   `yaml:"analysis"`
	Logging     LoggingConfig    `yaml:"logging"`
	Output      OutputConfig     `yaml:"output"`
	Limits      LimitsConfig     `yaml:"limits"`
	Functions   []FunctionConfig `yaml:"functions"`
}

// AnalysisConfig represents semantic analysis settings.
type AnalysisConfig struct {
	// Strict is loaded from the file; the engine and CLI do not read it, so
	// warnings keep their severity whatever its value.
	Strict bool `yaml:"strict"`
	// UnresolvedColumns selects the severity for unresolved column
	// references: "critical" or "warning".
	UnresolvedColumns string `yaml:"unresolved_columns"`
}

// LoggingConfig represents structured logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// OutputConfig represents CLI output settings.
type OutputConfig struct {
	Format string `yaml:"format"` // text or json
	Color  string `yaml:"color"`  // auto, always, never
}

// LimitsConfig holds the limits section of the file. The values are defaulted
// and validated here; the parser and engine do not consult them.
type LimitsConfig struct {
	MaxStatementLength int `yaml:"max_statement_length"`
	MaxErrors          int `yaml:"max_errors"`
}

// FunctionConfig declares an additional function signature on top of the
// built-in table. Args uses the schema type keywords plus "any" and
// "same-as-first".
type FunctionConfig struct {
	Name      string   `yaml:"name"`
	Returns   string   `yaml:"returns"`
	Args      []string `yaml:"args"`
	Aggregate bool     `yaml:"aggregate"`
	Window    bool     `yaml:"window"`
}

// LoadConfig loads configuration from the specified file. A missing file
// yields the default configuration. A .env file in the working directory
// is loaded first so that ${VAR} references in the file resolve.
func LoadConfig(configPath string) (*Config, error) {
	err := loadEnvFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to load environment files: %w", err)
	}

	_, err = os.Stat(configPath)
	if os.IsNotExist(err) {
		config := DefaultConfig()
		expandConfigEnvVars(config)
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	err = yaml.UnmarshalWithOptions(data, &config, yaml.Strict())
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	applyDefaults(&config)
	expandConfigEnvVars(&config)

	return &config, nil
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			Strict:            false,
			UnresolvedColumns: "critical",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Output: OutputConfig{
			Format: "text",
			Color:  "auto",
		},
		Limits: LimitsConfig{
			MaxStatementLength: 1 << 20,
			MaxErrors:          100,
		},
	}
}

func validateConfig(config *Config) error {
	if config.Analysis.UnresolvedColumns != "" {
		switch config.Analysis.UnresolvedColumns {
		case "critical", "warning":
		default:
			return fmt.Errorf("%w: analysis.unresolved_columns '%s': must be critical or warning", ErrConfigInvalid, config.Analysis.UnresolvedColumns)
		}
	}

	if config.Logging.Level != "" {
		switch config.Logging.Level {
		case "debug", "info", "warn", "error":
		default:
			return fmt.Errorf("%w: logging.level '%s': must be one of debug, info, warn, error", ErrConfigInvalid, config.Logging.Level)
		}
	}

	if config.Logging.Format != "" && config.Logging.Format != "text" && config.Logging.Format != "json" {
		return fmt.Errorf("%w: logging.format '%s': must be text or json", ErrConfigInvalid, config.Logging.Format)
	}

	if config.Output.Format != "" && config.Output.Format != "text" && config.Output.Format != "json" {
		return fmt.Errorf("%w: output.format '%s': must be text or json", ErrConfigInvalid, config.Output.Format)
	}

	if config.Output.Color != "" {
		switch config.Output.Color {
		case "auto", "always", "never":
		default:
			return fmt.Errorf("%w: output.color '%s': must be one of auto, always, never", ErrConfigInvalid, config.Output.Color)
		}
	}

	if config.Limits.MaxStatementLength < 0 {
		return fmt.Errorf("%w: limits.max_statement_length must be non-negative, got %d", ErrConfigInvalid, config.Limits.MaxStatementLength)
	}

	if config.Limits.MaxErrors < 0 {
		return fmt.Errorf("%w: limits.max_errors must be non-negative, got %d", ErrConfigInvalid, config.Limits.MaxErrors)
	}

	for _, fn := range config.Functions {
		if fn.Name == "" {
			return fmt.Errorf("%w: functions entry: name is required", ErrConfigInvalid)
		}
		if fn.Returns != "" && fn.Returns != "same-as-first" && ParseColumnType(fn.Returns) == ColumnUnknown {
			return fmt.Errorf("%w: function '%s': unknown return type '%s'", ErrConfigInvalid, fn.Name, fn.Returns)
		}
	}

	return nil
}

func applyDefaults(config *Config) {
	defaults := DefaultConfig()

	if config.Analysis.UnresolvedColumns == "" {
		config.Analysis.UnresolvedColumns = defaults.Analysis.UnresolvedColumns
	}

	if config.Logging.Level == "" {
		config.Logging.Level = defaults.Logging.Level
	}

	if config.Logging.Format == "" {
		config.Logging.Format = defaults.Logging.Format
	}

	if config.Output.Format == "" {
		config.Output.Format = defaults.Output.Format
	}

	if config.Output.Color == "" {
		config.Output.Color = defaults.Output.Color
	}

	if config.Limits.MaxStatementLength == 0 {
		config.Limits.MaxStatementLength = defaults.Limits.MaxStatementLength
	}

	if config.Limits.MaxErrors == 0 {
		config.Limits.MaxErrors = defaults.Limits.MaxErrors
	}
}

// loadEnvFiles loads .env files if they exist.
func loadEnvFiles() error {
	if fileExists(".env") {
		err := godotenv.Load(".env")
		if err != nil {
			return fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	return nil
}

// expandEnvVars expands environment variables in the format ${VAR} or $VAR.
func expandEnvVars(s string) string {
	re1 := regexp.MustCompile(`\$\{([^}]+)\}`)
	s = re1.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})

	re2 := regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
	s = re2.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[1:])
	})

	return s
}

func expandConfigEnvVars(config *Config) {
	for i, file := range config.SchemaFiles {
		config.SchemaFiles[i] = expandEnvVars(file)
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// SignatureFor converts a declared function into a FunctionSignature so it
// can extend the built-in table.
func (f FunctionConfig) SignatureFor() FunctionSignature {
	sig := FunctionSignature{
		Aggregate: f.Aggregate,
		Window:    f.Window,
	}
	if f.Returns == "same-as-first" {
		sig.ReturnFromArg = true
	} else if f.Returns != "" {
		sig.Return = ParseColumnType(f.Returns).Resolved(true)
	}
	for _, arg := range f.Args {
		switch arg {
		case "same-as-first":
			sig.Args = append(sig.Args, ArgSameAsFirst)
		case "any", "":
			sig.Args = append(sig.Args, ArgAny)
		default:
			switch ParseColumnType(arg) {
			case ColumnInteger, ColumnDateTime, ColumnBool:
				sig.Args = append(sig.Args, ArgInt)
			case ColumnText:
				sig.Args = append(sig.Args, ArgText)
			case ColumnReal:
				sig.Args = append(sig.Args, ArgReal)
			default:
				sig.Args = append(sig.Args, ArgAny)
			}
		}
	}
	return sig
}
