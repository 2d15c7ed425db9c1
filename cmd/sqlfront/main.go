package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/sqlfront/sqlfront"
)

// Context represents the global context for commands
type Context struct {
	Config  string
	Schema  []string
	Verbose bool
	Quiet   bool
	Logger  *slog.Logger
}

// CLI represents the command-line interface
var CLI struct {
	Config   string      `help:"Configuration file path" default:"sqlfront.yaml"`
	Schema   []string    `help:"Additional schema files" short:"s" type:"path"`
	Verbose  bool        `help:"Enable verbose output" short:"v"`
	Quiet    bool        `help:"Suppress output" short:"q"`
	Tokenize TokenizeCmd `cmd:"" help:"Print the token stream of a statement"`
	Parse    ParseCmd    `cmd:"" help:"Print the syntax tree of a statement"`
	Format   FormatCmd   `cmd:"" help:"Reformat statements in the canonical layout"`
	Analyze  AnalyzeCmd  `cmd:"" help:"Analyze statements and print diagnostics and bind types"`
	Check    CheckCmd    `cmd:"" help:"Analyze statements and fail on critical diagnostics"`
	Version  VersionCmd  `cmd:"" help:"Show version information"`
}

// VersionCmd represents the version command
type VersionCmd struct{}

// Run executes the version command
func (cmd *VersionCmd) Run() error {
	fmt.Println("sqlfront v0.1.0")
	return nil
}

func newLogger(config *sqlfront.Config, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	switch config.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if config.Logging.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func main() {
	ctx := kong.Parse(&CLI)

	appCtx := &Context{
		Config:  CLI.Config,
		Schema:  CLI.Schema,
		Verbose: CLI.Verbose,
		Quiet:   CLI.Quiet,
	}

	err := ctx.Run(appCtx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
