package cli

import (
	"flag"

	"github.com/ledgerlens/statement-backend/internal/domain/matcher"
)

// AnalyzeFlags are the flags for the one-shot analyze command.
type AnalyzeFlags struct {
	Input        string
	Boundary     string
	DBPath       string
	WindowDays   int
	MinMatched   float64
	MinUncertain float64
	JSONOutput   bool
	Verbose      bool
}

// ParseAnalyzeFlags parses analyze flags from the command line.
func ParseAnalyzeFlags() AnalyzeFlags {
	defaults := matcher.DefaultConfig()

	var flags AnalyzeFlags
	flag.StringVar(&flags.Input, "input", "", "Path to transactions JSON file (required)")
	flag.StringVar(&flags.Boundary, "boundary", "", "Comma-separated boundary account ids (overrides stored set)")
	flag.StringVar(&flags.DBPath, "db", "", "SQLite database path for stored boundary set and run history (optional)")
	flag.IntVar(&flags.WindowDays, "window", defaults.WindowDays, "Max day gap between transfer legs (0-7)")
	flag.Float64Var(&flags.MinMatched, "min-matched", defaults.MinMatched, "Score threshold for a confident match (0-1)")
	flag.Float64Var(&flags.MinUncertain, "min-uncertain", defaults.MinUncertain, "Score threshold for an uncertain match (0-1)")
	flag.BoolVar(&flags.JSONOutput, "json", false, "Emit the full report as JSON")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Verbose output")
	flag.Parse()
	return flags
}

// ToMatcherConfig converts the flags to an engine config, clamped.
func (f AnalyzeFlags) ToMatcherConfig() matcher.Config {
	return matcher.Config{
		WindowDays:   f.WindowDays,
		MinMatched:   f.MinMatched,
		MinUncertain: f.MinUncertain,
	}.Clamped()
}
