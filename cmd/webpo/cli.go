package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/webpo"
	"github.com/fwojciec/webpo/pages"
	"github.com/prometheus/client_golang/prometheus"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx        context.Context
	Stdout     io.Writer
	Stderr     io.Writer
	Logger     *slog.Logger
	Registry   webpo.RuleRegistry
	Catalog    *pages.Catalog
	HTTPClient webpo.HTTPClient
	Extractor  webpo.Extractor
	Converter  webpo.Converter
	Stats      webpo.Stats
	Metrics    prometheus.Gatherer
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	RulesFile string        `name:"rules" type:"path" env:"WEBPO_RULES" help:"YAML file with additional rules"`
	Timeout   time.Duration `default:"10s" env:"WEBPO_TIMEOUT" help:"HTTP request timeout"`
	Rate      float64       `env:"WEBPO_RATE" help:"Max requests per second per host (0 disables)"`
	Verbose   bool          `short:"v" help:"Log debug output to stderr"`

	Rules   RulesCmd   `cmd:"" help:"Show the rules that apply to a URL"`
	Extract ExtractCmd `cmd:"" help:"Fetch a URL and print the extracted item as JSON"`
	Fields  FieldsCmd  `cmd:"" help:"List the fields of a built-in page"`
}

// RulesCmd is the "rules" subcommand.
type RulesCmd struct {
	URL  string `arg:"" help:"Page URL"`
	Item string `default:"metadata" help:"Item name to resolve for"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	URL       string   `arg:"" help:"Page URL"`
	Item      string   `default:"metadata" help:"Item name to extract"`
	Include   []string `short:"i" help:"Only include these fields (repeatable)"`
	Exclude   []string `short:"x" help:"Exclude these fields (repeatable)"`
	OnUnknown string   `name:"on-unknown" enum:"ignore,warn,raise" default:"raise" help:"What to do with unknown field names (ignore, warn, raise)"`
	Metrics   bool     `help:"Print page statistics to stderr after extraction"`
}

// FieldsCmd is the "fields" subcommand.
type FieldsCmd struct {
	Page string `arg:"" help:"Page name"`
}
