package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/webpo"
	"github.com/fwojciec/webpo/doublestar"
	"github.com/fwojciec/webpo/htmltomarkdown"
	pohttp "github.com/fwojciec/webpo/http"
	"github.com/fwojciec/webpo/pages"
	poprom "github.com/fwojciec/webpo/prometheus"
	"github.com/fwojciec/webpo/readability"
	"github.com/fwojciec/webpo/rules"
	poslog "github.com/fwojciec/webpo/slog"
	"github.com/fwojciec/webpo/trafilatura"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Services for end-to-end testing. Nil fields get the defaults.
	HTTPClient webpo.HTTPClient
	Extractor  webpo.Extractor
	Converter  webpo.Converter
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("webpo"),
		kong.Description("Resolve and run Page Objects against web pages."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'webpo --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})).
		With("run", uuid.NewString())

	deps.Catalog = pages.NewCatalog()
	registry := rules.NewRegistry(doublestar.NewMatcher(), rules.WithLogger(deps.Logger))
	pages.Register(registry)
	if cli.RulesFile != "" {
		if err := LoadRulesFile(cli.RulesFile, registry, deps.Catalog); err != nil {
			fmt.Fprintf(stderr, "Hint: Set WEBPO_RULES to use a different rules file\n")
			return fmt.Errorf("failed to load rules from %q: %w", cli.RulesFile, err)
		}
	}
	deps.Registry = poslog.NewLoggingRegistry(registry, deps.Logger)

	client := m.HTTPClient
	if client == nil {
		opts := []pohttp.Option{pohttp.WithTimeout(cli.Timeout)}
		if cli.Rate > 0 {
			opts = append(opts, pohttp.WithRateLimit(cli.Rate, 1))
		}
		client = pohttp.NewClient(opts...)
	}
	deps.HTTPClient = poslog.NewLoggingHTTPClient(client, deps.Logger)

	deps.Extractor = m.Extractor
	if deps.Extractor == nil {
		deps.Extractor = &FallbackExtractor{
			Primary:   trafilatura.NewExtractor(),
			Secondary: readability.NewExtractor(),
		}
	}
	deps.Converter = m.Converter
	if deps.Converter == nil {
		deps.Converter = htmltomarkdown.NewConverter()
	}

	metrics := prometheus.NewRegistry()
	deps.Stats = poprom.NewStats(poprom.WithRegisterer(metrics))
	deps.Metrics = metrics

	return kongCtx.Run(deps)
}
