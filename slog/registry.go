package slog

import (
	"log/slog"
	"reflect"
	"time"

	"github.com/fwojciec/webpo"
)

// Ensure LoggingRegistry implements webpo.RuleRegistry.
var _ webpo.RuleRegistry = (*LoggingRegistry)(nil)

// LoggingRegistry wraps a RuleRegistry with logging of resolution decisions.
type LoggingRegistry struct {
	next   webpo.RuleRegistry
	logger *slog.Logger
}

// NewLoggingRegistry creates a new LoggingRegistry.
func NewLoggingRegistry(next webpo.RuleRegistry, logger *slog.Logger) *LoggingRegistry {
	return &LoggingRegistry{next: next, logger: logger}
}

// Add logs the rule at debug level and delegates to the wrapped registry.
func (r *LoggingRegistry) Add(rule webpo.Rule) {
	r.logger.Debug("rule added", "rule", rule.String())
	r.next.Add(rule)
}

// Rules delegates to the wrapped registry.
func (r *LoggingRegistry) Rules() []webpo.Rule {
	return r.next.Rules()
}

// Find delegates to the wrapped registry.
func (r *LoggingRegistry) Find(filters ...webpo.RuleFilter) []webpo.Rule {
	return r.next.Find(filters...)
}

// ReplacementsFor delegates to the wrapped registry and logs the number of
// replacements found.
func (r *LoggingRegistry) ReplacementsFor(url string) (replacements map[reflect.Type]reflect.Type) {
	defer func(begin time.Time) {
		r.logger.Debug("replacements",
			"url", url,
			"count", len(replacements),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return r.next.ReplacementsFor(url)
}

// TopRulesFor delegates to the wrapped registry. An unresolved tie is
// logged as a warning.
func (r *LoggingRegistry) TopRulesFor(url string, result reflect.Type) []webpo.Rule {
	top := r.next.TopRulesFor(url, result)
	if len(top) > 1 {
		r.logger.Warn("ambiguous rules",
			"url", url,
			"item", webpo.TypeName(result),
			"count", len(top),
		)
	}
	return top
}

// ImplementationFor delegates to the wrapped registry and logs the
// selected implementation. A tie among the top rules is logged as a
// warning first.
func (r *LoggingRegistry) ImplementationFor(url string, result reflect.Type) (impl reflect.Type) {
	defer func(begin time.Time) {
		name := webpo.TypeName(impl)
		if impl == nil {
			name = "(none)"
		}
		r.logger.Info("implementation",
			"url", url,
			"item", webpo.TypeName(result),
			"use", name,
			"duration", time.Since(begin),
		)
	}(time.Now())
	r.TopRulesFor(url, result)
	return r.next.ImplementationFor(url, result)
}
