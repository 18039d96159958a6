package rules

import (
	"maps"
	"reflect"

	"github.com/fwojciec/webpo"
)

// HandleOption configures the rule built by Handle.
type HandleOption func(*webpo.Rule)

// InsteadOf marks the rule as replacing implementation T.
func InsteadOf[T any]() HandleOption {
	return func(r *webpo.Rule) {
		r.Replaces = reflect.TypeFor[T]()
	}
}

// ToReturn declares the item type T the implementation produces.
func ToReturn[T any]() HandleOption {
	return func(r *webpo.Rule) {
		r.Produces = reflect.TypeFor[T]()
	}
}

// WithMeta attaches metadata to the rule. Meta is not part of rule identity.
func WithMeta(meta map[string]any) HandleOption {
	return func(r *webpo.Rule) {
		r.Meta = maps.Clone(meta)
	}
}

// Handle registers implementation P for URLs matching patterns and returns
// the registered rule.
func Handle[P any](reg webpo.RuleRegistry, patterns webpo.Patterns, opts ...HandleOption) webpo.Rule {
	rule := webpo.Rule{
		Patterns: patterns.Clone(),
		Use:      reflect.TypeFor[P](),
	}
	for _, opt := range opts {
		opt(&rule)
	}
	reg.Add(rule)
	return rule
}
