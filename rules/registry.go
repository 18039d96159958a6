// Package rules provides the default webpo.RuleRegistry.
package rules

import (
	"log/slog"
	"reflect"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/fwojciec/webpo"
)

var _ webpo.RuleRegistry = (*Registry)(nil)

// Registry stores rules in registration order and resolves implementations
// for URLs. The rule list is copy-on-write: Add calls are serialized while
// reads work on an immutable snapshot and never block.
type Registry struct {
	matcher webpo.URLMatcher
	logger  *slog.Logger

	mu    sync.Mutex // serializes Add
	rules atomic.Pointer[[]webpo.Rule]
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for conflict warnings.
// Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry creates an empty Registry matching URLs with matcher.
func NewRegistry(matcher webpo.URLMatcher, opts ...Option) *Registry {
	r := &Registry{matcher: matcher}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	r.rules.Store(&[]webpo.Rule{})
	return r
}

// NewRegistryFromRules creates a Registry and adds rules in order.
func NewRegistryFromRules(matcher webpo.URLMatcher, rules []webpo.Rule, opts ...Option) *Registry {
	r := NewRegistry(matcher, opts...)
	for _, rule := range rules {
		r.Add(rule)
	}
	return r
}

func (r *Registry) snapshot() []webpo.Rule {
	return *r.rules.Load()
}

// Add appends a copy of rule. If an existing rule has the same patterns and
// produced item type, a single "conflicting rules" warning is logged.
func (r *Registry) Add(rule webpo.Rule) {
	rule = rule.Clone()

	r.mu.Lock()
	defer r.mu.Unlock()

	current := r.snapshot()
	for _, existing := range current {
		if existing.Produces == rule.Produces && existing.Patterns.Equal(rule.Patterns) {
			r.logger.Warn("conflicting rules",
				"patterns", rule.Patterns.String(),
				"produces", webpo.TypeName(rule.Produces),
				"existing", webpo.TypeName(existing.Use),
				"added", webpo.TypeName(rule.Use),
			)
			break
		}
	}

	next := make([]webpo.Rule, len(current), len(current)+1)
	copy(next, current)
	next = append(next, rule)
	r.rules.Store(&next)
}

// Rules returns a copy of all rules in registration order.
func (r *Registry) Rules() []webpo.Rule {
	current := r.snapshot()
	out := make([]webpo.Rule, len(current))
	for i, rule := range current {
		out[i] = rule.Clone()
	}
	return out
}

// Find returns copies of the rules satisfying every filter,
// in registration order. With no filters it returns all rules.
func (r *Registry) Find(filters ...webpo.RuleFilter) []webpo.Rule {
	var out []webpo.Rule
	for _, rule := range r.snapshot() {
		if matchesAll(rule, filters) {
			out = append(out, rule.Clone())
		}
	}
	return out
}

func matchesAll(rule webpo.Rule, filters []webpo.RuleFilter) bool {
	for _, f := range filters {
		if !f(rule) {
			return false
		}
	}
	return true
}

// ReplacementsFor maps each replaced implementation to the implementation
// used instead of it for url. Rules without Replaces are ignored. Higher
// priority wins; on equal priority the most recently registered rule wins.
func (r *Registry) ReplacementsFor(url string) map[reflect.Type]reflect.Type {
	best := make(map[reflect.Type]webpo.Rule)
	for _, rule := range r.snapshot() {
		if rule.Replaces == nil || !r.matcher.Match(url, rule.Patterns) {
			continue
		}
		if cur, ok := best[rule.Replaces]; ok && cur.Patterns.Priority > rule.Patterns.Priority {
			continue
		}
		best[rule.Replaces] = rule
	}

	out := make(map[reflect.Type]reflect.Type, len(best))
	for replaced, rule := range best {
		out[replaced] = rule.Use
	}
	return out
}

// TopRulesFor returns the matching rules at the highest priority that
// produce result or declare no item type, in registration order.
func (r *Registry) TopRulesFor(url string, result reflect.Type) []webpo.Rule {
	var top []webpo.Rule
	var maxPriority int
	for _, rule := range r.snapshot() {
		if result != nil && rule.Produces != nil && rule.Produces != result {
			continue
		}
		if !r.matcher.Match(url, rule.Patterns) {
			continue
		}
		switch p := rule.Patterns.Priority; {
		case len(top) == 0 || p > maxPriority:
			top = []webpo.Rule{rule.Clone()}
			maxPriority = p
		case p == maxPriority:
			top = append(top, rule.Clone())
		}
	}
	return top
}

// ImplementationFor returns the implementation to use for url and result.
// When several rules tie at the top priority, the most recently registered
// one wins, matching the tie-break of ReplacementsFor.
func (r *Registry) ImplementationFor(url string, result reflect.Type) reflect.Type {
	top := r.TopRulesFor(url, result)
	if len(top) == 0 {
		return nil
	}
	return top[len(top)-1].Use
}

// ByUse selects rules using t.
func ByUse(t reflect.Type) webpo.RuleFilter {
	return func(r webpo.Rule) bool { return r.Use == t }
}

// ByReplaces selects rules replacing t. ByReplaces(nil) selects rules
// that replace nothing.
func ByReplaces(t reflect.Type) webpo.RuleFilter {
	return func(r webpo.Rule) bool { return r.Replaces == t }
}

// ByProduces selects rules producing t. ByProduces(nil) selects rules
// that declare no item type.
func ByProduces(t reflect.Type) webpo.RuleFilter {
	return func(r webpo.Rule) bool { return r.Produces == t }
}

// ByPatterns selects rules whose patterns equal p.
func ByPatterns(p webpo.Patterns) webpo.RuleFilter {
	return func(r webpo.Rule) bool { return r.Patterns.Equal(p) }
}

// ByMeta selects rules whose meta value for key equals value.
func ByMeta(key string, value any) webpo.RuleFilter {
	return func(r webpo.Rule) bool {
		v, ok := r.Meta[key]
		return ok && reflect.DeepEqual(v, value)
	}
}

// Types returns the distinct Use types of rules in first-seen order.
func Types(rules []webpo.Rule) []reflect.Type {
	var out []reflect.Type
	for _, rule := range rules {
		if !slices.Contains(out, rule.Use) {
			out = append(out, rule.Use)
		}
	}
	return out
}
