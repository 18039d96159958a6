package mock

import (
	"reflect"

	"github.com/fwojciec/webpo"
)

var (
	_ webpo.URLMatcher   = (*URLMatcher)(nil)
	_ webpo.RuleRegistry = (*RuleRegistry)(nil)
)

// URLMatcher is a mock implementation of webpo.URLMatcher.
type URLMatcher struct {
	MatchFn func(url string, patterns webpo.Patterns) bool
}

func (m *URLMatcher) Match(url string, patterns webpo.Patterns) bool {
	return m.MatchFn(url, patterns)
}

// RuleRegistry is a mock implementation of webpo.RuleRegistry.
type RuleRegistry struct {
	AddFn               func(rule webpo.Rule)
	RulesFn             func() []webpo.Rule
	FindFn              func(filters ...webpo.RuleFilter) []webpo.Rule
	ReplacementsForFn   func(url string) map[reflect.Type]reflect.Type
	TopRulesForFn       func(url string, result reflect.Type) []webpo.Rule
	ImplementationForFn func(url string, result reflect.Type) reflect.Type
}

func (r *RuleRegistry) Add(rule webpo.Rule) {
	r.AddFn(rule)
}

func (r *RuleRegistry) Rules() []webpo.Rule {
	return r.RulesFn()
}

func (r *RuleRegistry) Find(filters ...webpo.RuleFilter) []webpo.Rule {
	return r.FindFn(filters...)
}

func (r *RuleRegistry) ReplacementsFor(url string) map[reflect.Type]reflect.Type {
	return r.ReplacementsForFn(url)
}

func (r *RuleRegistry) TopRulesFor(url string, result reflect.Type) []webpo.Rule {
	return r.TopRulesForFn(url, result)
}

func (r *RuleRegistry) ImplementationFor(url string, result reflect.Type) reflect.Type {
	return r.ImplementationForFn(url, result)
}
