package webpo

import "reflect"

// URLMatcher tests URLs against rule patterns.
// Pattern syntax is defined by the implementation.
type URLMatcher interface {
	// Match reports whether url is included by patterns and not excluded.
	Match(url string, patterns Patterns) bool
}

// RuleFilter selects rules in RuleRegistry.Find.
type RuleFilter func(Rule) bool

// RuleRegistry stores rules in registration order and resolves which
// Page Object implementation serves a URL. None of its methods fail:
// an empty result means no rule applies.
type RuleRegistry interface {
	// Add registers a rule. Registering a rule whose patterns and produced
	// item type equal an existing rule logs a conflict warning; the rule is
	// still added.
	Add(rule Rule)

	// Rules returns a copy of all rules in registration order.
	Rules() []Rule

	// Find returns the rules satisfying every filter.
	Find(filters ...RuleFilter) []Rule

	// ReplacementsFor maps each replaced implementation to the
	// implementation used instead of it for url. Among matching rules
	// replacing the same type, the highest priority wins and ties go to
	// the most recently registered rule.
	ReplacementsFor(url string) map[reflect.Type]reflect.Type

	// TopRulesFor returns the highest-priority rules matching url that
	// produce result or declare no item type. A nil result applies no
	// item type constraint. More than one rule means an unresolved tie.
	TopRulesFor(url string, result reflect.Type) []Rule

	// ImplementationFor collapses TopRulesFor to a single implementation,
	// breaking ties in favour of the most recently registered rule.
	// Returns nil when no rule applies.
	ImplementationFor(url string, result reflect.Type) reflect.Type
}
