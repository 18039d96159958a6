package webpo

import "reflect"

// UnknownFieldAction controls what assembly does with selected field names
// that the Page Object does not declare.
type UnknownFieldAction string

// Unknown field actions. The zero value behaves like UnknownFieldRaise.
const (
	UnknownFieldIgnore UnknownFieldAction = "ignore"
	UnknownFieldWarn   UnknownFieldAction = "warn"
	UnknownFieldRaise  UnknownFieldAction = "raise"
)

// Validate returns EINVALID if the action is not recognized.
func (a UnknownFieldAction) Validate() error {
	switch a {
	case "", UnknownFieldIgnore, UnknownFieldWarn, UnknownFieldRaise:
		return nil
	}
	return Errorf(EINVALID, "on_unknown_field must be one of %q, %q or %q, got %q",
		UnknownFieldIgnore, UnknownFieldWarn, UnknownFieldRaise, string(a))
}

// SelectionPolicy selects which fields go into an assembled item.
type SelectionPolicy struct {
	// Include limits assembly to these fields. Nil means all enabled fields.
	Include []string

	// Exclude removes fields after Include is applied.
	Exclude []string

	// OnUnknownField handles Include/Exclude names the page does not declare.
	OnUnknownField UnknownFieldAction

	// SwapResultType, if set, replaces the requested item type.
	SwapResultType reflect.Type

	// SkipNonItemFields drops field values the item type has no attribute
	// for instead of failing construction.
	SkipNonItemFields bool
}

// SelectFields returns a policy including only the given fields.
// Unknown names are reported as errors.
func SelectFields(include ...string) SelectionPolicy {
	if include == nil {
		include = []string{}
	}
	return SelectionPolicy{Include: include, OnUnknownField: UnknownFieldRaise}
}
