package webpo

import (
	"maps"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// DefaultPriority is the priority of patterns that don't set one.
const DefaultPriority = 500

// Patterns selects the URLs a rule applies to.
// An empty Include list matches every URL. Exclude is applied after Include.
type Patterns struct {
	Include  []string
	Exclude  []string
	Priority int
}

// NewPatterns returns Patterns including the given URL patterns
// with DefaultPriority.
func NewPatterns(include ...string) Patterns {
	return Patterns{
		Include:  slices.Clone(include),
		Priority: DefaultPriority,
	}
}

// WithExclude returns a copy of p excluding the given URL patterns.
func (p Patterns) WithExclude(exclude ...string) Patterns {
	p = p.Clone()
	p.Exclude = slices.Clone(exclude)
	return p
}

// WithPriority returns a copy of p with its priority set.
func (p Patterns) WithPriority(priority int) Patterns {
	p = p.Clone()
	p.Priority = priority
	return p
}

// Equal reports whether both pattern sets are element-wise identical.
func (p Patterns) Equal(o Patterns) bool {
	return p.Priority == o.Priority &&
		slices.Equal(p.Include, o.Include) &&
		slices.Equal(p.Exclude, o.Exclude)
}

// Clone returns a deep copy of p.
func (p Patterns) Clone() Patterns {
	return Patterns{
		Include:  slices.Clone(p.Include),
		Exclude:  slices.Clone(p.Exclude),
		Priority: p.Priority,
	}
}

// String returns a compact representation used in logs.
func (p Patterns) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	sb.WriteString(strings.Join(p.Include, " "))
	if len(p.Exclude) > 0 {
		sb.WriteString(" !")
		sb.WriteString(strings.Join(p.Exclude, " !"))
	}
	sb.WriteString("]@")
	sb.WriteString(strconv.Itoa(p.Priority))
	return sb.String()
}

// Rule states that a Page Object implementation applies to URLs matching
// Patterns, optionally in place of another implementation and optionally
// producing a specific item type.
//
// Identity (Equal, Hash) covers Patterns, Use, Replaces and Produces.
// Meta never participates.
type Rule struct {
	Patterns Patterns
	Use      reflect.Type
	Replaces reflect.Type // nil when the rule only declares capability
	Produces reflect.Type // nil when the rule produces any item type
	Meta     map[string]any
}

// TypeOf returns the type handle used for Rule.Use, Rule.Replaces and
// Rule.Produces.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}

// Equal reports whether two rules have the same identity.
func (r Rule) Equal(o Rule) bool {
	return r.Patterns.Equal(o.Patterns) &&
		r.Use == o.Use &&
		r.Replaces == o.Replaces &&
		r.Produces == o.Produces
}

// Hash returns a hash of the rule identity. Rules that are Equal have equal hashes.
func (r Rule) Hash() uint64 {
	d := xxhash.New()
	for _, s := range r.Patterns.Include {
		_, _ = d.WriteString(s)
		_, _ = d.Write([]byte{0})
	}
	_, _ = d.Write([]byte{1})
	for _, s := range r.Patterns.Exclude {
		_, _ = d.WriteString(s)
		_, _ = d.Write([]byte{0})
	}
	_, _ = d.Write([]byte{1})
	_, _ = d.WriteString(strconv.Itoa(r.Patterns.Priority))
	for _, t := range []reflect.Type{r.Use, r.Replaces, r.Produces} {
		_, _ = d.Write([]byte{1})
		_, _ = d.WriteString(TypeName(t))
	}
	return d.Sum64()
}

// Clone returns a deep copy of the rule.
func (r Rule) Clone() Rule {
	r.Patterns = r.Patterns.Clone()
	r.Meta = maps.Clone(r.Meta)
	return r
}

// String returns a compact representation used in logs.
func (r Rule) String() string {
	var sb strings.Builder
	sb.WriteString(r.Patterns.String())
	sb.WriteString(" use=")
	sb.WriteString(TypeName(r.Use))
	if r.Replaces != nil {
		sb.WriteString(" instead_of=")
		sb.WriteString(TypeName(r.Replaces))
	}
	if r.Produces != nil {
		sb.WriteString(" to_return=")
		sb.WriteString(TypeName(r.Produces))
	}
	return sb.String()
}

// TypeName returns a package-qualified name for t, or "" for nil.
func TypeName(t reflect.Type) string {
	if t == nil {
		return ""
	}
	if t.Kind() == reflect.Pointer && t.Name() == "" {
		return "*" + TypeName(t.Elem())
	}
	if t.Name() != "" && t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}
