package fields

import (
	"reflect"
	"sync"

	"github.com/fwojciec/webpo"
)

// Page is implemented by Page Object types, usually by embedding State.
// It marks a type as constructible by a dependency injection collaborator.
type Page interface {
	FieldState() *State
}

var pageType = reflect.TypeFor[Page]()

// IsPage reports whether values of type t are Page Objects.
func IsPage(t reflect.Type) bool {
	return t != nil && t.Implements(pageType)
}

var schemas sync.Map // reflect.Type -> *Schema

// Lookup returns the schema defined for Page type t.
func Lookup(t reflect.Type) (*Schema, bool) {
	v, ok := schemas.Load(t)
	if !ok {
		return nil, false
	}
	return v.(*Schema), true
}

// SchemaFor returns the schema of page's dynamic type.
// Returns ENOTFOUND if no schema was defined for it.
func SchemaFor(page Page) (*Schema, error) {
	t := reflect.TypeOf(page)
	s, ok := Lookup(t)
	if !ok {
		return nil, webpo.Errorf(webpo.ENOTFOUND, "no fields defined for %s", webpo.TypeName(t))
	}
	return s, nil
}

// Schema is the ordered set of field declarations of one Page type,
// merged with the declarations of the types it extends.
type Schema struct {
	typ     reflect.Type
	result  reflect.Type
	parents []parent
	own     []*Declaration

	once    sync.Once
	entries []entry
	index   map[string]int
}

// parent is an extended schema and the function that maps an instance of
// the extending type to the instance the parent's fields compute on.
type parent struct {
	schema *Schema
	view   func(any) any
}

// entry is a merged declaration plus the view giving its computation the
// page value it was declared for.
type entry struct {
	decl *Declaration
	view func(any) any
}

func identity(v any) any { return v }

// SchemaOption configures a Schema in Define.
type SchemaOption func(*Schema) error

// Fields adds declarations in source order.
func Fields(decls ...*Declaration) SchemaOption {
	return func(s *Schema) error {
		for _, d := range decls {
			if err := s.declare(d); err != nil {
				return err
			}
		}
		return nil
	}
}

// Returns sets the item type produced by the schema's pages.
// Without it the item type is inherited from the first extended schema
// that has one.
func Returns[I any]() SchemaOption {
	return func(s *Schema) error {
		s.result = reflect.TypeFor[I]()
		return nil
	}
}

// Extends merges parent's fields into the schema. view returns the
// embedded parent page within an instance of the extending type, e.g.
//
//	fields.Extends(bookSchema, func(p *CustomBookPage) *BookPage { return &p.BookPage })
//
// Parents are merged in the order they are given, before the type's own
// fields.
func Extends[C any, P any](parentSchema *Schema, view func(C) P) SchemaOption {
	return func(s *Schema) error {
		if parentSchema == nil || view == nil {
			return webpo.Errorf(webpo.EINVALID, "%s extends a nil schema", webpo.TypeName(s.typ))
		}
		if t := reflect.TypeFor[C](); t != s.typ {
			return webpo.Errorf(webpo.EINVALID, "%s extends %s with a view from %s",
				webpo.TypeName(s.typ), webpo.TypeName(parentSchema.typ), webpo.TypeName(t))
		}
		if t := reflect.TypeFor[P](); t != parentSchema.typ {
			return webpo.Errorf(webpo.EINVALID, "%s extends %s with a view to %s",
				webpo.TypeName(s.typ), webpo.TypeName(parentSchema.typ), webpo.TypeName(t))
		}
		s.parents = append(s.parents, parent{
			schema: parentSchema,
			view:   func(v any) any { return view(v.(C)) },
		})
		return nil
	}
}

// Define creates and registers the schema for Page type P.
// It returns EINVALID for configuration errors: empty or duplicate field
// names, fields without a computation, fields or views bound to another
// type, or a schema already defined for P.
func Define[P Page](opts ...SchemaOption) (*Schema, error) {
	s := &Schema{typ: reflect.TypeFor[P]()}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	if s.result == nil {
		for _, p := range s.parents {
			if p.schema.result != nil {
				s.result = p.schema.result
				break
			}
		}
	}
	if _, loaded := schemas.LoadOrStore(s.typ, s); loaded {
		return nil, webpo.Errorf(webpo.EINVALID, "fields already defined for %s", webpo.TypeName(s.typ))
	}
	return s, nil
}

// MustDefine is like Define but panics on error.
// It simplifies initialization of package-level schema variables.
func MustDefine[P Page](opts ...SchemaOption) *Schema {
	s, err := Define[P](opts...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) declare(d *Declaration) error {
	switch {
	case d == nil:
		return webpo.Errorf(webpo.EINVALID, "nil field declaration on %s", webpo.TypeName(s.typ))
	case d.Name == "":
		return webpo.Errorf(webpo.EINVALID, "field without a name on %s", webpo.TypeName(s.typ))
	case d.compute == nil:
		return webpo.Errorf(webpo.EINVALID, "field %q on %s has no computation", d.Name, webpo.TypeName(s.typ))
	case d.page != s.typ:
		return webpo.Errorf(webpo.EINVALID, "field %q is declared for %s, not %s",
			d.Name, webpo.TypeName(d.page), webpo.TypeName(s.typ))
	}
	for _, existing := range s.own {
		if existing.Name == d.Name {
			return webpo.Errorf(webpo.EINVALID, "field %q declared twice on %s", d.Name, webpo.TypeName(s.typ))
		}
	}
	s.own = append(s.own, d)
	return nil
}

// merged returns the merged entries, building them on first use.
// A name inherited from a parent keeps its position when redefined;
// new names are appended.
func (s *Schema) merged() []entry {
	s.once.Do(func() {
		s.index = make(map[string]int)
		add := func(e entry) {
			if i, ok := s.index[e.decl.Name]; ok {
				s.entries[i] = e
				return
			}
			s.index[e.decl.Name] = len(s.entries)
			s.entries = append(s.entries, e)
		}
		for _, p := range s.parents {
			for _, e := range p.schema.merged() {
				pview, eview := p.view, e.view
				add(entry{decl: e.decl, view: func(v any) any { return eview(pview(v)) }})
			}
		}
		for _, d := range s.own {
			add(entry{decl: d, view: identity})
		}
	})
	return s.entries
}

func (s *Schema) lookup(name string) (entry, bool) {
	entries := s.merged()
	i, ok := s.index[name]
	if !ok {
		return entry{}, false
	}
	return entries[i], true
}

// Type returns the Page type the schema describes.
func (s *Schema) Type() reflect.Type {
	return s.typ
}

// ResultType returns the item type declared with Returns, or nil.
func (s *Schema) ResultType() reflect.Type {
	return s.result
}

// Names returns field names in merged order. Disabled fields are
// included only when includeDisabled is true.
func (s *Schema) Names(includeDisabled bool) []string {
	var names []string
	for _, e := range s.merged() {
		if includeDisabled || !e.decl.Disabled {
			names = append(names, e.decl.Name)
		}
	}
	return names
}

// Declarations returns copies of the field declarations in merged order.
// Disabled fields are included only when includeDisabled is true.
func (s *Schema) Declarations(includeDisabled bool) []*Declaration {
	var decls []*Declaration
	for _, e := range s.merged() {
		if includeDisabled || !e.decl.Disabled {
			decls = append(decls, e.decl.clone())
		}
	}
	return decls
}

// Declaration returns a copy of the effective declaration of name,
// including disabled fields.
func (s *Schema) Declaration(name string) (*Declaration, bool) {
	e, ok := s.lookup(name)
	if !ok {
		return nil, false
	}
	return e.decl.clone(), true
}
