package fields

import (
	"context"
	"fmt"
	"reflect"

	"github.com/fwojciec/webpo"
)

// Get returns the value of field name on page, computing it if needed.
// Input validation runs first when page implements InputValidator.
// Returns EUNKNOWNFIELD if the field is not declared.
func Get(ctx context.Context, page Page, name string) (any, error) {
	s, err := SchemaFor(page)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, page, name)
}

// GetAs is like Get but asserts the value's type.
// Returns EINVALID if the value is not a V.
func GetAs[V any](ctx context.Context, page Page, name string) (V, error) {
	var zero V
	v, err := Get(ctx, page, name)
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	typed, ok := v.(V)
	if !ok {
		return zero, webpo.Errorf(webpo.EINVALID, "field %q of %s is %T, not %s",
			name, webpo.TypeName(reflect.TypeOf(page)), v, reflect.TypeFor[V]())
	}
	return typed, nil
}

// Get returns the value of field name on page, which must be of the
// schema's type.
func (s *Schema) Get(ctx context.Context, page Page, name string) (any, error) {
	if t := reflect.TypeOf(page); t != s.typ {
		return nil, webpo.Errorf(webpo.EINVALID, "%s is not a %s", webpo.TypeName(t), webpo.TypeName(s.typ))
	}
	e, ok := s.lookup(name)
	if !ok {
		return nil, webpo.Errorf(webpo.EUNKNOWNFIELD, "field %q is not declared on %s", name, webpo.TypeName(s.typ))
	}
	if err := page.FieldState().validate(ctx, page); err != nil {
		return nil, err
	}
	return s.evaluate(ctx, page, e)
}

// evaluate computes e on page, through the instance cache when the field
// is cached. Processors run before the value is cached. A panicking
// computation or processor fails with EINTERNAL.
func (s *Schema) evaluate(ctx context.Context, page Page, e entry) (any, error) {
	run := func(ctx context.Context) (_ any, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = webpo.Errorf(webpo.EINTERNAL, "field %q of %s panicked: %v", e.decl.Name, webpo.TypeName(s.typ), r)
			}
		}()
		v, err := e.decl.compute(ctx, e.view(page))
		if err != nil {
			return nil, fmt.Errorf("field %q of %s: %w", e.decl.Name, webpo.TypeName(s.typ), err)
		}
		v, err = e.decl.process(v)
		if err != nil {
			return nil, fmt.Errorf("field %q of %s: process: %w", e.decl.Name, webpo.TypeName(s.typ), err)
		}
		return v, nil
	}
	if !e.decl.Cached {
		return run(ctx)
	}
	return page.FieldState().once(ctx, e.decl.key, e.decl.Async, run)
}
