package fields

import (
	"context"
	"log/slog"
	"reflect"
	"slices"

	"github.com/fwojciec/webpo"
	"golang.org/x/sync/errgroup"
)

// Assembler builds items from Page Object fields.
// The zero value logs warnings to slog.Default().
type Assembler struct {
	Logger *slog.Logger
}

var defaultAssembler = &Assembler{}

// Assemble builds an item from page's fields using the default Assembler.
func Assemble(ctx context.Context, page Page, result reflect.Type, policy webpo.SelectionPolicy) (any, error) {
	return defaultAssembler.Assemble(ctx, page, result, policy)
}

// AssembleAs is like Assemble with the item type given as I.
// policy.SwapResultType must be unset or I.
func AssembleAs[I any](ctx context.Context, page Page, policy webpo.SelectionPolicy) (I, error) {
	var zero I
	v, err := Assemble(ctx, page, reflect.TypeFor[I](), policy)
	if err != nil {
		return zero, err
	}
	item, ok := v.(I)
	if !ok {
		return zero, webpo.Errorf(webpo.EINVALID, "assembled %T, not %s", v, reflect.TypeFor[I]())
	}
	return item, nil
}

// ToItem returns page's item. Pages implementing ItemBuilder build it
// themselves after input validation; all other pages get every enabled
// field assembled into the item type of their schema.
func ToItem(ctx context.Context, page Page) (any, error) {
	if b, ok := page.(ItemBuilder); ok {
		if err := page.FieldState().validate(ctx, page); err != nil {
			return nil, err
		}
		return b.ToItem(ctx)
	}
	return Assemble(ctx, page, nil, webpo.SelectionPolicy{})
}

// Assemble builds an item of type result from page's fields. A nil result
// uses the schema's item type; policy.SwapResultType overrides both.
//
// Field names are the enabled fields in schema order, limited by
// policy.Include and reduced by policy.Exclude. Names in either list that
// the page does not declare are ignored, logged or reported as
// EUNKNOWNFIELD according to policy.OnUnknownField. Synchronous fields are
// evaluated in order on the calling goroutine; async fields concurrently.
func (a *Assembler) Assemble(ctx context.Context, page Page, result reflect.Type, policy webpo.SelectionPolicy) (any, error) {
	if err := policy.OnUnknownField.Validate(); err != nil {
		return nil, err
	}
	s, err := SchemaFor(page)
	if err != nil {
		return nil, err
	}
	if err := page.FieldState().validate(ctx, page); err != nil {
		return nil, err
	}

	names, err := a.selectNames(s, policy)
	if err != nil {
		return nil, err
	}
	values, err := s.evaluateAll(ctx, page, names)
	if err != nil {
		return nil, err
	}

	target := result
	if policy.SwapResultType != nil {
		target = policy.SwapResultType
	}
	if target == nil {
		target = s.result
	}
	if target == nil {
		return nil, webpo.Errorf(webpo.EINVALID, "no item type for %s", webpo.TypeName(s.typ))
	}
	return Build(target, names, values, policy.SkipNonItemFields)
}

func (a *Assembler) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}

// selectNames applies policy to s and handles unknown names.
func (a *Assembler) selectNames(s *Schema, policy webpo.SelectionPolicy) ([]string, error) {
	var unknown []string
	for _, name := range slices.Concat(policy.Include, policy.Exclude) {
		if _, ok := s.lookup(name); !ok && !slices.Contains(unknown, name) {
			unknown = append(unknown, name)
		}
	}
	for _, name := range unknown {
		switch policy.OnUnknownField {
		case webpo.UnknownFieldIgnore:
		case webpo.UnknownFieldWarn:
			a.logger().Warn("unknown field",
				"field", name,
				"type", webpo.TypeName(s.typ),
			)
		default:
			return nil, webpo.Errorf(webpo.EUNKNOWNFIELD, "unknown field %q for %s", name, webpo.TypeName(s.typ))
		}
	}

	names := s.Names(false)
	if policy.Include != nil {
		names = slices.DeleteFunc(names, func(n string) bool { return !slices.Contains(policy.Include, n) })
	}
	if policy.Exclude != nil {
		names = slices.DeleteFunc(names, func(n string) bool { return slices.Contains(policy.Exclude, n) })
	}
	return names, nil
}

// evaluateAll computes names on page and returns their values by name.
func (s *Schema) evaluateAll(ctx context.Context, page Page, names []string) (map[string]any, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	vals := make([]any, len(names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		e, _ := s.lookup(name)
		if !e.decl.Async {
			v, err := s.evaluate(ctx, page, e)
			if err != nil {
				cancel()
				_ = g.Wait()
				return nil, err
			}
			vals[i] = v
			continue
		}
		g.Go(func() error {
			v, err := s.evaluate(gctx, page, e)
			if err != nil {
				return err
			}
			vals[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	values := make(map[string]any, len(names))
	for i, name := range names {
		values[name] = vals[i]
	}
	return values, nil
}
