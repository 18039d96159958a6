// Package fields declares, evaluates and assembles Page Object fields.
//
// A Page Object is a struct embedding State. Its fields are declared once
// per type with Define, usually in a package-level variable:
//
//	var bookSchema = fields.MustDefine[*BookPage](
//		fields.Returns[Book](),
//		fields.Fields(
//			fields.Sync("name", (*BookPage).Name),
//			fields.Field("price", (*BookPage).Price, fields.Cached()),
//		),
//	)
//
// Values are computed on first access through Get, cached per instance when
// the declaration is Cached, and assembled into items with Assemble or ToItem.
package fields

import (
	"context"
	"maps"
	"reflect"
	"slices"
	"strconv"
	"sync/atomic"
)

// Processor transforms a computed field value before it is cached or returned.
type Processor func(value any) (any, error)

// Declaration describes one field of a Page Object type.
// Declarations are immutable once passed to Define.
type Declaration struct {
	Name       string
	Meta       map[string]any
	Processors []Processor
	Cached     bool
	Disabled   bool

	// Async is set for fields whose computation takes a context and may
	// block. Assembly evaluates async fields concurrently.
	Async bool

	page    reflect.Type
	compute func(ctx context.Context, page any) (any, error)
	key     string
}

var declarationSeq atomic.Uint64

// Option configures a Declaration.
type Option func(*Declaration)

// Cached computes the field at most once per instance.
func Cached() Option {
	return func(d *Declaration) {
		d.Cached = true
	}
}

// Disabled leaves the field out of assembled items. It remains
// accessible through Get.
func Disabled() Option {
	return func(d *Declaration) {
		d.Disabled = true
	}
}

// WithMeta attaches metadata to the field.
func WithMeta(meta map[string]any) Option {
	return func(d *Declaration) {
		d.Meta = maps.Clone(meta)
	}
}

// Out appends processors applied in order to the computed value.
func Out(processors ...Processor) Option {
	return func(d *Declaration) {
		d.Processors = append(d.Processors, processors...)
	}
}

// Field declares a field computed by fn, typically a method expression such
// as (*BookPage).Price with signature func(*BookPage, context.Context) (V, error).
func Field[P any, V any](name string, fn func(P, context.Context) (V, error), opts ...Option) *Declaration {
	d := newDeclaration[P](name, opts)
	d.Async = true
	if fn != nil {
		d.compute = func(ctx context.Context, page any) (any, error) {
			return fn(page.(P), ctx)
		}
	}
	return d
}

// Sync declares a field computed by fn without blocking, typically a method
// expression such as (*BookPage).Name with signature func(*BookPage) (V, error).
func Sync[P any, V any](name string, fn func(P) (V, error), opts ...Option) *Declaration {
	d := newDeclaration[P](name, opts)
	if fn != nil {
		d.compute = func(_ context.Context, page any) (any, error) {
			return fn(page.(P))
		}
	}
	return d
}

func newDeclaration[P any](name string, opts []Option) *Declaration {
	d := &Declaration{
		Name: name,
		page: reflect.TypeFor[P](),
		key:  strconv.FormatUint(declarationSeq.Add(1), 10),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.Processors = slices.Clip(d.Processors)
	return d
}

// clone returns a copy of d that shares its computation and cache key.
func (d *Declaration) clone() *Declaration {
	c := *d
	c.Meta = maps.Clone(d.Meta)
	c.Processors = slices.Clone(d.Processors)
	return &c
}

// process runs the processor pipeline over v.
func (d *Declaration) process(v any) (any, error) {
	var err error
	for _, p := range d.Processors {
		if v, err = p(v); err != nil {
			return nil, err
		}
	}
	return v, nil
}
