package fields

import (
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/fwojciec/webpo"
)

// Build constructs an item of type t from values, setting the named
// attributes in names order.
//
// t may be a map with string keys, a struct, or a pointer to a struct.
// Struct attributes are named by an `item:"name"` tag, else a json tag,
// else the snake_case form of the Go field name; `item:"-"` skips a field.
// Attributes are required unless tagged optional (or json omitempty).
//
// Returns ECONSTRUCT for missing required attributes, unassignable values,
// and values without an attribute unless skipUnknown is set.
func Build(t reflect.Type, names []string, values map[string]any, skipUnknown bool) (any, error) {
	switch {
	case t.Kind() == reflect.Map && t.Key().Kind() == reflect.String:
		return buildMap(t, names, values)
	case t.Kind() == reflect.Struct:
		v, err := buildStruct(t, names, values, skipUnknown)
		if err != nil {
			return nil, err
		}
		return v.Elem().Interface(), nil
	case t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct:
		v, err := buildStruct(t.Elem(), names, values, skipUnknown)
		if err != nil {
			return nil, err
		}
		return v.Interface(), nil
	}
	return nil, webpo.Errorf(webpo.ECONSTRUCT, "cannot build item of kind %s (%s)", t.Kind(), webpo.TypeName(t))
}

func buildMap(t reflect.Type, names []string, values map[string]any) (any, error) {
	m := reflect.MakeMapWithSize(t, len(names))
	for _, name := range names {
		v, err := assignable(values[name], t.Elem(), name, t)
		if err != nil {
			return nil, err
		}
		m.SetMapIndex(reflect.ValueOf(name).Convert(t.Key()), v)
	}
	return m.Interface(), nil
}

func buildStruct(t reflect.Type, names []string, values map[string]any, skipUnknown bool) (reflect.Value, error) {
	attrs := attributesOf(t)
	ptr := reflect.New(t)
	set := make(map[string]bool, len(names))
	for _, name := range names {
		a, ok := attrs.byName[name]
		if !ok {
			if skipUnknown {
				continue
			}
			return reflect.Value{}, webpo.Errorf(webpo.ECONSTRUCT, "unexpected attribute %q for %s", name, webpo.TypeName(t))
		}
		v, err := assignable(values[name], a.typ, name, t)
		if err != nil {
			return reflect.Value{}, err
		}
		ptr.Elem().FieldByIndex(a.index).Set(v)
		set[name] = true
	}
	for _, a := range attrs.list {
		if !a.optional && !set[a.name] {
			return reflect.Value{}, webpo.Errorf(webpo.ECONSTRUCT, "missing required attribute %q for %s", a.name, webpo.TypeName(t))
		}
	}
	return ptr, nil
}

func assignable(value any, to reflect.Type, name string, item reflect.Type) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(to), nil
	}
	v := reflect.ValueOf(value)
	if !v.Type().AssignableTo(to) {
		return reflect.Value{}, webpo.Errorf(webpo.ECONSTRUCT, "attribute %q for %s: cannot use %s as %s",
			name, webpo.TypeName(item), v.Type(), to)
	}
	return v, nil
}

type attribute struct {
	name     string
	index    []int
	typ      reflect.Type
	optional bool
}

type attributes struct {
	list   []attribute
	byName map[string]attribute
}

var attributeCache sync.Map // reflect.Type -> *attributes

func attributesOf(t reflect.Type) *attributes {
	if v, ok := attributeCache.Load(t); ok {
		return v.(*attributes)
	}
	attrs := &attributes{byName: make(map[string]attribute)}
	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() || f.Anonymous || throughPointer(t, f.Index) {
			continue
		}
		name, optional, ok := attributeName(f)
		if !ok {
			continue
		}
		a := attribute{name: name, index: f.Index, typ: f.Type, optional: optional}
		attrs.list = append(attrs.list, a)
		attrs.byName[name] = a
	}
	v, _ := attributeCache.LoadOrStore(t, attrs)
	return v.(*attributes)
}

// throughPointer reports whether the promoted field at index is reached
// through an embedded pointer, which New leaves nil.
func throughPointer(t reflect.Type, index []int) bool {
	for _, i := range index[:len(index)-1] {
		f := t.Field(i)
		if f.Type.Kind() == reflect.Pointer {
			return true
		}
		t = f.Type
	}
	return false
}

func attributeName(f reflect.StructField) (name string, optional bool, ok bool) {
	if tag, found := f.Tag.Lookup("item"); found {
		name, opts, _ := strings.Cut(tag, ",")
		if name == "-" {
			return "", false, false
		}
		if name == "" {
			name = snakeCase(f.Name)
		}
		return name, hasOption(opts, "optional"), true
	}
	if tag, found := f.Tag.Lookup("json"); found {
		name, opts, _ := strings.Cut(tag, ",")
		if name == "-" {
			return "", false, false
		}
		if name == "" {
			name = snakeCase(f.Name)
		}
		return name, hasOption(opts, "omitempty"), true
	}
	return snakeCase(f.Name), false, true
}

func hasOption(opts, want string) bool {
	for opts != "" {
		var opt string
		opt, opts, _ = strings.Cut(opts, ",")
		if opt == want {
			return true
		}
	}
	return false
}

// snakeCase converts a Go identifier such as ImageURL to image_url.
func snakeCase(s string) string {
	runes := []rune(s)
	var sb strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					sb.WriteByte('_')
				}
			}
			sb.WriteRune(unicode.ToLower(r))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
