package pages

import (
	"reflect"
	"slices"

	"github.com/fwojciec/webpo"
	"github.com/fwojciec/webpo/fields"
	"github.com/fwojciec/webpo/rules"
)

// GenericPriority is the priority of the built-in catch-all rules, below
// webpo.DefaultPriority so that site-specific rules take precedence.
const GenericPriority = 100

// Register installs rules for the built-in pages on every URL.
func Register(reg webpo.RuleRegistry) {
	rules.Handle[*MetadataPage](reg, webpo.NewPatterns().WithPriority(GenericPriority), rules.ToReturn[Metadata]())
	rules.Handle[*ArticlePage](reg, webpo.NewPatterns().WithPriority(GenericPriority-10), rules.ToReturn[Article]())
}

// Inputs are the collaborators a Page Object may be constructed with.
type Inputs struct {
	Response  *webpo.HTTPResponse
	Extractor webpo.Extractor
	Converter webpo.Converter
	Stats     webpo.Stats
}

// Entry describes a constructible Page Object type.
type Entry struct {
	Name string
	Page reflect.Type
	Item reflect.Type
	New  func(in Inputs) fields.Page
}

// Catalog maps names to Page Object types and their constructors.
// It stands in for dependency injection: the registry picks a type and
// the catalog builds an instance of it.
type Catalog struct {
	entries []Entry
}

// NewCatalog returns a Catalog holding the built-in pages.
func NewCatalog() *Catalog {
	c := &Catalog{}
	c.Add(Entry{
		Name: "metadata",
		Page: webpo.TypeOf[*MetadataPage](),
		Item: webpo.TypeOf[Metadata](),
		New: func(in Inputs) fields.Page {
			p := NewMetadataPage(in.Response)
			p.Stats = in.Stats
			return p
		},
	})
	c.Add(Entry{
		Name: "article",
		Page: webpo.TypeOf[*ArticlePage](),
		Item: webpo.TypeOf[Article](),
		New: func(in Inputs) fields.Page {
			p := NewArticlePage(in.Response, in.Extractor, in.Converter)
			p.Stats = in.Stats
			return p
		},
	})
	return c
}

// Add registers e, replacing any entry with the same name.
func (c *Catalog) Add(e Entry) {
	if i := slices.IndexFunc(c.entries, func(x Entry) bool { return x.Name == e.Name }); i >= 0 {
		c.entries[i] = e
		return
	}
	c.entries = append(c.entries, e)
}

// Names returns entry names in registration order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.Name
	}
	return names
}

// ByName returns the entry called name.
func (c *Catalog) ByName(name string) (Entry, bool) {
	return c.find(func(e Entry) bool { return e.Name == name })
}

// ByPage returns the entry constructing Page type t.
func (c *Catalog) ByPage(t reflect.Type) (Entry, bool) {
	return c.find(func(e Entry) bool { return e.Page == t })
}

func (c *Catalog) find(f func(Entry) bool) (Entry, bool) {
	if i := slices.IndexFunc(c.entries, f); i >= 0 {
		return c.entries[i], true
	}
	return Entry{}, false
}

// Resolve picks the entry serving url for item type result: the registry's
// implementation, followed through any replacements declared for url.
// Returns ENOTFOUND if no rule applies or the chosen type is not in the
// catalog, and ECONFLICT if replacements form a cycle.
func (c *Catalog) Resolve(reg webpo.RuleRegistry, url string, result reflect.Type) (Entry, error) {
	impl := reg.ImplementationFor(url, result)
	if impl == nil {
		return Entry{}, webpo.Errorf(webpo.ENOTFOUND, "no rule for %s returning %s", url, webpo.TypeName(result))
	}

	replacements := reg.ReplacementsFor(url)
	seen := map[reflect.Type]bool{impl: true}
	for {
		next, ok := replacements[impl]
		if !ok {
			break
		}
		if seen[next] {
			return Entry{}, webpo.Errorf(webpo.ECONFLICT, "replacement cycle at %s for %s", webpo.TypeName(next), url)
		}
		seen[next] = true
		impl = next
	}

	e, ok := c.ByPage(impl)
	if !ok {
		return Entry{}, webpo.Errorf(webpo.ENOTFOUND, "%s is not in the catalog", webpo.TypeName(impl))
	}
	return e, nil
}
