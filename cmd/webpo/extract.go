package main

import (
	"fmt"
	"slices"

	"github.com/bytedance/sonic"
	"github.com/fwojciec/webpo"
	"github.com/fwojciec/webpo/fields"
	"github.com/fwojciec/webpo/pages"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	if err := c.run(deps); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webpo.ErrorMessage(err))
		return err
	}
	return nil
}

func (c *ExtractCmd) run(deps *Dependencies) error {
	item, err := lookup(deps.Catalog, c.Item, itemType)
	if err != nil {
		return err
	}
	entry, err := deps.Catalog.Resolve(deps.Registry, c.URL, item)
	if err != nil {
		return err
	}

	resp, err := webpo.Get(deps.Ctx, deps.HTTPClient, c.URL)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", c.URL, err)
	}

	page := entry.New(pages.Inputs{
		Response:  resp,
		Extractor: deps.Extractor,
		Converter: deps.Converter,
		Stats:     deps.Stats,
	})
	policy := webpo.SelectionPolicy{
		Include:        c.Include,
		Exclude:        c.Exclude,
		OnUnknownField: webpo.UnknownFieldAction(c.OnUnknown),
		// A replacement page may declare fields the requested item lacks.
		SkipNonItemFields: entry.Item != item,
	}
	assembler := &fields.Assembler{Logger: deps.Logger}
	v, err := assembler.Assemble(deps.Ctx, page, item, policy)
	if err != nil {
		return err
	}

	out, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode item: %w", err)
	}
	fmt.Fprintln(deps.Stdout, string(out))

	if c.Metrics {
		return printMetrics(deps)
	}
	return nil
}

func printMetrics(deps *Dependencies) error {
	families, err := deps.Metrics.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	var lines []string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			name := mf.GetName()
			for _, l := range m.GetLabel() {
				name += fmt.Sprintf(" %s=%s", l.GetName(), l.GetValue())
			}
			lines = append(lines, fmt.Sprintf("%s %g", name, m.GetGauge().GetValue()))
		}
	}
	slices.Sort(lines)
	for _, l := range lines {
		fmt.Fprintln(deps.Stderr, l)
	}
	return nil
}
