package main

import (
	"fmt"
	"slices"

	"github.com/fwojciec/webpo"
)

// Run executes the rules command.
func (c *RulesCmd) Run(deps *Dependencies) error {
	item, err := lookup(deps.Catalog, c.Item, itemType)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webpo.ErrorMessage(err))
		return err
	}

	top := deps.Registry.TopRulesFor(c.URL, item)
	fmt.Fprintf(deps.Stdout, "Rules for %s returning %s (%d):\n", c.URL, webpo.TypeName(item), len(top))
	for _, rule := range top {
		fmt.Fprintf(deps.Stdout, "  %s\n", rule)
	}

	replacements := deps.Registry.ReplacementsFor(c.URL)
	lines := make([]string, 0, len(replacements))
	for from, to := range replacements {
		lines = append(lines, fmt.Sprintf("  %s -> %s", webpo.TypeName(from), webpo.TypeName(to)))
	}
	slices.Sort(lines)
	fmt.Fprintf(deps.Stdout, "Replacements (%d):\n", len(lines))
	for _, l := range lines {
		fmt.Fprintln(deps.Stdout, l)
	}

	impl := deps.Registry.ImplementationFor(c.URL, item)
	if impl == nil {
		fmt.Fprintln(deps.Stdout, "Implementation: (none)")
		return nil
	}
	fmt.Fprintf(deps.Stdout, "Implementation: %s\n", webpo.TypeName(impl))
	return nil
}
