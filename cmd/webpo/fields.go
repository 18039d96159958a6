package main

import (
	"fmt"

	"github.com/fwojciec/webpo"
	"github.com/fwojciec/webpo/fields"
)

// Run executes the fields command.
func (c *FieldsCmd) Run(deps *Dependencies) error {
	page, err := lookup(deps.Catalog, c.Page, pageType)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webpo.ErrorMessage(err))
		return err
	}
	s, ok := fields.Lookup(page)
	if !ok {
		err := webpo.Errorf(webpo.ENOTFOUND, "%s declares no fields", webpo.TypeName(page))
		fmt.Fprintf(deps.Stderr, "error: %s\n", webpo.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Fields of %s returning %s:\n\n", webpo.TypeName(page), webpo.TypeName(s.ResultType()))
	for i, d := range s.Declarations(true) {
		mode := "sync"
		if d.Async {
			mode = "async"
		}
		var flags string
		if d.Cached {
			flags += " cached"
		}
		if d.Disabled {
			flags += " disabled"
		}
		fmt.Fprintf(deps.Stdout, "  %2d. %-16s %-5s%s\n", i+1, d.Name, mode, flags)
	}
	return nil
}
