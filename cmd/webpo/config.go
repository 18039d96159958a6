package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"reflect"
	"slices"

	"github.com/fwojciec/webpo"
	"github.com/fwojciec/webpo/doublestar"
	"github.com/fwojciec/webpo/pages"
	"gopkg.in/yaml.v3"
)

// RulesFile is the YAML layout of a rules file:
//
//	rules:
//	  - include: ["example.com/blog/**"]
//	    priority: 600
//	    use: article
//	    instead_of: metadata
type RulesFile struct {
	Rules []RuleConfig `yaml:"rules"`
}

// RuleConfig describes one rule. Use, InsteadOf and ToReturn name catalog
// entries; InsteadOf and Use refer to page types, ToReturn to item types.
type RuleConfig struct {
	Include   []string       `yaml:"include"`
	Exclude   []string       `yaml:"exclude"`
	Priority  *int           `yaml:"priority"`
	Use       string         `yaml:"use"`
	InsteadOf string         `yaml:"instead_of"`
	ToReturn  string         `yaml:"to_return"`
	Meta      map[string]any `yaml:"meta"`
}

// LoadRulesFile reads the rules file at path and adds its rules to reg.
func LoadRulesFile(path string, reg webpo.RuleRegistry, catalog *pages.Catalog) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return LoadRules(bytes.NewReader(data), reg, catalog)
}

// LoadRules parses a rules file from r and adds its rules to reg in file
// order. Nothing is added if any rule is invalid.
func LoadRules(r io.Reader, reg webpo.RuleRegistry, catalog *pages.Catalog) error {
	var file RulesFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && err != io.EOF {
		return webpo.Errorf(webpo.EINVALID, "parse rules: %s", err)
	}

	parsed := make([]webpo.Rule, 0, len(file.Rules))
	for i, rc := range file.Rules {
		rule, err := rc.rule(catalog)
		if err != nil {
			return fmt.Errorf("rule %d: %w", i+1, err)
		}
		parsed = append(parsed, rule)
	}
	for _, rule := range parsed {
		reg.Add(rule)
	}
	return nil
}

func (rc RuleConfig) rule(catalog *pages.Catalog) (webpo.Rule, error) {
	if rc.Use == "" {
		return webpo.Rule{}, webpo.Errorf(webpo.EINVALID, "use is required")
	}
	for _, p := range slices.Concat(rc.Include, rc.Exclude) {
		if !doublestar.Valid(p) {
			return webpo.Rule{}, webpo.Errorf(webpo.EINVALID, "invalid pattern %q", p)
		}
	}
	patterns := webpo.NewPatterns(rc.Include...).WithExclude(rc.Exclude...)
	if rc.Priority != nil {
		patterns = patterns.WithPriority(*rc.Priority)
	}
	rule := webpo.Rule{Patterns: patterns, Meta: rc.Meta}

	var err error
	if rule.Use, err = lookup(catalog, rc.Use, pageType); err != nil {
		return webpo.Rule{}, err
	}
	if rc.InsteadOf != "" {
		if rule.Replaces, err = lookup(catalog, rc.InsteadOf, pageType); err != nil {
			return webpo.Rule{}, err
		}
	}
	if rc.ToReturn != "" {
		if rule.Produces, err = lookup(catalog, rc.ToReturn, itemType); err != nil {
			return webpo.Rule{}, err
		}
	}
	return rule, nil
}

func pageType(e pages.Entry) reflect.Type { return e.Page }
func itemType(e pages.Entry) reflect.Type { return e.Item }

func lookup(catalog *pages.Catalog, name string, typ func(pages.Entry) reflect.Type) (reflect.Type, error) {
	e, ok := catalog.ByName(name)
	if !ok {
		return nil, webpo.Errorf(webpo.ENOTFOUND, "unknown name %q (known: %v)", name, catalog.Names())
	}
	return typ(e), nil
}
