// SPDX-License-Identifier: MIT

// Package lint checks scraped catalog records for gaps and
// inconsistencies. Which linters run is chosen in the manifest.
package lint

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alexx-ftw/km77-scraper/internal/catalog"
)

// Finding is a single lint result.
type Finding struct {
	Linter  string `json:"linter"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Linter inspects a catalog and reports findings.
type Linter interface {
	Name() string
	Check(makes []*catalog.Make) []Finding
}

var registry = map[string]Linter{}

func register(l Linter) {
	registry[l.Name()] = l
}

func init() {
	register(missingSpec{name: "missing-power", spec: catalog.SpecPower})
	register(missingSpec{name: "missing-acceleration", spec: catalog.SpecAcceleration})
	register(emptyMakes{})
	register(emptyModels{})
	register(duplicateSlugs{})
}

// Names lists the registered linters, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select resolves manifest entries to linters. Entries may carry a
// version suffix ("missing-power@v1"), which is ignored for now.
func Select(enabled []string) ([]Linter, error) {
	linters := make([]Linter, 0, len(enabled))
	for _, entry := range enabled {
		name, _, _ := strings.Cut(entry, "@")
		l, ok := registry[name]
		if !ok {
			return nil, fmt.Errorf("unknown linter %q (available: %s)", name, strings.Join(Names(), ", "))
		}
		linters = append(linters, l)
	}
	return linters, nil
}

// Run executes the given linters over a catalog.
func Run(linters []Linter, makes []*catalog.Make) []Finding {
	var findings []Finding
	for _, l := range linters {
		findings = append(findings, l.Check(makes)...)
	}
	return findings
}

type missingSpec struct {
	name string
	spec string
}

func (l missingSpec) Name() string { return l.name }

func (l missingSpec) Check(makes []*catalog.Make) []Finding {
	var findings []Finding
	for _, mk := range makes {
		for _, mdl := range mk.Models {
			for _, tr := range mdl.Trims {
				if _, ok := tr.SpecValue(l.spec); !ok {
					findings = append(findings, Finding{
						Linter:  l.name,
						Subject: fmt.Sprintf("%s/%s/%s", mk.Slug, mdl.Slug, tr.Slug),
						Message: fmt.Sprintf("no value for %q", l.spec),
					})
				}
			}
		}
	}
	return findings
}

type emptyMakes struct{}

func (emptyMakes) Name() string { return "empty-makes" }

func (emptyMakes) Check(makes []*catalog.Make) []Finding {
	var findings []Finding
	for _, mk := range makes {
		if len(mk.Models) == 0 {
			findings = append(findings, Finding{
				Linter:  "empty-makes",
				Subject: mk.Slug,
				Message: "make has no models",
			})
		}
	}
	return findings
}

type emptyModels struct{}

func (emptyModels) Name() string { return "empty-models" }

func (emptyModels) Check(makes []*catalog.Make) []Finding {
	var findings []Finding
	for _, mk := range makes {
		for _, mdl := range mk.Models {
			if len(mdl.Trims) == 0 {
				findings = append(findings, Finding{
					Linter:  "empty-models",
					Subject: fmt.Sprintf("%s/%s", mk.Slug, mdl.Slug),
					Message: "model has no trims",
				})
			}
		}
	}
	return findings
}

type duplicateSlugs struct{}

func (duplicateSlugs) Name() string { return "duplicate-slugs" }

func (duplicateSlugs) Check(makes []*catalog.Make) []Finding {
	var findings []Finding
	seen := make(map[string]bool, len(makes))
	for _, mk := range makes {
		if seen[mk.Slug] {
			findings = append(findings, Finding{
				Linter:  "duplicate-slugs",
				Subject: mk.Slug,
				Message: "duplicate make slug",
			})
		}
		seen[mk.Slug] = true

		modelSeen := make(map[string]bool, len(mk.Models))
		for _, mdl := range mk.Models {
			if modelSeen[mdl.Slug] {
				findings = append(findings, Finding{
					Linter:  "duplicate-slugs",
					Subject: fmt.Sprintf("%s/%s", mk.Slug, mdl.Slug),
					Message: "duplicate model slug within make",
				})
			}
			modelSeen[mdl.Slug] = true
		}
	}
	return findings
}
