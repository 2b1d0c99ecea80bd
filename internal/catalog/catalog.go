// SPDX-License-Identifier: MIT

// Package catalog holds the scraped car catalog domain model:
// makes contain models, models contain trims, trims carry spec and
// option tables.
package catalog

// Make is a car brand listed on the catalog index page.
type Make struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Slug   string   `json:"slug"`
	URL    string   `json:"url"` // listing page for the make's models
	Models []*Model `json:"models,omitempty"`
}

// Model is a car model belonging to a make.
type Model struct {
	ID     string  `json:"id"`
	MakeID string  `json:"make_id"`
	Name   string  `json:"name"`
	Slug   string  `json:"slug"`
	Year   string  `json:"year,omitempty"`
	URL    string  `json:"url"` // trim table page ("/datos")
	Trims  []*Trim `json:"trims,omitempty"`
}

// Trim is a concrete variant of a model with its spec and option tables.
type Trim struct {
	ID         string      `json:"id"`
	ModelID    string      `json:"model_id"`
	Name       string      `json:"name"`
	Slug       string      `json:"slug"`
	Production string      `json:"production,omitempty"` // e.g. "(2021 - 2024)"
	URL        string      `json:"url"`
	Specs      []SpecGroup `json:"specs,omitempty"`
	Options    []SpecGroup `json:"options,omitempty"`
}

// SpecGroup is one captioned table of label/value pairs as scraped from a
// trim's data or equipment page.
type SpecGroup struct {
	Title  string            `json:"title"`
	Values map[string]string `json:"values"`
}

// Spec keys as they appear on the source pages. Lookups go through
// SpecValue so callers never touch the raw maps.
const (
	SpecPower        = "Potencia máxima"
	SpecAcceleration = "Aceleración 0-100 km/h"
	SpecCylinders    = "Número de cilindros"
	SpecGears        = "Número de velocidades"
	SpecFrontBrakes  = "Tipo de frenos delanteros"
	SpecRearBrakes   = "Tipo de frenos traseros"
	SpecSteering     = "Dirección"
)

// NotAvailable marks a spec the source page lists without a value.
const NotAvailable = "No disponible"

// SpecValue looks up a spec key across all spec and option groups of the
// trim. The second return is false when the key is absent or marked
// "No disponible".
func (t *Trim) SpecValue(key string) (string, bool) {
	for _, group := range t.Specs {
		if v, ok := group.Values[key]; ok && v != NotAvailable {
			return v, true
		}
	}
	for _, group := range t.Options {
		if v, ok := group.Values[key]; ok && v != NotAvailable {
			return v, true
		}
	}
	return "", false
}

// AddModel appends a model, keeping one entry per name.
func (m *Make) AddModel(model *Model) {
	for _, existing := range m.Models {
		if existing.Name == model.Name {
			return
		}
	}
	m.Models = append(m.Models, model)
}

// AddTrim appends a trim, keeping one entry per name.
func (m *Model) AddTrim(trim *Trim) {
	for _, existing := range m.Trims {
		if existing.Name == trim.Name {
			return
		}
	}
	m.Trims = append(m.Trims, trim)
}

// AllTrims flattens the catalog into a single trim slice.
func AllTrims(makes []*Make) []*Trim {
	var out []*Trim
	for _, mk := range makes {
		for _, mdl := range mk.Models {
			out = append(out, mdl.Trims...)
		}
	}
	return out
}

// Summary counts catalog entities, mirroring what a scrape run reports
// after each stage.
type Summary struct {
	Makes   int `json:"makes"`
	Models  int `json:"models"`
	Trims   int `json:"trims"`
	Options int `json:"options"`
}

// Summarize walks the catalog and counts its entities.
func Summarize(makes []*Make) Summary {
	var s Summary
	s.Makes = len(makes)
	for _, mk := range makes {
		s.Models += len(mk.Models)
		for _, mdl := range mk.Models {
			s.Trims += len(mdl.Trims)
			for _, trim := range mdl.Trims {
				s.Options += len(trim.Options)
			}
		}
	}
	return s
}
