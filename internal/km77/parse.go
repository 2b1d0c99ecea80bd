// SPDX-License-Identifier: MIT

package km77

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/alexx-ftw/km77-scraper/internal/catalog"
	"golang.org/x/net/html"
)

// Page anchors. These mirror the markup of the catalog's server-rendered
// pages; if the site relayouts, these are the constants to revisit.
const (
	makeItemClass  = "js-brand-item"
	modelItemClass = "vehicle-block"
	modelNameClass = "veh-name"
	trimCellClass  = "vehicle-name"
	specsDivID     = "measurements-1"
	optionsDivID   = "features-2"
)

// marketQuery widens a make's model listing to both current and
// discontinued models.
const marketQuery = "?market[]=available&market[]=discontinued"

// ParseMakes extracts the car makes from the catalog index page.
func ParseMakes(page []byte, base string) ([]*catalog.Make, error) {
	root, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse makes page: %w", err)
	}

	items := findAll(root, elementWithClass("div", makeItemClass))
	makes := make([]*catalog.Make, 0, len(items))
	for _, item := range items {
		link := findFirst(item, func(n *html.Node) bool { return isElement(n, "a") })
		name := textContent(item)
		href := ""
		if link != nil {
			name = textContent(link)
			href = attr(link, "href")
		}
		if name == "" || href == "" {
			continue
		}
		makes = append(makes, &catalog.Make{
			Name: name,
			Slug: catalog.Slugify(name),
			URL:  joinURL(base, href) + marketQuery,
		})
	}
	return makes, nil
}

// ParseModels extracts the models from a make's listing page.
func ParseModels(page []byte, base string) ([]*catalog.Model, error) {
	root, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse models page: %w", err)
	}

	var models []*catalog.Model
	for _, item := range findAll(root, elementWithClass("li", modelItemClass)) {
		nameDiv := findFirst(item, elementWithClass("div", modelNameClass))
		link := findFirst(item, func(n *html.Node) bool { return isElement(n, "a") })
		if nameDiv == nil || link == nil {
			continue
		}

		// The name cell reads "Ibiza | desde 2017"; the year also sits in
		// its own span.
		name := strings.TrimSpace(strings.SplitN(textContent(nameDiv), "|", 2)[0])
		if name == "" {
			continue
		}
		year := ""
		if span := findFirst(nameDiv, func(n *html.Node) bool { return isElement(n, "span") }); span != nil {
			year = textContent(span)
		}

		models = append(models, &catalog.Model{
			Name: name,
			Slug: catalog.Slugify(name),
			Year: year,
			URL:  joinURL(base, attr(link, "href")) + "/datos",
		})
	}
	return models, nil
}

// ParseTrims extracts the trims from a model's data page.
func ParseTrims(page []byte, base string) ([]*catalog.Trim, error) {
	root, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse trims page: %w", err)
	}

	var trims []*catalog.Trim
	for _, cell := range findAll(root, elementWithClass("td", trimCellClass)) {
		link := findFirst(cell, func(n *html.Node) bool { return isElement(n, "a") })
		if link == nil {
			continue
		}
		name := textContent(link)
		if name == "" {
			continue
		}

		production := ""
		if span := findFirst(cell, func(n *html.Node) bool { return isElement(n, "span") }); span != nil {
			production = firstLine(textContent(span))
			if production != "" && !strings.HasSuffix(production, ")") {
				production += ")"
			}
		}

		trims = append(trims, &catalog.Trim{
			Name:       name,
			Slug:       catalog.Slugify(name),
			Production: production,
			URL:        joinURL(base, attr(link, "href")),
		})
	}
	return trims, nil
}

// ParseSpecGroups extracts the spec tables (measurements block) and option
// tables (features block) from a trim page. Empty tables are dropped.
func ParseSpecGroups(page []byte) (specs, options []catalog.SpecGroup, err error) {
	root, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, nil, fmt.Errorf("parse trim page: %w", err)
	}

	if div := findFirst(root, elementWithID("div", specsDivID)); div != nil {
		specs = parseTables(div)
	}
	if div := findFirst(root, elementWithID("div", optionsDivID)); div != nil {
		options = parseTables(div)
	}
	return specs, options, nil
}

func parseTables(div *html.Node) []catalog.SpecGroup {
	var groups []catalog.SpecGroup
	for _, table := range findAll(div, func(n *html.Node) bool { return isElement(n, "table") }) {
		rows := findAll(table, func(n *html.Node) bool { return isElement(n, "tr") })
		if len(rows) == 0 {
			continue
		}

		group := catalog.SpecGroup{Values: make(map[string]string, len(rows))}
		if caption := findFirst(table, func(n *html.Node) bool { return isElement(n, "caption") }); caption != nil {
			group.Title = textContent(caption)
		}

		for _, row := range rows {
			cells := findAll(row, func(n *html.Node) bool {
				return isElement(n, "th") || isElement(n, "td")
			})
			if len(cells) < 2 {
				continue
			}
			key := textContent(cells[0])
			if key == "" {
				continue
			}
			group.Values[key] = textContent(cells[1])
		}

		if len(group.Values) > 0 {
			groups = append(groups, group)
		}
	}
	return groups
}

func joinURL(base, href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return strings.TrimRight(base, "/") + href
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
