// SPDX-License-Identifier: MIT

package manifest

import (
	"fmt"
	"iter"

	"github.com/alexx-ftw/km77-scraper/internal/validate"
)

// Validate checks a Document against the schema invariants and returns
// every issue found. An empty result means the document is fully valid.
// It has no side effects and works on documents built programmatically,
// not only those read from disk.
func Validate(doc *Document) []validate.Error {
	v := validate.New()

	v.NotEmpty("version", doc.Version)

	ids := make([]string, 0, len(doc.Plugins.Sources))
	for i, src := range doc.Plugins.Sources {
		path := fmt.Sprintf("plugins.sources[%d]", i)
		v.NotEmpty(path+".id", src.ID)
		v.NotEmpty(path+".ref", src.Ref)
		if src.ID != "" {
			ids = append(ids, src.ID)
		}
		v.URL(path+".uri", src.URI, nil)
	}
	v.Unique("plugins.sources.id", ids)

	for i, id := range doc.Runtimes.Enabled {
		v.Identifier(fmt.Sprintf("runtimes.enabled[%d]", i), id)
	}

	if doc.Lint.DefaultMaxFileSize != nil {
		v.Positive("lint.default_max_file_size", *doc.Lint.DefaultMaxFileSize)
	}
	for i, id := range doc.Lint.Enabled {
		v.Identifier(fmt.Sprintf("lint.enabled[%d]", i), id)
	}

	for i, name := range doc.Actions.Enabled {
		v.NotEmpty(fmt.Sprintf("actions.enabled[%d]", i), name)
	}

	return v.Errors()
}

// Issues returns a restartable iterator over validation issues; ranging
// over it twice revisits every issue.
func Issues(doc *Document) iter.Seq[validate.Error] {
	return func(yield func(validate.Error) bool) {
		for _, issue := range Validate(doc) {
			if !yield(issue) {
				return
			}
		}
	}
}
