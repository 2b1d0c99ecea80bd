// SPDX-License-Identifier: MIT

package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexx-ftw/km77-scraper/internal/validate"
	"gopkg.in/yaml.v3"
)

// Loader reads the manifest from disk. The zero value is not usable;
// construct with NewLoader.
type Loader struct {
	path string

	// Strict rejects unknown keys instead of ignoring them. The default is
	// permissive so newer manifests keep loading on older binaries.
	Strict bool
}

// NewLoader creates a loader for the manifest at path.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load is a convenience wrapper for a permissive one-shot load.
func Load(path string) (*Document, error) {
	return NewLoader(path).Load()
}

// Load reads, parses and validates the manifest. It is all-or-nothing:
// on any error the returned Document is nil.
func (l *Loader) Load() (*Document, error) {
	path := filepath.Clean(l.path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("unsupported manifest format: %s (only YAML supported)", ext)
	}

	// #nosec G304 -- the manifest path is provided by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("%w: %s: %v", ErrNotFound, path, err)
		}
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}

	doc, err := l.parse(path, data)
	if err != nil {
		return nil, err
	}

	doc.applyDefaults()

	if issues := Validate(doc); len(issues) > 0 {
		v := validate.New()
		for _, issue := range issues {
			v.AddError(issue.Field, issue.Message, issue.Value)
		}
		return nil, v.Err()
	}

	return doc, nil
}

// parse decodes a single YAML document into a Document. Unknown fields are
// rejected only in strict mode; multiple documents and trailing content are
// always rejected.
func (l *Loader) parse(path string, data []byte) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(l.Strict)

	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			// Empty file parses to an empty document; validation rejects it.
			return &Document{}, nil
		}
		return nil, classifyDecodeError(path, err)
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, &ParseError{Path: path, Err: errors.New("manifest contains multiple documents or trailing content")}
	}

	return &doc, nil
}

// classifyDecodeError separates the three failure classes yaml.v3 folds
// into its errors: unknown keys (strict mode), schema type mismatches, and
// genuinely malformed syntax.
func classifyDecodeError(path string, err error) error {
	var typeErr *yaml.TypeError
	if !errors.As(err, &typeErr) {
		return newParseError(path, err)
	}

	v := validate.New()
	for _, msg := range typeErr.Errors {
		if strings.Contains(msg, "not found in type") {
			return fmt.Errorf("%w: %s", ErrUnknownField, msg)
		}
		// The only integer in the schema is lint.default_max_file_size, so
		// an int64 conversion failure can be attributed to it.
		field := "document"
		if strings.Contains(msg, "into int64") {
			field = "lint.default_max_file_size"
		}
		v.AddError(field, msg, nil)
	}
	return v.Err()
}

// Marshal serializes a Document back to YAML. Load(Marshal(doc)) yields a
// Document equal to doc field for field.
func Marshal(doc *Document) ([]byte, error) {
	return yaml.Marshal(doc)
}
