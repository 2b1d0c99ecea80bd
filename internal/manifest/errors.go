// SPDX-License-Identifier: MIT

package manifest

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

var (
	// ErrNotFound classifies load failures where the manifest file is
	// missing or unreadable. Use errors.Is(err, ErrNotFound).
	ErrNotFound = errors.New("manifest not found")

	// ErrUnknownField classifies strict parse failures caused by unknown
	// keys. Use errors.Is(err, ErrUnknownField) instead of string matching.
	ErrUnknownField = errors.New("unknown manifest field")
)

// ParseError reports malformed YAML. Line is 1-based and 0 when the
// underlying parser did not report a position.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse %s: line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// yaml.v3 does not expose positions structurally on its generic errors,
// only in the message text ("yaml: line 4: ...").
var yamlLineRe = regexp.MustCompile(`line (\d+):`)

func newParseError(path string, err error) *ParseError {
	pe := &ParseError{Path: path, Err: err}
	if m := yamlLineRe.FindStringSubmatch(err.Error()); m != nil {
		if n, convErr := strconv.Atoi(m[1]); convErr == nil {
			pe.Line = n
		}
	}
	return pe
}
