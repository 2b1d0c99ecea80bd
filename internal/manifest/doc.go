// SPDX-License-Identifier: MIT

// Package manifest loads and validates the project automation manifest.
//
// The manifest is a small YAML document at .km77/km77.yaml describing the
// toolchain around a scrape run: the CLI version, plugin sources, pinned
// runtimes, enabled record linters and lifecycle actions. It is read once
// at process start and the resulting Document is immutable, so it can be
// shared across goroutines without synchronization.
//
// Errors fall into three classes, distinguishable with errors.Is/As:
//
//   - ErrNotFound: the file is missing or unreadable
//   - ParseError: the content is not well-formed YAML
//   - validate.ValidationError: the document violates the schema or an
//     invariant (duplicate plugin id, empty identifier, ...)
//
// Load is all-or-nothing: no partial Document is ever returned.
package manifest
