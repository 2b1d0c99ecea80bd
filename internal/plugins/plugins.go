// SPDX-License-Identifier: MIT

// Package plugins resolves plugin source ids declared in the manifest to
// fetchable locations.
package plugins

import (
	"context"
	"fmt"
	"sort"

	"github.com/alexx-ftw/km77-scraper/internal/manifest"
)

// Handle is a resolved plugin source.
type Handle struct {
	ID  string `json:"id"`
	Ref string `json:"ref"`
	URI string `json:"uri,omitempty"`
}

// Resolver maps a source id to its handle.
type Resolver interface {
	Resolve(ctx context.Context, id string) (Handle, error)
	List(ctx context.Context) ([]Handle, error)
}

// UnknownSourceError reports a source id absent from the manifest.
type UnknownSourceError struct {
	ID string
}

func (e *UnknownSourceError) Error() string {
	return fmt.Sprintf("unknown plugin source %q", e.ID)
}

// StaticResolver serves the sources declared in the manifest document.
type StaticResolver struct {
	byID map[string]Handle
}

// NewStaticResolver builds a resolver from manifest sources. Duplicate
// ids are rejected during manifest validation, so the last one wins here.
func NewStaticResolver(sources []manifest.PluginSource) *StaticResolver {
	byID := make(map[string]Handle, len(sources))
	for _, src := range sources {
		byID[src.ID] = Handle{ID: src.ID, Ref: src.Ref, URI: src.URI}
	}
	return &StaticResolver{byID: byID}
}

// Resolve returns the handle for id.
func (r *StaticResolver) Resolve(_ context.Context, id string) (Handle, error) {
	h, ok := r.byID[id]
	if !ok {
		return Handle{}, &UnknownSourceError{ID: id}
	}
	return h, nil
}

// List returns all handles sorted by id.
func (r *StaticResolver) List(context.Context) ([]Handle, error) {
	handles := make([]Handle, 0, len(r.byID))
	for _, h := range r.byID {
		handles = append(handles, h)
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i].ID < handles[j].ID })
	return handles, nil
}
