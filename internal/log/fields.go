// SPDX-License-Identifier: MIT

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRequestID = "request_id"
	FieldJobID     = "job_id"

	// Process / pipeline fields
	FieldEvent     = "event"
	FieldComponent = "component"
	FieldStage     = "stage"

	// Catalog fields
	FieldMake  = "make"
	FieldModel = "model"
	FieldTrim  = "trim"
	FieldSlug  = "slug"

	// Path / URL fields
	FieldPath    = "path"
	FieldURL     = "url"
	FieldBaseURL = "base_url"
)
