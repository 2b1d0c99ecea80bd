// SPDX-License-Identifier: MIT
package validate

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidatorEmpty(t *testing.T) {
	v := New()
	if !v.IsValid() {
		t.Error("new validator should be valid")
	}
	if err := v.Err(); err != nil {
		t.Errorf("Err() on empty validator should be nil, got %v", err)
	}
}

func TestAddError(t *testing.T) {
	v := New()
	v.AddError("field1", "is broken", "bad")

	if v.IsValid() {
		t.Error("validator with errors should not be valid")
	}

	errs := v.Errors()
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d", len(errs))
	}
	if errs[0].Field != "field1" {
		t.Errorf("expected field1, got %s", errs[0].Field)
	}
}

func TestErrSingleAndMultiple(t *testing.T) {
	v := New()
	v.AddError("a", "first", nil)
	single := v.Err()
	if single == nil {
		t.Fatal("expected error")
	}
	want := "validation failed for a: first"
	if single.Error() != want {
		t.Errorf("expected %q, got %q", want, single.Error())
	}

	v.AddError("b", "second", nil)
	multi := v.Err()
	wantMulti := "validation failed for a: first; validation failed for b: second"
	if multi.Error() != wantMulti {
		t.Errorf("expected %q, got %q", wantMulti, multi.Error())
	}
}

func TestValidationErrorAs(t *testing.T) {
	v := New()
	v.AddError("x", "nope", 42)
	err := fmt.Errorf("wrapped: %w", v.Err())

	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatal("expected errors.As to find ValidationError")
	}
	if len(verr.Errors()) != 1 {
		t.Errorf("expected 1 inner error, got %d", len(verr.Errors()))
	}
}

func TestAllIsRestartable(t *testing.T) {
	v := New()
	v.AddError("a", "one", nil)
	v.AddError("b", "two", nil)

	verr, ok := v.Err().(ValidationError)
	if !ok {
		t.Fatal("expected ValidationError")
	}

	// Iterate twice; both passes must see every issue.
	for pass := 0; pass < 2; pass++ {
		count := 0
		for range verr.All() {
			count++
		}
		if count != 2 {
			t.Errorf("pass %d: expected 2 issues, got %d", pass, count)
		}
	}

	// Early break must not poison a later restart.
	for range verr.All() {
		break
	}
	count := 0
	for range verr.All() {
		count++
	}
	if count != 2 {
		t.Errorf("after break: expected 2 issues, got %d", count)
	}
}

func TestNotEmpty(t *testing.T) {
	tests := []struct {
		value string
		valid bool
	}{
		{"hello", true},
		{"", false},
		{"   ", false},
		{"\t\n", false},
	}

	for _, tt := range tests {
		v := New()
		v.NotEmpty("field", tt.value)
		if v.IsValid() != tt.valid {
			t.Errorf("NotEmpty(%q): expected valid=%v", tt.value, tt.valid)
		}
	}
}

func TestPositive(t *testing.T) {
	tests := []struct {
		value int64
		valid bool
	}{
		{1, true},
		{1073741824, true},
		{0, false},
		{-5, false},
	}

	for _, tt := range tests {
		v := New()
		v.Positive("size", tt.value)
		if v.IsValid() != tt.valid {
			t.Errorf("Positive(%d): expected valid=%v", tt.value, tt.valid)
		}
	}
}

func TestRange(t *testing.T) {
	v := New()
	v.Range("n", 5, 1, 10)
	if !v.IsValid() {
		t.Error("5 should be within [1,10]")
	}

	v = New()
	v.Range("n", 11, 1, 10)
	if v.IsValid() {
		t.Error("11 should be outside [1,10]")
	}
}

func TestOneOf(t *testing.T) {
	v := New()
	v.OneOf("mode", "strict", []string{"strict", "permissive"})
	if !v.IsValid() {
		t.Error("strict should be allowed")
	}

	v = New()
	v.OneOf("mode", "bogus", []string{"strict", "permissive"})
	if v.IsValid() {
		t.Error("bogus should be rejected")
	}
}

func TestURL(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		schemes []string
		valid   bool
	}{
		{"valid http", "http://example.com", []string{"http", "https"}, true},
		{"valid https", "https://example.com/path", []string{"http", "https"}, true},
		{"empty", "", []string{"http"}, false},
		{"no host", "http://", []string{"http"}, false},
		{"bad scheme", "ftp://example.com", []string{"http", "https"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.URL("url", tt.value, tt.schemes)
			if v.IsValid() != tt.valid {
				t.Errorf("URL(%q): expected valid=%v, errors: %v", tt.value, tt.valid, v.Errors())
			}
		})
	}
}

func TestUnique(t *testing.T) {
	v := New()
	v.Unique("ids", []string{"a", "b", "c"})
	if !v.IsValid() {
		t.Error("distinct values should pass")
	}

	v = New()
	v.Unique("ids", []string{"a", "b", "a", "a"})
	errs := v.Errors()
	if len(errs) != 2 {
		t.Fatalf("expected one error per extra occurrence, got %d", len(errs))
	}
	if errs[0].Value != "a" {
		t.Errorf("duplicate error should carry the offending value, got %v", errs[0].Value)
	}
}

func TestIdentifier(t *testing.T) {
	tests := []struct {
		value string
		valid bool
	}{
		{"golangci-lint", true},
		{"golangci-lint@1.62.0", true},
		{"node@22.16.0", true},
		{"", false},
		{"@1.0.0", false},
		{"tool@", false},
		{"   @1", false},
	}

	for _, tt := range tests {
		v := New()
		v.Identifier("id", tt.value)
		if v.IsValid() != tt.valid {
			t.Errorf("Identifier(%q): expected valid=%v, errors: %v", tt.value, tt.valid, v.Errors())
		}
	}
}

func TestParseLogLevel(t *testing.T) {
	if _, err := ParseLogLevel("debug"); err != nil {
		t.Errorf("debug should parse: %v", err)
	}
	if _, err := ParseLogLevel("verbose"); err == nil {
		t.Error("verbose should not parse")
	}
}
