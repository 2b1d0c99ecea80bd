// SPDX-License-Identifier: MIT

// validate checks a km77 manifest file.
//
// Usage:
//
//	validate -f .km77/km77.yaml
//	validate --file km77.yaml --strict
//
// Exit codes:
//   - 0: Manifest is valid
//   - 1: Manifest is missing, malformed, or invalid
//   - 2: Usage error
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/alexx-ftw/km77-scraper/internal/manifest"
	"github.com/alexx-ftw/km77-scraper/internal/validate"
)

var Version = "dev"

func main() {
	var file string
	var strict, showVersion bool

	flag.StringVar(&file, "file", "", "path to manifest file")
	flag.StringVar(&file, "f", "", "path to manifest file (shorthand)")
	flag.BoolVar(&strict, "strict", false, "reject unknown manifest keys")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Println(Version)
		os.Exit(0)
	}

	if file == "" {
		fmt.Fprintln(os.Stderr, "Error: --file is required")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  validate -f km77.yaml")
		fmt.Fprintln(os.Stderr, "  validate --file km77.yaml --strict")
		os.Exit(2)
	}

	loader := manifest.NewLoader(file)
	loader.Strict = strict

	_, err := loader.Load()
	if err == nil {
		fmt.Printf("✓ %s is valid\n", file)
		return
	}

	var verr validate.ValidationError
	if errors.As(err, &verr) {
		fmt.Fprintf(os.Stderr, "Validation errors in %s:\n", file)
		for issue := range verr.All() {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", issue.Field, issue.Message)
		}
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Manifest error in %s:\n", file)
	fmt.Fprintf(os.Stderr, "  %v\n", err)
	os.Exit(1)
}
