// SPDX-License-Identifier: MIT

package lint

import (
	"testing"

	"github.com/alexx-ftw/km77-scraper/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() []*catalog.Make {
	return []*catalog.Make{
		{
			Name: "SEAT", Slug: "seat",
			Models: []*catalog.Model{
				{
					Name: "Ibiza", Slug: "ibiza",
					Trims: []*catalog.Trim{
						{
							Name: "1.0 TSI 110 Style", Slug: "1-0-tsi-110-style",
							Specs: []catalog.SpecGroup{
								{Title: "Motor", Values: map[string]string{
									catalog.SpecPower: "110 CV / 81 kW",
								}},
							},
						},
						{Name: "1.5 TSI 150 FR", Slug: "1-5-tsi-150-fr"},
					},
				},
				{Name: "León", Slug: "leon"},
			},
		},
		{Name: "Abarth", Slug: "abarth"},
	}
}

func TestSelectKnownLinters(t *testing.T) {
	linters, err := Select([]string{"missing-power", "empty-models@v1"})
	require.NoError(t, err)
	require.Len(t, linters, 2)
	assert.Equal(t, "missing-power", linters[0].Name())
	assert.Equal(t, "empty-models", linters[1].Name())
}

func TestSelectUnknownLinter(t *testing.T) {
	_, err := Select([]string{"does-not-exist"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does-not-exist")
}

func TestMissingPower(t *testing.T) {
	linters, err := Select([]string{"missing-power"})
	require.NoError(t, err)

	findings := Run(linters, testCatalog())
	require.Len(t, findings, 1)
	assert.Equal(t, "seat/ibiza/1-5-tsi-150-fr", findings[0].Subject)
}

func TestEmptyMakesAndModels(t *testing.T) {
	linters, err := Select([]string{"empty-makes", "empty-models"})
	require.NoError(t, err)

	findings := Run(linters, testCatalog())
	require.Len(t, findings, 2)
	assert.Equal(t, "abarth", findings[0].Subject)
	assert.Equal(t, "seat/leon", findings[1].Subject)
}

func TestDuplicateSlugs(t *testing.T) {
	makes := testCatalog()
	makes = append(makes, &catalog.Make{Name: "SEAT SA", Slug: "seat"})

	linters, err := Select([]string{"duplicate-slugs"})
	require.NoError(t, err)

	findings := Run(linters, makes)
	require.Len(t, findings, 1)
	assert.Equal(t, "seat", findings[0].Subject)
}

func TestNamesSorted(t *testing.T) {
	names := Names()
	assert.Contains(t, names, "missing-power")
	assert.Contains(t, names, "duplicate-slugs")
	assert.IsIncreasing(t, names)
}
