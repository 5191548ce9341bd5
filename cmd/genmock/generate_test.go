package main

import (
	"testing"

	"github.com/couchcryptid/nuclear-dashboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_CleansWithoutErrors(t *testing.T) {
	table := generate(500, 7, 0.1)
	require.Len(t, table.Rows, len(notable)+500)

	ds, err := domain.CleanTable(table)
	require.NoError(t, err)

	missing := 0
	for _, row := range table.Rows {
		for _, cell := range row {
			if domain.IsMissing(cell) {
				missing++
				break
			}
		}
	}
	assert.Equal(t, missing, ds.RowsDropped)
	assert.Equal(t, len(table.Rows)-missing, len(ds.Records))
}

func TestGenerate_Deterministic(t *testing.T) {
	assert.Equal(t, generate(50, 42, 0.2), generate(50, 42, 0.2))
	assert.NotEqual(t, generate(50, 42, 0.2), generate(50, 43, 0.2))
}

func TestGenerate_DefaultViewNotEmpty(t *testing.T) {
	ds, err := domain.CleanTable(generate(0, 1, 0))
	require.NoError(t, err)

	opts := domain.Options(ds)
	assert.Equal(t, domain.DefaultLocations, opts.Defaults.Locations)
	assert.Len(t, domain.Filter(ds.Records, opts.Defaults), 6)
}
