package gateway

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pos-admin-gateway/internal/models"
)

func decodeBranches(t *testing.T, raw string) []models.Branch {
	t.Helper()
	var out []models.Branch
	require.NoError(t, json.Unmarshal([]byte(raw), &out))
	return out
}

func namesOf(branches []models.Branch) []string {
	names := make([]string, len(branches))
	for i, b := range branches {
		names[i] = b.Name.String()
	}
	return names
}

func TestSortByRecency(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		expect []string
	}{
		{
			name: "updated_at wins over created_at",
			raw: `[
				{"id":1,"name":"old","created_at":"2024-06-01T00:00:00Z","updated_at":"2024-01-01T00:00:00Z"},
				{"id":2,"name":"new","created_at":"2024-01-01T00:00:00Z","updated_at":"2024-07-01T00:00:00Z"}
			]`,
			expect: []string{"new", "old"},
		},
		{
			name: "timestamps rank above ids",
			raw: `[
				{"id":99,"name":"id only"},
				{"id":"x","name":"created","created_at":"2024-05-01T00:00:00Z"},
				{"id":"y","name":"updated","updated_at":"2024-05-01T00:00:00Z"}
			]`,
			expect: []string{"created", "updated", "id only"},
		},
		{
			name: "numeric ids descend",
			raw: `[
				{"id":"2","name":"two"},
				{"id":10,"name":"ten"},
				{"id":"3","name":"three"}
			]`,
			expect: []string{"ten", "three", "two"},
		},
		{
			name: "records without a key go last in input order",
			raw: `[
				{"id":"abc","name":"first"},
				{"id":1,"name":"numbered"},
				{"id":"def","name":"second"}
			]`,
			expect: []string{"numbered", "first", "second"},
		},
		{
			name: "unparseable timestamp falls through to id",
			raw: `[
				{"id":5,"name":"five","updated_at":"kemarin"},
				{"id":8,"name":"eight"}
			]`,
			expect: []string{"eight", "five"},
		},
		{
			name: "sheet date formats",
			raw: `[
				{"id":1,"name":"a","created_at":"2024-01-02"},
				{"id":2,"name":"b","created_at":"1/3/2024 08:00:00"},
				{"id":3,"name":"c","created_at":"2024-01-02 09:30:00"}
			]`,
			expect: []string{"b", "c", "a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := decodeBranches(t, tt.raw)
			SortByRecency(records)
			assert.Equal(t, tt.expect, namesOf(records))
		})
	}
}

func TestSortByRecency_Empty(t *testing.T) {
	var records []models.Branch
	assert.NotPanics(t, func() { SortByRecency(records) })
}
