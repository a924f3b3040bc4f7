package gateway

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name       string
		total      int
		page       int
		limit      int
		expect     []int
		totalPages int
		hasNext    bool
		hasPrev    bool
	}{
		{name: "first page", total: 23, page: 1, limit: 10, expect: seq(10), totalPages: 3, hasNext: true},
		{name: "last partial page", total: 23, page: 3, limit: 10, expect: []int{21, 22, 23}, totalPages: 3, hasPrev: true},
		{name: "past the end", total: 23, page: 4, limit: 10, expect: []int{}, totalPages: 3, hasPrev: true},
		{name: "exact fit", total: 20, page: 2, limit: 10, expect: seq(20)[10:], totalPages: 2, hasPrev: true},
		{name: "empty dataset", total: 0, page: 3, limit: 10, expect: []int{}, totalPages: 0},
		{name: "page zero clamps", total: 5, page: 0, limit: 2, expect: []int{1, 2}, totalPages: 3, hasNext: true},
		{name: "huge page", total: 5, page: math.MaxInt, limit: 2, expect: []int{}, totalPages: 3, hasPrev: true},
		{name: "zero limit", total: 5, page: 1, limit: 0, expect: []int{}, totalPages: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var data []int
			assert.NotPanics(t, func() {
				p, pg := Paginate(seq(tt.total), tt.page, tt.limit)
				data = p
				assert.Equal(t, tt.total, pg.Total)
				assert.Equal(t, tt.totalPages, pg.TotalPages)
				assert.Equal(t, tt.hasNext, pg.HasNext)
				assert.Equal(t, tt.hasPrev, pg.HasPrev)
				assert.Equal(t, tt.page, pg.Page)
				assert.Equal(t, tt.limit, pg.Limit)
			})
			assert.NotNil(t, data)
			assert.Equal(t, tt.expect, data)
		})
	}
}
