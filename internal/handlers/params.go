package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"pos-admin-gateway/internal/models"
)

// positiveQueryInt reads a query parameter; missing, non-numeric or < 1
// values yield the default
func positiveQueryInt(r *http.Request, key string, defaultValue int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return defaultValue
	}
	return n
}

// bindFilters copies only the filter keys an entity supports from the query
func bindFilters(r *http.Request, keys []string) models.Filters {
	q := r.URL.Query()
	var f models.Filters
	for _, key := range keys {
		v := q.Get(key)
		switch key {
		case models.FieldBranchName:
			f.BranchName = v
		case models.FieldCategoryID:
			f.CategoryID = v
		case models.FieldCategoryName:
			f.CategoryName = v
		case models.FieldSupplierName:
			f.SupplierName = v
		case FilterSearch:
			f.Search = v
		}
	}
	return f
}
