package gateway

import (
	"strings"

	"pos-admin-gateway/internal/models"
)

// ApplyFilters narrows records through the cascade branch, category,
// supplier, then name search. Each step only sees what the previous one
// kept. Blank filters are skipped.
//
// category_id takes precedence over category_name; when both are supplied
// the name is ignored.
func ApplyFilters[T models.Record](records []T, f models.Filters) []T {
	out := records
	out = keepEqual(out, models.FieldBranchName, f.BranchName)
	if !isBlank(f.CategoryID) {
		out = keepEqual(out, models.FieldCategoryID, f.CategoryID)
	} else {
		out = keepEqual(out, models.FieldCategoryName, f.CategoryName)
	}
	out = keepEqual(out, models.FieldSupplierName, f.SupplierName)
	out = keepMatching(out, f.Search)
	return out
}

// keepEqual keeps records whose field equals want after trimming, ignoring
// case. Records without the field never match.
func keepEqual[T models.Record](records []T, field, want string) []T {
	if isBlank(want) {
		return records
	}
	want = strings.TrimSpace(want)

	out := make([]T, 0, len(records))
	for _, rec := range records {
		v, ok := rec.Field(field)
		if ok && strings.EqualFold(strings.TrimSpace(v), want) {
			out = append(out, rec)
		}
	}
	return out
}

// keepMatching keeps records whose name contains query, ignoring case
func keepMatching[T models.Record](records []T, query string) []T {
	if isBlank(query) {
		return records
	}
	query = strings.ToLower(query)

	out := make([]T, 0, len(records))
	for _, rec := range records {
		name, ok := rec.Field(models.FieldName)
		if ok && strings.Contains(strings.ToLower(name), query) {
			out = append(out, rec)
		}
	}
	return out
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
