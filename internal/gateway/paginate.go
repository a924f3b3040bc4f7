package gateway

import "pos-admin-gateway/internal/models"

// Paginate slices one page out of records. Offsets outside the dataset are
// clamped, so any page number yields a (possibly empty) page and never
// panics. The returned page is never nil. An empty dataset reports no
// neighbours whatever page was asked for.
func Paginate[T any](records []T, page, limit int) ([]T, models.Pagination) {
	total := len(records)
	p := models.Pagination{
		Page:    page,
		Limit:   limit,
		Total:   total,
		HasPrev: page > 1 && total > 0,
	}
	if limit < 1 {
		return []T{}, p
	}

	if total > 0 {
		p.TotalPages = (total + limit - 1) / limit
	}
	p.HasNext = page < p.TotalPages

	start := total
	if page-1 < p.TotalPages {
		start = max(page-1, 0) * limit
	}
	end := min(start+limit, total)

	out := make([]T, end-start)
	copy(out, records[start:end])
	return out, p
}
