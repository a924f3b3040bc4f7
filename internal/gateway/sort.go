package gateway

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
	"time"

	"pos-admin-gateway/internal/models"
)

// timestampLayouts are the forms Apps Script and hand-typed sheet cells use
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"1/2/2006 15:04:05",
	"1/2/2006",
}

type keyTier int

const (
	tierNone keyTier = iota
	tierID
	tierTimestamp
)

type recencyKey struct {
	tier keyTier
	at   time.Time
	id   float64
}

// recencyOf picks the record's own best key: updated_at, then created_at,
// then numeric id
func recencyOf(b models.Base) recencyKey {
	for _, raw := range []models.FlexString{b.UpdatedAt, b.CreatedAt} {
		if at, ok := parseTimestamp(raw.String()); ok {
			return recencyKey{tier: tierTimestamp, at: at}
		}
	}
	if id, err := strconv.ParseFloat(strings.TrimSpace(b.ID.String()), 64); err == nil {
		return recencyKey{tier: tierID, id: id}
	}
	return recencyKey{tier: tierNone}
}

func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// compareRecency orders newest first. Timestamp keys rank above id keys,
// which rank above records with no key.
func compareRecency(a, b recencyKey) int {
	if a.tier != b.tier {
		return cmp.Compare(b.tier, a.tier)
	}
	switch a.tier {
	case tierTimestamp:
		return b.at.Compare(a.at)
	case tierID:
		return cmp.Compare(b.id, a.id)
	}
	return 0
}

// SortByRecency sorts records in place, newest first. The sort is stable, so
// ties keep the order the sheet returned them in.
func SortByRecency[T models.Record](records []T) {
	type keyed struct {
		rec T
		key recencyKey
	}

	items := make([]keyed, len(records))
	for i, rec := range records {
		items[i] = keyed{rec: rec, key: recencyOf(rec.Meta())}
	}

	slices.SortStableFunc(items, func(a, b keyed) int {
		return compareRecency(a.key, b.key)
	})

	for i, item := range items {
		records[i] = item.rec
	}
}
