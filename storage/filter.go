package storage

import (
	"strconv"
	"strings"

	"resume-penelitian/models"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// AllValues is the "no constraint" choice offered by the list filters.
const AllValues = "Semua"

func unconstrained(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || v == AllValues
}

// Filter returns the records matching every non-empty criterion, in input order.
// Status, year and field match exactly; Search is a case-insensitive substring
// of judul or peneliti_utama.
func Filter(records []models.Research, f models.ResearchFilter) []models.Research {
	fold := cases.Fold()
	key := func(s string) string { return fold.String(norm.NFC.String(s)) }
	search := key(strings.TrimSpace(f.Search))

	out := make([]models.Research, 0, len(records))
	for _, r := range records {
		if !unconstrained(f.Status) && string(r.Status) != f.Status {
			continue
		}
		if !unconstrained(f.Year) && strconv.Itoa(r.Year) != strings.TrimSpace(f.Year) {
			continue
		}
		if !unconstrained(f.Field) && !r.HasField(f.Field) {
			continue
		}
		if search != "" &&
			!strings.Contains(key(r.Title), search) &&
			!strings.Contains(key(r.Author), search) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Merge concatenates existing and incoming, keeping only the first record seen
// for each id.
func Merge(existing, incoming []models.Research) []models.Research {
	seen := make(map[int]struct{}, len(existing)+len(incoming))
	out := make([]models.Research, 0, len(existing)+len(incoming))
	for _, batch := range [][]models.Research{existing, incoming} {
		for _, r := range batch {
			if _, dup := seen[r.ID]; dup {
				continue
			}
			seen[r.ID] = struct{}{}
			out = append(out, r)
		}
	}
	return out
}
