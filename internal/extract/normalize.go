package extract

import (
	"sort"

	"github.com/ark9164-create/torscrape/internal/domain"
)

// Dedupe collapses slots to one record per (time, price) pair and sorts the
// result by time then price. Within a run the date is constant, so this
// enforces (date, time, price) uniqueness. Later records win, which lets
// DOM-scraped slots refine earlier network captures of the same pair.
func Dedupe(slots []domain.PriceSlot) []domain.PriceSlot {
	type key struct{ time, price string }

	uniq := make(map[key]domain.PriceSlot, len(slots))
	for _, s := range slots {
		uniq[key{s.Time, s.Price}] = s
	}

	out := make([]domain.PriceSlot, 0, len(uniq))
	for _, s := range uniq {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Time != out[j].Time {
			return out[i].Time < out[j].Time
		}
		return out[i].Price < out[j].Price
	})
	return out
}
