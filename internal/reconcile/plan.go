// Package reconcile brings the document store in line with the wiki: it
// diffs the two inventories and applies the resulting deletes and upserts.
package reconcile

import (
	"sort"

	"github.com/DjordjeVuckovic/encyc-front/internal/domain"
)

// Plan lists the ids to write and to remove. Both lists are sorted and
// never share an id.
type Plan struct {
	Upsert []string `json:"upsert"`
	Delete []string `json:"delete"`
}

func (p Plan) Empty() bool {
	return len(p.Upsert) == 0 && len(p.Delete) == 0
}

// Diff compares the authoritative source inventory with the index. An id is
// upserted when the index lacks it or holds an older version, and deleted
// when only the index has it. Entries with equal timestamps are left alone.
func Diff(source, index domain.Inventory) Plan {
	indexed := index.Index()
	current := source.Index()

	plan := Plan{Upsert: []string{}, Delete: []string{}}
	for id, src := range current {
		idx, ok := indexed[id]
		if !ok || src.Modified.After(idx.Modified) {
			plan.Upsert = append(plan.Upsert, id)
		}
	}
	for id := range indexed {
		if _, ok := current[id]; !ok {
			plan.Delete = append(plan.Delete, id)
		}
	}

	sort.Strings(plan.Upsert)
	sort.Strings(plan.Delete)
	return plan
}
