package domain

import "time"

type InventoryKind string

const (
	KindAuthor  InventoryKind = "author"
	KindArticle InventoryKind = "article"
)

// InventoryEntry describes one record on one side of a reconciliation.
type InventoryEntry struct {
	ID       string        `json:"id"`
	Modified time.Time     `json:"modified"`
	Kind     InventoryKind `json:"kind"`
}

type Inventory []InventoryEntry

// Index returns the entries keyed by ID. Later duplicates win.
func (inv Inventory) Index() map[string]InventoryEntry {
	m := make(map[string]InventoryEntry, len(inv))
	for _, e := range inv {
		m[e.ID] = e
	}
	return m
}

// IDs returns the entry IDs in inventory order.
func (inv Inventory) IDs() []string {
	ids := make([]string, 0, len(inv))
	for _, e := range inv {
		ids = append(ids, e.ID)
	}
	return ids
}
