package menu

// Item is one entry of the read-only menu reference list. Items are
// ordered by ID and never mutated by this codebase.
type Item struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Names extracts the item names in reference order, used to populate
// selection dropdowns.
func Names(items []Item) []string {
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.Name
	}
	return names
}
