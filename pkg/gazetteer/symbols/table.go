package symbols

// Table maps normalized token text to compact integer ids.
//
// Ids are dense and assigned in first-seen order, so id order is insertion
// order regardless of map iteration. Texts and counts live in parallel
// slices indexed by id; the map is only used for text -> id.
//
// Intern mutates the table and is meant for the build phase only. After the
// build completes the table is read-only and safe for concurrent Lookup.
type Table struct {
	ids    map[string]int
	texts  []string
	counts []int
}

// New creates an empty table.
func New() *Table {
	return &Table{ids: make(map[string]int)}
}

// Intern returns the id for text, assigning the next id on first sight, and
// increments the occurrence count of that id.
func (t *Table) Intern(text string) int {
	id, ok := t.ids[text]
	if !ok {
		id = len(t.texts)
		t.ids[text] = id
		t.texts = append(t.texts, text)
		t.counts = append(t.counts, 0)
	}
	t.counts[id]++
	return id
}

// Lookup returns the id for text without modifying the table.
func (t *Table) Lookup(text string) (int, bool) {
	id, ok := t.ids[text]
	return id, ok
}

// Text returns the token text for id, or "" if id is unknown.
func (t *Table) Text(id int) string {
	if id < 0 || id >= len(t.texts) {
		return ""
	}
	return t.texts[id]
}

// Count returns how many times id was interned.
func (t *Table) Count(id int) int {
	if id < 0 || id >= len(t.counts) {
		return 0
	}
	return t.counts[id]
}

// Counts returns a copy of all occurrence counts, indexed by id.
func (t *Table) Counts() []int {
	out := make([]int, len(t.counts))
	copy(out, t.counts)
	return out
}

// Len returns the number of distinct tokens.
func (t *Table) Len() int {
	return len(t.texts)
}
