package dirsum

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
)

type (
	// HashEntry pairs a content digest with the path it was computed from.
	HashEntry struct {
		Digest Digest
		Path   string
	}
	// HashTable accumulates digest/path pairs. Sort puts them into the
	// canonical order: digest bytes first, path bytes to break ties.
	HashTable struct {
		entries []HashEntry
		sorted  bool
	}
)

// Iterate calls yield for each entry in current order until yield returns
// false.
func (t *HashTable) Iterate(yield func(HashEntry) bool) {
	for _, entry := range t.entries {
		if !yield(entry) {
			return
		}
	}
}

// Add appends an entry. The table is considered unsorted afterwards.
func (t *HashTable) Add(e HashEntry) {
	t.sorted = false
	t.entries = append(t.entries, e)
}

// Get returns the entry at index, or a zero entry when out of range.
func (t *HashTable) Get(index int) HashEntry {
	if index < 0 || index >= len(t.entries) {
		return HashEntry{}
	}
	return t.entries[index]
}

// Sort orders entries by digest bytes, breaking ties on path bytes.
// Sorting an already sorted table is a no-op.
func (t *HashTable) Sort() {
	if t.sorted {
		return
	}
	sort.Sort(t)
	t.sorted = true
}

func (t *HashTable) Len() int {
	return len(t.entries)
}

func (t *HashTable) Swap(i, j int) {
	t.entries[i], t.entries[j] = t.entries[j], t.entries[i]
}

func (t *HashTable) Less(i, j int) bool {
	if c := bytes.Compare(t.entries[i].Digest[:], t.entries[j].Digest[:]); c != 0 {
		return c < 0
	}
	return t.entries[i].Path < t.entries[j].Path
}

// render writes one line per entry in current order, in the form sha256sum
// prints: 64 hex characters, two spaces, the path, a newline.
func (t *HashTable) render(w io.Writer) error {
	for _, e := range t.entries {
		if _, err := fmt.Fprintf(w, "%x  %s\n", e.Digest[:], e.Path); err != nil {
			return err
		}
	}
	return nil
}

// String renders the table in current order. An empty table renders as "".
func (t *HashTable) String() string {
	var sb strings.Builder
	t.render(&sb)
	return sb.String()
}

// ParseHashTable reads a table back from its rendered form. Entries keep
// file order; the result is not assumed sorted.
func ParseHashTable(r io.Reader) (*HashTable, error) {
	t := &HashTable{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if text == "" {
			continue
		}
		hexPart, path, found := strings.Cut(text, "  ")
		if !found {
			return nil, fmt.Errorf("line %d: missing digest separator", line)
		}
		d, err := ParseDigest(hexPart)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		t.Add(HashEntry{Digest: d, Path: path})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return t, nil
}
