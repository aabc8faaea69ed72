package previews

import "sort"

// The bounded collections below back the per-preview stats. Each one
// names its eviction policy as a method so the policies are testable on
// their own, instead of being inlined in the aggregator.

// FifoSet is an append-ordered set with oldest-first eviction.
type FifoSet []string

// Contains reports whether v is already recorded.
func (s FifoSet) Contains(v string) bool {
	for _, existing := range s {
		if existing == v {
			return true
		}
	}
	return false
}

// Add appends v if absent, then evicts from the front until at most
// max entries remain.
func (s FifoSet) Add(v string, max int) FifoSet {
	if s.Contains(v) {
		return s
	}
	s = append(s, v)
	for len(s) > max {
		s = s[1:]
	}
	return s
}

// DateCounts maps YYYY-MM-DD dates to view counts.
type DateCounts map[string]int

// Bump increments the counter for day.
func (m DateCounts) Bump(day string) {
	m[day]++
}

// PruneBefore removes every entry strictly older than cutoff. ISO dates
// order lexicographically, so plain string comparison is enough.
func (m DateCounts) PruneBefore(cutoff string) {
	for day := range m {
		if day < cutoff {
			delete(m, day)
		}
	}
}

// TopCounts maps labels to counts, bounded to the top entries by count.
type TopCounts map[string]int

// Bump increments the counter for key.
func (m TopCounts) Bump(key string) {
	m[key]++
}

// KeepTop evicts all but the n highest-counted entries. Ties break
// deterministically on the key itself so repeated runs agree.
func (m TopCounts) KeepTop(n int) {
	if len(m) <= n {
		return
	}

	type entry struct {
		key   string
		count int
	}
	entries := make([]entry, 0, len(m))
	for k, c := range m {
		entries = append(entries, entry{key: k, count: c})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].key < entries[j].key
	})

	for _, e := range entries[n:] {
		delete(m, e.key)
	}
}
