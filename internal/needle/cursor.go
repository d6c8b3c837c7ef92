// internal/needle/cursor.go
package needle

// Cursor answers membership queries for one ascending stream of hashes.
//
// The answer for every query equals a scan of the needles from the start that
// stops at the first needle >= h. When queries arrive in ascending order the
// cursor resumes where the previous query stopped, so a whole batch costs
// about O(|needles| + |batch|) comparisons instead of their product. A query
// smaller than its predecessor restarts from index 0.
//
// A Cursor is not safe for concurrent use; give each Matcher its own.
type Cursor struct {
	s    *Set
	pos  int
	prev string
}

// Cursor returns a fresh cursor positioned before the first needle.
func (s *Set) Cursor() *Cursor { return &Cursor{s: s} }

// Find returns the index of h in the set and whether it is present.
func (c *Cursor) Find(h string) (int, bool) {
	if c.s.filter != nil && !c.s.filter.TestString(h) {
		return -1, false
	}
	if h < c.prev {
		c.pos = 0
	}
	i := c.s.seek(c.pos, h)
	c.pos, c.prev = i, h
	if i < len(c.s.hashes) && c.s.hashes[i] == h {
		return i, true
	}
	return -1, false
}

// Reset rewinds the cursor to the first needle.
func (c *Cursor) Reset() { c.pos, c.prev = 0, "" }
