// ABOUTME: Flat insertion-ordered child container keyed by child Rn string
// ABOUTME: Replaces nested per-class container iteration with one map

package mo

// childList holds the children of a managed object. The key is the child Rn
// string, which encodes both the child class prefix and its naming values.
// Iteration follows insertion order; query result ordering depends on it.
type childList struct {
	order []string
	byRn  map[string]*Mo
}

func newChildList() childList {
	return childList{byRn: make(map[string]*Mo)}
}

func (c *childList) insert(key string, m *Mo) {
	if _, ok := c.byRn[key]; !ok {
		c.order = append(c.order, key)
	}
	c.byRn[key] = m
}

func (c *childList) remove(key string) {
	if _, ok := c.byRn[key]; !ok {
		return
	}
	delete(c.byRn, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

func (c *childList) get(key string) (*Mo, bool) {
	m, ok := c.byRn[key]
	return m, ok
}

func (c *childList) all() []*Mo {
	mos := make([]*Mo, 0, len(c.order))
	for _, key := range c.order {
		mos = append(mos, c.byRn[key])
	}
	return mos
}

func (c *childList) len() int {
	return len(c.order)
}
