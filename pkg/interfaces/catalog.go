package interfaces

// Catalog is the per-element vocabulary of defect names, bucketed by severity.
// Each bucket is an insertion-ordered set.
type Catalog struct {
	Minor       []string `json:"minor" yaml:"minor"`
	Significant []string `json:"significant" yaml:"significant"`
	Serious     []string `json:"serious" yaml:"serious"`
}

func (c *Catalog) bucket(s Severity) *[]string {
	switch s {
	case SeverityMinor:
		return &c.Minor
	case SeveritySignificant:
		return &c.Significant
	case SeveritySerious:
		return &c.Serious
	default:
		return nil
	}
}

// Names returns the names cataloged under severity s.
func (c Catalog) Names(s Severity) []string {
	b := c.bucket(s)
	if b == nil {
		return nil
	}
	return *b
}

// Has reports whether name is cataloged under severity s.
func (c Catalog) Has(s Severity, name string) bool {
	for _, n := range c.Names(s) {
		if n == name {
			return true
		}
	}
	return false
}

// Add inserts the names not yet present under severity s and returns how many
// were inserted. Empty names are ignored.
func (c *Catalog) Add(s Severity, names ...string) int {
	b := c.bucket(s)
	if b == nil {
		return 0
	}
	added := 0
	for _, name := range names {
		if name == "" || c.Has(s, name) {
			continue
		}
		*b = append(*b, name)
		added++
	}
	return added
}

// Remove deletes the names from severity s and returns the ones that were present.
func (c *Catalog) Remove(s Severity, names ...string) []string {
	b := c.bucket(s)
	if b == nil {
		return nil
	}
	drop := make(map[string]bool, len(names))
	for _, name := range names {
		drop[name] = true
	}

	var removed []string
	kept := (*b)[:0:0]
	for _, n := range *b {
		if drop[n] {
			removed = append(removed, n)
			continue
		}
		kept = append(kept, n)
	}
	*b = kept
	return removed
}

// Len returns the total number of cataloged names.
func (c Catalog) Len() int {
	return len(c.Minor) + len(c.Significant) + len(c.Serious)
}
