package schema

// ColumnIndexSet is the resolved projection of a header: which positions to
// read from each row and under which names to emit them, in request order.
type ColumnIndexSet struct {
	names     []string
	positions []int
	missing   []string
}

// ProjectColumns resolves request against header. Each requested name maps
// to the first header position with exactly that name. Names absent from the
// header are dropped, and a position already selected is not selected again,
// so no row can produce a duplicate key.
func ProjectColumns(header, request []string) *ColumnIndexSet {
	first := make(map[string]int, len(header))
	for i, name := range header {
		if _, ok := first[name]; !ok {
			first[name] = i
		}
	}

	set := &ColumnIndexSet{
		names:     make([]string, 0, len(request)),
		positions: make([]int, 0, len(request)),
	}
	taken := make(map[int]bool, len(request))
	for _, name := range request {
		pos, ok := first[name]
		if !ok {
			set.missing = append(set.missing, name)
			continue
		}
		if taken[pos] {
			continue
		}
		taken[pos] = true
		set.names = append(set.names, name)
		set.positions = append(set.positions, pos)
	}
	return set
}

// Names returns the output keys in order
func (s *ColumnIndexSet) Names() []string { return s.names }

// Positions returns the header positions in output order
func (s *ColumnIndexSet) Positions() []int { return s.positions }

// Len returns the number of selected columns
func (s *ColumnIndexSet) Len() int { return len(s.names) }

// Missing returns requested names that matched nothing
func (s *ColumnIndexSet) Missing() []string { return s.missing }
