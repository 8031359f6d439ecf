// Package groups holds the gene-group data model: a Group's metadata and
// member list, and the label-to-group-ids index used by the crosstalk
// counter.
package groups

// Group is one gene set loaded from a group file, after filtering members
// to those present in the network.
type Group struct {
	ID          string
	System      string
	Species     string
	Description string
	SourcePath  string
	Members     []string // uppercased labels, ordered as first seen
}

// Len returns the number of members retained in the network.
func (g *Group) Len() int { return len(g.Members) }

// GeneGroupMap maps a node label to the ordered set of group ids it
// belongs to. Ordering is preserved for reproducibility even though lookup
// is set-like.
type GeneGroupMap struct {
	byLabel map[string][]string
	seen    map[string]map[string]bool
}

// NewGeneGroupMap returns an empty map.
func NewGeneGroupMap() *GeneGroupMap {
	return &GeneGroupMap{
		byLabel: make(map[string][]string),
		seen:    make(map[string]map[string]bool),
	}
}

// Add registers label as a member of groupID, ignoring duplicate
// (label, groupID) pairs.
func (m *GeneGroupMap) Add(label, groupID string) {
	if m.seen[label] == nil {
		m.seen[label] = make(map[string]bool)
	}
	if m.seen[label][groupID] {
		return
	}
	m.seen[label][groupID] = true
	m.byLabel[label] = append(m.byLabel[label], groupID)
}

// GroupsOf returns the group ids label belongs to, in insertion order. The
// caller must not mutate the returned slice.
func (m *GeneGroupMap) GroupsOf(label string) []string {
	return m.byLabel[label]
}

// Contains reports whether label belongs to groupID.
func (m *GeneGroupMap) Contains(label, groupID string) bool {
	return m.seen[label] != nil && m.seen[label][groupID]
}

// BuildGeneGroupMap indexes a slice of groups by member label.
func BuildGeneGroupMap(gs []*Group) *GeneGroupMap {
	m := NewGeneGroupMap()
	for _, g := range gs {
		for _, label := range g.Members {
			m.Add(label, g.ID)
		}
	}
	return m
}

// Filter discards groups whose member count (after network-presence
// filtering, which must already have happened) is below minSize.
func Filter(gs []*Group, minSize int) []*Group {
	out := make([]*Group, 0, len(gs))
	for _, g := range gs {
		if g.Len() >= minSize {
			out = append(out, g)
		}
	}
	return out
}
