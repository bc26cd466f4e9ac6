package tree

// Snapshot is an immutable point-in-time view of a Tree. Every mutation
// produces a new Snapshot; readers holding an older one keep a consistent view.
type Snapshot struct {
	nodes Tree
}

// NewSnapshot takes ownership of t. Callers must not modify t afterwards.
func NewSnapshot(t Tree) *Snapshot {
	if t == nil {
		t = Tree{}
	}
	return &Snapshot{nodes: t}
}

// Get returns a copy of the node for id.
func (s *Snapshot) Get(id string) (Node, bool) {
	n, ok := s.nodes[id]
	if !ok {
		return Node{}, false
	}
	return n.Clone(), true
}

// Has reports whether id is present.
func (s *Snapshot) Has(id string) bool {
	_, ok := s.nodes[id]
	return ok
}

// Len returns the number of nodes, root included.
func (s *Snapshot) Len() int {
	return len(s.nodes)
}

// IDs returns all node identifiers in sorted order.
func (s *Snapshot) IDs() []string {
	return sortedKeys(s.nodes)
}

// Walk visits nodes depth-first from the root in display order. depth is 0
// for the root. Returning false from fn skips that node's children.
// Dangling child references are skipped.
func (s *Snapshot) Walk(fn func(n Node, depth int) bool) {
	root, ok := s.nodes[RootID]
	if !ok {
		return
	}
	visited := make(map[string]bool, len(s.nodes))
	var visit func(n Node, depth int)
	visit = func(n Node, depth int) {
		if visited[n.ID] {
			return
		}
		visited[n.ID] = true
		if !fn(n.Clone(), depth) {
			return
		}
		for _, c := range n.Children {
			if child, ok := s.nodes[c]; ok {
				visit(child, depth+1)
			}
		}
	}
	visit(root, 0)
}

// Validate checks the snapshot's structural invariants.
func (s *Snapshot) Validate() error {
	return s.nodes.Validate()
}

// Tree returns a detached copy of the underlying map.
func (s *Snapshot) Tree() Tree {
	out := make(Tree, len(s.nodes))
	for id, n := range s.nodes {
		out[id] = n.Clone()
	}
	return out
}

// With applies fn to a copy of the tree and returns the result as a new
// snapshot. If fn returns an error, s is left untouched and nil is returned.
func (s *Snapshot) With(fn func(t Tree) error) (*Snapshot, error) {
	next := s.nodes.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	return NewSnapshot(next), nil
}
