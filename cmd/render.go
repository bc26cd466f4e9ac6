package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/grovetools/envtree/pkg/models"
	"github.com/grovetools/envtree/pkg/tree"
)

// NodeView is the nested JSON form of a tree.
type NodeView struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Kind     models.NodeKind   `json:"kind"`
	Children []NodeView        `json:"children,omitempty"`
	Vars     map[string]string `json:"variables,omitempty"`
}

// buildView nests the snapshot below the root, following display order.
func buildView(snap *tree.Snapshot) NodeView {
	var build func(id string, seen map[string]bool) NodeView
	build = func(id string, seen map[string]bool) NodeView {
		n, _ := snap.Get(id)
		seen[id] = true
		view := NodeView{ID: n.ID, Name: n.Data.Name, Kind: n.Data.Kind}
		if n.Data.Environment != nil {
			view.Vars = n.Data.Environment.Variables
		}
		for _, c := range n.Children {
			if seen[c] || !snap.Has(c) {
				continue
			}
			view.Children = append(view.Children, build(c, seen))
		}
		return view
	}
	return build(tree.RootID, map[string]bool{})
}

// renderText writes one line per node, indented by depth. The root is not
// printed.
func renderText(w io.Writer, snap *tree.Snapshot, showIDs bool) {
	snap.Walk(func(n tree.Node, depth int) bool {
		if depth == 0 {
			return true
		}
		line := strings.Repeat("  ", depth-1) + n.Data.Name
		if n.HasChildren {
			line += "/"
		}
		if showIDs {
			line += fmt.Sprintf(" [%s]", n.ID)
		}
		fmt.Fprintln(w, line)
		return true
	})
}
