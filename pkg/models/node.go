package models

// NodeKind discriminates what a tree node represents.
type NodeKind string

const (
	KindRoot        NodeKind = "root"
	KindWorkspace   NodeKind = "workspace"
	KindCollection  NodeKind = "collection"
	KindEnvironment NodeKind = "environment"
)

// NodeData is the payload carried by every tree node.
type NodeData struct {
	Name string   `json:"name"`
	Kind NodeKind `json:"kind"`
	Ref  Ref      `json:"__ref"`

	// ParentID is the identifier of the node whose children list holds this node.
	// It is empty for the root.
	ParentID string `json:"parentId,omitempty"`

	// Environment is set for environment nodes only.
	Environment *Environment `json:"environment,omitempty"`
}

func (d NodeData) IsRoot() bool        { return d.Kind == KindRoot }
func (d NodeData) IsWorkspace() bool   { return d.Kind == KindWorkspace }
func (d NodeData) IsCollection() bool  { return d.Kind == KindCollection }
func (d NodeData) IsEnvironment() bool { return d.Kind == KindEnvironment }

// RootData returns the payload of the synthetic root node.
func RootData() NodeData {
	return NodeData{Name: "root", Kind: KindRoot, Ref: Ref{ID: "root"}}
}

// WorkspaceData returns the payload for a workspace container node.
func WorkspaceData(ws Workspace, parentID string) NodeData {
	return NodeData{Name: ws.Name, Kind: KindWorkspace, Ref: ws.Ref, ParentID: parentID}
}

// CollectionData returns the payload for a collection container node.
func CollectionData(c Collection, parentID string) NodeData {
	return NodeData{Name: c.Name, Kind: KindCollection, Ref: c.Ref, ParentID: parentID}
}

// EnvironmentData returns the payload for an environment leaf.
func EnvironmentData(env Environment, parentID string) NodeData {
	clone := env.Clone()
	return NodeData{
		Name:        env.Name,
		Kind:        KindEnvironment,
		Ref:         env.Ref,
		ParentID:    parentID,
		Environment: &clone,
	}
}
