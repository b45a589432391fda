package model

import "workbench/internal/fsys"

// Version of workbench.
const Version = "0.2.0"

// TreeNode is one node of the scanned workspace tree. Trees are rebuilt
// wholesale on every scan; no node identity persists across scans.
type TreeNode struct {
	Name string         `json:"name"`
	Kind fsys.EntryKind `json:"kind"`
	// Path is slash-joined and root-relative; empty for the root node.
	Path string `json:"path"`
	// Children is non-nil for directories (possibly empty) and nil for files.
	Children []*TreeNode `json:"children,omitempty"`
	// Ref is the underlying file handle, set on leaves only.
	Ref fsys.File `json:"-"`
}

// IsDir reports whether the node is a directory.
func (n *TreeNode) IsDir() bool {
	return n.Kind == fsys.KindDir
}

// Find walks the tree to the node with the given root-relative path.
// Returns nil when no such node exists.
func (n *TreeNode) Find(path string) *TreeNode {
	if path == n.Path {
		return n
	}
	for _, c := range n.Children {
		if c.Path == path {
			return c
		}
		if c.IsDir() && hasPrefixSegment(path, c.Path) {
			return c.Find(path)
		}
	}
	return nil
}

// hasPrefixSegment reports whether prefix is a whole-segment ancestor of path.
func hasPrefixSegment(path, prefix string) bool {
	if prefix == "" {
		return true
	}
	return len(path) > len(prefix) && path[:len(prefix)] == prefix && path[len(prefix)] == '/'
}

// Walk calls fn for every node in depth-first order, directories before
// their children.
func (n *TreeNode) Walk(fn func(*TreeNode)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}
