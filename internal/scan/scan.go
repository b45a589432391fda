// Package scan builds the typed workspace tree by walking a directory
// capability and filtering every entry through the schema rules.
package scan

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"workbench/internal/fsys"
	"workbench/internal/model"
	"workbench/internal/schema"
)

// Scan walks root depth-first and returns the filtered, sorted tree. A
// listing failure anywhere below the root is logged and yields a partial
// subtree at that directory; it never aborts the scan. Passing an invalid
// root handle is a caller error.
func Scan(ctx context.Context, root fsys.Dir) *model.TreeNode {
	return scanDir(ctx, root, "")
}

func scanDir(ctx context.Context, dir fsys.Dir, path string) *model.TreeNode {
	node := &model.TreeNode{
		Name:     dir.Name(),
		Kind:     fsys.KindDir,
		Path:     path,
		Children: []*model.TreeNode{},
	}

	entries, err := dir.List(ctx)
	if err != nil {
		slog.Warn("scan: directory listing failed", "path", path, "error", err)
		return node
	}

	for _, e := range entries {
		// The verdict is "may this child exist here", so classification
		// uses the parent's path, not the child's.
		if !schema.Allowed(e.Name, e.Kind, path) {
			continue
		}

		childPath := e.Name
		if path != "" {
			childPath = path + "/" + e.Name
		}

		switch e.Kind {
		case fsys.KindDir:
			sub, err := dir.Dir(ctx, e.Name, false)
			if err != nil {
				slog.Warn("scan: open directory failed", "path", childPath, "error", err)
				continue
			}
			node.Children = append(node.Children, scanDir(ctx, sub, childPath))
		case fsys.KindFile:
			f, err := dir.File(ctx, e.Name, false)
			if err != nil {
				slog.Warn("scan: open file failed", "path", childPath, "error", err)
				continue
			}
			node.Children = append(node.Children, &model.TreeNode{
				Name: e.Name,
				Kind: fsys.KindFile,
				Path: childPath,
				Ref:  f,
			})
		}
	}

	SortChildren(node.Children)
	return node
}

// SortChildren orders siblings directories-first, then by name ascending,
// comparing case-insensitively before falling back to a byte compare.
// Idempotent: the sort is stable and re-sorting changes nothing.
func SortChildren(children []*model.TreeNode) {
	sort.SliceStable(children, func(i, j int) bool {
		a, b := children[i], children[j]
		if a.IsDir() != b.IsDir() {
			return a.IsDir()
		}
		an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
		if an != bn {
			return an < bn
		}
		return a.Name < b.Name
	})
}
