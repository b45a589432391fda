// Package schema implements the positional allow/deny rules of the
// workspace layout:
//
//	projects/<name>/overview.md
//	projects/<name>/features/<feature>/feature.md
//	projects/<name>/features/<feature>/agents/<agent>/{task-instructions.md,status.md}
//	features/<feature>/...                     (same shape, minus the project)
//
// Anything the rules don't recognize is rejected, which keeps editor
// metadata and stray user files out of the scanned tree.
package schema

import (
	"strings"

	"workbench/internal/fsys"
)

// Allowed reports whether a child named name of the given kind may exist
// directly under parentPath. parentPath is the slash-joined, root-relative
// path of the directory being listed ("" for the workspace root). Pure and
// total: unknown positions are rejected.
func Allowed(name string, kind fsys.EntryKind, parentPath string) bool {
	segs := Segments(parentPath)
	isDir := kind == fsys.KindDir

	switch {
	case len(segs) == 0:
		// Root: only the two top-level buckets, no files.
		return isDir && (name == "projects" || name == "features")

	case segs[0] == "projects":
		switch len(segs) {
		case 1:
			// projects/: any project directory.
			return isDir
		case 2:
			// projects/<p>/: the features bucket plus the overview file.
			if isDir {
				return name == "features"
			}
			return name == "overview.md"
		case 3:
			// projects/<p>/features/: any feature directory.
			return segs[2] == "features" && isDir
		case 4:
			return segs[2] == "features" && featureFolderChild(name, isDir)
		case 5:
			return segs[2] == "features" && segs[4] == "agents" && isDir
		case 6:
			return segs[2] == "features" && segs[4] == "agents" && agentFolderChild(name, isDir)
		}

	case segs[0] == "features":
		switch len(segs) {
		case 1:
			return isDir
		case 2:
			return featureFolderChild(name, isDir)
		case 3:
			return segs[2] == "agents" && isDir
		case 4:
			return segs[2] == "agents" && agentFolderChild(name, isDir)
		}
	}
	return false
}

// featureFolderChild: a feature folder holds its agents bucket and feature.md.
func featureFolderChild(name string, isDir bool) bool {
	if isDir {
		return name == "agents"
	}
	return name == "feature.md"
}

// agentFolderChild: an agent folder holds exactly two files and no subdirectories.
func agentFolderChild(name string, isDir bool) bool {
	if isDir {
		return false
	}
	return name == "task-instructions.md" || name == "status.md"
}

// Segments splits a root-relative path; the root path "" has no segments.
func Segments(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// FeatureSegments returns the directory segments under which feature folders
// live: ["features"] for top-level features, or
// ["projects", project, "features"] when a project is given.
func FeatureSegments(project string) []string {
	if project == "" {
		return []string{"features"}
	}
	return []string{"projects", project, "features"}
}

// IsFeatureDir reports whether path addresses a feature folder.
func IsFeatureDir(path string) bool {
	segs := Segments(path)
	switch len(segs) {
	case 2:
		return segs[0] == "features"
	case 4:
		return segs[0] == "projects" && segs[2] == "features"
	}
	return false
}

// IsAgentDir reports whether path addresses an agent folder.
func IsAgentDir(path string) bool {
	segs := Segments(path)
	switch len(segs) {
	case 4:
		return segs[0] == "features" && segs[2] == "agents"
	case 6:
		return segs[0] == "projects" && segs[2] == "features" && segs[4] == "agents"
	}
	return false
}
