package assets

import (
	"strings"
)

// pathutils.go - pure materialized-path math for the asset hierarchy.
//
// A path is the "/"-joined names of a node and all its ancestors, always
// starting with "/": a root-level asset named "Videos" has path "/Videos".
// Nothing here touches storage; the engine decides when to apply these.

// ChildPath builds a child's path from its parent's path and its name.
// An empty parentPath means the child sits at the project root.
//
// Examples:
//   - ChildPath("/Videos", "intro.mp4") → "/Videos/intro.mp4"
//   - ChildPath("", "Videos") → "/Videos"
func ChildPath(parentPath, name string) string {
	return parentPath + "/" + name
}

// RenamedPath replaces only the final segment of a path with newName,
// leaving the ancestry untouched.
//
// Example: RenamedPath("/a/b", "c") → "/a/c"
func RenamedPath(oldPath, newName string) string {
	idx := strings.LastIndex(oldPath, "/")
	return oldPath[:idx+1] + newName
}

// ReplacePrefix substitutes a subtree prefix inside a descendant path.
// The caller guarantees path actually starts with oldPrefix.
func ReplacePrefix(path, oldPrefix, newPrefix string) string {
	return newPrefix + path[len(oldPrefix):]
}

// PathDepth returns the ancestor count encoded in a path: the number of
// "/" separators minus one. "/Videos" → 0, "/Videos/intro.mp4" → 1.
func PathDepth(path string) int {
	return strings.Count(path, "/") - 1
}

// IsSubtreePath reports whether candidate lies inside the subtree rooted
// at root (or is root itself). This is the cycle guard predicate: a node
// must never be moved or copied under a path inside its own subtree.
func IsSubtreePath(root, candidate string) bool {
	return candidate == root || strings.HasPrefix(candidate, root+"/")
}
