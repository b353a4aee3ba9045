package assets

import "testing"

func TestChildPath(t *testing.T) {
	tests := []struct {
		parentPath string
		name       string
		want       string
	}{
		{"", "Videos", "/Videos"},
		{"/Videos", "intro.mp4", "/Videos/intro.mp4"},
		{"/a/b", "c", "/a/b/c"},
	}
	for _, tt := range tests {
		if got := ChildPath(tt.parentPath, tt.name); got != tt.want {
			t.Errorf("ChildPath(%q, %q) = %q, want %q", tt.parentPath, tt.name, got, tt.want)
		}
	}
}

func TestRenamedPath(t *testing.T) {
	tests := []struct {
		oldPath string
		newName string
		want    string
	}{
		{"/Videos", "Clips", "/Clips"},
		{"/a/b", "c", "/a/c"},
		{"/a/b/old.mp4", "new.mp4", "/a/b/new.mp4"},
	}
	for _, tt := range tests {
		if got := RenamedPath(tt.oldPath, tt.newName); got != tt.want {
			t.Errorf("RenamedPath(%q, %q) = %q, want %q", tt.oldPath, tt.newName, got, tt.want)
		}
	}
}

func TestReplacePrefix(t *testing.T) {
	tests := []struct {
		path      string
		oldPrefix string
		newPrefix string
		want      string
	}{
		{"/Clips/intro.mp4", "/Clips", "/Archive/Clips", "/Archive/Clips/intro.mp4"},
		{"/a/b/c", "/a", "/x", "/x/b/c"},
		{"/Archive/Clips/intro.mp4", "/Archive/Clips", "/Clips", "/Clips/intro.mp4"},
	}
	for _, tt := range tests {
		if got := ReplacePrefix(tt.path, tt.oldPrefix, tt.newPrefix); got != tt.want {
			t.Errorf("ReplacePrefix(%q, %q, %q) = %q, want %q",
				tt.path, tt.oldPrefix, tt.newPrefix, got, tt.want)
		}
	}
}

func TestPathDepth(t *testing.T) {
	tests := []struct {
		path string
		want int
	}{
		{"/Videos", 0},
		{"/Videos/intro.mp4", 1},
		{"/a/b/c/d", 3},
	}
	for _, tt := range tests {
		if got := PathDepth(tt.path); got != tt.want {
			t.Errorf("PathDepth(%q) = %d, want %d", tt.path, got, tt.want)
		}
	}
}

func TestIsSubtreePath(t *testing.T) {
	tests := []struct {
		root      string
		candidate string
		want      bool
	}{
		{"/Archive", "/Archive", true},
		{"/Archive", "/Archive/Clips", true},
		{"/Archive", "/Archive/Clips/intro.mp4", true},
		{"/Archive", "/Archives", false}, // prefix of the name, not the subtree
		{"/Archive", "/Clips", false},
		{"/Archive/Clips", "/Archive", false},
	}
	for _, tt := range tests {
		if got := IsSubtreePath(tt.root, tt.candidate); got != tt.want {
			t.Errorf("IsSubtreePath(%q, %q) = %v, want %v", tt.root, tt.candidate, got, tt.want)
		}
	}
}
