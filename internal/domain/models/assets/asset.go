package assets

import (
	"time"
)

// AssetKind discriminates folders from files in the hierarchy.
type AssetKind string

const (
	KindFile   AssetKind = "FILE"
	KindFolder AssetKind = "FOLDER"
)

// UploadState tracks the upload lifecycle of a file asset.
// Folders never carry an upload state.
type UploadState string

const (
	UploadPending  UploadState = "PENDING"
	UploadComplete UploadState = "UPLOADED"
	UploadFailed   UploadState = "FAILED"
)

// Asset is a node in a project's folder/file tree.
//
// Path is the materialized path: the "/"-joined names of the node and all
// its ancestors, so a root-level asset has path "/name". Depth is the
// ancestor count (root level = 0). Both are stored, not computed, and every
// structural mutation must keep them consistent across the whole subtree.
type Asset struct {
	ID           string       `json:"id" db:"id"`
	WorkspaceID  string       `json:"workspace_id" db:"workspace_id"`
	ProjectID    string       `json:"project_id" db:"project_id"`
	ParentID     *string      `json:"parent_id" db:"parent_id"` // NULL = project root level
	Name         string       `json:"name" db:"name"`
	Kind         AssetKind    `json:"kind" db:"kind"`
	Path         string       `json:"path" db:"path"`
	Depth        int          `json:"depth" db:"depth"`
	MimeType     *string      `json:"mime_type,omitempty" db:"mime_type"`
	SizeBytes    *int64       `json:"size_bytes,omitempty" db:"size_bytes"`
	StorageKey   *string      `json:"storage_key,omitempty" db:"storage_key"`
	ThumbnailRef *string      `json:"thumbnail_ref,omitempty" db:"thumbnail_ref"`
	UploadState  *UploadState `json:"upload_state,omitempty" db:"upload_state"`
	CreatedBy    string       `json:"created_by" db:"created_by"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`
}

// IsFolder reports whether the asset can contain children.
func (a *Asset) IsFolder() bool {
	return a.Kind == KindFolder
}
