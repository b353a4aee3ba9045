package assets

import (
	"context"

	models "github.com/NIKHILENIGMA/pikzee-sub000/internal/domain/models/assets"
)

// AssetService is the asset hierarchy engine. Every operation takes the
// acting user's id (pre-authenticated by the HTTP layer) and runs its own
// permission check before touching the tree.
type AssetService interface {
	// Create inserts a new file or folder under an optional parent folder
	Create(ctx context.Context, req *CreateAssetRequest) (*models.Asset, error)

	// Rename changes an asset's name and rewrites every descendant path.
	// Renaming to the current name is a no-op.
	Rename(ctx context.Context, userID, assetID, projectID, newName string) (*models.Asset, error)

	// Move reparents a batch of assets under a target folder (nil = project
	// root). All assets move together or not at all.
	Move(ctx context.Context, req *BatchTargetRequest) ([]models.Asset, error)

	// Copy deep-copies a batch of assets (and their subtrees) under a
	// target folder. Clones get fresh ids; binary content is not duplicated.
	Copy(ctx context.Context, req *BatchTargetRequest) ([]models.Asset, error)

	// Delete removes an asset and its whole subtree
	Delete(ctx context.Context, userID, assetID, projectID string) error

	// ListByParent lists direct children of a folder (nil = project root),
	// ordered by name ascending
	ListByParent(ctx context.Context, userID, projectID string, parentID *string) ([]models.Asset, error)

	// GetByID returns a single asset scoped to a project
	GetByID(ctx context.Context, userID, assetID, projectID string) (*models.Asset, error)

	// MarkUploaded records that a file asset's bytes landed in storage:
	// size, storage key, optional thumbnail, upload state
	MarkUploaded(ctx context.Context, req *MarkUploadedRequest) (*models.Asset, error)
}

// CreateAssetRequest represents an asset creation request
type CreateAssetRequest struct {
	UserID    string           `json:"-"` // set by handler from auth context
	ProjectID string           `json:"-"` // set by handler from URL
	ParentID  *string          `json:"parent_id,omitempty"` // NULL = project root
	Name      string           `json:"name"`
	Kind      models.AssetKind `json:"kind"`
	MimeType  *string          `json:"mime_type,omitempty"`
}

// BatchTargetRequest represents a bulk move/copy request
type BatchTargetRequest struct {
	UserID         string   `json:"-"`
	ProjectID      string   `json:"-"`
	AssetIDs       []string `json:"asset_ids"`
	TargetParentID *string  `json:"target_parent_id"` // NULL = project root
}

// MarkUploadedRequest finalizes a file asset's upload lifecycle
type MarkUploadedRequest struct {
	UserID       string  `json:"-"`
	ProjectID    string  `json:"-"`
	AssetID      string  `json:"-"`
	SizeBytes    int64   `json:"size_bytes"`
	StorageKey   string  `json:"storage_key"`
	ThumbnailRef *string `json:"thumbnail_ref,omitempty"`
}
