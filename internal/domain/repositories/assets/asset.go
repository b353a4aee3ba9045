package assets

import (
	"context"

	models "github.com/NIKHILENIGMA/pikzee-sub000/internal/domain/models/assets"
)

// AssetRepository defines data access operations for asset tree nodes.
// It owns no business rules: the engine decides what to write, the
// repository decides how.
type AssetRepository interface {
	// Create inserts a new asset row
	Create(ctx context.Context, asset *models.Asset) error

	// GetByID retrieves an asset by ID scoped to a project
	GetByID(ctx context.Context, id, projectID string) (*models.Asset, error)

	// GetByNameAndParent retrieves a sibling by name (nil parentID = project root)
	GetByNameAndParent(ctx context.Context, name string, parentID *string, projectID string) (*models.Asset, error)

	// ListByParent lists direct children ordered by name ascending
	ListByParent(ctx context.Context, parentID *string, projectID string) ([]models.Asset, error)

	// ListDescendants returns every asset whose path is under pathPrefix,
	// ordered by path so parents always precede their children
	ListDescendants(ctx context.Context, projectID, pathPrefix string) ([]models.Asset, error)

	// UpdateNode persists name/path/parent/depth and file attribute changes
	// for a single row
	UpdateNode(ctx context.Context, asset *models.Asset) error

	// ShiftSubtree rewrites the path prefix and adds depthDiff to the depth
	// of every descendant of oldPrefix in a single bulk statement
	ShiftSubtree(ctx context.Context, projectID, oldPrefix, newPrefix string, depthDiff int) error

	// BulkInsert inserts clone rows in batches
	BulkInsert(ctx context.Context, assets []models.Asset) error

	// Delete removes a single asset row
	Delete(ctx context.Context, id, projectID string) error

	// DeleteSubtree removes every descendant of pathPrefix
	DeleteSubtree(ctx context.Context, projectID, pathPrefix string) error

	// LockProject takes a transaction-scoped advisory lock serializing
	// structural mutations within a project. Must be called inside a
	// transaction; the lock releases on commit or rollback.
	LockProject(ctx context.Context, projectID string) error
}
