package assets

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/NIKHILENIGMA/pikzee-sub000/internal/domain"
	models "github.com/NIKHILENIGMA/pikzee-sub000/internal/domain/models/assets"
	assetRepo "github.com/NIKHILENIGMA/pikzee-sub000/internal/domain/repositories/assets"
	"github.com/NIKHILENIGMA/pikzee-sub000/internal/repository/postgres"
)

const assetColumns = `id, workspace_id, project_id, parent_id, name, kind, path, depth,
	mime_type, size_bytes, storage_key, thumbnail_ref, upload_state,
	created_by, created_at, updated_at`

// insertBatchSize bounds the number of clone rows per pgx batch round-trip.
const insertBatchSize = 500

// PostgresAssetRepository implements the AssetRepository interface
type PostgresAssetRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewAssetRepository creates a new asset repository
func NewAssetRepository(config *postgres.RepositoryConfig) assetRepo.AssetRepository {
	return &PostgresAssetRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

func scanAsset(row pgx.Row, a *models.Asset) error {
	return row.Scan(
		&a.ID,
		&a.WorkspaceID,
		&a.ProjectID,
		&a.ParentID,
		&a.Name,
		&a.Kind,
		&a.Path,
		&a.Depth,
		&a.MimeType,
		&a.SizeBytes,
		&a.StorageKey,
		&a.ThumbnailRef,
		&a.UploadState,
		&a.CreatedBy,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
}

// escapeLike escapes LIKE metacharacters in a path prefix so that names
// containing % or _ cannot widen a descendant-range query.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// Create inserts a new asset row
func (r *PostgresAssetRepository) Create(ctx context.Context, asset *models.Asset) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`, r.tables.Assets, assetColumns)

	executor := postgres.GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		asset.ID,
		asset.WorkspaceID,
		asset.ProjectID,
		asset.ParentID,
		asset.Name,
		asset.Kind,
		asset.Path,
		asset.Depth,
		asset.MimeType,
		asset.SizeBytes,
		asset.StorageKey,
		asset.ThumbnailRef,
		asset.UploadState,
		asset.CreatedBy,
		asset.CreatedAt,
		asset.UpdatedAt,
	)

	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("an asset named %q already exists in this location", asset.Name),
				ResourceType: "asset",
			}
		}
		// Parent or project row vanished between the pre-flight read and
		// the insert
		if postgres.IsPgForeignKeyError(err) {
			return &domain.ValidationError{Message: "parent folder no longer exists"}
		}
		return fmt.Errorf("create asset: %w", err)
	}

	return nil
}

// GetByID retrieves an asset by ID scoped to a project
func (r *PostgresAssetRepository) GetByID(ctx context.Context, id, projectID string) (*models.Asset, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND project_id = $2
	`, assetColumns, r.tables.Assets)

	var asset models.Asset
	executor := postgres.GetExecutor(ctx, r.pool)
	err := scanAsset(executor.QueryRow(ctx, query, id, projectID), &asset)

	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("asset %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get asset: %w", err)
	}

	return &asset, nil
}

// GetByNameAndParent retrieves a sibling by name (nil parentID = project root)
func (r *PostgresAssetRepository) GetByNameAndParent(ctx context.Context, name string, parentID *string, projectID string) (*models.Asset, error) {
	var query string
	var args []interface{}

	if parentID != nil {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE project_id = $1 AND parent_id = $2 AND name = $3
		`, assetColumns, r.tables.Assets)
		args = []interface{}{projectID, *parentID, name}
	} else {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE project_id = $1 AND parent_id IS NULL AND name = $2
		`, assetColumns, r.tables.Assets)
		args = []interface{}{projectID, name}
	}

	var asset models.Asset
	executor := postgres.GetExecutor(ctx, r.pool)
	err := scanAsset(executor.QueryRow(ctx, query, args...), &asset)

	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("asset %q: %w", name, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get asset by name: %w", err)
	}

	return &asset, nil
}

// ListByParent lists direct children ordered by name ascending
func (r *PostgresAssetRepository) ListByParent(ctx context.Context, parentID *string, projectID string) ([]models.Asset, error) {
	var query string
	var args []interface{}

	if parentID != nil {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE project_id = $1 AND parent_id = $2
			ORDER BY name ASC
		`, assetColumns, r.tables.Assets)
		args = []interface{}{projectID, *parentID}
	} else {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE project_id = $1 AND parent_id IS NULL
			ORDER BY name ASC
		`, assetColumns, r.tables.Assets)
		args = []interface{}{projectID}
	}

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	var result []models.Asset
	for rows.Next() {
		var asset models.Asset
		if err := scanAsset(rows, &asset); err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		result = append(result, asset)
	}

	return result, rows.Err()
}

// ListDescendants returns every asset under pathPrefix ordered by path so
// parents always precede their children.
func (r *PostgresAssetRepository) ListDescendants(ctx context.Context, projectID, pathPrefix string) ([]models.Asset, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE project_id = $1 AND path LIKE $2 ESCAPE '\'
		ORDER BY path ASC
	`, assetColumns, r.tables.Assets)

	pattern := escapeLike(pathPrefix) + "/%"

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, projectID, pattern)
	if err != nil {
		return nil, fmt.Errorf("list descendants: %w", err)
	}
	defer rows.Close()

	var result []models.Asset
	for rows.Next() {
		var asset models.Asset
		if err := scanAsset(rows, &asset); err != nil {
			return nil, fmt.Errorf("scan descendant: %w", err)
		}
		result = append(result, asset)
	}

	return result, rows.Err()
}

// UpdateNode persists structural and file-attribute changes for a single row
func (r *PostgresAssetRepository) UpdateNode(ctx context.Context, asset *models.Asset) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $3, parent_id = $4, path = $5, depth = $6,
		    mime_type = $7, size_bytes = $8, storage_key = $9,
		    thumbnail_ref = $10, upload_state = $11, updated_at = $12
		WHERE id = $1 AND project_id = $2
	`, r.tables.Assets)

	executor := postgres.GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query,
		asset.ID,
		asset.ProjectID,
		asset.Name,
		asset.ParentID,
		asset.Path,
		asset.Depth,
		asset.MimeType,
		asset.SizeBytes,
		asset.StorageKey,
		asset.ThumbnailRef,
		asset.UploadState,
		asset.UpdatedAt,
	)

	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("an asset named %q already exists in this location", asset.Name),
				ResourceType: "asset",
			}
		}
		return fmt.Errorf("update asset: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("asset %s: %w", asset.ID, domain.ErrNotFound)
	}

	return nil
}

// ShiftSubtree rewrites the path prefix and adjusts the depth of every
// descendant in one bulk statement, bounding round-trips regardless of
// subtree size.
func (r *PostgresAssetRepository) ShiftSubtree(ctx context.Context, projectID, oldPrefix, newPrefix string, depthDiff int) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET path = $4 || substring(path FROM char_length($3::text) + 1),
		    depth = depth + $5,
		    updated_at = now()
		WHERE project_id = $1 AND path LIKE $2 ESCAPE '\'
	`, r.tables.Assets)

	pattern := escapeLike(oldPrefix) + "/%"

	executor := postgres.GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, projectID, pattern, oldPrefix, newPrefix, depthDiff)
	if err != nil {
		return fmt.Errorf("shift subtree: %w", err)
	}

	r.logger.Debug("subtree shifted",
		"project_id", projectID,
		"old_prefix", oldPrefix,
		"new_prefix", newPrefix,
		"depth_diff", depthDiff,
		"rows", tag.RowsAffected(),
	)

	return nil
}

// BulkInsert inserts clone rows in batches
func (r *PostgresAssetRepository) BulkInsert(ctx context.Context, assets []models.Asset) error {
	if len(assets) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`, r.tables.Assets, assetColumns)

	executor := postgres.GetExecutor(ctx, r.pool)

	for start := 0; start < len(assets); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(assets) {
			end = len(assets)
		}

		batch := &pgx.Batch{}
		for i := start; i < end; i++ {
			a := assets[i]
			batch.Queue(query,
				a.ID, a.WorkspaceID, a.ProjectID, a.ParentID, a.Name, a.Kind,
				a.Path, a.Depth, a.MimeType, a.SizeBytes, a.StorageKey,
				a.ThumbnailRef, a.UploadState, a.CreatedBy, a.CreatedAt, a.UpdatedAt,
			)
		}

		results := executor.SendBatch(ctx, batch)
		if err := results.Close(); err != nil {
			if postgres.IsPgDuplicateError(err) {
				return &domain.ConflictError{
					Message:      "an asset with the same name already exists in the target location",
					ResourceType: "asset",
				}
			}
			if postgres.IsPgForeignKeyError(err) {
				return &domain.ValidationError{Message: "target folder no longer exists"}
			}
			return fmt.Errorf("bulk insert assets: %w", err)
		}
	}

	return nil
}

// Delete removes a single asset row
func (r *PostgresAssetRepository) Delete(ctx context.Context, id, projectID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND project_id = $2
	`, r.tables.Assets)

	executor := postgres.GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, id, projectID)
	if err != nil {
		return fmt.Errorf("delete asset: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("asset %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// DeleteSubtree removes every descendant of pathPrefix
func (r *PostgresAssetRepository) DeleteSubtree(ctx context.Context, projectID, pathPrefix string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE project_id = $1 AND path LIKE $2 ESCAPE '\'
	`, r.tables.Assets)

	pattern := escapeLike(pathPrefix) + "/%"

	executor := postgres.GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, projectID, pattern)
	if err != nil {
		return fmt.Errorf("delete subtree: %w", err)
	}

	r.logger.Debug("subtree deleted",
		"project_id", projectID,
		"path_prefix", pathPrefix,
		"rows", tag.RowsAffected(),
	)

	return nil
}

// LockProject takes a transaction-scoped advisory lock serializing
// structural mutations within a project. The lock releases automatically
// on commit or rollback.
func (r *PostgresAssetRepository) LockProject(ctx context.Context, projectID string) error {
	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, projectID); err != nil {
		return fmt.Errorf("lock project: %w", err)
	}
	return nil
}
