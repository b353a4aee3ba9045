package assets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/NIKHILENIGMA/pikzee-sub000/internal/config"
	"github.com/NIKHILENIGMA/pikzee-sub000/internal/domain"
	models "github.com/NIKHILENIGMA/pikzee-sub000/internal/domain/models/assets"
	"github.com/NIKHILENIGMA/pikzee-sub000/internal/domain/repositories"
	assetRepo "github.com/NIKHILENIGMA/pikzee-sub000/internal/domain/repositories/assets"
	assetsSvc "github.com/NIKHILENIGMA/pikzee-sub000/internal/domain/services/assets"
)

var assetNamePattern = regexp.MustCompile(`^[^/]+$`)

// copyNameAttempts bounds how many "(copy N)" suffixes Copy tries before
// giving up on a crowded target folder.
const copyNameAttempts = 100

type assetService struct {
	assetRepo assetRepo.AssetRepository
	gate      assetsSvc.PermissionGate
	txManager repositories.TransactionManager
	logger    *slog.Logger
}

// NewAssetService creates the asset hierarchy engine
func NewAssetService(
	assetRepo assetRepo.AssetRepository,
	gate assetsSvc.PermissionGate,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) assetsSvc.AssetService {
	return &assetService{
		assetRepo: assetRepo,
		gate:      gate,
		txManager: txManager,
		logger:    logger,
	}
}

// targetContext is the resolved move/copy destination: the base path new
// children hang off and the depth they land at.
type targetContext struct {
	parentID *string
	basePath string // "" at project root
	depth    int
}

// Create inserts a new file or folder under an optional parent folder
func (s *assetService) Create(ctx context.Context, req *assetsSvc.CreateAssetRequest) (*models.Asset, error) {
	scope, err := s.gate.ResolveMutate(ctx, req.UserID, req.ProjectID)
	if err != nil {
		return nil, err
	}

	// Normalize empty string to nil for root-level assets
	if req.ParentID != nil && *req.ParentID == "" {
		req.ParentID = nil
	}
	req.Name = strings.TrimSpace(req.Name)

	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	// Parent fetch and sibling-collision check are independent reads;
	// run them concurrently.
	var parent *models.Asset
	g, gctx := errgroup.WithContext(ctx)

	if req.ParentID != nil {
		g.Go(func() error {
			p, err := s.assetRepo.GetByID(gctx, *req.ParentID, req.ProjectID)
			if err != nil {
				return fmt.Errorf("parent folder: %w", err)
			}
			if !p.IsFolder() {
				return &domain.ValidationError{Message: "parent asset is not a folder"}
			}
			parent = p
			return nil
		})
	}

	g.Go(func() error {
		sibling, err := s.assetRepo.GetByNameAndParent(gctx, req.Name, req.ParentID, req.ProjectID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil
			}
			return err
		}
		return &domain.ConflictError{
			Message:      fmt.Sprintf("an asset named %q already exists in this location", req.Name),
			ResourceType: "asset",
			ResourceID:   sibling.ID,
		}
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var path string
	var depth int
	if parent != nil {
		path = ChildPath(parent.Path, req.Name)
		depth = parent.Depth + 1
	} else {
		path = ChildPath("", req.Name)
		depth = 0
	}
	if err := s.validatePathLength(path); err != nil {
		return nil, err
	}

	now := time.Now()
	asset := &models.Asset{
		ID:          uuid.NewString(),
		WorkspaceID: scope.Project.WorkspaceID,
		ProjectID:   req.ProjectID,
		ParentID:    req.ParentID,
		Name:        req.Name,
		Kind:        req.Kind,
		Path:        path,
		Depth:       depth,
		MimeType:    req.MimeType,
		CreatedBy:   req.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if asset.Kind == models.KindFile {
		state := models.UploadPending
		asset.UploadState = &state
	}

	if err := s.assetRepo.Create(ctx, asset); err != nil {
		return nil, err
	}

	s.logger.Info("asset created",
		"id", asset.ID,
		"name", asset.Name,
		"kind", asset.Kind,
		"project_id", asset.ProjectID,
		"path", asset.Path,
		"depth", asset.Depth,
	)

	return asset, nil
}

// Rename changes an asset's name and rewrites every descendant path in the
// same transaction. Renaming to the current name is a no-op.
func (s *assetService) Rename(ctx context.Context, userID, assetID, projectID, newName string) (*models.Asset, error) {
	if _, err := s.gate.ResolveMutate(ctx, userID, projectID); err != nil {
		return nil, err
	}

	newName = strings.TrimSpace(newName)
	if err := s.validateName(newName); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	// The asset is read inside the locked transaction: a competing
	// structural mutation committing earlier must not leave the subtree
	// shift working from a stale prefix.
	var asset *models.Asset
	var oldPath, newPath string
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.assetRepo.LockProject(txCtx, projectID); err != nil {
			return err
		}

		a, err := s.assetRepo.GetByID(txCtx, assetID, projectID)
		if err != nil {
			return err
		}

		if newName == a.Name {
			asset = a
			return nil
		}

		// Renames hold the same sibling-uniqueness invariant creation does
		if sibling, err := s.assetRepo.GetByNameAndParent(txCtx, newName, a.ParentID, projectID); err == nil {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("an asset named %q already exists in this location", newName),
				ResourceType: "asset",
				ResourceID:   sibling.ID,
			}
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		oldPath = a.Path
		newPath = RenamedPath(oldPath, newName)
		if err := s.validatePathLength(newPath); err != nil {
			return err
		}

		a.Name = newName
		a.Path = newPath
		a.UpdatedAt = time.Now()
		if err := s.assetRepo.UpdateNode(txCtx, a); err != nil {
			return err
		}
		asset = a

		// Depth is untouched by a rename; only the prefix moves
		return s.assetRepo.ShiftSubtree(txCtx, projectID, oldPath, newPath, 0)
	})
	if err != nil {
		return nil, err
	}

	if newPath != "" {
		s.logger.Info("asset renamed",
			"id", asset.ID,
			"project_id", projectID,
			"old_path", oldPath,
			"new_path", newPath,
		)
	}

	return asset, nil
}

// Move reparents a batch of assets under a target folder. The whole batch
// runs in one transaction: a cycle or conflict on any asset rolls back
// every move; ids that no longer exist are skipped.
func (s *assetService) Move(ctx context.Context, req *assetsSvc.BatchTargetRequest) ([]models.Asset, error) {
	if _, err := s.gate.ResolveMutate(ctx, req.UserID, req.ProjectID); err != nil {
		return nil, err
	}
	if err := s.validateBatchRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	target, err := s.resolveTarget(ctx, req.ProjectID, req.TargetParentID)
	if err != nil {
		return nil, err
	}

	var moved []models.Asset
	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.assetRepo.LockProject(txCtx, req.ProjectID); err != nil {
			return err
		}

		for _, id := range req.AssetIDs {
			asset, err := s.assetRepo.GetByID(txCtx, id, req.ProjectID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					// Best-effort batch semantics: a vanished id is a
					// skip, not a failure
					s.logger.Debug("skipping missing asset in move batch", "id", id)
					continue
				}
				return err
			}

			if asset.IsFolder() && IsSubtreePath(asset.Path, target.basePath) {
				return &domain.ValidationError{
					Message: fmt.Sprintf("cannot move %q into its own subfolder", asset.Name),
				}
			}

			oldPath := asset.Path
			newPath := ChildPath(target.basePath, asset.Name)
			if err := s.validatePathLength(newPath); err != nil {
				return err
			}
			depthDiff := target.depth - asset.Depth

			asset.ParentID = target.parentID
			asset.Path = newPath
			asset.Depth = target.depth
			asset.UpdatedAt = time.Now()
			if err := s.assetRepo.UpdateNode(txCtx, asset); err != nil {
				return err
			}

			if err := s.assetRepo.ShiftSubtree(txCtx, req.ProjectID, oldPath, newPath, depthDiff); err != nil {
				return err
			}

			moved = append(moved, *asset)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("assets moved",
		"project_id", req.ProjectID,
		"requested", len(req.AssetIDs),
		"moved", len(moved),
		"target_parent_id", req.TargetParentID,
	)

	return moved, nil
}

// Copy deep-copies a batch of assets and their subtrees under a target
// folder. Clones get fresh ids and audit fields; binary content is not
// duplicated here.
func (s *assetService) Copy(ctx context.Context, req *assetsSvc.BatchTargetRequest) ([]models.Asset, error) {
	scope, err := s.gate.ResolveMutate(ctx, req.UserID, req.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := s.validateBatchRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	target, err := s.resolveTarget(ctx, req.ProjectID, req.TargetParentID)
	if err != nil {
		return nil, err
	}

	var roots []models.Asset
	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.assetRepo.LockProject(txCtx, req.ProjectID); err != nil {
			return err
		}

		for _, id := range req.AssetIDs {
			source, err := s.assetRepo.GetByID(txCtx, id, req.ProjectID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					s.logger.Debug("skipping missing asset in copy batch", "id", id)
					continue
				}
				return err
			}

			if source.IsFolder() && IsSubtreePath(source.Path, target.basePath) {
				return &domain.ValidationError{
					Message: fmt.Sprintf("cannot copy %q into its own subfolder", source.Name),
				}
			}

			cloneName, err := s.availableName(txCtx, source.Name, target.parentID, req.ProjectID)
			if err != nil {
				return err
			}

			clones, err := s.buildClones(txCtx, source, cloneName, target, scope.Project.WorkspaceID, req.UserID)
			if err != nil {
				return err
			}

			if err := s.assetRepo.BulkInsert(txCtx, clones); err != nil {
				return err
			}

			roots = append(roots, clones[0])
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("assets copied",
		"project_id", req.ProjectID,
		"requested", len(req.AssetIDs),
		"copied", len(roots),
		"target_parent_id", req.TargetParentID,
	)

	return roots, nil
}

// buildClones produces the clone root plus every descendant clone, with
// paths rewritten against the clone root and parent pointers remapped to
// the fresh ids. The descendant list is path-ordered, so a parent's clone
// always exists before its children need it.
func (s *assetService) buildClones(ctx context.Context, source *models.Asset, cloneName string, target targetContext, workspaceID, userID string) ([]models.Asset, error) {
	now := time.Now()
	newRootPath := ChildPath(target.basePath, cloneName)
	if err := s.validatePathLength(newRootPath); err != nil {
		return nil, err
	}
	depthDiff := target.depth - source.Depth

	root := *source
	root.ID = uuid.NewString()
	root.WorkspaceID = workspaceID
	root.ParentID = target.parentID
	root.Name = cloneName
	root.Path = newRootPath
	root.Depth = target.depth
	root.CreatedBy = userID
	root.CreatedAt = now
	root.UpdatedAt = now

	clones := []models.Asset{root}
	idMap := map[string]string{source.ID: root.ID}

	descendants, err := s.assetRepo.ListDescendants(ctx, source.ProjectID, source.Path)
	if err != nil {
		return nil, err
	}

	for _, desc := range descendants {
		clone := desc
		clone.ID = uuid.NewString()
		clone.WorkspaceID = workspaceID
		clone.Path = ReplacePrefix(desc.Path, source.Path, newRootPath)
		if err := s.validatePathLength(clone.Path); err != nil {
			return nil, err
		}
		clone.Depth = desc.Depth + depthDiff
		clone.CreatedBy = userID
		clone.CreatedAt = now
		clone.UpdatedAt = now

		if desc.ParentID != nil {
			mapped, ok := idMap[*desc.ParentID]
			if !ok {
				return nil, fmt.Errorf("descendant %s has parent outside the copied subtree", desc.ID)
			}
			clone.ParentID = &mapped
		}

		idMap[desc.ID] = clone.ID
		clones = append(clones, clone)
	}

	return clones, nil
}

// availableName returns name itself when free, otherwise the first free
// "name (copy)" / "name (copy N)" variant.
func (s *assetService) availableName(ctx context.Context, name string, parentID *string, projectID string) (string, error) {
	candidate := name
	for i := 0; i < copyNameAttempts; i++ {
		_, err := s.assetRepo.GetByNameAndParent(ctx, candidate, parentID, projectID)
		if errors.Is(err, domain.ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
		if i == 0 {
			candidate = fmt.Sprintf("%s (copy)", name)
		} else {
			candidate = fmt.Sprintf("%s (copy %d)", name, i+1)
		}
	}
	return "", &domain.ConflictError{
		Message:      fmt.Sprintf("could not find a free name for a copy of %q", name),
		ResourceType: "asset",
	}
}

// Delete removes an asset and its whole subtree in one transaction
func (s *assetService) Delete(ctx context.Context, userID, assetID, projectID string) error {
	if _, err := s.gate.ResolveMutate(ctx, userID, projectID); err != nil {
		return err
	}

	// Read-inside-lock: the prefix delete must match the path the asset
	// has at commit time, not whatever it had before the lock.
	var asset *models.Asset
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.assetRepo.LockProject(txCtx, projectID); err != nil {
			return err
		}
		a, err := s.assetRepo.GetByID(txCtx, assetID, projectID)
		if err != nil {
			return err
		}
		asset = a
		if err := s.assetRepo.DeleteSubtree(txCtx, projectID, a.Path); err != nil {
			return err
		}
		return s.assetRepo.Delete(txCtx, assetID, projectID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("asset deleted",
		"id", assetID,
		"name", asset.Name,
		"project_id", projectID,
		"path", asset.Path,
	)

	return nil
}

// ListByParent lists direct children of a folder (nil = project root)
func (s *assetService) ListByParent(ctx context.Context, userID, projectID string, parentID *string) ([]models.Asset, error) {
	if _, err := s.gate.ResolveRead(ctx, userID, projectID); err != nil {
		return nil, err
	}

	if parentID != nil && *parentID == "" {
		parentID = nil
	}
	if parentID != nil {
		parent, err := s.assetRepo.GetByID(ctx, *parentID, projectID)
		if err != nil {
			return nil, err
		}
		if !parent.IsFolder() {
			return nil, &domain.ValidationError{Message: "parent asset is not a folder"}
		}
	}

	return s.assetRepo.ListByParent(ctx, parentID, projectID)
}

// GetByID returns a single asset scoped to a project
func (s *assetService) GetByID(ctx context.Context, userID, assetID, projectID string) (*models.Asset, error) {
	if _, err := s.gate.ResolveRead(ctx, userID, projectID); err != nil {
		return nil, err
	}
	return s.assetRepo.GetByID(ctx, assetID, projectID)
}

// MarkUploaded finalizes a file asset's upload lifecycle: size, storage
// key, optional thumbnail reference, state uploaded. Metadata only.
func (s *assetService) MarkUploaded(ctx context.Context, req *assetsSvc.MarkUploadedRequest) (*models.Asset, error) {
	if _, err := s.gate.ResolveMutate(ctx, req.UserID, req.ProjectID); err != nil {
		return nil, err
	}

	if err := validation.ValidateStruct(req,
		validation.Field(&req.SizeBytes, validation.Required, validation.Min(int64(1))),
		validation.Field(&req.StorageKey, validation.Required),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	asset, err := s.assetRepo.GetByID(ctx, req.AssetID, req.ProjectID)
	if err != nil {
		return nil, err
	}
	if asset.Kind != models.KindFile {
		return nil, &domain.ValidationError{Message: "only file assets have an upload lifecycle"}
	}

	state := models.UploadComplete
	asset.SizeBytes = &req.SizeBytes
	asset.StorageKey = &req.StorageKey
	asset.ThumbnailRef = req.ThumbnailRef
	asset.UploadState = &state
	asset.UpdatedAt = time.Now()

	if err := s.assetRepo.UpdateNode(ctx, asset); err != nil {
		return nil, err
	}

	s.logger.Info("asset upload finalized",
		"id", asset.ID,
		"project_id", asset.ProjectID,
		"size_bytes", req.SizeBytes,
	)

	return asset, nil
}

// resolveTarget resolves the destination context for move/copy once, up
// front. A nil parent means the project root.
func (s *assetService) resolveTarget(ctx context.Context, projectID string, targetParentID *string) (targetContext, error) {
	if targetParentID != nil && *targetParentID == "" {
		targetParentID = nil
	}
	if targetParentID == nil {
		return targetContext{parentID: nil, basePath: "", depth: 0}, nil
	}

	target, err := s.assetRepo.GetByID(ctx, *targetParentID, projectID)
	if err != nil {
		return targetContext{}, fmt.Errorf("target folder: %w", err)
	}
	if !target.IsFolder() {
		return targetContext{}, &domain.ValidationError{Message: "target asset is not a folder"}
	}

	return targetContext{
		parentID: targetParentID,
		basePath: target.Path,
		depth:    target.Depth + 1,
	}, nil
}

func (s *assetService) validateCreateRequest(req *assetsSvc.CreateAssetRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxAssetNameLength),
			validation.Match(assetNamePattern).Error("asset name cannot contain slashes"),
		),
		validation.Field(&req.Kind,
			validation.Required,
			validation.In(models.KindFile, models.KindFolder),
		),
	)
}

// validatePathLength rejects a computed path that would overflow the
// path column.
func (s *assetService) validatePathLength(path string) error {
	if len(path) > config.MaxAssetPathLength {
		return &domain.ValidationError{
			Message: fmt.Sprintf("asset path exceeds %d characters", config.MaxAssetPathLength),
		}
	}
	return nil
}

func (s *assetService) validateName(name string) error {
	return validation.Validate(name,
		validation.Required,
		validation.Length(1, config.MaxAssetNameLength),
		validation.Match(assetNamePattern).Error("asset name cannot contain slashes"),
	)
}

func (s *assetService) validateBatchRequest(req *assetsSvc.BatchTargetRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.AssetIDs,
			validation.Required.Error("asset_ids must not be empty"),
			validation.Length(1, config.MaxBatchSize),
		),
	)
}
