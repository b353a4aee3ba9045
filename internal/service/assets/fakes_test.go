package assets

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/NIKHILENIGMA/pikzee-sub000/internal/domain"
	models "github.com/NIKHILENIGMA/pikzee-sub000/internal/domain/models/assets"
	"github.com/NIKHILENIGMA/pikzee-sub000/internal/domain/repositories"
)

// In-memory fakes emulating the postgres repositories closely enough for
// engine tests: rows are copied on read/write like scanned rows, sibling
// uniqueness is enforced like the partial unique indexes, and the fake
// transaction manager restores a snapshot on error like a rollback.

type fakeAssetRepo struct {
	assets map[string]models.Asset
}

func newFakeAssetRepo() *fakeAssetRepo {
	return &fakeAssetRepo{assets: make(map[string]models.Asset)}
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (f *fakeAssetRepo) siblingTaken(projectID string, parentID *string, name, excludeID string) bool {
	for _, a := range f.assets {
		if a.ID != excludeID && a.ProjectID == projectID && a.Name == name && sameParent(a.ParentID, parentID) {
			return true
		}
	}
	return false
}

func (f *fakeAssetRepo) Create(ctx context.Context, asset *models.Asset) error {
	if f.siblingTaken(asset.ProjectID, asset.ParentID, asset.Name, asset.ID) {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("an asset named %q already exists in this location", asset.Name),
			ResourceType: "asset",
		}
	}
	f.assets[asset.ID] = *asset
	return nil
}

func (f *fakeAssetRepo) GetByID(ctx context.Context, id, projectID string) (*models.Asset, error) {
	a, ok := f.assets[id]
	if !ok || a.ProjectID != projectID {
		return nil, fmt.Errorf("asset %s: %w", id, domain.ErrNotFound)
	}
	c := a
	return &c, nil
}

func (f *fakeAssetRepo) GetByNameAndParent(ctx context.Context, name string, parentID *string, projectID string) (*models.Asset, error) {
	for _, a := range f.assets {
		if a.ProjectID == projectID && a.Name == name && sameParent(a.ParentID, parentID) {
			c := a
			return &c, nil
		}
	}
	return nil, fmt.Errorf("asset %q: %w", name, domain.ErrNotFound)
}

func (f *fakeAssetRepo) ListByParent(ctx context.Context, parentID *string, projectID string) ([]models.Asset, error) {
	var out []models.Asset
	for _, a := range f.assets {
		if a.ProjectID == projectID && sameParent(a.ParentID, parentID) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeAssetRepo) ListDescendants(ctx context.Context, projectID, pathPrefix string) ([]models.Asset, error) {
	var out []models.Asset
	for _, a := range f.assets {
		if a.ProjectID == projectID && strings.HasPrefix(a.Path, pathPrefix+"/") {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

func (f *fakeAssetRepo) UpdateNode(ctx context.Context, asset *models.Asset) error {
	existing, ok := f.assets[asset.ID]
	if !ok || existing.ProjectID != asset.ProjectID {
		return fmt.Errorf("asset %s: %w", asset.ID, domain.ErrNotFound)
	}
	if f.siblingTaken(asset.ProjectID, asset.ParentID, asset.Name, asset.ID) {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("an asset named %q already exists in this location", asset.Name),
			ResourceType: "asset",
		}
	}
	f.assets[asset.ID] = *asset
	return nil
}

func (f *fakeAssetRepo) ShiftSubtree(ctx context.Context, projectID, oldPrefix, newPrefix string, depthDiff int) error {
	for id, a := range f.assets {
		if a.ProjectID == projectID && strings.HasPrefix(a.Path, oldPrefix+"/") {
			a.Path = newPrefix + a.Path[len(oldPrefix):]
			a.Depth += depthDiff
			f.assets[id] = a
		}
	}
	return nil
}

func (f *fakeAssetRepo) BulkInsert(ctx context.Context, assets []models.Asset) error {
	for _, a := range assets {
		if f.siblingTaken(a.ProjectID, a.ParentID, a.Name, a.ID) {
			return &domain.ConflictError{
				Message:      "an asset with the same name already exists in the target location",
				ResourceType: "asset",
			}
		}
		f.assets[a.ID] = a
	}
	return nil
}

func (f *fakeAssetRepo) Delete(ctx context.Context, id, projectID string) error {
	a, ok := f.assets[id]
	if !ok || a.ProjectID != projectID {
		return fmt.Errorf("asset %s: %w", id, domain.ErrNotFound)
	}
	delete(f.assets, id)
	return nil
}

func (f *fakeAssetRepo) DeleteSubtree(ctx context.Context, projectID, pathPrefix string) error {
	for id, a := range f.assets {
		if a.ProjectID == projectID && strings.HasPrefix(a.Path, pathPrefix+"/") {
			delete(f.assets, id)
		}
	}
	return nil
}

func (f *fakeAssetRepo) LockProject(ctx context.Context, projectID string) error {
	return nil
}

func (f *fakeAssetRepo) snapshot() map[string]models.Asset {
	snap := make(map[string]models.Asset, len(f.assets))
	for id, a := range f.assets {
		snap[id] = a
	}
	return snap
}

// fakeTxManager runs the function directly and restores the asset table
// snapshot on error, mirroring a rollback. beforeTx, when set, runs once
// before the transaction starts, standing in for a competing mutation
// that committed first.
type fakeTxManager struct {
	repo     *fakeAssetRepo
	beforeTx func()
}

func (tm *fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	if tm.beforeTx != nil {
		tm.beforeTx()
		tm.beforeTx = nil
	}
	snap := tm.repo.snapshot()
	if err := fn(ctx); err != nil {
		tm.repo.assets = snap
		return err
	}
	return nil
}

type fakeProjectRepo struct {
	projects map[string]models.Project
}

func (f *fakeProjectRepo) GetByID(ctx context.Context, id string) (*models.Project, error) {
	p, ok := f.projects[id]
	if !ok || p.DeletedAt != nil {
		return nil, fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}
	c := p
	return &c, nil
}

type fakeMemberRepo struct {
	// workspaceID|userID -> role
	roles map[string]models.Role
}

func (f *fakeMemberRepo) GetRole(ctx context.Context, workspaceID, userID string) (*models.Role, error) {
	role, ok := f.roles[workspaceID+"|"+userID]
	if !ok {
		return nil, nil
	}
	return &role, nil
}

// errIsConflict reports whether err matches the conflict sentinel.
func errIsConflict(err error) bool {
	return errors.Is(err, domain.ErrConflict)
}
