package assets

import (
	"context"

	models "github.com/NIKHILENIGMA/pikzee-sub000/internal/domain/models/assets"
)

// ProjectRepository defines the lookups the permission gate needs.
// Project CRUD itself lives outside the asset engine.
type ProjectRepository interface {
	// GetByID retrieves a project by ID (excludes soft-deleted projects)
	GetByID(ctx context.Context, id string) (*models.Project, error)
}

// MemberRepository resolves workspace membership.
type MemberRepository interface {
	// GetRole returns the member's role in a workspace, or nil if the user
	// is not a member at all
	GetRole(ctx context.Context, workspaceID, userID string) (*models.Role, error)
}
