package assets

import (
	"context"
	"log/slog"

	"github.com/NIKHILENIGMA/pikzee-sub000/internal/domain"
	assetRepo "github.com/NIKHILENIGMA/pikzee-sub000/internal/domain/repositories/assets"
	assetsSvc "github.com/NIKHILENIGMA/pikzee-sub000/internal/domain/services/assets"
	"github.com/NIKHILENIGMA/pikzee-sub000/internal/permissions"
)

type permissionGate struct {
	projectRepo assetRepo.ProjectRepository
	memberRepo  assetRepo.MemberRepository
	registry    *permissions.Registry
	logger      *slog.Logger
}

// NewPermissionGate creates the permission gate the engine consults before
// every operation. It resolves project → workspace → member role and checks
// the role's capabilities against the embedded matrix.
func NewPermissionGate(
	projectRepo assetRepo.ProjectRepository,
	memberRepo assetRepo.MemberRepository,
	registry *permissions.Registry,
	logger *slog.Logger,
) assetsSvc.PermissionGate {
	return &permissionGate{
		projectRepo: projectRepo,
		memberRepo:  memberRepo,
		registry:    registry,
		logger:      logger,
	}
}

// ResolveMutate checks write access to a project's assets
func (g *permissionGate) ResolveMutate(ctx context.Context, userID, projectID string) (*assetsSvc.ProjectScope, error) {
	return g.resolve(ctx, userID, projectID, permissions.CapAssetsWrite)
}

// ResolveRead checks read access to a project's assets
func (g *permissionGate) ResolveRead(ctx context.Context, userID, projectID string) (*assetsSvc.ProjectScope, error) {
	return g.resolve(ctx, userID, projectID, permissions.CapAssetsRead)
}

func (g *permissionGate) resolve(ctx context.Context, userID, projectID, capability string) (*assetsSvc.ProjectScope, error) {
	project, err := g.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	role, err := g.memberRepo.GetRole(ctx, project.WorkspaceID, userID)
	if err != nil {
		return nil, err
	}

	// Non-membership is reported distinctly from an insufficient role:
	// the former is a bad request, the latter forbidden.
	if role == nil {
		return nil, &domain.ValidationError{Message: "you are not a member of this workspace"}
	}

	if !g.registry.Can(*role, capability) {
		g.logger.Debug("capability denied",
			"user_id", userID,
			"project_id", projectID,
			"role", *role,
			"capability", capability,
		)
		return nil, &domain.ForbiddenError{Message: "your role does not allow this operation"}
	}

	return &assetsSvc.ProjectScope{Project: project, Role: *role}, nil
}
