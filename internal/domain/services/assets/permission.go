package assets

import (
	"context"

	models "github.com/NIKHILENIGMA/pikzee-sub000/internal/domain/models/assets"
)

// ProjectScope is what a successful permission check resolves to: the
// project (with its workspace id) and the caller's role in that workspace.
type ProjectScope struct {
	Project *models.Project
	Role    models.Role
}

// PermissionGate answers "may this user read/mutate this project's assets?".
// The engine consumes it as a black box; the concrete implementation sits
// on top of the project and member repositories.
type PermissionGate interface {
	// ResolveMutate fails with NotFound (no such project), a validation
	// error (not a workspace member) or Forbidden (read-only role).
	ResolveMutate(ctx context.Context, userID, projectID string) (*ProjectScope, error)

	// ResolveRead is the read-access counterpart
	ResolveRead(ctx context.Context, userID, projectID string) (*ProjectScope, error)
}
