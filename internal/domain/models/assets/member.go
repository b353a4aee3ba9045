package assets

import (
	"time"
)

// Role is a member's workspace-level role. Roles map to capabilities via
// the permissions registry; the engine itself only asks "can this role
// write assets?".
type Role string

const (
	RoleFullAccess  Role = "FULL_ACCESS"
	RoleEdit        Role = "EDIT"
	RoleCommentOnly Role = "COMMENT_ONLY"
	RoleViewOnly    Role = "VIEW_ONLY"
)

// Member links a user to a workspace with a role.
type Member struct {
	ID          string    `json:"id" db:"id"`
	WorkspaceID string    `json:"workspace_id" db:"workspace_id"`
	UserID      string    `json:"user_id" db:"user_id"`
	Role        Role      `json:"role" db:"role"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
