package assets

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	models "github.com/NIKHILENIGMA/pikzee-sub000/internal/domain/models/assets"
	assetRepo "github.com/NIKHILENIGMA/pikzee-sub000/internal/domain/repositories/assets"
	"github.com/NIKHILENIGMA/pikzee-sub000/internal/repository/postgres"
)

// PostgresMemberRepository implements the MemberRepository interface
type PostgresMemberRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewMemberRepository creates a new workspace member repository
func NewMemberRepository(config *postgres.RepositoryConfig) assetRepo.MemberRepository {
	return &PostgresMemberRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// GetRole returns the member's role in a workspace, or nil if the user is
// not a member at all. Absence is not an error here; the permission gate
// decides what it means.
func (r *PostgresMemberRepository) GetRole(ctx context.Context, workspaceID, userID string) (*models.Role, error) {
	query := fmt.Sprintf(`
		SELECT role
		FROM %s
		WHERE workspace_id = $1 AND user_id = $2
	`, r.tables.Members)

	var role models.Role
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, workspaceID, userID).Scan(&role)

	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get member role: %w", err)
	}

	return &role, nil
}
