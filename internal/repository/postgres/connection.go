package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/NIKHILENIGMA/pikzee-sub000/internal/domain/repositories"
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds dynamically prefixed table names
type TableNames struct {
	Assets     string
	Projects   string
	Workspaces string
	Members    string
}

// NewTableNames creates table names with the given prefix. An empty prefix
// means the schema is owned by this service and managed by the embedded
// migrations; a non-empty prefix points at an externally managed schema.
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Assets:     fmt.Sprintf("%sassets", prefix),
		Projects:   fmt.Sprintf("%sprojects", prefix),
		Workspaces: fmt.Sprintf("%sworkspaces", prefix),
		Members:    fmt.Sprintf("%sworkspace_members", prefix),
	}
}

// CreateConnectionPool creates a new pgx connection pool and verifies the
// database is reachable.
//
// Note on dynamic table names: interpolating the table prefix with
// fmt.Sprintf is safe with prepared statements because the SQL string is
// built before being sent to the database; each prefix produces its own
// set of statements.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	// Configure pool size
	config.MaxConns = 25
	config.MinConns = 5

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the appropriate query executor for the context.
// If a transaction is present in the context, it returns the transaction.
// Otherwise, it returns the provided pool. This enables repositories to
// automatically participate in transactions when they exist.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}
