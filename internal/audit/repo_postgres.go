package audit

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresRepo stores access events in an INSERT-only table.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

const insertEventSQL = `
INSERT INTO access_events
	(id, type, source, caller, caller_type, path, method, reason, ip_address, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

func (r *PostgresRepo) Append(ctx context.Context, e Event) error {
	if r.db == nil {
		return fmt.Errorf("audit: db not configured")
	}
	_, err := r.db.ExecContext(ctx, insertEventSQL,
		e.ID,
		string(e.Type),
		e.Source,
		e.User,
		e.CallerType,
		e.Path,
		e.Method,
		e.Reason,
		e.IPAddress,
		e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("audit: insert event: %w", err)
	}
	return nil
}
