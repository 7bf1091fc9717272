package plainsql

import (
	"context"
	"database/sql"

	"github.com/nahanni/placekeeper/internal/core/ports"
)

// CommunityRepo answers community existence checks over database/sql, for
// deployments running the coordinate-pair backend.
type CommunityRepo struct {
	db *sql.DB
}

// NewCommunityRepo creates a community lookup.
func NewCommunityRepo(db *sql.DB) *CommunityRepo {
	return &CommunityRepo{db: db}
}

var _ ports.CommunityRepository = (*CommunityRepo)(nil)

// Exists reports whether the community id is present.
func (r *CommunityRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM communities WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, dbErr("community exists", err)
	}
	return exists, nil
}
