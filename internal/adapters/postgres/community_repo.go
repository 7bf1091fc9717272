package postgres

import (
	"context"

	"github.com/nahanni/placekeeper/internal/core/ports"
)

// CommunityRepo answers community existence checks. Community CRUD is
// owned by another service; places only need to know the referenced
// community is real.
type CommunityRepo struct {
	db *DB
}

// NewCommunityRepo creates a community lookup over the shared pool.
func NewCommunityRepo(db *DB) *CommunityRepo {
	return &CommunityRepo{db: db}
}

var _ ports.CommunityRepository = (*CommunityRepo)(nil)

// Exists reports whether the community id is present.
func (r *CommunityRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM communities WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, dbErr("community exists", err)
	}
	return exists, nil
}
