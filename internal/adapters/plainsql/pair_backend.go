package plainsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lib/pq"

	"github.com/nahanni/placekeeper/internal/core/domain"
	"github.com/nahanni/placekeeper/internal/core/ports"
	"github.com/nahanni/placekeeper/internal/pkg/geospatial"
	"github.com/nahanni/placekeeper/internal/pkg/geovalid"
)

// PairBackend implements ports.SpatialBackend over plain latitude and
// longitude columns. Radius queries narrow candidates with a conservative
// bounding-box predicate, then score each candidate with the haversine
// formula in Go; distance is therefore a spherical approximation, slightly
// less precise than the geometry backend's geodesic result.
type PairBackend struct {
	db *sql.DB
}

// NewPairBackend creates a coordinate-pair spatial store.
func NewPairBackend(db *sql.DB) *PairBackend {
	return &PairBackend{db: db}
}

var _ ports.SpatialBackend = (*PairBackend)(nil)

const pairColumns = `
	id, community_id, name, description, latitude, longitude,
	boundary, region, media_urls, cultural_significance,
	is_restricted, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlace(row rowScanner) (*domain.Place, error) {
	var (
		p            domain.Place
		description  sql.NullString
		boundary     sql.NullString
		region       sql.NullString
		significance sql.NullString
		media        pq.StringArray
	)
	err := row.Scan(
		&p.ID, &p.CommunityID, &p.Name, &description,
		&p.Coordinate.Latitude, &p.Coordinate.Longitude,
		&boundary, &region, &media, &significance,
		&p.IsRestricted, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Description = description.String
	p.Region = region.String
	p.CulturalSignificance = significance.String
	p.MediaURLs = []string(media)
	if boundary.Valid {
		poly, err := geovalid.DecodePolygon([]byte(boundary.String))
		if err != nil {
			return nil, fmt.Errorf("decode boundary: %w", err)
		}
		p.Boundary = poly
	}
	return &p, nil
}

func dbErr(op string, err error) error {
	slog.Error("coordinate-pair backend", "op", op, "error", err)
	return domain.NewDatabaseError(op, err)
}

func boundaryJSON(p *domain.Polygon) (sql.NullString, error) {
	if p == nil {
		return sql.NullString{}, nil
	}
	data, err := geovalid.EncodePolygon(p)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// Insert persists a new place.
func (b *PairBackend) Insert(ctx context.Context, place *domain.Place) (*domain.Place, error) {
	boundary, err := boundaryJSON(place.Boundary)
	if err != nil {
		return nil, err
	}

	row := b.db.QueryRowContext(ctx, `
		INSERT INTO places (community_id, name, description, latitude, longitude,
		                    boundary, region, media_urls, cultural_significance, is_restricted)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, NULLIF($7, ''), $8, NULLIF($9, ''), $10)
		RETURNING`+pairColumns+`
	`, place.CommunityID, place.Name, place.Description,
		place.Coordinate.Latitude, place.Coordinate.Longitude,
		boundary, place.Region, pq.Array(place.MediaURLs),
		place.CulturalSignificance, place.IsRestricted)

	created, err := scanPlace(row)
	if err != nil {
		return nil, dbErr("insert place", err)
	}
	return created, nil
}

// GetByID returns a place scoped to the community.
func (b *PairBackend) GetByID(ctx context.Context, id, communityID int64) (*domain.Place, error) {
	row := b.db.QueryRowContext(ctx, `
		SELECT`+pairColumns+`
		FROM places WHERE id = $1 AND community_id = $2
	`, id, communityID)

	place, err := scanPlace(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPlaceNotFound
	}
	if err != nil {
		return nil, dbErr("get place", err)
	}
	return place, nil
}

func filterClause(where []string, args []any, f ports.PlaceFilter) ([]string, []any) {
	if !f.IncludeRestricted {
		where = append(where, "is_restricted = false")
	}
	if f.Region != "" {
		args = append(args, f.Region)
		where = append(where, fmt.Sprintf("region = $%d", len(args)))
	}
	return where, args
}

func (b *PairBackend) queryPlaces(ctx context.Context, op, query string, args ...any) ([]domain.Place, error) {
	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbErr(op, err)
	}
	defer rows.Close()

	var places []domain.Place
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, dbErr(op, err)
		}
		places = append(places, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr(op, err)
	}
	return places, nil
}

// ListByCommunity pages through a community's places ordered by id.
func (b *PairBackend) ListByCommunity(ctx context.Context, communityID int64, filter ports.PlaceFilter, page ports.PageRequest) ([]domain.Place, int, error) {
	where := []string{"community_id = $1"}
	args := []any{communityID}
	where, args = filterClause(where, args, filter)
	pred := strings.Join(where, " AND ")

	var total int
	if err := b.db.QueryRowContext(ctx, "SELECT count(*) FROM places WHERE "+pred, args...).Scan(&total); err != nil {
		return nil, 0, dbErr("list places", err)
	}

	query := fmt.Sprintf(`SELECT%s FROM places WHERE %s ORDER BY id LIMIT $%d OFFSET $%d`,
		pairColumns, pred, len(args)+1, len(args)+2)
	args = append(args, page.Limit, page.Offset())

	places, err := b.queryPlaces(ctx, "list places", query, args...)
	if err != nil {
		return nil, 0, err
	}
	return places, total, nil
}

// Update applies a patch under a compare-and-swap on the restriction flag.
func (b *PairBackend) Update(ctx context.Context, id, communityID int64, patch domain.PlacePatch, expectRestricted bool) (*domain.Place, error) {
	set := []string{"updated_at = now()"}
	args := []any{id, communityID, expectRestricted}

	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Description != nil {
		add("description", sql.NullString{String: *patch.Description, Valid: *patch.Description != ""})
	}
	if patch.Coordinate != nil {
		add("latitude", patch.Coordinate.Latitude)
		add("longitude", patch.Coordinate.Longitude)
	}
	if patch.Boundary != nil {
		boundary, err := boundaryJSON(patch.Boundary)
		if err != nil {
			return nil, err
		}
		add("boundary", boundary)
	}
	if patch.Region != nil {
		add("region", sql.NullString{String: *patch.Region, Valid: *patch.Region != ""})
	}
	if patch.MediaURLs != nil {
		add("media_urls", pq.Array(*patch.MediaURLs))
	}
	if patch.CulturalSignificance != nil {
		add("cultural_significance", sql.NullString{String: *patch.CulturalSignificance, Valid: *patch.CulturalSignificance != ""})
	}
	if patch.IsRestricted != nil {
		add("is_restricted", *patch.IsRestricted)
	}

	query := fmt.Sprintf(`
		UPDATE places SET %s
		WHERE id = $1 AND community_id = $2 AND is_restricted = $3
		RETURNING%s`, strings.Join(set, ", "), pairColumns)

	place, err := scanPlace(b.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPlaceNotFound
	}
	if err != nil {
		return nil, dbErr("update place", err)
	}
	return place, nil
}

// Delete removes a place permanently.
func (b *PairBackend) Delete(ctx context.Context, id, communityID int64) error {
	res, err := b.db.ExecContext(ctx,
		`DELETE FROM places WHERE id = $1 AND community_id = $2`, id, communityID)
	if err != nil {
		return dbErr("delete place", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return dbErr("delete place", err)
	}
	if n == 0 {
		return domain.ErrPlaceNotFound
	}
	return nil
}

// FindWithinRadius narrows candidates with a bounding-box predicate so the
// unindexed scan stays bounded, then filters exactly by haversine distance.
// Pagination happens after the exact filter because the pre-filter
// over-selects.
func (b *PairBackend) FindWithinRadius(ctx context.Context, center domain.Coordinate, radiusKm float64, communityID int64, filter ports.PlaceFilter, page ports.PageRequest) ([]domain.Place, int, error) {
	if err := geovalid.ValidateRadiusKm(radiusKm); err != nil {
		return nil, 0, err
	}
	box := geospatial.RadiusPreFilter(center.Latitude, center.Longitude, radiusKm)

	where := []string{"community_id = $1", "latitude BETWEEN $2 AND $3"}
	args := []any{communityID, box.MinLat, box.MaxLat}
	if !box.FullLongitude {
		args = append(args, box.MinLng, box.MaxLng)
		where = append(where, fmt.Sprintf("longitude BETWEEN $%d AND $%d", len(args)-1, len(args)))
	}
	where, args = filterClause(where, args, filter)

	query := fmt.Sprintf(`SELECT%s FROM places WHERE %s ORDER BY id`,
		pairColumns, strings.Join(where, " AND "))

	candidates, err := b.queryPlaces(ctx, "radius search", query, args...)
	if err != nil {
		return nil, 0, err
	}

	within := filterByRadius(candidates, center, radiusKm)
	return pageSlice(within, page.Offset(), page.Limit), len(within), nil
}

// FindInBounds is a direct range filter on both columns, edges included.
func (b *PairBackend) FindInBounds(ctx context.Context, bbox domain.Bounds, communityID int64, filter ports.PlaceFilter, page ports.PageRequest) ([]domain.Place, int, error) {
	if err := geovalid.ValidateBounds(bbox); err != nil {
		return nil, 0, err
	}
	where := []string{
		"community_id = $1",
		"latitude BETWEEN $2 AND $3",
		"longitude BETWEEN $4 AND $5",
	}
	args := []any{communityID, bbox.South, bbox.North, bbox.West, bbox.East}
	where, args = filterClause(where, args, filter)
	pred := strings.Join(where, " AND ")

	var total int
	if err := b.db.QueryRowContext(ctx, "SELECT count(*) FROM places WHERE "+pred, args...).Scan(&total); err != nil {
		return nil, 0, dbErr("bounds search", err)
	}

	query := fmt.Sprintf(`SELECT%s FROM places WHERE %s ORDER BY id LIMIT $%d OFFSET $%d`,
		pairColumns, pred, len(args)+1, len(args)+2)
	args = append(args, page.Limit, page.Offset())

	places, err := b.queryPlaces(ctx, "bounds search", query, args...)
	if err != nil {
		return nil, 0, err
	}
	return places, total, nil
}
