package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/nahanni/placekeeper/internal/core/domain"
	"github.com/nahanni/placekeeper/internal/core/ports"
	"github.com/nahanni/placekeeper/internal/pkg/geovalid"
)

// GeometryBackend implements ports.SpatialBackend on PostGIS. Points are
// stored as geography(Point,4326) and boundaries as geography(Polygon,4326),
// so radius predicates run on the geodesic model via ST_DWithin and
// distances come back in meters from ST_Distance.
type GeometryBackend struct {
	db *DB
}

// NewGeometryBackend creates a PostGIS-backed spatial store.
func NewGeometryBackend(db *DB) *GeometryBackend {
	return &GeometryBackend{db: db}
}

var _ ports.SpatialBackend = (*GeometryBackend)(nil)

const geomColumns = `
	id, community_id, name, COALESCE(description, ''),
	ST_Y(location::geometry), ST_X(location::geometry),
	CASE WHEN boundary IS NULL THEN NULL ELSE ST_AsGeoJSON(boundary::geometry) END,
	COALESCE(region, ''), COALESCE(media_urls, '{}'),
	COALESCE(cultural_significance, ''), is_restricted, created_at, updated_at`

// scanPlace reads one row in geomColumns order. distance, when non-nil, is
// scanned after the fixed columns.
func scanPlace(row pgx.Row, distance *float64) (*domain.Place, error) {
	var (
		p        domain.Place
		boundary *string
	)
	dest := []any{
		&p.ID, &p.CommunityID, &p.Name, &p.Description,
		&p.Coordinate.Latitude, &p.Coordinate.Longitude,
		&boundary, &p.Region, &p.MediaURLs,
		&p.CulturalSignificance, &p.IsRestricted, &p.CreatedAt, &p.UpdatedAt,
	}
	if distance != nil {
		dest = append(dest, distance)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if boundary != nil {
		poly, err := geovalid.DecodePolygon([]byte(*boundary))
		if err != nil {
			return nil, fmt.Errorf("decode boundary: %w", err)
		}
		p.Boundary = poly
	}
	return &p, nil
}

// dbErr logs the driver error and returns the redacted wrapper.
func dbErr(op string, err error) error {
	slog.Error("postgres geometry backend", "op", op, "error", err)
	return domain.NewDatabaseError(op, err)
}

func boundaryJSON(p *domain.Polygon) (*string, error) {
	if p == nil {
		return nil, nil
	}
	data, err := geovalid.EncodePolygon(p)
	if err != nil {
		return nil, err
	}
	s := string(data)
	return &s, nil
}

// Insert persists a new place and returns it with generated id and
// timestamps.
func (b *GeometryBackend) Insert(ctx context.Context, place *domain.Place) (*domain.Place, error) {
	boundary, err := boundaryJSON(place.Boundary)
	if err != nil {
		return nil, err
	}

	row := b.db.Pool.QueryRow(ctx, `
		INSERT INTO places (community_id, name, description, location, boundary,
		                    region, media_urls, cultural_significance, is_restricted)
		VALUES ($1, $2, NULLIF($3, ''),
		        ST_SetSRID(ST_MakePoint($4, $5), 4326)::geography,
		        CASE WHEN $6::text IS NULL THEN NULL
		             ELSE ST_GeomFromGeoJSON($6)::geography END,
		        NULLIF($7, ''), $8, NULLIF($9, ''), $10)
		RETURNING`+geomColumns+`
	`, place.CommunityID, place.Name, place.Description,
		place.Coordinate.Longitude, place.Coordinate.Latitude,
		boundary, place.Region, place.MediaURLs,
		place.CulturalSignificance, place.IsRestricted)

	created, err := scanPlace(row, nil)
	if err != nil {
		return nil, dbErr("insert place", err)
	}
	return created, nil
}

// GetByID returns a place scoped to the community; a row in another
// community is a not-found.
func (b *GeometryBackend) GetByID(ctx context.Context, id, communityID int64) (*domain.Place, error) {
	row := b.db.Pool.QueryRow(ctx, `
		SELECT`+geomColumns+`
		FROM places WHERE id = $1 AND community_id = $2
	`, id, communityID)

	place, err := scanPlace(row, nil)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPlaceNotFound
	}
	if err != nil {
		return nil, dbErr("get place", err)
	}
	return place, nil
}

// filterClause appends restriction/region predicates and their arguments.
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

func (b *GeometryBackend) list(ctx context.Context, op, query, countQuery string, args []any, page ports.PageRequest, withDistance bool) ([]domain.Place, int, error) {
	var total int
	if err := b.db.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dbErr(op, err)
	}

	args = append(args, page.Limit, page.Offset())
	rows, err := b.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, dbErr(op, err)
	}
	defer rows.Close()

	var places []domain.Place
	for rows.Next() {
		var dist *float64
		if withDistance {
			dist = new(float64)
		}
		p, err := scanPlace(rows, dist)
		if err != nil {
			return nil, 0, dbErr(op, err)
		}
		if withDistance {
			p.DistanceMeters = dist
		}
		places = append(places, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dbErr(op, err)
	}
	return places, total, nil
}

// ListByCommunity pages through a community's places ordered by id.
func (b *GeometryBackend) ListByCommunity(ctx context.Context, communityID int64, filter ports.PlaceFilter, page ports.PageRequest) ([]domain.Place, int, error) {
	where := []string{"community_id = $1"}
	args := []any{communityID}
	where, args = filterClause(where, args, filter)
	pred := strings.Join(where, " AND ")

	query := fmt.Sprintf(`SELECT%s FROM places WHERE %s ORDER BY id LIMIT $%d OFFSET $%d`,
		geomColumns, pred, len(args)+1, len(args)+2)
	countQuery := "SELECT count(*) FROM places WHERE " + pred

	return b.list(ctx, "list places", query, countQuery, args, page, false)
}

// Update applies a patch under a compare-and-swap on the restriction flag.
func (b *GeometryBackend) Update(ctx context.Context, id, communityID int64, patch domain.PlacePatch, expectRestricted bool) (*domain.Place, error) {
	set := []string{"updated_at = now()"}
	args := []any{id, communityID, expectRestricted}

	add := func(expr string, vals ...any) {
		n := len(args)
		for i := range vals {
			expr = strings.Replace(expr, fmt.Sprintf("{%d}", i), fmt.Sprintf("$%d", n+i+1), 1)
		}
		args = append(args, vals...)
		set = append(set, expr)
	}

	if patch.Name != nil {
		add("name = {0}", *patch.Name)
	}
	if patch.Description != nil {
		add("description = NULLIF({0}, '')", *patch.Description)
	}
	if patch.Coordinate != nil {
		add("location = ST_SetSRID(ST_MakePoint({0}, {1}), 4326)::geography",
			patch.Coordinate.Longitude, patch.Coordinate.Latitude)
	}
	if patch.Boundary != nil {
		boundary, err := boundaryJSON(patch.Boundary)
		if err != nil {
			return nil, err
		}
		add("boundary = ST_GeomFromGeoJSON({0})::geography", *boundary)
	}
	if patch.Region != nil {
		add("region = NULLIF({0}, '')", *patch.Region)
	}
	if patch.MediaURLs != nil {
		add("media_urls = {0}", *patch.MediaURLs)
	}
	if patch.CulturalSignificance != nil {
		add("cultural_significance = NULLIF({0}, '')", *patch.CulturalSignificance)
	}
	if patch.IsRestricted != nil {
		add("is_restricted = {0}", *patch.IsRestricted)
	}

	query := fmt.Sprintf(`
		UPDATE places SET %s
		WHERE id = $1 AND community_id = $2 AND is_restricted = $3
		RETURNING%s`, strings.Join(set, ", "), geomColumns)

	place, err := scanPlace(b.db.Pool.QueryRow(ctx, query, args...), nil)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPlaceNotFound
	}
	if err != nil {
		return nil, dbErr("update place", err)
	}
	return place, nil
}

// Delete removes a place permanently.
func (b *GeometryBackend) Delete(ctx context.Context, id, communityID int64) error {
	tag, err := b.db.Pool.Exec(ctx,
		`DELETE FROM places WHERE id = $1 AND community_id = $2`, id, communityID)
	if err != nil {
		return dbErr("delete place", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPlaceNotFound
	}
	return nil
}

// FindWithinRadius returns places within radiusKm of center using
// ST_DWithin on geography, ordered by geodesic distance then id.
func (b *GeometryBackend) FindWithinRadius(ctx context.Context, center domain.Coordinate, radiusKm float64, communityID int64, filter ports.PlaceFilter, page ports.PageRequest) ([]domain.Place, int, error) {
	if err := geovalid.ValidateRadiusKm(radiusKm); err != nil {
		return nil, 0, err
	}
	where := []string{
		"community_id = $1",
		"ST_DWithin(location, ST_SetSRID(ST_MakePoint($2, $3), 4326)::geography, $4)",
	}
	args := []any{communityID, center.Longitude, center.Latitude, radiusKm * 1000}
	where, args = filterClause(where, args, filter)
	pred := strings.Join(where, " AND ")

	query := fmt.Sprintf(`
		SELECT%s,
		       ST_Distance(location, ST_SetSRID(ST_MakePoint($2, $3), 4326)::geography) AS distance
		FROM places WHERE %s
		ORDER BY distance, id LIMIT $%d OFFSET $%d`,
		geomColumns, pred, len(args)+1, len(args)+2)
	countQuery := "SELECT count(*) FROM places WHERE " + pred

	return b.list(ctx, "radius search", query, countQuery, args, page, true)
}

// FindInBounds returns places covered by the lat/lng envelope, edges
// included, ordered by id.
func (b *GeometryBackend) FindInBounds(ctx context.Context, bbox domain.Bounds, communityID int64, filter ports.PlaceFilter, page ports.PageRequest) ([]domain.Place, int, error) {
	if err := geovalid.ValidateBounds(bbox); err != nil {
		return nil, 0, err
	}
	where := []string{
		"community_id = $1",
		// ST_MakeEnvelope(xmin, ymin, xmax, ymax): west, south, east, north.
		"ST_Covers(ST_MakeEnvelope($2, $3, $4, $5, 4326), location::geometry)",
	}
	args := []any{communityID, bbox.West, bbox.South, bbox.East, bbox.North}
	where, args = filterClause(where, args, filter)
	pred := strings.Join(where, " AND ")

	query := fmt.Sprintf(`SELECT%s FROM places WHERE %s ORDER BY id LIMIT $%d OFFSET $%d`,
		geomColumns, pred, len(args)+1, len(args)+2)
	countQuery := "SELECT count(*) FROM places WHERE " + pred

	return b.list(ctx, "bounds search", query, countQuery, args, page, false)
}
