package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/nahanni/placekeeper/internal/core/domain"
	"github.com/nahanni/placekeeper/internal/core/ports"
	"github.com/nahanni/placekeeper/internal/pkg/geovalid"
	"github.com/nahanni/placekeeper/internal/pkg/metrics"
)

// casRetries bounds the restriction compare-and-swap retry loop. A miss
// means another writer flipped the flag between our read and our write;
// one re-read is nearly always enough.
const casRetries = 2

// PlaceService orchestrates every place operation: structural validation,
// coordinate validation, media URL validation, the cultural access policy,
// then the tenant-guarded backend call. Any failing step aborts before
// persistence; no partial writes occur.
type PlaceService struct {
	backend     ports.SpatialBackend // tenant guard, never the raw backend
	engine      *GeoQueryEngine
	policy      CulturalAccessPolicy
	communities ports.CommunityRepository
	events      ports.EventPublisher // optional
}

// NewPlaceService wires the service. backend must already be wrapped by
// the tenant isolation guard. events may be nil.
func NewPlaceService(backend ports.SpatialBackend, engine *GeoQueryEngine, communities ports.CommunityRepository, events ports.EventPublisher) *PlaceService {
	return &PlaceService{
		backend:     backend,
		engine:      engine,
		communities: communities,
		events:      events,
	}
}

var _ ports.PlaceOperations = (*PlaceService)(nil)

// CreatePlace validates and persists a new place in the given community.
func (s *PlaceService) CreatePlace(ctx context.Context, caller domain.Caller, communityID int64, in ports.CreatePlaceInput) (*domain.Place, error) {
	if err := validateFields(in.Name, in.Description, in.Region, in.CulturalSignificance, true); err != nil {
		return nil, err
	}
	if err := geovalid.ValidateCoordinate(in.Coordinate.Latitude, in.Coordinate.Longitude); err != nil {
		return nil, err
	}
	if err := geovalid.ValidatePolygon(in.Boundary); err != nil {
		return nil, err
	}
	if err := validateMediaURLs(in.MediaURLs); err != nil {
		return nil, err
	}
	if err := s.policy.AuthorizeCreate(caller.Role, in.IsRestricted); err != nil {
		metrics.AccessDenials.WithLabelValues("create").Inc()
		return nil, err
	}

	exists, err := s.communities.Exists(ctx, communityID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrCommunityNotFound
	}

	place := &domain.Place{
		CommunityID:          communityID,
		Name:                 in.Name,
		Description:          in.Description,
		Coordinate:           in.Coordinate,
		Boundary:             in.Boundary,
		Region:               in.Region,
		MediaURLs:            in.MediaURLs,
		CulturalSignificance: in.CulturalSignificance,
		IsRestricted:         in.IsRestricted,
	}

	created, err := s.backend.Insert(ctx, place)
	if err != nil {
		return nil, err
	}

	metrics.PlaceMutations.WithLabelValues("create").Inc()
	s.publish(ctx, "created", func(p ports.EventPublisher) error {
		return p.PublishPlaceCreated(ctx, created)
	})
	return created, nil
}

// GetPlaceByID returns a single place scoped to the community. An absent
// place and a place in another community are indistinguishable to the
// caller; a present but restricted place is a protocol violation for roles
// without cultural authority.
func (s *PlaceService) GetPlaceByID(ctx context.Context, caller domain.Caller, communityID, id int64) (*domain.Place, error) {
	place, err := s.backend.GetByID(ctx, id, communityID)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanRead(caller.Role, place) {
		metrics.AccessDenials.WithLabelValues("read").Inc()
		return nil, domain.ErrCulturalProtocolViolation
	}
	return place, nil
}

// GetPlacesByCommunity lists a community's places, restricted records
// included only for callers with cultural authority.
func (s *PlaceService) GetPlacesByCommunity(ctx context.Context, caller domain.Caller, communityID int64, region string, page, limit int) (*domain.PlacePage, error) {
	pg := clampPage(page, limit)
	filter := ports.PlaceFilter{
		IncludeRestricted: caller.Role.HasCulturalAuthority(),
		Region:            region,
	}

	rows, total, err := s.backend.ListByCommunity(ctx, communityID, filter, pg)
	if err != nil {
		return nil, err
	}

	visible := s.policy.FilterVisible(caller.Role, rows)
	if dropped := len(rows) - len(visible); dropped > 0 {
		metrics.RestrictedFiltered.Add(float64(dropped))
		total -= dropped
	}
	if visible == nil {
		visible = []domain.Place{}
	}
	return &domain.PlacePage{Data: visible, Total: total, Page: pg.Page, Limit: pg.Limit}, nil
}

// UpdatePlace applies a partial update. The policy is evaluated against the
// record's current restriction state before any requested new state, and
// the write itself compare-and-swaps on that flag so a concurrent
// restriction change cannot slip past the check.
func (s *PlaceService) UpdatePlace(ctx context.Context, caller domain.Caller, communityID, id int64, patch domain.PlacePatch) (*domain.Place, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	for attempt := 0; attempt <= casRetries; attempt++ {
		current, err := s.backend.GetByID(ctx, id, communityID)
		if err != nil {
			return nil, err
		}
		if err := s.policy.AuthorizeUpdate(caller.Role, current, patch); err != nil {
			metrics.AccessDenials.WithLabelValues("update").Inc()
			return nil, err
		}

		updated, err := s.backend.Update(ctx, id, communityID, patch, current.IsRestricted)
		if errors.Is(err, domain.ErrPlaceNotFound) {
			// Either truly gone or the restriction flag moved under us.
			// Re-read and re-run the policy against the fresh state.
			continue
		}
		if err != nil {
			return nil, err
		}

		metrics.PlaceMutations.WithLabelValues("update").Inc()
		s.publish(ctx, "updated", func(p ports.EventPublisher) error {
			return p.PublishPlaceUpdated(ctx, updated)
		})
		return updated, nil
	}

	return nil, domain.NewDatabaseError("update place", fmt.Errorf("restriction flag changed concurrently %d times", casRetries+1))
}

// DeletePlace removes a place permanently. Nothing resurrects after
// delete.
func (s *PlaceService) DeletePlace(ctx context.Context, caller domain.Caller, communityID, id int64) error {
	if err := s.policy.AuthorizeDelete(caller.Role); err != nil {
		metrics.AccessDenials.WithLabelValues("delete").Inc()
		return err
	}

	// Fetch first so an absent or cross-tenant id reports not-found before
	// anything touches storage.
	if _, err := s.backend.GetByID(ctx, id, communityID); err != nil {
		return err
	}

	if err := s.backend.Delete(ctx, id, communityID); err != nil {
		return err
	}

	metrics.PlaceMutations.WithLabelValues("delete").Inc()
	s.publish(ctx, "deleted", func(p ports.EventPublisher) error {
		return p.PublishPlaceDeleted(ctx, communityID, id)
	})
	return nil
}

// SearchPlacesNear finds places within radiusKm of center.
func (s *PlaceService) SearchPlacesNear(ctx context.Context, caller domain.Caller, communityID int64, center domain.Coordinate, radiusKm float64, page, limit int) (*domain.PlacePage, error) {
	return s.engine.SearchNear(ctx, communityID, center, radiusKm, page, limit, caller.Role)
}

// GetPlacesByBounds finds places inside a bounding box.
func (s *PlaceService) GetPlacesByBounds(ctx context.Context, caller domain.Caller, communityID int64, bbox domain.Bounds, page, limit int) (*domain.PlacePage, error) {
	return s.engine.SearchInBounds(ctx, communityID, bbox, page, limit, caller.Role)
}

// publish emits a place event best-effort. Event delivery never fails the
// operation that produced it.
func (s *PlaceService) publish(ctx context.Context, event string, fn func(ports.EventPublisher) error) {
	if s.events == nil {
		return
	}
	if err := fn(s.events); err != nil {
		slog.Warn("place event publish failed", "event", event, "error", err)
	}
}

// validateFields checks the length constraints on text fields. Name is
// required on create but optional in a patch.
func validateFields(name, description, region, significance string, nameRequired bool) error {
	if nameRequired && strings.TrimSpace(name) == "" {
		return domain.NewValidationError("name", "is required")
	}
	if len(name) > domain.MaxNameLen {
		return domain.NewValidationError("name", "must be at most %d characters, got %d", domain.MaxNameLen, len(name))
	}
	if len(description) > domain.MaxDescriptionLen {
		return domain.NewValidationError("description", "must be at most %d characters, got %d", domain.MaxDescriptionLen, len(description))
	}
	if len(region) > domain.MaxRegionLen {
		return domain.NewValidationError("region", "must be at most %d characters, got %d", domain.MaxRegionLen, len(region))
	}
	if len(significance) > domain.MaxCulturalSignificanceLen {
		return domain.NewValidationError("cultural_significance", "must be at most %d characters, got %d", domain.MaxCulturalSignificanceLen, len(significance))
	}
	return nil
}

// validateMediaURLs checks the list length and that every entry is an
// absolute http(s) URL. One malformed entry fails the whole call; nothing
// is silently dropped.
func validateMediaURLs(urls []string) error {
	if len(urls) > domain.MaxMediaURLs {
		return domain.NewValidationError("media_urls", "at most %d entries allowed, got %d", domain.MaxMediaURLs, len(urls))
	}
	for i, raw := range urls {
		u, err := url.Parse(raw)
		if err != nil || !u.IsAbs() || u.Host == "" {
			return domain.NewValidationError("media_urls", "entry %d is not an absolute URL: %q", i, raw)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return domain.NewValidationError("media_urls", "entry %d must use http or https, got %q", i, u.Scheme)
		}
	}
	return nil
}

// validatePatch runs the structural checks on whichever fields the patch
// sets.
func validatePatch(patch domain.PlacePatch) error {
	if patch.Empty() {
		return domain.NewValidationError("patch", "no fields to update")
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return domain.NewValidationError("name", "must not be empty")
	}

	name, description, region, significance := "", "", "", ""
	if patch.Name != nil {
		name = *patch.Name
	}
	if patch.Description != nil {
		description = *patch.Description
	}
	if patch.Region != nil {
		region = *patch.Region
	}
	if patch.CulturalSignificance != nil {
		significance = *patch.CulturalSignificance
	}
	if err := validateFields(name, description, region, significance, false); err != nil {
		return err
	}

	if patch.Coordinate != nil {
		if err := geovalid.ValidateCoordinate(patch.Coordinate.Latitude, patch.Coordinate.Longitude); err != nil {
			return err
		}
	}
	if patch.Boundary != nil {
		if err := geovalid.ValidatePolygon(patch.Boundary); err != nil {
			return err
		}
	}
	if patch.MediaURLs != nil {
		if err := validateMediaURLs(*patch.MediaURLs); err != nil {
			return err
		}
	}
	return nil
}
