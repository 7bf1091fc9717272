package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/nahanni/placekeeper/internal/core/domain"
	"github.com/nahanni/placekeeper/internal/core/ports"
)

// Publisher implements ports.EventPublisher on NATS JetStream. Subjects are
// places.<community_id>.<event>, so consumers can subscribe per community.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

var _ ports.EventPublisher = (*Publisher)(nil)

// NewPublisher connects to NATS and ensures the place event stream exists.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	cfg := nats.StreamConfig{
		Name:      "PLACE_EVENTS",
		Subjects:  []string{"places.>"},
		Retention: nats.InterestPolicy,
		MaxAge:    24 * time.Hour,
		Storage:   nats.FileStorage,
	}
	if _, err := js.AddStream(&cfg); err != nil {
		// Stream may already exist — try update
		if _, err := js.UpdateStream(&cfg); err != nil {
			return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

// placeEvent is the wire shape of a place change notification. Restricted
// places are announced by id only; their payload never leaves the service.
type placeEvent struct {
	CommunityID int64         `json:"community_id"`
	PlaceID     int64         `json:"place_id"`
	Restricted  bool          `json:"restricted"`
	Place       *domain.Place `json:"place,omitempty"`
}

func (p *Publisher) publish(communityID, placeID int64, event string, place *domain.Place) error {
	e := placeEvent{CommunityID: communityID, PlaceID: placeID}
	if place != nil {
		e.Restricted = place.IsRestricted
		if !place.IsRestricted {
			e.Place = place
		}
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("places.%d.%s", communityID, event)
	_, err = p.js.Publish(subject, data)
	return err
}

func (p *Publisher) PublishPlaceCreated(_ context.Context, place *domain.Place) error {
	return p.publish(place.CommunityID, place.ID, "created", place)
}

func (p *Publisher) PublishPlaceUpdated(_ context.Context, place *domain.Place) error {
	return p.publish(place.CommunityID, place.ID, "updated", place)
}

func (p *Publisher) PublishPlaceDeleted(_ context.Context, communityID, placeID int64) error {
	return p.publish(communityID, placeID, "deleted", nil)
}

// IsConnected reports whether the underlying NATS connection is up.
func (p *Publisher) IsConnected() bool {
	return p.conn.IsConnected()
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}
