package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"roadtrip-itinerary-service/internal/domain"
	"roadtrip-itinerary-service/internal/platform/obs"
	"roadtrip-itinerary-service/internal/ports"
)

const (
	source = "roadtrip-itinerary-service"

	TypeItineraryPlanned = "itinerary.planned"
)

// CloudEvent is the JSON envelope written to the topic.
type CloudEvent struct {
	SpecVersion     string          `json:"specversion"`
	ID              string          `json:"id"`
	Source          string          `json:"source"`
	Type            string          `json:"type"`
	Subject         string          `json:"subject,omitempty"`
	Time            time.Time       `json:"time"`
	DataContentType string          `json:"datacontenttype"`
	Data            json.RawMessage `json:"data"`
}

func newCloudEvent(eventType, subject string, data any) (CloudEvent, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return CloudEvent{}, fmt.Errorf("marshal event data: %w", err)
	}
	return CloudEvent{
		SpecVersion:     "1.0",
		ID:              uuid.NewString(),
		Source:          source,
		Type:            eventType,
		Subject:         subject,
		Time:            time.Now().UTC(),
		DataContentType: "application/json",
		Data:            raw,
	}, nil
}

// ItineraryPlannedData is the payload of TypeItineraryPlanned.
type ItineraryPlannedData struct {
	TripID         string          `json:"trip_id"`
	Category       domain.Category `json:"category"`
	Valid          bool            `json:"valid"`
	Cities         []int64         `json:"city_ids"`
	DetourCount    int             `json:"detour_count"`
	DrivingMinutes float64         `json:"driving_minutes"`
}

// messageWriter is the subset of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes itinerary events to a Kafka topic keyed by trip id.
type KafkaPublisher struct {
	w messageWriter
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{w: &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
	}}
}

func (p *KafkaPublisher) PublishItineraryPlanned(ctx context.Context, ev ports.ItineraryPlanned) (err error) {
	defer obs.Time(ctx, "events.PublishItineraryPlanned")(&err)

	ids := make([]int64, 0, len(ev.Itinerary.Cities))
	for _, c := range ev.Itinerary.Cities {
		ids = append(ids, c.ID)
	}

	ce, err := newCloudEvent(TypeItineraryPlanned, ev.TripID, ItineraryPlannedData{
		TripID:         ev.TripID,
		Category:       ev.Category,
		Valid:          ev.Itinerary.Valid,
		Cities:         ids,
		DetourCount:    len(ev.Itinerary.POIs),
		DrivingMinutes: ev.Itinerary.DrivingMinutes,
	})
	if err != nil {
		return err
	}

	value, err := json.Marshal(ce)
	if err != nil {
		return fmt.Errorf("marshal cloud event: %w", err)
	}

	if err := p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.TripID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "ce_type", Value: []byte(ce.Type)},
		},
	}); err != nil {
		return fmt.Errorf("write %s event: %w", ce.Type, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error { return p.w.Close() }

// NopPublisher drops every event; used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) PublishItineraryPlanned(context.Context, ports.ItineraryPlanned) error { return nil }
