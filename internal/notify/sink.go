package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"auction-house/internal/kafka"
	"auction-house/internal/models"
	"auction-house/internal/redisx"
	"auction-house/internal/repository"
	"auction-house/utils"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
)

//go:generate mockgen -destination=mock_sink.go -package=notify auction-house/internal/notify Sink

// Sink delivers one notification to one user
type Sink interface {
	Emit(ctx context.Context, userID int64, kind models.NotificationKind, payload models.NotificationPayload) error
}

func encode(userID int64, kind models.NotificationKind, payload models.NotificationPayload, now time.Time) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("notify: encode payload: %w", err)
	}
	return json.Marshal(models.Notification{UserID: userID, Kind: kind, Payload: raw, CreatedAt: now})
}

// StoreSink persists notifications so they can be listed later
type StoreSink struct {
	store repository.NotificationStore
	now   func() time.Time
}

func NewStoreSink(store repository.NotificationStore) *StoreSink {
	return &StoreSink{store: store, now: func() time.Time { return time.Now().UTC() }}
}

func (s *StoreSink) Emit(ctx context.Context, userID int64, kind models.NotificationKind, payload models.NotificationPayload) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("notify: encode payload: %w", err)
	}
	_, err = s.store.SaveNotification(ctx, models.Notification{
		UserID:    userID,
		Kind:      kind,
		Payload:   raw,
		CreatedAt: s.now(),
	})
	return err
}

type redisPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisSink publishes to the user's pub/sub channel for live delivery
type RedisSink struct {
	rdb redisPublisher
}

func NewRedisSink(rdb redisPublisher) *RedisSink {
	return &RedisSink{rdb: rdb}
}

func (s *RedisSink) Emit(ctx context.Context, userID int64, kind models.NotificationKind, payload models.NotificationPayload) error {
	msg, err := encode(userID, kind, payload, time.Now().UTC())
	if err != nil {
		return err
	}
	channel := redisx.NotificationChannel(userID)
	if err := s.rdb.Publish(ctx, channel, msg).Err(); err != nil {
		return fmt.Errorf("notify: redis publish %s: %w", channel, err)
	}
	return nil
}

type kafkaPublisher interface {
	Publish(key, value []byte, headers ...kafkago.Header) error
}

// KafkaSink writes a notification event keyed by the target user
type KafkaSink struct {
	producer    kafkaPublisher
	serviceName string
}

func NewKafkaSink(producer kafkaPublisher, serviceName string) *KafkaSink {
	return &KafkaSink{producer: producer, serviceName: serviceName}
}

func (s *KafkaSink) Emit(_ context.Context, userID int64, kind models.NotificationKind, payload models.NotificationPayload) error {
	now := time.Now().UTC()
	msg, err := encode(userID, kind, payload, now)
	if err != nil {
		return err
	}
	key := strconv.FormatInt(userID, 10)
	ev := kafka.Envelope{
		EventID:       utils.GenerateID(),
		EventType:     kafka.EventNotification,
		EventVersion:  1,
		OccurredAt:    now,
		Producer:      s.serviceName,
		CorrelationID: key,
		Payload:       msg,
	}
	err = s.producer.Publish([]byte(key), kafka.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(kafka.EventNotification)},
		kafkago.Header{Key: "x-notification-kind", Value: []byte(kind)},
	)
	if err != nil {
		return fmt.Errorf("notify: kafka publish: %w", err)
	}
	return nil
}

type natsPublisher interface {
	Publish(subj string, data []byte) error
}

// NATSSink publishes on notifications.{userID}; *nats.Conn satisfies natsPublisher
type NATSSink struct {
	conn natsPublisher
}

func NewNATSSink(conn natsPublisher) *NATSSink {
	return &NATSSink{conn: conn}
}

// NATSSubject is the subject a user's notifications are published on
func NATSSubject(userID int64) string {
	return fmt.Sprintf("notifications.%d", userID)
}

func (s *NATSSink) Emit(_ context.Context, userID int64, kind models.NotificationKind, payload models.NotificationPayload) error {
	msg, err := encode(userID, kind, payload, time.Now().UTC())
	if err != nil {
		return err
	}
	subject := NATSSubject(userID)
	if err := s.conn.Publish(subject, msg); err != nil {
		return fmt.Errorf("notify: nats publish %s: %w", subject, err)
	}
	return nil
}

// Fanout delivers to every sink. One failing sink does not stop the others.
type Fanout []Sink

func (f Fanout) Emit(ctx context.Context, userID int64, kind models.NotificationKind, payload models.NotificationPayload) error {
	var errs []error
	for _, s := range f {
		if err := s.Emit(ctx, userID, kind, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
