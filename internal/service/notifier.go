package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Notification event types. Delivery (email/SMS, formatting, retries) is
// owned by the stream consumer, not by this service.
const (
	EventAppointmentBooked    = "appointment.booked"
	EventCancelledByPatient   = "appointment.cancelled_by_patient"
	EventCancelledByDoctor    = "appointment.cancelled_by_doctor"
	EventDoctorUnavailable    = "appointment.cancelled_doctor_unavailable"
	EventAppointmentFinalized = "appointment.finalized"
)

// AppointmentEvent is the abstract notification emitted after a lifecycle
// change has been committed. It addresses both parties; the consumer decides
// who gets which message.
type AppointmentEvent struct {
	Type          string
	AppointmentID uuid.UUID
	PatientID     uuid.UUID
	DoctorID      uuid.UUID
	Date          string // Format: YYYY-MM-DD
	StartTime     string // Format: HH:MM
	OccurredAt    time.Time
}

// Notifier publishes appointment events. Implementations must not be relied
// on for correctness: callers treat Emit as fire-and-forget and never roll
// back a committed status change when it fails.
type Notifier interface {
	Emit(ctx context.Context, event AppointmentEvent) error
}

// RedisNotifier appends events to a Redis stream for out-of-process
// delivery workers.
type RedisNotifier struct {
	client *redis.Client
	stream string
	log    *logrus.Logger
}

func NewRedisNotifier(client *redis.Client, stream string, log *logrus.Logger) *RedisNotifier {
	return &RedisNotifier{
		client: client,
		stream: stream,
		log:    log,
	}
}

func (n *RedisNotifier) Emit(ctx context.Context, event AppointmentEvent) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	err := n.client.XAdd(ctx, &redis.XAddArgs{
		Stream: n.stream,
		Values: map[string]interface{}{
			"type":           event.Type,
			"appointment_id": event.AppointmentID.String(),
			"patient_id":     event.PatientID.String(),
			"doctor_id":      event.DoctorID.String(),
			"date":           event.Date,
			"start_time":     event.StartTime,
			"occurred_at":    event.OccurredAt.Format(time.RFC3339),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd %s event to stream %s: %w", event.Type, n.stream, err)
	}

	n.log.Debugf("Emitted %s event for appointment %s", event.Type, event.AppointmentID)
	return nil
}
