package kafka_test

import (
	"testing"

	"hr-leave/internal/messaging/kafka"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func validEvent() kafka.OutboxEvent {
	return kafka.OutboxEvent{
		ID:            uuid.New().String(),
		AggregateType: "LeaveRequest",
		AggregateID:   uuid.New().String(),
		EventType:     "leave_request.submitted",
		Topic:         "hr.leave.notifications.v1",
		Payload:       []byte(`{"request_id":"r1"}`),
		Status:        kafka.OutboxStatusPending,
	}
}

func TestValidateOutboxEvent(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, kafka.ValidateOutboxEvent(validEvent()))
	})

	t.Run("missing id", func(t *testing.T) {
		ev := validEvent()
		ev.ID = ""
		assert.Error(t, kafka.ValidateOutboxEvent(ev))
	})

	t.Run("missing topic", func(t *testing.T) {
		ev := validEvent()
		ev.Topic = ""
		assert.Error(t, kafka.ValidateOutboxEvent(ev))
	})

	t.Run("empty payload", func(t *testing.T) {
		ev := validEvent()
		ev.Payload = nil
		assert.Error(t, kafka.ValidateOutboxEvent(ev))
	})

	t.Run("unknown status", func(t *testing.T) {
		ev := validEvent()
		ev.Status = "queued"
		assert.Error(t, kafka.ValidateOutboxEvent(ev))
	})
}
