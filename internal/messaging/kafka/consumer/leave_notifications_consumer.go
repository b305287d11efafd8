package consumer

import (
	"context"
	"encoding/json"

	"hr-leave/internal/events"
	"hr-leave/internal/notification"
	"hr-leave/internal/user"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeLeaveNotifications reads leave notification events and delivers
// the corresponding emails. Delivery is best effort: a failed send is
// logged and the message is committed anyway, so a broken mail server can
// never stall the consumer group.
func ConsumeLeaveNotifications(
	ctx context.Context,
	reader *kafkago.Reader,
	userService user.Service,
	mailer notification.Mailer,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_notifications")
	log.Info("leave notifications consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave notifications consumer stopped")
				return
			}
			log.Error("fetch leave notification message failed", zap.Error(err))
			continue
		}

		eventType := headerValue(msg, "event_type")
		switch eventType {
		case events.TypeLeaveRequestSubmitted:
			handleSubmitted(ctx, msg.Value, userService, mailer, log)
		case events.TypeLeaveRequestReviewed:
			handleReviewed(ctx, msg.Value, userService, mailer, log)
		default:
			log.Warn("unknown leave notification event type, skipping",
				zap.String("event_type", eventType),
			)
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave notification message failed", zap.Error(err))
		}
	}
}

func handleSubmitted(
	ctx context.Context,
	payload []byte,
	userService user.Service,
	mailer notification.Mailer,
	log *zap.Logger,
) {
	var event events.LeaveRequestSubmittedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		log.Error("decode leave_request.submitted event failed", zap.Error(err))
		return
	}

	employee, err := userService.Resolve(ctx, event.UserID)
	if err != nil {
		log.Error("resolve employee for submitted notification failed",
			zap.String("request_id", event.RequestID),
			zap.String("user_id", event.UserID),
			zap.Error(err),
		)
		return
	}

	manager, err := userService.Resolve(ctx, event.ManagerID)
	if err != nil {
		log.Error("resolve manager for submitted notification failed",
			zap.String("request_id", event.RequestID),
			zap.String("manager_id", event.ManagerID),
			zap.Error(err),
		)
		return
	}

	subject, body := notification.ComposeSubmitted(event, employee.FullName(), manager.FullName())
	if err := mailer.Send(ctx, manager.Email, subject, body); err != nil {
		log.Error("send submitted notification failed",
			zap.String("request_id", event.RequestID),
			zap.String("to", manager.Email),
			zap.Error(err),
		)
		return
	}

	log.Info("submitted notification sent",
		zap.String("request_id", event.RequestID),
		zap.String("to", manager.Email),
	)
}

func handleReviewed(
	ctx context.Context,
	payload []byte,
	userService user.Service,
	mailer notification.Mailer,
	log *zap.Logger,
) {
	var event events.LeaveRequestReviewedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		log.Error("decode leave_request.reviewed event failed", zap.Error(err))
		return
	}

	employee, err := userService.Resolve(ctx, event.UserID)
	if err != nil {
		log.Error("resolve employee for reviewed notification failed",
			zap.String("request_id", event.RequestID),
			zap.String("user_id", event.UserID),
			zap.Error(err),
		)
		return
	}

	subject, body := notification.ComposeReviewed(event, employee.FullName())
	if err := mailer.Send(ctx, employee.Email, subject, body); err != nil {
		log.Error("send reviewed notification failed",
			zap.String("request_id", event.RequestID),
			zap.String("to", employee.Email),
			zap.Error(err),
		)
		return
	}

	log.Info("reviewed notification sent",
		zap.String("request_id", event.RequestID),
		zap.String("to", employee.Email),
	)
}

func headerValue(msg kafkago.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
