package events

import "time"

// Topic carrying every leave notification intent. Events are written to the
// outbox inside the same transaction as the state change and published by the
// worker after commit, so notification delivery can never affect the
// operation that triggered it.
const LeaveNotificationsTopic = "hr.leave.notifications.v1"

const (
	TypeLeaveRequestSubmitted = "leave_request.submitted"
	TypeLeaveRequestReviewed  = "leave_request.reviewed"
)

type LeaveRequestSubmittedEvent struct {
	EventType string    `json:"event_type"`
	RequestID string    `json:"request_id"`
	UserID    string    `json:"user_id"`
	ManagerID string    `json:"manager_id"`
	LeaveType string    `json:"leave_type"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	Days      int       `json:"days"`
	Reason    string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}

type LeaveRequestReviewedEvent struct {
	EventType string    `json:"event_type"`
	RequestID string    `json:"request_id"`
	UserID    string    `json:"user_id"`
	Status    string    `json:"status"`
	LeaveType string    `json:"leave_type"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	Days      int       `json:"days"`
	Comments  string    `json:"comments,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
