package notification_test

import (
	"testing"
	"time"

	"hr-leave/internal/events"
	"hr-leave/internal/notification"

	"github.com/stretchr/testify/assert"
)

func TestComposeSubmitted(t *testing.T) {
	ev := events.LeaveRequestSubmittedEvent{
		EventType:  events.TypeLeaveRequestSubmitted,
		RequestID:  "req-1",
		LeaveType:  "ANNUAL",
		StartDate:  "2026-10-05",
		EndDate:    "2026-10-09",
		Days:       5,
		Reason:     "Family event",
		OccurredAt: time.Now().UTC(),
	}

	subject, body := notification.ComposeSubmitted(ev, "Jordan Reyes", "Sam Okafor")

	assert.Equal(t, "New Leave Request - Jordan Reyes", subject)
	assert.Contains(t, body, "Dear Sam Okafor,")
	assert.Contains(t, body, "submitted by Jordan Reyes")
	assert.Contains(t, body, "Type: ANNUAL")
	assert.Contains(t, body, "Start Date: 2026-10-05")
	assert.Contains(t, body, "Days: 5")
	assert.Contains(t, body, "Reason: Family event")
	assert.Contains(t, body, "approve/reject")
}

func TestComposeReviewed(t *testing.T) {
	t.Run("approved with comments", func(t *testing.T) {
		ev := events.LeaveRequestReviewedEvent{
			EventType: events.TypeLeaveRequestReviewed,
			RequestID: "req-1",
			Status:    "APPROVED",
			LeaveType: "SICK",
			StartDate: "2026-11-02",
			EndDate:   "2026-11-03",
			Days:      2,
			Comments:  "Get well soon",
		}

		subject, body := notification.ComposeReviewed(ev, "Jordan Reyes")

		assert.Equal(t, "Leave Request APPROVED - SICK", subject)
		assert.Contains(t, body, "Dear Jordan Reyes,")
		assert.Contains(t, body, "has been approved")
		assert.Contains(t, body, "Status: APPROVED")
		assert.Contains(t, body, "Comments: Get well soon")
	})

	t.Run("rejected without comments omits the comments line", func(t *testing.T) {
		ev := events.LeaveRequestReviewedEvent{
			Status:    "REJECTED",
			LeaveType: "ANNUAL",
			Days:      5,
		}

		subject, body := notification.ComposeReviewed(ev, "Jordan Reyes")

		assert.Equal(t, "Leave Request REJECTED - ANNUAL", subject)
		assert.Contains(t, body, "has been rejected")
		assert.NotContains(t, body, "Comments:")
	})
}
