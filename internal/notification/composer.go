package notification

import (
	"fmt"
	"strings"

	"hr-leave/internal/events"
)

const signature = "Best regards,\nHR Leave Management System"

// ComposeSubmitted builds the mail sent to a manager when one of their
// reports files a new leave request.
func ComposeSubmitted(ev events.LeaveRequestSubmittedEvent, employeeName, managerName string) (subject, body string) {
	subject = "New Leave Request - " + employeeName

	body = fmt.Sprintf(
		"Dear %s,\n\n"+
			"A new leave request has been submitted by %s:\n\n"+
			"Type: %s\n"+
			"Start Date: %s\n"+
			"End Date: %s\n"+
			"Days: %d\n"+
			"Reason: %s\n\n"+
			"Please review and approve/reject this request.\n\n"+
			signature,
		managerName,
		employeeName,
		ev.LeaveType,
		ev.StartDate,
		ev.EndDate,
		ev.Days,
		ev.Reason,
	)
	return subject, body
}

// ComposeReviewed builds the mail sent to the employee once their request
// has been approved or rejected.
func ComposeReviewed(ev events.LeaveRequestReviewedEvent, employeeName string) (subject, body string) {
	subject = fmt.Sprintf("Leave Request %s - %s", ev.Status, ev.LeaveType)

	comments := ""
	if ev.Comments != "" {
		comments = "Comments: " + ev.Comments + "\n"
	}

	body = fmt.Sprintf(
		"Dear %s,\n\n"+
			"Your leave request has been %s:\n\n"+
			"Type: %s\n"+
			"Start Date: %s\n"+
			"End Date: %s\n"+
			"Days: %d\n"+
			"Status: %s\n"+
			"%s"+
			"\n"+signature,
		employeeName,
		strings.ToLower(ev.Status),
		ev.LeaveType,
		ev.StartDate,
		ev.EndDate,
		ev.Days,
		ev.Status,
		comments,
	)
	return subject, body
}
