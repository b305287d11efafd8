package leave

import (
	"time"

	"hr-leave/internal/domain"

	"github.com/google/uuid"
)

const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"
)

type LeaveRequest struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_user"`

	Type      domain.LeaveType `gorm:"type:varchar(30);not null"`
	StartDate time.Time        `gorm:"type:date;not null"`
	EndDate   time.Time        `gorm:"type:date;not null"`
	Days      int              `gorm:"not null"`
	Reason    string           `gorm:"type:text;not null"`

	Status      string     `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_leave_requests_status"`
	SubmittedAt time.Time  `gorm:"not null"`
	ReviewedAt  *time.Time
	ReviewedBy  *uuid.UUID `gorm:"type:uuid"`

	ReviewerComments *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// isAllowedStatusTransition is the closed transition table of the request
// lifecycle. REJECTED and CANCELLED are terminal; APPROVED only permits
// cancellation.
func isAllowedStatusTransition(currentStatus, targetStatus string) bool {
	switch currentStatus {
	case StatusPending:
		return targetStatus == StatusApproved ||
			targetStatus == StatusRejected ||
			targetStatus == StatusCancelled
	case StatusApproved:
		return targetStatus == StatusCancelled
	default:
		return false
	}
}
