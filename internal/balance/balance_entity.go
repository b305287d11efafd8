package balance

import (
	"time"

	"hr-leave/internal/domain"

	"github.com/google/uuid"
)

// Default yearly allotments, granted when a balance row is lazily created.
const (
	DefaultAnnualAllotment   = 25
	DefaultSickAllotment     = 10
	DefaultPersonalAllotment = 5
)

// LeaveBalance is the per-user per-year entitlement ledger row. Used counters
// are mutated only through the ledger service, under a row lock.
type LeaveBalance struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_leave_balances_user_year"`
	Year   int       `gorm:"not null;uniqueIndex:idx_leave_balances_user_year"`

	AnnualAllotment   int `gorm:"not null;default:25"`
	SickAllotment     int `gorm:"not null;default:10"`
	PersonalAllotment int `gorm:"not null;default:5"`

	UsedAnnual   int `gorm:"not null;default:0"`
	UsedSick     int `gorm:"not null;default:0"`
	UsedPersonal int `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Remaining returns allotment minus used for a tracked category, and 0 for
// untracked categories, which never hold a balance.
func (b *LeaveBalance) Remaining(t domain.LeaveType) int {
	switch t {
	case domain.LeaveAnnual:
		return b.AnnualAllotment - b.UsedAnnual
	case domain.LeaveSick:
		return b.SickAllotment - b.UsedSick
	case domain.LeavePersonal:
		return b.PersonalAllotment - b.UsedPersonal
	default:
		return 0
	}
}

func (b *LeaveBalance) used(t domain.LeaveType) int {
	switch t {
	case domain.LeaveAnnual:
		return b.UsedAnnual
	case domain.LeaveSick:
		return b.UsedSick
	case domain.LeavePersonal:
		return b.UsedPersonal
	default:
		return 0
	}
}

func (b *LeaveBalance) setUsed(t domain.LeaveType, v int) {
	switch t {
	case domain.LeaveAnnual:
		b.UsedAnnual = v
	case domain.LeaveSick:
		b.UsedSick = v
	case domain.LeavePersonal:
		b.UsedPersonal = v
	}
}
