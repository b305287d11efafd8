package domain

// LeaveType is a closed set of leave categories. Tracked categories consume
// the yearly balance; untracked ones are unlimited and bypass the ledger.
type LeaveType string

const (
	LeaveAnnual    LeaveType = "ANNUAL"
	LeaveSick      LeaveType = "SICK"
	LeavePersonal  LeaveType = "PERSONAL"
	LeaveMaternity LeaveType = "MATERNITY"
	LeaveEmergency LeaveType = "EMERGENCY"
)

func (t LeaveType) Valid() bool {
	switch t {
	case LeaveAnnual, LeaveSick, LeavePersonal, LeaveMaternity, LeaveEmergency:
		return true
	default:
		return false
	}
}

// Tracked reports whether the category counts against the yearly balance.
func (t LeaveType) Tracked() bool {
	switch t {
	case LeaveAnnual, LeaveSick, LeavePersonal:
		return true
	default:
		return false
	}
}

func (t LeaveType) String() string {
	return string(t)
}
