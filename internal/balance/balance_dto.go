package balance

type UpdateAllotmentsRequest struct {
	AnnualAllotment   int `json:"annual_allotment" binding:"min=0"`
	SickAllotment     int `json:"sick_allotment" binding:"min=0"`
	PersonalAllotment int `json:"personal_allotment" binding:"min=0"`
}

type BalanceResponse struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Year   int    `json:"year"`

	AnnualAllotment   int `json:"annual_allotment"`
	SickAllotment     int `json:"sick_allotment"`
	PersonalAllotment int `json:"personal_allotment"`

	UsedAnnual   int `json:"used_annual"`
	UsedSick     int `json:"used_sick"`
	UsedPersonal int `json:"used_personal"`

	RemainingAnnual   int `json:"remaining_annual"`
	RemainingSick     int `json:"remaining_sick"`
	RemainingPersonal int `json:"remaining_personal"`
}

func mapToResponse(b LeaveBalance) BalanceResponse {
	return BalanceResponse{
		ID:                b.ID.String(),
		UserID:            b.UserID.String(),
		Year:              b.Year,
		AnnualAllotment:   b.AnnualAllotment,
		SickAllotment:     b.SickAllotment,
		PersonalAllotment: b.PersonalAllotment,
		UsedAnnual:        b.UsedAnnual,
		UsedSick:          b.UsedSick,
		UsedPersonal:      b.UsedPersonal,
		RemainingAnnual:   b.AnnualAllotment - b.UsedAnnual,
		RemainingSick:     b.SickAllotment - b.UsedSick,
		RemainingPersonal: b.PersonalAllotment - b.UsedPersonal,
	}
}
