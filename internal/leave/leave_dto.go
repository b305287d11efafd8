package leave

import "time"

type CreateLeaveRequest struct {
	Type      string `json:"type" binding:"required,oneof=ANNUAL SICK PERSONAL MATERNITY EMERGENCY"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Days      int    `json:"days" binding:"required,gt=0"`
	Reason    string `json:"reason" binding:"required"`
}

type UpdateLeaveRequest struct {
	Type      string `json:"type" binding:"required,oneof=ANNUAL SICK PERSONAL MATERNITY EMERGENCY"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Days      int    `json:"days" binding:"required,gt=0"`
	Reason    string `json:"reason" binding:"required"`
}

type ReviewLeaveRequest struct {
	Decision string `json:"decision" binding:"required,oneof=APPROVED REJECTED"`
	Comments string `json:"comments"`
}

type LeaveResponse struct {
	ID               string  `json:"id"`
	UserID           string  `json:"user_id"`
	Type             string  `json:"type"`
	StartDate        string  `json:"start_date"`
	EndDate          string  `json:"end_date"`
	Days             int     `json:"days"`
	Reason           string  `json:"reason"`
	Status           string  `json:"status"`
	SubmittedAt      string  `json:"submitted_at"`
	ReviewedAt       *string `json:"reviewed_at,omitempty"`
	ReviewedBy       *string `json:"reviewed_by,omitempty"`
	ReviewerComments *string `json:"reviewer_comments,omitempty"`
}

func mapToResponse(r LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:          r.ID.String(),
		UserID:      r.UserID.String(),
		Type:        r.Type.String(),
		StartDate:   r.StartDate.Format("2006-01-02"),
		EndDate:     r.EndDate.Format("2006-01-02"),
		Days:        r.Days,
		Reason:      r.Reason,
		Status:      r.Status,
		SubmittedAt: r.SubmittedAt.Format(time.RFC3339),
	}
	if r.ReviewedAt != nil {
		v := r.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &v
	}
	if r.ReviewedBy != nil {
		v := r.ReviewedBy.String()
		resp.ReviewedBy = &v
	}
	resp.ReviewerComments = r.ReviewerComments
	return resp
}

func mapToListResponse(requests []LeaveRequest) []LeaveResponse {
	resp := make([]LeaveResponse, len(requests))
	for i, r := range requests {
		resp[i] = mapToResponse(r)
	}
	return resp
}
