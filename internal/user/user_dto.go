package user

type CreateUserRequest struct {
	Email      string  `json:"email" binding:"required,email"`
	Password   string  `json:"password" binding:"required,min=8"`
	FirstName  string  `json:"first_name" binding:"required"`
	LastName   string  `json:"last_name" binding:"required"`
	Role       string  `json:"role" binding:"required,oneof=EMPLOYEE MANAGER HR"`
	ManagerID  *string `json:"manager_id" binding:"omitempty,uuid"`
	Department string  `json:"department" binding:"required"`
}

type UpdateUserRequest struct {
	FirstName  string  `json:"first_name" binding:"required"`
	LastName   string  `json:"last_name" binding:"required"`
	Role       string  `json:"role" binding:"required,oneof=EMPLOYEE MANAGER HR"`
	ManagerID  *string `json:"manager_id" binding:"omitempty,uuid"`
	Department string  `json:"department" binding:"required"`
	Password   *string `json:"password" binding:"omitempty,min=8"`
}

type UserResponse struct {
	ID         string  `json:"id"`
	Email      string  `json:"email"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	Role       string  `json:"role"`
	ManagerID  *string `json:"manager_id,omitempty"`
	Department string  `json:"department"`
	JoinDate   string  `json:"join_date"`
	Enabled    bool    `json:"enabled"`
}

func mapToResponse(u User) UserResponse {
	resp := UserResponse{
		ID:         u.ID.String(),
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Role:       u.Role,
		Department: u.Department,
		JoinDate:   u.JoinDate.Format("2006-01-02"),
		Enabled:    u.Enabled,
	}
	if u.ManagerID != nil {
		v := u.ManagerID.String()
		resp.ManagerID = &v
	}
	return resp
}

func mapToListResponse(users []User) []UserResponse {
	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = mapToResponse(u)
	}
	return resp
}
