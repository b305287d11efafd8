package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleEmployee = "EMPLOYEE"
	RoleManager  = "MANAGER"
	RoleHR       = "HR"
)

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email     string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_users_email"`
	Password  string    `gorm:"type:varchar(120);not null"`
	FirstName string    `gorm:"type:varchar(50);not null"`
	LastName  string    `gorm:"type:varchar(50);not null"`

	Role       string     `gorm:"type:varchar(20);not null;default:'EMPLOYEE';index:idx_users_role"`
	ManagerID  *uuid.UUID `gorm:"type:uuid;index:idx_users_manager"`
	Department string     `gorm:"type:varchar(100);not null"`
	JoinDate   time.Time  `gorm:"type:date"`
	Enabled    bool       `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_users_deleted_at"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

func IsValidRole(role string) bool {
	switch role {
	case RoleEmployee, RoleManager, RoleHR:
		return true
	default:
		return false
	}
}
