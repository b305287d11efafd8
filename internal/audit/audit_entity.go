package audit

import (
	"time"

	"github.com/google/uuid"
)

type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ActorID    *uuid.UUID `gorm:"type:uuid;index:idx_audit_logs_actor"`
	Action     string     `gorm:"type:varchar(50);not null;index:idx_audit_logs_action"`
	EntityType string     `gorm:"type:varchar(50);not null;index:idx_audit_logs_entity"`
	EntityID   string     `gorm:"type:varchar(64);not null;index:idx_audit_logs_entity"`
	Details    string     `gorm:"type:text"`
	CreatedAt  time.Time  `gorm:"index:idx_audit_logs_created_at"`
}
