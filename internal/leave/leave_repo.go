package leave

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository mixes two access paths on purpose: list queries go through gorm,
// while the lifecycle writes use raw SQL under the caller's transaction so
// the request row can be taken FOR UPDATE before its status is inspected.
//
//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	Insert(ctx context.Context, r *LeaveRequest) error
	GetForUpdate(ctx context.Context, id string) (*LeaveRequest, error)
	UpdateFields(ctx context.Context, r *LeaveRequest) error
	UpdateDecision(ctx context.Context, r *LeaveRequest) error
	UpdateStatus(ctx context.Context, r *LeaveRequest) error

	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	FindAll(ctx context.Context) ([]LeaveRequest, error)
	FindByUserID(ctx context.Context, userID string) ([]LeaveRequest, error)
	FindByManagerID(ctx context.Context, managerID string) ([]LeaveRequest, error)
	FindPendingByManagerID(ctx context.Context, managerID string) ([]LeaveRequest, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Insert(ctx context.Context, req *LeaveRequest) error {
	query := `
INSERT INTO leave_requests (
	id, user_id, type, start_date, end_date, days, reason,
	status, submitted_at, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
`
	_, err := r.execer().ExecContext(ctx, query,
		req.ID.String(), req.UserID.String(), req.Type.String(),
		req.StartDate, req.EndDate, req.Days, req.Reason,
		req.Status, req.SubmittedAt,
	)
	return err
}

func (r *repository) GetForUpdate(ctx context.Context, id string) (*LeaveRequest, error) {
	query := `
SELECT
	id::text,
	user_id::text,
	type,
	start_date,
	end_date,
	days,
	reason,
	status,
	submitted_at,
	reviewed_at,
	reviewed_by::text,
	reviewer_comments
FROM leave_requests
WHERE id = $1
FOR UPDATE
`
	row := r.querier().QueryRowContext(ctx, query, id)

	var (
		req        LeaveRequest
		reqID      string
		userID     string
		reviewedAt sql.NullTime
		reviewedBy sql.NullString
		comments   sql.NullString
	)
	err := row.Scan(
		&reqID,
		&userID,
		&req.Type,
		&req.StartDate,
		&req.EndDate,
		&req.Days,
		&req.Reason,
		&req.Status,
		&req.SubmittedAt,
		&reviewedAt,
		&reviewedBy,
		&comments,
	)
	if err != nil {
		return nil, err
	}

	if req.ID, err = uuid.Parse(reqID); err != nil {
		return nil, err
	}
	if req.UserID, err = uuid.Parse(userID); err != nil {
		return nil, err
	}
	if reviewedAt.Valid {
		t := reviewedAt.Time
		req.ReviewedAt = &t
	}
	if reviewedBy.Valid {
		parsed, err := uuid.Parse(reviewedBy.String)
		if err != nil {
			return nil, err
		}
		req.ReviewedBy = &parsed
	}
	if comments.Valid {
		v := comments.String
		req.ReviewerComments = &v
	}
	return &req, nil
}

func (r *repository) UpdateFields(ctx context.Context, req *LeaveRequest) error {
	query := `
UPDATE leave_requests
SET type = $2, start_date = $3, end_date = $4, days = $5, reason = $6, updated_at = NOW()
WHERE id = $1
`
	_, err := r.execer().ExecContext(ctx, query,
		req.ID.String(), req.Type.String(),
		req.StartDate, req.EndDate, req.Days, req.Reason,
	)
	return err
}

func (r *repository) UpdateDecision(ctx context.Context, req *LeaveRequest) error {
	query := `
UPDATE leave_requests
SET status = $2, reviewed_at = $3, reviewed_by = $4, reviewer_comments = $5, updated_at = NOW()
WHERE id = $1
`
	var reviewedBy any
	if req.ReviewedBy != nil {
		reviewedBy = req.ReviewedBy.String()
	}
	_, err := r.execer().ExecContext(ctx, query,
		req.ID.String(), req.Status, req.ReviewedAt, reviewedBy, req.ReviewerComments,
	)
	return err
}

func (r *repository) UpdateStatus(ctx context.Context, req *LeaveRequest) error {
	query := `
UPDATE leave_requests
SET status = $2, updated_at = NOW()
WHERE id = $1
`
	_, err := r.execer().ExecContext(ctx, query, req.ID.String(), req.Status)
	return err
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var req LeaveRequest
	err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error
	return &req, err
}

func (r *repository) FindAll(ctx context.Context) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	err := r.db.WithContext(ctx).
		Order("submitted_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) FindByUserID(ctx context.Context, userID string) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("submitted_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) FindByManagerID(ctx context.Context, managerID string) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	err := r.db.WithContext(ctx).
		Joins("JOIN users ON users.id = leave_requests.user_id").
		Where("users.manager_id = ?", managerID).
		Where("users.deleted_at IS NULL").
		Order("leave_requests.submitted_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) FindPendingByManagerID(ctx context.Context, managerID string) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	err := r.db.WithContext(ctx).
		Joins("JOIN users ON users.id = leave_requests.user_id").
		Where("users.manager_id = ?", managerID).
		Where("users.deleted_at IS NULL").
		Where("leave_requests.status = ?", StatusPending).
		Order("leave_requests.submitted_at ASC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.sqlDB()
}

func (r *repository) querier() interface {
	QueryRowContext(context.Context, string, ...any) *sql.Row
} {
	if r.tx != nil {
		return r.tx
	}
	return r.sqlDB()
}

func (r *repository) sqlDB() *sql.DB {
	db, err := r.db.DB()
	if err != nil {
		panic(err)
	}
	return db
}
