package balance

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

// Repository reads and writes leave_balances with raw SQL so the locking
// semantics stay explicit: callers that mutate a row take it FOR UPDATE
// inside their transaction.
//
//go:generate mockgen -source=balance_repo.go -destination=mock/balance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	// EnsureDefault creates the (user, year) row with default allotments if
	// it does not exist yet. Safe under concurrency: the insert is atomic
	// and loses quietly to an existing row.
	EnsureDefault(ctx context.Context, userID string, year int) error
	Get(ctx context.Context, userID string, year int) (*LeaveBalance, error)
	// GetForUpdate locks the row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, userID string, year int) (*LeaveBalance, error)
	UpdateUsed(ctx context.Context, b *LeaveBalance) error
	UpdateAllotments(ctx context.Context, b *LeaveBalance) error
}

type repository struct {
	db *sql.DB
	tx *sql.Tx
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

const balanceColumns = `
	id::text,
	user_id::text,
	year,
	annual_allotment,
	sick_allotment,
	personal_allotment,
	used_annual,
	used_sick,
	used_personal
`

func (r *repository) EnsureDefault(ctx context.Context, userID string, year int) error {
	query := `
INSERT INTO leave_balances (
	user_id, year, annual_allotment, sick_allotment, personal_allotment,
	used_annual, used_sick, used_personal, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, 0, 0, 0, NOW(), NOW())
ON CONFLICT (user_id, year) DO NOTHING
`
	_, err := r.execer().ExecContext(ctx, query,
		userID, year,
		DefaultAnnualAllotment, DefaultSickAllotment, DefaultPersonalAllotment,
	)
	return err
}

func (r *repository) Get(ctx context.Context, userID string, year int) (*LeaveBalance, error) {
	query := `SELECT ` + balanceColumns + ` FROM leave_balances WHERE user_id = $1 AND year = $2`
	return r.scanOne(r.querier().QueryRowContext(ctx, query, userID, year))
}

func (r *repository) GetForUpdate(ctx context.Context, userID string, year int) (*LeaveBalance, error) {
	query := `SELECT ` + balanceColumns + ` FROM leave_balances WHERE user_id = $1 AND year = $2 FOR UPDATE`
	return r.scanOne(r.querier().QueryRowContext(ctx, query, userID, year))
}

func (r *repository) UpdateUsed(ctx context.Context, b *LeaveBalance) error {
	query := `
UPDATE leave_balances
SET used_annual = $2, used_sick = $3, used_personal = $4, updated_at = NOW()
WHERE id = $1
`
	_, err := r.execer().ExecContext(ctx, query,
		b.ID.String(), b.UsedAnnual, b.UsedSick, b.UsedPersonal,
	)
	return err
}

func (r *repository) UpdateAllotments(ctx context.Context, b *LeaveBalance) error {
	query := `
UPDATE leave_balances
SET annual_allotment = $2, sick_allotment = $3, personal_allotment = $4, updated_at = NOW()
WHERE id = $1
`
	_, err := r.execer().ExecContext(ctx, query,
		b.ID.String(), b.AnnualAllotment, b.SickAllotment, b.PersonalAllotment,
	)
	return err
}

func (r *repository) scanOne(row *sql.Row) (*LeaveBalance, error) {
	var (
		b      LeaveBalance
		id     string
		userID string
	)
	err := row.Scan(
		&id,
		&userID,
		&b.Year,
		&b.AnnualAllotment,
		&b.SickAllotment,
		&b.PersonalAllotment,
		&b.UsedAnnual,
		&b.UsedSick,
		&b.UsedPersonal,
	)
	if err != nil {
		return nil, err
	}
	if b.ID, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	if b.UserID, err = uuid.Parse(userID); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *repository) querier() interface {
	QueryRowContext(context.Context, string, ...any) *sql.Row
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}
