package repository

import (
	"context"
	"time"

	"github.com/pinjamin/collections-engine/internal/domain"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type loanRepository struct {
	db *sqlx.DB
}

func NewLoanRepository(db *sqlx.DB) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	query := `
		SELECT id, loan_id, principal, interest_rate, tenure_months, disbursed_at,
		       dpd, bucket, status, paid_amount, overdue_amount, outstanding, created_at, updated_at
		FROM loans
		WHERE loan_id = $1 AND deleted_at IS NULL
	`

	var loan domain.Loan
	err := r.db.GetContext(ctx, &loan, query, loanID)
	if err != nil {
		return nil, err
	}

	return &loan, nil
}

func (r *loanRepository) FindByStatuses(ctx context.Context, statuses []string, offset, limit int) ([]*domain.Loan, error) {
	query := `
		SELECT id, loan_id, principal, interest_rate, tenure_months, disbursed_at,
		       dpd, bucket, status, paid_amount, overdue_amount, outstanding, created_at, updated_at
		FROM loans
		WHERE status = ANY($1) AND deleted_at IS NULL
		ORDER BY loan_id
		OFFSET $2 LIMIT $3
	`

	var loans []*domain.Loan
	err := r.db.SelectContext(ctx, &loans, query, pq.Array(statuses), offset, limit)
	if err != nil {
		return nil, err
	}

	return loans, nil
}

func (r *loanRepository) UpdateDelinquency(ctx context.Context, loanID string, dpd int, bucket, status string, overdueAmount decimal.Decimal) error {
	query := `
		UPDATE loans
		SET dpd = $2, bucket = $3, status = $4, overdue_amount = $5, updated_at = $6
		WHERE loan_id = $1 AND deleted_at IS NULL
	`

	_, err := r.db.ExecContext(ctx, query, loanID, dpd, bucket, status, overdueAmount, time.Now())
	return err
}

func (r *loanRepository) ApplyPayment(ctx context.Context, loanID string, amount decimal.Decimal) error {
	query := `
		UPDATE loans
		SET paid_amount = paid_amount + $2, outstanding = outstanding - $2, updated_at = $3
		WHERE loan_id = $1 AND deleted_at IS NULL
	`

	_, err := r.db.ExecContext(ctx, query, loanID, amount, time.Now())
	return err
}

func (r *loanRepository) GetScheduleByLoanID(ctx context.Context, loanID string) ([]*domain.Installment, error) {
	query := `
		SELECT id, loan_id, installment_number, due_date, total_due, remaining, created_at
		FROM loan_installments
		WHERE loan_id = $1
		ORDER BY due_date
	`

	var installments []*domain.Installment
	err := r.db.SelectContext(ctx, &installments, query, loanID)
	if err != nil {
		return nil, err
	}

	return installments, nil
}

func (r *loanRepository) DecrementInstallmentRemaining(ctx context.Context, loanID string, installmentNumber int, amount decimal.Decimal) error {
	query := `
		UPDATE loan_installments
		SET remaining = remaining - $3
		WHERE loan_id = $1 AND installment_number = $2
	`

	_, err := r.db.ExecContext(ctx, query, loanID, installmentNumber, amount)
	return err
}

func (r *loanRepository) CountByStatuses(ctx context.Context, statuses []string) (int, error) {
	query := `
		SELECT COUNT(*) FROM loans
		WHERE status = ANY($1) AND deleted_at IS NULL
	`

	var count int
	err := r.db.GetContext(ctx, &count, query, pq.Array(statuses))
	return count, err
}

func (r *loanRepository) CountDelinquent(ctx context.Context) (int, error) {
	query := `
		SELECT COUNT(*) FROM loans
		WHERE dpd > 0 AND deleted_at IS NULL
	`

	var count int
	err := r.db.GetContext(ctx, &count, query)
	return count, err
}

func (r *loanRepository) GetBucketStats(ctx context.Context) ([]*domain.BucketStats, error) {
	query := `
		SELECT bucket,
		       COUNT(*) AS count,
		       COALESCE(SUM(overdue_amount), 0) AS total_amount,
		       COALESCE(AVG(dpd), 0) AS avg_dpd,
		       COALESCE(MAX(dpd), 0) AS max_dpd
		FROM loans
		WHERE dpd > 0 AND deleted_at IS NULL
		GROUP BY bucket
		ORDER BY MIN(dpd)
	`

	var stats []*domain.BucketStats
	err := r.db.SelectContext(ctx, &stats, query)
	if err != nil {
		return nil, err
	}

	return stats, nil
}
