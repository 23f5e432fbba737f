package repository

import (
	"context"

	"github.com/pinjamin/collections-engine/internal/domain"

	"github.com/jmoiron/sqlx"
)

type paymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (id, loan_id, amount, payment_date, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		payment.ID,
		payment.LoanID,
		payment.Amount,
		payment.PaymentDate,
		payment.Status,
		payment.CreatedAt,
	)

	return err
}

func (r *paymentRepository) GetCompletedByLoanID(ctx context.Context, loanID string) ([]*domain.Payment, error) {
	query := `
		SELECT id, loan_id, amount, payment_date, status, created_at
		FROM payments
		WHERE loan_id = $1 AND status = 'completed' AND deleted_at IS NULL
		ORDER BY payment_date
	`

	var payments []*domain.Payment
	err := r.db.SelectContext(ctx, &payments, query, loanID)
	if err != nil {
		return nil, err
	}

	return payments, nil
}
