package repository

import (
	"context"

	"github.com/pinjamin/collections-engine/internal/domain"

	"github.com/shopspring/decimal"
)

// LoanRepository defines the data-access contract for loans and their
// installment schedules. Soft-deleted rows are filtered out at this boundary;
// callers never see them.
type LoanRepository interface {
	// GetByLoanID retrieves a loan by its loan ID
	GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error)

	// FindByStatuses pages through loans in the given statuses, stably
	// ordered by loan_id so skip/limit pagination does not repeat rows
	FindByStatuses(ctx context.Context, statuses []string, offset, limit int) ([]*domain.Loan, error)

	// UpdateDelinquency persists a recalculated dpd/bucket/status/overdue set
	UpdateDelinquency(ctx context.Context, loanID string, dpd int, bucket, status string, overdueAmount decimal.Decimal) error

	// ApplyPayment bumps paid_amount and reduces outstanding by amount
	ApplyPayment(ctx context.Context, loanID string, amount decimal.Decimal) error

	// GetScheduleByLoanID retrieves the installment schedule sorted by due date
	GetScheduleByLoanID(ctx context.Context, loanID string) ([]*domain.Installment, error)

	// DecrementInstallmentRemaining reduces one installment's unpaid balance
	DecrementInstallmentRemaining(ctx context.Context, loanID string, installmentNumber int, amount decimal.Decimal) error

	// CountByStatuses counts non-deleted loans in the given statuses
	CountByStatuses(ctx context.Context, statuses []string) (int, error)

	// CountDelinquent counts non-deleted loans with dpd > 0
	CountDelinquent(ctx context.Context) (int, error)

	// GetBucketStats aggregates delinquent loans grouped by bucket
	GetBucketStats(ctx context.Context) ([]*domain.BucketStats, error)
}

// PaymentRepository defines the data-access contract for payments
type PaymentRepository interface {
	// Create creates a new payment record
	Create(ctx context.Context, payment *domain.Payment) error

	// GetCompletedByLoanID retrieves all completed payments for a loan
	GetCompletedByLoanID(ctx context.Context, loanID string) ([]*domain.Payment, error)
}

// CollectionRepository defines the data-access contract for collection records
type CollectionRepository interface {
	// Create opens a new collection case
	Create(ctx context.Context, record *domain.CollectionRecord) error

	// Upsert creates the active record for the loan if absent, otherwise
	// refreshes its dpd/bucket/amount/priority
	Upsert(ctx context.Context, record *domain.CollectionRecord) error

	// GetActiveByLoanID retrieves the loan's active (non-deleted) record
	GetActiveByLoanID(ctx context.Context, loanID string) (*domain.CollectionRecord, error)
}
