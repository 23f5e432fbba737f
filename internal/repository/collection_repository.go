package repository

import (
	"context"

	"github.com/pinjamin/collections-engine/internal/domain"

	"github.com/jmoiron/sqlx"
)

type collectionRepository struct {
	db *sqlx.DB
}

func NewCollectionRepository(db *sqlx.DB) CollectionRepository {
	return &collectionRepository{db: db}
}

func (r *collectionRepository) Create(ctx context.Context, record *domain.CollectionRecord) error {
	query := `
		INSERT INTO collection_records (id, loan_id, dpd, bucket, overdue_amount, priority, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.LoanID,
		record.DPD,
		record.Bucket,
		record.OverdueAmount,
		record.Priority,
		record.Status,
		record.CreatedAt,
		record.UpdatedAt,
	)

	return err
}

// Upsert relies on the partial unique index on (loan_id) WHERE deleted_at IS
// NULL, so at most one active case can exist per loan.
func (r *collectionRepository) Upsert(ctx context.Context, record *domain.CollectionRecord) error {
	query := `
		INSERT INTO collection_records (id, loan_id, dpd, bucket, overdue_amount, priority, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (loan_id) WHERE deleted_at IS NULL
		DO UPDATE SET dpd = EXCLUDED.dpd,
		              bucket = EXCLUDED.bucket,
		              overdue_amount = EXCLUDED.overdue_amount,
		              priority = EXCLUDED.priority,
		              updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.LoanID,
		record.DPD,
		record.Bucket,
		record.OverdueAmount,
		record.Priority,
		record.Status,
		record.CreatedAt,
		record.UpdatedAt,
	)

	return err
}

func (r *collectionRepository) GetActiveByLoanID(ctx context.Context, loanID string) (*domain.CollectionRecord, error) {
	query := `
		SELECT id, loan_id, dpd, bucket, overdue_amount, priority, status, created_at, updated_at
		FROM collection_records
		WHERE loan_id = $1 AND deleted_at IS NULL
	`

	var record domain.CollectionRecord
	err := r.db.GetContext(ctx, &record, query, loanID)
	if err != nil {
		return nil, err
	}

	return &record, nil
}
