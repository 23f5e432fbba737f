package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	CollectionStatusPending    = "pending"
	CollectionStatusInProgress = "in_progress"
	CollectionStatusResolved   = "resolved"
)

const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

// CollectionRecord is the case opened when a loan becomes delinquent.
// At most one active (non-deleted) record exists per loan; it is upserted,
// never duplicated.
type CollectionRecord struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	LoanID        string          `json:"loan_id" db:"loan_id"`
	DPD           int             `json:"dpd" db:"dpd"`
	Bucket        string          `json:"bucket" db:"bucket"`
	OverdueAmount decimal.Decimal `json:"overdue_amount" db:"overdue_amount"`
	Priority      string          `json:"priority" db:"priority"`
	Status        string          `json:"status" db:"status"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

// BucketStats is one row of the dashboard aggregation grouped by bucket.
type BucketStats struct {
	Bucket      string          `json:"bucket" db:"bucket"`
	Count       int             `json:"count" db:"count"`
	TotalAmount decimal.Decimal `json:"total_amount" db:"total_amount"`
	AvgDPD      float64         `json:"avg_dpd" db:"avg_dpd"`
	MaxDPD      int             `json:"max_dpd" db:"max_dpd"`
}
