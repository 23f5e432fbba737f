package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	LoanStatusActive  = "active"
	LoanStatusOverdue = "overdue"
	LoanStatusNPA     = "npa"
	LoanStatusClosed  = "closed"
)

// Loan represents one disbursed credit line
type Loan struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	LoanID        string          `json:"loan_id" db:"loan_id"`
	Principal     decimal.Decimal `json:"principal" db:"principal"`
	InterestRate  decimal.Decimal `json:"interest_rate" db:"interest_rate"`
	TenureMonths  int             `json:"tenure_months" db:"tenure_months"`
	DisbursedAt   time.Time       `json:"disbursed_at" db:"disbursed_at"`
	DPD           int             `json:"dpd" db:"dpd"`
	Bucket        string          `json:"bucket" db:"bucket"`
	Status        string          `json:"status" db:"status"`
	PaidAmount    decimal.Decimal `json:"paid_amount" db:"paid_amount"`
	OverdueAmount decimal.Decimal `json:"overdue_amount" db:"overdue_amount"`
	Outstanding   decimal.Decimal `json:"outstanding" db:"outstanding"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

// DTOs for requests and responses

// RecalculationResult is what a single-loan DPD recomputation produces.
type RecalculationResult struct {
	LoanID        string          `json:"loan_id"`
	PreviousDPD   int             `json:"previous_dpd"`
	DPD           int             `json:"dpd"`
	Bucket        string          `json:"bucket"`
	Status        string          `json:"status"`
	OverdueAmount decimal.Decimal `json:"overdue_amount"`
	Changed       bool            `json:"changed"`
}

// RunSummary aggregates one full batch run.
type RunSummary struct {
	ProcessedCount int       `json:"processed_count"`
	UpdatedCount   int       `json:"updated_count"`
	ErrorCount     int       `json:"error_count"`
	StartedAt      time.Time `json:"started_at"`
	FinishedAt     time.Time `json:"finished_at"`
}

// EngineHealth reports the active-loan population vs the delinquent slice.
type EngineHealth struct {
	Status          string `json:"status"`
	ActiveLoans     int    `json:"active_loans"`
	DelinquentLoans int    `json:"delinquent_loans"`
	Message         string `json:"message,omitempty"`
}
