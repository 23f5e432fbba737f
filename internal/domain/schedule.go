package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Installment represents one scheduled repayment obligation.
// Remaining is decremented as payments are allocated and stays in [0, TotalDue].
type Installment struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	LoanID    string          `json:"loan_id" db:"loan_id"`
	Number    int             `json:"installment_number" db:"installment_number"`
	DueDate   time.Time       `json:"due_date" db:"due_date"`
	TotalDue  decimal.Decimal `json:"total_due" db:"total_due"`
	Remaining decimal.Decimal `json:"remaining" db:"remaining"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

type ScheduleResponse struct {
	LoanID   string         `json:"loan_id"`
	Schedule []*Installment `json:"schedule"`
}
