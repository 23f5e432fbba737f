package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// Payment is one money-in event against a loan. Only completed payments
// count toward DPD.
type Payment struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	LoanID      string          `json:"loan_id" db:"loan_id"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	PaymentDate time.Time       `json:"payment_date" db:"payment_date"`
	Status      string          `json:"status" db:"status"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

// PaymentAllocation records how much of a payment landed on one installment.
type PaymentAllocation struct {
	InstallmentNumber int             `json:"installment_number"`
	Amount            decimal.Decimal `json:"amount"`
	DueDate           time.Time       `json:"due_date"`
}

type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

type RecordPaymentResponse struct {
	Payment       *Payment             `json:"payment"`
	Allocations   []PaymentAllocation  `json:"allocations"`
	ExcessAmount  decimal.Decimal      `json:"excess_amount"`
	Recalculation *RecalculationResult `json:"recalculation,omitempty"`
}
