package service

import (
	"testing"
	"time"

	"github.com/pinjamin/collections-engine/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func scheduleEntry(number, dueOffsetDays int, totalDue int64, now time.Time) *domain.Installment {
	return &domain.Installment{
		Number:   number,
		DueDate:  now.AddDate(0, 0, dueOffsetDays),
		TotalDue: decimal.NewFromInt(totalDue),
	}
}

func completedPayment(amount int64) *domain.Payment {
	return &domain.Payment{
		Amount: decimal.NewFromInt(amount),
		Status: domain.PaymentStatusCompleted,
	}
}

func TestCalculateDPD(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name            string
		schedule        []*domain.Installment
		payments        []*domain.Payment
		expectedDPD     int
		expectedOverdue decimal.Decimal
	}{
		{
			name:            "empty schedule",
			schedule:        nil,
			payments:        nil,
			expectedDPD:     0,
			expectedOverdue: decimal.Zero,
		},
		{
			name: "nothing due yet",
			schedule: []*domain.Installment{
				scheduleEntry(1, 5, 1000, now),
				scheduleEntry(2, 35, 1000, now),
			},
			payments:        nil,
			expectedDPD:     0,
			expectedOverdue: decimal.Zero,
		},
		{
			name: "first installment unpaid for 10 days",
			schedule: []*domain.Installment{
				scheduleEntry(1, -10, 1000, now),
				scheduleEntry(2, 20, 1000, now),
			},
			payments:        nil,
			expectedDPD:     10,
			expectedOverdue: decimal.NewFromInt(1000),
		},
		{
			name: "earliest overdue installment wins, not the oldest",
			schedule: []*domain.Installment{
				scheduleEntry(1, -40, 1000, now),
				scheduleEntry(2, -10, 1000, now),
			},
			payments:        []*domain.Payment{completedPayment(1000)},
			expectedDPD:     10,
			expectedOverdue: decimal.NewFromInt(1000),
		},
		{
			name: "two unpaid installments accumulate overdue amount at the earliest date",
			schedule: []*domain.Installment{
				scheduleEntry(1, -40, 1000, now),
				scheduleEntry(2, -10, 1000, now),
			},
			payments:        nil,
			expectedDPD:     40,
			expectedOverdue: decimal.NewFromInt(1000),
		},
		{
			name: "partial payment leaves shortfall on the first due installment",
			schedule: []*domain.Installment{
				scheduleEntry(1, -15, 1000, now),
			},
			payments:        []*domain.Payment{completedPayment(400)},
			expectedDPD:     15,
			expectedOverdue: decimal.NewFromInt(600),
		},
		{
			name: "same-day due counts as zero days past due",
			schedule: []*domain.Installment{
				scheduleEntry(1, 0, 1000, now),
			},
			payments:        nil,
			expectedDPD:     0,
			expectedOverdue: decimal.NewFromInt(1000),
		},
		{
			name: "fully paid to date",
			schedule: []*domain.Installment{
				scheduleEntry(1, -40, 1000, now),
				scheduleEntry(2, -10, 1000, now),
				scheduleEntry(3, 20, 1000, now),
			},
			payments:        []*domain.Payment{completedPayment(2000)},
			expectedDPD:     0,
			expectedOverdue: decimal.Zero,
		},
		{
			name: "prepaid beyond scheduled-to-date",
			schedule: []*domain.Installment{
				scheduleEntry(1, -10, 1000, now),
			},
			payments:        []*domain.Payment{completedPayment(5000)},
			expectedDPD:     0,
			expectedOverdue: decimal.Zero,
		},
		{
			name: "pending payments do not count",
			schedule: []*domain.Installment{
				scheduleEntry(1, -10, 1000, now),
			},
			payments: []*domain.Payment{
				{Amount: decimal.NewFromInt(1000), Status: domain.PaymentStatusPending},
			},
			expectedDPD:     10,
			expectedOverdue: decimal.NewFromInt(1000),
		},
		{
			name: "unsorted schedule is walked in due-date order",
			schedule: []*domain.Installment{
				scheduleEntry(2, -10, 1000, now),
				scheduleEntry(1, -40, 1000, now),
			},
			payments:        []*domain.Payment{completedPayment(1000)},
			expectedDPD:     10,
			expectedOverdue: decimal.NewFromInt(1000),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateDPD(tt.schedule, tt.payments, now)

			assert.Equal(t, tt.expectedDPD, result.DPD)
			assert.True(t, tt.expectedOverdue.Equal(result.OverdueAmount),
				"expected overdue %s, got %s", tt.expectedOverdue, result.OverdueAmount)
		})
	}
}

func TestCalculateDPD_Idempotent(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
	schedule := []*domain.Installment{
		scheduleEntry(1, -40, 1000, now),
		scheduleEntry(2, -10, 1000, now),
		scheduleEntry(3, 20, 1000, now),
	}
	payments := []*domain.Payment{completedPayment(1000), completedPayment(500)}

	first := CalculateDPD(schedule, payments, now)
	second := CalculateDPD(schedule, payments, now)

	assert.Equal(t, first.DPD, second.DPD)
	assert.True(t, first.OverdueAmount.Equal(second.OverdueAmount))
}

// Scenario from the delinquency runbook: installment #1 (due 40 days ago)
// covered by a single 1000 payment, installment #2 (due 10 days ago) unpaid.
func TestCalculateDPD_RunbookScenario(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	schedule := []*domain.Installment{
		scheduleEntry(1, -40, 1000, now),
		scheduleEntry(2, -10, 1000, now),
	}
	payments := []*domain.Payment{completedPayment(1000)}

	result := CalculateDPD(schedule, payments, now)

	assert.Equal(t, 10, result.DPD)
	assert.True(t, result.OverdueAmount.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, domain.BucketY, domain.BucketForDPD(result.DPD))
	assert.Equal(t, domain.LoanStatusOverdue, domain.StatusForDPD(result.DPD))
}
