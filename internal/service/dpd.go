package service

import (
	"sort"
	"time"

	"github.com/pinjamin/collections-engine/internal/domain"
	"github.com/pinjamin/collections-engine/pkg/utils"

	"github.com/shopspring/decimal"
)

// DPDResult holds the outcome of a days-past-due computation.
type DPDResult struct {
	DPD           int
	OverdueAmount decimal.Decimal
}

// CalculateDPD computes a loan's days past due and overdue amount as of `now`.
//
// It walks the schedule in ascending due-date order keeping a running total of
// scheduled dues. The first installment that is already due while total
// completed payments fall short of that running total is the earliest unpaid
// obligation; its due date fixes the DPD and the shortfall is the overdue
// amount. Later installments never push DPD beyond the earliest one — a known
// policy choice carried over from the existing bucket assignment, kept because
// collections routing depends on it.
//
// A loan that is fully current or prepaid yields DPD 0. The function is pure:
// same schedule, payments and `now` always produce the same result.
func CalculateDPD(schedule []*domain.Installment, payments []*domain.Payment, now time.Time) DPDResult {
	result := DPDResult{DPD: 0, OverdueAmount: decimal.Zero}
	if len(schedule) == 0 {
		return result
	}

	totalPaid := decimal.Zero
	for _, p := range payments {
		if p.Status == domain.PaymentStatusCompleted {
			totalPaid = totalPaid.Add(p.Amount)
		}
	}

	sorted := make([]*domain.Installment, len(schedule))
	copy(sorted, schedule)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].DueDate.Before(sorted[j].DueDate)
	})

	runningTotalDue := decimal.Zero
	for _, inst := range sorted {
		runningTotalDue = runningTotalDue.Add(inst.TotalDue)

		if inst.DueDate.After(now) {
			break
		}

		if totalPaid.LessThan(runningTotalDue) {
			result.DPD = utils.WholeDaysBetween(inst.DueDate, now)
			result.OverdueAmount = runningTotalDue.Sub(totalPaid)
			break
		}
	}

	return result
}
