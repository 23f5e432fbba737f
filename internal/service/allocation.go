package service

import (
	"sort"

	"github.com/pinjamin/collections-engine/internal/domain"

	"github.com/shopspring/decimal"
)

// AllocatePayment spreads a payment amount across a loan's outstanding
// installments, oldest obligation first (strict FIFO by installment number,
// no partial skip). It returns the ordered per-installment allocations and
// whatever is left over once every installment is covered.
//
// The caller validates that amount is positive. Installments are not mutated;
// callers apply the returned allocations themselves.
func AllocatePayment(amount decimal.Decimal, installments []*domain.Installment) ([]domain.PaymentAllocation, decimal.Decimal) {
	sorted := make([]*domain.Installment, len(installments))
	copy(sorted, installments)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Number < sorted[j].Number
	})

	allocations := make([]domain.PaymentAllocation, 0, len(sorted))
	remaining := amount

	for _, inst := range sorted {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		if inst.Remaining.LessThanOrEqual(decimal.Zero) {
			continue
		}

		applied := decimal.Min(remaining, inst.Remaining)
		allocations = append(allocations, domain.PaymentAllocation{
			InstallmentNumber: inst.Number,
			Amount:            applied,
			DueDate:           inst.DueDate,
		})
		remaining = remaining.Sub(applied)
	}

	return allocations, remaining
}
