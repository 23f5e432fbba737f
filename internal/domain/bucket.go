package domain

import "github.com/shopspring/decimal"

// Risk buckets in ascending severity. The DPD ranges are fixed business
// thresholds: boundary values (7/8, 14/15, 30/31, 60/61, 90/91) drive real
// collections routing and must not shift.
const (
	BucketCurrent = "Current"
	BucketX       = "X"
	BucketY       = "Y"
	BucketM1      = "M1"
	BucketM2      = "M2"
	BucketM3      = "M3"
	BucketNPA     = "NPA"
)

// Priority amount thresholds, in the loan currency.
var (
	criticalAmountThreshold = decimal.NewFromInt(100000)
	highAmountThreshold     = decimal.NewFromInt(50000)
	mediumAmountThreshold   = decimal.NewFromInt(10000)
)

// BucketForDPD maps days-past-due to its risk bucket.
// Ranges are inclusive on both ends and partition [0, inf).
func BucketForDPD(dpd int) string {
	switch {
	case dpd <= 0:
		return BucketCurrent
	case dpd <= 7:
		return BucketX
	case dpd <= 14:
		return BucketY
	case dpd <= 30:
		return BucketM1
	case dpd <= 60:
		return BucketM2
	case dpd <= 90:
		return BucketM3
	default:
		return BucketNPA
	}
}

// StatusForDPD derives the loan lifecycle status from days-past-due.
func StatusForDPD(dpd int) string {
	switch {
	case dpd <= 0:
		return LoanStatusActive
	case dpd <= 90:
		return LoanStatusOverdue
	default:
		return LoanStatusNPA
	}
}

// PriorityFor computes the collection-case priority from DPD and the overdue
// amount. Rules are evaluated high-to-low; the first match wins.
func PriorityFor(dpd int, overdueAmount decimal.Decimal) string {
	switch {
	case dpd >= 90 || overdueAmount.GreaterThanOrEqual(criticalAmountThreshold):
		return PriorityCritical
	case dpd >= 30 || overdueAmount.GreaterThanOrEqual(highAmountThreshold):
		return PriorityHigh
	case dpd >= 7 || overdueAmount.GreaterThanOrEqual(mediumAmountThreshold):
		return PriorityMedium
	default:
		return PriorityLow
	}
}
