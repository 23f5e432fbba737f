package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBucketForDPD(t *testing.T) {
	tests := []struct {
		name           string
		dpd            int
		expectedBucket string
		expectedStatus string
	}{
		{"current loan", 0, BucketCurrent, LoanStatusActive},
		{"first day late", 1, BucketX, LoanStatusOverdue},
		{"upper edge of X", 7, BucketX, LoanStatusOverdue},
		{"lower edge of Y", 8, BucketY, LoanStatusOverdue},
		{"upper edge of Y", 14, BucketY, LoanStatusOverdue},
		{"lower edge of M1", 15, BucketM1, LoanStatusOverdue},
		{"upper edge of M1", 30, BucketM1, LoanStatusOverdue},
		{"lower edge of M2", 31, BucketM2, LoanStatusOverdue},
		{"upper edge of M2", 60, BucketM2, LoanStatusOverdue},
		{"lower edge of M3", 61, BucketM3, LoanStatusOverdue},
		{"upper edge of M3", 90, BucketM3, LoanStatusOverdue},
		{"lower edge of NPA", 91, BucketNPA, LoanStatusNPA},
		{"deep NPA", 365, BucketNPA, LoanStatusNPA},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedBucket, BucketForDPD(tt.dpd))
			assert.Equal(t, tt.expectedStatus, StatusForDPD(tt.dpd))
		})
	}
}

func TestPriorityFor(t *testing.T) {
	tests := []struct {
		name     string
		dpd      int
		amount   decimal.Decimal
		expected string
	}{
		{"fresh and small", 5, decimal.NewFromInt(2000), PriorityLow},
		{"small dpd, medium amount", 5, decimal.NewFromInt(10000), PriorityMedium},
		{"week late", 7, decimal.NewFromInt(2000), PriorityMedium},
		{"month late", 30, decimal.NewFromInt(2000), PriorityHigh},
		{"small dpd, high amount", 3, decimal.NewFromInt(50000), PriorityHigh},
		{"quarter late", 90, decimal.NewFromInt(2000), PriorityCritical},
		{"small dpd, critical amount", 3, decimal.NewFromInt(100000), PriorityCritical},
		{"just below every amount threshold", 6, decimal.NewFromInt(9999), PriorityLow},
		{"just below high dpd threshold", 29, decimal.NewFromInt(10000), PriorityMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PriorityFor(tt.dpd, tt.amount))
		})
	}
}
