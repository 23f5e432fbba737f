package service_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/pinjamin/collections-engine/internal/domain"
	"github.com/pinjamin/collections-engine/internal/service"
	customError "github.com/pinjamin/collections-engine/pkg/errors"
	"github.com/pinjamin/collections-engine/tests/mocks"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRecordPayment(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	overdueLoan := &domain.Loan{
		LoanID: "LN1",
		DPD:    10,
		Bucket: domain.BucketY,
		Status: domain.LoanStatusOverdue,
	}

	schedule := []*domain.Installment{
		{
			LoanID:    "LN1",
			Number:    1,
			DueDate:   now.AddDate(0, 0, -10),
			TotalDue:  decimal.NewFromInt(1000),
			Remaining: decimal.NewFromInt(1000),
		},
		{
			LoanID:    "LN1",
			Number:    2,
			DueDate:   now.AddDate(0, 0, 20),
			TotalDue:  decimal.NewFromInt(1000),
			Remaining: decimal.NewFromInt(1000),
		},
	}

	tests := []struct {
		name          string
		loanID        string
		amount        decimal.Decimal
		setupMocks    func(*mocks.MockLoanRepository, *mocks.MockPaymentRepository, *mocks.MockCollectionRepository)
		expectedError error
		validate      func(*testing.T, *domain.RecordPaymentResponse)
	}{
		{
			name:   "Success - payment cures the loan",
			loanID: "LN1",
			amount: decimal.NewFromInt(1000),
			setupMocks: func(loanRepo *mocks.MockLoanRepository, paymentRepo *mocks.MockPaymentRepository, collectionRepo *mocks.MockCollectionRepository) {
				loanRepo.On("GetByLoanID", mock.Anything, "LN1").Return(overdueLoan, nil)
				loanRepo.On("GetScheduleByLoanID", mock.Anything, "LN1").Return(schedule, nil)
				paymentRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Payment) bool {
					return p.LoanID == "LN1" && p.Status == domain.PaymentStatusCompleted && p.Amount.Equal(decimal.NewFromInt(1000))
				})).Return(nil)
				loanRepo.On("DecrementInstallmentRemaining", mock.Anything, "LN1", 1, mock.Anything).Return(nil)
				loanRepo.On("ApplyPayment", mock.Anything, "LN1", mock.MatchedBy(func(a decimal.Decimal) bool {
					return a.Equal(decimal.NewFromInt(1000))
				})).Return(nil)
				// post-payment recompute now sees the completed payment
				paymentRepo.On("GetCompletedByLoanID", mock.Anything, "LN1").
					Return([]*domain.Payment{{Amount: decimal.NewFromInt(1000), Status: domain.PaymentStatusCompleted}}, nil)
				loanRepo.On("UpdateDelinquency", mock.Anything, "LN1", 0, domain.BucketCurrent, domain.LoanStatusActive, mock.Anything).Return(nil)
			},
			validate: func(t *testing.T, resp *domain.RecordPaymentResponse) {
				require.Len(t, resp.Allocations, 1)
				assert.Equal(t, 1, resp.Allocations[0].InstallmentNumber)
				assert.True(t, resp.ExcessAmount.IsZero())
				require.NotNil(t, resp.Recalculation)
				assert.Equal(t, 0, resp.Recalculation.DPD)
				assert.Equal(t, domain.BucketCurrent, resp.Recalculation.Bucket)
			},
		},
		{
			name:          "Failure - zero amount",
			loanID:        "LN1",
			amount:        decimal.Zero,
			setupMocks:    func(*mocks.MockLoanRepository, *mocks.MockPaymentRepository, *mocks.MockCollectionRepository) {},
			expectedError: customError.ErrInvalidPaymentAmount,
		},
		{
			name:   "Failure - unknown loan",
			loanID: "NOPE",
			amount: decimal.NewFromInt(500),
			setupMocks: func(loanRepo *mocks.MockLoanRepository, _ *mocks.MockPaymentRepository, _ *mocks.MockCollectionRepository) {
				loanRepo.On("GetByLoanID", mock.Anything, "NOPE").Return(nil, sql.ErrNoRows)
			},
			expectedError: customError.ErrLoanNotFound,
		},
		{
			name:   "Failure - closed loan rejects payments",
			loanID: "LN2",
			amount: decimal.NewFromInt(500),
			setupMocks: func(loanRepo *mocks.MockLoanRepository, _ *mocks.MockPaymentRepository, _ *mocks.MockCollectionRepository) {
				loanRepo.On("GetByLoanID", mock.Anything, "LN2").
					Return(&domain.Loan{LoanID: "LN2", Status: domain.LoanStatusClosed}, nil)
			},
			expectedError: customError.ErrLoanClosed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loanRepo := &mocks.MockLoanRepository{}
			paymentRepo := &mocks.MockPaymentRepository{}
			collectionRepo := &mocks.MockCollectionRepository{}
			tt.setupMocks(loanRepo, paymentRepo, collectionRepo)

			svc := service.NewRecalcService(loanRepo, paymentRepo, collectionRepo, nil, nil)

			resp, err := svc.RecordPayment(context.Background(), tt.loanID, tt.amount, now)

			if tt.expectedError != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, resp)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, resp)
			tt.validate(t, resp)
		})
	}
}

func TestRecordPayment_ExcessIsReturnedNotApplied(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	loanRepo := &mocks.MockLoanRepository{}
	paymentRepo := &mocks.MockPaymentRepository{}
	collectionRepo := &mocks.MockCollectionRepository{}

	loan := &domain.Loan{LoanID: "LN1", Status: domain.LoanStatusOverdue, DPD: 10, Bucket: domain.BucketY}
	schedule := []*domain.Installment{
		{
			LoanID:    "LN1",
			Number:    1,
			DueDate:   now.AddDate(0, 0, -10),
			TotalDue:  decimal.NewFromInt(1000),
			Remaining: decimal.NewFromInt(1000),
		},
	}

	loanRepo.On("GetByLoanID", mock.Anything, "LN1").Return(loan, nil)
	loanRepo.On("GetScheduleByLoanID", mock.Anything, "LN1").Return(schedule, nil)
	paymentRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	loanRepo.On("DecrementInstallmentRemaining", mock.Anything, "LN1", 1, mock.Anything).Return(nil)
	loanRepo.On("ApplyPayment", mock.Anything, "LN1", mock.MatchedBy(func(a decimal.Decimal) bool {
		return a.Equal(decimal.NewFromInt(1000)) // the 500 excess stays out
	})).Return(nil)
	paymentRepo.On("GetCompletedByLoanID", mock.Anything, "LN1").
		Return([]*domain.Payment{{Amount: decimal.NewFromInt(1500), Status: domain.PaymentStatusCompleted}}, nil)
	loanRepo.On("UpdateDelinquency", mock.Anything, "LN1", 0, domain.BucketCurrent, domain.LoanStatusActive, mock.Anything).Return(nil)

	svc := service.NewRecalcService(loanRepo, paymentRepo, collectionRepo, nil, nil)
	resp, err := svc.RecordPayment(context.Background(), "LN1", decimal.NewFromInt(1500), now)

	require.NoError(t, err)
	assert.True(t, resp.ExcessAmount.Equal(decimal.NewFromInt(500)))
	loanRepo.AssertExpectations(t)
}
