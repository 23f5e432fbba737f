package mocks

import (
	"context"

	"github.com/pinjamin/collections-engine/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockLoanRepository struct {
	mock.Mock
}

func (m *MockLoanRepository) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) FindByStatuses(ctx context.Context, statuses []string, offset, limit int) ([]*domain.Loan, error) {
	args := m.Called(ctx, statuses, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) UpdateDelinquency(ctx context.Context, loanID string, dpd int, bucket, status string, overdueAmount decimal.Decimal) error {
	args := m.Called(ctx, loanID, dpd, bucket, status, overdueAmount)
	return args.Error(0)
}

func (m *MockLoanRepository) ApplyPayment(ctx context.Context, loanID string, amount decimal.Decimal) error {
	args := m.Called(ctx, loanID, amount)
	return args.Error(0)
}

func (m *MockLoanRepository) GetScheduleByLoanID(ctx context.Context, loanID string) ([]*domain.Installment, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Installment), args.Error(1)
}

func (m *MockLoanRepository) DecrementInstallmentRemaining(ctx context.Context, loanID string, installmentNumber int, amount decimal.Decimal) error {
	args := m.Called(ctx, loanID, installmentNumber, amount)
	return args.Error(0)
}

func (m *MockLoanRepository) CountByStatuses(ctx context.Context, statuses []string) (int, error) {
	args := m.Called(ctx, statuses)
	return args.Int(0), args.Error(1)
}

func (m *MockLoanRepository) CountDelinquent(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockLoanRepository) GetBucketStats(ctx context.Context) ([]*domain.BucketStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.BucketStats), args.Error(1)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetCompletedByLoanID(ctx context.Context, loanID string) ([]*domain.Payment, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Payment), args.Error(1)
}

type MockCollectionRepository struct {
	mock.Mock
}

func (m *MockCollectionRepository) Create(ctx context.Context, record *domain.CollectionRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockCollectionRepository) Upsert(ctx context.Context, record *domain.CollectionRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockCollectionRepository) GetActiveByLoanID(ctx context.Context, loanID string) (*domain.CollectionRecord, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CollectionRecord), args.Error(1)
}
