package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/pinjamin/collections-engine/internal/config"
	"github.com/pinjamin/collections-engine/internal/domain"
	"github.com/pinjamin/collections-engine/internal/repository"
	customError "github.com/pinjamin/collections-engine/pkg/errors"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const (
	lastRunCacheKey = "collections:lastrun"
	statsCacheKey   = "collections:stats"
)

// batchStatuses is the loan population a recalculation run walks.
var batchStatuses = []string{domain.LoanStatusActive, domain.LoanStatusOverdue}

// RecalcService runs DPD recalculation: nightly over the whole active-loan
// population in bounded pages, or on demand for a single loan after a payment.
type RecalcService struct {
	LoanRepo       repository.LoanRepository
	PaymentRepo    repository.PaymentRepository
	CollectionRepo repository.CollectionRepository
	syncer         *CollectionSyncer
	redis          *redis.Client
	config         *config.Config
}

func NewRecalcService(
	loanRepo repository.LoanRepository,
	paymentRepo repository.PaymentRepository,
	collectionRepo repository.CollectionRepository,
	redis *redis.Client,
	config *config.Config,
) *RecalcService {
	return &RecalcService{
		LoanRepo:       loanRepo,
		PaymentRepo:    paymentRepo,
		CollectionRepo: collectionRepo,
		syncer:         NewCollectionSyncer(collectionRepo),
		redis:          redis,
		config:         config,
	}
}

func (s *RecalcService) batchSize() int {
	if s.config != nil && s.config.Batch.Size > 0 {
		return s.config.Batch.Size
	}
	return 1000
}

func (s *RecalcService) callTimeout() time.Duration {
	if s.config != nil {
		return s.config.GetBatchCallTimeout()
	}
	return 10 * time.Second
}

// RunBatch recalculates DPD for every active/overdue loan, one page at a
// time, one loan at a time. A single loan's failure is logged and counted;
// only a page-fetch failure aborts the run. Cancellation is honored between
// loans, never mid-loan.
func (s *RecalcService) RunBatch(ctx context.Context, now time.Time) (*domain.RunSummary, error) {
	summary := &domain.RunSummary{StartedAt: time.Now()}
	limit := s.batchSize()
	offset := 0

	for {
		loans, err := s.fetchPage(ctx, offset, limit)
		if err != nil {
			return nil, customError.WrapDataAccessError(err)
		}
		if len(loans) == 0 {
			break
		}

		cancelled := false
		for _, loan := range loans {
			if ctx.Err() != nil {
				log.Printf("recalculation batch cancelled after %d loans", summary.ProcessedCount)
				cancelled = true
				break
			}

			summary.ProcessedCount++

			result, err := s.recalcOne(ctx, loan, now)
			if err != nil {
				if errors.Is(err, customError.ErrNoScheduleData) {
					log.Printf("loan %s has no schedule, skipping", loan.LoanID)
					continue
				}

				// The loan update may have landed before a collection-record
				// failure; it still counts as updated.
				if result != nil && result.Changed {
					summary.UpdatedCount++
				}

				summary.ErrorCount++
				log.Printf("recalculation failed for loan %s: %v", loan.LoanID, err)
				continue
			}

			if result.Changed {
				summary.UpdatedCount++
			}
		}

		if cancelled || len(loans) < limit {
			break
		}
		offset += limit
	}

	summary.FinishedAt = time.Now()
	s.cacheRunSummary(ctx, summary)

	log.Printf("recalculation run done: processed=%d updated=%d errors=%d",
		summary.ProcessedCount, summary.UpdatedCount, summary.ErrorCount)

	return summary, nil
}

// RecalculateLoan recomputes DPD for one loan, typically right after a
// payment is recorded so the caller sees the fresh bucket immediately.
func (s *RecalcService) RecalculateLoan(ctx context.Context, loanID string, now time.Time) (*domain.RecalculationResult, error) {
	loan, err := s.getLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	result, err := s.recalcOne(ctx, loan, now)
	if err != nil {
		// The dpd/bucket change stands even when the collection-record write
		// failed; the next run corrects the record.
		if result != nil {
			log.Printf("collection sync failed for loan %s: %v", loanID, err)
			return result, nil
		}
		return nil, err
	}

	return result, nil
}

// recalcOne computes and persists one loan's delinquency state. It returns a
// non-nil result alongside the error when the loan update itself succeeded
// but the collection-record sync did not.
func (s *RecalcService) recalcOne(ctx context.Context, loan *domain.Loan, now time.Time) (*domain.RecalculationResult, error) {
	schedule, err := s.getSchedule(ctx, loan.LoanID)
	if err != nil {
		return nil, customError.WrapDataAccessError(err)
	}
	if len(schedule) == 0 {
		return nil, customError.WrapNoScheduleData(loan.LoanID)
	}

	payments, err := s.getPayments(ctx, loan.LoanID)
	if err != nil {
		return nil, customError.WrapDataAccessError(err)
	}

	dpdResult := CalculateDPD(schedule, payments, now)
	bucket := domain.BucketForDPD(dpdResult.DPD)
	status := domain.StatusForDPD(dpdResult.DPD)

	result := &domain.RecalculationResult{
		LoanID:        loan.LoanID,
		PreviousDPD:   loan.DPD,
		DPD:           dpdResult.DPD,
		Bucket:        bucket,
		Status:        status,
		OverdueAmount: dpdResult.OverdueAmount,
		Changed:       loan.DPD != dpdResult.DPD || loan.Bucket != bucket || loan.Status != status,
	}

	if result.Changed {
		if err := s.persistDelinquency(ctx, loan.LoanID, dpdResult, bucket, status); err != nil {
			return nil, customError.WrapDataAccessError(err)
		}
	}

	if dpdResult.DPD > 0 {
		if err := s.syncCollection(ctx, loan.LoanID, loan.DPD, dpdResult); err != nil {
			return result, customError.WrapCollectionSyncError(loan.LoanID, err)
		}
	}

	return result, nil
}

// RecordPayment persists a completed payment, allocates it across outstanding
// installments oldest-first, and synchronously recomputes the loan's DPD.
func (s *RecalcService) RecordPayment(ctx context.Context, loanID string, amount decimal.Decimal, now time.Time) (*domain.RecordPaymentResponse, error) {
	if !amount.IsPositive() {
		return nil, customError.WrapInvalidPaymentAmount(amount.String())
	}

	loan, err := s.getLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan.Status == domain.LoanStatusClosed {
		return nil, customError.WrapLoanClosed(loanID)
	}

	schedule, err := s.getSchedule(ctx, loanID)
	if err != nil {
		return nil, customError.WrapDataAccessError(err)
	}
	if len(schedule) == 0 {
		return nil, customError.WrapNoScheduleData(loanID)
	}

	allocations, excess := AllocatePayment(amount, schedule)

	payment := &domain.Payment{
		ID:          uuid.New(),
		LoanID:      loanID,
		Amount:      amount,
		PaymentDate: now,
		Status:      domain.PaymentStatusCompleted,
		CreatedAt:   time.Now(),
	}

	if err := s.PaymentRepo.Create(ctx, payment); err != nil {
		return nil, customError.WrapDataAccessError(err)
	}

	for _, alloc := range allocations {
		if err := s.LoanRepo.DecrementInstallmentRemaining(ctx, loanID, alloc.InstallmentNumber, alloc.Amount); err != nil {
			return nil, customError.WrapDataAccessError(err)
		}
	}

	// Only the allocated portion moves the loan aggregates; the excess is
	// returned to the caller to deal with (refund, hold, next cycle).
	applied := amount.Sub(excess)
	if applied.IsPositive() {
		if err := s.LoanRepo.ApplyPayment(ctx, loanID, applied); err != nil {
			return nil, customError.WrapDataAccessError(err)
		}
	}

	response := &domain.RecordPaymentResponse{
		Payment:      payment,
		Allocations:  allocations,
		ExcessAmount: excess,
	}

	recalc, err := s.RecalculateLoan(ctx, loanID, now)
	if err != nil {
		// Payment is already persisted; the nightly run will fix the bucket.
		log.Printf("post-payment recalculation failed for loan %s: %v", loanID, err)
		return response, nil
	}
	response.Recalculation = recalc

	return response, nil
}

// HealthCheck reports the size of the active population vs the delinquent
// slice. A failing query yields an unhealthy status with the error message
// rather than an error return.
func (s *RecalcService) HealthCheck(ctx context.Context) *domain.EngineHealth {
	active, err := s.LoanRepo.CountByStatuses(ctx, batchStatuses)
	if err != nil {
		return &domain.EngineHealth{Status: "unhealthy", Message: err.Error()}
	}

	delinquent, err := s.LoanRepo.CountDelinquent(ctx)
	if err != nil {
		return &domain.EngineHealth{Status: "unhealthy", Message: err.Error()}
	}

	return &domain.EngineHealth{
		Status:          "healthy",
		ActiveLoans:     active,
		DelinquentLoans: delinquent,
	}
}

// BucketStats returns the dashboard aggregation grouped by bucket, cached in
// Redis for a short TTL.
func (s *RecalcService) BucketStats(ctx context.Context) ([]*domain.BucketStats, error) {
	if s.redis != nil {
		cached, err := s.redis.Get(ctx, statsCacheKey).Result()
		if err == nil {
			var stats []*domain.BucketStats
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				return stats, nil
			}
		}
	}

	stats, err := s.LoanRepo.GetBucketStats(ctx)
	if err != nil {
		return nil, customError.WrapDataAccessError(err)
	}

	if s.redis != nil {
		if payload, err := json.Marshal(stats); err == nil {
			ttl := 5 * time.Minute
			if s.config != nil {
				ttl = s.config.GetStatsCacheTTL()
			}
			if err := s.redis.Set(ctx, statsCacheKey, payload, ttl).Err(); err != nil {
				log.Printf("%v", customError.WrapCacheError(err))
			}
		}
	}

	return stats, nil
}

// LastRunSummary returns the summary of the most recent batch run, if cached.
func (s *RecalcService) LastRunSummary(ctx context.Context) (*domain.RunSummary, error) {
	if s.redis == nil {
		return nil, redis.Nil
	}

	cached, err := s.redis.Get(ctx, lastRunCacheKey).Result()
	if err != nil {
		return nil, err
	}

	var summary domain.RunSummary
	if err := json.Unmarshal([]byte(cached), &summary); err != nil {
		return nil, err
	}

	return &summary, nil
}

func (s *RecalcService) cacheRunSummary(ctx context.Context, summary *domain.RunSummary) {
	if s.redis == nil {
		return
	}

	payload, err := json.Marshal(summary)
	if err != nil {
		return
	}

	if err := s.redis.Set(ctx, lastRunCacheKey, payload, 0).Err(); err != nil {
		log.Printf("%v", customError.WrapCacheError(err))
	}
}

// Per-call timeouts keep one hung data-access call from stalling the whole
// batch; expiry surfaces as a per-loan error.

func (s *RecalcService) fetchPage(ctx context.Context, offset, limit int) ([]*domain.Loan, error) {
	tctx, cancel := context.WithTimeout(ctx, s.callTimeout())
	defer cancel()
	return s.LoanRepo.FindByStatuses(tctx, batchStatuses, offset, limit)
}

func (s *RecalcService) getLoan(ctx context.Context, loanID string) (*domain.Loan, error) {
	tctx, cancel := context.WithTimeout(ctx, s.callTimeout())
	defer cancel()

	loan, err := s.LoanRepo.GetByLoanID(tctx, loanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapLoanNotFound(loanID)
		}
		return nil, customError.WrapDataAccessError(err)
	}

	return loan, nil
}

func (s *RecalcService) getSchedule(ctx context.Context, loanID string) ([]*domain.Installment, error) {
	tctx, cancel := context.WithTimeout(ctx, s.callTimeout())
	defer cancel()
	return s.LoanRepo.GetScheduleByLoanID(tctx, loanID)
}

func (s *RecalcService) getPayments(ctx context.Context, loanID string) ([]*domain.Payment, error) {
	tctx, cancel := context.WithTimeout(ctx, s.callTimeout())
	defer cancel()
	return s.PaymentRepo.GetCompletedByLoanID(tctx, loanID)
}

func (s *RecalcService) persistDelinquency(ctx context.Context, loanID string, result DPDResult, bucket, status string) error {
	tctx, cancel := context.WithTimeout(ctx, s.callTimeout())
	defer cancel()
	return s.LoanRepo.UpdateDelinquency(tctx, loanID, result.DPD, bucket, status, result.OverdueAmount)
}

func (s *RecalcService) syncCollection(ctx context.Context, loanID string, previousDPD int, result DPDResult) error {
	tctx, cancel := context.WithTimeout(ctx, s.callTimeout())
	defer cancel()
	return s.syncer.Sync(tctx, loanID, previousDPD, result)
}
