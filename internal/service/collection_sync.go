package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pinjamin/collections-engine/internal/domain"
	"github.com/pinjamin/collections-engine/internal/repository"
)

// CollectionSyncer keeps collection cases in step with recalculated DPD.
type CollectionSyncer struct {
	collectionRepo repository.CollectionRepository
}

func NewCollectionSyncer(collectionRepo repository.CollectionRepository) *CollectionSyncer {
	return &CollectionSyncer{collectionRepo: collectionRepo}
}

// Sync creates or refreshes the loan's active collection record after a DPD
// recalculation. A loan crossing from DPD 0 to positive opens a fresh pending
// case; any other positive-DPD result upserts the existing active case
// (create-if-absent). A cured loan (DPD 0) writes nothing — closing the case
// is handled out of band.
func (s *CollectionSyncer) Sync(ctx context.Context, loanID string, previousDPD int, result DPDResult) error {
	if result.DPD <= 0 {
		return nil
	}

	now := time.Now()
	record := &domain.CollectionRecord{
		ID:            uuid.New(),
		LoanID:        loanID,
		DPD:           result.DPD,
		Bucket:        domain.BucketForDPD(result.DPD),
		OverdueAmount: result.OverdueAmount,
		Priority:      domain.PriorityFor(result.DPD, result.OverdueAmount),
		Status:        domain.CollectionStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if previousDPD == 0 {
		return s.collectionRepo.Create(ctx, record)
	}

	return s.collectionRepo.Upsert(ctx, record)
}
