package test

import (
	"context"
	"errors"
	"sync"
	"time"

	"devcart/product-outbox-relay/outbox"
)

type MockRepository struct {
	sync.RWMutex
	claimPendingCallCount int
	claimRetryCallCount   int
	pendingBatches        []*outbox.Batch
	retryBatches          []*outbox.Batch
	batchesCommitted      []*outbox.Batch
	deletedBefore         []time.Time
	deletedRowsCount      int64
	mockPendingCount      uint
	mockFailedCount       uint
	returnError           bool
	returnNoEventsError   bool
}

func NewMockRepository() *MockRepository {
	return &MockRepository{}
}

func (mr *MockRepository) ClaimPendingBatch(ctx context.Context) (*outbox.Batch, error) {
	mr.Lock()
	defer mr.Unlock()
	mr.claimPendingCallCount++

	if mr.returnError {
		return nil, errors.New("oops")
	}

	if len(mr.pendingBatches) == 0 || mr.returnNoEventsError {
		return nil, outbox.ErrNoEvents
	}

	b := mr.pendingBatches[0]
	mr.pendingBatches = mr.pendingBatches[1:]

	return b, nil
}

func (mr *MockRepository) ClaimRetryableFailedBatch(ctx context.Context) (*outbox.Batch, error) {
	mr.Lock()
	defer mr.Unlock()
	mr.claimRetryCallCount++

	if mr.returnError {
		return nil, errors.New("oops")
	}

	if len(mr.retryBatches) == 0 || mr.returnNoEventsError {
		return nil, outbox.ErrNoEvents
	}

	b := mr.retryBatches[0]
	mr.retryBatches = mr.retryBatches[1:]

	return b, nil
}

func (mr *MockRepository) CommitBatch(ctx context.Context, batch *outbox.Batch) {
	mr.Lock()
	defer mr.Unlock()
	mr.batchesCommitted = append(mr.batchesCommitted, batch)
}

func (mr *MockRepository) DeletePublishedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	mr.Lock()
	defer mr.Unlock()

	if mr.returnError {
		return 0, errors.New("oops")
	}

	mr.deletedBefore = append(mr.deletedBefore, cutoff)

	return mr.deletedRowsCount, nil
}

func (mr *MockRepository) CountPending(ctx context.Context) (uint, error) {
	mr.RLock()
	defer mr.RUnlock()

	if mr.returnError {
		return 0, errors.New("oops")
	}

	return mr.mockPendingCount, nil
}

func (mr *MockRepository) CountFailed(ctx context.Context) (uint, error) {
	mr.RLock()
	defer mr.RUnlock()

	if mr.returnError {
		return 0, errors.New("oops")
	}

	return mr.mockFailedCount, nil
}

func (mr *MockRepository) AddPendingBatch(batch *outbox.Batch) {
	mr.Lock()
	defer mr.Unlock()
	mr.pendingBatches = append(mr.pendingBatches, batch)
}

func (mr *MockRepository) AddRetryBatch(batch *outbox.Batch) {
	mr.Lock()
	defer mr.Unlock()
	mr.retryBatches = append(mr.retryBatches, batch)
}

func (mr *MockRepository) ReturnErrors() {
	mr.Lock()
	defer mr.Unlock()
	mr.returnError = true
}

func (mr *MockRepository) ReturnNoEventsError() {
	mr.Lock()
	defer mr.Unlock()
	mr.returnNoEventsError = true
}

func (mr *MockRepository) SetDeletedRowsCount(count int64) {
	mr.Lock()
	defer mr.Unlock()
	mr.deletedRowsCount = count
}

func (mr *MockRepository) SetCounts(pending, failed uint) {
	mr.Lock()
	defer mr.Unlock()
	mr.mockPendingCount = pending
	mr.mockFailedCount = failed
}

func (mr *MockRepository) ClaimPendingCallCount() int {
	mr.RLock()
	defer mr.RUnlock()
	return mr.claimPendingCallCount
}

func (mr *MockRepository) ClaimRetryCallCount() int {
	mr.RLock()
	defer mr.RUnlock()
	return mr.claimRetryCallCount
}

func (mr *MockRepository) CommittedBatches() []*outbox.Batch {
	mr.RLock()
	defer mr.RUnlock()
	return mr.batchesCommitted
}

func (mr *MockRepository) DeletedBefore() []time.Time {
	mr.RLock()
	defer mr.RUnlock()
	return mr.deletedBefore
}
