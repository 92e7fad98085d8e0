package service

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// OCRLimiter bounds the number of OCR jobs running at once. OCR is the
// dominant resource cost of the pipeline, so the limiter is constructed once
// at process start and shared by every request. Waiters are woken in FIFO
// order.
type OCRLimiter struct {
	sem *semaphore.Weighted
}

func NewOCRLimiter(capacity int64) *OCRLimiter {
	return &OCRLimiter{sem: semaphore.NewWeighted(capacity)}
}

// Acquire blocks until a slot is free or ctx is done.
func (l *OCRLimiter) Acquire(ctx context.Context) error {
	return l.sem.Acquire(ctx, 1)
}

// Release frees a slot, waking the next queued waiter.
func (l *OCRLimiter) Release() {
	l.sem.Release(1)
}
