package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RecalcScheduler coalesces commission/pricing recomputes per offer.
// Equipment mutations arrive in bursts while an operator edits quantities;
// each Schedule call resets the offer's timer, and the recompute runs once
// the configured quiet window elapses. A synchronous recompute remains
// available through OfferService.Recalculate.
type RecalcScheduler struct {
	window  time.Duration
	recalc  func(ctx context.Context, offerID uuid.UUID) error
	logger  *zap.Logger
	mu      sync.Mutex
	pending map[uuid.UUID]*time.Timer
	closed  bool
}

func NewRecalcScheduler(window time.Duration, recalc func(ctx context.Context, offerID uuid.UUID) error, logger *zap.Logger) *RecalcScheduler {
	return &RecalcScheduler{
		window:  window,
		recalc:  recalc,
		logger:  logger,
		pending: make(map[uuid.UUID]*time.Timer),
	}
}

// Schedule queues a recompute for the offer. A recompute already pending
// for the same offer is pushed back by a full window.
func (s *RecalcScheduler) Schedule(offerID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if timer, ok := s.pending[offerID]; ok {
		timer.Reset(s.window)
		return
	}
	s.pending[offerID] = time.AfterFunc(s.window, func() {
		s.fire(offerID)
	})
}

func (s *RecalcScheduler) fire(offerID uuid.UUID) {
	s.mu.Lock()
	delete(s.pending, offerID)
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.recalc(ctx, offerID); err != nil {
		s.logger.Warn("coalesced recompute failed",
			zap.String("offer_id", offerID.String()),
			zap.Error(err),
		)
	}
}

// Stop cancels all pending recomputes
func (s *RecalcScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	for id, timer := range s.pending {
		timer.Stop()
		delete(s.pending, id)
	}
}
