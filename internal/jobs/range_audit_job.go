package jobs

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iTakecare/itakecarehub-sub001/internal/domain"
	"github.com/iTakecare/itakecarehub-sub001/internal/leasing"
)

// RangeAuditJobName is the name of the range audit job
const RangeAuditJobName = "range_audit"

// RangeLister fetches every coefficient range grouped by leaser.
type RangeLister interface {
	ListAllRanges(ctx context.Context) (map[uuid.UUID][]domain.LeaserRange, error)
}

// CommissionLister fetches every commission tier grouped by level.
type CommissionLister interface {
	ListAllRanges(ctx context.Context) (map[uuid.UUID][]domain.CommissionRange, error)
}

// RangeAuditJob sweeps all leaser coefficient tables and commission tier
// tables, reporting overlaps and coverage gaps. Overlaps should never occur
// (writes validate them away) but direct database edits happen; gaps are
// legal yet worth knowing about since amounts falling into one resolve to
// nothing.
type RangeAuditJob struct {
	leasers     RangeLister
	commissions CommissionLister
	logger      *zap.Logger
	timeout     time.Duration
}

// NewRangeAuditJob creates the audit job. The timeout bounds a single sweep.
func NewRangeAuditJob(leasers RangeLister, commissions CommissionLister, logger *zap.Logger, timeout time.Duration) *RangeAuditJob {
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &RangeAuditJob{
		leasers:     leasers,
		commissions: commissions,
		logger:      logger,
		timeout:     timeout,
	}
}

// Run executes one audit sweep.
func (j *RangeAuditJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	leasersChecked, leaserIssues := j.auditLeasers(ctx)
	levelsChecked, levelIssues := j.auditCommissionLevels(ctx)

	j.logger.Info("range audit completed",
		zap.Int("leasers_checked", leasersChecked),
		zap.Int("leasers_with_issues", leaserIssues),
		zap.Int("levels_checked", levelsChecked),
		zap.Int("levels_with_issues", levelIssues),
	)
}

func (j *RangeAuditJob) auditLeasers(ctx context.Context) (checked, withIssues int) {
	grouped, err := j.leasers.ListAllRanges(ctx)
	if err != nil {
		j.logger.Error("range audit failed to list leaser ranges", zap.Error(err))
		return 0, 0
	}

	for leaserID, ranges := range grouped {
		issues := false

		if err := leasing.ValidateRanges(ranges); err != nil {
			j.logger.Warn("range audit found invalid coefficient table",
				zap.String("leaser_id", leaserID.String()),
				zap.Error(err),
			)
			issues = true
		}

		for _, gap := range coverageGaps(leaserSpans(ranges)) {
			j.logger.Warn("range audit found coefficient coverage gap",
				zap.String("leaser_id", leaserID.String()),
				zap.Float64("from", gap[0]),
				zap.Float64("to", gap[1]),
			)
			issues = true
		}

		if issues {
			withIssues++
		}
	}
	return len(grouped), withIssues
}

func (j *RangeAuditJob) auditCommissionLevels(ctx context.Context) (checked, withIssues int) {
	grouped, err := j.commissions.ListAllRanges(ctx)
	if err != nil {
		j.logger.Error("range audit failed to list commission tiers", zap.Error(err))
		return 0, 0
	}

	for levelID, ranges := range grouped {
		issues := false

		if err := leasing.ValidateCommissionRanges(ranges); err != nil {
			j.logger.Warn("range audit found invalid commission table",
				zap.String("level_id", levelID.String()),
				zap.Error(err),
			)
			issues = true
		}

		for _, gap := range coverageGaps(commissionSpans(ranges)) {
			j.logger.Warn("range audit found commission coverage gap",
				zap.String("level_id", levelID.String()),
				zap.Float64("from", gap[0]),
				zap.Float64("to", gap[1]),
			)
			issues = true
		}

		if issues {
			withIssues++
		}
	}
	return len(grouped), withIssues
}

// span is a [min, max] interval of a range table row.
type span struct {
	Min, Max float64
}

func leaserSpans(ranges []domain.LeaserRange) []span {
	spans := make([]span, len(ranges))
	for i, r := range ranges {
		spans[i] = span{Min: r.Min, Max: r.Max}
	}
	return spans
}

func commissionSpans(ranges []domain.CommissionRange) []span {
	spans := make([]span, len(ranges))
	for i, r := range ranges {
		spans[i] = span{Min: r.Min, Max: r.Max}
	}
	return spans
}

// coverageGaps returns [from, to] pairs where no range applies between the
// table's lowest minimum and highest maximum.
func coverageGaps(spans []span) [][2]float64 {
	if len(spans) < 2 {
		return nil
	}

	sorted := make([]span, len(spans))
	copy(sorted, spans)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Min < sorted[j].Min
	})

	// Tables step in cents: [0, 2500] followed by [2500.01, ...] is
	// contiguous, not a gap.
	const step = 0.01

	var gaps [][2]float64
	covered := sorted[0].Max
	for _, s := range sorted[1:] {
		if s.Min > covered+step {
			gaps = append(gaps, [2]float64{covered, s.Min})
		}
		if s.Max > covered {
			covered = s.Max
		}
	}
	return gaps
}
