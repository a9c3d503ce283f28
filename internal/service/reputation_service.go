package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/scholarfund/scholarfund-api/internal/domain"
	"github.com/scholarfund/scholarfund-api/internal/events"
	"github.com/scholarfund/scholarfund-api/internal/platform/logger"
	"github.com/scholarfund/scholarfund-api/internal/store"
)

// ReputationService aggregates stake-weighted ratings and drives the freeze
// state machine from them.
type ReputationService interface {
	// Rate folds one rating into the scholarship's aggregate and runs the
	// automatic freeze evaluation. Weight sufficiency is the reward token
	// collaborator's concern, enforced before this call; it is not
	// re-checked here.
	Rate(ctx context.Context, id uint64, score uint64, weight uint64, rater uuid.UUID) error

	// GetScholarshipScore returns the weighted average score (2-decimal
	// fixed point), 0 when unrated.
	GetScholarshipScore(ctx context.Context, id uint64) (uint64, error)

	// GetRatingCount returns the number of ratings ever recorded.
	GetRatingCount(ctx context.Context, id uint64) (uint64, error)

	// GetTotalRatingTokens returns the cumulative stake weight.
	GetTotalRatingTokens(ctx context.Context, id uint64) (uint64, error)

	// GetTopRatedScholarships returns up to limit ids by descending
	// weighted average, ties by ascending id.
	GetTopRatedScholarships(ctx context.Context, limit int) ([]store.RankedScholarship, error)

	// IsFrozen returns the persisted freeze flag.
	IsFrozen(ctx context.Context, id uint64) (bool, error)

	// ShouldBeFrozen returns the score-derived freeze value without
	// applying it. It may legitimately differ from IsFrozen after a manual
	// override, until the next evaluation.
	ShouldBeFrozen(ctx context.Context, id uint64) (bool, error)

	// RecomputeFreezeStatus runs the automatic evaluation on demand.
	// Callable by anyone; it only ever applies the score-implied value.
	RecomputeFreezeStatus(ctx context.Context, id uint64) error

	// SetFrozenStatus applies an administrative override. Immediate but
	// non-sticky: the next automatic evaluation overwrites it.
	SetFrozenStatus(ctx context.Context, id uint64, frozen bool) error
}

type reputationService struct {
	runner  store.Runner
	emitter events.Emitter
	logger  *slog.Logger
}

// NewReputationService creates the rating/freeze service.
func NewReputationService(runner store.Runner, emitter events.Emitter, log *slog.Logger) ReputationService {
	if runner == nil || emitter == nil {
		// ALLOW-PANIC: constructor enforcing required dependencies
		panic("reputation service dependencies cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &reputationService{
		runner:  runner,
		emitter: emitter,
		logger:  log.With(slog.String("component", "reputation_service")),
	}
}

// Rate implements ReputationService.Rate. The aggregate update and the
// freeze evaluation commit together; the status-change notification is
// emitted only after commit and only when the flag actually flipped.
func (s *reputationService) Rate(ctx context.Context, id uint64, score uint64, weight uint64, rater uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var flip *events.FreezeStatusChanged
	err := s.runner.RunInTransaction(ctx, func(ctx context.Context, st store.Stores) error {
		sch, err := st.Scholarships.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		agg, err := st.Ratings.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := agg.AddRating(score, weight); err != nil {
			return err
		}
		if err := st.Ratings.Update(ctx, agg); err != nil {
			return err
		}

		changed := domain.ResolveFreeze(sch, agg)
		if err := st.Scholarships.UpdateFreeze(ctx, sch); err != nil {
			return err
		}
		if changed {
			flip = &events.FreezeStatusChanged{
				ScholarshipID: id,
				Frozen:        sch.Frozen,
				Average:       agg.WeightedAverage(),
				Occurred:      time.Now().UTC(),
			}
		}
		return nil
	})
	if err != nil {
		return wrapErr("rate", err)
	}

	log.Info("scholarship rated",
		slog.Uint64("scholarship_id", id),
		slog.Uint64("score", score),
		slog.Uint64("weight", weight),
		slog.String("rater", rater.String()))

	s.emitFlip(ctx, flip)
	return nil
}

// RecomputeFreezeStatus implements ReputationService.RecomputeFreezeStatus.
func (s *reputationService) RecomputeFreezeStatus(ctx context.Context, id uint64) error {
	var flip *events.FreezeStatusChanged
	err := s.runner.RunInTransaction(ctx, func(ctx context.Context, st store.Stores) error {
		sch, err := st.Scholarships.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		agg, err := st.Ratings.Get(ctx, id)
		if err != nil {
			return err
		}
		changed := domain.ResolveFreeze(sch, agg)
		if err := st.Scholarships.UpdateFreeze(ctx, sch); err != nil {
			return err
		}
		if changed {
			flip = &events.FreezeStatusChanged{
				ScholarshipID: id,
				Frozen:        sch.Frozen,
				Average:       agg.WeightedAverage(),
				Occurred:      time.Now().UTC(),
			}
		}
		return nil
	})
	if err != nil {
		return wrapErr("recompute_freeze", err)
	}
	s.emitFlip(ctx, flip)
	return nil
}

// SetFrozenStatus implements ReputationService.SetFrozenStatus.
func (s *reputationService) SetFrozenStatus(ctx context.Context, id uint64, frozen bool) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var flip *events.FreezeStatusChanged
	err := s.runner.RunInTransaction(ctx, func(ctx context.Context, st store.Stores) error {
		sch, err := st.Scholarships.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		agg, err := st.Ratings.Get(ctx, id)
		if err != nil {
			return err
		}
		changed := domain.OverrideFreeze(sch, frozen)
		if err := st.Scholarships.UpdateFreeze(ctx, sch); err != nil {
			return err
		}
		if changed {
			flip = &events.FreezeStatusChanged{
				ScholarshipID: id,
				Frozen:        sch.Frozen,
				Average:       agg.WeightedAverage(),
				Manual:        true,
				Occurred:      time.Now().UTC(),
			}
		}
		return nil
	})
	if err != nil {
		return wrapErr("set_frozen_status", err)
	}

	log.Info("freeze status overridden",
		slog.Uint64("scholarship_id", id),
		slog.Bool("frozen", frozen))

	s.emitFlip(ctx, flip)
	return nil
}

// GetScholarshipScore implements ReputationService.GetScholarshipScore.
func (s *reputationService) GetScholarshipScore(ctx context.Context, id uint64) (uint64, error) {
	agg, err := s.runner.Stores().Ratings.Get(ctx, id)
	if err != nil {
		return 0, wrapErr("get_score", err)
	}
	return agg.WeightedAverage(), nil
}

// GetRatingCount implements ReputationService.GetRatingCount.
func (s *reputationService) GetRatingCount(ctx context.Context, id uint64) (uint64, error) {
	agg, err := s.runner.Stores().Ratings.Get(ctx, id)
	if err != nil {
		return 0, wrapErr("get_rating_count", err)
	}
	return agg.RatingCount, nil
}

// GetTotalRatingTokens implements ReputationService.GetTotalRatingTokens.
func (s *reputationService) GetTotalRatingTokens(ctx context.Context, id uint64) (uint64, error) {
	agg, err := s.runner.Stores().Ratings.Get(ctx, id)
	if err != nil {
		return 0, wrapErr("get_total_rating_tokens", err)
	}
	return agg.WeightSum, nil
}

// GetTopRatedScholarships implements
// ReputationService.GetTopRatedScholarships.
func (s *reputationService) GetTopRatedScholarships(ctx context.Context, limit int) ([]store.RankedScholarship, error) {
	ranked, err := s.runner.Stores().Ratings.TopRated(ctx, limit)
	return ranked, wrapErr("top_rated", err)
}

// IsFrozen implements ReputationService.IsFrozen.
func (s *reputationService) IsFrozen(ctx context.Context, id uint64) (bool, error) {
	sch, err := s.runner.Stores().Scholarships.GetByID(ctx, id)
	if err != nil {
		return false, wrapErr("is_frozen", err)
	}
	return sch.Frozen, nil
}

// ShouldBeFrozen implements ReputationService.ShouldBeFrozen. Pure
// recomputation; applies nothing.
func (s *reputationService) ShouldBeFrozen(ctx context.Context, id uint64) (bool, error) {
	agg, err := s.runner.Stores().Ratings.Get(ctx, id)
	if err != nil {
		return false, wrapErr("should_be_frozen", err)
	}
	return domain.ShouldBeFrozen(agg), nil
}

func (s *reputationService) emitFlip(ctx context.Context, flip *events.FreezeStatusChanged) {
	if flip == nil {
		return
	}
	if err := s.emitter.Emit(ctx, *flip); err != nil {
		// Notification delivery is best-effort; the state change is already
		// committed.
		s.logger.Warn("freeze notification delivery failed",
			slog.Uint64("scholarship_id", flip.ScholarshipID),
			slog.String("error", err.Error()))
	}
}
