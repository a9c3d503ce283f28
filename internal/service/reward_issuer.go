package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/scholarfund/scholarfund-api/internal/collab"
	"github.com/scholarfund/scholarfund-api/internal/domain"
	"github.com/scholarfund/scholarfund-api/internal/platform/logger"
)

// RewardIssuer mints reward units to investors proportional to their
// funding. Issue runs inside the funding transaction: a mint failure aborts
// the whole funding operation, keeping funding and issuance one atomic unit
// of work.
type RewardIssuer struct {
	token  collab.RewardToken
	logger *slog.Logger
}

// NewRewardIssuer creates a RewardIssuer over the reward token collaborator.
func NewRewardIssuer(token collab.RewardToken, log *slog.Logger) *RewardIssuer {
	if token == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("token cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &RewardIssuer{
		token:  token,
		logger: log.With(slog.String("component", "reward_issuer")),
	}
}

// Issue converts fundedAmount into reward minor units under the given policy
// and mints them to the investor. A computed reward of zero mints nothing
// and is not an error.
func (r *RewardIssuer) Issue(ctx context.Context, investor uuid.UUID, fundedAmount uint64, policy domain.RewardPolicy) (uint64, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)

	reward, err := policy.Reward(fundedAmount)
	if err != nil {
		return 0, err
	}
	if reward == 0 {
		return 0, nil
	}

	if err := r.token.Mint(ctx, investor, reward); err != nil {
		log.Error("reward mint failed",
			slog.String("investor", investor.String()),
			slog.Uint64("funded_amount", fundedAmount),
			slog.String("error", err.Error()))
		return 0, err
	}

	log.Debug("reward issued",
		slog.String("investor", investor.String()),
		slog.Uint64("funded_amount", fundedAmount),
		slog.Uint64("reward", reward))
	return reward, nil
}
