package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/scholarfund/scholarfund-api/internal/collab"
	"github.com/scholarfund/scholarfund-api/internal/domain"
	"github.com/scholarfund/scholarfund-api/internal/platform/logger"
	"github.com/scholarfund/scholarfund-api/internal/store"
)

// WithdrawalView is the legacy withdrawal history entry: net amount and
// timestamp only. Index i of the legacy view and the detailed view always
// refer to the same event.
type WithdrawalView struct {
	NetAmount uint64    `json:"net_amount"`
	Timestamp time.Time `json:"timestamp"`
}

// LedgerService provides funding and withdrawal over scholarship balances.
type LedgerService interface {
	// Fund credits amount from the investor to the scholarship and issues
	// rewards, atomically.
	Fund(ctx context.Context, id uint64, amount uint64, investor uuid.UUID) error

	// Withdraw pays out amount (net of fee) to the current owner of record.
	// A zero amount succeeds as a no-op and appends no history entry.
	Withdraw(ctx context.Context, id uint64, amount uint64, caller uuid.UUID) error

	// HasEnoughBalance reports whether the scholarship holds at least
	// amount.
	HasEnoughBalance(ctx context.Context, id uint64, amount uint64) (bool, error)

	// GetInvestors returns the scholarship's investors in first-contribution
	// order, each exactly once.
	GetInvestors(ctx context.Context, id uint64) ([]uuid.UUID, error)

	// GetInvestorContribution returns the investor's cumulative
	// contribution; zero if the investor never contributed.
	GetInvestorContribution(ctx context.Context, id uint64, investor uuid.UUID) (uint64, error)

	// GetTotalFunding returns the cumulative funded total.
	GetTotalFunding(ctx context.Context, id uint64) (uint64, error)

	// GetInvestorCount returns the number of distinct investors.
	GetInvestorCount(ctx context.Context, id uint64) (int, error)

	// GetWithdrawalHistory returns the legacy view of the withdrawal log.
	GetWithdrawalHistory(ctx context.Context, id uint64) ([]WithdrawalView, error)

	// GetDetailedWithdrawalHistory returns the full withdrawal log.
	GetDetailedWithdrawalHistory(ctx context.Context, id uint64) ([]domain.WithdrawalRecord, error)

	// GetWithdrawalFee returns the fee paid by the withdrawal at the given
	// index, or 0 for an out-of-range index.
	GetWithdrawalFee(ctx context.Context, id uint64, index int) (uint64, error)
}

type ledgerService struct {
	runner   store.Runner
	registry collab.Registry
	issuer   *RewardIssuer
	vault    collab.CurrencyVault
	logger   *slog.Logger
}

// NewLedgerService creates the funding/withdrawal service.
func NewLedgerService(
	runner store.Runner,
	registry collab.Registry,
	issuer *RewardIssuer,
	vault collab.CurrencyVault,
	log *slog.Logger,
) LedgerService {
	if runner == nil || registry == nil || issuer == nil || vault == nil {
		// ALLOW-PANIC: constructor enforcing required dependencies
		panic("ledger service dependencies cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &ledgerService{
		runner:   runner,
		registry: registry,
		issuer:   issuer,
		vault:    vault,
		logger:   log.With(slog.String("component", "ledger_service")),
	}
}

// Fund implements LedgerService.Fund. The scholarship row lock held for the
// transaction is the per-scholarship critical section; balance and freeze
// state are re-read under it, never trusted from an earlier read. Reward
// minting and the vault deposit run inside the transaction so a failure in
// either rolls back every local mutation.
func (s *ledgerService) Fund(ctx context.Context, id uint64, amount uint64, investor uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := s.runner.RunInTransaction(ctx, func(ctx context.Context, st store.Stores) error {
		sch, err := st.Scholarships.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := sch.ApplyFunding(amount); err != nil {
			return err
		}
		if err := st.Scholarships.UpdateFunding(ctx, sch); err != nil {
			return err
		}

		contribution, err := st.Contributions.Get(ctx, id, investor)
		if errors.Is(err, store.ErrContributionNotFound) {
			position, perr := st.Contributions.NextPosition(ctx, id)
			if perr != nil {
				return perr
			}
			contribution = &domain.Contribution{
				ScholarshipID: id,
				Investor:      investor,
				Position:      position,
				FirstAt:       time.Now().UTC(),
			}
		} else if err != nil {
			return err
		}
		if err := contribution.Add(amount); err != nil {
			return err
		}
		if err := st.Contributions.Upsert(ctx, contribution); err != nil {
			return err
		}

		cfg, err := st.Config.Get(ctx)
		if err != nil {
			return err
		}
		if _, err := s.issuer.Issue(ctx, investor, amount, cfg.RewardPolicy()); err != nil {
			return err
		}

		return s.vault.Deposit(ctx, investor.String(), amount)
	})
	if err != nil {
		return wrapErr("fund", err)
	}

	log.Info("scholarship funded",
		slog.Uint64("scholarship_id", id),
		slog.Uint64("amount", amount),
		slog.String("investor", investor.String()))
	return nil
}

// Withdraw implements LedgerService.Withdraw. Ownership is re-read from the
// registry inside the transaction: a record transferred since the caller
// last looked is not theirs to drain. The fee rate is likewise read live so
// each history entry carries the rate in force when it executed.
func (s *ledgerService) Withdraw(ctx context.Context, id uint64, amount uint64, caller uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := s.runner.RunInTransaction(ctx, func(ctx context.Context, st store.Stores) error {
		sch, err := st.Scholarships.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		owner, err := s.registry.OwnerOf(ctx, id)
		if err != nil {
			if errors.Is(err, collab.ErrUnknownToken) {
				return store.ErrScholarshipNotFound
			}
			return err
		}
		if caller != owner {
			return domain.ErrUnauthorized
		}
		if sch.Frozen {
			return domain.ErrFrozen
		}
		if amount > sch.Balance {
			return domain.ErrAmountExceedsBalance
		}

		// Zero is a successful no-op: no balance change, no history entry.
		if amount == 0 {
			return nil
		}

		cfg, err := st.Config.Get(ctx)
		if err != nil {
			return err
		}
		net, fee, err := domain.SplitWithdrawal(amount, cfg.FeeBps)
		if err != nil {
			return err
		}

		if err := sch.ApplyWithdrawal(amount); err != nil {
			return err
		}
		if err := st.Scholarships.UpdateWithdrawal(ctx, sch); err != nil {
			return err
		}

		index, err := st.Withdrawals.Count(ctx, id)
		if err != nil {
			return err
		}
		rec := &domain.WithdrawalRecord{
			ScholarshipID: id,
			Index:         index,
			NetAmount:     net,
			FeeAmount:     fee,
			Timestamp:     time.Now().UTC(),
		}
		if err := st.Withdrawals.Append(ctx, rec); err != nil {
			return err
		}

		if fee > 0 {
			if err := s.vault.Release(ctx, cfg.TreasuryAddress, fee); err != nil {
				return err
			}
		}
		if net > 0 {
			if err := s.vault.Release(ctx, owner.String(), net); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return wrapErr("withdraw", err)
	}

	log.Info("withdrawal executed",
		slog.Uint64("scholarship_id", id),
		slog.Uint64("amount", amount),
		slog.String("caller", caller.String()))
	return nil
}

// HasEnoughBalance implements LedgerService.HasEnoughBalance.
func (s *ledgerService) HasEnoughBalance(ctx context.Context, id uint64, amount uint64) (bool, error) {
	sch, err := s.runner.Stores().Scholarships.GetByID(ctx, id)
	if err != nil {
		return false, wrapErr("has_enough_balance", err)
	}
	return sch.HasEnoughBalance(amount), nil
}

// GetInvestors implements LedgerService.GetInvestors.
func (s *ledgerService) GetInvestors(ctx context.Context, id uint64) ([]uuid.UUID, error) {
	if err := s.requireScholarship(ctx, id); err != nil {
		return nil, err
	}
	investors, err := s.runner.Stores().Contributions.ListInvestors(ctx, id)
	return investors, wrapErr("get_investors", err)
}

// GetInvestorContribution implements LedgerService.GetInvestorContribution.
func (s *ledgerService) GetInvestorContribution(ctx context.Context, id uint64, investor uuid.UUID) (uint64, error) {
	if err := s.requireScholarship(ctx, id); err != nil {
		return 0, err
	}
	c, err := s.runner.Stores().Contributions.Get(ctx, id, investor)
	if errors.Is(err, store.ErrContributionNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, wrapErr("get_investor_contribution", err)
	}
	return c.Amount, nil
}

// GetTotalFunding implements LedgerService.GetTotalFunding.
func (s *ledgerService) GetTotalFunding(ctx context.Context, id uint64) (uint64, error) {
	sch, err := s.runner.Stores().Scholarships.GetByID(ctx, id)
	if err != nil {
		return 0, wrapErr("get_total_funding", err)
	}
	return sch.TotalFunded, nil
}

// GetInvestorCount implements LedgerService.GetInvestorCount.
func (s *ledgerService) GetInvestorCount(ctx context.Context, id uint64) (int, error) {
	if err := s.requireScholarship(ctx, id); err != nil {
		return 0, err
	}
	count, err := s.runner.Stores().Contributions.CountInvestors(ctx, id)
	return count, wrapErr("get_investor_count", err)
}

// GetWithdrawalHistory implements LedgerService.GetWithdrawalHistory.
func (s *ledgerService) GetWithdrawalHistory(ctx context.Context, id uint64) ([]WithdrawalView, error) {
	records, err := s.GetDetailedWithdrawalHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	views := make([]WithdrawalView, len(records))
	for i, rec := range records {
		views[i] = WithdrawalView{NetAmount: rec.NetAmount, Timestamp: rec.Timestamp}
	}
	return views, nil
}

// GetDetailedWithdrawalHistory implements
// LedgerService.GetDetailedWithdrawalHistory.
func (s *ledgerService) GetDetailedWithdrawalHistory(ctx context.Context, id uint64) ([]domain.WithdrawalRecord, error) {
	if err := s.requireScholarship(ctx, id); err != nil {
		return nil, err
	}
	records, err := s.runner.Stores().Withdrawals.List(ctx, id)
	return records, wrapErr("get_withdrawal_history", err)
}

// GetWithdrawalFee implements LedgerService.GetWithdrawalFee. Out-of-range
// indexes return 0 rather than an error.
func (s *ledgerService) GetWithdrawalFee(ctx context.Context, id uint64, index int) (uint64, error) {
	if err := s.requireScholarship(ctx, id); err != nil {
		return 0, err
	}
	rec, err := s.runner.Stores().Withdrawals.GetByIndex(ctx, id, index)
	if errors.Is(err, store.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, wrapErr("get_withdrawal_fee", err)
	}
	return rec.FeeAmount, nil
}

func (s *ledgerService) requireScholarship(ctx context.Context, id uint64) error {
	_, err := s.runner.Stores().Scholarships.GetByID(ctx, id)
	return wrapErr("get_scholarship", err)
}
