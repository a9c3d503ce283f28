package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarfund/scholarfund-api/internal/domain"
	"github.com/scholarfund/scholarfund-api/internal/store"
)

func TestFund_CreditsBalanceAndIssuesRewards(t *testing.T) {
	f := newFixture(t)
	id, _ := f.create(t, "ipfs://scholarship-1")
	investor := uuid.New()

	require.NoError(t, f.ledger.Fund(f.ctx, id, 1000, investor))

	data, err := f.scholarships.GetScholarshipData(f.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), data.Balance)

	total, err := f.ledger.GetTotalFunding(f.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), total)

	investors, err := f.ledger.GetInvestors(f.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{investor}, investors)

	contribution, err := f.ledger.GetInvestorContribution(f.ctx, id, investor)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), contribution)

	// 1000 currency minor units at the 1:1 default rate convert to
	// 1000 * 10^(18-6) reward minor units.
	reward, err := f.token.BalanceOf(f.ctx, investor)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000)*1_000_000_000_000, reward)

	assert.Equal(t, uint64(1000), f.vault.Held())
}

func TestFund_ZeroAmountRejected(t *testing.T) {
	f := newFixture(t)
	id, _ := f.create(t, "meta")

	err := f.ledger.Fund(f.ctx, id, 0, uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrZeroAmount)
	assert.True(t, domain.IsInvalidAmount(err))
}

func TestFund_UnknownScholarship(t *testing.T) {
	f := newFixture(t)

	err := f.ledger.Fund(f.ctx, 42, 100, uuid.New())
	assert.ErrorIs(t, err, store.ErrScholarshipNotFound)
}

func TestFund_RepeatInvestorKeepsSingleEntry(t *testing.T) {
	f := newFixture(t)
	id, _ := f.create(t, "meta")
	investor := uuid.New()

	require.NoError(t, f.ledger.Fund(f.ctx, id, 400, investor))
	require.NoError(t, f.ledger.Fund(f.ctx, id, 600, investor))

	investors, err := f.ledger.GetInvestors(f.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{investor}, investors)

	count, err := f.ledger.GetInvestorCount(f.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	contribution, err := f.ledger.GetInvestorContribution(f.ctx, id, investor)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), contribution)
}

func TestFund_InvestorOrderIsFirstContribution(t *testing.T) {
	f := newFixture(t)
	id, _ := f.create(t, "meta")
	first := uuid.New()
	second := uuid.New()

	require.NoError(t, f.ledger.Fund(f.ctx, id, 10, first))
	require.NoError(t, f.ledger.Fund(f.ctx, id, 20, second))
	require.NoError(t, f.ledger.Fund(f.ctx, id, 30, first))

	investors, err := f.ledger.GetInvestors(f.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{first, second}, investors)
}

func TestFund_MintFailureRollsBackEverything(t *testing.T) {
	f := newFixture(t)
	id, _ := f.create(t, "meta")
	investor := uuid.New()

	f.token.MintErr = errors.New("reward token unavailable")
	err := f.ledger.Fund(f.ctx, id, 500, investor)
	require.Error(t, err)

	data, derr := f.scholarships.GetScholarshipData(f.ctx, id)
	require.NoError(t, derr)
	assert.Zero(t, data.Balance)

	investors, ierr := f.ledger.GetInvestors(f.ctx, id)
	require.NoError(t, ierr)
	assert.Empty(t, investors)

	assert.Zero(t, f.vault.Held())

	// Recovery: once the collaborator is healthy the same funding goes
	// through.
	f.token.MintErr = nil
	require.NoError(t, f.ledger.Fund(f.ctx, id, 500, investor))
}

func TestWithdraw_SplitsFeeAndPaysOwner(t *testing.T) {
	f := newFixture(t)
	id, owner := f.create(t, "meta")
	require.NoError(t, f.ledger.Fund(f.ctx, id, 1000, uuid.New()))

	require.NoError(t, f.ledger.Withdraw(f.ctx, id, 300, owner))

	data, err := f.scholarships.GetScholarshipData(f.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, uint64(700), data.Balance)

	detailed, err := f.ledger.GetDetailedWithdrawalHistory(f.ctx, id)
	require.NoError(t, err)
	require.Len(t, detailed, 1)
	assert.Equal(t, 0, detailed[0].Index)
	assert.Equal(t, uint64(297), detailed[0].NetAmount)
	assert.Equal(t, uint64(3), detailed[0].FeeAmount)
	assert.Equal(t, uint64(300), detailed[0].Gross())

	legacy, err := f.ledger.GetWithdrawalHistory(f.ctx, id)
	require.NoError(t, err)
	require.Len(t, legacy, 1)
	assert.Equal(t, uint64(297), legacy[0].NetAmount)
	assert.Equal(t, detailed[0].Timestamp, legacy[0].Timestamp)

	fee, err := f.ledger.GetWithdrawalFee(f.ctx, id, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), fee)

	ownerPaid, err := f.vault.BalanceOf(f.ctx, owner.String())
	require.NoError(t, err)
	assert.Equal(t, uint64(297), ownerPaid)

	treasuryPaid, err := f.vault.BalanceOf(f.ctx, "treasury")
	require.NoError(t, err)
	assert.Equal(t, uint64(3), treasuryPaid)

	assert.Equal(t, uint64(700), f.vault.Held())
}

func TestWithdraw_ZeroAmountNoOp(t *testing.T) {
	f := newFixture(t)
	id, owner := f.create(t, "meta")
	require.NoError(t, f.ledger.Fund(f.ctx, id, 100, uuid.New()))

	require.NoError(t, f.ledger.Withdraw(f.ctx, id, 0, owner))

	data, err := f.scholarships.GetScholarshipData(f.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), data.Balance)

	history, err := f.ledger.GetWithdrawalHistory(f.ctx, id)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestWithdraw_NonOwnerRejected(t *testing.T) {
	f := newFixture(t)
	id, _ := f.create(t, "meta")
	require.NoError(t, f.ledger.Fund(f.ctx, id, 100, uuid.New()))

	err := f.ledger.Withdraw(f.ctx, id, 50, uuid.New())
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestWithdraw_AmountExceedsBalance(t *testing.T) {
	f := newFixture(t)
	id, owner := f.create(t, "meta")
	require.NoError(t, f.ledger.Fund(f.ctx, id, 100, uuid.New()))

	err := f.ledger.Withdraw(f.ctx, id, 101, owner)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAmountExceedsBalance)
	assert.True(t, domain.IsInvalidAmount(err))

	history, herr := f.ledger.GetWithdrawalHistory(f.ctx, id)
	require.NoError(t, herr)
	assert.Empty(t, history)
}

func TestWithdraw_OwnershipReadLive(t *testing.T) {
	f := newFixture(t)
	id, original := f.create(t, "meta")
	require.NoError(t, f.ledger.Fund(f.ctx, id, 1000, uuid.New()))

	next := uuid.New()
	require.NoError(t, f.registry.Transfer(f.ctx, id, next))

	// The original owner's claim died with the transfer.
	err := f.ledger.Withdraw(f.ctx, id, 100, original)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	require.NoError(t, f.ledger.Withdraw(f.ctx, id, 100, next))

	paid, err := f.vault.BalanceOf(f.ctx, next.String())
	require.NoError(t, err)
	assert.Equal(t, uint64(99), paid)
}

func TestWithdrawalFee_OutOfRangeIndexIsZero(t *testing.T) {
	f := newFixture(t)
	id, owner := f.create(t, "meta")
	require.NoError(t, f.ledger.Fund(f.ctx, id, 1000, uuid.New()))
	require.NoError(t, f.ledger.Withdraw(f.ctx, id, 300, owner))

	fee, err := f.ledger.GetWithdrawalFee(f.ctx, id, 5)
	require.NoError(t, err)
	assert.Zero(t, fee)

	fee, err = f.ledger.GetWithdrawalFee(f.ctx, id, -1)
	require.NoError(t, err)
	assert.Zero(t, fee)
}

func TestWithdrawalHistory_ViewsStayIndexAligned(t *testing.T) {
	f := newFixture(t)
	id, owner := f.create(t, "meta")
	require.NoError(t, f.ledger.Fund(f.ctx, id, 10_000, uuid.New()))

	for _, amount := range []uint64{1000, 2000, 3000} {
		require.NoError(t, f.ledger.Withdraw(f.ctx, id, amount, owner))
	}

	legacy, err := f.ledger.GetWithdrawalHistory(f.ctx, id)
	require.NoError(t, err)
	detailed, err := f.ledger.GetDetailedWithdrawalHistory(f.ctx, id)
	require.NoError(t, err)

	require.Len(t, legacy, 3)
	require.Len(t, detailed, 3)
	for i := range detailed {
		assert.Equal(t, i, detailed[i].Index)
		assert.Equal(t, detailed[i].NetAmount, legacy[i].NetAmount)
		assert.Equal(t, detailed[i].Timestamp, legacy[i].Timestamp)

		fee, ferr := f.ledger.GetWithdrawalFee(f.ctx, id, i)
		require.NoError(t, ferr)
		assert.Equal(t, detailed[i].FeeAmount, fee)
	}
}

func TestHasEnoughBalance(t *testing.T) {
	f := newFixture(t)
	id, _ := f.create(t, "meta")
	require.NoError(t, f.ledger.Fund(f.ctx, id, 500, uuid.New()))

	ok, err := f.ledger.HasEnoughBalance(f.ctx, id, 500)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.ledger.HasEnoughBalance(f.ctx, id, 501)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetInvestorContribution_NeverContributedIsZero(t *testing.T) {
	f := newFixture(t)
	id, _ := f.create(t, "meta")

	amount, err := f.ledger.GetInvestorContribution(f.ctx, id, uuid.New())
	require.NoError(t, err)
	assert.Zero(t, amount)
}

func TestLedgerQueries_UnknownScholarship(t *testing.T) {
	f := newFixture(t)

	_, err := f.ledger.GetInvestors(f.ctx, 9)
	assert.ErrorIs(t, err, store.ErrScholarshipNotFound)

	_, err = f.ledger.GetWithdrawalHistory(f.ctx, 9)
	assert.ErrorIs(t, err, store.ErrScholarshipNotFound)

	_, err = f.ledger.GetWithdrawalFee(f.ctx, 9, 0)
	assert.ErrorIs(t, err, store.ErrScholarshipNotFound)
}

// The ledger accounting identities must survive any interleaving of funding
// and withdrawals.
func TestLedgerInvariants_AfterMixedTraffic(t *testing.T) {
	f := newFixture(t)
	id, owner := f.create(t, "meta")
	a, b := uuid.New(), uuid.New()

	require.NoError(t, f.ledger.Fund(f.ctx, id, 1000, a))
	require.NoError(t, f.ledger.Fund(f.ctx, id, 2500, b))
	require.NoError(t, f.ledger.Withdraw(f.ctx, id, 700, owner))
	require.NoError(t, f.ledger.Fund(f.ctx, id, 300, a))
	require.NoError(t, f.ledger.Withdraw(f.ctx, id, 1100, owner))

	data, err := f.scholarships.GetScholarshipData(f.ctx, id)
	require.NoError(t, err)
	total, err := f.ledger.GetTotalFunding(f.ctx, id)
	require.NoError(t, err)

	assert.Equal(t, uint64(3800), total)
	assert.Equal(t, uint64(3800-700-1100), data.Balance)

	ca, err := f.ledger.GetInvestorContribution(f.ctx, id, a)
	require.NoError(t, err)
	cb, err := f.ledger.GetInvestorContribution(f.ctx, id, b)
	require.NoError(t, err)
	assert.Equal(t, total, ca+cb)

	detailed, err := f.ledger.GetDetailedWithdrawalHistory(f.ctx, id)
	require.NoError(t, err)
	var gross uint64
	for _, rec := range detailed {
		gross += rec.Gross()
	}
	assert.Equal(t, uint64(1800), gross)
	assert.Equal(t, data.Balance, f.vault.Held())
}
