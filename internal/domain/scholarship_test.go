package domain

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScholarship(t *testing.T) {
	t.Parallel()

	owner := uuid.New()

	t.Run("valid scholarship", func(t *testing.T) {
		t.Parallel()

		s, err := NewScholarship(1, owner, "ipfs://Qm1")
		require.NoError(t, err)
		assert.Equal(t, uint64(1), s.ID)
		assert.Equal(t, owner, s.Owner)
		assert.Equal(t, "ipfs://Qm1", s.Metadata)
		assert.Zero(t, s.Balance)
		assert.Zero(t, s.TotalFunded)
		assert.Zero(t, s.TotalWithdrawn)
		assert.False(t, s.Frozen, "a new scholarship must start Active")
		assert.False(t, s.CreatedAt.IsZero())
	})

	t.Run("empty metadata rejected", func(t *testing.T) {
		t.Parallel()

		_, err := NewScholarship(1, owner, "")
		assert.ErrorIs(t, err, ErrMetadataEmpty)
	})

	t.Run("nil owner rejected", func(t *testing.T) {
		t.Parallel()

		_, err := NewScholarship(1, uuid.Nil, "ipfs://Qm1")
		assert.ErrorIs(t, err, ErrOwnerEmpty)
	})
}

func TestApplyFunding(t *testing.T) {
	t.Parallel()

	newActive := func() *Scholarship {
		s, err := NewScholarship(1, uuid.New(), "ipfs://Qm1")
		require.NoError(t, err)
		return s
	}

	t.Run("credits balance and cumulative total", func(t *testing.T) {
		t.Parallel()

		s := newActive()
		require.NoError(t, s.ApplyFunding(1000))
		require.NoError(t, s.ApplyFunding(500))

		assert.Equal(t, uint64(1500), s.Balance)
		assert.Equal(t, uint64(1500), s.TotalFunded)
		assert.Equal(t, s.TotalFunded-s.TotalWithdrawn, s.Balance)
	})

	t.Run("zero amount is an error", func(t *testing.T) {
		t.Parallel()

		s := newActive()
		err := s.ApplyFunding(0)
		assert.ErrorIs(t, err, ErrZeroAmount)
		assert.ErrorIs(t, err, ErrInvalidAmount)
		assert.Zero(t, s.Balance)
	})

	t.Run("frozen scholarship rejects funding", func(t *testing.T) {
		t.Parallel()

		s := newActive()
		s.Frozen = true
		assert.ErrorIs(t, s.ApplyFunding(100), ErrFrozen)
	})

	t.Run("overflow leaves both fields untouched", func(t *testing.T) {
		t.Parallel()

		s := newActive()
		require.NoError(t, s.ApplyFunding(math.MaxUint64-10))
		require.NoError(t, s.ApplyWithdrawal(5))

		// Balance would still fit, TotalFunded would not.
		err := s.ApplyFunding(11)
		assert.ErrorIs(t, err, ErrArithmeticOverflow)
		assert.Equal(t, uint64(math.MaxUint64-15), s.Balance)
		assert.Equal(t, uint64(math.MaxUint64-10), s.TotalFunded)
	})
}

func TestApplyWithdrawal(t *testing.T) {
	t.Parallel()

	funded := func(amount uint64) *Scholarship {
		s, err := NewScholarship(1, uuid.New(), "ipfs://Qm1")
		require.NoError(t, err)
		require.NoError(t, s.ApplyFunding(amount))
		return s
	}

	t.Run("debits balance and credits withdrawn total", func(t *testing.T) {
		t.Parallel()

		s := funded(1000)
		require.NoError(t, s.ApplyWithdrawal(300))

		assert.Equal(t, uint64(700), s.Balance)
		assert.Equal(t, uint64(300), s.TotalWithdrawn)
		assert.Equal(t, s.TotalFunded-s.TotalWithdrawn, s.Balance)
	})

	t.Run("amount above balance rejected", func(t *testing.T) {
		t.Parallel()

		s := funded(1000)
		err := s.ApplyWithdrawal(1001)
		assert.ErrorIs(t, err, ErrAmountExceedsBalance)
		assert.Equal(t, uint64(1000), s.Balance)
	})

	t.Run("frozen scholarship rejects withdrawal", func(t *testing.T) {
		t.Parallel()

		s := funded(1000)
		s.Frozen = true
		assert.ErrorIs(t, s.ApplyWithdrawal(100), ErrFrozen)
	})

	t.Run("zero amount succeeds as a no-op at this level", func(t *testing.T) {
		t.Parallel()

		s := funded(1000)
		require.NoError(t, s.ApplyWithdrawal(0))
		assert.Equal(t, uint64(1000), s.Balance)
		assert.Zero(t, s.TotalWithdrawn)
	})
}

func TestHasEnoughBalance(t *testing.T) {
	t.Parallel()

	s, err := NewScholarship(1, uuid.New(), "ipfs://Qm1")
	require.NoError(t, err)
	require.NoError(t, s.ApplyFunding(500))

	assert.True(t, s.HasEnoughBalance(500))
	assert.True(t, s.HasEnoughBalance(0))
	assert.False(t, s.HasEnoughBalance(501))
}
