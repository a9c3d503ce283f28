package collab

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRegistry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := NewMemoryRegistry()
	alice := uuid.New()
	bob := uuid.New()

	t.Run("ids are dense sequential 1-based", func(t *testing.T) {
		id1, err := r.MintToken(ctx, alice, "ipfs://Qm1")
		require.NoError(t, err)
		id2, err := r.MintToken(ctx, alice, "ipfs://Qm2")
		require.NoError(t, err)
		assert.Equal(t, uint64(1), id1)
		assert.Equal(t, uint64(2), id2)
	})

	t.Run("metadata round-trips unchanged", func(t *testing.T) {
		meta, err := r.MetadataOf(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "ipfs://Qm1", meta)
	})

	t.Run("transfer changes the live owner", func(t *testing.T) {
		require.NoError(t, r.Transfer(ctx, 1, bob))
		owner, err := r.OwnerOf(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, bob, owner)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := r.OwnerOf(ctx, 99)
		assert.ErrorIs(t, err, ErrUnknownToken)
		_, err = r.MetadataOf(ctx, 99)
		assert.ErrorIs(t, err, ErrUnknownToken)
		assert.ErrorIs(t, r.Transfer(ctx, 99, bob), ErrUnknownToken)
	})
}

func TestMemoryRewardToken(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tok := NewMemoryRewardToken()
	holder := uuid.New()

	require.NoError(t, tok.Mint(ctx, holder, 100))
	require.NoError(t, tok.Mint(ctx, holder, 50))

	balance, err := tok.BalanceOf(ctx, holder)
	require.NoError(t, err)
	assert.Equal(t, uint64(150), balance)

	assert.NoError(t, tok.RequireBalance(ctx, holder, 150))
	assert.ErrorIs(t, tok.RequireBalance(ctx, holder, 151), ErrInsufficientRewardBalance)
	assert.ErrorIs(t, tok.RequireBalance(ctx, uuid.New(), 1), ErrInsufficientRewardBalance)
}

func TestMemoryVault(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	v := NewMemoryVault()

	require.NoError(t, v.Deposit(ctx, "investor-x", 1000))
	assert.Equal(t, uint64(1000), v.Held())

	require.NoError(t, v.Release(ctx, "owner-1", 297))
	require.NoError(t, v.Release(ctx, "treasury", 3))
	assert.Equal(t, uint64(700), v.Held())

	owner, err := v.BalanceOf(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(297), owner)

	treasury, err := v.BalanceOf(ctx, "treasury")
	require.NoError(t, err)
	assert.Equal(t, uint64(3), treasury)

	assert.ErrorIs(t, v.Release(ctx, "owner-1", 701), ErrInsufficientFunds)
}
