package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRewardPolicy(t *testing.T) {
	t.Parallel()

	t.Run("default policy is 1:1 across precisions", func(t *testing.T) {
		t.Parallel()

		p := DefaultRewardPolicy()
		// 1000 currency minor units (6 decimals) -> 1000 * 10^12 reward
		// minor units (18 decimals): the same value at reward precision.
		reward, err := p.Reward(1000)
		require.NoError(t, err)
		assert.Equal(t, uint64(1000)*1_000_000_000_000, reward)
	})

	t.Run("half rate truncates toward zero", func(t *testing.T) {
		t.Parallel()

		p := RewardPolicy{
			RatePerUnit:      5, // 5 reward minor units per whole currency unit
			CurrencyDecimals: 2,
			RewardDecimals:   2,
		}
		// reward = 33 * 10^0 * 5 / 10^2 = 1.65 -> 1
		reward, err := p.Reward(33)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), reward)
	})

	t.Run("zero rate issues nothing", func(t *testing.T) {
		t.Parallel()

		p := DefaultRewardPolicy()
		p.RatePerUnit = 0
		reward, err := p.Reward(1_000_000)
		require.NoError(t, err)
		assert.Zero(t, reward)
	})

	t.Run("result outside uint64 fails", func(t *testing.T) {
		t.Parallel()

		p := DefaultRewardPolicy()
		_, err := p.Reward(math.MaxUint64)
		assert.ErrorIs(t, err, ErrArithmeticOverflow)
	})

	t.Run("reward precision below currency precision rejected", func(t *testing.T) {
		t.Parallel()

		p := RewardPolicy{RatePerUnit: 1, CurrencyDecimals: 6, RewardDecimals: 2}
		_, err := p.Reward(100)
		assert.ErrorIs(t, err, ErrConfigurationInvalid)
	})
}

func TestCheckedArithmetic(t *testing.T) {
	t.Parallel()

	t.Run("add overflow", func(t *testing.T) {
		t.Parallel()

		sum, err := CheckedAdd(math.MaxUint64-1, 1)
		require.NoError(t, err)
		assert.Equal(t, uint64(math.MaxUint64), sum)

		_, err = CheckedAdd(math.MaxUint64, 1)
		assert.ErrorIs(t, err, ErrArithmeticOverflow)
	})

	t.Run("mul overflow", func(t *testing.T) {
		t.Parallel()

		prod, err := CheckedMul(1<<32, 1<<31)
		require.NoError(t, err)
		assert.Equal(t, uint64(1)<<63, prod)

		_, err = CheckedMul(1<<32, 1<<32)
		assert.ErrorIs(t, err, ErrArithmeticOverflow)
	})
}

func TestProtocolConfigValidate(t *testing.T) {
	t.Parallel()

	valid := func() *ProtocolConfig {
		return &ProtocolConfig{
			FeeBps:             100,
			RewardRatePerUnit:  pow10(DefaultRewardDecimals),
			CurrencyDecimals:   DefaultCurrencyDecimals,
			RewardDecimals:     DefaultRewardDecimals,
			TreasuryAddress:    "treasury-1",
			RegistryAddress:    "registry-1",
			RewardTokenAddress: "token-1",
			VaultAddress:       "vault-1",
		}
	}

	t.Run("valid config passes", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, valid().Validate())
	})

	t.Run("fee above cap rejected at the setter", func(t *testing.T) {
		t.Parallel()

		cfg := valid()
		err := cfg.SetFeeBps(MaxFeeBps + 1)
		assert.ErrorIs(t, err, ErrFeeTooHigh)
		assert.ErrorIs(t, err, ErrConfigurationInvalid)
		assert.Equal(t, uint64(100), cfg.FeeBps, "rejected setter must not change the value")
	})

	t.Run("fee exactly at cap accepted", func(t *testing.T) {
		t.Parallel()

		cfg := valid()
		require.NoError(t, cfg.SetFeeBps(MaxFeeBps))
		assert.Equal(t, uint64(MaxFeeBps), cfg.FeeBps)
	})

	t.Run("zero-value collaborator address rejected as a unit", func(t *testing.T) {
		t.Parallel()

		cfg := valid()
		err := cfg.SetCollaborators("treasury-2", "", "token-2", "vault-2")
		assert.ErrorIs(t, err, ErrZeroAddress)
		assert.Equal(t, "treasury-1", cfg.TreasuryAddress)
		assert.Equal(t, "registry-1", cfg.RegistryAddress)
	})
}
