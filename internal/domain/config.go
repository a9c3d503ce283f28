package domain

import "time"

// ProtocolConfig is the single mutable configuration record the ledger
// consumes: the withdrawal fee rate, the reward issuance rate, and the
// collaborator addresses. Only the authorized administrative principal may
// change it, and every change is validated at the setter.
type ProtocolConfig struct {
	FeeBps             uint64    `json:"fee_bps"`
	RewardRatePerUnit  uint64    `json:"reward_rate_per_unit"`
	CurrencyDecimals   uint8     `json:"currency_decimals"`
	RewardDecimals     uint8     `json:"reward_decimals"`
	TreasuryAddress    string    `json:"treasury_address"`
	RegistryAddress    string    `json:"registry_address"`
	RewardTokenAddress string    `json:"reward_token_address"`
	VaultAddress       string    `json:"vault_address"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Validate checks the whole record. Used when loading and by the setters
// before persisting a change.
func (c *ProtocolConfig) Validate() error {
	if c.FeeBps > MaxFeeBps {
		return ErrFeeTooHigh
	}
	if c.TreasuryAddress == "" || c.RegistryAddress == "" ||
		c.RewardTokenAddress == "" || c.VaultAddress == "" {
		return ErrZeroAddress
	}
	if c.RewardDecimals < c.CurrencyDecimals {
		return ErrConfigurationInvalid
	}
	return nil
}

// RewardPolicy returns the reward conversion policy implied by the current
// configuration.
func (c *ProtocolConfig) RewardPolicy() RewardPolicy {
	return RewardPolicy{
		RatePerUnit:      c.RewardRatePerUnit,
		CurrencyDecimals: c.CurrencyDecimals,
		RewardDecimals:   c.RewardDecimals,
	}
}

// SetFeeBps validates and applies a new fee rate. The cap is enforced here so
// fee <= gross holds for every later withdrawal without re-checking.
func (c *ProtocolConfig) SetFeeBps(feeBps uint64) error {
	if feeBps > MaxFeeBps {
		return ErrFeeTooHigh
	}
	c.FeeBps = feeBps
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// SetRewardRate applies a new reward issuance rate. A zero rate is legal and
// simply stops issuance.
func (c *ProtocolConfig) SetRewardRate(ratePerUnit uint64) error {
	c.RewardRatePerUnit = ratePerUnit
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// SetCollaborators validates and applies new collaborator addresses.
// Zero-value addresses are rejected as a unit; either all four are applied or
// none.
func (c *ProtocolConfig) SetCollaborators(treasury, registry, rewardToken, vault string) error {
	if treasury == "" || registry == "" || rewardToken == "" || vault == "" {
		return ErrZeroAddress
	}
	c.TreasuryAddress = treasury
	c.RegistryAddress = registry
	c.RewardTokenAddress = rewardToken
	c.VaultAddress = vault
	c.UpdatedAt = time.Now().UTC()
	return nil
}
