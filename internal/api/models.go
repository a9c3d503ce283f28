package api

import (
	"time"

	"github.com/google/uuid"
)

// Common request/response structures

// TokenRequest defines the payload for the token issuance endpoint. A user
// token needs no credentials; an admin token requires the admin password.
type TokenRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
	// Subject is the principal to issue the token for. Omitted, a fresh
	// identity is minted.
	Subject  *uuid.UUID `json:"subject,omitempty"`
	Password string     `json:"password,omitempty"`
}

// TokenResponse defines the successful response for the token endpoint.
type TokenResponse struct {
	Subject     uuid.UUID `json:"subject"`
	AccessToken string    `json:"token"`
	ExpiresAt   string    `json:"expires_at"`
}

// CreateScholarshipRequest defines the payload for opening a scholarship.
type CreateScholarshipRequest struct {
	Metadata string `json:"metadata" validate:"required"`
}

// CreateScholarshipResponse carries the id of the newly opened scholarship.
type CreateScholarshipResponse struct {
	ID uint64 `json:"id"`
}

// ScholarshipResponse is the composite view of one scholarship.
type ScholarshipResponse struct {
	ID       uint64    `json:"id"`
	Owner    uuid.UUID `json:"owner"`
	Metadata string    `json:"metadata"`
	Balance  uint64    `json:"balance"`
	Frozen   bool      `json:"frozen"`
}

// FundRequest defines the payload for funding a scholarship. Amount bounds
// are enforced by the ledger, not the decoder, so a zero amount reports the
// ledger's own rejection.
type FundRequest struct {
	Amount uint64 `json:"amount"`
}

// WithdrawRequest defines the payload for withdrawing from a scholarship.
// Zero is legal and is a no-op.
type WithdrawRequest struct {
	Amount uint64 `json:"amount"`
}

// RateRequest defines the payload for rating a scholarship.
type RateRequest struct {
	Score  uint64 `json:"score" validate:"lte=10"`
	Weight uint64 `json:"weight" validate:"required"`
}

// IDListResponse carries an ordered list of scholarship ids.
type IDListResponse struct {
	IDs []uint64 `json:"ids"`
}

// InvestorsResponse carries a scholarship's investors in first-contribution
// order.
type InvestorsResponse struct {
	Investors []uuid.UUID `json:"investors"`
}

// AmountResponse carries a single monetary amount.
type AmountResponse struct {
	Amount uint64 `json:"amount"`
}

// CountResponse carries a single count.
type CountResponse struct {
	Count int `json:"count"`
}

// BalanceCheckResponse reports whether a balance covers a requested amount.
type BalanceCheckResponse struct {
	Sufficient bool `json:"sufficient"`
}

// WithdrawalEntry is one entry of the legacy withdrawal history view.
type WithdrawalEntry struct {
	NetAmount uint64    `json:"net_amount"`
	Timestamp time.Time `json:"timestamp"`
}

// DetailedWithdrawalEntry is one entry of the detailed withdrawal history
// view. Indexes align with the legacy view.
type DetailedWithdrawalEntry struct {
	Index     int       `json:"index"`
	NetAmount uint64    `json:"net_amount"`
	FeeAmount uint64    `json:"fee_amount"`
	Timestamp time.Time `json:"timestamp"`
}

// WithdrawalHistoryResponse carries the legacy withdrawal history.
type WithdrawalHistoryResponse struct {
	Withdrawals []WithdrawalEntry `json:"withdrawals"`
}

// DetailedWithdrawalHistoryResponse carries the detailed withdrawal history.
type DetailedWithdrawalHistoryResponse struct {
	Withdrawals []DetailedWithdrawalEntry `json:"withdrawals"`
}

// FeeResponse carries the fee paid by a single withdrawal.
type FeeResponse struct {
	Fee uint64 `json:"fee"`
}

// ScoreResponse carries a weighted average score at 2-decimal fixed point.
type ScoreResponse struct {
	Score uint64 `json:"score"`
}

// RatingTokensResponse carries the cumulative rating stake for a
// scholarship.
type RatingTokensResponse struct {
	Tokens uint64 `json:"tokens"`
}

// FrozenResponse carries a freeze flag.
type FrozenResponse struct {
	Frozen bool `json:"frozen"`
}

// RankedScholarshipEntry is one row of the top-rated listing.
type RankedScholarshipEntry struct {
	ID    uint64 `json:"id"`
	Score uint64 `json:"score"`
}

// TopRatedResponse carries the top-rated listing, best first.
type TopRatedResponse struct {
	Scholarships []RankedScholarshipEntry `json:"scholarships"`
}

// SetFrozenRequest defines the payload for the administrative freeze
// override.
type SetFrozenRequest struct {
	Frozen *bool `json:"frozen" validate:"required"`
}

// SetFeeRequest defines the payload for changing the withdrawal fee rate.
type SetFeeRequest struct {
	FeeBps *uint64 `json:"fee_bps" validate:"required"`
}

// SetRewardRateRequest defines the payload for changing the reward issuance
// rate.
type SetRewardRateRequest struct {
	RatePerUnit *uint64 `json:"rate_per_unit" validate:"required"`
}

// SetCollaboratorsRequest defines the payload for rotating the collaborator
// addresses. All four change together.
type SetCollaboratorsRequest struct {
	TreasuryAddress    string `json:"treasury_address" validate:"required"`
	RegistryAddress    string `json:"registry_address" validate:"required"`
	RewardTokenAddress string `json:"reward_token_address" validate:"required"`
	VaultAddress       string `json:"vault_address" validate:"required"`
}

// ConfigResponse is the protocol configuration view.
type ConfigResponse struct {
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
