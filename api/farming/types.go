// Copyright (c) 2025 The Harvest developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farming

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	engine "github.com/harvestlabs/harvest/farming"
	"github.com/harvestlabs/harvest/hvs"
)

// Config is the parameter set in transport form.
type Config struct {
	FarmingAsset           hvs.AssetID           `json:"farmingAsset"`
	RewardAsset            hvs.AssetID           `json:"rewardAsset"`
	MinStakeAmount         *math.HexOrDecimal256 `json:"minStakeAmount"`
	RewardRatePerBlock     *math.HexOrDecimal256 `json:"rewardRatePerBlock"`
	MinClaimAmount         *math.HexOrDecimal256 `json:"minClaimAmount"`
	ClaimCooldown          uint64                `json:"claimCooldown"`
	EarlyUnstakeWindow     uint64                `json:"earlyUnstakeWindow"`
	EarlyUnstakePenaltyBps uint64                `json:"earlyUnstakePenaltyBps"`
	Paused                 bool                  `json:"paused"`
}

func convertConfig(cfg *engine.Config, paused bool) *Config {
	return &Config{
		FarmingAsset:           cfg.FarmingAsset,
		RewardAsset:            cfg.RewardAsset,
		MinStakeAmount:         (*math.HexOrDecimal256)(cfg.MinStakeAmount),
		RewardRatePerBlock:     (*math.HexOrDecimal256)(cfg.RewardRatePerBlock),
		MinClaimAmount:         (*math.HexOrDecimal256)(cfg.MinClaimAmount),
		ClaimCooldown:          cfg.ClaimCooldown,
		EarlyUnstakeWindow:     cfg.EarlyUnstakeWindow,
		EarlyUnstakePenaltyBps: cfg.EarlyUnstakePenaltyBps,
		Paused:                 paused,
	}
}

// Totals is the pool-wide view.
type Totals struct {
	TotalStaked         *math.HexOrDecimal256 `json:"totalStaked"`
	RewardPerUnitStored *math.HexOrDecimal256 `json:"rewardPerUnitStored"`
	LastUpdateTime      uint64                `json:"lastUpdateTime"`
}

// Account is a user's ledger record plus derived views.
type Account struct {
	Balance           *math.HexOrDecimal256 `json:"balance"`
	PendingReward     *math.HexOrDecimal256 `json:"pendingReward"`
	RewardPerUnitPaid *math.HexOrDecimal256 `json:"rewardPerUnitPaid"`
	Earned            *math.HexOrDecimal256 `json:"earned"`
	RewardAPR         *math.HexOrDecimal256 `json:"rewardAPR"`
	LastStakeTime     uint64                `json:"lastStakeTime"`
	LastClaimTime     uint64                `json:"lastClaimTime"`
}

// StakeRequest deposits a stake for the caller.
type StakeRequest struct {
	Caller hvs.Address           `json:"caller"`
	Asset  hvs.AssetID           `json:"asset"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

// UnstakeRequest withdraws stake. A missing amount means the full balance.
type UnstakeRequest struct {
	Caller hvs.Address           `json:"caller"`
	Amount *math.HexOrDecimal256 `json:"amount,omitempty"`
}

// ClaimRequest pays out the caller's pending reward.
type ClaimRequest struct {
	Caller hvs.Address `json:"caller"`
}

// PayoutResponse reports the amount transferred by unstake or claim.
type PayoutResponse struct {
	Amount *math.HexOrDecimal256 `json:"amount"`
}

func optionalBig(v *math.HexOrDecimal256) *big.Int {
	if v == nil {
		return nil
	}
	return (*big.Int)(v)
}
