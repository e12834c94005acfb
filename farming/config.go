// Copyright (c) 2025 The Harvest developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farming

import (
	"math/big"

	"github.com/harvestlabs/harvest/hvs"
)

// Initialize writes the validated parameter set and marks the contract
// live. It fails on a second call.
func (f *Farming) Initialize(cfg *Config) error {
	if f.Initialized() {
		return ErrAlreadyInitialized
	}
	if err := cfg.validate(); err != nil {
		return err
	}

	f.setStorage(slotFarmingAsset, cfg.FarmingAsset)
	f.setStorage(slotRewardAsset, cfg.RewardAsset)
	f.setStorage(slotMinStake, cfg.MinStakeAmount)
	f.setStorage(slotRewardRate, cfg.RewardRatePerBlock)
	f.setStorage(slotMinClaim, cfg.MinClaimAmount)
	f.setStorage(slotClaimCooldown, cfg.ClaimCooldown)
	f.setStorage(slotUnstakeWindow, cfg.EarlyUnstakeWindow)
	f.setStorage(slotUnstakePenalty, cfg.EarlyUnstakePenaltyBps)
	f.setStorage(slotPaused, false)
	f.setStorage(slotInitialized, true)
	return nil
}

// Initialized reports whether Initialize has run.
func (f *Farming) Initialized() bool {
	return f.getBool(slotInitialized)
}

//
// Administrative setters. Single-field updates, no cross-field
// validation beyond identifier well-formedness. Owner gating is the
// runtime's concern.
//

func (f *Farming) SetFarmingAsset(id hvs.AssetID) error {
	if !id.Valid() {
		return ErrInvalidAssetID
	}
	f.setStorage(slotFarmingAsset, id)
	return nil
}

func (f *Farming) SetRewardAsset(id hvs.AssetID) error {
	if !id.Valid() {
		return ErrInvalidAssetID
	}
	f.setStorage(slotRewardAsset, id)
	return nil
}

func (f *Farming) SetMinStakeAmount(amount *big.Int) error {
	if amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	f.setStorage(slotMinStake, amount)
	return nil
}

func (f *Farming) SetRewardRatePerBlock(rate *big.Int) error {
	if rate.Sign() < 0 {
		return ErrNegativeAmount
	}
	f.setStorage(slotRewardRate, rate)
	return nil
}

func (f *Farming) SetMinClaimAmount(amount *big.Int) error {
	if amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	f.setStorage(slotMinClaim, amount)
	return nil
}

func (f *Farming) SetClaimCooldown(seconds uint64) {
	f.setStorage(slotClaimCooldown, seconds)
}

func (f *Farming) SetEarlyUnstakeWindow(seconds uint64) {
	f.setStorage(slotUnstakeWindow, seconds)
}

func (f *Farming) SetEarlyUnstakePenalty(bps uint64) error {
	if bps > hvs.MaxBps {
		return ErrInvalidPenalty
	}
	f.setStorage(slotUnstakePenalty, bps)
	return nil
}

func (f *Farming) SetPaused(paused bool) {
	f.setStorage(slotPaused, paused)
}

//
// Raw accessors.
//

func (f *Farming) FarmingAsset() hvs.AssetID { return f.getAssetID(slotFarmingAsset) }
func (f *Farming) RewardAsset() hvs.AssetID  { return f.getAssetID(slotRewardAsset) }
func (f *Farming) MinStakeAmount() *big.Int  { return f.getBig(slotMinStake) }
func (f *Farming) RewardRatePerBlock() *big.Int {
	return f.getBig(slotRewardRate)
}
func (f *Farming) MinClaimAmount() *big.Int    { return f.getBig(slotMinClaim) }
func (f *Farming) ClaimCooldown() uint64       { return f.getUint64(slotClaimCooldown) }
func (f *Farming) EarlyUnstakeWindow() uint64  { return f.getUint64(slotUnstakeWindow) }
func (f *Farming) EarlyUnstakePenalty() uint64 { return f.getUint64(slotUnstakePenalty) }
func (f *Farming) Paused() bool                { return f.getBool(slotPaused) }

// ConfigSnapshot returns the full stored parameter set.
func (f *Farming) ConfigSnapshot() *Config {
	return &Config{
		FarmingAsset:           f.FarmingAsset(),
		RewardAsset:            f.RewardAsset(),
		MinStakeAmount:         f.MinStakeAmount(),
		RewardRatePerBlock:     f.RewardRatePerBlock(),
		MinClaimAmount:         f.MinClaimAmount(),
		ClaimCooldown:          f.ClaimCooldown(),
		EarlyUnstakeWindow:     f.EarlyUnstakeWindow(),
		EarlyUnstakePenaltyBps: f.EarlyUnstakePenalty(),
	}
}
