// Copyright (c) 2025 The Harvest developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package farming implements the staking / reward-accrual ledger.
//
// Users stake the farming asset and accrue reward in the reward asset,
// pro rata to their share of the total staked supply and to elapsed
// block time. Accrual is lazy: every state-changing operation first
// synchronizes the global reward-per-unit accumulator and the acting
// user's record to the current time, then applies its mutation.
//
// Operations mutate state unconditionally as they go; atomicity of a
// whole operation is the caller's concern (see the runtime package,
// which wraps each call in a state checkpoint).
package farming

import (
	"math/big"

	"github.com/harvestlabs/harvest/hvs"
	"github.com/harvestlabs/harvest/state"
	"github.com/harvestlabs/harvest/token"
)

// Farming implements the reward engine over contract storage.
type Farming struct {
	addr  hvs.Address
	state *state.State
	token *token.Token
}

// New create a new instance.
func New(addr hvs.Address, state *state.State, token *token.Token) *Farming {
	return &Farming{addr, state, token}
}

// Address returns the contract address custodying staked and reward assets.
func (f *Farming) Address() hvs.Address {
	return f.addr
}

// currentRewardPerUnit projects the reward-per-unit accumulator to now.
// Frozen while nothing is staked. Elapsed seconds floor to whole blocks
// first, then scale by the per-block rate; the two-step floor order
// decides where rounding dust lands and must not be reordered.
func (f *Farming) currentRewardPerUnit(now uint64) *big.Int {
	stored := f.getBig(slotRewardPerUnit)
	if f.getBig(slotTotalStaked).Sign() == 0 {
		return stored
	}
	last := f.getUint64(slotLastUpdate)
	if now <= last {
		return stored
	}
	blocks := (now - last) / hvs.BlockInterval
	x := new(big.Int).SetUint64(blocks)
	x.Mul(x, f.getBig(slotRewardRate))
	return x.Add(x, stored)
}

// earned computes the user's total accrued reward against the given
// accumulator value. Floor division; dust stays with the contract.
func (f *Farming) earned(acc *Account, current *big.Int) *big.Int {
	total := f.getBig(slotTotalStaked)
	if total.Sign() == 0 {
		return new(big.Int)
	}
	x := new(big.Int).Sub(current, acc.RewardPerUnitPaid)
	x.Mul(x, acc.Balance)
	x.Div(x, total)
	return x.Add(x, acc.PendingReward)
}

// syncReward advances the accumulator to now and settles the user's
// pending reward against it. Runs first in every state-changing
// operation so accrual reflects all staked-supply changes up to now.
func (f *Farming) syncReward(user hvs.Address, now uint64) *Account {
	current := f.currentRewardPerUnit(now)
	f.setStorage(slotRewardPerUnit, current)
	f.setStorage(slotLastUpdate, now)

	acc := f.getAccount(user)
	acc.PendingReward = f.earned(acc, current)
	acc.RewardPerUnitPaid = new(big.Int).Set(current)
	f.setAccount(user, acc)
	return acc
}

// Stake deposits amount of the farming asset for caller. The deposit is
// assumed already moved into contract custody by the caller.
func (f *Farming) Stake(caller hvs.Address, asset hvs.AssetID, amount *big.Int, now uint64) error {
	if !f.Initialized() {
		return ErrNotInitialized
	}
	if f.Paused() {
		return ErrPaused
	}
	if asset != f.FarmingAsset() {
		return ErrWrongAsset
	}
	if amount.Sign() <= 0 || amount.Cmp(f.MinStakeAmount()) < 0 {
		return ErrBelowMinStake
	}

	acc := f.syncReward(caller, now)

	total := f.getBig(slotTotalStaked)
	f.setStorage(slotTotalStaked, total.Add(total, amount))
	acc.Balance = new(big.Int).Add(acc.Balance, amount)
	acc.LastStakeTime = now
	f.setAccount(caller, acc)
	return nil
}

// Unstake withdraws amount of the caller's staked balance, or the full
// balance when amount is nil. Unstaking within the early-unstake window
// reduces the payout by the penalty; the ledger is always decremented
// by the full requested amount, penalty or not. It returns the payout
// transferred to the caller.
//
// The liquidity check runs after the ledger has been mutated; on
// ErrInsufficientLiquidity the caller must discard the whole operation.
func (f *Farming) Unstake(caller hvs.Address, amount *big.Int, now uint64) (*big.Int, error) {
	if !f.Initialized() {
		return nil, ErrNotInitialized
	}
	if f.Paused() {
		return nil, ErrPaused
	}
	if f.getAccount(caller).Balance.Sign() == 0 {
		return nil, ErrZeroBalance
	}

	acc := f.syncReward(caller, now)

	if amount == nil {
		amount = acc.Balance
	} else {
		if amount.Sign() < 0 {
			return nil, ErrNegativeAmount
		}
		if amount.Cmp(acc.Balance) > 0 {
			return nil, ErrAmountExceedsBalance
		}
	}

	total := f.getBig(slotTotalStaked)
	f.setStorage(slotTotalStaked, total.Sub(total, amount))
	acc.Balance = new(big.Int).Sub(acc.Balance, amount)
	f.setAccount(caller, acc)

	payout := new(big.Int).Set(amount)
	if acc.LastStakeTime+f.EarlyUnstakeWindow() > now {
		penalty := new(big.Int).SetUint64(f.EarlyUnstakePenalty())
		penalty.Mul(penalty, amount)
		penalty.Div(penalty, new(big.Int).SetUint64(hvs.MaxBps))
		payout.Sub(payout, penalty)
	}

	farmingAsset := f.FarmingAsset()
	if f.token.BalanceOf(farmingAsset, f.addr).Cmp(payout) < 0 {
		return nil, ErrInsufficientLiquidity
	}
	if err := f.token.Transfer(f.addr, caller, farmingAsset, payout); err != nil {
		return nil, err
	}
	return payout, nil
}

// Claim pays out the caller's pending reward. The pending amount must
// strictly exceed the min claim amount, and the cooldown since the last
// successful claim must have fully elapsed (the exact boundary instant
// is rejected). It returns the reward transferred.
func (f *Farming) Claim(caller hvs.Address, now uint64) (*big.Int, error) {
	if !f.Initialized() {
		return nil, ErrNotInitialized
	}
	if f.Paused() {
		return nil, ErrPaused
	}

	acc := f.syncReward(caller, now)

	reward := acc.PendingReward
	if reward.Cmp(f.MinClaimAmount()) <= 0 {
		return nil, ErrBelowMinClaim
	}
	if acc.LastClaimTime+f.ClaimCooldown() >= now {
		return nil, ErrClaimCooldown
	}

	acc.PendingReward = new(big.Int)
	acc.LastClaimTime = now
	f.setAccount(caller, acc)

	rewardAsset := f.RewardAsset()
	if f.token.BalanceOf(rewardAsset, f.addr).Cmp(reward) < 0 {
		return nil, ErrInsufficientLiquidity
	}
	if err := f.token.Transfer(f.addr, caller, rewardAsset, reward); err != nil {
		return nil, err
	}
	return reward, nil
}

// Withdraw sweeps custodied funds to the given address. A nil asset
// defaults to the farming asset, a nil amount to the contract's full
// custody of that asset. It returns what was actually transferred.
func (f *Farming) Withdraw(to hvs.Address, asset *hvs.AssetID, amount *big.Int) (hvs.AssetID, *big.Int, error) {
	sweepAsset := f.FarmingAsset()
	if asset != nil {
		if !asset.Valid() {
			return "", nil, ErrInvalidAssetID
		}
		sweepAsset = *asset
	}
	if amount == nil {
		amount = f.token.BalanceOf(sweepAsset, f.addr)
	} else if amount.Sign() < 0 {
		return "", nil, ErrNegativeAmount
	}
	if err := f.token.Transfer(f.addr, to, sweepAsset, amount); err != nil {
		return "", nil, err
	}
	return sweepAsset, amount, nil
}

//
// Views. Pure projections of stored state; lastUpdateTime is not advanced.
//

// CurrentRewardPerUnit returns the accumulator projected to now.
func (f *Farming) CurrentRewardPerUnit(now uint64) *big.Int {
	return f.currentRewardPerUnit(now)
}

// Earned returns the user's accrued reward projected to now.
func (f *Farming) Earned(user hvs.Address, now uint64) *big.Int {
	return f.earned(f.getAccount(user), f.currentRewardPerUnit(now))
}

// RewardAPR returns the user's share of the total staked supply in
// basis points. Zero when nothing is staked, rather than trapping on
// the division.
func (f *Farming) RewardAPR(user hvs.Address) *big.Int {
	total := f.getBig(slotTotalStaked)
	if total.Sign() == 0 {
		return new(big.Int)
	}
	apr := new(big.Int).SetUint64(hvs.MaxBps)
	apr.Mul(apr, f.getAccount(user).Balance)
	return apr.Div(apr, total)
}

// TotalStaked returns the sum of all staked balances.
func (f *Farming) TotalStaked() *big.Int {
	return f.getBig(slotTotalStaked)
}

// RewardPerUnitStored returns the accumulator as of the last update.
func (f *Farming) RewardPerUnitStored() *big.Int {
	return f.getBig(slotRewardPerUnit)
}

// LastUpdateTime returns the block time of the last accumulator update.
func (f *Farming) LastUpdateTime() uint64 {
	return f.getUint64(slotLastUpdate)
}

// GetAccount returns the user's ledger record.
func (f *Farming) GetAccount(user hvs.Address) *Account {
	return f.getAccount(user)
}
