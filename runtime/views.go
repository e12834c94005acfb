// Copyright (c) 2025 The Harvest developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"math/big"

	"github.com/harvestlabs/harvest/farming"
	"github.com/harvestlabs/harvest/hvs"
)

// Read-only views. They take the execution lock since the state layer
// is not safe for concurrent use, but never advance ledger timestamps.

// CurrentRewardPerUnit returns the accumulator projected to now.
func (r *Runtime) CurrentRewardPerUnit() *big.Int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.farming.CurrentRewardPerUnit(r.clock.Now())
}

// Earned returns the user's accrued reward projected to now.
func (r *Runtime) Earned(user hvs.Address) *big.Int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.farming.Earned(user, r.clock.Now())
}

// RewardAPR returns the user's staked share in basis points.
func (r *Runtime) RewardAPR(user hvs.Address) *big.Int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.farming.RewardAPR(user)
}

// GetAccount returns the user's ledger record.
func (r *Runtime) GetAccount(user hvs.Address) *farming.Account {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.farming.GetAccount(user)
}

// Config returns the stored parameter set.
func (r *Runtime) Config() *farming.Config {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.farming.ConfigSnapshot()
}

// TotalStaked returns the sum of all staked balances.
func (r *Runtime) TotalStaked() *big.Int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.farming.TotalStaked()
}

// RewardPerUnitStored returns the accumulator as of the last update.
func (r *Runtime) RewardPerUnitStored() *big.Int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.farming.RewardPerUnitStored()
}

// LastUpdateTime returns the block time of the last accumulator update.
func (r *Runtime) LastUpdateTime() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.farming.LastUpdateTime()
}

// Paused reports whether state-changing operations are rejected.
func (r *Runtime) Paused() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.farming.Paused()
}

// CustodyBalance returns the holder's custodied balance of an asset.
func (r *Runtime) CustodyBalance(asset hvs.AssetID, holder hvs.Address) *big.Int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.token.BalanceOf(asset, holder)
}
