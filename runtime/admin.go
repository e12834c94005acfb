// Copyright (c) 2025 The Harvest developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"math/big"

	"github.com/harvestlabs/harvest/hvs"
)

// Administrative single-field setters. All owner only.

func (r *Runtime) SetFarmingAsset(caller hvs.Address, id hvs.AssetID) error {
	return r.run("set-farming-asset", func() error {
		if err := r.requireOwner(caller); err != nil {
			return err
		}
		return r.farming.SetFarmingAsset(id)
	})
}

func (r *Runtime) SetRewardAsset(caller hvs.Address, id hvs.AssetID) error {
	return r.run("set-reward-asset", func() error {
		if err := r.requireOwner(caller); err != nil {
			return err
		}
		return r.farming.SetRewardAsset(id)
	})
}

func (r *Runtime) SetMinStakeAmount(caller hvs.Address, amount *big.Int) error {
	return r.run("set-min-stake-amount", func() error {
		if err := r.requireOwner(caller); err != nil {
			return err
		}
		return r.farming.SetMinStakeAmount(amount)
	})
}

func (r *Runtime) SetRewardRatePerBlock(caller hvs.Address, rate *big.Int) error {
	return r.run("set-reward-rate-per-block", func() error {
		if err := r.requireOwner(caller); err != nil {
			return err
		}
		return r.farming.SetRewardRatePerBlock(rate)
	})
}

func (r *Runtime) SetMinClaimAmount(caller hvs.Address, amount *big.Int) error {
	return r.run("set-min-claim-amount", func() error {
		if err := r.requireOwner(caller); err != nil {
			return err
		}
		return r.farming.SetMinClaimAmount(amount)
	})
}

func (r *Runtime) SetClaimCooldown(caller hvs.Address, seconds uint64) error {
	return r.run("set-claim-cooldown", func() error {
		if err := r.requireOwner(caller); err != nil {
			return err
		}
		r.farming.SetClaimCooldown(seconds)
		return nil
	})
}

func (r *Runtime) SetEarlyUnstakeWindow(caller hvs.Address, seconds uint64) error {
	return r.run("set-early-unstake-window", func() error {
		if err := r.requireOwner(caller); err != nil {
			return err
		}
		r.farming.SetEarlyUnstakeWindow(seconds)
		return nil
	})
}

func (r *Runtime) SetEarlyUnstakePenalty(caller hvs.Address, bps uint64) error {
	return r.run("set-early-unstake-penalty", func() error {
		if err := r.requireOwner(caller); err != nil {
			return err
		}
		return r.farming.SetEarlyUnstakePenalty(bps)
	})
}

func (r *Runtime) SetPaused(caller hvs.Address, paused bool) error {
	return r.run("set-paused", func() error {
		if err := r.requireOwner(caller); err != nil {
			return err
		}
		r.farming.SetPaused(paused)
		return nil
	})
}
