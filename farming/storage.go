// Copyright (c) 2025 The Harvest developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farming

import (
	"math/big"

	"github.com/harvestlabs/harvest/hvs"
)

var (
	// config
	slotFarmingAsset   = nameToSlot("farming-asset")
	slotRewardAsset    = nameToSlot("reward-asset")
	slotMinStake       = nameToSlot("min-stake-amount")
	slotRewardRate     = nameToSlot("reward-rate-per-block")
	slotMinClaim       = nameToSlot("min-claim-amount")
	slotClaimCooldown  = nameToSlot("claim-cooldown")
	slotUnstakeWindow  = nameToSlot("early-unstake-window")
	slotUnstakePenalty = nameToSlot("early-unstake-penalty")
	slotPaused         = nameToSlot("paused")
	slotInitialized    = nameToSlot("initialized")
	// global ledger
	slotTotalStaked   = nameToSlot("total-staked")
	slotRewardPerUnit = nameToSlot("reward-per-unit-stored")
	slotLastUpdate    = nameToSlot("last-update-time")
)

func nameToSlot(name string) hvs.Bytes32 {
	return hvs.BytesToBytes32([]byte(name))
}

func accountKey(addr hvs.Address) hvs.Bytes32 {
	return hvs.BytesToBytes32(append([]byte("u"), addr.Bytes()...))
}

func (f *Farming) getStorage(key hvs.Bytes32, val interface{}) {
	f.state.GetStructuredStorage(f.addr, key, val)
}

func (f *Farming) setStorage(key hvs.Bytes32, val interface{}) {
	f.state.SetStructuredStorage(f.addr, key, val)
}

func (f *Farming) getBig(key hvs.Bytes32) *big.Int {
	var v big.Int
	f.getStorage(key, &v)
	return &v
}

func (f *Farming) getUint64(key hvs.Bytes32) uint64 {
	var v uint64
	f.getStorage(key, &v)
	return v
}

func (f *Farming) getBool(key hvs.Bytes32) bool {
	var v bool
	f.getStorage(key, &v)
	return v
}

func (f *Farming) getAssetID(key hvs.Bytes32) hvs.AssetID {
	var v hvs.AssetID
	f.getStorage(key, &v)
	return v
}

func (f *Farming) getAccount(addr hvs.Address) *Account {
	var acc Account
	f.getStorage(accountKey(addr), &acc)
	return &acc
}

func (f *Farming) setAccount(addr hvs.Address, acc *Account) {
	f.setStorage(accountKey(addr), acc)
}
