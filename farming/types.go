// Copyright (c) 2025 The Harvest developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farming

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/harvestlabs/harvest/hvs"
	"github.com/harvestlabs/harvest/state"
)

// Account is the per-user ledger record. Records are created lazily on
// first touch and never deleted; a zero balance is a valid state.
type Account struct {
	Balance           *big.Int
	PendingReward     *big.Int
	RewardPerUnitPaid *big.Int
	LastStakeTime     uint64
	LastClaimTime     uint64
}

var (
	_ state.StorageEncoder = (*Account)(nil)
	_ state.StorageDecoder = (*Account)(nil)
)

// Encode implements state.StorageEncoder. An untouched record encodes
// to nil, which elides the slot from storage.
func (a *Account) Encode() ([]byte, error) {
	if a.Balance.Sign() == 0 &&
		a.PendingReward.Sign() == 0 &&
		a.RewardPerUnitPaid.Sign() == 0 &&
		a.LastStakeTime == 0 &&
		a.LastClaimTime == 0 {
		return nil, nil
	}
	return rlp.EncodeToBytes(a)
}

// Decode implements state.StorageDecoder.
func (a *Account) Decode(data []byte) error {
	if len(data) == 0 {
		*a = Account{&big.Int{}, &big.Int{}, &big.Int{}, 0, 0}
		return nil
	}
	return rlp.DecodeBytes(data, a)
}

// Config holds the full parameter set of the farming contract.
type Config struct {
	FarmingAsset           hvs.AssetID
	RewardAsset            hvs.AssetID
	MinStakeAmount         *big.Int
	RewardRatePerBlock     *big.Int
	MinClaimAmount         *big.Int
	ClaimCooldown          uint64 // seconds between successful claims
	EarlyUnstakeWindow     uint64 // seconds after a stake during which unstaking is penalized
	EarlyUnstakePenaltyBps uint64 // 0..10000
}

func (c *Config) validate() error {
	if !c.FarmingAsset.Valid() || !c.RewardAsset.Valid() {
		return ErrInvalidAssetID
	}
	if c.FarmingAsset == c.RewardAsset {
		return ErrSameAsset
	}
	if c.EarlyUnstakePenaltyBps > hvs.MaxBps {
		return ErrInvalidPenalty
	}
	if c.MinStakeAmount.Sign() < 0 || c.RewardRatePerBlock.Sign() < 0 || c.MinClaimAmount.Sign() < 0 {
		return ErrNegativeAmount
	}
	return nil
}
