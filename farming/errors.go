// Copyright (c) 2025 The Harvest developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farming

import "github.com/pkg/errors"

// Errors of farming operations. Each aborts the whole operation with no
// partial effect; callers match them with errors.Is.
var (
	ErrAlreadyInitialized = errors.New("already initialized")
	ErrNotInitialized     = errors.New("not initialized")
	ErrInvalidAssetID     = errors.New("invalid asset identifier")
	ErrSameAsset          = errors.New("farming and reward asset must be distinct")
	ErrInvalidPenalty     = errors.New("penalty exceeds max basis points")
	ErrNegativeAmount     = errors.New("negative amount")

	ErrPaused               = errors.New("farming is not live")
	ErrWrongAsset           = errors.New("wrong asset supplied")
	ErrBelowMinStake        = errors.New("cannot stake less than min stake amount")
	ErrZeroBalance          = errors.New("zero balance")
	ErrAmountExceedsBalance = errors.New("unstake amount cannot be greater than balance")
	ErrBelowMinClaim        = errors.New("cannot claim less than min claim amount")
	ErrClaimCooldown        = errors.New("claim cooldown still active")

	ErrInsufficientLiquidity = errors.New("not enough custodied tokens")
)
