// Copyright (c) 2025 The Harvest developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/harvestlabs/harvest/hvs"
	"github.com/harvestlabs/harvest/state"
)

// Errors of custody operations.
var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNegativeAmount    = errors.New("negative amount")
)

func balanceKey(asset hvs.AssetID, holder hvs.Address) hvs.Bytes32 {
	return hvs.Keccak256([]byte("balance"), asset.Bytes(), holder.Bytes())
}

func supplyKey(asset hvs.AssetID) hvs.Bytes32 {
	return hvs.Keccak256([]byte("supply"), asset.Bytes())
}

// Token is the asset custody ledger. It tracks per (asset, holder)
// balances in contract storage, so balance moves revert together with
// the rest of an operation's state changes.
type Token struct {
	addr  hvs.Address
	state *state.State
}

// New create a new instance.
func New(addr hvs.Address, state *state.State) *Token {
	return &Token{addr, state}
}

func (t *Token) getBalance(key hvs.Bytes32) *big.Int {
	var v big.Int
	t.state.GetStructuredStorage(t.addr, key, &v)
	return &v
}

// BalanceOf returns the holder's balance of the given asset.
func (t *Token) BalanceOf(asset hvs.AssetID, holder hvs.Address) *big.Int {
	return t.getBalance(balanceKey(asset, holder))
}

// TotalSupply returns the minted supply of the given asset.
func (t *Token) TotalSupply(asset hvs.AssetID) *big.Int {
	return t.getBalance(supplyKey(asset))
}

func (t *Token) add(asset hvs.AssetID, holder hvs.Address, amount *big.Int) {
	if amount.Sign() == 0 {
		return
	}
	key := balanceKey(asset, holder)
	bal := t.getBalance(key)
	t.state.SetStructuredStorage(t.addr, key, bal.Add(bal, amount))
}

func (t *Token) sub(asset hvs.AssetID, holder hvs.Address, amount *big.Int) bool {
	if amount.Sign() == 0 {
		return true
	}
	key := balanceKey(asset, holder)
	bal := t.getBalance(key)
	if bal.Cmp(amount) < 0 {
		return false
	}
	t.state.SetStructuredStorage(t.addr, key, bal.Sub(bal, amount))
	return true
}

// Mint credits the holder with the given amount and grows the supply.
func (t *Token) Mint(asset hvs.AssetID, holder hvs.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	t.add(asset, holder, amount)
	supply := t.getBalance(supplyKey(asset))
	t.state.SetStructuredStorage(t.addr, supplyKey(asset), supply.Add(supply, amount))
	return nil
}

// Burn debits the holder by the given amount and shrinks the supply.
func (t *Token) Burn(asset hvs.AssetID, holder hvs.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	if !t.sub(asset, holder, amount) {
		return ErrInsufficientFunds
	}
	supply := t.getBalance(supplyKey(asset))
	t.state.SetStructuredStorage(t.addr, supplyKey(asset), supply.Sub(supply, amount))
	return nil
}

// Transfer moves the given amount between holders.
func (t *Token) Transfer(from, to hvs.Address, asset hvs.AssetID, amount *big.Int) error {
	if amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	if !t.sub(asset, from, amount) {
		return ErrInsufficientFunds
	}
	t.add(asset, to, amount)
	return nil
}
