// Copyright (c) 2025 The Harvest developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package runtime executes farming operations as atomic units.
//
// Every state-changing operation runs under the execution lock inside a
// state checkpoint: on any error the checkpoint is reverted and the
// caller observes no effect; on success the accumulated changes are
// committed to the backing store. This covers the unstake/claim
// liquidity checks, which the engine performs after the ledger has
// already been mutated.
package runtime

import (
	"math/big"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/harvestlabs/harvest/farming"
	"github.com/harvestlabs/harvest/hvs"
	"github.com/harvestlabs/harvest/log"
	"github.com/harvestlabs/harvest/metrics"
	"github.com/harvestlabs/harvest/state"
	"github.com/harvestlabs/harvest/token"
)

var logger = log.WithContext("pkg", "runtime")

// ErrNotOwner rejects administrative calls from non-master accounts.
var ErrNotOwner = errors.New("caller is not the owner")

// Well-known storage addresses of the native contracts.
var (
	FarmingAddress = hvs.BytesToAddress([]byte("harvest.farming"))
	CustodyAddress = hvs.BytesToAddress([]byte("harvest.custody"))
)

// Clock supplies the current block time in unix seconds. It must be
// monotonic non-decreasing across calls.
type Clock interface {
	Now() uint64
}

// SystemClock is the wall-time Clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() uint64 {
	return uint64(time.Now().Unix())
}

// Runtime binds the farming engine, the custody ledger and a clock over
// shared state, and serializes operations against them.
type Runtime struct {
	mu      sync.Mutex
	state   *state.State
	token   *token.Token
	farming *farming.Farming
	master  hvs.Address
	clock   Clock
}

// New create a runtime instance. master is the administrative account.
func New(st *state.State, master hvs.Address, clock Clock) *Runtime {
	tok := token.New(CustodyAddress, st)
	return &Runtime{
		state:   st,
		token:   tok,
		farming: farming.New(FarmingAddress, st, tok),
		master:  master,
		clock:   clock,
	}
}

// run executes fn as one atomic operation.
func (r *Runtime) run(op string, fn func() error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	chk := r.state.NewCheckpoint()
	err := fn()
	if err == nil {
		err = r.state.Err()
	}
	if err != nil {
		r.state.RevertTo(chk)
		r.meter(op, "reverted")
		logger.Debug("operation reverted", "op", op, "err", err)
		return err
	}
	if err := r.state.Commit(); err != nil {
		r.state.RevertTo(chk)
		r.meter(op, "failed")
		return errors.Wrap(err, "commit "+op)
	}
	r.meter(op, "ok")
	logger.Debug("operation applied", "op", op)
	return nil
}

func (r *Runtime) meter(op, status string) {
	metrics.CounterVec("operation_count", []string{"op", "status"}).
		AddWithLabel(1, map[string]string{"op": op, "status": status})
}

func (r *Runtime) requireOwner(caller hvs.Address) error {
	if caller != r.master {
		return ErrNotOwner
	}
	return nil
}

// Initialize applies the initial parameter set. Owner only.
func (r *Runtime) Initialize(caller hvs.Address, cfg *farming.Config) error {
	return r.run("initialize", func() error {
		if err := r.requireOwner(caller); err != nil {
			return err
		}
		return r.farming.Initialize(cfg)
	})
}

// Stake escrows the attached payment into contract custody and stakes it.
func (r *Runtime) Stake(caller hvs.Address, asset hvs.AssetID, amount *big.Int) error {
	return r.run("stake", func() error {
		if err := r.token.Transfer(caller, r.farming.Address(), asset, amount); err != nil {
			return err
		}
		return r.farming.Stake(caller, asset, amount, r.clock.Now())
	})
}

// Unstake withdraws amount (nil for the full balance) and returns the payout.
func (r *Runtime) Unstake(caller hvs.Address, amount *big.Int) (*big.Int, error) {
	var payout *big.Int
	err := r.run("unstake", func() error {
		var err error
		payout, err = r.farming.Unstake(caller, amount, r.clock.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return payout, nil
}

// Claim pays out the caller's pending reward and returns it.
func (r *Runtime) Claim(caller hvs.Address) (*big.Int, error) {
	var reward *big.Int
	err := r.run("claim", func() error {
		var err error
		reward, err = r.farming.Claim(caller, r.clock.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return reward, nil
}

// Withdraw sweeps custodied funds to the master account. Owner only.
func (r *Runtime) Withdraw(caller hvs.Address, asset *hvs.AssetID, amount *big.Int) (hvs.AssetID, *big.Int, error) {
	var (
		sweptAsset  hvs.AssetID
		sweptAmount *big.Int
	)
	err := r.run("withdraw", func() error {
		if err := r.requireOwner(caller); err != nil {
			return err
		}
		var err error
		sweptAsset, sweptAmount, err = r.farming.Withdraw(r.master, asset, amount)
		return err
	})
	if err != nil {
		return "", nil, err
	}
	return sweptAsset, sweptAmount, nil
}
