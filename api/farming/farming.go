// Copyright (c) 2025 The Harvest developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package farming exposes the staking ledger over REST.
package farming

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/harvestlabs/harvest/api/restutil"
	engine "github.com/harvestlabs/harvest/farming"
	"github.com/harvestlabs/harvest/hvs"
	"github.com/harvestlabs/harvest/runtime"
	"github.com/harvestlabs/harvest/token"
)

// Farming handles the /farming endpoints.
type Farming struct {
	rt *runtime.Runtime
}

// New create a new instance.
func New(rt *runtime.Runtime) *Farming {
	return &Farming{rt}
}

// convertError maps engine and runtime errors onto http statuses.
// Unknown errors fall through as internal server errors.
func convertError(err error) error {
	switch {
	case errors.Is(err, runtime.ErrNotOwner):
		return restutil.Forbidden(err)
	case errors.Is(err, engine.ErrClaimCooldown),
		errors.Is(err, engine.ErrInsufficientLiquidity),
		errors.Is(err, engine.ErrAlreadyInitialized):
		return restutil.Conflict(err)
	case errors.Is(err, engine.ErrNotInitialized),
		errors.Is(err, engine.ErrInvalidAssetID),
		errors.Is(err, engine.ErrSameAsset),
		errors.Is(err, engine.ErrInvalidPenalty),
		errors.Is(err, engine.ErrNegativeAmount),
		errors.Is(err, engine.ErrPaused),
		errors.Is(err, engine.ErrWrongAsset),
		errors.Is(err, engine.ErrBelowMinStake),
		errors.Is(err, engine.ErrZeroBalance),
		errors.Is(err, engine.ErrAmountExceedsBalance),
		errors.Is(err, engine.ErrBelowMinClaim),
		errors.Is(err, token.ErrInsufficientFunds),
		errors.Is(err, token.ErrNegativeAmount):
		return restutil.BadRequest(err)
	}
	return err
}

func (f *Farming) handleGetConfig(w http.ResponseWriter, _ *http.Request) error {
	return restutil.WriteJSON(w, convertConfig(f.rt.Config(), f.rt.Paused()))
}

func (f *Farming) handleGetTotals(w http.ResponseWriter, _ *http.Request) error {
	return restutil.WriteJSON(w, &Totals{
		TotalStaked:         (*math.HexOrDecimal256)(f.rt.TotalStaked()),
		RewardPerUnitStored: (*math.HexOrDecimal256)(f.rt.RewardPerUnitStored()),
		LastUpdateTime:      f.rt.LastUpdateTime(),
	})
}

func (f *Farming) handleGetRewardPerUnit(w http.ResponseWriter, _ *http.Request) error {
	return restutil.WriteJSON(w, &PayoutResponse{
		Amount: (*math.HexOrDecimal256)(f.rt.CurrentRewardPerUnit()),
	})
}

func (f *Farming) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := hvs.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "address"))
	}
	acc := f.rt.GetAccount(addr)
	return restutil.WriteJSON(w, &Account{
		Balance:           (*math.HexOrDecimal256)(acc.Balance),
		PendingReward:     (*math.HexOrDecimal256)(acc.PendingReward),
		RewardPerUnitPaid: (*math.HexOrDecimal256)(acc.RewardPerUnitPaid),
		Earned:            (*math.HexOrDecimal256)(f.rt.Earned(addr)),
		RewardAPR:         (*math.HexOrDecimal256)(f.rt.RewardAPR(addr)),
		LastStakeTime:     acc.LastStakeTime,
		LastClaimTime:     acc.LastClaimTime,
	})
}

func (f *Farming) handlePostStake(w http.ResponseWriter, req *http.Request) error {
	var sr StakeRequest
	if err := restutil.ParseJSON(req.Body, &sr); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if sr.Amount == nil {
		return restutil.BadRequest(errors.New("body: amount required"))
	}
	if err := f.rt.Stake(sr.Caller, sr.Asset, optionalBig(sr.Amount)); err != nil {
		return convertError(err)
	}
	return restutil.WriteJSON(w, &PayoutResponse{Amount: sr.Amount})
}

func (f *Farming) handlePostUnstake(w http.ResponseWriter, req *http.Request) error {
	var ur UnstakeRequest
	if err := restutil.ParseJSON(req.Body, &ur); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	payout, err := f.rt.Unstake(ur.Caller, optionalBig(ur.Amount))
	if err != nil {
		return convertError(err)
	}
	return restutil.WriteJSON(w, &PayoutResponse{Amount: (*math.HexOrDecimal256)(payout)})
}

func (f *Farming) handlePostClaim(w http.ResponseWriter, req *http.Request) error {
	var cr ClaimRequest
	if err := restutil.ParseJSON(req.Body, &cr); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	reward, err := f.rt.Claim(cr.Caller)
	if err != nil {
		return convertError(err)
	}
	return restutil.WriteJSON(w, &PayoutResponse{Amount: (*math.HexOrDecimal256)(reward)})
}

// Mount attaches the endpoints under pathPrefix.
func (f *Farming) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/config").
		Methods(http.MethodGet).
		Name("GET /farming/config").
		HandlerFunc(restutil.WrapHandlerFunc(f.handleGetConfig))
	sub.Path("/totals").
		Methods(http.MethodGet).
		Name("GET /farming/totals").
		HandlerFunc(restutil.WrapHandlerFunc(f.handleGetTotals))
	sub.Path("/reward-per-unit").
		Methods(http.MethodGet).
		Name("GET /farming/reward-per-unit").
		HandlerFunc(restutil.WrapHandlerFunc(f.handleGetRewardPerUnit))
	sub.Path("/accounts/{address}").
		Methods(http.MethodGet).
		Name("GET /farming/accounts/{address}").
		HandlerFunc(restutil.WrapHandlerFunc(f.handleGetAccount))
	sub.Path("/stake").
		Methods(http.MethodPost).
		Name("POST /farming/stake").
		HandlerFunc(restutil.WrapHandlerFunc(f.handlePostStake))
	sub.Path("/unstake").
		Methods(http.MethodPost).
		Name("POST /farming/unstake").
		HandlerFunc(restutil.WrapHandlerFunc(f.handlePostUnstake))
	sub.Path("/claim").
		Methods(http.MethodPost).
		Name("POST /farming/claim").
		HandlerFunc(restutil.WrapHandlerFunc(f.handlePostClaim))
}
