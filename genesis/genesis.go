// Copyright (c) 2025 The Harvest developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis builds the initial contract state from a parameter
// set, either loaded from a YAML document or the built-in devnet preset.
package genesis

import (
	"math/big"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/harvestlabs/harvest/farming"
	"github.com/harvestlabs/harvest/hvs"
	"github.com/harvestlabs/harvest/runtime"
	"github.com/harvestlabs/harvest/state"
	"github.com/harvestlabs/harvest/token"
)

// Genesis is the initialization document.
type Genesis struct {
	Master  string       `yaml:"master"`
	Farming Params       `yaml:"farming"`
	Premine []Allocation `yaml:"premine"`
}

// Params mirrors the farming parameter set, with amounts as decimal strings.
type Params struct {
	FarmingAsset           string `yaml:"farmingAsset"`
	RewardAsset            string `yaml:"rewardAsset"`
	MinStakeAmount         string `yaml:"minStakeAmount"`
	RewardRatePerBlock     string `yaml:"rewardRatePerBlock"`
	MinClaimAmount         string `yaml:"minClaimAmount"`
	ClaimCooldown          uint64 `yaml:"claimCooldown"`
	EarlyUnstakeWindow     uint64 `yaml:"earlyUnstakeWindow"`
	EarlyUnstakePenaltyBps uint64 `yaml:"earlyUnstakePenaltyBps"`
}

// Allocation premints custody balance for an account.
type Allocation struct {
	Address string `yaml:"address"`
	Asset   string `yaml:"asset"`
	Balance string `yaml:"balance"`
}

// FromYAML parses a genesis document.
func FromYAML(data []byte) (*Genesis, error) {
	var g Genesis
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, errors.Wrap(err, "parse genesis")
	}
	return &g, nil
}

// Devnet returns the development preset: premined dev accounts and
// reward liquidity already in contract custody.
func Devnet() *Genesis {
	dev := hvs.BytesToAddress([]byte("developer"))
	return &Genesis{
		Master: DevMaster().String(),
		Farming: Params{
			FarmingAsset:           "FARM-a1b2c3",
			RewardAsset:            "RWRD-d4e5f6",
			MinStakeAmount:         "100",
			RewardRatePerBlock:     "50",
			MinClaimAmount:         "10",
			ClaimCooldown:          60,
			EarlyUnstakeWindow:     3600,
			EarlyUnstakePenaltyBps: 500,
		},
		Premine: []Allocation{
			{Address: dev.String(), Asset: "FARM-a1b2c3", Balance: "1000000000"},
			{Address: runtime.FarmingAddress.String(), Asset: "RWRD-d4e5f6", Balance: "1000000000"},
		},
	}
}

// DevMaster is the administrative account of the devnet preset.
func DevMaster() hvs.Address {
	return hvs.BytesToAddress([]byte("master"))
}

// MasterAddress parses the document's master account.
func (g *Genesis) MasterAddress() (hvs.Address, error) {
	addr, err := hvs.ParseAddress(g.Master)
	if err != nil {
		return hvs.Address{}, errors.Wrap(err, "master")
	}
	return addr, nil
}

func parseAmount(field, s string) (*big.Int, error) {
	if s == "" {
		return new(big.Int), nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, errors.Errorf("%s: malformed amount %q", field, s)
	}
	return v, nil
}

// Config converts the document into the engine parameter set.
func (g *Genesis) Config() (*farming.Config, error) {
	minStake, err := parseAmount("minStakeAmount", g.Farming.MinStakeAmount)
	if err != nil {
		return nil, err
	}
	rate, err := parseAmount("rewardRatePerBlock", g.Farming.RewardRatePerBlock)
	if err != nil {
		return nil, err
	}
	minClaim, err := parseAmount("minClaimAmount", g.Farming.MinClaimAmount)
	if err != nil {
		return nil, err
	}
	return &farming.Config{
		FarmingAsset:           hvs.AssetID(g.Farming.FarmingAsset),
		RewardAsset:            hvs.AssetID(g.Farming.RewardAsset),
		MinStakeAmount:         minStake,
		RewardRatePerBlock:     rate,
		MinClaimAmount:         minClaim,
		ClaimCooldown:          g.Farming.ClaimCooldown,
		EarlyUnstakeWindow:     g.Farming.EarlyUnstakeWindow,
		EarlyUnstakePenaltyBps: g.Farming.EarlyUnstakePenaltyBps,
	}, nil
}

// Build applies the document onto fresh state and commits it.
func (g *Genesis) Build(st *state.State) error {
	cfg, err := g.Config()
	if err != nil {
		return err
	}

	tok := token.New(runtime.CustodyAddress, st)
	farm := farming.New(runtime.FarmingAddress, st, tok)

	for _, alloc := range g.Premine {
		addr, err := hvs.ParseAddress(alloc.Address)
		if err != nil {
			return errors.Wrapf(err, "premine address %q", alloc.Address)
		}
		asset, err := hvs.ParseAssetID(alloc.Asset)
		if err != nil {
			return errors.Wrapf(err, "premine asset %q", alloc.Asset)
		}
		balance, err := parseAmount("premine balance", alloc.Balance)
		if err != nil {
			return err
		}
		if err := tok.Mint(asset, addr, balance); err != nil {
			return err
		}
	}

	if err := farm.Initialize(cfg); err != nil {
		return err
	}
	return st.Commit()
}
