// Copyright (c) 2025 The Harvest developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/harvestlabs/harvest/farming"
	"github.com/harvestlabs/harvest/hvs"
	"github.com/harvestlabs/harvest/lvldb"
	"github.com/harvestlabs/harvest/runtime"
	"github.com/harvestlabs/harvest/state"
	"github.com/harvestlabs/harvest/token"
)

func TestFromYAML(t *testing.T) {
	doc := `
master: "` + hvs.BytesToAddress([]byte("ops")).String() + `"
farming:
  farmingAsset: FARM-a1b2c3
  rewardAsset: RWRD-d4e5f6
  minStakeAmount: "100"
  rewardRatePerBlock: "50"
  minClaimAmount: "10"
  claimCooldown: 60
  earlyUnstakeWindow: 3600
  earlyUnstakePenaltyBps: 500
premine:
  - address: "` + hvs.BytesToAddress([]byte("dev")).String() + `"
    asset: FARM-a1b2c3
    balance: "12345"
`
	g, err := FromYAML([]byte(doc))
	assert.Nil(t, err)

	cfg, err := g.Config()
	assert.Nil(t, err)
	assert.Equal(t, hvs.AssetID("FARM-a1b2c3"), cfg.FarmingAsset)
	assert.Equal(t, big.NewInt(50), cfg.RewardRatePerBlock)
	assert.Equal(t, uint64(500), cfg.EarlyUnstakePenaltyBps)

	_, err = FromYAML([]byte(":not yaml"))
	assert.Error(t, err)
}

func TestConfigRejectsMalformedAmount(t *testing.T) {
	g := Devnet()
	g.Farming.RewardRatePerBlock = "fifty"
	_, err := g.Config()
	assert.Error(t, err)
}

func TestDevnetBuild(t *testing.T) {
	db, err := lvldb.NewMem()
	assert.Nil(t, err)
	st := state.New(db)

	g := Devnet()
	assert.Nil(t, g.Build(st))

	// Reopen to prove everything was committed.
	st = state.New(db)
	tok := token.New(runtime.CustodyAddress, st)
	farm := farming.New(runtime.FarmingAddress, st, tok)

	assert.True(t, farm.Initialized())
	assert.Equal(t, hvs.AssetID("FARM-a1b2c3"), farm.FarmingAsset())
	assert.True(t, tok.BalanceOf("RWRD-d4e5f6", runtime.FarmingAddress).Sign() > 0)

	master, err := g.MasterAddress()
	assert.Nil(t, err)
	assert.Equal(t, DevMaster(), master)
}

func TestBuildRejectsDoubleInit(t *testing.T) {
	db, _ := lvldb.NewMem()
	st := state.New(db)
	g := Devnet()
	assert.Nil(t, g.Build(st))
	assert.ErrorIs(t, g.Build(st), farming.ErrAlreadyInitialized)
}
