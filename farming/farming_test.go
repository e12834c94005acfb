// Copyright (c) 2025 The Harvest developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farming

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/harvestlabs/harvest/hvs"
	"github.com/harvestlabs/harvest/lvldb"
	"github.com/harvestlabs/harvest/state"
	"github.com/harvestlabs/harvest/token"
)

const (
	farmAsset   = hvs.AssetID("FARM-a1b2c3")
	rewardAsset = hvs.AssetID("RWRD-d4e5f6")
)

var (
	alice = hvs.BytesToAddress([]byte("alice"))
	bob   = hvs.BytesToAddress([]byte("bob"))
)

func testConfig() *Config {
	return &Config{
		FarmingAsset:           farmAsset,
		RewardAsset:            rewardAsset,
		MinStakeAmount:         big.NewInt(100),
		RewardRatePerBlock:     big.NewInt(50),
		MinClaimAmount:         big.NewInt(10),
		ClaimCooldown:          60,
		EarlyUnstakeWindow:     3600,
		EarlyUnstakePenaltyBps: 500,
	}
}

// newTestFarming builds an initialized engine over in-memory state, with
// reward liquidity already in contract custody.
func newTestFarming(t *testing.T, cfg *Config) (*Farming, *token.Token) {
	db, err := lvldb.NewMem()
	assert.Nil(t, err)
	st := state.New(db)
	tok := token.New(hvs.BytesToAddress([]byte("harvest.custody")), st)
	f := New(hvs.BytesToAddress([]byte("harvest.farming")), st, tok)
	if cfg != nil {
		assert.Nil(t, f.Initialize(cfg))
		assert.Nil(t, tok.Mint(cfg.RewardAsset, f.Address(), big.NewInt(1_000_000)))
	}
	return f, tok
}

// stake escrows the amount into contract custody first, the way the
// runtime does, then stakes it.
func stake(t *testing.T, f *Farming, tok *token.Token, user hvs.Address, amount int64, now uint64) {
	assert.Nil(t, tok.Mint(farmAsset, f.Address(), big.NewInt(amount)))
	assert.Nil(t, f.Stake(user, farmAsset, big.NewInt(amount), now))
}

func TestInitialize(t *testing.T) {
	f, _ := newTestFarming(t, nil)

	assert.False(t, f.Initialized())
	assert.Nil(t, f.Initialize(testConfig()))
	assert.True(t, f.Initialized())
	assert.ErrorIs(t, f.Initialize(testConfig()), ErrAlreadyInitialized)

	assert.Equal(t, farmAsset, f.FarmingAsset())
	assert.Equal(t, rewardAsset, f.RewardAsset())
	assert.Equal(t, big.NewInt(50), f.RewardRatePerBlock())
	assert.Equal(t, uint64(3600), f.EarlyUnstakeWindow())
	assert.False(t, f.Paused())
}

func TestOperationsRequireInitialize(t *testing.T) {
	f, _ := newTestFarming(t, nil)

	assert.ErrorIs(t, f.Stake(alice, farmAsset, big.NewInt(1000), 0), ErrNotInitialized)
	_, err := f.Unstake(alice, nil, 0)
	assert.ErrorIs(t, err, ErrNotInitialized)
	_, err = f.Claim(alice, 0)
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestInitializeRejectsBadConfig(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		err    error
	}{
		{"bad farming asset", func(c *Config) { c.FarmingAsset = "farm" }, ErrInvalidAssetID},
		{"bad reward asset", func(c *Config) { c.RewardAsset = "RWRD-xyz" }, ErrInvalidAssetID},
		{"same asset", func(c *Config) { c.RewardAsset = c.FarmingAsset }, ErrSameAsset},
		{"penalty above max", func(c *Config) { c.EarlyUnstakePenaltyBps = 10001 }, ErrInvalidPenalty},
		{"negative min stake", func(c *Config) { c.MinStakeAmount = big.NewInt(-1) }, ErrNegativeAmount},
		{"negative rate", func(c *Config) { c.RewardRatePerBlock = big.NewInt(-50) }, ErrNegativeAmount},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f, _ := newTestFarming(t, nil)
			cfg := testConfig()
			tc.mutate(cfg)
			assert.ErrorIs(t, f.Initialize(cfg), tc.err)
			assert.False(t, f.Initialized())
		})
	}
}

func TestSetters(t *testing.T) {
	f, _ := newTestFarming(t, testConfig())

	assert.Nil(t, f.SetFarmingAsset("WFRM-0a1b2c"))
	assert.Equal(t, hvs.AssetID("WFRM-0a1b2c"), f.FarmingAsset())
	assert.ErrorIs(t, f.SetFarmingAsset("bogus"), ErrInvalidAssetID)
	assert.ErrorIs(t, f.SetRewardAsset("RWRD"), ErrInvalidAssetID)

	assert.Nil(t, f.SetMinStakeAmount(big.NewInt(500)))
	assert.Equal(t, big.NewInt(500), f.MinStakeAmount())
	assert.ErrorIs(t, f.SetMinStakeAmount(big.NewInt(-1)), ErrNegativeAmount)
	assert.ErrorIs(t, f.SetRewardRatePerBlock(big.NewInt(-1)), ErrNegativeAmount)
	assert.ErrorIs(t, f.SetMinClaimAmount(big.NewInt(-1)), ErrNegativeAmount)

	assert.Nil(t, f.SetEarlyUnstakePenalty(hvs.MaxBps))
	assert.ErrorIs(t, f.SetEarlyUnstakePenalty(hvs.MaxBps+1), ErrInvalidPenalty)

	f.SetClaimCooldown(120)
	f.SetEarlyUnstakeWindow(7200)
	snap := f.ConfigSnapshot()
	assert.Equal(t, uint64(120), snap.ClaimCooldown)
	assert.Equal(t, uint64(7200), snap.EarlyUnstakeWindow)
}

func TestSoleStakerAccrual(t *testing.T) {
	f, tok := newTestFarming(t, testConfig())

	stake(t, f, tok, alice, 1000, 0)
	assert.Equal(t, big.NewInt(1000), f.TotalStaked())
	assert.Equal(t, big.NewInt(1000), f.GetAccount(alice).Balance)
	assert.Equal(t, uint64(0), f.GetAccount(alice).LastStakeTime)

	// 12 seconds is two whole blocks at 50 reward per block.
	assert.Equal(t, big.NewInt(100), f.Earned(alice, 12))
	// Partial blocks floor away.
	assert.Equal(t, big.NewInt(100), f.Earned(alice, 17))
	assert.Equal(t, big.NewInt(150), f.Earned(alice, 18))
}

func TestAccrualFrozenWhenNothingStaked(t *testing.T) {
	f, _ := newTestFarming(t, testConfig())

	assert.Equal(t, 0, f.CurrentRewardPerUnit(600).Sign())
	assert.Equal(t, 0, f.Earned(alice, 600).Sign())
}

func TestEarnedViewIsPure(t *testing.T) {
	f, tok := newTestFarming(t, testConfig())

	stake(t, f, tok, alice, 1000, 0)
	assert.Equal(t, big.NewInt(100), f.Earned(alice, 12))
	assert.Equal(t, big.NewInt(100), f.Earned(alice, 12))
	assert.Equal(t, uint64(0), f.LastUpdateTime())
	assert.Equal(t, 0, f.RewardPerUnitStored().Sign())
}

func TestRestakeDoesNotDoubleCount(t *testing.T) {
	f, tok := newTestFarming(t, testConfig())

	stake(t, f, tok, alice, 1000, 0)
	stake(t, f, tok, alice, 1000, 12)

	// Accrual up to the restake was settled into pending; the larger
	// balance only earns from then on.
	acc := f.GetAccount(alice)
	assert.Equal(t, big.NewInt(2000), acc.Balance)
	assert.Equal(t, big.NewInt(100), acc.PendingReward)
	assert.Equal(t, big.NewInt(100), f.Earned(alice, 12))
	assert.Equal(t, big.NewInt(200), f.Earned(alice, 24))
}

func TestSyncAtSameTimeIsIdempotent(t *testing.T) {
	f, tok := newTestFarming(t, testConfig())

	stake(t, f, tok, alice, 1000, 0)
	stake(t, f, tok, alice, 100, 12)

	stored := f.RewardPerUnitStored()
	pending := f.GetAccount(alice).PendingReward
	assert.Equal(t, big.NewInt(100), pending)

	// A second settlement at the same timestamp sees zero elapsed
	// blocks and must not move the accumulator or pending reward.
	stake(t, f, tok, alice, 100, 12)

	assert.Equal(t, stored, f.RewardPerUnitStored())
	assert.Equal(t, pending, f.GetAccount(alice).PendingReward)
	assert.Equal(t, uint64(12), f.LastUpdateTime())
	assert.Equal(t, big.NewInt(1200), f.GetAccount(alice).Balance)
}

func TestProRataAccrual(t *testing.T) {
	f, tok := newTestFarming(t, testConfig())

	stake(t, f, tok, alice, 1000, 0)
	stake(t, f, tok, bob, 3000, 0)

	// Two blocks emit 100, split 1:3.
	assert.Equal(t, big.NewInt(25), f.Earned(alice, 12))
	assert.Equal(t, big.NewInt(75), f.Earned(bob, 12))

	assert.Equal(t, big.NewInt(2500), f.RewardAPR(alice))
	assert.Equal(t, big.NewInt(7500), f.RewardAPR(bob))
}

func TestProRataRoundingDust(t *testing.T) {
	cfg := testConfig()
	cfg.RewardRatePerBlock = big.NewInt(7)
	f, tok := newTestFarming(t, cfg)

	stake(t, f, tok, alice, 1000, 0)
	stake(t, f, tok, bob, 3000, 0)

	// Two blocks emit 14; floor division leaves at most one block's
	// emission as undistributed dust.
	a := f.Earned(alice, 12)
	b := f.Earned(bob, 12)
	assert.Equal(t, big.NewInt(3), a)
	assert.Equal(t, big.NewInt(10), b)
	assert.True(t, new(big.Int).Add(a, b).Cmp(big.NewInt(14)) <= 0)
}

func TestLateJoinerDilutesUnsettledAccrual(t *testing.T) {
	f, tok := newTestFarming(t, testConfig())

	stake(t, f, tok, alice, 1000, 0)
	stake(t, f, tok, bob, 1000, 60)

	// Settlement divides by the total at settlement time, so alice's
	// unsettled accrual over the first ten blocks is split with bob. Bob
	// starts from the accumulator as of his stake and earns nothing
	// retroactively.
	assert.Equal(t, big.NewInt(250), f.Earned(alice, 60))
	assert.Equal(t, 0, f.Earned(bob, 60).Sign())
	assert.Equal(t, big.NewInt(300), f.Earned(alice, 72))
	assert.Equal(t, big.NewInt(50), f.Earned(bob, 72))
}

func TestStakeValidation(t *testing.T) {
	f, tok := newTestFarming(t, testConfig())

	assert.ErrorIs(t, f.Stake(alice, rewardAsset, big.NewInt(1000), 0), ErrWrongAsset)
	assert.ErrorIs(t, f.Stake(alice, farmAsset, big.NewInt(0), 0), ErrBelowMinStake)
	assert.ErrorIs(t, f.Stake(alice, farmAsset, big.NewInt(99), 0), ErrBelowMinStake)

	// The minimum itself is accepted.
	stake(t, f, tok, alice, 100, 0)
	assert.Equal(t, big.NewInt(100), f.TotalStaked())
}

func TestPausedRejectsAll(t *testing.T) {
	f, tok := newTestFarming(t, testConfig())
	stake(t, f, tok, alice, 1000, 0)

	f.SetPaused(true)
	assert.ErrorIs(t, f.Stake(alice, farmAsset, big.NewInt(1000), 6), ErrPaused)
	_, err := f.Unstake(alice, nil, 6)
	assert.ErrorIs(t, err, ErrPaused)
	_, err = f.Claim(alice, 6)
	assert.ErrorIs(t, err, ErrPaused)

	f.SetPaused(false)
	assert.Nil(t, f.Stake(alice, farmAsset, big.NewInt(1000), 6))
}

func TestEarlyUnstakePenalty(t *testing.T) {
	f, tok := newTestFarming(t, testConfig())
	stake(t, f, tok, alice, 1000, 0)

	// Well inside the window: 500 bps of 1000 withheld.
	payout, err := f.Unstake(alice, nil, 12)
	assert.Nil(t, err)
	assert.Equal(t, big.NewInt(950), payout)
	assert.Equal(t, big.NewInt(950), tok.BalanceOf(farmAsset, alice))

	// The ledger is reduced by the full amount regardless of penalty.
	assert.Equal(t, 0, f.TotalStaked().Sign())
	assert.Equal(t, 0, f.GetAccount(alice).Balance.Sign())
	// The withheld 50 stays in contract custody.
	assert.Equal(t, big.NewInt(50), tok.BalanceOf(farmAsset, f.Address()))
}

func TestUnstakeWindowBoundary(t *testing.T) {
	f, tok := newTestFarming(t, testConfig())
	stake(t, f, tok, alice, 1000, 0)
	stake(t, f, tok, bob, 1000, 0)

	// One second before the window closes the penalty still applies.
	payout, err := f.Unstake(alice, nil, 3599)
	assert.Nil(t, err)
	assert.Equal(t, big.NewInt(950), payout)

	// At the exact boundary the stake is mature.
	payout, err = f.Unstake(bob, nil, 3600)
	assert.Nil(t, err)
	assert.Equal(t, big.NewInt(1000), payout)
}

func TestPartialUnstake(t *testing.T) {
	f, tok := newTestFarming(t, testConfig())
	stake(t, f, tok, alice, 1000, 0)

	payout, err := f.Unstake(alice, big.NewInt(400), 3600)
	assert.Nil(t, err)
	assert.Equal(t, big.NewInt(400), payout)
	assert.Equal(t, big.NewInt(600), f.GetAccount(alice).Balance)
	assert.Equal(t, big.NewInt(600), f.TotalStaked())

	_, err = f.Unstake(alice, big.NewInt(601), 3600)
	assert.ErrorIs(t, err, ErrAmountExceedsBalance)
	_, err = f.Unstake(alice, big.NewInt(-1), 3600)
	assert.ErrorIs(t, err, ErrNegativeAmount)

	// nil means the whole remaining balance.
	payout, err = f.Unstake(alice, nil, 3600)
	assert.Nil(t, err)
	assert.Equal(t, big.NewInt(600), payout)
	assert.Equal(t, 0, f.TotalStaked().Sign())
}

func TestUnstakeWithoutBalance(t *testing.T) {
	f, _ := newTestFarming(t, testConfig())
	_, err := f.Unstake(alice, nil, 0)
	assert.ErrorIs(t, err, ErrZeroBalance)
}

func TestUnstakeInsufficientLiquidity(t *testing.T) {
	f, tok := newTestFarming(t, testConfig())
	assert.Nil(t, tok.Mint(farmAsset, f.Address(), big.NewInt(1000)))
	assert.Nil(t, f.Stake(alice, farmAsset, big.NewInt(1000), 0))

	// Drain the escrowed deposit from custody; the payout can no longer
	// be honored. Discarding the half-applied state is the caller's job.
	assert.Nil(t, tok.Transfer(f.Address(), bob, farmAsset, big.NewInt(1000)))
	_, err := f.Unstake(alice, nil, 3600)
	assert.ErrorIs(t, err, ErrInsufficientLiquidity)
}

func TestClaim(t *testing.T) {
	cfg := testConfig()
	cfg.ClaimCooldown = 0
	f, tok := newTestFarming(t, cfg)
	stake(t, f, tok, alice, 1000, 0)

	reward, err := f.Claim(alice, 12)
	assert.Nil(t, err)
	assert.Equal(t, big.NewInt(100), reward)
	assert.Equal(t, big.NewInt(100), tok.BalanceOf(rewardAsset, alice))

	acc := f.GetAccount(alice)
	assert.Equal(t, 0, acc.PendingReward.Sign())
	assert.Equal(t, uint64(12), acc.LastClaimTime)

	// Nothing new has accrued yet.
	_, err = f.Claim(alice, 13)
	assert.ErrorIs(t, err, ErrBelowMinClaim)
}

func TestClaimBelowMin(t *testing.T) {
	cfg := testConfig()
	cfg.ClaimCooldown = 0
	cfg.RewardRatePerBlock = big.NewInt(5)
	f, tok := newTestFarming(t, cfg)
	stake(t, f, tok, alice, 1000, 0)

	// Exactly the minimum is rejected; the threshold is strict.
	assert.Equal(t, big.NewInt(10), f.Earned(alice, 12))
	_, err := f.Claim(alice, 12)
	assert.ErrorIs(t, err, ErrBelowMinClaim)

	reward, err := f.Claim(alice, 18)
	assert.Nil(t, err)
	assert.Equal(t, big.NewInt(15), reward)
}

func TestClaimCooldownBoundary(t *testing.T) {
	f, tok := newTestFarming(t, testConfig())
	stake(t, f, tok, alice, 1000, 0)

	// A fresh account's last claim time is zero, so the first claim must
	// also outwait the cooldown.
	_, err := f.Claim(alice, 60)
	assert.ErrorIs(t, err, ErrClaimCooldown)

	reward, err := f.Claim(alice, 66)
	assert.Nil(t, err)
	assert.Equal(t, big.NewInt(550), reward)

	// The boundary instant after a claim is still inside the cooldown.
	_, err = f.Claim(alice, 126)
	assert.ErrorIs(t, err, ErrClaimCooldown)

	reward, err = f.Claim(alice, 127)
	assert.Nil(t, err)
	assert.Equal(t, big.NewInt(500), reward)
}

func TestClaimInsufficientLiquidity(t *testing.T) {
	cfg := testConfig()
	cfg.ClaimCooldown = 0
	f, tok := newTestFarming(t, cfg)
	stake(t, f, tok, alice, 1000, 0)

	// Sweep the reward liquidity out of custody.
	assert.Nil(t, tok.Transfer(f.Address(), bob, rewardAsset, tok.BalanceOf(rewardAsset, f.Address())))
	_, err := f.Claim(alice, 12)
	assert.ErrorIs(t, err, ErrInsufficientLiquidity)
}

func TestWithdraw(t *testing.T) {
	f, tok := newTestFarming(t, testConfig())
	assert.Nil(t, tok.Mint(farmAsset, f.Address(), big.NewInt(5000)))

	// Defaults: farming asset, full custody.
	asset, amount, err := f.Withdraw(bob, nil, nil)
	assert.Nil(t, err)
	assert.Equal(t, farmAsset, asset)
	assert.Equal(t, big.NewInt(5000), amount)
	assert.Equal(t, big.NewInt(5000), tok.BalanceOf(farmAsset, bob))

	other := rewardAsset
	asset, amount, err = f.Withdraw(bob, &other, big.NewInt(700))
	assert.Nil(t, err)
	assert.Equal(t, rewardAsset, asset)
	assert.Equal(t, big.NewInt(700), amount)

	bad := hvs.AssetID("nope")
	_, _, err = f.Withdraw(bob, &bad, nil)
	assert.ErrorIs(t, err, ErrInvalidAssetID)
	_, _, err = f.Withdraw(bob, nil, big.NewInt(-1))
	assert.ErrorIs(t, err, ErrNegativeAmount)
}

func TestRewardAPRWhenEmpty(t *testing.T) {
	f, _ := newTestFarming(t, testConfig())
	assert.Equal(t, 0, f.RewardAPR(alice).Sign())
}

func TestRewardConservation(t *testing.T) {
	cfg := testConfig()
	cfg.ClaimCooldown = 0
	f, tok := newTestFarming(t, cfg)

	stake(t, f, tok, alice, 1000, 0)
	stake(t, f, tok, bob, 3000, 6)

	r1, err := f.Claim(alice, 60)
	assert.Nil(t, err)
	r2, err := f.Claim(bob, 60)
	assert.Nil(t, err)

	// The pool emitted ten blocks' worth of reward; floor division never
	// pays out more than that.
	emitted := big.NewInt(500)
	paid := new(big.Int).Add(r1, r2)
	assert.True(t, paid.Cmp(emitted) <= 0)
}
