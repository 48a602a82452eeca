package consensus

import "math"

const (
	// MinedMoneyUnlockWindow is the number of blocks a coinbase output
	// stays locked after its block
	MinedMoneyUnlockWindow = 60

	// BaseRewardClampThreshold quantizes the coinbase between forks 2 and 4
	BaseRewardClampThreshold = 100_000_000

	// DefaultDustThreshold bounds pre-fork-2 coinbase decomposition dust
	DefaultDustThreshold = 2_000_000_000

	// RxBlockVersion is the first fork running RandomX proof of work
	RxBlockVersion = 8

	// Emission schedule parameters
	MoneySupply         = math.MaxUint64
	EmissionSpeedFactor = 20
	FinalSubsidy        = 600_000_000_000

	// Reward zone: the median weight floor below which no penalty applies
	FullRewardZone = 300_000

	// RandomX seed schedule
	rxSeedhashEpochBlocks = 2048
	rxSeedhashEpochLag    = 64
)

// Hard-fork versions at which construction behavior changes
const (
	// ForkGovernanceV1Start begins the legacy 25% governance carve-out
	ForkGovernanceV1Start = 2
	// ForkGovernanceV1End is the last fork with the legacy carve-out
	ForkGovernanceV1End = 12
	// ForkGovernanceV2 begins rotating governance block production
	ForkGovernanceV2 = 13
	// ForkRctTx is the first fork with version-2 transactions
	ForkRctTx = 4
	// ForkRewardClampEnd is the first fork without coinbase clamping
	ForkRewardClampEnd = 4
)

// GovernanceBlockInterval spaces governance blocks under rotating governance
const GovernanceBlockInterval = 4
