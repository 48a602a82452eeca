package consensus

import (
	"errors"

	"github.com/scala-network/scala/types"
)

// ChainReader supplies block identity lookups to the long-hash dispatcher
// and the governance checks
type ChainReader interface {
	CurrentHeight() (uint64, error)
	BlockIDByHeight(height uint64) (types.Hash, error)
	// PendingBlockIDByHeight resolves ids for blocks still being assembled,
	// which the RandomX seed lookup needs near the chain tip
	PendingBlockIDByHeight(height uint64) (types.Hash, error)
	BlockByID(id types.Hash) (*types.Block, error)
}

// PowBackends bundles the three proof-of-work hash functions. The functions
// themselves live outside the core; the dispatcher only routes among them.
type PowBackends struct {
	Felidae func(blob []byte, variant int) types.Hash
	RandomX func(seed types.Hash, blob []byte) types.Hash
	CnSlow  func(blob []byte, variant int, height uint64) types.Hash
}

var ErrNoPowBackend = errors.New("missing proof-of-work backend for fork version")

// RxSeedHeight returns the height whose block id seeds the RandomX dataset
// for the given height
func RxSeedHeight(height uint64) uint64 {
	if height <= rxSeedhashEpochBlocks+rxSeedhashEpochLag {
		return 0
	}
	return (height - rxSeedhashEpochLag - 1) &^ uint64(rxSeedhashEpochBlocks-1)
}

// isGovernanceSlot reports whether a height is a governance block under the
// rotating regime
func isGovernanceSlot(height uint64) bool {
	return height%GovernanceBlockInterval == 0
}

// GetBlockLonghashBlob routes a hashing blob to the proof-of-work function
// selected by fork version and height. When chain is nil the RandomX seed is
// all zeros, which only happens for the genesis block.
func GetBlockLonghashBlob(chain ChainReader, pow PowBackends, bd []byte,
	height uint64, majorVersion uint8, seedHash *types.Hash) (types.Hash, error) {

	if majorVersion >= RxBlockVersion {
		if majorVersion >= ForkGovernanceV2 && isGovernanceSlot(height) {
			if pow.Felidae == nil {
				return types.Hash{}, ErrNoPowBackend
			}
			return pow.Felidae(bd, 1), nil
		}

		var seed types.Hash
		switch {
		case seedHash != nil:
			seed = *seedHash
		case chain != nil:
			var err error
			seed, err = chain.PendingBlockIDByHeight(RxSeedHeight(height))
			if err != nil {
				return types.Hash{}, err
			}
		}
		if pow.RandomX == nil {
			return types.Hash{}, ErrNoPowBackend
		}
		return pow.RandomX(seed, bd), nil
	}

	if pow.CnSlow == nil {
		return types.Hash{}, ErrNoPowBackend
	}
	variant := 0
	if majorVersion >= 7 {
		variant = int(majorVersion) - 6
	}
	return pow.CnSlow(bd, variant, height), nil
}

// GetBlockLonghash hashes a block through the dispatcher
func GetBlockLonghash(chain ChainReader, pow PowBackends, b *types.Block,
	height uint64, seedHash *types.Hash) (types.Hash, error) {
	return GetBlockLonghashBlob(chain, pow, b.HashingBlob(), height, b.MajorVersion, seedHash)
}

// GetAltBlockLonghash hashes an alternative-chain block with an explicit
// RandomX seed, avoiding any chain lookup
func GetAltBlockLonghash(pow PowBackends, b *types.Block, seedHash types.Hash) (types.Hash, error) {
	height := b.Height()
	if b.MajorVersion >= ForkGovernanceV2 && isGovernanceSlot(height) {
		if pow.Felidae == nil {
			return types.Hash{}, ErrNoPowBackend
		}
		return pow.Felidae(b.HashingBlob(), 1), nil
	}
	if pow.RandomX == nil {
		return types.Hash{}, ErrNoPowBackend
	}
	return pow.RandomX(seedHash, b.HashingBlob()), nil
}
