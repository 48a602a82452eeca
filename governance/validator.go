package governance

import (
	"fmt"

	"github.com/scala-network/scala/consensus"
	"github.com/scala-network/scala/crypto"
	"github.com/scala-network/scala/types"
)

// Reward returns the governance carve-out for a block: one quarter of the
// base reward.
func Reward(height, baseReward uint64) uint64 {
	return baseReward / 4
}

// DeterministicOutputKey derives the output key the governance address must
// be paid with at a given index, using the height-keyed transaction key.
func DeterministicOutputKey(addr types.Address, txKey *crypto.KeyPair, outputIndex int) (types.PublicKey, error) {
	derivation, err := crypto.GenerateKeyDerivation(addr.ViewKey, txKey.Sec)
	if err != nil {
		return types.PublicKey{}, fmt.Errorf("generate key derivation: %w", err)
	}
	outKey, err := crypto.DerivePublicKey(derivation, outputIndex, addr.SpendKey)
	if err != nil {
		return types.PublicKey{}, fmt.Errorf("derive public key: %w", err)
	}
	return outKey, nil
}

// ValidateRewardKey checks that an observed coinbase output key pays the
// governance address published for the height. The address string is parsed
// for the given network.
func ValidateRewardKey(height uint64, addressStr string, outputIndex int,
	outputKey types.PublicKey, net NetworkType, codec AddressCodec) (bool, error) {

	if codec == nil {
		return false, ErrNoCodec
	}
	key := crypto.DeterministicKeypairFromHeight(height)
	addr, err := codec.Parse(net, addressStr)
	if err != nil {
		return false, fmt.Errorf("parse governance address: %w", err)
	}
	expected, err := DeterministicOutputKey(addr, key, outputIndex)
	if err != nil {
		return false, err
	}
	return expected == outputKey, nil
}

// IsGovernanceMiner reports whether a miner address belongs to the rotating
// governance set. Matching is by view public key alone: a view-key collision
// with a listed address would classify as governance. This mirrors the
// deployed consensus rule and must not be tightened without a network
// upgrade.
func IsGovernanceMiner(net NetworkType, minerAddr types.Address, codec AddressCodec) (bool, string, error) {
	if codec == nil {
		return false, "", nil
	}
	for _, s := range AddressesV2(net) {
		addr, err := codec.Parse(net, s)
		if err != nil {
			return false, "", fmt.Errorf("parse governance address: %w", err)
		}
		if addr.ViewKey == minerAddr.ViewKey {
			return true, s, nil
		}
	}
	return false, "", nil
}

// CheckLastGovernanceMiner confirms that the most recent governance block
// paid its final coinbase output to the candidate address. Governance blocks
// recur every four heights, so the last one sits at current_height - 4.
func CheckLastGovernanceMiner(chain consensus.ChainReader, walletAddress string,
	net NetworkType, codec AddressCodec) (bool, error) {

	current, err := chain.CurrentHeight()
	if err != nil {
		return false, err
	}
	if current < consensus.GovernanceBlockInterval {
		return false, nil
	}
	lastHeight := current - consensus.GovernanceBlockInterval

	id, err := chain.BlockIDByHeight(lastHeight)
	if err != nil {
		return false, err
	}
	block, err := chain.BlockByID(id)
	if err != nil {
		return false, err
	}
	vout := block.MinerTx.Vout
	if len(vout) == 0 {
		return false, nil
	}
	last := vout[len(vout)-1]
	return ValidateRewardKey(lastHeight, walletAddress, len(vout)-1, last.OutputKey(), net, codec)
}
