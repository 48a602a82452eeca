package builder

import (
	"fmt"

	"github.com/scala-network/scala/consensus"
	"github.com/scala-network/scala/crypto"
	"github.com/scala-network/scala/governance"
	"github.com/scala-network/scala/types"
)

// MinerTxParams carries everything needed to assemble a coinbase transaction
type MinerTxParams struct {
	Height                uint64
	MedianWeight          uint64
	AlreadyGeneratedCoins uint64
	CurrentBlockWeight    uint64
	Fee                   uint64
	MinerAddress          types.Address
	ExtraNonce            []byte
	MaxOuts               int
	ForkVersion           uint8
	Network               governance.NetworkType
	Schedule              consensus.RewardSchedule
	Codec                 governance.AddressCodec
}

func (p *MinerTxParams) legacyGovernance() bool {
	return p.ForkVersion >= consensus.ForkGovernanceV1Start &&
		p.ForkVersion <= consensus.ForkGovernanceV1End &&
		p.Height > 15
}

// ConstructMinerTx assembles a coinbase transaction: base reward, governance
// split, denomination decomposition and stealth outputs, with the single gen
// input. On failure the transaction is left empty.
func ConstructMinerTx(p *MinerTxParams, tx *types.Transaction) (err error) {
	tx.SetNull()
	defer func() {
		if err != nil {
			tx.SetNull()
		}
	}()

	// rotating governance: a governance slot mined by a listed address uses
	// the deterministic height-keyed tx secret so anyone can audit the block
	governanceBlock := false
	if p.ForkVersion >= consensus.ForkGovernanceV2 && p.Height%consensus.GovernanceBlockInterval == 0 {
		isMiner, _, gerr := governance.IsGovernanceMiner(p.Network, p.MinerAddress, p.Codec)
		if gerr != nil {
			return gerr
		}
		governanceBlock = isMiner
	}

	var txKey *crypto.KeyPair
	if governanceBlock {
		txKey = crypto.DeterministicKeypairFromHeight(p.Height)
	} else {
		txKey, err = crypto.NewKeyPair()
		if err != nil {
			return err
		}
	}

	extra := types.AddTxPubKeyToExtra(nil, txKey.Pub)
	if len(p.ExtraNonce) > 0 {
		if extra, err = types.AddExtraNonceToExtra(extra, p.ExtraNonce); err != nil {
			return err
		}
	}
	if extra, err = types.SortExtra(extra); err != nil {
		return err
	}

	blockReward, err := p.Schedule.BlockReward(p.MedianWeight, p.CurrentBlockWeight, p.AlreadyGeneratedCoins, p.ForkVersion, p.Height)
	if err != nil {
		return fmt.Errorf("block reward: %w", err)
	}

	var diardiReward uint64
	if p.legacyGovernance() {
		diardiReward = governance.Reward(p.Height, blockReward)
		blockReward -= diardiReward
	}

	blockReward += p.Fee

	// between forks 2 and 4 the coinbase is quantized to keep it small
	if p.ForkVersion >= 2 && p.ForkVersion < consensus.ForkRewardClampEnd {
		blockReward -= blockReward % consensus.BaseRewardClampThreshold
	}

	dustThreshold := uint64(consensus.DefaultDustThreshold)
	if p.ForkVersion >= 2 {
		dustThreshold = 0
	}
	var outAmounts []uint64
	DecomposeAmountIntoDigits(blockReward, dustThreshold,
		func(chunk uint64) { outAmounts = append(outAmounts, chunk) },
		func(dust uint64) { outAmounts = append(outAmounts, dust) })

	if p.MaxOuts < 1 {
		return ErrMaxOutsExceeded
	}
	if p.Height == 0 || p.ForkVersion >= consensus.ForkRctTx {
		// fold the lowest denomination into its neighbor until it fits
		for len(outAmounts) > p.MaxOuts {
			outAmounts[1] += outAmounts[0]
			copy(outAmounts, outAmounts[1:])
			outAmounts = outAmounts[:len(outAmounts)-1]
		}
	} else if len(outAmounts) > p.MaxOuts {
		return ErrMaxOutsExceeded
	}

	var summary uint64
	for no, amount := range outAmounts {
		derivation, derr := crypto.GenerateKeyDerivation(p.MinerAddress.ViewKey, txKey.Sec)
		if derr != nil {
			return fmt.Errorf("output %d: %w", no, derr)
		}
		outKey, derr := crypto.DerivePublicKey(derivation, no, p.MinerAddress.SpendKey)
		if derr != nil {
			return fmt.Errorf("output %d: %w", no, derr)
		}
		tx.Vout = append(tx.Vout, types.TxOut{Amount: amount, Target: types.TxOutToKey{Key: outKey}})
		summary += amount
	}

	if p.legacyGovernance() && p.AlreadyGeneratedCoins != 0 {
		if p.Codec == nil {
			return governance.ErrNoCodec
		}
		diardiKey := crypto.DeterministicKeypairFromHeight(p.Height)
		// appended after the canonical sort so both tx public keys survive
		extra = types.AddTxPubKeyToExtra(extra, diardiKey.Pub)

		// the v1 table is always parsed as mainnet addresses
		addrStr := governance.V1RewardAddress(p.Height)
		addr, perr := p.Codec.Parse(governance.Mainnet, addrStr)
		if perr != nil {
			return fmt.Errorf("governance address: %w", perr)
		}
		outKey, derr := governance.DeterministicOutputKey(addr, diardiKey, 1)
		if derr != nil {
			return derr
		}
		tx.Vout = append(tx.Vout, types.TxOut{Amount: diardiReward, Target: types.TxOutToKey{Key: outKey}})
		summary += diardiReward

		if summary != blockReward+diardiReward {
			return fmt.Errorf("miner tx amounts %d do not add up to %d", summary, blockReward+diardiReward)
		}
	}

	if p.ForkVersion >= consensus.ForkRctTx {
		tx.Version = 2
	} else {
		tx.Version = 1
	}
	tx.UnlockTime = p.Height + consensus.MinedMoneyUnlockWindow
	tx.Vin = append(tx.Vin, types.TxInGen{Height: p.Height})
	tx.Extra = extra
	tx.InvalidateHashes()
	return nil
}
