package builder

import (
	"encoding/hex"
	"fmt"

	"github.com/scala-network/scala/types"
)

// GenerateGenesisBlock reconstructs the genesis block from its hard-coded
// coinbase blob. The nonce is fixed by the published chain.
func GenerateGenesisBlock(genesisTxHex string, nonce uint32, majorVersion, minorVersion uint8) (*types.Block, error) {
	blob, err := hex.DecodeString(genesisTxHex)
	if err != nil {
		return nil, fmt.Errorf("genesis coinbase blob: %w", err)
	}
	minerTx, err := types.ParseTransaction(blob)
	if err != nil {
		return nil, fmt.Errorf("genesis coinbase blob: %w", err)
	}

	block := &types.Block{
		MajorVersion: majorVersion,
		MinorVersion: minorVersion,
		Timestamp:    0,
		Nonce:        nonce,
		MinerTx:      *minerTx,
	}
	block.InvalidateHashes()
	return block, nil
}
