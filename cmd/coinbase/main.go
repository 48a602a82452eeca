package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"log"

	"github.com/scala-network/scala/builder"
	"github.com/scala-network/scala/consensus"
	"github.com/scala-network/scala/crypto"
	"github.com/scala-network/scala/governance"
	"github.com/scala-network/scala/types"
)

func main() {
	height := flag.Uint64("height", 1, "block height")
	fork := flag.Uint("fork", consensus.ForkGovernanceV2, "hard fork version")
	fee := flag.Uint64("fee", 0, "total transaction fees in the block")
	maxOuts := flag.Int("max-outs", 1, "maximum coinbase outputs")
	medianWeight := flag.Uint64("median-weight", consensus.FullRewardZone, "median block weight")
	weight := flag.Uint64("weight", 0, "current block weight")
	generated := flag.Uint64("generated", 0, "coins already generated")
	flag.Parse()

	if *fork <= consensus.ForkGovernanceV1End && *fork >= consensus.ForkGovernanceV1Start {
		log.Fatalf("legacy governance forks need a wallet address codec; use fork >= %d", consensus.ForkGovernanceV2)
	}

	// throwaway miner account for demonstration
	spend, err := crypto.NewKeyPair()
	if err != nil {
		log.Fatalf("Failed to generate miner keys: %v", err)
	}
	view, err := crypto.NewKeyPair()
	if err != nil {
		log.Fatalf("Failed to generate miner keys: %v", err)
	}
	minerAddr := types.Address{SpendKey: spend.Pub, ViewKey: view.Pub}

	var tx types.Transaction
	params := &builder.MinerTxParams{
		Height:                *height,
		MedianWeight:          *medianWeight,
		AlreadyGeneratedCoins: *generated,
		CurrentBlockWeight:    *weight,
		Fee:                   *fee,
		MinerAddress:          minerAddr,
		MaxOuts:               *maxOuts,
		ForkVersion:           uint8(*fork),
		Network:               governance.Mainnet,
		Schedule:              consensus.DefaultSchedule{},
	}
	if err := builder.ConstructMinerTx(params, &tx); err != nil {
		log.Fatalf("Failed to construct miner tx: %v", err)
	}

	fmt.Println("Miner transaction constructed")
	fmt.Println("  hash:       ", tx.Hash())
	fmt.Println("  version:    ", tx.Version)
	fmt.Println("  unlock time:", tx.UnlockTime)
	fmt.Println("  outputs:    ", len(tx.Vout))
	for i, out := range tx.Vout {
		fmt.Printf("  vout[%d]: %d -> %s\n", i, out.Amount, out.OutputKey())
	}
	fmt.Println("  blob:")
	fmt.Println("   ", hex.EncodeToString(tx.Serialize()))
}
