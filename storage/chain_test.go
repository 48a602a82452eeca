package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scala-network/scala/types"
)

func testBlock(height uint64) *types.Block {
	var tx types.Transaction
	tx.Version = 2
	tx.UnlockTime = height + 60
	tx.Vin = []types.TxIn{types.TxInGen{Height: height}}
	tx.Vout = []types.TxOut{{Amount: 1000, Target: types.TxOutToKey{Key: types.PublicKey{byte(height)}}}}
	return &types.Block{
		MajorVersion: 13,
		MinorVersion: 13,
		Timestamp:    1_700_000_000 + height,
		MinerTx:      tx,
	}
}

func TestChainIndexRoundTrip(t *testing.T) {
	chain, err := Open(t.TempDir())
	require.NoError(t, err)
	defer chain.Close()

	block := testBlock(5)
	require.NoError(t, chain.PutBlock(5, block))

	id, err := chain.BlockIDByHeight(5)
	require.NoError(t, err)
	assert.Equal(t, block.ID(), id)

	got, err := chain.BlockByID(id)
	require.NoError(t, err)
	assert.Equal(t, block.ID(), got.ID())
	assert.Equal(t, uint64(5), got.Height())

	pending, err := chain.PendingBlockIDByHeight(5)
	require.NoError(t, err)
	assert.Equal(t, id, pending)
}

func TestChainIndexCurrentHeight(t *testing.T) {
	chain, err := Open(t.TempDir())
	require.NoError(t, err)
	defer chain.Close()

	_, err = chain.CurrentHeight()
	assert.ErrorIs(t, err, ErrEmptyChain)

	require.NoError(t, chain.PutBlock(3, testBlock(3)))
	require.NoError(t, chain.PutBlock(7, testBlock(7)))
	require.NoError(t, chain.PutBlock(5, testBlock(5)))

	height, err := chain.CurrentHeight()
	require.NoError(t, err)
	assert.Equal(t, uint64(7), height, "tip keeps the highest stored height")
}

func TestChainIndexMissingBlock(t *testing.T) {
	chain, err := Open(t.TempDir())
	require.NoError(t, err)
	defer chain.Close()

	_, err = chain.BlockIDByHeight(99)
	assert.ErrorIs(t, err, ErrBlockNotFound)

	_, err = chain.BlockByID(types.Keccak([]byte("nope")))
	assert.ErrorIs(t, err, ErrBlockNotFound)
}
