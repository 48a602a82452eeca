package consensus

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scala-network/scala/types"
)

type powRecorder struct {
	felidae int
	randomx int
	cnSlow  int

	lastVariant int
	lastSeed    types.Hash
	lastHeight  uint64
}

func (r *powRecorder) backends() PowBackends {
	return PowBackends{
		Felidae: func(blob []byte, variant int) types.Hash {
			r.felidae++
			r.lastVariant = variant
			return types.Keccak([]byte("felidae"), blob)
		},
		RandomX: func(seed types.Hash, blob []byte) types.Hash {
			r.randomx++
			r.lastSeed = seed
			return types.Keccak([]byte("rx"), seed[:], blob)
		},
		CnSlow: func(blob []byte, variant int, height uint64) types.Hash {
			r.cnSlow++
			r.lastVariant = variant
			r.lastHeight = height
			return types.Keccak([]byte("cn"), blob)
		},
	}
}

type stubChain struct {
	seedID types.Hash
}

func (c *stubChain) CurrentHeight() (uint64, error)                  { return 0, errors.New("unused") }
func (c *stubChain) BlockIDByHeight(uint64) (types.Hash, error)      { return c.seedID, nil }
func (c *stubChain) PendingBlockIDByHeight(uint64) (types.Hash, error) { return c.seedID, nil }
func (c *stubChain) BlockByID(types.Hash) (*types.Block, error)      { return nil, errors.New("unused") }

func TestDispatchGovernanceSlotUsesFelidae(t *testing.T) {
	r := &powRecorder{}
	_, err := GetBlockLonghashBlob(nil, r.backends(), []byte("bd"), 100, 13, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, r.felidae)
	assert.Equal(t, 1, r.lastVariant)
	assert.Zero(t, r.randomx)
}

func TestDispatchNonGovernanceSlotUsesRandomX(t *testing.T) {
	r := &powRecorder{}
	chain := &stubChain{seedID: types.Keccak([]byte("seed"))}
	_, err := GetBlockLonghashBlob(chain, r.backends(), []byte("bd"), 101, 13, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, r.randomx)
	assert.Equal(t, chain.seedID, r.lastSeed)
	assert.Zero(t, r.felidae)
}

func TestDispatchRandomXZeroSeedWithoutChain(t *testing.T) {
	r := &powRecorder{}
	_, err := GetBlockLonghashBlob(nil, r.backends(), []byte("bd"), 101, RxBlockVersion, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, r.randomx)
	assert.Equal(t, types.Hash{}, r.lastSeed, "genesis hashing uses the zero seed")
}

func TestDispatchExplicitSeedWins(t *testing.T) {
	r := &powRecorder{}
	chain := &stubChain{seedID: types.Keccak([]byte("chain"))}
	seed := types.Keccak([]byte("explicit"))
	_, err := GetBlockLonghashBlob(chain, r.backends(), []byte("bd"), 101, RxBlockVersion, &seed)
	require.NoError(t, err)
	assert.Equal(t, seed, r.lastSeed)
}

func TestDispatchCnSlowVariants(t *testing.T) {
	cases := []struct {
		major   uint8
		variant int
	}{
		{1, 0},
		{6, 0},
		{7, 1},
	}
	for _, tc := range cases {
		r := &powRecorder{}
		_, err := GetBlockLonghashBlob(nil, r.backends(), []byte("bd"), 55, tc.major, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, r.cnSlow, "major %d", tc.major)
		assert.Equal(t, tc.variant, r.lastVariant, "major %d", tc.major)
		assert.Equal(t, uint64(55), r.lastHeight)
	}
}

func TestDispatchMissingBackend(t *testing.T) {
	_, err := GetBlockLonghashBlob(nil, PowBackends{}, []byte("bd"), 100, 13, nil)
	assert.ErrorIs(t, err, ErrNoPowBackend)
}

func TestGetAltBlockLonghash(t *testing.T) {
	r := &powRecorder{}
	seed := types.Keccak([]byte("alt-seed"))

	govBlock := &types.Block{MajorVersion: 13}
	govBlock.MinerTx.Version = 1
	govBlock.MinerTx.Vin = []types.TxIn{types.TxInGen{Height: 8}}
	_, err := GetAltBlockLonghash(r.backends(), govBlock, seed)
	require.NoError(t, err)
	assert.Equal(t, 1, r.felidae)

	normal := &types.Block{MajorVersion: 13}
	normal.MinerTx.Version = 1
	normal.MinerTx.Vin = []types.TxIn{types.TxInGen{Height: 9}}
	_, err = GetAltBlockLonghash(r.backends(), normal, seed)
	require.NoError(t, err)
	assert.Equal(t, 1, r.randomx)
	assert.Equal(t, seed, r.lastSeed)
}

func TestRxSeedHeight(t *testing.T) {
	assert.Equal(t, uint64(0), RxSeedHeight(0))
	assert.Equal(t, uint64(0), RxSeedHeight(2048))
	assert.Equal(t, uint64(0), RxSeedHeight(2112))
	assert.Equal(t, uint64(2048), RxSeedHeight(2113))
	assert.Equal(t, uint64(2048), RxSeedHeight(4000))
	assert.Equal(t, uint64(4096), RxSeedHeight(5000))
}
