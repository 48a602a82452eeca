package governance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scala-network/scala/builder"
	"github.com/scala-network/scala/consensus"
	"github.com/scala-network/scala/crypto"
	"github.com/scala-network/scala/governance"
	"github.com/scala-network/scala/storage"
	"github.com/scala-network/scala/types"
)

type testCodec struct{}

func (testCodec) Parse(_ governance.NetworkType, s string) (types.Address, error) {
	spend := crypto.GenerateKeys(crypto.HashToScalar([]byte("spend"), []byte(s)))
	view := crypto.GenerateKeys(crypto.HashToScalar([]byte("view"), []byte(s)))
	return types.Address{SpendKey: spend.Pub, ViewKey: view.Pub}, nil
}

func TestV1RewardAddressRotation(t *testing.T) {
	// heights 1..15 walk entries 0..14; multiples of 16 wrap to entry 15
	assert.Equal(t, governance.V1RewardAddress(1), governance.V1RewardAddress(17))
	assert.Equal(t, governance.V1RewardAddress(16), governance.V1RewardAddress(32))
	assert.NotEqual(t, governance.V1RewardAddress(16), governance.V1RewardAddress(1))

	seen := map[string]struct{}{}
	for h := uint64(1); h <= 16; h++ {
		seen[governance.V1RewardAddress(h)] = struct{}{}
	}
	// the published table repeats some payees, so distinct strings are fewer
	// than sixteen
	assert.Greater(t, len(seen), 8)
}

func TestReward(t *testing.T) {
	assert.Equal(t, uint64(1000), governance.Reward(32, 4000))
	assert.Equal(t, uint64(0), governance.Reward(32, 3))
}

func TestAddressesV2Networks(t *testing.T) {
	assert.Empty(t, governance.AddressesV2(governance.Mainnet))
	assert.Len(t, governance.AddressesV2(governance.Testnet), 35)
	assert.Len(t, governance.AddressesV2(governance.Stagenet), 3)
	assert.Empty(t, governance.AddressesV2(governance.Fakechain))
}

func TestValidateRewardKeyRoundTrip(t *testing.T) {
	codec := testCodec{}
	const height = 48

	addrStr := governance.V1RewardAddress(height)
	addr, err := codec.Parse(governance.Mainnet, addrStr)
	require.NoError(t, err)

	key := crypto.DeterministicKeypairFromHeight(height)
	outKey, err := governance.DeterministicOutputKey(addr, key, 1)
	require.NoError(t, err)

	ok, err := governance.ValidateRewardKey(height, addrStr, 1, outKey, governance.Mainnet, codec)
	require.NoError(t, err)
	assert.True(t, ok)

	// wrong index or wrong height must not validate
	ok, err = governance.ValidateRewardKey(height, addrStr, 2, outKey, governance.Mainnet, codec)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = governance.ValidateRewardKey(height+1, addrStr, 1, outKey, governance.Mainnet, codec)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestValidateRewardKeyNeedsCodec(t *testing.T) {
	_, err := governance.ValidateRewardKey(16, governance.V1RewardAddress(16), 1, types.PublicKey{}, governance.Mainnet, nil)
	assert.ErrorIs(t, err, governance.ErrNoCodec)
}

func TestIsGovernanceMinerMatchesByViewKeyOnly(t *testing.T) {
	codec := testCodec{}
	listed, err := codec.Parse(governance.Testnet, governance.AddressesV2(governance.Testnet)[3])
	require.NoError(t, err)

	ok, matched, err := governance.IsGovernanceMiner(governance.Testnet, listed, codec)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, governance.AddressesV2(governance.Testnet)[3], matched)

	// same view key, different spend key: still classified as governance
	collided := listed
	collided.SpendKey[0] ^= 0xff
	ok, _, err = governance.IsGovernanceMiner(governance.Testnet, collided, codec)
	require.NoError(t, err)
	assert.True(t, ok)

	// unrelated view key: not governance
	stranger, err := crypto.NewKeyPair()
	require.NoError(t, err)
	ok, _, err = governance.IsGovernanceMiner(governance.Testnet, types.Address{ViewKey: stranger.Pub}, codec)
	require.NoError(t, err)
	assert.False(t, ok)
}

func minerAddress(t *testing.T) types.Address {
	t.Helper()
	spend, err := crypto.NewKeyPair()
	require.NoError(t, err)
	view, err := crypto.NewKeyPair()
	require.NoError(t, err)
	return types.Address{SpendKey: spend.Pub, ViewKey: view.Pub}
}

type fixedSchedule uint64

func (s fixedSchedule) BlockReward(_, _, _ uint64, _ uint8, _ uint64) (uint64, error) {
	return uint64(s), nil
}

func buildBlockAt(t *testing.T, height uint64, fork uint8) *types.Block {
	t.Helper()
	var tx types.Transaction
	err := builder.ConstructMinerTx(&builder.MinerTxParams{
		Height:                height,
		MedianWeight:          consensus.FullRewardZone,
		AlreadyGeneratedCoins: 1,
		MinerAddress:          minerAddress(t),
		MaxOuts:               4,
		ForkVersion:           fork,
		Network:               governance.Mainnet,
		Schedule:              fixedSchedule(4_000),
		Codec:                 testCodec{},
	}, &tx)
	require.NoError(t, err)
	return &types.Block{MajorVersion: fork, MinerTx: tx}
}

func TestCheckLastGovernanceMiner(t *testing.T) {
	chain, err := storage.Open(t.TempDir())
	require.NoError(t, err)
	defer chain.Close()

	// the block at current-4 carries the v1 carve-out as its final output
	for h := uint64(32); h <= 36; h++ {
		require.NoError(t, chain.PutBlock(h, buildBlockAt(t, h, 10)))
	}

	ok, err := governance.CheckLastGovernanceMiner(chain, governance.V1RewardAddress(32), governance.Mainnet, testCodec{})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = governance.CheckLastGovernanceMiner(chain, governance.V1RewardAddress(5), governance.Mainnet, testCodec{})
	require.NoError(t, err)
	assert.False(t, ok)
}
