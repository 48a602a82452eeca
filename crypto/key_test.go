package crypto

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scala-network/scala/types"
)

func TestDeterministicKeypairFromHeight(t *testing.T) {
	for _, height := range []uint64{0, 1, 16, 32, 1000, 1 << 40} {
		kp := DeterministicKeypairFromHeight(height)

		// the secret is the little-endian height in the first 8 bytes
		var seed types.SecretKey
		binary.LittleEndian.PutUint64(seed[:8], height)
		assert.Equal(t, seed, kp.Sec, "height %d", height)

		pub, err := SecretKeyToPublic(kp.Sec)
		require.NoError(t, err)
		assert.Equal(t, kp.Pub, pub, "pub must equal sec*G for height %d", height)
	}
}

func TestDeterministicKeypairIsStable(t *testing.T) {
	a := DeterministicKeypairFromHeight(42)
	b := DeterministicKeypairFromHeight(42)
	assert.Equal(t, a, b)
	c := DeterministicKeypairFromHeight(43)
	assert.NotEqual(t, a.Pub, c.Pub)
}

func TestDeriveKeysRoundTrip(t *testing.T) {
	recipientSpend, err := NewKeyPair()
	require.NoError(t, err)
	recipientView, err := NewKeyPair()
	require.NoError(t, err)
	txKey, err := NewKeyPair()
	require.NoError(t, err)

	// sender derives with (view pub, tx sec); recipient with (tx pub, view sec)
	senderSide, err := GenerateKeyDerivation(recipientView.Pub, txKey.Sec)
	require.NoError(t, err)
	recipientSide, err := GenerateKeyDerivation(txKey.Pub, recipientView.Sec)
	require.NoError(t, err)
	assert.Equal(t, senderSide, recipientSide)

	for _, idx := range []int{0, 1, 5, 127, 300} {
		outPub, err := DerivePublicKey(senderSide, idx, recipientSpend.Pub)
		require.NoError(t, err)
		outSec, err := DeriveSecretKey(recipientSide, idx, recipientSpend.Sec)
		require.NoError(t, err)

		fromSec, err := SecretKeyToPublic(outSec)
		require.NoError(t, err)
		assert.Equal(t, outPub, fromSec, "index %d", idx)
	}
}

func TestDerivePublicKeyDistinctPerIndex(t *testing.T) {
	view, err := NewKeyPair()
	require.NoError(t, err)
	spend, err := NewKeyPair()
	require.NoError(t, err)
	txKey, err := NewKeyPair()
	require.NoError(t, err)

	d, err := GenerateKeyDerivation(view.Pub, txKey.Sec)
	require.NoError(t, err)

	a, err := DerivePublicKey(d, 0, spend.Pub)
	require.NoError(t, err)
	b, err := DerivePublicKey(d, 1, spend.Pub)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestGenerateKeyImageDeterministic(t *testing.T) {
	kp, err := NewKeyPair()
	require.NoError(t, err)

	a, err := GenerateKeyImage(kp.Pub, kp.Sec)
	require.NoError(t, err)
	b, err := GenerateKeyImage(kp.Pub, kp.Sec)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	other, err := NewKeyPair()
	require.NoError(t, err)
	c, err := GenerateKeyImage(other.Pub, other.Sec)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func newAccount(t *testing.T) *AccountKeys {
	t.Helper()
	spend, err := NewKeyPair()
	require.NoError(t, err)
	view, err := NewKeyPair()
	require.NoError(t, err)
	return &AccountKeys{
		Address:     types.Address{SpendKey: spend.Pub, ViewKey: view.Pub},
		SpendSecret: spend.Sec,
		ViewSecret:  view.Sec,
	}
}

func TestGenerateKeyImageHelperRecoversOutput(t *testing.T) {
	ack := newAccount(t)
	subaddresses := map[types.PublicKey]types.SubaddressIndex{
		ack.Address.SpendKey: {},
	}

	txKey, err := NewKeyPair()
	require.NoError(t, err)
	d, err := GenerateKeyDerivation(ack.Address.ViewKey, txKey.Sec)
	require.NoError(t, err)
	outKey, err := DerivePublicKey(d, 3, ack.Address.SpendKey)
	require.NoError(t, err)

	eph, img, err := GenerateKeyImageHelper(ack, subaddresses, outKey, txKey.Pub, nil, 3)
	require.NoError(t, err)
	assert.Equal(t, outKey, eph.Pub)

	// the ephemeral secret opens the output key
	pub, err := SecretKeyToPublic(eph.Sec)
	require.NoError(t, err)
	assert.Equal(t, outKey, pub)

	expectedImg, err := GenerateKeyImage(eph.Pub, eph.Sec)
	require.NoError(t, err)
	assert.Equal(t, expectedImg, img)
}

func TestGenerateKeyImageHelperSubaddress(t *testing.T) {
	ack := newAccount(t)
	subIndex := types.SubaddressIndex{Major: 0, Minor: 3}
	subSpend, err := SubaddressSpendPublicKey(ack, subIndex)
	require.NoError(t, err)
	subaddresses := map[types.PublicKey]types.SubaddressIndex{
		ack.Address.SpendKey: {},
		subSpend:             subIndex,
	}

	txKey, err := NewKeyPair()
	require.NoError(t, err)
	d, err := GenerateKeyDerivation(ack.Address.ViewKey, txKey.Sec)
	require.NoError(t, err)
	outKey, err := DerivePublicKey(d, 0, subSpend)
	require.NoError(t, err)

	eph, _, err := GenerateKeyImageHelper(ack, subaddresses, outKey, txKey.Pub, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, outKey, eph.Pub)

	pub, err := SecretKeyToPublic(eph.Sec)
	require.NoError(t, err)
	assert.Equal(t, outKey, pub)
}

func TestGenerateKeyImageHelperRejectsForeignOutput(t *testing.T) {
	ack := newAccount(t)
	other := newAccount(t)
	subaddresses := map[types.PublicKey]types.SubaddressIndex{
		ack.Address.SpendKey: {},
	}

	txKey, err := NewKeyPair()
	require.NoError(t, err)
	d, err := GenerateKeyDerivation(other.Address.ViewKey, txKey.Sec)
	require.NoError(t, err)
	outKey, err := DerivePublicKey(d, 0, other.Address.SpendKey)
	require.NoError(t, err)

	_, _, err = GenerateKeyImageHelper(ack, subaddresses, outKey, txKey.Pub, nil, 0)
	assert.ErrorIs(t, err, ErrNotOurOutput)
}

func TestWipe(t *testing.T) {
	sec := types.SecretKey{1, 2, 3}
	sec.Wipe()
	assert.True(t, sec.IsZero())

	b := []byte{9, 9, 9}
	Wipe(b)
	assert.Equal(t, []byte{0, 0, 0}, b)
}
