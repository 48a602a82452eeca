package crypto

import (
	"crypto/rand"
	"encoding/binary"
	"errors"

	"filippo.io/edwards25519"

	"github.com/scala-network/scala/types"
)

var (
	ErrInvalidScalar = errors.New("scalar is not canonical")
	ErrInvalidPoint  = errors.New("point is not on the curve")
	ErrNotOurOutput  = errors.New("output does not belong to these account keys")
)

// KeyPair is a secret scalar with its derived public point
type KeyPair struct {
	Sec types.SecretKey
	Pub types.PublicKey
}

// AccountKeys holds the spend and view secrets of a sender account.
// A watch-only account carries an all-zero spend secret.
type AccountKeys struct {
	Address     types.Address
	SpendSecret types.SecretKey
	ViewSecret  types.SecretKey
}

// Wipe clears the account secrets
func (a *AccountKeys) Wipe() {
	a.SpendSecret.Wipe()
	a.ViewSecret.Wipe()
}

func scalarFromSecret(sk types.SecretKey) (*edwards25519.Scalar, error) {
	s, err := new(edwards25519.Scalar).SetCanonicalBytes(sk[:])
	if err != nil {
		return nil, ErrInvalidScalar
	}
	return s, nil
}

func pointFromPublic(pk types.PublicKey) (*edwards25519.Point, error) {
	p, err := new(edwards25519.Point).SetBytes(pk[:])
	if err != nil {
		return nil, ErrInvalidPoint
	}
	return p, nil
}

// reduce32 reduces a 32-byte little-endian value into the scalar field
func reduce32(b [32]byte) *edwards25519.Scalar {
	var wide [64]byte
	copy(wide[:32], b[:])
	s, _ := new(edwards25519.Scalar).SetUniformBytes(wide[:])
	return s
}

func hashToScalar(data ...[]byte) *edwards25519.Scalar {
	h := types.Keccak(data...)
	return reduce32(h)
}

// HashToScalar reduces the Keccak hash of the input into the scalar field
func HashToScalar(data ...[]byte) types.SecretKey {
	var out types.SecretKey
	copy(out[:], hashToScalar(data...).Bytes())
	return out
}

// hashToPoint maps bytes onto the prime-order subgroup
func hashToPoint(data []byte) *edwards25519.Point {
	return new(edwards25519.Point).ScalarBaseMult(hashToScalar(data))
}

// RandomScalar returns a uniformly random scalar
func RandomScalar() (types.SecretKey, error) {
	var seed [64]byte
	if _, err := rand.Read(seed[:]); err != nil {
		return types.SecretKey{}, err
	}
	s, err := new(edwards25519.Scalar).SetUniformBytes(seed[:])
	if err != nil {
		return types.SecretKey{}, err
	}
	var out types.SecretKey
	copy(out[:], s.Bytes())
	return out, nil
}

// NewKeyPair creates a fresh random keypair
func NewKeyPair() (*KeyPair, error) {
	sec, err := RandomScalar()
	if err != nil {
		return nil, err
	}
	pub, err := SecretKeyToPublic(sec)
	if err != nil {
		return nil, err
	}
	return &KeyPair{Sec: sec, Pub: pub}, nil
}

// GenerateKeys derives a keypair from a recovery seed: the secret is the seed
// reduced into the scalar field, the public is its base multiple.
func GenerateKeys(seed types.SecretKey) *KeyPair {
	s := reduce32([32]byte(seed))
	var kp KeyPair
	copy(kp.Sec[:], s.Bytes())
	copy(kp.Pub[:], new(edwards25519.Point).ScalarBaseMult(s).Bytes())
	return &kp
}

// SecretKeyToPublic computes sec * G
func SecretKeyToPublic(sec types.SecretKey) (types.PublicKey, error) {
	s, err := scalarFromSecret(sec)
	if err != nil {
		return types.PublicKey{}, err
	}
	var pub types.PublicKey
	copy(pub[:], new(edwards25519.Point).ScalarBaseMult(s).Bytes())
	return pub, nil
}

// ScalarmultPublic computes sec * pub
func ScalarmultPublic(pub types.PublicKey, sec types.SecretKey) (types.PublicKey, error) {
	s, err := scalarFromSecret(sec)
	if err != nil {
		return types.PublicKey{}, err
	}
	p, err := pointFromPublic(pub)
	if err != nil {
		return types.PublicKey{}, err
	}
	var out types.PublicKey
	copy(out[:], new(edwards25519.Point).ScalarMult(s, p).Bytes())
	return out, nil
}

// DeterministicKeypairFromHeight derives the public governance keypair for a
// height: the 64-bit height serialized little-endian seeds the secret. The
// layout is consensus-visible and must not change.
func DeterministicKeypairFromHeight(height uint64) *KeyPair {
	var seed types.SecretKey
	binary.LittleEndian.PutUint64(seed[:8], height)
	return GenerateKeys(seed)
}

// GenerateKeyDerivation computes the shared point 8 * (sec * pub)
func GenerateKeyDerivation(pub types.PublicKey, sec types.SecretKey) (types.KeyDerivation, error) {
	s, err := scalarFromSecret(sec)
	if err != nil {
		return types.KeyDerivation{}, err
	}
	p, err := pointFromPublic(pub)
	if err != nil {
		return types.KeyDerivation{}, err
	}
	d := new(edwards25519.Point).ScalarMult(s, p)
	d.MultByCofactor(d)
	var out types.KeyDerivation
	copy(out[:], d.Bytes())
	return out, nil
}

func derivationToScalar(d types.KeyDerivation, outputIndex int) *edwards25519.Scalar {
	buf := make([]byte, 0, 32+binary.MaxVarintLen64)
	buf = append(buf, d[:]...)
	buf = binary.AppendUvarint(buf, uint64(outputIndex))
	return hashToScalar(buf)
}

// DerivationToScalar computes H_s(derivation || varint(output_index))
func DerivationToScalar(d types.KeyDerivation, outputIndex int) types.SecretKey {
	var out types.SecretKey
	copy(out[:], derivationToScalar(d, outputIndex).Bytes())
	return out
}

// DerivePublicKey computes H_s(derivation || idx) * G + base
func DerivePublicKey(d types.KeyDerivation, outputIndex int, base types.PublicKey) (types.PublicKey, error) {
	b, err := pointFromPublic(base)
	if err != nil {
		return types.PublicKey{}, err
	}
	s := derivationToScalar(d, outputIndex)
	p := new(edwards25519.Point).ScalarBaseMult(s)
	p.Add(p, b)
	var out types.PublicKey
	copy(out[:], p.Bytes())
	return out, nil
}

// DeriveSecretKey computes H_s(derivation || idx) + base
func DeriveSecretKey(d types.KeyDerivation, outputIndex int, base types.SecretKey) (types.SecretKey, error) {
	b, err := scalarFromSecret(base)
	if err != nil {
		return types.SecretKey{}, err
	}
	s := derivationToScalar(d, outputIndex)
	s.Add(s, b)
	var out types.SecretKey
	copy(out[:], s.Bytes())
	return out, nil
}

// DeriveViewTag computes the scan hint byte for an output
func DeriveViewTag(d types.KeyDerivation, outputIndex int) types.ViewTag {
	buf := make([]byte, 0, 8+32+binary.MaxVarintLen64)
	buf = append(buf, []byte("view_tag")...)
	buf = append(buf, d[:]...)
	buf = binary.AppendUvarint(buf, uint64(outputIndex))
	h := types.Keccak(buf)
	return types.ViewTag(h[0])
}

// GenerateKeyImage computes sec * H_p(pub)
func GenerateKeyImage(pub types.PublicKey, sec types.SecretKey) (types.KeyImage, error) {
	s, err := scalarFromSecret(sec)
	if err != nil {
		return types.KeyImage{}, err
	}
	hp := hashToPoint(pub[:])
	img := new(edwards25519.Point).ScalarMult(s, hp)
	var out types.KeyImage
	copy(out[:], img.Bytes())
	return out, nil
}

// subaddressSecret computes H_s("SubAddr" || 0 || view_secret || major || minor)
func subaddressSecret(viewSecret types.SecretKey, index types.SubaddressIndex) *edwards25519.Scalar {
	buf := make([]byte, 0, 8+32+8)
	buf = append(buf, []byte("SubAddr\x00")...)
	buf = append(buf, viewSecret[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, index.Major)
	buf = binary.LittleEndian.AppendUint32(buf, index.Minor)
	return hashToScalar(buf)
}

// SubaddressSpendPublicKey derives the spend public key of a subaddress
func SubaddressSpendPublicKey(ack *AccountKeys, index types.SubaddressIndex) (types.PublicKey, error) {
	if index.IsZero() {
		return ack.Address.SpendKey, nil
	}
	base, err := pointFromPublic(ack.Address.SpendKey)
	if err != nil {
		return types.PublicKey{}, err
	}
	m := subaddressSecret(ack.ViewSecret, index)
	p := new(edwards25519.Point).ScalarBaseMult(m)
	p.Add(p, base)
	var out types.PublicKey
	copy(out[:], p.Bytes())
	return out, nil
}

// GenerateKeyImageHelper recovers the one-time ephemeral keypair of an owned
// output and its key image. The derived public key must match the output key
// recorded on chain; callers treat a mismatch as a mis-keyed source.
func GenerateKeyImageHelper(ack *AccountKeys, subaddresses map[types.PublicKey]types.SubaddressIndex,
	outKey, txPub types.PublicKey, additionalTxPubs []types.PublicKey, outputIndex int) (*KeyPair, types.KeyImage, error) {

	derivation, err := GenerateKeyDerivation(txPub, ack.ViewSecret)
	if err != nil {
		return nil, types.KeyImage{}, err
	}

	subIndex, found, err := lookupSpendKey(subaddresses, derivation, outKey, outputIndex)
	if err != nil {
		return nil, types.KeyImage{}, err
	}
	if !found && outputIndex < len(additionalTxPubs) {
		derivation, err = GenerateKeyDerivation(additionalTxPubs[outputIndex], ack.ViewSecret)
		if err != nil {
			return nil, types.KeyImage{}, err
		}
		subIndex, found, err = lookupSpendKey(subaddresses, derivation, outKey, outputIndex)
		if err != nil {
			return nil, types.KeyImage{}, err
		}
	}
	if !found {
		return nil, types.KeyImage{}, ErrNotOurOutput
	}

	// ephemeral secret: H_s(D || idx) + spend secret (+ subaddress secret).
	// A watch-only account contributes a zero spend term; the resulting key
	// image is deterministic but unsignable, which is what cold preparation
	// expects.
	sec := derivationToScalar(derivation, outputIndex)
	if !ack.SpendSecret.IsZero() {
		b, err := scalarFromSecret(ack.SpendSecret)
		if err != nil {
			return nil, types.KeyImage{}, err
		}
		sec.Add(sec, b)
	}
	if !subIndex.IsZero() {
		sec.Add(sec, subaddressSecret(ack.ViewSecret, subIndex))
	}

	spendPub, err := SubaddressSpendPublicKey(ack, subIndex)
	if err != nil {
		return nil, types.KeyImage{}, err
	}
	pub, err := DerivePublicKey(derivation, outputIndex, spendPub)
	if err != nil {
		return nil, types.KeyImage{}, err
	}

	var eph KeyPair
	copy(eph.Sec[:], sec.Bytes())
	eph.Pub = pub
	img, err := GenerateKeyImage(eph.Pub, eph.Sec)
	if err != nil {
		return nil, types.KeyImage{}, err
	}
	return &eph, img, nil
}

// lookupSpendKey strips the one-time factor from an output key and looks the
// remaining spend key up in the account's subaddress map
func lookupSpendKey(subaddresses map[types.PublicKey]types.SubaddressIndex,
	derivation types.KeyDerivation, outKey types.PublicKey, outputIndex int) (types.SubaddressIndex, bool, error) {

	out, err := pointFromPublic(outKey)
	if err != nil {
		return types.SubaddressIndex{}, false, err
	}
	scalar := derivationToScalar(derivation, outputIndex)
	spend := new(edwards25519.Point).ScalarBaseMult(scalar)
	spend.Negate(spend)
	spend.Add(spend, out)
	var candidate types.PublicKey
	copy(candidate[:], spend.Bytes())
	idx, ok := subaddresses[candidate]
	return idx, ok, nil
}

// Wipe zeroes a byte slice holding sensitive material
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
