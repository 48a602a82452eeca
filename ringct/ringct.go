package ringct

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"errors"

	"filippo.io/edwards25519"
	"golang.org/x/crypto/sha3"
)

// Key is a 32-byte scalar or compressed point in the confidential layer
type Key [32]byte

func (k Key) String() string {
	return hex.EncodeToString(k[:])
}

// Wipe overwrites the key in place
func (k *Key) Wipe() {
	for i := range k {
		k[i] = 0
	}
}

// CtKey pairs a one-time key with a Pedersen commitment, or a secret with its mask
type CtKey struct {
	Dest Key
	Mask Key
}

// Wipe overwrites both halves in place
func (c *CtKey) Wipe() {
	c.Dest.Wipe()
	c.Mask.Wipe()
}

// EcdhTuple carries the encrypted amount (and mask, for legacy types) of one output
type EcdhTuple struct {
	Mask   Key
	Amount Key
}

// RangeProofType selects the range-proof family used by a signature
type RangeProofType int

const (
	RangeProofBorromean RangeProofType = iota
	RangeProofBulletproof
	RangeProofBulletproofPlus
)

// Config selects the signature shape for a construction
type Config struct {
	RangeProofType RangeProofType
	BpVersion      int
}

// SigType is the discriminant of the signature bundle
type SigType byte

const (
	TypeNull            SigType = 0
	TypeFull            SigType = 1
	TypeSimple          SigType = 2
	TypeBulletproof     SigType = 3
	TypeBulletproof2    SigType = 4
	TypeCLSAG           SigType = 5
	TypeBulletproofPlus SigType = 6
)

// CompactAmounts reports whether the type stores 8-byte encrypted amounts
func (t SigType) CompactAmounts() bool {
	return t >= TypeBulletproof2
}

// Simple reports whether the type uses per-input pseudo-output commitments
func (t SigType) Simple() bool {
	return t != TypeFull
}

var errInvalidKey = errors.New("key is not a canonical curve element")

// hKey is the Pedersen commitment base H
const hKey = "8b655970153799af2aeadc9ff1add0ea6c7251d54154cfa92c173a0dd39c1f94"

var pointH = mustPoint(hKey)

func mustPoint(h string) *edwards25519.Point {
	b, err := hex.DecodeString(h)
	if err != nil {
		panic(err)
	}
	p, err := new(edwards25519.Point).SetBytes(b)
	if err != nil {
		panic(err)
	}
	return p
}

func keccak(data ...[]byte) Key {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	var out Key
	h.Sum(out[:0])
	return out
}

// scalarFromKey interprets a key as a canonical scalar
func scalarFromKey(k Key) (*edwards25519.Scalar, error) {
	s, err := new(edwards25519.Scalar).SetCanonicalBytes(k[:])
	if err != nil {
		return nil, errInvalidKey
	}
	return s, nil
}

// hashToScalar reduces a Keccak hash into the scalar field
func hashToScalar(data ...[]byte) *edwards25519.Scalar {
	k := keccak(data...)
	var wide [64]byte
	copy(wide[:32], k[:])
	s, _ := new(edwards25519.Scalar).SetUniformBytes(wide[:])
	return s
}

// RandomScalarKey returns a uniformly random scalar as a key
func RandomScalarKey() (Key, error) {
	var seed [64]byte
	if _, err := rand.Read(seed[:]); err != nil {
		return Key{}, err
	}
	s, err := new(edwards25519.Scalar).SetUniformBytes(seed[:])
	if err != nil {
		return Key{}, err
	}
	var out Key
	copy(out[:], s.Bytes())
	return out, nil
}

// Commit computes the Pedersen commitment mask*G + amount*H
func Commit(amount uint64, mask Key) (Key, error) {
	m, err := scalarFromKey(mask)
	if err != nil {
		return Key{}, err
	}
	a := amountToScalar(amount)
	c := new(edwards25519.Point).ScalarBaseMult(m)
	c.Add(c, new(edwards25519.Point).ScalarMult(a, pointH))
	var out Key
	copy(out[:], c.Bytes())
	return out, nil
}

// ZeroCommit computes the commitment with the identity mask, G + amount*H
func ZeroCommit(amount uint64) Key {
	one := identityMask()
	c, _ := Commit(amount, one)
	return c
}

func identityMask() Key {
	var k Key
	k[0] = 1
	return k
}

func amountToScalar(amount uint64) *edwards25519.Scalar {
	var b [32]byte
	binary.LittleEndian.PutUint64(b[:8], amount)
	s, _ := new(edwards25519.Scalar).SetCanonicalBytes(b[:])
	return s
}

// GenCommitmentMask derives the deterministic output mask from an amount key
func GenCommitmentMask(sharedSecret Key) Key {
	s := hashToScalar([]byte("commitment_mask"), sharedSecret[:])
	var out Key
	copy(out[:], s.Bytes())
	return out
}

// EcdhEncode encrypts an amount (and mask, for legacy types) under the shared secret
func EcdhEncode(amount uint64, mask Key, sharedSecret Key, compact bool) EcdhTuple {
	var t EcdhTuple
	if compact {
		pad := keccak([]byte("amount"), sharedSecret[:])
		binary.LittleEndian.PutUint64(t.Amount[:8], amount)
		for i := 0; i < 8; i++ {
			t.Amount[i] ^= pad[i]
		}
		return t
	}
	sec1 := hashToScalar(sharedSecret[:])
	sec2 := hashToScalar(sec1.Bytes())
	m, _ := scalarFromKey(mask)
	m.Add(m, sec1)
	copy(t.Mask[:], m.Bytes())
	a := amountToScalar(amount)
	a.Add(a, sec2)
	copy(t.Amount[:], a.Bytes())
	return t
}

// EcdhDecode recovers the amount (and mask) from an ecdh tuple
func EcdhDecode(t EcdhTuple, sharedSecret Key, compact bool) (uint64, Key) {
	if compact {
		pad := keccak([]byte("amount"), sharedSecret[:])
		var amt [8]byte
		for i := 0; i < 8; i++ {
			amt[i] = t.Amount[i] ^ pad[i]
		}
		return binary.LittleEndian.Uint64(amt[:]), Key{}
	}
	sec1 := hashToScalar(sharedSecret[:])
	sec2 := hashToScalar(sec1.Bytes())
	m, _ := scalarFromKey(t.Mask)
	m.Subtract(m, sec1)
	var mask Key
	copy(mask[:], m.Bytes())
	a, _ := scalarFromKey(t.Amount)
	a.Subtract(a, sec2)
	return binary.LittleEndian.Uint64(a.Bytes()[:8]), mask
}

// Sig is a RingCT signature bundle
type Sig struct {
	Type       SigType
	Message    Key
	MixRing    [][]CtKey // not serialized, carried for signing and verification
	PseudoOuts []Key
	EcdhInfo   []EcdhTuple
	OutPk      []CtKey
	Fee        uint64

	// Prunable proof data produced by the proof backend
	RangeProofs []byte
	RingProofs  []byte
}
