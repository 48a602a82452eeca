package crypto

import (
	"errors"

	"filippo.io/edwards25519"

	"github.com/scala-network/scala/types"
)

var (
	ErrRealIndexOutOfRange = errors.New("real index outside the ring")
	ErrEmptyRing           = errors.New("ring has no members")
)

// GenerateRingSignature signs prefixHash over the ring with the real member's
// ephemeral secret at realIndex. The key image must be the one generated for
// the real member.
func GenerateRingSignature(prefixHash types.Hash, keyImage types.KeyImage,
	pubs []types.PublicKey, sec types.SecretKey, realIndex int) ([]types.Signature, error) {

	if len(pubs) == 0 {
		return nil, ErrEmptyRing
	}
	if realIndex < 0 || realIndex >= len(pubs) {
		return nil, ErrRealIndexOutOfRange
	}
	x, err := scalarFromSecret(sec)
	if err != nil {
		return nil, err
	}
	image, err := new(edwards25519.Point).SetBytes(keyImage[:])
	if err != nil {
		return nil, ErrInvalidPoint
	}

	n := len(pubs)
	sigs := make([]types.Signature, n)
	c := make([]*edwards25519.Scalar, n)
	r := make([]*edwards25519.Scalar, n)

	// challenge transcript: prefix hash followed by the commitment pair of
	// every ring member in order
	buf := make([]byte, 0, 32+64*n)
	buf = append(buf, prefixHash[:]...)

	var k *edwards25519.Scalar
	sum := edwards25519.NewScalar()
	for i := 0; i < n; i++ {
		p, err := pointFromPublic(pubs[i])
		if err != nil {
			return nil, err
		}
		hp := hashToPoint(pubs[i][:])

		if i == realIndex {
			kSec, err := RandomScalar()
			if err != nil {
				return nil, err
			}
			k, _ = scalarFromSecret(kSec)
			l := new(edwards25519.Point).ScalarBaseMult(k)
			rr := new(edwards25519.Point).ScalarMult(k, hp)
			buf = append(buf, l.Bytes()...)
			buf = append(buf, rr.Bytes()...)
			continue
		}

		ci, err := RandomScalar()
		if err != nil {
			return nil, err
		}
		ri, err := RandomScalar()
		if err != nil {
			return nil, err
		}
		c[i], _ = scalarFromSecret(ci)
		r[i], _ = scalarFromSecret(ri)

		l := new(edwards25519.Point).ScalarBaseMult(r[i])
		l.Add(l, new(edwards25519.Point).ScalarMult(c[i], p))
		rr := new(edwards25519.Point).ScalarMult(r[i], hp)
		rr.Add(rr, new(edwards25519.Point).ScalarMult(c[i], image))
		buf = append(buf, l.Bytes()...)
		buf = append(buf, rr.Bytes()...)
		sum.Add(sum, c[i])
	}

	challenge := hashToScalar(buf)
	c[realIndex] = new(edwards25519.Scalar).Subtract(challenge, sum)
	r[realIndex] = new(edwards25519.Scalar).Subtract(k, new(edwards25519.Scalar).Multiply(c[realIndex], x))

	for i := 0; i < n; i++ {
		copy(sigs[i][:32], c[i].Bytes())
		copy(sigs[i][32:], r[i].Bytes())
	}
	return sigs, nil
}

// CheckRingSignature verifies a ring signature over prefixHash
func CheckRingSignature(prefixHash types.Hash, keyImage types.KeyImage,
	pubs []types.PublicKey, sigs []types.Signature) bool {

	if len(pubs) == 0 || len(sigs) != len(pubs) {
		return false
	}
	image, err := new(edwards25519.Point).SetBytes(keyImage[:])
	if err != nil {
		return false
	}

	buf := make([]byte, 0, 32+64*len(pubs))
	buf = append(buf, prefixHash[:]...)
	sum := edwards25519.NewScalar()

	for i := range pubs {
		p, err := pointFromPublic(pubs[i])
		if err != nil {
			return false
		}
		var cb, rb [32]byte
		copy(cb[:], sigs[i][:32])
		copy(rb[:], sigs[i][32:])
		ci, err := new(edwards25519.Scalar).SetCanonicalBytes(cb[:])
		if err != nil {
			return false
		}
		ri, err := new(edwards25519.Scalar).SetCanonicalBytes(rb[:])
		if err != nil {
			return false
		}

		hp := hashToPoint(pubs[i][:])
		l := new(edwards25519.Point).ScalarBaseMult(ri)
		l.Add(l, new(edwards25519.Point).ScalarMult(ci, p))
		rr := new(edwards25519.Point).ScalarMult(ri, hp)
		rr.Add(rr, new(edwards25519.Point).ScalarMult(ci, image))
		buf = append(buf, l.Bytes()...)
		buf = append(buf, rr.Bytes()...)
		sum.Add(sum, ci)
	}

	challenge := hashToScalar(buf)
	return challenge.Equal(sum) == 1
}
