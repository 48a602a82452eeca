package ringct

import (
	"errors"
	"fmt"

	"filippo.io/edwards25519"
)

// ProofBackend produces the range and ring membership proofs of a signature.
// Proof systems are pluggable; the signer only assembles commitments, encrypted
// amounts and the fee, and guarantees the commitment balance.
type ProofBackend interface {
	// RangeProof proves every output amount lies in [0, 2^64)
	RangeProof(outAmounts []uint64, outMasks []Key) ([]byte, error)

	// RingProof proves membership and authorization over the mix ring.
	// pseudoOuts and pseudoMasks are empty for the full (non-simple) form,
	// where realIdx holds the single shared real index.
	RingProof(message Key, mixRing [][]CtKey, inSk []CtKey, pseudoOuts []Key, pseudoMasks []Key, realIdx []int) ([]byte, error)
}

// Signer assembles RingCT signature bundles
type Signer struct {
	Backend ProofBackend
}

var (
	errNoInputs       = errors.New("no inputs to sign")
	errLengthMismatch = errors.New("input vector length mismatch")
	errNoBackend      = errors.New("no proof backend configured")
)

func (cfg Config) sigType() SigType {
	switch cfg.RangeProofType {
	case RangeProofBorromean:
		return TypeSimple
	case RangeProofBulletproofPlus:
		return TypeBulletproofPlus
	default:
		switch {
		case cfg.BpVersion >= 3:
			return TypeCLSAG
		case cfg.BpVersion == 2:
			return TypeBulletproof2
		default:
			return TypeBulletproof
		}
	}
}

// GenSimple produces a simple RingCT signature: one pseudo-output commitment
// per input, heterogeneous rings allowed. Returns the bundle and the secret
// commitment openings of the outputs.
func (s *Signer) GenSimple(message Key, inSk []CtKey, destinations []Key,
	inAmounts, outAmounts []uint64, fee uint64, mixRing [][]CtKey,
	amountKeys []Key, realIdx []int, cfg Config) (*Sig, []CtKey, error) {

	if s.Backend == nil {
		return nil, nil, errNoBackend
	}
	if len(inSk) == 0 {
		return nil, nil, errNoInputs
	}
	if len(inSk) != len(inAmounts) || len(inSk) != len(mixRing) || len(inSk) != len(realIdx) {
		return nil, nil, errLengthMismatch
	}
	if len(destinations) != len(outAmounts) || len(destinations) != len(amountKeys) {
		return nil, nil, errLengthMismatch
	}

	sig := &Sig{
		Type:       cfg.sigType(),
		Message:    message,
		MixRing:    mixRing,
		Fee:        fee,
		EcdhInfo:   make([]EcdhTuple, len(destinations)),
		OutPk:      make([]CtKey, len(destinations)),
		PseudoOuts: make([]Key, len(inSk)),
	}
	compact := sig.Type.CompactAmounts()

	outSk := make([]CtKey, len(destinations))
	sumOut := edwards25519.NewScalar()
	for i := range destinations {
		var mask Key
		if compact {
			mask = GenCommitmentMask(amountKeys[i])
		} else {
			var err error
			mask, err = RandomScalarKey()
			if err != nil {
				return nil, nil, err
			}
		}
		outSk[i].Mask = mask
		m, err := scalarFromKey(mask)
		if err != nil {
			return nil, nil, err
		}
		sumOut.Add(sumOut, m)

		commitment, err := Commit(outAmounts[i], mask)
		if err != nil {
			return nil, nil, err
		}
		sig.OutPk[i] = CtKey{Dest: destinations[i], Mask: commitment}
		sig.EcdhInfo[i] = EcdhEncode(outAmounts[i], mask, amountKeys[i], compact)
	}

	// pseudo-output masks must sum to the output masks so commitments balance
	pseudoMasks := make([]Key, len(inSk))
	sumPseudo := edwards25519.NewScalar()
	for i := 0; i < len(inSk)-1; i++ {
		mask, err := RandomScalarKey()
		if err != nil {
			return nil, nil, err
		}
		pseudoMasks[i] = mask
		m, _ := scalarFromKey(mask)
		sumPseudo.Add(sumPseudo, m)
	}
	last := new(edwards25519.Scalar).Subtract(sumOut, sumPseudo)
	copy(pseudoMasks[len(inSk)-1][:], last.Bytes())

	for i := range inSk {
		c, err := Commit(inAmounts[i], pseudoMasks[i])
		if err != nil {
			return nil, nil, err
		}
		sig.PseudoOuts[i] = c
	}

	rangeProof, err := s.Backend.RangeProof(outAmounts, masksOf(outSk))
	if err != nil {
		return nil, nil, fmt.Errorf("range proof: %w", err)
	}
	sig.RangeProofs = rangeProof

	ringProof, err := s.Backend.RingProof(message, mixRing, inSk, sig.PseudoOuts, pseudoMasks, realIdx)
	if err != nil {
		return nil, nil, fmt.Errorf("ring proof: %w", err)
	}
	sig.RingProofs = ringProof

	for i := range pseudoMasks {
		pseudoMasks[i].Wipe()
	}
	return sig, outSk, nil
}

// GenFull produces a full (non-simple) RingCT signature over a single ring.
// All inputs share the same real index. When outAmounts carries one more entry
// than destinations, the extra entry is the fee.
func (s *Signer) GenFull(message Key, inSk []CtKey, destinations []Key,
	outAmounts []uint64, mixRing [][]CtKey, amountKeys []Key, realIdx int,
	cfg Config) (*Sig, []CtKey, error) {

	if s.Backend == nil {
		return nil, nil, errNoBackend
	}
	if len(inSk) == 0 {
		return nil, nil, errNoInputs
	}
	if len(outAmounts) != len(destinations) && len(outAmounts) != len(destinations)+1 {
		return nil, nil, errLengthMismatch
	}
	if len(amountKeys) != len(destinations) {
		return nil, nil, errLengthMismatch
	}

	sig := &Sig{
		Type:     TypeFull,
		Message:  message,
		MixRing:  mixRing,
		EcdhInfo: make([]EcdhTuple, len(destinations)),
		OutPk:    make([]CtKey, len(destinations)),
	}
	if len(outAmounts) == len(destinations)+1 {
		sig.Fee = outAmounts[len(outAmounts)-1]
	}

	outSk := make([]CtKey, len(destinations))
	for i := range destinations {
		mask, err := RandomScalarKey()
		if err != nil {
			return nil, nil, err
		}
		outSk[i].Mask = mask
		commitment, err := Commit(outAmounts[i], mask)
		if err != nil {
			return nil, nil, err
		}
		sig.OutPk[i] = CtKey{Dest: destinations[i], Mask: commitment}
		sig.EcdhInfo[i] = EcdhEncode(outAmounts[i], mask, amountKeys[i], false)
	}

	rangeProof, err := s.Backend.RangeProof(outAmounts[:len(destinations)], masksOf(outSk))
	if err != nil {
		return nil, nil, fmt.Errorf("range proof: %w", err)
	}
	sig.RangeProofs = rangeProof

	ringProof, err := s.Backend.RingProof(message, mixRing, inSk, nil, nil, []int{realIdx})
	if err != nil {
		return nil, nil, fmt.Errorf("ring proof: %w", err)
	}
	sig.RingProofs = ringProof

	return sig, outSk, nil
}

func masksOf(ctkeys []CtKey) []Key {
	masks := make([]Key, len(ctkeys))
	for i, c := range ctkeys {
		masks[i] = c.Mask
	}
	return masks
}
