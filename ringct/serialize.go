package ringct

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
)

var errTruncated = errors.New("truncated ringct data")

// SerializeBase writes the signature base: type, fee, legacy pseudo-outs,
// encrypted amounts and output commitments.
func (s *Sig) SerializeBase(w *bytes.Buffer, nIns int) {
	w.WriteByte(byte(s.Type))
	if s.Type == TypeNull {
		return
	}
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], s.Fee)
	w.Write(tmp[:n])

	if s.Type == TypeSimple {
		for i := 0; i < nIns; i++ {
			w.Write(s.PseudoOuts[i][:])
		}
	}
	for _, e := range s.EcdhInfo {
		if s.Type.CompactAmounts() {
			w.Write(e.Amount[:8])
		} else {
			w.Write(e.Mask[:])
			w.Write(e.Amount[:])
		}
	}
	for _, o := range s.OutPk {
		w.Write(o.Mask[:])
	}
}

// SerializePrunable writes the backend proof data and, for bulletproof-family
// types, the pseudo-output commitments.
func (s *Sig) SerializePrunable(w *bytes.Buffer, nIns int) {
	if s.Type == TypeNull {
		return
	}
	writeBlob(w, s.RangeProofs)
	writeBlob(w, s.RingProofs)
	if s.Type.Simple() && s.Type != TypeSimple {
		for i := 0; i < nIns; i++ {
			w.Write(s.PseudoOuts[i][:])
		}
	}
}

// Serialize writes the full signature bundle
func (s *Sig) Serialize(w *bytes.Buffer, nIns int) {
	s.SerializeBase(w, nIns)
	s.SerializePrunable(w, nIns)
}

// Parse reads a signature bundle produced by Serialize
func Parse(r *bytes.Reader, nIns, nOuts int) (*Sig, error) {
	t, err := r.ReadByte()
	if err != nil {
		return nil, errTruncated
	}
	sig := &Sig{Type: SigType(t)}
	if sig.Type == TypeNull {
		return sig, nil
	}
	if sig.Fee, err = binary.ReadUvarint(r); err != nil {
		return nil, errTruncated
	}

	if sig.Type == TypeSimple {
		if sig.PseudoOuts, err = readKeys(r, nIns); err != nil {
			return nil, err
		}
	}
	sig.EcdhInfo = make([]EcdhTuple, nOuts)
	for i := range sig.EcdhInfo {
		if sig.Type.CompactAmounts() {
			if err := readFull(r, sig.EcdhInfo[i].Amount[:8]); err != nil {
				return nil, err
			}
		} else {
			if err := readFull(r, sig.EcdhInfo[i].Mask[:]); err != nil {
				return nil, err
			}
			if err := readFull(r, sig.EcdhInfo[i].Amount[:]); err != nil {
				return nil, err
			}
		}
	}
	sig.OutPk = make([]CtKey, nOuts)
	for i := range sig.OutPk {
		if err := readFull(r, sig.OutPk[i].Mask[:]); err != nil {
			return nil, err
		}
	}

	if sig.RangeProofs, err = readBlob(r); err != nil {
		return nil, err
	}
	if sig.RingProofs, err = readBlob(r); err != nil {
		return nil, err
	}
	if sig.Type.Simple() && sig.Type != TypeSimple {
		if sig.PseudoOuts, err = readKeys(r, nIns); err != nil {
			return nil, err
		}
	}
	return sig, nil
}

func writeBlob(w *bytes.Buffer, b []byte) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], uint64(len(b)))
	w.Write(tmp[:n])
	w.Write(b)
}

func readBlob(r *bytes.Reader) ([]byte, error) {
	n, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, errTruncated
	}
	if n > uint64(r.Len()) {
		return nil, errTruncated
	}
	b := make([]byte, n)
	if err := readFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}

func readKeys(r *bytes.Reader, n int) ([]Key, error) {
	keys := make([]Key, n)
	for i := range keys {
		if err := readFull(r, keys[i][:]); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

func readFull(r *bytes.Reader, b []byte) error {
	if _, err := io.ReadFull(r, b); err != nil {
		return errTruncated
	}
	return nil
}
