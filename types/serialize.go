package types

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/scala-network/scala/ringct"
)

// Input and output variant tags of the consensus wire format
const (
	tagTxInGen          = 0xff
	tagTxInToKey        = 0x02
	tagTxOutToKey       = 0x02
	tagTxOutToTaggedKey = 0x03
)

var (
	ErrBadBlob    = errors.New("malformed transaction blob")
	errBadVariant = errors.New("unknown variant tag")
)

func writeUvarint(w *bytes.Buffer, v uint64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	w.Write(tmp[:n])
}

func (p *TransactionPrefix) serializePrefix(w *bytes.Buffer) {
	writeUvarint(w, p.Version)
	writeUvarint(w, p.UnlockTime)

	writeUvarint(w, uint64(len(p.Vin)))
	for _, in := range p.Vin {
		switch v := in.(type) {
		case TxInGen:
			w.WriteByte(tagTxInGen)
			writeUvarint(w, v.Height)
		case TxInToKey:
			w.WriteByte(tagTxInToKey)
			writeUvarint(w, v.Amount)
			writeUvarint(w, uint64(len(v.KeyOffsets)))
			for _, o := range v.KeyOffsets {
				writeUvarint(w, o)
			}
			w.Write(v.KeyImage[:])
		}
	}

	writeUvarint(w, uint64(len(p.Vout)))
	for _, out := range p.Vout {
		writeUvarint(w, out.Amount)
		switch t := out.Target.(type) {
		case TxOutToKey:
			w.WriteByte(tagTxOutToKey)
			w.Write(t.Key[:])
		case TxOutToTaggedKey:
			w.WriteByte(tagTxOutToTaggedKey)
			w.Write(t.Key[:])
			w.WriteByte(byte(t.ViewTag))
		}
	}

	writeUvarint(w, uint64(len(p.Extra)))
	w.Write(p.Extra)
}

// Serialize encodes the transaction in the canonical consensus format:
// version, unlock_time, vin, vout, extra, then signatures by version.
func (tx *Transaction) Serialize() []byte {
	var w bytes.Buffer
	tx.serializePrefix(&w)
	if tx.Version == 1 {
		for _, sigs := range tx.Signatures {
			for _, sig := range sigs {
				w.Write(sig[:])
			}
		}
	} else if tx.RctSignatures != nil {
		tx.RctSignatures.Serialize(&w, len(tx.Vin))
	} else {
		w.WriteByte(byte(ringct.TypeNull))
	}
	return w.Bytes()
}

func parsePrefix(r *bytes.Reader, p *TransactionPrefix) error {
	var err error
	if p.Version, err = binary.ReadUvarint(r); err != nil {
		return ErrBadBlob
	}
	if p.UnlockTime, err = binary.ReadUvarint(r); err != nil {
		return ErrBadBlob
	}

	nVin, err := binary.ReadUvarint(r)
	if err != nil || nVin > uint64(r.Len()) {
		return ErrBadBlob
	}
	p.Vin = make([]TxIn, 0, nVin)
	for i := uint64(0); i < nVin; i++ {
		tag, err := r.ReadByte()
		if err != nil {
			return ErrBadBlob
		}
		switch tag {
		case tagTxInGen:
			var in TxInGen
			if in.Height, err = binary.ReadUvarint(r); err != nil {
				return ErrBadBlob
			}
			p.Vin = append(p.Vin, in)
		case tagTxInToKey:
			var in TxInToKey
			if in.Amount, err = binary.ReadUvarint(r); err != nil {
				return ErrBadBlob
			}
			nOff, err := binary.ReadUvarint(r)
			if err != nil || nOff > uint64(r.Len()) {
				return ErrBadBlob
			}
			in.KeyOffsets = make([]uint64, nOff)
			for j := range in.KeyOffsets {
				if in.KeyOffsets[j], err = binary.ReadUvarint(r); err != nil {
					return ErrBadBlob
				}
			}
			if _, err := io.ReadFull(r, in.KeyImage[:]); err != nil {
				return ErrBadBlob
			}
			p.Vin = append(p.Vin, in)
		default:
			return fmt.Errorf("vin %d: %w", i, errBadVariant)
		}
	}

	nVout, err := binary.ReadUvarint(r)
	if err != nil || nVout > uint64(r.Len()) {
		return ErrBadBlob
	}
	p.Vout = make([]TxOut, 0, nVout)
	for i := uint64(0); i < nVout; i++ {
		var out TxOut
		if out.Amount, err = binary.ReadUvarint(r); err != nil {
			return ErrBadBlob
		}
		tag, err := r.ReadByte()
		if err != nil {
			return ErrBadBlob
		}
		switch tag {
		case tagTxOutToKey:
			var t TxOutToKey
			if _, err := io.ReadFull(r, t.Key[:]); err != nil {
				return ErrBadBlob
			}
			out.Target = t
		case tagTxOutToTaggedKey:
			var t TxOutToTaggedKey
			if _, err := io.ReadFull(r, t.Key[:]); err != nil {
				return ErrBadBlob
			}
			vt, err := r.ReadByte()
			if err != nil {
				return ErrBadBlob
			}
			t.ViewTag = ViewTag(vt)
			out.Target = t
		default:
			return fmt.Errorf("vout %d: %w", i, errBadVariant)
		}
		p.Vout = append(p.Vout, out)
	}

	nExtra, err := binary.ReadUvarint(r)
	if err != nil || nExtra > uint64(r.Len()) {
		return ErrBadBlob
	}
	p.Extra = make([]byte, nExtra)
	if _, err := io.ReadFull(r, p.Extra); err != nil {
		return ErrBadBlob
	}
	return nil
}

// ParseTransaction decodes a transaction from its canonical blob
func ParseTransaction(blob []byte) (*Transaction, error) {
	r := bytes.NewReader(blob)
	tx, err := parseTransactionFrom(r)
	if err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, ErrBadBlob
	}
	return tx, nil
}

func parseTransactionFrom(r *bytes.Reader) (*Transaction, error) {
	var tx Transaction
	if err := parsePrefix(r, &tx.TransactionPrefix); err != nil {
		return nil, err
	}
	if tx.Version == 1 {
		for _, in := range tx.Vin {
			tk, ok := in.(TxInToKey)
			if !ok {
				continue
			}
			sigs := make([]Signature, len(tk.KeyOffsets))
			for j := range sigs {
				if _, err := io.ReadFull(r, sigs[j][:]); err != nil {
					return nil, ErrBadBlob
				}
			}
			tx.Signatures = append(tx.Signatures, sigs)
		}
	} else {
		sig, err := ringct.Parse(r, len(tx.Vin), len(tx.Vout))
		if err != nil {
			return nil, fmt.Errorf("rct signatures: %w", err)
		}
		if sig.Type != ringct.TypeNull {
			// the wire carries only the output commitments; each output's
			// one-time key is restored from the matching vout entry
			for i := range sig.OutPk {
				sig.OutPk[i].Dest = ringct.Key(tx.Vout[i].OutputKey())
			}
			tx.RctSignatures = sig
		}
	}
	return &tx, nil
}
