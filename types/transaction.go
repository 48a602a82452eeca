package types

import (
	"bytes"

	"golang.org/x/crypto/sha3"

	"github.com/scala-network/scala/ringct"
)

// TransactionPrefix is the part of a transaction covered by the prefix hash
type TransactionPrefix struct {
	Version    uint64
	UnlockTime uint64
	Vin        []TxIn
	Vout       []TxOut
	Extra      []byte
}

// Transaction is a full transaction: prefix plus either ring signatures (v1)
// or a RingCT signature bundle (v2), never both.
type Transaction struct {
	TransactionPrefix
	Signatures    [][]Signature
	RctSignatures *ringct.Sig

	hash        Hash
	hashValid   bool
	prefixHash  Hash
	prefixValid bool
}

// SetNull resets the transaction to an empty state
func (tx *Transaction) SetNull() {
	tx.TransactionPrefix = TransactionPrefix{}
	tx.Signatures = nil
	tx.RctSignatures = nil
	tx.InvalidateHashes()
}

// InvalidateHashes drops the cached hashes. Must be called after any mutation.
func (tx *Transaction) InvalidateHashes() {
	tx.hashValid = false
	tx.prefixValid = false
}

// Keccak computes the Keccak-256 hash of the concatenated inputs
func Keccak(data ...[]byte) Hash {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	var out Hash
	h.Sum(out[:0])
	return out
}

// PrefixHash returns the canonical hash over everything except signatures
func (tx *Transaction) PrefixHash() Hash {
	if tx.prefixValid {
		return tx.prefixHash
	}
	var buf bytes.Buffer
	tx.serializePrefix(&buf)
	tx.prefixHash = Keccak(buf.Bytes())
	tx.prefixValid = true
	return tx.prefixHash
}

// Hash returns the transaction hash. For v1 it covers the full blob; for v2
// it is the hash of the prefix, base and prunable section hashes.
func (tx *Transaction) Hash() Hash {
	if tx.hashValid {
		return tx.hash
	}
	if tx.Version == 1 {
		tx.hash = Keccak(tx.Serialize())
	} else {
		prefix := tx.PrefixHash()
		var base, prunable bytes.Buffer
		if tx.RctSignatures != nil {
			tx.RctSignatures.SerializeBase(&base, len(tx.Vin))
			tx.RctSignatures.SerializePrunable(&prunable, len(tx.Vin))
		}
		baseHash := Keccak(base.Bytes())
		var prunableHash Hash
		if prunable.Len() > 0 {
			prunableHash = Keccak(prunable.Bytes())
		}
		tx.hash = Keccak(prefix[:], baseHash[:], prunableHash[:])
	}
	tx.hashValid = true
	return tx.hash
}
