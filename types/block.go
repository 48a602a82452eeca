package types

import (
	"bytes"
	"encoding/binary"
	"io"
)

// Block is a full block: header, miner transaction and the hashes of the
// remaining transactions.
type Block struct {
	MajorVersion uint8
	MinorVersion uint8
	Timestamp    uint64
	PrevID       Hash
	Nonce        uint32
	MinerTx      Transaction
	TxHashes     []Hash

	hash      Hash
	hashValid bool
}

// InvalidateHashes drops the cached block id
func (b *Block) InvalidateHashes() {
	b.hashValid = false
	b.MinerTx.InvalidateHashes()
}

// Height returns the block height recorded in the coinbase gen input
func (b *Block) Height() uint64 {
	if len(b.MinerTx.Vin) == 1 {
		if gen, ok := b.MinerTx.Vin[0].(TxInGen); ok {
			return gen.Height
		}
	}
	return 0
}

func (b *Block) serializeHeader(w *bytes.Buffer) {
	writeUvarint(w, uint64(b.MajorVersion))
	writeUvarint(w, uint64(b.MinorVersion))
	writeUvarint(w, b.Timestamp)
	w.Write(b.PrevID[:])
	var nonce [4]byte
	binary.LittleEndian.PutUint32(nonce[:], b.Nonce)
	w.Write(nonce[:])
}

// HashingBlob returns the byte string fed to the proof-of-work functions:
// header, transaction tree root, and transaction count.
func (b *Block) HashingBlob() []byte {
	var w bytes.Buffer
	b.serializeHeader(&w)
	root := b.TxTreeHash()
	w.Write(root[:])
	writeUvarint(&w, uint64(len(b.TxHashes)+1))
	return w.Bytes()
}

// TxTreeHash computes the Merkle tree hash over the miner tx and tx hashes
func (b *Block) TxTreeHash() Hash {
	hashes := make([]Hash, 0, len(b.TxHashes)+1)
	hashes = append(hashes, b.MinerTx.Hash())
	hashes = append(hashes, b.TxHashes...)
	return TreeHash(hashes)
}

// ID returns the block hash: the Keccak of the length-prefixed hashing blob
func (b *Block) ID() Hash {
	if b.hashValid {
		return b.hash
	}
	blob := b.HashingBlob()
	var w bytes.Buffer
	writeUvarint(&w, uint64(len(blob)))
	w.Write(blob)
	b.hash = Keccak(w.Bytes())
	b.hashValid = true
	return b.hash
}

// Serialize encodes the block: header, miner transaction, tx hash list
func (b *Block) Serialize() []byte {
	var w bytes.Buffer
	b.serializeHeader(&w)
	w.Write(b.MinerTx.Serialize())
	writeUvarint(&w, uint64(len(b.TxHashes)))
	for _, h := range b.TxHashes {
		w.Write(h[:])
	}
	return w.Bytes()
}

// ParseBlock decodes a block produced by Serialize
func ParseBlock(blob []byte) (*Block, error) {
	r := bytes.NewReader(blob)
	var b Block

	major, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, ErrBadBlob
	}
	minor, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, ErrBadBlob
	}
	b.MajorVersion = uint8(major)
	b.MinorVersion = uint8(minor)
	if b.Timestamp, err = binary.ReadUvarint(r); err != nil {
		return nil, ErrBadBlob
	}
	if _, err := io.ReadFull(r, b.PrevID[:]); err != nil {
		return nil, ErrBadBlob
	}
	var nonce [4]byte
	if _, err := io.ReadFull(r, nonce[:]); err != nil {
		return nil, ErrBadBlob
	}
	b.Nonce = binary.LittleEndian.Uint32(nonce[:])

	tx, err := parseTransactionFrom(r)
	if err != nil {
		return nil, err
	}
	b.MinerTx = *tx

	nHashes, err := binary.ReadUvarint(r)
	if err != nil || nHashes*32 > uint64(r.Len()) {
		return nil, ErrBadBlob
	}
	b.TxHashes = make([]Hash, nHashes)
	for i := range b.TxHashes {
		if _, err := io.ReadFull(r, b.TxHashes[i][:]); err != nil {
			return nil, ErrBadBlob
		}
	}
	if r.Len() != 0 {
		return nil, ErrBadBlob
	}
	return &b, nil
}

// TreeHash computes the CryptoNote transaction tree hash
func TreeHash(hashes []Hash) Hash {
	n := len(hashes)
	switch n {
	case 0:
		return Hash{}
	case 1:
		return hashes[0]
	case 2:
		return Keccak(hashes[0][:], hashes[1][:])
	}

	cnt := 1
	for cnt*2 < n {
		cnt *= 2
	}
	ints := make([]Hash, cnt)
	copy(ints, hashes[:2*cnt-n])

	for i, j := 2*cnt-n, 2*cnt-n; j < cnt; i, j = i+2, j+1 {
		ints[j] = Keccak(hashes[i][:], hashes[i+1][:])
	}

	for cnt > 2 {
		cnt /= 2
		for i, j := 0, 0; j < cnt; i, j = i+2, j+1 {
			ints[j] = Keccak(ints[i][:], ints[i+1][:])
		}
	}
	return Keccak(ints[0][:], ints[1][:])
}
