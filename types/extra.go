package types

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"sort"
)

// Extra-field tags, ascending canonical order
const (
	ExtraTagPadding          = 0x00
	ExtraTagPubKey           = 0x01
	ExtraTagNonce            = 0x02
	ExtraTagAdditionalPubKeys = 0x04
)

// Nonce payload prefixes
const (
	NoncePaymentID          = 0x00
	NonceEncryptedPaymentID = 0x01
)

const (
	// MaxTxExtraSize bounds the canonical extra byte string
	MaxTxExtraSize = 1060
	// ExtraNonceMaxCount bounds a single nonce payload
	ExtraNonceMaxCount = 255
	// ExtraPaddingMaxCount bounds a padding run
	ExtraPaddingMaxCount = 255
)

var (
	ErrExtraParse    = errors.New("failed to parse tx extra")
	ErrExtraTooLarge = errors.New("tx extra exceeds maximum size")
	ErrNonceTooLarge = errors.New("tx extra nonce too large")
)

// ExtraField is one parsed TLV field
type ExtraField interface {
	extraTag() byte
}

// ExtraPadding is a run of zero bytes
type ExtraPadding struct {
	Size int
}

func (ExtraPadding) extraTag() byte { return ExtraTagPadding }

// ExtraPubKey is the transaction public key
type ExtraPubKey struct {
	Key PublicKey
}

func (ExtraPubKey) extraTag() byte { return ExtraTagPubKey }

// ExtraNonce is an opaque nonce payload, usually a payment id
type ExtraNonce struct {
	Nonce []byte
}

func (ExtraNonce) extraTag() byte { return ExtraTagNonce }

// ExtraAdditionalPubKeys is the per-output tx public key vector
type ExtraAdditionalPubKeys struct {
	Keys []PublicKey
}

func (ExtraAdditionalPubKeys) extraTag() byte { return ExtraTagAdditionalPubKeys }

// ParseExtra decodes the TLV byte string into its fields
func ParseExtra(extra []byte) ([]ExtraField, error) {
	var fields []ExtraField
	r := bytes.NewReader(extra)
	for r.Len() > 0 {
		tag, _ := r.ReadByte()
		switch tag {
		case ExtraTagPadding:
			// padding runs to the end of extra and must be all zero
			size := 1
			for r.Len() > 0 {
				b, _ := r.ReadByte()
				if b != 0 {
					return nil, ErrExtraParse
				}
				size++
				if size > ExtraPaddingMaxCount {
					return nil, ErrExtraParse
				}
			}
			fields = append(fields, ExtraPadding{Size: size})
		case ExtraTagPubKey:
			var f ExtraPubKey
			if _, err := io.ReadFull(r, f.Key[:]); err != nil {
				return nil, ErrExtraParse
			}
			fields = append(fields, f)
		case ExtraTagNonce:
			n, err := binary.ReadUvarint(r)
			if err != nil || n > ExtraNonceMaxCount || n > uint64(r.Len()) {
				return nil, ErrExtraParse
			}
			f := ExtraNonce{Nonce: make([]byte, n)}
			if _, err := io.ReadFull(r, f.Nonce); err != nil {
				return nil, ErrExtraParse
			}
			fields = append(fields, f)
		case ExtraTagAdditionalPubKeys:
			n, err := binary.ReadUvarint(r)
			if err != nil || n*32 > uint64(r.Len()) {
				return nil, ErrExtraParse
			}
			f := ExtraAdditionalPubKeys{Keys: make([]PublicKey, n)}
			for i := range f.Keys {
				if _, err := io.ReadFull(r, f.Keys[i][:]); err != nil {
					return nil, ErrExtraParse
				}
			}
			fields = append(fields, f)
		default:
			return nil, ErrExtraParse
		}
	}
	return fields, nil
}

func serializeExtraField(w *bytes.Buffer, f ExtraField) {
	switch v := f.(type) {
	case ExtraPadding:
		for i := 0; i < v.Size; i++ {
			w.WriteByte(0)
		}
	case ExtraPubKey:
		w.WriteByte(ExtraTagPubKey)
		w.Write(v.Key[:])
	case ExtraNonce:
		w.WriteByte(ExtraTagNonce)
		writeUvarint(w, uint64(len(v.Nonce)))
		w.Write(v.Nonce)
	case ExtraAdditionalPubKeys:
		w.WriteByte(ExtraTagAdditionalPubKeys)
		writeUvarint(w, uint64(len(v.Keys)))
		for _, k := range v.Keys {
			w.Write(k[:])
		}
	}
}

// SerializeExtraFields re-encodes parsed fields into the TLV byte string
func SerializeExtraFields(fields []ExtraField) []byte {
	var w bytes.Buffer
	for _, f := range fields {
		serializeExtraField(&w, f)
	}
	return w.Bytes()
}

// SortExtra canonicalizes extra: fields ascend by tag, duplicate tx public
// keys coalesce to the last one added. Running it twice is a no-op.
func SortExtra(extra []byte) ([]byte, error) {
	fields, err := ParseExtra(extra)
	if err != nil {
		return nil, err
	}
	var lastPubKey *ExtraPubKey
	kept := fields[:0]
	for _, f := range fields {
		if pk, ok := f.(ExtraPubKey); ok {
			pk := pk
			lastPubKey = &pk
			continue
		}
		kept = append(kept, f)
	}
	if lastPubKey != nil {
		kept = append(kept, *lastPubKey)
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].extraTag() < kept[j].extraTag()
	})
	return SerializeExtraFields(kept), nil
}

// AddTxPubKeyToExtra appends the transaction public key field
func AddTxPubKeyToExtra(extra []byte, key PublicKey) []byte {
	var w bytes.Buffer
	w.Write(extra)
	serializeExtraField(&w, ExtraPubKey{Key: key})
	return w.Bytes()
}

// AddExtraNonceToExtra appends a nonce field
func AddExtraNonceToExtra(extra []byte, nonce []byte) ([]byte, error) {
	if len(nonce) > ExtraNonceMaxCount {
		return nil, ErrNonceTooLarge
	}
	var w bytes.Buffer
	w.Write(extra)
	serializeExtraField(&w, ExtraNonce{Nonce: nonce})
	return w.Bytes(), nil
}

// AddAdditionalTxPubKeysToExtra appends the additional tx public key vector
func AddAdditionalTxPubKeysToExtra(extra []byte, keys []PublicKey) []byte {
	var w bytes.Buffer
	w.Write(extra)
	serializeExtraField(&w, ExtraAdditionalPubKeys{Keys: keys})
	return w.Bytes()
}

// RemoveFieldFromExtra drops every field with the given tag
func RemoveFieldFromExtra(extra []byte, tag byte) ([]byte, error) {
	fields, err := ParseExtra(extra)
	if err != nil {
		return nil, err
	}
	kept := fields[:0]
	for _, f := range fields {
		if f.extraTag() != tag {
			kept = append(kept, f)
		}
	}
	return SerializeExtraFields(kept), nil
}

// FindTxPubKey returns the transaction public key field, if present
func FindTxPubKey(fields []ExtraField) (PublicKey, bool) {
	for _, f := range fields {
		if pk, ok := f.(ExtraPubKey); ok {
			return pk.Key, true
		}
	}
	return PublicKey{}, false
}

// FindExtraNonce returns the first nonce field, if present
func FindExtraNonce(fields []ExtraField) (ExtraNonce, bool) {
	for _, f := range fields {
		if n, ok := f.(ExtraNonce); ok {
			return n, true
		}
	}
	return ExtraNonce{}, false
}

// SetPaymentIDToNonce encodes a long 32-byte payment id as a nonce payload
func SetPaymentIDToNonce(paymentID Hash) []byte {
	nonce := make([]byte, 0, 33)
	nonce = append(nonce, NoncePaymentID)
	return append(nonce, paymentID[:]...)
}

// SetEncryptedPaymentIDToNonce encodes a short encrypted payment id
func SetEncryptedPaymentIDToNonce(paymentID [8]byte) []byte {
	nonce := make([]byte, 0, 9)
	nonce = append(nonce, NonceEncryptedPaymentID)
	return append(nonce, paymentID[:]...)
}

// PaymentIDFromNonce extracts a long payment id from a nonce payload
func PaymentIDFromNonce(nonce []byte) (Hash, bool) {
	if len(nonce) != 33 || nonce[0] != NoncePaymentID {
		return Hash{}, false
	}
	var id Hash
	copy(id[:], nonce[1:])
	return id, true
}

// EncryptedPaymentIDFromNonce extracts a short encrypted payment id
func EncryptedPaymentIDFromNonce(nonce []byte) ([8]byte, bool) {
	var id [8]byte
	if len(nonce) != 9 || nonce[0] != NonceEncryptedPaymentID {
		return id, false
	}
	copy(id[:], nonce[1:])
	return id, true
}
