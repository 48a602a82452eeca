package device

import (
	"errors"

	"github.com/scala-network/scala/crypto"
	"github.com/scala-network/scala/types"
)

var (
	ErrTxNotOpen     = errors.New("no transaction open on device")
	ErrTxAlreadyOpen = errors.New("transaction already open on device")
)

// OutputEphemeralParams carries everything needed to derive one output's keys
type OutputEphemeralParams struct {
	TxVersion            uint64
	SenderKeys           *crypto.AccountKeys
	TxPubKey             types.PublicKey
	TxSecKey             types.SecretKey
	Dst                  types.Destination
	ChangeAddr           *types.Address
	OutputIndex          int
	NeedAdditionalTxKeys bool
	AdditionalTxSecs     []types.SecretKey
	UseViewTags          bool
}

// OutputEphemeralKeys is the result of deriving one output
type OutputEphemeralKeys struct {
	OutEphemeral    types.PublicKey
	AmountKey       types.SecretKey
	AdditionalTxPub *types.PublicKey
	ViewTag         types.ViewTag
}

// Device is the signing backend used during transaction construction.
// Usage is bracketed: OpenTx before the build, CloseTx on every exit path.
type Device interface {
	// OpenTx acquires the device and returns a fresh transaction secret key
	OpenTx() (types.SecretKey, error)
	CloseTx() error

	GenerateKeyDerivation(pub types.PublicKey, sec types.SecretKey) (types.KeyDerivation, error)
	DerivePublicKey(d types.KeyDerivation, outputIndex int, base types.PublicKey) (types.PublicKey, error)
	ScalarmultBase(sec types.SecretKey) (types.PublicKey, error)
	ScalarmultKey(p types.PublicKey, sec types.SecretKey) (types.PublicKey, error)

	// EncryptPaymentID masks a short payment id under the shared secret of
	// the recipient view key and the transaction secret
	EncryptPaymentID(paymentID [8]byte, viewPub types.PublicKey, txSec types.SecretKey) ([8]byte, error)

	// GenerateOutputEphemeralKeys derives the one-time output key, the
	// amount key, the optional per-output tx public key and the view tag
	GenerateOutputEphemeralKeys(p *OutputEphemeralParams) (*OutputEphemeralKeys, error)
}

// Software is the host-side device implementation
type Software struct {
	open bool
}

// NewSoftware creates a software signing device
func NewSoftware() *Software {
	return &Software{}
}

// OpenTx marks the device busy and generates the transaction secret
func (d *Software) OpenTx() (types.SecretKey, error) {
	if d.open {
		return types.SecretKey{}, ErrTxAlreadyOpen
	}
	sec, err := crypto.RandomScalar()
	if err != nil {
		return types.SecretKey{}, err
	}
	d.open = true
	return sec, nil
}

// CloseTx releases the device
func (d *Software) CloseTx() error {
	d.open = false
	return nil
}

func (d *Software) GenerateKeyDerivation(pub types.PublicKey, sec types.SecretKey) (types.KeyDerivation, error) {
	return crypto.GenerateKeyDerivation(pub, sec)
}

func (d *Software) DerivePublicKey(kd types.KeyDerivation, outputIndex int, base types.PublicKey) (types.PublicKey, error) {
	return crypto.DerivePublicKey(kd, outputIndex, base)
}

func (d *Software) ScalarmultBase(sec types.SecretKey) (types.PublicKey, error) {
	return crypto.SecretKeyToPublic(sec)
}

func (d *Software) ScalarmultKey(p types.PublicKey, sec types.SecretKey) (types.PublicKey, error) {
	return crypto.ScalarmultPublic(p, sec)
}

// paymentIDTail domain-separates the payment id mask from other hashes
const paymentIDTail = 0x8d

func (d *Software) EncryptPaymentID(paymentID [8]byte, viewPub types.PublicKey, txSec types.SecretKey) ([8]byte, error) {
	derivation, err := crypto.GenerateKeyDerivation(viewPub, txSec)
	if err != nil {
		return [8]byte{}, err
	}
	buf := make([]byte, 0, 33)
	buf = append(buf, derivation[:]...)
	buf = append(buf, paymentIDTail)
	mask := types.Keccak(buf)
	for i := 0; i < 8; i++ {
		paymentID[i] ^= mask[i]
	}
	return paymentID, nil
}

func (d *Software) GenerateOutputEphemeralKeys(p *OutputEphemeralParams) (*OutputEphemeralKeys, error) {
	changeToSelf := p.ChangeAddr != nil && p.Dst.Addr == *p.ChangeAddr

	var derivation types.KeyDerivation
	var additionalTxPub *types.PublicKey
	var err error

	if changeToSelf {
		// change returns to the sender: derive against our own view secret
		// so the wallet can scan it with the canonical tx public key
		derivation, err = crypto.GenerateKeyDerivation(p.TxPubKey, p.SenderKeys.ViewSecret)
		if err != nil {
			return nil, err
		}
	} else {
		sec := p.TxSecKey
		if p.NeedAdditionalTxKeys {
			if p.OutputIndex >= len(p.AdditionalTxSecs) {
				return nil, errors.New("missing additional tx secret for output")
			}
			sec = p.AdditionalTxSecs[p.OutputIndex]
		}
		derivation, err = crypto.GenerateKeyDerivation(p.Dst.Addr.ViewKey, sec)
		if err != nil {
			return nil, err
		}
	}

	if p.NeedAdditionalTxKeys {
		if p.OutputIndex >= len(p.AdditionalTxSecs) {
			return nil, errors.New("missing additional tx secret for output")
		}
		sec := p.AdditionalTxSecs[p.OutputIndex]
		var pub types.PublicKey
		if p.Dst.IsSubaddress {
			pub, err = crypto.ScalarmultPublic(p.Dst.Addr.SpendKey, sec)
		} else {
			pub, err = crypto.SecretKeyToPublic(sec)
		}
		if err != nil {
			return nil, err
		}
		additionalTxPub = &pub
	}

	outEph, err := crypto.DerivePublicKey(derivation, p.OutputIndex, p.Dst.Addr.SpendKey)
	if err != nil {
		return nil, err
	}

	keys := &OutputEphemeralKeys{
		OutEphemeral:    outEph,
		AmountKey:       crypto.DerivationToScalar(derivation, p.OutputIndex),
		AdditionalTxPub: additionalTxPub,
	}
	if p.UseViewTags {
		keys.ViewTag = crypto.DeriveViewTag(derivation, p.OutputIndex)
	}
	return keys, nil
}
