package builder

import (
	"fmt"

	"github.com/scala-network/scala/crypto"
	"github.com/scala-network/scala/ringct"
	"github.com/scala-network/scala/types"
)

// ConstructTxAndGetTxKey brackets a construction on the signing device: the
// device is opened for a fresh transaction secret and closed on every exit
// path. Additional per-output tx secrets are generated here when the
// destination mix requires them. The secrets are returned so the wallet can
// store them for proofs.
func ConstructTxAndGetTxKey(p *TxParams, tx *types.Transaction) (types.SecretKey, []types.SecretKey, error) {
	txKey, err := p.Device.OpenTx()
	if err != nil {
		return types.SecretKey{}, nil, fmt.Errorf("%w: %w", ErrDeviceFailure, err)
	}
	defer p.Device.CloseTx()

	p.TxKey = txKey

	numStd, numSub, _ := ClassifyAddresses(p.Destinations, p.ChangeAddr)
	if needAdditionalTxKeys(numStd, numSub) {
		p.AdditionalTxKeys = p.AdditionalTxKeys[:0]
		for range p.Destinations {
			sec, kerr := crypto.RandomScalar()
			if kerr != nil {
				return types.SecretKey{}, nil, kerr
			}
			p.AdditionalTxKeys = append(p.AdditionalTxKeys, sec)
		}
	}

	p.ShuffleOuts = true
	if err := ConstructTxWithTxKey(p, tx); err != nil {
		return types.SecretKey{}, nil, err
	}
	return p.TxKey, p.AdditionalTxKeys, nil
}

// ConstructTx builds a legacy v1 transaction for the plain single-account
// case: main address only, ring signatures, no view tags.
func ConstructTx(p *TxParams, tx *types.Transaction) error {
	p.Subaddresses = map[types.PublicKey]types.SubaddressIndex{
		p.SenderKeys.Address.SpendKey: {},
	}
	p.RCT = false
	p.RctConfig = ringct.Config{RangeProofType: ringct.RangeProofBorromean}
	p.UseViewTags = false
	_, _, err := ConstructTxAndGetTxKey(p, tx)
	return err
}
