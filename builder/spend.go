package builder

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/scala-network/scala/crypto"
	"github.com/scala-network/scala/device"
	"github.com/scala-network/scala/ringct"
	"github.com/scala-network/scala/types"
)

// TxParams carries the inputs of a spend-transaction construction. Sources
// and Destinations are reordered in place: sources follow the canonical
// input permutation, destinations follow the output shuffle.
type TxParams struct {
	SenderKeys       *crypto.AccountKeys
	Subaddresses     map[types.PublicKey]types.SubaddressIndex
	Sources          []types.Source
	Destinations     []types.Destination
	ChangeAddr       *types.Address
	Extra            []byte
	UnlockTime       uint64
	TxKey            types.SecretKey
	AdditionalTxKeys []types.SecretKey
	RCT              bool
	RctConfig        ringct.Config
	ShuffleOuts      bool
	UseViewTags      bool
	Device           device.Device
	Signer           *ringct.Signer
}

// ConstructTxWithTxKey assembles a spend transaction with a caller-supplied
// transaction secret. On any failure the transaction is left empty.
func ConstructTxWithTxKey(p *TxParams, tx *types.Transaction) (err error) {
	tx.SetNull()
	if len(p.Sources) == 0 {
		return ErrEmptySources
	}
	defer func() {
		if err != nil {
			tx.SetNull()
		}
	}()

	if p.RCT {
		tx.Version = 2
	} else {
		tx.Version = 1
	}
	tx.UnlockTime = p.UnlockTime
	tx.Extra = append([]byte(nil), p.Extra...)

	if err = normalizePaymentID(p, tx); err != nil {
		return err
	}

	// inputs: recover each source's ephemeral keypair and key image, then
	// reference the ring through relative offsets
	inContexts := make([]*crypto.KeyPair, 0, len(p.Sources))
	var summaryIn uint64
	for idx := range p.Sources {
		src := &p.Sources[idx]
		if src.RealOutput < 0 || src.RealOutput >= len(src.Outputs) {
			return fmt.Errorf("source %d: %w", idx, ErrSourceRingIndexOutOfBounds)
		}
		summaryIn += src.Amount

		realKey := src.Outputs[src.RealOutput].Key
		eph, keyImage, kerr := crypto.GenerateKeyImageHelper(p.SenderKeys, p.Subaddresses,
			realKey, src.RealOutTxKey, src.RealOutAdditionalTxKeys, src.RealOutputInTxIndex)
		if kerr != nil {
			return fmt.Errorf("source %d: %w: %w", idx, ErrDerivedKeyMismatch, kerr)
		}
		if eph.Pub != realKey {
			return fmt.Errorf("source %d: %w", idx, ErrDerivedKeyMismatch)
		}
		inContexts = append(inContexts, eph)

		offsets := make([]uint64, len(src.Outputs))
		for n, o := range src.Outputs {
			offsets[n] = o.GlobalIndex
		}
		tx.Vin = append(tx.Vin, types.TxInToKey{
			Amount:     src.Amount,
			KeyOffsets: AbsoluteOutputOffsetsToRelative(offsets),
			KeyImage:   keyImage,
		})
	}

	if p.ShuffleOuts {
		shuffleDestinations(p.Destinations)
	}

	// canonical input ordering: descending by key image, with the ephemeral
	// contexts and sources permuted in lockstep
	keyImageAt := func(i int) types.KeyImage {
		return tx.Vin[i].(types.TxInToKey).KeyImage
	}
	order := sortPermutation(len(p.Sources), func(i, j int) bool {
		return keyImageAt(i).Compare(keyImageAt(j)) > 0
	})
	applyPermutation(order, func(i, j int) {
		tx.Vin[i], tx.Vin[j] = tx.Vin[j], tx.Vin[i]
		inContexts[i], inContexts[j] = inContexts[j], inContexts[i]
		p.Sources[i], p.Sources[j] = p.Sources[j], p.Sources[i]
	})

	numStd, numSub, singleSub := ClassifyAddresses(p.Destinations, p.ChangeAddr)

	// a single-subaddress transfer sets the tx pubkey to s*D instead of s*G
	var txPubKey types.PublicKey
	if numStd == 0 && numSub == 1 {
		txPubKey, err = p.Device.ScalarmultKey(singleSub.SpendKey, p.TxKey)
	} else {
		txPubKey, err = p.Device.ScalarmultBase(p.TxKey)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDeviceFailure, err)
	}
	if tx.Extra, err = types.RemoveFieldFromExtra(tx.Extra, types.ExtraTagPubKey); err != nil {
		return err
	}
	tx.Extra = types.AddTxPubKeyToExtra(tx.Extra, txPubKey)

	needAdditional := needAdditionalTxKeys(numStd, numSub)
	if needAdditional && len(p.AdditionalTxKeys) != len(p.Destinations) {
		return ErrAdditionalKeyCountMismatch
	}

	// outputs: one stealth output per destination, accumulating the amount
	// keys that later encrypt the confidential amounts
	amountKeys := make([]ringct.Key, 0, len(p.Destinations))
	additionalTxPubs := make([]types.PublicKey, 0, len(p.AdditionalTxKeys))
	var summaryOut uint64
	for outputIndex, dst := range p.Destinations {
		if dst.Amount == 0 && tx.Version == 1 {
			return fmt.Errorf("output %d: %w", outputIndex, ErrZeroDestination)
		}
		keys, derr := p.Device.GenerateOutputEphemeralKeys(&device.OutputEphemeralParams{
			TxVersion:            tx.Version,
			SenderKeys:           p.SenderKeys,
			TxPubKey:             txPubKey,
			TxSecKey:             p.TxKey,
			Dst:                  dst,
			ChangeAddr:           p.ChangeAddr,
			OutputIndex:          outputIndex,
			NeedAdditionalTxKeys: needAdditional,
			AdditionalTxSecs:     p.AdditionalTxKeys,
			UseViewTags:          p.UseViewTags,
		})
		if derr != nil {
			return fmt.Errorf("output %d: %w: %w", outputIndex, ErrDeviceFailure, derr)
		}
		if keys.AdditionalTxPub != nil {
			additionalTxPubs = append(additionalTxPubs, *keys.AdditionalTxPub)
		}
		amountKeys = append(amountKeys, ringct.Key(keys.AmountKey))

		var target types.TxOutTarget
		if p.UseViewTags {
			target = types.TxOutToTaggedKey{Key: keys.OutEphemeral, ViewTag: keys.ViewTag}
		} else {
			target = types.TxOutToKey{Key: keys.OutEphemeral}
		}
		tx.Vout = append(tx.Vout, types.TxOut{Amount: dst.Amount, Target: target})
		summaryOut += dst.Amount
	}
	if len(additionalTxPubs) != len(p.AdditionalTxKeys) {
		return ErrAdditionalKeyCountMismatch
	}

	if tx.Extra, err = types.RemoveFieldFromExtra(tx.Extra, types.ExtraTagAdditionalPubKeys); err != nil {
		return err
	}
	if needAdditional {
		tx.Extra = types.AddAdditionalTxPubKeysToExtra(tx.Extra, additionalTxPubs)
	}
	if tx.Extra, err = types.SortExtra(tx.Extra); err != nil {
		return err
	}
	if len(tx.Extra) > types.MaxTxExtraSize {
		return types.ErrExtraTooLarge
	}

	if summaryOut > summaryIn {
		return ErrAmountImbalance
	}

	// watch-only accounts prepare unsigned transactions
	watchOnly := p.SenderKeys.SpendSecret.IsZero()

	tx.InvalidateHashes()
	if tx.Version == 1 {
		err = signRingSignatures(p, tx, inContexts, watchOnly)
	} else {
		err = signRct(p, tx, inContexts, summaryIn, summaryOut, amountKeys)
	}
	if err != nil {
		return err
	}

	tx.InvalidateHashes()
	return nil
}

func signRingSignatures(p *TxParams, tx *types.Transaction, inContexts []*crypto.KeyPair, watchOnly bool) error {
	prefixHash := tx.PrefixHash()
	for i := range p.Sources {
		src := &p.Sources[i]
		pubs := make([]types.PublicKey, len(src.Outputs))
		for n, o := range src.Outputs {
			pubs[n] = o.Key
		}
		sigs := make([]types.Signature, len(src.Outputs))
		if !watchOnly {
			in := tx.Vin[i].(types.TxInToKey)
			real, err := crypto.GenerateRingSignature(prefixHash, in.KeyImage, pubs, inContexts[i].Sec, src.RealOutput)
			if err != nil {
				return err
			}
			copy(sigs, real)
		}
		tx.Signatures = append(tx.Signatures, sigs)
	}
	return nil
}

func signRct(p *TxParams, tx *types.Transaction, inContexts []*crypto.KeyPair,
	summaryIn, summaryOut uint64, amountKeys []ringct.Key) error {

	nTotalOuts := len(p.Sources[0].Outputs)

	// the non-simple form is smaller but assumes every input shares the same
	// real index, so it only fits a single ring
	useSimple := len(p.Sources) > 1 || p.RctConfig.RangeProofType != ringct.RangeProofBorromean
	if !useSimple {
		for i := range p.Sources {
			if p.Sources[i].RealOutput != p.Sources[0].RealOutput {
				return ErrNonSimpleRctRealIndex
			}
			if len(p.Sources[i].Outputs) != nTotalOuts {
				return ErrNonSimpleRctRingSize
			}
		}
	}

	inSk := make([]ringct.CtKey, 0, len(p.Sources))
	defer func() {
		for i := range inSk {
			inSk[i].Wipe()
		}
	}()
	inAmounts := make([]uint64, 0, len(p.Sources))
	realIdx := make([]int, 0, len(p.Sources))
	for i := range p.Sources {
		inSk = append(inSk, ringct.CtKey{
			Dest: ringct.Key(inContexts[i].Sec),
			Mask: ringct.Key(p.Sources[i].Mask),
		})
		inAmounts = append(inAmounts, p.Sources[i].Amount)
		realIdx = append(realIdx, p.Sources[i].RealOutput)
	}

	destKeys := make([]ringct.Key, len(tx.Vout))
	outAmounts := make([]uint64, 0, len(tx.Vout)+1)
	for i, out := range tx.Vout {
		destKeys[i] = ringct.Key(out.OutputKey())
		outAmounts = append(outAmounts, out.Amount)
	}

	var mixRing [][]ringct.CtKey
	if useSimple {
		mixRing = make([][]ringct.CtKey, len(p.Sources))
		for i := range p.Sources {
			mixRing[i] = make([]ringct.CtKey, len(p.Sources[i].Outputs))
			for n, o := range p.Sources[i].Outputs {
				mixRing[i][n] = ringct.CtKey{Dest: ringct.Key(o.Key), Mask: ringct.Key(o.Commitment)}
			}
		}
	} else {
		// transposed: mixRing[n][i] is ring member n of input i
		mixRing = make([][]ringct.CtKey, nTotalOuts)
		for n := 0; n < nTotalOuts; n++ {
			mixRing[n] = make([]ringct.CtKey, len(p.Sources))
			for i := range p.Sources {
				o := p.Sources[i].Outputs[n]
				mixRing[n][i] = ringct.CtKey{Dest: ringct.Key(o.Key), Mask: ringct.Key(o.Commitment)}
			}
		}
	}

	fee := summaryIn - summaryOut
	if !useSimple && fee > 0 {
		outAmounts = append(outAmounts, fee)
	}

	// mask the cleartext amounts; real values live in the commitments now
	for i := range tx.Vin {
		if p.Sources[i].RCT {
			in := tx.Vin[i].(types.TxInToKey)
			in.Amount = 0
			tx.Vin[i] = in
		}
	}
	for i := range tx.Vout {
		tx.Vout[i].Amount = 0
	}
	tx.InvalidateHashes()
	message := ringct.Key(tx.PrefixHash())

	var sig *ringct.Sig
	var outSk []ringct.CtKey
	var err error
	if useSimple {
		sig, outSk, err = p.Signer.GenSimple(message, inSk, destKeys, inAmounts,
			outAmounts, fee, mixRing, amountKeys, realIdx, p.RctConfig)
	} else {
		sig, outSk, err = p.Signer.GenFull(message, inSk, destKeys, outAmounts,
			mixRing, amountKeys, p.Sources[0].RealOutput, p.RctConfig)
	}
	if err != nil {
		return err
	}
	if len(outSk) != len(tx.Vout) {
		return ErrOutSkSizeMismatch
	}
	// the commitment openings are only needed inside the signer
	for i := range outSk {
		outSk[i].Wipe()
	}
	tx.RctSignatures = sig
	return nil
}

// normalizePaymentID encrypts a short payment id with the recipient's view
// key, leaves long ids alone, and otherwise synthesizes an encrypted dummy so
// two-output transactions are indistinguishable. A malformed extra is
// tolerated here; later canonicalization rejects it.
func normalizePaymentID(p *TxParams, tx *types.Transaction) error {
	fields, perr := types.ParseExtra(tx.Extra)
	if perr != nil {
		return nil
	}

	addDummy := true
	if nonce, ok := types.FindExtraNonce(fields); ok {
		if pid8, ok := types.EncryptedPaymentIDFromNonce(nonce.Nonce); ok {
			viewKeyPub := DestinationViewKeyPub(p.Destinations, p.ChangeAddr)
			if viewKeyPub.IsZero() {
				return ErrNoUniqueDestinationViewKey
			}
			enc, err := p.Device.EncryptPaymentID(pid8, viewKeyPub, p.TxKey)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrPaymentIDEncryption, err)
			}
			if tx.Extra, err = types.RemoveFieldFromExtra(tx.Extra, types.ExtraTagNonce); err != nil {
				return err
			}
			if tx.Extra, err = types.AddExtraNonceToExtra(tx.Extra, types.SetEncryptedPaymentIDToNonce(enc)); err != nil {
				return err
			}
			addDummy = false
		} else if _, ok := types.PaymentIDFromNonce(nonce.Nonce); ok {
			addDummy = false
		}
	}

	// only the usual one-recipient-plus-change shape gets a dummy id
	if len(p.Destinations) > 2 {
		addDummy = false
	}
	if !addDummy {
		return nil
	}

	viewKeyPub := DestinationViewKeyPub(p.Destinations, p.ChangeAddr)
	if viewKeyPub.IsZero() {
		return nil
	}
	// a failed dummy id is dropped rather than failing the build
	var dummy [8]byte
	enc, err := p.Device.EncryptPaymentID(dummy, viewKeyPub, p.TxKey)
	if err != nil {
		return nil
	}
	extra, err := types.AddExtraNonceToExtra(tx.Extra, types.SetEncryptedPaymentIDToNonce(enc))
	if err == nil {
		tx.Extra = extra
	}
	return nil
}

// shuffleDestinations runs a Fisher-Yates shuffle with the host's CSPRNG
func shuffleDestinations(dsts []types.Destination) {
	for i := len(dsts) - 1; i > 0; i-- {
		j := randomIndex(i + 1)
		dsts[i], dsts[j] = dsts[j], dsts[i]
	}
}

func randomIndex(n int) int {
	var b [8]byte
	rand.Read(b[:])
	return int(binary.LittleEndian.Uint64(b[:]) % uint64(n))
}
