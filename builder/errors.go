package builder

import "errors"

// Construction failures. Every invariant check maps to one of these; the
// core never recovers internally and never emits a malformed transaction.
var (
	ErrEmptySources               = errors.New("no sources to spend")
	ErrSourceRingIndexOutOfBounds = errors.New("source real output index outside its ring")
	ErrDerivedKeyMismatch         = errors.New("derived ephemeral key does not match source output key")
	ErrMaxOutsExceeded            = errors.New("coinbase decomposition exceeds max outputs")
	ErrPaymentIDEncryption        = errors.New("failed to encrypt payment id")
	ErrNoUniqueDestinationViewKey = errors.New("destinations do not collapse to one view key")
	ErrAmountImbalance            = errors.New("output amounts exceed input amounts")
	ErrAdditionalKeyCountMismatch = errors.New("additional tx key count does not match destinations")
	ErrNonSimpleRctRealIndex      = errors.New("non-simple ringct requires one shared real index")
	ErrNonSimpleRctRingSize       = errors.New("non-simple ringct requires uniform ring size")
	ErrDeviceFailure              = errors.New("signing device failure")
	ErrZeroDestination            = errors.New("destination with zero amount in a v1 transaction")
	ErrOutSkSizeMismatch          = errors.New("rct output secrets do not match vout")
)
