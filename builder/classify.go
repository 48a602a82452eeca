package builder

import (
	"github.com/scala-network/scala/types"
)

// ClassifyAddresses partitions destinations into standard and subaddress
// counts, deduplicating by full address and skipping the change address.
// When the destinations reduce to exactly one unique subaddress it is
// returned as singleSubaddress.
func ClassifyAddresses(destinations []types.Destination, changeAddr *types.Address) (numStd, numSub int, singleSubaddress types.Address) {
	seen := make(map[types.Address]struct{}, len(destinations))
	for _, dst := range destinations {
		if changeAddr != nil && dst.Addr == *changeAddr {
			continue
		}
		if _, ok := seen[dst.Addr]; ok {
			continue
		}
		seen[dst.Addr] = struct{}{}
		if dst.IsSubaddress {
			numSub++
			singleSubaddress = dst.Addr
		} else {
			numStd++
		}
	}
	return numStd, numSub, singleSubaddress
}

// needAdditionalTxKeys reports whether per-output tx public keys are
// required: at least one subaddress together with any standard address or a
// second subaddress.
func needAdditionalTxKeys(numStd, numSub int) bool {
	return numSub > 0 && (numStd > 0 || numSub > 1)
}

// DestinationViewKeyPub collapses the destinations to the single view key
// used for payment-id encryption. Zero-amount entries, the change address
// and repeats of one address are skipped; more than one distinct recipient
// yields the zero key. With no recipients left, the change view key is used.
func DestinationViewKeyPub(destinations []types.Destination, changeAddr *types.Address) types.PublicKey {
	var addr types.Address
	count := 0
	for _, dst := range destinations {
		if dst.Amount == 0 {
			continue
		}
		if changeAddr != nil && dst.Addr == *changeAddr {
			continue
		}
		if dst.Addr == addr {
			continue
		}
		if count > 0 {
			return types.PublicKey{}
		}
		addr = dst.Addr
		count++
	}
	if count == 0 && changeAddr != nil {
		return changeAddr.ViewKey
	}
	return addr.ViewKey
}
