package chain

import (
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// SS58 addresses are base58 without 0, O, I, l; length covers the
// one-byte network prefixes used by Polkadot-family chains.
var ss58Pattern = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{46,48}$`)

// DetectFormat classifies an address into its family. The second return
// is false when the address belongs to no supported family.
func DetectFormat(address string) (AddressFormat, bool) {
	clean := strings.TrimSpace(address)
	if clean == "" {
		return "", false
	}
	if common.IsHexAddress(clean) {
		return AddressFormatEVM, true
	}
	if ss58Pattern.MatchString(clean) {
		return AddressFormatSubstrate, true
	}
	return "", false
}

// Compatible reports whether an address can receive funds on a chain
// with the given format. Compatibility must hold in both directions: the
// address family implies the chain format and the chain format implies
// the address family, so an unclassifiable address is never compatible.
func Compatible(address string, format AddressFormat) bool {
	detected, ok := DetectFormat(address)
	if !ok {
		return false
	}
	return detected == format
}
