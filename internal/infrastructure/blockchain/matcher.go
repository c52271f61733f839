package blockchain

import (
	"github.com/ethereum/go-ethereum/common"
)

// MatchesTarget reports whether a transaction's recipient equals the tracked
// contract address. Comparison is on the canonical 20-byte form, so letter
// casing of the original hex strings never affects the result. A nil
// recipient (contract creation) never matches.
func MatchesTarget(recipient *common.Address, target common.Address) bool {
	if recipient == nil {
		return false
	}
	return *recipient == target
}
