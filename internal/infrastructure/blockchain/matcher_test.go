package blockchain

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestMatchesTarget(t *testing.T) {
	target := common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")

	t.Run("equal_address_matches", func(t *testing.T) {
		to := common.HexToAddress("0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48")
		require.True(t, MatchesTarget(&to, target))
	})

	t.Run("casing_never_affects_result", func(t *testing.T) {
		// Mixed-case checksummed form and all-lowercase form canonicalize to
		// the same 20 bytes.
		upper := common.HexToAddress("0xA0B86991C6218B36C1D19D4A2E9EB0CE3606EB48")
		require.True(t, MatchesTarget(&upper, target))
	})

	t.Run("different_address_does_not_match", func(t *testing.T) {
		to := common.HexToAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7")
		require.False(t, MatchesTarget(&to, target))
	})

	t.Run("contract_creation_does_not_match", func(t *testing.T) {
		require.False(t, MatchesTarget(nil, target))
	})

	t.Run("zero_target_only_matches_zero", func(t *testing.T) {
		zero := common.Address{}
		require.True(t, MatchesTarget(&zero, common.Address{}))
		require.False(t, MatchesTarget(&target, common.Address{}))
	})
}
