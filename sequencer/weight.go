package sequencer

import "github.com/holiman/uint256"

// Weight computes hat_score * ceil(sqrt(stake_in_whole_units)).
// Integer sqrt uses uint256's constant-iteration Newton's-method Sqrt
// rather than a linear scan, since a linear scan over stake is a
// quadratic-in-stake hazard once a sequencer's stake grows into the
// billions of whole units.
func Weight(hatScore uint32, stakeWholeUnits uint64) uint64 {
	if hatScore == 0 {
		return 0
	}
	stake := uint256.NewInt(stakeWholeUnits)
	floor := new(uint256.Int).Sqrt(stake)

	ceil := new(uint256.Int).Set(floor)
	squared := new(uint256.Int).Mul(floor, floor)
	if squared.Cmp(stake) != 0 {
		ceil.AddUint64(ceil, 1)
	}
	return uint64(hatScore) * ceil.Uint64()
}
