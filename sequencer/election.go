package sequencer

import (
	"bytes"
	"encoding/binary"
	"sort"

	"github.com/cascoin/l2/codec"
)

var electionSeedDomain = []byte("CASCOIN_L2_ELECTION_SEED_V1")

// Slot returns the slot number containing l2BlockNumber.
func Slot(l2BlockNumber, blocksPerLeader uint64) uint64 {
	if blocksPerLeader == 0 {
		return 0
	}
	return l2BlockNumber / blocksPerLeader
}

// ElectionSeedAnchor is the L1 block whose hash feeds the seed for slot
// s: max(0, floor(s*blocksPerLeader) - 6).
func ElectionSeedAnchor(slot, blocksPerLeader uint64) uint64 {
	base := slot * blocksPerLeader
	if base < 6 {
		return 0
	}
	return base - 6
}

// Seed computes the deterministic per-slot election seed.
func Seed(slot uint64, l1BlockHash codec.Hash, chainID uint64) codec.Hash {
	w := codec.NewWriter()
	w.U64(slot).Bytes32(l1BlockHash).U64(chainID).Fixed(electionSeedDomain)
	return codec.H(w.Bytes())
}

func low64(h codec.Hash) uint64 {
	return binary.BigEndian.Uint64(h[:8])
}

// Election is the result of electing a leader for one slot.
type Election struct {
	Slot       uint64
	Leader     codec.Address
	HasLeader  bool
	Backups    []codec.Address
	ValidUntil uint64
}

// ElectLeader runs weighted random selection over the candidate set
// deterministically from seed. Candidates are sorted by (weight desc,
// address asc) before selection, so the result and backup order are a
// pure function of the inputs.
func ElectLeader(slot uint64, blocksPerLeader uint64, candidates []Info, seed codec.Hash, maxBackups int) Election {
	sorted := make([]Info, len(candidates))
	copy(sorted, candidates)
	sort.Slice(sorted, func(i, j int) bool {
		wi, wj := sorted[i].Weight(), sorted[j].Weight()
		if wi != wj {
			return wi > wj
		}
		return bytes.Compare(sorted[i].Address[:], sorted[j].Address[:]) < 0
	})

	el := Election{Slot: slot, ValidUntil: (slot + 1) * blocksPerLeader}
	if len(sorted) == 0 {
		return el
	}
	if len(sorted) == 1 {
		el.Leader = sorted[0].Address
		el.HasLeader = true
		return el
	}

	var totalWeight uint64
	for _, c := range sorted {
		totalWeight += c.Weight()
	}

	var leaderIdx int
	if totalWeight == 0 {
		leaderIdx = int(low64(seed) % uint64(len(sorted)))
	} else {
		r := low64(seed) % totalWeight
		var cum uint64
		leaderIdx = len(sorted) - 1
		for i, c := range sorted {
			cum += c.Weight()
			if cum > r {
				leaderIdx = i
				break
			}
		}
	}

	el.Leader = sorted[leaderIdx].Address
	el.HasLeader = true

	for i := 0; i < len(sorted) && len(el.Backups) < maxBackups; i++ {
		if i == leaderIdx {
			continue
		}
		el.Backups = append(el.Backups, sorted[i].Address)
	}
	return el
}
