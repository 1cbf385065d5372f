package bridge

import (
	"encoding/binary"

	"github.com/cascoin/l2/codec"
)

// opReturn is the unspendable-output marker opcode, Bitcoin-style.
const opReturn = 0x6a

const burnMarkerTag = "L2BURN"

// markerPayloadLen is chain_id(8) + recipient(20) + version(4).
const markerPayloadLen = 8 + codec.AddressSize + 4

// DecodeBurnMarker walks an L1 output script looking for the canonical
// burn marker: RETURN ‖ PUSH(6, "L2BURN") ‖ PUSH(32, payload).
// This is a minimal, single-purpose pushdata walker, not a general
// script interpreter — the L1 virtual machine is out of scope.
func DecodeBurnMarker(script []byte) (chainID uint64, recipient codec.Address, version uint32, ok bool) {
	cur := 0
	if cur >= len(script) || script[cur] != opReturn {
		return 0, codec.Address{}, 0, false
	}
	cur++

	tag, next, ok := readPush(script, cur)
	if !ok || string(tag) != burnMarkerTag {
		return 0, codec.Address{}, 0, false
	}
	cur = next

	payload, next, ok := readPush(script, cur)
	if !ok || len(payload) != markerPayloadLen {
		return 0, codec.Address{}, 0, false
	}
	cur = next
	if cur != len(script) {
		return 0, codec.Address{}, 0, false // trailing bytes: not a canonical marker
	}

	chainID = binary.BigEndian.Uint64(payload[0:8])
	copy(recipient[:], payload[8:8+codec.AddressSize])
	version = binary.BigEndian.Uint32(payload[8+codec.AddressSize:])
	return chainID, recipient, version, true
}

// readPush reads one length-prefixed pushdata element starting at off:
// a single length byte (0-75) followed by that many data bytes.
func readPush(script []byte, off int) (data []byte, next int, ok bool) {
	if off >= len(script) {
		return nil, off, false
	}
	n := int(script[off])
	if n == 0 || n > 75 {
		return nil, off, false
	}
	start := off + 1
	end := start + n
	if end > len(script) {
		return nil, off, false
	}
	return script[start:end], end, true
}

// EncodeBurnMarker builds a canonical marker script, used by tests and
// by devnet tooling that synthesizes L1 burn transactions.
func EncodeBurnMarker(chainID uint64, recipient codec.Address, version uint32) []byte {
	payload := make([]byte, markerPayloadLen)
	binary.BigEndian.PutUint64(payload[0:8], chainID)
	copy(payload[8:8+codec.AddressSize], recipient[:])
	binary.BigEndian.PutUint32(payload[8+codec.AddressSize:], version)

	script := make([]byte, 0, 2+len(burnMarkerTag)+2+len(payload))
	script = append(script, opReturn)
	script = append(script, byte(len(burnMarkerTag)))
	script = append(script, burnMarkerTag...)
	script = append(script, byte(len(payload)))
	script = append(script, payload...)
	return script
}
