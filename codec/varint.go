package codec

// AppendVarint encodes n as a CompactSize-style varint and appends to dst.
// This is the "varint length" prefix required by for length-prefixed
// byte vectors.
func AppendVarint(dst []byte, n uint64) []byte {
	switch {
	case n < 0xfd:
		return append(dst, byte(n))
	case n <= 0xffff:
		dst = append(dst, 0xfd)
		return AppendU16(dst, uint16(n))
	case n <= 0xffff_ffff:
		dst = append(dst, 0xfe)
		return AppendU32(dst, uint32(n))
	default:
		dst = append(dst, 0xff)
		return AppendU64(dst, n)
	}
}

func readVarint(b []byte, off *int) (uint64, error) {
	tag, err := readU8(b, off)
	if err != nil {
		return 0, err
	}
	switch {
	case tag < 0xfd:
		return uint64(tag), nil
	case tag == 0xfd:
		v, err := readU16(b, off)
		if err != nil {
			return 0, err
		}
		if v < 0xfd {
			return 0, xerr(ErrNonMinimal, "varint 0xfd")
		}
		return uint64(v), nil
	case tag == 0xfe:
		v, err := readU32(b, off)
		if err != nil {
			return 0, err
		}
		if v <= 0xffff {
			return 0, xerr(ErrNonMinimal, "varint 0xfe")
		}
		return uint64(v), nil
	default:
		v, err := readU64(b, off)
		if err != nil {
			return 0, err
		}
		if v <= 0xffff_ffff {
			return 0, xerr(ErrNonMinimal, "varint 0xff")
		}
		return v, nil
	}
}

// AppendBytes appends a varint-length-prefixed byte vector.
func AppendBytes(dst []byte, b []byte) []byte {
	dst = AppendVarint(dst, uint64(len(b)))
	return append(dst, b...)
}

func readVarintBytes(b []byte, off *int, maxLen int) ([]byte, error) {
	n, err := readVarint(b, off)
	if err != nil {
		return nil, err
	}
	if maxLen > 0 && n > uint64(maxLen) {
		return nil, xerr(ErrLengthExceed, "varint-prefixed length exceeds cap")
	}
	return readBytes(b, off, int(n))
}
