package codec

import "encoding/binary"

// Writer accumulates a canonical little-endian, varint-length-prefixed
// byte stream — the "signed portion" encoding required by: the byte
// concatenation of a message's fields in declared order.
type Writer struct {
	buf []byte
}

func NewWriter() *Writer { return &Writer{} }

func (w *Writer) Bytes() []byte { return w.buf }

func (w *Writer) U8(v uint8) *Writer {
	w.buf = append(w.buf, v)
	return w
}

func (w *Writer) U32(v uint32) *Writer {
	w.buf = AppendU32(w.buf, v)
	return w
}

func (w *Writer) U64(v uint64) *Writer {
	w.buf = AppendU64(w.buf, v)
	return w
}

func (w *Writer) I64(v int64) *Writer {
	return w.U64(uint64(v))
}

func (w *Writer) Fixed(b []byte) *Writer {
	w.buf = append(w.buf, b...)
	return w
}

func (w *Writer) Bytes32(h Hash) *Writer {
	return w.Fixed(h[:])
}

func (w *Writer) Addr(a Address) *Writer {
	return w.Fixed(a[:])
}

func (w *Writer) VarBytes(b []byte) *Writer {
	w.buf = AppendBytes(w.buf, b)
	return w
}

func (w *Writer) VarString(s string) *Writer {
	return w.VarBytes([]byte(s))
}

func AppendU16(dst []byte, v uint16) []byte {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	return append(dst, tmp[:]...)
}

func AppendU32(dst []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(dst, tmp[:]...)
}

func AppendU64(dst []byte, v uint64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	return append(dst, tmp[:]...)
}

// Reader walks a canonical byte stream produced by Writer.
type Reader struct {
	buf []byte
	off int
}

func NewReader(b []byte) *Reader { return &Reader{buf: b} }

func (r *Reader) Remaining() int { return len(r.buf) - r.off }

func readU8(b []byte, off *int) (uint8, error) {
	if *off+1 > len(b) {
		return 0, xerr(ErrTruncated, "u8")
	}
	v := b[*off]
	*off++
	return v, nil
}

func readU16(b []byte, off *int) (uint16, error) {
	if *off+2 > len(b) {
		return 0, xerr(ErrTruncated, "u16")
	}
	v := binary.LittleEndian.Uint16(b[*off : *off+2])
	*off += 2
	return v, nil
}

func readU32(b []byte, off *int) (uint32, error) {
	if *off+4 > len(b) {
		return 0, xerr(ErrTruncated, "u32")
	}
	v := binary.LittleEndian.Uint32(b[*off : *off+4])
	*off += 4
	return v, nil
}

func readU64(b []byte, off *int) (uint64, error) {
	if *off+8 > len(b) {
		return 0, xerr(ErrTruncated, "u64")
	}
	v := binary.LittleEndian.Uint64(b[*off : *off+8])
	*off += 8
	return v, nil
}

func readBytes(b []byte, off *int, n int) ([]byte, error) {
	if n < 0 || *off+n > len(b) {
		return nil, xerr(ErrTruncated, "fixed bytes")
	}
	v := make([]byte, n)
	copy(v, b[*off:*off+n])
	*off += n
	return v, nil
}

func (r *Reader) U8() (uint8, error)   { return readU8(r.buf, &r.off) }
func (r *Reader) U32() (uint32, error) { return readU32(r.buf, &r.off) }
func (r *Reader) U64() (uint64, error) { return readU64(r.buf, &r.off) }
func (r *Reader) I64() (int64, error) {
	v, err := r.U64()
	return int64(v), err
}

func (r *Reader) Fixed(n int) ([]byte, error) { return readBytes(r.buf, &r.off, n) }

func (r *Reader) Bytes32() (Hash, error) {
	var h Hash
	b, err := r.Fixed(HashSize)
	if err != nil {
		return h, err
	}
	copy(h[:], b)
	return h, nil
}

func (r *Reader) Addr() (Address, error) {
	var a Address
	b, err := r.Fixed(AddressSize)
	if err != nil {
		return a, err
	}
	copy(a[:], b)
	return a, nil
}

func (r *Reader) VarBytes(maxLen int) ([]byte, error) {
	return readVarintBytes(r.buf, &r.off, maxLen)
}

func (r *Reader) VarString(maxLen int) (string, error) {
	b, err := r.VarBytes(maxLen)
	return string(b), err
}
