package codec

import "testing"

func TestWriterReaderRoundTrip(t *testing.T) {
	var h Hash
	h[0] = 0xaa
	var a Address
	a[0] = 0xbb

	w := NewWriter()
	w.U32(42).U64(1 << 40).Bytes32(h).Addr(a).VarString("hello world")
	buf := w.Bytes()

	r := NewReader(buf)
	u32, err := r.U32()
	if err != nil || u32 != 42 {
		t.Fatalf("u32 mismatch: %v %v", u32, err)
	}
	u64, err := r.U64()
	if err != nil || u64 != 1<<40 {
		t.Fatalf("u64 mismatch: %v %v", u64, err)
	}
	gotHash, err := r.Bytes32()
	if err != nil || gotHash != h {
		t.Fatalf("hash mismatch: %v %v", gotHash, err)
	}
	gotAddr, err := r.Addr()
	if err != nil || gotAddr != a {
		t.Fatalf("addr mismatch: %v %v", gotAddr, err)
	}
	s, err := r.VarString(64)
	if err != nil || s != "hello world" {
		t.Fatalf("string mismatch: %q %v", s, err)
	}
	if r.Remaining() != 0 {
		t.Fatalf("expected no remaining bytes, got %d", r.Remaining())
	}
}

func TestVarintNonMinimalRejected(t *testing.T) {
	// 0xfd followed by a value < 0xfd is a non-minimal encoding.
	buf := []byte{0xfd, 0x01, 0x00}
	off := 0
	if _, err := readVarint(buf, &off); err == nil {
		t.Fatalf("expected non-minimal varint to be rejected")
	}
}

func TestHDeterministic(t *testing.T) {
	a := H([]byte("a"), []byte("b"))
	b := H([]byte("ab"))
	if a != b {
		t.Fatalf("H should be a pure function of the concatenated bytes")
	}
	c := H([]byte("ac"))
	if a == c {
		t.Fatalf("different inputs must not collide trivially")
	}
}

func TestBitAt(t *testing.T) {
	var key Hash
	key[0] = 0b1000_0000 // MSB of first byte set
	if BitAt(key, 0) != 1 {
		t.Fatalf("expected bit 0 to be 1")
	}
	if BitAt(key, 1) != 0 {
		t.Fatalf("expected bit 1 to be 0")
	}
}
