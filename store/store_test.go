package store

import (
	"path/filepath"
	"testing"

	"github.com/cascoin/l2/codec"
	"github.com/cascoin/l2/state"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	dir := t.TempDir()
	db, err := Open(dir, "deadbeef")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestPutGetAccountRoundTrip(t *testing.T) {
	db := openTestDB(t)
	var addr codec.Address
	addr[0] = 9
	acc := state.Account{Balance: 500, Nonce: 2, HatScore: 10}

	if err := db.PutAccount(addr, acc); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, ok, err := db.GetAccount(addr)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got != acc {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, acc)
	}
}

func TestSaveAndLoadManagerRoundTrip(t *testing.T) {
	db := openTestDB(t)
	m := state.NewManager()
	var a1, a2 codec.Address
	a1[0], a2[0] = 1, 2
	if err := m.SetAccount(a1, state.Account{Balance: 100}); err != nil {
		t.Fatalf("set a1: %v", err)
	}
	if err := m.SetAccount(a2, state.Account{Balance: 200}); err != nil {
		t.Fatalf("set a2: %v", err)
	}
	wantRoot := m.Root()

	if err := db.SaveManager(m); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := db.LoadManager()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Root() != wantRoot {
		t.Fatalf("reconstructed root mismatch: got %x want %x", loaded.Root(), wantRoot)
	}
	if loaded.SumBalances() != 300 {
		t.Fatalf("expected sum 300, got %d", loaded.SumBalances())
	}
}

func TestRawBucketRoundTripAndDelete(t *testing.T) {
	db := openTestDB(t)
	key := []byte("burn-1")
	val := []byte("payload")
	if err := db.PutRaw("burns", key, val); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, ok, err := db.GetRaw("burns", key)
	if err != nil || !ok || string(got) != "payload" {
		t.Fatalf("get: got %q ok=%v err=%v", got, ok, err)
	}
	if err := db.DeleteRaw("burns", key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := db.GetRaw("burns", key); ok {
		t.Fatalf("expected deleted key to be absent")
	}
}

func TestManifestWriteReadRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "chain")
	if err := ensureDir(dir); err != nil {
		t.Fatalf("ensureDir: %v", err)
	}
	m := &Manifest{SchemaVersion: SchemaVersionV1, ChainIDHex: "deadbeef", TipBlockNumber: 42}
	if err := WriteManifestAtomic(dir, m); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ReadManifest(dir)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.TipBlockNumber != 42 || got.ChainIDHex != "deadbeef" {
		t.Fatalf("unexpected manifest: %+v", got)
	}
}
