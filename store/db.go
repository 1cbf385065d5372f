// Package store persists rollup state to disk: accounts, sequencer
// registry records, bridge burn/mint records, and the audit log, each
// in its own bbolt bucket keyed the way the in-memory component
// indexes them. The Sparse Merkle Tree itself is not serialized node
// by node; LoadManager rebuilds it at startup by replaying the
// persisted accounts back through state.Manager.SetAccount (see
// DESIGN.md). Persisted storage slots are not replayed.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	bolt "go.etcd.io/bbolt"

	"github.com/cascoin/l2/codec"
	"github.com/cascoin/l2/state"
)

// accountCacheSize bounds the in-memory read-through cache of decoded
// accounts, avoiding a bbolt read plus a decode on every GetAccount
// for hot addresses.
const accountCacheSize = 4096

var (
	bucketAccounts  = []byte("accounts_by_address")
	bucketStorage   = []byte("storage_by_contract_slot")
	bucketSequencer = []byte("sequencer_registry")
	bucketBurns     = []byte("bridge_burn_records")
	bucketMints     = []byte("bridge_mint_states")
	bucketAudit     = []byte("audit_log")
	bucketMeta      = []byte("meta")
)

var allBuckets = [][]byte{
	bucketAccounts, bucketStorage, bucketSequencer,
	bucketBurns, bucketMints, bucketAudit, bucketMeta,
}

// DB is a bbolt-backed persistence layer for one chain instance. Not
// safe for concurrent use beyond what bbolt itself serializes
// internally; DB holds no lock of its own.
type DB struct {
	dir          string
	db           *bolt.DB
	accountCache *lru.Cache[codec.Address, state.Account]
}

// ChainDir follows the datadir/chains/<chain_id_hex>/ layout.
func ChainDir(datadir, chainIDHex string) string {
	return filepath.Join(datadir, "chains", chainIDHex)
}

func ensureDir(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", path, err)
	}
	return nil
}

func Open(datadir, chainIDHex string) (*DB, error) {
	if datadir == "" {
		return nil, fmt.Errorf("datadir required")
	}
	if chainIDHex == "" {
		return nil, fmt.Errorf("chain_id_hex required")
	}
	dir := ChainDir(datadir, chainIDHex)
	if err := ensureDir(dir); err != nil {
		return nil, err
	}
	path := filepath.Join(dir, "l2.db")
	bdb, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt: %w", err)
	}
	cache, err := lru.New[codec.Address, state.Account](accountCacheSize)
	if err != nil {
		_ = bdb.Close()
		return nil, fmt.Errorf("account cache: %w", err)
	}
	d := &DB{dir: dir, db: bdb, accountCache: cache}
	if err := d.db.Update(func(tx *bolt.Tx) error {
		for _, b := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("create bucket %s: %w", string(b), err)
			}
		}
		return nil
	}); err != nil {
		_ = bdb.Close()
		return nil, err
	}
	return d, nil
}

func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

func (d *DB) Dir() string { return d.dir }

// PutAccount persists one account record keyed by address.
func (d *DB) PutAccount(addr codec.Address, acc state.Account) error {
	if err := d.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketAccounts).Put(addr[:], acc.Encode())
	}); err != nil {
		return err
	}
	d.accountCache.Add(addr, acc)
	return nil
}

// GetAccount loads one account record, or ok=false if never persisted.
// Hits the in-memory cache before touching bbolt.
func (d *DB) GetAccount(addr codec.Address) (state.Account, bool, error) {
	if acc, ok := d.accountCache.Get(addr); ok {
		return acc, true, nil
	}
	var out state.Account
	var ok bool
	err := d.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketAccounts).Get(addr[:])
		if v == nil {
			return nil
		}
		a, err := state.DecodeAccount(v)
		if err != nil {
			return err
		}
		out, ok = a, true
		return nil
	})
	if err == nil && ok {
		d.accountCache.Add(addr, out)
	}
	return out, ok, err
}

// DeleteAccount removes a persisted account record, used when the
// state rent process archives an account.
func (d *DB) DeleteAccount(addr codec.Address) error {
	if err := d.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketAccounts).Delete(addr[:])
	}); err != nil {
		return err
	}
	d.accountCache.Remove(addr)
	return nil
}

// Accounts returns every persisted address, for startup SMT
// reconstruction.
func (d *DB) Accounts() ([]codec.Address, error) {
	var out []codec.Address
	err := d.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketAccounts).Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			var a codec.Address
			copy(a[:], k)
			out = append(out, a)
		}
		return nil
	})
	return out, err
}

func storageDBKey(contract codec.Address, slot codec.Hash) []byte {
	key := make([]byte, 0, codec.AddressSize+codec.HashSize)
	key = append(key, contract[:]...)
	key = append(key, slot[:]...)
	return key
}

func (d *DB) PutStorage(contract codec.Address, slot codec.Hash, value []byte) error {
	return d.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketStorage).Put(storageDBKey(contract, slot), value)
	})
}

func (d *DB) GetStorage(contract codec.Address, slot codec.Hash) ([]byte, bool, error) {
	var out []byte
	err := d.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketStorage).Get(storageDBKey(contract, slot))
		if v != nil {
			out = append([]byte(nil), v...)
		}
		return nil
	})
	return out, out != nil, err
}

// PutRaw/GetRaw give every other component (sequencer registry, burn
// registry, mint consensus, audit log) a byte-blob store keyed by
// caller-chosen bytes, for records that already own a canonical
// encoding of their own.
func (d *DB) bucketFor(kind string) ([]byte, error) {
	switch kind {
	case "sequencer":
		return bucketSequencer, nil
	case "burns":
		return bucketBurns, nil
	case "mints":
		return bucketMints, nil
	case "audit":
		return bucketAudit, nil
	case "meta":
		return bucketMeta, nil
	default:
		return nil, fmt.Errorf("store: unknown bucket kind %q", kind)
	}
}

func (d *DB) PutRaw(kind string, key, value []byte) error {
	b, err := d.bucketFor(kind)
	if err != nil {
		return err
	}
	return d.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(b).Put(key, value)
	})
}

func (d *DB) GetRaw(kind string, key []byte) ([]byte, bool, error) {
	b, err := d.bucketFor(kind)
	if err != nil {
		return nil, false, err
	}
	var out []byte
	err = d.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(b).Get(key)
		if v != nil {
			out = append([]byte(nil), v...)
		}
		return nil
	})
	return out, out != nil, err
}

func (d *DB) DeleteRaw(kind string, key []byte) error {
	b, err := d.bucketFor(kind)
	if err != nil {
		return err
	}
	return d.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(b).Delete(key)
	})
}

// ForEach walks every key/value pair in the named bucket in key order.
func (d *DB) ForEach(kind string, fn func(key, value []byte) error) error {
	b, err := d.bucketFor(kind)
	if err != nil {
		return err
	}
	return d.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(b).ForEach(fn)
	})
}
