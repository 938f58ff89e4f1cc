// Package store persists ChainState snapshots in an embedded bbolt
// database, keyed by height, with the current tip recorded in a small meta
// bucket. This is harness-level plumbing layered above the pure consensus
// core — the core never opens a file itself.
package store

import (
	"encoding/binary"
	"fmt"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/blockverify/headerengine/consensus"
)

var (
	bucketStates = []byte("chain_states_by_height")
	bucketMeta   = []byte("meta")
	keyTipHeight = []byte("tip_height")
)

// DB wraps a single bbolt file holding the ChainState history.
type DB struct {
	dataDir string
	db      *bolt.DB
}

// Open opens (creating if necessary) the bbolt-backed state store rooted at
// dataDir.
func Open(dataDir string) (*DB, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("store: data_dir required")
	}

	path := filepath.Join(dataDir, "headerengine.db")
	bdb, err := bolt.Open(path, 0o600, &bolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("store: open bbolt: %w", err)
	}

	d := &DB{dataDir: dataDir, db: bdb}
	if err := d.db.Update(func(tx *bolt.Tx) error {
		for _, b := range [][]byte{bucketStates, bucketMeta} {
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

// Close releases the underlying bbolt file.
func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

// DataDir returns the directory the store was opened against.
func (d *DB) DataDir() string { return d.dataDir }

// PutState persists state at its own BlockHeight and, if it is now the
// highest height ever stored, advances the tip pointer.
func (d *DB) PutState(state consensus.ChainState) error {
	encoded := consensus.EncodeChainState(state)
	key := heightKey(state.BlockHeight)

	return d.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucketStates).Put(key, encoded); err != nil {
			return err
		}
		tip, ok, err := tipHeightLocked(tx)
		if err != nil {
			return err
		}
		if !ok || state.BlockHeight >= tip {
			return tx.Bucket(bucketMeta).Put(keyTipHeight, key)
		}
		return nil
	})
}

// GetState loads the state stored at height.
func (d *DB) GetState(height uint32) (consensus.ChainState, bool, error) {
	var out consensus.ChainState
	var ok bool
	err := d.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketStates).Get(heightKey(height))
		if v == nil {
			return nil
		}
		decoded, err := consensus.DecodeChainState(v)
		if err != nil {
			return err
		}
		out, ok = decoded, true
		return nil
	})
	return out, ok, err
}

// Tip returns the most recently advanced ChainState, if any has been
// stored.
func (d *DB) Tip() (consensus.ChainState, bool, error) {
	var out consensus.ChainState
	var ok bool
	err := d.db.View(func(tx *bolt.Tx) error {
		tipKey := tx.Bucket(bucketMeta).Get(keyTipHeight)
		if tipKey == nil {
			return nil
		}
		v := tx.Bucket(bucketStates).Get(tipKey)
		if v == nil {
			return nil
		}
		decoded, err := consensus.DecodeChainState(v)
		if err != nil {
			return err
		}
		out, ok = decoded, true
		return nil
	})
	return out, ok, err
}

func tipHeightLocked(tx *bolt.Tx) (uint32, bool, error) {
	v := tx.Bucket(bucketMeta).Get(keyTipHeight)
	if v == nil {
		return 0, false, nil
	}
	if len(v) != 4 {
		return 0, false, fmt.Errorf("store: corrupt tip_height entry")
	}
	return binary.BigEndian.Uint32(v), true, nil
}

// heightKey encodes height big-endian so bbolt's byte-order key iteration
// matches ascending height order.
func heightKey(height uint32) []byte {
	var k [4]byte
	binary.BigEndian.PutUint32(k[:], height)
	return k[:]
}
