// Copyright (c) 2025 The Harvest developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"

	"github.com/harvestlabs/harvest/hvs"
	"github.com/harvestlabs/harvest/kv"
	"github.com/harvestlabs/harvest/stackedmap"
)

const readCacheSize = 512

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

// storageKey identifies one storage slot of a contract.
type storageKey struct {
	addr hvs.Address
	key  hvs.Bytes32
}

// State manages contract storage slots with snapshot-revert support.
//
// Storage access errors are absorbed into the state instance and
// surfaced via Err, so call sites can chain reads and writes without
// per-call error plumbing. Err must be checked before Commit.
type State struct {
	store kv.GetPutter
	sm    *stackedmap.StackedMap // keeps revisions of storage slots
	cache *lru.Cache             // raw slot values read from store
	err   error
}

// New create state object over the given key-value store.
func New(store kv.GetPutter) *State {
	cache, _ := lru.New(readCacheSize)
	state := &State{
		store: store,
		cache: cache,
	}
	state.sm = stackedmap.New(func(key interface{}) (interface{}, bool, error) {
		return state.srcGetter(key)
	})
	// base level, so that Put always has a level to land on
	state.sm.Push()
	return state
}

func persistentKey(k storageKey) []byte {
	buf := make([]byte, 0, 1+hvs.AddressLength+32)
	buf = append(buf, 's')
	buf = append(buf, k.addr.Bytes()...)
	return append(buf, k.key.Bytes()...)
}

// srcGetter implements stackedmap.MapGetter over the backing store.
func (s *State) srcGetter(key interface{}) (interface{}, bool, error) {
	k, ok := key.(storageKey)
	if !ok {
		panic(fmt.Errorf("unexpected key type %+v", key))
	}
	pk := persistentKey(k)
	if cached, ok := s.cache.Get(string(pk)); ok {
		return cached.([]byte), true, nil
	}
	data, err := s.store.Get(pk)
	if err != nil {
		if s.store.IsNotFound(err) {
			return []byte(nil), true, nil
		}
		return nil, false, err
	}
	s.cache.Add(string(pk), data)
	return data, true, nil
}

func (s *State) setError(err error) {
	if s.err == nil {
		s.err = &Error{err}
	}
}

// Err returns the first error occurred during state access, or nil.
func (s *State) Err() error {
	return s.err
}

// GetRawStorage returns encoded storage value for the given address and key.
func (s *State) GetRawStorage(addr hvs.Address, key hvs.Bytes32) []byte {
	data, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		s.setError(err)
		return nil
	}
	return data.([]byte)
}

// SetRawStorage set encoded storage value for the given address and key.
// Empty raw value means the slot is cleared.
func (s *State) SetRawStorage(addr hvs.Address, key hvs.Bytes32, raw []byte) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// GetStructuredStorage get and decode storage value for the given address and key.
// val should be either a StorageDecoder, or one of the plain slot types.
func (s *State) GetStructuredStorage(addr hvs.Address, key hvs.Bytes32, val interface{}) {
	raw := s.GetRawStorage(addr, key)
	if err := decodeStorageValue(raw, val); err != nil {
		s.setError(err)
	}
}

// SetStructuredStorage encode and set storage value for the given address and key.
// val should be either a StorageEncoder, or one of the plain slot types.
func (s *State) SetStructuredStorage(addr hvs.Address, key hvs.Bytes32, val interface{}) {
	raw, err := encodeStorageValue(val)
	if err != nil {
		s.setError(err)
		return
	}
	s.SetRawStorage(addr, key, raw)
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}

// Commit writes all accumulated changes into the backing store, then
// resets the journal. It's a no-op if Err is set, and returns that error.
func (s *State) Commit() error {
	if s.err != nil {
		return s.err
	}

	// squash journal, later puts win
	changes := make(map[storageKey][]byte)
	s.sm.Journal(func(key, value interface{}) bool {
		changes[key.(storageKey)] = value.([]byte)
		return true
	})

	batch := s.store.NewBatch()
	for k, raw := range changes {
		pk := persistentKey(k)
		if len(raw) == 0 {
			if err := batch.Delete(pk); err != nil {
				return &Error{err}
			}
			s.cache.Add(string(pk), []byte(nil))
			continue
		}
		if err := batch.Put(pk, raw); err != nil {
			return &Error{err}
		}
		s.cache.Add(string(pk), raw)
	}
	if err := batch.Write(); err != nil {
		return &Error{err}
	}

	s.sm.PopTo(0)
	s.sm.Push()
	return nil
}
