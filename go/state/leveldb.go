// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package state

import (
	"fmt"
	"strings"
	"sync"

	"github.com/Fantom-foundation/Contessa/go/contessa"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// Key prefixes of the persisted tables.
const (
	accountPrefix = 'a'
	codePrefix    = 'c'
	storagePrefix = 's'
)

// LevelDb is a WorldState persisted in a LevelDB database. Accounts and code
// infos are RLP encoded; storage items are stored as raw values under a key
// combining the namespace and the item key.
//
// Updates are buffered and written in a single batch by Flush, so a commit
// is either persisted completely or not at all. The WorldState interface has
// no error results; database failures are therefore logged and recorded, and
// the first one is reported by Err, Flush, and Close.
type LevelDb struct {
	db       *leveldb.DB
	pending  map[string][]byte // nil values mark deletions
	errMutex sync.Mutex
	err      error
}

var _ contessa.PersistentWorldState = (*LevelDb)(nil)

// OpenLevelDb opens or creates a database in the given directory. If the path
// is empty, the database is kept in memory.
func OpenLevelDb(path string) (*LevelDb, error) {
	var db *leveldb.DB
	var err error
	if path == "" {
		db, err = leveldb.Open(storage.NewMemStorage(), nil)
	} else {
		db, err = leveldb.OpenFile(path, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %q: %w", path, err)
	}
	return &LevelDb{db: db, pending: map[string][]byte{}}, nil
}

// Err returns the first error encountered while accessing the database.
func (s *LevelDb) Err() error {
	s.errMutex.Lock()
	defer s.errMutex.Unlock()
	return s.err
}

// Flush writes all buffered updates in one batch. After a failure, buffered
// updates are dropped and the failure is reported instead.
func (s *LevelDb) Flush() error {
	pending := s.pending
	s.pending = map[string][]byte{}
	if err := s.Err(); err != nil {
		return err
	}
	if len(pending) == 0 {
		return nil
	}
	batch := new(leveldb.Batch)
	for key, data := range pending {
		if data == nil {
			batch.Delete([]byte(key))
		} else {
			batch.Put([]byte(key), data)
		}
	}
	if err := s.db.Write(batch, nil); err != nil {
		s.fail("failed to write batch", err, "updates", batch.Len())
		return s.Err()
	}
	return nil
}

// Close flushes buffered updates and closes the database, returning the
// first recorded error if any.
func (s *LevelDb) Close() error {
	flushErr := s.Flush()
	closeErr := s.db.Close()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}

func (s *LevelDb) fail(msg string, err error, ctx ...any) {
	log.Error(msg, append(ctx, "err", err)...)
	s.errMutex.Lock()
	defer s.errMutex.Unlock()
	if s.err == nil {
		s.err = fmt.Errorf("%s: %w", msg, err)
	}
}

func accountKey(address contessa.Address) []byte {
	return append([]byte{accountPrefix}, address[:]...)
}

func codeKey(hash contessa.Hash) []byte {
	return append([]byte{codePrefix}, hash[:]...)
}

func storageNamespace(namespace contessa.Hash) []byte {
	return append([]byte{storagePrefix}, namespace[:]...)
}

func storageKey(namespace contessa.Hash, key []byte) []byte {
	return append(storageNamespace(namespace), key...)
}

// read looks up the given key, preferring buffered updates.
func (s *LevelDb) read(key []byte) ([]byte, bool) {
	if data, found := s.pending[string(key)]; found {
		if data == nil {
			return nil, false
		}
		return append([]byte{}, data...), true
	}
	data, err := s.db.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return nil, false
	}
	if err != nil {
		s.fail("failed to read from database", err, "key", fmt.Sprintf("%x", key))
		return nil, false
	}
	return data, true
}

// get reads and decodes the value stored under the given key.
func (s *LevelDb) get(key []byte, value any) bool {
	data, found := s.read(key)
	if !found {
		return false
	}
	if err := rlp.DecodeBytes(data, value); err != nil {
		s.fail("failed to decode database entry", err, "key", fmt.Sprintf("%x", key))
		return false
	}
	return true
}

// put encodes and buffers the value under the given key.
func (s *LevelDb) put(key []byte, value any) {
	data, err := rlp.EncodeToBytes(value)
	if err != nil {
		s.fail("failed to encode database entry", err, "key", fmt.Sprintf("%x", key))
		return
	}
	s.write(key, data)
}

func (s *LevelDb) write(key []byte, data []byte) {
	s.pending[string(key)] = append([]byte{}, data...)
}

func (s *LevelDb) delete(key []byte) {
	s.pending[string(key)] = nil
}

func (s *LevelDb) GetAccount(address contessa.Address) (contessa.Account, bool) {
	var account contessa.Account
	if !s.get(accountKey(address), &account) {
		return contessa.Account{}, false
	}
	return account, true
}

func (s *LevelDb) SetAccount(address contessa.Address, account contessa.Account) {
	s.put(accountKey(address), &account)
}

func (s *LevelDb) DeleteAccount(address contessa.Address) {
	s.delete(accountKey(address))
}

func (s *LevelDb) GetStorage(namespace contessa.Hash, key []byte) ([]byte, bool) {
	return s.read(storageKey(namespace, key))
}

func (s *LevelDb) SetStorage(namespace contessa.Hash, key []byte, value []byte) {
	if value == nil {
		s.delete(storageKey(namespace, key))
		return
	}
	s.write(storageKey(namespace, key), value)
}

func (s *LevelDb) ClearStorage(namespace contessa.Hash) {
	prefix := storageNamespace(namespace)
	for key := range s.pending {
		if strings.HasPrefix(key, string(prefix)) {
			s.pending[key] = nil
		}
	}
	iter := s.db.NewIterator(util.BytesPrefix(prefix), nil)
	for iter.Next() {
		s.delete(iter.Key())
	}
	iter.Release()
	if err := iter.Error(); err != nil {
		s.fail("failed to iterate storage", err, "namespace", namespace)
	}
}

func (s *LevelDb) GetCode(hash contessa.Hash) (contessa.CodeInfo, bool) {
	var info contessa.CodeInfo
	if !s.get(codeKey(hash), &info) {
		return contessa.CodeInfo{}, false
	}
	return info, true
}

func (s *LevelDb) SetCode(hash contessa.Hash, info contessa.CodeInfo) {
	s.put(codeKey(hash), &info)
}

func (s *LevelDb) DeleteCode(hash contessa.Hash) {
	s.delete(codeKey(hash))
}
