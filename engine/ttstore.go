package engine

import (
	"encoding/binary"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
)

// TTStore is the persistent analysis cache: a Badger key-value store holding
// the deeper exact entries of the transposition table, so repeated analysis
// sessions on the same positions warm-start instead of re-searching from
// scratch. It is not an opening book; nothing in it is hand-curated.
type TTStore struct {
	db *badger.DB
}

// Entries below this depth are not worth persisting.
const persistMinDepth = 6

var ttStoreVersionKey = []byte("!version")

const ttStoreVersion byte = 1

// OpenTTStore opens (or creates) the cache at path. A cache written by an
// incompatible version is dropped rather than misread, since the entry
// encoding and the Zobrist keys both have to match.
func OpenTTStore(path string) (*TTStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	s := &TTStore{db: db}
	if err := s.checkVersion(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *TTStore) checkVersion() error {
	return s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(ttStoreVersionKey)
		if err == badger.ErrKeyNotFound {
			return txn.Set(ttStoreVersionKey, []byte{ttStoreVersion})
		}
		if err != nil {
			return err
		}
		ok := false
		err = item.Value(func(v []byte) error {
			ok = len(v) == 1 && v[0] == ttStoreVersion
			return nil
		})
		if err != nil {
			return err
		}
		if !ok {
			if err := s.db.DropAll(); err != nil {
				return errors.Wrap(err, "dropping stale cache")
			}
			return s.db.Update(func(txn *badger.Txn) error {
				return txn.Set(ttStoreVersionKey, []byte{ttStoreVersion})
			})
		}
		return nil
	})
}

// Close closes the underlying store.
func (s *TTStore) Close() error {
	return s.db.Close()
}

// SaveFrom writes the table's deep exact entries to the store. Keys are the
// position hashes; values are the packed entry words with the generation
// bits cleared, since generations do not survive a process.
func (s *TTStore) SaveFrom(tt *TransTable) error {
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	var key, val [8]byte
	for i := range tt.slots {
		k := tt.slots[i].key.Load()
		data := tt.slots[i].data.Load()
		if data == 0 {
			continue
		}
		e := unpackEntry(data)
		if e.Flag != ExactFlag || e.Depth < persistMinDepth {
			continue
		}
		hash := k ^ data
		binary.BigEndian.PutUint64(key[:], hash)
		binary.BigEndian.PutUint64(val[:], packEntry(e.Move, int16(e.Score), e.Depth, e.Flag, 0))
		if err := wb.Set(append([]byte(nil), key[:]...), append([]byte(nil), val[:]...)); err != nil {
			return err
		}
	}
	return wb.Flush()
}

// LoadInto replays every stored entry into the table.
func (s *TTStore) LoadInto(tt *TransTable) error {
	return s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			if len(item.Key()) != 8 {
				continue // meta keys
			}
			hash := binary.BigEndian.Uint64(item.Key())
			err := item.Value(func(v []byte) error {
				if len(v) != 8 {
					return nil
				}
				e := unpackEntry(binary.BigEndian.Uint64(v))
				tt.Store(hash, e.Depth, 0, e.Move, e.Score, e.Flag)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}
