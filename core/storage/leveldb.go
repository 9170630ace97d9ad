// Copyright (C) 2023 Gobalsky Labs Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package storage persists the checkpoints of the node in LevelDB.
package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"code.dibs.finance/dibs/core/checkpoint"
	"code.dibs.finance/dibs/logging"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// SchemaVersion is the layout of the keys written by this package.
const SchemaVersion uint32 = 2

var (
	ErrNoCheckpoint = errors.New("no checkpoint stored")

	schemaKey       = []byte("schema")
	latestKey       = []byte("checkpoint/latest")
	historyPrefix   = []byte("checkpoint/history/")
	legacyLatestKey = []byte("checkpoint")
)

// migration moves the database from version n to n+1.
type migration func(tx *leveldb.Transaction) error

var migrations = map[uint32]migration{
	// version 0 had a single checkpoint key and no history
	0: func(tx *leveldb.Transaction) error {
		data, err := tx.Get(legacyLatestKey, nil)
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := tx.Put(latestKey, data, nil); err != nil {
			return err
		}
		return tx.Delete(legacyLatestKey, nil)
	},
	// version 1 did not keep the history
	1: func(tx *leveldb.Transaction) error {
		data, err := tx.Get(latestKey, nil)
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return tx.Put(historyKey(1), data, nil)
	},
}

type LevelDB struct {
	log  *logging.Logger
	cfg  Config
	db   *leveldb.DB
	next uint64
}

func New(log *logging.Logger, cfg Config) (*LevelDB, error) {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	var (
		db  *leveldb.DB
		err error
	)
	switch cfg.Storage {
	case memDB:
		db, err = leveldb.Open(storage.NewMemStorage(), nil)
	case goLevelDB:
		db, err = leveldb.OpenFile(cfg.DBPath, &opt.Options{
			Filter:          filter.NewBloomFilter(10),
			BlockCacher:     opt.NoCacher,
			OpenFilesCacher: opt.NoCacher,
		})
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Storage)
	}
	if err != nil {
		return nil, errors.Wrap(err, "could not open the database")
	}

	s := &LevelDB{log: log, cfg: cfg, db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if s.next, err = s.lastHistoryIndex(); err != nil {
		_ = db.Close()
		return nil, err
	}
	s.next++
	return s, nil
}

func (s *LevelDB) Close() error {
	return s.db.Close()
}

func (s *LevelDB) SchemaVersion() (uint32, error) {
	data, err := s.db.Get(schemaKey, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "could not read the schema version")
	}
	if len(data) != 4 {
		return 0, fmt.Errorf("invalid schema version of %d bytes", len(data))
	}
	return binary.BigEndian.Uint32(data), nil
}

func (s *LevelDB) migrate() error {
	version, err := s.SchemaVersion()
	if err != nil {
		return err
	}
	if version > SchemaVersion {
		return fmt.Errorf("database schema %d is newer than %d", version, SchemaVersion)
	}
	for ; version < SchemaVersion; version++ {
		tx, err := s.db.OpenTransaction()
		if err != nil {
			return errors.Wrap(err, "could not open a transaction")
		}
		if err := migrations[version](tx); err != nil {
			tx.Discard()
			return errors.Wrapf(err, "could not migrate the database from schema %d", version)
		}
		if err := tx.Put(schemaKey, encodeVersion(version+1), nil); err != nil {
			tx.Discard()
			return err
		}
		if err := tx.Commit(); err != nil {
			return errors.Wrap(err, "could not commit the migration")
		}
		s.log.Info("database migrated", logging.Uint32("schema", version+1))
	}
	return nil
}

// SaveCheckpoint stores the snapshot as the latest one and appends it to the
// history, pruning the oldest entries.
func (s *LevelDB) SaveCheckpoint(snap *checkpoint.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return errors.Wrap(err, "could not serialize the checkpoint")
	}
	batch := new(leveldb.Batch)
	batch.Put(latestKey, data)
	batch.Put(historyKey(s.next), data)
	if s.cfg.KeepRecent > 0 && s.next > uint64(s.cfg.KeepRecent) {
		batch.Delete(historyKey(s.next - uint64(s.cfg.KeepRecent)))
	}
	if err := s.db.Write(batch, nil); err != nil {
		return errors.Wrap(err, "could not write the checkpoint")
	}
	s.next++
	return nil
}

// LatestCheckpoint returns the last snapshot saved, ErrNoCheckpoint if none.
func (s *LevelDB) LatestCheckpoint() (*checkpoint.Snapshot, error) {
	data, err := s.db.Get(latestKey, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, ErrNoCheckpoint
	}
	if err != nil {
		return nil, errors.Wrap(err, "could not read the checkpoint")
	}
	snap := &checkpoint.Snapshot{}
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, errors.Wrap(err, "could not decode the checkpoint")
	}
	return snap, nil
}

// History returns the number of checkpoints kept.
func (s *LevelDB) History() (int, error) {
	iter := s.db.NewIterator(util.BytesPrefix(historyPrefix), nil)
	defer iter.Release()
	n := 0
	for iter.Next() {
		n++
	}
	return n, iter.Error()
}

func (s *LevelDB) lastHistoryIndex() (uint64, error) {
	iter := s.db.NewIterator(util.BytesPrefix(historyPrefix), nil)
	defer iter.Release()
	if !iter.Last() {
		return 0, iter.Error()
	}
	key := iter.Key()
	return binary.BigEndian.Uint64(key[len(historyPrefix):]), nil
}

func historyKey(i uint64) []byte {
	key := make([]byte, len(historyPrefix)+8)
	copy(key, historyPrefix)
	binary.BigEndian.PutUint64(key[len(historyPrefix):], i)
	return key
}

func encodeVersion(v uint32) []byte {
	out := make([]byte, 4)
	binary.BigEndian.PutUint32(out, v)
	return out
}
