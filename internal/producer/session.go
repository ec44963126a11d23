package producer

import (
	"errors"
	"strconv"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	sessionIdKey    = "session_id"
	lastSequenceKey = "last_sequence"
)

// SessionStore persists the capture session id and the last published frame
// sequence, so a restarted producer keeps its sequence monotonic within one
// session instead of reusing numbers.
type SessionStore struct {
	db     *badger.DB
	logger *logrus.Entry
}

func NewSessionStore(dir string, logger *logrus.Entry) (*SessionStore, error) {
	db, err := badger.Open(badger.DefaultOptions(dir).WithLoggingLevel(badger.ERROR))
	if err != nil {
		return nil, err
	}
	return &SessionStore{
		db:     db,
		logger: logger,
	}, nil
}

func (s *SessionStore) Close() error {
	return s.db.Close()
}

func (s *SessionStore) get(key []byte) ([]byte, error) {
	var val []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (s *SessionStore) set(key, val []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, val)
	})
}

// Session returns the stored session id and last sequence, creating a fresh
// session the first time the store is opened.
func (s *SessionStore) Session() (string, int64, error) {
	id, err := s.get([]byte(sessionIdKey))
	if errors.Is(err, badger.ErrKeyNotFound) {
		newId := uuid.New().String()
		if err := s.set([]byte(sessionIdKey), []byte(newId)); err != nil {
			return "", 0, err
		}
		s.logger.Infof("created capture session %s", newId)
		return newId, -1, nil
	} else if err != nil {
		return "", 0, err
	}

	seq := int64(-1)
	raw, err := s.get([]byte(lastSequenceKey))
	if err == nil {
		if v, perr := strconv.ParseInt(string(raw), 10, 64); perr == nil {
			seq = v
		}
	} else if !errors.Is(err, badger.ErrKeyNotFound) {
		return "", 0, err
	}

	return string(id), seq, nil
}

// SaveSequence persists seq as the highest published sequence. Encoder
// workers finish out of order, so a lower sequence arriving late must not
// roll the stored value back; sequence numbers stay strictly increasing
// within a session across restarts.
func (s *SessionStore) SaveSequence(seq int64) error {
	return s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(lastSequenceKey))
		if err == nil {
			raw, verr := item.ValueCopy(nil)
			if verr != nil {
				return verr
			}
			if cur, perr := strconv.ParseInt(string(raw), 10, 64); perr == nil && cur >= seq {
				return nil
			}
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set([]byte(lastSequenceKey), []byte(strconv.FormatInt(seq, 10)))
	})
}
