package memory

import (
	"sync"

	"fiatjaf.com/nostrnode/kvstore"
)

var _ kvstore.KVStore = (*Store)(nil)

type Store struct {
	sync.Mutex
	data map[string][]byte
}

func NewStore() *Store {
	return &Store{data: make(map[string][]byte)}
}

func (s *Store) Get(key []byte) ([]byte, error) {
	s.Lock()
	defer s.Unlock()
	if v, ok := s.data[string(key)]; ok {
		return append([]byte(nil), v...), nil
	}
	return nil, nil
}

func (s *Store) Set(key []byte, value []byte) error {
	s.Lock()
	defer s.Unlock()
	s.data[string(key)] = append([]byte(nil), value...)
	return nil
}

func (s *Store) Delete(key []byte) error {
	s.Lock()
	defer s.Unlock()
	delete(s.data, string(key))
	return nil
}

func (s *Store) Close() error { return nil }

func (s *Store) Update(key []byte, f func([]byte) ([]byte, error)) error {
	s.Lock()
	defer s.Unlock()

	var val []byte
	if v, ok := s.data[string(key)]; ok {
		val = append([]byte(nil), v...)
	}

	newVal, err := f(val)
	if err == kvstore.NoOp {
		return nil
	} else if err != nil {
		return err
	}

	if newVal == nil {
		delete(s.data, string(key))
	} else {
		s.data[string(key)] = newVal
	}
	return nil
}
