package storage

import (
	"bytes"
	"sync"

	"github.com/ipfs/go-cid"
)

// Memory is an in-process CAS. The zero value is ready to use.
type Memory struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

var _ CAS = (*Memory)(nil)

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Put(doc []byte) (cid.Cid, error) {
	canon, id, err := Canonical(doc)
	if err != nil {
		return cid.Undef, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.docs == nil {
		m.docs = make(map[string][]byte)
	}
	key := id.KeyString()
	if existing, ok := m.docs[key]; ok {
		if !bytes.Equal(existing, canon) {
			return cid.Undef, ErrImmutable
		}
		return id, nil
	}
	m.docs[key] = canon
	return id, nil
}

func (m *Memory) Get(id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, ErrInvalidCID
	}
	m.mu.RLock()
	b, ok := m.docs[id.KeyString()]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	if err := Check(id, b); err != nil {
		return nil, err
	}
	return bytes.Clone(b), nil
}

func (m *Memory) Has(id cid.Cid) bool {
	if !id.Defined() {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.docs[id.KeyString()]
	return ok
}

// Len reports how many documents are stored.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}
