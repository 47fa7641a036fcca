// Package draft keeps the unsubmitted, in-progress profile so a user can
// pick up where they left off.
//
// A draft lives under a single key per browser (or per local user, for the
// CLI). It is overwritten on every debounced change and cleared on an
// explicit reset or after a successful submission. Stores never surface a
// corrupt draft: unreadable data is removed and reported as ErrNoDraft.
package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/sakif/genfolio/internal/model"
)

// DefaultKey is the well-known key a local draft is stored under.
const DefaultKey = "portfolioFormData"

// ErrNoDraft is returned by Load when nothing usable is stored.
var ErrNoDraft = errors.New("draft: no draft stored")

// Store persists drafts by key.
type Store interface {
	Load(ctx context.Context, key string) (*model.ProfileRecord, error)
	Save(ctx context.Context, key string, p *model.ProfileRecord) error
	Clear(ctx context.Context, key string) error
}

func encode(p *model.ProfileRecord) ([]byte, error) {
	if p == nil {
		p = &model.ProfileRecord{}
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("draft: encoding: %w", err)
	}
	return data, nil
}

func decode(data []byte) (*model.ProfileRecord, error) {
	var p model.ProfileRecord
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// MemoryStore keeps drafts in process memory. It stores the encoded bytes,
// not the record, so it behaves like the persistent stores.
type MemoryStore struct {
	mu     sync.Mutex
	drafts map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{drafts: make(map[string][]byte)}
}

var _ Store = (*MemoryStore)(nil)

func (m *MemoryStore) Load(_ context.Context, key string) (*model.ProfileRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.drafts[key]
	if !ok {
		return nil, ErrNoDraft
	}
	p, err := decode(data)
	if err != nil {
		delete(m.drafts, key)
		return nil, ErrNoDraft
	}
	return p, nil
}

func (m *MemoryStore) Save(_ context.Context, key string, p *model.ProfileRecord) error {
	data, err := encode(p)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drafts[key] = data
	return nil
}

func (m *MemoryStore) Clear(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.drafts, key)
	return nil
}

// put stores raw bytes; tests use it to plant corrupt drafts.
func (m *MemoryStore) put(key string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drafts[key] = data
}
