package transfergo

import (
	"sync"

	"github.com/shopspring/decimal"
)

// MemoryStore holds all accounts keyed by id. The map itself is guarded
// by an RWMutex; individual balances are guarded by each account's own
// mutex. The store never locks more than one account at a time.
type MemoryStore struct {
	mu    sync.RWMutex
	accts map[string]*Account
}

var (
	_ Repository = (*MemoryStore)(nil)
)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accts: make(map[string]*Account),
	}
}

// CreateAccount inserts the account, rejecting duplicate ids. Check and
// insert happen under the write lock so two concurrent creates for the
// same id cannot both succeed.
func (ms *MemoryStore) CreateAccount(acct *Account) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, exists := ms.accts[acct.ID]; exists {
		return ErrDuplicateAccount{ID: acct.ID}
	}
	ms.accts[acct.ID] = acct
	return nil
}

func (ms *MemoryStore) GetAccount(id string) (*Account, bool) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	acct, ok := ms.accts[id]
	return acct, ok
}

// AdjustBalance applies a single-account delta under that account's
// lock and returns the updated balance. Compound two-account mutations
// are the transfer engine's job, not the store's.
func (ms *MemoryStore) AdjustBalance(id string, delta decimal.Decimal) (*decimal.Decimal, error) {
	acct, ok := ms.GetAccount(id)
	if !ok {
		return nil, ErrNotFound{ID: id}
	}

	acct.mu.Lock()
	defer acct.mu.Unlock()
	if err := acct.adjust(delta); err != nil {
		return nil, err
	}
	bal := acct.balance
	return &bal, nil
}

func (ms *MemoryStore) Clear() {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.accts = make(map[string]*Account)
}
