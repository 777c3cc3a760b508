package transfergo

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Account is the unit of concurrency in the system. Its balance is only
// ever read or written while its own mutex is held; callers that need to
// mutate two accounts at once must acquire both mutexes in lockOrder.
type Account struct {
	ID string

	mu      sync.Mutex
	balance decimal.Decimal
}

func NewAccount(id string, balance decimal.Decimal) *Account {
	return &Account{
		ID:      id,
		balance: balance,
	}
}

// Balance takes the account lock for the duration of the read. Decimal
// values are multi-word; an unlocked read could observe a torn value.
func (a *Account) Balance() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance
}

// adjust adds delta (positive or negative) to the balance. The caller
// must hold a.mu. A delta that would drive the balance negative is
// rejected and the balance is left unchanged.
func (a *Account) adjust(delta decimal.Decimal) error {
	updated := a.balance.Add(delta)
	if updated.IsNegative() {
		return ErrInsufficientBalance{
			AcctID:    a.ID,
			Required:  delta.Neg(),
			Available: a.balance,
		}
	}
	a.balance = updated
	return nil
}

// view snapshots the account. The caller must hold a.mu.
func (a *Account) view() AccountView {
	return AccountView{
		AcctID:  a.ID,
		Balance: a.balance,
	}
}

// AccountView is an immutable snapshot of an account, safe to hand out
// to handlers and notification listeners without any locking.
type AccountView struct {
	AcctID  string          `json:"accountId"`
	Balance decimal.Decimal `json:"balance"`
}

// lockOrder resolves the acquisition order for a pair of accounts
// participating in one transfer. The order depends only on the account
// ids, never on which side is the sender, so any two transfers touching
// the same pair always lock in the same order and cannot deadlock each
// other. The account whose id compares greater is locked first.
func lockOrder(a, b *Account) (first, second *Account) {
	if a.ID > b.ID {
		return a, b
	}
	return b, a
}
