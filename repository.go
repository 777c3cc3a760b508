package transfergo

import (
	"github.com/shopspring/decimal"
)

type Repository interface {
	CreateAccount(acct *Account) error
	// GetAccount reports absence through ok; a missing id is a normal
	// outcome, not an error.
	GetAccount(id string) (acct *Account, ok bool)
	AdjustBalance(id string, delta decimal.Decimal) (*decimal.Decimal, error)
	// Clear wipes the store. Test isolation only; never routed.
	Clear()
}
