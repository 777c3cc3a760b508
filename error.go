package transfergo

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrInternalServer     = errors.New("internal server error")
	ErrTooManyRequests    = errors.New("too many requests")
	ErrServiceUnavailable = errors.New("service unavailable")
)

type ErrBadRequest struct {
	Fields map[string]string `json:"fields"`
}

func (e ErrBadRequest) Error() string {
	return fmt.Sprintf("missing/invalid params: %v", e.Fields)
}

type ErrNotFound struct {
	ID string `json:"id"`
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("account #%s is not found", e.ID)
}

type ErrDuplicateAccount struct {
	ID string `json:"id"`
}

func (e ErrDuplicateAccount) Error() string {
	return fmt.Sprintf("account id %s already exists", e.ID)
}

type ErrInvalidAmount struct {
	Amount decimal.Decimal `json:"amount"`
}

func (e ErrInvalidAmount) Error() string {
	return fmt.Sprintf("amount %s is not a positive value", e.Amount)
}

type ErrInsufficientBalance struct {
	AcctID    string          `json:"acct_id"`
	Required  decimal.Decimal `json:"required"`
	Available decimal.Decimal `json:"available"`
}

func (e ErrInsufficientBalance) Error() string {
	return fmt.Sprintf("account #%s has not enough balance: required %s but available %s",
		e.AcctID, e.Required, e.Available)
}
