package transfergo

import (
	"errors"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/sync/semaphore"
)

type Middleware func(Service) Service

//
// Validation middleware
//

// validationMiddleware rejects malformed requests before they reach the
// engine: blank account ids and amounts that are not positive. Business
// rules (existence, sufficient balance, distinct transfer parties) stay
// in the engine, which is the authority on them.
type validationMiddleware struct {
	next Service
}

var (
	_ Service = (*validationMiddleware)(nil)
)

func NewValidationMiddleware() Middleware {
	return func(svc Service) Service {
		return &validationMiddleware{
			next: svc,
		}
	}
}

func (v *validationMiddleware) CreateAccount(req CreateAccountReq) (*AccountView, error) {
	if req.AcctID == "" {
		return nil, ErrBadRequest{Fields: map[string]string{"accountId": "missing"}}
	}
	if req.Balance.IsNegative() {
		return nil, ErrBadRequest{Fields: map[string]string{"balance": "must not be negative"}}
	}
	return v.next.CreateAccount(req)
}

func (v *validationMiddleware) Account(req BalanceReq) (*AccountView, error) {
	if req.AcctID == "" {
		return nil, ErrBadRequest{Fields: map[string]string{"accountId": "missing"}}
	}
	return v.next.Account(req)
}

func (v *validationMiddleware) Balance(req BalanceReq) (*decimal.Decimal, error) {
	if req.AcctID == "" {
		return nil, ErrBadRequest{Fields: map[string]string{"accountId": "missing"}}
	}
	return v.next.Balance(req)
}

func (v *validationMiddleware) Deposit(req ChargeReq) (*decimal.Decimal, error) {
	if req.AcctID == "" {
		return nil, ErrBadRequest{Fields: map[string]string{"accountId": "missing"}}
	}
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount{Amount: req.Amount}
	}
	return v.next.Deposit(req)
}

func (v *validationMiddleware) Withdraw(req ChargeReq) (*decimal.Decimal, error) {
	if req.AcctID == "" {
		return nil, ErrBadRequest{Fields: map[string]string{"accountId": "missing"}}
	}
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount{Amount: req.Amount}
	}
	return v.next.Withdraw(req)
}

func (v *validationMiddleware) Transfer(req TransferReq) error {
	fields := map[string]string{}
	if req.SenderID == "" {
		fields["senderId"] = "missing"
	}
	if req.ReceiverID == "" {
		fields["receiverId"] = "missing"
	}
	if len(fields) > 0 {
		return ErrBadRequest{Fields: fields}
	}
	if !req.Amount.IsPositive() {
		return ErrInvalidAmount{Amount: req.Amount}
	}
	return v.next.Transfer(req)
}

//
// Rate limiting middlewares
//

// limitMiddleware caps the number of in-flight requests per operation
// with a weighted semaphore, shedding excess load as ErrTooManyRequests
// instead of queueing it. Limits are static and set in config.
type limitMiddleware struct {
	next   Service
	limits *ServiceLimits
}

var (
	_ Service = (*limitMiddleware)(nil)
)

type ServiceLimits struct {
	CreateAccount *semaphore.Weighted
	Account       *semaphore.Weighted
	Balance       *semaphore.Weighted
	Deposit       *semaphore.Weighted
	Withdraw      *semaphore.Weighted
	Transfer      *semaphore.Weighted
}

func NewServiceLimits(cfg LimitsConfig) *ServiceLimits {
	lim := func(n int64) *semaphore.Weighted {
		if n <= 0 {
			n = 64
		}
		return semaphore.NewWeighted(n)
	}
	return &ServiceLimits{
		CreateAccount: lim(cfg.CreateAccount),
		Account:       lim(cfg.Account),
		Balance:       lim(cfg.Balance),
		Deposit:       lim(cfg.Deposit),
		Withdraw:      lim(cfg.Withdraw),
		Transfer:      lim(cfg.Transfer),
	}
}

func NewLimitMiddleware(limits *ServiceLimits) Middleware {
	return func(next Service) Service {
		return &limitMiddleware{
			next:   next,
			limits: limits,
		}
	}
}

func (l *limitMiddleware) CreateAccount(req CreateAccountReq) (*AccountView, error) {
	if !l.limits.CreateAccount.TryAcquire(1) {
		return nil, ErrTooManyRequests
	}
	defer l.limits.CreateAccount.Release(1)
	return l.next.CreateAccount(req)
}

func (l *limitMiddleware) Account(req BalanceReq) (*AccountView, error) {
	if !l.limits.Account.TryAcquire(1) {
		return nil, ErrTooManyRequests
	}
	defer l.limits.Account.Release(1)
	return l.next.Account(req)
}

func (l *limitMiddleware) Balance(req BalanceReq) (*decimal.Decimal, error) {
	if !l.limits.Balance.TryAcquire(1) {
		return nil, ErrTooManyRequests
	}
	defer l.limits.Balance.Release(1)
	return l.next.Balance(req)
}

func (l *limitMiddleware) Deposit(req ChargeReq) (*decimal.Decimal, error) {
	if !l.limits.Deposit.TryAcquire(1) {
		return nil, ErrTooManyRequests
	}
	defer l.limits.Deposit.Release(1)
	return l.next.Deposit(req)
}

func (l *limitMiddleware) Withdraw(req ChargeReq) (*decimal.Decimal, error) {
	if !l.limits.Withdraw.TryAcquire(1) {
		return nil, ErrTooManyRequests
	}
	defer l.limits.Withdraw.Release(1)
	return l.next.Withdraw(req)
}

func (l *limitMiddleware) Transfer(req TransferReq) error {
	if !l.limits.Transfer.TryAcquire(1) {
		return ErrTooManyRequests
	}
	defer l.limits.Transfer.Release(1)
	return l.next.Transfer(req)
}

//
// Circuit breaker middleware
//

type ServiceBreaker struct {
	CreateAccount *gobreaker.TwoStepCircuitBreaker[*AccountView]
	Account       *gobreaker.TwoStepCircuitBreaker[*AccountView]
	Balance       *gobreaker.TwoStepCircuitBreaker[*decimal.Decimal]
	Deposit       *gobreaker.TwoStepCircuitBreaker[*decimal.Decimal]
	Withdraw      *gobreaker.TwoStepCircuitBreaker[*decimal.Decimal]
	Transfer      *gobreaker.TwoStepCircuitBreaker[interface{}]
}

func NewServiceBreaker() *ServiceBreaker {
	return &ServiceBreaker{
		CreateAccount: gobreaker.NewTwoStepCircuitBreaker[*AccountView](gobreaker.Settings{Name: "CreateAccount"}),
		Account:       gobreaker.NewTwoStepCircuitBreaker[*AccountView](gobreaker.Settings{Name: "Account"}),
		Balance:       gobreaker.NewTwoStepCircuitBreaker[*decimal.Decimal](gobreaker.Settings{Name: "Balance"}),
		Deposit:       gobreaker.NewTwoStepCircuitBreaker[*decimal.Decimal](gobreaker.Settings{Name: "Deposit"}),
		Withdraw:      gobreaker.NewTwoStepCircuitBreaker[*decimal.Decimal](gobreaker.Settings{Name: "Withdraw"}),
		Transfer:      gobreaker.NewTwoStepCircuitBreaker[interface{}](gobreaker.Settings{Name: "Transfer"}),
	}
}

// circuitBreakMiddleware trips an operation open when it keeps failing
// for internal reasons. Client errors (not found, bad request,
// insufficient balance) are the caller's fault and count as successes.
type circuitBreakMiddleware struct {
	next  Service
	brkrs *ServiceBreaker
}

var (
	_ Service = (*circuitBreakMiddleware)(nil)
)

func NewCircuitBreakMiddleware(brkrs *ServiceBreaker) Middleware {
	return func(next Service) Service {
		return &circuitBreakMiddleware{
			next:  next,
			brkrs: brkrs,
		}
	}
}

// clientFault reports whether err is attributable to the request rather
// than the service.
func clientFault(err error) bool {
	var (
		enf ErrNotFound
		ebr ErrBadRequest
		eda ErrDuplicateAccount
		eia ErrInvalidAmount
		eib ErrInsufficientBalance
	)
	return errors.As(err, &enf) ||
		errors.As(err, &ebr) ||
		errors.As(err, &eda) ||
		errors.As(err, &eia) ||
		errors.As(err, &eib)
}

func (c *circuitBreakMiddleware) CreateAccount(req CreateAccountReq) (*AccountView, error) {
	done, err := c.brkrs.CreateAccount.Allow()
	if err != nil {
		return nil, ErrServiceUnavailable
	}
	acct, err := c.next.CreateAccount(req)
	done(err == nil || clientFault(err))
	return acct, err
}

func (c *circuitBreakMiddleware) Account(req BalanceReq) (*AccountView, error) {
	done, err := c.brkrs.Account.Allow()
	if err != nil {
		return nil, ErrServiceUnavailable
	}
	acct, err := c.next.Account(req)
	done(err == nil || clientFault(err))
	return acct, err
}

func (c *circuitBreakMiddleware) Balance(req BalanceReq) (*decimal.Decimal, error) {
	done, err := c.brkrs.Balance.Allow()
	if err != nil {
		return nil, ErrServiceUnavailable
	}
	bal, err := c.next.Balance(req)
	done(err == nil || clientFault(err))
	return bal, err
}

func (c *circuitBreakMiddleware) Deposit(req ChargeReq) (*decimal.Decimal, error) {
	done, err := c.brkrs.Deposit.Allow()
	if err != nil {
		return nil, ErrServiceUnavailable
	}
	bal, err := c.next.Deposit(req)
	done(err == nil || clientFault(err))
	return bal, err
}

func (c *circuitBreakMiddleware) Withdraw(req ChargeReq) (*decimal.Decimal, error) {
	done, err := c.brkrs.Withdraw.Allow()
	if err != nil {
		return nil, ErrServiceUnavailable
	}
	bal, err := c.next.Withdraw(req)
	done(err == nil || clientFault(err))
	return bal, err
}

func (c *circuitBreakMiddleware) Transfer(req TransferReq) error {
	done, err := c.brkrs.Transfer.Allow()
	if err != nil {
		return ErrServiceUnavailable
	}
	err = c.next.Transfer(req)
	done(err == nil || clientFault(err))
	return err
}
