package transfergo

import (
	"github.com/bwmarrin/snowflake"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type CreateAccountReq struct {
	AcctID  string          `json:"accountId"`
	Balance decimal.Decimal `json:"balance"`
}

type BalanceReq struct {
	AcctID string
}

type ChargeReq struct {
	Amount decimal.Decimal `json:"amount"`
	AcctID string
}

type TransferReq struct {
	ReceiverID string          `json:"receiverId"`
	Amount     decimal.Decimal `json:"amount"`
	SenderID   string
}

type Service interface {
	CreateAccount(CreateAccountReq) (*AccountView, error)
	Account(BalanceReq) (*AccountView, error)
	Balance(BalanceReq) (*decimal.Decimal, error)
	Deposit(ChargeReq) (*decimal.Decimal, error)
	Withdraw(ChargeReq) (*decimal.Decimal, error)
	Transfer(TransferReq) error
}

func NewService(repo Repository, disp *Dispatcher, log *zerolog.Logger) (*serviceImpl, error) {
	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, err
	}
	return &serviceImpl{
		repo: repo,
		disp: disp,
		node: node,
		log:  log,
	}, nil
}

type serviceImpl struct {
	repo Repository
	disp *Dispatcher
	node *snowflake.Node
	log  *zerolog.Logger
}

var (
	_ Service = (*serviceImpl)(nil)
)

func (s *serviceImpl) CreateAccount(req CreateAccountReq) (*AccountView, error) {
	if req.Balance.IsNegative() {
		return nil, ErrBadRequest{Fields: map[string]string{
			"balance": "must not be negative",
		}}
	}

	acct := NewAccount(req.AcctID, req.Balance)
	if err := s.repo.CreateAccount(acct); err != nil {
		return nil, err
	}
	v := AccountView{AcctID: req.AcctID, Balance: req.Balance}
	return &v, nil
}

func (s *serviceImpl) Account(req BalanceReq) (*AccountView, error) {
	acct, ok := s.repo.GetAccount(req.AcctID)
	if !ok {
		return nil, ErrNotFound{ID: req.AcctID}
	}
	v := AccountView{AcctID: acct.ID, Balance: acct.Balance()}
	return &v, nil
}

func (s *serviceImpl) Balance(req BalanceReq) (*decimal.Decimal, error) {
	acct, ok := s.repo.GetAccount(req.AcctID)
	if !ok {
		return nil, ErrNotFound{ID: req.AcctID}
	}
	bal := acct.Balance()
	return &bal, nil
}

func (s *serviceImpl) Deposit(req ChargeReq) (*decimal.Decimal, error) {
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount{Amount: req.Amount}
	}
	return s.repo.AdjustBalance(req.AcctID, req.Amount)
}

func (s *serviceImpl) Withdraw(req ChargeReq) (*decimal.Decimal, error) {
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount{Amount: req.Amount}
	}
	return s.repo.AdjustBalance(req.AcctID, req.Amount.Neg())
}

// Transfer atomically moves req.Amount from sender to receiver. Both
// account locks are held, in lockOrder, across both legs; an observer
// never sees a debited-but-not-credited state. The event is published
// only after both locks are released.
func (s *serviceImpl) Transfer(req TransferReq) error {
	if !req.Amount.IsPositive() {
		return ErrInvalidAmount{Amount: req.Amount}
	}
	if req.SenderID == req.ReceiverID {
		return ErrBadRequest{Fields: map[string]string{
			"receiverId": "must differ from sender account",
		}}
	}

	// sender is resolved first so that a transfer with two missing
	// accounts deterministically reports the sender.
	sender, ok := s.repo.GetAccount(req.SenderID)
	if !ok {
		return ErrNotFound{ID: req.SenderID}
	}
	receiver, ok := s.repo.GetAccount(req.ReceiverID)
	if !ok {
		return ErrNotFound{ID: req.ReceiverID}
	}

	first, second := lockOrder(sender, receiver)
	first.mu.Lock()
	second.mu.Lock()

	var evt TransferEvent
	err := sender.adjust(req.Amount.Neg())
	if err == nil {
		// cannot fail: amount is positive, the receiver leg only grows.
		_ = receiver.adjust(req.Amount)
		evt = TransferEvent{
			ID:       s.node.Generate(),
			Sender:   sender.view(),
			Receiver: receiver.view(),
			Amount:   req.Amount,
		}
	}

	second.mu.Unlock()
	first.mu.Unlock()

	if err != nil {
		return err
	}

	s.log.Info().
		Str("sender", req.SenderID).
		Str("receiver", req.ReceiverID).
		Str("amount", req.Amount.String()).
		Msg("transfer applied")

	// published outside the critical section; listeners never run while
	// account locks are held.
	s.disp.Publish(evt)

	return nil
}
