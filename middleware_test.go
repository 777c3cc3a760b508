package transfergo_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/sync/semaphore"

	"github.com/arhyth/transfergo"
	"github.com/arhyth/transfergo/mocks"
)

func TestValidationMWCreateAccount(t *testing.T) {
	t.Run("rejects a blank account id", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		v := transfergo.NewValidationMiddleware()(svc)

		acct, err := v.CreateAccount(transfergo.CreateAccountReq{
			Balance: decimal.NewFromInt(100),
		})
		as.Nil(acct)
		as.ErrorAs(err, &transfergo.ErrBadRequest{})
	})

	t.Run("rejects a negative initial balance", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		v := transfergo.NewValidationMiddleware()(svc)

		acct, err := v.CreateAccount(transfergo.CreateAccountReq{
			AcctID:  "alice",
			Balance: decimal.NewFromInt(-1),
		})
		as.Nil(acct)
		as.ErrorAs(err, &transfergo.ErrBadRequest{})
	})

	t.Run("passes a valid request through", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		view := transfergo.AccountView{AcctID: "alice", Balance: decimal.NewFromInt(5)}
		svc.EXPECT().
			CreateAccount(gomock.AssignableToTypeOf(transfergo.CreateAccountReq{})).
			Return(&view, nil).
			Times(1)
		v := transfergo.NewValidationMiddleware()(svc)

		acct, err := v.CreateAccount(transfergo.CreateAccountReq{
			AcctID:  "alice",
			Balance: decimal.NewFromInt(5),
		})
		as.Nil(err)
		as.Equal("alice", acct.AcctID)
	})
}

func TestValidationMWTransfer(t *testing.T) {
	t.Run("rejects missing party ids", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		v := transfergo.NewValidationMiddleware()(svc)

		var ebr transfergo.ErrBadRequest
		err := v.Transfer(transfergo.TransferReq{
			Amount: decimal.NewFromInt(1),
		})
		require.New(tt).ErrorAs(err, &ebr)
		as.Contains(ebr.Fields, "senderId")
		as.Contains(ebr.Fields, "receiverId")
	})

	t.Run("rejects a non-positive amount", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		v := transfergo.NewValidationMiddleware()(svc)

		err := v.Transfer(transfergo.TransferReq{
			SenderID:   "alice",
			ReceiverID: "bob",
			Amount:     decimal.Zero,
		})
		as.ErrorAs(err, &transfergo.ErrInvalidAmount{})
	})
}

func TestLimitMWTransfer(t *testing.T) {
	t.Run("sheds load above the configured limit", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		limits := &transfergo.ServiceLimits{
			Transfer: semaphore.NewWeighted(1),
		}
		l := transfergo.NewLimitMiddleware(limits)(svc)

		// saturate the only slot
		require.New(tt).True(limits.Transfer.TryAcquire(1))
		err := l.Transfer(transfergo.TransferReq{
			SenderID:   "alice",
			ReceiverID: "bob",
			Amount:     decimal.NewFromInt(1),
		})
		as.ErrorIs(err, transfergo.ErrTooManyRequests)

		// released slot admits the next request
		limits.Transfer.Release(1)
		svc.EXPECT().
			Transfer(gomock.AssignableToTypeOf(transfergo.TransferReq{})).
			Return(nil).
			Times(1)
		err = l.Transfer(transfergo.TransferReq{
			SenderID:   "alice",
			ReceiverID: "bob",
			Amount:     decimal.NewFromInt(1),
		})
		as.Nil(err)
	})
}

func TestCircuitBreakMWTransfer(t *testing.T) {
	t.Run("opens after consecutive internal failures", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		brkrs := transfergo.NewServiceBreaker()
		c := transfergo.NewCircuitBreakMiddleware(brkrs)(svc)

		// default gobreaker settings trip after 5 consecutive failures
		svc.EXPECT().
			Transfer(gomock.AssignableToTypeOf(transfergo.TransferReq{})).
			Return(transfergo.ErrInternalServer).
			Times(6)
		req := transfergo.TransferReq{
			SenderID:   "alice",
			ReceiverID: "bob",
			Amount:     decimal.NewFromInt(1),
		}
		for i := 0; i < 6; i++ {
			err := c.Transfer(req)
			as.ErrorIs(err, transfergo.ErrInternalServer)
		}

		err := c.Transfer(req)
		as.ErrorIs(err, transfergo.ErrServiceUnavailable)
	})

	t.Run("client faults do not trip the breaker", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		brkrs := transfergo.NewServiceBreaker()
		c := transfergo.NewCircuitBreakMiddleware(brkrs)(svc)

		svc.EXPECT().
			Transfer(gomock.AssignableToTypeOf(transfergo.TransferReq{})).
			Return(transfergo.ErrInsufficientBalance{AcctID: "alice"}).
			Times(20)
		req := transfergo.TransferReq{
			SenderID:   "alice",
			ReceiverID: "bob",
			Amount:     decimal.NewFromInt(1),
		}
		for i := 0; i < 20; i++ {
			err := c.Transfer(req)
			as.ErrorAs(err, &transfergo.ErrInsufficientBalance{})
		}
	})
}
