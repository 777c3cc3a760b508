package transfergo_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arhyth/transfergo"
)

func TestMemoryStoreCreateAccount(t *testing.T) {
	t.Run("inserts and retrieves an account", func(tt *testing.T) {
		as := assert.New(tt)
		reqrd := require.New(tt)
		store := transfergo.NewMemoryStore()

		acct := transfergo.NewAccount("alice", decimal.NewFromInt(100))
		reqrd.Nil(store.CreateAccount(acct))

		got, ok := store.GetAccount("alice")
		reqrd.True(ok)
		as.Equal("alice", got.ID)
		as.True(got.Balance().Equal(decimal.NewFromInt(100)))
	})

	t.Run("rejects a duplicate id and keeps the original balance", func(tt *testing.T) {
		as := assert.New(tt)
		reqrd := require.New(tt)
		store := transfergo.NewMemoryStore()

		reqrd.Nil(store.CreateAccount(transfergo.NewAccount("alice", decimal.NewFromInt(100))))
		err := store.CreateAccount(transfergo.NewAccount("alice", decimal.NewFromInt(999)))
		as.ErrorAs(err, &transfergo.ErrDuplicateAccount{})

		got, ok := store.GetAccount("alice")
		reqrd.True(ok)
		as.True(got.Balance().Equal(decimal.NewFromInt(100)))
	})

	t.Run("exactly one of N concurrent creates for the same id wins", func(tt *testing.T) {
		as := assert.New(tt)
		store := transfergo.NewMemoryStore()

		const workers = 32
		var wg sync.WaitGroup
		errs := make(chan error, workers)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				acct := transfergo.NewAccount("contested", decimal.NewFromInt(int64(n)))
				errs <- store.CreateAccount(acct)
			}(i)
		}
		wg.Wait()
		close(errs)

		var succeeded int
		for err := range errs {
			if err == nil {
				succeeded++
			} else {
				as.ErrorAs(err, &transfergo.ErrDuplicateAccount{})
			}
		}
		as.Equal(1, succeeded)
	})
}

func TestMemoryStoreGetAccount(t *testing.T) {
	t.Run("missing id is a normal not-ok outcome", func(tt *testing.T) {
		as := assert.New(tt)
		store := transfergo.NewMemoryStore()

		acct, ok := store.GetAccount("nobody")
		as.False(ok)
		as.Nil(acct)
	})
}

func TestMemoryStoreAdjustBalance(t *testing.T) {
	t.Run("applies positive and negative deltas", func(tt *testing.T) {
		as := assert.New(tt)
		reqrd := require.New(tt)
		store := transfergo.NewMemoryStore()
		reqrd.Nil(store.CreateAccount(transfergo.NewAccount("alice", decimal.NewFromInt(100))))

		bal, err := store.AdjustBalance("alice", decimal.NewFromInt(50))
		reqrd.Nil(err)
		as.True(bal.Equal(decimal.NewFromInt(150)))

		bal, err = store.AdjustBalance("alice", decimal.NewFromInt(-150))
		reqrd.Nil(err)
		as.True(bal.Equal(decimal.Zero))
	})

	t.Run("rejects a delta that would drive the balance negative", func(tt *testing.T) {
		as := assert.New(tt)
		reqrd := require.New(tt)
		store := transfergo.NewMemoryStore()
		reqrd.Nil(store.CreateAccount(transfergo.NewAccount("alice", decimal.NewFromInt(10))))

		bal, err := store.AdjustBalance("alice", decimal.NewFromInt(-11))
		as.Nil(bal)
		var eib transfergo.ErrInsufficientBalance
		reqrd.ErrorAs(err, &eib)
		as.Equal("alice", eib.AcctID)
		as.True(eib.Required.Equal(decimal.NewFromInt(11)))
		as.True(eib.Available.Equal(decimal.NewFromInt(10)))

		got, _ := store.GetAccount("alice")
		as.True(got.Balance().Equal(decimal.NewFromInt(10)))
	})

	t.Run("returns not found for a missing account", func(tt *testing.T) {
		as := assert.New(tt)
		store := transfergo.NewMemoryStore()

		_, err := store.AdjustBalance("ghost", decimal.NewFromInt(1))
		var enf transfergo.ErrNotFound
		as.ErrorAs(err, &enf)
		as.Equal("ghost", enf.ID)
	})

	t.Run("concurrent deposits all land", func(tt *testing.T) {
		as := assert.New(tt)
		reqrd := require.New(tt)
		store := transfergo.NewMemoryStore()
		reqrd.Nil(store.CreateAccount(transfergo.NewAccount("alice", decimal.Zero)))

		const workers = 100
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := store.AdjustBalance("alice", decimal.NewFromInt(1))
				as.Nil(err)
			}()
		}
		wg.Wait()

		got, _ := store.GetAccount("alice")
		as.True(got.Balance().Equal(decimal.NewFromInt(workers)),
			fmt.Sprintf("expected %d, got %s", workers, got.Balance()))
	})
}

func TestMemoryStoreClear(t *testing.T) {
	as := assert.New(t)
	reqrd := require.New(t)
	store := transfergo.NewMemoryStore()
	reqrd.Nil(store.CreateAccount(transfergo.NewAccount("alice", decimal.NewFromInt(1))))
	reqrd.Nil(store.CreateAccount(transfergo.NewAccount("bob", decimal.NewFromInt(2))))

	store.Clear()

	_, ok := store.GetAccount("alice")
	as.False(ok)
	_, ok = store.GetAccount("bob")
	as.False(ok)
	// ids are reusable after a wipe
	as.Nil(store.CreateAccount(transfergo.NewAccount("alice", decimal.NewFromInt(3))))
}
