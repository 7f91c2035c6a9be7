package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creditbot/config"
	"creditbot/events"
	"creditbot/models"
	"creditbot/repository/testutil"
	"creditbot/service"
)

func TestUnitOfWorkCommit(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	testutil.SeedIdentity(t, db, "server1", "user1")

	factory := NewUnitOfWorkFactory(db, events.NewBus())

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.BalanceRepository().Create(ctx, "user1", "server1", 500))
	require.NoError(t, uow.Commit())

	balance, err := NewBalanceRepository(db).Get(ctx, "user1", "server1")
	require.NoError(t, err)
	require.NotNil(t, balance)
	assert.Equal(t, int64(500), balance.Credits)
}

func TestUnitOfWorkRollback(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	testutil.SeedIdentity(t, db, "server1", "user1")

	factory := NewUnitOfWorkFactory(db, events.NewBus())

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.BalanceRepository().Create(ctx, "user1", "server1", 500))
	require.NoError(t, uow.Rollback())

	balance, err := NewBalanceRepository(db).Get(ctx, "user1", "server1")
	require.NoError(t, err)
	assert.Nil(t, balance)

	// Rollback after rollback is a no-op
	require.NoError(t, uow.Rollback())
}

func TestUnitOfWorkEvents(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	testutil.SeedIdentity(t, db, "server1", "user1")

	bus := events.NewBus()
	received := make(chan events.Event, 1)
	bus.Subscribe(events.EventTypeBalanceChange, func(ctx context.Context, event events.Event) {
		received <- event
	})

	factory := NewUnitOfWorkFactory(db, bus)

	t.Run("events flush on commit", func(t *testing.T) {
		uow := factory.Create()
		require.NoError(t, uow.Begin(ctx))
		uow.EventBus().Publish(events.BalanceChangeEvent{UserID: "user1", ServerID: "server1", NewBalance: 500})
		require.NoError(t, uow.Commit())

		select {
		case event := <-received:
			change, ok := event.(events.BalanceChangeEvent)
			require.True(t, ok)
			assert.Equal(t, "user1", change.UserID)
		case <-time.After(time.Second):
			t.Fatal("expected event after commit")
		}
	})

	t.Run("events discard on rollback", func(t *testing.T) {
		uow := factory.Create()
		require.NoError(t, uow.Begin(ctx))
		uow.EventBus().Publish(events.BalanceChangeEvent{UserID: "user1", ServerID: "server1"})
		require.NoError(t, uow.Rollback())

		select {
		case <-received:
			t.Fatal("event should have been discarded")
		case <-time.After(100 * time.Millisecond):
		}
	})
}

func TestUnitOfWorkGettersPanicBeforeBegin(t *testing.T) {
	factory := NewUnitOfWorkFactory(testutil.NewTestDB(t), events.NewBus())
	uow := factory.Create()

	assert.Panics(t, func() { uow.BalanceRepository() })
	assert.Panics(t, func() { uow.TransactionRepository() })
}

// The ledger service against a real store: the whole transfer commits or
// nothing does.
func TestLedgerTransferAtomicity(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	testutil.SeedIdentity(t, db, "server1", "sender")
	testutil.SeedIdentity(t, db, "server1", "recipient")

	balanceRepo := NewBalanceRepository(db)
	require.NoError(t, balanceRepo.Create(ctx, "sender", "server1", 500))
	require.NoError(t, balanceRepo.Create(ctx, "recipient", "server1", 500))

	factory := NewUnitOfWorkFactory(db, events.NewBus())
	ledger := service.NewLedgerService(factory, balanceRepo, config.NewTestConfig(db.Path()))

	t.Run("successful transfer moves credits and writes both entries", func(t *testing.T) {
		result, err := ledger.TransferCredits(ctx, "sender", "recipient", "server1", 200)
		require.NoError(t, err)
		assert.Equal(t, int64(300), result.FromNewBalance)
		assert.Equal(t, int64(700), result.ToNewBalance)

		txnRepo := NewTransactionRepository(db)
		senderTxns, err := txnRepo.GetRecentByUser(ctx, "sender", "server1", 10)
		require.NoError(t, err)
		require.Len(t, senderTxns, 1)
		assert.Equal(t, models.TransactionTypeTransferOut, senderTxns[0].Type)
		assert.Equal(t, int64(-200), senderTxns[0].Amount)

		recipientTxns, err := txnRepo.GetRecentByUser(ctx, "recipient", "server1", 10)
		require.NoError(t, err)
		require.Len(t, recipientTxns, 1)
		assert.Equal(t, models.TransactionTypeTransferIn, recipientTxns[0].Type)
	})

	t.Run("failed transfer leaves both balances alone", func(t *testing.T) {
		_, err := ledger.TransferCredits(ctx, "sender", "recipient", "server1", 100000)
		assert.ErrorIs(t, err, service.ErrInsufficientFunds)

		sender, err := balanceRepo.Get(ctx, "sender", "server1")
		require.NoError(t, err)
		assert.Equal(t, int64(300), sender.Credits)

		recipient, err := balanceRepo.Get(ctx, "recipient", "server1")
		require.NoError(t, err)
		assert.Equal(t, int64(700), recipient.Credits)

		count, err := NewTransactionRepository(db).CountByServer(ctx, "server1")
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})
}

// Transfers racing in both directions must conserve the total and never
// drive a balance below zero.
func TestLedgerConcurrentTransfersConserveTotal(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	testutil.SeedIdentity(t, db, "server1", "alice")
	testutil.SeedIdentity(t, db, "server1", "bob")

	balanceRepo := NewBalanceRepository(db)
	require.NoError(t, balanceRepo.Create(ctx, "alice", "server1", 500))
	require.NoError(t, balanceRepo.Create(ctx, "bob", "server1", 500))

	factory := NewUnitOfWorkFactory(db, events.NewBus())
	ledger := service.NewLedgerService(factory, balanceRepo, config.NewTestConfig(db.Path()))

	const workers = 30
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		from, to := "alice", "bob"
		if i%2 == 0 {
			from, to = to, from
		}
		go func(from, to string) {
			defer wg.Done()
			// A transfer may catch its sender momentarily broke; that is
			// the only acceptable failure
			if _, err := ledger.TransferCredits(ctx, from, to, "server1", 50); err != nil {
				assert.ErrorIs(t, err, service.ErrInsufficientFunds)
			}
		}(from, to)
	}
	wg.Wait()

	alice, err := balanceRepo.Get(ctx, "alice", "server1")
	require.NoError(t, err)
	bob, err := balanceRepo.Get(ctx, "bob", "server1")
	require.NoError(t, err)

	assert.GreaterOrEqual(t, alice.Credits, int64(0))
	assert.GreaterOrEqual(t, bob.Credits, int64(0))
	assert.Equal(t, int64(1000), alice.Credits+bob.Credits)
}
