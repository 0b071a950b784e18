package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type transactionStorageMock struct {
	mock.Mock
}

func (m *transactionStorageMock) HasTransaction(ctx context.Context, chain Chain, hash string) (bool, error) {
	args := m.Called(ctx, chain, hash)
	return args.Bool(0), args.Error(1)
}

func (m *transactionStorageMock) InsertTransaction(ctx context.Context, chain Chain, tx Transaction) error {
	args := m.Called(ctx, chain, tx)
	return args.Error(0)
}

func (m *transactionStorageMock) FindIncomingTransaction(ctx context.Context, chain Chain, hash string) (Transaction, error) {
	args := m.Called(ctx, chain, hash)
	return args.Get(0).(Transaction), args.Error(1)
}

func TestService_RecordTransaction(t *testing.T) {
	var (
		ctx = context.Background()
		tx  = Transaction{
			Hash:      "4e9f2b",
			Time:      time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC),
			Direction: DirectionIn,
			Amount:    "0.0002",
			From:      "bc1qsender",
			To:        "bc1qwallet",
		}
	)

	t.Run("should insert a transaction not seen before", func(t *testing.T) {
		storage := new(transactionStorageMock)
		storage.On("HasTransaction", ctx, ChainBitcoin, tx.Hash).Return(false, nil).Once()
		storage.On("InsertTransaction", ctx, ChainBitcoin, tx).Return(nil).Once()

		inserted, err := New(storage).RecordTransaction(ctx, ChainBitcoin, tx)
		require.NoError(t, err)
		assert.True(t, inserted)

		storage.AssertExpectations(t)
	})

	t.Run("should skip a transaction whose hash already exists", func(t *testing.T) {
		storage := new(transactionStorageMock)
		storage.On("HasTransaction", ctx, ChainBitcoin, tx.Hash).Return(true, nil).Once()

		inserted, err := New(storage).RecordTransaction(ctx, ChainBitcoin, tx)
		require.NoError(t, err)
		assert.False(t, inserted)

		storage.AssertNotCalled(t, "InsertTransaction", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should treat losing the insert race as not inserted", func(t *testing.T) {
		storage := new(transactionStorageMock)
		storage.On("HasTransaction", ctx, ChainBitcoin, tx.Hash).Return(false, nil).Once()
		storage.On("InsertTransaction", ctx, ChainBitcoin, tx).Return(ErrDuplicateTransaction).Once()

		inserted, err := New(storage).RecordTransaction(ctx, ChainBitcoin, tx)
		require.NoError(t, err)
		assert.False(t, inserted)
	})

	t.Run("should reject a transaction without a hash", func(t *testing.T) {
		storage := new(transactionStorageMock)

		_, err := New(storage).RecordTransaction(ctx, ChainBitcoin, Transaction{Direction: DirectionIn})
		require.Error(t, err)

		storage.AssertNotCalled(t, "HasTransaction", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should surface existence check failures", func(t *testing.T) {
		expectedErr := errors.New("connection refused")

		storage := new(transactionStorageMock)
		storage.On("HasTransaction", ctx, ChainBitcoin, tx.Hash).Return(false, expectedErr).Once()

		_, err := New(storage).RecordTransaction(ctx, ChainBitcoin, tx)
		assert.ErrorIs(t, err, expectedErr)
	})

	t.Run("should surface insert failures that are not duplicates", func(t *testing.T) {
		expectedErr := errors.New("deadlock found")

		storage := new(transactionStorageMock)
		storage.On("HasTransaction", ctx, ChainBitcoin, tx.Hash).Return(false, nil).Once()
		storage.On("InsertTransaction", ctx, ChainBitcoin, tx).Return(expectedErr).Once()

		_, err := New(storage).RecordTransaction(ctx, ChainBitcoin, tx)
		assert.ErrorIs(t, err, expectedErr)
	})
}

func TestService_FindIncomingTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("should return the stored row on a hit", func(t *testing.T) {
		expected := Transaction{Hash: "4e9f2b", Direction: DirectionIn, Amount: "0.5"}

		storage := new(transactionStorageMock)
		storage.On("FindIncomingTransaction", ctx, ChainSolana, "4e9f2b").Return(expected, nil).Once()

		tx, err := New(storage).FindIncomingTransaction(ctx, ChainSolana, "4e9f2b")
		require.NoError(t, err)
		assert.Equal(t, expected, tx)
	})

	t.Run("should pass through ErrTransactionNotFound", func(t *testing.T) {
		storage := new(transactionStorageMock)
		storage.On("FindIncomingTransaction", ctx, ChainSolana, "missing").Return(Transaction{}, ErrTransactionNotFound).Once()

		_, err := New(storage).FindIncomingTransaction(ctx, ChainSolana, "missing")
		assert.ErrorIs(t, err, ErrTransactionNotFound)
	})
}
