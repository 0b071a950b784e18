package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gabapcia/chainledger/internal/ledger"

	"github.com/go-sql-driver/mysql"
)

// duplicateEntryErrNumber is MySQL error 1062 (ER_DUP_ENTRY), raised when
// an insert violates the partition's unique hash key.
const duplicateEntryErrNumber = 1062

// ledgerTableName maps a chain to its partition table. The mapping is a
// closed switch rather than string interpolation so no caller-influenced
// identifier ever reaches a query.
func ledgerTableName(chain ledger.Chain) (string, error) {
	switch chain {
	case ledger.ChainBitcoin:
		return "crypto_transactions_btc", nil
	case ledger.ChainEthereum:
		return "crypto_transactions_eth", nil
	case ledger.ChainLitecoin:
		return "crypto_transactions_ltc", nil
	case ledger.ChainSolana:
		return "crypto_transactions_sol", nil
	case ledger.ChainRipple:
		return "crypto_transactions_xrp", nil
	default:
		return "", ledger.ErrUnsupportedChain
	}
}

// isDuplicateEntry reports whether err is the unique-key violation raised
// by a losing concurrent insert.
func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == duplicateEntryErrNumber
}

// HasTransaction implements ledger.TransactionStorage.
func (c *client) HasTransaction(ctx context.Context, chain ledger.Chain, hash string) (bool, error) {
	table, err := ledgerTableName(chain)
	if err != nil {
		return false, err
	}

	query := fmt.Sprintf("SELECT 1 FROM %s WHERE hash = ? LIMIT 1", table)

	var one int
	err = c.db.QueryRowContext(ctx, query, hash).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}

	return err == nil, err
}

// InsertTransaction implements ledger.TransactionStorage. Each partition
// table carries UNIQUE KEY (hash), so writers racing past the existence
// check resolve here: the loser gets ledger.ErrDuplicateTransaction.
func (c *client) InsertTransaction(ctx context.Context, chain ledger.Chain, tx ledger.Transaction) error {
	table, err := ledgerTableName(chain)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (time, direction, amount, fromAddress, toAddress, hash) VALUES (?, ?, ?, ?, ?, ?)",
		table,
	)

	_, err = c.db.ExecContext(ctx, query, tx.Time, string(tx.Direction), tx.Amount, tx.From, tx.To, tx.Hash)
	if isDuplicateEntry(err) {
		return ledger.ErrDuplicateTransaction
	}

	return err
}

// FindIncomingTransaction implements ledger.TransactionStorage. The
// direction filter lives in the query: a row recorded as OUT or with an
// unknown direction does not satisfy a received-payment lookup.
func (c *client) FindIncomingTransaction(ctx context.Context, chain ledger.Chain, hash string) (ledger.Transaction, error) {
	table, err := ledgerTableName(chain)
	if err != nil {
		return ledger.Transaction{}, err
	}

	query := fmt.Sprintf(
		"SELECT time, direction, amount, fromAddress, toAddress, hash FROM %s WHERE direction = 'IN' AND hash = ?",
		table,
	)

	var (
		tx        ledger.Transaction
		direction string
	)
	err = c.db.QueryRowContext(ctx, query, hash).Scan(&tx.Time, &direction, &tx.Amount, &tx.From, &tx.To, &tx.Hash)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.Transaction{}, ledger.ErrTransactionNotFound
	}
	if err != nil {
		return ledger.Transaction{}, err
	}

	tx.Direction = ledger.Direction(direction)
	return tx, nil
}

var _ ledger.TransactionStorage = (*client)(nil)
