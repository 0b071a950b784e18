// Package kafka publishes incoming-transaction events so downstream
// consumers (credit accounting, user notifications) can react to confirmed
// payments without polling the ledger.
package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gabapcia/chainledger/internal/ledger"
	"github.com/gabapcia/chainledger/internal/txpoll"

	"github.com/segmentio/kafka-go"
)

// incomingTransactionEvent is the published message body.
type incomingTransactionEvent struct {
	Chain  string    `json:"chain"`
	Wallet string    `json:"wallet"`
	Hash   string    `json:"hash"`
	Amount string    `json:"amount"`
	From   string    `json:"from,omitempty"`
	Time   time.Time `json:"time"`
}

// Notifier emits one Kafka message per newly recorded incoming
// transaction, keyed by transaction hash so replays land on the same
// partition.
type Notifier struct {
	writer *kafka.Writer
}

var _ txpoll.TransactionNotifier = (*Notifier)(nil)

// NewNotifier creates a notifier writing to the given broker and topic.
func NewNotifier(brokerAddress, topic string) *Notifier {
	return &Notifier{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokerAddress),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// NotifyIncomingTransaction implements the txpoll.TransactionNotifier
// interface.
func (n *Notifier) NotifyIncomingTransaction(ctx context.Context, chain ledger.Chain, wallet string, tx ledger.Transaction) error {
	value, err := json.Marshal(incomingTransactionEvent{
		Chain:  chain.String(),
		Wallet: wallet,
		Hash:   tx.Hash,
		Amount: tx.Amount,
		From:   tx.From,
		Time:   tx.Time,
	})
	if err != nil {
		return err
	}

	return n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(tx.Hash),
		Value: value,
	})
}

// Close flushes and closes the underlying writer.
func (n *Notifier) Close() error {
	return n.writer.Close()
}
