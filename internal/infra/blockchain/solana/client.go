// Package solana implements the txpoll.ChainClient interface for Solana
// through a node's JSON-RPC API.
package solana

import (
	"github.com/gabapcia/chainledger/internal/pkg/transport/jsonrpc"
	"github.com/gabapcia/chainledger/internal/txpoll"
)

// decimals is Solana's subunit scale (1 SOL = 1e9 lamports).
const decimals = 9

// maxSignaturesPerCall is the server-side cap of getSignaturesForAddress.
const maxSignaturesPerCall = 100

// client fetches per-address transaction history from a Solana RPC node.
type client struct {
	conn jsonrpc.Client
}

var _ txpoll.ChainClient = (*client)(nil)

// NewClient creates a Solana client on top of the given JSON-RPC connection.
func NewClient(conn jsonrpc.Client) *client {
	return &client{
		conn: conn,
	}
}
