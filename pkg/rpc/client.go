package rpc

import (
	"context"
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
)

// CanonicalBlock is a block freshly obtained from the upstream node,
// tagged with the hash the node reports for it.
type CanonicalBlock struct {
	// Hash is the hash the upstream node reports in the block payload.
	// Callers must verify it matches the hash they asked for.
	Hash common.Hash

	// Data is the raw JSON block payload as returned by the node.
	Data json.RawMessage
}

// BlockClient is the narrow view of the upstream JSON-RPC node the
// checker consumes. Retries on transient failures are this collaborator's
// responsibility, not the checker's.
type BlockClient interface {
	// BlockByHash fetches the canonical block for the given hash.
	// A nil block with a nil error means the node knows no such block.
	BlockByHash(ctx context.Context, hash common.Hash) (*CanonicalBlock, error)
}
