package store

import (
	"context"
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
)

// CachedBlock is a block as it sits in the local cache: its hash, the
// number it was recorded under, and the serialized block payload.
type CachedBlock struct {
	Hash   common.Hash
	Number uint64
	Data   json.RawMessage
}

// Store is the narrow view of the block cache the checker consumes.
// The production implementation is SQLite backed (internal/store);
// tests use in-memory fakes.
type Store interface {
	// BlocksByHash returns every cached block recorded under the given hash.
	// A healthy cache returns at most one; duplicates signal corruption and
	// are surfaced to the caller unchanged.
	BlocksByHash(ctx context.Context, hash common.Hash) ([]CachedBlock, error)

	// BlockHashesByNumber returns every hash recorded under the given block
	// number. More than one means an un-reconciled fork or duplicate.
	BlockHashesByNumber(ctx context.Context, number uint64) ([]common.Hash, error)

	// ChainHead returns the head block number recorded for the chain.
	// ok is false when no head pointer is known.
	ChainHead(ctx context.Context) (head uint64, ok bool, err error)

	// DeleteBlocks removes every cached row for each of the given hashes.
	DeleteBlocks(ctx context.Context, hashes []common.Hash) error

	// Truncate removes all cached rows for the chain, including its
	// head pointer.
	Truncate(ctx context.Context) error
}
