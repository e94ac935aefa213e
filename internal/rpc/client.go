package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/goran-ethernal/BlockDoctor/internal/logger"
	"github.com/goran-ethernal/BlockDoctor/pkg/config"
	pkgrpc "github.com/goran-ethernal/BlockDoctor/pkg/rpc"
)

// Compile-time check to ensure Client implements pkgrpc.BlockClient.
var _ pkgrpc.BlockClient = (*Client)(nil)

// Client wraps the Ethereum JSON-RPC client. It implements the
// pkgrpc.BlockClient interface and owns the retry policy for
// transient upstream failures.
type Client struct {
	rpc   *rpc.Client
	retry *config.RetryConfig
	log   *logger.Logger
}

// NewClient creates a new RPC client connected to the given endpoint.
// retryCfg may be nil, in which case every call is attempted once.
func NewClient(ctx context.Context, endpoint string, retryCfg *config.RetryConfig, log *logger.Logger) (*Client, error) {
	rpcClient, err := rpc.DialContext(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	return &Client{
		rpc:   rpcClient,
		retry: retryCfg,
		log:   log,
	}, nil
}

// Close closes the RPC client connection.
func (c *Client) Close() {
	c.rpc.Close()
}

// BlockByHash fetches the canonical block for the given hash with full
// transaction objects, matching the representation the indexer caches.
// A nil block with a nil error means the node knows no such block.
func (c *Client) BlockByHash(ctx context.Context, hash common.Hash) (*pkgrpc.CanonicalBlock, error) {
	const method = "eth_getBlockByHash"

	var raw json.RawMessage
	start := time.Now()
	err := retryWithBackoff(ctx, c.retry, method, func() error {
		return c.rpc.CallContext(ctx, &raw, method, hash, true)
	})
	RPCMethodInc(method)
	RPCMethodDuration(method, time.Since(start))

	if err != nil {
		RPCMethodError(method, "call")
		return nil, fmt.Errorf("%s failed for %s: %w", method, hash.Hex(), err)
	}

	if len(raw) == 0 || string(raw) == "null" {
		c.log.Debugf("upstream has no block: hash=%s", hash.Hex())
		return nil, nil
	}

	// The reported hash comes from the payload itself, so callers can
	// verify the node answered for the block they asked about.
	var envelope struct {
		Hash common.Hash `json:"hash"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		RPCMethodError(method, "decode")
		return nil, fmt.Errorf("failed to decode block payload for %s: %w", hash.Hex(), err)
	}

	return &pkgrpc.CanonicalBlock{
		Hash: envelope.Hash,
		Data: raw,
	}, nil
}
