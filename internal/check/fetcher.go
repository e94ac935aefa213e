package check

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	pkgrpc "github.com/goran-ethernal/BlockDoctor/pkg/rpc"
	"golang.org/x/sync/errgroup"
)

// fetchCanonical retrieves the canonical payload for every hash from the
// upstream node. Fetches run concurrently up to the configured bound, but
// results come back in request order: diff pairing downstream is
// positional, not content-addressed.
func (c *Checker) fetchCanonical(ctx context.Context, hashes []common.Hash) ([]pkgrpc.CanonicalBlock, error) {
	results := make([]*pkgrpc.CanonicalBlock, len(hashes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for i, hash := range hashes {
		i, hash := i, hash
		g.Go(func() error {
			block, err := c.client.BlockByHash(gctx, hash)
			if err != nil {
				return fmt.Errorf("failed to fetch block %s: %w", hash.Hex(), err)
			}
			if block == nil {
				// A block vanishing upstream is itself noteworthy,
				// never "no divergence".
				return fmt.Errorf("upstream found no block with hash %s", hash.Hex())
			}
			if block.Hash != hash {
				return fmt.Errorf("upstream responded with a different block hash: requested %s, got %s",
					hash.Hex(), block.Hash.Hex())
			}
			results[i] = block
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	fetched := 0
	for _, block := range results {
		if block != nil {
			fetched++
		}
	}
	if fetched != len(hashes) {
		return nil, fmt.Errorf("upstream returned %d of %d requested blocks", fetched, len(hashes))
	}

	blocks := make([]pkgrpc.CanonicalBlock, len(results))
	for i, block := range results {
		blocks[i] = *block
	}

	return blocks, nil
}
