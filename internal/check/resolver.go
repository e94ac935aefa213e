package check

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	pkgstore "github.com/goran-ethernal/BlockDoctor/pkg/store"
)

// resolveByHash maps a hash to its single cached block. Zero matches and
// multiple matches are both hard errors: the latter means the cache holds
// duplicate rows for what should be a primary key.
func (c *Checker) resolveByHash(ctx context.Context, hash common.Hash) (pkgstore.CachedBlock, error) {
	blocks, err := c.store.BlocksByHash(ctx, hash)
	if err != nil {
		return pkgstore.CachedBlock{}, fmt.Errorf("failed to look up cached block %s: %w", hash.Hex(), err)
	}

	return singleItem(fmt.Sprintf("cached block %s", hash.Hex()), blocks)
}

// resolveByNumber requires exactly one hash recorded under the number,
// then resolves that hash to its single cached block. Multiple hashes for
// one number mean an un-reconciled fork or duplicate; the operator has to
// disambiguate by hash.
func (c *Checker) resolveByNumber(ctx context.Context, number uint64) (pkgstore.CachedBlock, error) {
	hashes, err := c.store.BlockHashesByNumber(ctx, number)
	if err != nil {
		return pkgstore.CachedBlock{}, fmt.Errorf("failed to look up block hashes for number %d: %w", number, err)
	}

	hash, err := singleItem(fmt.Sprintf("block hash for number %d", number), hashes)
	if err != nil {
		var ambiguous *AmbiguousError
		if errors.As(err, &ambiguous) {
			return pkgstore.CachedBlock{}, fmt.Errorf("%w; rerun by hash to pick one", err)
		}
		return pkgstore.CachedBlock{}, err
	}

	return c.resolveByHash(ctx, hash)
}

// resolveByRange resolves every number in the interval, one cached block
// per number. One store round trip per number is fine here: ranges are
// operator bounded and this is an offline tool.
func (c *Checker) resolveByRange(ctx context.Context, blockRange BlockRange) ([]pkgstore.CachedBlock, error) {
	from, to, err := blockRange.Resolve(ctx, c.store)
	if err != nil {
		return nil, err
	}

	blocks := make([]pkgstore.CachedBlock, 0, to-from+1)
	for number := from; number <= to; number++ {
		block, err := c.resolveByNumber(ctx, number)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve block %d: %w", number, err)
		}
		blocks = append(blocks, block)
	}

	return blocks, nil
}
