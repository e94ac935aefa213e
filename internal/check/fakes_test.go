package check

import (
	"context"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	pkgrpc "github.com/goran-ethernal/BlockDoctor/pkg/rpc"
	pkgstore "github.com/goran-ethernal/BlockDoctor/pkg/store"
)

// fakeStore is an in-memory Store implementation for tests.
type fakeStore struct {
	blocksByHash   map[common.Hash][]pkgstore.CachedBlock
	hashesByNumber map[uint64][]common.Hash

	head    uint64
	hasHead bool
	headErr error

	deleteErr error
	deleted   []common.Hash
	truncated bool
}

var _ pkgstore.Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{
		blocksByHash:   make(map[common.Hash][]pkgstore.CachedBlock),
		hashesByNumber: make(map[uint64][]common.Hash),
	}
}

func (f *fakeStore) addBlock(number uint64, hash common.Hash, payload string) {
	f.blocksByHash[hash] = append(f.blocksByHash[hash], pkgstore.CachedBlock{
		Hash:   hash,
		Number: number,
		Data:   []byte(payload),
	})
	f.hashesByNumber[number] = append(f.hashesByNumber[number], hash)
}

func (f *fakeStore) BlocksByHash(ctx context.Context, hash common.Hash) ([]pkgstore.CachedBlock, error) {
	return f.blocksByHash[hash], nil
}

func (f *fakeStore) BlockHashesByNumber(ctx context.Context, number uint64) ([]common.Hash, error) {
	return f.hashesByNumber[number], nil
}

func (f *fakeStore) ChainHead(ctx context.Context) (uint64, bool, error) {
	return f.head, f.hasHead, f.headErr
}

func (f *fakeStore) DeleteBlocks(ctx context.Context, hashes []common.Hash) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, hashes...)
	return nil
}

func (f *fakeStore) Truncate(ctx context.Context) error {
	f.truncated = true
	return nil
}

// fakeClient is an in-memory BlockClient implementation for tests.
type fakeClient struct {
	mu     sync.Mutex
	blocks map[common.Hash]*pkgrpc.CanonicalBlock
	errs   map[common.Hash]error
	calls  int
}

var _ pkgrpc.BlockClient = (*fakeClient)(nil)

func newFakeClient() *fakeClient {
	return &fakeClient{
		blocks: make(map[common.Hash]*pkgrpc.CanonicalBlock),
		errs:   make(map[common.Hash]error),
	}
}

// addBlock registers the canonical payload upstream serves for requests of
// requested; reported is the hash carried in the response payload.
func (f *fakeClient) addBlock(requested, reported common.Hash, payload string) {
	f.blocks[requested] = &pkgrpc.CanonicalBlock{
		Hash: reported,
		Data: []byte(payload),
	}
}

func (f *fakeClient) BlockByHash(ctx context.Context, hash common.Hash) (*pkgrpc.CanonicalBlock, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if err := f.errs[hash]; err != nil {
		return nil, err
	}
	return f.blocks[hash], nil
}

// testHash builds a full-length hash by repeating a two-character hex
// marker, e.g. testHash("aa").
func testHash(marker string) common.Hash {
	return common.HexToHash("0x" + strings.Repeat(marker, 32))
}
