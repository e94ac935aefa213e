package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	_ "github.com/goran-ethernal/BlockDoctor/internal/db" // registers the hash meddler
	"github.com/goran-ethernal/BlockDoctor/internal/logger"
	pkgstore "github.com/goran-ethernal/BlockDoctor/pkg/store"
	"github.com/russross/meddler"
)

// Compile-time check to ensure BlockStore implements pkgstore.Store.
var _ pkgstore.Store = (*BlockStore)(nil)

// BlockStore implements the block cache store on SQLite. All rows are
// scoped by the configured chain name.
type BlockStore struct {
	db    *sql.DB
	chain string
	log   *logger.Logger
}

// NewBlockStore creates a new SQLite-backed BlockStore for the given chain.
func NewBlockStore(db *sql.DB, chain string, log *logger.Logger) *BlockStore {
	return &BlockStore{
		db:    db,
		chain: chain,
		log:   log,
	}
}

// dbBlock represents a cached block row in the database.
type dbBlock struct {
	ID          int64       `meddler:"id,pk"`
	Chain       string      `meddler:"chain"`
	BlockNumber uint64      `meddler:"block_number"`
	BlockHash   common.Hash `meddler:"block_hash,hash"`
	Data        string      `meddler:"data"`
	CreatedAt   string      `meddler:"created_at"`
}

// BlocksByHash returns every cached block recorded under the given hash.
func (s *BlockStore) BlocksByHash(ctx context.Context, hash common.Hash) ([]pkgstore.CachedBlock, error) {
	const query = `
		SELECT * FROM cached_blocks
		WHERE chain = ? AND block_hash = ?
		ORDER BY id ASC
	`
	var rows []*dbBlock
	if err := meddler.QueryAll(s.db, &rows, query, s.chain, hash.Hex()); err != nil {
		return nil, fmt.Errorf("failed to query cached blocks by hash: %w", err)
	}

	blocks := make([]pkgstore.CachedBlock, len(rows))
	for i, row := range rows {
		blocks[i] = pkgstore.CachedBlock{
			Hash:   row.BlockHash,
			Number: row.BlockNumber,
			Data:   json.RawMessage(row.Data),
		}
	}

	return blocks, nil
}

// BlockHashesByNumber returns every hash recorded under the given block number.
func (s *BlockStore) BlockHashesByNumber(ctx context.Context, number uint64) ([]common.Hash, error) {
	const query = `
		SELECT block_hash FROM cached_blocks
		WHERE chain = ? AND block_number = ?
		ORDER BY id ASC
	`
	rows, err := s.db.QueryContext(ctx, query, s.chain, number)
	if err != nil {
		return nil, fmt.Errorf("failed to query block hashes by number: %w", err)
	}
	defer rows.Close()

	var hashes []common.Hash
	for rows.Next() {
		var hex string
		if err := rows.Scan(&hex); err != nil {
			return nil, fmt.Errorf("failed to scan block hash: %w", err)
		}
		hashes = append(hashes, common.HexToHash(hex))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate block hashes: %w", err)
	}

	return hashes, nil
}

// ChainHead returns the head block number recorded for the chain,
// ok=false when no head pointer is known.
func (s *BlockStore) ChainHead(ctx context.Context) (uint64, bool, error) {
	var head uint64
	err := s.db.QueryRowContext(ctx,
		"SELECT block_number FROM chain_head WHERE chain = ?", s.chain).Scan(&head)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to query chain head: %w", err)
	}

	return head, true, nil
}

// DeleteBlocks removes every cached row for each of the given hashes.
func (s *BlockStore) DeleteBlocks(ctx context.Context, hashes []common.Hash) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			s.log.Errorf("failed to rollback transaction: %v", err)
		}
	}()

	var deleted int64
	for _, hash := range hashes {
		result, err := tx.ExecContext(ctx,
			"DELETE FROM cached_blocks WHERE chain = ? AND block_hash = ?",
			s.chain, hash.Hex())
		if err != nil {
			return fmt.Errorf("failed to delete cached block %s: %w", hash.Hex(), err)
		}
		rowsAffected, _ := result.RowsAffected()
		deleted += rowsAffected
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	BlocksDeletedAdd(float64(deleted))
	s.log.Infof("deleted cached blocks: hashes=%d rows=%d", len(hashes), deleted)

	return nil
}

// Truncate removes all cached rows for the chain, including its head pointer.
func (s *BlockStore) Truncate(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			s.log.Errorf("failed to rollback transaction: %v", err)
		}
	}()

	result, err := tx.ExecContext(ctx, "DELETE FROM cached_blocks WHERE chain = ?", s.chain)
	if err != nil {
		return fmt.Errorf("failed to truncate block cache: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM chain_head WHERE chain = ?", s.chain); err != nil {
		return fmt.Errorf("failed to clear chain head: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	TruncateRunsInc()
	s.log.Infof("truncated block cache: chain=%s rows=%d", s.chain, rowsAffected)

	return nil
}

// InsertBlock records a block in the cache. Used by the indexer that
// populates the cache and by tests; the checker itself never inserts.
func (s *BlockStore) InsertBlock(ctx context.Context, block pkgstore.CachedBlock) error {
	row := &dbBlock{
		Chain:       s.chain,
		BlockNumber: block.Number,
		BlockHash:   block.Hash,
		Data:        string(block.Data),
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}

	if err := meddler.Insert(s.db, "cached_blocks", row); err != nil {
		return fmt.Errorf("failed to insert cached block %s: %w", block.Hash.Hex(), err)
	}

	return nil
}

// SetChainHead records the chain head pointer for the chain.
func (s *BlockStore) SetChainHead(ctx context.Context, number uint64) error {
	const query = `
		INSERT INTO chain_head (chain, block_number)
		VALUES (?, ?)
		ON CONFLICT(chain) DO UPDATE SET block_number = excluded.block_number
	`
	if _, err := s.db.ExecContext(ctx, query, s.chain, number); err != nil {
		return fmt.Errorf("failed to set chain head: %w", err)
	}

	return nil
}
