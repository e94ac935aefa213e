package check

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ethereum/go-ethereum/common"
	internalcommon "github.com/goran-ethernal/BlockDoctor/internal/common"
	"github.com/goran-ethernal/BlockDoctor/internal/logger"
	"github.com/goran-ethernal/BlockDoctor/pkg/config"
	pkgrpc "github.com/goran-ethernal/BlockDoctor/pkg/rpc"
	pkgstore "github.com/goran-ethernal/BlockDoctor/pkg/store"
)

// DivergenceReport is the outcome of comparing one cached block against
// its canonical counterpart. An empty Diff means the payloads are
// structurally equal.
type DivergenceReport struct {
	Hash common.Hash
	Diff string
}

// Checker reconciles cached blocks against the upstream node and evicts
// the rows that diverge. All state is per invocation; nothing survives
// between runs except the mutations applied to the store.
type Checker struct {
	store       pkgstore.Store
	client      pkgrpc.BlockClient
	log         *logger.Logger
	concurrency int

	// Operator interaction; overridable in tests.
	stdin  io.Reader
	stdout io.Writer
}

// New creates a Checker on top of the given store and upstream client.
func New(store pkgstore.Store, client pkgrpc.BlockClient, cfg config.CheckerConfig, log *logger.Logger) *Checker {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	return &Checker{
		store:       store,
		client:      client,
		log:         log,
		concurrency: concurrency,
		stdin:       os.Stdin,
		stdout:      os.Stdout,
	}
}

// CheckByHash reconciles the single cached block with the given hash.
func (c *Checker) CheckByHash(ctx context.Context, hashText string) error {
	hash, err := internalcommon.ParseBlockHash(hashText)
	if err != nil {
		return err
	}

	cached, err := c.resolveByHash(ctx, hash)
	if err != nil {
		return err
	}

	return c.reconcile(ctx, []pkgstore.CachedBlock{cached})
}

// CheckByNumber reconciles the single cached block recorded under the
// given block number.
func (c *Checker) CheckByNumber(ctx context.Context, numberText string) error {
	number, err := internalcommon.ParseBlockNumber(numberText)
	if err != nil {
		return err
	}

	cached, err := c.resolveByNumber(ctx, number)
	if err != nil {
		return err
	}

	return c.reconcile(ctx, []pkgstore.CachedBlock{cached})
}

// CheckByRange reconciles every cached block selected by the given range
// expression (see ParseBlockRange for the grammar).
func (c *Checker) CheckByRange(ctx context.Context, rangeText string) error {
	blockRange, err := ParseBlockRange(rangeText)
	if err != nil {
		return err
	}

	cached, err := c.resolveByRange(ctx, blockRange)
	if err != nil {
		return err
	}

	return c.reconcile(ctx, cached)
}

// reconcile fetches the canonical counterpart for every cached block,
// diffs the pairs and remediates the divergent ones. Any fetch or diff
// failure aborts before a single row is deleted: a partial comparison set
// never triggers remediation.
func (c *Checker) reconcile(ctx context.Context, cached []pkgstore.CachedBlock) error {
	hashes := make([]common.Hash, len(cached))
	for i, block := range cached {
		hashes[i] = block.Hash
	}

	c.log.Debugf("fetching canonical blocks: count=%d concurrency=%d", len(hashes), c.concurrency)
	canonical, err := c.fetchCanonical(ctx, hashes)
	if err != nil {
		return fmt.Errorf("failed to fetch canonical blocks: %w", err)
	}

	reports := make([]DivergenceReport, len(cached))
	for i := range cached {
		diff, err := diffBlocks(cached[i].Data, canonical[i].Data)
		if err != nil {
			return fmt.Errorf("failed to compare block %s: %w", cached[i].Hash.Hex(), err)
		}
		reports[i] = DivergenceReport{Hash: cached[i].Hash, Diff: diff}
		BlocksCheckedInc()
	}

	return c.remediate(ctx, reports)
}

// remediate displays each divergence and then deletes the offending rows,
// sequentially and strictly after display so the operator always sees
// what was removed.
func (c *Checker) remediate(ctx context.Context, reports []DivergenceReport) error {
	for _, report := range reports {
		if report.Diff == "" {
			c.log.Infof("block matches upstream: hash=%s", report.Hash.Hex())
			fmt.Fprintf(c.stdout, "Block %s is identical to the canonical upstream block.\n", report.Hash.Hex())
			continue
		}

		DivergencesInc()
		fmt.Fprintf(c.stdout, "Block %s diverges from upstream:\n%s\n", report.Hash.Hex(), report.Diff)

		if err := c.store.DeleteBlocks(ctx, []common.Hash{report.Hash}); err != nil {
			return fmt.Errorf("failed to delete cached block %s: %w", report.Hash.Hex(), err)
		}
		fmt.Fprintf(c.stdout, "Deleted block %s from the cache.\n", report.Hash.Hex())
	}

	return nil
}

// Truncate deletes every cached block for the configured chain. Unless
// skipConfirmation is set, the operator is prompted first; declining
// aborts the truncation and is not an error.
func (c *Checker) Truncate(ctx context.Context, skipConfirmation bool) error {
	if !skipConfirmation {
		confirmed, err := c.promptForConfirmation()
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(c.stdout, "Aborting.")
			return nil
		}
	}

	if err := c.store.Truncate(ctx); err != nil {
		return fmt.Errorf("failed to truncate block cache: %w", err)
	}

	fmt.Fprintln(c.stdout, "Truncated the block cache.")
	return nil
}

// promptForConfirmation asks the operator for a y/yes answer. Anything
// else, including empty input or a closed stdin, declines.
func (c *Checker) promptForConfirmation() (bool, error) {
	fmt.Fprint(c.stdout, "This will delete all cached blocks.\nProceed? [y/N] ")

	answer, err := bufio.NewReader(c.stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}

	switch internalcommon.ToLowerWithTrim(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
