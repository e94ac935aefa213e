package check

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	pkgstore "github.com/goran-ethernal/BlockDoctor/pkg/store"
)

// BlockRange is a parsed block number range. From is 1-based and always
// concrete; To is the inclusive upper bound, nil when the range is open
// ended and runs up to the chain head.
//
// Grammar: `<lower>? SEP <upper>?` where SEP is `..` (exclusive upper) or
// `..=` (inclusive upper). An open upper bound has no inclusive/exclusive
// distinction to apply: it always includes the chain head, whichever
// separator was used. This asymmetry is deliberate.
type BlockRange struct {
	From uint64
	To   *uint64
}

// ParseBlockRange parses a range expression like `3..7`, `3..=7`, `5..`,
// `..10`, `..=10` or `..`. A missing or zero lower bound means block 1.
// Negative bounds and ranges that select no blocks are parse errors.
func ParseBlockRange(val string) (BlockRange, error) {
	s := strings.TrimSpace(val)

	idx := strings.Index(s, "..")
	if idx < 0 {
		return BlockRange{}, fmt.Errorf("invalid range %q: missing '..' separator", val)
	}

	lowerText := s[:idx]
	upperText := s[idx+2:]

	inclusive := false
	if strings.HasPrefix(upperText, "=") {
		inclusive = true
		upperText = upperText[1:]
	}

	// Block numbers are 1-based: an absent or zero lower bound both mean
	// "start at block 1".
	from := uint64(1)
	if lowerText != "" {
		lower, err := parseRangeBound(val, lowerText)
		if err != nil {
			return BlockRange{}, err
		}
		if lower > 0 {
			from = lower
		}
	}

	if upperText == "" {
		return BlockRange{From: from}, nil
	}

	upper, err := parseRangeBound(val, upperText)
	if err != nil {
		return BlockRange{}, err
	}

	to := upper
	if !inclusive {
		// An exclusive bound N excludes block N itself.
		if to == 0 {
			return BlockRange{}, fmt.Errorf("invalid range %q: upper bound excludes every block", val)
		}
		to--
	}

	if to < from {
		return BlockRange{}, fmt.Errorf("invalid range %q: upper bound precedes lower bound", val)
	}

	return BlockRange{From: from, To: &to}, nil
}

// parseRangeBound parses one side of a range expression as a non-negative
// decimal block number.
func parseRangeBound(rangeVal, bound string) (uint64, error) {
	num, err := strconv.ParseInt(strings.TrimSpace(bound), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid range %q: cannot parse bound %q: %w", rangeVal, bound, err)
	}
	if num < 0 {
		return 0, fmt.Errorf("invalid range %q: negative block number %d", rangeVal, num)
	}

	return uint64(num), nil
}

// Resolve turns the range into a concrete inclusive [from, to] interval.
// An open upper bound is resolved against the store's chain head pointer;
// not knowing the chain head is a fatal error, never an empty result.
func (r BlockRange) Resolve(ctx context.Context, store pkgstore.Store) (uint64, uint64, error) {
	if r.To != nil {
		return r.From, *r.To, nil
	}

	head, ok, err := store.ChainHead(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read chain head: %w", err)
	}
	if !ok {
		return 0, 0, errors.New("no chain head recorded in the block cache; cannot resolve an open-ended range")
	}
	if head < r.From {
		return 0, 0, fmt.Errorf("range starts at block %d but the chain head is %d", r.From, head)
	}

	return r.From, head, nil
}
