package check

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uint64Ptr(v uint64) *uint64 {
	return &v
}

func TestParseBlockRange(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    BlockRange
		wantErr string
	}{
		{
			name:  "fully open",
			input: "..",
			want:  BlockRange{From: 1},
		},
		{
			name:  "fully open with inclusive separator",
			input: "..=",
			want:  BlockRange{From: 1},
		},
		{
			name:  "open upper bound",
			input: "5..",
			want:  BlockRange{From: 5},
		},
		{
			// An open upper bound is always inclusive of the chain head,
			// whichever separator was used.
			name:  "open upper bound with inclusive separator",
			input: "5..=",
			want:  BlockRange{From: 5},
		},
		{
			name:  "zero lower bound means block 1",
			input: "0..",
			want:  BlockRange{From: 1},
		},
		{
			name:  "upper bound exclusive",
			input: "..10",
			want:  BlockRange{From: 1, To: uint64Ptr(9)},
		},
		{
			name:  "upper bound inclusive",
			input: "..=10",
			want:  BlockRange{From: 1, To: uint64Ptr(10)},
		},
		{
			name:  "closed exclusive",
			input: "3..7",
			want:  BlockRange{From: 3, To: uint64Ptr(6)},
		},
		{
			name:  "closed inclusive",
			input: "3..=7",
			want:  BlockRange{From: 3, To: uint64Ptr(7)},
		},
		{
			name:  "single block inclusive",
			input: "3..=3",
			want:  BlockRange{From: 3, To: uint64Ptr(3)},
		},
		{
			name:  "surrounding whitespace",
			input: " 3..=7 ",
			want:  BlockRange{From: 3, To: uint64Ptr(7)},
		},
		{
			name:    "reversed bounds",
			input:   "7..3",
			wantErr: "upper bound precedes lower bound",
		},
		{
			name:    "reversed bounds inclusive",
			input:   "7..=3",
			wantErr: "upper bound precedes lower bound",
		},
		{
			name:    "negative lower bound",
			input:   "-1..5",
			wantErr: "negative block number",
		},
		{
			name:    "negative upper bound",
			input:   "1..-5",
			wantErr: "negative block number",
		},
		{
			name:    "missing separator",
			input:   "5",
			wantErr: "missing '..' separator",
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: "missing '..' separator",
		},
		{
			name:    "garbage lower bound",
			input:   "abc..5",
			wantErr: "cannot parse bound",
		},
		{
			name:    "garbage upper bound",
			input:   "1..xyz",
			wantErr: "cannot parse bound",
		},
		{
			// Exclusive upper bound 0 excludes even block 1; blocks are
			// 1-based so nothing is selectable.
			name:    "exclusive zero upper bound",
			input:   "..0",
			wantErr: "excludes every block",
		},
		{
			name:    "inclusive zero upper bound",
			input:   "..=0",
			wantErr: "upper bound precedes lower bound",
		},
		{
			// 3..3 excludes its own lower bound.
			name:    "empty exclusive range",
			input:   "3..3",
			wantErr: "upper bound precedes lower bound",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBlockRange(tt.input)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want.From, got.From)
			if tt.want.To == nil {
				assert.Nil(t, got.To)
			} else {
				require.NotNil(t, got.To)
				assert.Equal(t, *tt.want.To, *got.To)
			}
		})
	}
}

func TestBlockRange_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("closed range ignores chain head", func(t *testing.T) {
		store := newFakeStore()

		from, to, err := BlockRange{From: 3, To: uint64Ptr(7)}.Resolve(ctx, store)
		require.NoError(t, err)
		assert.Equal(t, uint64(3), from)
		assert.Equal(t, uint64(7), to)
	})

	t.Run("open range resolves against chain head", func(t *testing.T) {
		store := newFakeStore()
		store.head = 10
		store.hasHead = true

		from, to, err := BlockRange{From: 5}.Resolve(ctx, store)
		require.NoError(t, err)
		assert.Equal(t, uint64(5), from)
		assert.Equal(t, uint64(10), to)
	})

	t.Run("open range without chain head is fatal", func(t *testing.T) {
		store := newFakeStore()

		_, _, err := BlockRange{From: 1}.Resolve(ctx, store)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no chain head recorded")
	})

	t.Run("open range beyond chain head is fatal", func(t *testing.T) {
		store := newFakeStore()
		store.head = 3
		store.hasHead = true

		_, _, err := BlockRange{From: 5}.Resolve(ctx, store)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "chain head is 3")
	})
}
