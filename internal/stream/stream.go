// Package stream delivers blocks one at a time in ascending height order,
// prefetching them from a batched source in fixed-size chunks.
package stream

import (
	"context"
	"errors"
	"fmt"

	"github.com/goodnatureofminers/hashinsight7000-backend/internal/model"
)

// DefaultBatchSize is the number of blocks requested per batched round trip.
const DefaultBatchSize = 100

// ErrShortBatch reports a batched call that returned fewer results than requested.
var ErrShortBatch = errors.New("short batch response")

// Config controls how a BatchBlockStream fetches blocks.
type Config struct {
	// BatchSize is the number of blocks per batched round trip; defaults to
	// DefaultBatchSize when non-positive.
	BatchSize int
	// IncludeTransactions requests full transaction detail per block, needed
	// for coinbase reward scanning.
	IncludeTransactions bool
}

// BatchBlockStream presents blocks from a BlockSource as a single ordered,
// gap-free sequence starting at height 0. The stream has no natural end: a
// request past the chain tip surfaces as a fetch error. Memory is bounded to
// one batch and at most one batch request is outstanding at any time.
type BatchBlockStream struct {
	source  BlockSource
	cfg     Config
	next    int64
	pending []model.Block
}

// New constructs a BatchBlockStream with its height cursor at 0.
func New(source BlockSource, cfg Config) *BatchBlockStream {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	return &BatchBlockStream{
		source: source,
		cfg:    cfg,
	}
}

// Next returns the next block in ascending height order. When the pending
// queue is empty it triggers one two-phase batched fetch; any failure is
// fatal to the stream and there is no retry.
func (s *BatchBlockStream) Next(ctx context.Context) (model.Block, error) {
	if len(s.pending) == 0 {
		if err := s.fetch(ctx); err != nil {
			return model.Block{}, err
		}
	}

	block := s.pending[0]
	s.pending = s.pending[1:]
	return block, nil
}

func (s *BatchBlockStream) fetch(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	start := s.next
	hashes, err := s.source.BlockHashes(ctx, start, s.cfg.BatchSize)
	// The cursor tracks heights already requested, so a later failure never
	// re-requests a height.
	s.next += int64(s.cfg.BatchSize)
	if err != nil {
		return fmt.Errorf("fetch block hashes [%d,%d): %w", start, s.next, err)
	}
	if len(hashes) != s.cfg.BatchSize {
		return fmt.Errorf("%w: %d hashes for heights [%d,%d)", ErrShortBatch, len(hashes), start, s.next)
	}

	blocks, err := s.source.Blocks(ctx, hashes, s.cfg.IncludeTransactions)
	if err != nil {
		return fmt.Errorf("fetch blocks [%d,%d): %w", start, s.next, err)
	}
	if len(blocks) != s.cfg.BatchSize {
		return fmt.Errorf("%w: %d blocks for heights [%d,%d)", ErrShortBatch, len(blocks), start, s.next)
	}
	// Match results by index rather than trusting response order.
	for i, block := range blocks {
		if want := start + int64(i); block.Height != want {
			return fmt.Errorf("block order mismatch at index %d: got height %d, want %d", i, block.Height, want)
		}
	}

	s.pending = blocks
	return nil
}
