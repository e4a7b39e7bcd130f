package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/rpcclient"
	"go.uber.org/ratelimit"

	"github.com/goodnatureofminers/hashinsight7000-backend/internal/bitcoin"
	"github.com/goodnatureofminers/hashinsight7000-backend/internal/metrics"
	"github.com/goodnatureofminers/hashinsight7000-backend/internal/model"
)

// BTCNodeRepository executes batched lookups against a bitcoin node through a
// batch-mode rpcclient. Every public method queues its requests and flushes
// them with a single Send, so each call costs one HTTP round trip. Request
// pacing is capped by the configured rate limit.
type BTCNodeRepository struct {
	client  *rpcclient.Client
	network string
	rl      ratelimit.Limiter
}

// NewBTCNodeRepository wraps a batch-mode rpcclient. rps caps batched round
// trips per second; non-positive means unlimited.
func NewBTCNodeRepository(client *rpcclient.Client, network string, rps int) *BTCNodeRepository {
	rl := ratelimit.NewUnlimited()
	if rps > 0 {
		rl = ratelimit.New(rps)
	}
	return &BTCNodeRepository{
		client:  client,
		network: network,
		rl:      rl,
	}
}

// BlockHashes resolves hashes for count consecutive heights starting at
// start, in one batched round trip. Results are collected future-by-future
// in request order; the client matches responses to requests by id.
func (r *BTCNodeRepository) BlockHashes(ctx context.Context, start int64, count int) (hashes []*chainhash.Hash, err error) {
	started := time.Now()
	defer func() {
		metrics.ObserveBTCRPC("get_block_hashes", r.network, err, started)
	}()

	if count <= 0 {
		return nil, fmt.Errorf("non-positive batch count %d", count)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.rl.Take()
	futures := make([]rpcclient.FutureGetBlockHashResult, 0, count)
	for i := 0; i < count; i++ {
		futures = append(futures, r.client.GetBlockHashAsync(start+int64(i)))
	}
	if err := r.client.Send(); err != nil {
		return nil, fmt.Errorf("send getblockhash batch [%d,%d): %w", start, start+int64(count), err)
	}

	hashes = make([]*chainhash.Hash, 0, count)
	for i, future := range futures {
		hash, err := future.Receive()
		if err != nil {
			return nil, fmt.Errorf("getblockhash %d: %w", start+int64(i), err)
		}
		hashes = append(hashes, hash)
	}
	return hashes, nil
}

// Blocks resolves the blocks behind the given hashes in one batched round
// trip, requesting elevated verbosity only when transaction detail is needed.
func (r *BTCNodeRepository) Blocks(ctx context.Context, hashes []*chainhash.Hash, includeTransactions bool) ([]model.Block, error) {
	if includeTransactions {
		return r.blocksVerboseTx(ctx, hashes)
	}
	return r.blocksVerbose(ctx, hashes)
}

func (r *BTCNodeRepository) blocksVerbose(ctx context.Context, hashes []*chainhash.Hash) (blocks []model.Block, err error) {
	started := time.Now()
	defer func() {
		metrics.ObserveBTCRPC("get_blocks_verbose", r.network, err, started)
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.rl.Take()
	futures := make([]rpcclient.FutureGetBlockVerboseResult, 0, len(hashes))
	for _, hash := range hashes {
		futures = append(futures, r.client.GetBlockVerboseAsync(hash))
	}
	if err := r.client.Send(); err != nil {
		return nil, fmt.Errorf("send getblock batch of %d: %w", len(hashes), err)
	}

	blocks = make([]model.Block, 0, len(hashes))
	for i, future := range futures {
		src, err := future.Receive()
		if err != nil {
			return nil, fmt.Errorf("getblock %s: %w", hashes[i], err)
		}
		block, err := bitcoin.BlockFromVerbose(src)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}

func (r *BTCNodeRepository) blocksVerboseTx(ctx context.Context, hashes []*chainhash.Hash) (blocks []model.Block, err error) {
	started := time.Now()
	defer func() {
		metrics.ObserveBTCRPC("get_blocks_verbose_tx", r.network, err, started)
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.rl.Take()
	futures := make([]rpcclient.FutureGetBlockVerboseTxResult, 0, len(hashes))
	for _, hash := range hashes {
		futures = append(futures, r.client.GetBlockVerboseTxAsync(hash))
	}
	if err := r.client.Send(); err != nil {
		return nil, fmt.Errorf("send getblock verbose-tx batch of %d: %w", len(hashes), err)
	}

	blocks = make([]model.Block, 0, len(hashes))
	for i, future := range futures {
		src, err := future.Receive()
		if err != nil {
			return nil, fmt.Errorf("getblock %s: %w", hashes[i], err)
		}
		block, err := bitcoin.BlockFromVerboseTx(src)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}

// BlockCount returns the chain tip height as a single-element batch.
func (r *BTCNodeRepository) BlockCount(ctx context.Context) (count int64, err error) {
	started := time.Now()
	defer func() {
		metrics.ObserveBTCRPC("get_block_count", r.network, err, started)
	}()

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.rl.Take()
	future := r.client.GetBlockCountAsync()
	if err := r.client.Send(); err != nil {
		return 0, fmt.Errorf("send getblockcount: %w", err)
	}
	count, err = future.Receive()
	if err != nil {
		return 0, fmt.Errorf("getblockcount: %w", err)
	}
	return count, nil
}
