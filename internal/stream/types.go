package stream

import (
	"context"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/goodnatureofminers/hashinsight7000-backend/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// BlockSource executes batched block lookups against a node. Each method
	// performs exactly one batched round trip and returns results in request
	// order, failing on any transport or protocol error.
	BlockSource interface {
		// BlockHashes resolves the hashes for count consecutive heights
		// starting at start.
		BlockHashes(ctx context.Context, start int64, count int) ([]*chainhash.Hash, error)
		// Blocks resolves full blocks for the given hashes, with transaction
		// detail only when includeTransactions is set.
		Blocks(ctx context.Context, hashes []*chainhash.Hash, includeTransactions bool) ([]model.Block, error)
		// BlockCount returns the current chain tip height.
		BlockCount(ctx context.Context) (int64, error)
	}
)
