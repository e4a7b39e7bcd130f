package model

import (
	"time"

	"github.com/btcsuite/btcd/btcutil"
)

// Block describes a bitcoin block as delivered by the block stream.
// Txs is populated only when full transaction detail was requested.
type Block struct {
	Hash       string
	Height     int64
	Time       time.Time
	Difficulty float64
	Txs        []Transaction
}

// Transaction describes a transaction inside a streamed block, reduced to
// what reward scanning needs.
type Transaction struct {
	TxID        string
	Coinbase    bool
	OutputTotal btcutil.Amount
}

// Period describes one completed difficulty-adjustment period.
type Period struct {
	Height    int64
	StartTime time.Time
	HashRate  float64
	Interval  float64
	Reward    *btcutil.Amount
}
