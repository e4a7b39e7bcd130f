// Package bitcoin maps btcjson RPC results onto the domain model.
package bitcoin

import (
	"fmt"
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"

	"github.com/goodnatureofminers/hashinsight7000-backend/internal/model"
)

// BlockFromVerbose maps a verbosity-1 block result into a model.Block.
// Transaction detail is not available at this verbosity, so Txs stays nil.
func BlockFromVerbose(src *btcjson.GetBlockVerboseResult) (model.Block, error) {
	if err := validateHeader(src.Height, src.Difficulty); err != nil {
		return model.Block{}, err
	}

	return model.Block{
		Hash:       src.Hash,
		Height:     src.Height,
		Time:       time.Unix(src.Time, 0).UTC(),
		Difficulty: src.Difficulty,
	}, nil
}

// BlockFromVerboseTx maps a verbosity-2 block result, including per-transaction
// output totals and coinbase markers, into a model.Block.
func BlockFromVerboseTx(src *btcjson.GetBlockVerboseTxResult) (model.Block, error) {
	if err := validateHeader(src.Height, src.Difficulty); err != nil {
		return model.Block{}, err
	}

	txs := make([]model.Transaction, 0, len(src.Tx))
	for _, tx := range src.Tx {
		converted, err := transactionFromRaw(tx)
		if err != nil {
			return model.Block{}, fmt.Errorf("block %d tx %s: %w", src.Height, tx.Txid, err)
		}
		txs = append(txs, converted)
	}

	return model.Block{
		Hash:       src.Hash,
		Height:     src.Height,
		Time:       time.Unix(src.Time, 0).UTC(),
		Difficulty: src.Difficulty,
		Txs:        txs,
	}, nil
}

func validateHeader(height int64, difficulty float64) error {
	if height < 0 {
		return fmt.Errorf("negative block height %d", height)
	}
	if difficulty <= 0 {
		return fmt.Errorf("block %d: non-positive difficulty %f", height, difficulty)
	}
	return nil
}

func transactionFromRaw(tx btcjson.TxRawResult) (model.Transaction, error) {
	coinbase := false
	for _, vin := range tx.Vin {
		if vin.IsCoinBase() {
			coinbase = true
			break
		}
	}

	var total btcutil.Amount
	for _, vout := range tx.Vout {
		amt, err := btcutil.NewAmount(vout.Value)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("vout %d value %f: %w", vout.N, vout.Value, err)
		}
		if amt < 0 {
			return model.Transaction{}, fmt.Errorf("vout %d: negative value %f", vout.N, vout.Value)
		}
		total += amt
	}

	return model.Transaction{
		TxID:        tx.Txid,
		Coinbase:    coinbase,
		OutputTotal: total,
	}, nil
}
