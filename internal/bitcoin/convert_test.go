package bitcoin

import (
	"testing"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"
)

func TestBlockFromVerbose(t *testing.T) {
	tests := []struct {
		name    string
		src     btcjson.GetBlockVerboseResult
		wantErr bool
	}{
		{
			name: "valid block",
			src: btcjson.GetBlockVerboseResult{
				Hash:       "000000hash",
				Height:     2016,
				Time:       1234567890,
				Difficulty: 1.18,
			},
		},
		{
			name: "negative height",
			src: btcjson.GetBlockVerboseResult{
				Height:     -1,
				Time:       1234567890,
				Difficulty: 1,
			},
			wantErr: true,
		},
		{
			name: "zero difficulty",
			src: btcjson.GetBlockVerboseResult{
				Height: 100,
				Time:   1234567890,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BlockFromVerbose(&tt.src)
			if (err != nil) != tt.wantErr {
				t.Fatalf("BlockFromVerbose() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got.Height != tt.src.Height {
				t.Fatalf("height = %d, want %d", got.Height, tt.src.Height)
			}
			if got.Time.Unix() != tt.src.Time {
				t.Fatalf("time = %d, want %d", got.Time.Unix(), tt.src.Time)
			}
			if got.Txs != nil {
				t.Fatalf("expected no transactions at verbosity 1, got %d", len(got.Txs))
			}
		})
	}
}

func TestBlockFromVerboseTx(t *testing.T) {
	src := btcjson.GetBlockVerboseTxResult{
		Hash:       "000000hash",
		Height:     2016,
		Time:       1231006505,
		Difficulty: 1,
		Tx: []btcjson.TxRawResult{
			{
				Txid: "coinbase-tx",
				Vin:  []btcjson.Vin{{Coinbase: "044c86041b020602"}},
				Vout: []btcjson.Vout{
					{N: 0, Value: 6.25},
				},
			},
			{
				Txid: "spend-tx",
				Vin:  []btcjson.Vin{{Txid: "prev-tx", Vout: 1}},
				Vout: []btcjson.Vout{
					{N: 0, Value: 0.5},
					{N: 1, Value: 0.25},
				},
			},
		},
	}

	got, err := BlockFromVerboseTx(&src)
	if err != nil {
		t.Fatalf("BlockFromVerboseTx() error = %v", err)
	}

	if len(got.Txs) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(got.Txs))
	}

	cb := got.Txs[0]
	if !cb.Coinbase {
		t.Fatalf("expected first transaction to be coinbase")
	}
	if want := mustAmount(t, 6.25); cb.OutputTotal != want {
		t.Fatalf("coinbase output total = %v, want %v", cb.OutputTotal, want)
	}

	spend := got.Txs[1]
	if spend.Coinbase {
		t.Fatalf("spend transaction marked coinbase")
	}
	if want := mustAmount(t, 0.75); spend.OutputTotal != want {
		t.Fatalf("spend output total = %v, want %v", spend.OutputTotal, want)
	}
}

func TestBlockFromVerboseTxBadValue(t *testing.T) {
	src := btcjson.GetBlockVerboseTxResult{
		Height:     1,
		Time:       1231006505,
		Difficulty: 1,
		Tx: []btcjson.TxRawResult{
			{
				Txid: "bad-tx",
				Vin:  []btcjson.Vin{{Coinbase: "00"}},
				Vout: []btcjson.Vout{{N: 0, Value: -1}},
			},
		},
	}

	if _, err := BlockFromVerboseTx(&src); err == nil {
		t.Fatalf("expected error for negative output value")
	}
}

func mustAmount(t *testing.T, v float64) btcutil.Amount {
	t.Helper()

	amt, err := btcutil.NewAmount(v)
	if err != nil {
		t.Fatalf("NewAmount(%f): %v", v, err)
	}
	return amt
}
