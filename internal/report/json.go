// Package report serializes period summaries for output.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/goodnatureofminers/hashinsight7000-backend/internal/model"
)

type periodJSON struct {
	Height   int64    `json:"height"`
	Start    int64    `json:"start"`
	HashRate float64  `json:"hashrate"`
	Interval float64  `json:"interval"`
	Reward   *float64 `json:"reward,omitempty"`
}

// WriteJSON writes the periods as a JSON array followed by a trailing
// newline. Rewards are reported in BTC and omitted when not scanned.
func WriteJSON(w io.Writer, periods []model.Period) error {
	out := make([]periodJSON, 0, len(periods))
	for _, p := range periods {
		entry := periodJSON{
			Height:   p.Height,
			Start:    p.StartTime.Unix(),
			HashRate: p.HashRate,
			Interval: p.Interval,
		}
		if p.Reward != nil {
			btc := p.Reward.ToBTC()
			entry.Reward = &btc
		}
		out = append(out, entry)
	}

	encoded, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("encode periods: %w", err)
	}
	if _, err := w.Write(append(encoded, '\n')); err != nil {
		return fmt.Errorf("write periods: %w", err)
	}
	return nil
}
