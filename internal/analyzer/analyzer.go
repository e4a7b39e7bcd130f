// Package analyzer reduces a block stream into difficulty-period statistics.
package analyzer

import (
	"context"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/hashinsight7000-backend/internal/model"
)

// DifficultyInterval is the number of blocks between difficulty adjustments.
const DifficultyInterval = 2016

// Config controls how many periods are computed and whether coinbase rewards
// are accumulated.
type Config struct {
	// Periods is the number of period summaries to emit; zero yields none.
	Periods int
	// IncludeRewards accumulates coinbase rewards per period. Requires a
	// stream configured with full transaction detail.
	IncludeRewards bool
}

// PeriodAnalyzer walks the block stream, emitting one summary per
// difficulty-adjustment boundary crossed.
type PeriodAnalyzer struct {
	stream BlockStream
	cfg    Config
	logger *zap.Logger
}

// New constructs a PeriodAnalyzer over the given stream.
func New(stream BlockStream, cfg Config, logger *zap.Logger) (*PeriodAnalyzer, error) {
	if cfg.Periods < 0 {
		return nil, fmt.Errorf("negative period count %d", cfg.Periods)
	}
	return &PeriodAnalyzer{
		stream: stream,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Analyze pulls blocks until the requested number of periods has been
// emitted, calling emit once per completed period. The genesis block only
// seeds the boundary reference; it is never counted as a completed period,
// though its coinbase reward belongs to the first one.
func (a *PeriodAnalyzer) Analyze(ctx context.Context, emit func(model.Period) error) error {
	boundary, err := a.stream.Next(ctx)
	if err != nil {
		return fmt.Errorf("read genesis block: %w", err)
	}

	var accumulator btcutil.Amount
	if a.cfg.IncludeRewards {
		reward, err := blockReward(boundary)
		if err != nil {
			return err
		}
		accumulator = reward
	}

	for emitted := 0; emitted < a.cfg.Periods; {
		if err := ctx.Err(); err != nil {
			return err
		}

		block, err := a.stream.Next(ctx)
		if err != nil {
			return err
		}

		if a.cfg.IncludeRewards {
			reward, err := blockReward(block)
			if err != nil {
				return err
			}
			accumulator += reward
		}

		if block.Height%DifficultyInterval != 0 {
			continue
		}

		// Equal or slightly out-of-order timestamps are legal on chain; the
		// resulting interval may be zero or negative and is reported as-is.
		elapsed := block.Time.Sub(boundary.Time).Seconds()
		interval := elapsed / DifficultyInterval

		period := model.Period{
			Height:    block.Height,
			StartTime: block.Time,
			HashRate:  EstimateHashRate(boundary.Difficulty, interval),
			Interval:  interval,
		}
		if a.cfg.IncludeRewards {
			reward := accumulator
			period.Reward = &reward
			accumulator = 0
		}

		a.logger.Debug("difficulty period complete",
			zap.Int64("height", block.Height),
			zap.Float64("interval_seconds", interval),
			zap.Float64("hash_rate", period.HashRate))

		if err := emit(period); err != nil {
			return err
		}
		emitted++
		boundary = block
	}

	return nil
}

// Run collects the emitted periods into a slice.
func (a *PeriodAnalyzer) Run(ctx context.Context) ([]model.Period, error) {
	periods := make([]model.Period, 0, a.cfg.Periods)
	err := a.Analyze(ctx, func(p model.Period) error {
		periods = append(periods, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return periods, nil
}

// blockReward returns the coinbase output total for a block. A block without
// a coinbase transaction indicates an unsupported or corrupted source.
func blockReward(block model.Block) (btcutil.Amount, error) {
	for _, tx := range block.Txs {
		if tx.Coinbase {
			return tx.OutputTotal, nil
		}
	}
	return 0, fmt.Errorf("block %d: no coinbase transaction", block.Height)
}
