package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"

	"github.com/goodnatureofminers/hashinsight7000-backend/internal/model"
	"github.com/goodnatureofminers/hashinsight7000-backend/pkg/safe"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Metrics records metrics for ClickHouse operations.
	Metrics interface {
		Observe(operation, network string, err error, started time.Time)
	}
)

// PeriodRepository stores computed difficulty periods in ClickHouse.
type PeriodRepository struct {
	conn    clickhouse.Conn
	metrics Metrics
}

// NewPeriodRepository opens a ClickHouse connection from the DSN.
func NewPeriodRepository(dsn string, metrics Metrics) (*PeriodRepository, error) {
	if dsn == "" {
		return nil, errors.New("clickhouse dsn is required")
	}

	options, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse clickhouse dsn: %w", err)
	}

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, fmt.Errorf("open clickhouse connection: %w", err)
	}

	return &PeriodRepository{conn: conn, metrics: metrics}, nil
}

// InsertPeriods stores period rows; re-inserting a (network, height) pair is
// idempotent thanks to the ReplacingMergeTree engine.
func (r *PeriodRepository) InsertPeriods(ctx context.Context, network string, periods []model.Period) error {
	started := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_periods", network, err, started)
	}()

	if len(periods) == 0 {
		return nil
	}

	const query = `
INSERT INTO btc_difficulty_periods (
	network,
	height,
	start_time,
	hash_rate,
	block_interval,
	reward_satoshis
) VALUES`

	batch, err := r.conn.PrepareBatch(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare periods batch: %w", err)
	}

	for _, period := range periods {
		height, convErr := safe.Uint64(period.Height)
		if convErr != nil {
			err = fmt.Errorf("period height %d: %w", period.Height, convErr)
			return err
		}

		var reward *uint64
		if period.Reward != nil {
			sats, convErr := safe.Uint64(int64(*period.Reward))
			if convErr != nil {
				err = fmt.Errorf("period %d reward: %w", period.Height, convErr)
				return err
			}
			reward = &sats
		}

		if err = batch.Append(
			network,
			height,
			period.StartTime,
			period.HashRate,
			period.Interval,
			reward,
		); err != nil {
			return fmt.Errorf("append period: %w", err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert periods: %w", err)
	}
	return nil
}

// MaxPeriodHeight returns the highest stored period boundary for a network,
// with false when no periods exist yet.
func (r *PeriodRepository) MaxPeriodHeight(ctx context.Context, network string) (uint64, bool, error) {
	started := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("max_period_height", network, err, started)
	}()

	const query = `
SELECT toUInt64(max(height)) as height, count() as cnt
FROM btc_difficulty_periods
WHERE network = ?`

	rows, err := r.conn.Query(ctx, query, network)
	if err != nil {
		return 0, false, fmt.Errorf("query max period height: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return 0, false, nil
	}

	var height, cnt uint64
	if err = rows.Scan(&height, &cnt); err != nil {
		return 0, false, fmt.Errorf("scan max period height: %w", err)
	}
	if cnt == 0 {
		return 0, false, nil
	}
	return height, true, nil
}

// Close releases the underlying connection.
func (r *PeriodRepository) Close() error {
	return r.conn.Close()
}
