package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/btcsuite/btcd/rpcclient"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/hashinsight7000-backend/internal/analyzer"
	"github.com/goodnatureofminers/hashinsight7000-backend/internal/metrics"
	"github.com/goodnatureofminers/hashinsight7000-backend/internal/model"
	"github.com/goodnatureofminers/hashinsight7000-backend/internal/repository"
	"github.com/goodnatureofminers/hashinsight7000-backend/internal/stream"
	"github.com/goodnatureofminers/hashinsight7000-backend/pkg/batcher"
	"github.com/goodnatureofminers/hashinsight7000-backend/pkg/safe"
)

type config struct {
	ClickhouseDSN string        `long:"clickhouse-dsn" env:"PERIOD_INGESTER_CLICKHOUSE_DSN" description:"ClickHouse DSN"`
	Network       string        `long:"network" env:"PERIOD_INGESTER_NETWORK" default:"mainnet" description:"network name"`
	RPCURL        string        `long:"rpc-url" env:"PERIOD_INGESTER_RPC_URL" default:"http://127.0.0.1:8332" description:"Bitcoin RPC URL"`
	RPCUser       string        `long:"rpc-user" env:"PERIOD_INGESTER_RPC_USER" description:"Bitcoin RPC username"`
	RPCPassword   string        `long:"rpc-password" env:"PERIOD_INGESTER_RPC_PASSWORD" description:"Bitcoin RPC password"`
	ScanCoinbase  bool          `long:"scan-coinbase" env:"PERIOD_INGESTER_SCAN_COINBASE" description:"scan transactions to get coinbase rewards"`
	Periods       int           `long:"periods" env:"PERIOD_INGESTER_PERIODS" description:"number of periods to ingest (0 = all the chain tip allows)"`
	BatchSize     int           `long:"batch-size" env:"PERIOD_INGESTER_BATCH_SIZE" default:"100" description:"blocks per batched RPC round trip"`
	RPS           int           `long:"rps" env:"PERIOD_INGESTER_RPS" description:"max batched RPC round trips per second (0 = unlimited)"`
	FlushSize     int           `long:"flush-size" env:"PERIOD_INGESTER_FLUSH_SIZE" default:"32" description:"periods per ClickHouse insert"`
	FlushInterval time.Duration `long:"flush-interval" env:"PERIOD_INGESTER_FLUSH_INTERVAL" default:"5s" description:"max delay before a partial batch is flushed"`
	FlushRPS      int           `long:"flush-rps" env:"PERIOD_INGESTER_FLUSH_RPS" default:"1" description:"max ClickHouse inserts per second"`
	MetricsAddr   string        `long:"metrics-addr" env:"PERIOD_INGESTER_METRICS_ADDR" default:":8080" description:"ops HTTP listen address"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if _, err := flags.Parse(&cfg); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	if cfg.ClickhouseDSN == "" {
		logger.Fatal("ClickHouse DSN is required")
	}
	if cfg.Periods < 0 {
		logger.Fatal("periods must not be negative", zap.Int("periods", cfg.Periods))
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("period ingester failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	repo, err := repository.NewPeriodRepository(cfg.ClickhouseDSN, metrics.NewClickhouseRepository())
	if err != nil {
		return fmt.Errorf("init period repository: %w", err)
	}
	defer func() {
		_ = repo.Close()
	}()

	rpc, err := newBatchRPCClient(cfg.RPCURL, cfg.RPCUser, cfg.RPCPassword)
	if err != nil {
		return fmt.Errorf("init btc rpc client: %w", err)
	}
	defer func() {
		rpc.Shutdown()
		rpc.WaitForShutdown()
	}()

	opsServer := startOpsServer(cfg.MetricsAddr, logger)
	defer func() {
		if err := opsServer.Shutdown(context.Background()); err != nil {
			logger.Error("failed to shutdown ops server", zap.Error(err))
		}
	}()

	source := repository.NewBTCNodeRepository(rpc, cfg.Network, cfg.RPS)

	periods := cfg.Periods
	if periods == 0 {
		tip, err := source.BlockCount(ctx)
		if err != nil {
			return fmt.Errorf("get chain tip: %w", err)
		}
		periods, err = safe.Int(tip / analyzer.DifficultyInterval)
		if err != nil {
			return fmt.Errorf("chain tip %d: %w", tip, err)
		}
		if periods == 0 {
			logger.Info("chain has no completed difficulty period yet", zap.Int64("tip", tip))
			return nil
		}
		logger.Info("ingesting all available periods",
			zap.Int64("tip", tip),
			zap.Int("periods", periods))
	}

	blocks := stream.New(source, stream.Config{
		BatchSize:           cfg.BatchSize,
		IncludeTransactions: cfg.ScanCoinbase,
	})
	periodAnalyzer, err := analyzer.New(blocks, analyzer.Config{
		Periods:        periods,
		IncludeRewards: cfg.ScanCoinbase,
	}, logger)
	if err != nil {
		return err
	}

	sink := batcher.New(logger, func(ctx context.Context, batch []model.Period) error {
		return repo.InsertPeriods(ctx, cfg.Network, batch)
	}, cfg.FlushSize, cfg.FlushInterval, cfg.FlushRPS)
	sink.Start(ctx)

	analyzeErr := periodAnalyzer.Analyze(ctx, func(p model.Period) error {
		return sink.Add(ctx, p)
	})
	if err := sink.Stop(); err != nil {
		return fmt.Errorf("flush periods: %w", err)
	}
	if analyzeErr != nil {
		return analyzeErr
	}

	height, ok, err := repo.MaxPeriodHeight(ctx, cfg.Network)
	if err != nil {
		return err
	}
	if ok {
		logger.Info("period ingestion complete",
			zap.Int("periods", sink.Flushed()),
			zap.Uint64("last_height", height))
	}
	return nil
}

func startOpsServer(addr string, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	s := &http.Server{
		Addr:              addr,
		Handler:           cors.Default().Handler(mux),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
	}
	go func() {
		logger.Info("starting ops HTTP server", zap.String("addr", addr))
		if err := s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Error("ops server failed", zap.Error(err))
		}
	}()
	return s
}

func newBatchRPCClient(rawURL, user, password string) (*rpcclient.Client, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse rpc url: %w", err)
	}
	if parsed.Scheme != "http" {
		return nil, fmt.Errorf("rpc url scheme %q not supported, use http", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, errors.New("rpc url missing host")
	}

	if parsed.User != nil {
		if user == "" {
			user = parsed.User.Username()
		}
		if password == "" {
			password, _ = parsed.User.Password()
		}
	}

	cfg := &rpcclient.ConnConfig{
		Host:         parsed.Host,
		User:         user,
		Pass:         password,
		HTTPPostMode: true,
		DisableTLS:   true,
	}

	return rpcclient.NewBatch(cfg)
}
