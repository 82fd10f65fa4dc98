package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/tokenized/brc20index/bitcoin"
	"github.com/tokenized/brc20index/chainrpc"
	"github.com/tokenized/brc20index/indexer"
	"github.com/tokenized/brc20index/json"
	"github.com/tokenized/brc20index/logger"
	"github.com/tokenized/brc20index/rpcnode"
	"github.com/tokenized/brc20index/scheduler"
	"github.com/tokenized/brc20index/storage"

	"github.com/kelseyhightower/envconfig"
)

func main() {
	// -------------------------------------------------------------------------
	// Logging
	logConfig := logger.NewDevelopmentConfig()
	logConfig.Main.AddFile("./tmp/main.log")
	logConfig.EnableSubSystem(indexer.SubSystem)
	logConfig.EnableSubSystem(chainrpc.SubSystem)
	ctx := logger.ContextWithLogConfig(context.Background(), logConfig)

	// -------------------------------------------------------------------------
	// Config

	var cfg struct {
		Network string `default:"mainnet" envconfig:"BITCOIN_NETWORK"`
		Node    struct {
			Host       string `envconfig:"NODE_HOST"`
			Username   string `envconfig:"NODE_USERNAME"`
			Password   string `envconfig:"NODE_PASSWORD"`
			MaxRetries int    `default:"10" envconfig:"NODE_MAX_RETRIES"`
			RetryDelay int    `default:"2000" envconfig:"NODE_RETRY_DELAY"`
		}
		Scan struct {
			StartHeight int64 `default:"0" envconfig:"SCAN_START_HEIGHT"`
			EndHeight   int64 `default:"-1" envconfig:"SCAN_END_HEIGHT"`
		}
		Storage struct {
			Bucket     string `default:"standalone" envconfig:"STORAGE_BUCKET"`
			Root       string `default:"./tmp" envconfig:"STORAGE_ROOT"`
			MaxRetries int    `default:"3" envconfig:"STORAGE_MAX_RETRIES"`
			RetryDelay int    `default:"2000" envconfig:"STORAGE_RETRY_DELAY"`
		}
	}

	if err := envconfig.Process("BRC20", &cfg); err != nil {
		logger.Info(ctx, "Parsing Config : %v", err)
	}

	logger.Info(ctx, "Started : Application Initializing")
	defer log.Println("Completed")

	cfgJSON, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		logger.Fatal(ctx, "Marshalling Config to JSON : %v", err)
	}
	logger.Info(ctx, "Config : %v\n", string(cfgJSON))

	// -------------------------------------------------------------------------
	// Storage

	storageConfig := storage.NewConfig(cfg.Storage.Bucket, cfg.Storage.Root)
	storageConfig.MaxRetries = cfg.Storage.MaxRetries
	storageConfig.RetryDelay = cfg.Storage.RetryDelay

	var store storage.Storage
	if strings.ToLower(storageConfig.Bucket) == "standalone" {
		store = storage.NewFilesystemStorage(storageConfig)
	} else {
		store = storage.NewS3Storage(storageConfig)
	}

	sched := &scheduler.Scheduler{}
	sink := indexer.NewStorageSink(store, sched, storageConfig)

	// -------------------------------------------------------------------------
	// Node

	node, err := rpcnode.NewNode(&rpcnode.Config{
		Host:       cfg.Node.Host,
		Username:   cfg.Node.Username,
		Password:   cfg.Node.Password,
		MaxRetries: cfg.Node.MaxRetries,
		RetryDelay: cfg.Node.RetryDelay,
	})
	if err != nil {
		logger.Error(ctx, "Failed to create RPC node : %s", err)
		return
	}

	network := bitcoin.NetworkFromString(cfg.Network)
	oracle := chainrpc.NewOracle(node, network, cfg.Scan.StartHeight, cfg.Scan.EndHeight)

	idx := indexer.New(oracle, sink, network)

	// -------------------------------------------------------------------------
	// Shutdown

	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-osSignals
		logger.Info(ctx, "Received signal : %s", sig)
		idx.Stop(ctx)
	}()

	schedulerErrors := make(chan error, 1)
	go func() {
		schedulerErrors <- sched.Run(ctx)
	}()

	// -------------------------------------------------------------------------
	// Run

	summary, err := idx.Run(ctx)
	if err != nil {
		logger.Error(ctx, "Indexer run failed : %s", err)
	}

	sched.Stop(ctx)

	if summary != nil {
		logger.Info(ctx, "Accepted deploys : %d", summary.AcceptedDeploys)
		logger.Info(ctx, "Accepted mints : %d", summary.AcceptedMints)
		logger.Info(ctx, "Accepted transfers : %d", summary.AcceptedTransfers)
		logger.Info(ctx, "Invalid : %d", summary.Invalid)
		logger.Info(ctx, "Ignored : %d", summary.Ignored)
	}

	if err := <-schedulerErrors; err != nil {
		logger.Error(ctx, "Scheduler failure : %s", err)
	}
}
