package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gabapcia/chainledger/internal/claimcheck"
	"github.com/gabapcia/chainledger/internal/config"
	"github.com/gabapcia/chainledger/internal/handlers/cli"
	"github.com/gabapcia/chainledger/internal/handlers/httpapi"
	"github.com/gabapcia/chainledger/internal/infra/blockchain/esplora"
	"github.com/gabapcia/chainledger/internal/infra/blockchain/etherscan"
	"github.com/gabapcia/chainledger/internal/infra/blockchain/solana"
	kafkanotify "github.com/gabapcia/chainledger/internal/infra/notify/kafka"
	"github.com/gabapcia/chainledger/internal/infra/payment/stripe"
	"github.com/gabapcia/chainledger/internal/infra/storage/mysql"
	redisstorage "github.com/gabapcia/chainledger/internal/infra/storage/redis"
	"github.com/gabapcia/chainledger/internal/ledger"
	"github.com/gabapcia/chainledger/internal/paymatch"
	"github.com/gabapcia/chainledger/internal/pkg/logger"
	"github.com/gabapcia/chainledger/internal/pkg/resilience/retry"
	"github.com/gabapcia/chainledger/internal/pkg/telemetry"
	transporthttp "github.com/gabapcia/chainledger/internal/pkg/transport/http"
	"github.com/gabapcia/chainledger/internal/pkg/transport/jsonrpc"
	"github.com/gabapcia/chainledger/internal/txpoll"
)

const serviceName = "chainledger"

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	telemetryShutdown, err := telemetry.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}
	defer telemetryShutdown(context.Background())

	if err := logger.Init(logger.WithLevel(cfg.LogLevel)); err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer logger.Sync()

	mysqlClient, err := mysql.NewClient(ctx, cfg.MySQLDSN)
	if err != nil {
		return fmt.Errorf("connecting to mysql: %w", err)
	}
	defer mysqlClient.Close()

	httpClient := transporthttp.NewClient(transporthttp.WithTimeout(cfg.UpstreamTimeout))

	clients := map[ledger.Chain]txpoll.ChainClient{
		ledger.ChainBitcoin:  esplora.NewClient(httpClient, cfg.BTCEsploraURL),
		ledger.ChainLitecoin: esplora.NewClient(httpClient, cfg.LTCEsploraURL),
		ledger.ChainEthereum: etherscan.NewClient(httpClient, cfg.EtherscanAPIKey),
		ledger.ChainSolana:   solana.NewClient(jsonrpc.NewClient(httpClient.StandardClient(), cfg.SolanaRPCURL)),
		ledger.ChainRipple:   txpoll.UnsupportedChainClient{},
	}

	addresses := make(map[ledger.Chain]string, len(cfg.WalletAddresses))
	for name, address := range cfg.WalletAddresses {
		chain, err := ledger.ParseChain(name)
		if err != nil {
			return fmt.Errorf("wallet registry entry %q: %w", name, err)
		}
		addresses[chain] = address
	}

	ledgerService := ledger.New(mysqlClient)

	pollOpts := []txpoll.Option{
		txpoll.WithPollInterval(cfg.PollInterval),
		txpoll.WithFetchLimit(cfg.TxFetchLimit),
		txpoll.WithRetry(retry.New(
			retry.WithAttempts(cfg.FetchRetryAttempts),
			retry.WithDelay(cfg.FetchRetryDelay),
		)),
	}
	if cfg.KafkaBroker != "" {
		notifier := kafkanotify.NewNotifier(cfg.KafkaBroker, cfg.KafkaTopic)
		defer notifier.Close()

		pollOpts = append(pollOpts, txpoll.WithTransactionNotifier(notifier))
	}

	poller := txpoll.New(txpoll.NewWalletRegistry(addresses), clients, ledgerService, pollOpts...)

	paymatchOpts := []paymatch.Option{}
	if cfg.RedisAddr != "" {
		redisClient, err := redisstorage.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer redisClient.Close()

		paymatchOpts = append(paymatchOpts, paymatch.WithPaymentCache(redisClient))
	}

	paymentService := paymatch.New(stripe.NewClient(httpClient, cfg.StripeAPIKey), paymatchOpts...)
	claimService := claimcheck.New(ledgerService, poller)

	api := httpapi.NewServer(claimService, paymentService)

	return cli.Run(ctx, poller, api, cfg.HTTPListenAddr)
}

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
