// Package config loads the process configuration from the environment,
// optionally seeded from a local .env file.
package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config carries every tunable the service reads at startup. All values
// come from CHAINLEDGER_-prefixed environment variables.
type Config struct {
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	HTTPListenAddr string `envconfig:"HTTP_LISTEN_ADDR" default:":8080"`

	// WalletAddresses maps a chain name (long form or symbol) to the
	// monitored address, e.g. "btc:bc1...,eth:0x9a6...".
	WalletAddresses map[string]string `envconfig:"WALLET_ADDRESSES"`

	PollInterval    time.Duration `envconfig:"POLL_INTERVAL" default:"30m"`
	TxFetchLimit    int           `envconfig:"TX_FETCH_LIMIT" default:"100"`
	UpstreamTimeout time.Duration `envconfig:"UPSTREAM_TIMEOUT" default:"20s"`

	// Per-wallet fetch retries. Re-fetching is safe: recording is
	// insert-if-absent, so a retried page never duplicates rows.
	FetchRetryAttempts uint          `envconfig:"FETCH_RETRY_ATTEMPTS" default:"3"`
	FetchRetryDelay    time.Duration `envconfig:"FETCH_RETRY_DELAY" default:"1s"`

	BTCEsploraURL   string `envconfig:"BTC_ESPLORA_URL" default:"https://blockstream.info/api"`
	LTCEsploraURL   string `envconfig:"LTC_ESPLORA_URL" default:"https://litecoinspace.org/api"`
	EtherscanAPIKey string `envconfig:"ETHERSCAN_API_KEY"`
	SolanaRPCURL    string `envconfig:"SOLANA_RPC_URL" default:"https://api.mainnet-beta.solana.com"`

	// MySQLDSN must enable parseTime so ledger timestamps scan into
	// time.Time, e.g. "user:pass@tcp(localhost:3306)/chainledger?parseTime=true".
	MySQLDSN string `envconfig:"MYSQL_DSN" required:"true"`

	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB"`

	KafkaBroker string `envconfig:"KAFKA_BROKER"`
	KafkaTopic  string `envconfig:"KAFKA_TOPIC" default:"chainledger.incoming-transactions"`

	StripeAPIKey string `envconfig:"STRIPE_API_KEY"`
}

// Load reads a .env file when one is present, then parses the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	return cfg, envconfig.Process("chainledger", &cfg)
}
