package config

import (
	"os"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

type Config struct {
	Env       string
	HTTPAddr  string
	JWTKey    string
	LogLevel  string
	Chain     ChainConfig
	Contracts ContractsConfig
	Wallet    WalletConfig
	Cache     CacheConfig
	Store     StoreConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Telemetry TelemetryConfig
}

type ChainConfig struct {
	RPCURL string
	// WSURL enables eth_subscribe for contract events; empty means log polling over RPCURL.
	WSURL               string
	ChainID             int64
	ReceiptPollInterval time.Duration
	ReceiptTimeout      time.Duration
	EventWait           time.Duration
	LogPollInterval     time.Duration
	BackfillFromBlock   uint64
}

type ContractsConfig struct {
	Arena       common.Address
	Token       common.Address
	Distributor common.Address
}

type WalletConfig struct {
	PrivateKey string
}

type CacheConfig struct {
	TTL             time.Duration
	RefreshInterval time.Duration
	RateLimitDelay  time.Duration
	RosterWorkers   int
}

type StoreConfig struct {
	ImagesPath       string
	SocialEventsPath string
	DefaultImage     string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
}

type TelemetryConfig struct {
	OTLPEndpoint string
	ServiceName  string
}

func Load() *Config {
	return &Config{
		Env:      getEnv("ENV", "development"),
		HTTPAddr: normalizeAddr(getEnv("HTTP_ADDR", ":8080")),
		JWTKey:   getEnv("JWT_KEY", "secret"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Chain: ChainConfig{
			RPCURL:              getEnv("RPC_URL", "https://testnet-rpc.monad.xyz"),
			WSURL:               getEnv("WS_URL", ""),
			ChainID:             getEnvInt64("CHAIN_ID", 10143),
			ReceiptPollInterval: getEnvDuration("RECEIPT_POLL_INTERVAL", time.Second),
			ReceiptTimeout:      getEnvDuration("RECEIPT_TIMEOUT", 60*time.Second),
			EventWait:           getEnvDuration("EVENT_WAIT", 5*time.Second),
			LogPollInterval:     getEnvDuration("LOG_POLL_INTERVAL", 2*time.Second),
			BackfillFromBlock:   uint64(getEnvInt64("BACKFILL_FROM_BLOCK", 0)),
		},
		Contracts: ContractsConfig{
			Arena:       common.HexToAddress(getEnv("ARENA_ADDRESS", "0x54e1d41837bDc3448101Eeffa779A959fA48bbD9")),
			Token:       common.HexToAddress(getEnv("TOKEN_ADDRESS", "0x74DB79c0Adb22f5869140893741091C8B312Ba69")),
			Distributor: common.HexToAddress(getEnv("DISTRIBUTOR_ADDRESS", "0x7f88E6995dF4956D3c3430236EE36111B9aCFa6D")),
		},
		Wallet: WalletConfig{
			PrivateKey: getEnv("WALLET_PRIVATE_KEY", ""),
		},
		Cache: CacheConfig{
			TTL:             getEnvDuration("CACHE_TTL", 30*time.Second),
			RefreshInterval: getEnvDuration("REFRESH_INTERVAL", 30*time.Second),
			RateLimitDelay:  getEnvDuration("RATE_LIMIT_DELAY", 5*time.Second),
			RosterWorkers:   int(getEnvInt64("ROSTER_WORKERS", 8)),
		},
		Store: StoreConfig{
			ImagesPath:       getEnv("IMAGES_PATH", "data/gladiator-images.json"),
			SocialEventsPath: getEnv("SOCIAL_EVENTS_PATH", "data/social-events.json"),
			DefaultImage:     getEnv("DEFAULT_IMAGE", "/images/gonad.png"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DATABASE_HOST", "localhost"),
			Port:     getEnv("DATABASE_PORT", "5433"),
			User:     getEnv("DATABASE_USER", "postgres"),
			Password: getEnv("DATABASE_PASSWORD", "postgres"),
			Name:     getEnv("DATABASE_NAME", "gonadarena"),
			SSLMode:  getEnv("DATABASE_SSL_MODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		Telemetry: TelemetryConfig{
			OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "gonadarena"),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func normalizeAddr(addr string) string {
	if addr == "" {
		return addr
	}

	if addr[0] == ':' || addr[0] == '[' {
		return addr
	}

	for _, r := range addr {
		if r < '0' || r > '9' {
			return addr
		}
	}

	return ":" + addr
}
