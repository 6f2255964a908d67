package config

import (
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"search-highlighter/consumer"
	appOtel "search-highlighter/utils/otel"
)

type Config struct {
	Database    DatabaseConfig
	Meilisearch MeilisearchConfig
	Indexer     IndexerConfig
	HTTP        HTTPConfig
	Highlight   HighlightConfig
	RateLimit   RateLimitConfig
	Consumer    consumer.Config
	OTel        appOtel.Config
	LogLevel    string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	Timeout  time.Duration
	MaxConns int32
	SSL      SSLConfig
}

type SSLConfig struct {
	Mode     string
	RootCert string
	Cert     string
	Key      string
}

type MeilisearchConfig struct {
	Host    string
	APIKey  string
	Index   string
	Timeout time.Duration
}

type IndexerConfig struct {
	Interval      time.Duration
	BatchSize     int
	RetryInterval time.Duration
}

type HTTPConfig struct {
	Addr              string
	ConnectAddr       string
	ReadHeaderTimeout time.Duration
	MaxBodyBytes      int64
}

type HighlightConfig struct {
	Workers       int
	SnippetLength int
	MarkerTag     string
	MarkerClass   string
}

type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// Load reads the whole configuration from the environment. Every missing or
// malformed variable is reported in the returned error.
func Load() (*Config, error) {
	r := &envReader{}

	cfg := &Config{
		Database: DatabaseConfig{
			Host:     r.required("DB_HOST"),
			Port:     r.required("DB_PORT"),
			Name:     r.required("DB_NAME"),
			User:     r.required("HIGHLIGHTER_DB_USER"),
			Password: r.required("HIGHLIGHTER_DB_PASSWORD"),
			Timeout:  r.duration("DB_TIMEOUT", DefaultDBTimeout),
			MaxConns: int32(r.integer("DB_MAX_CONNS", DefaultDBMaxConns)),
			SSL: SSLConfig{
				Mode:     r.str("DB_SSL_MODE", "prefer"),
				RootCert: r.str("DB_SSL_ROOT_CERT", ""),
				Cert:     r.str("DB_SSL_CERT", ""),
				Key:      r.str("DB_SSL_KEY", ""),
			},
		},
		Meilisearch: MeilisearchConfig{
			Host:    r.required("MEILISEARCH_HOST"),
			APIKey:  r.str("MEILISEARCH_API_KEY", ""),
			Index:   r.str("MEILISEARCH_INDEX", DefaultMeiliIndex),
			Timeout: r.duration("MEILI_TIMEOUT", DefaultMeiliTimeout),
		},
		Indexer: IndexerConfig{
			Interval:      r.duration("INDEX_INTERVAL", DefaultIndexInterval),
			BatchSize:     r.integer("INDEX_BATCH_SIZE", DefaultIndexBatchSize),
			RetryInterval: r.duration("INDEX_RETRY_INTERVAL", DefaultIndexRetryInterval),
		},
		HTTP: HTTPConfig{
			Addr:              r.str("HTTP_ADDR", DefaultHTTPAddr),
			ConnectAddr:       r.str("CONNECT_ADDR", DefaultConnectAddr),
			ReadHeaderTimeout: r.duration("HTTP_READ_HEADER_TIMEOUT", DefaultReadHeaderTimeout),
			MaxBodyBytes:      int64(r.integer("HTTP_MAX_BODY_BYTES", DefaultMaxBodyBytes)),
		},
		Highlight: HighlightConfig{
			Workers:       r.integer("HIGHLIGHT_WORKERS", runtime.NumCPU()),
			SnippetLength: r.integer("HIGHLIGHT_SNIPPET_LENGTH", DefaultSnippetLength),
			MarkerTag:     r.str("HIGHLIGHT_MARKER_TAG", DefaultMarkerTag),
			MarkerClass:   r.str("HIGHLIGHT_MARKER_CLASS", DefaultMarkerClass),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: r.number("RATE_LIMIT_RPS", DefaultRateLimit),
			Burst:             r.integer("RATE_LIMIT_BURST", DefaultRateBurst),
		},
		Consumer: loadConsumer(r),
		OTel:     loadOTel(r),
		LogLevel: r.str("LOG_LEVEL", DefaultLogLevel),
	}

	if err := r.err(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if err := cfg.Database.ValidateSSLConfig(); err != nil {
		slog.Error("Invalid SSL configuration", "error", err)
		return nil, fmt.Errorf("SSL configuration error: %w", err)
	}
	if cfg.OTel.SampleRatio < 0 || cfg.OTel.SampleRatio > 1 {
		return nil, fmt.Errorf("OTEL_TRACE_SAMPLE_RATIO must be within [0, 1], got %v", cfg.OTel.SampleRatio)
	}
	if cfg.Indexer.BatchSize <= 0 {
		return nil, fmt.Errorf("INDEX_BATCH_SIZE must be positive, got %d", cfg.Indexer.BatchSize)
	}

	slog.Info("Configuration loaded",
		"db_host", cfg.Database.Host,
		"db_sslmode", cfg.Database.SSL.Mode,
		"meilisearch_host", cfg.Meilisearch.Host,
		"meilisearch_index", cfg.Meilisearch.Index,
		"consumer_enabled", cfg.Consumer.Enabled,
		"otel_enabled", cfg.OTel.Enabled,
	)

	return cfg, nil
}

func loadConsumer(r *envReader) consumer.Config {
	def := consumer.DefaultConfig()
	return consumer.Config{
		RedisURL:      r.str("REDIS_STREAMS_URL", def.RedisURL),
		GroupName:     r.str("CONSUMER_GROUP", def.GroupName),
		ConsumerName:  r.str("CONSUMER_NAME", def.ConsumerName),
		StreamKey:     r.str("CONSUMER_STREAM_KEY", def.StreamKey),
		BatchSize:     int64(r.integer("CONSUMER_BATCH_SIZE", int(def.BatchSize))),
		BlockTimeout:  r.duration("CONSUMER_BLOCK_TIMEOUT", def.BlockTimeout),
		ClaimIdleTime: r.duration("CONSUMER_CLAIM_IDLE_TIME", def.ClaimIdleTime),
		Enabled:       r.boolean("CONSUMER_ENABLED", def.Enabled),
	}
}

func loadOTel(r *envReader) appOtel.Config {
	return appOtel.Config{
		ServiceName:    r.str("OTEL_SERVICE_NAME", "search-highlighter"),
		ServiceVersion: r.str("SERVICE_VERSION", "0.0.0"),
		Environment:    r.str("DEPLOYMENT_ENV", "development"),
		OTLPEndpoint:   r.str("OTEL_EXPORTER_OTLP_ENDPOINT", "http://localhost:4318"),
		Enabled:        r.boolean("OTEL_ENABLED", true),
		SampleRatio:    r.number("OTEL_TRACE_SAMPLE_RATIO", DefaultOTelSampleRatio),
	}
}

func (c *DatabaseConfig) GetDatabaseURL() string {
	baseURL := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s",
		c.User, c.Password, c.Host, c.Port, c.Name,
	)

	params := fmt.Sprintf("?sslmode=%s", c.SSL.Mode)

	if c.SSL.RootCert != "" {
		params += fmt.Sprintf("&sslrootcert=%s", c.SSL.RootCert)
	}
	if c.SSL.Cert != "" {
		params += fmt.Sprintf("&sslcert=%s", c.SSL.Cert)
	}
	if c.SSL.Key != "" {
		params += fmt.Sprintf("&sslkey=%s", c.SSL.Key)
	}

	return baseURL + params
}

func (c *DatabaseConfig) ValidateSSLConfig() error {
	switch c.SSL.Mode {
	case "disable":
		return fmt.Errorf("SSL disable mode is not allowed")
	case "allow", "prefer", "require":
		return nil
	case "verify-ca", "verify-full":
		if c.SSL.RootCert == "" {
			return fmt.Errorf("SSL root certificate required for mode %s", c.SSL.Mode)
		}
		return nil
	default:
		return fmt.Errorf("invalid SSL mode: %s", c.SSL.Mode)
	}
}
