package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	DB        DBConfig
	SQLite    SQLiteConfig
	Redis     RedisConfig
	S3        S3Config
	Log       LogConfig
	Parser    ParserConfig
	CORS      CORSConfig
	Queue     QueueConfig
	Extractor ExtractorConfig
	Backup    BackupConfig
	RateLimit RateLimitConfig
}

// Store backends.
const (
	StoreBackendSQLite   = "sqlite"
	StoreBackendPostgres = "postgres"
	StoreBackendRedis    = "redis"
	StoreBackendMemory   = "memory"
)

// StoreConfig selects the key-value backend that holds persisted records.
type StoreConfig struct {
	Backend   string `mapstructure:"backend"`
	RecordKey string `mapstructure:"record_key"`
}

// SQLiteConfig holds embedded database settings.
type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// QueueConfig holds processing queue settings.
type QueueConfig struct {
	ItemDelay   time.Duration `mapstructure:"item_delay"`
	Concurrency int           `mapstructure:"concurrency"`
}

// ExtractorConfig holds text extraction settings.
type ExtractorConfig struct {
	PDFToTextPath string        `mapstructure:"pdftotext_path"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxFileSizeMB int64         `mapstructure:"max_file_size_mb"`
}

// MaxFileSizeBytes returns the upload limit in bytes.
func (e *ExtractorConfig) MaxFileSizeBytes() int64 {
	return e.MaxFileSizeMB * 1024 * 1024
}

// BackupConfig holds scheduled record export settings.
type BackupConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
	Prefix   string `mapstructure:"prefix"`
	Keep     int    `mapstructure:"keep"`
}

// RateLimitConfig holds per-client HTTP rate limit settings.
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"rps"`
	Burst             int     `mapstructure:"burst"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ParserProviderConfig holds settings for a single LLM parser provider.
type ParserProviderConfig struct {
	Provider     string  `mapstructure:"provider"`
	APIKey       string  `mapstructure:"api_key"`
	DefaultModel string  `mapstructure:"default_model"`
	TimeoutSecs  int     `mapstructure:"timeout_secs"`
	Temperature  float64 `mapstructure:"temperature"`
	MaxTokens    int     `mapstructure:"max_tokens"`
}

// ParserConfig holds server-side fallback providers used when the operator
// has not saved an API key in settings.
type ParserConfig struct {
	Primary   ParserProviderConfig `mapstructure:"primary"`
	Secondary ParserProviderConfig `mapstructure:"secondary"`
	Tertiary  ParserProviderConfig `mapstructure:"tertiary"`

	// DefaultProvider and DefaultModel apply to operator settings that omit them.
	DefaultProvider string `mapstructure:"default_provider"`
	DefaultModel    string `mapstructure:"default_model"`
	TimeoutSecs     int    `mapstructure:"timeout_secs"`
}

// Providers returns the configured fallback chain in order, skipping entries
// without a provider or key.
func (p *ParserConfig) Providers() []*ParserProviderConfig {
	var out []*ParserProviderConfig
	for _, c := range []*ParserProviderConfig{&p.Primary, &p.Secondary, &p.Tertiary} {
		if c.Provider != "" && c.APIKey != "" {
			out = append(out, c)
		}
	}
	return out
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Environment     string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds AWS S3 settings. An empty bucket disables object storage.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// Enabled reports whether uploads and backups go to S3.
func (s *S3Config) Enabled() bool {
	return s.Bucket != ""
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the ADOPT_ prefix.
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("ADOPT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	bindEnv(v)

	cfg := &Config{}

	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("ADOPT_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:            serverPort,
		ReadTimeout:     v.GetDuration("server.read_timeout"),
		WriteTimeout:    v.GetDuration("server.write_timeout"),
		ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		Environment:     v.GetString("server.environment"),
	}
	cfg.Store = StoreConfig{
		Backend:   strings.ToLower(v.GetString("store.backend")),
		RecordKey: v.GetString("store.record_key"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.SQLite = SQLiteConfig{
		Path: v.GetString("sqlite.path"),
	}
	cfg.Redis = RedisConfig{
		Addr:      v.GetString("redis.addr"),
		Password:  v.GetString("redis.password"),
		DB:        v.GetInt("redis.db"),
		KeyPrefix: v.GetString("redis.key_prefix"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}
	cfg.Parser = ParserConfig{
		Primary:         providerConfig(v, "parser.primary"),
		Secondary:       providerConfig(v, "parser.secondary"),
		Tertiary:        providerConfig(v, "parser.tertiary"),
		DefaultProvider: v.GetString("parser.default_provider"),
		DefaultModel:    v.GetString("parser.default_model"),
		TimeoutSecs:     v.GetInt("parser.timeout_secs"),
	}
	cfg.Queue = QueueConfig{
		ItemDelay:   v.GetDuration("queue.item_delay"),
		Concurrency: v.GetInt("queue.concurrency"),
	}
	cfg.Extractor = ExtractorConfig{
		PDFToTextPath: v.GetString("extractor.pdftotext_path"),
		Timeout:       v.GetDuration("extractor.timeout"),
		MaxFileSizeMB: v.GetInt64("extractor.max_file_size_mb"),
	}
	cfg.Backup = BackupConfig{
		Enabled:  v.GetBool("backup.enabled"),
		Schedule: v.GetString("backup.schedule"),
		Prefix:   v.GetString("backup.prefix"),
		Keep:     v.GetInt("backup.keep"),
	}
	cfg.RateLimit = RateLimitConfig{
		RequestsPerSecond: v.GetFloat64("ratelimit.rps"),
		Burst:             v.GetInt("ratelimit.burst"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "0s")
	v.SetDefault("server.shutdown_timeout", "15s")
	v.SetDefault("server.environment", "development")

	v.SetDefault("store.backend", StoreBackendSQLite)
	v.SetDefault("store.record_key", "adoption_records")

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "adoptions")
	v.SetDefault("db.password", "adoptions_secret")
	v.SetDefault("db.name", "adoptions_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 10)
	v.SetDefault("db.max_idle", 5)

	v.SetDefault("sqlite.path", "data/adoptions.db")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "adoptions:")

	v.SetDefault("s3.region", "eu-south-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 3600)

	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173")

	v.SetDefault("queue.item_delay", "1s")
	v.SetDefault("queue.concurrency", 1)

	v.SetDefault("extractor.pdftotext_path", "pdftotext")
	v.SetDefault("extractor.timeout", "60s")
	v.SetDefault("extractor.max_file_size_mb", 20)

	v.SetDefault("backup.enabled", false)
	v.SetDefault("backup.schedule", "0 3 * * *")
	v.SetDefault("backup.prefix", "backups/")
	v.SetDefault("backup.keep", 7)

	v.SetDefault("ratelimit.rps", 20)
	v.SetDefault("ratelimit.burst", 40)

	v.SetDefault("parser.default_provider", "openai")
	v.SetDefault("parser.default_model", "gpt-4o-mini")
	v.SetDefault("parser.timeout_secs", 120)
	for _, p := range []string{"primary", "secondary", "tertiary"} {
		v.SetDefault("parser."+p+".provider", "")
		v.SetDefault("parser."+p+".api_key", "")
		v.SetDefault("parser."+p+".default_model", "")
		v.SetDefault("parser."+p+".timeout_secs", 120)
		v.SetDefault("parser."+p+".temperature", 0.1)
		v.SetDefault("parser."+p+".max_tokens", 2000)
	}
}

// bindEnv binds nested keys explicitly; AutomaticEnv alone does not see them
// when unmarshaling.
func bindEnv(v *viper.Viper) {
	keys := []string{
		"server.port", "server.read_timeout", "server.write_timeout", "server.shutdown_timeout", "server.environment",
		"store.backend", "store.record_key",
		"db.host", "db.port", "db.user", "db.password", "db.name", "db.sslmode", "db.max_open", "db.max_idle",
		"sqlite.path",
		"redis.addr", "redis.password", "redis.db", "redis.key_prefix",
		"s3.region", "s3.bucket", "s3.endpoint", "s3.access_key", "s3.secret_key", "s3.presign_expiry",
		"log.level", "log.format",
		"cors.allowed_origins",
		"queue.item_delay", "queue.concurrency",
		"extractor.pdftotext_path", "extractor.timeout", "extractor.max_file_size_mb",
		"backup.enabled", "backup.schedule", "backup.prefix", "backup.keep",
		"ratelimit.rps", "ratelimit.burst",
		"parser.default_provider", "parser.default_model", "parser.timeout_secs",
	}
	for _, p := range []string{"primary", "secondary", "tertiary"} {
		for _, f := range []string{"provider", "api_key", "default_model", "timeout_secs", "temperature", "max_tokens"} {
			keys = append(keys, "parser."+p+"."+f)
		}
	}
	for _, key := range keys {
		_ = v.BindEnv(key, "ADOPT_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")))
	}
}

func providerConfig(v *viper.Viper, prefix string) ParserProviderConfig {
	return ParserProviderConfig{
		Provider:     v.GetString(prefix + ".provider"),
		APIKey:       v.GetString(prefix + ".api_key"),
		DefaultModel: v.GetString(prefix + ".default_model"),
		TimeoutSecs:  v.GetInt(prefix + ".timeout_secs"),
		Temperature:  v.GetFloat64(prefix + ".temperature"),
		MaxTokens:    v.GetInt(prefix + ".max_tokens"),
	}
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case StoreBackendSQLite, StoreBackendPostgres, StoreBackendRedis, StoreBackendMemory:
	default:
		return fmt.Errorf("unknown store backend: %q", c.Store.Backend)
	}
	if c.Queue.Concurrency < 1 {
		c.Queue.Concurrency = 1
	}
	if c.Queue.ItemDelay < 0 {
		return fmt.Errorf("queue.item_delay must not be negative")
	}
	if c.Backup.Enabled && !c.S3.Enabled() {
		return fmt.Errorf("backup.enabled requires s3.bucket")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}
