package preference

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kbukum/extkit/component"
	apperrors "github.com/kbukum/extkit/errors"
	"github.com/kbukum/extkit/logger"
	"github.com/kbukum/extkit/resilience"
	"github.com/kbukum/extkit/security"
)

// RedisConfig configures the Redis-backed store.
type RedisConfig struct {
	Addr     string `mapstructure:"addr" validate:"required,hostname_port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"gte=0"`
	// Prefix is prepended to every key, separated by a colon.
	Prefix string `mapstructure:"prefix"`
	// Timeout bounds each call (e.g. "2s").
	Timeout string `mapstructure:"timeout"`
	// ConnectAttempts is how often Start pings before giving up.
	ConnectAttempts int                `mapstructure:"connect_attempts" validate:"gte=0"`
	TLS             security.TLSConfig `mapstructure:"tls"`
}

// ApplyDefaults sets defaults for zero-valued fields.
func (c *RedisConfig) ApplyDefaults() {
	if c.Addr == "" {
		c.Addr = "localhost:6379"
	}
	if c.Prefix == "" {
		c.Prefix = "extkit"
	}
	if c.Timeout == "" {
		c.Timeout = "2s"
	}
	if c.ConnectAttempts == 0 {
		c.ConnectAttempts = 3
	}
}

// Validate checks the configuration.
func (c *RedisConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("redis addr is required")
	}
	if c.DB < 0 {
		return fmt.Errorf("redis db must be >= 0")
	}
	if c.ConnectAttempts < 0 {
		return fmt.Errorf("redis connect_attempts must be >= 0")
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid redis timeout %q: %w", c.Timeout, err)
	}
	return c.TLS.Validate()
}

// Redis is a Store backed by Redis strings. It implements
// component.Component so it can be started and health-checked with the
// other infrastructure.
type Redis struct {
	rdb     *goredis.Client
	prefix  string
	timeout time.Duration
	connect resilience.RetryConfig
	log     *logger.Logger
}

// RedisOption configures a Redis store.
type RedisOption func(*Redis)

// WithConnectRetry sets how Start retries the initial ping.
func WithConnectRetry(cfg resilience.RetryConfig) RedisOption {
	return func(r *Redis) { r.connect = cfg }
}

// NewRedis creates a store from cfg. The connection is verified by Start.
func NewRedis(cfg RedisConfig, log *logger.Logger) (*Redis, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("redis preferences config: %w", err)
	}
	timeout, _ := time.ParseDuration(cfg.Timeout)
	host, _, _ := net.SplitHostPort(cfg.Addr)
	tlsCfg, err := cfg.TLS.ClientConfig(host)
	if err != nil {
		return nil, fmt.Errorf("redis preferences config: %w", err)
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:      cfg.Addr,
		Password:  cfg.Password,
		DB:        cfg.DB,
		TLSConfig: tlsCfg,
	})
	retry := resilience.DefaultRetryConfig()
	retry.MaxAttempts = cfg.ConnectAttempts
	return NewRedisFromClient(rdb, cfg.Prefix, timeout, log, WithConnectRetry(retry)), nil
}

// NewRedisFromClient wraps an existing client.
func NewRedisFromClient(rdb *goredis.Client, prefix string, timeout time.Duration, log *logger.Logger, opts ...RedisOption) *Redis {
	if log == nil {
		log = logger.Get("preference")
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	r := &Redis{
		rdb:     rdb,
		prefix:  prefix,
		timeout: timeout,
		connect: resilience.DefaultRetryConfig(),
		log:     log.WithComponent("redis"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Redis) fullKey(key string) string {
	if r.prefix == "" {
		return key
	}
	return r.prefix + ":" + key
}

func (r *Redis) GetString(key string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	v, err := r.rdb.Get(ctx, r.fullKey(key)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", apperrors.PersistenceFailed("get", key, err)
	}
	return v, nil
}

func (r *Redis) SetString(key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.rdb.Set(ctx, r.fullKey(key), value, 0).Err(); err != nil {
		return apperrors.PersistenceFailed("set", key, err)
	}
	return nil
}

// Name returns the component name.
func (r *Redis) Name() string { return "preferences-redis" }

// Start verifies connectivity, retrying while the server comes up.
func (r *Redis) Start(ctx context.Context) error {
	retry := r.connect
	retry.OnRetry = func(attempt int, err error, backoff time.Duration) {
		r.log.Warn("redis preference store not reachable, retrying", logger.MergeWithError(logger.Fields(
			"attempt", attempt,
			"backoff", backoff.String(),
		), err))
	}
	if retry.RetryIf == nil {
		retry.RetryIf = pingRetryable(ctx)
	}
	err := resilience.Do(ctx, retry, func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()
		return r.rdb.Ping(pingCtx).Err()
	})
	if err != nil {
		return fmt.Errorf("redis preferences ping: %w", err)
	}
	r.log.Info("redis preference store started", logger.Fields("addr", r.rdb.Options().Addr))
	return nil
}

// pingRetryable retries a ping that ran into its own timeout as long as the
// caller's ctx is still alive.
func pingRetryable(ctx context.Context) func(error) bool {
	return func(err error) bool {
		if ctx.Err() != nil {
			return false
		}
		return errors.Is(err, context.DeadlineExceeded) || resilience.Retryable(err)
	}
}

// Stop closes the client.
func (r *Redis) Stop(_ context.Context) error {
	return r.rdb.Close()
}

// Health pings the server.
func (r *Redis) Health(ctx context.Context) component.Health {
	if err := r.rdb.Ping(ctx).Err(); err != nil {
		return component.Health{Name: r.Name(), Status: component.StatusUnhealthy, Message: err.Error()}
	}
	return component.Health{Name: r.Name(), Status: component.StatusHealthy}
}

var (
	_ Store               = (*Redis)(nil)
	_ component.Component = (*Redis)(nil)
)
