package pgdriver

import (
	"context"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tinywasm/fmt"
)

// EnvDatabaseURL is read by DefaultConfig for the connection string.
const EnvDatabaseURL = "BITORM_DATABASE_URL"

// Config configures NewPool.
type Config struct {
	// DSN is a libpq connection string or postgres:// URL.
	DSN string
	// MaxConns caps the pool size; 0 keeps the pgxpool default.
	MaxConns int32
	// Log receives registration messages. Nil discards them.
	Log func(messages ...any)
}

// Option modifies a Config.
type Option func(*Config)

// WithDSN sets the connection string.
func WithDSN(dsn string) Option {
	return func(c *Config) { c.DSN = dsn }
}

// WithMaxConns sets the pool size cap.
func WithMaxConns(n int32) Option {
	return func(c *Config) { c.MaxConns = n }
}

// WithLog sets the log function.
func WithLog(fn func(messages ...any)) Option {
	return func(c *Config) { c.Log = fn }
}

// DefaultConfig returns a Config whose DSN comes from $BITORM_DATABASE_URL,
// with opts applied on top.
func DefaultConfig(opts ...Option) Config {
	c := Config{DSN: os.Getenv(EnvDatabaseURL)}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func (c Config) log(messages ...any) {
	if c.Log != nil {
		c.Log(messages...)
	}
}

// PoolConfig parses the DSN and installs the bit string registration hook,
// keeping any AfterConnect hook already present in the DSN-derived config.
func (c Config) PoolConfig() (*pgxpool.Config, error) {
	if c.DSN == "" {
		return nil, fmt.Err("pgdriver: empty DSN, set", EnvDatabaseURL)
	}
	pcfg, err := pgxpool.ParseConfig(c.DSN)
	if err != nil {
		return nil, fmt.Err(err, "pgdriver: parse DSN")
	}
	if c.MaxConns > 0 {
		pcfg.MaxConns = c.MaxConns
	}

	prev := pcfg.AfterConnect
	pcfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		if prev != nil {
			if err := prev(ctx, conn); err != nil {
				return err
			}
		}
		reg, err := Register(ctx, conn)
		if err != nil {
			c.log("pgdriver: bit string registration failed:", err)
			return err
		}
		c.log("pgdriver: registered bit string types", "bit", reg.BitOID, "varbit", reg.VarbitOID)
		return nil
	}
	return pcfg, nil
}

// NewPool opens a pgx pool whose connections are registered on connect.
func NewPool(ctx context.Context, opts ...Option) (*pgxpool.Pool, error) {
	pcfg, err := DefaultConfig(opts...).PoolConfig()
	if err != nil {
		return nil, err
	}
	return pgxpool.NewWithConfig(ctx, pcfg)
}
