package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"devcart/product-outbox-relay/log"

	"github.com/alexflint/go-arg"
)

const (
	MySQL    DbDriver = "mysql"
	Postgres DbDriver = "postgres"
)

type DbDriver string

var supportedDbTypes = map[DbDriver]bool{
	Postgres: true,
	MySQL:    true,
}

type Config struct {
	SkipMigrations         bool     `arg:"--skip-migrations,env:SKIP_MIGRATIONS"`
	DBHost                 string   `arg:"--db-host,env:DB_HOST,required"`
	DBPort                 uint32   `arg:"--db-port,env:DB_PORT,required"`
	DBUser                 string   `arg:"--db-user,env:DB_USER,required"`
	DBPass                 string   `arg:"--db-pass,env:DB_PASS,required"`
	DBSchema               string   `arg:"--db-schema,env:DB_SCHEMA,required"`
	DBDriver               DbDriver `arg:"--db-driver,env:DB_DRIVER,required"`
	DBOutboxTable          string   `arg:"--db-outbox-table,env:DB_OUTBOX_TABLE"`
	KafkaHost              []string `arg:"--kafka-host,env:KAFKA_HOST,required"`
	BusTopic               string   `arg:"--bus-topic,env:BUS_TOPIC"`
	TLSEnable              bool     `arg:"--kafka-tls,env:TLS_ENABLE"`
	TLSSkipVerifyPeer      bool     `arg:"--kafka-tls-verify-peer,env:TLS_SKIP_VERIFY_PEER"`
	BatchSize              int      `arg:"--batch-size,env:BATCH_SIZE"`
	MaxRetries             int      `arg:"--max-retries,env:MAX_RETRIES"`
	RetryDelayMinutes      int      `arg:"--retry-delay-minutes,env:RETRY_DELAY_MINUTES"`
	PollIntervalMs         int      `arg:"--poll-interval-ms,env:POLL_INTERVAL_MS"`
	TickTimeoutMs          int      `arg:"--tick-timeout-ms,env:TICK_TIMEOUT_MS"`
	CleanupRetentionDays   int      `arg:"--cleanup-retention-days,env:CLEANUP_RETENTION_DAYS"`
	CleanupIntervalMinutes int      `arg:"--cleanup-interval-minutes,env:CLEANUP_INTERVAL_MINUTES"`
	FailedEventsThreshold  uint     `arg:"--failed-events-threshold,env:FAILED_EVENTS_THRESHOLD"`
	RunCleanup             bool     `arg:"--cleanup,env:RUN_CLEANUP"`
	SidecarProxyUrl        string   `arg:"--sidecar-proxy-url,env:SIDECAR_PROXY_URL"`
}

func NewConfig() (*Config, error) {
	c := &Config{
		DBOutboxTable:          "outbox_events",
		BusTopic:               "product-events",
		BatchSize:              50,
		MaxRetries:             3,
		RetryDelayMinutes:      5,
		PollIntervalMs:         10000,
		TickTimeoutMs:          60000,
		CleanupRetentionDays:   7,
		CleanupIntervalMinutes: 60,
		FailedEventsThreshold:  100,
	}
	arg.MustParse(c)

	if !supportedDbTypes[c.DBDriver] {
		return nil, fmt.Errorf("the DB_DRIVER provided (%s) is not supported", c.DBDriver)
	}

	return c, nil
}

func (c *Config) GetPollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

func (c *Config) GetTickTimeout() time.Duration {
	return time.Duration(c.TickTimeoutMs) * time.Millisecond
}

func (c *Config) GetRetryDelay() time.Duration {
	return time.Duration(c.RetryDelayMinutes) * time.Minute
}

func (c *Config) GetCleanupInterval() time.Duration {
	return time.Duration(c.CleanupIntervalMinutes) * time.Minute
}

func (c *Config) GetRetentionPeriod() time.Duration {
	return time.Duration(c.CleanupRetentionDays) * time.Hour * 24
}

func (c *Config) GetDSN() string {
	switch c.DBDriver {
	case MySQL:
		tls := "false"
		if c.TLSEnable {
			if c.TLSSkipVerifyPeer {
				tls = "skip-verify"
			} else {
				tls = "true"
			}
		}
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&tls=%s&multiStatements=true", c.DBUser, c.DBPass, c.DBHost, c.DBPort, c.DBSchema, tls)
	case Postgres:
		sslMode := "disable"
		if c.TLSEnable {
			if c.TLSSkipVerifyPeer {
				sslMode = "require"
			} else {
				sslMode = "verify-full"
			}
		}
		return fmt.Sprintf("%s://%s@%s:%d/%s?sslmode=%s", c.DBDriver, url.UserPassword(c.DBUser, c.DBPass), c.DBHost, c.DBPort, c.DBSchema, sslMode)
	default:
		log.Logger.Fatalf("the DB driver configured (%s) is not supported", c.DBDriver)
		return ""
	}
}

func (c *Config) GetDependencySystemAddresses() []string {
	return c.KafkaHost
}

func (c Config) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"SkipMigrations":         c.SkipMigrations,
		"DBHost":                 c.DBHost,
		"DBPort":                 c.DBPort,
		"DBUser":                 c.DBUser,
		"DBPass":                 "xxxxx",
		"DBSchema":               c.DBSchema,
		"DBDriver":               c.DBDriver,
		"DBOutboxTable":          c.DBOutboxTable,
		"KafkaHost":              c.KafkaHost,
		"BusTopic":               c.BusTopic,
		"TLSEnable":              c.TLSEnable,
		"TLSSkipVerifyPeer":      c.TLSSkipVerifyPeer,
		"BatchSize":              c.BatchSize,
		"MaxRetries":             c.MaxRetries,
		"RetryDelayMinutes":      c.RetryDelayMinutes,
		"PollIntervalMs":         c.PollIntervalMs,
		"TickTimeoutMs":          c.TickTimeoutMs,
		"CleanupRetentionDays":   c.CleanupRetentionDays,
		"CleanupIntervalMinutes": c.CleanupIntervalMinutes,
		"FailedEventsThreshold":  c.FailedEventsThreshold,
		"RunCleanup":             c.RunCleanup,
		"SidecarProxyUrl":        c.SidecarProxyUrl,
	})
}

func (d DbDriver) MySQL() bool {
	return d == MySQL
}

func (d DbDriver) Postgres() bool {
	return d == Postgres
}

func (d DbDriver) String() string {
	return string(d)
}
