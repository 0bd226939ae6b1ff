package cfg

import (
	"cmp"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

const sinceLayout = "2006-01-02"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Storage configuration
	DatabaseURL string `long:"database-url" env:"DATABASE_URL" default:"./news.db" description:"Backing store: sqlite file path or postgres:// URL"`

	// Ingestion configuration
	SourcesFile  string `long:"sources" env:"SOURCES_FILE" default:"./sources.yml" description:"YAML file with the feed registry"`
	WorkerCount  int    `long:"worker-count" env:"WORKER_COUNT" default:"10" description:"Maximum number of sources fetched in parallel"`
	LookbackDays int    `long:"lookback-days" env:"LOOKBACK_DAYS" default:"2" description:"Keep entries published within this many days"`
	Since        string `long:"since" env:"SINCE" description:"Keep entries published since this date (YYYY-MM-DD), overrides lookback-days"`

	// Server configuration
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseUrl      string `long:"base-url" env:"BASE_URL" description:"Public base URL for the service (e.g., https://news.example.com)"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`
	Schedule     string `long:"schedule" env:"SCHEDULE" description:"Cron expression for ingestion runs in server mode (optional)"`
	RedisAddr    string `long:"redis-addr" env:"REDIS_ADDR" description:"Redis address for caching rendered feeds (optional)"`
	FeedCacheTTL int    `long:"feed-cache-ttl" env:"FEED_CACHE_TTL" default:"300" description:"Seconds a rendered feed stays cached"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"NewsPulse/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for stored dates and times (e.g., UTC, Asia/Kolkata)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

// Load parses flags and environment. It returns nil, nil when help was requested.
func Load() (*Cfg, error) {
	return LoadArgs(nil)
}

// LoadArgs is Load with explicit arguments; nil means os.Args.
func LoadArgs(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	var err error
	if args == nil {
		_, err = parser.Parse()
	} else {
		_, err = parser.ParseArgs(args)
	}
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DatabaseURL:  raw.DatabaseURL,
		SourcesFile:  raw.SourcesFile,
		WorkerCount:  raw.WorkerCount,
		LookbackDays: raw.LookbackDays,
		Since:        raw.Since,
		Port:         raw.Port,
		BaseUrl:      raw.BaseUrl,
		APIAccessKey: raw.APIAccessKey,
		Schedule:     raw.Schedule,
		RedisAddr:    raw.RedisAddr,
		FeedCacheTTL: raw.FeedCacheTTL,
		UserAgent:    raw.UserAgent,
		Timezone:     raw.Timezone,
		Debug:        raw.Debug,
		Version:      GetVersion(),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	return cfg, nil
}

func (c *Cfg) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("database URL is required")
	}
	if c.WorkerCount <= 0 {
		return fmt.Errorf("worker count must be positive, got %d", c.WorkerCount)
	}
	if c.LookbackDays < 0 {
		return fmt.Errorf("lookback days must be non-negative, got %d", c.LookbackDays)
	}
	if c.FeedCacheTTL < 0 {
		return fmt.Errorf("feed cache TTL must be non-negative, got %d", c.FeedCacheTTL)
	}
	if c.Since != "" {
		if _, err := time.Parse(sinceLayout, c.Since); err != nil {
			return fmt.Errorf("invalid since date %q: %w", c.Since, err)
		}
	}
	return nil
}

// EffectiveLookbackDays resolves Since into a day count relative to now.
// A fixed start date yields the number of whole days elapsed plus one.
func (c *Cfg) EffectiveLookbackDays(now time.Time) int {
	if c.Since == "" {
		return c.LookbackDays
	}
	start, err := time.ParseInLocation(sinceLayout, c.Since, now.Location())
	if err != nil {
		return c.LookbackDays
	}
	days := int(math.Floor(now.Sub(start).Hours()/24)) + 1
	if days < 0 {
		return 0
	}
	return days
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}

// PublicBaseURL is the configured base URL or the local server address.
func (c *Cfg) PublicBaseURL() string {
	if c.BaseUrl != "" {
		return strings.TrimRight(c.BaseUrl, "/")
	}
	return fmt.Sprintf("http://localhost:%s", c.Port)
}

// NewLogger logs to stderr so stdout carries only the run summary.
func (c *Cfg) NewLogger() *slog.Logger {
	level := slog.LevelInfo
	if c.Debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
