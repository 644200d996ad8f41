// Package config loads the process-wide CoreConfig once at startup.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/finopsguard/finopsguard/internal/logging"
)

// CoreConfig is the immutable configuration for the FinOpsGuard core. It is
// read once at process start (Load) and never re-read; callers that need a
// different value construct a new CoreConfig rather than mutating this one.
type CoreConfig struct {
	// DefaultCurrency is used when a request does not name one.
	DefaultCurrency string

	// Pricing controls live-vs-static resolution.
	Pricing PricingConfig

	// Cache controls the analysis cache.
	Cache CacheConfig

	// Store selects and configures the analysis store.
	Store StoreConfig

	// Logging is passed straight through to internal/logging.Initialize.
	Logging logging.Config
}

// PricingConfig covers the live-vs-static resolution toggles and the
// bounds on live lookups.
type PricingConfig struct {
	// AWSPricingEnabled gates whether the AWS live pricing adapter runs at
	// all.
	AWSPricingEnabled bool

	// GCPPricingEnabled gates the GCP billing catalog adapter.
	GCPPricingEnabled bool

	// GCPPricingAPIKey authenticates GCP billing catalog lookups; without
	// one the GCP adapter can never succeed and always falls back.
	GCPPricingAPIKey string

	// AzurePricingEnabled gates the Azure retail prices adapter.
	AzurePricingEnabled bool

	// LivePricingEnabled is the master switch for every live adapter; when
	// false, the factory resolves only from the static catalog regardless
	// of AWSPricingEnabled.
	LivePricingEnabled bool

	// FallbackToStatic controls what happens when a live lookup fails or
	// times out: true degrades to the static catalog with reduced
	// confidence, false surfaces a pricing_unavailable error.
	FallbackToStatic bool

	// Concurrency bounds how many live pricing lookups may be in flight at
	// once for a single CheckCostImpact call.
	Concurrency int

	// RequestTimeout bounds a single live pricing adapter call.
	RequestTimeout time.Duration

	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int

	// RetryBaseDelay is the base of the exponential backoff (doubled per
	// retry, then jittered).
	RetryBaseDelay time.Duration
}

// CacheConfig covers the analysis cache.
type CacheConfig struct {
	// Enabled turns the cache on. When false, CheckCostImpact always
	// recomputes.
	Enabled bool

	// TTL is how long a cached CostResult is served before recomputation.
	TTL time.Duration

	// SweepInterval is how often the background sweep evicts expired
	// entries, independent of lazy eviction on read.
	SweepInterval time.Duration
}

// StoreConfig selects the analysis store backend.
type StoreConfig struct {
	// Driver is "memory" or "postgres".
	Driver string

	// DSN is the lib/pq connection string when Driver is "postgres".
	DSN string
}

// Default returns the built-in configuration used when no environment
// overrides are present.
func Default() *CoreConfig {
	return &CoreConfig{
		DefaultCurrency: "USD",
		Pricing: PricingConfig{
			AWSPricingEnabled:   true,
			GCPPricingEnabled:   true,
			AzurePricingEnabled: true,
			LivePricingEnabled:  false,
			FallbackToStatic:    true,
			Concurrency:         8,
			RequestTimeout:      5 * time.Second,
			MaxRetries:          2,
			RetryBaseDelay:      100 * time.Millisecond,
		},
		Cache: CacheConfig{
			Enabled:       true,
			TTL:           15 * time.Minute,
			SweepInterval: time.Minute,
		},
		Store: StoreConfig{
			Driver: "memory",
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load builds a CoreConfig from Default() overridden by environment
// variables. It is intended to be called exactly once, at process start.
func Load() *CoreConfig {
	cfg := Default()

	if v, ok := os.LookupEnv("DEFAULT_CURRENCY"); ok && v != "" {
		cfg.DefaultCurrency = strings.ToUpper(v)
	}
	if v, ok := boolEnv("AWS_PRICING_ENABLED"); ok {
		cfg.Pricing.AWSPricingEnabled = v
	}
	if v, ok := boolEnv("GCP_PRICING_ENABLED"); ok {
		cfg.Pricing.GCPPricingEnabled = v
	}
	if v, ok := os.LookupEnv("GCP_PRICING_API_KEY"); ok && v != "" {
		cfg.Pricing.GCPPricingAPIKey = v
	}
	if v, ok := boolEnv("AZURE_PRICING_ENABLED"); ok {
		cfg.Pricing.AzurePricingEnabled = v
	}
	if v, ok := boolEnv("LIVE_PRICING_ENABLED"); ok {
		cfg.Pricing.LivePricingEnabled = v
	}
	if v, ok := boolEnv("PRICING_FALLBACK_TO_STATIC"); ok {
		cfg.Pricing.FallbackToStatic = v
	}
	if v, ok := intEnv("PRICING_CONCURRENCY"); ok {
		cfg.Pricing.Concurrency = v
	}
	if v, ok := durationEnv("PRICING_REQUEST_TIMEOUT"); ok {
		cfg.Pricing.RequestTimeout = v
	}
	if v, ok := intEnv("PRICING_MAX_RETRIES"); ok {
		cfg.Pricing.MaxRetries = v
	}
	if v, ok := boolEnv("CACHE_ENABLED"); ok {
		cfg.Cache.Enabled = v
	}
	if v, ok := durationEnv("CACHE_TTL"); ok {
		cfg.Cache.TTL = v
	}
	if v, ok := durationEnv("CACHE_SWEEP_INTERVAL"); ok {
		cfg.Cache.SweepInterval = v
	}
	if v, ok := os.LookupEnv("ANALYSIS_STORE_DRIVER"); ok && v != "" {
		cfg.Store.Driver = v
	}
	if v, ok := os.LookupEnv("ANALYSIS_STORE_DSN"); ok && v != "" {
		cfg.Store.DSN = v
	}
	if v, ok := os.LookupEnv("LOG_LEVEL"); ok && v != "" {
		cfg.Logging.Level = v
	}
	if v, ok := os.LookupEnv("LOG_FORMAT"); ok && v != "" {
		cfg.Logging.Format = v
	}

	return cfg
}

func boolEnv(name string) (bool, bool) {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}

func intEnv(name string) (int, bool) {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func durationEnv(name string) (time.Duration, bool) {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return 0, false
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, false
	}
	return d, true
}

// Global configuration instance, set once by cmd/finopsguard at startup.
var global = Default()

// Get returns the process-wide CoreConfig.
func Get() *CoreConfig {
	return global
}

// Set installs cfg as the process-wide CoreConfig. Intended to be called
// once, before any component reads Get().
func Set(cfg *CoreConfig) {
	global = cfg
}
