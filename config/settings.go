package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const (
	CatalogBackendMemory = "memory"
	CatalogBackendMySQL  = "mysql"

	StockLockLocal = "local"
	StockLockRedis = "redis"
)

// Settings holds the POS runtime configuration read from the environment.
type Settings struct {
	DefaultTaxPercent decimal.Decimal
	PhoneRegion       string
	CatalogBackend    string
	StockLock         string
	StockLockTTL      time.Duration
	SaleTopic         string
}

func init() {
	// Load env from .env
	godotenv.Load()
}

// LoadSettings reads:
// - POS_DEFAULT_TAX_PERCENT (default 18)
// - POS_PHONE_REGION (default IN)
// - POS_CATALOG_BACKEND (memory|mysql, default memory)
// - POS_STOCK_LOCK (local|redis, default local)
// - STOCK_LOCK_TTL_SECONDS (default 10)
// - PUBSUB_SALE_TOPIC (empty disables publishing)
func LoadSettings() Settings {
	s := Settings{
		DefaultTaxPercent: decimal.NewFromInt(18),
		PhoneRegion:       "IN",
		CatalogBackend:    CatalogBackendMemory,
		StockLock:         StockLockLocal,
		StockLockTTL:      time.Duration(intFromEnv("STOCK_LOCK_TTL_SECONDS", 10)) * time.Second,
		SaleTopic:         strings.TrimSpace(os.Getenv("PUBSUB_SALE_TOPIC")),
	}

	if v := strings.TrimSpace(os.Getenv("POS_DEFAULT_TAX_PERCENT")); v != "" {
		if d, err := decimal.NewFromString(v); err == nil && !d.IsNegative() {
			s.DefaultTaxPercent = d
		} else {
			logg.WithField("value", v).Warn("invalid POS_DEFAULT_TAX_PERCENT; using 18")
		}
	}
	if v := strings.ToUpper(strings.TrimSpace(os.Getenv("POS_PHONE_REGION"))); v != "" {
		s.PhoneRegion = v
	}
	switch v := strings.ToLower(strings.TrimSpace(os.Getenv("POS_CATALOG_BACKEND"))); v {
	case CatalogBackendMySQL:
		s.CatalogBackend = v
	case "", CatalogBackendMemory:
	default:
		logg.WithField("value", v).Warn("unknown POS_CATALOG_BACKEND; using memory")
	}
	switch v := strings.ToLower(strings.TrimSpace(os.Getenv("POS_STOCK_LOCK"))); v {
	case StockLockRedis:
		s.StockLock = v
	case "", StockLockLocal:
	default:
		logg.WithField("value", v).Warn("unknown POS_STOCK_LOCK; using local")
	}
	if s.StockLockTTL <= 0 {
		s.StockLockTTL = 10 * time.Second
	}
	return s
}
