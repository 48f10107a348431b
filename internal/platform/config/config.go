package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName  string   `env:"SERVICE_NAME" envDefault:"bazaar"`
	HTTPPort     string   `env:"HTTP_PORT" envDefault:"8080"`
	PostgresDSN  string   `env:"POSTGRES_DSN"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092"`

	// FeeAccount collects the marketplace cut of every sale. FeePercent is a
	// whole-number percentage applied on top of the seller's asking price.
	FeeAccount string `env:"MARKET_FEE_ACCOUNT" envDefault:"marketplace-treasury"`
	FeePercent int64  `env:"MARKET_FEE_PERCENT" envDefault:"1"`

	// EscrowAccount holds custody of listed tokens until they sell.
	EscrowAccount string `env:"MARKET_ESCROW_ACCOUNT" envDefault:"marketplace"`

	// RefundOverpayment returns payment above the fee-inclusive total to the
	// buyer instead of keeping it as additional fee.
	RefundOverpayment bool `env:"MARKET_REFUND_OVERPAYMENT" envDefault:"false"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.FeePercent < 0 || cfg.FeePercent > 100 {
		return Config{}, fmt.Errorf("MARKET_FEE_PERCENT must be between 0 and 100, got %d", cfg.FeePercent)
	}
	return cfg, nil
}
