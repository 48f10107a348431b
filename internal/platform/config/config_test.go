package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ServiceName != "bazaar" {
		t.Fatalf("service name = %q", cfg.ServiceName)
	}
	if cfg.HTTPPort != "8080" {
		t.Fatalf("http port = %q", cfg.HTTPPort)
	}
	if cfg.FeeAccount != "marketplace-treasury" {
		t.Fatalf("fee account = %q", cfg.FeeAccount)
	}
	if cfg.FeePercent != 1 {
		t.Fatalf("fee percent = %d", cfg.FeePercent)
	}
	if cfg.EscrowAccount != "marketplace" {
		t.Fatalf("escrow account = %q", cfg.EscrowAccount)
	}
	if cfg.RefundOverpayment {
		t.Fatalf("refund overpayment should default to false")
	}
	if len(cfg.KafkaBrokers) != 1 || cfg.KafkaBrokers[0] != "localhost:9092" {
		t.Fatalf("kafka brokers = %v", cfg.KafkaBrokers)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVICE_NAME", "bazaar-staging")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("KAFKA_BROKERS", "broker-a:9092,broker-b:9092")
	t.Setenv("MARKET_FEE_ACCOUNT", "treasury-2")
	t.Setenv("MARKET_FEE_PERCENT", "5")
	t.Setenv("MARKET_REFUND_OVERPAYMENT", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ServiceName != "bazaar-staging" {
		t.Fatalf("service name = %q", cfg.ServiceName)
	}
	if cfg.HTTPPort != "9090" {
		t.Fatalf("http port = %q", cfg.HTTPPort)
	}
	if len(cfg.KafkaBrokers) != 2 {
		t.Fatalf("kafka brokers = %v", cfg.KafkaBrokers)
	}
	if cfg.FeeAccount != "treasury-2" || cfg.FeePercent != 5 {
		t.Fatalf("fee config = %q/%d", cfg.FeeAccount, cfg.FeePercent)
	}
	if !cfg.RefundOverpayment {
		t.Fatalf("refund overpayment should be enabled")
	}
}

func TestLoadRejectsFeePercentOutOfRange(t *testing.T) {
	for _, value := range []string{"-1", "101"} {
		t.Setenv("MARKET_FEE_PERCENT", value)
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for MARKET_FEE_PERCENT=%s", value)
		}
	}
}
