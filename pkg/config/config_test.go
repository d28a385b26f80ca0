package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.App.Port != "8080" {
		t.Errorf("Port = %s, want 8080", cfg.App.Port)
	}
	if cfg.JWT.AccessExpire != 2*time.Hour {
		t.Errorf("AccessExpire = %v, want 2h", cfg.JWT.AccessExpire)
	}
	if cfg.Checkout.CartTTL != 7*24*time.Hour {
		t.Errorf("CartTTL = %v, want 168h", cfg.Checkout.CartTTL)
	}
	if cfg.AliExpress.SignMethod != "sha256" {
		t.Errorf("SignMethod = %s, want sha256", cfg.AliExpress.SignMethod)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("CHECKOUT_SHIPPING_FEE", "990")
	t.Setenv("ALIEXPRESS_SIGN_METHOD", "md5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Checkout.ShippingFee != 990 {
		t.Errorf("ShippingFee = %d, want 990", cfg.Checkout.ShippingFee)
	}
	if cfg.AliExpress.SignMethod != "md5" {
		t.Errorf("SignMethod = %s, want md5", cfg.AliExpress.SignMethod)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"ok", func(c *Config) {}, false},
		{"prod default secret", func(c *Config) { c.App.Env = "production" }, true},
		{"bad storage", func(c *Config) { c.Storage.Provider = "ftp" }, true},
		{"bad sign", func(c *Config) { c.AliExpress.SignMethod = "rsa" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{
				App:        AppConfig{Env: "development"},
				JWT:        JWTConfig{Secret: "change-me-in-production"},
				Storage:    StorageConfig{Provider: "local"},
				AliExpress: AliExpressConfig{SignMethod: "sha256"},
			}
			tt.mutate(c)
			if err := c.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
