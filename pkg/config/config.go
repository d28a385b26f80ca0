package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 全局配置
type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	NATS       NATSConfig
	JWT        JWTConfig
	Storage    StorageConfig
	AI         AIConfig
	AliExpress AliExpressConfig
	Stripe     StripeConfig
	Checkout   CheckoutConfig
}

type AppConfig struct {
	Env     string
	Port    string
	BaseURL string // 对外访问地址，用于回调
}

type DatabaseConfig struct {
	DSN          string
	MaxIdleConns int
	MaxOpenConns int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type NATSConfig struct {
	URL           string
	SubjectPrefix string
}

type JWTConfig struct {
	Secret        string
	AccessExpire  time.Duration
	RefreshExpire time.Duration
	Issuer        string
}

type StorageConfig struct {
	Provider  string // s3 / local
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	PublicURL string // CDN 或公开访问前缀
	LocalDir  string
}

type AIConfig struct {
	Provider     string // openai / gemini / static
	APIKey       string
	BaseURL      string
	Model        string
	HistoryLimit int
}

type AliExpressConfig struct {
	AppKey      string
	AppSecret   string
	BaseURL     string
	AuthURL     string
	CallbackURL string
	SignMethod  string // sha256 / md5

	// 导入默认值
	ShipToCountry    string
	TargetLanguage   string
	DefaultMarkupBps int64
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
}

type CheckoutConfig struct {
	ShippingFee       int64 // 分
	FreeShippingFrom  int64 // 分，0 表示不包邮
	TaxBps            int64 // 万分比
	CartTTL           time.Duration
	DefaultCurrency   string
	LowStockThreshold int
}

// Load 读取 .env 与环境变量
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Env:     v.GetString("APP_ENV"),
			Port:    v.GetString("PORT"),
			BaseURL: v.GetString("APP_BASE_URL"),
		},
		Database: DatabaseConfig{
			DSN:          v.GetString("DB_DSN"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		NATS: NATSConfig{
			URL:           v.GetString("NATS_URL"),
			SubjectPrefix: v.GetString("NATS_SUBJECT_PREFIX"),
		},
		JWT: JWTConfig{
			Secret:        v.GetString("JWT_SECRET"),
			AccessExpire:  v.GetDuration("JWT_ACCESS_EXPIRE"),
			RefreshExpire: v.GetDuration("JWT_REFRESH_EXPIRE"),
			Issuer:        v.GetString("JWT_ISSUER"),
		},
		Storage: StorageConfig{
			Provider:  v.GetString("STORAGE_PROVIDER"),
			Bucket:    v.GetString("STORAGE_BUCKET"),
			Region:    v.GetString("STORAGE_REGION"),
			Endpoint:  v.GetString("STORAGE_ENDPOINT"),
			AccessKey: v.GetString("STORAGE_ACCESS_KEY"),
			SecretKey: v.GetString("STORAGE_SECRET_KEY"),
			PublicURL: v.GetString("STORAGE_PUBLIC_URL"),
			LocalDir:  v.GetString("STORAGE_LOCAL_DIR"),
		},
		AI: AIConfig{
			Provider:     v.GetString("AI_PROVIDER"),
			APIKey:       v.GetString("AI_API_KEY"),
			BaseURL:      v.GetString("AI_BASE_URL"),
			Model:        v.GetString("AI_MODEL"),
			HistoryLimit: v.GetInt("AI_HISTORY_LIMIT"),
		},
		AliExpress: AliExpressConfig{
			AppKey:      v.GetString("ALIEXPRESS_APP_KEY"),
			AppSecret:   v.GetString("ALIEXPRESS_APP_SECRET"),
			BaseURL:     v.GetString("ALIEXPRESS_BASE_URL"),
			AuthURL:     v.GetString("ALIEXPRESS_AUTH_URL"),
			CallbackURL: v.GetString("ALIEXPRESS_CALLBACK_URL"),
			SignMethod:  v.GetString("ALIEXPRESS_SIGN_METHOD"),

			ShipToCountry:    v.GetString("ALIEXPRESS_SHIP_TO"),
			TargetLanguage:   v.GetString("ALIEXPRESS_LANGUAGE"),
			DefaultMarkupBps: v.GetInt64("ALIEXPRESS_MARKUP_BPS"),
		},
		Stripe: StripeConfig{
			SecretKey:     v.GetString("STRIPE_SECRET_KEY"),
			WebhookSecret: v.GetString("STRIPE_WEBHOOK_SECRET"),
		},
		Checkout: CheckoutConfig{
			ShippingFee:       v.GetInt64("CHECKOUT_SHIPPING_FEE"),
			FreeShippingFrom:  v.GetInt64("CHECKOUT_FREE_SHIPPING_FROM"),
			TaxBps:            v.GetInt64("CHECKOUT_TAX_BPS"),
			CartTTL:           v.GetDuration("CHECKOUT_CART_TTL"),
			DefaultCurrency:   v.GetString("CHECKOUT_DEFAULT_CURRENCY"),
			LowStockThreshold: v.GetInt("CHECKOUT_LOW_STOCK_THRESHOLD"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_BASE_URL", "http://localhost:8080")
	v.SetDefault("DB_DSN", "host=localhost user=postgres password=postgres dbname=laboutique port=5432 sslmode=disable TimeZone=UTC")
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("NATS_SUBJECT_PREFIX", "laboutique")
	v.SetDefault("JWT_SECRET", "change-me-in-production")
	v.SetDefault("JWT_ACCESS_EXPIRE", "2h")
	v.SetDefault("JWT_REFRESH_EXPIRE", "168h")
	v.SetDefault("JWT_ISSUER", "laboutique")
	v.SetDefault("STORAGE_PROVIDER", "local")
	v.SetDefault("STORAGE_REGION", "auto")
	v.SetDefault("STORAGE_LOCAL_DIR", "./data/uploads")
	v.SetDefault("AI_PROVIDER", "openai")
	v.SetDefault("AI_MODEL", "gpt-4o-mini")
	v.SetDefault("AI_HISTORY_LIMIT", 20)
	v.SetDefault("ALIEXPRESS_BASE_URL", "https://api-sg.aliexpress.com")
	v.SetDefault("ALIEXPRESS_AUTH_URL", "https://api-sg.aliexpress.com/oauth/authorize")
	v.SetDefault("ALIEXPRESS_SIGN_METHOD", "sha256")
	v.SetDefault("ALIEXPRESS_SHIP_TO", "FR")
	v.SetDefault("ALIEXPRESS_LANGUAGE", "FR")
	v.SetDefault("ALIEXPRESS_MARKUP_BPS", 5000)
	v.SetDefault("CHECKOUT_SHIPPING_FEE", 500)
	v.SetDefault("CHECKOUT_FREE_SHIPPING_FROM", 5000)
	v.SetDefault("CHECKOUT_TAX_BPS", 0)
	v.SetDefault("CHECKOUT_CART_TTL", "168h")
	v.SetDefault("CHECKOUT_DEFAULT_CURRENCY", "USD")
	v.SetDefault("CHECKOUT_LOW_STOCK_THRESHOLD", 5)
}

// Validate 校验必填项
func (c *Config) Validate() error {
	if c.App.Env == "production" && c.JWT.Secret == "change-me-in-production" {
		return fmt.Errorf("生产环境必须设置 JWT_SECRET")
	}
	switch c.Storage.Provider {
	case "local", "s3":
	default:
		return fmt.Errorf("不支持的存储类型: %s", c.Storage.Provider)
	}
	switch c.AliExpress.SignMethod {
	case "sha256", "md5":
	default:
		return fmt.Errorf("不支持的签名方式: %s", c.AliExpress.SignMethod)
	}
	return nil
}

// IsProduction 是否生产环境
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
