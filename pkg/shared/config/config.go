package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
)

type Config struct {
	App      App
	Mongo    Mongo
	Redis    Redis
	S3       S3
	SMS      SMS
	Cashfree Cashfree
	JWT      JWT
	Stock    Stock
}

type App struct {
	Name        string      `envconfig:"APP_NAME" default:"medstore-api"`
	Environment Environment `envconfig:"APP_ENV" default:"development"`
	ListenURL   string      `envconfig:"SERVER_LISTEN_URL" default:":3000"`
	SSLCertFile string      `envconfig:"SSL_CERT_FILE"`
	SSLKeyFile  string      `envconfig:"SSL_KEY_FILE"`
	PublicURL   string      `envconfig:"PUBLIC_BASE_URL" default:"http://localhost:3000"`
	FetchRows   int64       `envconfig:"DEFAULT_FETCH_ROWS" default:"200"`
	LogRequests bool        `envconfig:"LOG_REQUESTS" default:"true"`
}

type Mongo struct {
	Host     string `envconfig:"MONGO_SHAREDDB_HOST" default:"localhost"`
	Port     int    `envconfig:"MONGO_SHAREDDB_PORT" default:"27017"`
	Name     string `envconfig:"MONGO_SHAREDDB_NAME" default:"medstore"`
	User     string `envconfig:"MONGO_SHAREDDB_USER"`
	Password string `envconfig:"MONGO_SHAREDDB_PASSWORD"`
}

type Redis struct {
	Addr     string `envconfig:"REDIS_ADDR"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
	StoreTTL string `envconfig:"REDIS_STORE_TTL" default:"10m"`
}

type S3 struct {
	APIKey   string `envconfig:"S3_API_KEY"`
	Secret   string `envconfig:"S3_SECRET"`
	Endpoint string `envconfig:"S3_ENDPOINT"`
	Region   string `envconfig:"S3_REGION" default:"blr1"`
	Bucket   string `envconfig:"S3_BUCKET" default:"medstore"`
	// PublicURL prefixes uploaded object keys to form the shareable link.
	PublicURL string `envconfig:"S3_PUBLIC_URL"`
	Folder    string `envconfig:"PDF_FOLDER_PATH" default:"invoices"`
}

type SMS struct {
	// InvoiceURL is the gateway URL; "&to=" and "&message=" are appended.
	InvoiceURL string `envconfig:"SMS_INVOICE_URL"`
}

type Cashfree struct {
	APIVersion  string `envconfig:"CASHFREE_API_VERSION" default:"2022-01-01"`
	AppID       string `envconfig:"CASHFREE_APPID"`
	SecretKey   string `envconfig:"CASHFREE_SECRETKEY"`
	Environment string `envconfig:"CASHFREE_ENVIRONMENT" default:"SANDBOX"`
	ReturnURL   string `envconfig:"CASHFREE_RETURN_URL"`
	NotifyURL   string `envconfig:"CASHFREE_NOTIFY_URL"`
}

type JWT struct {
	Secret string `envconfig:"JWT_SECRET" default:"change-me"`
}

type Stock struct {
	ExpiryWindowDays int `envconfig:"EXPIRY_WINDOW_DAYS" default:"30"`
	LowStockAlert    int `envconfig:"LOW_STOCK_ALERT" default:"5"`
}

var current *Config

// Load reads an optional .env file and then the process environment.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	cfg.App.Environment = Environment(strings.ToLower(string(cfg.App.Environment)))
	current = &cfg
	return current, nil
}

// Get returns the loaded config, or the defaults when Load was never called.
func Get() *Config {
	if current == nil {
		var cfg Config
		_ = envconfig.Process("", &cfg)
		current = &cfg
	}
	return current
}

// Set replaces the active config. Used by tests.
func Set(cfg *Config) {
	current = cfg
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == Production
}
