package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultConfigPath = "config.yaml"

type HTTPServer struct {
	Port string `mapstructure:"port"`
}

type DbServer struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Pass     string `mapstructure:"pass"`
	Name     string `mapstructure:"name"`
	MaxConns int32  `mapstructure:"max_conns"`
}

func (config *DbServer) GetConnectionStr() string {
	return fmt.Sprintf(
		"user=%s password=%s host=%s port=%s dbname=%s sslmode=disable",
		config.User, config.Pass, config.Host, config.Port, config.Name,
	)
}

type HTTPClient struct {
	TimeoutSeconds     int `mapstructure:"timeout_seconds"`
	BulkTimeoutSeconds int `mapstructure:"bulk_timeout_seconds"`
}

type Bundesbank struct {
	BaseURL           string `mapstructure:"base_url"`
	CurrenciesPath    string `mapstructure:"currencies_path"`
	ExchangeRatesPath string `mapstructure:"exchange_rates_path"`
	DatasetURL        string `mapstructure:"dataset_url"`
	Language          string `mapstructure:"language"`
	DataAccept        string `mapstructure:"data_accept"`
	StructureAccept   string `mapstructure:"structure_accept"`
}

type Scheduler struct {
	RefreshCron      string `mapstructure:"refresh_cron"`
	Timezone         string `mapstructure:"timezone"`
	RefreshOnStartup bool   `mapstructure:"refresh_on_startup"`
}

type Refresh struct {
	BatchSize int `mapstructure:"batch_size"`
}

type Cache struct {
	MaxDates int64 `mapstructure:"max_dates"`
}

type Logging struct {
	Level string `mapstructure:"level"`
}

type AppConfig struct {
	HTTPServer HTTPServer `mapstructure:"http_server"`
	DbServer   DbServer   `mapstructure:"db_server"`
	HTTPClient HTTPClient `mapstructure:"http_client"`
	Bundesbank Bundesbank `mapstructure:"bundesbank"`
	Scheduler  Scheduler  `mapstructure:"scheduler"`
	Refresh    Refresh    `mapstructure:"refresh"`
	Cache      Cache      `mapstructure:"cache"`
	Logging    Logging    `mapstructure:"logging"`
}

// Init reads the YAML file named by CONFIG_PATH (config.yaml by default); env vars take precedence.
func Init() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}
	return Load(path)
}

func Load(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	setDefaults(v)
	bindEnv(v)

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http_server.port", "8080")
	v.SetDefault("db_server.max_conns", 10)
	v.SetDefault("http_client.timeout_seconds", 10)
	v.SetDefault("http_client.bulk_timeout_seconds", 300)
	v.SetDefault("bundesbank.base_url", "https://api.statistiken.bundesbank.de")
	v.SetDefault("bundesbank.dataset_url", "https://api.statistiken.bundesbank.de/rest/download/BBEX3/D..EUR.BB.AC.000?format=csv&lang=en")
	v.SetDefault("bundesbank.language", "en")
	v.SetDefault("scheduler.refresh_cron", "0 1 * * *")
	v.SetDefault("scheduler.timezone", "Europe/Berlin")
	v.SetDefault("scheduler.refresh_on_startup", true)
	v.SetDefault("refresh.batch_size", 1000)
	v.SetDefault("cache.max_dates", 512)
	v.SetDefault("logging.level", "info")
}

func bindEnv(v *viper.Viper) {
	// db server env vars
	_ = v.BindEnv("db_server.host", "DB_HOST")
	_ = v.BindEnv("db_server.port", "DB_PORT")
	_ = v.BindEnv("db_server.user", "DB_USER")
	_ = v.BindEnv("db_server.pass", "DB_PASS")
	_ = v.BindEnv("db_server.name", "DB_NAME")
	_ = v.BindEnv("db_server.max_conns", "DB_MAX_CONNS")

	_ = v.BindEnv("http_server.port", "HTTP_PORT")
	_ = v.BindEnv("http_client.timeout_seconds", "HTTP_CLIENT_TIMEOUT_SECONDS")
	_ = v.BindEnv("bundesbank.base_url", "BUNDESBANK_BASE_URL")
	_ = v.BindEnv("logging.level", "LOG_LEVEL")
}
