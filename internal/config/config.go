package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Exchanges  ExchangesConfig  `mapstructure:"exchanges"`
	Strategies StrategiesConfig `mapstructure:"strategies"`
}

type AppConfig struct {
	LogLevel      string `mapstructure:"log_level"`
	LogFile       string `mapstructure:"log_file"`
	LogMaxSizeMB  int    `mapstructure:"log_max_size_mb"`
	LogMaxBackups int    `mapstructure:"log_max_backups"`
	LogMaxAgeDays int    `mapstructure:"log_max_age_days"`
	LogCompress   bool   `mapstructure:"log_compress"`
}

type ExchangesConfig struct {
	Mexc MexcConfig `mapstructure:"mexc"`
}

type MexcConfig struct {
	SpotBaseURL    string `mapstructure:"spot_base_url"`
	FuturesBaseURL string `mapstructure:"futures_base_url"`
	WebBaseURL     string `mapstructure:"web_base_url"`
	WSURL          string `mapstructure:"ws_url"`
	APIKey         string `mapstructure:"api_key"`
	SecretKey      string `mapstructure:"secret_key"`
	WebToken       string `mapstructure:"web_token"`
	RecvWindowMs   int64  `mapstructure:"recv_window_ms"`
	TimeoutMs      int    `mapstructure:"timeout_ms"`
	ProxyURL       string `mapstructure:"proxy_url"`
}

type StrategiesConfig struct {
	Directional DirectionalConfig `mapstructure:"directional"`
}

type DirectionalConfig struct {
	Enabled bool           `mapstructure:"enabled"`
	Targets []TargetConfig `mapstructure:"targets"`
}

// TargetConfig is one directional request, e.g. "go long 100 contracts of
// ETH_USDT at 4x cross".
type TargetConfig struct {
	Symbol    string `mapstructure:"symbol"`
	Volume    uint64 `mapstructure:"volume"`
	Price     string `mapstructure:"price"`
	Leverage  uint64 `mapstructure:"leverage"`
	OpenType  string `mapstructure:"open_type"`
	Direction string `mapstructure:"direction"`
	OrderType string `mapstructure:"order_type"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_max_size_mb", 100)
	v.SetDefault("app.log_max_backups", 5)
	v.SetDefault("app.log_max_age_days", 7)

	v.SetDefault("exchanges.mexc.spot_base_url", "https://api.mexc.com")
	v.SetDefault("exchanges.mexc.futures_base_url", "https://contract.mexc.com")
	v.SetDefault("exchanges.mexc.web_base_url", "https://futures.mexc.com")
	v.SetDefault("exchanges.mexc.ws_url", "wss://contract.mexc.com/edge")
	v.SetDefault("exchanges.mexc.recv_window_ms", 5000)
	v.SetDefault("exchanges.mexc.timeout_ms", 10000)

	// Registered so AutomaticEnv can override them without a config file.
	v.SetDefault("exchanges.mexc.api_key", "")
	v.SetDefault("exchanges.mexc.secret_key", "")
	v.SetDefault("exchanges.mexc.web_token", "")
	v.SetDefault("exchanges.mexc.proxy_url", "")
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
