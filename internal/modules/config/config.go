package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	configFilePathENV = "CONFIG_FILE"
	tokenTelegramENV  = "TELEGRAM_TOKEN"
	databaseDSN       = "DATABASE_DSN"
)

// Config ...
type Config struct {
	Telegram struct {
		Token  string `mapstructure:"token"`
		ChatID int64  `mapstructure:"chat_id"`
	} `mapstructure:"telegram"`
	DB      string `mapstructure:"db_dsn"`
	Service struct {
		HealthAddr string `mapstructure:"health_addr"`
	} `mapstructure:"service"`
	Jaeger struct {
		Host string `mapstructure:"host"`
		Port int    `mapstructure:"port"`
	} `mapstructure:"jaeger"`

	// Таймзона, в которую переводим время свечей перед стратегиями
	Timezone string `mapstructure:"timezone"`

	// Скользящее окно свечей на одну подписку
	CandleCount int `mapstructure:"candle_count"`

	// Потолок одновременных сессий; дальше Subscribe отдаёт capacity error
	MaxSessions int `mapstructure:"max_sessions"`

	AssetsPath    string `mapstructure:"assets_path"`
	WebhooksPath  string `mapstructure:"webhooks_path"`
	WatchlistPath string `mapstructure:"watchlist_path"`

	// Пауза после каждой отправки в вебхук
	DispatchPace time.Duration `mapstructure:"dispatch_pace"`
}

func NewConfig() (*Config, error) {
	v := viper.New()

	v.SetConfigType("yaml")
	v.AddConfigPath("configs")
	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = "values_local"
	}
	v.SetConfigName(configFileName)

	v.SetDefault("timezone", "Asia/Ho_Chi_Minh")
	v.SetDefault("candle_count", 300)
	v.SetDefault("max_sessions", 512)
	v.SetDefault("assets_path", "assets.json")
	v.SetDefault("webhooks_path", "webhooks.txt")
	v.SetDefault("watchlist_path", "configs/watchlist.yaml")
	v.SetDefault("dispatch_pace", time.Second)
	v.SetDefault("service.health_addr", ":8080")

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// файла может не быть — дефолты и env покрывают всё необходимое
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "read config")
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}

	if token := os.Getenv(tokenTelegramENV); token != "" {
		config.Telegram.Token = token
	}
	if dsn := os.Getenv(databaseDSN); dsn != "" {
		config.DB = dsn
	}

	return config, nil
}
