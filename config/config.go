package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config полная конфигурация приложения.
type Config struct {
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Detection DetectionConfig `yaml:"detection" mapstructure:"detection"`
	Telegram  TelegramConfig  `yaml:"telegram" mapstructure:"telegram"`
	Quality   QualityConfig   `yaml:"quality" mapstructure:"quality"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// ServerConfig настройки REST API.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
	MaxUploadMB int      `yaml:"max_upload_mb" mapstructure:"max_upload_mb"`
}

// MaxUploadBytes лимит размера загружаемого фото.
func (s ServerConfig) MaxUploadBytes() int64 {
	return int64(s.MaxUploadMB) << 20
}

// DetectionConfig адрес сервиса детекции и ограничения запросов к нему.
type DetectionConfig struct {
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RatePerSec  float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	Burst       int     `yaml:"burst" mapstructure:"burst"`
}

// Timeout таймаут HTTP-запроса к сервису.
func (d DetectionConfig) Timeout() time.Duration {
	return time.Duration(d.TimeoutSecs) * time.Second
}

// TelegramConfig настройки бота.
type TelegramConfig struct {
	Token string `yaml:"token" mapstructure:"token"`
}

// QualityConfig проверка качества фото до отправки в сервис.
type QualityConfig struct {
	Enabled      bool `yaml:"enabled" mapstructure:"enabled"`
	MinImageSide int  `yaml:"min_image_side" mapstructure:"min_image_side"`
}

// LogConfig уровень и формат логов.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load читает .env, необязательный config.yaml и переменные окружения с префиксом DAMAGE_.
func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("DAMAGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// старое имя переменной из .env бота
	if err := v.BindEnv("telegram.token", "DAMAGE_TELEGRAM_TOKEN", "TELEGRAM_TOKEN"); err != nil {
		return nil, eris.Wrap(err, "config: bind telegram token")
	}

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.max_upload_mb", 20)
	v.SetDefault("detection.base_url", "http://localhost:8000")
	v.SetDefault("detection.timeout_secs", 60)
	v.SetDefault("detection.rate_per_sec", 5)
	v.SetDefault("detection.burst", 5)
	v.SetDefault("quality.enabled", false)
	v.SetDefault("quality.min_image_side", 400)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger настраивает глобальный zap-логгер.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
