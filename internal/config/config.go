package config

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/smartaero/storefront/internal/log"
)

type Application struct {
	Env        string `mapstructure:"env"         json:"env"`
	Host       string `mapstructure:"host"        json:"host"`
	SecretKey  string `mapstructure:"secret_key"  json:"secret_key"`
	AdminEmail string `mapstructure:"admin_email" json:"admin_email"`
	Port       int    `mapstructure:"port"        json:"port"`
}

type Cache struct {
	Host     string `mapstructure:"host"     json:"host"`
	Password string `mapstructure:"password" json:"password"`
	Database int    `mapstructure:"database" json:"database"`
	Port     uint16 `mapstructure:"port"     json:"port"`
}

type Otel struct {
	Host string `mapstructure:"host" json:"host"`
	Port int    `mapstructure:"port" json:"port"`
}

type Email struct {
	Endpoint  string `mapstructure:"endpoint"  json:"endpoint"`
	ApiKey    string `mapstructure:"api_key"   json:"api_key"`
	Sender    string `mapstructure:"sender"    json:"sender"`
	Recipient string `mapstructure:"recipient" json:"recipient"`
	TimeoutMs int    `mapstructure:"timeout_ms" json:"timeout_ms"`
}

type Identity struct {
	Endpoint string `mapstructure:"endpoint" json:"endpoint"`
	ApiKey   string `mapstructure:"api_key"  json:"api_key"`
}

type Config struct {
	Application `mapstructure:"application" json:"application"`
	Cache       `mapstructure:"cache"       json:"cache"`
	Otel        `mapstructure:"otel"        json:"otel"`
	Email       `mapstructure:"email"       json:"email"`
	Identity    `mapstructure:"identity"    json:"identity"`
}

var (
	once   sync.Once
	config *Config
)

func InitConfig(c context.Context, filename string) *Config {
	cfg := Config{}
	once.Do(func() {
		logger := zerolog.Ctx(c).
			With().
			Str(log.KeyTag, "main InitConfig").
			Str("filename", filename).
			Logger()

		viper.SetConfigName(filename)
		viper.AddConfigPath("./env")
		viper.SetConfigType("yaml")
		viper.AutomaticEnv()

		logger = logger.With().Str(log.KeyProcess, "reading config").Logger()
		logger.Info().Msg("reading config")
		err := viper.ReadInConfig()
		if err != nil {
			err = fmt.Errorf("error when reading config with error=%w", err)
			logger.Fatal().Err(err).Msg(err.Error())
		}
		logger.Info().Msg("read config")

		logger = logger.With().Str(log.KeyProcess, "unmarshaling config").Logger()
		logger.Info().Msg("unmarshaling config")
		err = viper.Unmarshal(&cfg)
		if err != nil {
			err = fmt.Errorf("error unmarshaling config with error=%w", err)
			logger.Fatal().Err(err).Msg(err.Error())
		}
		config = &cfg
		logger.Info().Msg("unmarshaled config")
	})
	return config
}
