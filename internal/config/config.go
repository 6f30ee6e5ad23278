package config

import (
	"bytes"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type AppCfg struct {
	Name string
	Env  string
	Host string
	Port int
}

type LogCfg struct {
	Level string
}

type DBCfg struct {
	DSN         string
	MaxOpen     int
	MaxIdle     int
	AutoMigrate bool
}

type RedisCfg struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
}

type MQCfg struct {
	URL   string
	Queue string
}

// OpenRouterCfg configures the outbound completion relay. The API key is
// injected server-side; clients never hold it.
type OpenRouterCfg struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	TimeoutSec  int
	Referer     string
	Title       string
}

type TelemetryCfg struct {
	Enabled      bool
	OtlpEndpoint string
	SampleRatio  float64
}

type Config struct {
	App        AppCfg
	Log        LogCfg
	Database   DBCfg
	Redis      RedisCfg
	RabbitMQ   MQCfg
	OpenRouter OpenRouterCfg
	Telemetry  TelemetryCfg
}

func Load() (*Config, error) {
	base := viper.New()
	base.SetConfigName("config")
	base.SetConfigType("yaml")
	base.AddConfigPath("./configs")
	base.AddConfigPath(".")
	base.AutomaticEnv()
	base.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	base.SetEnvPrefix("APP") // e.g. APP_OPENROUTER_APIKEY -> openrouter.apikey

	setDefaults(base)

	// Read the file (if any)
	if err := base.ReadInConfig(); err == nil {
		// Expand ${ENV} references in the file before parsing.
		path := base.ConfigFileUsed()
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		expanded := os.ExpandEnv(string(raw))

		v := viper.New()
		v.SetConfigType("yaml")
		if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
			return nil, err
		}
		v.AutomaticEnv()
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.SetEnvPrefix("APP")
		setDefaults(v)

		cfg := new(Config)
		if err := v.Unmarshal(&cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	// No file is also allowed, using only env + defaults
	cfg := new(Config)
	if err := base.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "prompt-engine")
	v.SetDefault("app.env", "debug")
	v.SetDefault("app.host", "0.0.0.0")
	v.SetDefault("app.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("database.maxOpen", 20)
	v.SetDefault("database.maxIdle", 5)
	v.SetDefault("database.autoMigrate", true)
	v.SetDefault("redis.poolSize", 10)
	v.SetDefault("rabbitmq.queue", "project_turn")
	v.SetDefault("openrouter.baseURL", "https://openrouter.ai/api/v1")
	v.SetDefault("openrouter.model", "google/gemini-2.0-flash-exp:free")
	v.SetDefault("openrouter.temperature", 0.7)
	v.SetDefault("openrouter.timeoutSec", 30)
	v.SetDefault("openrouter.referer", "https://webprompt.app")
	v.SetDefault("openrouter.title", "Prompt Engine")
	v.SetDefault("telemetry.sampleRatio", 1.0)
}
