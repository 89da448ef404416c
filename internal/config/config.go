package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the evaluation API service.
type Config struct {
	AppName           string
	AppEnv            string
	AppPort           string
	DatabaseURL       string
	RedisURL          string
	NATSURL           string
	NATSResultSubject string

	StorageEndpoint    string
	StorageAccessKey   string
	StorageSecretKey   string
	StorageBucket      string
	StorageUseSSL      bool
	StorageDownloadDir string

	OpenAIAPIKey      string
	AnswerModel       string
	CompareModel      string
	AnswerTemperature float32
	AIRequestTimeout  time.Duration

	SummaryCacheTTL time.Duration

	DatasetManifestPath   string
	DatasetAttachmentsDir string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("EVAL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "GAIA Eval API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("nats.result_subject", "eval.results")
	v.SetDefault("storage.bucket", "gaia-attachments")
	v.SetDefault("storage.download_dir", "/tmp/gaia-attachments")
	v.SetDefault("ai.answer_model", "gpt-4o-mini")
	v.SetDefault("ai.compare_model", "gpt-3.5-turbo")
	v.SetDefault("ai.answer_temperature", 0.3)
	v.SetDefault("ai.request_timeout", "60s")
	v.SetDefault("summary.cache_ttl", "2m")
	v.SetDefault("dataset.manifest_path", "data/metadata.jsonl.json")
	v.SetDefault("dataset.attachments_dir", "data/attachments")

	aiTimeout, err := time.ParseDuration(v.GetString("ai.request_timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid ai request timeout: %w", err)
	}

	cacheTTL, err := time.ParseDuration(v.GetString("summary.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid summary cache ttl: %w", err)
	}

	cfg := Config{
		AppName:           v.GetString("app.name"),
		AppEnv:            v.GetString("app.env"),
		AppPort:           v.GetString("app.port"),
		DatabaseURL:       v.GetString("database.url"),
		RedisURL:          v.GetString("redis.url"),
		NATSURL:           v.GetString("nats.url"),
		NATSResultSubject: v.GetString("nats.result_subject"),

		StorageEndpoint:    v.GetString("storage.endpoint"),
		StorageAccessKey:   v.GetString("storage.access_key"),
		StorageSecretKey:   v.GetString("storage.secret_key"),
		StorageBucket:      v.GetString("storage.bucket"),
		StorageUseSSL:      v.GetBool("storage.use_ssl"),
		StorageDownloadDir: v.GetString("storage.download_dir"),

		OpenAIAPIKey:      v.GetString("openai_api_key"),
		AnswerModel:       v.GetString("ai.answer_model"),
		CompareModel:      v.GetString("ai.compare_model"),
		AnswerTemperature: float32(v.GetFloat64("ai.answer_temperature")),
		AIRequestTimeout:  aiTimeout,

		SummaryCacheTTL: cacheTTL,

		DatasetManifestPath:   v.GetString("dataset.manifest_path"),
		DatasetAttachmentsDir: v.GetString("dataset.attachments_dir"),
	}

	if cfg.OpenAIAPIKey == "" {
		return Config{}, fmt.Errorf("openai api key must be provided")
	}

	return cfg, nil
}
