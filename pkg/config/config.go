package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Corpus    CorpusConfig
	Identity  IdentityConfig
	SQLite    SQLiteConfig
	Redis     RedisConfig
	OpenAI    OpenAIConfig
	Gemini    GeminiConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  int
	WriteTimeout int
	BodyLimit    int
}

type CorpusConfig struct {
	DataFile    string
	SnapshotDir string
}

type IdentityConfig struct {
	UsersFile string
}

type SQLiteConfig struct {
	Path string
}

type RedisConfig struct {
	Enabled           bool
	Host              string
	Port              int
	Password          string
	DB                int
	VerdictTTLMinutes int
}

type OpenAIConfig struct {
	APIKey     string
	Model      string
	MaxTokens  int
	TimeoutSec int
}

type GeminiConfig struct {
	APIKey     string
	Model      string
	MaxTokens  int
	TimeoutSec int
}

type AuthConfig struct {
	JWTSecret     string
	TokenTTLHours int
}

type RateLimitConfig struct {
	MaxRequestsPerMinute int
}

type LoggingConfig struct {
	Level      string
	Format     string
	OutputPath string
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/culture-explorer")

	viper.SetEnvPrefix("CULTURE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.readTimeout", 30)
	viper.SetDefault("server.writeTimeout", 30)
	viper.SetDefault("server.bodyLimit", 10485760)

	viper.SetDefault("corpus.dataFile", "./data/corpus_data.json")
	viper.SetDefault("corpus.snapshotDir", "./data")

	viper.SetDefault("identity.usersFile", "./data/users.json")

	viper.SetDefault("sqlite.path", "./data/submissions.db")

	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.verdictTTLMinutes", 60)

	viper.SetDefault("openai.model", "gpt-4o")
	viper.SetDefault("openai.maxTokens", 500)
	viper.SetDefault("openai.timeoutSec", 30)

	viper.SetDefault("gemini.model", "gemini-2.0-flash")
	viper.SetDefault("gemini.maxTokens", 500)
	viper.SetDefault("gemini.timeoutSec", 30)

	viper.SetDefault("auth.jwtSecret", "change-me-in-production")
	viper.SetDefault("auth.tokenTTLHours", 24)

	viper.SetDefault("ratelimit.maxRequestsPerMinute", 60)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.outputPath", "stdout")
}
