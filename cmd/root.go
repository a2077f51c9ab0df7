package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pathforge-labs/pathforge/internal/filtering"
	"github.com/pathforge-labs/pathforge/internal/jobs"
	"github.com/pathforge-labs/pathforge/internal/provider"
	"github.com/pathforge-labs/pathforge/internal/provider/adzuna"
	"github.com/pathforge-labs/pathforge/internal/provider/headhunter"
)

const (
	app = "pathforge"

	defaultBatchSize = 50
	defaultInterval  = 6 * time.Hour
)

type Config struct {
	DatabaseURL string                  `mapstructure:"database-url"`
	RedisURL    string                  `mapstructure:"redis-url"`
	Providers   []string                `mapstructure:"providers"`
	Searches    []provider.SearchParams `mapstructure:"searches"`
	Filters     *filtering.Config       `mapstructure:"filters"`
	Adzuna      *adzuna.Config          `mapstructure:"adzuna"`
	HH          *headhunter.Config      `mapstructure:"hh"`
	Embedding   *EmbeddingConfig        `mapstructure:"embedding"`
	Schedule    *ScheduleConfig         `mapstructure:"schedule"`
}

type EmbeddingConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	Dimensions int    `mapstructure:"dimensions"`
	MaxRetries int    `mapstructure:"max-retries"`
	BatchSize  int    `mapstructure:"batch-size"`
}

type ScheduleConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "pathforge collects job listings from several sources, deduplicates them and keeps their embeddings up to date",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	envs := map[string]string{
		"database-url":           "DATABASE_URL",
		"redis-url":              "REDIS_URL",
		"embedding.api-key-file": "GEMINI_API_KEY_FILE",
		"adzuna.app-id":          "ADZUNA_APP_ID",
		"adzuna.app-key":         "ADZUNA_APP_KEY",
		"hh.token-file":          "HH_TOKEN_FILE",
	}
	for key, env := range envs {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	viper.SetDefault("embedding.batch-size", defaultBatchSize)
	viper.SetDefault("embedding.dimensions", jobs.EmbeddingDimensions)
	viper.SetDefault("schedule.interval", defaultInterval)

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is pathforge.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// A missing .env is fine; everything can come from the real environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		// We can't proceed if the config file parsed with error.
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, err
	}

	if config.Embedding == nil {
		config.Embedding = &EmbeddingConfig{BatchSize: defaultBatchSize, Dimensions: jobs.EmbeddingDimensions}
	}
	if config.Schedule == nil {
		config.Schedule = &ScheduleConfig{Interval: defaultInterval}
	}
	if config.Filters == nil {
		config.Filters = &filtering.Config{}
	}

	if config.Embedding.Dimensions == 0 {
		config.Embedding.Dimensions = jobs.EmbeddingDimensions
	}
	// The embedding column has a fixed width; any other size fails every update.
	if config.Embedding.Dimensions != jobs.EmbeddingDimensions {
		return nil, fmt.Errorf("embedding.dimensions must be %d to match the stored vectors, got %d",
			jobs.EmbeddingDimensions, config.Embedding.Dimensions)
	}
	if config.Embedding.BatchSize <= 0 {
		config.Embedding.BatchSize = defaultBatchSize
	}

	return config, nil
}
