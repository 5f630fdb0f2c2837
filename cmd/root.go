package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jobradar/jobradar/internal/jobs"
	"github.com/jobradar/jobradar/internal/scheduler"
	"github.com/jobradar/jobradar/internal/scraper"
)

const (
	app = "jobradar"
)

type Config struct {
	Sources   *SourcesConfig         `mapstructure:"sources"`
	AI        *AIConfig              `mapstructure:"ai"`
	Embedding *EmbeddingConfig       `mapstructure:"embedding"`
	Vector    *VectorConfig          `mapstructure:"vector"`
	Storage   *StorageConfig         `mapstructure:"storage"`
	Scheduler *SchedulerConfig       `mapstructure:"scheduler"`
	Profile   *jobs.CandidateProfile `mapstructure:"profile"`
}

type SourcesConfig struct {
	RemoteOK   *RemoteOKConfig           `mapstructure:"remoteok"`
	Adzuna     *AdzunaConfig             `mapstructure:"adzuna"`
	HTMLBoards []scraper.HTMLBoardConfig `mapstructure:"html-boards"`
	TimeoutSec int                       `mapstructure:"timeout-seconds"`
}

type RemoteOKConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type AdzunaConfig struct {
	AppID      string `mapstructure:"app-id"`
	AppIDFile  string `mapstructure:"app-id-file"`
	AppKey     string `mapstructure:"app-key"`
	AppKeyFile string `mapstructure:"app-key-file"`
	Country    string `mapstructure:"country"`
}

type AIConfig struct {
	Gemini *GeminiConfig `mapstructure:"gemini"`
	OpenAI *OpenAIConfig `mapstructure:"openai"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
}

type OpenAIConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
}

type EmbeddingConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
}

type VectorConfig struct {
	Host       string `mapstructure:"host"`
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
}

type StorageConfig struct {
	PostgresURL string `mapstructure:"postgres-url"`
	RedisURL    string `mapstructure:"redis-url"`
}

type SchedulerConfig struct {
	IntervalHours int                       `mapstructure:"interval-hours"`
	Queries       []scheduler.StandingQuery `mapstructure:"queries"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "jobradar is a cli for aggregating job postings and ranking them against your profile",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("storage.postgres-url", "JOBRADAR_POSTGRES_URL"); err != nil {
		log.Fatalf("binding JOBRADAR_POSTGRES_URL environment variable: %v", err)
	}
	if err := viper.BindEnv("storage.redis-url", "JOBRADAR_REDIS_URL"); err != nil {
		log.Fatalf("binding JOBRADAR_REDIS_URL environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is jobradar.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// The version command works without any configuration.
	if versionCmd.CalledAs() != "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
