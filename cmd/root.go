package cmd

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/roommate-matcher/internal/filtering"
	"github.com/spigell/roommate-matcher/internal/logger"
	"github.com/spigell/roommate-matcher/internal/ranking"
	"github.com/spigell/roommate-matcher/internal/scoring"
)

const (
	app = "roommate-matcher"
)

type Config struct {
	PopulationFile string          `mapstructure:"population-file"`
	ExcludeFile    string          `mapstructure:"exclude-file"`
	Matching       *MatchingConfig `mapstructure:"matching"`
	Filters        *FiltersConfig  `mapstructure:"filters"`
	AI             *AIConfig       `mapstructure:"ai"`
}

type MatchingConfig struct {
	TopK       int    `mapstructure:"top-k"`
	BudgetRule string `mapstructure:"budget-rule"`
	Workers    int    `mapstructure:"workers"`
}

type FiltersConfig struct {
	ExcludeIDs []string `mapstructure:"exclude-ids"`
	SameCity   bool     `mapstructure:"same-city"`
}

type AIConfig struct {
	Gemini *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string        `mapstructure:"api-key"`
	APIKeyFile   string        `mapstructure:"api-key-file"`
	Model        string        `mapstructure:"model"`
	MaxRetries   int           `mapstructure:"max-retries"`
	MaxLogLength int           `mapstructure:"max-log-length"`
	RequestDelay time.Duration `mapstructure:"request-delay"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "roommate-matcher ranks prospective roommates by lifestyle compatibility and explains the matches",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("population-file", "ROOMMATE_POPULATION_FILE"); err != nil {
		log.Fatalf("binding ROOMMATE_POPULATION_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	viper.SetDefault("matching.top-k", ranking.DefaultTopK)
	viper.SetDefault("matching.budget-rule", string(scoring.BudgetAuto))
	viper.SetDefault("ai.gemini.model", "gemini-2.0-flash")
	viper.SetDefault("ai.gemini.max-retries", 3)
	viper.SetDefault("ai.gemini.max-log-length", 200)
	viper.SetDefault("ai.gemini.request-delay", time.Second)

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is roommate-matcher.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().StringP("population-file", "p", "", "file with the profile population (json or yaml)")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("population-file", rootCmd.PersistentFlags().Lookup("population-file"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The config file is optional unless it was requested explicitly.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.Matching == nil {
		config.Matching = &MatchingConfig{}
	}
	if config.Filters == nil {
		config.Filters = &FiltersConfig{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}

	return config, nil
}

// setup builds the logger and the config shared by every command.
func setup() (*zap.Logger, *Config) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Debug("starting", zap.String("version", version), zap.Any("config", config))

	return logger, config
}

func (c *Config) ranker() (*ranking.Ranker, error) {
	rule, err := scoring.ParseBudgetRule(c.Matching.BudgetRule)
	if err != nil {
		return nil, fmt.Errorf("matching.budget-rule: %w", err)
	}
	return ranking.New(scoring.NewDetector(rule)), nil
}

func (c *Config) filters() *filtering.Config {
	return &filtering.Config{
		ExcludeIDs:  c.Filters.ExcludeIDs,
		ExcludeFile: strings.TrimSpace(c.ExcludeFile),
		SameCity:    c.Filters.SameCity,
	}
}
