package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/hr-assist/internal/ai/gemini"
	"github.com/spigell/hr-assist/internal/analysis"
	"github.com/spigell/hr-assist/internal/failover"
	"github.com/spigell/hr-assist/internal/logger"
	"github.com/spigell/hr-assist/internal/server"
)

const (
	app       = "hr-assist"
	envPrefix = "HR_ASSIST"
)

type Config struct {
	Server   server.Config    `mapstructure:"server"`
	AI       AIConfig         `mapstructure:"ai"`
	Failover FailoverConfig   `mapstructure:"failover"`
	Analysis analysis.Options `mapstructure:"analysis"`
	Metrics  MetricsConfig    `mapstructure:"metrics"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider" validate:"omitempty,oneof=gemini"`
	Models   []string      `mapstructure:"models"`
	Timeout  time.Duration `mapstructure:"timeout" validate:"gte=0"`
	// MaxRetries is the number of calls per model before moving on.
	MaxRetries    int    `mapstructure:"max-retries" validate:"gte=0"`
	MaxLogLength  int    `mapstructure:"max-log-length" validate:"gte=0"`
	MaxInputRunes int    `mapstructure:"max-input-runes" validate:"gte=0"`
	APIKey        string `mapstructure:"api-key" json:"-"`
	APIKeyFile    string `mapstructure:"api-key-file"`
}

type FailoverConfig struct {
	Threshold int `mapstructure:"threshold" validate:"gte=1"`
	// Journal is the failure log path; empty disables it.
	Journal string `mapstructure:"journal"`
}

type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Runtime   bool   `mapstructure:"runtime"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "hr-assist scores resumes, culture fit and candidate searches with AI and a deterministic fallback",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is hr-assist.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	setDefaults(viper.GetViper())
}

func setDefaults(v *viper.Viper) {
	srv := server.DefaultConfig()
	v.SetDefault("server.addr", srv.Addr)
	v.SetDefault("server.read-timeout", srv.ReadTimeout)
	v.SetDefault("server.write-timeout", srv.WriteTimeout)
	v.SetDefault("server.shutdown-timeout", srv.ShutdownTimeout)
	v.SetDefault("server.max-body-bytes", srv.MaxBodyBytes)

	v.SetDefault("ai.enabled", true)
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.models", gemini.DefaultModels)
	v.SetDefault("ai.timeout", 60*time.Second)
	v.SetDefault("ai.max-retries", 2)
	v.SetDefault("ai.max-log-length", 200)
	v.SetDefault("ai.max-input-runes", 12000)
	v.SetDefault("ai.api-key", "")
	v.SetDefault("ai.api-key-file", "")

	v.SetDefault("failover.threshold", failover.DefaultThreshold)
	v.SetDefault("failover.journal", "logs/ai-fallback.log")

	opts := analysis.DefaultOptions()
	v.SetDefault("analysis.name-length", opts.Limits.NameLength)
	v.SetDefault("analysis.requirement-window", opts.Limits.RequirementWindow)
	v.SetDefault("analysis.education-length", opts.Limits.EducationLength)
	v.SetDefault("analysis.culture-cap", opts.CultureCap)
	v.SetDefault("analysis.max-skills", opts.MaxSkills)
	v.SetDefault("analysis.reason-indicators", opts.ReasonIndicators)
	v.SetDefault("analysis.search-results", opts.SearchResults)
	v.SetDefault("analysis.summary-length", opts.SummaryLength)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.namespace", "hr_assist")
	v.SetDefault("metrics.runtime", true)
}

func initConfig() {
	// version needs neither the environment file nor the config.
	if versionCmd.CalledAs() != "" {
		return
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env file: %v", err)
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// The config file is optional unless it was asked for explicitly.
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := validator.New().Struct(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

func newLogger(outputs ...string) (*zap.Logger, error) {
	return logger.New(logger.Config{
		JSON:        viper.GetBool("json"),
		Debug:       viper.GetBool("debug"),
		OutputPaths: outputs,
	})
}
