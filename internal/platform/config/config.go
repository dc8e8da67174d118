package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Hiring  HiringConfig  `mapstructure:"hiring"`
	Query   QueryConfig   `mapstructure:"query"`
	Logging LoggingConfig `mapstructure:"logging"`
	Stub    StubConfig    `mapstructure:"stub"`
}

// AppConfig carries the candidate identity and the optional query override.
type AppConfig struct {
	Name       string `mapstructure:"name"`
	RegNo      string `mapstructure:"reg_no"`
	Email      string `mapstructure:"email"`
	FinalQuery string `mapstructure:"final_query"`
}

type HiringConfig struct {
	BaseURL            string        `mapstructure:"base_url"`
	GeneratePath       string        `mapstructure:"generate_path"`
	DefaultWebhookPath string        `mapstructure:"default_webhook_path"`
	Timeout            time.Duration `mapstructure:"timeout"`
}

type QueryConfig struct {
	SourceFile string `mapstructure:"source_file"`
	OutputFile string `mapstructure:"output_file"`
}

type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	FilePath string `mapstructure:"file_path"`
}

// StubConfig configures the local stand-in API. GeneratePerMinute caps
// registrations per client; zero disables the limit.
type StubConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	PublicURL         string        `mapstructure:"public_url"`
	TokenSecret       string        `mapstructure:"token_secret"`
	TokenTTL          time.Duration `mapstructure:"token_ttl"`
	GeneratePerMinute int           `mapstructure:"generate_per_minute"`
}

const (
	DefaultBaseURL            = "https://bfhldevapigw.healthrx.co.in"
	DefaultGeneratePath       = "/hiring/generateWebhook/JAVA"
	DefaultWebhookPath        = "/hiring/testWebhook/JAVA"
	DefaultTimeout            = 30 * time.Second
	DefaultQuerySourceFile    = "final-query.sql"
	DefaultQueryOutputFile    = "target/final-query.sql"
	DefaultStubPort           = 8089
	DefaultStubTokenTTL       = time.Hour
	defaultStubTokenSecretKey = "qualifier-stub-secret"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "")
	v.SetDefault("app.reg_no", "")
	v.SetDefault("app.email", "")
	v.SetDefault("app.final_query", "")

	v.SetDefault("hiring.base_url", DefaultBaseURL)
	v.SetDefault("hiring.generate_path", DefaultGeneratePath)
	v.SetDefault("hiring.default_webhook_path", DefaultWebhookPath)
	v.SetDefault("hiring.timeout", DefaultTimeout)

	v.SetDefault("query.source_file", DefaultQuerySourceFile)
	v.SetDefault("query.output_file", DefaultQueryOutputFile)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.file_path", "")

	v.SetDefault("stub.host", "127.0.0.1")
	v.SetDefault("stub.port", DefaultStubPort)
	v.SetDefault("stub.public_url", "")
	v.SetDefault("stub.token_secret", defaultStubTokenSecretKey)
	v.SetDefault("stub.token_ttl", DefaultStubTokenTTL)
	v.SetDefault("stub.generate_per_minute", 30)
}

// Load reads the YAML file at path (optional), a .env file in the working
// directory (optional) and the process environment, in increasing priority.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "failed to load .env file")
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if !os.IsNotExist(err) {
				return nil, errors.Wrapf(err, "failed to read config file %s", path)
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to parse config")
	}

	config.App.Name = strings.TrimSpace(config.App.Name)
	config.App.RegNo = strings.TrimSpace(config.App.RegNo)
	config.App.Email = strings.TrimSpace(config.App.Email)

	return &config, nil
}

// Validate reports missing identity fields. The hiring service rejects a
// registration without them, so there is no point in calling it.
func (c *Config) Validate() error {
	var missing []string
	if c.App.Name == "" {
		missing = append(missing, "app.name")
	}
	if c.App.RegNo == "" {
		missing = append(missing, "app.reg_no")
	}
	if c.App.Email == "" {
		missing = append(missing, "app.email")
	}
	if len(missing) > 0 {
		return errors.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}
	if c.Hiring.BaseURL == "" {
		return errors.New("hiring.base_url must not be empty")
	}
	if c.Hiring.Timeout <= 0 {
		return errors.New("hiring.timeout must be positive")
	}
	return nil
}
