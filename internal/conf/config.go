// Package conf loads rtikit configuration and builds its logger.
package conf

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/roach88/rtikit/internal/logicaltime"
)

// Logging profiles.
const (
	ProfileTest       = "test"
	ProfileLocal      = "local"
	ProfileProduction = "production"
)

// EnvPrefix prefixes every environment override, e.g. RTIKIT_DB_PATH.
const EnvPrefix = "RTIKIT"

// Config is the resolved configuration.
type Config struct {
	Profile            string   `mapstructure:"profile" validate:"required,oneof=test local production"`
	LogLevel           string   `mapstructure:"log_level" validate:"loglevel"`
	DBPath             string   `mapstructure:"db_path" validate:"required"`
	TimeImplementation string   `mapstructure:"time_implementation" validate:"timeimpl"`
	FOMModules         []string `mapstructure:"fom_modules" validate:"dive,required"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("loglevel", validateLogLevel)
	_ = validate.RegisterValidation("timeimpl", validateTimeImplementation)
}

func validateLogLevel(fl validator.FieldLevel) bool {
	switch strings.ToUpper(fl.Field().String()) {
	case "DEBUG", "INFO", "WARN", "ERROR":
		return true
	}
	return false
}

// validateTimeImplementation accepts the empty name, which selects the
// default, and any registered name.
func validateTimeImplementation(fl validator.FieldLevel) bool {
	name := strings.TrimSpace(fl.Field().String())
	return name == "" || slices.Contains(logicaltime.Names(), name)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("profile", ProfileLocal)
	v.SetDefault("log_level", "INFO")
	v.SetDefault("db_path", "rtikit.db")
	v.SetDefault("time_implementation", "")
	v.SetDefault("fom_modules", []string{})
}

// Load resolves configuration from defaults, an optional file and RTIKIT_*
// environment variables, in increasing precedence. An explicit path must
// exist; without one, rtikit.yaml is looked up in the working directory and
// in $HOME/.rtikit and skipped if absent.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("rtikit")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.rtikit")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("invalid config: %w", err)
		}
		msgs := make([]string, len(verrs))
		for i, fe := range verrs {
			msgs[i] = fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
	}
	return nil
}

// Logger builds the logger the configuration describes.
func (c *Config) Logger() *zap.SugaredLogger {
	return GetLogger(c.Profile, LogLevel(c.LogLevel))
}
