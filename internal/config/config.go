// Package config loads paycalc settings from file, environment and flags.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/andrei-cloud/paycalc/pkg/modes"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. PAYCALC_SERVER_PORT.
const EnvPrefix = "PAYCALC"

var (
	configData Config
	v          = newViper()
)

// Config holds all configuration settings.
type Config struct {
	// Server configuration
	Server struct {
		Host string
		Port int
	}
	// HTTP API configuration
	API struct {
		Enabled bool
		Address string
	}
	// Logging configuration
	Log struct {
		Level  string
		Format string
	}
	// Calculator defaults used when a request does not specify them
	Calc struct {
		KCVDigits    int    `mapstructure:"kcv_digits"`
		MACTagLength int    `mapstructure:"mac_tag_length"`
		Padding      string `mapstructure:"padding"`
	}
}

func newViper() *viper.Viper {
	nv := viper.New()
	setDefaults(nv)

	nv.SetEnvPrefix(EnvPrefix)
	nv.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	nv.AutomaticEnv()

	return nv
}

// setDefaults sets default values for all configuration options.
func setDefaults(nv *viper.Viper) {
	// Server defaults
	nv.SetDefault("server.host", "localhost")
	nv.SetDefault("server.port", 1500)

	// HTTP API defaults
	nv.SetDefault("api.enabled", false)
	nv.SetDefault("api.address", "localhost:8080")

	// Logging defaults
	nv.SetDefault("log.level", "info")
	nv.SetDefault("log.format", "human")

	// Calculator defaults
	nv.SetDefault("calc.kcv_digits", 6)
	nv.SetDefault("calc.mac_tag_length", 8)
	nv.SetDefault("calc.padding", "none")
}

// Initialize reads configFile, or config.yaml from the working directory,
// $HOME/.paycalc or /etc/paycalc when configFile is empty. A missing default
// file is not an error; a missing explicit file is.
func Initialize(configFile string) error {
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.paycalc")
		v.AddConfigPath("/etc/paycalc/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("unable to decode into config struct: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	configData = cfg

	return nil
}

// Validate checks value ranges that viper cannot express.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Calc.KCVDigits < 1 || c.Calc.KCVDigits > 32 {
		return fmt.Errorf("calc.kcv_digits %d out of range 1..32", c.Calc.KCVDigits)
	}
	if c.Calc.MACTagLength < 4 || c.Calc.MACTagLength > 16 {
		return fmt.Errorf("calc.mac_tag_length %d out of range 4..16", c.Calc.MACTagLength)
	}
	if _, err := modes.ParsePadding(c.Calc.Padding); err != nil {
		return fmt.Errorf("calc.padding: %w", err)
	}

	return nil
}

// Address returns the host:port the TCP server listens on.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Get returns the current configuration.
func Get() *Config {
	return &configData
}

// GetViper returns the viper instance flags are bound to.
func GetViper() *viper.Viper {
	return v
}

// Reset discards loaded values and flag bindings.
func Reset() {
	v = newViper()
	configData = Config{}
}
