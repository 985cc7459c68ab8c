// Package config is used to load the configuration file
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/blacktop/lcdump/internal/colors"
	"github.com/blacktop/lcdump/pkg/macho"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables that override config keys.
const EnvPrefix = "lcdump"

// KeyReplacer maps config keys such as decode.no-swap to environment
// variable names such as LCDUMP_DECODE_NO_SWAP.
var KeyReplacer = strings.NewReplacer(".", "_", "-", "_")

type decode struct {
	Strict bool `mapstructure:"strict"`
	NoSwap bool `mapstructure:"no-swap"`
}

type info struct {
	JSON bool `mapstructure:"json"`
	Jobs int  `mapstructure:"jobs"`
}

// Config is the configuration struct
type Config struct {
	Verbose bool   `mapstructure:"verbose"`
	Color   string `mapstructure:"color"`
	Decode  decode `mapstructure:"decode"`
	Info    info   `mapstructure:"info"`
}

// Macho returns the decoder settings.
func (c *Config) Macho() *macho.Config {
	return &macho.Config{
		Strict: c.Decode.Strict,
		NoSwap: c.Decode.NoSwap,
	}
}

func (c *Config) verify() error {
	if _, err := colors.ParseMode(c.Color); err != nil {
		return err
	}
	if c.Info.Jobs == 0 {
		c.Info.Jobs = runtime.NumCPU()
	} else if c.Info.Jobs < 0 {
		return fmt.Errorf("config: jobs must be at least 1, got %d", c.Info.Jobs)
	}
	return nil
}

// DefaultPath returns $HOME/.config/lcdump/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: failed to get user home directory: %v", err)
	}
	return filepath.Join(home, ".config", "lcdump", "config.yaml"), nil
}

// LoadConfig loads the configuration from the global viper instance
func LoadConfig() (*Config, error) {
	return Load(viper.GetViper())
}

// Load unmarshals and verifies the configuration held by v
func Load(v *viper.Viper) (*Config, error) {
	var c *Config

	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal: %v", err)
	}
	if c == nil {
		c = &Config{}
	}

	if err := c.verify(); err != nil {
		return nil, fmt.Errorf("config: failed to verify: %v", err)
	}

	return c, nil
}
