package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Settings are the application settings shared by all commands.
type Settings struct {
	DataDir     string       `mapstructure:"data_dir"`
	LogLevel    string       `mapstructure:"log_level"`
	MetricsAddr string       `mapstructure:"metrics_addr"`
	MQTT        MQTTSettings `mapstructure:"mqtt"`
}

type MQTTSettings struct {
	Broker   string `mapstructure:"broker"`
	Topic    string `mapstructure:"topic"`
	ClientID string `mapstructure:"client_id"`
}

// LoadSettings reads settings from the file named by MOTION_CONFIG, or
// ~/.config/motion/config.yaml, with MOTION_ environment overrides.
func LoadSettings() (Settings, error) {
	return loadSettings(viper.New())
}

func loadSettings(v *viper.Viper) (Settings, error) {
	v.SetDefault("data_dir", "./runs")
	v.SetDefault("log_level", "info")
	v.SetDefault("metrics_addr", "")
	v.SetDefault("mqtt.broker", "tcp://localhost:1883")
	v.SetDefault("mqtt.topic", "motion/frames")
	v.SetDefault("mqtt.client_id", "motion")

	v.SetConfigType("yaml")
	if path := os.Getenv("MOTION_CONFIG"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "motion"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("MOTION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("read config: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return s, nil
}
