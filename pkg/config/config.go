// Package config provides layered configuration (defaults, config file,
// environment variables) for the player CLI.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds the ambient settings for a playback session. Per-file
// parameters (sample rate, channel count) live in types.TrackMeta, not here.
type Config struct {
	LogLevel string `mapstructure:"log_level"`

	Audio struct {
		RingCapacity    int     `mapstructure:"ring_capacity"`
		FramesPerBuffer int     `mapstructure:"frames_per_buffer"`
		OutputDevice    int     `mapstructure:"output_device"`
		DefaultGain     float64 `mapstructure:"default_gain"`
	} `mapstructure:"audio"`
}

// Load reads configuration from (in increasing priority order) built-in
// defaults, a config file named "player.yaml" on the search path, and
// PLAYER_-prefixed environment variables.
func Load() (*Config, error) {
	viper.SetConfigName("player")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "the-player"))
	}

	viper.SetEnvPrefix("PLAYER")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("log_level", "info")
	viper.SetDefault("audio.ring_capacity", 48000)
	viper.SetDefault("audio.frames_per_buffer", 1024)
	viper.SetDefault("audio.output_device", -1) // -1 = default device
	viper.SetDefault("audio.default_gain", 0.5)
}
