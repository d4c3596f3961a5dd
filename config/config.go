package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Load loads the configuration from file. File values are merged over the
// built-in defaults section by section; a missing file in the standard
// search locations just means defaults apply. Endpoint credentials and the
// working directory can also come from the environment.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)
	bindEnv(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".torrentjanitor"))
		}
		v.AddConfigPath("/etc/torrentjanitor/")

		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("error reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// qBittorrent defaults
	v.SetDefault("qbittorrent.host", "localhost")
	v.SetDefault("qbittorrent.port", 8080)
	v.SetDefault("qbittorrent.username", "admin")
	v.SetDefault("qbittorrent.password", "adminadmin")
	v.SetDefault("qbittorrent.timeout", 30)
	v.SetDefault("qbittorrent.verify_ssl", true)

	// Threshold defaults
	v.SetDefault("thresholds.max_queue_time", 48*time.Hour)
	v.SetDefault("thresholds.max_meta_time", time.Hour)
	v.SetDefault("thresholds.min_torrent_age", 24*time.Hour)
	v.SetDefault("thresholds.grace_checks", 3)
	v.SetDefault("thresholds.check_interval", 30*time.Minute)
	v.SetDefault("thresholds.min_progress_protect", 5)
	v.SetDefault("thresholds.min_download_speed", 1024)
	v.SetDefault("thresholds.min_seeds_required", 1)
	v.SetDefault("thresholds.max_seed_time", 7*24*time.Hour)

	// Rule defaults
	v.SetDefault("rules.remove_errors", true)
	v.SetDefault("rules.remove_stalled", true)
	v.SetDefault("rules.remove_metadata_timeout", true)
	v.SetDefault("rules.remove_no_activity", true)
	v.SetDefault("rules.remove_queue_timeout", true)
	v.SetDefault("rules.remove_low_ratio", false)
	v.SetDefault("rules.protect_seeding", true)
	v.SetDefault("rules.protect_private_trackers", false)
	v.SetDefault("rules.min_seed_ratio", 1.0)
	v.SetDefault("rules.max_torrent_size_gb", 0)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.max_file_size_mb", 10)
	v.SetDefault("logging.max_files", 5)

	// Path defaults
	v.SetDefault("paths.work_dir", "/tmp/torrentjanitor")
	v.SetDefault("paths.state_file", "torrent_states.json")
	v.SetDefault("paths.log_file", "torrentjanitor.log")
	v.SetDefault("paths.stats_file", "statistics.json")
}

// bindEnv maps endpoint credentials and the working directory to
// environment variables.
func bindEnv(v *viper.Viper) {
	v.BindEnv("qbittorrent.host", "QB_HOST")
	v.BindEnv("qbittorrent.port", "QB_PORT")
	v.BindEnv("qbittorrent.username", "QB_USERNAME")
	v.BindEnv("qbittorrent.password", "QB_PASSWORD")
	v.BindEnv("paths.work_dir", "WORK_DIR")
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.Qbittorrent.Host == "" {
		return fmt.Errorf("qbittorrent.host is required")
	}

	if cfg.Qbittorrent.Port <= 0 || cfg.Qbittorrent.Port > 65535 {
		return fmt.Errorf("invalid qbittorrent.port: %d", cfg.Qbittorrent.Port)
	}

	if cfg.Thresholds.GraceChecks < 1 {
		return fmt.Errorf("thresholds.grace_checks must be at least 1")
	}

	if cfg.Thresholds.CheckInterval <= 0 {
		return fmt.Errorf("thresholds.check_interval must be positive")
	}

	if cfg.Rules.MaxTorrentSizeGB < 0 {
		return fmt.Errorf("rules.max_torrent_size_gb must not be negative")
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	return nil
}
