package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	Qbittorrent QbittorrentConfig `mapstructure:"qbittorrent"`
	Thresholds  ThresholdsConfig  `mapstructure:"thresholds"`
	Rules       RulesConfig       `mapstructure:"rules"`
	Categories  CategoriesConfig  `mapstructure:"categories"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Paths       PathsConfig       `mapstructure:"paths"`
	DryRun      bool              `mapstructure:"dry_run"`
}

// QbittorrentConfig holds qBittorrent API connection details
type QbittorrentConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	Timeout   int    `mapstructure:"timeout"`
	VerifySSL bool   `mapstructure:"verify_ssl"`
}

// ThresholdsConfig contains the numeric timeouts and guards used by the
// removal rules and the cycle loop.
type ThresholdsConfig struct {
	MaxQueueTime       time.Duration `mapstructure:"max_queue_time"`
	MaxMetaTime        time.Duration `mapstructure:"max_meta_time"`
	MinTorrentAge      time.Duration `mapstructure:"min_torrent_age"`
	GraceChecks        int           `mapstructure:"grace_checks"`
	CheckInterval      time.Duration `mapstructure:"check_interval"`
	MinProgressProtect float64       `mapstructure:"min_progress_protect"` // percent
	MinDownloadSpeed   int64         `mapstructure:"min_download_speed"`   // bytes/s
	MinSeedsRequired   int64         `mapstructure:"min_seeds_required"`
	MaxSeedTime        time.Duration `mapstructure:"max_seed_time"`
}

// RulesConfig contains the per-rule enable flags and rule parameters.
type RulesConfig struct {
	RemoveErrors           bool    `mapstructure:"remove_errors"`
	RemoveStalled          bool    `mapstructure:"remove_stalled"`
	RemoveMetadataTimeout  bool    `mapstructure:"remove_metadata_timeout"`
	RemoveNoActivity       bool    `mapstructure:"remove_no_activity"`
	RemoveQueueTimeout     bool    `mapstructure:"remove_queue_timeout"`
	RemoveLowRatio         bool    `mapstructure:"remove_low_ratio"`
	ProtectSeeding         bool    `mapstructure:"protect_seeding"`
	ProtectPrivateTrackers bool    `mapstructure:"protect_private_trackers"`
	MinSeedRatio           float64 `mapstructure:"min_seed_ratio"`
	MaxTorrentSizeGB       int64   `mapstructure:"max_torrent_size_gb"`
	ProtectFilter          string  `mapstructure:"protect_filter"`
}

// CategoriesConfig contains the category and tracker name lists.
type CategoriesConfig struct {
	Protected       []string `mapstructure:"protected"`
	AutoRemove      []string `mapstructure:"auto_remove"`
	PrivateTrackers []string `mapstructure:"private_trackers"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level         string `mapstructure:"level"`
	MaxFileSizeMB int    `mapstructure:"max_file_size_mb"`
	MaxFiles      int    `mapstructure:"max_files"`
}

// PathsConfig locates the working directory and the files inside it.
type PathsConfig struct {
	WorkDir   string `mapstructure:"work_dir"`
	StateFile string `mapstructure:"state_file"`
	LogFile   string `mapstructure:"log_file"`
	StatsFile string `mapstructure:"stats_file"`
}
