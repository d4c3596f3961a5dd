package config

import (
	"os"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Qbittorrent: QbittorrentConfig{
			Host: "localhost",
			Port: 8080,
		},
		Thresholds: ThresholdsConfig{
			GraceChecks:   3,
			CheckInterval: 30 * time.Minute,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing host",
			mutate:  func(c *Config) { c.Qbittorrent.Host = "" },
			wantErr: true,
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Qbittorrent.Port = 70000 },
			wantErr: true,
		},
		{
			name:    "zero port",
			mutate:  func(c *Config) { c.Qbittorrent.Port = 0 },
			wantErr: true,
		},
		{
			name:    "grace checks below one",
			mutate:  func(c *Config) { c.Thresholds.GraceChecks = 0 },
			wantErr: true,
		},
		{
			name:    "non-positive check interval",
			mutate:  func(c *Config) { c.Thresholds.CheckInterval = 0 },
			wantErr: true,
		},
		{
			name:    "negative size limit",
			mutate:  func(c *Config) { c.Rules.MaxTorrentSizeGB = -1 },
			wantErr: true,
		},
		{
			name:    "invalid logging level",
			mutate:  func(c *Config) { c.Logging.Level = "trace" },
			wantErr: true,
		},
		{
			name:    "warn level is valid",
			mutate:  func(c *Config) { c.Logging.Level = "warn" },
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	// No config file in the search path: the built-in defaults apply.
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Qbittorrent.Host != "localhost" {
		t.Errorf("default host = %q, want localhost", cfg.Qbittorrent.Host)
	}
	if cfg.Thresholds.GraceChecks != 3 {
		t.Errorf("default grace_checks = %d, want 3", cfg.Thresholds.GraceChecks)
	}
	if cfg.Thresholds.CheckInterval != 30*time.Minute {
		t.Errorf("default check_interval = %s, want 30m", cfg.Thresholds.CheckInterval)
	}
	if cfg.Thresholds.MaxQueueTime != 48*time.Hour {
		t.Errorf("default max_queue_time = %s, want 48h", cfg.Thresholds.MaxQueueTime)
	}
	if !cfg.Rules.RemoveErrors {
		t.Error("default remove_errors should be true")
	}
	if cfg.Rules.RemoveLowRatio {
		t.Error("default remove_low_ratio should be false")
	}
	if cfg.Rules.MinSeedRatio != 1.0 {
		t.Errorf("default min_seed_ratio = %f, want 1.0", cfg.Rules.MinSeedRatio)
	}
	if cfg.DryRun {
		t.Error("default dry_run should be false")
	}
	if cfg.Paths.StateFile != "torrent_states.json" {
		t.Errorf("default state_file = %q", cfg.Paths.StateFile)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/config.yaml"

	content := []byte(`
qbittorrent:
  host: qbit.local
  port: 9090
thresholds:
  grace_checks: 5
  check_interval: 15m
rules:
  remove_low_ratio: true
categories:
  protected:
    - music
    - books
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// File values win over defaults.
	if cfg.Qbittorrent.Host != "qbit.local" {
		t.Errorf("host = %q, want qbit.local", cfg.Qbittorrent.Host)
	}
	if cfg.Thresholds.GraceChecks != 5 {
		t.Errorf("grace_checks = %d, want 5", cfg.Thresholds.GraceChecks)
	}
	if cfg.Thresholds.CheckInterval != 15*time.Minute {
		t.Errorf("check_interval = %s, want 15m", cfg.Thresholds.CheckInterval)
	}
	if !cfg.Rules.RemoveLowRatio {
		t.Error("remove_low_ratio should be true from file")
	}
	if len(cfg.Categories.Protected) != 2 {
		t.Errorf("protected categories = %v", cfg.Categories.Protected)
	}

	// Untouched sections keep their defaults.
	if cfg.Qbittorrent.Username != "admin" {
		t.Errorf("username = %q, want default admin", cfg.Qbittorrent.Username)
	}
	if cfg.Thresholds.MaxMetaTime != time.Hour {
		t.Errorf("max_meta_time = %s, want default 1h", cfg.Thresholds.MaxMetaTime)
	}
}
