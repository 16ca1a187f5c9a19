package config

import (
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	DbPath       string        `yaml:"db_path"`
	ListenAddr   string        `yaml:"listen_addr"`
	HomePageName string        `yaml:"home_page_name"`
	PageCacheTTL time.Duration `yaml:"page_cache_ttl"`

	MaxAttachmentBytes int64    `yaml:"max_attachment_bytes"`
	AllowedMimeTypes   []string `yaml:"allowed_mime_types"`

	SweepInterval time.Duration `yaml:"sweep_interval"` // how often orphaned blobs are collected
	SweepMinAge   time.Duration `yaml:"sweep_min_age"`  // blobs younger than this are never swept

	LogLevel string `yaml:"log_level"`
	LogJSON  bool   `yaml:"log_json"`
}

func mustLoadPath(configPath string, output interface{}) {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)

	if err != nil {
		panic("can't read config file")
	}

	err = yaml.Unmarshal(configFile, output)
	if err != nil {
		panic("can't unmarshal config file")
	}
}

func MustLoad(configFolder string) *Config {
	var cfg Config
	mustLoadPath(path.Join(configFolder, "app.yaml"), &cfg)

	cfg.applyDefaults()
	if cfg.DbPath == "" {
		panic("config: db_path is required")
	}
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = ":8080"
	}
	if c.HomePageName == "" {
		c.HomePageName = "home-page"
	}
	if c.PageCacheTTL <= 0 {
		c.PageCacheTTL = 30 * time.Minute
	}
	if c.MaxAttachmentBytes <= 0 {
		c.MaxAttachmentBytes = 10 << 20 // 10 MiB
	}
	if len(c.AllowedMimeTypes) == 0 {
		c.AllowedMimeTypes = []string{
			"image/jpeg",
			"image/png",
			"image/gif",
			"image/webp",
			"application/pdf",
			"text/plain",
		}
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = time.Hour
	}
	if c.SweepMinAge <= 0 {
		c.SweepMinAge = 24 * time.Hour
	}
}
