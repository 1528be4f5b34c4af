package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/joho/godotenv"
	"github.com/zclconf/go-cty/cty"
)

const (
	DefaultArchiveURL    = "https://github.com/phpcfdi/resources-sat-catalogs/archive/master.zip"
	DefaultArchivePrefix = "resources-sat-catalogs-master/database/"
)

// Config represents the application configuration.
type Config struct {
	Database        string `hcl:"database,optional"`
	TemplatesDir    string `hcl:"templates_dir,optional"`
	ArchiveURL      string `hcl:"archive_url,optional"`
	ArchivePrefix   string `hcl:"archive_prefix,optional"`
	DownloadTimeout string `hcl:"download_timeout,optional"`
	StallTimeout    string `hcl:"stall_timeout,optional"`
	WorkDir         string `hcl:"work_dir,optional"`
	PostgresDSN     string `hcl:"postgres_dsn,optional"`
	LogFormat       string `hcl:"log_format,optional"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Database:        "catalogs.db",
		ArchiveURL:      DefaultArchiveURL,
		ArchivePrefix:   DefaultArchivePrefix,
		DownloadTimeout: "60s",
		StallTimeout:    "20s",
		LogFormat:       "console",
	}
}

// Load reads the configuration from the given HCL file.
func Load(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(content, path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config file: %s", diags.Error())
	}

	cfg := DefaultConfig()
	diags = gohcl.DecodeBody(file.Body, nil, cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config: %s", diags.Error())
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Resolve loads path when it is set, otherwise the defaults, then applies
// SATCAT_* environment overrides. A .env file in the working directory is
// read first when present.
func Resolve(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from SATCAT_* environment variables.
func (c *Config) ApplyEnv() {
	overrides := map[string]*string{
		"SATCAT_DATABASE":         &c.Database,
		"SATCAT_TEMPLATES_DIR":    &c.TemplatesDir,
		"SATCAT_ARCHIVE_URL":      &c.ArchiveURL,
		"SATCAT_ARCHIVE_PREFIX":   &c.ArchivePrefix,
		"SATCAT_DOWNLOAD_TIMEOUT": &c.DownloadTimeout,
		"SATCAT_STALL_TIMEOUT":    &c.StallTimeout,
		"SATCAT_WORK_DIR":         &c.WorkDir,
		"SATCAT_POSTGRES_DSN":     &c.PostgresDSN,
		"SATCAT_LOG_FORMAT":       &c.LogFormat,
	}
	for key, field := range overrides {
		if value := os.Getenv(key); value != "" {
			*field = value
		}
	}
}

// Validate checks the duration fields and the log format.
func (c *Config) Validate() error {
	if _, err := c.DownloadTimeoutDuration(); err != nil {
		return err
	}
	if _, err := c.StallTimeoutDuration(); err != nil {
		return err
	}
	switch c.LogFormat {
	case "", "console", "json":
	default:
		return fmt.Errorf("invalid log_format %q: want console or json", c.LogFormat)
	}
	return nil
}

// DownloadTimeoutDuration bounds the whole archive download. Zero disables it.
func (c *Config) DownloadTimeoutDuration() (time.Duration, error) {
	return parseDuration("download_timeout", c.DownloadTimeout)
}

// StallTimeoutDuration bounds how long the download may go without progress.
func (c *Config) StallTimeoutDuration() (time.Duration, error) {
	return parseDuration("stall_timeout", c.StallTimeout)
}

func parseDuration(name, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, value, err)
	}
	return d, nil
}

// Export writes the configuration to the specified file in HCL format.
func Export(path string, cfg *Config) error {
	f := hclwrite.NewEmptyFile()
	root := f.Body()

	root.SetAttributeValue("database", cty.StringVal(cfg.Database))
	if cfg.TemplatesDir != "" {
		root.SetAttributeValue("templates_dir", cty.StringVal(cfg.TemplatesDir))
	}
	root.AppendNewline()
	root.SetAttributeValue("archive_url", cty.StringVal(cfg.ArchiveURL))
	root.SetAttributeValue("archive_prefix", cty.StringVal(cfg.ArchivePrefix))
	root.SetAttributeValue("download_timeout", cty.StringVal(cfg.DownloadTimeout))
	root.SetAttributeValue("stall_timeout", cty.StringVal(cfg.StallTimeout))
	if cfg.WorkDir != "" {
		root.SetAttributeValue("work_dir", cty.StringVal(cfg.WorkDir))
	}
	if cfg.PostgresDSN != "" {
		root.AppendNewline()
		root.SetAttributeValue("postgres_dsn", cty.StringVal(cfg.PostgresDSN))
	}
	root.AppendNewline()
	root.SetAttributeValue("log_format", cty.StringVal(cfg.LogFormat))

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	_, err = file.Write(f.Bytes())
	if err != nil {
		return fmt.Errorf("failed to write config to file: %w", err)
	}

	return nil
}
