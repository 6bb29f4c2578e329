package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const (
	EnvPrefix = "DOCSEARCH_"

	DefaultConfigFile = "docsearch.yaml"
	DefaultAPIBaseURL = "http://localhost:5000"
	DefaultListenAddr = ":8080"
	DefaultStaticDir  = "internal/web/static"

	DefaultPerPage     = 10
	DefaultSimilarTopK = 5
	DefaultSearchTopK  = 10
)

type Config struct {
	ListenAddr string `koanf:"listen_addr"`
	StaticDir  string `koanf:"static_dir"`

	APIBaseURL string        `koanf:"api_base_url"`
	APITimeout time.Duration `koanf:"api_timeout"`

	PerPage     int `koanf:"per_page"`
	SimilarTopK int `koanf:"similar_top_k"`
	SearchTopK  int `koanf:"search_top_k"`

	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`
	Output    string `koanf:"output"`

	CacheHTML   string `koanf:"cache_html"`
	CacheStatic string `koanf:"cache_static"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"listen_addr":   DefaultListenAddr,
		"static_dir":    DefaultStaticDir,
		"api_base_url":  DefaultAPIBaseURL,
		"api_timeout":   "0s",
		"per_page":      DefaultPerPage,
		"similar_top_k": DefaultSimilarTopK,
		"search_top_k":  DefaultSearchTopK,
		"log_level":     "info",
		"log_format":    "text",
		"output":        "table",
		"cache_html":    "",
		"cache_static":  "",
	}
}

// Load reads configuration with precedence flags > env > file > defaults.
// An empty cfgFile falls back to ./docsearch.yaml when it exists. Only flags
// that were explicitly set override lower layers.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(cfgFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	} else if strings.TrimSpace(cfgFile) != "" {
		return Config{}, fmt.Errorf("config file %s not found", cfgFile)
	}

	// DOCSEARCH_API_BASE_URL -> api_base_url
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return Config{}, fmt.Errorf("load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return Config{}, fmt.Errorf("load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	cfg.APIBaseURL = strings.TrimRight(strings.TrimSpace(cfg.APIBaseURL), "/")
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.PerPage < 1 {
		c.PerPage = DefaultPerPage
	}
	if c.SimilarTopK < 1 {
		c.SimilarTopK = DefaultSimilarTopK
	}
	if c.SearchTopK < 1 {
		c.SearchTopK = DefaultSearchTopK
	}
	if strings.TrimSpace(c.ListenAddr) == "" {
		c.ListenAddr = DefaultListenAddr
	}
}

func (c Config) Validate() error {
	if c.APIBaseURL == "" {
		return errors.New("api_base_url is required")
	}

	parsed, err := url.Parse(c.APIBaseURL)
	if err != nil {
		return fmt.Errorf("api_base_url %q: %w", c.APIBaseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("api_base_url %q must use http or https", c.APIBaseURL)
	}
	if parsed.Host == "" {
		return fmt.Errorf("api_base_url %q has no host", c.APIBaseURL)
	}
	if c.APITimeout < 0 {
		return fmt.Errorf("api_timeout must not be negative, got %s", c.APITimeout)
	}

	switch c.Output {
	case "table", "json":
	default:
		return fmt.Errorf("unknown output format %q (table|json)", c.Output)
	}

	return nil
}

func findConfigFile(explicit string) string {
	explicit = strings.TrimSpace(explicit)
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
		return ""
	}
	if _, err := os.Stat(DefaultConfigFile); err == nil {
		return DefaultConfigFile
	}
	return ""
}
