package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"

	"AffairsCatalog/internal/domain"
	"AffairsCatalog/internal/infrastructure/sites"
)

const (
	defaultTimezone = "Asia/Kolkata"
	fallbackZone    = "UTC"
	configPathEnv   = "AFFAIRS_CATALOG_CONFIG"
	listenAddrEnv   = "LISTEN_ADDR"
	logLevelEnv     = "LOG_LEVEL"
	logFormatEnv    = "LOG_FORMAT"
	timezoneEnv     = "CATALOG_TIMEZONE"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging   LoggingConfig    `yaml:"logging"`
	Server    ServerConfig     `yaml:"server"`
	Catalog   CatalogConfig    `yaml:"catalog"`
	Digest    DigestConfig     `yaml:"digest"`
	Providers []ProviderConfig `yaml:"providers"`
}

// LoggingConfig selects slog level and handler format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// CatalogConfig tunes the resolution service.
type CatalogConfig struct {
	Timezone        string         `yaml:"timezone"`
	IsolateFailures bool           `yaml:"isolateFailures"`
	location        *time.Location `yaml:"-"`
}

// Location resolves the catalog timezone string to a time.Location.
func (c CatalogConfig) Location() *time.Location {
	if c.location != nil {
		return c.location
	}
	loc, err := time.LoadLocation(defaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DigestConfig drives the recurring digest of today's catalog.
type DigestConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
}

// ProviderConfig describes a single provider with its URL templates.
type ProviderConfig struct {
	Key         string           `yaml:"key"`
	Name        string           `yaml:"name"`
	Type        string           `yaml:"type"`
	Description string           `yaml:"description"`
	Color       string           `yaml:"color"`
	Icon        string           `yaml:"icon"`
	Reliability string           `yaml:"reliability"`
	BaseURL     string           `yaml:"baseUrl"`
	MaxDays     int              `yaml:"maxDays"`
	Resources   []ResourceConfig `yaml:"resources"`
}

// ResourceConfig holds one URL template of a provider.
type ResourceConfig struct {
	URL         string `yaml:"url"`
	Kind        string `yaml:"kind"`
	Description string `yaml:"description"`
	Option      string `yaml:"option"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	return LoadFile(os.Getenv(configPathEnv))
}

// LoadFile is Load with an explicit path; an empty path means defaults only.
func LoadFile(path string) Config {
	cfg := defaultConfig()

	if path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			slog.Warn("config: cannot read file, falling back to defaults", "path", path, "error", err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				slog.Warn("config: cannot parse file, falling back to defaults", "path", path, "error", err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	if len(cfg.Providers) == 0 {
		cfg.Providers = defaultConfig().Providers
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(listenAddrEnv); v != "" {
		c.Server.Addr = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(logFormatEnv); v != "" {
		c.Logging.Format = v
	}

	if v := os.Getenv(timezoneEnv); v != "" {
		c.Catalog.Timezone = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Catalog.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		slog.Warn("config: unknown timezone, reverting to UTC", "timezone", tz)
		loc = time.UTC
		tz = fallbackZone
	}
	c.Catalog.Timezone = tz
	c.Catalog.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.Server.Addr != "" {
		base.Server.Addr = override.Server.Addr
	}

	if override.Catalog.Timezone != "" {
		base.Catalog.Timezone = override.Catalog.Timezone
	}
	if override.Catalog.IsolateFailures {
		base.Catalog.IsolateFailures = true
	}

	if override.Digest.Enabled {
		base.Digest.Enabled = true
	}
	if override.Digest.Interval > 0 {
		base.Digest.Interval = override.Digest.Interval
	}

	if len(override.Providers) > 0 {
		base.Providers = override.Providers
	}

	return base
}

// Validate checks provider definitions before they reach the registry.
func (c Config) Validate() error {
	var errs []error
	seen := map[string]bool{}
	for i, p := range c.Providers {
		if p.Key == "" {
			errs = append(errs, fmt.Errorf("providers[%d]: key is required", i))
			continue
		}
		if seen[p.Key] {
			errs = append(errs, fmt.Errorf("providers[%d]: duplicate key %s", i, p.Key))
		}
		seen[p.Key] = true

		if p.MaxDays < 0 {
			errs = append(errs, fmt.Errorf("provider %s: maxDays must not be negative", p.Key))
		}
		if _, err := domain.ParseProviderType(p.Type); err != nil {
			errs = append(errs, fmt.Errorf("provider %s: %w", p.Key, err))
		}
		if _, err := domain.ParseReliability(p.Reliability); err != nil {
			errs = append(errs, fmt.Errorf("provider %s: %w", p.Key, err))
		}
		if len(p.Resources) == 0 {
			errs = append(errs, fmt.Errorf("provider %s: at least one resource is required", p.Key))
		}
		for j, r := range p.Resources {
			if _, err := domain.ParseResourceKind(r.Kind); err != nil {
				errs = append(errs, fmt.Errorf("provider %s resource %d: %w", p.Key, j, err))
			}
			if strings.TrimSpace(r.URL) == "" {
				errs = append(errs, fmt.Errorf("provider %s resource %d: url is required", p.Key, j))
			}
		}
	}
	return errors.Join(errs...)
}

// SiteProviders converts provider configs into site definitions.
func (c Config) SiteProviders() ([]sites.Provider, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	providers := make([]sites.Provider, 0, len(c.Providers))
	for _, p := range c.Providers {
		providerType, _ := domain.ParseProviderType(p.Type)
		reliability, _ := domain.ParseReliability(p.Reliability)
		resources := make([]sites.ResourceTemplate, 0, len(p.Resources))
		for _, r := range p.Resources {
			kind, _ := domain.ParseResourceKind(r.Kind)
			resources = append(resources, sites.ResourceTemplate{
				URL:         r.URL,
				Kind:        kind,
				Description: r.Description,
				Option:      r.Option,
			})
		}

		providers = append(providers, sites.Provider{
			Key: domain.ProviderKey(p.Key),
			Definition: sites.Definition{
				BaseURL: p.BaseURL,
				MaxDays: p.MaxDays,
				Metadata: domain.ProviderMetadata{
					Name:        p.Name,
					Type:        providerType,
					Description: p.Description,
					Color:       p.Color,
					Icon:        p.Icon,
					Reliability: reliability,
				},
				Resources: resources,
			},
		})
	}
	return providers, nil
}

func defaultConfig() Config {
	loc, err := time.LoadLocation(defaultTimezone)
	if err != nil {
		loc = time.UTC
	}
	return Config{
		Logging:   LoggingConfig{Level: "info", Format: "text"},
		Server:    ServerConfig{Addr: ":8080"},
		Catalog:   CatalogConfig{Timezone: defaultTimezone, location: loc},
		Digest:    DigestConfig{Enabled: false, Interval: 24 * time.Hour},
		Providers: providerConfigs(sites.Defaults()),
	}
}

func providerConfigs(defs []sites.Provider) []ProviderConfig {
	out := make([]ProviderConfig, 0, len(defs))
	for _, p := range defs {
		md := p.Definition.Metadata
		pc := ProviderConfig{
			Key:         string(p.Key),
			Name:        md.Name,
			Type:        string(md.Type),
			Description: md.Description,
			Color:       md.Color,
			Icon:        md.Icon,
			Reliability: string(md.Reliability),
			BaseURL:     p.Definition.BaseURL,
			MaxDays:     p.Definition.MaxDays,
		}
		for _, r := range p.Definition.Resources {
			pc.Resources = append(pc.Resources, ResourceConfig{
				URL:         r.URL,
				Kind:        string(r.Kind),
				Description: r.Description,
				Option:      r.Option,
			})
		}
		out = append(out, pc)
	}
	return out
}
