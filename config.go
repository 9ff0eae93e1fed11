package mvplanning

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/viant/mvplanning/service/allocator"
	"github.com/viant/mvplanning/service/messaging"
)

// Ledger kinds
const (
	LedgerMemory = "memory"
	LedgerFs     = "fs"
	LedgerSqlite = "sqlite"
)

// Config is a serialisable representation of the planner configuration. It
// can be populated from YAML or JSON files and MVPLANNING_ prefixed
// environment variables.
type Config struct {
	Allocator allocator.Config `json:"allocator" yaml:"allocator" mapstructure:"allocator"`
	Messaging MessagingConfig  `json:"messaging" yaml:"messaging" mapstructure:"messaging"`
	Ledger    LedgerConfig     `json:"ledger" yaml:"ledger" mapstructure:"ledger"`
	API       APIConfig        `json:"api" yaml:"api" mapstructure:"api"`
	Tracing   TracingConfig    `json:"tracing" yaml:"tracing" mapstructure:"tracing"`
	Catalog   CatalogConfig    `json:"catalog" yaml:"catalog" mapstructure:"catalog"`
	Log       LogConfig        `json:"log" yaml:"log" mapstructure:"log"`
}

// MessagingConfig selects the queue vendor used by the event bus and the plan outbox
type MessagingConfig struct {
	Vendor   messaging.Vendor `json:"vendor" yaml:"vendor" mapstructure:"vendor"`
	BasePath string           `json:"basePath" yaml:"basePath" mapstructure:"basePath"`
}

// LedgerConfig selects the assignment ledger backend
type LedgerConfig struct {
	Kind string `json:"kind" yaml:"kind" mapstructure:"kind"`
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// APIConfig configures the HTTP control surface
type APIConfig struct {
	Address      string        `json:"address" yaml:"address" mapstructure:"address"`
	ReadTimeout  time.Duration `json:"readTimeout" yaml:"readTimeout" mapstructure:"readTimeout"`
	WriteTimeout time.Duration `json:"writeTimeout" yaml:"writeTimeout" mapstructure:"writeTimeout"`
}

// TracingConfig configures OpenTelemetry
type TracingConfig struct {
	Enabled        bool   `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	ServiceName    string `json:"serviceName" yaml:"serviceName" mapstructure:"serviceName"`
	ServiceVersion string `json:"serviceVersion" yaml:"serviceVersion" mapstructure:"serviceVersion"`
	OutputFile     string `json:"outputFile" yaml:"outputFile" mapstructure:"outputFile"`
}

// CatalogConfig locates the profile catalog
type CatalogConfig struct {
	URL string `json:"url" yaml:"url" mapstructure:"url"`
}

// LogConfig configures logrus
type LogConfig struct {
	Level string `json:"level" yaml:"level" mapstructure:"level"`
	JSON  bool   `json:"json" yaml:"json" mapstructure:"json"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Allocator: allocator.DefaultConfig(),
		Messaging: MessagingConfig{Vendor: messaging.VendorMemory, BasePath: "/tmp/mvplanning"},
		Ledger:    LedgerConfig{Kind: LedgerMemory},
		API:       APIConfig{Address: ":8080", ReadTimeout: 10 * time.Second, WriteTimeout: 10 * time.Second},
		Tracing:   TracingConfig{ServiceName: "mvplanning", ServiceVersion: "dev"},
		Log:       LogConfig{Level: "info"},
	}
}

// Validate returns an error describing the first invalid setting, or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if err := c.Allocator.Validate(); err != nil {
		return fmt.Errorf("allocator: %w", err)
	}
	switch c.Messaging.Vendor {
	case messaging.VendorMemory:
	case messaging.VendorFs:
		if c.Messaging.BasePath == "" {
			return fmt.Errorf("messaging.basePath is required for the fs vendor")
		}
	default:
		return fmt.Errorf("unsupported messaging.vendor: %q", c.Messaging.Vendor)
	}
	switch c.Ledger.Kind {
	case LedgerMemory:
	case LedgerFs, LedgerSqlite:
		if c.Ledger.Path == "" {
			return fmt.Errorf("ledger.path is required for the %s ledger", c.Ledger.Kind)
		}
	default:
		return fmt.Errorf("unsupported ledger.kind: %q", c.Ledger.Kind)
	}
	return nil
}

// LoadConfig reads the YAML file at path, if any, on top of the defaults;
// MVPLANNING_<SECTION>_<KEY> environment variables override both.
func LoadConfig(path string) (*Config, error) {
	defaults := DefaultConfig()
	v := viper.New()
	v.SetDefault("allocator.pollingInterval", defaults.Allocator.PollingInterval)
	v.SetDefault("allocator.pendingTTL", defaults.Allocator.PendingTTL)
	v.SetDefault("allocator.deliveryTimeout", defaults.Allocator.DeliveryTimeout)
	v.SetDefault("messaging.vendor", string(defaults.Messaging.Vendor))
	v.SetDefault("messaging.basePath", defaults.Messaging.BasePath)
	v.SetDefault("ledger.kind", defaults.Ledger.Kind)
	v.SetDefault("ledger.path", defaults.Ledger.Path)
	v.SetDefault("api.address", defaults.API.Address)
	v.SetDefault("api.readTimeout", defaults.API.ReadTimeout)
	v.SetDefault("api.writeTimeout", defaults.API.WriteTimeout)
	v.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	v.SetDefault("tracing.serviceName", defaults.Tracing.ServiceName)
	v.SetDefault("tracing.serviceVersion", defaults.Tracing.ServiceVersion)
	v.SetDefault("tracing.outputFile", defaults.Tracing.OutputFile)
	v.SetDefault("catalog.url", defaults.Catalog.URL)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.json", defaults.Log.JSON)

	v.SetConfigType("yaml")
	v.SetEnvPrefix("MVPLANNING")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	ret := &Config{}
	if err := v.Unmarshal(ret); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := ret.Validate(); err != nil {
		return nil, err
	}
	return ret, nil
}
