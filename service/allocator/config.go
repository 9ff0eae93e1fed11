package allocator

import (
	"fmt"
	"time"
)

// Config represents allocator service configuration
type Config struct {
	// PollingInterval is how often pending tasks are checked for expiry
	PollingInterval time.Duration `json:"pollingInterval" yaml:"pollingInterval" mapstructure:"pollingInterval"`
	// PendingTTL expires pending tasks older than the TTL; zero keeps them forever
	PendingTTL time.Duration `json:"pendingTTL" yaml:"pendingTTL" mapstructure:"pendingTTL"`
	// DeliveryTimeout bounds a single delivery attempt; zero leaves it to the caller context
	DeliveryTimeout time.Duration `json:"deliveryTimeout" yaml:"deliveryTimeout" mapstructure:"deliveryTimeout"`
}

// DefaultConfig returns the default allocator configuration
func DefaultConfig() Config {
	return Config{
		PollingInterval: time.Second,
		DeliveryTimeout: 5 * time.Second,
	}
}

// Validate checks the configuration
func (c Config) Validate() error {
	if c.PendingTTL < 0 {
		return fmt.Errorf("pendingTTL must not be negative: %s", c.PendingTTL)
	}
	if c.DeliveryTimeout < 0 {
		return fmt.Errorf("deliveryTimeout must not be negative: %s", c.DeliveryTimeout)
	}
	if c.PendingTTL > 0 && c.PollingInterval <= 0 {
		return fmt.Errorf("pollingInterval must be positive when pendingTTL is set")
	}
	return nil
}
