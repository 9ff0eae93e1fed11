package mvplanning

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/mvplanning/service/messaging"
)

func TestLoadConfig(t *testing.T) {
	config, err := LoadConfig("testdata/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, config.Allocator.PollingInterval)
	assert.Equal(t, 10*time.Minute, config.Allocator.PendingTTL)
	assert.Equal(t, 2*time.Second, config.Allocator.DeliveryTimeout)
	assert.Equal(t, messaging.VendorFs, config.Messaging.Vendor)
	assert.Equal(t, LedgerSqlite, config.Ledger.Kind)
	assert.Equal(t, ":9090", config.API.Address)
	assert.Equal(t, 10*time.Second, config.API.ReadTimeout)
	assert.Equal(t, "profiles.yaml", config.Catalog.URL)
	assert.True(t, config.Log.JSON)
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("MVPLANNING_ALLOCATOR_PENDINGTTL", "30s")
	t.Setenv("MVPLANNING_API_ADDRESS", ":7070")
	config, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, config.Allocator.PendingTTL)
	assert.Equal(t, ":7070", config.API.Address)
	assert.Equal(t, messaging.VendorMemory, config.Messaging.Vendor)
	assert.Equal(t, 5*time.Second, config.Allocator.DeliveryTimeout)

	_, err = LoadConfig("testdata/missing.yaml")
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		description string
		mutate      func(c *Config)
		expectErr   bool
	}{
		{description: "defaults", mutate: func(c *Config) {}},
		{description: "negative ttl", mutate: func(c *Config) { c.Allocator.PendingTTL = -time.Second }, expectErr: true},
		{description: "negative delivery timeout", mutate: func(c *Config) { c.Allocator.DeliveryTimeout = -time.Second }, expectErr: true},
		{description: "unknown vendor", mutate: func(c *Config) { c.Messaging.Vendor = "kafka" }, expectErr: true},
		{description: "fs vendor without path", mutate: func(c *Config) {
			c.Messaging.Vendor = messaging.VendorFs
			c.Messaging.BasePath = ""
		}, expectErr: true},
		{description: "sqlite without path", mutate: func(c *Config) { c.Ledger.Kind = LedgerSqlite }, expectErr: true},
		{description: "unknown ledger", mutate: func(c *Config) { c.Ledger.Kind = "redis" }, expectErr: true},
	}
	for _, testCase := range testCases {
		config := DefaultConfig()
		testCase.mutate(config)
		err := config.Validate()
		if testCase.expectErr {
			assert.Error(t, err, testCase.description)
			continue
		}
		assert.NoError(t, err, testCase.description)
	}
}
