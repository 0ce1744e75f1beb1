package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("PORT", "")

	cf, err := load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "ecommerce", cf.MongoDatabase)
	assert.Equal(t, 72*time.Hour, cf.CartTTL)
	assert.Equal(t, 30*time.Second, cf.SubmitTimeout)
	assert.Equal(t, "uploads", cf.UploadDir)
	assert.Empty(t, cf.RedisAddr)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("CART_TTL", "2h")
	t.Setenv("LOG_PRETTY", "true")
	t.Setenv("PUBLIC_URL", "https://shop.example.com/")

	cf, err := load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "9090", cf.Port)
	assert.Equal(t, 3, cf.RedisDB)
	assert.Equal(t, 2*time.Hour, cf.CartTTL)
	assert.True(t, cf.LogPretty)
	assert.Equal(t, "https://shop.example.com", cf.PublicURL)
}
