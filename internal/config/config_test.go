package config

import (
	"os"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Port:       "8290",
			Env:        "development",
			JWTSecret:  "your-secret-key-change-in-production",
			DBDriver:   "postgres",
			DBPassword: "password",
		}
	}

	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{"Development defaults", func(c *Config) {}, false},
		{"Missing port", func(c *Config) { c.Port = "" }, true},
		{"Missing JWT secret", func(c *Config) { c.JWTSecret = "" }, true},
		{"Unknown DB driver", func(c *Config) { c.DBDriver = "mysql" }, true},
		{"Sqlite in development", func(c *Config) { c.DBDriver = "sqlite" }, false},
		{"Production with default secret", func(c *Config) {
			c.Env = "production"
			c.DBPassword = "s0mething-strong"
		}, true},
		{"Production with short secret", func(c *Config) {
			c.Env = "production"
			c.JWTSecret = "too-short"
			c.DBPassword = "s0mething-strong"
		}, true},
		{"Production with sqlite", func(c *Config) {
			c.Env = "production"
			c.JWTSecret = "secure-secret-at-least-32-chars-long!!"
			c.DBDriver = "sqlite"
			c.DBPassword = "s0mething-strong"
		}, true},
		{"Production with weak DB password", func(c *Config) {
			c.Env = "production"
			c.JWTSecret = "secure-secret-at-least-32-chars-long!!"
		}, true},
		{"Production fully configured", func(c *Config) {
			c.Env = "production"
			c.JWTSecret = "secure-secret-at-least-32-chars-long!!"
			c.DBPassword = "s0mething-strong"
			c.DBSSLMode = "require"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	defer viper.Reset()
	defer os.Unsetenv("APP_ENV")

	os.Setenv("APP_ENV", "development")

	c, err := LoadConfig()
	assert.NoError(t, err)
	assert.Equal(t, "8290", c.Port)
	assert.Equal(t, "postgres", c.DBDriver)
	assert.Equal(t, "ripple", c.DBName)
	assert.False(t, c.TracingEnabled)
}
