package config

import (
	"fmt"
	"strings"
)

// requiredFields maps field names to accessors for validation reporting.
var requiredFields = []struct {
	name  string
	value func(*Config) string
}{
	{"SERVER_PORT", func(c *Config) string { return c.ServerPort }},
	{"SERVER_HOST", func(c *Config) string { return c.ServerHost }},
	{"DB_HOST", func(c *Config) string { return c.DBHost }},
	{"DB_PORT", func(c *Config) string { return c.DBPort }},
	{"DB_USER", func(c *Config) string { return c.DBUser }},
	{"DB_PASSWORD", func(c *Config) string { return c.DBPassword }},
	{"DB_NAME", func(c *Config) string { return c.DBName }},
	{"DB_SSL_MODE", func(c *Config) string { return c.DBSSLMode }},
	{"REDIS_HOST", func(c *Config) string { return c.RedisHost }},
	{"REDIS_PORT", func(c *Config) string { return c.RedisPort }},
}

// ValidateConfig checks that every required value is present. Outside
// production the development defaults satisfy it; in production each value
// must be provided explicitly.
func ValidateConfig(cfg *Config) error {
	var errors []string
	for _, field := range requiredFields {
		if field.value(cfg) == "" {
			errors = append(errors, fmt.Sprintf("required configuration value %s is not set", field.name))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "\n"))
	}
	return nil
}
