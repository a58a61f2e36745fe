package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "admin@email.com", cfg.Auth.AdminEmail)
	assert.Equal(t, "abcd1234", cfg.Auth.AdminPassword)
	assert.Equal(t, "Admin", cfg.Auth.AdminName)
	assert.Equal(t, "dev-secret-change-me", cfg.Auth.JWTSecret)
	assert.Equal(t, "nats", cfg.Sync.Backend)
	assert.Equal(t, "students.sync", cfg.Sync.NATS.Subject)
	assert.Equal(t, "students-sync", cfg.Sync.Kafka.Topic)
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = "9090"
	cfg.Sync.Backend = "kafka"
	cfg.Auth.JWTSecret = "deploy-secret"
	applyDefaults(cfg)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "kafka", cfg.Sync.Backend)
	assert.Equal(t, "deploy-secret", cfg.Auth.JWTSecret)
}
