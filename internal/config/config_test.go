package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_CORSOrigins(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{Environment: EnvDevelopment},
		CORS:   CORSConfig{Origins: "http://localhost:3000, https://app.example.com,,"},
	}
	assert.Equal(t, []string{"http://localhost:3000", "https://app.example.com"}, cfg.CORSOrigins())

	cfg.Server.Environment = EnvProduction
	assert.Equal(t, []string{"https://app.example.com"}, cfg.CORSOrigins())
}

func TestConfig_SecurityWarnings(t *testing.T) {
	dev := &Config{
		Server: ServerConfig{Environment: EnvDevelopment, Debug: true},
		CORS:   CORSConfig{Origins: "http://localhost:3000"},
	}
	assert.Nil(t, dev.SecurityWarnings())

	prod := &Config{
		Server: ServerConfig{Environment: EnvProduction, Debug: true},
		CORS:   CORSConfig{Origins: "http://localhost:3000"},
	}
	assert.Equal(t, []string{
		"Debug mode is enabled in production",
		"Localhost origins allowed in production",
	}, prod.SecurityWarnings())

	clean := &Config{
		Server: ServerConfig{Environment: EnvProduction},
		CORS:   CORSConfig{Origins: "https://app.example.com"},
	}
	assert.Empty(t, clean.SecurityWarnings())
}
