package robbie_test

import (
	"testing"

	"github.com/fwojciec/robbie"
	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()
	cfg := robbie.DefaultConfig()
	assert.Equal(t, "Robbie", cfg.Title.Name)
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	assert.Equal(t, 4096, cfg.MaxTokens)
	assert.InDelta(t, 0.7, cfg.Temperature, 1e-9)
	assert.InDelta(t, 1.0, cfg.TopP, 1e-9)
	assert.Zero(t, cfg.FrequencyPenalty)
	assert.Zero(t, cfg.PresencePenalty)
	assert.Equal(t, robbie.DefaultSystemPrompt, cfg.SystemPrompt)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestConfig_Sampling(t *testing.T) {
	t.Parallel()
	cfg := robbie.Config{
		MaxTokens:        16,
		Temperature:      0.7,
		TopP:             1.0,
		FrequencyPenalty: 0.1,
		PresencePenalty:  0.2,
	}
	assert.Equal(t, robbie.Sampling{
		MaxTokens:        16,
		Temperature:      0.7,
		TopP:             1.0,
		FrequencyPenalty: 0.1,
		PresencePenalty:  0.2,
	}, cfg.Sampling())
}
