package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SLACK_BOT_TOKEN", "xoxb-test")
	t.Setenv("SLACK_APP_TOKEN", "xapp-test")
	t.Setenv("SENDTIME_API_URL", "https://api.example.com")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("IS_PRODUCTION", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "xoxb-test", cfg.SlackBotToken)
	assert.Equal(t, "https://api.example.com", cfg.SendtimeAPIURL)
	assert.True(t, cfg.Production)
	assert.Equal(t, defaultMenuChannelID, cfg.MenuChannelID)
}

func TestLoadMissingToken(t *testing.T) {
	t.Setenv("SLACK_BOT_TOKEN", "")
	t.Setenv("SLACK_APP_TOKEN", "xapp-test")
	t.Setenv("SENDTIME_API_URL", "https://api.example.com")
	t.Setenv("REDIS_URL", "redis://localhost:6379")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SLACK_BOT_TOKEN")
}

func TestCommandPrefix(t *testing.T) {
	prod := &Config{Production: true}
	dev := &Config{Production: false}

	assert.Equal(t, "/umoh", prod.Command("umoh"))
	assert.Equal(t, "/dev_umoh", dev.Command("umoh"))
	assert.Equal(t, "/dev_daily_report", dev.Command("daily_report"))
}

func TestSpaceURL(t *testing.T) {
	prod := &Config{Production: true}
	dev := &Config{Production: false}

	assert.Equal(t, "https://umoh.io/@splab", prod.SpaceURL("splab"))
	assert.Equal(t, "https://dev.umoh.io/@splab", dev.SpaceURL("splab"))
}
