// Package config loads bot configuration from the environment and an
// optional config file. Environment variables always win over file values.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds everything the bot needs at startup.
type Config struct {
	SlackBotToken string
	SlackAppToken string

	SendtimeAPIURL string
	SendtimeUserID string
	SendtimeUserPW string

	RedisURL string

	MenuChannelID string

	Production bool
	Debug      bool
}

const defaultMenuChannelID = "C051U09FMBK"

// Load reads configuration from environment variables (SLACK_BOT_TOKEN,
// SLACK_APP_TOKEN, SENDTIME_API_URL, ...) and, if present, a config.yaml in
// the working directory.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Missing config file is fine; env vars alone are a valid setup.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetDefault("menu_channel_id", defaultMenuChannelID)

	cfg := &Config{
		SlackBotToken:  v.GetString("slack_bot_token"),
		SlackAppToken:  v.GetString("slack_app_token"),
		SendtimeAPIURL: v.GetString("sendtime_api_url"),
		SendtimeUserID: v.GetString("sendtime_user_id"),
		SendtimeUserPW: v.GetString("sendtime_user_pw"),
		RedisURL:       v.GetString("redis_url"),
		MenuChannelID:  v.GetString("menu_channel_id"),
		Production:     v.GetBool("is_production"),
		Debug:          v.GetBool("debug"),
	}

	if cfg.SlackBotToken == "" {
		return nil, fmt.Errorf("SLACK_BOT_TOKEN is required")
	}
	if cfg.SlackAppToken == "" {
		return nil, fmt.Errorf("SLACK_APP_TOKEN is required")
	}
	if cfg.SendtimeAPIURL == "" {
		return nil, fmt.Errorf("SENDTIME_API_URL is required")
	}
	if cfg.RedisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	return cfg, nil
}

// Command returns the slash command name for the given base name. Development
// deployments register /dev_-prefixed commands so both bots can live in the
// same workspace.
func (c *Config) Command(name string) string {
	if c.Production {
		return "/" + name
	}
	return "/dev_" + name
}

// SpaceURL returns the public web URL for a space handle.
func (c *Config) SpaceURL(handle string) string {
	if c.Production {
		return "https://umoh.io/@" + handle
	}
	return "https://dev.umoh.io/@" + handle
}
