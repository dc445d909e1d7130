package config

import (
	"fmt"
	"os"
)

// loadEnvironmentVariables overrides config with environment variables
func loadEnvironmentVariables(config *Config) {
	if apiURL := os.Getenv("TARKOV_API_URL"); apiURL != "" {
		config.Tarkov.APIURL = apiURL
	}
	if userAgent := os.Getenv("TARKOV_USER_AGENT"); userAgent != "" {
		config.Tarkov.UserAgent = userAgent
	}
	if gameMode := os.Getenv("TARKOV_GAME_MODE"); gameMode != "" {
		config.Tarkov.GameMode = gameMode
	}
	if schedule := os.Getenv("REFRESH_SCHEDULE"); schedule != "" {
		config.Refresh.Schedule = schedule
	}
	if token := os.Getenv("DISCORD_TOKEN"); token != "" {
		config.Discord.Token = token
	}
	if channelID := os.Getenv("DISCORD_CHANNEL_ID"); channelID != "" {
		config.Discord.ChannelID = channelID
	}
	if guildID := os.Getenv("DISCORD_GUILD_ID"); guildID != "" {
		config.Discord.GuildID = guildID
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
	if file := os.Getenv("LOG_FILE"); file != "" {
		config.Logging.File = file
	}
}

// LoadConfigForCLI loads configuration for the one-shot listing, which
// needs nothing but the price API settings.
func LoadConfigForCLI(configPath string) (*Config, error) {
	config := Default()

	if configPath != "" {
		if err := loadYAMLFile(configPath, config); err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
			}
		}
	}

	loadEnvironmentVariables(config)

	if config.Tarkov.APIURL == "" {
		return nil, fmt.Errorf("config validation failed: tarkov api_url is required")
	}
	if config.Tarkov.MarketVendor == "" {
		return nil, fmt.Errorf("config validation failed: tarkov market_vendor must not be empty")
	}

	return config, nil
}
