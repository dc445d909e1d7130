package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the complete application configuration
type Config struct {
	Tarkov  TarkovConfig  `yaml:"tarkov"`
	Keys    KeysConfig    `yaml:"keys"`
	Refresh RefreshConfig `yaml:"refresh"`
	Display DisplayConfig `yaml:"display"`
	Discord DiscordConfig `yaml:"discord"`
	Logging LoggingConfig `yaml:"logging"`
}

// TarkovConfig holds the price API configuration
type TarkovConfig struct {
	APIURL       string `yaml:"api_url" env:"TARKOV_API_URL"`
	UserAgent    string `yaml:"user_agent" env:"TARKOV_USER_AGENT"`
	GameMode     string `yaml:"game_mode,omitempty" env:"TARKOV_GAME_MODE"`
	MarketVendor string `yaml:"market_vendor"`
	Timeout      string `yaml:"timeout"`
}

// KeysConfig maps the four logical selection signals to key combinations.
// Global keys are registered system-wide; local keys only act while the
// terminal window has focus.
type KeysConfig struct {
	Global KeyBindings `yaml:"global"`
	Local  KeyBindings `yaml:"local"`
}

// KeyBindings names one key combination per logical signal, e.g. "ctrl+alt+up"
type KeyBindings struct {
	MoveUp          string `yaml:"move_up"`
	MoveDown        string `yaml:"move_down"`
	CopyName        string `yaml:"copy_name"`
	CopyVendorPrice string `yaml:"copy_vendor_price"`
}

// RefreshConfig controls catalog rebuilds
type RefreshConfig struct {
	Schedule       string `yaml:"schedule" env:"REFRESH_SCHEDULE"`
	Timeout        string `yaml:"timeout"`
	ManualCooldown string `yaml:"manual_cooldown"`
}

// DisplayConfig controls the terminal list
type DisplayConfig struct {
	Title       string `yaml:"title"`
	VisibleRows int    `yaml:"visible_rows"`
}

// DiscordConfig holds the optional Discord poster configuration
type DiscordConfig struct {
	Token     string `yaml:"token" env:"DISCORD_TOKEN"`
	ChannelID string `yaml:"channel_id" env:"DISCORD_CHANNEL_ID"`
	GuildID   string `yaml:"guild_id,omitempty" env:"DISCORD_GUILD_ID"`
	TopItems  int    `yaml:"top_items"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`
	Format string `yaml:"format" env:"LOG_FORMAT"`
	File   string `yaml:"file,omitempty" env:"LOG_FILE"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Tarkov: TarkovConfig{
			APIURL:       "https://api.tarkov.dev/graphql",
			UserAgent:    "fleaflip",
			MarketVendor: "Flea Market",
			Timeout:      "30s",
		},
		Keys: KeysConfig{
			Global: KeyBindings{
				MoveUp:          "up",
				MoveDown:        "down",
				CopyName:        "left",
				CopyVendorPrice: "right",
			},
			Local: KeyBindings{
				MoveUp:          "up",
				MoveDown:        "down",
				CopyName:        "left",
				CopyVendorPrice: "right",
			},
		},
		Refresh: RefreshConfig{
			Schedule:       "",
			Timeout:        "60s",
			ManualCooldown: "10s",
		},
		Display: DisplayConfig{
			Title:       "FleaFlip",
			VisibleRows: 30,
		},
		Discord: DiscordConfig{
			TopItems: 15,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := Default()

	// A missing file is fine, defaults cover everything
	if configPath != "" {
		if err := loadYAMLFile(configPath, config); err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
			}
		}
	}

	loadEnvironmentVariables(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// loadYAMLFile loads configuration from a YAML file
func loadYAMLFile(path string, config *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, config)
}

// validateConfig ensures required configuration is present
func validateConfig(config *Config) error {
	if config.Tarkov.APIURL == "" {
		return fmt.Errorf("tarkov api_url is required (set TARKOV_API_URL environment variable)")
	}
	if config.Tarkov.MarketVendor == "" {
		return fmt.Errorf("tarkov market_vendor must not be empty")
	}
	switch strings.ToLower(config.Tarkov.GameMode) {
	case "", "regular", "pve":
	default:
		return fmt.Errorf("tarkov game_mode %q must be regular or pve", config.Tarkov.GameMode)
	}
	if err := config.Keys.Local.validate("local"); err != nil {
		return err
	}
	if config.Discord.Token != "" && config.Discord.ChannelID == "" {
		return fmt.Errorf("discord channel ID is required when a token is set (set DISCORD_CHANNEL_ID environment variable)")
	}
	if config.Display.VisibleRows < 0 {
		return fmt.Errorf("display visible_rows must not be negative")
	}

	return nil
}

func (k KeyBindings) validate(scope string) error {
	names := map[string]string{
		"move_up":           k.MoveUp,
		"move_down":         k.MoveDown,
		"copy_name":         k.CopyName,
		"copy_vendor_price": k.CopyVendorPrice,
	}
	for name, value := range names {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("keys.%s.%s must not be empty", scope, name)
		}
	}
	return nil
}

// DiscordEnabled reports whether the Discord poster should run
func (c *Config) DiscordEnabled() bool {
	return c.Discord.Token != "" && c.Discord.ChannelID != ""
}

// GetTimeout returns the HTTP timeout for the price API
func (c *TarkovConfig) GetTimeout() time.Duration {
	return parseDuration(c.Timeout, 30*time.Second)
}

// GetTimeout returns the deadline applied to one catalog rebuild
func (c *RefreshConfig) GetTimeout() time.Duration {
	return parseDuration(c.Timeout, 60*time.Second)
}

// GetManualCooldown returns the minimum spacing of manual refreshes
func (c *RefreshConfig) GetManualCooldown() time.Duration {
	d := parseDuration(c.ManualCooldown, 10*time.Second)
	if d < time.Second {
		return time.Second
	}
	return d
}

// GetVisibleRows returns the number of list rows to render
func (c *DisplayConfig) GetVisibleRows() int {
	if c.VisibleRows <= 0 {
		return 30
	}
	return c.VisibleRows
}

// GetTopItems returns how many items a Discord post includes
func (c *DiscordConfig) GetTopItems() int {
	if c.TopItems < 1 {
		return 15
	}
	if c.TopItems > 50 {
		return 50
	}
	return c.TopItems
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
