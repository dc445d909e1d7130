package discord

import (
	"strconv"
	"strings"
)

// CommandPrefix starts every bot command
const CommandPrefix = "!flea"

const maxTopItems = 50

// Command is a parsed chat command
type Command struct {
	Name  string
	Limit int // only for "top"
}

// ParseCommand parses "!flea <name> [args]". ok is false when content is not
// addressed to the bot. A missing or bad limit for "top" falls back to
// defaultLimit; larger limits are capped.
func ParseCommand(content string, defaultLimit int) (Command, bool) {
	parts := strings.Fields(content)
	if len(parts) == 0 || !strings.EqualFold(parts[0], CommandPrefix) {
		return Command{}, false
	}
	if len(parts) < 2 {
		return Command{Name: "help"}, true
	}

	cmd := Command{Name: strings.ToLower(parts[1])}
	if cmd.Name != "top" {
		return cmd, true
	}

	cmd.Limit = defaultLimit
	if len(parts) > 2 {
		if n, err := strconv.Atoi(parts[2]); err == nil && n > 0 {
			cmd.Limit = n
		}
	}
	if cmd.Limit > maxTopItems {
		cmd.Limit = maxTopItems
	}
	return cmd, true
}

const helpText = "Available commands:\n" +
	"`!flea top [n]` - Show the n most profitable flips\n" +
	"`!flea status` - Check bot and catalog status\n" +
	"`!flea help` - Show this help message\n" +
	"`!flea ping` - Test bot responsiveness\n"
