package discord

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fleaflip/pkg/config"
	"fleaflip/pkg/logging"
	"fleaflip/pkg/report"
	"fleaflip/pkg/tarkov"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

const messageLimit = 1900

// Bot posts catalogs to a Discord channel and answers !flea commands
type Bot struct {
	session   *discordgo.Session
	config    *config.DiscordConfig
	logger    *logging.Logger
	formatter *report.OutputFormatter
	channelID string

	send      func(channelID, content string) (*discordgo.Message, error)
	sendEmbed func(channelID string, embed *discordgo.MessageEmbed) (*discordgo.Message, error)

	mu               sync.RWMutex
	ready            bool
	startedAt        time.Time
	catalog          tarkov.Catalog
	catalogAt        time.Time
	commandsReceived int64
}

// NewBot creates a new Discord bot instance
func NewBot(cfg *config.DiscordConfig, logger *logging.Logger) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	bot := &Bot{
		session:   session,
		config:    cfg,
		logger:    logger,
		formatter: report.NewOutputFormatter(),
		channelID: cfg.ChannelID,
		send: func(channelID, content string) (*discordgo.Message, error) {
			return session.ChannelMessageSend(channelID, content)
		},
		sendEmbed: func(channelID string, embed *discordgo.MessageEmbed) (*discordgo.Message, error) {
			return session.ChannelMessageSendEmbed(channelID, embed)
		},
	}

	session.AddHandler(bot.onReady)
	session.AddHandler(bot.onMessageCreate)
	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsMessageContent

	return bot, nil
}

// Start opens the gateway connection and waits until the bot is ready
func (b *Bot) Start(ctx context.Context) error {
	b.logger.WithDiscord().Info("Starting Discord bot")

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	timeout := time.After(30 * time.Second)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timeout:
			return fmt.Errorf("timeout waiting for Discord bot to be ready")
		case <-ticker.C:
			if b.IsReady() {
				b.logger.WithDiscord().Info("Discord bot is ready and connected")
				return nil
			}
		}
	}
}

// Stop closes the gateway connection
func (b *Bot) Stop() error {
	b.logger.WithDiscord().Info("Stopping Discord bot")
	return b.session.Close()
}

// SendMessage sends content to the configured channel, split into several
// messages when it is too long for one
func (b *Bot) SendMessage(content string) (*discordgo.Message, error) {
	if content == "" {
		return nil, fmt.Errorf("message content cannot be empty")
	}

	chunks := NewTextSplitter(messageLimit).SplitTextWithParts(content)

	var first *discordgo.Message
	for i, chunk := range chunks {
		message, err := b.send(b.channelID, chunk)
		if err != nil {
			b.logger.DiscordError("send_message", err)
			return first, fmt.Errorf("failed to send message part %d: %w", i+1, err)
		}
		if i == 0 {
			first = message
		}
		b.logger.DiscordMessage(b.channelID, message.ID, len(chunk))

		if i < len(chunks)-1 {
			time.Sleep(100 * time.Millisecond)
		}
	}

	return first, nil
}

// SendEmbed sends an embedded message to the configured channel
func (b *Bot) SendEmbed(embed *discordgo.MessageEmbed) (*discordgo.Message, error) {
	message, err := b.sendEmbed(b.channelID, embed)
	if err != nil {
		b.logger.DiscordError("send_embed", err)
		return nil, fmt.Errorf("failed to send embed: %w", err)
	}

	b.logger.DiscordMessage(b.channelID, message.ID, len(embed.Description))
	return message, nil
}

// SendCatalog posts the top limit items of catalog
func (b *Bot) SendCatalog(catalog tarkov.Catalog, limit int) error {
	_, err := b.SendEmbed(b.catalogEmbed(catalog, limit))
	return err
}

// SendError posts a failed refresh
func (b *Bot) SendError(err error) error {
	embed := &discordgo.MessageEmbed{
		Title:       "Catalog refresh failed",
		Description: fmt.Sprintf("```\n%s\n```", err.Error()),
		Color:       0xff0000,
		Timestamp:   time.Now().Format(time.RFC3339),
	}

	_, sendErr := b.SendEmbed(embed)
	return sendErr
}

// OnCatalog stores catalog for commands and posts its top items once the bot
// is connected. It is meant to be registered as a refresh subscriber.
func (b *Bot) OnCatalog(catalog tarkov.Catalog) {
	b.mu.Lock()
	b.catalog = catalog
	b.catalogAt = time.Now()
	ready := b.ready
	b.mu.Unlock()

	if !ready {
		return
	}
	go func() {
		if err := b.SendCatalog(catalog, b.config.GetTopItems()); err != nil {
			b.logger.WithDiscord().WithError(err).Warn("Failed to post catalog")
		}
	}()
}

func (b *Bot) catalogEmbed(catalog tarkov.Catalog, limit int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Flea flips",
		Description: b.formatter.FormatForDiscord(catalog, limit),
		Color:       0x00ff00,
		Timestamp:   time.Now().Format(time.RFC3339),
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("%d items with a flea price", catalog.Len()),
		},
	}
}

func (b *Bot) onReady(s *discordgo.Session, event *discordgo.Ready) {
	b.mu.Lock()
	b.ready = true
	b.startedAt = time.Now()
	b.mu.Unlock()

	b.logger.WithDiscord().WithFields(logrus.Fields{
		"bot_user_id": event.User.ID,
		"guild_count": len(event.Guilds),
	}).Info("Discord bot ready")

	if err := s.UpdateGameStatus(0, "Flea flips | !flea help"); err != nil {
		b.logger.WithDiscord().WithError(err).Warn("Failed to set bot status")
	}
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || (s.State != nil && s.State.User != nil && m.Author.ID == s.State.User.ID) {
		return
	}
	if m.ChannelID != b.channelID {
		return
	}
	if b.config.GuildID != "" && m.GuildID != b.config.GuildID {
		return
	}

	cmd, ok := ParseCommand(m.Content, b.config.GetTopItems())
	if !ok {
		return
	}
	go b.handleCommand(m.ChannelID, m.Author.ID, cmd)
}

func (b *Bot) handleCommand(channelID, userID string, cmd Command) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.WithDiscord().WithField("panic", r).Error("Command handler panic recovered")
		}
	}()

	start := time.Now()
	b.mu.Lock()
	b.commandsReceived++
	b.mu.Unlock()

	b.logger.WithDiscord().WithFields(logrus.Fields{
		"user_id": userID,
		"command": cmd.Name,
	}).Info("Processing bot command")

	if _, err := b.sendEmbed(channelID, b.commandResponse(cmd, start)); err != nil {
		b.logger.DiscordError("command_"+cmd.Name, err)
		return
	}

	b.logger.WithDiscord().WithFields(logrus.Fields{
		"command":         cmd.Name,
		"processing_time": time.Since(start),
	}).Info("Bot command completed")
}

func (b *Bot) commandResponse(cmd Command, received time.Time) *discordgo.MessageEmbed {
	b.mu.RLock()
	catalog := b.catalog
	catalogAt := b.catalogAt
	startedAt := b.startedAt
	commands := b.commandsReceived
	b.mu.RUnlock()

	now := time.Now().Format(time.RFC3339)

	switch cmd.Name {
	case "top":
		if catalogAt.IsZero() {
			return &discordgo.MessageEmbed{
				Title:       "No catalog yet",
				Description: "The first catalog build has not finished.",
				Color:       0xffaa00,
				Timestamp:   now,
			}
		}
		return b.catalogEmbed(catalog, cmd.Limit)

	case "status":
		built := "never"
		if !catalogAt.IsZero() {
			built = catalogAt.Format("2006-01-02 15:04:05")
		}
		uptime := "not connected"
		if !startedAt.IsZero() {
			uptime = time.Since(startedAt).Truncate(time.Second).String()
		}
		return &discordgo.MessageEmbed{
			Title: "fleaflip status",
			Description: fmt.Sprintf("**Items:** %d\n**Last build:** %s\n**Uptime:** %s\n**Commands processed:** %d\n",
				catalog.Len(), built, uptime, commands),
			Color:     0x00ff00,
			Timestamp: now,
		}

	case "help":
		return &discordgo.MessageEmbed{
			Title:       "fleaflip commands",
			Description: helpText,
			Color:       0x0099ff,
			Timestamp:   now,
		}

	case "ping":
		return &discordgo.MessageEmbed{
			Title:       "Pong!",
			Description: fmt.Sprintf("Response time: %.2fms", float64(time.Since(received).Nanoseconds())/1000000),
			Color:       0x00ff00,
			Timestamp:   now,
		}

	default:
		return &discordgo.MessageEmbed{
			Title:       "Unknown command",
			Description: fmt.Sprintf("Unknown command: `%s`\nUse `!flea help` to see available commands.", cmd.Name),
			Color:       0xffaa00,
			Timestamp:   now,
		}
	}
}

// IsReady returns whether the bot is connected
func (b *Bot) IsReady() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.ready
}

// GetChannelID returns the configured channel ID
func (b *Bot) GetChannelID() string {
	return b.channelID
}
