package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fleaflip/pkg/clipboard"
	"fleaflip/pkg/config"
	"fleaflip/pkg/discord"
	"fleaflip/pkg/display"
	"fleaflip/pkg/hotkey"
	"fleaflip/pkg/logging"
	"fleaflip/pkg/refresh"
	"fleaflip/pkg/selection"
	"fleaflip/pkg/tarkov"

	tea "github.com/charmbracelet/bubbletea"
)

const VERSION = "0.1.0"

func main() {
	var (
		configPath   = flag.String("config", "config.yml", "Path to the configuration file")
		noGlobalKeys = flag.Bool("no-global-keys", false, "Only react to keys while the terminal has focus")
	)
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// The terminal UI owns stdout, so logs go to a file or nowhere.
	logger := logging.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	if cfg.Logging.File != "" {
		if err := logger.SetOutputFile(cfg.Logging.File); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
	} else {
		logger.SetOutput(io.Discard)
	}
	defer logger.Close()

	logger.WithComponent("main").WithField("version", VERSION).Info("Starting fleaflip")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	source := tarkov.NewAPIDataSource(&tarkov.ClientConfig{
		BaseURL:   cfg.Tarkov.APIURL,
		UserAgent: cfg.Tarkov.UserAgent,
		GameMode:  cfg.Tarkov.GameMode,
		Timeout:   cfg.Tarkov.GetTimeout(),
	})
	builder := tarkov.NewCatalogBuilder(source, cfg.Tarkov.MarketVendor, logger)

	refresher := refresh.New(builder, &refresh.Config{
		Schedule:       cfg.Refresh.Schedule,
		Timeout:        cfg.Refresh.GetTimeout(),
		ManualCooldown: cfg.Refresh.GetManualCooldown(),
	}, logger)

	fmt.Fprintf(os.Stderr, "Loading flea market prices from %s...\n", cfg.Tarkov.APIURL)
	catalog, err := refresher.Refresh(ctx)
	if err != nil {
		logger.WithComponent("main").WithError(err).Error("Initial catalog build failed")
		fmt.Fprintf(os.Stderr, "Failed to build catalog: %v\n", err)
		os.Exit(1)
	}

	controller := selection.NewController(catalog, clipboard.NewSystem(), logger)
	refresher.Subscribe(controller.Publish)

	bot := startDiscord(ctx, cfg, logger)
	if bot != nil {
		bot.OnCatalog(catalog)
		refresher.Subscribe(bot.OnCatalog)
	}

	events := make(chan selection.Event, 64)

	model := display.New(display.Options{
		Title:       cfg.Display.Title,
		VisibleRows: cfg.Display.GetVisibleRows(),
		Keys:        display.NewKeyMap(cfg.Keys.Local),
		Events:      events,
		Refresh:     refresher.Trigger,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	controller.OnError(func(err error) {
		program.Send(display.ErrMsg{Err: err})
	})
	refresher.OnError(func(err error) {
		program.Send(display.ErrMsg{Err: fmt.Errorf("refresh failed, keeping previous catalog: %w", err)})
		if bot != nil {
			if sendErr := bot.SendError(err); sendErr != nil {
				logger.WithDiscord().WithError(sendErr).Warn("Failed to post refresh error")
			}
		}
	})

	go func() {
		controller.Subscribe(func(s selection.State) {
			program.Send(display.StateMsg(s))
		})
		if err := controller.Run(ctx, events); err != nil && !errors.Is(err, context.Canceled) {
			logger.WithSelection().WithError(err).Error("Selection loop stopped")
		}
	}()

	if !*noGlobalKeys {
		startGlobalKeys(ctx, cfg, logger, program, events)
	}

	if err := refresher.Start(); err != nil {
		logger.WithComponent("main").WithError(err).Error("Failed to start refresh schedule")
		fmt.Fprintf(os.Stderr, "Failed to start refresh schedule: %v\n", err)
		os.Exit(1)
	}

	logger.WithComponent("main").WithFields(map[string]interface{}{
		"items":           catalog.Len(),
		"schedule":        cfg.Refresh.Schedule,
		"global_keys":     !*noGlobalKeys,
		"discord_enabled": bot != nil,
	}).Info("fleaflip fully initialized")

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		logger.WithComponent("main").WithError(err).Error("Terminal UI failed")
		fmt.Fprintf(os.Stderr, "Terminal UI failed: %v\n", err)
	}

	logger.WithComponent("main").Info("Shutting down")
	stop()
	refresher.Stop()

	if bot != nil {
		if err := bot.Stop(); err != nil {
			logger.WithDiscord().WithError(err).Error("Error stopping Discord bot")
		}
	}

	logger.WithComponent("main").Info("fleaflip shutdown complete")
}

// startDiscord connects the optional Discord bot. A bot that fails to connect
// is logged and skipped; the overlay works without it.
func startDiscord(ctx context.Context, cfg *config.Config, logger *logging.Logger) *discord.Bot {
	if !cfg.DiscordEnabled() {
		logger.WithComponent("main").Debug("Discord not configured")
		return nil
	}

	bot, err := discord.NewBot(&cfg.Discord, logger)
	if err != nil {
		logger.WithDiscord().WithError(err).Warn("Failed to create Discord bot")
		return nil
	}

	startCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := bot.Start(startCtx); err != nil {
		logger.WithDiscord().WithError(err).Warn("Failed to start Discord bot")
		bot.Stop()
		return nil
	}

	if _, err := bot.SendMessage(fmt.Sprintf("**fleaflip v%s** is watching the flea market.", VERSION)); err != nil {
		logger.WithDiscord().WithError(err).Warn("Failed to send startup message")
	}
	return bot
}

// startGlobalKeys registers system-wide keys feeding the same event channel
// as the focused terminal keys
func startGlobalKeys(ctx context.Context, cfg *config.Config, logger *logging.Logger, program *tea.Program, events chan<- selection.Event) {
	bindings, err := hotkey.BindingsFromConfig(cfg.Keys.Global)
	if err != nil {
		logger.WithComponent("hotkey").WithError(err).Warn("Invalid global key bindings")
		go program.Send(display.StatusMsg("Global keys disabled: " + err.Error()))
		return
	}

	logger.WithComponent("hotkey").WithField("bindings", bindings.Describe()).Info("Registering global keys")

	go func() {
		err := hotkey.New(bindings, logger).Listen(ctx, events)
		switch {
		case err == nil:
		case errors.Is(err, hotkey.ErrUnsupported):
			logger.WithComponent("hotkey").Warn("Global keys unsupported, using focused keys only")
			program.Send(display.StatusMsg("Global keys unavailable here; keys work while this window has focus"))
		default:
			logger.WithComponent("hotkey").WithError(err).Error("Global key listener stopped")
			program.Send(display.ErrMsg{Err: err})
		}
	}()
}
