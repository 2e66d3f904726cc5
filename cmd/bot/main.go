package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // IANA zones for hosts without zoneinfo

	"birthday_notification_bot/internal/app"
	"birthday_notification_bot/internal/domain/notification"
	"birthday_notification_bot/internal/infra/config"
	idb "birthday_notification_bot/internal/infra/database"
	"birthday_notification_bot/internal/infra/discord"
	"birthday_notification_bot/internal/infra/logger"
	"birthday_notification_bot/internal/infra/scheduler"
	"birthday_notification_bot/internal/infra/telegram"

	"gopkg.in/telebot.v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.WithError(err).Fatal("Could not load application configuration")
	}
	logger.Init(cfg)
	mainLogger := logger.Component("main")

	doc, err := config.LoadDocument(cfg.BirthdaysPath)
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not load birthdays configuration")
	}
	mainLogger.WithField("path", cfg.BirthdaysPath).Info("Birthdays configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Optional delivery log
	var deliveries notification.Repository = notification.NopRepository{}
	if cfg.DatabaseURL != "" {
		db, err := idb.NewPostgresConnection(ctx, cfg.DatabaseURL)
		if err != nil {
			mainLogger.WithError(err).Fatal("Could not connect to database")
		}
		defer db.Close()
		if err := idb.EnsureSchema(ctx, db); err != nil {
			mainLogger.WithError(err).Fatal("Could not prepare database schema")
		}
		deliveries = idb.NewPostgresDeliveryRepository(db)
		mainLogger.Info("Delivery log enabled.")
	}

	// Senders per target kind
	senders := notification.Senders{
		notification.KindDiscord: discord.NewWebhookClient(cfg.WebhookTimeout, cfg.DispatchRatePerSec),
	}
	var bot *telebot.Bot
	if cfg.TelegramToken != "" {
		bot, err = telebot.NewBot(telebot.Settings{
			Token:  cfg.TelegramToken,
			Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
			OnError: func(err error, c telebot.Context) {
				entry := logger.Component("telebot").WithError(err)
				if c != nil && c.Sender() != nil {
					entry = entry.WithField("sender_id", c.Sender().ID)
				}
				entry.Error("Telegram bot error")
			},
		})
		if err != nil {
			mainLogger.WithError(err).Fatal("Could not create Telegram bot")
		}
		senders[notification.KindTelegram] = telegram.NewTelebotAdapter(bot)
	} else if doc.UsesKind(notification.KindTelegram) {
		mainLogger.Warn("TELEGRAM_TOKEN is not set; telegram groups will fail to deliver.")
	}

	roster := app.BuildRoster(doc, time.Now(), logger.Component("roster"))

	notifService := app.NewNotificationServiceImpl(
		doc.Targets(),
		senders,
		deliveries,
		logger.Component("notifier"),
		cfg.WebhookTimeout,
	)

	if bot != nil {
		telegram.RegisterBotCommands(bot, roster.People(), time.Now, logger.Component("telegram"))
		go bot.Start()
		mainLogger.Info("Telegram bot started.")
	}

	// Liveness ping, environment overrides the document
	var pinger *scheduler.Pinger
	hc := config.HealthcheckConfig{}
	if doc.Healthcheck != nil {
		hc = *doc.Healthcheck
	}
	if cfg.HealthcheckURL != "" {
		hc.URL = cfg.HealthcheckURL
	}
	interval := hc.Every()
	if cfg.HealthcheckEvery > 0 {
		interval = cfg.HealthcheckEvery
	}
	if hc.URL != "" {
		pinger = scheduler.NewPinger(hc.URL, interval, cfg.WebhookTimeout, logger.Component("healthcheck"))
		if err := pinger.Start(); err != nil {
			mainLogger.WithError(err).Error("Could not start healthcheck pinger")
			pinger = nil
		}
	}

	birthdayScheduler := scheduler.NewBirthdayScheduler(
		roster,
		notifService,
		logger.Component("scheduler"),
		cfg.ReferenceTimezone,
		cfg.CheckMargin,
	)
	birthdayScheduler.Start(ctx)

	mainLogger.Info("Application setup complete. Waiting for birthdays...")
	<-ctx.Done()

	mainLogger.Info("Shutting down application...")
	birthdayScheduler.Stop()
	if pinger != nil {
		pinger.Stop()
	}
	if bot != nil {
		bot.Stop()
	}
	mainLogger.Info("Application shut down gracefully.")
}
