package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"homework_bot/internal/app"
	"homework_bot/internal/infra/cleaner"
	"homework_bot/internal/infra/config"
	idb "homework_bot/internal/infra/database"
	"homework_bot/internal/infra/httpserver"
	"homework_bot/internal/infra/logger"
	"homework_bot/internal/infra/scheduler"
	"homework_bot/internal/infra/session"
	"homework_bot/internal/infra/telegram"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	"gopkg.in/telebot.v3"
	"gopkg.in/telebot.v3/middleware"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bot, the reminder scheduler and the health server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("could not load application configuration: %w", err)
	}
	logger.Init(cfg)
	mainLogger := logger.Component("main")
	mainLogger.WithFields(logrus.Fields{
		"environment": cfg.Environment,
		"driver":      cfg.DatabaseDriver,
		"operators":   len(cfg.OperatorIDs),
		"timezone":    cfg.Location.String(),
	}).Info("Configuration loaded")

	db, err := idb.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("could not connect to database: %w", err)
	}
	defer db.Close()
	mainLogger.Info("Database connection established successfully.")

	migrator, err := idb.NewMigrator(db, logger.Component("migrate"))
	if err != nil {
		return err
	}
	if err := migrator.Up(ctx); err != nil {
		return err
	}

	homeworkRepo := idb.NewHomeworkRepository(db)
	scheduleRepo := idb.NewScheduleRepository(db)
	chatRepo := idb.NewChatRepository(db)

	pref := telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: cfg.PollTimeout},
		OnError: func(err error, c telebot.Context) { // Global error handler
			entry := logger.Component("telebot").WithError(err)
			if c != nil && c.Sender() != nil && c.Chat() != nil {
				entry = entry.WithFields(logrus.Fields{"sender_id": c.Sender().ID, "chat_id": c.Chat().ID})
			}
			entry.Error("Telegram error")
		},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		return fmt.Errorf("could not create Telegram bot: %w", err)
	}
	bot.Use(middleware.Recover())
	if err := telegram.PublishProfile(bot); err != nil {
		mainLogger.WithError(err).Warn("Could not publish bot commands and description")
	}
	client := telegram.NewTelebotAdapter(bot)

	msgCleaner := cleaner.New(client, logger.Component("cleaner"))
	msgCleaner.Start()
	expirer := app.NewMessageExpirer(msgCleaner, app.ExpiryDelays{
		Default:  cfg.EphemeralDefaultDelay,
		Welcome:  cfg.EphemeralWelcomeDelay,
		Schedule: cfg.EphemeralScheduleDelay,
		Content:  cfg.EphemeralContentDelay,
	})

	subjects := app.NewSubjectService(homeworkRepo, scheduleRepo)
	broadcaster := app.NewBroadcastService(chatRepo, client,
		rate.NewLimiter(rate.Limit(cfg.BroadcastRate), 1), logger.Component("broadcast"))
	conversation := app.NewConversationService(
		session.NewMemoryStore(),
		app.NewStaticOperators(cfg.OperatorIDs),
		homeworkRepo, scheduleRepo, subjects, broadcaster, client, expirer,
		logger.Component("conversation"),
	).WithLocation(cfg.Location)
	viewer := app.NewViewerService(chatRepo, homeworkRepo, scheduleRepo, subjects, client, expirer,
		logger.Component("viewer")).WithLocation(cfg.Location)
	dispatcher := app.NewBotService(conversation, viewer, client, logger.Component("dispatcher"))

	telegram.RegisterHandlers(ctx, bot, dispatcher, logger.Component("telegram"))

	reminders := scheduler.NewReminderScheduler(
		app.NewReminderService(homeworkRepo, broadcaster, logger.Component("reminder")),
		logger.Component("scheduler"),
		cfg.CronSpecDaily,
		cfg.Location,
	)
	if err := reminders.Start(); err != nil {
		msgCleaner.Stop(false)
		return err
	}

	mainLogger.Info("Application setup complete. Bot and Scheduler are starting...")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		bot.Start() // Blocks until bot.Stop
		return nil
	})
	g.Go(func() error {
		return httpserver.Run(gctx, ":"+cfg.Port, httpserver.NewRouter(db, logger.Component("http")), logger.Component("http"))
	})
	g.Go(func() error {
		<-gctx.Done()
		mainLogger.Info("Shutting down application...")
		bot.Stop()
		reminders.Stop()
		msgCleaner.Stop(true)
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	mainLogger.Info("Application shut down gracefully.")
	return nil
}
