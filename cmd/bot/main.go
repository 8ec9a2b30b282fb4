package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"

	"github.com/sojokerto/absensi-bot/internal/app"
	"github.com/sojokerto/absensi-bot/internal/attendance"
	"github.com/sojokerto/absensi-bot/internal/bot/handlers"
	"github.com/sojokerto/absensi-bot/internal/config"
	"github.com/sojokerto/absensi-bot/internal/ctxutil"
	"github.com/sojokerto/absensi-bot/internal/jobs"
	"github.com/sojokerto/absensi-bot/internal/logging"
	"github.com/sojokerto/absensi-bot/internal/observability"
	"github.com/sojokerto/absensi-bot/internal/storage/postgres"
)

const release = "absensi-bot@1.0.0"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not found, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	lg, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("logging: %v", err)
	}
	defer lg.Closer()
	sugar := lg.Sugar

	flushSentry, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, release)
	if err != nil {
		sugar.Warnw("sentry init", "err", err)
	}
	defer flushSentry()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		sugar.Fatalw("db open", "err", err)
	}
	defer func() { _ = db.Close() }()

	if err := postgres.Migrate(db); err != nil {
		sugar.Fatalw("db migrate", "err", err)
	}

	store := postgres.New(db)
	{
		seedCtx, cancel := ctxutil.WithDBTimeout(ctx)
		err := store.SeedIfEmpty(seedCtx)
		cancel()
		if err != nil {
			sugar.Fatalw("db seed", "err", err)
		}
	}

	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		sugar.Fatalw("bot init", "err", err)
	}
	sugar.Infow("bot started", "username", bot.Self.UserName, "school", cfg.SchoolName)

	env := &handlers.Env{
		Bot:    bot,
		Store:  store,
		Svc:    attendance.NewService(store),
		Log:    sugar,
		School: cfg.SchoolName,
		Loc:    cfg.Location,
	}
	dispatcher := app.NewDispatcher(env)

	app.StartHTTP(ctx, cfg.HTTPAddr, db)

	runner := jobs.New(ctx)
	reminder := &jobs.AbsensiReminder{
		Bot:   bot,
		Store: store,
		Log:   sugar,
		Loc:   cfg.Location,
		Hour:  cfg.RemindHour,
	}
	runner.Every(15*time.Minute, "absensi_reminder", reminder.Run)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			sugar.Info("shutting down")
			bot.StopReceivingUpdates()
			return
		case upd, ok := <-updates:
			if !ok {
				return
			}
			// Handled on this goroutine: the flow state maps are not
			// synchronized across chats.
			dispatcher.HandleUpdate(ctx, upd)
		}
	}
}
