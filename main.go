package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"ff-portal/config"
	"ff-portal/handlers"
	"ff-portal/logger"
	"ff-portal/models"
	"ff-portal/services"
	"ff-portal/utils"
	"ff-portal/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.FromEnv()
	logger.Init(cfg.Debug)
	defer logger.Sync()
	if envErr != nil {
		logger.Warn("⚠️  No .env file found, reading environment variables directly")
	}
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	db, err := openDatabase(cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := models.AutoMigrate(db); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var banners services.ObjectStore
	if cfg.R2Enabled() {
		banners, err = utils.NewR2Store(ctx, cfg)
		if err != nil {
			logger.Fatal("failed to initialize R2 client", zap.Error(err))
		}
	} else {
		banners, err = utils.NewLocalStore("uploads", "/uploads")
		if err != nil {
			logger.Fatal("failed to ensure upload dir", zap.Error(err))
		}
		logger.Warn("⚠️  R2 not configured, banners are stored in ./uploads")
	}

	identity, err := services.NewIdentityProvider(cfg, db)
	if err != nil {
		logger.Fatal("failed to set up identity provider", zap.Error(err))
	}

	hub := services.NewChangeHub()
	go hub.Run(ctx)

	accountService := services.NewAccountService(db, identity, hub, cfg.LoginEmailDomain)
	tournamentService := services.NewTournamentService(db, hub, banners)
	walletService := services.NewWalletService(db, hub)
	supportService := services.NewSupportService(db, hub)
	contentService := services.NewContentService(db, hub)
	rewardService := services.NewRewardService(db, hub)
	streamService := services.NewStreamService(hub, identity, tournamentService, walletService, supportService, contentService, accountService)

	sched, err := services.StartStatusScheduler(services.NewStatusWatcher(db, hub), cfg.StatusTickInterval)
	if err != nil {
		logger.Fatal("failed to start status scheduler", zap.Error(err))
	}

	workers.NewChangePoller(db, hub, cfg.ChangePollInterval).Start(ctx)

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024,
	})

	origins := strings.Join(cfg.OriginsList(), ",")
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, Cache-Control",
		ExposeHeaders:    "Content-Length, Content-Type, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	handlers.Setup(app, handlers.Deps{
		Identity:    identity,
		Accounts:    accountService,
		Tournaments: tournamentService,
		Wallet:      walletService,
		Support:     supportService,
		Content:     contentService,
		Rewards:     rewardService,
		Stream:      streamService,
	})

	app.Static("/uploads", "./uploads")

	go func() {
		if err := app.Listen(cfg.HTTPAddr); err != nil {
			logger.Error("server error", zap.Error(err))
			stop()
		}
	}()

	logger.Info("✅ Server running", zap.String("addr", cfg.HTTPAddr))
	logger.Info("✅ Identity provider", zap.String("provider", cfg.IdentityProvider))
	logger.Info("✅ Status ticks", zap.Duration("interval", cfg.StatusTickInterval))
	logger.Info("✅ CORS configured", zap.String("origins", origins))

	<-ctx.Done()
	logger.Info("Shutting down server...")

	if err := sched.Shutdown(); err != nil {
		logger.Warn("scheduler shutdown", zap.Error(err))
	}
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
}

func openDatabase(cfg config.Config) (*gorm.DB, error) {
	switch cfg.DBDriver {
	case "sqlite":
		return gorm.Open(sqlite.Open(cfg.SQLitePath+"?_foreign_keys=on&_busy_timeout=5000"), &gorm.Config{})
	default:
		return gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	}
}
