package main

import (
	"database/sql"
	"log/slog"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	slogfiber "github.com/samber/slog-fiber"

	"github.com/pointsledger/loyalty-points-backend/internal/backup"
	"github.com/pointsledger/loyalty-points-backend/internal/config"
	"github.com/pointsledger/loyalty-points-backend/internal/correction"
	"github.com/pointsledger/loyalty-points-backend/internal/earning"
	"github.com/pointsledger/loyalty-points-backend/internal/ledger"
	"github.com/pointsledger/loyalty-points-backend/internal/notification"
	"github.com/pointsledger/loyalty-points-backend/internal/session"
	"github.com/pointsledger/loyalty-points-backend/internal/snapshot"
	"github.com/pointsledger/loyalty-points-backend/internal/transaction"
	"github.com/pointsledger/loyalty-points-backend/internal/user"
	"github.com/pointsledger/loyalty-points-backend/internal/voucher"
)

type persistentStore interface {
	ledger.Persister
	Load() (ledger.AppData, error)
}

func main() {
	_ = godotenv.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(os.Getenv("LOYALTY_CONFIG"))
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}
	if cfg.Auth.Secret == "" {
		logger.Error("auth.secret is not set")
		os.Exit(1)
	}

	persister, cleanup, err := openSnapshotStore(cfg)
	if err != nil {
		logger.Error("open snapshot store", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	data, err := persister.Load()
	if err != nil {
		// an unreadable snapshot must not brick the service; start from the
		// seeded aggregate and leave the broken file for the operator
		logger.Warn("snapshot unreadable, starting from seed", "error", err)
		data = ledger.Bootstrap()
	}

	egp, discount, commission := cfg.Rates()
	rates := ledger.Rates{EGPPerPoint: egp, DiscountPerPoint: discount, CommissionRate: commission}
	store := ledger.NewStore(data, persister, nil, rates, logger)
	sessions := session.NewManager(cfg.Auth.Secret, cfg.Auth.TTL)

	app := fiber.New()
	app.Use(slogfiber.New(logger))
	setupCORS(app)

	userHandler := user.NewHandler(user.NewService(store), sessions)
	transactionHandler := transaction.NewHandler(transaction.NewService(store))
	voucherHandler := voucher.NewHandler(voucher.NewService(store))
	correctionHandler := correction.NewHandler(correction.NewService(store))
	notificationHandler := notification.NewHandler(notification.NewService(store))
	earningHandler := earning.NewHandler(earning.NewService(store))
	backupHandler := backup.NewHandler(store)

	userHandler.RegisterPublicRoutes(app)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.Auth.Secret),
	}))
	app.Use(sessions.RequireActive())

	userHandler.RegisterProtectedRoutes(app)
	transactionHandler.RegisterProtectedRoutes(app)
	voucherHandler.RegisterProtectedRoutes(app)
	correctionHandler.RegisterProtectedRoutes(app)
	notificationHandler.RegisterProtectedRoutes(app)
	earningHandler.RegisterProtectedRoutes(app)
	backupHandler.RegisterProtectedRoutes(app)

	logger.Info("listening", "addr", cfg.Server.Addr, "storage", cfg.Snapshot.Storage)
	if err := app.Listen(cfg.Server.Addr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func openSnapshotStore(cfg config.Config) (persistentStore, func(), error) {
	switch cfg.Snapshot.Storage {
	case "postgres":
		db, err := sql.Open("pgx", cfg.Snapshot.DSN)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, nil, err
		}
		store, err := snapshot.NewPostgresStore(db)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, func() { db.Close() }, nil
	default:
		return snapshot.NewFileStore(cfg.Snapshot.Path), func() {}, nil
	}
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}
