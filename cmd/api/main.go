package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Sheyswaggz/hotel-check-in-3-sub001/internal/api"
	"github.com/Sheyswaggz/hotel-check-in-3-sub001/internal/api/handler"
	apimiddleware "github.com/Sheyswaggz/hotel-check-in-3-sub001/internal/api/middleware"
	"github.com/Sheyswaggz/hotel-check-in-3-sub001/internal/application"
	"github.com/Sheyswaggz/hotel-check-in-3-sub001/internal/config"
	"github.com/Sheyswaggz/hotel-check-in-3-sub001/internal/infrastructure/mq"
	"github.com/Sheyswaggz/hotel-check-in-3-sub001/internal/infrastructure/postgres"
	redisinfra "github.com/Sheyswaggz/hotel-check-in-3-sub001/internal/infrastructure/redis"
	"github.com/Sheyswaggz/hotel-check-in-3-sub001/internal/pkg/logger"
	"github.com/Sheyswaggz/hotel-check-in-3-sub001/internal/pkg/metrics"
	"github.com/Sheyswaggz/hotel-check-in-3-sub001/internal/worker"
)

func main() {
	// .env があれば読み込む（ローカル開発用）
	_ = godotenv.Load()

	cfg := config.Load()

	log := logger.NewLogger(os.Getenv("APP_ENV"))
	logger.Set(log)
	defer logger.Sync()

	// PostgreSQL
	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		logger.Fatal("データベース接続に失敗", zap.Error(err))
	}
	defer db.Close()

	// マイグレーション
	migrationsPath := os.Getenv("MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "migrations"
	}
	if err := postgres.RunMigrations(db.DB, migrationsPath); err != nil {
		logger.Fatal("マイグレーションに失敗", zap.Error(err))
	}

	// Redis（ロック・キャッシュ）
	redisClient := redisinfra.NewClient(&cfg.Redis)
	defer redisClient.Close()

	ctx := context.Background()
	var (
		lockManager *redisinfra.LockManager
		statusCache *redisinfra.RoomStatusCache
	)
	if err := redisinfra.Ping(ctx, redisClient); err != nil {
		// Redisなしでも起動する（ロック・キャッシュは無効化）
		logger.Warn("Redisに接続できないため、分散ロックとキャッシュを無効化します", zap.Error(err))
	} else {
		lockManager = redisinfra.NewLockManager(redisClient)
		statusCache = redisinfra.NewRoomStatusCache(redisClient)
	}

	// RabbitMQ（予約イベント発行、URL未設定なら無効）
	var publisher *mq.Publisher
	if cfg.RabbitMQ.URL != "" {
		publisher, err = mq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			logger.Warn("RabbitMQに接続できないため、イベント発行を無効化します", zap.Error(err))
		} else {
			defer publisher.Close()
		}
	}

	// メトリクス
	m := metrics.Init()

	// リポジトリ・サービス
	roomRepo := postgres.NewRoomRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	txManager := postgres.NewTxManager(db)

	bookingService := application.NewBookingService(txManager, bookingRepo, roomRepo, lockManager, publisher, m)
	roomService := application.NewRoomService(roomRepo, statusCache)

	// ハンドラー
	bookingHandler := handler.NewBookingHandler(bookingService)
	roomHandler := handler.NewRoomHandler(roomService, bookingService)
	healthHandler := handler.NewHealthHandler()

	// Echo セットアップ
	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	apimiddleware.SetupMiddleware(e)
	e.Use(apimiddleware.PrometheusMiddleware(m))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), apimiddleware.MetricsBasicAuth())

	api.RegisterRoutes(e, bookingHandler, roomHandler, healthHandler)

	// ノーショー掃き出しワーカー
	workerCtx, workerCancel := context.WithCancel(ctx)
	sweeper := worker.NewNoShowSweeper(bookingService, cfg.Sweeper.Interval)
	go sweeper.Start(workerCtx)

	// サーバー起動
	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("サーバー起動エラー", zap.Error(err))
		}
	}()

	// シグナル待機
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("サーバーをシャットダウンしています...")

	workerCancel()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("サーバーシャットダウンエラー", zap.Error(err))
	}

	logger.Info("サーバーが正常にシャットダウンしました")
}
