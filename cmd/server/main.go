package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"hedgebot/internal/api"
	"hedgebot/internal/bot"
	"hedgebot/internal/config"
	"hedgebot/internal/marketdata"
	"hedgebot/internal/models"
	"hedgebot/internal/repository"
	"hedgebot/internal/service"
	"hedgebot/internal/websocket"
	"hedgebot/pkg/utils"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализация логирования
	logger := utils.InitGlobalLogger(utils.LogConfig{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	defer logger.Sync()

	// Инициализация базы данных.
	// Недоступная БД не мешает запуску: мониторинг и хеджирование
	// работают в памяти, журнал уведомлений и история в БД отключаются.
	db, err := initDatabase(cfg)
	if err != nil {
		logger.Warn("database unavailable, running without persistence",
			utils.String("dsn", cfg.Database.DSNWithoutPassword()),
			utils.Err(err),
		)
		db = nil
	} else {
		defer db.Close()
		logger.Info("connected to database", utils.String("dsn", cfg.Database.DSNWithoutPassword()))
	}

	// Рыночные данные и риск-модель
	provider := marketdata.NewSimulatedProvider(cfg.Bot.MarketSeed)
	provider.FailureRate = cfg.Bot.MarketFailureRate

	model := bot.NewStochasticModel(provider, cfg.Bot.MarketSeed)

	// Компоненты цикла мониторинга
	registry := bot.NewMonitorRegistry()
	tracker := bot.NewSnapshotTracker(16)
	executor := bot.NewHedgeExecutor(provider, logger.Logger, cfg.Bot.ExecuteTimeout)
	notifier := bot.NewChannelNotifier(cfg.Bot.NotificationBuffer)

	// WebSocket hub
	hub := websocket.NewHub()
	go hub.Run()
	defer hub.Stop()

	// Инициализация сервисов
	monitorService := service.NewMonitorService(registry, executor, tracker, logger.Logger)
	historyService := service.NewHistoryService(executor, logger.Logger)

	var notificationService *service.NotificationService
	if db != nil {
		hedgeRepo := repository.NewHedgeRepository(db)
		notificationRepo := repository.NewNotificationRepository(db)

		notificationService = service.NewNotificationService(notificationRepo)
		notificationService.SetWebSocketHub(hub)

		monitorService.SetHedgeRepository(hedgeRepo)
		monitorService.SetNotificationService(notificationService)
		historyService.SetHedgeRepository(hedgeRepo)
	}

	// Цикл мониторинга рисков
	engineCfg := bot.Config{
		TickInterval:       cfg.Bot.TickInterval,
		AlertCooldown:      cfg.Bot.AlertCooldown,
		ErrorBackoff:       cfg.Bot.ErrorBackoff,
		GlobalVarThreshold: cfg.Bot.GlobalVarThreshold,
		EvaluateTimeout:    cfg.Bot.EvaluateTimeout,
	}
	engine := bot.NewEngine(registry, model, executor, notifier, tracker, logger.Logger, engineCfg)

	engineCtx, stopEngine := context.WithCancel(context.Background())
	defer stopEngine()
	go engine.Run(engineCtx)

	// Потребитель уведомлений цикла: журнал БД + WebSocket broadcast
	go consumeNotifications(notifier, notificationService, hub)

	// Настройка зависимостей для API
	deps := &api.Dependencies{
		MonitorService: monitorService,
		HistoryService: historyService,
		Hub:            hub,
		APITokenHash:   cfg.Security.APITokenHash,
	}
	if notificationService != nil {
		deps.NotificationService = notificationService
	}

	// Настройка HTTP роутера
	router := api.SetupRoutes(deps)

	// HTTP сервер
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Запуск сервера в отдельной горутине
	go func() {
		logger.Info("starting server", utils.String("addr", server.Addr))
		if cfg.Server.UseHTTPS {
			if err := server.ListenAndServeTLS(cfg.Server.CertFile, cfg.Server.KeyFile); err != nil && err != http.ErrServerClosed {
				logger.Fatal("server failed", utils.Err(err))
			}
		} else {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Fatal("server failed", utils.Err(err))
			}
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	// Останавливаем цикл мониторинга
	stopEngine()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", utils.Err(err))
	}

	logger.Info("server exited")
}

// consumeNotifications раздает уведомления цикла мониторинга.
//
// Каждое уведомление пишется в журнал БД (если БД доступна) и
// рассылается WebSocket клиентам. Сбой журнала не мешает broadcast.
func consumeNotifications(notifier *bot.ChannelNotifier, svc *service.NotificationService, hub *websocket.Hub) {
	for notif := range notifier.Notifications() {
		if svc != nil {
			// CreateNotification делает и запись в БД, и broadcast
			if err := svc.CreateNotification(notif); err != nil {
				utils.Warn("failed to persist notification",
					utils.String("type", notif.Type),
					utils.Err(err),
				)
			}
			continue
		}

		broadcastDirect(hub, notif)
	}
}

// broadcastDirect отправляет уведомление в hub без журнала БД
func broadcastDirect(hub *websocket.Hub, notif *models.Notification) {
	if hub == nil || notif == nil {
		return
	}
	hub.BroadcastNotification(notif)
}

// initDatabase создает подключение к базе данных
func initDatabase(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open(cfg.Database.Driver, cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Настройка пула соединений
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Проверка подключения
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
