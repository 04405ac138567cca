package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hedgebot/internal/api/handlers"
	"hedgebot/internal/api/middleware"
	"hedgebot/internal/service"
	"hedgebot/internal/websocket"
)

// Dependencies содержит все зависимости для API handlers
type Dependencies struct {
	MonitorService      service.MonitorServiceInterface
	HistoryService      service.HistoryServiceInterface
	NotificationService service.NotificationServiceInterface

	// Hub для WebSocket endpoint (может быть nil, тогда endpoint не регистрируется)
	Hub *websocket.Hub

	// APITokenHash - bcrypt-хеш API токена.
	// Пустое значение отключает аутентификацию.
	APITokenHash string
}

// SetupRoutes настраивает все HTTP маршруты приложения
//
// Назначение:
// Центральное место для определения всех API endpoints.
// Регистрирует handlers для каждого маршрута.
// Применяет middleware к группам маршрутов.
// Организует версионирование API (v1).
//
// Структура маршрутов:
//
// /api/v1/
//
//	├── /monitors/
//	│   ├── POST / - запустить мониторинг рисков для подписчика
//	│   ├── GET / - список активных мониторов
//	│   ├── GET /{subscriber} - статус монитора
//	│   ├── PUT /{subscriber}/hedge - настроить авто-хеджирование
//	│   └── DELETE /{subscriber} - остановить мониторинг
//	├── /hedges/
//	│   ├── POST / - ручное исполнение хеджа
//	│   └── GET /{asset}/history - история хеджей по активу
//	└── /notifications/
//	    ├── GET / - получить уведомления
//	    └── DELETE / - очистить журнал
//
// /ws/
//
//	└── /stream - WebSocket для real-time обновлений
//
// /health - проверка живости
// /metrics - Prometheus метрики
//
// Middleware применяется в следующем порядке:
// 1. Recovery (для всех маршрутов)
// 2. Logging (для всех маршрутов)
// 3. CORS (для всех маршрутов)
// 4. TokenAuth (только для /api/v1, если задан хеш токена)
// 5. RateLimit (только для /api/v1)
func SetupRoutes(deps *Dependencies) *mux.Router {
	router := mux.NewRouter()

	// Глобальные middleware (применяются ко всем маршрутам)
	router.Use(middleware.Recovery)
	router.Use(middleware.Logging)
	router.Use(middleware.CORS)

	// Создание handlers с внедрением зависимостей
	var monitorHandler *handlers.MonitorHandler
	if deps != nil && deps.MonitorService != nil {
		monitorHandler = handlers.NewMonitorHandler(deps.MonitorService)
	}

	var hedgeHandler *handlers.HedgeHandler
	if deps != nil && deps.MonitorService != nil && deps.HistoryService != nil {
		hedgeHandler = handlers.NewHedgeHandler(deps.MonitorService, deps.HistoryService)
	}

	var notificationHandler *handlers.NotificationHandler
	if deps != nil && deps.NotificationService != nil {
		notificationHandler = handlers.NewNotificationHandler(deps.NotificationService)
	}

	// API v1 routes
	api := router.PathPrefix("/api/v1").Subrouter()

	// Аутентификация по bearer токену для всего API.
	// При пустом хеше middleware пропускает все запросы.
	if deps != nil {
		api.Use(middleware.NewTokenAuth(deps.APITokenHash))
	}

	// Rate limiting: чтение дешевое, запись лимитируется жестче
	api.Use(middleware.NewRateLimit(50, 10))

	// Monitor routes
	if monitorHandler != nil {
		api.HandleFunc("/monitors", monitorHandler.StartMonitoring).Methods("POST")
		api.HandleFunc("/monitors", monitorHandler.ListMonitors).Methods("GET")
		api.HandleFunc("/monitors/{subscriber}", monitorHandler.GetStatus).Methods("GET")
		api.HandleFunc("/monitors/{subscriber}/hedge", monitorHandler.ConfigureHedge).Methods("PUT")
		api.HandleFunc("/monitors/{subscriber}", monitorHandler.StopMonitoring).Methods("DELETE")
	}

	// Hedge routes
	if hedgeHandler != nil {
		api.HandleFunc("/hedges", hedgeHandler.ManualHedge).Methods("POST")
		api.HandleFunc("/hedges/{asset}/history", hedgeHandler.GetHistory).Methods("GET")
	}

	// Notification routes
	if notificationHandler != nil {
		api.HandleFunc("/notifications", notificationHandler.GetNotifications).Methods("GET")
		api.HandleFunc("/notifications", notificationHandler.ClearNotifications).Methods("DELETE")
	}

	// WebSocket route
	if deps != nil && deps.Hub != nil {
		hub := deps.Hub
		router.HandleFunc("/ws/stream", func(w http.ResponseWriter, r *http.Request) {
			websocket.ServeWS(hub, w, r)
		})
	}

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	return router
}
