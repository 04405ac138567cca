package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"hedgebot/internal/bot"
	"hedgebot/internal/service"
)

// MonitorHandler отвечает за управление риск-мониторами
//
// Endpoints:
// - POST /api/v1/monitors - запуск мониторинга позиции
// - GET /api/v1/monitors - список активных мониторов
// - GET /api/v1/monitors/{subscriber} - статус монитора подписчика
// - PUT /api/v1/monitors/{subscriber}/hedge - настройка авто-хеджирования
// - DELETE /api/v1/monitors/{subscriber} - остановка мониторинга
//
// Назначение:
// Обрабатывает команды жизненного цикла монитора: запуск с параметрами
// позиции, настройку стратегии авто-хеджа, выдачу статуса с последним
// риск-снимком и остановку. Один подписчик - один монитор; повторный
// запуск заменяет существующий.
type MonitorHandler struct {
	monitorService service.MonitorServiceInterface
}

// NewMonitorHandler создает новый MonitorHandler с внедрением зависимости
func NewMonitorHandler(monitorService service.MonitorServiceInterface) *MonitorHandler {
	return &MonitorHandler{
		monitorService: monitorService,
	}
}

// StartMonitoringRequest представляет запрос на запуск мониторинга
type StartMonitoringRequest struct {
	SubscriberID  string  `json:"subscriber_id"`
	Asset         string  `json:"asset"`
	PositionSize  float64 `json:"position_size"`
	RiskThreshold float64 `json:"risk_threshold"`
}

// ConfigureHedgeRequest представляет запрос настройки авто-хеджа
type ConfigureHedgeRequest struct {
	Strategy  string  `json:"strategy"`
	Threshold float64 `json:"threshold"`
}

// StartMonitoring запускает мониторинг позиции подписчика
//
// POST /api/v1/monitors
//
// Body: {subscriber_id, asset, position_size, risk_threshold}
//
// HTTP коды:
// - 201 Created: мониторинг запущен, возвращает монитор
// - 400 Bad Request: невалидные параметры
// - 500 Internal Server Error: ошибка сервера
func (h *MonitorHandler) StartMonitoring(w http.ResponseWriter, r *http.Request) {
	var req StartMonitoringRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid JSON body: "+err.Error())
		return
	}

	monitor, err := h.monitorService.StartMonitoring(req.SubscriberID, req.Asset, req.PositionSize, req.RiskThreshold)
	if err != nil {
		h.respondWithServiceError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusCreated, monitor)
}

// ConfigureHedge настраивает авто-хеджирование для подписчика
//
// PUT /api/v1/monitors/{subscriber}/hedge
//
// Body: {strategy, threshold}
// Стратегии: delta_neutral, protective_puts, covered_calls, dynamic
//
// HTTP коды:
// - 200 OK: настройки применены, возвращает монитор
// - 400 Bad Request: неизвестная стратегия или порог вне [0..1]
// - 404 Not Found: мониторинг не запущен
// - 500 Internal Server Error: ошибка сервера
func (h *MonitorHandler) ConfigureHedge(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	subscriberID := vars["subscriber"]

	var req ConfigureHedgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid JSON body: "+err.Error())
		return
	}

	monitor, err := h.monitorService.ConfigureHedge(subscriberID, req.Strategy, req.Threshold)
	if err != nil {
		h.respondWithServiceError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, monitor)
}

// GetStatus возвращает статус монитора с последним риск-снимком
//
// GET /api/v1/monitors/{subscriber}
//
// HTTP коды:
// - 200 OK: возвращает статус
// - 404 Not Found: мониторинг не запущен
func (h *MonitorHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	subscriberID := vars["subscriber"]

	status, err := h.monitorService.GetStatus(subscriberID)
	if err != nil {
		h.respondWithServiceError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, status)
}

// ListMonitorsResponse представляет ответ списка мониторов
type ListMonitorsResponse struct {
	Monitors interface{} `json:"monitors"`
	Total    int         `json:"total"`
}

// ListMonitors возвращает все активные мониторы
//
// GET /api/v1/monitors
func (h *MonitorHandler) ListMonitors(w http.ResponseWriter, r *http.Request) {
	monitors := h.monitorService.ListMonitors()

	h.respondWithJSON(w, http.StatusOK, ListMonitorsResponse{
		Monitors: monitors,
		Total:    len(monitors),
	})
}

// StopMonitoring останавливает мониторинг подписчика
//
// DELETE /api/v1/monitors/{subscriber}
//
// История хеджей по активу при этом сохраняется.
//
// HTTP коды:
// - 200 OK: мониторинг остановлен
// - 404 Not Found: мониторинг не запущен
func (h *MonitorHandler) StopMonitoring(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	subscriberID := vars["subscriber"]

	if err := h.monitorService.StopMonitoring(subscriberID); err != nil {
		h.respondWithServiceError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]string{
		"message": "Monitoring stopped",
	})
}

// respondWithServiceError мапит доменные ошибки на HTTP коды
func (h *MonitorHandler) respondWithServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, bot.ErrInvalidArgument):
		h.respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, bot.ErrNotMonitoring):
		h.respondWithError(w, http.StatusNotFound, err.Error())
	default:
		h.respondWithError(w, http.StatusInternalServerError, err.Error())
	}
}

// respondWithError отправляет JSON ошибку
func (h *MonitorHandler) respondWithError(w http.ResponseWriter, code int, message string) {
	h.respondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithJSON отправляет JSON ответ
func (h *MonitorHandler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
