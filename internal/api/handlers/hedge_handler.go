package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"hedgebot/internal/bot"
	"hedgebot/internal/service"
)

// HedgeHandler отвечает за исполнение хеджей и историю
//
// Endpoints:
// - POST /api/v1/hedges - ручное исполнение хеджа
// - GET /api/v1/hedges/{asset}/history - история хеджей по активу
//
// Назначение:
// Ручной хедж исполняется вне цикла авто-хеджирования и не требует
// активного монитора. История append-only: в выборку попадают и
// успешные, и неудавшиеся попытки за запрошенный таймфрейм.
type HedgeHandler struct {
	monitorService service.MonitorServiceInterface
	historyService service.HistoryServiceInterface
}

// NewHedgeHandler создает новый HedgeHandler с внедрением зависимостей
func NewHedgeHandler(monitorService service.MonitorServiceInterface, historyService service.HistoryServiceInterface) *HedgeHandler {
	return &HedgeHandler{
		monitorService: monitorService,
		historyService: historyService,
	}
}

// ManualHedgeRequest представляет запрос ручного хеджа
type ManualHedgeRequest struct {
	Asset string  `json:"asset"`
	Size  float64 `json:"size"`
}

// ManualHedge исполняет хедж по запросу
//
// POST /api/v1/hedges
//
// Body: {asset, size}
//
// HTTP коды:
// - 200 OK: хедж исполнен, возвращает запись
// - 400 Bad Request: невалидный размер
// - 502 Bad Gateway: рыночные данные недоступны, failed-запись создана
//   и возвращается в теле ответа
func (h *HedgeHandler) ManualHedge(w http.ResponseWriter, r *http.Request) {
	var req ManualHedgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid JSON body: "+err.Error())
		return
	}

	exec, err := h.monitorService.ManualHedge(r.Context(), req.Asset, req.Size)
	if err != nil {
		switch {
		case errors.Is(err, bot.ErrInvalidHedgeSize), errors.Is(err, bot.ErrInvalidArgument):
			h.respondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, bot.ErrExecutionFailed):
			// Запись failed уже в истории - отдаем ее вместе с ошибкой
			h.respondWithJSON(w, http.StatusBadGateway, map[string]interface{}{
				"error":     err.Error(),
				"execution": exec,
			})
		default:
			h.respondWithError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	h.respondWithJSON(w, http.StatusOK, exec)
}

// GetHistory возвращает историю хеджей по активу за таймфрейм
//
// GET /api/v1/hedges/{asset}/history
//
// Query параметры:
// - timeframe (string): окно выборки вида "24h" или "7d" (по умолчанию 24h)
//
// Примеры запросов:
// - GET /api/v1/hedges/BTC/history - за последние сутки
// - GET /api/v1/hedges/BTC/history?timeframe=7d - за неделю
//
// HTTP коды:
// - 200 OK: возвращает сводку и список исполнений (возможно пустой)
// - 400 Bad Request: неизвестный формат таймфрейма
func (h *HedgeHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	asset := vars["asset"]
	timeframe := r.URL.Query().Get("timeframe")

	history, err := h.historyService.GetHistory(asset, timeframe)
	if err != nil {
		if errors.Is(err, bot.ErrInvalidArgument) {
			h.respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.respondWithJSON(w, http.StatusOK, history)
}

// respondWithError отправляет JSON ошибку
func (h *HedgeHandler) respondWithError(w http.ResponseWriter, code int, message string) {
	h.respondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithJSON отправляет JSON ответ
func (h *HedgeHandler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
