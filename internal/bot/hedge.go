package bot

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"hedgebot/internal/marketdata"
	"hedgebot/internal/models"
	"hedgebot/pkg/retry"
)

// Ошибки исполнения хеджей
var (
	// ErrExecutionFailed возвращается когда хедж не исполнен
	// (рыночные данные недоступны). Запись в истории при этом
	// все равно создается со статусом failed.
	ErrExecutionFailed = errors.New("hedge execution failed")

	// ErrInvalidHedgeSize возвращается при неположительном или
	// нечисловом размере хеджа
	ErrInvalidHedgeSize = errors.New("hedge size must be a positive finite number")
)

// Коэффициент пересчета delta-экспозиции в размер хеджа
const hedgeRatio = 1.0

// RecommendedHedge вычисляет рекомендуемый размер хеджа
//
// Чистая функция: positionSize × |delta| × hedgeRatio.
// Возвращает 0 если снимка нет или позиция нулевая - "нет данных"
// никогда не превращается в рекомендацию хеджировать.
func RecommendedHedge(snap *models.RiskSnapshot, positionSize float64) float64 {
	if snap == nil || positionSize == 0 {
		return 0
	}
	return positionSize * math.Abs(snap.Delta) * hedgeRatio
}

// HedgeExecutor исполняет хеджи и ведет append-only историю
//
// История хранится в памяти по активам. Каждая попытка исполнения
// (успешная или нет) добавляет запись; дедупликации нет. История
// переживает остановку монитора - запросы по активу работают и
// после stop.
//
// Цена запрашивается с ретраями: недоступность рыночных данных -
// transient-ошибка. Если цена так и не получена, хедж фиксируется
// со статусом failed и нулевой ценой.
type HedgeExecutor struct {
	provider marketdata.Provider
	logger   *zap.Logger

	// Таймаут на одно исполнение (включая ретраи цены)
	timeout time.Duration

	// Конфигурация ретраев запроса цены
	retryCfg retry.Config

	mu      sync.RWMutex
	history map[string][]models.HedgeExecution
	nextID  int
}

// NewHedgeExecutor создает исполнитель хеджей
func NewHedgeExecutor(provider marketdata.Provider, logger *zap.Logger, timeout time.Duration) *HedgeExecutor {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	cfg := retry.DefaultConfig()
	cfg.MaxRetries = 2
	cfg.InitialDelay = 100 * time.Millisecond

	return &HedgeExecutor{
		provider: provider,
		logger:   logger,
		timeout:  timeout,
		retryCfg: cfg,
		history:  make(map[string][]models.HedgeExecution),
		nextID:   1,
	}
}

// Execute исполняет хедж заданного размера по активу
//
// Возвращает запись об исполнении. Ошибка ErrExecutionFailed
// означает что цена недоступна - запись со статусом failed при
// этом уже добавлена в историю.
func (e *HedgeExecutor) Execute(ctx context.Context, asset string, size float64) (models.HedgeExecution, error) {
	if size <= 0 || math.IsNaN(size) || math.IsInf(size, 0) {
		return models.HedgeExecution{}, fmt.Errorf("%w: got %v", ErrInvalidHedgeSize, size)
	}

	execCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	price, err := retry.DoWithResult(execCtx, func() (float64, error) {
		return e.provider.GetPrice(execCtx, asset)
	}, e.retryCfg)

	exec := models.HedgeExecution{
		Asset:      asset,
		Size:       size,
		ExecutedAt: time.Now().UTC(),
	}

	if err != nil {
		exec.Status = models.HedgeExecutionFailed
		exec.ErrorMessage = err.Error()
		e.append(&exec)

		e.logger.Warn("hedge execution failed",
			zap.String("asset", asset),
			zap.Float64("size", size),
			zap.Error(err),
		)
		return exec, fmt.Errorf("%w: %v", ErrExecutionFailed, err)
	}

	exec.Price = price
	exec.Status = models.HedgeExecutionFilled
	e.append(&exec)

	e.logger.Info("hedge executed",
		zap.String("asset", asset),
		zap.Float64("size", size),
		zap.Float64("price", price),
	)
	return exec, nil
}

// History возвращает копию истории исполнений по активу
func (e *HedgeExecutor) History(asset string) []models.HedgeExecution {
	e.mu.RLock()
	defer e.mu.RUnlock()

	src := e.history[asset]
	out := make([]models.HedgeExecution, len(src))
	copy(out, src)
	return out
}

// HistorySince возвращает исполнения по активу не старше указанного времени
func (e *HedgeExecutor) HistorySince(asset string, since time.Time) []models.HedgeExecution {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var out []models.HedgeExecution
	for _, exec := range e.history[asset] {
		if !exec.ExecutedAt.Before(since) {
			out = append(out, exec)
		}
	}
	return out
}

// append добавляет запись в историю и присваивает ей ID
func (e *HedgeExecutor) append(exec *models.HedgeExecution) {
	e.mu.Lock()
	exec.ID = e.nextID
	e.nextID++
	e.history[exec.Asset] = append(e.history[exec.Asset], *exec)
	e.mu.Unlock()
}
