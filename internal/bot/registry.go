package bot

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"hedgebot/internal/models"
	"hedgebot/pkg/utils"
)

// Ошибки реестра мониторов
var (
	// ErrNotMonitoring возвращается при обращении к подписчику
	// без активного монитора
	ErrNotMonitoring = errors.New("subscriber is not monitoring")

	// ErrInvalidArgument возвращается при некорректных параметрах
	// (размер позиции, порог, стратегия)
	ErrInvalidArgument = errors.New("invalid argument")
)

// MonitorRegistry - потокобезопасный реестр активных мониторов
//
// Ключ - идентификатор подписчика, один подписчик = один монитор.
// Все операции сериализуются одним мьютексом: чтения и записи
// состояния монитора никогда не пересекаются. Get и SnapshotAll
// возвращают копии - конкурентные изменения реестра не видны
// через ранее полученные значения.
type MonitorRegistry struct {
	mu       sync.RWMutex
	monitors map[string]*models.Monitor
}

// NewMonitorRegistry создает пустой реестр
func NewMonitorRegistry() *MonitorRegistry {
	return &MonitorRegistry{
		monitors: make(map[string]*models.Monitor),
	}
}

// Start запускает мониторинг для подписчика
//
// Replace-семантика: повторный запуск для того же подписчика
// заменяет монитор целиком, сбрасывая состояние алертов и таймеры.
func (r *MonitorRegistry) Start(subscriberID, asset string, positionSize, riskThreshold float64) (*models.Monitor, error) {
	if err := utils.ValidateAsset(asset); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	if err := utils.ValidatePositionSize(positionSize); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	if err := utils.ValidateThreshold(riskThreshold); err != nil {
		return nil, fmt.Errorf("%w: risk threshold: %v", ErrInvalidArgument, err)
	}

	m := &models.Monitor{
		SubscriberID:   subscriberID,
		Asset:          asset,
		PositionSize:   positionSize,
		RiskThreshold:  riskThreshold,
		HedgeThreshold: models.DefaultHedgeThreshold,
		State:          models.StateIdle,
		HedgeStatus:    models.HedgeStatusNone,
		StartedAt:      time.Now().UTC(),
	}

	r.mu.Lock()
	r.monitors[subscriberID] = m
	count := len(r.monitors)
	r.mu.Unlock()

	UpdateActiveMonitors(count)

	out := *m
	return &out, nil
}

// ConfigureHedge настраивает авто-хеджирование для подписчика
func (r *MonitorRegistry) ConfigureHedge(subscriberID, strategy string, hedgeThreshold float64) (*models.Monitor, error) {
	if !models.IsValidStrategy(strategy) {
		return nil, fmt.Errorf("%w: unknown hedge strategy %q", ErrInvalidArgument, strategy)
	}
	if err := utils.ValidateThreshold(hedgeThreshold); err != nil {
		return nil, fmt.Errorf("%w: hedge threshold: %v", ErrInvalidArgument, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.monitors[subscriberID]
	if !ok {
		return nil, ErrNotMonitoring
	}

	m.HedgeStrategy = strategy
	m.HedgeThreshold = hedgeThreshold

	out := *m
	return &out, nil
}

// Stop останавливает мониторинг для подписчика
//
// Удаляет монитор из реестра. Последние риск-снимки и история
// хеджей по активу при этом сохраняются.
func (r *MonitorRegistry) Stop(subscriberID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.monitors[subscriberID]; !ok {
		return ErrNotMonitoring
	}
	delete(r.monitors, subscriberID)

	UpdateActiveMonitors(len(r.monitors))
	return nil
}

// Get возвращает копию монитора подписчика
func (r *MonitorRegistry) Get(subscriberID string) (*models.Monitor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.monitors[subscriberID]
	if !ok {
		return nil, ErrNotMonitoring
	}

	out := *m
	return &out, nil
}

// SnapshotAll возвращает стабильную копию всех мониторов
//
// Используется циклом мониторинга на каждом тике: изменения
// реестра во время обхода не влияют на уже полученный список.
func (r *MonitorRegistry) SnapshotAll() []models.Monitor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Monitor, 0, len(r.monitors))
	for _, m := range r.monitors {
		out = append(out, *m)
	}
	return out
}

// MarkAlerted фиксирует отправленный алерт для подписчика
//
// Устанавливает время последнего алерта (точка отсчета cooldown)
// и переводит монитор в ALERTED, если он еще не в этом состоянии.
func (r *MonitorRegistry) MarkAlerted(subscriberID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.monitors[subscriberID]
	if !ok {
		return ErrNotMonitoring
	}

	t := at
	m.LastAlertAt = &t
	if m.State != models.StateAlerted && CanTransition(m.State, models.StateAlerted) {
		m.State = models.StateAlerted
	}
	return nil
}

// RecordHedge фиксирует исполненный хедж для подписчика
//
// hedge_status монотонен: переход hedged → not_hedged в рамках
// сессии мониторинга невозможен.
func (r *MonitorRegistry) RecordHedge(subscriberID string, size float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.monitors[subscriberID]
	if !ok {
		return ErrNotMonitoring
	}

	m.HedgeStatus = models.HedgeStatusHedged
	m.HedgedSize = size
	if CanTransition(m.State, models.StateHedged) {
		m.State = models.StateHedged
	}
	return nil
}

// Count возвращает количество активных мониторов
func (r *MonitorRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.monitors)
}
