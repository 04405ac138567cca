package handlers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"hedgebot/internal/bot"
	"hedgebot/internal/models"
	"hedgebot/internal/service"
	"hedgebot/pkg/utils"
)

// ErrMockDatabase - ошибка "базы данных" для тестов
var ErrMockDatabase = errors.New("mock database error")

// ============ Mock Monitor Service ============

// MockMonitorService мок для MonitorServiceInterface
type MockMonitorService struct {
	monitors map[string]models.Monitor
	statuses map[string]*service.MonitorStatus
	errs     map[string]error
	hedgeErr error
	nextID   int
	mu       sync.RWMutex
}

// NewMockMonitorService создает новый мок сервиса мониторинга
func NewMockMonitorService() *MockMonitorService {
	return &MockMonitorService{
		monitors: make(map[string]models.Monitor),
		statuses: make(map[string]*service.MonitorStatus),
		errs:     make(map[string]error),
		nextID:   1,
	}
}

// SetError устанавливает ошибку для операции ("start", "configure", "status", "stop", "hedge")
func (m *MockMonitorService) SetError(op string, err error) {
	m.mu.Lock()
	m.errs[op] = err
	m.mu.Unlock()
}

func (m *MockMonitorService) StartMonitoring(subscriberID, asset string, positionSize, riskThreshold float64) (models.Monitor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.errs["start"]; err != nil {
		return models.Monitor{}, err
	}
	if subscriberID == "" || asset == "" {
		return models.Monitor{}, fmt.Errorf("%w: subscriber and asset are required", bot.ErrInvalidArgument)
	}
	if riskThreshold < 0 || riskThreshold > 1 {
		return models.Monitor{}, fmt.Errorf("%w: risk threshold must be in [0..1]", bot.ErrInvalidArgument)
	}

	monitor := models.Monitor{
		SubscriberID:   subscriberID,
		Asset:          asset,
		PositionSize:   positionSize,
		RiskThreshold:  riskThreshold,
		HedgeThreshold: models.DefaultHedgeThreshold,
		State:          models.StateIdle,
		HedgeStatus:    models.HedgeStatusNone,
		StartedAt:      time.Now(),
	}
	m.monitors[subscriberID] = monitor
	return monitor, nil
}

func (m *MockMonitorService) ConfigureHedge(subscriberID, strategy string, threshold float64) (models.Monitor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.errs["configure"]; err != nil {
		return models.Monitor{}, err
	}
	monitor, exists := m.monitors[subscriberID]
	if !exists {
		return models.Monitor{}, bot.ErrNotMonitoring
	}
	if !models.IsValidStrategy(strategy) {
		return models.Monitor{}, fmt.Errorf("%w: unknown strategy %q", bot.ErrInvalidArgument, strategy)
	}

	monitor.HedgeStrategy = strategy
	monitor.HedgeThreshold = threshold
	m.monitors[subscriberID] = monitor
	return monitor, nil
}

func (m *MockMonitorService) GetStatus(subscriberID string) (*service.MonitorStatus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.errs["status"]; err != nil {
		return nil, err
	}
	monitor, exists := m.monitors[subscriberID]
	if !exists {
		return nil, bot.ErrNotMonitoring
	}
	if status, ok := m.statuses[subscriberID]; ok {
		return status, nil
	}
	return &service.MonitorStatus{
		Monitor:   monitor,
		StateText: bot.StateInfo(monitor.State),
	}, nil
}

func (m *MockMonitorService) ListMonitors() []models.Monitor {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]models.Monitor, 0, len(m.monitors))
	for _, monitor := range m.monitors {
		result = append(result, monitor)
	}
	return result
}

func (m *MockMonitorService) StopMonitoring(subscriberID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.errs["stop"]; err != nil {
		return err
	}
	if _, exists := m.monitors[subscriberID]; !exists {
		return bot.ErrNotMonitoring
	}
	delete(m.monitors, subscriberID)
	return nil
}

func (m *MockMonitorService) ManualHedge(ctx context.Context, asset string, size float64) (models.HedgeExecution, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if size <= 0 {
		return models.HedgeExecution{}, fmt.Errorf("%w: got %v", bot.ErrInvalidHedgeSize, size)
	}

	exec := models.HedgeExecution{
		ID:         m.nextID,
		Asset:      asset,
		Size:       size,
		ExecutedAt: time.Now(),
	}
	m.nextID++

	if m.hedgeErr != nil {
		exec.Status = models.HedgeExecutionFailed
		exec.ErrorMessage = m.hedgeErr.Error()
		return exec, fmt.Errorf("%w: %v", bot.ErrExecutionFailed, m.hedgeErr)
	}

	exec.Price = 62000.0
	exec.Status = models.HedgeExecutionFilled
	return exec, nil
}

var _ service.MonitorServiceInterface = (*MockMonitorService)(nil)

// ============ Mock History Service ============

// MockHistoryService мок для HistoryServiceInterface
type MockHistoryService struct {
	histories map[string]*service.HedgeHistory
	getErr    error
	mu        sync.RWMutex
}

// NewMockHistoryService создает новый мок сервиса истории
func NewMockHistoryService() *MockHistoryService {
	return &MockHistoryService{
		histories: make(map[string]*service.HedgeHistory),
	}
}

// SetHistory устанавливает готовую историю для актива
func (m *MockHistoryService) SetHistory(asset string, history *service.HedgeHistory) {
	m.mu.Lock()
	m.histories[asset] = history
	m.mu.Unlock()
}

func (m *MockHistoryService) GetHistory(asset, timeframe string) (*service.HedgeHistory, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.getErr != nil {
		return nil, m.getErr
	}
	if asset == "" {
		return nil, fmt.Errorf("%w: asset is required", bot.ErrInvalidArgument)
	}
	if _, err := utils.ParseTimeframe(timeframe); err != nil {
		return nil, fmt.Errorf("%w: invalid timeframe %q", bot.ErrInvalidArgument, timeframe)
	}

	if history, ok := m.histories[asset]; ok {
		return history, nil
	}

	label := timeframe
	if label == "" {
		label = "24h"
	}
	return &service.HedgeHistory{
		Summary: models.HedgeHistorySummary{Asset: asset, Timeframe: label},
	}, nil
}

var _ service.HistoryServiceInterface = (*MockHistoryService)(nil)

// ============ Mock Notification Service ============

// MockNotificationService мок для NotificationServiceInterface
type MockNotificationService struct {
	notifications []*models.Notification
	errs          map[string]error
	nextID        int
	mu            sync.RWMutex
}

// NewMockNotificationService создает новый мок сервиса уведомлений
func NewMockNotificationService() *MockNotificationService {
	return &MockNotificationService{
		notifications: make([]*models.Notification, 0),
		errs:          make(map[string]error),
		nextID:        1,
	}
}

// SetError устанавливает ошибку для операции ("get", "clear", "create", "count")
func (m *MockNotificationService) SetError(op string, err error) {
	m.mu.Lock()
	m.errs[op] = err
	m.mu.Unlock()
}

// AddNotification добавляет уведомление напрямую (для тестов)
func (m *MockNotificationService) AddNotification(notifType, severity, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.notifications = append(m.notifications, &models.Notification{
		ID:        m.nextID,
		Timestamp: time.Now(),
		Type:      notifType,
		Severity:  severity,
		Message:   message,
	})
	m.nextID++
}

func (m *MockNotificationService) GetNotifications(types []string, limit int) ([]*models.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.errs["get"]; err != nil {
		return nil, err
	}

	result := m.notifications
	if len(types) > 0 {
		typeSet := make(map[string]bool)
		for _, t := range types {
			typeSet[t] = true
		}
		var filtered []*models.Notification
		for _, n := range m.notifications {
			if typeSet[n.Type] {
				filtered = append(filtered, n)
			}
		}
		result = filtered
	}

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *MockNotificationService) ClearNotifications() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.errs["clear"]; err != nil {
		return err
	}
	m.notifications = make([]*models.Notification, 0)
	return nil
}

func (m *MockNotificationService) CreateNotification(notif *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.errs["create"]; err != nil {
		return err
	}
	notif.ID = m.nextID
	m.nextID++
	m.notifications = append(m.notifications, notif)
	return nil
}

func (m *MockNotificationService) GetNotificationCount() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.errs["count"]; err != nil {
		return 0, err
	}
	return len(m.notifications), nil
}

var _ service.NotificationServiceInterface = (*MockNotificationService)(nil)
