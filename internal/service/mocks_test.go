package service

import (
	"context"
	"time"

	"hedgebot/internal/marketdata"
	"hedgebot/internal/models"
	"hedgebot/internal/repository"
)

// ============ Stub Market Data Provider ============

type stubProvider struct {
	price    float64
	priceErr error
}

func (p *stubProvider) GetPrice(ctx context.Context, asset string) (float64, error) {
	if p.priceErr != nil {
		return 0, p.priceErr
	}
	return p.price, nil
}

func (p *stubProvider) GetVolatility(ctx context.Context, asset string) (float64, error) {
	return 0.02, nil
}

func (p *stubProvider) GetLiquidity(ctx context.Context, asset string) (float64, error) {
	return 90, nil
}

var _ marketdata.Provider = (*stubProvider)(nil)

// ============ Mock HedgeRepository ============

type MockHedgeRepository struct {
	executions []*models.HedgeExecution
	createErr  error
	getErr     error
	deleteErr  error
	nextID     int
}

func NewMockHedgeRepository() *MockHedgeRepository {
	return &MockHedgeRepository{
		executions: make([]*models.HedgeExecution, 0),
		nextID:     1,
	}
}

func (m *MockHedgeRepository) Create(exec *models.HedgeExecution) error {
	if m.createErr != nil {
		return m.createErr
	}
	exec.ID = m.nextID
	m.nextID++
	if exec.ExecutedAt.IsZero() {
		exec.ExecutedAt = time.Now()
	}
	m.executions = append(m.executions, exec)
	return nil
}

func (m *MockHedgeRepository) GetByID(id int) (*models.HedgeExecution, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, e := range m.executions {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, repository.ErrHedgeNotFound
}

func (m *MockHedgeRepository) GetByAsset(asset string) ([]*models.HedgeExecution, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	var result []*models.HedgeExecution
	for _, e := range m.executions {
		if e.Asset == asset {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *MockHedgeRepository) GetByAssetSince(asset string, since time.Time) ([]*models.HedgeExecution, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	var result []*models.HedgeExecution
	for _, e := range m.executions {
		if e.Asset == asset && !e.ExecutedAt.Before(since) {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *MockHedgeRepository) GetRecent(limit int) ([]*models.HedgeExecution, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if limit <= 0 || limit > len(m.executions) {
		limit = len(m.executions)
	}
	start := len(m.executions) - limit
	return m.executions[start:], nil
}

func (m *MockHedgeRepository) CountByAsset(asset string) (int, error) {
	if m.getErr != nil {
		return 0, m.getErr
	}
	count := 0
	for _, e := range m.executions {
		if e.Asset == asset {
			count++
		}
	}
	return count, nil
}

func (m *MockHedgeRepository) CountByStatus(status string) (int, error) {
	if m.getErr != nil {
		return 0, m.getErr
	}
	count := 0
	for _, e := range m.executions {
		if e.Status == status {
			count++
		}
	}
	return count, nil
}

func (m *MockHedgeRepository) DeleteOlderThan(timestamp time.Time) (int64, error) {
	if m.deleteErr != nil {
		return 0, m.deleteErr
	}
	var kept []*models.HedgeExecution
	var deleted int64
	for _, e := range m.executions {
		if e.ExecutedAt.Before(timestamp) {
			deleted++
		} else {
			kept = append(kept, e)
		}
	}
	m.executions = kept
	return deleted, nil
}

// ============ Mock NotificationRepository ============

type MockNotificationRepository struct {
	notifications []*models.Notification
	createErr     error
	getErr        error
	deleteErr     error
	nextID        int
}

func NewMockNotificationRepository() *MockNotificationRepository {
	return &MockNotificationRepository{
		notifications: make([]*models.Notification, 0),
		nextID:        1,
	}
}

func (m *MockNotificationRepository) Create(notif *models.Notification) error {
	if m.createErr != nil {
		return m.createErr
	}
	notif.ID = m.nextID
	m.nextID++
	if notif.Timestamp.IsZero() {
		notif.Timestamp = time.Now()
	}
	m.notifications = append(m.notifications, notif)
	return nil
}

func (m *MockNotificationRepository) GetRecent(limit int) ([]*models.Notification, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if limit <= 0 || limit > len(m.notifications) {
		limit = len(m.notifications)
	}
	start := len(m.notifications) - limit
	return m.notifications[start:], nil
}

func (m *MockNotificationRepository) GetByTypes(types []string, limit int) ([]*models.Notification, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	typeSet := make(map[string]bool)
	for _, t := range types {
		typeSet[t] = true
	}
	var result []*models.Notification
	for _, n := range m.notifications {
		if typeSet[n.Type] {
			result = append(result, n)
		}
	}
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *MockNotificationRepository) GetBySubscriber(subscriberID string, limit int) ([]*models.Notification, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	var result []*models.Notification
	for _, n := range m.notifications {
		if n.SubscriberID == subscriberID {
			result = append(result, n)
		}
	}
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *MockNotificationRepository) DeleteAll() error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.notifications = make([]*models.Notification, 0)
	return nil
}

func (m *MockNotificationRepository) DeleteOlderThan(timestamp time.Time) (int64, error) {
	if m.deleteErr != nil {
		return 0, m.deleteErr
	}
	var kept []*models.Notification
	var deleted int64
	for _, n := range m.notifications {
		if n.Timestamp.Before(timestamp) {
			deleted++
		} else {
			kept = append(kept, n)
		}
	}
	m.notifications = kept
	return deleted, nil
}

func (m *MockNotificationRepository) Count() (int, error) {
	if m.getErr != nil {
		return 0, m.getErr
	}
	return len(m.notifications), nil
}

// ============ Mock WebSocket Broadcaster ============

type MockWebSocketBroadcaster struct {
	notifications []*models.Notification
}

func NewMockWebSocketBroadcaster() *MockWebSocketBroadcaster {
	return &MockWebSocketBroadcaster{
		notifications: make([]*models.Notification, 0),
	}
}

func (m *MockWebSocketBroadcaster) BroadcastNotification(notif *models.Notification) {
	m.notifications = append(m.notifications, notif)
}
