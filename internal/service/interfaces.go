package service

import (
	"context"
	"time"

	"hedgebot/internal/models"
	"hedgebot/internal/repository"
)

// HedgeRepositoryInterface определяет интерфейс репозитория исполнений хеджей
type HedgeRepositoryInterface interface {
	Create(exec *models.HedgeExecution) error
	GetByID(id int) (*models.HedgeExecution, error)
	GetByAsset(asset string) ([]*models.HedgeExecution, error)
	GetByAssetSince(asset string, since time.Time) ([]*models.HedgeExecution, error)
	GetRecent(limit int) ([]*models.HedgeExecution, error)
	CountByAsset(asset string) (int, error)
	CountByStatus(status string) (int, error)
	DeleteOlderThan(timestamp time.Time) (int64, error)
}

// NotificationRepositoryInterface определяет интерфейс репозитория уведомлений
type NotificationRepositoryInterface interface {
	Create(notif *models.Notification) error
	GetRecent(limit int) ([]*models.Notification, error)
	GetByTypes(types []string, limit int) ([]*models.Notification, error)
	GetBySubscriber(subscriberID string, limit int) ([]*models.Notification, error)
	DeleteAll() error
	DeleteOlderThan(timestamp time.Time) (int64, error)
	Count() (int, error)
}

// Проверяем, что реальные репозитории реализуют интерфейсы
var _ HedgeRepositoryInterface = (*repository.HedgeRepository)(nil)
var _ NotificationRepositoryInterface = (*repository.NotificationRepository)(nil)

// ============ Интерфейсы сервисов для Dependency Injection ============

// MonitorServiceInterface определяет интерфейс сервиса мониторинга рисков
type MonitorServiceInterface interface {
	StartMonitoring(subscriberID, asset string, positionSize, riskThreshold float64) (models.Monitor, error)
	ConfigureHedge(subscriberID, strategy string, threshold float64) (models.Monitor, error)
	GetStatus(subscriberID string) (*MonitorStatus, error)
	ListMonitors() []models.Monitor
	StopMonitoring(subscriberID string) error
	ManualHedge(ctx context.Context, asset string, size float64) (models.HedgeExecution, error)
}

// HistoryServiceInterface определяет интерфейс сервиса истории хеджей
type HistoryServiceInterface interface {
	GetHistory(asset, timeframe string) (*HedgeHistory, error)
}

// NotificationServiceInterface определяет интерфейс сервиса уведомлений
type NotificationServiceInterface interface {
	GetNotifications(types []string, limit int) ([]*models.Notification, error)
	ClearNotifications() error
	CreateNotification(notif *models.Notification) error
	GetNotificationCount() (int, error)
}

// Проверяем, что реальные сервисы реализуют интерфейсы
var _ MonitorServiceInterface = (*MonitorService)(nil)
var _ HistoryServiceInterface = (*HistoryService)(nil)
var _ NotificationServiceInterface = (*NotificationService)(nil)
