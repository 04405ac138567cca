package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"hedgebot/internal/models"
)

// ErrUnknownNotificationType возвращается при фильтрации по неизвестному типу
var ErrUnknownNotificationType = errors.New("unknown notification type")

// WebSocketBroadcaster - интерфейс для отправки WebSocket сообщений
//
// Позволяет избежать циклических зависимостей между пакетами
// и упрощает тестирование (можно подставить mock)
type WebSocketBroadcaster interface {
	BroadcastNotification(notif *models.Notification)
}

// NotificationService предоставляет бизнес-логику для управления уведомлениями.
//
// Отвечает за:
// - Создание уведомлений
// - Получение списка уведомлений с фильтрацией по типам
// - Очистку журнала уведомлений
// - Broadcast уведомлений через WebSocket
type NotificationService struct {
	notificationRepo NotificationRepositoryInterface
	wsHub            WebSocketBroadcaster // может быть nil
}

// NewNotificationService создает новый экземпляр NotificationService
func NewNotificationService(notificationRepo NotificationRepositoryInterface) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
	}
}

// SetWebSocketHub устанавливает WebSocket hub для real-time уведомлений
func (s *NotificationService) SetWebSocketHub(hub WebSocketBroadcaster) {
	s.wsHub = hub
}

// Лимиты выборки уведомлений
const (
	defaultNotificationLimit = 100
	maxNotificationLimit     = 500
)

// validNotificationTypes - допустимые типы уведомлений для фильтрации
var validNotificationTypes = map[string]bool{
	models.NotificationTypeRiskAlert:     true,
	models.NotificationTypeHedgeExecuted: true,
	models.NotificationTypeHedgeFailed:   true,
	models.NotificationTypeMonitorStart:  true,
	models.NotificationTypeMonitorStop:   true,
	models.NotificationTypeError:         true,
	models.NotificationTypeStatus:        true,
}

// GetNotifications возвращает уведомления с фильтрацией по типам.
//
// Пустой список типов - все уведомления. Неизвестный тип - ошибка.
func (s *NotificationService) GetNotifications(types []string, limit int) ([]*models.Notification, error) {
	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	if limit > maxNotificationLimit {
		limit = maxNotificationLimit
	}

	normalized, err := normalizeNotificationTypes(types)
	if err != nil {
		return nil, err
	}

	if len(normalized) == 0 {
		return s.notificationRepo.GetRecent(limit)
	}

	return s.notificationRepo.GetByTypes(normalized, limit)
}

// ClearNotifications удаляет все уведомления
func (s *NotificationService) ClearNotifications() error {
	return s.notificationRepo.DeleteAll()
}

// GetNotificationCount возвращает общее количество уведомлений
func (s *NotificationService) GetNotificationCount() (int, error) {
	return s.notificationRepo.Count()
}

// CreateNotification создает уведомление и рассылает его через WebSocket.
//
// Broadcast выполняется и при сбое записи в БД: real-time доставка
// важнее журнала.
func (s *NotificationService) CreateNotification(notif *models.Notification) error {
	if notif.Timestamp.IsZero() {
		notif.Timestamp = time.Now().UTC()
	}
	if notif.Severity == "" {
		notif.Severity = models.SeverityInfo
	}

	err := s.notificationRepo.Create(notif)

	if s.wsHub != nil {
		s.wsHub.BroadcastNotification(notif)
	}

	return err
}

// CreateRiskAlertNotification создает уведомление о превышении риск-порога
func (s *NotificationService) CreateRiskAlertNotification(subscriberID, asset string, delta, valueAtRisk, recommendedHedge float64) error {
	return s.CreateNotification(&models.Notification{
		Type:         models.NotificationTypeRiskAlert,
		Severity:     models.SeverityWarn,
		SubscriberID: subscriberID,
		Message:      fmt.Sprintf("Risk threshold breached for %s: delta %.4f, VaR %.4f", asset, delta, valueAtRisk),
		Meta: map[string]interface{}{
			"asset":             asset,
			"delta":             delta,
			"value_at_risk":     valueAtRisk,
			"recommended_hedge": recommendedHedge,
		},
	})
}

// CreateHedgeExecutedNotification создает уведомление об исполненном хедже
func (s *NotificationService) CreateHedgeExecutedNotification(subscriberID, asset string, size, price float64) error {
	return s.CreateNotification(&models.Notification{
		Type:         models.NotificationTypeHedgeExecuted,
		Severity:     models.SeverityInfo,
		SubscriberID: subscriberID,
		Message:      fmt.Sprintf("Hedge executed: %s size %.6f @ %.2f", asset, size, price),
		Meta: map[string]interface{}{
			"asset": asset,
			"size":  size,
			"price": price,
		},
	})
}

// CreateHedgeFailedNotification создает уведомление о неудавшемся хедже
func (s *NotificationService) CreateHedgeFailedNotification(subscriberID, asset string, size float64, reason string) error {
	return s.CreateNotification(&models.Notification{
		Type:         models.NotificationTypeHedgeFailed,
		Severity:     models.SeverityError,
		SubscriberID: subscriberID,
		Message:      fmt.Sprintf("Hedge failed: %s size %.6f (%s)", asset, size, reason),
		Meta: map[string]interface{}{
			"asset":  asset,
			"size":   size,
			"reason": reason,
		},
	})
}

// CreateErrorNotification создает уведомление об ошибке оценки риска
func (s *NotificationService) CreateErrorNotification(subscriberID, asset, message string) error {
	return s.CreateNotification(&models.Notification{
		Type:         models.NotificationTypeError,
		Severity:     models.SeverityError,
		SubscriberID: subscriberID,
		Message:      message,
		Meta:         map[string]interface{}{"asset": asset},
	})
}

// normalizeNotificationTypes приводит типы к верхнему регистру и проверяет допустимость
func normalizeNotificationTypes(types []string) ([]string, error) {
	var normalized []string
	for _, t := range types {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if !validNotificationTypes[t] {
			return nil, fmt.Errorf("%w: %s", ErrUnknownNotificationType, t)
		}
		normalized = append(normalized, t)
	}
	return normalized, nil
}
