package bot

import (
	"fmt"
	"time"

	"hedgebot/internal/models"
)

// Alert - риск-алерт для подписчика
type Alert struct {
	SubscriberID     string
	Asset            string
	Snapshot         models.RiskSnapshot
	RiskThreshold    float64
	RecommendedHedge float64
	At               time.Time
}

// Notifier доставляет алерты и статусные сообщения подписчикам
//
// Ошибка доставки никогда не прерывает мониторинг: вызывающий код
// логирует ее и продолжает работу.
type Notifier interface {
	SendAlert(alert Alert) error
	SendStatus(subscriberID, message string) error
}

// ChannelNotifier - notifier поверх канала уведомлений
//
// Превращает алерты в models.Notification и кладет их в канал
// неблокирующе: если потребитель не успевает, уведомление
// отбрасывается с инкрементом метрики переполнения. Потребитель
// (main) раздает уведомления в WebSocket hub и журнал БД.
type ChannelNotifier struct {
	ch chan *models.Notification
}

// NewChannelNotifier создает notifier с буфером заданного размера
func NewChannelNotifier(buffer int) *ChannelNotifier {
	if buffer <= 0 {
		buffer = 256
	}
	return &ChannelNotifier{
		ch: make(chan *models.Notification, buffer),
	}
}

// Notifications возвращает канал для потребителя уведомлений
func (n *ChannelNotifier) Notifications() <-chan *models.Notification {
	return n.ch
}

// SendAlert отправляет риск-алерт
func (n *ChannelNotifier) SendAlert(alert Alert) error {
	notif := &models.Notification{
		Timestamp:    alert.At,
		Type:         models.NotificationTypeRiskAlert,
		Severity:     models.SeverityWarn,
		SubscriberID: alert.SubscriberID,
		Message: fmt.Sprintf("Risk alert for %s: delta %.4f exceeds threshold %.4f (VaR %.4f). Recommended hedge: %.4f",
			alert.Asset, alert.Snapshot.Delta, alert.RiskThreshold, alert.Snapshot.VaR, alert.RecommendedHedge),
		Meta: map[string]interface{}{
			"asset":             alert.Asset,
			"delta":             alert.Snapshot.Delta,
			"var":               alert.Snapshot.VaR,
			"price":             alert.Snapshot.Price,
			"recommended_hedge": alert.RecommendedHedge,
		},
	}
	tryEnqueueNotification(n.ch, notif)
	return nil
}

// SendStatus отправляет статусное сообщение подписчику
func (n *ChannelNotifier) SendStatus(subscriberID, message string) error {
	notif := &models.Notification{
		Timestamp:    time.Now().UTC(),
		Type:         models.NotificationTypeStatus,
		Severity:     models.SeverityInfo,
		SubscriberID: subscriberID,
		Message:      message,
	}
	tryEnqueueNotification(n.ch, notif)
	return nil
}

// tryEnqueueNotification отправляет уведомление в канал с метрикой переполнения.
// Возвращает true, если уведомление поставлено в очередь.
func tryEnqueueNotification(ch chan *models.Notification, notif *models.Notification) bool {
	if ch == nil || notif == nil {
		return false
	}

	select {
	case ch <- notif:
		return true
	default:
		RecordBufferOverflow("notification")
		return false
	}
}

var _ Notifier = (*ChannelNotifier)(nil)
