package websocket

import (
	"time"

	"hedgebot/internal/models"
)

// MessageType определяет тип WebSocket сообщения
type MessageType string

// Типы WebSocket сообщений
const (
	// MessageTypeNotification - новое уведомление
	// Отправляется при событиях: алерт, хедж, запуск/остановка мониторинга, ошибки
	MessageTypeNotification MessageType = "notification"

	// MessageTypeRiskUpdate - свежий риск-снимок по активу
	// Отправляется на каждом тике мониторинга для отслеживаемых активов
	MessageTypeRiskUpdate MessageType = "riskUpdate"

	// MessageTypeMonitorUpdate - изменение состояния монитора
	// Отправляется при смене state или hedge_status
	MessageTypeMonitorUpdate MessageType = "monitorUpdate"
)

// BaseMessage - базовая структура для всех WebSocket сообщений
type BaseMessage struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
}

// NotificationMessage - сообщение о новом уведомлении
type NotificationMessage struct {
	BaseMessage
	Data *NotificationData `json:"data"`
}

// NotificationData - данные уведомления
type NotificationData struct {
	// ID уведомления в БД (0 если запись не журналировалась)
	ID int `json:"id"`

	// Тип уведомления (RISK_ALERT, HEDGE_EXECUTED, HEDGE_FAILED, MONITOR_START, MONITOR_STOP, ERROR, STATUS)
	Type string `json:"type"`

	// Уровень важности (info, warn, error)
	Severity string `json:"severity"`

	// ID подписчика (если применимо)
	SubscriberID string `json:"subscriber_id,omitempty"`

	// Текст сообщения
	Message string `json:"message"`

	// Дополнительные метаданные (актив, delta, размер хеджа и т.д.)
	Meta map[string]interface{} `json:"meta,omitempty"`

	// Время создания уведомления
	Timestamp time.Time `json:"timestamp"`
}

// RiskUpdateMessage - сообщение со свежим риск-снимком
//
// Содержит полную оценку риска по активу:
// - Греки (delta, gamma, theta, vega)
// - Value-at-risk
// - Цену, волатильность и ликвидность на момент оценки
type RiskUpdateMessage struct {
	BaseMessage
	Asset string               `json:"asset"`
	Data  *models.RiskSnapshot `json:"data"`
}

// MonitorUpdateMessage - сообщение об изменении состояния монитора
type MonitorUpdateMessage struct {
	BaseMessage
	SubscriberID string          `json:"subscriber_id"`
	Data         *models.Monitor `json:"data"`
}

// ============ Фабричные функции для создания сообщений ============

// NewNotificationMessage создает сообщение уведомления
func NewNotificationMessage(notif *models.Notification) *NotificationMessage {
	return &NotificationMessage{
		BaseMessage: BaseMessage{
			Type:      MessageTypeNotification,
			Timestamp: time.Now(),
		},
		Data: &NotificationData{
			ID:           notif.ID,
			Type:         notif.Type,
			Severity:     notif.Severity,
			SubscriberID: notif.SubscriberID,
			Message:      notif.Message,
			Meta:         notif.Meta,
			Timestamp:    notif.Timestamp,
		},
	}
}

// NewRiskUpdateMessage создает сообщение риск-снимка
func NewRiskUpdateMessage(snap *models.RiskSnapshot) *RiskUpdateMessage {
	return &RiskUpdateMessage{
		BaseMessage: BaseMessage{
			Type:      MessageTypeRiskUpdate,
			Timestamp: time.Now(),
		},
		Asset: snap.Asset,
		Data:  snap,
	}
}

// NewMonitorUpdateMessage создает сообщение изменения монитора
func NewMonitorUpdateMessage(monitor *models.Monitor) *MonitorUpdateMessage {
	return &MonitorUpdateMessage{
		BaseMessage: BaseMessage{
			Type:      MessageTypeMonitorUpdate,
			Timestamp: time.Now(),
		},
		SubscriberID: monitor.SubscriberID,
		Data:         monitor,
	}
}
