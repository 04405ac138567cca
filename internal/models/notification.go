package models

import "time"

// Notification представляет уведомление о событии
type Notification struct {
	ID           int                    `json:"id" db:"id"`
	Timestamp    time.Time              `json:"timestamp" db:"timestamp"`
	Type         string                 `json:"type" db:"type"`         // RISK_ALERT, HEDGE_EXECUTED, HEDGE_FAILED, MONITOR_START, MONITOR_STOP, ERROR
	Severity     string                 `json:"severity" db:"severity"` // info, warn, error
	SubscriberID string                 `json:"subscriber_id,omitempty" db:"subscriber_id"`
	Message      string                 `json:"message" db:"message"`
	Meta         map[string]interface{} `json:"meta,omitempty" db:"meta"` // дополнительные данные (JSON в БД)
}

// Типы уведомлений
const (
	NotificationTypeRiskAlert     = "RISK_ALERT"     // превышен риск-порог
	NotificationTypeHedgeExecuted = "HEDGE_EXECUTED" // хедж исполнен
	NotificationTypeHedgeFailed   = "HEDGE_FAILED"   // хедж не исполнен
	NotificationTypeMonitorStart  = "MONITOR_START"  // запуск мониторинга
	NotificationTypeMonitorStop   = "MONITOR_STOP"   // остановка мониторинга
	NotificationTypeError         = "ERROR"          // ошибка оценки риска / данных
	NotificationTypeStatus        = "STATUS"         // статусное сообщение подписчику
)

// Уровни важности
const (
	SeverityInfo  = "info"
	SeverityWarn  = "warn"
	SeverityError = "error"
)
