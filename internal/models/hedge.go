package models

import "time"

// HedgeExecution представляет запись об исполнении хеджа
//
// История исполнений append-only: каждая попытка хеджирования
// (ручная или автоматическая, успешная или нет) добавляет запись.
// Дедупликации нет - повторный хедж того же размера создает
// новую запись.
type HedgeExecution struct {
	ID           int       `json:"id" db:"id"`
	Asset        string    `json:"asset" db:"asset"`
	Size         float64   `json:"size" db:"size"`
	Price        float64   `json:"price" db:"price"` // 0 при недоступности рыночных данных
	Status       string    `json:"status" db:"status"` // filled, failed
	ErrorMessage string    `json:"error_message,omitempty" db:"error_message"`
	ExecutedAt   time.Time `json:"executed_at" db:"executed_at"`
}

// Статусы исполнения хеджа
const (
	HedgeExecutionFilled = "filled"
	HedgeExecutionFailed = "failed"
)

// HedgeHistorySummary - агрегированная сводка по истории хеджей
// за период, для команды получения истории
type HedgeHistorySummary struct {
	Asset       string  `json:"asset"`
	Timeframe   string  `json:"timeframe"`
	Count       int     `json:"count"`
	FilledCount int     `json:"filled_count"`
	FailedCount int     `json:"failed_count"`
	TotalSize   float64 `json:"total_size"` // суммарный размер по filled
}
