package models

import "time"

// Monitor представляет активный риск-монитор одного подписчика
//
// Один подписчик = один монитор. Повторный запуск мониторинга
// заменяет существующий монитор целиком (replace-семантика):
// состояние алертов и таймеры сбрасываются.
type Monitor struct {
	SubscriberID   string     `json:"subscriber_id"`
	Asset          string     `json:"asset"`
	PositionSize   float64    `json:"position_size"`
	RiskThreshold  float64    `json:"risk_threshold"`            // порог по |delta|, [0..1]
	HedgeStrategy  string     `json:"hedge_strategy,omitempty"`  // пусто = авто-хеджирование не настроено
	HedgeThreshold float64    `json:"hedge_threshold"`           // порог авто-хеджа, 1.0 = отключено
	State          string     `json:"state"`                     // IDLE, ALERTED, HEDGED
	HedgeStatus    string     `json:"hedge_status"`              // not_hedged, hedged
	HedgedSize     float64    `json:"hedged_size,omitempty"`     // размер последнего хеджа
	LastAlertAt    *time.Time `json:"last_alert_at,omitempty"`   // nil = алертов еще не было
	StartedAt      time.Time  `json:"started_at"`
}

// Состояния монитора
const (
	StateIdle    = "IDLE"    // мониторинг идет, порог не пройден
	StateAlerted = "ALERTED" // порог пройден, алерт отправлен
	StateHedged  = "HEDGED"  // после алерта исполнен хедж
)

// Статусы хеджирования позиции
//
// HedgeStatus монотонен в рамках сессии мониторинга:
// после hedged обратно в not_hedged автоматически не возвращается.
const (
	HedgeStatusNone   = "not_hedged"
	HedgeStatusHedged = "hedged"
)

// Стратегии хеджирования
const (
	StrategyDeltaNeutral   = "delta_neutral"
	StrategyProtectivePuts = "protective_puts"
	StrategyCoveredCalls   = "covered_calls"
	StrategyDynamic        = "dynamic"
)

// DefaultHedgeThreshold - порог авто-хеджа по умолчанию.
// |delta| никогда не превышает 1.0, поэтому дефолт фактически
// отключает авто-хеджирование до явной настройки подписчиком.
const DefaultHedgeThreshold = 1.0

// ValidStrategies содержит все допустимые стратегии хеджирования
var ValidStrategies = []string{
	StrategyDeltaNeutral,
	StrategyProtectivePuts,
	StrategyCoveredCalls,
	StrategyDynamic,
}

// IsValidStrategy проверяет, что стратегия входит в список допустимых
func IsValidStrategy(s string) bool {
	for _, v := range ValidStrategies {
		if v == s {
			return true
		}
	}
	return false
}

// HedgeConfigured возвращает true если авто-хеджирование настроено
func (m *Monitor) HedgeConfigured() bool {
	return m.HedgeStrategy != ""
}
