package bot

import "hedgebot/internal/models"

// ValidTransitions определяет допустимые переходы между состояниями монитора
var ValidTransitions = map[string][]string{
	models.StateIdle:    {models.StateAlerted},
	models.StateAlerted: {models.StateHedged, models.StateIdle}, // Idle только при рестарте мониторинга
	models.StateHedged:  {models.StateIdle},                     // Только рестарт мониторинга
}

// CanTransition проверяет допустимость перехода
func CanTransition(from, to string) bool {
	allowed, ok := ValidTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// StateInfo возвращает описание состояния для UI
func StateInfo(s string) string {
	switch s {
	case models.StateIdle:
		return "Мониторинг идет, порог риска не превышен"
	case models.StateAlerted:
		return "Порог риска превышен, отправлен алерт"
	case models.StateHedged:
		return "Позиция захеджирована после алерта"
	default:
		return "Неизвестное состояние"
	}
}

// IsActive возвращает true если монитор находится в рабочем состоянии
func IsActive(s string) bool {
	return s == models.StateIdle || s == models.StateAlerted || s == models.StateHedged
}

// HasAlerted возвращает true если по монитору уже был алерт в текущей сессии
func HasAlerted(s string) bool {
	return s == models.StateAlerted || s == models.StateHedged
}
