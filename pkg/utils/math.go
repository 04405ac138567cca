package utils

import (
	"math"
)

// math.go - математические утилиты для риск-менеджмента
//
// Назначение:
// Вспомогательные математические функции для расчёта хеджей и риск-метрик.
// Все функции являются чистыми (pure functions) без побочных эффектов.
//
// Функции:
// - Clamp: ограничение значения диапазоном
// - RoundToStep: округление объёма хеджа до шага инструмента
// - CalculateHedgeSize: размер хеджа по дельте позиции
// - CalculateNotional: номинал позиции в валюте котировки

// Clamp ограничивает значение диапазоном [min, max].
//
// Используется для зажима риск-метрик в допустимые коридоры
// (например, VaR в [0.01, 0.2]).
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// RoundToStep округляет значение ВНИЗ до ближайшего кратного step.
//
// Используется для округления объёма хеджирующего ордера до минимального
// шага инструмента. Округление вниз гарантирует, что мы не перехеджируем
// позицию.
//
// Параметры:
//   - value: исходное значение (объём в монетах актива)
//   - step: минимальный шаг изменения объёма
//
// Возвращает:
//   - Округлённое значение, кратное step
//   - Если step <= 0, возвращает исходное значение
//
// Примеры:
//   - RoundToStep(0.123456, 0.001) = 0.123
//   - RoundToStep(1.999, 0.01) = 1.99
func RoundToStep(value, step float64) float64 {
	if step <= 0 {
		return value
	}
	return math.Floor(value/step) * step
}

// CalculateHedgeSize вычисляет размер хеджа по дельте позиции.
//
// Формула:
//
//	hedge = |delta| × position_size × hedge_ratio
//
// Параметры:
//   - delta: дельта позиции (может быть отрицательной)
//   - positionSize: размер позиции в монетах актива
//   - hedgeRatio: доля экспозиции к закрытию (1.0 = полный хедж)
//
// Возвращает:
//   - Размер хеджа в монетах актива (всегда >= 0)
//   - 0 если positionSize или hedgeRatio не положительны
//
// Примеры:
//   - CalculateHedgeSize(0.15, 1.5, 1.0) = 0.225
//   - CalculateHedgeSize(-0.12, 1.5, 1.0) = 0.18
func CalculateHedgeSize(delta, positionSize, hedgeRatio float64) float64 {
	if positionSize <= 0 || hedgeRatio <= 0 {
		return 0
	}
	return math.Abs(delta) * positionSize * hedgeRatio
}

// CalculateNotional вычисляет номинал позиции в валюте котировки.
//
// Параметры:
//   - price: текущая цена актива
//   - size: размер позиции в монетах
//
// Возвращает:
//   - Номинал (price × |size|), 0 при некорректной цене
func CalculateNotional(price, size float64) float64 {
	if price <= 0 {
		return 0
	}
	return price * math.Abs(size)
}

// PercentChange расчитывает относительное изменение в процентах.
//
// Формула:
//
//	change (%) = ((current - base) / base) × 100
//
// Параметры:
//   - base: базовое значение
//   - current: текущее значение
//
// Возвращает:
//   - Изменение в процентах, 0 если base <= 0
func PercentChange(base, current float64) float64 {
	if base <= 0 {
		return 0
	}
	return (current - base) / base * 100
}

// Abs возвращает абсолютное значение числа.
func Abs(x float64) float64 {
	return math.Abs(x)
}

// Min возвращает минимум из двух чисел.
func Min(a, b float64) float64 {
	return math.Min(a, b)
}

// Max возвращает максимум из двух чисел.
func Max(a, b float64) float64 {
	return math.Max(a, b)
}

// IsFinite проверяет что значение не NaN и не Inf.
//
// Используется при валидации числовых параметров из внешних запросов.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
