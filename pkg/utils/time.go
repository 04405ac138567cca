package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// time.go - утилиты для работы со временем
//
// Назначение:
// Разбор таймфреймов истории хеджей и вспомогательные функции
// для фильтрации данных по временным диапазонам.
//
// Функции:
// - ParseTimeframe: разбор окна истории ("1h", "24h", "7d", "30d")
// - TimeframeStart: начало окна относительно текущего момента
// - FormatDuration: человекочитаемый формат продолжительности

// DefaultTimeframe - окно истории по умолчанию
const DefaultTimeframe = 24 * time.Hour

// ErrInvalidTimeframe возвращается для нераспознанного таймфрейма
var ErrInvalidTimeframe = errors.New("invalid timeframe")

// ParseTimeframe разбирает строковый таймфрейм в продолжительность.
//
// Поддерживаемые форматы:
//   - "<N>h" - часы: "1h", "24h"
//   - "<N>d" - дни: "7d", "30d"
//
// Пустая строка трактуется как DefaultTimeframe (24h).
//
// Примеры:
//   - ParseTimeframe("1h") = time.Hour
//   - ParseTimeframe("7d") = 168h
//   - ParseTimeframe("") = 24h
func ParseTimeframe(s string) (time.Duration, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return DefaultTimeframe, nil
	}

	if len(s) < 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeframe, s)
	}

	unit := s[len(s)-1]
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeframe, s)
	}

	switch unit {
	case 'h':
		return time.Duration(n) * time.Hour, nil
	case 'd':
		return time.Duration(n) * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeframe, s)
	}
}

// TimeframeStart возвращает начало окна таймфрейма относительно now.
func TimeframeStart(now time.Time, timeframe time.Duration) time.Time {
	return now.UTC().Add(-timeframe)
}

// ============================================================
// Функции для работы с диапазонами
// ============================================================

// TimeRange представляет временной диапазон
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Contains проверяет, попадает ли время в диапазон
func (tr TimeRange) Contains(t time.Time) bool {
	return !t.Before(tr.Start) && !t.After(tr.End)
}

// Duration возвращает продолжительность диапазона
func (tr TimeRange) Duration() time.Duration {
	return tr.End.Sub(tr.Start)
}

// GetLastNHours возвращает диапазон последних n часов
func GetLastNHours(n int) TimeRange {
	if n <= 0 {
		n = 1
	}
	now := time.Now().UTC()
	return TimeRange{
		Start: now.Add(-time.Duration(n) * time.Hour),
		End:   now,
	}
}

// ============================================================
// Форматирование времени
// ============================================================

// FormatDuration форматирует продолжительность в человекочитаемый формат
//
// Примеры:
//   - "45s"
//   - "5m30s"
//   - "2h15m"
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = -d
	}

	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if hours > 0 {
		if minutes > 0 {
			return (time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute).String()
		}
		return (time.Duration(hours) * time.Hour).String()
	}

	if minutes > 0 {
		if seconds > 0 {
			return (time.Duration(minutes)*time.Minute + time.Duration(seconds)*time.Second).String()
		}
		return (time.Duration(minutes) * time.Minute).String()
	}

	return (time.Duration(seconds) * time.Second).String()
}

// ============================================================
// Утилиты для timestamp
// ============================================================

// UnixMillis возвращает текущее время в миллисекундах Unix
func UnixMillis() int64 {
	return time.Now().UnixMilli()
}

// FromUnixMillis конвертирует миллисекунды Unix в time.Time
func FromUnixMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
