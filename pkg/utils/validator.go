package utils

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
)

// validator.go - валидация данных
//
// Назначение:
// Проверка корректности входных данных команд мониторинга.
//
// Функции:
// - ValidateAsset: проверка тикера актива (BTC, ETH, ...)
// - ValidatePositionSize: проверка размера позиции (конечное число)
// - ValidateThreshold: проверка порога риска ([0, 1])
// - ValidateSubscriberID: проверка идентификатора подписчика
//
// Окно истории (1h/24h/7d/30d) разбирает ParseTimeframe в time.go
//
// Возвращает error с описанием проблемы или nil

var (
	// ErrEmptyAsset возвращается для пустого тикера
	ErrEmptyAsset = errors.New("asset must not be empty")

	// ErrInvalidAssetFormat возвращается для тикера с недопустимыми символами
	ErrInvalidAssetFormat = errors.New("asset must contain only letters and digits")

	// ErrNotFinite возвращается для NaN и Inf
	ErrNotFinite = errors.New("value must be a finite number")

	// ErrThresholdOutOfRange возвращается для порога вне [0, 1]
	ErrThresholdOutOfRange = errors.New("threshold must be in range [0, 1]")

	// ErrEmptySubscriberID возвращается для пустого идентификатора подписчика
	ErrEmptySubscriberID = errors.New("subscriber id must not be empty")
)

// assetPattern - тикер: 1-12 букв/цифр (BTC, ETH, SOL, 1INCH)
var assetPattern = regexp.MustCompile(`^[A-Z0-9]{1,12}$`)

// ValidateAsset проверяет тикер актива.
//
// Тикер приводится к верхнему регистру до проверки, допустимы
// только буквы и цифры длиной до 12 символов.
func ValidateAsset(asset string) error {
	if strings.TrimSpace(asset) == "" {
		return ErrEmptyAsset
	}
	if !assetPattern.MatchString(strings.ToUpper(asset)) {
		return fmt.Errorf("%w: %q", ErrInvalidAssetFormat, asset)
	}
	return nil
}

// ValidatePositionSize проверяет размер позиции.
//
// Ноль и отрицательные значения допустимы (шорт или пустая позиция),
// отклоняются только NaN и Inf.
func ValidatePositionSize(size float64) error {
	if math.IsNaN(size) || math.IsInf(size, 0) {
		return fmt.Errorf("position size: %w", ErrNotFinite)
	}
	return nil
}

// ValidateThreshold проверяет порог в диапазоне [0, 1].
//
// Границы включительно: 0 означает алерт на любое отклонение,
// 1 фактически отключает проверку.
func ValidateThreshold(threshold float64) error {
	if math.IsNaN(threshold) || math.IsInf(threshold, 0) {
		return fmt.Errorf("threshold: %w", ErrNotFinite)
	}
	if threshold < 0 || threshold > 1 {
		return fmt.Errorf("%w: got %v", ErrThresholdOutOfRange, threshold)
	}
	return nil
}

// ValidateSubscriberID проверяет идентификатор подписчика.
func ValidateSubscriberID(id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrEmptySubscriberID
	}
	return nil
}

// IsValidAsset - булева обёртка над ValidateAsset
func IsValidAsset(asset string) bool {
	return ValidateAsset(asset) == nil
}

// NormalizeAsset приводит тикер к каноническому виду (верхний регистр,
// без окружающих пробелов)
func NormalizeAsset(asset string) string {
	return strings.ToUpper(strings.TrimSpace(asset))
}

// ============================================================
// Накопление ошибок валидации
// ============================================================

// ValidationError - одна ошибка валидации с именем поля
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors накапливает ошибки по нескольким полям
type ValidationErrors []ValidationError

// Add добавляет ошибку с текстовым описанием
func (v *ValidationErrors) Add(field, message string) {
	*v = append(*v, ValidationError{Field: field, Message: message})
}

// AddError добавляет ошибку, игнорируя nil
func (v *ValidationErrors) AddError(field string, err error) {
	if err == nil {
		return
	}
	v.Add(field, err.Error())
}

// HasErrors проверяет наличие накопленных ошибок
func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

// Error объединяет все ошибки в одну строку
func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, e := range v {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "; ")
}
