package marketdata

import (
	"context"
	"errors"
)

// Ошибки провайдера рыночных данных
var (
	// ErrDataUnavailable возвращается когда данные по активу временно
	// недоступны. Вызывающий код трактует это как transient-ошибку:
	// оценка риска на этом тике пропускается, мониторинг продолжается.
	ErrDataUnavailable = errors.New("market data unavailable")
)

// Provider - источник рыночных данных для оценки риска
//
// Любой вызов может завершиться ErrDataUnavailable. Реализации
// обязаны уважать ctx (таймаут на вызов задает вызывающая сторона).
type Provider interface {
	// GetPrice возвращает текущую цену актива
	GetPrice(ctx context.Context, asset string) (float64, error)

	// GetVolatility возвращает оценку волатильности актива
	GetVolatility(ctx context.Context, asset string) (float64, error)

	// GetLiquidity возвращает скор ликвидности актива
	GetLiquidity(ctx context.Context, asset string) (float64, error)
}
