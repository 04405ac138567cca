package marketdata

import (
	"context"
	"math"
	"math/rand"
	"sync"
)

// Базовые цены симулятора. Разброс подобран так, чтобы
// последовательные тики давали правдоподобные колебания.
var basePrices = map[string]struct {
	Price  float64
	Spread float64
}{
	"BTC": {Price: 62000, Spread: 500},
	"ETH": {Price: 3400, Spread: 50},
	"SOL": {Price: 120, Spread: 2},
}

// Для неизвестных активов: базовая цена 1000 с разбросом ±10%
const (
	unknownBasePrice  = 1000.0
	unknownSpreadFrac = 0.1
)

// SimulatedProvider - симулятор рыночных данных
//
// Используется в dev-режиме и в тестах вместо реального подключения
// к бирже. Генерирует цены вокруг фиксированных базовых уровней,
// волатильность в [0.01..0.05) и ликвидность в [80..95).
//
// FailureRate позволяет воспроизводимо проверять обработку
// недоступности данных: доля вызовов завершается ErrDataUnavailable.
type SimulatedProvider struct {
	mu  sync.Mutex
	rng *rand.Rand

	// Доля вызовов, завершающихся ErrDataUnavailable, [0..1]
	FailureRate float64
}

// NewSimulatedProvider создает симулятор с заданным seed.
// Одинаковый seed дает воспроизводимую последовательность значений.
func NewSimulatedProvider(seed int64) *SimulatedProvider {
	return &SimulatedProvider{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GetPrice возвращает симулированную цену актива
func (p *SimulatedProvider) GetPrice(ctx context.Context, asset string) (float64, error) {
	if err := p.checkAvailable(ctx); err != nil {
		return 0, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	base, ok := basePrices[asset]
	if !ok {
		base.Price = unknownBasePrice
		base.Spread = unknownBasePrice * unknownSpreadFrac
	}

	// Равномерный разброс вокруг базовой цены
	return base.Price + (p.rng.Float64()*2-1)*base.Spread, nil
}

// GetVolatility возвращает симулированную волатильность в [0.01..0.05)
func (p *SimulatedProvider) GetVolatility(ctx context.Context, asset string) (float64, error) {
	if err := p.checkAvailable(ctx); err != nil {
		return 0, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return 0.01 + p.rng.Float64()*0.04, nil
}

// GetLiquidity возвращает скор ликвидности в [80..95), целочисленный
func (p *SimulatedProvider) GetLiquidity(ctx context.Context, asset string) (float64, error) {
	if err := p.checkAvailable(ctx); err != nil {
		return 0, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return math.Trunc(80 + p.rng.Float64()*15), nil
}

// checkAvailable проверяет отмену контекста и симулирует сбой данных
func (p *SimulatedProvider) checkAvailable(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.FailureRate > 0 && p.rng.Float64() < p.FailureRate {
		return ErrDataUnavailable
	}
	return nil
}

var _ Provider = (*SimulatedProvider)(nil)
