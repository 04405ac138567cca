package bot

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"hedgebot/internal/marketdata"
	"hedgebot/internal/models"
	"hedgebot/pkg/utils"
)

// Границы оценок риск-модели
const (
	deltaBound = 0.2   // delta ∈ [-0.2, 0.2]
	gammaMin   = 0.01  // gamma ∈ [0.01, 0.05]
	gammaMax   = 0.05
	thetaBound = 0.001 // theta ∈ [-0.001, 0.001]
	vegaMin    = 0.005 // vega ∈ [0.005, 0.015]
	vegaMax    = 0.015
	varMin     = 0.01  // clamp VaR снизу
	varMax     = 0.2   // clamp VaR сверху
)

// RiskModel - подключаемая стратегия оценки риска
//
// Монитор-цикл и сервисы зависят только от этого интерфейса.
// Реализации обязаны быть потокобезопасными: Evaluate вызывается
// из цикла мониторинга и из API (ручной пересчет) одновременно.
type RiskModel interface {
	// Evaluate оценивает риск позиции по активу.
	// Возвращает снимок риска или ошибку, если рыночные данные
	// недоступны (marketdata.ErrDataUnavailable в цепочке).
	Evaluate(ctx context.Context, asset string, positionSize float64) (models.RiskSnapshot, error)
}

// StochasticModel - референсная реализация риск-модели
//
// Greeks сэмплируются из фиксированных диапазонов, VaR выводится
// из delta и размера позиции. Любая недоступность рыночных данных
// означает отсутствие снимка целиком - частичных оценок не бывает.
type StochasticModel struct {
	provider marketdata.Provider

	mu  sync.Mutex
	rng *rand.Rand

	// Переопределяется в тестах
	now func() time.Time
}

// NewStochasticModel создает риск-модель поверх провайдера данных
func NewStochasticModel(provider marketdata.Provider, seed int64) *StochasticModel {
	return &StochasticModel{
		provider: provider,
		rng:      rand.New(rand.NewSource(seed)),
		now:      time.Now,
	}
}

// Evaluate оценивает риск позиции по активу
func (m *StochasticModel) Evaluate(ctx context.Context, asset string, positionSize float64) (models.RiskSnapshot, error) {
	price, err := m.provider.GetPrice(ctx, asset)
	if err != nil {
		return models.RiskSnapshot{}, fmt.Errorf("get price for %s: %w", asset, err)
	}

	volatility, err := m.provider.GetVolatility(ctx, asset)
	if err != nil {
		return models.RiskSnapshot{}, fmt.Errorf("get volatility for %s: %w", asset, err)
	}

	liquidity, err := m.provider.GetLiquidity(ctx, asset)
	if err != nil {
		return models.RiskSnapshot{}, fmt.Errorf("get liquidity for %s: %w", asset, err)
	}

	m.mu.Lock()
	delta := (m.rng.Float64()*2 - 1) * deltaBound
	gamma := gammaMin + m.rng.Float64()*(gammaMax-gammaMin)
	theta := (m.rng.Float64()*2 - 1) * thetaBound
	vega := vegaMin + m.rng.Float64()*(vegaMax-vegaMin)
	m.mu.Unlock()

	return models.RiskSnapshot{
		Asset:       asset,
		Delta:       delta,
		Gamma:       gamma,
		Theta:       theta,
		Vega:        vega,
		VaR:         utils.Clamp(delta*positionSize*0.5, varMin, varMax),
		Price:       price,
		Volatility:  volatility,
		Liquidity:   liquidity,
		EvaluatedAt: m.now().UTC(),
	}, nil
}

var _ RiskModel = (*StochasticModel)(nil)
