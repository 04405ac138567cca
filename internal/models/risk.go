package models

import "time"

// RiskSnapshot представляет моментальную оценку риска по активу
//
// Снимок создается риск-моделью на каждом тике мониторинга и
// сохраняется как "последний известный" для актива. Читатели
// всегда получают либо целый снимок, либо ничего.
type RiskSnapshot struct {
	Asset       string    `json:"asset"`
	Delta       float64   `json:"delta"`      // чувствительность к цене, [-0.2..0.2]
	Gamma       float64   `json:"gamma"`      // скорость изменения delta, [0.01..0.05]
	Theta       float64   `json:"theta"`      // временной распад, [-0.001..0.001]
	Vega        float64   `json:"vega"`       // чувствительность к волатильности, [0.005..0.015]
	VaR         float64   `json:"var"`        // value-at-risk, clamp в [0.01..0.2]
	Price       float64   `json:"price"`      // цена на момент оценки
	Volatility  float64   `json:"volatility"` // оценка волатильности
	Liquidity   float64   `json:"liquidity"`  // скор ликвидности, [80..95]
	EvaluatedAt time.Time `json:"evaluated_at"`
}
