package bot

import (
	"context"
	"sync"

	"hedgebot/internal/marketdata"
	"hedgebot/internal/models"
)

// ============================================================
// Моки для тестов пакета bot
// ============================================================

// fakeProvider - провайдер рыночных данных с фиксированными значениями
type fakeProvider struct {
	price      float64
	volatility float64
	liquidity  float64

	priceErr      error
	volatilityErr error
	liquidityErr  error

	mu         sync.Mutex
	priceCalls int
}

func (f *fakeProvider) GetPrice(ctx context.Context, asset string) (float64, error) {
	f.mu.Lock()
	f.priceCalls++
	f.mu.Unlock()

	if f.priceErr != nil {
		return 0, f.priceErr
	}
	return f.price, nil
}

func (f *fakeProvider) GetVolatility(ctx context.Context, asset string) (float64, error) {
	if f.volatilityErr != nil {
		return 0, f.volatilityErr
	}
	return f.volatility, nil
}

func (f *fakeProvider) GetLiquidity(ctx context.Context, asset string) (float64, error) {
	if f.liquidityErr != nil {
		return 0, f.liquidityErr
	}
	return f.liquidity, nil
}

var _ marketdata.Provider = (*fakeProvider)(nil)

// fakeModel - детерминированная риск-модель.
// Возвращает заранее заданные снимки по активам либо ошибку.
type fakeModel struct {
	mu        sync.Mutex
	snapshots map[string]models.RiskSnapshot
	errs      map[string]error
	calls     int
}

func newFakeModel() *fakeModel {
	return &fakeModel{
		snapshots: make(map[string]models.RiskSnapshot),
		errs:      make(map[string]error),
	}
}

func (f *fakeModel) setSnapshot(asset string, snap models.RiskSnapshot) {
	f.mu.Lock()
	snap.Asset = asset
	f.snapshots[asset] = snap
	delete(f.errs, asset)
	f.mu.Unlock()
}

func (f *fakeModel) setError(asset string, err error) {
	f.mu.Lock()
	f.errs[asset] = err
	f.mu.Unlock()
}

func (f *fakeModel) Evaluate(ctx context.Context, asset string, positionSize float64) (models.RiskSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if err, ok := f.errs[asset]; ok {
		return models.RiskSnapshot{}, err
	}
	return f.snapshots[asset], nil
}

var _ RiskModel = (*fakeModel)(nil)

// recordingNotifier - notifier, запоминающий все отправленные
// алерты и статусы. sendErr позволяет симулировать сбой доставки.
type recordingNotifier struct {
	mu       sync.Mutex
	alerts   []Alert
	statuses []string
	sendErr  error
}

func (n *recordingNotifier) SendAlert(alert Alert) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.sendErr != nil {
		return n.sendErr
	}
	n.alerts = append(n.alerts, alert)
	return nil
}

func (n *recordingNotifier) SendStatus(subscriberID, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.sendErr != nil {
		return n.sendErr
	}
	n.statuses = append(n.statuses, message)
	return nil
}

func (n *recordingNotifier) alertCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.alerts)
}

func (n *recordingNotifier) lastAlert() Alert {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.alerts[len(n.alerts)-1]
}

var _ Notifier = (*recordingNotifier)(nil)
